package visitquery

import "strings"

// Field names a filterable or sortable value of a visit, including values reached
// through the joined HCP, sales rep and territory records. Storage backends map
// fields to their own column names.
type Field string

const (
	FieldID              Field = "id"
	FieldStatus          Field = "status"
	FieldRepID           Field = "repId"
	FieldHcpID           Field = "hcpId"
	FieldTerritoryID     Field = "territoryId"
	FieldVisitDate       Field = "visitDate"
	FieldDurationMinutes Field = "durationMinutes"
	FieldHcpName         Field = "hcpName"
	FieldHcpAreaTag      Field = "hcpAreaTag"
	FieldRepName         Field = "repName"
	FieldTerritoryName   Field = "territoryName"

	// FieldSearch keys the free-text node, which spans several fields
	FieldSearch Field = "q"
)

// SearchFields are the joined name columns matched by free-text search
var SearchFields = []Field{FieldHcpName, FieldHcpAreaTag, FieldRepName, FieldTerritoryName}

// Node is one conjunct of a Predicate: Equals, In, Range or SubstringAny
type Node interface {
	target() Field
}

// Equals matches rows whose field equals Value
type Equals struct {
	Field Field
	Value any
}

// In matches rows whose field is one of Values
type In struct {
	Field  Field
	Values []any
}

// Range matches rows whose field lies within the inclusive bounds; an empty bound is open
type Range struct {
	Field Field
	From  string
	To    string
}

// SubstringAny matches rows where any of Fields contains Term, ignoring case.
// Term is stored lower-cased; backends lower-case the column side themselves.
type SubstringAny struct {
	Fields []Field
	Term   string
}

func (n Equals) target() Field       { return n.Field }
func (n In) target() Field           { return n.Field }
func (n Range) target() Field        { return n.Field }
func (n SubstringAny) target() Field { return FieldSearch }

// Contains reports whether v satisfies a membership node (Equals or In)
func Contains(n Node, v any) bool {
	switch node := n.(type) {
	case Equals:
		return node.Value == v
	case In:
		for _, candidate := range node.Values {
			if candidate == v {
				return true
			}
		}
	}
	return false
}

// Predicate is a conjunction of nodes with at most one node per field.
// Its methods return copies, so a predicate can be shared between queries.
type Predicate struct {
	nodes []Node
}

// Nodes returns the conjuncts in build order
func (p Predicate) Nodes() []Node {
	out := make([]Node, len(p.nodes))
	copy(out, p.nodes)
	return out
}

// IsEmpty reports whether the predicate matches every row
func (p Predicate) IsEmpty() bool {
	return len(p.nodes) == 0
}

// Node returns the conjunct constraining f, if any
func (p Predicate) Node(f Field) (Node, bool) {
	for _, n := range p.nodes {
		if n.target() == f {
			return n, true
		}
	}
	return nil, false
}

// Without returns the predicate minus any conjunct on f
func (p Predicate) Without(f Field) Predicate {
	out := Predicate{nodes: make([]Node, 0, len(p.nodes))}
	for _, n := range p.nodes {
		if n.target() != f {
			out.nodes = append(out.nodes, n)
		}
	}
	return out
}

// And returns the predicate with n added, replacing an existing conjunct on the same field
func (p Predicate) And(n Node) Predicate {
	out := p.Without(n.target())
	out.nodes = append(out.nodes, n)
	return out
}

// BuildPredicate compiles a FilterSpec. A filter with one value becomes Equals,
// several values become In, and absent filters add nothing.
func BuildPredicate(spec FilterSpec) Predicate {
	var p Predicate

	p = p.withMembership(FieldStatus, stringsToAny(spec.Status))
	p = p.withMembership(FieldRepID, idsToAny(spec.RepID))
	p = p.withMembership(FieldHcpID, idsToAny(spec.HcpID))
	p = p.withMembership(FieldTerritoryID, idsToAny(spec.TerritoryID))

	if spec.DateFrom != "" || spec.DateTo != "" {
		p = p.And(Range{Field: FieldVisitDate, From: spec.DateFrom, To: spec.DateTo})
	}

	if term := strings.ToLower(strings.TrimSpace(spec.Query)); term != "" {
		fields := make([]Field, len(SearchFields))
		copy(fields, SearchFields)
		p = p.And(SubstringAny{Fields: fields, Term: term})
	}

	return p
}

func (p Predicate) withMembership(f Field, values []any) Predicate {
	switch len(values) {
	case 0:
		return p
	case 1:
		return p.And(Equals{Field: f, Value: values[0]})
	default:
		return p.And(In{Field: f, Values: values})
	}
}

func stringsToAny(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

func idsToAny(values []uint) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}
