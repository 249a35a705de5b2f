package repository

import (
	"fmt"

	"hcp-visit-tracker/internal/visitquery"

	"gorm.io/gorm/clause"
)

// visitColumns maps query fields onto the visits table and its joined relations.
// Every visit query joins hcps, sales_reps and territories under their table names.
var visitColumns = map[visitquery.Field]clause.Column{
	visitquery.FieldID:              {Table: "visits", Name: "id"},
	visitquery.FieldStatus:          {Table: "visits", Name: "status"},
	visitquery.FieldRepID:           {Table: "visits", Name: "rep_id"},
	visitquery.FieldHcpID:           {Table: "visits", Name: "hcp_id"},
	visitquery.FieldTerritoryID:     {Table: "visits", Name: "territory_id"},
	visitquery.FieldVisitDate:       {Table: "visits", Name: "visit_date"},
	visitquery.FieldDurationMinutes: {Table: "visits", Name: "duration_minutes"},
	visitquery.FieldHcpName:         {Table: "hcps", Name: "name"},
	visitquery.FieldHcpAreaTag:      {Table: "hcps", Name: "area_tag"},
	visitquery.FieldRepName:         {Table: "sales_reps", Name: "name"},
	visitquery.FieldTerritoryName:   {Table: "territories", Name: "name"},
}

func visitColumn(f visitquery.Field) (clause.Column, error) {
	col, ok := visitColumns[f]
	if !ok {
		return clause.Column{}, fmt.Errorf("no column for visit field %q", f)
	}
	return col, nil
}

// qualifiedColumn renders table.column for use inside aggregate select lists
func qualifiedColumn(f visitquery.Field) (string, error) {
	col, err := visitColumn(f)
	if err != nil {
		return "", err
	}
	return col.Table + "." + col.Name, nil
}

// compilePredicate turns each conjunct into one or more WHERE expressions
func compilePredicate(p visitquery.Predicate) ([]clause.Expression, error) {
	var exprs []clause.Expression
	for _, node := range p.Nodes() {
		compiled, err := compileNode(node)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, compiled...)
	}
	return exprs, nil
}

func compileNode(node visitquery.Node) ([]clause.Expression, error) {
	switch n := node.(type) {
	case visitquery.Equals:
		col, err := visitColumn(n.Field)
		if err != nil {
			return nil, err
		}
		return []clause.Expression{clause.Eq{Column: col, Value: n.Value}}, nil

	case visitquery.In:
		col, err := visitColumn(n.Field)
		if err != nil {
			return nil, err
		}
		return []clause.Expression{clause.IN{Column: col, Values: n.Values}}, nil

	case visitquery.Range:
		col, err := visitColumn(n.Field)
		if err != nil {
			return nil, err
		}
		var exprs []clause.Expression
		if n.From != "" {
			exprs = append(exprs, clause.Gte{Column: col, Value: n.From})
		}
		if n.To != "" {
			exprs = append(exprs, clause.Lte{Column: col, Value: n.To})
		}
		return exprs, nil

	case visitquery.SubstringAny:
		// LOWER on the column side too, so matching never depends on the collation
		pattern := "%" + n.Term + "%"
		matches := make([]clause.Expression, 0, len(n.Fields))
		for _, f := range n.Fields {
			col, err := visitColumn(f)
			if err != nil {
				return nil, err
			}
			matches = append(matches, clause.Expr{SQL: "LOWER(?) LIKE ?", Vars: []interface{}{col, pattern}})
		}
		return []clause.Expression{clause.Or(matches...)}, nil

	default:
		return nil, fmt.Errorf("unsupported predicate node %T", node)
	}
}
