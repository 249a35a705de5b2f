// Package visitquery turns visit listing query parameters into a validated FilterSpec
// and an engine-agnostic Predicate shared by the listing, summary and export views.
package visitquery

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hcp-visit-tracker/internal/models"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// SortField is one of the enumerated fields a visit listing can be ordered by
type SortField string

const (
	SortByVisitDate       SortField = "visitDate"
	SortByStatus          SortField = "status"
	SortByDurationMinutes SortField = "durationMinutes"
	SortByHcpName         SortField = "hcpName"
	SortByRepName         SortField = "repName"
	SortByTerritoryName   SortField = "territoryName"
)

// sortTargets maps each sortable field to the predicate field holding its value
var sortTargets = map[SortField]Field{
	SortByVisitDate:       FieldVisitDate,
	SortByStatus:          FieldStatus,
	SortByDurationMinutes: FieldDurationMinutes,
	SortByHcpName:         FieldHcpName,
	SortByRepName:         FieldRepName,
	SortByTerritoryName:   FieldTerritoryName,
}

// SortDirection is asc or desc
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// FilterSpec is the validated form of the visit query parameters.
// It is built once per request by Parse and treated as read-only afterwards.
// Empty slices and empty strings mean the filter is absent.
type FilterSpec struct {
	Page          int
	PageSize      int
	SortBy        SortField
	SortDirection SortDirection
	Status        []string
	RepID         []uint
	HcpID         []uint
	TerritoryID   []uint
	DateFrom      string
	DateTo        string
	Query         string
}

// DefaultSpec returns the filters used when no parameters are supplied
func DefaultSpec() FilterSpec {
	return FilterSpec{
		Page:          DefaultPage,
		PageSize:      DefaultPageSize,
		SortBy:        SortByVisitDate,
		SortDirection: SortDesc,
	}
}

// Offset is the number of rows skipped before the requested page
func (s FilterSpec) Offset() int {
	return (s.Page - 1) * s.PageSize
}

// SortTarget is the predicate field the listing is ordered by
func (s FilterSpec) SortTarget() Field {
	if f, ok := sortTargets[s.SortBy]; ok {
		return f
	}
	return FieldVisitDate
}

// Descending reports whether the primary sort runs high to low
func (s FilterSpec) Descending() bool {
	return s.SortDirection != SortAsc
}

// Parse validates raw query values. Every field is checked independently and all
// problems are returned together; the result is only meaningful when no errors are returned.
func Parse(values url.Values) (FilterSpec, []string) {
	spec := DefaultSpec()
	var errs []string

	if values.Has("page") {
		page, err := strconv.Atoi(strings.TrimSpace(values.Get("page")))
		if err != nil || page < 1 {
			errs = append(errs, "page must be a positive integer.")
		} else {
			spec.Page = page
		}
	}

	if values.Has("pageSize") {
		size, err := strconv.Atoi(strings.TrimSpace(values.Get("pageSize")))
		switch {
		case err != nil || size < 1:
			errs = append(errs, "pageSize must be a positive integer.")
		case size > MaxPageSize:
			errs = append(errs, fmt.Sprintf("pageSize must be less than or equal to %d.", MaxPageSize))
		default:
			spec.PageSize = size
		}
	}

	if values.Has("sortBy") {
		sortBy := SortField(values.Get("sortBy"))
		if _, ok := sortTargets[sortBy]; ok {
			spec.SortBy = sortBy
		} else {
			errs = append(errs, "sortBy contains an unsupported field.")
		}
	}

	if values.Has("sortDirection") {
		switch dir := SortDirection(strings.ToLower(strings.TrimSpace(values.Get("sortDirection")))); dir {
		case SortAsc, SortDesc:
			spec.SortDirection = dir
		default:
			errs = append(errs, `sortDirection must be either "asc" or "desc".`)
		}
	}

	if values.Has("status") {
		statuses := listValues(values["status"])
		for _, status := range statuses {
			if !models.IsValidVisitStatus(status) {
				errs = append(errs, "status must be one of: "+strings.Join(models.AllowedVisitStatuses, ", "))
				break
			}
		}
		spec.Status = statuses
	}

	spec.RepID = parseIDs(values, "repId", &errs)
	spec.HcpID = parseIDs(values, "hcpId", &errs)
	spec.TerritoryID = parseIDs(values, "territoryId", &errs)

	spec.DateFrom = parseDateParam(values, "dateFrom", &errs)
	spec.DateTo = parseDateParam(values, "dateTo", &errs)
	if spec.DateFrom != "" && spec.DateTo != "" && spec.DateFrom > spec.DateTo {
		errs = append(errs, "dateFrom must be on or before dateTo.")
	}

	if values.Has("q") {
		// a repeated q arrives as a list, which is not a search string
		if len(values["q"]) > 1 {
			errs = append(errs, "q must be a string.")
		} else {
			spec.Query = strings.TrimSpace(values.Get("q"))
		}
	}

	if len(errs) > 0 {
		return FilterSpec{}, errs
	}
	return spec, nil
}

// listValues flattens repeated and comma-joined values, dropping blanks
func listValues(raw []string) []string {
	var out []string
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// parseIDs keeps every positive integer in the list and reports at most one error for the field
func parseIDs(values url.Values, key string, errs *[]string) []uint {
	if !values.Has(key) {
		return nil
	}

	var ids []uint
	invalid := false
	for _, entry := range listValues(values[key]) {
		id, err := strconv.ParseUint(entry, 10, 32)
		if err != nil || id < 1 {
			invalid = true
			continue
		}
		ids = append(ids, uint(id))
	}

	if invalid {
		*errs = append(*errs, key+" must contain integer identifiers.")
	}
	return ids
}

func parseDateParam(values url.Values, key string, errs *[]string) string {
	if !values.Has(key) {
		return ""
	}
	date, ok := ParseDate(values.Get(key))
	if !ok {
		*errs = append(*errs, key+" must be a valid ISO-8601 date string.")
		return ""
	}
	return date
}

// ParseDate normalizes a calendar date or an RFC 3339 timestamp to YYYY-MM-DD (UTC)
func ParseDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(models.DateLayout, raw); err == nil {
		return t.Format(models.DateLayout), true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC().Format(models.DateLayout), true
	}
	return "", false
}
