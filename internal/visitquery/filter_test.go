package visitquery

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return values
}

func TestParse_Defaults(t *testing.T) {
	spec, errs := Parse(url.Values{})

	require.Empty(t, errs)
	assert.Equal(t, DefaultSpec(), spec)
	assert.Equal(t, 1, spec.Page)
	assert.Equal(t, 25, spec.PageSize)
	assert.Equal(t, SortByVisitDate, spec.SortBy)
	assert.Equal(t, SortDesc, spec.SortDirection)
	assert.Equal(t, 0, spec.Offset())
}

func TestParse_Pagination(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr string
		page    int
		size    int
	}{
		{name: "explicit values", query: "page=3&pageSize=10", page: 3, size: 10},
		{name: "max page size", query: "pageSize=100", page: 1, size: 100},
		{name: "page zero", query: "page=0", wantErr: "page must be a positive integer."},
		{name: "negative page", query: "page=-2", wantErr: "page must be a positive integer."},
		{name: "non numeric page", query: "page=abc", wantErr: "page must be a positive integer."},
		{name: "empty page", query: "page=", wantErr: "page must be a positive integer."},
		{name: "page size zero", query: "pageSize=0", wantErr: "pageSize must be a positive integer."},
		{name: "page size text", query: "pageSize=ten", wantErr: "pageSize must be a positive integer."},
		{name: "page size too large", query: "pageSize=101", wantErr: "pageSize must be less than or equal to 100."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, errs := Parse(mustQuery(t, tt.query))
			if tt.wantErr != "" {
				require.Len(t, errs, 1)
				assert.Equal(t, tt.wantErr, errs[0])
				return
			}
			require.Empty(t, errs)
			assert.Equal(t, tt.page, spec.Page)
			assert.Equal(t, tt.size, spec.PageSize)
		})
	}
}

func TestParse_Sorting(t *testing.T) {
	spec, errs := Parse(mustQuery(t, "sortBy=hcpName&sortDirection=ASC"))
	require.Empty(t, errs)
	assert.Equal(t, SortByHcpName, spec.SortBy)
	assert.Equal(t, SortAsc, spec.SortDirection)
	assert.Equal(t, FieldHcpName, spec.SortTarget())
	assert.False(t, spec.Descending())

	_, errs = Parse(mustQuery(t, "sortBy=notes"))
	assert.Equal(t, []string{"sortBy contains an unsupported field."}, errs)

	_, errs = Parse(mustQuery(t, "sortDirection=sideways"))
	assert.Equal(t, []string{`sortDirection must be either "asc" or "desc".`}, errs)
}

func TestParse_StatusList(t *testing.T) {
	spec, errs := Parse(mustQuery(t, "status=completed,scheduled&status=cancelled"))
	require.Empty(t, errs)
	assert.Equal(t, []string{"completed", "scheduled", "cancelled"}, spec.Status)

	_, errs = Parse(mustQuery(t, "status=completed,bogus,other"))
	assert.Equal(t, []string{"status must be one of: scheduled, completed, cancelled"}, errs)
}

func TestParse_IDListsAggregateErrorsPerField(t *testing.T) {
	values := mustQuery(t, "repId=1,abc,-3,0&repId=4&hcpId=7&territoryId=x")

	_, errs := Parse(values)

	assert.Equal(t, []string{
		"repId must contain integer identifiers.",
		"territoryId must contain integer identifiers.",
	}, errs)
}

func TestParse_IDListsCollectValidEntries(t *testing.T) {
	spec, errs := Parse(mustQuery(t, "repId=1, 2 ,&hcpId=9&territoryId=3&territoryId=4"))

	require.Empty(t, errs)
	assert.Equal(t, []uint{1, 2}, spec.RepID)
	assert.Equal(t, []uint{9}, spec.HcpID)
	assert.Equal(t, []uint{3, 4}, spec.TerritoryID)
}

func TestParse_Dates(t *testing.T) {
	spec, errs := Parse(mustQuery(t, "dateFrom=2024-05-01&dateTo=2024-05-31T23:00:00Z"))
	require.Empty(t, errs)
	assert.Equal(t, "2024-05-01", spec.DateFrom)
	assert.Equal(t, "2024-05-31", spec.DateTo)

	spec, errs = Parse(mustQuery(t, "dateFrom=2024-05-10&dateTo=2024-05-10"))
	require.Empty(t, errs)
	assert.Equal(t, spec.DateFrom, spec.DateTo)

	_, errs = Parse(mustQuery(t, "dateFrom=2024-13-01&dateTo=yesterday"))
	assert.Equal(t, []string{
		"dateFrom must be a valid ISO-8601 date string.",
		"dateTo must be a valid ISO-8601 date string.",
	}, errs)

	_, errs = Parse(mustQuery(t, "dateFrom=2024-06-01&dateTo=2024-05-01"))
	assert.Equal(t, []string{"dateFrom must be on or before dateTo."}, errs)
}

func TestParse_SearchTerm(t *testing.T) {
	spec, errs := Parse(mustQuery(t, "q=%20%20Alpha%20"))
	require.Empty(t, errs)
	assert.Equal(t, "Alpha", spec.Query)

	spec, errs = Parse(mustQuery(t, "q=%20%20"))
	require.Empty(t, errs)
	assert.Empty(t, spec.Query)

	_, errs = Parse(mustQuery(t, "q=a&q=b"))
	assert.Equal(t, []string{"q must be a string."}, errs)
}

func TestParse_AccumulatesIndependentErrors(t *testing.T) {
	spec, errs := Parse(mustQuery(t, "page=0&pageSize=500&sortBy=x&status=nope&hcpId=z&dateFrom=bad"))

	assert.Equal(t, FilterSpec{}, spec)
	assert.Equal(t, []string{
		"page must be a positive integer.",
		"pageSize must be less than or equal to 100.",
		"sortBy contains an unsupported field.",
		"status must be one of: scheduled, completed, cancelled",
		"hcpId must contain integer identifiers.",
		"dateFrom must be a valid ISO-8601 date string.",
	}, errs)
}
