package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"hcp-visit-tracker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisits_RequireAuthentication(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/visits", "/api/visits/summary", "/api/visits/export", "/api/visits/export.xlsx"} {
		w := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.JSONEq(t, `{"message":"Authentication token missing."}`, w.Body.String(), path)
	}

	w := s.do(t, http.MethodGet, "/api/visits", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Invalid authentication token."}`, w.Body.String())
}

func TestListVisits(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, s.rep)

	w := s.do(t, http.MethodGet, "/api/visits?status=completed&territoryId="+fmt.Sprint(s.fixture.North.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page service.VisitPage
	decode(t, w, &page)

	assert.Equal(t, int64(2), page.Meta.Total)
	assert.Equal(t, int64(1), page.Meta.TotalPages)
	assert.Equal(t, []string{"completed"}, page.Meta.Filters.Status)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "2024-05-10", page.Data[0].VisitDate)
	assert.Equal(t, "2024-05-09", page.Data[1].VisitDate)
	for _, record := range page.Data {
		require.NotNil(t, record.Territory)
		assert.Equal(t, "N", record.Territory.Code)
	}
}

func TestListVisits_NullFiltersInMeta(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/visits", s.tokenFor(t, s.rep), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Meta struct {
			Page          int                    `json:"page"`
			PageSize      int                    `json:"pageSize"`
			SortBy        string                 `json:"sortBy"`
			SortDirection string                 `json:"sortDirection"`
			Filters       map[string]interface{} `json:"filters"`
		} `json:"meta"`
	}
	decode(t, w, &body)

	assert.Equal(t, 1, body.Meta.Page)
	assert.Equal(t, 25, body.Meta.PageSize)
	assert.Equal(t, "visitDate", body.Meta.SortBy)
	assert.Equal(t, "desc", body.Meta.SortDirection)
	for _, key := range []string{"status", "repId", "hcpId", "territoryId", "dateFrom", "dateTo", "q"} {
		value, ok := body.Meta.Filters[key]
		assert.True(t, ok, key)
		assert.Nil(t, value, key)
	}
}

func TestListVisits_InvalidQuery(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, s.rep)

	tests := []struct {
		query  string
		errors []string
	}{
		{"page=0", []string{"page must be a positive integer."}},
		{"pageSize=101", []string{"pageSize must be less than or equal to 100."}},
		{"sortDirection=sideways", []string{`sortDirection must be either "asc" or "desc".`}},
		{"status=done&repId=abc", []string{
			"status must be one of: scheduled, completed, cancelled",
			"repId must contain integer identifiers.",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			for _, path := range []string{"/api/visits", "/api/visits/summary", "/api/visits/export"} {
				w := s.do(t, http.MethodGet, path+"?"+tt.query, token, nil)
				require.Equal(t, http.StatusBadRequest, w.Code, path)

				var body struct {
					Message string   `json:"message"`
					Errors  []string `json:"errors"`
				}
				decode(t, w, &body)
				assert.Equal(t, "Invalid query parameters.", body.Message)
				assert.Equal(t, tt.errors, body.Errors)
			}
		})
	}
}

func TestGetSummary(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/visits/summary?status=completed", s.tokenFor(t, s.rep), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data service.VisitSummary `json:"data"`
	}
	decode(t, w, &body)

	assert.Equal(t, int64(2), body.Data.TotalVisits)
	assert.Equal(t, int64(2), body.Data.CompletedVisits)
	assert.Zero(t, body.Data.ScheduledVisits)
	assert.Zero(t, body.Data.CancelledVisits)
	assert.Equal(t, 47.5, body.Data.AverageDurationMinutes)
	assert.Equal(t, int64(95), body.Data.TotalDurationMinutes)
	require.NotNil(t, body.Data.LastVisitDate)
	assert.Equal(t, "2024-05-10", *body.Data.LastVisitDate)
}

func TestGetSummary_NoMatches(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/visits/summary?repId=9999", s.tokenFor(t, s.rep), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{
		"totalVisits":0,"completedVisits":0,"scheduledVisits":0,"cancelledVisits":0,
		"uniqueHcps":0,"uniqueReps":0,"uniqueTerritories":0,
		"averageDurationMinutes":0,"totalDurationMinutes":0,"lastVisitDate":null}}`, w.Body.String())
}

func TestExportCSV(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/visits/export?repId="+fmt.Sprint(s.fixture.RepOne.ID), s.tokenFor(t, s.rep), nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Equal(t, `attachment; filename="visits.csv"`, w.Header().Get("Content-Disposition"))

	rows, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, service.VisitExportHeader, rows[0])
	assert.Equal(t, "2024-05-10", rows[1][1])
	assert.Equal(t, "2024-05-09", rows[2][1])
}

func TestExportXLSX(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/visits/export.xlsx", s.tokenFor(t, s.rep), nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="visits.xlsx"`, w.Header().Get("Content-Disposition"))
	// xlsx is a zip archive
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"))
}
