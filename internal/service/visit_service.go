package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"hcp-visit-tracker/internal/models"
	"hcp-visit-tracker/internal/repository"
	"hcp-visit-tracker/internal/visitquery"

	"golang.org/x/sync/errgroup"
)

type VisitService struct {
	visitRepo *repository.VisitRepository
}

func NewVisitService(visitRepo *repository.VisitRepository) *VisitService {
	return &VisitService{
		visitRepo: visitRepo,
	}
}

// VisitRecord is the listing view of a visit with its relations embedded
type VisitRecord struct {
	ID              uint              `json:"id"`
	VisitDate       string            `json:"visitDate"`
	Status          string            `json:"status"`
	DurationMinutes int               `json:"durationMinutes"`
	Notes           *string           `json:"notes"`
	Rep             *RepSummary       `json:"rep"`
	Hcp             *HcpSummary       `json:"hcp"`
	Territory       *TerritorySummary `json:"territory"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

type RepSummary struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

type HcpSummary struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	AreaTag   string  `json:"areaTag"`
	Specialty string  `json:"specialty"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
}

type TerritorySummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// VisitPage is one page of the listing plus its metadata
type VisitPage struct {
	Data []VisitRecord `json:"data"`
	Meta PageMeta      `json:"meta"`
}

type PageMeta struct {
	Page          int                      `json:"page"`
	PageSize      int                      `json:"pageSize"`
	Total         int64                    `json:"total"`
	TotalPages    int64                    `json:"totalPages"`
	SortBy        visitquery.SortField     `json:"sortBy"`
	SortDirection visitquery.SortDirection `json:"sortDirection"`
	Filters       AppliedFilters           `json:"filters"`
}

// AppliedFilters echoes the filters of the request; absent filters serialize as null
type AppliedFilters struct {
	Status      []string `json:"status"`
	RepID       []uint   `json:"repId"`
	HcpID       []uint   `json:"hcpId"`
	TerritoryID []uint   `json:"territoryId"`
	DateFrom    *string  `json:"dateFrom"`
	DateTo      *string  `json:"dateTo"`
	Q           *string  `json:"q"`
}

// VisitSummary aggregates every visit matching a filter
type VisitSummary struct {
	TotalVisits            int64   `json:"totalVisits"`
	CompletedVisits        int64   `json:"completedVisits"`
	ScheduledVisits        int64   `json:"scheduledVisits"`
	CancelledVisits        int64   `json:"cancelledVisits"`
	UniqueHcps             int64   `json:"uniqueHcps"`
	UniqueReps             int64   `json:"uniqueReps"`
	UniqueTerritories      int64   `json:"uniqueTerritories"`
	AverageDurationMinutes float64 `json:"averageDurationMinutes"`
	TotalDurationMinutes   int64   `json:"totalDurationMinutes"`
	LastVisitDate          *string `json:"lastVisitDate"`
}

// List returns one page of matching visits ordered by the requested field, then id
func (s *VisitService) List(ctx context.Context, spec visitquery.FilterSpec) (*VisitPage, error) {
	predicate := visitquery.BuildPredicate(spec)

	total, err := s.visitRepo.Count(ctx, predicate)
	if err != nil {
		return nil, fmt.Errorf("failed to count visits: %w", err)
	}

	visits, err := s.visitRepo.FindVisits(ctx, predicate, orderFor(spec), spec.PageSize, spec.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}

	records := make([]VisitRecord, 0, len(visits))
	for i := range visits {
		records = append(records, toVisitRecord(&visits[i]))
	}

	return &VisitPage{
		Data: records,
		Meta: PageMeta{
			Page:          spec.Page,
			PageSize:      spec.PageSize,
			Total:         total,
			TotalPages:    totalPages(total, spec.PageSize),
			SortBy:        spec.SortBy,
			SortDirection: spec.SortDirection,
			Filters:       appliedFilters(spec),
		},
	}, nil
}

// Summarize computes counts and duration statistics for the filtered visits.
// Status counts drop the status filter and re-apply each status on its own; a status
// the filter excludes stays 0 and is never queried.
func (s *VisitService) Summarize(ctx context.Context, spec visitquery.FilterSpec) (*VisitSummary, error) {
	combined := visitquery.BuildPredicate(spec)

	var (
		summary VisitSummary
		stats   *repository.DurationStats
		last    models.Date
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.visitRepo.Count(gctx, combined)
		summary.TotalVisits = n
		return err
	})

	statusCounts := []struct {
		status string
		dest   *int64
	}{
		{models.VisitStatusCompleted, &summary.CompletedVisits},
		{models.VisitStatusScheduled, &summary.ScheduledVisits},
		{models.VisitStatusCancelled, &summary.CancelledVisits},
	}
	for _, sc := range statusCounts {
		sc := sc
		predicate, ok := statusPredicate(combined, sc.status)
		if !ok {
			continue
		}
		g.Go(func() error {
			n, err := s.visitRepo.Count(gctx, predicate)
			*sc.dest = n
			return err
		})
	}

	distinctCounts := []struct {
		field visitquery.Field
		dest  *int64
	}{
		{visitquery.FieldHcpID, &summary.UniqueHcps},
		{visitquery.FieldRepID, &summary.UniqueReps},
		{visitquery.FieldTerritoryID, &summary.UniqueTerritories},
	}
	for _, dc := range distinctCounts {
		dc := dc
		g.Go(func() error {
			n, err := s.visitRepo.CountDistinct(gctx, combined, dc.field)
			*dc.dest = n
			return err
		})
	}

	g.Go(func() error {
		var err error
		stats, err = s.visitRepo.DurationStats(gctx, combined)
		return err
	})

	g.Go(func() error {
		var err error
		last, err = s.visitRepo.LastVisitDate(gctx, combined)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to summarize visits: %w", err)
	}

	if stats.Average.Valid {
		summary.AverageDurationMinutes = math.Round(stats.Average.Float64*100) / 100
	}
	if stats.Total.Valid {
		summary.TotalDurationMinutes = int64(math.Round(stats.Total.Float64))
	}
	if last != "" {
		date := last.String()
		summary.LastVisitDate = &date
	}

	return &summary, nil
}

// statusPredicate narrows p to a single status. It reports false when the status
// filter already in p excludes that status, so the count is known to be 0.
func statusPredicate(p visitquery.Predicate, status string) (visitquery.Predicate, bool) {
	if node, ok := p.Node(visitquery.FieldStatus); ok && !visitquery.Contains(node, status) {
		return visitquery.Predicate{}, false
	}
	return p.Without(visitquery.FieldStatus).And(visitquery.Equals{Field: visitquery.FieldStatus, Value: status}), true
}

// exportVisits loads every matching visit in listing order
func (s *VisitService) exportVisits(ctx context.Context, spec visitquery.FilterSpec) ([]models.Visit, error) {
	visits, err := s.visitRepo.FindVisits(ctx, visitquery.BuildPredicate(spec), orderFor(spec), 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to export visits: %w", err)
	}
	return visits, nil
}

func orderFor(spec visitquery.FilterSpec) repository.VisitOrder {
	return repository.VisitOrder{
		Field:      spec.SortTarget(),
		Descending: spec.Descending(),
	}
}

func totalPages(total int64, pageSize int) int64 {
	if pageSize <= 0 || total == 0 {
		return 1
	}
	return (total + int64(pageSize) - 1) / int64(pageSize)
}

func appliedFilters(spec visitquery.FilterSpec) AppliedFilters {
	filters := AppliedFilters{
		DateFrom: optionalString(spec.DateFrom),
		DateTo:   optionalString(spec.DateTo),
		Q:        optionalString(spec.Query),
	}
	if len(spec.Status) > 0 {
		filters.Status = spec.Status
	}
	if len(spec.RepID) > 0 {
		filters.RepID = spec.RepID
	}
	if len(spec.HcpID) > 0 {
		filters.HcpID = spec.HcpID
	}
	if len(spec.TerritoryID) > 0 {
		filters.TerritoryID = spec.TerritoryID
	}
	return filters
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toVisitRecord(v *models.Visit) VisitRecord {
	record := VisitRecord{
		ID:              v.ID,
		VisitDate:       v.VisitDate.String(),
		Status:          v.Status,
		DurationMinutes: v.DurationMinutes,
		Notes:           v.Notes,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
	if v.Notes != nil && *v.Notes == "" {
		record.Notes = nil
	}
	if v.Rep != nil {
		record.Rep = &RepSummary{ID: v.Rep.ID, Name: v.Rep.Name, Email: v.Rep.Email}
	}
	if v.Hcp != nil {
		record.Hcp = &HcpSummary{
			ID:        v.Hcp.ID,
			Name:      v.Hcp.Name,
			AreaTag:   v.Hcp.AreaTag,
			Specialty: v.Hcp.Specialty,
			Phone:     v.Hcp.Phone,
			Email:     v.Hcp.Email,
		}
	}
	if v.Territory != nil {
		record.Territory = &TerritorySummary{ID: v.Territory.ID, Name: v.Territory.Name, Code: v.Territory.Code}
	}
	return record
}
