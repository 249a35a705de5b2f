package repository

import (
	"context"
	"database/sql"
	"fmt"

	"hcp-visit-tracker/internal/models"
	"hcp-visit-tracker/internal/visitquery"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VisitRepository struct {
	db *gorm.DB
}

func NewVisitRepo(db *gorm.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

// VisitOrder describes the primary sort of a visit query; ties always fall back to id ascending
type VisitOrder struct {
	Field      visitquery.Field
	Descending bool
}

// DurationStats holds AVG and SUM of duration_minutes; both are invalid when no rows match
type DurationStats struct {
	Average sql.NullFloat64
	Total   sql.NullFloat64
}

// filtered starts a visits query joined to its relations and constrained by the predicate.
// Each visit references exactly one HCP, rep and territory, so the inner joins keep one row
// per visit; counts still use COUNT(DISTINCT ...) so they never depend on that.
func (r *VisitRepository) filtered(ctx context.Context, p visitquery.Predicate) (*gorm.DB, error) {
	exprs, err := compilePredicate(p)
	if err != nil {
		return nil, err
	}

	tx := r.db.WithContext(ctx).
		Model(&models.Visit{}).
		Joins("JOIN hcps ON hcps.id = visits.hcp_id").
		Joins("JOIN sales_reps ON sales_reps.id = visits.rep_id").
		Joins("JOIN territories ON territories.id = visits.territory_id")

	if len(exprs) > 0 {
		tx = tx.Clauses(clause.Where{Exprs: exprs})
	}
	return tx, nil
}

// FindVisits returns matching visits with HCP, rep and territory preloaded.
// A limit of zero returns every matching row.
func (r *VisitRepository) FindVisits(ctx context.Context, p visitquery.Predicate, order VisitOrder, limit, offset int) ([]models.Visit, error) {
	sortColumn, err := visitColumn(order.Field)
	if err != nil {
		return nil, err
	}

	tx, err := r.filtered(ctx, p)
	if err != nil {
		return nil, err
	}

	tx = tx.Select("visits.*").
		Order(clause.OrderByColumn{Column: sortColumn, Desc: order.Descending}).
		Order(clause.OrderByColumn{Column: visitColumns[visitquery.FieldID]}).
		Preload("Hcp").
		Preload("Rep").
		Preload("Territory")

	if limit > 0 {
		tx = tx.Limit(limit).Offset(offset)
	}

	var visits []models.Visit
	if err := tx.Find(&visits).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch visits: %w", err)
	}
	return visits, nil
}

// CountDistinct counts distinct values of field among matching visits
func (r *VisitRepository) CountDistinct(ctx context.Context, p visitquery.Predicate, field visitquery.Field) (int64, error) {
	col, err := qualifiedColumn(field)
	if err != nil {
		return 0, err
	}

	tx, err := r.filtered(ctx, p)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := tx.Select(fmt.Sprintf("COUNT(DISTINCT %s)", col)).Row().Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count visits by %s: %w", field, err)
	}
	return count, nil
}

// Count counts matching visits
func (r *VisitRepository) Count(ctx context.Context, p visitquery.Predicate) (int64, error) {
	return r.CountDistinct(ctx, p, visitquery.FieldID)
}

// DurationStats aggregates duration_minutes over matching visits
func (r *VisitRepository) DurationStats(ctx context.Context, p visitquery.Predicate) (*DurationStats, error) {
	tx, err := r.filtered(ctx, p)
	if err != nil {
		return nil, err
	}

	var stats DurationStats
	err = tx.Select("AVG(visits.duration_minutes), SUM(visits.duration_minutes)").
		Row().
		Scan(&stats.Average, &stats.Total)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate visit durations: %w", err)
	}
	return &stats, nil
}

// LastVisitDate returns the latest visit_date among matching visits, or "" when none match
func (r *VisitRepository) LastVisitDate(ctx context.Context, p visitquery.Predicate) (models.Date, error) {
	tx, err := r.filtered(ctx, p)
	if err != nil {
		return "", err
	}

	var last models.Date
	if err := tx.Select("MAX(visits.visit_date)").Row().Scan(&last); err != nil {
		return "", fmt.Errorf("failed to fetch last visit date: %w", err)
	}
	return last, nil
}
