package repository

import (
	"context"

	"hcp-visit-tracker/internal/models"

	"gorm.io/gorm"
)

// LookupRepository serves the reference lists behind the dashboard filters
type LookupRepository struct {
	db *gorm.DB
}

func NewLookupRepo(db *gorm.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

// GetAllTerritories retrieves every territory ordered by name
func (r *LookupRepository) GetAllTerritories(ctx context.Context) ([]models.Territory, error) {
	var territories []models.Territory
	err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&territories).Error
	return territories, err
}

// GetAllSalesReps retrieves every sales rep with its territory, ordered by name
func (r *LookupRepository) GetAllSalesReps(ctx context.Context) ([]models.SalesRep, error) {
	var reps []models.SalesRep
	err := r.db.WithContext(ctx).
		Preload("Territory").
		Order("name ASC").
		Order("id ASC").
		Find(&reps).Error
	return reps, err
}
