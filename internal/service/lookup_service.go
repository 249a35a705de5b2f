package service

import (
	"context"

	"hcp-visit-tracker/internal/models"
	"hcp-visit-tracker/internal/repository"
)

// LookupService serves territory and rep lists for the dashboard filters
type LookupService struct {
	lookupRepo *repository.LookupRepository
}

func NewLookupService(lookupRepo *repository.LookupRepository) *LookupService {
	return &LookupService{lookupRepo: lookupRepo}
}

func (s *LookupService) GetTerritories(ctx context.Context) ([]models.Territory, error) {
	return s.lookupRepo.GetAllTerritories(ctx)
}

func (s *LookupService) GetSalesReps(ctx context.Context) ([]models.SalesRep, error) {
	return s.lookupRepo.GetAllSalesReps(ctx)
}
