package repository

import (
	"context"
	"errors"

	"hcp-visit-tracker/internal/models"

	"gorm.io/gorm"
)

var (
	ErrHcpNotFound  = errors.New("hcp not found")
	ErrDuplicateHcp = errors.New("hcp with the same name and area tag already exists")
)

type HcpRepository struct {
	db *gorm.DB
}

func NewHcpRepo(db *gorm.DB) *HcpRepository {
	return &HcpRepository{db: db}
}

// GetAllHcps retrieves every HCP ordered by name
func (r *HcpRepository) GetAllHcps(ctx context.Context) ([]models.Hcp, error) {
	var hcps []models.Hcp
	err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&hcps).Error
	return hcps, err
}

// GetHcpByID retrieves an HCP by ID
func (r *HcpRepository) GetHcpByID(ctx context.Context, id uint) (*models.Hcp, error) {
	var hcp models.Hcp
	err := r.db.WithContext(ctx).First(&hcp, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHcpNotFound
		}
		return nil, err
	}
	return &hcp, nil
}

// NameTaken reports whether another HCP already uses the (name, areaTag) pair.
// excludeID skips the record being updated; pass 0 on create.
func (r *HcpRepository) NameTaken(ctx context.Context, name, areaTag string, excludeID uint) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Hcp{}).
		Where("name = ? AND area_tag = ?", name, areaTag)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindMatchingHcp finds the first HCP sharing the email, the phone or the (name, areaTag) pair.
// Returns nil without error when nothing matches.
func (r *HcpRepository) FindMatchingHcp(ctx context.Context, hcp *models.Hcp) (*models.Hcp, error) {
	q := r.db.WithContext(ctx).Where("name = ? AND area_tag = ?", hcp.Name, hcp.AreaTag)
	if hcp.Email != nil {
		q = q.Or("email = ?", *hcp.Email)
	}
	if hcp.Phone != nil {
		q = q.Or("phone = ?", *hcp.Phone)
	}

	var existing models.Hcp
	err := q.Order("id ASC").First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &existing, nil
}

// CreateHcp creates a new HCP
func (r *HcpRepository) CreateHcp(ctx context.Context, hcp *models.Hcp) error {
	return translateDuplicate(r.db.WithContext(ctx).Create(hcp).Error)
}

// UpdateHcp saves every column of an existing HCP
func (r *HcpRepository) UpdateHcp(ctx context.Context, hcp *models.Hcp) error {
	return translateDuplicate(r.db.WithContext(ctx).Save(hcp).Error)
}

// DeleteHcp removes an HCP by ID
func (r *HcpRepository) DeleteHcp(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Hcp{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrHcpNotFound
	}
	return nil
}

// translateDuplicate maps the dialect's unique violation onto ErrDuplicateHcp.
// Requires gorm.Config.TranslateError.
func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateHcp
	}
	return err
}
