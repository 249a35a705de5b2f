package repository

import (
	"context"

	"hcp-visit-tracker/internal/models"

	"gorm.io/gorm"
)

// Audit actions
const (
	AuditUserLogin = "user_login"
	AuditHcpCreate = "hcp_create"
	AuditHcpUpdate = "hcp_update"
	AuditHcpDelete = "hcp_delete"
	AuditHcpImport = "hcp_import"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateAuditLog creates a new audit log entry
func (r *AuditRepository) CreateAuditLog(ctx context.Context, userID *uint, action string, details string) error {
	entry := &models.AuditLog{
		UserID:  userID,
		Action:  action,
		Details: details,
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListAuditLogs returns the most recent entries for an action, newest first
func (r *AuditRepository) ListAuditLogs(ctx context.Context, action string, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := r.db.WithContext(ctx).
		Where("action = ?", action).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
