package repository

import (
	"context"

	"zoovio-backend/internal/models"

	"gorm.io/gorm"
)

type AuditRepo interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

type auditRepo struct{ db *gorm.DB }

func NewAuditRepo(db *gorm.DB) AuditRepo { return &auditRepo{db: db} }

func (r *auditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
