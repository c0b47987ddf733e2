package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/homefix/internal/domain/contact"
	"github.com/BruksfildServices01/homefix/internal/models"
)

type ContactGormRepository struct {
	db *gorm.DB
}

func NewContactGormRepository(db *gorm.DB) *ContactGormRepository {
	return &ContactGormRepository{db: db}
}

func (r *ContactGormRepository) Create(ctx context.Context, m *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *ContactGormRepository) ListRecent(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	var out []models.ContactMessage
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

var _ contact.Repository = (*ContactGormRepository)(nil)
