package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/homefix/internal/domain/review"
	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/models"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

func (r *ReviewGormRepository) Create(ctx context.Context, rv *models.Review) error {
	if err := r.db.WithContext(ctx).Create(rv).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return httperr.ErrBusiness("already_reviewed")
		}
		return err
	}
	return nil
}

func (r *ReviewGormRepository) ListForCustomer(
	ctx context.Context,
	customerEmail string,
) ([]models.Review, error) {

	var out []models.Review
	err := r.db.WithContext(ctx).
		Where("customer_email = ?", customerEmail).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *ReviewGormRepository) ListForTechnician(
	ctx context.Context,
	technicianEmail string,
) ([]models.Review, error) {

	var out []models.Review
	err := r.db.WithContext(ctx).
		Where("technician_email = ?", technicianEmail).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

var _ review.Repository = (*ReviewGormRepository)(nil)
