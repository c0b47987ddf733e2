package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/homefix/internal/domain/account"
	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/models"
)

type AccountGormRepository struct {
	db *gorm.DB
}

func NewAccountGormRepository(db *gorm.DB) *AccountGormRepository {
	return &AccountGormRepository{db: db}
}

func (r *AccountGormRepository) FindByEmail(
	ctx context.Context,
	email string,
) (*models.Account, error) {

	var a models.Account
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&a).Error; err != nil {
		return nil, notFound(err, account.ErrNotFound)
	}
	return &a, nil
}

func (r *AccountGormRepository) Create(
	ctx context.Context,
	a *models.Account,
) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return httperr.ErrBusiness("email_already_registered")
		}
		return err
	}
	return nil
}

func (r *AccountGormRepository) List(ctx context.Context) ([]models.Account, error) {
	var out []models.Account
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

var _ account.Repository = (*AccountGormRepository)(nil)
