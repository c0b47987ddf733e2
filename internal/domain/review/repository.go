package review

import (
	"context"

	"github.com/BruksfildServices01/homefix/internal/models"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Repository interface {
	// Create fails with httperr.ErrBusiness("already_reviewed") when the
	// booking already carries a review.
	Create(ctx context.Context, r *models.Review) error
	ListForCustomer(ctx context.Context, customerEmail string) ([]models.Review, error)
	ListForTechnician(ctx context.Context, technicianEmail string) ([]models.Review, error)
}
