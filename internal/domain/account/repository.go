package account

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/homefix/internal/models"
)

var ErrNotFound = errors.New("account: not found")

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, a *models.Account) error
	List(ctx context.Context) ([]models.Account, error)
}
