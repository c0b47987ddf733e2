package contact

import (
	"context"

	"github.com/BruksfildServices01/homefix/internal/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.ContactMessage) error
	ListRecent(ctx context.Context, limit int) ([]models.ContactMessage, error)
}
