package booking

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/homefix/internal/models"
)

var ErrNotFound = errors.New("booking: not found")

type ListFilter struct {
	Status string
	Query  string
	Limit  int
	Offset int
}

type Repository interface {
	// -------- create / conflict --------
	CreateBooking(ctx context.Context, b *models.Booking) error

	AssertNoTimeConflict(
		ctx context.Context,
		technicianID string,
		date string,
		timeSlot string,
	) error

	// -------- state change --------
	GetBookingForCustomer(ctx context.Context, id uint, customerEmail string) (*models.Booking, error)
	GetBookingForTechnician(ctx context.Context, id uint, technicianEmail string) (*models.Booking, error)
	UpdateBooking(ctx context.Context, b *models.Booking) error

	// -------- listing --------
	ListForCustomer(ctx context.Context, customerEmail string) ([]models.Booking, error)
	ListForTechnician(ctx context.Context, technicianEmail string) ([]models.Booking, error)
	ListBookings(ctx context.Context, f ListFilter) ([]models.Booking, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
