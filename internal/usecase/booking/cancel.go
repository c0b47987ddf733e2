package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BruksfildServices01/homefix/internal/audit"
	domain "github.com/BruksfildServices01/homefix/internal/domain/booking"
	"github.com/BruksfildServices01/homefix/internal/domain/session"
	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/models"
	"github.com/BruksfildServices01/homefix/internal/timezone"
)

type CancelBooking struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	timezone string
	now      func() time.Time
}

func NewCancelBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	tz string,
) *CancelBooking {
	return &CancelBooking{
		repo:     repo,
		audit:    audit,
		timezone: tz,
		now:      time.Now,
	}
}

// WithClock replaces the time source. Tests only.
func (uc *CancelBooking) WithClock(now func() time.Time) *CancelBooking {
	uc.now = now
	return uc
}

// Execute cancels one of the customer's own confirmed bookings.
func (uc *CancelBooking) Execute(
	ctx context.Context,
	customer session.User,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingForCustomer(ctx, bookingID, customer.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness("booking_not_found")
	}
	if err != nil {
		return nil, err
	}

	now := uc.now().In(timezone.Location(uc.timezone))
	if err := domain.Cancel(b, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorEmail: customer.Email,
		ActorRole:  customer.Role.String(),
		Action:     "booking_cancelled",
		Entity:     "booking",
		EntityID:   fmt.Sprint(b.ID),
	})

	return b, nil
}
