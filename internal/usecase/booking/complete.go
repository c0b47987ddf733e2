package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/BruksfildServices01/homefix/internal/audit"
	domain "github.com/BruksfildServices01/homefix/internal/domain/booking"
	"github.com/BruksfildServices01/homefix/internal/domain/session"
	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/models"
	"github.com/BruksfildServices01/homefix/internal/timezone"
)

type CompleteBooking struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	timezone string
}

func NewCompleteBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	tz string,
) *CompleteBooking {
	return &CompleteBooking{
		repo:     repo,
		audit:    audit,
		timezone: tz,
	}
}

// Execute marks a booking assigned to the technician as done.
func (uc *CompleteBooking) Execute(
	ctx context.Context,
	technician session.User,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingForTechnician(ctx, bookingID, technician.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness("booking_not_found")
	}
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(uc.timezone)
	if err := domain.Complete(b, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorEmail: technician.Email,
		ActorRole:  technician.Role.String(),
		Action:     "booking_completed",
		Entity:     "booking",
		EntityID:   fmt.Sprint(b.ID),
	})

	return b, nil
}
