package booking

import (
	"time"

	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/models"
)

// Cancel only applies to confirmed bookings that have not started yet.
func Cancel(b *models.Booking, now time.Time) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}
	if !b.StartTime.IsZero() && !now.Before(b.StartTime) {
		return httperr.ErrBusiness("booking_started")
	}

	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	return nil
}

func Complete(b *models.Booking, now time.Time) error {
	if err := CanComplete(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCompleted)
	b.CompletedAt = &now
	return nil
}
