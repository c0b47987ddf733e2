package booking

import "github.com/BruksfildServices01/homefix/internal/httperr"

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func InitialStatus() Status {
	return StatusConfirmed
}

func CanCancel(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanReview only allows reviews for finished work.
func CanReview(current Status) error {
	if current != StatusCompleted {
		return httperr.ErrBusiness("booking_not_completed")
	}
	return nil
}
