package httperr

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/homefix/internal/gateway"
	"github.com/BruksfildServices01/homefix/internal/validators"
)

const validationMessage = "Please correct the highlighted fields."

type businessRule struct {
	status  int
	message string
}

var businessRules = map[string]businessRule{
	"invalid_credentials":      {http.StatusUnauthorized, "Invalid email, password or role."},
	"service_not_found":        {http.StatusNotFound, "Service not found."},
	"booking_not_found":        {http.StatusNotFound, "Booking not found."},
	"time_conflict":            {http.StatusConflict, "The technician is already booked for that time slot."},
	"already_reviewed":         {http.StatusConflict, "You already reviewed this booking."},
	"email_already_registered": {http.StatusConflict, "An account with this email already exists."},
	"draft_completed":          {http.StatusConflict, "This booking is ready. Choose a technician to continue."},
	"step_out_of_order":        {http.StatusBadRequest, "Please complete the previous step first."},
	"invalid_state":            {http.StatusBadRequest, "The booking can no longer be changed."},
	"booking_started":          {http.StatusBadRequest, "This booking has already started and can no longer be cancelled."},
	"booking_not_completed":    {http.StatusBadRequest, "Only completed bookings can be reviewed."},
	"technician_not_available": {http.StatusBadRequest, "That technician does not offer this service."},
	"date_in_past":             {http.StatusBadRequest, "The selected date has passed. Please pick a new one."},
	"invalid_date_or_time":     {http.StatusBadRequest, "Invalid date or time."},
	"invalid_payload":          {http.StatusBadRequest, "Invalid request."},
	"draft_incomplete":         {http.StatusBadRequest, "Please finish the booking details first."},
}

// Describe maps an error returned by a use case to its status and body.
// known is false for anything that is not an expected failure.
func Describe(err error) (status int, body HTTPError, known bool) {
	if fe, ok := validators.AsFieldErrors(err); ok {
		return http.StatusBadRequest, HTTPError{
			Code:    "validation_failed",
			Message: validationMessage,
			Fields:  fe,
		}, true
	}

	if errors.Is(err, gateway.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable, HTTPError{Code: "service_unavailable", Message: GenericMessage}, true
	}

	if code, ok := BusinessCode(err); ok {
		if rule, found := businessRules[code]; found {
			return rule.status, HTTPError{Code: code, Message: rule.message}, true
		}
		return http.StatusBadRequest, HTTPError{Code: code, Message: GenericMessage}, true
	}

	return http.StatusInternalServerError, HTTPError{Code: "internal_error", Message: GenericMessage}, false
}

// FromError writes the response for an error returned by a use case.
// It reports whether the error was one of the expected kinds; anything
// else is answered with a generic 500 and should be logged by the caller.
func FromError(c *gin.Context, err error) bool {
	status, body, known := Describe(err)
	render(c, status, body)
	return known
}
