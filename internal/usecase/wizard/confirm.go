package wizard

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/homefix/internal/audit"
	"github.com/BruksfildServices01/homefix/internal/catalog"
	"github.com/BruksfildServices01/homefix/internal/domain/booking"
	"github.com/BruksfildServices01/homefix/internal/domain/session"
	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/models"
	"github.com/BruksfildServices01/homefix/internal/timezone"
)

// Selection is what the technician-selection page renders.
type Selection struct {
	Service     catalog.Service      `json:"service"`
	Draft       *booking.Draft       `json:"draft"`
	Address     string               `json:"address"`
	Technicians []catalog.Technician `json:"technicians"`
}

// Technicians reads the completed draft back and lists who can do the
// job. An absent or incomplete draft is booking.ErrDraftNotFound.
func (w *Wizard) Technicians(ctx context.Context, owner, serviceID string) (*Selection, error) {
	svc, err := w.service(serviceID)
	if err != nil {
		return nil, err
	}

	d, err := w.Get(ctx, owner, serviceID)
	if err != nil {
		return nil, err
	}
	if d.ReadyForHandoff() != nil {
		return nil, booking.ErrDraftNotFound
	}

	return &Selection{
		Service:     svc,
		Draft:       d,
		Address:     w.addressLine(d),
		Technicians: w.catalog.TechniciansFor(serviceID),
	}, nil
}

func (w *Wizard) addressLine(d *booking.Draft) string {
	if d.CustomAddress != nil {
		return d.CustomAddress.String()
	}
	if a, ok := w.catalog.SavedAddress(d.AddressID); ok {
		return a.String()
	}
	return ""
}

// ======================================================
// CONFIRM
// ======================================================

type Confirm struct {
	wizard *Wizard
	repo   booking.Repository
}

func NewConfirm(w *Wizard, repo booking.Repository) *Confirm {
	return &Confirm{wizard: w, repo: repo}
}

// Execute turns the draft into a booking with the chosen technician and
// removes the draft.
func (uc *Confirm) Execute(
	ctx context.Context,
	customer session.User,
	serviceID string,
	technicianID string,
) (*models.Booking, error) {

	w := uc.wizard

	// --------------------------------------------------
	// Draft + service
	// --------------------------------------------------
	sel, err := w.Technicians(ctx, customer.Email, serviceID)
	if err != nil {
		return nil, err
	}
	d := sel.Draft

	// --------------------------------------------------
	// Technician must offer the service
	// --------------------------------------------------
	tech, ok := w.catalog.Technician(technicianID)
	if !ok || !tech.Offers(serviceID) {
		return nil, httperr.ErrBusiness("technician_not_available")
	}

	// --------------------------------------------------
	// Stale drafts may point at a past day
	// --------------------------------------------------
	loc := timezone.Location(w.timezone)
	start, err := booking.SlotStart(d.Date, d.TimeSlot, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	if timezone.StartOfDay(start).Before(w.today()) {
		return nil, httperr.ErrBusiness("date_in_past")
	}

	// --------------------------------------------------
	// Conflict
	// --------------------------------------------------
	if err := uc.repo.AssertNoTimeConflict(ctx, tech.ID, d.Date, d.TimeSlot); err != nil {
		return nil, err
	}

	if err := w.gateway.Call(ctx, "confirm_booking"); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Booking
	// --------------------------------------------------
	b := &models.Booking{
		Reference:       uuid.NewString(),
		CustomerEmail:   customer.Email,
		CustomerName:    customer.Name,
		ServiceID:       sel.Service.ID,
		ServiceName:     sel.Service.Name,
		TechnicianID:    tech.ID,
		TechnicianEmail: tech.Email,
		TechnicianName:  tech.Name,
		Date:            d.Date,
		TimeSlot:        d.TimeSlot,
		StartTime:       start,
		Address:         sel.Address,
		Notes:           d.SpecialNotes,
		Price:           sel.Service.Price,
		Status:          string(booking.InitialStatus()),
	}

	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		return nil, err
	}

	if err := w.drafts.Delete(ctx, customer.Email); err != nil {
		return nil, fmt.Errorf("delete draft: %w", err)
	}

	w.audit.Dispatch(audit.Event{
		ActorEmail: customer.Email,
		ActorRole:  customer.Role.String(),
		Action:     "booking_confirmed",
		Entity:     "booking",
		EntityID:   fmt.Sprint(b.ID),
		Metadata: map[string]string{
			"service":    b.ServiceID,
			"technician": b.TechnicianID,
			"date":       b.Date,
			"time_slot":  b.TimeSlot,
		},
	})

	return b, nil
}
