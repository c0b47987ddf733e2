package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/BruksfildServices01/homefix/internal/audit"
	"github.com/BruksfildServices01/homefix/internal/catalog"
	"github.com/BruksfildServices01/homefix/internal/domain/booking"
	"github.com/BruksfildServices01/homefix/internal/gateway"
	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/timezone"
)

// Wizard drives the three-step booking flow. Drafts are keyed by the
// customer's email and saved after every accepted step.
type Wizard struct {
	drafts   booking.DraftStore
	catalog  *catalog.Catalog
	gateway  gateway.Caller
	audit    *audit.Dispatcher
	timezone string
	now      func() time.Time
}

func New(
	drafts booking.DraftStore,
	cat *catalog.Catalog,
	gw gateway.Caller,
	audit *audit.Dispatcher,
	tz string,
) *Wizard {
	return &Wizard{
		drafts:   drafts,
		catalog:  cat,
		gateway:  gw,
		audit:    audit,
		timezone: tz,
		now:      time.Now,
	}
}

// WithClock replaces the time source. Tests only.
func (w *Wizard) WithClock(now func() time.Time) *Wizard {
	w.now = now
	return w
}

func (w *Wizard) today() time.Time {
	return timezone.StartOfDay(w.now().In(timezone.Location(w.timezone)))
}

func (w *Wizard) rules() booking.Rules {
	return booking.Rules{
		Today:           w.today(),
		SavedAddressIDs: w.catalog.SavedAddressIDs(),
	}
}

func (w *Wizard) service(id string) (catalog.Service, error) {
	svc, ok := w.catalog.Service(id)
	if !ok {
		return catalog.Service{}, httperr.ErrBusiness("service_not_found")
	}
	return svc, nil
}

// ======================================================
// START / GET
// ======================================================

// Start resumes the owner's draft for the service or begins a new one.
// A draft for a different service is replaced.
func (w *Wizard) Start(ctx context.Context, owner, serviceID string) (*booking.Draft, error) {
	if _, err := w.service(serviceID); err != nil {
		return nil, err
	}

	d, err := w.drafts.Get(ctx, owner)
	switch {
	case err == nil && d.ServiceID == serviceID:
		return d, nil
	case err != nil && !errors.Is(err, booking.ErrDraftNotFound):
		return nil, err
	}

	d = booking.NewDraft(serviceID)
	if err := w.drafts.Save(ctx, owner, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Get returns the owner's draft for serviceID or booking.ErrDraftNotFound.
func (w *Wizard) Get(ctx context.Context, owner, serviceID string) (*booking.Draft, error) {
	d, err := w.drafts.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	if d.ServiceID != serviceID {
		return nil, booking.ErrDraftNotFound
	}
	return d, nil
}

// ======================================================
// STEPS
// ======================================================

// Submit applies the payload for the given step. Only the draft's
// current step is accepted.
func (w *Wizard) Submit(
	ctx context.Context,
	owner string,
	serviceID string,
	step booking.Step,
	payload json.RawMessage,
) (*booking.Draft, error) {

	d, err := w.Get(ctx, owner, serviceID)
	if err != nil {
		return nil, err
	}
	if d.Completed {
		return nil, httperr.ErrBusiness("draft_completed")
	}
	if d.Step != step {
		return nil, httperr.ErrBusiness("step_out_of_order")
	}

	switch step {
	case booking.StepSchedule:
		var in booking.ScheduleInput
		if err := decode(payload, &in); err != nil {
			return nil, err
		}
		err = d.ApplySchedule(in, w.rules())

	case booking.StepAddress:
		var in booking.AddressInput
		if err := decode(payload, &in); err != nil {
			return nil, err
		}
		err = d.ApplyAddress(in, w.rules())

	case booking.StepNotes:
		var in booking.NotesInput
		if err := decode(payload, &in); err != nil {
			return nil, err
		}
		if err = d.ApplyNotes(in); err == nil {
			err = w.gateway.Call(ctx, "save_draft")
		}

	default:
		return nil, httperr.ErrBusiness("step_out_of_order")
	}
	if err != nil {
		return nil, err
	}

	if err := w.drafts.Save(ctx, owner, d); err != nil {
		return nil, err
	}
	return d, nil
}

func decode(payload json.RawMessage, into any) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, into); err != nil {
		return httperr.ErrBusiness("invalid_payload")
	}
	return nil
}

// Back moves the draft to the previous step, keeping every field.
func (w *Wizard) Back(ctx context.Context, owner, serviceID string) (*booking.Draft, error) {
	d, err := w.Get(ctx, owner, serviceID)
	if err != nil {
		return nil, err
	}
	if !d.Back() {
		return d, nil
	}
	if err := w.drafts.Save(ctx, owner, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Cancel discards the owner's draft.
func (w *Wizard) Cancel(ctx context.Context, owner string) error {
	return w.drafts.Delete(ctx, owner)
}
