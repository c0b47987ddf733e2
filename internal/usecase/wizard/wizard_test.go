package wizard

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/homefix/internal/audit"
	"github.com/BruksfildServices01/homefix/internal/catalog"
	"github.com/BruksfildServices01/homefix/internal/domain/booking"
	"github.com/BruksfildServices01/homefix/internal/domain/role"
	"github.com/BruksfildServices01/homefix/internal/domain/session"
	"github.com/BruksfildServices01/homefix/internal/gateway"
	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/infra/kv"
	"github.com/BruksfildServices01/homefix/internal/infra/store"
	"github.com/BruksfildServices01/homefix/internal/logger"
	"github.com/BruksfildServices01/homefix/internal/testutil"
	"github.com/BruksfildServices01/homefix/internal/validators"
)

const owner = "john.smith@example.com"

var customer = session.User{ID: "u1", Email: owner, Role: role.Customer, Name: "John Smith"}

type fixture struct {
	wizard  *Wizard
	confirm *Confirm
	drafts  *store.DraftStore
	repo    *testutil.MockBookingRepository
	gateway *gateway.Gateway
	sink    *testutil.MemorySink
	audit   *audit.Dispatcher
}

func newFixture(t *testing.T, cfg gateway.Config) *fixture {
	t.Helper()

	f := &fixture{
		drafts:  store.NewDraftStore(kv.NewMemoryStore(), time.Hour),
		repo:    testutil.NewMockBookingRepository(),
		gateway: gateway.New(cfg),
		sink:    &testutil.MemorySink{},
	}
	f.audit = audit.NewDispatcher(f.sink, logger.Nop())
	t.Cleanup(f.audit.Close)

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	f.wizard = New(f.drafts, catalog.Default(), f.gateway, f.audit, "America/New_York").
		WithClock(func() time.Time { return now })
	f.confirm = NewConfirm(f.wizard, f.repo)
	return f
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

// runToCompletion walks all three steps with valid input.
func runToCompletion(t *testing.T, f *fixture, serviceID string) *booking.Draft {
	t.Helper()
	ctx := context.Background()

	_, err := f.wizard.Start(ctx, owner, serviceID)
	require.NoError(t, err)

	_, err = f.wizard.Submit(ctx, owner, serviceID, booking.StepSchedule,
		raw(t, booking.ScheduleInput{Date: "2026-06-10", TimeSlot: "10:00-12:00"}))
	require.NoError(t, err)

	_, err = f.wizard.Submit(ctx, owner, serviceID, booking.StepAddress,
		raw(t, booking.AddressInput{AddressID: "addr-1"}))
	require.NoError(t, err)

	d, err := f.wizard.Submit(ctx, owner, serviceID, booking.StepNotes,
		raw(t, booking.NotesInput{SpecialNotes: "Ring twice"}))
	require.NoError(t, err)
	return d
}

func TestWizard_HappyPathStoresDraft(t *testing.T) {
	f := newFixture(t, gateway.Config{})
	runToCompletion(t, f, "svc-plumbing")

	stored, err := f.drafts.Get(context.Background(), owner)
	require.NoError(t, err)

	assert.Equal(t, &booking.Draft{
		ServiceID:    "svc-plumbing",
		Date:         "2026-06-10",
		TimeSlot:     "10:00-12:00",
		AddressID:    "addr-1",
		SpecialNotes: "Ring twice",
		Step:         booking.StepNotes,
		Completed:    true,
	}, stored)

	sel, err := f.wizard.Technicians(context.Background(), owner, "svc-plumbing")
	require.NoError(t, err)
	assert.Equal(t, "12 Oak St, Springfield, IL 62701", sel.Address)
	require.NotEmpty(t, sel.Technicians)
	for _, tech := range sel.Technicians {
		assert.True(t, tech.Offers("svc-plumbing"))
	}
}

func TestWizard_StartResumesSameServiceAndReplacesOther(t *testing.T) {
	f := newFixture(t, gateway.Config{})
	ctx := context.Background()

	_, err := f.wizard.Start(ctx, owner, "svc-hvac")
	require.NoError(t, err)
	_, err = f.wizard.Submit(ctx, owner, "svc-hvac", booking.StepSchedule,
		raw(t, booking.ScheduleInput{Date: "2026-06-02", TimeSlot: "08:00-10:00"}))
	require.NoError(t, err)

	resumed, err := f.wizard.Start(ctx, owner, "svc-hvac")
	require.NoError(t, err)
	assert.Equal(t, booking.StepAddress, resumed.Step)
	assert.Equal(t, "2026-06-02", resumed.Date)

	fresh, err := f.wizard.Start(ctx, owner, "svc-roofing")
	require.NoError(t, err)
	assert.Equal(t, booking.StepSchedule, fresh.Step)
	assert.Empty(t, fresh.Date)

	_, err = f.wizard.Get(ctx, owner, "svc-hvac")
	assert.ErrorIs(t, err, booking.ErrDraftNotFound)
}

func TestWizard_StartUnknownService(t *testing.T) {
	f := newFixture(t, gateway.Config{})
	_, err := f.wizard.Start(context.Background(), owner, "svc-nope")
	assert.True(t, httperr.IsBusiness(err, "service_not_found"))
}

func TestWizard_RejectsOutOfOrderSteps(t *testing.T) {
	f := newFixture(t, gateway.Config{})
	ctx := context.Background()

	_, err := f.wizard.Start(ctx, owner, "svc-plumbing")
	require.NoError(t, err)

	_, err = f.wizard.Submit(ctx, owner, "svc-plumbing", booking.StepNotes, raw(t, booking.NotesInput{}))
	assert.True(t, httperr.IsBusiness(err, "step_out_of_order"))
}

func TestWizard_StepOneReportsBothMissingFields(t *testing.T) {
	f := newFixture(t, gateway.Config{})
	ctx := context.Background()

	_, err := f.wizard.Start(ctx, owner, "svc-plumbing")
	require.NoError(t, err)

	_, err = f.wizard.Submit(ctx, owner, "svc-plumbing", booking.StepSchedule, raw(t, booking.ScheduleInput{}))
	fe, ok := validators.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Please select a date", fe["date"])
	assert.Equal(t, "Please select a time slot", fe["timeSlot"])

	d, err := f.wizard.Get(ctx, owner, "svc-plumbing")
	require.NoError(t, err)
	assert.Equal(t, booking.StepSchedule, d.Step, "rejected input does not advance")
}

func TestWizard_BackKeepsData(t *testing.T) {
	f := newFixture(t, gateway.Config{})
	ctx := context.Background()
	runToCompletion(t, f, "svc-plumbing")

	d, err := f.wizard.Back(ctx, owner, "svc-plumbing")
	require.NoError(t, err)
	assert.False(t, d.Completed)
	assert.Equal(t, booking.StepNotes, d.Step)

	d, err = f.wizard.Back(ctx, owner, "svc-plumbing")
	require.NoError(t, err)
	assert.Equal(t, booking.StepAddress, d.Step)
	assert.Equal(t, "addr-1", d.AddressID)
	assert.Equal(t, "Ring twice", d.SpecialNotes)
	assert.Equal(t, "2026-06-10", d.Date)

	_, err = f.wizard.Technicians(ctx, owner, "svc-plumbing")
	assert.ErrorIs(t, err, booking.ErrDraftNotFound, "incomplete draft cannot be handed off")
}

func TestWizard_NetworkFailureLeavesStepThreeOpen(t *testing.T) {
	f := newFixture(t, gateway.Config{Mode: gateway.ModeFail})
	ctx := context.Background()

	_, err := f.wizard.Start(ctx, owner, "svc-plumbing")
	require.NoError(t, err)
	_, err = f.wizard.Submit(ctx, owner, "svc-plumbing", booking.StepSchedule,
		raw(t, booking.ScheduleInput{Date: "2026-06-10", TimeSlot: "10:00-12:00"}))
	require.NoError(t, err)
	_, err = f.wizard.Submit(ctx, owner, "svc-plumbing", booking.StepAddress,
		raw(t, booking.AddressInput{CustomAddress: &booking.Address{
			Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701",
		}}))
	require.NoError(t, err)

	_, err = f.wizard.Submit(ctx, owner, "svc-plumbing", booking.StepNotes, raw(t, booking.NotesInput{}))
	assert.ErrorIs(t, err, gateway.ErrUnavailable)

	d, err := f.wizard.Get(ctx, owner, "svc-plumbing")
	require.NoError(t, err)
	assert.False(t, d.Completed)
}

func TestWizard_TechniciansWithoutDraft(t *testing.T) {
	f := newFixture(t, gateway.Config{})
	_, err := f.wizard.Technicians(context.Background(), owner, "svc-plumbing")
	assert.ErrorIs(t, err, booking.ErrDraftNotFound)
}

func TestConfirm_CreatesBookingAndDropsDraft(t *testing.T) {
	f := newFixture(t, gateway.Config{})
	ctx := context.Background()
	runToCompletion(t, f, "svc-plumbing")

	b, err := f.confirm.Execute(ctx, customer, "svc-plumbing", "tech-1")
	require.NoError(t, err)

	assert.Equal(t, "confirmed", b.Status)
	assert.Equal(t, "tech@example.com", b.TechnicianEmail)
	assert.Equal(t, "Plumbing Repair", b.ServiceName)
	assert.Equal(t, 89.0, b.Price)
	assert.NotEmpty(t, b.Reference)
	assert.Equal(t, 10, b.StartTime.Hour())

	_, err = f.drafts.Get(ctx, owner)
	assert.ErrorIs(t, err, booking.ErrDraftNotFound)

	f.audit.Close()
	assert.Equal(t, []string{"booking_confirmed"}, f.sink.Actions())
}

func TestConfirm_Rules(t *testing.T) {
	t.Run("technician must offer the service", func(t *testing.T) {
		f := newFixture(t, gateway.Config{})
		runToCompletion(t, f, "svc-plumbing")

		_, err := f.confirm.Execute(context.Background(), customer, "svc-plumbing", "tech-2")
		assert.True(t, httperr.IsBusiness(err, "technician_not_available"))
	})

	t.Run("technician already booked for the slot", func(t *testing.T) {
		f := newFixture(t, gateway.Config{})
		runToCompletion(t, f, "svc-plumbing")
		_, err := f.confirm.Execute(context.Background(), customer, "svc-plumbing", "tech-1")
		require.NoError(t, err)

		runToCompletion(t, f, "svc-handyman")
		_, err = f.confirm.Execute(context.Background(), customer, "svc-handyman", "tech-1")
		assert.True(t, httperr.IsBusiness(err, "time_conflict"))
	})

	t.Run("network failure keeps the draft", func(t *testing.T) {
		f := newFixture(t, gateway.Config{Mode: gateway.ModeFailEveryN, FailEvery: 2})
		runToCompletion(t, f, "svc-plumbing") // call 1: step three

		_, err := f.confirm.Execute(context.Background(), customer, "svc-plumbing", "tech-1") // call 2
		assert.ErrorIs(t, err, gateway.ErrUnavailable)

		_, err = f.drafts.Get(context.Background(), owner)
		assert.NoError(t, err)
		assert.Empty(t, f.repo.Bookings)
	})
}

func TestWizard_CancelDeletesDraft(t *testing.T) {
	f := newFixture(t, gateway.Config{})
	ctx := context.Background()
	runToCompletion(t, f, "svc-plumbing")

	require.NoError(t, f.wizard.Cancel(ctx, owner))
	_, err := f.wizard.Get(ctx, owner, "svc-plumbing")
	assert.ErrorIs(t, err, booking.ErrDraftNotFound)
}
