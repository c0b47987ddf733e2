package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/validators"
)

func testRules() Rules {
	return Rules{
		Today:           time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		SavedAddressIDs: []string{"addr-1", "addr-2"},
	}
}

func fieldErrors(t *testing.T, err error) validators.FieldErrors {
	t.Helper()
	fe, ok := validators.AsFieldErrors(err)
	require.True(t, ok, "expected field errors, got %v", err)
	return fe
}

func draftAtAddressStep(t *testing.T) *Draft {
	t.Helper()
	d := NewDraft("svc-plumbing")
	require.NoError(t, d.ApplySchedule(ScheduleInput{Date: "2026-05-12", TimeSlot: "10:00-12:00"}, testRules()))
	return d
}

func TestApplySchedule_BlocksWithoutDateAndSlot(t *testing.T) {
	d := NewDraft("svc-plumbing")

	err := d.ApplySchedule(ScheduleInput{}, testRules())

	fe := fieldErrors(t, err)
	assert.Equal(t, "Please select a date", fe["date"])
	assert.Equal(t, "Please select a time slot", fe["timeSlot"])
	assert.Equal(t, StepSchedule, d.Step)
	assert.Empty(t, d.Date)
}

func TestApplySchedule_Rules(t *testing.T) {
	tests := []struct {
		name      string
		in        ScheduleInput
		wantField string
	}{
		{"past date", ScheduleInput{Date: "2026-05-09", TimeSlot: "08:00-10:00"}, "date"},
		{"malformed date", ScheduleInput{Date: "05/12/2026", TimeSlot: "08:00-10:00"}, "date"},
		{"unknown slot", ScheduleInput{Date: "2026-05-12", TimeSlot: "03:00-04:00"}, "timeSlot"},
		{"missing slot", ScheduleInput{Date: "2026-05-12"}, "timeSlot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDraft("svc")
			fe := fieldErrors(t, d.ApplySchedule(tt.in, testRules()))
			assert.Contains(t, fe, tt.wantField)
			assert.Len(t, fe, 1)
		})
	}
}

func TestApplySchedule_TodayIsAllowed(t *testing.T) {
	d := NewDraft("svc")
	require.NoError(t, d.ApplySchedule(ScheduleInput{Date: "2026-05-10", TimeSlot: "16:00-18:00"}, testRules()))
	assert.Equal(t, StepAddress, d.Step)
}

func TestStepsAreLinear(t *testing.T) {
	d := NewDraft("svc")

	err := d.ApplyAddress(AddressInput{AddressID: "addr-1"}, testRules())
	assert.True(t, httperr.IsBusiness(err, "step_out_of_order"))

	err = d.ApplyNotes(NotesInput{})
	assert.True(t, httperr.IsBusiness(err, "step_out_of_order"))
}

func TestApplyAddress_SavedClearsCustom(t *testing.T) {
	d := draftAtAddressStep(t)

	custom := &Address{Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701"}
	require.NoError(t, d.ApplyAddress(AddressInput{CustomAddress: custom}, testRules()))
	require.NotNil(t, d.CustomAddress)
	assert.Empty(t, d.AddressID)

	require.True(t, d.Back())
	require.NoError(t, d.ApplyAddress(AddressInput{AddressID: "addr-2"}, testRules()))

	assert.Equal(t, "addr-2", d.AddressID)
	assert.Nil(t, d.CustomAddress)
}

func TestApplyAddress_CustomClearsSaved(t *testing.T) {
	d := draftAtAddressStep(t)

	require.NoError(t, d.ApplyAddress(AddressInput{AddressID: "addr-1"}, testRules()))
	require.True(t, d.Back())

	custom := &Address{Street: "9 Elm", City: "Dover", State: "DE", ZipCode: "19901"}
	require.NoError(t, d.ApplyAddress(AddressInput{CustomAddress: custom}, testRules()))

	assert.Empty(t, d.AddressID)
	require.NotNil(t, d.CustomAddress)
	assert.Equal(t, "9 Elm", d.CustomAddress.Street)
}

func TestApplyAddress_Validation(t *testing.T) {
	tests := []struct {
		name   string
		in     AddressInput
		fields []string
	}{
		{"nothing", AddressInput{}, []string{"address"}},
		{"both", AddressInput{AddressID: "addr-1", CustomAddress: &Address{Street: "x"}}, []string{"address"}},
		{"unknown saved", AddressInput{AddressID: "addr-9"}, []string{"addressId"}},
		{"partial custom", AddressInput{CustomAddress: &Address{Street: "1 Main", ZipCode: " "}}, []string{"city", "state", "zipCode"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := draftAtAddressStep(t)
			fe := fieldErrors(t, d.ApplyAddress(tt.in, testRules()))
			for _, f := range tt.fields {
				assert.Contains(t, fe, f)
			}
			assert.Len(t, fe, len(tt.fields))
			assert.Equal(t, StepAddress, d.Step)
		})
	}
}

func TestBackKeepsData(t *testing.T) {
	d := draftAtAddressStep(t)
	require.NoError(t, d.ApplyAddress(AddressInput{AddressID: "addr-1"}, testRules()))
	require.NoError(t, d.ApplyNotes(NotesInput{SpecialNotes: "Gate code 1234"}))
	require.True(t, d.Completed)

	require.True(t, d.Back())
	assert.False(t, d.Completed)
	assert.Equal(t, StepNotes, d.Step)

	require.True(t, d.Back())
	require.True(t, d.Back())
	assert.Equal(t, StepSchedule, d.Step)
	assert.False(t, d.Back())

	assert.Equal(t, "2026-05-12", d.Date)
	assert.Equal(t, "10:00-12:00", d.TimeSlot)
	assert.Equal(t, "addr-1", d.AddressID)
	assert.Equal(t, "Gate code 1234", d.SpecialNotes)
}

func TestApplyNotes(t *testing.T) {
	d := draftAtAddressStep(t)
	require.NoError(t, d.ApplyAddress(AddressInput{AddressID: "addr-1"}, testRules()))

	fe := fieldErrors(t, d.ApplyNotes(NotesInput{SpecialNotes: strings.Repeat("a", 501)}))
	assert.Contains(t, fe, "specialNotes")

	require.NoError(t, d.ApplyNotes(NotesInput{}))
	assert.True(t, d.Completed)
	assert.NoError(t, d.ReadyForHandoff())

	err := d.ApplyNotes(NotesInput{})
	assert.True(t, httperr.IsBusiness(err, "draft_completed"))
}

func TestConsistent(t *testing.T) {
	assert.True(t, NewDraft("svc").Consistent())
	assert.False(t, (&Draft{Step: StepSchedule}).Consistent())
	assert.False(t, (&Draft{ServiceID: "s", Step: StepAddress}).Consistent())
	assert.False(t, (&Draft{
		ServiceID: "s", Step: StepNotes, Date: "2026-05-12", TimeSlot: "08:00-10:00",
		AddressID: "a", CustomAddress: &Address{},
	}).Consistent())

	incomplete := draftAtAddressStep(t)
	assert.True(t, httperr.IsBusiness(incomplete.ReadyForHandoff(), "draft_incomplete"))
}

func TestSlotStart(t *testing.T) {
	got, err := SlotStart("2026-05-12", "14:00-16:00", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 12, 14, 0, 0, 0, time.UTC), got)
}
