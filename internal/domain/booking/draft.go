package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/validators"
)

var ErrDraftNotFound = errors.New("booking: draft not found")

const maxNotesLength = 500

type Step int

const (
	StepSchedule Step = 1
	StepAddress  Step = 2
	StepNotes    Step = 3
)

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

func (a Address) trimmed() Address {
	return Address{
		Street:  strings.TrimSpace(a.Street),
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		ZipCode: strings.TrimSpace(a.ZipCode),
	}
}

func (a Address) Complete() bool {
	a = a.trimmed()
	return a.Street != "" && a.City != "" && a.State != "" && a.ZipCode != ""
}

func (a Address) Empty() bool {
	a = a.trimmed()
	return a.Street == "" && a.City == "" && a.State == "" && a.ZipCode == ""
}

func (a Address) String() string {
	return a.Street + ", " + a.City + ", " + a.State + " " + a.ZipCode
}

// Draft is the booking being assembled by the wizard. All steps write
// into the same draft, so going back never loses data.
type Draft struct {
	ServiceID     string   `json:"serviceId"`
	Date          string   `json:"date"`
	TimeSlot      string   `json:"timeSlot"`
	AddressID     string   `json:"addressId,omitempty"`
	CustomAddress *Address `json:"customAddress,omitempty"`
	SpecialNotes  string   `json:"specialNotes"`

	Step      Step `json:"step"`
	Completed bool `json:"completed"`
}

type ScheduleInput struct {
	Date     string `json:"date"`
	TimeSlot string `json:"timeSlot"`
}

type AddressInput struct {
	AddressID     string   `json:"addressId"`
	CustomAddress *Address `json:"customAddress"`
}

type NotesInput struct {
	SpecialNotes string `json:"specialNotes"`
}

// Rules carries the context-dependent checks: the current day in the
// marketplace timezone and the customer's saved address ids.
type Rules struct {
	Today           time.Time
	SavedAddressIDs []string
}

func (r Rules) hasSavedAddress(id string) bool {
	for _, saved := range r.SavedAddressIDs {
		if saved == id {
			return true
		}
	}
	return false
}

// DraftStore hands the draft from the wizard to technician selection.
type DraftStore interface {
	Get(ctx context.Context, owner string) (*Draft, error)
	Save(ctx context.Context, owner string, d *Draft) error
	Delete(ctx context.Context, owner string) error
}

func NewDraft(serviceID string) *Draft {
	return &Draft{ServiceID: serviceID, Step: StepSchedule}
}

func (d *Draft) expect(step Step) error {
	if d.Completed {
		return httperr.ErrBusiness("draft_completed")
	}
	if d.Step != step {
		return httperr.ErrBusiness("step_out_of_order")
	}
	return nil
}

// SelectSavedAddress and SetCustomAddress are mutually exclusive: each
// clears the other.
func (d *Draft) SelectSavedAddress(id string) {
	d.AddressID = id
	d.CustomAddress = nil
}

func (d *Draft) SetCustomAddress(a Address) {
	a = a.trimmed()
	d.CustomAddress = &a
	d.AddressID = ""
}

func (d *Draft) ApplySchedule(in ScheduleInput, rules Rules) error {
	if err := d.expect(StepSchedule); err != nil {
		return err
	}

	date := strings.TrimSpace(in.Date)
	slot := strings.TrimSpace(in.TimeSlot)
	fe := validators.FieldErrors{}

	if date == "" {
		fe.Add("date", "Please select a date")
	} else if day, err := time.ParseInLocation("2006-01-02", date, rules.Today.Location()); err != nil {
		fe.Add("date", "Please enter a valid date")
	} else if day.Before(rules.Today) {
		fe.Add("date", "Date cannot be in the past")
	}

	if slot == "" {
		fe.Add("timeSlot", "Please select a time slot")
	} else if !IsTimeSlot(slot) {
		fe.Add("timeSlot", "Please select one of the available time slots")
	}

	if err := fe.Err(); err != nil {
		return err
	}

	d.Date = date
	d.TimeSlot = slot
	d.Step = StepAddress
	return nil
}

func (d *Draft) ApplyAddress(in AddressInput, rules Rules) error {
	if err := d.expect(StepAddress); err != nil {
		return err
	}

	id := strings.TrimSpace(in.AddressID)
	hasCustom := in.CustomAddress != nil && !in.CustomAddress.Empty()
	fe := validators.FieldErrors{}

	switch {
	case id != "" && hasCustom:
		fe.Add("address", "Choose a saved address or enter a new one, not both")
	case id != "":
		if !rules.hasSavedAddress(id) {
			fe.Add("addressId", "Please select one of your saved addresses")
		}
	case hasCustom:
		a := in.CustomAddress.trimmed()
		if a.Street == "" {
			fe.Add("street", "Street is required")
		}
		if a.City == "" {
			fe.Add("city", "City is required")
		}
		if a.State == "" {
			fe.Add("state", "State is required")
		}
		if a.ZipCode == "" {
			fe.Add("zipCode", "ZIP code is required")
		}
	default:
		fe.Add("address", "Please select a saved address or enter a new one")
	}

	if err := fe.Err(); err != nil {
		return err
	}

	if id != "" {
		d.SelectSavedAddress(id)
	} else {
		d.SetCustomAddress(*in.CustomAddress)
	}
	d.Step = StepNotes
	return nil
}

func (d *Draft) ApplyNotes(in NotesInput) error {
	if err := d.expect(StepNotes); err != nil {
		return err
	}

	notes := strings.TrimSpace(in.SpecialNotes)
	if len([]rune(notes)) > maxNotesLength {
		return validators.FieldErrors{"specialNotes": "Notes must be at most 500 characters long"}
	}

	d.SpecialNotes = notes
	d.Completed = true
	return nil
}

// Back re-enters the previous step. Leaving a completed draft reopens
// step 3. Reports false when already on the first step.
func (d *Draft) Back() bool {
	if d.Completed {
		d.Completed = false
		return true
	}
	if d.Step <= StepSchedule {
		return false
	}
	d.Step--
	return true
}

// Consistent is the structural check applied when a stored draft is
// read back. It does not re-run the date rules.
func (d *Draft) Consistent() bool {
	if d.ServiceID == "" || d.Step < StepSchedule || d.Step > StepNotes {
		return false
	}
	if d.AddressID != "" && d.CustomAddress != nil {
		return false
	}
	if d.Step >= StepAddress && (d.Date == "" || !IsTimeSlot(d.TimeSlot)) {
		return false
	}
	if d.Step >= StepNotes && !d.HasAddress() {
		return false
	}
	if d.Completed && d.Step != StepNotes {
		return false
	}
	return true
}

func (d *Draft) HasAddress() bool {
	return d.AddressID != "" || (d.CustomAddress != nil && d.CustomAddress.Complete())
}

// ReadyForHandoff reports whether technician selection may use the
// draft.
func (d *Draft) ReadyForHandoff() error {
	if !d.Completed || !d.Consistent() {
		return httperr.ErrBusiness("draft_incomplete")
	}
	return nil
}
