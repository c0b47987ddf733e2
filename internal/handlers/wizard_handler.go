package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/BruksfildServices01/homefix/internal/catalog"
	"github.com/BruksfildServices01/homefix/internal/config"
	"github.com/BruksfildServices01/homefix/internal/domain/booking"
	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/httpresp"
	"github.com/BruksfildServices01/homefix/internal/logger"
	"github.com/BruksfildServices01/homefix/internal/metrics"
	"github.com/BruksfildServices01/homefix/internal/middleware"
	"github.com/BruksfildServices01/homefix/internal/usecase/wizard"
	"github.com/BruksfildServices01/homefix/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type WizardHandler struct {
	wizard  *wizard.Wizard
	confirm *wizard.Confirm
	catalog *catalog.Catalog
	config  *config.Config
	log     *logger.Logger
}

func NewWizardHandler(
	w *wizard.Wizard,
	confirm *wizard.Confirm,
	cat *catalog.Catalog,
	cfg *config.Config,
	log *logger.Logger,
) *WizardHandler {
	return &WizardHandler{
		wizard:  w,
		confirm: confirm,
		catalog: cat,
		config:  cfg,
		log:     log,
	}
}

type wizardView struct {
	Service   catalog.Service        `json:"service"`
	Draft     *booking.Draft         `json:"draft"`
	Error     string                 `json:"error,omitempty"`
	Fields    validators.FieldErrors `json:"fields,omitempty"`
	TimeSlots []string               `json:"time_slots"`
	Addresses []catalog.SavedAddress `json:"addresses"`
}

type missingDraftLink struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

type missingDraftView struct {
	Error string             `json:"error_code"`
	Links []missingDraftLink `json:"links"`
}

func (h *WizardHandler) bookPath(serviceID string) string {
	return h.config.Path("/customer/book/" + serviceID)
}

func (h *WizardHandler) view(svcID string, d *booking.Draft) wizardView {
	svc, _ := h.catalog.Service(svcID)
	return wizardView{
		Service:   svc,
		Draft:     d,
		TimeSlots: booking.TimeSlots,
		Addresses: h.catalog.Addresses,
	}
}

// missingDraft is the recovery page for a selection page reached
// without a finished draft.
func (h *WizardHandler) missingDraft(c *gin.Context, serviceID string) {
	httpresp.Page(c, http.StatusNotFound, "missing_draft", "Booking not found", missingDraftView{
		Error: "draft_not_found",
		Links: []missingDraftLink{
			{Path: "/customer/book/" + serviceID, Label: "Start this booking again"},
			{Path: "/services", Label: "Browse services"},
		},
	})
	c.Abort()
}

// ======================================================
// STEPS
// ======================================================

// Start shows the current step, resuming a saved draft for the service.
func (h *WizardHandler) Start(c *gin.Context) {
	u, ok := sessionUser(c)
	if !ok {
		return
	}
	serviceID := c.Param("serviceId")

	d, err := h.wizard.Start(c.Request.Context(), u.Email, serviceID)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.OK(c, "wizard", "Book a service", h.view(serviceID, d))
}

// Submit applies one step. JSON clients post the step payload as is;
// browsers post form fields.
func (h *WizardHandler) Submit(c *gin.Context) {
	u, ok := sessionUser(c)
	if !ok {
		return
	}
	serviceID := c.Param("serviceId")

	n, err := strconv.Atoi(c.Param("step"))
	if err != nil || n < int(booking.StepSchedule) || n > int(booking.StepNotes) {
		httperr.BadRequest(c, "invalid_step", "Invalid step.")
		return
	}
	step := booking.Step(n)

	payload, err := stepPayload(c, step)
	if err != nil {
		metrics.RecordWizardStep(n, "invalid")
		httperr.BadRequest(c, "invalid_payload", "Invalid request.")
		return
	}

	d, err := h.wizard.Submit(c.Request.Context(), u.Email, serviceID, step, payload)
	if err != nil {
		metrics.RecordWizardStep(n, outcomeOf(err))
		h.stepFailed(c, u.Email, serviceID, err)
		return
	}
	metrics.RecordWizardStep(n, "success")

	if d.Completed {
		httpresp.Redirect(c, h.bookPath(serviceID)+"/technicians", gin.H{"draft": d})
		return
	}

	if httpresp.WantsHTML(c) || c.ContentType() != binding.MIMEJSON {
		c.Redirect(http.StatusSeeOther, h.bookPath(serviceID))
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": d})
}

func (h *WizardHandler) stepFailed(c *gin.Context, owner, serviceID string, err error) {
	if errors.Is(err, booking.ErrDraftNotFound) {
		h.missingDraft(c, serviceID)
		return
	}
	if !httpresp.WantsHTML(c) {
		fail(c, h.log, err)
		return
	}

	d, getErr := h.wizard.Get(c.Request.Context(), owner, serviceID)
	if getErr != nil {
		fail(c, h.log, err)
		return
	}

	status, body, known := httperr.Describe(err)
	if !known {
		middleware.RequestLog(c, h.log).WithError(err).Error("wizard step failed")
	}

	view := h.view(serviceID, d)
	view.Fields = validators.FieldErrors(body.Fields)
	if view.Fields == nil {
		view.Error = body.Message
	}
	httpresp.Page(c, status, "wizard", "Book a service", view)
}

func (h *WizardHandler) Back(c *gin.Context) {
	u, ok := sessionUser(c)
	if !ok {
		return
	}
	serviceID := c.Param("serviceId")

	d, err := h.wizard.Back(c.Request.Context(), u.Email, serviceID)
	if errors.Is(err, booking.ErrDraftNotFound) {
		h.missingDraft(c, serviceID)
		return
	}
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.Redirect(c, h.bookPath(serviceID), gin.H{"draft": d})
}

func (h *WizardHandler) Cancel(c *gin.Context) {
	u, ok := sessionUser(c)
	if !ok {
		return
	}

	if err := h.wizard.Cancel(c.Request.Context(), u.Email); err != nil {
		fail(c, h.log, err)
		return
	}

	if c.Request.Method == http.MethodDelete && !httpresp.WantsHTML(c) {
		c.Status(http.StatusNoContent)
		return
	}
	httpresp.Redirect(c, h.config.Path("/services"), nil)
}

// stepPayload turns the request into the JSON document the wizard
// decodes.
func stepPayload(c *gin.Context, step booking.Step) (json.RawMessage, error) {
	if c.ContentType() == binding.MIMEJSON {
		raw, err := c.GetRawData()
		if err != nil {
			return nil, err
		}
		if len(raw) > 0 && !json.Valid(raw) {
			return nil, errors.New("wizard: malformed json")
		}
		return raw, nil
	}

	var v any
	switch step {
	case booking.StepSchedule:
		v = booking.ScheduleInput{
			Date:     c.PostForm("date"),
			TimeSlot: c.PostForm("timeSlot"),
		}

	case booking.StepAddress:
		in := booking.AddressInput{AddressID: c.PostForm("addressId")}
		custom := booking.Address{
			Street:  c.PostForm("street"),
			City:    c.PostForm("city"),
			State:   c.PostForm("state"),
			ZipCode: c.PostForm("zipCode"),
		}
		if !custom.Empty() {
			in.CustomAddress = &custom
		}
		v = in

	default:
		v = booking.NotesInput{SpecialNotes: c.PostForm("specialNotes")}
	}

	return json.Marshal(v)
}

// ======================================================
// TECHNICIAN SELECTION
// ======================================================

func (h *WizardHandler) Technicians(c *gin.Context) {
	u, ok := sessionUser(c)
	if !ok {
		return
	}
	serviceID := c.Param("serviceId")

	sel, err := h.wizard.Technicians(c.Request.Context(), u.Email, serviceID)
	if errors.Is(err, booking.ErrDraftNotFound) {
		h.missingDraft(c, serviceID)
		return
	}
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.OK(c, "technicians", "Choose a technician", sel)
}

// Confirm books the chosen technician and sends the customer to their
// bookings.
func (h *WizardHandler) Confirm(c *gin.Context) {
	u, ok := sessionUser(c)
	if !ok {
		return
	}
	serviceID := c.Param("serviceId")

	b, err := h.confirm.Execute(c.Request.Context(), u, serviceID, c.Param("technicianId"))
	if errors.Is(err, booking.ErrDraftNotFound) {
		h.missingDraft(c, serviceID)
		return
	}
	if err != nil {
		fail(c, h.log, err)
		return
	}
	metrics.RecordBookingConfirmed(serviceID)

	target := h.config.Path("/customer/bookings")
	if httpresp.WantsHTML(c) || c.ContentType() != binding.MIMEJSON && c.Request.ContentLength > 0 {
		c.Redirect(http.StatusSeeOther, target)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": b, "redirect": target})
}
