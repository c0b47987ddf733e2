package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/homefix/internal/catalog"
	"github.com/BruksfildServices01/homefix/internal/config"
	"github.com/BruksfildServices01/homefix/internal/dto"
	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/httpresp"
	"github.com/BruksfildServices01/homefix/internal/logger"
	"github.com/BruksfildServices01/homefix/internal/usecase/booking"
	"github.com/BruksfildServices01/homefix/internal/usecase/dashboard"
	"github.com/BruksfildServices01/homefix/internal/usecase/review"
)

type TechnicianHandler struct {
	dashboards   *dashboard.Dashboards
	listBookings *booking.ListBookings
	complete     *booking.CompleteBooking
	listReviews  *review.ListReviews
	catalog      *catalog.Catalog
	config       *config.Config
	log          *logger.Logger
}

func NewTechnicianHandler(
	dashboards *dashboard.Dashboards,
	listBookings *booking.ListBookings,
	complete *booking.CompleteBooking,
	listReviews *review.ListReviews,
	cat *catalog.Catalog,
	cfg *config.Config,
	log *logger.Logger,
) *TechnicianHandler {
	return &TechnicianHandler{
		dashboards:   dashboards,
		listBookings: listBookings,
		complete:     complete,
		listReviews:  listReviews,
		catalog:      cat,
		config:       cfg,
		log:          log,
	}
}

type jobsView struct {
	Jobs     []catalog.Job        `json:"jobs"`
	Bookings []dto.BookingListDTO `json:"bookings"`
}

type reviewsView struct {
	Reviews []review.Received `json:"reviews"`
	Average float64           `json:"average"`
	Total   int               `json:"total"`
}

func (h *TechnicianHandler) Dashboard(c *gin.Context) {
	u, ok := sessionUser(c)
	if !ok {
		return
	}

	out, err := h.dashboards.Technician(c.Request.Context(), u)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.OK(c, "technician_dashboard", "Dashboard", out)
}

// Jobs lists the demo job board, filtered by
// ?status=&priority=&query=&sort=, next to the live bookings.
func (h *TechnicianHandler) Jobs(c *gin.Context) {
	u, ok := sessionUser(c)
	if !ok {
		return
	}

	var q catalog.JobQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, "invalid_query", "Invalid filters.")
		return
	}

	live, err := h.listBookings.ForTechnician(c.Request.Context(), u.Email)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	// Demo jobs belong to catalog profiles; an account without one only
	// has live bookings.
	jobs := []catalog.Job{}
	if t, ok := h.catalog.TechnicianByEmail(u.Email); ok {
		q.TechnicianID = t.ID
		jobs = h.catalog.FindJobs(q)
	}

	httpresp.OK(c, "technician_jobs", "Jobs", jobsView{
		Jobs:     jobs,
		Bookings: live,
	})
}

func (h *TechnicianHandler) CompleteJob(c *gin.Context) {
	u, ok := sessionUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	b, err := h.complete.Execute(c.Request.Context(), u, id)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.Redirect(c, h.config.Path("/technician/jobs"), gin.H{"booking": b})
}

func (h *TechnicianHandler) Reviews(c *gin.Context) {
	u, ok := sessionUser(c)
	if !ok {
		return
	}

	list, avg, err := h.listReviews.ForTechnician(c.Request.Context(), u.Email)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.OK(c, "technician_reviews", "Reviews", reviewsView{
		Reviews: list,
		Average: avg,
		Total:   len(list),
	})
}
