package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/homefix/internal/catalog"
	"github.com/BruksfildServices01/homefix/internal/config"
	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/httpresp"
	"github.com/BruksfildServices01/homefix/internal/logger"
	"github.com/BruksfildServices01/homefix/internal/usecase/booking"
	"github.com/BruksfildServices01/homefix/internal/usecase/dashboard"
	"github.com/BruksfildServices01/homefix/internal/usecase/review"
)

type CustomerHandler struct {
	dashboards   *dashboard.Dashboards
	listBookings *booking.ListBookings
	cancel       *booking.CancelBooking
	createReview *review.CreateReview
	listReviews  *review.ListReviews
	catalog      *catalog.Catalog
	config       *config.Config
	log          *logger.Logger
}

func NewCustomerHandler(
	dashboards *dashboard.Dashboards,
	listBookings *booking.ListBookings,
	cancel *booking.CancelBooking,
	createReview *review.CreateReview,
	listReviews *review.ListReviews,
	cat *catalog.Catalog,
	cfg *config.Config,
	log *logger.Logger,
) *CustomerHandler {
	return &CustomerHandler{
		dashboards:   dashboards,
		listBookings: listBookings,
		cancel:       cancel,
		createReview: createReview,
		listReviews:  listReviews,
		catalog:      cat,
		config:       cfg,
		log:          log,
	}
}

func (h *CustomerHandler) Dashboard(c *gin.Context) {
	u, ok := sessionUser(c)
	if !ok {
		return
	}

	out, err := h.dashboards.Customer(c.Request.Context(), u)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.OK(c, "customer_dashboard", "Dashboard", out)
}

func (h *CustomerHandler) Bookings(c *gin.Context) {
	u, ok := sessionUser(c)
	if !ok {
		return
	}

	list, err := h.listBookings.ForCustomer(c.Request.Context(), u.Email)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.List(c, "customer_bookings", "My bookings", list)
}

func (h *CustomerHandler) CancelBooking(c *gin.Context) {
	u, ok := sessionUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	b, err := h.cancel.Execute(c.Request.Context(), u, id)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.Redirect(c, h.config.Path("/customer/bookings"), gin.H{"booking": b})
}

func (h *CustomerHandler) Reviews(c *gin.Context) {
	u, ok := sessionUser(c)
	if !ok {
		return
	}

	list, err := h.listReviews.ByCustomer(c.Request.Context(), u.Email)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.List(c, "customer_reviews", "My reviews", list)
}

func (h *CustomerHandler) CreateReview(c *gin.Context) {
	u, ok := sessionUser(c)
	if !ok {
		return
	}

	var in review.CreateInput
	if err := c.ShouldBind(&in); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	rv, err := h.createReview.Execute(c.Request.Context(), u, in)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	if httpresp.WantsHTML(c) {
		c.Redirect(http.StatusSeeOther, h.config.Path("/customer/reviews"))
		return
	}
	c.JSON(http.StatusCreated, rv)
}

func (h *CustomerHandler) Addresses(c *gin.Context) {
	httpresp.List(c, "customer_addresses", "Saved addresses", h.catalog.Addresses)
}
