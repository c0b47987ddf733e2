package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/homefix/internal/catalog"
	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/httpresp"
	"github.com/BruksfildServices01/homefix/internal/logger"
	"github.com/BruksfildServices01/homefix/internal/metrics"
	"github.com/BruksfildServices01/homefix/internal/middleware"
	"github.com/BruksfildServices01/homefix/internal/usecase/contact"
	"github.com/BruksfildServices01/homefix/internal/validators"
)

// PublicHandler serves the pages anyone can see.
type PublicHandler struct {
	catalog *catalog.Catalog
	contact *contact.Submit
	log     *logger.Logger
}

func NewPublicHandler(cat *catalog.Catalog, submit *contact.Submit, log *logger.Logger) *PublicHandler {
	return &PublicHandler{catalog: cat, contact: submit, log: log}
}

type homeView struct {
	Featured     []catalog.Service     `json:"featured"`
	Categories   []string              `json:"categories"`
	Testimonials []catalog.Testimonial `json:"testimonials"`
}

type contactView struct {
	Sent   bool                   `json:"sent"`
	Error  string                 `json:"error,omitempty"`
	Input  contact.Input          `json:"input"`
	Fields validators.FieldErrors `json:"fields,omitempty"`
}

func (h *PublicHandler) Home(c *gin.Context) {
	httpresp.OK(c, "home", "HomeFix", homeView{
		Featured:     h.catalog.Featured(),
		Categories:   h.catalog.Categories(),
		Testimonials: h.catalog.Testimonials,
	})
}

func (h *PublicHandler) About(c *gin.Context) {
	httpresp.OK(c, "about", "About us", gin.H{
		"services":    len(h.catalog.Services),
		"technicians": len(h.catalog.Technicians),
		"categories":  h.catalog.Categories(),
	})
}

// Services lists the catalog with optional filters:
// ?category=&min_price=&max_price=&query=&sort=price_asc|price_desc|rating|name
func (h *PublicHandler) Services(c *gin.Context) {
	var q catalog.ServiceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, "invalid_query", "Invalid filters.")
		return
	}

	httpresp.List(c, "services", "Services", h.catalog.FindServices(q))
}

func (h *PublicHandler) Service(c *gin.Context) {
	svc, ok := h.catalog.Service(c.Param("serviceId"))
	if !ok {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	httpresp.OK(c, "service", svc.Name, gin.H{
		"service":     svc,
		"technicians": h.catalog.TechniciansFor(svc.ID),
	})
}

func (h *PublicHandler) ContactPage(c *gin.Context) {
	httpresp.OK(c, "contact", "Contact us", contactView{})
}

// Contact validates before anything goes over the network. Browsers get
// the form back with the errors next to the fields.
func (h *PublicHandler) Contact(c *gin.Context) {
	var in contact.Input
	if err := c.ShouldBind(&in); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	msg, err := h.contact.Execute(c.Request.Context(), in)
	if err != nil {
		metrics.RecordContactSubmission(outcomeOf(err))

		if !httpresp.WantsHTML(c) {
			fail(c, h.log, err)
			return
		}

		status, body, known := httperr.Describe(err)
		if !known {
			middleware.RequestLog(c, h.log).WithError(err).Error("contact submit failed")
		}
		view := contactView{Input: in, Fields: validators.FieldErrors(body.Fields)}
		if view.Fields == nil {
			view.Error = body.Message
		}
		httpresp.Page(c, status, "contact", "Contact us", view)
		return
	}
	metrics.RecordContactSubmission("success")

	if httpresp.WantsHTML(c) {
		httpresp.Page(c, http.StatusCreated, "contact", "Contact us", contactView{Sent: true})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"sent": true, "id": msg.ID})
}

func (h *PublicHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
