package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/homefix/internal/audit"
	"github.com/BruksfildServices01/homefix/internal/catalog"
	"github.com/BruksfildServices01/homefix/internal/config"
	"github.com/BruksfildServices01/homefix/internal/domain/account"
	"github.com/BruksfildServices01/homefix/internal/domain/contact"
	"github.com/BruksfildServices01/homefix/internal/export"
	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/httpresp"
	"github.com/BruksfildServices01/homefix/internal/logger"
	"github.com/BruksfildServices01/homefix/internal/models"
	"github.com/BruksfildServices01/homefix/internal/timezone"
	"github.com/BruksfildServices01/homefix/internal/usecase/booking"
	"github.com/BruksfildServices01/homefix/internal/usecase/dashboard"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
	recentMessages    = 50
)

// ======================================================
// HANDLER
// ======================================================

type AdminHandler struct {
	dashboards   *dashboard.Dashboards
	listBookings *booking.ListBookings
	accounts     account.Repository
	messages     contact.Repository
	auditLogs    audit.Reader
	catalog      *catalog.Catalog
	config       *config.Config
	log          *logger.Logger
}

func NewAdminHandler(
	dashboards *dashboard.Dashboards,
	listBookings *booking.ListBookings,
	accounts account.Repository,
	messages contact.Repository,
	auditLogs audit.Reader,
	cat *catalog.Catalog,
	cfg *config.Config,
	log *logger.Logger,
) *AdminHandler {
	return &AdminHandler{
		dashboards:   dashboards,
		listBookings: listBookings,
		accounts:     accounts,
		messages:     messages,
		auditLogs:    auditLogs,
		catalog:      cat,
		config:       cfg,
		log:          log,
	}
}

type usersView struct {
	Users    []catalog.User   `json:"users"`
	Accounts []models.Account `json:"accounts"`
	Total    int              `json:"total"`
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	out, err := h.dashboards.Admin(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.OK(c, "admin_dashboard", "Analytics", out)
}

// Users lists the demo directory (?role=&status=&query=&sort=) and the
// registered accounts.
func (h *AdminHandler) Users(c *gin.Context) {
	var q catalog.UserQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, "invalid_query", "Invalid filters.")
		return
	}

	accounts, err := h.accounts.List(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}

	users := h.catalog.FindUsers(q)
	httpresp.OK(c, "admin_users", "Users", usersView{
		Users:    users,
		Accounts: accounts,
		Total:    len(users) + len(accounts),
	})
}

func (h *AdminHandler) Services(c *gin.Context) {
	var q catalog.ServiceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, "invalid_query", "Invalid filters.")
		return
	}

	httpresp.List(c, "admin_services", "Services", h.catalog.FindServices(q))
}

// Bookings is the paged listing: ?status=&query=&page=&limit=
func (h *AdminHandler) Bookings(c *gin.Context) {
	page, err := h.listBookings.All(
		c.Request.Context(),
		c.Query("status"),
		c.Query("query"),
		queryInt(c, "page", 1),
		queryInt(c, "limit", 0),
	)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.OK(c, "admin_bookings", "Bookings", page)
}

// ExportBookings downloads the filtered bookings as a spreadsheet.
func (h *AdminHandler) ExportBookings(c *gin.Context) {
	rows, err := h.listBookings.Export(c.Request.Context(), c.Query("status"), c.Query("query"))
	if err != nil {
		fail(c, h.log, err)
		return
	}

	now := timezone.NowIn(h.config.Timezone)
	data, err := export.BookingsXLSX(rows, now)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.FileName(now)+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *AdminHandler) Messages(c *gin.Context) {
	list, err := h.messages.ListRecent(c.Request.Context(), recentMessages)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.List(c, "admin_messages", "Messages", list)
}

// AuditLogs filters by ?action=&entity=&from=YYYY-MM-DD&to=YYYY-MM-DD
// with page/limit paging. Dates are whole days in the marketplace
// timezone; to is inclusive.
func (h *AdminHandler) AuditLogs(c *gin.Context) {
	page := queryInt(c, "page", 1)
	if page <= 0 {
		page = 1
	}

	limit := queryInt(c, "limit", defaultAuditLimit)
	if limit <= 0 || limit > maxAuditLimit {
		limit = defaultAuditLimit
	}

	f := audit.Filter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	loc := timezone.Location(h.config.Timezone)
	if from, err := timezone.ParseDate(c.Query("from"), loc); err == nil {
		f.From = &from
	}
	if to, err := timezone.ParseDate(c.Query("to"), loc); err == nil {
		end := to.Add(24 * time.Hour)
		f.To = &end
	}

	logs, total, err := h.auditLogs.List(c.Request.Context(), f)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	httpresp.OK(c, "admin_audit_logs", "Audit log", gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
