package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/homefix/internal/audit"
	"github.com/BruksfildServices01/homefix/internal/catalog"
	"github.com/BruksfildServices01/homefix/internal/config"
	"github.com/BruksfildServices01/homefix/internal/domain/account"
	"github.com/BruksfildServices01/homefix/internal/domain/booking"
	"github.com/BruksfildServices01/homefix/internal/domain/contact"
	"github.com/BruksfildServices01/homefix/internal/domain/review"
	"github.com/BruksfildServices01/homefix/internal/domain/role"
	"github.com/BruksfildServices01/homefix/internal/domain/session"
	"github.com/BruksfildServices01/homefix/internal/gateway"
	"github.com/BruksfildServices01/homefix/internal/handlers"
	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/logger"
	"github.com/BruksfildServices01/homefix/internal/metrics"
	"github.com/BruksfildServices01/homefix/internal/middleware"
	ucAuth "github.com/BruksfildServices01/homefix/internal/usecase/auth"
	ucBooking "github.com/BruksfildServices01/homefix/internal/usecase/booking"
	ucContact "github.com/BruksfildServices01/homefix/internal/usecase/contact"
	ucDashboard "github.com/BruksfildServices01/homefix/internal/usecase/dashboard"
	ucReview "github.com/BruksfildServices01/homefix/internal/usecase/review"
	ucWizard "github.com/BruksfildServices01/homefix/internal/usecase/wizard"
	"github.com/BruksfildServices01/homefix/internal/validators"
)

// Deps is everything the routes need from the outside world. main wires
// the real backends; tests wire in-memory ones.
type Deps struct {
	Config  *config.Config
	Log     *logger.Logger
	Catalog *catalog.Catalog

	Sessions session.Store
	Drafts   booking.DraftStore

	Bookings booking.Repository
	Accounts account.Repository
	Reviews  review.Repository
	Messages contact.Repository

	Audit     *audit.Dispatcher
	AuditLogs audit.Reader

	Gateway  gateway.Caller
	Validate *validators.Validator

	// Limiter guards login, register and contact. Nil disables it.
	Limiter *middleware.RateLimiter

	// DomainCheck, when set, looks up the email domain at registration.
	DomainCheck func(email string) bool

	// Now overrides the clock of the wizard and dashboards.
	Now func() time.Time
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	now := d.Now
	if now == nil {
		now = time.Now
	}

	// ======================================================
	// USE CASES - AUTH
	// ======================================================
	tokens := ucAuth.NewTokens(cfg.JWTSecret, cfg.SessionTTL)

	loginUC := ucAuth.NewLogin(
		d.Sessions,
		d.Accounts,
		d.Catalog,
		d.Gateway,
		tokens,
		d.Validate,
		d.Audit,
	)
	registerUC := ucAuth.NewRegister(d.Accounts, loginUC, d.Validate, d.Audit)
	if d.DomainCheck != nil {
		registerUC.WithDomainCheck(d.DomainCheck)
	}
	logoutUC := ucAuth.NewLogout(d.Sessions, d.Audit)
	currentUC := ucAuth.NewCurrent(d.Sessions, tokens)

	// ======================================================
	// USE CASES - BOOKINGS
	// ======================================================
	wizardUC := ucWizard.New(d.Drafts, d.Catalog, d.Gateway, d.Audit, cfg.Timezone).WithClock(now)
	confirmUC := ucWizard.NewConfirm(wizardUC, d.Bookings)

	listBookingsUC := ucBooking.NewListBookings(d.Bookings)
	cancelBookingUC := ucBooking.NewCancelBooking(d.Bookings, d.Audit, cfg.Timezone).WithClock(now)
	completeBookingUC := ucBooking.NewCompleteBooking(d.Bookings, d.Audit, cfg.Timezone)

	createReviewUC := ucReview.NewCreateReview(d.Reviews, d.Bookings, d.Validate, d.Audit)
	listReviewsUC := ucReview.NewListReviews(d.Reviews, d.Catalog)

	dashboards := ucDashboard.New(d.Catalog, d.Bookings, cfg.Timezone).WithClock(now)

	contactUC := ucContact.NewSubmit(d.Messages, d.Gateway, d.Validate, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(loginUC, registerUC, logoutUC, cfg, d.Log)
	publicHandler := handlers.NewPublicHandler(d.Catalog, contactUC, d.Log)
	wizardHandler := handlers.NewWizardHandler(wizardUC, confirmUC, d.Catalog, cfg, d.Log)

	customerHandler := handlers.NewCustomerHandler(
		dashboards,
		listBookingsUC,
		cancelBookingUC,
		createReviewUC,
		listReviewsUC,
		d.Catalog,
		cfg,
		d.Log,
	)

	technicianHandler := handlers.NewTechnicianHandler(
		dashboards,
		listBookingsUC,
		completeBookingUC,
		listReviewsUC,
		d.Catalog,
		cfg,
		d.Log,
	)

	adminHandler := handlers.NewAdminHandler(
		dashboards,
		listBookingsUC,
		d.Accounts,
		d.Messages,
		d.AuditLogs,
		d.Catalog,
		cfg,
		d.Log,
	)

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.CORSMiddleware(),
		middleware.RequestLogger(d.Log),
		metrics.Middleware(),
		middleware.BasePath(cfg.BasePath),
		middleware.LoadSession(currentUC),
	)

	r.NoRoute(func(c *gin.Context) {
		httperr.NotFound(c, "not_found", "Page not found.")
	})

	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if d.Limiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{d.Limiter.Middleware(), h}
	}

	app := r.Group(cfg.BasePath)

	// ======================================================
	// PUBLIC
	// ======================================================
	app.GET("/", publicHandler.Home)
	app.GET("/about", publicHandler.About)
	app.GET("/services", publicHandler.Services)
	app.GET("/services/:serviceId", publicHandler.Service)
	app.GET("/contact", publicHandler.ContactPage)
	app.POST("/contact", limited(publicHandler.Contact)...)

	app.GET("/health", publicHandler.Health)
	app.GET("/metrics", metrics.Handler())

	// ======================================================
	// AUTH
	// ======================================================
	app.GET("/login", authHandler.LoginPage)
	app.POST("/login", limited(authHandler.Login)...)
	app.GET("/register", authHandler.RegisterPage)
	app.POST("/register", limited(authHandler.Register)...)
	app.POST("/logout", authHandler.Logout)
	app.GET("/logout", authHandler.Logout)
	app.GET("/session", authHandler.Session)

	// ======================================================
	// CUSTOMER
	// ======================================================
	customer := app.Group("/customer", middleware.RequireRoles(role.Customer))
	{
		customer.GET("/dashboard", customerHandler.Dashboard)

		customer.GET("/bookings", customerHandler.Bookings)
		customer.POST("/bookings/:id/cancel", customerHandler.CancelBooking)

		customer.GET("/reviews", customerHandler.Reviews)
		customer.POST("/reviews", customerHandler.CreateReview)

		customer.GET("/addresses", customerHandler.Addresses)

		// ------------------------------
		// BOOKING WIZARD
		// ------------------------------
		customer.GET("/book/:serviceId", wizardHandler.Start)
		customer.POST("/book/:serviceId/step/:step", wizardHandler.Submit)
		customer.POST("/book/:serviceId/back", wizardHandler.Back)
		customer.POST("/book/:serviceId/cancel", wizardHandler.Cancel)
		customer.DELETE("/book/:serviceId", wizardHandler.Cancel)

		customer.GET("/book/:serviceId/technicians", wizardHandler.Technicians)
		customer.POST("/book/:serviceId/technicians/:technicianId", wizardHandler.Confirm)
	}

	// ======================================================
	// TECHNICIAN
	// ======================================================
	technician := app.Group("/technician", middleware.RequireRoles(role.Technician))
	{
		technician.GET("/dashboard", technicianHandler.Dashboard)
		technician.GET("/jobs", technicianHandler.Jobs)
		technician.POST("/jobs/:id/complete", technicianHandler.CompleteJob)
		technician.GET("/reviews", technicianHandler.Reviews)
	}

	// ======================================================
	// ADMIN
	// ======================================================
	admin := app.Group("/admin", middleware.RequireRoles(role.Admin))
	{
		admin.GET("/dashboard", adminHandler.Dashboard)
		admin.GET("/users", adminHandler.Users)
		admin.GET("/services", adminHandler.Services)
		admin.GET("/bookings", adminHandler.Bookings)
		admin.GET("/bookings/export", adminHandler.ExportBookings)
		admin.GET("/messages", adminHandler.Messages)
		admin.GET("/audit-logs", adminHandler.AuditLogs)
	}

	if cfg.BasePath != "" {
		r.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusFound, cfg.BasePath+"/")
		})
	}
}
