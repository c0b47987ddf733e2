package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/homefix/internal/config"
	"github.com/BruksfildServices01/homefix/internal/domain/role"
	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/httpresp"
	"github.com/BruksfildServices01/homefix/internal/logger"
	"github.com/BruksfildServices01/homefix/internal/metrics"
	"github.com/BruksfildServices01/homefix/internal/middleware"
	"github.com/BruksfildServices01/homefix/internal/usecase/auth"
	"github.com/BruksfildServices01/homefix/internal/validators"
	"github.com/BruksfildServices01/homefix/internal/web"
)

type AuthHandler struct {
	login    *auth.Login
	register *auth.Register
	logout   *auth.Logout
	config   *config.Config
	log      *logger.Logger
}

func NewAuthHandler(
	login *auth.Login,
	register *auth.Register,
	logout *auth.Logout,
	cfg *config.Config,
	log *logger.Logger,
) *AuthHandler {
	return &AuthHandler{
		login:    login,
		register: register,
		logout:   logout,
		config:   cfg,
		log:      log,
	}
}

// --------- Requests ---------

type LoginRequest struct {
	auth.LoginInput
	Redirect string `json:"redirect" form:"redirect"`
}

type RegisterRequest struct {
	auth.RegisterInput
}

// --------- Views ---------

type loginView struct {
	Error    string                 `json:"error,omitempty"`
	Redirect string                 `json:"redirect,omitempty"`
	Email    string                 `json:"email,omitempty"`
	Role     string                 `json:"role,omitempty"`
	Fields   validators.FieldErrors `json:"fields,omitempty"`
	Roles    []role.Meta            `json:"roles"`
}

type registerView struct {
	Error  string                 `json:"error,omitempty"`
	Fields validators.FieldErrors `json:"fields,omitempty"`
}

func roleOptions() []role.Meta {
	out := make([]role.Meta, 0, len(role.All()))
	for _, r := range role.All() {
		if m, ok := r.Meta(); ok {
			out = append(out, m)
		}
	}
	return out
}

// --------- Handlers ---------

// LoginPage shows the form. Someone already signed in goes straight to
// their dashboard.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if u, ok := web.CurrentUser(c); ok {
		httpresp.Redirect(c, h.config.Path(u.Role.Dashboard()), nil)
		return
	}

	httpresp.OK(c, "login", "Log in", loginView{
		Redirect: c.Query("redirect"),
		Role:     string(role.Customer),
		Roles:    roleOptions(),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}
	if req.Redirect == "" {
		req.Redirect = c.Query("redirect")
	}
	req.PreviousSID = web.SessionID(c)

	res, err := h.login.Execute(c.Request.Context(), req.LoginInput)
	if err != nil {
		metrics.RecordLogin(roleLabel(req.Role), outcomeOf(err))
		h.loginFailed(c, req, err)
		return
	}
	metrics.RecordLogin(res.User.Role.String(), "success")

	h.setSessionCookie(c, res.Token)

	target := h.config.Path(res.User.Role.Dashboard())
	if SafeRedirect(h.config.BasePath, req.Redirect) {
		target = req.Redirect
	}

	httpresp.Redirect(c, target, gin.H{
		"user":  res.User,
		"token": res.Token,
	})
}

func (h *AuthHandler) loginFailed(c *gin.Context, req LoginRequest, err error) {
	if !httpresp.WantsHTML(c) {
		fail(c, h.log, err)
		return
	}

	status, body, known := httperr.Describe(err)
	if !known {
		middleware.RequestLog(c, h.log).WithError(err).Error("login failed")
	}

	view := loginView{
		Redirect: req.Redirect,
		Email:    req.Email,
		Role:     req.Role,
		Roles:    roleOptions(),
		Fields:   validators.FieldErrors(body.Fields),
	}
	if view.Fields == nil {
		view.Error = body.Message
	}
	httpresp.Page(c, status, "login", "Log in", view)
}

func (h *AuthHandler) RegisterPage(c *gin.Context) {
	httpresp.OK(c, "register", "Create an account", registerView{})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	res, err := h.register.Execute(c.Request.Context(), req.RegisterInput, web.SessionID(c))
	if err != nil {
		if !httpresp.WantsHTML(c) {
			fail(c, h.log, err)
			return
		}
		status, body, _ := httperr.Describe(err)
		view := registerView{Fields: validators.FieldErrors(body.Fields)}
		if view.Fields == nil {
			view.Error = body.Message
		}
		httpresp.Page(c, status, "register", "Create an account", view)
		return
	}
	metrics.RecordLogin(res.User.Role.String(), "registered")

	h.setSessionCookie(c, res.Token)

	httpresp.Redirect(c, h.config.Path(res.User.Role.Dashboard()), gin.H{
		"user":  res.User,
		"token": res.Token,
	})
}

// Logout always ends on the login page, even when there was no session.
func (h *AuthHandler) Logout(c *gin.Context) {
	u, _ := web.CurrentUser(c)

	if err := h.logout.Execute(c.Request.Context(), web.SessionID(c), u); err != nil {
		middleware.RequestLog(c, h.log).WithError(err).Warn("logout: clearing session failed")
	}

	h.clearSessionCookie(c)

	target := h.config.Path("/login")
	if httpresp.WantsHTML(c) || c.Request.Method == http.MethodGet {
		c.Redirect(http.StatusSeeOther, target)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": target})
}

// Session returns who is signed in.
func (h *AuthHandler) Session(c *gin.Context) {
	if err := middleware.SessionError(c); err != nil {
		httperr.Unavailable(c)
		return
	}

	u, ok := web.CurrentUser(c)
	if !ok {
		httperr.Unauthorized(c, "not_authenticated", "Please log in.")
		return
	}

	meta, _ := u.Role.Meta()
	c.JSON(http.StatusOK, gin.H{
		"user": u,
		"role": meta,
	})
}

// --------- Cookie ---------

func (h *AuthHandler) cookiePath() string {
	if h.config.BasePath == "" {
		return "/"
	}
	return h.config.BasePath
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middleware.SessionCookie,
		token,
		int(h.config.SessionTTL.Seconds()),
		h.cookiePath(),
		"",
		h.config.IsProduction(),
		true,
	)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, h.cookiePath(), "", h.config.IsProduction(), true)
}

func outcomeOf(err error) string {
	if _, ok := validators.AsFieldErrors(err); ok {
		return "invalid"
	}
	if httperr.IsBusiness(err, "invalid_credentials") {
		return "rejected"
	}
	return "error"
}

// roleLabel keeps arbitrary form input out of metric labels.
func roleLabel(s string) string {
	if r, ok := role.Parse(s); ok {
		return r.String()
	}
	return "unknown"
}
