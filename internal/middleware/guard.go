package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/homefix/internal/domain/role"
	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/httpresp"
	"github.com/BruksfildServices01/homefix/internal/metrics"
	"github.com/BruksfildServices01/homefix/internal/web"
)

// AccessDenied is what the guard shows a signed-in user whose role is
// not allowed on the route.
type AccessDenied struct {
	Error     string    `json:"error_code"`
	Role      role.Role `json:"role"`
	RoleLabel string    `json:"role_label"`
	Required  []string  `json:"required_roles"`
	Dashboard string    `json:"dashboard"`
}

// RequireRoles lets the request through only when the session role is
// one of allowed. Membership only: no role implies another.
func RequireRoles(allowed ...role.Role) gin.HandlerFunc {
	set := role.Set(allowed)

	return func(c *gin.Context) {
		if SessionError(c) != nil {
			metrics.RecordGuardDenial("store_error")
			httperr.Unavailable(c)
			return
		}

		user, ok := web.CurrentUser(c)
		if !ok {
			metrics.RecordGuardDenial("unauthenticated")
			c.Redirect(http.StatusFound, LoginURL(web.BasePath(c), c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		if !set.Allows(user.Role) {
			metrics.RecordGuardDenial("forbidden")
			meta, _ := user.Role.Meta()
			httpresp.Page(c, http.StatusForbidden, "access_denied", "Access denied", AccessDenied{
				Error:     "access_denied",
				Role:      user.Role,
				RoleLabel: meta.Label,
				Required:  set.Strings(),
				Dashboard: user.Role.Dashboard(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// LoginURL builds the login link that brings the user back to target
// afterwards.
func LoginURL(base, target string) string {
	return base + "/login?redirect=" + url.QueryEscape(target)
}
