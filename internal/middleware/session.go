package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/homefix/internal/domain/session"
	"github.com/BruksfildServices01/homefix/internal/usecase/auth"
	"github.com/BruksfildServices01/homefix/internal/web"
)

const (
	SessionCookie = "homefix_session"

	// ContextSessionError holds a session backend failure. The guard
	// answers it with 503; public pages ignore it.
	ContextSessionError = "sessionError"
)

// LoadSession resolves the session token from the cookie or a bearer
// header. It never rejects a request; guarding is RequireRoles' job.
func LoadSession(current *auth.Current) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c)
		if token == "" {
			c.Next()
			return
		}

		sid, user, err := current.Execute(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(web.ContextSessionID, sid)
			c.Set(web.ContextUser, user)
		case errors.Is(err, session.ErrNoSession):
			c.Set(web.ContextSessionID, sid)
		default:
			c.Set(ContextSessionError, err)
		}

		c.Next()
	}
}

func tokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func SessionError(c *gin.Context) error {
	v, ok := c.Get(ContextSessionError)
	if !ok {
		return nil
	}
	err, _ := v.(error)
	return err
}
