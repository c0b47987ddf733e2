package handlers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/homefix/internal/domain/session"
	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/logger"
	"github.com/BruksfildServices01/homefix/internal/middleware"
	"github.com/BruksfildServices01/homefix/internal/web"
)

// sessionUser returns the user the guard already let through. Routes
// registered without a guard get a 401 instead of a panic.
func sessionUser(c *gin.Context) (session.User, bool) {
	u, ok := web.CurrentUser(c)
	if !ok {
		httperr.Unauthorized(c, "not_authenticated", "Please log in.")
		return session.User{}, false
	}
	return *u, true
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return n
}

// fail answers err and logs anything that was not an expected failure.
func fail(c *gin.Context, log *logger.Logger, err error) {
	if !httperr.FromError(c, err) {
		middleware.RequestLog(c, log).WithError(err).Error("unexpected error")
	}
}

// SafeRedirect reports whether target is a local path under base that
// is safe to send the user to after login.
func SafeRedirect(base, target string) bool {
	if target == "" || !strings.HasPrefix(target, "/") {
		return false
	}
	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return false
	}

	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return false
	}

	path := u.Path
	if base != "" {
		if path != base && !strings.HasPrefix(path, base+"/") {
			return false
		}
		path = strings.TrimPrefix(path, base)
	}

	switch path {
	case "/login", "/logout":
		return false
	}
	return true
}
