package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/homefix/internal/web"
)

// BasePath exposes the deployment prefix to handlers and templates.
func BasePath(base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(web.ContextBasePath, base)
		c.Next()
	}
}
