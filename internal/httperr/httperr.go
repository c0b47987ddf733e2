package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/BruksfildServices01/homefix/internal/web"
)

// GenericMessage is what users see when the simulated backend fails.
const GenericMessage = "Something went wrong. Please try again."

type HTTPError struct {
	Code    string            `json:"error_code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Write aborts the request with the error as JSON, or as the error page
// when the client asked for HTML.
func Write(c *gin.Context, status int, code, message string) {
	render(c, status, HTTPError{Code: code, Message: message})
}

func render(c *gin.Context, status int, body HTTPError) {
	c.Abort()
	c.Negotiate(status, gin.Negotiate{
		Offered:  []string{binding.MIMEJSON, binding.MIMEHTML},
		HTMLName: web.LayoutName,
		HTMLData: web.NewView(c, "error", http.StatusText(status), body),
		JSONData: body,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func TooManyRequests(c *gin.Context) {
	Write(c, http.StatusTooManyRequests, "rate_limited", "Too many requests. Please try again later.")
}

// Unavailable is the banner for simulated network failures.
func Unavailable(c *gin.Context) {
	Write(c, http.StatusServiceUnavailable, "service_unavailable", GenericMessage)
}
