package httpresp

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/BruksfildServices01/homefix/internal/web"
)

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// Page answers with data as JSON, or renders it through the layout when
// the client prefers HTML.
func Page(c *gin.Context, status int, page, title string, data any) {
	c.Negotiate(status, gin.Negotiate{
		Offered:  []string{binding.MIMEJSON, binding.MIMEHTML},
		HTMLName: web.LayoutName,
		HTMLData: web.NewView(c, page, title, data),
		JSONData: data,
	})
}

func OK(c *gin.Context, page, title string, data any) {
	Page(c, http.StatusOK, page, title, data)
}

func List[T any](c *gin.Context, page, title string, data []T) {
	OK(c, page, title, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}

// WantsHTML reports whether the client is a browser rather than an API
// caller.
func WantsHTML(c *gin.Context) bool {
	return c.NegotiateFormat(binding.MIMEJSON, binding.MIMEHTML) == binding.MIMEHTML
}

// Redirect sends browsers to target with 303 so a form POST becomes a
// GET. API callers receive the target in the body instead.
func Redirect(c *gin.Context, target string, body gin.H) {
	if WantsHTML(c) || isFormPost(c) {
		c.Redirect(http.StatusSeeOther, target)
		return
	}

	if body == nil {
		body = gin.H{}
	}
	body["redirect"] = target
	c.JSON(http.StatusOK, body)
}

func isFormPost(c *gin.Context) bool {
	ct := c.ContentType()
	return c.Request.Method == http.MethodPost &&
		(ct == binding.MIMEPOSTForm || strings.HasPrefix(ct, binding.MIMEMultipartPOSTForm))
}
