package web

import (
	"embed"
	"encoding/json"
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/homefix/internal/domain/role"
	"github.com/BruksfildServices01/homefix/internal/domain/session"
)

//go:embed templates/*.tmpl
var files embed.FS

// Context keys shared by middleware, handlers and error rendering.
const (
	ContextBasePath  = "basePath"
	ContextUser      = "sessionUser"
	ContextSessionID = "sessionID"
	ContextRequestID = "requestID"
)

// LayoutName is the template every HTML response renders through.
const LayoutName = "base"

// Templates parses the embedded templates. Called once at boot; a parse
// error is a build defect, so it panics.
func Templates() *template.Template {
	return template.Must(
		template.New("").Funcs(template.FuncMap{
			"json": func(v any) string {
				b, err := json.MarshalIndent(v, "", "  ")
				if err != nil {
					return err.Error()
				}
				return string(b)
			},
		}).ParseFS(files, "templates/*.tmpl"),
	)
}

// View is the data handed to the layout.
type View struct {
	Page  string
	Title string
	Base  string
	User  *session.User
	Role  *role.Meta
	Data  any
}

func BasePath(c *gin.Context) string {
	return c.GetString(ContextBasePath)
}

// CurrentUser returns the user the session middleware resolved, if any.
func CurrentUser(c *gin.Context) (*session.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*session.User)
	return u, ok && u != nil
}

func SessionID(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}

func NewView(c *gin.Context, page, title string, data any) View {
	v := View{
		Page:  page,
		Title: title,
		Base:  BasePath(c),
		Data:  data,
	}
	if u, ok := CurrentUser(c); ok {
		v.User = u
		if m, ok := u.Role.Meta(); ok {
			v.Role = &m
		}
	}
	return v
}
