package web

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/homefix/internal/domain/role"
	"github.com/BruksfildServices01/homefix/internal/domain/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTemplates_RenderEveryPage(t *testing.T) {
	tmpl := Templates()
	customer, _ := role.Customer.Meta()

	pages := []struct {
		page string
		data any
		want string
	}{
		{"login", map[string]any{
			"Error": "", "Redirect": "/x", "Email": "a@b.co", "Role": "customer",
			"Fields": map[string]string{"email": "bad email"},
			"Roles":  []role.Meta{customer},
		}, "bad email"},
		{"register", map[string]any{"Error": "taken", "Fields": map[string]string{}}, "taken"},
		{"access_denied", map[string]any{
			"RoleLabel": "Technician", "Required": []string{"admin"}, "Dashboard": "/technician/dashboard",
		}, "Technician"},
		{"missing_draft", map[string]any{
			"Links": []map[string]string{{"Path": "/services", "Label": "Browse services"}},
		}, "Browse services"},
		{"error", map[string]any{"Message": "Something went wrong.", "Fields": map[string]string{}}, "Something went wrong."},
		{"services", []string{"svc-plumbing"}, "svc-plumbing"},
	}

	for _, p := range pages {
		t.Run(p.page, func(t *testing.T) {
			var buf bytes.Buffer
			err := tmpl.ExecuteTemplate(&buf, LayoutName, View{
				Page:  p.page,
				Title: "Title",
				Base:  "/homefix",
				Data:  p.data,
			})
			require.NoError(t, err)
			assert.Contains(t, buf.String(), p.want)
			assert.Contains(t, buf.String(), `href="/homefix/login"`)
		})
	}
}

func TestNewView_CarriesRoleMeta(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(ContextBasePath, "/homefix")
	c.Set(ContextUser, &session.User{ID: "tech-1", Email: "tech@example.com", Role: role.Technician, Name: "Mike Johnson"})

	v := NewView(c, "data", "Jobs", nil)

	assert.Equal(t, "/homefix", v.Base)
	require.NotNil(t, v.Role)
	assert.Equal(t, "Technician", v.Role.Label)

	u, ok := CurrentUser(c)
	require.True(t, ok)
	assert.Equal(t, "tech-1", u.ID)
}
