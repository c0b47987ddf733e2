package role

import "strings"

type Role string

const (
	Customer   Role = "customer"
	Technician Role = "technician"
	Admin      Role = "admin"
)

// NavLink is one entry of a role's navigation menu.
type NavLink struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Meta is everything the UI needs to know about a role. Consumers read
// it from here instead of switching on the role themselves.
type Meta struct {
	Role      Role      `json:"role"`
	Label     string    `json:"label"`
	Icon      string    `json:"icon"`
	Dashboard string    `json:"dashboard"`
	Nav       []NavLink `json:"nav"`
}

var registry = map[Role]Meta{
	Customer: {
		Role:      Customer,
		Label:     "Customer",
		Icon:      "user",
		Dashboard: "/customer/dashboard",
		Nav: []NavLink{
			{Label: "Dashboard", Path: "/customer/dashboard"},
			{Label: "My Bookings", Path: "/customer/bookings"},
			{Label: "Book a Service", Path: "/services"},
			{Label: "Reviews", Path: "/customer/reviews"},
		},
	},
	Technician: {
		Role:      Technician,
		Label:     "Technician",
		Icon:      "wrench",
		Dashboard: "/technician/dashboard",
		Nav: []NavLink{
			{Label: "Dashboard", Path: "/technician/dashboard"},
			{Label: "Jobs", Path: "/technician/jobs"},
			{Label: "Reviews", Path: "/technician/reviews"},
		},
	},
	Admin: {
		Role:      Admin,
		Label:     "Administrator",
		Icon:      "shield",
		Dashboard: "/admin/dashboard",
		Nav: []NavLink{
			{Label: "Analytics", Path: "/admin/dashboard"},
			{Label: "Users", Path: "/admin/users"},
			{Label: "Services", Path: "/admin/services"},
			{Label: "Bookings", Path: "/admin/bookings"},
		},
	},
}

// All returns the roles in display order.
func All() []Role {
	return []Role{Customer, Technician, Admin}
}

func Parse(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	_, ok := registry[r]
	return r, ok
}

func (r Role) Valid() bool {
	_, ok := registry[r]
	return ok
}

func (r Role) Meta() (Meta, bool) {
	m, ok := registry[r]
	return m, ok
}

// Dashboard is the landing route for the role; unknown roles land on
// the login page.
func (r Role) Dashboard() string {
	if m, ok := registry[r]; ok {
		return m.Dashboard
	}
	return "/login"
}

func (r Role) String() string {
	return string(r)
}

// Set is an allowed-role set. Membership only: no role implies another.
type Set []Role

func (s Set) Allows(r Role) bool {
	for _, allowed := range s {
		if allowed == r {
			return true
		}
	}
	return false
}

func (s Set) Strings() []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
