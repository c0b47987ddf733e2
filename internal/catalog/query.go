package catalog

import (
	"sort"
	"strings"
)

func filter[T any](xs []T, keep func(T) bool) []T {
	out := make([]T, 0, len(xs))
	for _, x := range xs {
		if keep(x) {
			out = append(out, x)
		}
	}
	return out
}

func sortBy[T any](xs []T, less func(a, b T) bool) {
	sort.SliceStable(xs, func(i, j int) bool { return less(xs[i], xs[j]) })
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ======================================================
// SERVICES
// ======================================================

type ServiceQuery struct {
	Category string   `form:"category"`
	MinPrice *float64 `form:"min_price"`
	MaxPrice *float64 `form:"max_price"`
	Search   string   `form:"query"`
	Sort     string   `form:"sort"` // price_asc, price_desc, rating, name
}

func (c *Catalog) FindServices(q ServiceQuery) []Service {
	category := norm(q.Category)
	search := norm(q.Search)

	out := filter(c.Services, func(s Service) bool {
		if category != "" && norm(s.Category) != category {
			return false
		}
		if q.MinPrice != nil && s.Price < *q.MinPrice {
			return false
		}
		if q.MaxPrice != nil && s.Price > *q.MaxPrice {
			return false
		}
		if search != "" && !contains(s.Name, search) && !contains(s.Description, search) {
			return false
		}
		return true
	})

	switch norm(q.Sort) {
	case "price_asc":
		sortBy(out, func(a, b Service) bool { return a.Price < b.Price })
	case "price_desc":
		sortBy(out, func(a, b Service) bool { return a.Price > b.Price })
	case "rating":
		sortBy(out, func(a, b Service) bool { return a.Rating > b.Rating })
	case "name":
		sortBy(out, func(a, b Service) bool { return a.Name < b.Name })
	}
	return out
}

// ======================================================
// USERS (ADMIN)
// ======================================================

type UserQuery struct {
	Role   string `form:"role"`
	Status string `form:"status"`
	Search string `form:"query"`
	Sort   string `form:"sort"` // name, joined, bookings
}

func (c *Catalog) FindUsers(q UserQuery) []User {
	r := norm(q.Role)
	status := norm(q.Status)
	search := norm(q.Search)

	out := filter(c.Users, func(u User) bool {
		if r != "" && r != "all" && u.Role != r {
			return false
		}
		if status != "" && status != "all" && u.Status != status {
			return false
		}
		if search != "" && !contains(u.Name, search) && !contains(u.Email, search) {
			return false
		}
		return true
	})

	switch norm(q.Sort) {
	case "name":
		sortBy(out, func(a, b User) bool { return a.Name < b.Name })
	case "joined":
		sortBy(out, func(a, b User) bool { return a.JoinedAt > b.JoinedAt })
	case "bookings":
		sortBy(out, func(a, b User) bool { return a.Bookings > b.Bookings })
	}
	return out
}

// ======================================================
// JOBS (TECHNICIAN)
// ======================================================

type JobQuery struct {
	Status   string `form:"status"`
	Priority string `form:"priority"`
	Search   string `form:"query"`
	Sort     string `form:"sort"` // date_asc, date_desc, amount

	// TechnicianID is set from the session, never from the query string.
	TechnicianID string `form:"-"`
}

func (c *Catalog) FindJobs(q JobQuery) []Job {
	status := norm(q.Status)
	priority := norm(q.Priority)
	search := norm(q.Search)

	out := filter(c.Jobs, func(j Job) bool {
		if q.TechnicianID != "" && j.TechnicianID != q.TechnicianID {
			return false
		}
		if status != "" && status != "all" && j.Status != status {
			return false
		}
		if priority != "" && priority != "all" && j.Priority != priority {
			return false
		}
		if search != "" && !contains(j.CustomerName, search) && !contains(j.Address, search) {
			if svc, ok := c.Service(j.ServiceID); !ok || !contains(svc.Name, search) {
				return false
			}
		}
		return true
	})

	switch norm(q.Sort) {
	case "date_asc":
		sortBy(out, func(a, b Job) bool { return a.Date < b.Date })
	case "date_desc", "":
		sortBy(out, func(a, b Job) bool { return a.Date > b.Date })
	case "amount":
		sortBy(out, func(a, b Job) bool { return a.Amount > b.Amount })
	}
	return out
}
