package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/BruksfildServices01/homefix/internal/catalog"
	"github.com/BruksfildServices01/homefix/internal/domain/booking"
	"github.com/BruksfildServices01/homefix/internal/domain/session"
	"github.com/BruksfildServices01/homefix/internal/dto"
	"github.com/BruksfildServices01/homefix/internal/timezone"
)

// Dashboards aggregates the seed data with live bookings for each role's
// landing page.
type Dashboards struct {
	catalog  *catalog.Catalog
	bookings booking.Repository
	timezone string
	now      func() time.Time
}

func New(cat *catalog.Catalog, bookings booking.Repository, tz string) *Dashboards {
	return &Dashboards{catalog: cat, bookings: bookings, timezone: tz, now: time.Now}
}

// WithClock replaces the time source. Tests only.
func (d *Dashboards) WithClock(now func() time.Time) *Dashboards {
	d.now = now
	return d
}

// ======================================================
// ADMIN
// ======================================================

type ServiceRevenue struct {
	ServiceID string  `json:"service_id"`
	Name      string  `json:"name"`
	Orders    int     `json:"orders"`
	Revenue   float64 `json:"revenue"`
}

type Admin struct {
	TotalRevenue   float64          `json:"total_revenue"`
	TotalOrders    int              `json:"total_orders"`
	OrdersByStatus map[string]int   `json:"orders_by_status"`
	UsersByRole    map[string]int   `json:"users_by_role"`
	ActiveUsers    int              `json:"active_users"`
	TopServices    []ServiceRevenue `json:"top_services"`
	Bookings       map[string]int64 `json:"bookings"`
}

// Admin counts only completed orders towards revenue.
func (d *Dashboards) Admin(ctx context.Context) (*Admin, error) {
	out := &Admin{
		OrdersByStatus: map[string]int{},
		UsersByRole:    map[string]int{},
	}

	perService := map[string]*ServiceRevenue{}
	for _, o := range d.catalog.Orders {
		out.TotalOrders++
		out.OrdersByStatus[o.Status]++
		if o.Status != "completed" {
			continue
		}
		out.TotalRevenue += o.Amount

		sr, ok := perService[o.ServiceID]
		if !ok {
			sr = &ServiceRevenue{ServiceID: o.ServiceID}
			if svc, found := d.catalog.Service(o.ServiceID); found {
				sr.Name = svc.Name
			}
			perService[o.ServiceID] = sr
		}
		sr.Orders++
		sr.Revenue += o.Amount
	}

	for _, sr := range perService {
		out.TopServices = append(out.TopServices, *sr)
	}
	sort.Slice(out.TopServices, func(i, j int) bool {
		a, b := out.TopServices[i], out.TopServices[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.ServiceID < b.ServiceID
	})
	if len(out.TopServices) > 5 {
		out.TopServices = out.TopServices[:5]
	}

	for _, u := range d.catalog.Users {
		out.UsersByRole[u.Role]++
		if u.Status == "active" {
			out.ActiveUsers++
		}
	}

	counts, err := d.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	out.Bookings = counts

	return out, nil
}

// ======================================================
// TECHNICIAN
// ======================================================

type Technician struct {
	Profile      *catalog.Technician  `json:"profile,omitempty"`
	JobsByStatus map[string]int       `json:"jobs_by_status"`
	Earnings     float64              `json:"earnings"`
	UpcomingJobs []catalog.Job        `json:"upcoming_jobs"`
	Bookings     []dto.BookingListDTO `json:"bookings"`
}

func (d *Dashboards) Technician(ctx context.Context, u session.User) (*Technician, error) {
	out := &Technician{
		JobsByStatus: map[string]int{},
		UpcomingJobs: []catalog.Job{},
	}

	// Demo jobs only count for a technician with a catalog profile.
	if t, ok := d.catalog.TechnicianByEmail(u.Email); ok {
		out.Profile = &t

		for _, j := range d.catalog.FindJobs(catalog.JobQuery{TechnicianID: t.ID}) {
			out.JobsByStatus[j.Status]++
			if j.Status == "completed" {
				out.Earnings += j.Amount
			}
		}
		out.UpcomingJobs = d.catalog.FindJobs(catalog.JobQuery{
			TechnicianID: t.ID,
			Status:       "pending",
			Sort:         "date_asc",
		})
	}

	live, err := d.bookings.ListForTechnician(ctx, u.Email)
	if err != nil {
		return nil, err
	}
	for _, b := range live {
		if b.Status == string(booking.StatusCompleted) {
			out.Earnings += b.Price
		}
	}
	out.Bookings = dto.BookingList(live)

	return out, nil
}

// ======================================================
// CUSTOMER
// ======================================================

type Customer struct {
	Upcoming     []dto.BookingListDTO   `json:"upcoming"`
	Past         []dto.BookingListDTO   `json:"past"`
	RecentOrders []catalog.Order        `json:"recent_orders"`
	Addresses    []catalog.SavedAddress `json:"addresses"`
	Featured     []catalog.Service      `json:"featured"`
}

// Customer splits bookings at the start of today in the marketplace
// timezone. Upcoming only lists confirmed bookings.
func (d *Dashboards) Customer(ctx context.Context, u session.User) (*Customer, error) {
	list, err := d.bookings.ListForCustomer(ctx, u.Email)
	if err != nil {
		return nil, err
	}

	today := timezone.StartOfDay(d.now().In(timezone.Location(d.timezone)))
	out := &Customer{
		Upcoming:  []dto.BookingListDTO{},
		Past:      []dto.BookingListDTO{},
		Addresses: d.catalog.Addresses,
		Featured:  d.catalog.Featured(),
	}

	for _, b := range dto.BookingList(list) {
		if b.Status == string(booking.StatusConfirmed) && !b.StartTime.Before(today) {
			out.Upcoming = append(out.Upcoming, b)
		} else {
			out.Past = append(out.Past, b)
		}
	}
	sort.Slice(out.Upcoming, func(i, j int) bool {
		return out.Upcoming[i].StartTime.Before(out.Upcoming[j].StartTime)
	})

	for _, o := range d.catalog.Orders {
		if o.CustomerName == u.Name {
			out.RecentOrders = append(out.RecentOrders, o)
		}
	}
	sort.Slice(out.RecentOrders, func(i, j int) bool {
		return out.RecentOrders[i].Date > out.RecentOrders[j].Date
	})

	return out, nil
}
