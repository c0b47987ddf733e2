package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seed []byte

type Service struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Category    string  `yaml:"category" json:"category"`
	Description string  `yaml:"description" json:"description"`
	Price       float64 `yaml:"price" json:"price"`
	DurationMin int     `yaml:"duration_min" json:"duration_min"`
	Rating      float64 `yaml:"rating" json:"rating"`
	Featured    bool    `yaml:"featured" json:"featured"`
}

type Technician struct {
	ID            string   `yaml:"id" json:"id"`
	Name          string   `yaml:"name" json:"name"`
	Email         string   `yaml:"email" json:"email"`
	Phone         string   `yaml:"phone" json:"phone"`
	Specialties   []string `yaml:"specialties" json:"specialties"`
	Rating        float64  `yaml:"rating" json:"rating"`
	ReviewCount   int      `yaml:"review_count" json:"review_count"`
	JobsCompleted int      `yaml:"jobs_completed" json:"jobs_completed"`
	HourlyRate    float64  `yaml:"hourly_rate" json:"hourly_rate"`
	Location      string   `yaml:"location" json:"location"`
	Available     bool     `yaml:"available" json:"available"`
}

func (t Technician) Offers(serviceID string) bool {
	for _, s := range t.Specialties {
		if s == serviceID {
			return true
		}
	}
	return false
}

type User struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Email    string `yaml:"email" json:"email"`
	Role     string `yaml:"role" json:"role"`
	Status   string `yaml:"status" json:"status"`
	JoinedAt string `yaml:"joined_at" json:"joined_at"`
	Bookings int    `yaml:"bookings" json:"bookings"`
}

type Job struct {
	ID           string  `yaml:"id" json:"id"`
	TechnicianID string  `yaml:"technician_id" json:"technician_id"`
	CustomerName string  `yaml:"customer_name" json:"customer_name"`
	ServiceID    string  `yaml:"service_id" json:"service_id"`
	Status       string  `yaml:"status" json:"status"`
	Priority     string  `yaml:"priority" json:"priority"`
	Date         string  `yaml:"date" json:"date"`
	TimeSlot     string  `yaml:"time_slot" json:"time_slot"`
	Address      string  `yaml:"address" json:"address"`
	Amount       float64 `yaml:"amount" json:"amount"`
}

type Order struct {
	ID           string  `yaml:"id" json:"id"`
	CustomerName string  `yaml:"customer_name" json:"customer_name"`
	ServiceID    string  `yaml:"service_id" json:"service_id"`
	TechnicianID string  `yaml:"technician_id" json:"technician_id"`
	Status       string  `yaml:"status" json:"status"`
	Amount       float64 `yaml:"amount" json:"amount"`
	Date         string  `yaml:"date" json:"date"`
}

type SavedAddress struct {
	ID      string `yaml:"id" json:"id"`
	Label   string `yaml:"label" json:"label"`
	Street  string `yaml:"street" json:"street"`
	City    string `yaml:"city" json:"city"`
	State   string `yaml:"state" json:"state"`
	ZipCode string `yaml:"zip_code" json:"zipCode"`
	Default bool   `yaml:"default" json:"default"`
}

func (a SavedAddress) String() string {
	return a.Street + ", " + a.City + ", " + a.State + " " + a.ZipCode
}

type Testimonial struct {
	Name     string `yaml:"name" json:"name"`
	Location string `yaml:"location" json:"location"`
	Rating   int    `yaml:"rating" json:"rating"`
	Comment  string `yaml:"comment" json:"comment"`
}

type Review struct {
	ID           string `yaml:"id" json:"id"`
	TechnicianID string `yaml:"technician_id" json:"technician_id"`
	CustomerName string `yaml:"customer_name" json:"customer_name"`
	Rating       int    `yaml:"rating" json:"rating"`
	Comment      string `yaml:"comment" json:"comment"`
	Date         string `yaml:"date" json:"date"`
}

// Catalog is the static mock data every page reads from. It is never
// mutated after load.
type Catalog struct {
	Services     []Service      `yaml:"services"`
	Technicians  []Technician   `yaml:"technicians"`
	Users        []User         `yaml:"users"`
	Jobs         []Job          `yaml:"jobs"`
	Orders       []Order        `yaml:"orders"`
	Addresses    []SavedAddress `yaml:"addresses"`
	Testimonials []Testimonial  `yaml:"testimonials"`
	Reviews      []Review       `yaml:"reviews"`
}

func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("catalog: parse seed: %w", err)
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) check() error {
	ids := make(map[string]bool, len(c.Services))
	for _, s := range c.Services {
		if s.ID == "" {
			return fmt.Errorf("catalog: service without id")
		}
		ids[s.ID] = true
	}
	techs := make(map[string]bool, len(c.Technicians))
	for _, t := range c.Technicians {
		techs[t.ID] = true
		for _, sid := range t.Specialties {
			if !ids[sid] {
				return fmt.Errorf("catalog: technician %s offers unknown service %s", t.ID, sid)
			}
		}
	}
	for _, j := range c.Jobs {
		if !techs[j.TechnicianID] {
			return fmt.Errorf("catalog: job %s has unknown technician %q", j.ID, j.TechnicianID)
		}
	}
	return nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the embedded seed. A broken seed is a build defect,
// so it panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(seed)
		if err != nil {
			panic(err)
		}
		defaultCat = c
	})
	return defaultCat
}

func (c *Catalog) Service(id string) (Service, bool) {
	for _, s := range c.Services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

func (c *Catalog) Technician(id string) (Technician, bool) {
	for _, t := range c.Technicians {
		if t.ID == id {
			return t, true
		}
	}
	return Technician{}, false
}

func (c *Catalog) TechnicianByEmail(email string) (Technician, bool) {
	for _, t := range c.Technicians {
		if t.Email == email {
			return t, true
		}
	}
	return Technician{}, false
}

// TechniciansFor lists technicians offering the service, best rated
// first.
func (c *Catalog) TechniciansFor(serviceID string) []Technician {
	out := filter(c.Technicians, func(t Technician) bool { return t.Offers(serviceID) })
	sortBy(out, func(a, b Technician) bool { return a.Rating > b.Rating })
	return out
}

func (c *Catalog) Featured() []Service {
	return filter(c.Services, func(s Service) bool { return s.Featured })
}

func (c *Catalog) SavedAddress(id string) (SavedAddress, bool) {
	for _, a := range c.Addresses {
		if a.ID == id {
			return a, true
		}
	}
	return SavedAddress{}, false
}

func (c *Catalog) SavedAddressIDs() []string {
	out := make([]string, 0, len(c.Addresses))
	for _, a := range c.Addresses {
		out = append(out, a.ID)
	}
	return out
}

func (c *Catalog) ReviewsFor(technicianID string) []Review {
	return filter(c.Reviews, func(r Review) bool { return r.TechnicianID == technicianID })
}

func (c *Catalog) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range c.Services {
		if !seen[s.Category] {
			seen[s.Category] = true
			out = append(out, s.Category)
		}
	}
	return out
}
