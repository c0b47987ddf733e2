package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BruksfildServices01/homefix/internal/audit"
	"github.com/BruksfildServices01/homefix/internal/domain/account"
	"github.com/BruksfildServices01/homefix/internal/domain/booking"
	"github.com/BruksfildServices01/homefix/internal/domain/contact"
	"github.com/BruksfildServices01/homefix/internal/domain/review"
	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/models"
)

// MockBookingRepository is a mock implementation of booking.Repository
type MockBookingRepository struct {
	mu          sync.Mutex
	Bookings    map[uint]*models.Booking
	NextID      uint
	CreateError error
	UpdateError error
}

func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		Bookings: make(map[uint]*models.Booking),
		NextID:   1,
	}
}

func (m *MockBookingRepository) CreateBooking(ctx context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	b.ID = m.NextID
	m.NextID++
	b.CreatedAt = time.Now()
	cp := *b
	m.Bookings[b.ID] = &cp
	return nil
}

func (m *MockBookingRepository) AssertNoTimeConflict(ctx context.Context, technicianID, date, timeSlot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.Bookings {
		if b.TechnicianID == technicianID && b.Date == date && b.TimeSlot == timeSlot &&
			b.Status == string(booking.StatusConfirmed) {
			return httperr.ErrBusiness("time_conflict")
		}
	}
	return nil
}

func (m *MockBookingRepository) get(id uint, match func(*models.Booking) bool) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Bookings[id]
	if !ok || !match(b) {
		return nil, booking.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *MockBookingRepository) GetBookingForCustomer(ctx context.Context, id uint, email string) (*models.Booking, error) {
	return m.get(id, func(b *models.Booking) bool { return b.CustomerEmail == email })
}

func (m *MockBookingRepository) GetBookingForTechnician(ctx context.Context, id uint, email string) (*models.Booking, error) {
	return m.get(id, func(b *models.Booking) bool { return b.TechnicianEmail == email })
}

func (m *MockBookingRepository) UpdateBooking(ctx context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.Bookings[b.ID]; !ok {
		return booking.ErrNotFound
	}
	cp := *b
	m.Bookings[b.ID] = &cp
	return nil
}

func (m *MockBookingRepository) list(keep func(*models.Booking) bool) []models.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Booking{}
	for _, b := range m.Bookings {
		if keep(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *MockBookingRepository) ListForCustomer(ctx context.Context, email string) ([]models.Booking, error) {
	return m.list(func(b *models.Booking) bool { return b.CustomerEmail == email }), nil
}

func (m *MockBookingRepository) ListForTechnician(ctx context.Context, email string) ([]models.Booking, error) {
	return m.list(func(b *models.Booking) bool { return b.TechnicianEmail == email }), nil
}

func (m *MockBookingRepository) ListBookings(ctx context.Context, f booking.ListFilter) ([]models.Booking, int64, error) {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	all := m.list(func(b *models.Booking) bool {
		if f.Status != "" && b.Status != f.Status {
			return false
		}
		if q != "" && !strings.Contains(strings.ToLower(b.CustomerName+" "+b.CustomerEmail+" "+b.ServiceName+" "+b.TechnicianName), q) {
			return false
		}
		return true
	})

	total := int64(len(all))
	if f.Limit > 0 {
		if f.Offset >= len(all) {
			return []models.Booking{}, total, nil
		}
		end := f.Offset + f.Limit
		if end > len(all) {
			end = len(all)
		}
		all = all[f.Offset:end]
	}
	return all, total, nil
}

func (m *MockBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]int64{}
	for _, b := range m.Bookings {
		out[b.Status]++
	}
	return out, nil
}

var _ booking.Repository = (*MockBookingRepository)(nil)

// MockAccountRepository is a mock implementation of account.Repository
type MockAccountRepository struct {
	mu          sync.Mutex
	Accounts    map[string]*models.Account
	NextID      uint
	CreateError error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		Accounts: make(map[string]*models.Account),
		NextID:   1,
	}
}

func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Accounts[email]
	if !ok {
		return nil, account.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MockAccountRepository) Create(ctx context.Context, a *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, exists := m.Accounts[a.Email]; exists {
		return httperr.ErrBusiness("email_already_registered")
	}
	a.ID = m.NextID
	m.NextID++
	cp := *a
	m.Accounts[a.Email] = &cp
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Account, 0, len(m.Accounts))
	for _, a := range m.Accounts {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var _ account.Repository = (*MockAccountRepository)(nil)

// MockReviewRepository is a mock implementation of review.Repository
type MockReviewRepository struct {
	mu      sync.Mutex
	Reviews []models.Review
	NextID  uint
}

func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{NextID: 1}
}

func (m *MockReviewRepository) Create(ctx context.Context, r *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Reviews {
		if existing.BookingID == r.BookingID {
			return httperr.ErrBusiness("already_reviewed")
		}
	}
	r.ID = m.NextID
	m.NextID++
	r.CreatedAt = time.Now()
	m.Reviews = append(m.Reviews, *r)
	return nil
}

func (m *MockReviewRepository) filter(keep func(models.Review) bool) []models.Review {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Review{}
	for _, r := range m.Reviews {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (m *MockReviewRepository) ListForCustomer(ctx context.Context, email string) ([]models.Review, error) {
	return m.filter(func(r models.Review) bool { return r.CustomerEmail == email }), nil
}

func (m *MockReviewRepository) ListForTechnician(ctx context.Context, email string) ([]models.Review, error) {
	return m.filter(func(r models.Review) bool { return r.TechnicianEmail == email }), nil
}

var _ review.Repository = (*MockReviewRepository)(nil)

// MockContactRepository is a mock implementation of contact.Repository
type MockContactRepository struct {
	mu          sync.Mutex
	Messages    []models.ContactMessage
	CreateError error
}

func NewMockContactRepository() *MockContactRepository {
	return &MockContactRepository{}
}

func (m *MockContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	msg.ID = uint(len(m.Messages) + 1)
	m.Messages = append(m.Messages, *msg)
	return nil
}

func (m *MockContactRepository) ListRecent(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ContactMessage, 0, limit)
	for i := len(m.Messages) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.Messages[i])
	}
	return out, nil
}

func (m *MockContactRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Messages)
}

var _ contact.Repository = (*MockContactRepository)(nil)

// MemorySink records audit events in memory.
type MemorySink struct {
	mu     sync.Mutex
	Events []audit.Event
}

func (m *MemorySink) Log(ev audit.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, ev)
	return nil
}

func (m *MemorySink) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Events))
	for _, ev := range m.Events {
		out = append(out, ev.Action)
	}
	return out
}

var _ audit.Sink = (*MemorySink)(nil)
