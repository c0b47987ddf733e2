package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/homefix/internal/domain/booking"
	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// --------------------------------------------------
// Create / conflict
// --------------------------------------------------

// CreateBooking relies on idx_bookings_live_slot: a concurrent confirm
// that slipped past AssertNoTimeConflict fails here instead.
func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return httperr.ErrBusiness("time_conflict")
		}
		return err
	}
	return nil
}

func (r *BookingGormRepository) AssertNoTimeConflict(
	ctx context.Context,
	technicianID string,
	date string,
	timeSlot string,
) error {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(
			"technician_id = ? AND date = ? AND time_slot = ? AND status = ?",
			technicianID,
			date,
			timeSlot,
			string(domain.StatusConfirmed),
		).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return httperr.ErrBusiness("time_conflict")
	}

	return nil
}

// --------------------------------------------------
// State change
// --------------------------------------------------

func (r *BookingGormRepository) GetBookingForCustomer(
	ctx context.Context,
	id uint,
	customerEmail string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("id = ? AND customer_email = ?", id, customerEmail).
		First(&b).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &b, nil
}

func (r *BookingGormRepository) GetBookingForTechnician(
	ctx context.Context,
	id uint,
	technicianEmail string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("id = ? AND technician_email = ?", id, technicianEmail).
		First(&b).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *BookingGormRepository) ListForCustomer(
	ctx context.Context,
	customerEmail string,
) ([]models.Booking, error) {

	var out []models.Booking
	err := r.db.WithContext(ctx).
		Where("customer_email = ?", customerEmail).
		Order("start_time DESC").
		Find(&out).Error
	return out, err
}

func (r *BookingGormRepository) ListForTechnician(
	ctx context.Context,
	technicianEmail string,
) ([]models.Booking, error) {

	var out []models.Booking
	err := r.db.WithContext(ctx).
		Where("technician_email = ?", technicianEmail).
		Order("start_time ASC").
		Find(&out).Error
	return out, err
}

func (r *BookingGormRepository) ListBookings(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Booking, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Booking{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			"LOWER(customer_name) LIKE ? OR LOWER(customer_email) LIKE ? OR LOWER(service_name) LIKE ? OR LOWER(technician_name) LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := q.Session(&gorm.Session{}).Order("start_time DESC")
	if f.Limit > 0 {
		page = page.Limit(f.Limit).Offset(f.Offset)
	}

	var out []models.Booking
	if err := page.Find(&out).Error; err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (r *BookingGormRepository) CountByStatus(
	ctx context.Context,
) (map[string]int64, error) {

	var rows []struct {
		Status string
		Total  int64
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
