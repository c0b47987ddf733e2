package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	domain "github.com/BruksfildServices01/homefix/internal/domain/booking"
	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/models"
	"github.com/BruksfildServices01/homefix/internal/testutil"
)

func TestAssertNoTimeConflict_PlainCount(t *testing.T) {
	db, rec := testutil.DryRunDB(t)
	repo := NewBookingGormRepository(db)

	require.NoError(t, repo.AssertNoTimeConflict(context.Background(), "tech-1", "2026-06-10", "10:00-12:00"))

	sql := rec.Last()
	assert.Contains(t, sql, `SELECT count(*) FROM "bookings"`)
	assert.Contains(t, sql, "technician_id = 'tech-1'")
	assert.Contains(t, sql, "date = '2026-06-10'")
	assert.Contains(t, sql, "time_slot = '10:00-12:00'")
	assert.Contains(t, sql, "status = 'confirmed'")
	assert.NotContains(t, sql, "FOR UPDATE", "postgres rejects row locks on aggregates")
}

func TestListBookings_SQL(t *testing.T) {
	tests := []struct {
		name       string
		filter     domain.ListFilter
		countHas   []string
		pageHas    []string
		pageHasNot []string
	}{
		{
			name:   "status search and paging",
			filter: domain.ListFilter{Status: "confirmed", Query: " Smith ", Limit: 20, Offset: 40},
			countHas: []string{
				`SELECT count(*) FROM "bookings"`,
				"status = 'confirmed'",
				"LOWER(customer_name) LIKE '%smith%'",
				"LOWER(technician_name) LIKE '%smith%'",
			},
			pageHas: []string{
				`SELECT * FROM "bookings"`,
				"status = 'confirmed'",
				"LOWER(service_name) LIKE '%smith%'",
				"ORDER BY start_time DESC",
				"LIMIT 20",
				"OFFSET 40",
			},
		},
		{
			name:       "no limit reads every row",
			filter:     domain.ListFilter{},
			countHas:   []string{`SELECT count(*) FROM "bookings"`},
			pageHas:    []string{"ORDER BY start_time DESC"},
			pageHasNot: []string{"LIMIT", "OFFSET", "WHERE"},
		},
		{
			name:       "blank query adds no LIKE",
			filter:     domain.ListFilter{Query: "   ", Limit: 10},
			pageHas:    []string{"LIMIT 10"},
			pageHasNot: []string{"LIKE", "OFFSET"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, rec := testutil.DryRunDB(t)
			repo := NewBookingGormRepository(db)

			_, total, err := repo.ListBookings(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Zero(t, total)

			stmts := rec.Statements()
			require.Len(t, stmts, 2)
			count, page := stmts[0], stmts[1]

			for _, s := range tt.countHas {
				assert.Contains(t, count, s)
			}
			assert.NotContains(t, count, "ORDER BY")
			assert.NotContains(t, count, "LIMIT")

			for _, s := range tt.pageHas {
				assert.Contains(t, page, s)
			}
			for _, s := range tt.pageHasNot {
				assert.NotContains(t, page, s)
			}
		})
	}
}

func TestCountByStatus_SQL(t *testing.T) {
	db, rec := testutil.DryRunDB(t)
	repo := NewBookingGormRepository(db)

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Empty(t, counts)

	sql := rec.Last()
	assert.Contains(t, sql, `SELECT status, COUNT(*) AS total FROM "bookings"`)
	assert.Contains(t, sql, `GROUP BY "status"`)
}

func TestBookingLiveSlotIndex(t *testing.T) {
	s, err := schema.Parse(&models.Booking{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	idx := s.LookIndex("idx_bookings_live_slot")
	require.NotNil(t, idx)
	assert.Equal(t, "UNIQUE", idx.Class)
	assert.Equal(t, "status = 'confirmed'", idx.Where)

	var cols []string
	for _, f := range idx.Fields {
		cols = append(cols, f.DBName)
	}
	assert.Equal(t, []string{"technician_id", "date", "time_slot"}, cols)
}

// failCreatesWithUniqueViolation makes every INSERT on db fail the way
// postgres reports a duplicate key.
func failCreatesWithUniqueViolation(t *testing.T, db *gorm.DB) {
	t.Helper()
	err := db.Callback().Create().Before("gorm:create").Register("test:unique_violation", func(tx *gorm.DB) {
		_ = tx.AddError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	})
	require.NoError(t, err)
}

func TestCreate_UniqueViolationBecomesBusinessError(t *testing.T) {
	tests := []struct {
		name   string
		create func(db *gorm.DB) error
		code   string
	}{
		{
			name: "booking slot taken",
			create: func(db *gorm.DB) error {
				return NewBookingGormRepository(db).CreateBooking(context.Background(), &models.Booking{
					TechnicianID: "tech-1",
					Date:         "2026-06-10",
					TimeSlot:     "10:00-12:00",
					Status:       "confirmed",
				})
			},
			code: "time_conflict",
		},
		{
			name: "account email taken",
			create: func(db *gorm.DB) error {
				return NewAccountGormRepository(db).Create(context.Background(), &models.Account{Email: "a@example.com"})
			},
			code: "email_already_registered",
		},
		{
			name: "booking already reviewed",
			create: func(db *gorm.DB) error {
				return NewReviewGormRepository(db).Create(context.Background(), &models.Review{BookingID: 7})
			},
			code: "already_reviewed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := testutil.DryRunDB(t)
			failCreatesWithUniqueViolation(t, db)

			err := tt.create(db)
			require.Error(t, err)
			assert.True(t, httperr.IsBusiness(err, tt.code), "got %v", err)
		})
	}
}

func TestCreateBooking_OtherErrorsPassThrough(t *testing.T) {
	db, _ := testutil.DryRunDB(t)
	err := db.Callback().Create().Before("gorm:create").Register("test:fk_violation", func(tx *gorm.DB) {
		_ = tx.AddError(&pgconn.PgError{Code: "23503"})
	})
	require.NoError(t, err)

	err = NewBookingGormRepository(db).CreateBooking(context.Background(), &models.Booking{TechnicianID: "tech-1"})
	require.Error(t, err)
	_, isBusiness := httperr.BusinessCode(err)
	assert.False(t, isBusiness)
}
