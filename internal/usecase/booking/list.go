package booking

import (
	"context"

	domain "github.com/BruksfildServices01/homefix/internal/domain/booking"
	"github.com/BruksfildServices01/homefix/internal/dto"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ListBookings struct {
	repo domain.Repository
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

func (uc *ListBookings) ForCustomer(ctx context.Context, email string) ([]dto.BookingListDTO, error) {
	bookings, err := uc.repo.ListForCustomer(ctx, email)
	if err != nil {
		return nil, err
	}
	return dto.BookingList(bookings), nil
}

func (uc *ListBookings) ForTechnician(ctx context.Context, email string) ([]dto.BookingListDTO, error) {
	bookings, err := uc.repo.ListForTechnician(ctx, email)
	if err != nil {
		return nil, err
	}
	return dto.BookingList(bookings), nil
}

type Page struct {
	Items []dto.BookingListDTO `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// All is the admin listing. page is 1-based; limit is clamped.
func (uc *ListBookings) All(
	ctx context.Context,
	status string,
	query string,
	page int,
	limit int,
) (*Page, error) {

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	bookings, total, err := uc.repo.ListBookings(ctx, domain.ListFilter{
		Status: status,
		Query:  query,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}

	return &Page{
		Items: dto.BookingList(bookings),
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// Export returns every booking matching the filter, unpaginated.
func (uc *ListBookings) Export(ctx context.Context, status, query string) ([]dto.BookingListDTO, error) {
	bookings, _, err := uc.repo.ListBookings(ctx, domain.ListFilter{Status: status, Query: query})
	if err != nil {
		return nil, err
	}
	return dto.BookingList(bookings), nil
}
