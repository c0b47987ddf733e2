package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/homefix/internal/audit"
	"github.com/BruksfildServices01/homefix/internal/catalog"
	"github.com/BruksfildServices01/homefix/internal/domain/booking"
	domain "github.com/BruksfildServices01/homefix/internal/domain/review"
	"github.com/BruksfildServices01/homefix/internal/domain/session"
	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/models"
	"github.com/BruksfildServices01/homefix/internal/validators"
)

type CreateInput struct {
	BookingID uint   `json:"booking_id" form:"booking_id" validate:"required"`
	Rating    int    `json:"rating" form:"rating" validate:"min=1,max=5"`
	Comment   string `json:"comment" form:"comment" validate:"required,min=10,max=1000"`
}

type CreateReview struct {
	reviews  domain.Repository
	bookings booking.Repository
	validate *validators.Validator
	audit    *audit.Dispatcher
}

func NewCreateReview(
	reviews domain.Repository,
	bookings booking.Repository,
	validate *validators.Validator,
	audit *audit.Dispatcher,
) *CreateReview {
	return &CreateReview{
		reviews:  reviews,
		bookings: bookings,
		validate: validate,
		audit:    audit,
	}
}

// Execute records the customer's review of a completed booking. One
// review per booking.
func (uc *CreateReview) Execute(
	ctx context.Context,
	customer session.User,
	in CreateInput,
) (*models.Review, error) {

	in.Comment = strings.TrimSpace(in.Comment)
	if fe := uc.validate.Struct(in); fe != nil {
		return nil, fe
	}

	b, err := uc.bookings.GetBookingForCustomer(ctx, in.BookingID, customer.Email)
	if errors.Is(err, booking.ErrNotFound) {
		return nil, httperr.ErrBusiness("booking_not_found")
	}
	if err != nil {
		return nil, err
	}

	if err := booking.CanReview(booking.Status(b.Status)); err != nil {
		return nil, err
	}

	r := &models.Review{
		BookingID:       b.ID,
		CustomerEmail:   customer.Email,
		CustomerName:    customer.Name,
		TechnicianID:    b.TechnicianID,
		TechnicianEmail: b.TechnicianEmail,
		TechnicianName:  b.TechnicianName,
		ServiceName:     b.ServiceName,
		Rating:          in.Rating,
		Comment:         in.Comment,
	}
	if err := uc.reviews.Create(ctx, r); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorEmail: customer.Email,
		ActorRole:  customer.Role.String(),
		Action:     "review_created",
		Entity:     "review",
		EntityID:   fmt.Sprint(r.ID),
		Metadata:   map[string]any{"booking_id": b.ID, "rating": r.Rating},
	})

	return r, nil
}

// Received is one line of a technician's review list, whether it came
// from the seed data or from a real booking.
type Received struct {
	CustomerName string `json:"customer_name"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	Date         string `json:"date"`
}

type ListReviews struct {
	reviews domain.Repository
	catalog *catalog.Catalog
}

func NewListReviews(reviews domain.Repository, cat *catalog.Catalog) *ListReviews {
	return &ListReviews{reviews: reviews, catalog: cat}
}

func (uc *ListReviews) ByCustomer(ctx context.Context, email string) ([]models.Review, error) {
	return uc.reviews.ListForCustomer(ctx, email)
}

// ForTechnician merges stored reviews, newest first, with the seeded
// ones. Both are found through the technician's email, so a registered
// account sees the reviews of the catalog profile it shares an email with.
func (uc *ListReviews) ForTechnician(ctx context.Context, email string) ([]Received, float64, error) {
	stored, err := uc.reviews.ListForTechnician(ctx, email)
	if err != nil {
		return nil, 0, err
	}

	out := make([]Received, 0, len(stored))
	for _, r := range stored {
		out = append(out, Received{
			CustomerName: r.CustomerName,
			Rating:       r.Rating,
			Comment:      r.Comment,
			Date:         r.CreatedAt.Format("2006-01-02"),
		})
	}
	if t, ok := uc.catalog.TechnicianByEmail(email); ok {
		for _, r := range uc.catalog.ReviewsFor(t.ID) {
			out = append(out, Received{
				CustomerName: r.CustomerName,
				Rating:       r.Rating,
				Comment:      r.Comment,
				Date:         r.Date,
			})
		}
	}

	return out, average(out), nil
}

func average(rs []Received) float64 {
	if len(rs) == 0 {
		return 0
	}
	sum := 0
	for _, r := range rs {
		sum += r.Rating
	}
	return float64(sum) / float64(len(rs))
}
