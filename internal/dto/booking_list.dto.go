package dto

import (
	"time"

	"github.com/BruksfildServices01/homefix/internal/models"
)

type BookingListDTO struct {
	ID             uint      `json:"id"`
	Reference      string    `json:"reference"`
	StartTime      time.Time `json:"start_time"`
	Date           string    `json:"date"`
	TimeSlot       string    `json:"time_slot"`
	Status         string    `json:"status"`
	CustomerName   string    `json:"customer_name"`
	CustomerEmail  string    `json:"customer_email"`
	ServiceName    string    `json:"service_name"`
	TechnicianName string    `json:"technician_name"`
	Address        string    `json:"address"`
	Price          float64   `json:"price"`
}

func BookingList(bookings []models.Booking) []BookingListDTO {
	out := make([]BookingListDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingListDTO{
			ID:             b.ID,
			Reference:      b.Reference,
			StartTime:      b.StartTime,
			Date:           b.Date,
			TimeSlot:       b.TimeSlot,
			Status:         b.Status,
			CustomerName:   b.CustomerName,
			CustomerEmail:  b.CustomerEmail,
			ServiceName:    b.ServiceName,
			TechnicianName: b.TechnicianName,
			Address:        b.Address,
			Price:          b.Price,
		})
	}
	return out
}
