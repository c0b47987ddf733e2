package models

import "time"

type Booking struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Reference string `gorm:"size:36;uniqueIndex;not null" json:"reference"`

	CustomerEmail string `gorm:"size:100;index;not null" json:"customer_email"`
	CustomerName  string `gorm:"size:100" json:"customer_name"`

	ServiceID   string `gorm:"size:50;not null" json:"service_id"`
	ServiceName string `gorm:"size:100" json:"service_name"`

	TechnicianID    string `gorm:"size:50;index;uniqueIndex:idx_bookings_live_slot,priority:1,where:status = 'confirmed';not null" json:"technician_id"`
	TechnicianEmail string `gorm:"size:100;index" json:"technician_email"`
	TechnicianName  string `gorm:"size:100" json:"technician_name"`

	// One confirmed booking per technician, date and slot.
	Date      string    `gorm:"size:10;uniqueIndex:idx_bookings_live_slot,priority:2;not null" json:"date"`
	TimeSlot  string    `gorm:"size:20;uniqueIndex:idx_bookings_live_slot,priority:3;not null" json:"time_slot"`
	StartTime time.Time `json:"start_time"`

	Address string  `gorm:"size:255" json:"address"`
	Notes   string  `gorm:"size:500" json:"notes"`
	Price   float64 `json:"price"`

	Status      string     `gorm:"size:20;default:'confirmed'" json:"status"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
