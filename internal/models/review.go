package models

import "time"

type Review struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	BookingID uint `gorm:"uniqueIndex" json:"booking_id"`

	CustomerEmail   string `gorm:"size:100;index" json:"customer_email"`
	CustomerName    string `gorm:"size:100" json:"customer_name"`
	TechnicianID    string `gorm:"size:50" json:"technician_id"`
	TechnicianEmail string `gorm:"size:100;index" json:"technician_email"`
	TechnicianName  string `gorm:"size:100" json:"technician_name"`
	ServiceName     string `gorm:"size:100" json:"service_name"`

	Rating  int    `json:"rating"`
	Comment string `gorm:"size:1000" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
}
