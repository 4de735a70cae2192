package booking

import (
	"time"
)

// BookingStatusEvent is an audit snapshot written whenever a booking
// mutates. Events are many per booking and never updated.
type BookingStatusEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BookingID uint    `gorm:"not null;index" json:"booking_id"`
	Booking   Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`

	EventType     string        `gorm:"type:varchar(50);not null" json:"event_type"`
	Status        BookingStatus `gorm:"type:varchar(20);not null" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null" json:"payment_status"`
	RoomUnitID    *uint         `json:"room_unit_id,omitempty"`
	TotalAmount   float64       `gorm:"type:decimal(10,2);not null" json:"total_amount"`

	CreatedBy string    `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the BookingStatusEvent model
func (BookingStatusEvent) TableName() string {
	return "booking_status_events"
}
