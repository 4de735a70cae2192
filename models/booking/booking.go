package booking

import (
	"time"

	"hotel-booking/models/room"
)

// Booking represents a guest stay: a date range, a room type selection and,
// once assigned, a concrete room unit. Bookings are never physically
// deleted; cancellation is a status transition so invoice and audit history
// survives.
type Booking struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code string `gorm:"type:varchar(50);not null;unique" json:"code"`

	GuestName  string `gorm:"type:varchar(255);not null" json:"guest_name"`
	GuestEmail string `gorm:"type:varchar(255)" json:"guest_email"`
	GuestPhone string `gorm:"type:varchar(20)" json:"guest_phone"`

	// Half-open stay interval [check_in, check_out); check-out day is free
	// for same-day turnover.
	CheckIn  time.Time `gorm:"not null;index" json:"check_in"`
	CheckOut time.Time `gorm:"not null;index" json:"check_out"`
	Guests   int       `gorm:"not null;default:1" json:"guests"`

	RoomTypeID *uint          `gorm:"index" json:"room_type_id,omitempty"`
	RoomType   *room.RoomType `gorm:"foreignKey:RoomTypeID" json:"room_type,omitempty"`

	// Null until auto-assignment or manual override picks a unit.
	RoomUnitID *uint          `gorm:"index" json:"room_unit_id,omitempty"`
	RoomUnit   *room.RoomUnit `gorm:"foreignKey:RoomUnitID" json:"room_unit,omitempty"`

	AddOns []AddOn `gorm:"foreignKey:BookingID" json:"add_ons,omitempty"`

	TotalAmount   float64       `gorm:"type:decimal(10,2);not null;default:0" json:"total_amount"`
	Status        BookingStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"payment_status"`

	PaymentMethod    *string `gorm:"type:varchar(50)" json:"payment_method,omitempty"`
	PaymentReference *string `gorm:"type:varchar(255)" json:"payment_reference,omitempty"`

	Notes string `gorm:"type:text" json:"notes"`

	CreatedBy string    `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string    `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Nights returns the stay length in nights. Dates are normalized to day
// boundaries before persistence, so this is always a whole number.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// AddOnTotal sums the booking's add-on line amounts.
func (b *Booking) AddOnTotal() float64 {
	var total float64
	for _, a := range b.AddOns {
		total += a.LineTotal()
	}
	return total
}

// Occupies reports whether the booking blocks a unit for availability
// purposes. Cancelled and refunded bookings release their unit.
func (b *Booking) Occupies() bool {
	return b.Status != BookingStatusCancelled && b.PaymentStatus != PaymentStatusRefunded
}
