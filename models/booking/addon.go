package booking

import (
	"time"
)

// AddOnKind is the closed set of add-on categories a booking can carry.
type AddOnKind string

const (
	AddOnKindMeal     AddOnKind = "meal"
	AddOnKindActivity AddOnKind = "activity"
	AddOnKindSpa      AddOnKind = "spa"
)

func (k AddOnKind) String() string {
	return string(k)
}

func (k AddOnKind) IsValid() bool {
	switch k {
	case AddOnKindMeal, AddOnKindActivity, AddOnKindSpa:
		return true
	default:
		return false
	}
}

// AddOn is one selected service line on a booking. Lines are append-only
// and never deduplicated by service id: selecting the same service twice
// produces two lines, matching invoice line-item granularity.
type AddOn struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID uint `gorm:"not null;index" json:"booking_id"`

	Kind      AddOnKind `gorm:"type:varchar(20);not null" json:"kind"`
	ServiceID uint      `gorm:"not null" json:"service_id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	UnitPrice float64   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// LineTotal is the amount this line contributes to the booking total.
func (a AddOn) LineTotal() float64 {
	return a.UnitPrice * float64(a.Quantity)
}
