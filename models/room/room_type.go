package room

import (
	"time"
)

// RoomType is a bookable category of room with a base nightly price and a
// guest capacity. Price and description edits never rewrite existing
// bookings; their totals were computed at creation time.
type RoomType struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"type:varchar(255);not null;unique" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	BasePrice   float64 `gorm:"type:decimal(10,2);not null" json:"base_price"`
	Capacity    int     `gorm:"not null" json:"capacity"`
	Published   bool    `gorm:"default:false" json:"published"`

	Units []RoomUnit `gorm:"foreignKey:RoomTypeID" json:"units,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
