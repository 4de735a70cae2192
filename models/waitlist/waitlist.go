package waitlist

import (
	"time"

	"hotel-booking/models/room"
)

// Status is the lifecycle of a waitlist entry.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusNotified  Status = "notified"
	StatusExpired   Status = "expired"
	StatusConverted Status = "converted"
)

// Entry records guest intent for a date range that could not be confirmed.
// Availability-retry processes consume entries in priority order.
type Entry struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	GuestName  string `gorm:"type:varchar(255);not null" json:"guest_name"`
	GuestEmail string `gorm:"type:varchar(255)" json:"guest_email"`
	GuestPhone string `gorm:"type:varchar(20)" json:"guest_phone"`

	RoomTypeID uint           `gorm:"not null;index" json:"room_type_id"`
	RoomType   *room.RoomType `gorm:"foreignKey:RoomTypeID" json:"room_type,omitempty"`

	CheckIn       time.Time `gorm:"not null" json:"check_in"`
	CheckOut      time.Time `gorm:"not null" json:"check_out"`
	FlexibleDates bool      `gorm:"default:false" json:"flexible_dates"`

	Priority  int       `gorm:"not null;default:0;index" json:"priority"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`

	NotifyByEmail bool `gorm:"default:true" json:"notify_by_email"`
	NotifyBySMS   bool `gorm:"default:false" json:"notify_by_sms"`

	Status Status `gorm:"type:varchar(20);not null;default:waiting;index" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Entry model
func (Entry) TableName() string {
	return "waitlist_entries"
}
