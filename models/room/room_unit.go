package room

import (
	"time"
)

// UnitStatus is the operational state of a physical room.
type UnitStatus string

const (
	UnitStatusActive      UnitStatus = "active"
	UnitStatusMaintenance UnitStatus = "maintenance"
	UnitStatusInactive    UnitStatus = "inactive"
)

func (us UnitStatus) String() string {
	return string(us)
}

func (us UnitStatus) IsValid() bool {
	switch us {
	case UnitStatusActive, UnitStatusMaintenance, UnitStatusInactive:
		return true
	default:
		return false
	}
}

// IsAssignable returns true if bookings may be assigned to a unit in this state.
func (us UnitStatus) IsAssignable() bool {
	return us == UnitStatusActive
}

// RoomUnit is one physical, individually assignable room belonging to a
// RoomType. UnitNumber is unique within the property.
type RoomUnit struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	RoomTypeID uint     `gorm:"not null;index" json:"room_type_id"`
	RoomType   RoomType `gorm:"foreignKey:RoomTypeID" json:"room_type,omitempty"`

	UnitNumber           string     `gorm:"type:varchar(20);not null;unique" json:"unit_number"`
	Status               UnitStatus `gorm:"type:varchar(20);not null;default:active" json:"status"`
	MaxOccupancyOverride *int       `json:"max_occupancy_override,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
