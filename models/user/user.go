package user

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// User is a hotel operator account (admin, manager, front desk, accounts).
// Guests are not users; their identity lives on the booking itself.
type User struct {
	ID           uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Uuid         string      `gorm:"type:varchar(255);not null;unique" json:"uuid"`
	Username     string      `gorm:"type:varchar(255);not null;unique" json:"username"`
	LegalName    string      `gorm:"type:varchar(255);not null" json:"legal_name"`
	Email        *string     `gorm:"type:varchar(255);unique" json:"email"`
	PasswordHash string      `gorm:"type:varchar(255);not null" json:"-"`
	Permissions  StringSlice `gorm:"type:json" json:"permissions"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// StringSlice stores the permission list as a JSON column.
type StringSlice []string

// Scan implements the Scanner interface for database deserialization
func (ss *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*ss = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, ss)
	case string:
		return json.Unmarshal([]byte(v), ss)
	default:
		return errors.New("unsupported type for StringSlice")
	}
}

// Value implements the driver Valuer interface for database serialization
func (ss StringSlice) Value() (driver.Value, error) {
	if ss == nil {
		return nil, nil
	}
	return json.Marshal(ss)
}
