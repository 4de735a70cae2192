package payment

import (
	"time"

	"hotel-booking/models/invoice"
)

// Method is the accepted payment channel set.
type Method string

const (
	MethodCash       Method = "cash"
	MethodCard       Method = "card"
	MethodUPI        Method = "upi"
	MethodNetBanking Method = "net_banking"
	MethodGateway    Method = "gateway"
)

func (m Method) String() string {
	return string(m)
}

func (m Method) IsValid() bool {
	switch m {
	case MethodCash, MethodCard, MethodUPI, MethodNetBanking, MethodGateway:
		return true
	default:
		return false
	}
}

// Status marks whether a ledger row still counts toward the invoice.
type Status string

const (
	StatusRecorded Status = "recorded"
	StatusVoided   Status = "voided"
)

// Payment is one ledger row against an invoice. BookingID is denormalized
// so site-facing reads never need the invoice join. The sum of recorded
// payments for an invoice never exceeds its total; an overshooting payment
// is rejected, not clamped.
type Payment struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	InvoiceID uint             `gorm:"not null;index" json:"invoice_id"`
	Invoice   *invoice.Invoice `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
	BookingID uint             `gorm:"not null;index" json:"booking_id"`

	Amount    float64 `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method    Method  `gorm:"type:varchar(20);not null" json:"method"`
	Reference string  `gorm:"type:varchar(255);not null" json:"reference"`

	Status Status `gorm:"type:varchar(20);not null;default:recorded" json:"status"`

	RecordedBy string    `gorm:"type:varchar(255)" json:"recorded_by,omitempty"`
	Notes      string    `gorm:"type:text" json:"notes,omitempty"`
	PaidAt     time.Time `gorm:"not null" json:"paid_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
