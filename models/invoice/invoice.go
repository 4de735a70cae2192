package invoice

import (
	"time"

	"hotel-booking/models/booking"
)

// Status is the settlement state of an invoice, derived purely from its
// total and paid amounts.
type Status string

const (
	StatusPending       Status = "pending"
	StatusPartiallyPaid Status = "partially_paid"
	StatusPaid          Status = "paid"
)

func (s Status) String() string {
	return string(s)
}

// StatusFor derives the invoice status from the amounts. Due <= 0 means
// paid; any positive paid amount short of the total is partially paid.
func StatusFor(total, paid float64) Status {
	switch {
	case total-paid <= 0:
		return StatusPaid
	case paid > 0:
		return StatusPartiallyPaid
	default:
		return StatusPending
	}
}

// Invoice owns exactly one booking. Line items are a durable snapshot
// captured at generation time; regenerating after a booking edit is an
// explicit resync, never an implicit side effect of the edit.
type Invoice struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BookingID uint             `gorm:"not null;uniqueIndex" json:"booking_id"`
	Booking   *booking.Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`

	Sequence uint   `gorm:"not null;uniqueIndex" json:"sequence"`
	Number   string `gorm:"type:varchar(20);not null;unique" json:"number"`

	Subtotal  float64 `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	TaxRate   float64 `gorm:"type:decimal(5,2);not null" json:"tax_rate"`
	TaxAmount float64 `gorm:"type:decimal(10,2);not null" json:"tax_amount"`
	Total     float64 `gorm:"type:decimal(10,2);not null" json:"total"`
	Paid      float64 `gorm:"type:decimal(10,2);not null;default:0" json:"paid"`
	Due       float64 `gorm:"type:decimal(10,2);not null" json:"due"`

	Status Status `gorm:"type:varchar(20);not null;default:pending" json:"status"`

	LineItems []LineItem `gorm:"foreignKey:InvoiceID" json:"line_items,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// LineItem is one frozen charge line on an invoice.
type LineItem struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceID uint `gorm:"not null;index" json:"invoice_id"`

	Position    int     `gorm:"not null" json:"position"`
	Description string  `gorm:"type:varchar(255);not null" json:"description"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitRate    float64 `gorm:"type:decimal(10,2);not null" json:"unit_rate"`
	Amount      float64 `gorm:"type:decimal(10,2);not null" json:"amount"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the LineItem model
func (LineItem) TableName() string {
	return "invoice_line_items"
}
