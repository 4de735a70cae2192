package utils

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
)

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date from a request payload.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected format %s", value, dateLayout)
	}
	return t, nil
}

// NormalizeDate truncates a timestamp to the beginning of its day. Check-in
// and check-out are day-granular; nothing downstream should ever see a
// time-of-day component.
func NormalizeDate(t time.Time) time.Time {
	return now.With(t).BeginningOfDay()
}

// NightsBetween returns the number of nights in the half-open range
// [checkIn, checkOut). Both inputs are expected to be normalized dates.
func NightsBetween(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// RoundMoney rounds to 2 decimals using round-half-up, matching the flat
// displayed tax rate. Banker's rounding would drift from the printed figure.
func RoundMoney(amount float64) float64 {
	return math.Floor(amount*100+0.5) / 100
}

// GenerateBookingCode returns a human-readable unique booking code,
// e.g. HB-20240601-7F3A2C.
func GenerateBookingCode() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("HB-%s-%s", time.Now().Format("20060102"), suffix)
}

// GeneratePaymentReference returns a system transaction reference for
// payments recorded without an operator-supplied one.
func GeneratePaymentReference() string {
	return fmt.Sprintf("PAY-%s", strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12]))
}

// FormatInvoiceNumber renders the property-unique sequential invoice number.
func FormatInvoiceNumber(sequence uint) string {
	return fmt.Sprintf("INV-%06d", sequence)
}
