package errs

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Domain errors surfaced by the booking, invoice and payment services.
// Controllers translate these into HTTP responses; validation errors must
// never be retried, conflict errors may be retried once with fresh data.
var (
	ErrInvalidDateRange             = errors.New("check-in date must be before check-out date")
	ErrCapacityExceeded             = errors.New("guest count exceeds room type capacity")
	ErrNoUnitsAvailable             = errors.New("no units available for the requested dates")
	ErrUnitConflict                 = errors.New("room unit conflict")
	ErrInvalidPaymentAmount         = errors.New("payment amount must be greater than zero")
	ErrOverpaymentRejected          = errors.New("payment exceeds invoice due amount")
	ErrInvoiceNotFound              = errors.New("invoice not found")
	ErrBookingNotFound              = errors.New("booking not found")
	ErrBookingCancelled             = errors.New("booking is cancelled")
	ErrConcurrentAssignmentConflict = errors.New("assignment lost to a concurrent request")
	ErrStorageUnavailable           = errors.New("storage temporarily unavailable")
)

// UnitConflictError carries enough detail for the operator UI to explain
// which unit was rejected and why.
type UnitConflictError struct {
	UnitID     uint
	UnitNumber string
	Reason     string
}

func (e *UnitConflictError) Error() string {
	return fmt.Sprintf("unit %s (id %d) cannot be assigned: %s", e.UnitNumber, e.UnitID, e.Reason)
}

func (e *UnitConflictError) Unwrap() error { return ErrUnitConflict }

// CapacityError reports the requested guest count against the room type limit.
type CapacityError struct {
	Guests   int
	Capacity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%d guests exceed the room type capacity of %d", e.Guests, e.Capacity)
}

func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }

// OverpaymentError reports the attempted amount against the outstanding due.
type OverpaymentError struct {
	Amount float64
	Due    float64
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment of %.2f exceeds due amount %.2f", e.Amount, e.Due)
}

func (e *OverpaymentError) Unwrap() error { return ErrOverpaymentRejected }

// HTTPStatus maps a domain error to the fiber status code controllers respond with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidDateRange),
		errors.Is(err, ErrCapacityExceeded),
		errors.Is(err, ErrInvalidPaymentAmount):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrOverpaymentRejected):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ErrNoUnitsAvailable),
		errors.Is(err, ErrUnitConflict),
		errors.Is(err, ErrBookingCancelled),
		errors.Is(err, ErrConcurrentAssignmentConflict):
		return fiber.StatusConflict
	case errors.Is(err, ErrInvoiceNotFound),
		errors.Is(err, ErrBookingNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrStorageUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
