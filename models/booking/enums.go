package booking

// BookingStatus is the lifecycle state of a booking record.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

func (bs BookingStatus) String() string {
	return string(bs)
}

func (bs BookingStatus) IsValid() bool {
	switch bs {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	default:
		return false
	}
}

// CanBeModified returns true if assignment, add-on and stay mutations are
// still allowed for this state.
func (bs BookingStatus) CanBeModified() bool {
	return bs != BookingStatusCancelled
}

// PaymentStatus tracks how far a booking's invoice has been settled.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

func (ps PaymentStatus) String() string {
	return string(ps)
}

func (ps PaymentStatus) IsValid() bool {
	switch ps {
	case PaymentStatusPending, PaymentStatusConfirmed, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

// PaymentStatusFor derives the payment status from the amounts alone. Every
// financial mutation must flow through this function rather than setting the
// flag directly; a stale "confirmed" after a total change is a correctness
// bug.
func PaymentStatusFor(total, paid float64) PaymentStatus {
	if total > 0 && paid >= total {
		return PaymentStatusConfirmed
	}
	return PaymentStatusPending
}

// GetAllBookingStatuses returns all valid booking statuses.
func GetAllBookingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusPending,
		BookingStatusConfirmed,
		BookingStatusCancelled,
	}
}
