package booking_event

import (
	bookingModel "hotel-booking/models/booking"

	"gorm.io/gorm"
)

// SnapshotBooking writes an audit row capturing the booking's state after a
// mutation. Always called inside the transaction that performed the change
// so the event log can never disagree with the booking row.
func SnapshotBooking(tx *gorm.DB, b *bookingModel.Booking, eventType string, createdBy string) error {
	ev := bookingModel.BookingStatusEvent{
		BookingID:     b.ID,
		EventType:     eventType,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		RoomUnitID:    b.RoomUnitID,
		TotalAmount:   b.TotalAmount,
		CreatedBy:     createdBy,
	}
	return tx.Create(&ev).Error
}
