package availability

import (
	"time"

	"hotel-booking/errs"
	bookingModel "hotel-booking/models/booking"
	"hotel-booking/models/room"

	"gorm.io/gorm"
)

// Service answers the question "which units of this type are free for
// [checkIn, checkOut)". Two stays do not overlap iff one's check-out is on
// or before the other's check-in, which permits same-day turnover.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Result lists the free units ordered by unit number.
type Result struct {
	AvailableCount int             `json:"available_count"`
	Units          []room.RoomUnit `json:"units"`
}

// GetAvailableUnits returns the active units of the room type with no
// occupying booking overlapping the requested range. A room type with zero
// active units yields an empty result, not an error.
func (s *Service) GetAvailableUnits(roomTypeID uint, checkIn, checkOut time.Time) (Result, error) {
	return s.availableUnits(roomTypeID, checkIn, checkOut, 0)
}

// GetAvailableUnitsExcluding is GetAvailableUnits with one booking's own
// occupancy left out of the overlap check, so a booking never conflicts
// with itself when its unit or dates change.
func (s *Service) GetAvailableUnitsExcluding(roomTypeID uint, checkIn, checkOut time.Time, excludeBookingID uint) (Result, error) {
	return s.availableUnits(roomTypeID, checkIn, checkOut, excludeBookingID)
}

func (s *Service) availableUnits(roomTypeID uint, checkIn, checkOut time.Time, excludeBookingID uint) (Result, error) {
	if !checkIn.Before(checkOut) {
		return Result{}, errs.ErrInvalidDateRange
	}

	var units []room.RoomUnit
	err := s.db.
		Where("room_type_id = ? AND status = ?", roomTypeID, room.UnitStatusActive).
		Order("unit_number asc").
		Find(&units).Error
	if err != nil {
		return Result{}, err
	}
	if len(units) == 0 {
		return Result{AvailableCount: 0, Units: []room.RoomUnit{}}, nil
	}

	unitIDs := make([]uint, 0, len(units))
	for _, u := range units {
		unitIDs = append(unitIDs, u.ID)
	}

	busyIDs, err := s.occupiedUnitIDs(unitIDs, checkIn, checkOut, excludeBookingID)
	if err != nil {
		return Result{}, err
	}

	free := make([]room.RoomUnit, 0, len(units))
	for _, u := range units {
		if !busyIDs[u.ID] {
			free = append(free, u)
		}
	}
	return Result{AvailableCount: len(free), Units: free}, nil
}

// IsUnitFree checks a single unit over the range, excluding one booking's
// own occupancy. Used for manual overrides and stay extensions.
func (s *Service) IsUnitFree(unitID uint, checkIn, checkOut time.Time, excludeBookingID uint) (bool, error) {
	if !checkIn.Before(checkOut) {
		return false, errs.ErrInvalidDateRange
	}
	busyIDs, err := s.occupiedUnitIDs([]uint{unitID}, checkIn, checkOut, excludeBookingID)
	if err != nil {
		return false, err
	}
	return !busyIDs[unitID], nil
}

// occupiedUnitIDs finds the units taken by an occupying booking overlapping
// the half-open range. Cancelled bookings and refunded payment states
// release their unit.
func (s *Service) occupiedUnitIDs(unitIDs []uint, checkIn, checkOut time.Time, excludeBookingID uint) (map[uint]bool, error) {
	query := s.db.Model(&bookingModel.Booking{}).
		Where("room_unit_id IN ?", unitIDs).
		Where("status <> ?", bookingModel.BookingStatusCancelled).
		Where("payment_status <> ?", bookingModel.PaymentStatusRefunded).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)
	if excludeBookingID != 0 {
		query = query.Where("id <> ?", excludeBookingID)
	}

	var occupied []bookingModel.Booking
	if err := query.Select("room_unit_id").Find(&occupied).Error; err != nil {
		return nil, err
	}

	busy := make(map[uint]bool, len(occupied))
	for _, b := range occupied {
		if b.RoomUnitID != nil {
			busy[*b.RoomUnitID] = true
		}
	}
	return busy, nil
}
