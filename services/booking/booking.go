package booking

import (
	"errors"
	"os"
	"time"

	"hotel-booking/errs"
	bookingModel "hotel-booking/models/booking"
	"hotel-booking/models/room"
	"hotel-booking/services/availability"
	"hotel-booking/services/booking_event"
	"hotel-booking/utils"

	"gorm.io/gorm"
)

// Assignment tie-break policies. Lowest unit number is the default; the
// policy is configurable, not a hard contract.
const (
	PolicyLowestUnit  = "lowest_unit"
	PolicyHighestUnit = "highest_unit"
)

// Service owns the booking lifecycle: creation, unit assignment, add-ons,
// stay extension and cancellation. Unit assignment is serialized per room
// type and re-checks availability inside the write transaction, so two
// concurrent assignments can never both take the same unit.
type Service struct {
	db          *gorm.DB
	assignLocks *utils.KeyedMutex
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		db:          db,
		assignLocks: utils.NewKeyedMutex(),
	}
}

// CreateParams is the draft booking a client assembled before anything is
// persisted. It is a plain value passed in, never shared mutable state.
type CreateParams struct {
	GuestName  string
	GuestEmail string
	GuestPhone string
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
	RoomTypeID *uint
	AddOns     []AddOnParams
	Notes      string
	CreatedBy  string
}

// AddOnParams is one meal/activity/spa selection with the shared line shape.
type AddOnParams struct {
	Kind      bookingModel.AddOnKind
	ServiceID uint
	Title     string
	UnitPrice float64
	Quantity  int
}

// Create validates the draft, computes the initial total from base price x
// nights plus add-ons, and persists the booking with no unit assigned.
func (s *Service) Create(params CreateParams) (*bookingModel.Booking, error) {
	checkIn := utils.NormalizeDate(params.CheckIn)
	checkOut := utils.NormalizeDate(params.CheckOut)
	if !checkIn.Before(checkOut) {
		return nil, errs.ErrInvalidDateRange
	}

	for _, a := range params.AddOns {
		if !a.Kind.IsValid() {
			return nil, errors.New("invalid add-on kind: " + a.Kind.String())
		}
		if a.Quantity <= 0 {
			return nil, errors.New("add-on quantity must be positive")
		}
	}

	nights := utils.NightsBetween(checkIn, checkOut)
	var total float64

	if params.RoomTypeID != nil {
		var rt room.RoomType
		if err := s.db.First(&rt, *params.RoomTypeID).Error; err != nil {
			return nil, err
		}
		if params.Guests > rt.Capacity {
			return nil, &errs.CapacityError{Guests: params.Guests, Capacity: rt.Capacity}
		}
		total = rt.BasePrice * float64(nights)
	}

	b := bookingModel.Booking{
		Code:          utils.GenerateBookingCode(),
		GuestName:     params.GuestName,
		GuestEmail:    params.GuestEmail,
		GuestPhone:    params.GuestPhone,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Guests:        params.Guests,
		RoomTypeID:    params.RoomTypeID,
		Status:        bookingModel.BookingStatusPending,
		PaymentStatus: bookingModel.PaymentStatusPending,
		Notes:         params.Notes,
		CreatedBy:     params.CreatedBy,
	}

	for _, a := range params.AddOns {
		line := bookingModel.AddOn{
			Kind:      a.Kind,
			ServiceID: a.ServiceID,
			Title:     a.Title,
			UnitPrice: a.UnitPrice,
			Quantity:  a.Quantity,
		}
		total += line.LineTotal()
		b.AddOns = append(b.AddOns, line)
	}
	b.TotalAmount = utils.RoundMoney(total)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&b).Error; err != nil {
			return err
		}
		return booking_event.SnapshotBooking(tx, &b, "created", params.CreatedBy)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(b.ID)
}

// Get loads a booking with its relations.
func (s *Service) Get(id uint) (*bookingModel.Booking, error) {
	var b bookingModel.Booking
	err := s.db.Preload("AddOns").Preload("RoomType").Preload("RoomUnit").First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// GetByCode loads a booking by its human-readable code.
func (s *Service) GetByCode(code string) (*bookingModel.Booking, error) {
	var b bookingModel.Booking
	err := s.db.Preload("AddOns").Preload("RoomType").Preload("RoomUnit").
		Where("code = ?", code).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListFilter narrows List results for the admin screens.
type ListFilter struct {
	Status bookingModel.BookingStatus
	From   *time.Time
	To     *time.Time
}

func (s *Service) List(filter ListFilter) ([]bookingModel.Booking, error) {
	query := s.db.Preload("RoomType").Preload("RoomUnit").Order("created_at desc")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("check_out > ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("check_in < ?", *filter.To)
	}

	var bookings []bookingModel.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// AutoAssign picks a free unit for the booking's room type and dates. The
// tie-break is deterministic per the configured policy. Reported as
// ErrNoUnitsAvailable when the result set is empty; never retried here.
func (s *Service) AutoAssign(bookingID uint, updatedBy string) (*bookingModel.Booking, error) {
	b, err := s.Get(bookingID)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanBeModified() {
		return nil, errs.ErrBookingCancelled
	}
	if b.RoomTypeID == nil {
		return nil, errors.New("booking has no room type to assign against")
	}

	unlock := s.assignLocks.Lock(*b.RoomTypeID)
	defer unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Availability is re-checked inside the transaction; the result
		// computed before the lock could already be stale.
		result, err := availability.NewService(tx).
			GetAvailableUnitsExcluding(*b.RoomTypeID, b.CheckIn, b.CheckOut, b.ID)
		if err != nil {
			return err
		}
		if result.AvailableCount == 0 {
			return errs.ErrNoUnitsAvailable
		}

		unit := pickUnit(result.Units)
		b.RoomUnitID = &unit.ID
		b.UpdatedBy = updatedBy
		if err := saveBooking(tx, b); err != nil {
			return err
		}
		return booking_event.SnapshotBooking(tx, b, "unit_assigned", updatedBy)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(bookingID)
}

// pickUnit applies the configured tie-break to an ascending-ordered list.
func pickUnit(units []room.RoomUnit) room.RoomUnit {
	if os.Getenv("ASSIGN_POLICY") == PolicyHighestUnit {
		return units[len(units)-1]
	}
	return units[0]
}

// ManualAssign accepts an operator-chosen unit only if it passes the same
// room-type-match and availability checks as auto-assignment.
func (s *Service) ManualAssign(bookingID, unitID uint, updatedBy string) (*bookingModel.Booking, error) {
	return s.assignSpecificUnit(bookingID, unitID, updatedBy, "unit_assigned_manual")
}

// ChangeUnit moves the booking to a different unit over its existing dates,
// with the booking's own occupancy excluded from the overlap check.
func (s *Service) ChangeUnit(bookingID, newUnitID uint, updatedBy string) (*bookingModel.Booking, error) {
	return s.assignSpecificUnit(bookingID, newUnitID, updatedBy, "unit_changed")
}

func (s *Service) assignSpecificUnit(bookingID, unitID uint, updatedBy, eventType string) (*bookingModel.Booking, error) {
	b, err := s.Get(bookingID)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanBeModified() {
		return nil, errs.ErrBookingCancelled
	}
	if b.RoomTypeID == nil {
		return nil, errors.New("booking has no room type to assign against")
	}

	var unit room.RoomUnit
	if err := s.db.First(&unit, unitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &errs.UnitConflictError{UnitID: unitID, Reason: "unit does not exist"}
		}
		return nil, err
	}
	if unit.RoomTypeID != *b.RoomTypeID {
		return nil, &errs.UnitConflictError{
			UnitID:     unit.ID,
			UnitNumber: unit.UnitNumber,
			Reason:     "unit belongs to a different room type",
		}
	}
	if !unit.Status.IsAssignable() {
		return nil, &errs.UnitConflictError{
			UnitID:     unit.ID,
			UnitNumber: unit.UnitNumber,
			Reason:     "unit is " + unit.Status.String() + ", not active",
		}
	}

	unlock := s.assignLocks.Lock(*b.RoomTypeID)
	defer unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		free, err := availability.NewService(tx).IsUnitFree(unit.ID, b.CheckIn, b.CheckOut, b.ID)
		if err != nil {
			return err
		}
		if !free {
			return &errs.UnitConflictError{
				UnitID:     unit.ID,
				UnitNumber: unit.UnitNumber,
				Reason:     "unit is already occupied for the requested dates",
			}
		}

		b.RoomUnitID = &unit.ID
		b.UpdatedBy = updatedBy
		if err := saveBooking(tx, b); err != nil {
			return err
		}
		return booking_event.SnapshotBooking(tx, b, eventType, updatedBy)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(bookingID)
}

// ChangeRoomType switches the booking to a new type. The old unit is
// cleared (it is almost certainly the wrong type) and the total is
// recomputed against the new base price; a fresh assignment step is
// required afterwards.
func (s *Service) ChangeRoomType(bookingID, newTypeID uint, updatedBy string) (*bookingModel.Booking, error) {
	b, err := s.Get(bookingID)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanBeModified() {
		return nil, errs.ErrBookingCancelled
	}

	var rt room.RoomType
	if err := s.db.First(&rt, newTypeID).Error; err != nil {
		return nil, err
	}
	if b.Guests > rt.Capacity {
		return nil, &errs.CapacityError{Guests: b.Guests, Capacity: rt.Capacity}
	}

	nights := b.Nights()
	b.RoomTypeID = &newTypeID
	b.RoomUnitID = nil
	b.TotalAmount = utils.RoundMoney(rt.BasePrice*float64(nights) + b.AddOnTotal())
	resetPaymentState(b)
	b.UpdatedBy = updatedBy

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := saveBooking(tx, b); err != nil {
			return err
		}
		return booking_event.SnapshotBooking(tx, b, "room_type_changed", updatedBy)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(bookingID)
}

// ExtendStay pushes check-out to a later date. The extension is priced at
// the booking's derived nightly rate (currentTotal / currentNights), which
// preserves any discount already baked into the total, not the room type's
// current base price.
func (s *Service) ExtendStay(bookingID uint, newCheckOut time.Time, updatedBy string) (*bookingModel.Booking, error) {
	b, err := s.Get(bookingID)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanBeModified() {
		return nil, errs.ErrBookingCancelled
	}

	newCheckOut = utils.NormalizeDate(newCheckOut)
	if !newCheckOut.After(b.CheckOut) {
		return nil, errs.ErrInvalidDateRange
	}

	currentNights := b.Nights()
	extraNights := utils.NightsBetween(b.CheckOut, newCheckOut)
	nightlyRate := b.TotalAmount / float64(currentNights)

	if b.RoomTypeID != nil {
		unlock := s.assignLocks.Lock(*b.RoomTypeID)
		defer unlock()
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// An assigned unit must also be free over the extension window.
		if b.RoomUnitID != nil {
			free, err := availability.NewService(tx).IsUnitFree(*b.RoomUnitID, b.CheckOut, newCheckOut, b.ID)
			if err != nil {
				return err
			}
			if !free {
				unitNumber := ""
				if b.RoomUnit != nil {
					unitNumber = b.RoomUnit.UnitNumber
				}
				return &errs.UnitConflictError{
					UnitID:     *b.RoomUnitID,
					UnitNumber: unitNumber,
					Reason:     "unit is occupied during the extension window",
				}
			}
		}

		b.CheckOut = newCheckOut
		b.TotalAmount = utils.RoundMoney(b.TotalAmount + nightlyRate*float64(extraNights))
		// The amount due changed, so any prior fully-paid marker is stale.
		resetPaymentState(b)
		b.UpdatedBy = updatedBy
		if err := saveBooking(tx, b); err != nil {
			return err
		}
		return booking_event.SnapshotBooking(tx, b, "stay_extended", updatedBy)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(bookingID)
}

// AddAddOn appends a service line. Lines are not deduplicated by service
// id; selecting the same service twice yields two lines.
func (s *Service) AddAddOn(bookingID uint, params AddOnParams, updatedBy string) (*bookingModel.Booking, error) {
	if !params.Kind.IsValid() {
		return nil, errors.New("invalid add-on kind: " + params.Kind.String())
	}
	if params.Quantity <= 0 {
		return nil, errors.New("add-on quantity must be positive")
	}

	b, err := s.Get(bookingID)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanBeModified() {
		return nil, errs.ErrBookingCancelled
	}

	line := bookingModel.AddOn{
		BookingID: b.ID,
		Kind:      params.Kind,
		ServiceID: params.ServiceID,
		Title:     params.Title,
		UnitPrice: params.UnitPrice,
		Quantity:  params.Quantity,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&line).Error; err != nil {
			return err
		}
		b.TotalAmount = utils.RoundMoney(b.TotalAmount + line.LineTotal())
		resetPaymentState(b)
		b.UpdatedBy = updatedBy
		if err := saveBooking(tx, b); err != nil {
			return err
		}
		return booking_event.SnapshotBooking(tx, b, "addon_added", updatedBy)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(bookingID)
}

// Cancel transitions the booking to cancelled. Nothing is deleted; invoice
// and payment history must remain for audit.
func (s *Service) Cancel(bookingID uint, updatedBy string) (*bookingModel.Booking, error) {
	b, err := s.Get(bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == bookingModel.BookingStatusCancelled {
		return b, nil
	}

	b.Status = bookingModel.BookingStatusCancelled
	b.UpdatedBy = updatedBy

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := saveBooking(tx, b); err != nil {
			return err
		}
		return booking_event.SnapshotBooking(tx, b, "cancelled", updatedBy)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(bookingID)
}

// saveBooking persists the booking row itself. The preloaded associations
// are cleared first: saving with them attached lets gorm re-derive
// room_type_id and room_unit_id from the stale structs, undoing a unit
// change or a cleared assignment.
func saveBooking(tx *gorm.DB, b *bookingModel.Booking) error {
	b.RoomType = nil
	b.RoomUnit = nil
	b.AddOns = nil
	return tx.Save(b).Error
}

// resetPaymentState invalidates any prior paid marker after a financial
// mutation. The booking stays unsettled until the ledger reconciles it.
func resetPaymentState(b *bookingModel.Booking) {
	b.PaymentStatus = bookingModel.PaymentStatusPending
	b.PaymentMethod = nil
	b.PaymentReference = nil
}
