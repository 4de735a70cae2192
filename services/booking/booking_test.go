package booking

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"hotel-booking/errs"
	bookingModel "hotel-booking/models/booking"
	"hotel-booking/models/room"
	"hotel-booking/services/availability"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	err = db.AutoMigrate(
		&room.RoomType{},
		&room.RoomUnit{},
		&bookingModel.Booking{},
		&bookingModel.AddOn{},
		&bookingModel.BookingStatusEvent{},
	)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedRoomType(t *testing.T, db *gorm.DB, name string, basePrice float64, capacity int, unitNumbers ...string) room.RoomType {
	t.Helper()
	rt := room.RoomType{Name: name, BasePrice: basePrice, Capacity: capacity, Published: true}
	if err := db.Create(&rt).Error; err != nil {
		t.Fatal(err)
	}
	for _, n := range unitNumbers {
		unit := room.RoomUnit{RoomTypeID: rt.ID, UnitNumber: n, Status: room.UnitStatusActive}
		if err := db.Create(&unit).Error; err != nil {
			t.Fatal(err)
		}
	}
	return rt
}

func unitByNumber(t *testing.T, db *gorm.DB, number string) room.RoomUnit {
	t.Helper()
	var unit room.RoomUnit
	if err := db.Where("unit_number = ?", number).First(&unit).Error; err != nil {
		t.Fatal(err)
	}
	return unit
}

func createBooking(t *testing.T, svc *Service, rt room.RoomType, checkIn, checkOut time.Time) *bookingModel.Booking {
	t.Helper()
	b, err := svc.Create(CreateParams{
		GuestName:  "Asha Rao",
		GuestEmail: "asha@example.com",
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     2,
		RoomTypeID: &rt.ID,
		CreatedBy:  "frontdesk",
	})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestCreateRejectsInvalidDates(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	rt := seedRoomType(t, db, "Standard", 100, 2, "101")

	_, err := svc.Create(CreateParams{
		GuestName:  "Asha Rao",
		CheckIn:    date(2026, 9, 3),
		CheckOut:   date(2026, 9, 3),
		Guests:     1,
		RoomTypeID: &rt.ID,
	})
	if !errors.Is(err, errs.ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestCreateComputesTotal(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	rt := seedRoomType(t, db, "Standard", 150, 2, "101")

	b, err := svc.Create(CreateParams{
		GuestName:  "Asha Rao",
		CheckIn:    date(2026, 9, 1),
		CheckOut:   date(2026, 9, 3),
		Guests:     2,
		RoomTypeID: &rt.ID,
		AddOns: []AddOnParams{
			{Kind: bookingModel.AddOnKindMeal, ServiceID: 1, Title: "Breakfast", UnitPrice: 25, Quantity: 2},
		},
		CreatedBy: "frontdesk",
	})
	if err != nil {
		t.Fatal(err)
	}

	// 2 nights x 150 + 2 x 25 add-on
	if b.TotalAmount != 350 {
		t.Fatalf("expected total 350, got %v", b.TotalAmount)
	}
	if b.Status != bookingModel.BookingStatusPending {
		t.Fatalf("expected pending booking, got %s", b.Status)
	}
	if b.RoomUnitID != nil {
		t.Fatal("expected no unit assigned at creation")
	}
	if len(b.AddOns) != 1 {
		t.Fatalf("expected 1 add-on line, got %d", len(b.AddOns))
	}

	var eventCount int64
	db.Model(&bookingModel.BookingStatusEvent{}).Where("booking_id = ? AND event_type = ?", b.ID, "created").Count(&eventCount)
	if eventCount != 1 {
		t.Fatalf("expected a created status event, got %d", eventCount)
	}
}

func TestCreateRejectsOverCapacity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	rt := seedRoomType(t, db, "Standard", 100, 2, "101")

	_, err := svc.Create(CreateParams{
		GuestName:  "Asha Rao",
		CheckIn:    date(2026, 9, 1),
		CheckOut:   date(2026, 9, 2),
		Guests:     4,
		RoomTypeID: &rt.ID,
	})
	var capErr *errs.CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityError, got %v", err)
	}
	if capErr.Guests != 4 || capErr.Capacity != 2 {
		t.Fatalf("unexpected capacity error detail: %+v", capErr)
	}
}

func TestAutoAssignPicksLowestUnit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	rt := seedRoomType(t, db, "Standard", 100, 2, "103", "101", "102")

	b := createBooking(t, svc, rt, date(2026, 9, 1), date(2026, 9, 3))
	b, err := svc.AutoAssign(b.ID, "frontdesk")
	if err != nil {
		t.Fatal(err)
	}
	if b.RoomUnit == nil || b.RoomUnit.UnitNumber != "101" {
		t.Fatalf("expected lowest unit 101, got %+v", b.RoomUnit)
	}
}

func TestAutoAssignHighestUnitPolicy(t *testing.T) {
	t.Setenv("ASSIGN_POLICY", PolicyHighestUnit)
	db := setupTestDB(t)
	svc := NewService(db)
	rt := seedRoomType(t, db, "Standard", 100, 2, "101", "102", "103")

	b := createBooking(t, svc, rt, date(2026, 9, 1), date(2026, 9, 3))
	b, err := svc.AutoAssign(b.ID, "frontdesk")
	if err != nil {
		t.Fatal(err)
	}
	if b.RoomUnit == nil || b.RoomUnit.UnitNumber != "103" {
		t.Fatalf("expected highest unit 103, got %+v", b.RoomUnit)
	}
}

func TestAutoAssignNoUnitsAvailable(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	rt := seedRoomType(t, db, "Deluxe", 200, 2, "201", "202")

	unit2 := unitByNumber(t, db, "202")
	db.Model(&unit2).Update("status", room.UnitStatusMaintenance)

	first := createBooking(t, svc, rt, date(2026, 9, 1), date(2026, 9, 3))
	if _, err := svc.AutoAssign(first.ID, "frontdesk"); err != nil {
		t.Fatal(err)
	}

	second := createBooking(t, svc, rt, date(2026, 9, 2), date(2026, 9, 4))
	_, err := svc.AutoAssign(second.ID, "frontdesk")
	if !errors.Is(err, errs.ErrNoUnitsAvailable) {
		t.Fatalf("expected ErrNoUnitsAvailable with one unit taken and one in maintenance, got %v", err)
	}
}

func TestManualAssignRejectsTypeMismatch(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	standard := seedRoomType(t, db, "Standard", 100, 2, "101")
	seedRoomType(t, db, "Deluxe", 200, 2, "201")

	b := createBooking(t, svc, standard, date(2026, 9, 1), date(2026, 9, 3))
	deluxeUnit := unitByNumber(t, db, "201")

	_, err := svc.ManualAssign(b.ID, deluxeUnit.ID, "frontdesk")
	var conflict *errs.UnitConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected UnitConflictError, got %v", err)
	}
	if conflict.UnitNumber != "201" {
		t.Fatalf("expected conflict on unit 201, got %+v", conflict)
	}
}

func TestManualAssignRejectsOccupiedUnit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	rt := seedRoomType(t, db, "Standard", 100, 2, "101", "102")

	first := createBooking(t, svc, rt, date(2026, 9, 1), date(2026, 9, 3))
	unit1 := unitByNumber(t, db, "101")
	if _, err := svc.ManualAssign(first.ID, unit1.ID, "frontdesk"); err != nil {
		t.Fatal(err)
	}

	second := createBooking(t, svc, rt, date(2026, 9, 2), date(2026, 9, 4))
	_, err := svc.ManualAssign(second.ID, unit1.ID, "frontdesk")
	var conflict *errs.UnitConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected UnitConflictError for occupied unit, got %v", err)
	}
}

func TestChangeUnitExcludesOwnOccupancy(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	rt := seedRoomType(t, db, "Standard", 100, 2, "101", "102")

	b := createBooking(t, svc, rt, date(2026, 9, 1), date(2026, 9, 3))
	unit1 := unitByNumber(t, db, "101")
	unit2 := unitByNumber(t, db, "102")
	if _, err := svc.ManualAssign(b.ID, unit1.ID, "frontdesk"); err != nil {
		t.Fatal(err)
	}

	// Moving to another unit, and even re-confirming the same unit, must not
	// conflict with the booking's own occupancy.
	b, err := svc.ChangeUnit(b.ID, unit2.ID, "frontdesk")
	if err != nil {
		t.Fatal(err)
	}
	if b.RoomUnit.UnitNumber != "102" {
		t.Fatalf("expected unit 102 after change, got %s", b.RoomUnit.UnitNumber)
	}

	// The stored row must carry the new unit, not just the returned struct.
	var raw bookingModel.Booking
	if err := db.First(&raw, b.ID).Error; err != nil {
		t.Fatal(err)
	}
	if raw.RoomUnitID == nil || *raw.RoomUnitID != unit2.ID {
		t.Fatalf("expected room_unit_id %d persisted, got %v", unit2.ID, raw.RoomUnitID)
	}

	b, err = svc.ChangeUnit(b.ID, unit2.ID, "frontdesk")
	if err != nil {
		t.Fatalf("re-assigning the booking's own unit must not conflict, got %v", err)
	}
	if b.RoomUnit.UnitNumber != "102" {
		t.Fatalf("expected unit 102, got %s", b.RoomUnit.UnitNumber)
	}
}

func TestChangeRoomTypeClearsUnitAndRecomputes(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	standard := seedRoomType(t, db, "Standard", 100, 2, "101")
	deluxe := seedRoomType(t, db, "Deluxe", 250, 3, "201")

	b := createBooking(t, svc, standard, date(2026, 9, 1), date(2026, 9, 3))
	unit1 := unitByNumber(t, db, "101")
	if _, err := svc.ManualAssign(b.ID, unit1.ID, "frontdesk"); err != nil {
		t.Fatal(err)
	}

	// Mark paid to prove financial mutations reset the payment state.
	method := "cash"
	db.Model(&bookingModel.Booking{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"payment_status": bookingModel.PaymentStatusConfirmed,
		"payment_method": method,
	})

	b, err := svc.ChangeRoomType(b.ID, deluxe.ID, "frontdesk")
	if err != nil {
		t.Fatal(err)
	}
	if b.RoomUnitID != nil {
		t.Fatal("expected unit cleared after room type change")
	}
	if b.TotalAmount != 500 {
		t.Fatalf("expected total 500 at new base price, got %v", b.TotalAmount)
	}
	if b.PaymentStatus != bookingModel.PaymentStatusPending {
		t.Fatalf("expected payment status reset to pending, got %s", b.PaymentStatus)
	}
	if b.PaymentMethod != nil {
		t.Fatal("expected payment method cleared")
	}

	var raw bookingModel.Booking
	if err := db.First(&raw, b.ID).Error; err != nil {
		t.Fatal(err)
	}
	if raw.RoomUnitID != nil {
		t.Fatalf("expected room_unit_id cleared in storage, got %v", *raw.RoomUnitID)
	}
	if raw.RoomTypeID == nil || *raw.RoomTypeID != deluxe.ID {
		t.Fatalf("expected room_type_id %d persisted, got %v", deluxe.ID, raw.RoomTypeID)
	}
}

func TestChangeRoomTypeRejectsOverCapacity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	standard := seedRoomType(t, db, "Standard", 100, 4, "101")
	single := seedRoomType(t, db, "Single", 80, 1, "301")

	b, err := svc.Create(CreateParams{
		GuestName:  "Asha Rao",
		CheckIn:    date(2026, 9, 1),
		CheckOut:   date(2026, 9, 3),
		Guests:     3,
		RoomTypeID: &standard.ID,
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.ChangeRoomType(b.ID, single.ID, "frontdesk")
	var capErr *errs.CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityError, got %v", err)
	}
}

func TestExtendStayUsesDerivedNightlyRate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	rt := seedRoomType(t, db, "Standard", 100, 2, "101")

	b := createBooking(t, svc, rt, date(2026, 9, 1), date(2026, 9, 3))

	// Apply a discount: 2 nights at 90 instead of 100. The extension must
	// price new nights at the discounted 90, not the current base price.
	db.Model(&bookingModel.Booking{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"total_amount":   180.0,
		"payment_status": bookingModel.PaymentStatusConfirmed,
	})

	b, err := svc.ExtendStay(b.ID, date(2026, 9, 4), "frontdesk")
	if err != nil {
		t.Fatal(err)
	}
	if b.TotalAmount != 270 {
		t.Fatalf("expected total 270 (3 nights at derived rate 90), got %v", b.TotalAmount)
	}
	if !b.CheckOut.Equal(date(2026, 9, 4)) {
		t.Fatalf("expected check-out 2026-09-04, got %v", b.CheckOut)
	}
	if b.PaymentStatus != bookingModel.PaymentStatusPending {
		t.Fatalf("expected payment status reset after extension, got %s", b.PaymentStatus)
	}
}

func TestExtendStayRejectsEarlierCheckOut(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	rt := seedRoomType(t, db, "Standard", 100, 2, "101")

	b := createBooking(t, svc, rt, date(2026, 9, 1), date(2026, 9, 3))
	_, err := svc.ExtendStay(b.ID, date(2026, 9, 3), "frontdesk")
	if !errors.Is(err, errs.ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange for non-extension, got %v", err)
	}
}

func TestExtendStayConflictOnOccupiedUnit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	rt := seedRoomType(t, db, "Standard", 100, 2, "101")
	unit1 := unitByNumber(t, db, "101")

	first := createBooking(t, svc, rt, date(2026, 9, 1), date(2026, 9, 3))
	if _, err := svc.ManualAssign(first.ID, unit1.ID, "frontdesk"); err != nil {
		t.Fatal(err)
	}

	// Same-day turnover books the unit from the first stay's check-out.
	second := createBooking(t, svc, rt, date(2026, 9, 3), date(2026, 9, 5))
	if _, err := svc.ManualAssign(second.ID, unit1.ID, "frontdesk"); err != nil {
		t.Fatal(err)
	}

	_, err := svc.ExtendStay(first.ID, date(2026, 9, 4), "frontdesk")
	var conflict *errs.UnitConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected UnitConflictError over the extension window, got %v", err)
	}
}

func TestAddAddOnDoesNotDeduplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	rt := seedRoomType(t, db, "Standard", 100, 2, "101")

	b := createBooking(t, svc, rt, date(2026, 9, 1), date(2026, 9, 3))
	spa := AddOnParams{Kind: bookingModel.AddOnKindSpa, ServiceID: 7, Title: "Spa session", UnitPrice: 60, Quantity: 1}

	if _, err := svc.AddAddOn(b.ID, spa, "frontdesk"); err != nil {
		t.Fatal(err)
	}
	b, err := svc.AddAddOn(b.ID, spa, "frontdesk")
	if err != nil {
		t.Fatal(err)
	}

	if len(b.AddOns) != 2 {
		t.Fatalf("expected two separate lines for the same service, got %d", len(b.AddOns))
	}
	if b.TotalAmount != 320 {
		t.Fatalf("expected total 320 (200 room + 2x60 spa), got %v", b.TotalAmount)
	}
}

func TestCancelledBookingRejectsMutations(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	rt := seedRoomType(t, db, "Standard", 100, 2, "101")

	b := createBooking(t, svc, rt, date(2026, 9, 1), date(2026, 9, 3))
	if _, err := svc.Cancel(b.ID, "frontdesk"); err != nil {
		t.Fatal(err)
	}

	_, err := svc.AutoAssign(b.ID, "frontdesk")
	if !errors.Is(err, errs.ErrBookingCancelled) {
		t.Fatalf("expected ErrBookingCancelled, got %v", err)
	}
	_, err = svc.ExtendStay(b.ID, date(2026, 9, 5), "frontdesk")
	if !errors.Is(err, errs.ErrBookingCancelled) {
		t.Fatalf("expected ErrBookingCancelled, got %v", err)
	}
}

func TestCancelFreesUnitForOtherBookings(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	rt := seedRoomType(t, db, "Standard", 100, 2, "101")
	unit1 := unitByNumber(t, db, "101")

	first := createBooking(t, svc, rt, date(2026, 9, 1), date(2026, 9, 3))
	if _, err := svc.ManualAssign(first.ID, unit1.ID, "frontdesk"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Cancel(first.ID, "frontdesk"); err != nil {
		t.Fatal(err)
	}

	result, err := availability.NewService(db).GetAvailableUnits(rt.ID, date(2026, 9, 1), date(2026, 9, 3))
	if err != nil {
		t.Fatal(err)
	}
	if result.AvailableCount != 1 {
		t.Fatalf("expected cancelled booking's unit to be free, got %d", result.AvailableCount)
	}

	second := createBooking(t, svc, rt, date(2026, 9, 1), date(2026, 9, 3))
	if _, err := svc.AutoAssign(second.ID, "frontdesk"); err != nil {
		t.Fatalf("expected re-assignment of the freed unit, got %v", err)
	}
}
