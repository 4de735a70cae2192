package payment

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"hotel-booking/errs"
	bookingModel "hotel-booking/models/booking"
	invoiceModel "hotel-booking/models/invoice"
	paymentModel "hotel-booking/models/payment"
	"hotel-booking/models/room"
	invoiceService "hotel-booking/services/invoice"

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
		&bookingModel.Booking{},
		&bookingModel.AddOn{},
		&bookingModel.BookingStatusEvent{},
		&invoiceModel.Invoice{},
		&invoiceModel.LineItem{},
		&paymentModel.Payment{},
	)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

// seedInvoice creates a booking with an open invoice of the given total.
func seedInvoice(t *testing.T, db *gorm.DB, total float64) invoiceModel.Invoice {
	t.Helper()
	b := bookingModel.Booking{
		Code:          "HB-" + t.Name(),
		GuestName:     "Asha Rao",
		CheckIn:       time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		Guests:        2,
		TotalAmount:   total / 1.18,
		Status:        bookingModel.BookingStatusPending,
		PaymentStatus: bookingModel.PaymentStatusPending,
	}
	if err := db.Create(&b).Error; err != nil {
		t.Fatal(err)
	}
	inv := invoiceModel.Invoice{
		BookingID: b.ID,
		Sequence:  1,
		Number:    "INV-000001",
		Subtotal:  total / 1.18,
		TaxRate:   18,
		TaxAmount: total - total/1.18,
		Total:     total,
		Paid:      0,
		Due:       total,
		Status:    invoiceModel.StatusPending,
	}
	if err := db.Create(&inv).Error; err != nil {
		t.Fatal(err)
	}
	return inv
}

func reloadInvoice(t *testing.T, db *gorm.DB, id uint) invoiceModel.Invoice {
	t.Helper()
	var inv invoiceModel.Invoice
	if err := db.First(&inv, id).Error; err != nil {
		t.Fatal(err)
	}
	return inv
}

func reloadBooking(t *testing.T, db *gorm.DB, id uint) bookingModel.Booking {
	t.Helper()
	var b bookingModel.Booking
	if err := db.First(&b, id).Error; err != nil {
		t.Fatal(err)
	}
	return b
}

func TestPartialPayment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	inv := seedInvoice(t, db, 11800)

	p, err := svc.RecordPayment(inv.ID, RecordParams{
		Amount: 5000, Method: paymentModel.MethodCash, RecordedBy: "accounts",
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != paymentModel.StatusRecorded {
		t.Fatalf("expected recorded payment, got %s", p.Status)
	}

	got := reloadInvoice(t, db, inv.ID)
	if got.Paid != 5000 || got.Due != 6800 {
		t.Fatalf("expected paid 5000 due 6800, got paid %v due %v", got.Paid, got.Due)
	}
	if got.Status != invoiceModel.StatusPartiallyPaid {
		t.Fatalf("expected partially_paid, got %s", got.Status)
	}

	// A partial payment never flips the booking.
	b := reloadBooking(t, db, inv.BookingID)
	if b.PaymentStatus != bookingModel.PaymentStatusPending {
		t.Fatalf("expected booking still pending, got %s", b.PaymentStatus)
	}
	if b.PaymentMethod != nil {
		t.Fatal("expected no payment method stamped on a partial payment")
	}
}

func TestSettlingPaymentFlipsBooking(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	inv := seedInvoice(t, db, 11800)

	if _, err := svc.RecordPayment(inv.ID, RecordParams{
		Amount: 5000, Method: paymentModel.MethodCash, RecordedBy: "accounts",
	}); err != nil {
		t.Fatal(err)
	}
	settle, err := svc.RecordPayment(inv.ID, RecordParams{
		Amount: 6800, Method: paymentModel.MethodCard, Reference: "TXN-42", RecordedBy: "accounts",
	})
	if err != nil {
		t.Fatal(err)
	}

	got := reloadInvoice(t, db, inv.ID)
	if got.Paid != 11800 || got.Due != 0 {
		t.Fatalf("expected paid 11800 due 0, got paid %v due %v", got.Paid, got.Due)
	}
	if got.Status != invoiceModel.StatusPaid {
		t.Fatalf("expected paid invoice, got %s", got.Status)
	}

	b := reloadBooking(t, db, inv.BookingID)
	if b.PaymentStatus != bookingModel.PaymentStatusConfirmed {
		t.Fatalf("expected booking confirmed, got %s", b.PaymentStatus)
	}
	if b.PaymentMethod == nil || *b.PaymentMethod != "card" {
		t.Fatalf("expected settling method card stamped, got %v", b.PaymentMethod)
	}
	if b.PaymentReference == nil || *b.PaymentReference != settle.Reference {
		t.Fatalf("expected settling reference stamped, got %v", b.PaymentReference)
	}

	var eventCount int64
	db.Model(&bookingModel.BookingStatusEvent{}).
		Where("booking_id = ? AND event_type = ?", inv.BookingID, "payment_confirmed").Count(&eventCount)
	if eventCount != 1 {
		t.Fatalf("expected one payment_confirmed event, got %d", eventCount)
	}
}

func TestOverpaymentRejectedWithoutSideEffects(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	inv := seedInvoice(t, db, 11800)

	if _, err := svc.RecordPayment(inv.ID, RecordParams{
		Amount: 5000, Method: paymentModel.MethodCash, RecordedBy: "accounts",
	}); err != nil {
		t.Fatal(err)
	}

	_, err := svc.RecordPayment(inv.ID, RecordParams{
		Amount: 7000, Method: paymentModel.MethodCash, RecordedBy: "accounts",
	})
	var over *errs.OverpaymentError
	if !errors.As(err, &over) {
		t.Fatalf("expected OverpaymentError, got %v", err)
	}
	if over.Amount != 7000 || over.Due != 6800 {
		t.Fatalf("unexpected overpayment detail: %+v", over)
	}

	// Rejected, never clamped: no ledger row, invoice untouched.
	var count int64
	db.Model(&paymentModel.Payment{}).Where("invoice_id = ?", inv.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected only the first ledger row, got %d", count)
	}
	got := reloadInvoice(t, db, inv.ID)
	if got.Paid != 5000 || got.Due != 6800 {
		t.Fatalf("expected invoice unchanged at paid 5000 due 6800, got paid %v due %v", got.Paid, got.Due)
	}
}

func TestInvalidAmountRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	inv := seedInvoice(t, db, 11800)

	for _, amount := range []float64{0, -100} {
		_, err := svc.RecordPayment(inv.ID, RecordParams{
			Amount: amount, Method: paymentModel.MethodCash,
		})
		if !errors.Is(err, errs.ErrInvalidPaymentAmount) {
			t.Fatalf("expected ErrInvalidPaymentAmount for %v, got %v", amount, err)
		}
	}
}

func TestUnknownInvoice(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	_, err := svc.RecordPayment(9999, RecordParams{
		Amount: 100, Method: paymentModel.MethodCash,
	})
	if !errors.Is(err, errs.ErrInvoiceNotFound) {
		t.Fatalf("expected ErrInvoiceNotFound, got %v", err)
	}
}

func TestReferenceGeneratedWhenOmitted(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	inv := seedInvoice(t, db, 11800)

	p, err := svc.RecordPayment(inv.ID, RecordParams{
		Amount: 1000, Method: paymentModel.MethodUPI,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(p.Reference, "PAY-") {
		t.Fatalf("expected generated PAY- reference, got %q", p.Reference)
	}
}

func TestVoidRecomputesInvoiceAndBooking(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	inv := seedInvoice(t, db, 11800)

	if _, err := svc.RecordPayment(inv.ID, RecordParams{
		Amount: 5000, Method: paymentModel.MethodCash, RecordedBy: "accounts",
	}); err != nil {
		t.Fatal(err)
	}
	settle, err := svc.RecordPayment(inv.ID, RecordParams{
		Amount: 6800, Method: paymentModel.MethodCard, RecordedBy: "accounts",
	})
	if err != nil {
		t.Fatal(err)
	}

	voided, err := svc.VoidPayment(settle.ID, "accounts")
	if err != nil {
		t.Fatal(err)
	}
	if voided.Status != paymentModel.StatusVoided {
		t.Fatalf("expected voided payment, got %s", voided.Status)
	}

	got := reloadInvoice(t, db, inv.ID)
	if got.Paid != 5000 || got.Due != 6800 {
		t.Fatalf("expected paid 5000 due 6800 after void, got paid %v due %v", got.Paid, got.Due)
	}
	if got.Status != invoiceModel.StatusPartiallyPaid {
		t.Fatalf("expected partially_paid after void, got %s", got.Status)
	}

	b := reloadBooking(t, db, inv.BookingID)
	if b.PaymentStatus != bookingModel.PaymentStatusPending {
		t.Fatalf("expected booking back to pending, got %s", b.PaymentStatus)
	}
	if b.PaymentMethod != nil || b.PaymentReference != nil {
		t.Fatal("expected stamped method and reference cleared after void")
	}

	// The voided row stays in the ledger for audit.
	ledger, err := svc.ListByInvoice(inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ledger) != 2 {
		t.Fatalf("expected both ledger rows retained, got %d", len(ledger))
	}
}

func TestResyncDoesNotEraseConcurrentPayments(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	invoices := invoiceService.NewService(db)
	inv := seedInvoice(t, db, 11800)

	// Record payments and resync the invoice at the same time; every
	// recorded unit must survive into the reconciled totals.
	const workers, perWorker = 5, 20
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if _, err := svc.RecordPayment(inv.ID, RecordParams{
					Amount: 1, Method: paymentModel.MethodCash, RecordedBy: "accounts",
				}); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 25; i++ {
			if _, err := invoices.Resync(inv.BookingID); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	wg.Wait()

	var recorded float64
	db.Model(&paymentModel.Payment{}).
		Where("invoice_id = ? AND status = ?", inv.ID, paymentModel.StatusRecorded).
		Select("COALESCE(SUM(amount), 0)").Scan(&recorded)
	if recorded != workers*perWorker {
		t.Fatalf("expected %d recorded in the ledger, got %v", workers*perWorker, recorded)
	}

	got := reloadInvoice(t, db, inv.ID)
	if got.Paid != workers*perWorker {
		t.Fatalf("expected paid %d after interleaved resyncs, got %v", workers*perWorker, got.Paid)
	}
	if got.Due != 11800-workers*perWorker {
		t.Fatalf("expected due %d, got %v", 11800-workers*perWorker, got.Due)
	}
}

func TestVoidIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	inv := seedInvoice(t, db, 11800)

	p, err := svc.RecordPayment(inv.ID, RecordParams{
		Amount: 5000, Method: paymentModel.MethodCash,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.VoidPayment(p.ID, "accounts"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.VoidPayment(p.ID, "accounts"); err != nil {
		t.Fatal(err)
	}

	got := reloadInvoice(t, db, inv.ID)
	if got.Paid != 0 || got.Due != 11800 {
		t.Fatalf("expected a clean slate after double void, got paid %v due %v", got.Paid, got.Due)
	}
	if got.Status != invoiceModel.StatusPending {
		t.Fatalf("expected pending invoice, got %s", got.Status)
	}
}

func TestVoidReopensDueForNewPayments(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	inv := seedInvoice(t, db, 11800)

	p, err := svc.RecordPayment(inv.ID, RecordParams{
		Amount: 11800, Method: paymentModel.MethodGateway, Reference: "GW-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.VoidPayment(p.ID, "accounts"); err != nil {
		t.Fatal(err)
	}

	// The full amount can be recorded again against the reopened due.
	if _, err := svc.RecordPayment(inv.ID, RecordParams{
		Amount: 11800, Method: paymentModel.MethodCard, Reference: "TXN-2",
	}); err != nil {
		t.Fatalf("expected reopened due to accept a fresh settlement, got %v", err)
	}

	got := reloadInvoice(t, db, inv.ID)
	if got.Status != invoiceModel.StatusPaid || got.Due != 0 {
		t.Fatalf("expected paid invoice with due 0, got %s due %v", got.Status, got.Due)
	}
}
