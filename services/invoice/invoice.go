package invoice

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"hotel-booking/errs"
	bookingModel "hotel-booking/models/booking"
	invoiceModel "hotel-booking/models/invoice"
	"hotel-booking/utils"

	"gorm.io/gorm"
)

const defaultTaxRatePercent = 18

// Service owns invoice generation and resynchronization. Invoice mutation
// is serialized per booking under the shared utils.LedgerLocks; the invoice
// row is updated in place, never versioned, so neither a concurrent
// generation nor a payment for one booking may interleave with a resync.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// TaxRatePercent reads the flat tax rate from the environment, defaulting
// to 18 (GST on hotel accommodation).
func TaxRatePercent() float64 {
	raw := os.Getenv("TAX_RATE_PERCENT")
	if raw == "" {
		return defaultTaxRatePercent
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil || rate < 0 {
		return defaultTaxRatePercent
	}
	return rate
}

// GetOrCreateInvoice returns the booking's invoice, synthesizing one from
// the booking's current total and add-on selections the first time a
// payment interaction is requested.
func (s *Service) GetOrCreateInvoice(bookingID uint) (*invoiceModel.Invoice, error) {
	unlock := utils.LedgerLocks.Lock(bookingID)
	defer unlock()

	existing, err := s.getByBookingID(bookingID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, errs.ErrInvoiceNotFound) {
		return nil, err
	}

	var b bookingModel.Booking
	if err := s.db.Preload("AddOns").Preload("RoomType").First(&b, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, err
	}

	taxRate := TaxRatePercent()
	subtotal := utils.RoundMoney(b.TotalAmount)
	taxAmount := utils.RoundMoney(subtotal * taxRate / 100)
	total := utils.RoundMoney(subtotal + taxAmount)

	inv := invoiceModel.Invoice{
		BookingID: b.ID,
		Subtotal:  subtotal,
		TaxRate:   taxRate,
		TaxAmount: taxAmount,
		Total:     total,
		Paid:      0,
		Due:       total,
		Status:    invoiceModel.StatusPending,
		LineItems: buildLineItems(&b),
	}

	// Held across the insert so a first-time invoice for another booking
	// cannot read the same max sequence before this one commits.
	seqMu.Lock()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		seq, err := nextSequence(tx)
		if err != nil {
			return err
		}
		inv.Sequence = seq
		inv.Number = utils.FormatInvoiceNumber(seq)
		return tx.Create(&inv).Error
	})
	seqMu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.getByBookingID(bookingID)
}

// Resync regenerates line items and totals from the booking's current
// charges. Recorded payments are preserved; due and status are recomputed
// against the new total. This is the explicit path a caller must take
// after mutating an already-invoiced booking; booking edits never rewrite
// the invoice on their own.
func (s *Service) Resync(bookingID uint) (*invoiceModel.Invoice, error) {
	unlock := utils.LedgerLocks.Lock(bookingID)
	defer unlock()

	inv, err := s.getByBookingID(bookingID)
	if err != nil {
		return nil, err
	}

	var b bookingModel.Booking
	if err := s.db.Preload("AddOns").Preload("RoomType").First(&b, bookingID).Error; err != nil {
		return nil, err
	}

	subtotal := utils.RoundMoney(b.TotalAmount)
	taxAmount := utils.RoundMoney(subtotal * inv.TaxRate / 100)
	total := utils.RoundMoney(subtotal + taxAmount)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Fresh read of the paid amount inside the transaction; due and
		// status reconcile against the ledger as of this write.
		if err := tx.First(inv, inv.ID).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", inv.ID).Delete(&invoiceModel.LineItem{}).Error; err != nil {
			return err
		}
		items := buildLineItems(&b)
		for i := range items {
			items[i].InvoiceID = inv.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		inv.Subtotal = subtotal
		inv.TaxAmount = taxAmount
		inv.Total = total
		inv.Due = utils.RoundMoney(total - inv.Paid)
		inv.Status = invoiceModel.StatusFor(total, inv.Paid)
		inv.LineItems = nil
		if err := tx.Save(inv).Error; err != nil {
			return err
		}

		// The booking's settled marker follows the reconciled totals. Only
		// that column is written; the booking row is not this service's.
		return tx.Model(&bookingModel.Booking{}).Where("id = ?", b.ID).
			Update("payment_status", bookingModel.PaymentStatusFor(total, inv.Paid)).Error
	})
	if err != nil {
		return nil, err
	}
	return s.getByBookingID(bookingID)
}

// GetByID loads an invoice with its lines and booking.
func (s *Service) GetByID(id uint) (*invoiceModel.Invoice, error) {
	var inv invoiceModel.Invoice
	err := s.db.Preload("LineItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Preload("Booking").First(&inv, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrInvoiceNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (s *Service) getByBookingID(bookingID uint) (*invoiceModel.Invoice, error) {
	var inv invoiceModel.Invoice
	err := s.db.Preload("LineItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Where("booking_id = ?", bookingID).First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrInvoiceNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// buildLineItems freezes the booking's charges into invoice lines: the room
// charge first, then each add-on at line granularity. The room charge is
// whatever part of the total the add-ons do not account for, which keeps
// extension nights and discounts inside it.
func buildLineItems(b *bookingModel.Booking) []invoiceModel.LineItem {
	nights := b.Nights()
	roomCharge := utils.RoundMoney(b.TotalAmount - b.AddOnTotal())

	typeName := "room"
	if b.RoomType != nil {
		typeName = b.RoomType.Name
	}

	nightRate := roomCharge
	if nights > 0 {
		nightRate = utils.RoundMoney(roomCharge / float64(nights))
	}

	items := []invoiceModel.LineItem{
		{
			Position:    1,
			Description: fmt.Sprintf("Room charge: %s, %d night(s)", typeName, nights),
			Quantity:    nights,
			UnitRate:    nightRate,
			Amount:      roomCharge,
		},
	}

	for i, a := range b.AddOns {
		items = append(items, invoiceModel.LineItem{
			Position:    i + 2,
			Description: fmt.Sprintf("%s: %s", a.Kind, a.Title),
			Quantity:    a.Quantity,
			UnitRate:    a.UnitPrice,
			Amount:      utils.RoundMoney(a.LineTotal()),
		})
	}
	return items
}

// seqMu serializes sequence allocation across bookings; the per-booking
// lock alone would let two first-time invoices race for the same number.
var seqMu sync.Mutex

// nextSequence allocates the next property-unique invoice number inside
// the caller's transaction, under seqMu. The unique index on sequence
// backstops any cross-process race.
func nextSequence(tx *gorm.DB) (uint, error) {
	var current uint
	err := tx.Model(&invoiceModel.Invoice{}).
		Select("COALESCE(MAX(sequence), 0)").Scan(&current).Error
	if err != nil {
		return 0, err
	}
	return current + 1, nil
}
