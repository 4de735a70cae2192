package payment

import (
	"errors"
	"time"

	"hotel-booking/errs"
	bookingModel "hotel-booking/models/booking"
	invoiceModel "hotel-booking/models/invoice"
	paymentModel "hotel-booking/models/payment"
	"hotel-booking/services/booking_event"
	"hotel-booking/utils"

	"gorm.io/gorm"
)

// Service is the payment ledger. Recording and voiding are serialized per
// booking under the shared utils.LedgerLocks so the due-amount check can
// never race a concurrent payment or an invoice resync, and the three
// writes (payment row, invoice totals, conditional booking flip) land in
// one transaction.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// RecordParams describes one payment to record against an invoice.
type RecordParams struct {
	Amount     float64
	Method     paymentModel.Method
	Reference  string
	RecordedBy string
	Notes      string
}

// RecordPayment validates the amount against the current due, inserts the
// ledger row and reconciles invoice and booking state atomically. An
// overshooting amount is rejected, never clamped; callers needing to accept
// overpayment must issue a credit note instead.
func (s *Service) RecordPayment(invoiceID uint, params RecordParams) (*paymentModel.Payment, error) {
	if params.Amount <= 0 {
		return nil, errs.ErrInvalidPaymentAmount
	}
	if !params.Method.IsValid() {
		return nil, errors.New("invalid payment method: " + params.Method.String())
	}

	// The ledger lock is keyed by booking, shared with the invoice service,
	// so the owning booking is resolved before anything is locked.
	var owner invoiceModel.Invoice
	if err := s.db.Select("id", "booking_id").First(&owner, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrInvoiceNotFound
		}
		return nil, err
	}

	unlock := utils.LedgerLocks.Lock(owner.BookingID)
	defer unlock()

	reference := params.Reference
	if reference == "" {
		reference = utils.GeneratePaymentReference()
	}

	var created paymentModel.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var inv invoiceModel.Invoice
		if err := tx.First(&inv, invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrInvoiceNotFound
			}
			return err
		}

		if params.Amount > inv.Due {
			return &errs.OverpaymentError{Amount: params.Amount, Due: inv.Due}
		}

		created = paymentModel.Payment{
			InvoiceID:  inv.ID,
			BookingID:  inv.BookingID,
			Amount:     utils.RoundMoney(params.Amount),
			Method:     params.Method,
			Reference:  reference,
			Status:     paymentModel.StatusRecorded,
			RecordedBy: params.RecordedBy,
			Notes:      params.Notes,
			PaidAt:     time.Now(),
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		inv.Paid = utils.RoundMoney(inv.Paid + created.Amount)
		inv.Due = utils.RoundMoney(inv.Total - inv.Paid)
		inv.Status = invoiceModel.StatusFor(inv.Total, inv.Paid)
		if err := tx.Save(&inv).Error; err != nil {
			return err
		}

		// Only the payment that settles the invoice flips the booking and
		// stamps its method; partial payments leave it pending.
		if inv.Paid >= inv.Total {
			var b bookingModel.Booking
			if err := tx.First(&b, inv.BookingID).Error; err != nil {
				return err
			}
			b.PaymentStatus = bookingModel.PaymentStatusFor(inv.Total, inv.Paid)
			method := created.Method.String()
			b.PaymentMethod = &method
			b.PaymentReference = &created.Reference
			if err := tx.Save(&b).Error; err != nil {
				return err
			}
			if err := booking_event.SnapshotBooking(tx, &b, "payment_confirmed", params.RecordedBy); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// VoidPayment takes a recorded payment out of the ledger and reconciles
// invoice and booking state from the remaining recorded rows.
func (s *Service) VoidPayment(paymentID uint, voidedBy string) (*paymentModel.Payment, error) {
	var p paymentModel.Payment
	if err := s.db.First(&p, paymentID).Error; err != nil {
		return nil, err
	}
	if p.Status == paymentModel.StatusVoided {
		return &p, nil
	}

	unlock := utils.LedgerLocks.Lock(p.BookingID)
	defer unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, paymentID).Error; err != nil {
			return err
		}

		p.Status = paymentModel.StatusVoided
		if err := tx.Save(&p).Error; err != nil {
			return err
		}

		var inv invoiceModel.Invoice
		if err := tx.First(&inv, p.InvoiceID).Error; err != nil {
			return err
		}

		paid, err := recordedTotal(tx, inv.ID)
		if err != nil {
			return err
		}
		inv.Paid = paid
		inv.Due = utils.RoundMoney(inv.Total - paid)
		inv.Status = invoiceModel.StatusFor(inv.Total, paid)
		if err := tx.Save(&inv).Error; err != nil {
			return err
		}

		var b bookingModel.Booking
		if err := tx.First(&b, inv.BookingID).Error; err != nil {
			return err
		}
		wasConfirmed := b.PaymentStatus == bookingModel.PaymentStatusConfirmed
		b.PaymentStatus = bookingModel.PaymentStatusFor(inv.Total, paid)
		if wasConfirmed && b.PaymentStatus != bookingModel.PaymentStatusConfirmed {
			b.PaymentMethod = nil
			b.PaymentReference = nil
		}
		if err := tx.Save(&b).Error; err != nil {
			return err
		}
		return booking_event.SnapshotBooking(tx, &b, "payment_voided", voidedBy)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByInvoice returns the full ledger for an invoice, voided rows included.
func (s *Service) ListByInvoice(invoiceID uint) ([]paymentModel.Payment, error) {
	var payments []paymentModel.Payment
	err := s.db.Where("invoice_id = ?", invoiceID).Order("paid_at asc").Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// recordedTotal sums the non-voided ledger rows for an invoice.
func recordedTotal(tx *gorm.DB, invoiceID uint) (float64, error) {
	var total float64
	err := tx.Model(&paymentModel.Payment{}).
		Where("invoice_id = ? AND status = ?", invoiceID, paymentModel.StatusRecorded).
		Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return utils.RoundMoney(total), nil
}
