package payment

import (
	"fmt"
	"time"

	"hotel-booking/errs"
	"hotel-booking/logger"
	"hotel-booking/middleware"
	paymentModel "hotel-booking/models/payment"
	invoiceService "hotel-booking/services/invoice"
	paymentService "hotel-booking/services/payment"
	"hotel-booking/types"
	paymentTypes "hotel-booking/types/payment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PaymentController records and voids ledger rows and receives the
// payment-gateway success callback.
type PaymentController struct {
	DB       *gorm.DB
	Logger   *logger.AsyncLogger
	Payments *paymentService.Service
	Invoices *invoiceService.Service
}

// NewPaymentController wires the shared payment and invoice services; the
// same instances serve the invoice controller.
func NewPaymentController(db *gorm.DB, asyncLogger *logger.AsyncLogger, payments *paymentService.Service, invoices *invoiceService.Service) *PaymentController {
	return &PaymentController{
		DB:       db,
		Logger:   asyncLogger,
		Payments: payments,
		Invoices: invoices,
	}
}

func (pc *PaymentController) respondError(c *fiber.Ctx, err error) error {
	status := errs.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		logger.Error("Payment operation failed", err)
	}
	return c.Status(status).JSON(types.ApiResponse{
		Status:  status,
		Message: err.Error(),
	})
}

func (pc *PaymentController) logMutation(c *fiber.Ctx, status int) {
	pc.Logger.Log(types.LogEntry{
		Method:     c.Method(),
		URL:        c.OriginalURL(),
		StatusCode: status,
		Operator:   middleware.OperatorName(c),
		CreatedAt:  time.Now(),
	})
}

// Record books a payment against an invoice. Validation failures carry the
// attempted amount and the outstanding due so the operator UI can explain
// the rejection.
func (pc *PaymentController) Record(c *fiber.Ctx) error {
	invoiceID, err := c.ParamsInt("invoiceID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid invoice id",
		})
	}

	var req paymentTypes.RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	p, err := pc.Payments.RecordPayment(uint(invoiceID), paymentService.RecordParams{
		Amount:     req.Amount,
		Method:     paymentModel.Method(req.Method),
		Reference:  req.Reference,
		RecordedBy: middleware.OperatorName(c),
		Notes:      req.Notes,
	})
	if err != nil {
		return pc.respondError(c, err)
	}

	logger.Success(fmt.Sprintf("Payment of %.2f recorded against invoice %d (ref %s)", p.Amount, p.InvoiceID, p.Reference))
	pc.logMutation(c, fiber.StatusCreated)
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Payment recorded successfully",
		Data:    p,
	})
}

// Void takes a recorded payment out of the ledger.
func (pc *PaymentController) Void(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid payment id",
		})
	}

	p, err := pc.Payments.VoidPayment(uint(id), middleware.OperatorName(c))
	if err != nil {
		return pc.respondError(c, err)
	}

	logger.Success(fmt.Sprintf("Payment %d voided", p.ID))
	pc.logMutation(c, fiber.StatusOK)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Payment voided successfully",
		Data:    p,
	})
}

// GatewayCallback is invoked by the external payment gateway on success.
// The gateway is opaque: it hands back an amount and a transaction id, and
// this endpoint records them as a gateway payment against the booking's
// invoice (creating the invoice lazily if this is the first payment
// interaction).
func (pc *PaymentController) GatewayCallback(c *fiber.Ctx) error {
	var req paymentTypes.GatewayCallbackRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse gateway callback", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid callback body",
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	inv, err := pc.Invoices.GetOrCreateInvoice(req.BookingID)
	if err != nil {
		return pc.respondError(c, err)
	}

	p, err := pc.Payments.RecordPayment(inv.ID, paymentService.RecordParams{
		Amount:     req.Amount,
		Method:     paymentModel.MethodGateway,
		Reference:  req.TransactionID,
		RecordedBy: "gateway",
	})
	if err != nil {
		return pc.respondError(c, err)
	}

	logger.Success(fmt.Sprintf("Gateway payment %s recorded for booking %d", p.Reference, req.BookingID))
	pc.logMutation(c, fiber.StatusCreated)
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Gateway payment recorded successfully",
		Data:    p,
	})
}

// Index lists the ledger for an invoice, voided rows included.
func (pc *PaymentController) Index(c *fiber.Ctx) error {
	invoiceID, err := c.ParamsInt("invoiceID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid invoice id",
		})
	}

	payments, err := pc.Payments.ListByInvoice(uint(invoiceID))
	if err != nil {
		return pc.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Payments retrieved successfully",
		Data:    payments,
	})
}
