package invoice

import (
	"fmt"

	"hotel-booking/errs"
	"hotel-booking/logger"
	invoiceService "hotel-booking/services/invoice"
	paymentService "hotel-booking/services/payment"
	"hotel-booking/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// InvoiceController exposes lazy invoice creation, detail reads and the
// explicit resync path for post-invoice booking edits.
type InvoiceController struct {
	DB       *gorm.DB
	Logger   *logger.AsyncLogger
	Invoices *invoiceService.Service
	Payments *paymentService.Service
}

// NewInvoiceController wires the shared invoice and payment services; the
// same instances serve the payment controller and the gateway callback.
func NewInvoiceController(db *gorm.DB, asyncLogger *logger.AsyncLogger, invoices *invoiceService.Service, payments *paymentService.Service) *InvoiceController {
	return &InvoiceController{
		DB:       db,
		Logger:   asyncLogger,
		Invoices: invoices,
		Payments: payments,
	}
}

func (ic *InvoiceController) respondError(c *fiber.Ctx, err error) error {
	status := errs.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		logger.Error("Invoice operation failed", err)
	}
	return c.Status(status).JSON(types.ApiResponse{
		Status:  status,
		Message: err.Error(),
	})
}

// GetOrCreate returns the booking's invoice, creating it on first request.
func (ic *InvoiceController) GetOrCreate(c *fiber.Ctx) error {
	bookingID, err := c.ParamsInt("bookingID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
		})
	}

	inv, err := ic.Invoices.GetOrCreateInvoice(uint(bookingID))
	if err != nil {
		return ic.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Invoice retrieved successfully",
		Data:    inv,
	})
}

// Resync regenerates line items and totals from the booking's current
// charges after a post-invoice edit. Recorded payments are preserved.
func (ic *InvoiceController) Resync(c *fiber.Ctx) error {
	bookingID, err := c.ParamsInt("bookingID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
		})
	}

	inv, err := ic.Invoices.Resync(uint(bookingID))
	if err != nil {
		return ic.respondError(c, err)
	}

	logger.Success(fmt.Sprintf("Invoice %s resynchronized, due %.2f", inv.Number, inv.Due))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Invoice resynchronized successfully",
		Data:    inv,
	})
}

// Show returns one invoice with its line items and payment ledger.
func (ic *InvoiceController) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid invoice id",
		})
	}

	inv, err := ic.Invoices.GetByID(uint(id))
	if err != nil {
		return ic.respondError(c, err)
	}

	payments, err := ic.Payments.ListByInvoice(inv.ID)
	if err != nil {
		return ic.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Invoice retrieved successfully",
		Data: fiber.Map{
			"invoice":  inv,
			"payments": payments,
		},
	})
}
