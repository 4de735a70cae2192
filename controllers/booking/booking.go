package booking

import (
	"fmt"
	"time"

	"hotel-booking/errs"
	"hotel-booking/logger"
	"hotel-booking/middleware"
	bookingModel "hotel-booking/models/booking"
	bookingService "hotel-booking/services/booking"
	"hotel-booking/types"
	bookingTypes "hotel-booking/types/booking"
	"hotel-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BookingController handles booking-related HTTP requests
type BookingController struct {
	DB      *gorm.DB
	Logger  *logger.AsyncLogger
	Service *bookingService.Service
}

// NewBookingController creates a new booking controller
func NewBookingController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *BookingController {
	return &BookingController{
		DB:      db,
		Logger:  asyncLogger,
		Service: bookingService.NewService(db),
	}
}

func (bc *BookingController) respondError(c *fiber.Ctx, err error) error {
	status := errs.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		logger.Error("Booking operation failed", err)
	}
	return c.Status(status).JSON(types.ApiResponse{
		Status:  status,
		Message: err.Error(),
	})
}

func (bc *BookingController) logMutation(c *fiber.Ctx, status int) {
	bc.Logger.Log(types.LogEntry{
		Method:     c.Method(),
		URL:        c.OriginalURL(),
		StatusCode: status,
		Operator:   middleware.OperatorName(c),
		CreatedAt:  time.Now(),
	})
}

// Store creates a new booking from the client's draft.
func (bc *BookingController) Store(c *fiber.Ctx) error {
	var req bookingTypes.BookingCreateRequest
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

	checkIn, _ := utils.ParseDate(req.CheckIn)
	checkOut, _ := utils.ParseDate(req.CheckOut)

	params := bookingService.CreateParams{
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		GuestPhone: req.GuestPhone,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     req.Guests,
		RoomTypeID: req.RoomTypeID,
		Notes:      req.Notes,
		CreatedBy:  middleware.OperatorName(c),
	}
	for _, a := range req.AddOns {
		params.AddOns = append(params.AddOns, bookingService.AddOnParams{
			Kind:      bookingModel.AddOnKind(a.Kind),
			ServiceID: a.ServiceID,
			Title:     a.Title,
			UnitPrice: a.UnitPrice,
			Quantity:  a.Quantity,
		})
	}

	b, err := bc.Service.Create(params)
	if err != nil {
		return bc.respondError(c, err)
	}

	logger.Success(fmt.Sprintf("Booking created successfully with code: %s", b.Code))
	bc.logMutation(c, fiber.StatusCreated)
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Booking created successfully",
		Data:    b,
	})
}

// Show returns one booking with relations.
func (bc *BookingController) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
		})
	}

	b, err := bc.Service.Get(uint(id))
	if err != nil {
		return bc.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking retrieved successfully",
		Data:    b,
	})
}

// Summary is the read the marketing site consumes: totals and statuses by
// booking code, nothing an anonymous guest should not see.
func (bc *BookingController) Summary(c *fiber.Ctx) error {
	code := c.Params("code")
	b, err := bc.Service.GetByCode(code)
	if err != nil {
		return bc.respondError(c, err)
	}

	assigned := b.RoomUnitID != nil
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking summary retrieved successfully",
		Data: fiber.Map{
			"code":           b.Code,
			"check_in":       b.CheckIn,
			"check_out":      b.CheckOut,
			"total_amount":   b.TotalAmount,
			"status":         b.Status,
			"payment_status": b.PaymentStatus,
			"unit_assigned":  assigned,
		},
	})
}

// Index lists bookings for the admin screens.
func (bc *BookingController) Index(c *fiber.Ctx) error {
	var req bookingTypes.BookingListRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid query parameters",
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	filter := bookingService.ListFilter{Status: bookingModel.BookingStatus(req.Status)}
	if req.From != "" {
		from, err := utils.ParseDate(req.From)
		if err != nil {
			return bc.respondError(c, err)
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := utils.ParseDate(req.To)
		if err != nil {
			return bc.respondError(c, err)
		}
		filter.To = &to
	}

	bookings, err := bc.Service.List(filter)
	if err != nil {
		return bc.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Bookings retrieved successfully",
		Data:    bookings,
	})
}

// AutoAssign picks a free unit for the booking.
func (bc *BookingController) AutoAssign(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
		})
	}

	b, err := bc.Service.AutoAssign(uint(id), middleware.OperatorName(c))
	if err != nil {
		return bc.respondError(c, err)
	}

	logger.Success(fmt.Sprintf("Booking %s assigned to unit %d", b.Code, *b.RoomUnitID))
	bc.logMutation(c, fiber.StatusOK)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Unit assigned successfully",
		Data:    b,
	})
}

// ManualAssign applies an operator-chosen unit.
func (bc *BookingController) ManualAssign(c *fiber.Ctx) error {
	return bc.assignFromRequest(c, bc.Service.ManualAssign, "Unit assigned successfully")
}

// ChangeUnit moves the booking to a different unit over its existing dates.
func (bc *BookingController) ChangeUnit(c *fiber.Ctx) error {
	return bc.assignFromRequest(c, bc.Service.ChangeUnit, "Unit changed successfully")
}

func (bc *BookingController) assignFromRequest(
	c *fiber.Ctx,
	op func(bookingID, unitID uint, updatedBy string) (*bookingModel.Booking, error),
	successMessage string,
) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
		})
	}

	var req bookingTypes.AssignUnitRequest
	if err := c.BodyParser(&req); err != nil {
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

	b, err := op(uint(id), req.RoomUnitID, middleware.OperatorName(c))
	if err != nil {
		return bc.respondError(c, err)
	}

	bc.logMutation(c, fiber.StatusOK)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: successMessage,
		Data:    b,
	})
}

// ChangeRoomType switches the booking's category and clears its unit.
func (bc *BookingController) ChangeRoomType(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
		})
	}

	var req bookingTypes.ChangeRoomTypeRequest
	if err := c.BodyParser(&req); err != nil {
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

	b, err := bc.Service.ChangeRoomType(uint(id), req.RoomTypeID, middleware.OperatorName(c))
	if err != nil {
		return bc.respondError(c, err)
	}

	bc.logMutation(c, fiber.StatusOK)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Room type changed; unit assignment cleared",
		Data:    b,
	})
}

// ExtendStay pushes the check-out date and re-prices the stay.
func (bc *BookingController) ExtendStay(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
		})
	}

	var req bookingTypes.ExtendStayRequest
	if err := c.BodyParser(&req); err != nil {
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

	newCheckOut, _ := utils.ParseDate(req.NewCheckOut)
	b, err := bc.Service.ExtendStay(uint(id), newCheckOut, middleware.OperatorName(c))
	if err != nil {
		return bc.respondError(c, err)
	}

	logger.Success(fmt.Sprintf("Booking %s extended to %s", b.Code, b.CheckOut.Format("2006-01-02")))
	bc.logMutation(c, fiber.StatusOK)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Stay extended; payment must be reconciled again",
		Data:    b,
	})
}

// AddAddOn appends a meal/activity/spa line to the booking.
func (bc *BookingController) AddAddOn(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
		})
	}

	var req bookingTypes.AddAddOnRequest
	if err := c.BodyParser(&req); err != nil {
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

	b, err := bc.Service.AddAddOn(uint(id), bookingService.AddOnParams{
		Kind:      bookingModel.AddOnKind(req.Kind),
		ServiceID: req.ServiceID,
		Title:     req.Title,
		UnitPrice: req.UnitPrice,
		Quantity:  req.Quantity,
	}, middleware.OperatorName(c))
	if err != nil {
		return bc.respondError(c, err)
	}

	bc.logMutation(c, fiber.StatusOK)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Add-on added successfully",
		Data:    b,
	})
}

// Cancel transitions the booking to cancelled; the record remains.
func (bc *BookingController) Cancel(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
		})
	}

	b, err := bc.Service.Cancel(uint(id), middleware.OperatorName(c))
	if err != nil {
		return bc.respondError(c, err)
	}

	logger.Success(fmt.Sprintf("Booking %s cancelled", b.Code))
	bc.logMutation(c, fiber.StatusOK)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking cancelled successfully",
		Data:    b,
	})
}
