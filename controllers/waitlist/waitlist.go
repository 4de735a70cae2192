package waitlist

import (
	"fmt"
	"time"

	"hotel-booking/errs"
	"hotel-booking/logger"
	waitlistService "hotel-booking/services/waitlist"
	"hotel-booking/types"
	waitlistTypes "hotel-booking/types/waitlist"
	"hotel-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// WaitlistController records unfulfilled guest intent and runs the expiry sweep.
type WaitlistController struct {
	DB      *gorm.DB
	Logger  *logger.AsyncLogger
	Service *waitlistService.Service
}

func NewWaitlistController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *WaitlistController {
	return &WaitlistController{
		DB:      db,
		Logger:  asyncLogger,
		Service: waitlistService.NewService(db),
	}
}

// Add records a waitlist entry for dates that could not be confirmed.
func (wc *WaitlistController) Add(c *fiber.Ctx) error {
	var req waitlistTypes.WaitlistAddRequest
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
	expiresAt, err := utils.ParseDate(req.ExpiresAt)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	entry, err := wc.Service.Add(waitlistService.AddParams{
		GuestName:     req.GuestName,
		GuestEmail:    req.GuestEmail,
		GuestPhone:    req.GuestPhone,
		RoomTypeID:    req.RoomTypeID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		FlexibleDates: req.FlexibleDates,
		Priority:      req.Priority,
		ExpiresAt:     expiresAt,
		NotifyByEmail: req.NotifyByEmail,
		NotifyBySMS:   req.NotifyBySMS,
	})
	if err != nil {
		status := errs.HTTPStatus(err)
		return c.Status(status).JSON(types.ApiResponse{
			Status:  status,
			Message: err.Error(),
		})
	}

	logger.Success(fmt.Sprintf("Waitlist entry created for %s (room type %d)", entry.GuestName, entry.RoomTypeID))
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Waitlist entry created successfully",
		Data:    entry,
	})
}

// Candidates lists unexpired waiting entries for a room type.
func (wc *WaitlistController) Candidates(c *fiber.Ctx) error {
	roomTypeID, err := c.ParamsInt("roomTypeID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid room type id",
		})
	}

	entries, err := wc.Service.ListCandidates(uint(roomTypeID))
	if err != nil {
		logger.Error("Failed to list waitlist candidates", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Waitlist candidates retrieved successfully",
		Data:    entries,
	})
}

// ExpireSweep expires overdue entries. Invoked by the scheduled job.
func (wc *WaitlistController) ExpireSweep(c *fiber.Ctx) error {
	count, err := wc.Service.ExpireSweep(time.Now())
	if err != nil {
		logger.Error("Waitlist expiry sweep failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Sweep failed",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: fmt.Sprintf("Expired %d waitlist entries", count),
		Data:    fiber.Map{"expired": count},
	})
}
