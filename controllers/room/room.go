package room

import (
	"errors"
	"fmt"

	"hotel-booking/errs"
	"hotel-booking/logger"
	roomModel "hotel-booking/models/room"
	"hotel-booking/services/availability"
	"hotel-booking/types"
	roomTypes "hotel-booking/types/room"
	"hotel-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RoomController handles inventory CRUD and availability queries.
type RoomController struct {
	DB           *gorm.DB
	Logger       *logger.AsyncLogger
	Availability *availability.Service
}

func NewRoomController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *RoomController {
	return &RoomController{
		DB:           db,
		Logger:       asyncLogger,
		Availability: availability.NewService(db),
	}
}

// CreateRoomType creates a bookable room category.
func (rc *RoomController) CreateRoomType(c *fiber.Ctx) error {
	var req roomTypes.RoomTypeCreateRequest
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

	rt := roomModel.RoomType{
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		Capacity:    req.Capacity,
		Published:   req.Published,
	}
	if err := rc.DB.Create(&rt).Error; err != nil {
		logger.Error("Failed to create room type", err)
		return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Room type already exists or data is invalid",
		})
	}

	logger.Success(fmt.Sprintf("Room type created: %s (id %d)", rt.Name, rt.ID))
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Room type created successfully",
		Data:    rt,
	})
}

// UpdateRoomType applies price/description edits. Existing bookings keep
// the totals they were created with.
func (rc *RoomController) UpdateRoomType(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid room type id",
		})
	}

	var req roomTypes.RoomTypeUpdateRequest
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

	var rt roomModel.RoomType
	if err := rc.DB.First(&rt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Room type not found",
			})
		}
		logger.Error("Failed to find room type", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	if req.Description != nil {
		rt.Description = *req.Description
	}
	if req.BasePrice != nil {
		rt.BasePrice = *req.BasePrice
	}
	if req.Published != nil {
		rt.Published = *req.Published
	}

	if err := rc.DB.Save(&rt).Error; err != nil {
		logger.Error("Failed to update room type", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update room type",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Room type updated successfully",
		Data:    rt,
	})
}

// ListRoomTypes returns all room types with their units.
func (rc *RoomController) ListRoomTypes(c *fiber.Ctx) error {
	var roomTypesList []roomModel.RoomType
	if err := rc.DB.Preload("Units").Order("name asc").Find(&roomTypesList).Error; err != nil {
		logger.Error("Failed to list room types", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Room types retrieved successfully",
		Data:    roomTypesList,
	})
}

// CreateRoomUnit adds a physical room to a type.
func (rc *RoomController) CreateRoomUnit(c *fiber.Ctx) error {
	var req roomTypes.RoomUnitCreateRequest
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

	var rt roomModel.RoomType
	if err := rc.DB.First(&rt, req.RoomTypeID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Room type not found",
		})
	}

	status := roomModel.UnitStatus(req.Status)
	if req.Status == "" {
		status = roomModel.UnitStatusActive
	}

	unit := roomModel.RoomUnit{
		RoomTypeID:           req.RoomTypeID,
		UnitNumber:           req.UnitNumber,
		Status:               status,
		MaxOccupancyOverride: req.MaxOccupancyOverride,
	}
	if err := rc.DB.Create(&unit).Error; err != nil {
		logger.Error("Failed to create room unit", err)
		return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Unit number already exists or data is invalid",
		})
	}

	logger.Success(fmt.Sprintf("Room unit created: %s (type %s)", unit.UnitNumber, rt.Name))
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Room unit created successfully",
		Data:    unit,
	})
}

// SetRoomUnitStatus moves a unit between active/maintenance/inactive.
func (rc *RoomController) SetRoomUnitStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid room unit id",
		})
	}

	var req roomTypes.RoomUnitStatusRequest
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

	var unit roomModel.RoomUnit
	if err := rc.DB.First(&unit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Room unit not found",
			})
		}
		logger.Error("Failed to find room unit", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	unit.Status = roomModel.UnitStatus(req.Status)
	if err := rc.DB.Save(&unit).Error; err != nil {
		logger.Error("Failed to update room unit status", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update room unit",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Room unit status updated successfully",
		Data:    unit,
	})
}

// GetAvailability answers the booking UI's availability query.
func (rc *RoomController) GetAvailability(c *fiber.Ctx) error {
	var req roomTypes.AvailabilityRequest
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

	checkIn, _ := utils.ParseDate(req.CheckIn)
	checkOut, _ := utils.ParseDate(req.CheckOut)

	result, err := rc.Availability.GetAvailableUnits(req.RoomTypeID,
		utils.NormalizeDate(checkIn), utils.NormalizeDate(checkOut))
	if err != nil {
		logger.Error("Availability query failed", err)
		return c.Status(errs.HTTPStatus(err)).JSON(types.ApiResponse{
			Status:  errs.HTTPStatus(err),
			Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Availability retrieved successfully",
		Data:    result,
	})
}
