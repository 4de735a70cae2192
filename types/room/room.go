package room

import (
	"fmt"

	"hotel-booking/types"
	"hotel-booking/utils"
)

type RoomTypeCreateRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"base_price" validate:"required,gt=0"`
	Capacity    int     `json:"capacity" validate:"required,gt=0"`
	Published   bool    `json:"published"`
}

func (r RoomTypeCreateRequest) Validate() error {
	return types.Validate.Struct(r)
}

// RoomTypeUpdateRequest covers price/description edits. These never rewrite
// existing bookings.
type RoomTypeUpdateRequest struct {
	Description *string  `json:"description"`
	BasePrice   *float64 `json:"base_price" validate:"omitempty,gt=0"`
	Published   *bool    `json:"published"`
}

func (r RoomTypeUpdateRequest) Validate() error {
	return types.Validate.Struct(r)
}

type RoomUnitCreateRequest struct {
	RoomTypeID           uint   `json:"room_type_id" validate:"required"`
	UnitNumber           string `json:"unit_number" validate:"required,min=1,max=20"`
	Status               string `json:"status" validate:"omitempty,oneof=active maintenance inactive"`
	MaxOccupancyOverride *int   `json:"max_occupancy_override" validate:"omitempty,gt=0"`
}

func (r RoomUnitCreateRequest) Validate() error {
	return types.Validate.Struct(r)
}

type RoomUnitStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active maintenance inactive"`
}

func (r RoomUnitStatusRequest) Validate() error {
	return types.Validate.Struct(r)
}

type AvailabilityRequest struct {
	RoomTypeID uint   `query:"room_type_id" validate:"required"`
	CheckIn    string `query:"check_in" validate:"required"`
	CheckOut   string `query:"check_out" validate:"required"`
}

func (r AvailabilityRequest) Validate() error {
	if err := types.Validate.Struct(r); err != nil {
		return err
	}
	in, err := utils.ParseDate(r.CheckIn)
	if err != nil {
		return err
	}
	out, err := utils.ParseDate(r.CheckOut)
	if err != nil {
		return err
	}
	if !in.Before(out) {
		return fmt.Errorf("check_in must be before check_out")
	}
	return nil
}
