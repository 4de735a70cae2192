package booking

import (
	"fmt"

	"hotel-booking/types"
	"hotel-booking/utils"
)

// AddOnRequest is one selected service line. Kind must be one of the closed
// add-on categories; free-form payloads are rejected at this boundary.
type AddOnRequest struct {
	Kind      string  `json:"kind" validate:"required,oneof=meal activity spa"`
	ServiceID uint    `json:"service_id" validate:"required"`
	Title     string  `json:"title" validate:"required,max=255"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
}

type BookingCreateRequest struct {
	GuestName  string         `json:"guest_name" validate:"required,min=1,max=255"`
	GuestEmail string         `json:"guest_email" validate:"omitempty,email"`
	GuestPhone string         `json:"guest_phone" validate:"omitempty,max=20"`
	CheckIn    string         `json:"check_in" validate:"required"`
	CheckOut   string         `json:"check_out" validate:"required"`
	Guests     int            `json:"guests" validate:"required,gt=0"`
	RoomTypeID *uint          `json:"room_type_id"`
	AddOns     []AddOnRequest `json:"add_ons" validate:"dive"`
	Notes      string         `json:"notes"`
}

func (r BookingCreateRequest) Validate() error {
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

type AssignUnitRequest struct {
	RoomUnitID uint `json:"room_unit_id" validate:"required"`
}

func (r AssignUnitRequest) Validate() error {
	return types.Validate.Struct(r)
}

type ChangeRoomTypeRequest struct {
	RoomTypeID uint `json:"room_type_id" validate:"required"`
}

func (r ChangeRoomTypeRequest) Validate() error {
	return types.Validate.Struct(r)
}

type ExtendStayRequest struct {
	NewCheckOut string `json:"new_check_out" validate:"required"`
}

func (r ExtendStayRequest) Validate() error {
	if err := types.Validate.Struct(r); err != nil {
		return err
	}
	if _, err := utils.ParseDate(r.NewCheckOut); err != nil {
		return err
	}
	return nil
}

type AddAddOnRequest struct {
	AddOnRequest
}

func (r AddAddOnRequest) Validate() error {
	return types.Validate.Struct(r.AddOnRequest)
}

type BookingListRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
	From   string `query:"from"`
	To     string `query:"to"`
}

func (r BookingListRequest) Validate() error {
	return types.Validate.Struct(r)
}
