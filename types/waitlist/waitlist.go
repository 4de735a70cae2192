package waitlist

import (
	"fmt"

	"hotel-booking/types"
	"hotel-booking/utils"
)

type WaitlistAddRequest struct {
	GuestName     string `json:"guest_name" validate:"required,min=1,max=255"`
	GuestEmail    string `json:"guest_email" validate:"omitempty,email"`
	GuestPhone    string `json:"guest_phone" validate:"omitempty,max=20"`
	RoomTypeID    uint   `json:"room_type_id" validate:"required"`
	CheckIn       string `json:"check_in" validate:"required"`
	CheckOut      string `json:"check_out" validate:"required"`
	FlexibleDates bool   `json:"flexible_dates"`
	Priority      int    `json:"priority" validate:"gte=0"`
	ExpiresAt     string `json:"expires_at" validate:"required"`
	NotifyByEmail bool   `json:"notify_by_email"`
	NotifyBySMS   bool   `json:"notify_by_sms"`
}

func (r WaitlistAddRequest) Validate() error {
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
