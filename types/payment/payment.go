package payment

import (
	"hotel-booking/types"
)

type RecordPaymentRequest struct {
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Method    string  `json:"method" validate:"required,oneof=cash card upi net_banking gateway"`
	Reference string  `json:"reference" validate:"omitempty,max=255"`
	Notes     string  `json:"notes"`
}

func (r RecordPaymentRequest) Validate() error {
	return types.Validate.Struct(r)
}

// GatewayCallbackRequest is what the external payment gateway posts back on
// success: the booking it paid for, the cleared amount and its transaction id.
type GatewayCallbackRequest struct {
	BookingID     uint    `json:"booking_id" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	TransactionID string  `json:"transaction_id" validate:"required,max=255"`
}

func (r GatewayCallbackRequest) Validate() error {
	return types.Validate.Struct(r)
}
