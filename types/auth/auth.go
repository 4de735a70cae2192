package auth

import (
	"hotel-booking/types"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=255"`
	Password string `json:"password" validate:"required,min=6"`
}

func (r LoginRequest) Validate() error {
	return types.Validate.Struct(r)
}

type RegisterRequest struct {
	Username    string   `json:"username" validate:"required,min=1,max=255"`
	LegalName   string   `json:"legal_name" validate:"required,min=1,max=255"`
	Email       string   `json:"email" validate:"omitempty,email"`
	Password    string   `json:"password" validate:"required,min=6"`
	Permissions []string `json:"permissions" validate:"required,min=1"`
}

func (r RegisterRequest) Validate() error {
	return types.Validate.Struct(r)
}
