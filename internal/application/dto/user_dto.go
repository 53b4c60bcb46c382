package dto

import "time"

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	BusinessName      string    `json:"business_name"`
	Address           string    `json:"address"`
	Currency          string    `json:"currency"`
	ShopDescription   string    `json:"shop_description"`
	BusinessLogo      string    `json:"business_logo"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	Role              string    `json:"role"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UpdateProfileRequest campos editables del perfil; los nil no se tocan.
type UpdateProfileRequest struct {
	Name              *string `json:"name" validate:"omitempty,min=1,max=200"`
	Phone             *string `json:"phone" validate:"omitempty,max=50"`
	BusinessName      *string `json:"business_name" validate:"omitempty,max=200"`
	Address           *string `json:"address" validate:"omitempty,max=500"`
	Currency          *string `json:"currency" validate:"omitempty,max=10"`
	ShopDescription   *string `json:"shop_description" validate:"omitempty,max=2000"`
	BusinessLogo      *string `json:"business_logo" validate:"omitempty,max=2000"`
	LowStockThreshold *int    `json:"low_stock_threshold" validate:"omitempty,min=0"`
}
