package dto

import "github.com/shopspring/decimal"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details *ErrorDetails `json:"details,omitempty"`
}

// ErrorDetails contexto para que el cliente pueda actuar (producto afectado, disponible, campo).
type ErrorDetails struct {
	Field       string           `json:"field,omitempty"`
	Resource    string           `json:"resource,omitempty"`
	ID          string           `json:"id,omitempty"`
	ProductID   string           `json:"product_id,omitempty"`
	ProductName string           `json:"product_name,omitempty"`
	Available   *decimal.Decimal `json:"available,omitempty"`
	Requested   *decimal.Decimal `json:"requested,omitempty"`
}

// OtherExpenseDTO gasto adicional de una compra o venta.
type OtherExpenseDTO struct {
	Name   string          `json:"name" validate:"required,min=1,max=200"`
	Amount decimal.Decimal `json:"amount"`
}

// ListResponse envoltorio de listados.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
