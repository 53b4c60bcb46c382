package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Stock y promedios inician en 0.
type CreateProductRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
	Unit string `json:"unit" validate:"required,min=1,max=50"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock ni promedios).
type UpdateProductRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=200"`
	Unit *string `json:"unit" validate:"omitempty,min=1,max=50"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Unit                string          `json:"unit"`
	CurrentStock        decimal.Decimal `json:"current_stock"`
	AveragePurchaseCost decimal.Decimal `json:"average_purchase_cost"`
	TotalSold           decimal.Decimal `json:"total_sold"`
	AverageSalePrice    decimal.Decimal `json:"average_sale_price"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ProductListResponse listado de productos (más recientes primero).
type ProductListResponse = ListResponse[ProductResponse]
