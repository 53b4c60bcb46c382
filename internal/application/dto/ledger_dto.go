package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLineRequest línea de compra.
type PurchaseLineRequest struct {
	ProductID     string          `json:"product_id" validate:"required"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

// CreatePurchaseRequest entrada para registrar una compra. Se admiten cero líneas.
type CreatePurchaseRequest struct {
	PurchaseDate  time.Time             `json:"purchase_date" validate:"required"`
	Lines         []PurchaseLineRequest `json:"lines" validate:"dive"`
	OtherExpenses []OtherExpenseDTO     `json:"other_expenses" validate:"dive"`
}

// PurchaseLineResponse línea de compra con el producto resuelto.
type PurchaseLineResponse struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Unit          string          `json:"unit"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	LineTotal     decimal.Decimal `json:"line_total"`
	// Product nombre/unidad actuales; nil si el producto ya no existe.
	Product *ProductRef `json:"product,omitempty"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID                  string                 `json:"id"`
	PurchaseDate        time.Time              `json:"purchase_date"`
	Lines               []PurchaseLineResponse `json:"lines"`
	OtherExpenses       []OtherExpenseDTO      `json:"other_expenses"`
	TotalProductCost    decimal.Decimal        `json:"total_product_cost"`
	TotalOtherExpenses  decimal.Decimal        `json:"total_other_expenses"`
	TotalPurchaseAmount decimal.Decimal        `json:"total_purchase_amount"`
	CreatedAt           time.Time              `json:"created_at"`
}

// SaleLineRequest línea de venta.
type SaleLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

// CreateSaleRequest entrada para registrar una venta.
type CreateSaleRequest struct {
	SaleDate      time.Time         `json:"sale_date" validate:"required"`
	Lines         []SaleLineRequest `json:"lines" validate:"dive"`
	OtherExpenses []OtherExpenseDTO `json:"other_expenses" validate:"dive"`
}

// SaleLineResponse línea de venta con el producto resuelto.
type SaleLineResponse struct {
	ProductID           string          `json:"product_id"`
	ProductName         string          `json:"product_name"`
	Unit                string          `json:"unit"`
	Quantity            decimal.Decimal `json:"quantity"`
	SalePrice           decimal.Decimal `json:"sale_price"`
	PurchasePriceAtSale decimal.Decimal `json:"purchase_price_at_sale"`
	LineTotal           decimal.Decimal `json:"line_total"`
	Product             *ProductRef     `json:"product,omitempty"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID                 string             `json:"id"`
	SaleDate           time.Time          `json:"sale_date"`
	Lines              []SaleLineResponse `json:"lines"`
	OtherExpenses      []OtherExpenseDTO  `json:"other_expenses"`
	TotalProductAmount decimal.Decimal    `json:"total_product_amount"`
	TotalOtherExpenses decimal.Decimal    `json:"total_other_expenses"`
	TotalSaleAmount    decimal.Decimal    `json:"total_sale_amount"`
	CreatedAt          time.Time          `json:"created_at"`
}

// ProductRef referencia resuelta a un producto.
type ProductRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// TransactionListQuery filtros de listado de compras/ventas (fechas YYYY-MM-DD).
type TransactionListQuery struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
	ProductID string `query:"product_id"`
}
