package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLine línea de venta. PurchasePriceAtSale es el costo promedio del producto
// justo antes de aplicar la línea; sobre él se calcula el costo de ventas.
type SaleLine struct {
	ProductID           string
	ProductName         string
	Quantity            decimal.Decimal
	Unit                string
	SalePrice           decimal.Decimal
	PurchasePriceAtSale decimal.Decimal
	LineTotal           decimal.Decimal
}

// COGS costo de ventas de la línea.
func (l SaleLine) COGS() decimal.Decimal {
	return l.Quantity.Mul(l.PurchasePriceAtSale)
}

// SaleTransaction venta a cliente; al confirmarse descuenta stock.
type SaleTransaction struct {
	ID                 string
	SaleDate           time.Time
	Lines              []SaleLine
	OtherExpenses      []OtherExpense
	TotalProductAmount decimal.Decimal
	TotalOtherExpenses decimal.Decimal
	TotalSaleAmount    decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ComputeTotals recalcula totales de línea y de cabecera.
func (t *SaleTransaction) ComputeTotals() {
	productAmount := decimal.Zero
	for i := range t.Lines {
		t.Lines[i].LineTotal = t.Lines[i].Quantity.Mul(t.Lines[i].SalePrice)
		productAmount = productAmount.Add(t.Lines[i].LineTotal)
	}
	t.TotalProductAmount = productAmount
	t.TotalOtherExpenses = SumExpenses(t.OtherExpenses)
	t.TotalSaleAmount = productAmount.Add(t.TotalOtherExpenses)
}

// HasProduct indica si alguna línea referencia el producto.
func (t *SaleTransaction) HasProduct(productID string) bool {
	for _, l := range t.Lines {
		if l.ProductID == productID {
			return true
		}
	}
	return false
}

// Clone copia profunda.
func (t *SaleTransaction) Clone() *SaleTransaction {
	c := *t
	c.Lines = append([]SaleLine(nil), t.Lines...)
	c.OtherExpenses = append([]OtherExpense(nil), t.OtherExpenses...)
	return &c
}
