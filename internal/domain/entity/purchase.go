package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OtherExpense gasto adicional de una transacción (flete, comisión...).
type OtherExpense struct {
	Name   string
	Amount decimal.Decimal
}

// PurchaseLine línea de compra. ProductName y Unit son la foto del producto al registrar.
type PurchaseLine struct {
	ProductID     string
	ProductName   string
	Quantity      decimal.Decimal
	Unit          string
	PurchasePrice decimal.Decimal
	LineTotal     decimal.Decimal
}

// PurchaseTransaction compra a proveedor; al confirmarse suma stock y recalcula costo promedio.
type PurchaseTransaction struct {
	ID                  string
	PurchaseDate        time.Time
	Lines               []PurchaseLine
	OtherExpenses       []OtherExpense
	TotalProductCost    decimal.Decimal
	TotalOtherExpenses  decimal.Decimal
	TotalPurchaseAmount decimal.Decimal
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ComputeTotals recalcula totales de línea y de cabecera.
func (t *PurchaseTransaction) ComputeTotals() {
	productCost := decimal.Zero
	for i := range t.Lines {
		t.Lines[i].LineTotal = t.Lines[i].Quantity.Mul(t.Lines[i].PurchasePrice)
		productCost = productCost.Add(t.Lines[i].LineTotal)
	}
	t.TotalProductCost = productCost
	t.TotalOtherExpenses = SumExpenses(t.OtherExpenses)
	t.TotalPurchaseAmount = productCost.Add(t.TotalOtherExpenses)
}

// HasProduct indica si alguna línea referencia el producto.
func (t *PurchaseTransaction) HasProduct(productID string) bool {
	for _, l := range t.Lines {
		if l.ProductID == productID {
			return true
		}
	}
	return false
}

// Clone copia profunda (las líneas son slices).
func (t *PurchaseTransaction) Clone() *PurchaseTransaction {
	c := *t
	c.Lines = append([]PurchaseLine(nil), t.Lines...)
	c.OtherExpenses = append([]OtherExpense(nil), t.OtherExpenses...)
	return &c
}

// SumExpenses suma los montos de gastos adicionales.
func SumExpenses(expenses []OtherExpense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}
