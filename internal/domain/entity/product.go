package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// Product es la ficha de valoración de un artículo.
// CurrentStock nunca es negativo. InventoryValue y SalesAmount son sumas exactas;
// los promedios se derivan de ellas y solo los recalcula el procesador de transacciones.
type Product struct {
	ID                  string
	Name                string
	Unit                string // kg, unidad, litro...
	CurrentStock        decimal.Decimal
	InventoryValue      decimal.Decimal // valor de las existencias al costo promedio
	AveragePurchaseCost decimal.Decimal
	TotalSold           decimal.Decimal
	SalesAmount         decimal.Decimal // Σ cantidad * precio de venta
	AverageSalePrice    decimal.Decimal
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewProduct crea un producto sin existencias.
func NewProduct(id, name, unit string, now time.Time) *Product {
	return &Product{
		ID:                  id,
		Name:                name,
		Unit:                unit,
		CurrentStock:        decimal.Zero,
		InventoryValue:      decimal.Zero,
		AveragePurchaseCost: decimal.Zero,
		TotalSold:           decimal.Zero,
		SalesAmount:         decimal.Zero,
		AverageSalePrice:    decimal.Zero,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// HasStock indica si quedan existencias (bloquea el borrado).
func (p *Product) HasStock() bool {
	return p.CurrentStock.GreaterThan(decimal.Zero)
}

// ReceivePurchase suma una línea de compra al stock y al valor, y recalcula el costo promedio.
func (p *Product) ReceivePurchase(qty, price decimal.Decimal) {
	p.CurrentStock = p.CurrentStock.Add(qty)
	p.InventoryValue = inventory.AddEntry(p.InventoryValue, qty, price)
	p.AveragePurchaseCost = inventory.Average(p.InventoryValue, p.CurrentStock)
}

// Sell descuenta stock al costo promedio vigente, que no cambia, y acumula lo vendido.
func (p *Product) Sell(qty, price decimal.Decimal) {
	p.CurrentStock = p.CurrentStock.Sub(qty)
	p.InventoryValue = p.AveragePurchaseCost.Mul(p.CurrentStock)
	p.SetSales(p.TotalSold.Add(qty), inventory.AddEntry(p.SalesAmount, qty, price))
}

// ReturnStock devuelve unidades al costo promedio vigente.
func (p *Product) ReturnStock(qty decimal.Decimal) {
	p.CurrentStock = p.CurrentStock.Add(qty)
	p.InventoryValue = p.AveragePurchaseCost.Mul(p.CurrentStock)
}

// SetValuation fija stock y valor; el costo promedio se deriva.
func (p *Product) SetValuation(stock, value decimal.Decimal) {
	p.CurrentStock = stock
	p.InventoryValue = inventory.FloorZero(value)
	if !stock.IsPositive() {
		p.InventoryValue = decimal.Zero
	}
	p.AveragePurchaseCost = inventory.Average(p.InventoryValue, p.CurrentStock)
}

// SetSales fija total vendido y monto; el precio promedio de venta se deriva.
func (p *Product) SetSales(sold, amount decimal.Decimal) {
	p.TotalSold = inventory.FloorZero(sold)
	p.SalesAmount = inventory.FloorZero(amount)
	if !p.TotalSold.IsPositive() {
		p.SalesAmount = decimal.Zero
	}
	p.AverageSalePrice = inventory.Average(p.SalesAmount, p.TotalSold)
}

// Clone copia el producto; decimal es inmutable, basta con copiar el struct.
func (p *Product) Clone() *Product {
	c := *p
	return &c
}
