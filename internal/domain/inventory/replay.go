package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CostEvent movimiento del libro para un producto: entrada (compra) o salida (venta).
type CostEvent struct {
	At        time.Time // fecha de la transacción
	CreatedAt time.Time // desempate entre transacciones del mismo instante
	Seq       int       // orden de la línea dentro de la transacción
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Inbound   bool
}

// SortCostEvents ordena por fecha, luego por creación y por línea.
func SortCostEvents(events []CostEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.At.Equal(b.At) {
			return a.At.Before(b.At)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.Seq < b.Seq
	})
}

// ReplayValuation recorre los eventos en orden cronológico con las mismas reglas que el
// procesador y devuelve stock, valor y costo promedio resultantes. Las salidas no alteran
// el promedio; si el historial deja el stock por debajo de cero se trunca en cero.
func ReplayValuation(events []CostEvent) (stock, value, avg decimal.Decimal) {
	ordered := append([]CostEvent(nil), events...)
	SortCostEvents(ordered)

	stock, value, avg = decimal.Zero, decimal.Zero, decimal.Zero
	for _, ev := range ordered {
		if ev.Inbound {
			stock = stock.Add(ev.Quantity)
			value = AddEntry(value, ev.Quantity, ev.UnitPrice)
			avg = Average(value, stock)
			continue
		}
		stock = FloorZero(stock.Sub(ev.Quantity))
		value = avg.Mul(stock)
	}
	return stock, value, avg
}

// ReplaySales total vendido y monto Σ(q*p) de las salidas.
func ReplaySales(events []CostEvent) (sold, amount decimal.Decimal) {
	sold, amount = decimal.Zero, decimal.Zero
	for _, ev := range events {
		if ev.Inbound {
			continue
		}
		sold = sold.Add(ev.Quantity)
		amount = AddEntry(amount, ev.Quantity, ev.UnitPrice)
	}
	return sold, amount
}
