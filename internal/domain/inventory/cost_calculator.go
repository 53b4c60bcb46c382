package inventory

import "github.com/shopspring/decimal"

// CostScale decimales con los que se guardan los promedios.
const CostScale = 8

// Average promedio ponderado derivado del valor acumulado exacto (servicio de dominio).
// Promedio = Valor / Cantidad, redondeado a CostScale. El redondeo solo afecta al
// promedio publicado: el valor se guarda sin dividir y las reversiones restan sobre él.
// Sin cantidad o sin valor positivo devuelve cero.
func Average(value, qty decimal.Decimal) decimal.Decimal {
	if !qty.IsPositive() || !value.IsPositive() {
		return decimal.Zero
	}
	return value.Div(qty).Round(CostScale)
}

// AddEntry suma una entrada al valor: Valor + Cant * Precio.
func AddEntry(value, qty, price decimal.Decimal) decimal.Decimal {
	return value.Add(qty.Mul(price))
}

// RemoveEntry resta una entrada sumada antes con AddEntry. Con cantidad restante cero
// el valor es cero; si movimientos intermedios lo dejan negativo se trunca en cero.
func RemoveEntry(value, restQty, qty, price decimal.Decimal) decimal.Decimal {
	if !restQty.IsPositive() {
		return decimal.Zero
	}
	return FloorZero(value.Sub(qty.Mul(price)))
}

// FloorZero devuelve max(0, d).
func FloorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
