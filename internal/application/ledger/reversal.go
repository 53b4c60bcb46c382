package ledger

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ReversalScope repositorios de la transacción en curso, para estrategias que leen el historial.
type ReversalScope struct {
	Purchases repository.PurchaseRepository
	Sales     repository.SaleRepository
}

// CostReverser deshace una línea sobre la ficha del producto.
// El procesador ya validó que el stock resultante no es negativo.
type CostReverser interface {
	Name() string
	// RevertPurchase retira la línea de compra: stock, valor y costo promedio.
	// product trae el estado previo a la reversión y se modifica en sitio.
	RevertPurchase(ctx context.Context, scope ReversalScope, product *entity.Product,
		purchase *entity.PurchaseTransaction, line entity.PurchaseLine) error
	// RevertSale devuelve el stock vendido y retira la línea del total y monto vendidos.
	RevertSale(ctx context.Context, scope ReversalScope, product *entity.Product,
		sale *entity.SaleTransaction, line entity.SaleLine) error
}

var (
	_ CostReverser = BackComputeReverser{}
	_ CostReverser = LedgerReplayReverser{}
)

// BackComputeReverser resta la línea de las sumas exactas del producto. Sin movimientos
// intermedios restaura el estado previo exacto; con ellos el resultado diverge del replay.
type BackComputeReverser struct{}

func (BackComputeReverser) Name() string { return StrategyBackCompute }

func (BackComputeReverser) RevertPurchase(_ context.Context, _ ReversalScope, product *entity.Product,
	_ *entity.PurchaseTransaction, line entity.PurchaseLine) error {
	rest := product.CurrentStock.Sub(line.Quantity)
	product.SetValuation(rest, inventory.RemoveEntry(product.InventoryValue, rest, line.Quantity, line.PurchasePrice))
	return nil
}

func (BackComputeReverser) RevertSale(_ context.Context, _ ReversalScope, product *entity.Product,
	_ *entity.SaleTransaction, line entity.SaleLine) error {
	product.ReturnStock(line.Quantity)
	sold := product.TotalSold.Sub(line.Quantity)
	product.SetSales(sold, inventory.RemoveEntry(product.SalesAmount, sold, line.Quantity, line.SalePrice))
	return nil
}

// LedgerReplayReverser recalcula el promedio exacto recorriendo las compras y ventas
// restantes del producto en orden cronológico. Costo O(historial) por reversión.
type LedgerReplayReverser struct{}

func (LedgerReplayReverser) Name() string { return StrategyReplay }

func (LedgerReplayReverser) RevertPurchase(ctx context.Context, scope ReversalScope, product *entity.Product,
	purchase *entity.PurchaseTransaction, line entity.PurchaseLine) error {
	purchases, err := scope.Purchases.List(ctx, repository.TransactionFilter{ProductID: product.ID, ExcludeID: purchase.ID})
	if err != nil {
		return fmt.Errorf("replay: compras de %s: %w", product.ID, err)
	}
	sales, err := scope.Sales.List(ctx, repository.TransactionFilter{ProductID: product.ID})
	if err != nil {
		return fmt.Errorf("replay: ventas de %s: %w", product.ID, err)
	}
	events := append(purchaseEvents(purchases, product.ID), saleEvents(sales, product.ID)...)
	stock, value, avg := inventory.ReplayValuation(events)

	// El stock guardado manda; si el historial no cuadra se valora al promedio del replay.
	rest := product.CurrentStock.Sub(line.Quantity)
	if !stock.Equal(rest) {
		value = avg.Mul(rest)
	}
	product.SetValuation(rest, value)
	return nil
}

func (LedgerReplayReverser) RevertSale(ctx context.Context, scope ReversalScope, product *entity.Product,
	sale *entity.SaleTransaction, line entity.SaleLine) error {
	sales, err := scope.Sales.List(ctx, repository.TransactionFilter{ProductID: product.ID, ExcludeID: sale.ID})
	if err != nil {
		return fmt.Errorf("replay: ventas de %s: %w", product.ID, err)
	}
	product.ReturnStock(line.Quantity)
	product.SetSales(inventory.ReplaySales(saleEvents(sales, product.ID)))
	return nil
}

func purchaseEvents(purchases []*entity.PurchaseTransaction, productID string) []inventory.CostEvent {
	var out []inventory.CostEvent
	for _, p := range purchases {
		for i, l := range p.Lines {
			if l.ProductID != productID {
				continue
			}
			out = append(out, inventory.CostEvent{
				At: p.PurchaseDate, CreatedAt: p.CreatedAt, Seq: i,
				Quantity: l.Quantity, UnitPrice: l.PurchasePrice, Inbound: true,
			})
		}
	}
	return out
}

func saleEvents(sales []*entity.SaleTransaction, productID string) []inventory.CostEvent {
	var out []inventory.CostEvent
	for _, s := range sales {
		for i, l := range s.Lines {
			if l.ProductID != productID {
				continue
			}
			out = append(out, inventory.CostEvent{
				At: s.SaleDate, CreatedAt: s.CreatedAt, Seq: i,
				Quantity: l.Quantity, UnitPrice: l.SalePrice,
			})
		}
	}
	return out
}
