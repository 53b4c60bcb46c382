package ledger

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de almacenamiento, pasando
// repositorios atados a esa tx. Commit si fn devuelve nil; Rollback en cualquier otra salida.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// CacheInvalidator se avisa después de cada commit que altera el libro.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context) error { return nil }

// Estrategias de reversión disponibles.
const (
	StrategyBackCompute = "backcompute"
	StrategyReplay      = "replay"
)

// NewCostReverser devuelve la estrategia por nombre; vacío equivale a backcompute.
func NewCostReverser(name string) (CostReverser, error) {
	switch name {
	case "", StrategyBackCompute:
		return BackComputeReverser{}, nil
	case StrategyReplay:
		return LedgerReplayReverser{}, nil
	default:
		return nil, fmt.Errorf("estrategia de reversión desconocida %q (use %s o %s)", name, StrategyBackCompute, StrategyReplay)
	}
}
