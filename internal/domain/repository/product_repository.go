package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los Get devuelven (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// List devuelve todo el catálogo, más recientes primero.
	List(ctx context.Context) ([]*entity.Product, error)
	// Update cambia solo nombre y unidad.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateLedger persiste stock, total vendido y promedios.
	UpdateLedger(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
}
