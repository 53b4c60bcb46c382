package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// TransactionFilter filtro de listados de compras y ventas. Los límites de fecha son
// inclusivos y opcionales; ProductID selecciona transacciones con al menos una línea del producto.
type TransactionFilter struct {
	From      *time.Time
	To        *time.Time
	ProductID string
	// ExcludeID omite una transacción (la que se está revirtiendo).
	ExcludeID string
}

// Match aplica el filtro en memoria sobre la fecha, el id y la lista de productos.
func (f TransactionFilter) Match(id string, at time.Time, hasProduct func(string) bool) bool {
	if f.ExcludeID != "" && id == f.ExcludeID {
		return false
	}
	if f.From != nil && at.Before(*f.From) {
		return false
	}
	if f.To != nil && at.After(*f.To) {
		return false
	}
	if f.ProductID != "" && !hasProduct(f.ProductID) {
		return false
	}
	return true
}

// PurchaseRepository puerto de persistencia de compras. List ordena por fecha descendente.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.PurchaseTransaction) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseTransaction, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseTransaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]*entity.PurchaseTransaction, error)
	Delete(ctx context.Context, id string) error
}

// SaleRepository puerto de persistencia de ventas. List ordena por fecha descendente.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.SaleTransaction) error
	GetByID(ctx context.Context, id string) (*entity.SaleTransaction, error)
	GetForUpdate(ctx context.Context, id string) (*entity.SaleTransaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]*entity.SaleTransaction, error)
	Delete(ctx context.Context, id string) error
}
