package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria. Devuelve copias: mutar el resultado no altera el store.
type ProductRepo struct {
	a access
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.products[product.ID]; ok {
			return domain.ErrDuplicate
		}
		st.products[product.ID] = product.Clone()
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.a.read(func(st *state) {
		if p, ok := st.products[id]; ok {
			out = p.Clone()
		}
	})
	return out, nil
}

// GetForUpdate dentro de Run el store ya está bloqueado entero.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	r.a.read(func(st *state) {
		out = make([]*entity.Product, 0, len(st.products))
		for _, p := range st.products {
			out = append(out, p.Clone())
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.a.write(func(st *state) error {
		p, ok := st.products[product.ID]
		if !ok {
			return fmt.Errorf("update product %s: %w", product.ID, domain.ErrNotFound)
		}
		p.Name = product.Name
		p.Unit = product.Unit
		p.UpdatedAt = product.UpdatedAt
		return nil
	})
}

func (r *ProductRepo) UpdateLedger(_ context.Context, product *entity.Product) error {
	return r.a.write(func(st *state) error {
		p, ok := st.products[product.ID]
		if !ok {
			return fmt.Errorf("update product ledger %s: %w", product.ID, domain.ErrNotFound)
		}
		if product.CurrentStock.IsNegative() {
			return fmt.Errorf("update product ledger %s: stock negativo", product.ID)
		}
		p.CurrentStock = product.CurrentStock
		p.InventoryValue = product.InventoryValue
		p.AveragePurchaseCost = product.AveragePurchaseCost
		p.TotalSold = product.TotalSold
		p.SalesAmount = product.SalesAmount
		p.AverageSalePrice = product.AverageSalePrice
		p.UpdatedAt = product.UpdatedAt
		return nil
	})
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.a.write(func(st *state) error {
		delete(st.products, id)
		return nil
	})
}
