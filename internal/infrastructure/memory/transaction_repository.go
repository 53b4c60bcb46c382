package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.PurchaseRepository = (*PurchaseRepo)(nil)
	_ repository.SaleRepository     = (*SaleRepo)(nil)
)

// PurchaseRepo compras en memoria.
type PurchaseRepo struct {
	a access
}

func (r *PurchaseRepo) Create(_ context.Context, purchase *entity.PurchaseTransaction) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.purchases[purchase.ID]; ok {
			return domain.ErrDuplicate
		}
		st.purchases[purchase.ID] = purchase.Clone()
		return nil
	})
}

func (r *PurchaseRepo) GetByID(_ context.Context, id string) (*entity.PurchaseTransaction, error) {
	var out *entity.PurchaseTransaction
	r.a.read(func(st *state) {
		if p, ok := st.purchases[id]; ok {
			out = p.Clone()
		}
	})
	return out, nil
}

func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseTransaction, error) {
	return r.GetByID(ctx, id)
}

func (r *PurchaseRepo) List(_ context.Context, filter repository.TransactionFilter) ([]*entity.PurchaseTransaction, error) {
	var out []*entity.PurchaseTransaction
	r.a.read(func(st *state) {
		for _, p := range st.purchases {
			if filter.Match(p.ID, p.PurchaseDate, p.HasProduct) {
				out = append(out, p.Clone())
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].PurchaseDate, out[j].PurchaseDate, out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (r *PurchaseRepo) Delete(_ context.Context, id string) error {
	return r.a.write(func(st *state) error {
		delete(st.purchases, id)
		return nil
	})
}

// SaleRepo ventas en memoria.
type SaleRepo struct {
	a access
}

func (r *SaleRepo) Create(_ context.Context, sale *entity.SaleTransaction) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.sales[sale.ID]; ok {
			return domain.ErrDuplicate
		}
		st.sales[sale.ID] = sale.Clone()
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.SaleTransaction, error) {
	var out *entity.SaleTransaction
	r.a.read(func(st *state) {
		if s, ok := st.sales[id]; ok {
			out = s.Clone()
		}
	})
	return out, nil
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.SaleTransaction, error) {
	return r.GetByID(ctx, id)
}

func (r *SaleRepo) List(_ context.Context, filter repository.TransactionFilter) ([]*entity.SaleTransaction, error) {
	var out []*entity.SaleTransaction
	r.a.read(func(st *state) {
		for _, s := range st.sales {
			if filter.Match(s.ID, s.SaleDate, s.HasProduct) {
				out = append(out, s.Clone())
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].SaleDate, out[j].SaleDate, out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (r *SaleRepo) Delete(_ context.Context, id string) error {
	return r.a.write(func(st *state) error {
		delete(st.sales, id)
		return nil
	})
}

func newerFirst(a, b, createdA, createdB time.Time, idA, idB string) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	if !createdA.Equal(createdB) {
		return createdA.After(createdB)
	}
	return idA > idB
}
