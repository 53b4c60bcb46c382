package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

const productID = "6f1c2d2e-7b7e-4a53-9d7c-0a5b0c1d2e3f"

func seedProduct(t *testing.T, s *memory.Store) {
	t.Helper()
	p := entity.NewProduct(productID, "Arroz", "kg", time.Now())
	require.NoError(t, s.Products().Create(context.Background(), p))
}

func bumpStock(ctx context.Context, pr repository.ProductRepository) error {
	p, err := pr.GetForUpdate(ctx, productID)
	if err != nil {
		return err
	}
	p.CurrentStock = p.CurrentStock.Add(decimal.NewFromInt(5))
	return pr.UpdateLedger(ctx, p)
}

func TestRun_CommitPublicaCambios(t *testing.T) {
	s := memory.New()
	seedProduct(t, s)
	ctx := context.Background()

	err := s.Run(ctx, func(pr repository.ProductRepository, _ repository.PurchaseRepository, _ repository.SaleRepository) error {
		return bumpStock(ctx, pr)
	})
	require.NoError(t, err)

	p, err := s.Products().GetByID(ctx, productID)
	require.NoError(t, err)
	assert.True(t, p.CurrentStock.Equal(decimal.NewFromInt(5)))
}

func TestRun_ErrorDescartaCambios(t *testing.T) {
	s := memory.New()
	seedProduct(t, s)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(pr repository.ProductRepository, _ repository.PurchaseRepository, _ repository.SaleRepository) error {
		if err := bumpStock(ctx, pr); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, _ := s.Products().GetByID(ctx, productID)
	assert.True(t, p.CurrentStock.IsZero(), "el rollback debe dejar el stock intacto")
}

func TestRun_PanicDescartaCambiosYLiberaElStore(t *testing.T) {
	s := memory.New()
	seedProduct(t, s)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = s.Run(ctx, func(pr repository.ProductRepository, _ repository.PurchaseRepository, _ repository.SaleRepository) error {
			_ = bumpStock(ctx, pr)
			panic("fallo inesperado")
		})
	})

	// El mutex quedó liberado: otra transacción puede correr.
	err := s.Run(ctx, func(repository.ProductRepository, repository.PurchaseRepository, repository.SaleRepository) error {
		return nil
	})
	require.NoError(t, err)
	p, _ := s.Products().GetByID(ctx, productID)
	assert.True(t, p.CurrentStock.IsZero())
}

func TestProductRepo_DevuelveCopias(t *testing.T) {
	s := memory.New()
	seedProduct(t, s)
	ctx := context.Background()

	p, _ := s.Products().GetByID(ctx, productID)
	p.Name = "otro"
	again, _ := s.Products().GetByID(ctx, productID)
	assert.Equal(t, "Arroz", again.Name)
}

func TestPurchaseRepo_ListFiltraYOrdena(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	day := func(n int) time.Time { return time.Date(2024, 3, n, 10, 0, 0, 0, time.UTC) }
	for i, n := range []int{1, 3, 2} {
		p := &entity.PurchaseTransaction{
			ID:           []string{"a", "b", "c"}[i],
			PurchaseDate: day(n),
			Lines:        []entity.PurchaseLine{{ProductID: productID, Quantity: decimal.NewFromInt(1)}},
		}
		require.NoError(t, s.Purchases().Create(ctx, p))
	}

	from := day(2)
	list, err := s.Purchases().List(ctx, repository.TransactionFilter{From: &from, ProductID: productID, ExcludeID: "c"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)

	all, err := s.Purchases().List(ctx, repository.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})
}
