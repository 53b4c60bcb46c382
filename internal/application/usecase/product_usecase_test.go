package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

func ptr[T any](v T) *T { return &v }

func TestProductUseCase_CrearYObtener(t *testing.T) {
	store := memory.New()
	uc := usecase.NewProductUseCase(store.Products())
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateProductRequest{Name: "  Arroz ", Unit: "kg"})
	require.NoError(t, err)
	assert.Equal(t, "Arroz", created.Name)
	assert.True(t, created.CurrentStock.IsZero())
	assert.True(t, created.AveragePurchaseCost.IsZero())

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestProductUseCase_Validaciones(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.New().Products())
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateProductRequest{Name: " ", Unit: "kg"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetByID(ctx, "no-es-uuid")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetByID(ctx, uuid.New().String())
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "product", nf.Resource)
}

func TestProductUseCase_ActualizarSoloNombreYUnidad(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.New().Products())
	ctx := context.Background()
	p, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Arroz", Unit: "kg"})
	require.NoError(t, err)

	up, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Unit: ptr("bulto")})
	require.NoError(t, err)
	assert.Equal(t, "Arroz", up.Name)
	assert.Equal(t, "bulto", up.Unit)

	_, err = uc.Update(ctx, p.ID, dto.UpdateProductRequest{Name: ptr("")})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUseCase_EliminarSoloSinStock(t *testing.T) {
	store := memory.New()
	uc := usecase.NewProductUseCase(store.Products())
	purchases := ledger.NewPurchaseUseCase(ledger.Deps{
		TxRunner:  store,
		Products:  store.Products(),
		Purchases: store.Purchases(),
		Sales:     store.Sales(),
		Location:  time.UTC,
		Logger:    zerolog.Nop(),
	})
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Arroz", Unit: "kg"})
	require.NoError(t, err)
	buy, err := purchases.CreatePurchase(ctx, dto.CreatePurchaseRequest{
		PurchaseDate: time.Now(),
		Lines: []dto.PurchaseLineRequest{{
			ProductID: p.ID, Quantity: decimal.NewFromInt(3), PurchasePrice: decimal.NewFromInt(2),
		}},
	})
	require.NoError(t, err)

	err = uc.Delete(ctx, p.ID)
	require.ErrorIs(t, err, domain.ErrProductHasStock)
	var se *domain.StockError
	require.ErrorAs(t, err, &se)
	assert.True(t, se.Available.Equal(decimal.NewFromInt(3)))

	require.NoError(t, purchases.DeletePurchase(ctx, buy.ID))
	require.NoError(t, uc.Delete(ctx, p.ID))

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Zero(t, list.Total)
}

func TestProductUseCase_ListaMasRecientesPrimero(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.New().Products())
	ctx := context.Background()
	first, err := uc.Create(ctx, dto.CreateProductRequest{Name: "A", Unit: "u"})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := uc.Create(ctx, dto.CreateProductRequest{Name: "B", Unit: "u"})
	require.NoError(t, err)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, second.ID, list.Items[0].ID)
	assert.Equal(t, first.ID, list.Items[1].ID)
}
