package report_test

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/application/report"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	infracache "github.com/jhoicas/inventario-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type env struct {
	store     *memory.Store
	purchases *ledger.PurchaseUseCase
	sales     *ledger.SaleUseCase
	profit    *report.ProfitReportUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.New()
	deps := ledger.Deps{
		TxRunner:  store,
		Products:  store.Products(),
		Purchases: store.Purchases(),
		Sales:     store.Sales(),
		Location:  time.UTC,
		Logger:    zerolog.Nop(),
	}
	return &env{
		store:     store,
		purchases: ledger.NewPurchaseUseCase(deps),
		sales:     ledger.NewSaleUseCase(deps),
		profit:    report.NewProfitReportUseCase(store.Products(), store.Purchases(), store.Sales(), nil, time.UTC),
	}
}

func (e *env) newProduct(t *testing.T, name string) string {
	t.Helper()
	id := uuid.New().String()
	require.NoError(t, e.store.Products().Create(context.Background(), entity.NewProduct(id, name, "pcs", time.Now())))
	return id
}

func (e *env) buy(t *testing.T, at time.Time, id, qty, price string, expenses ...dto.OtherExpenseDTO) {
	t.Helper()
	_, err := e.purchases.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		PurchaseDate:  at,
		Lines:         []dto.PurchaseLineRequest{{ProductID: id, Quantity: d(qty), PurchasePrice: d(price)}},
		OtherExpenses: expenses,
	})
	require.NoError(t, err)
}

func (e *env) sell(t *testing.T, at time.Time, id, qty, price string, expenses ...dto.OtherExpenseDTO) {
	t.Helper()
	_, err := e.sales.CreateSale(context.Background(), dto.CreateSaleRequest{
		SaleDate:      at,
		Lines:         []dto.SaleLineRequest{{ProductID: id, Quantity: d(qty), SalePrice: d(price)}},
		OtherExpenses: expenses,
	})
	require.NoError(t, err)
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, got.Equal(d(want)), "%s: esperado %s, obtenido %s", msg, want, got)
}

func at(day, hour int) time.Time { return time.Date(2024, 6, day, hour, 0, 0, 0, time.UTC) }

// ──────────────────────────────────────────────────────────────────────────────
// Reporte de utilidades
// ──────────────────────────────────────────────────────────────────────────────

func TestProfitReport_EjemploDeExtremoAExtremo(t *testing.T) {
	e := newEnv(t)
	p := e.newProduct(t, "P")
	e.buy(t, at(1, 9), p, "10", "5")

	prod, _ := e.store.Products().GetByID(context.Background(), p)
	assertDec(t, "10", prod.CurrentStock, "stock tras compra")
	assertDec(t, "5", prod.AveragePurchaseCost, "costo tras compra")

	e.sell(t, at(2, 9), p, "4", "8")
	prod, _ = e.store.Products().GetByID(context.Background(), p)
	assertDec(t, "6", prod.CurrentStock, "stock tras venta")
	assertDec(t, "4", prod.TotalSold, "total vendido")
	assertDec(t, "8", prod.AverageSalePrice, "precio promedio venta")

	rep, err := e.profit.GetProfitReport(context.Background(), dto.ProfitReportRequest{StartDate: "2024-06-01", EndDate: "2024-06-02"})
	require.NoError(t, err)
	assertDec(t, "32", rep.TotalSale, "ventas")
	assertDec(t, "20", rep.TotalCostOfGoodsSold, "costo de ventas")
	assertDec(t, "12", rep.TotalProfit, "utilidad")
	assertDec(t, "50", rep.TotalPurchase, "compras")
	assert.Equal(t, 1, rep.PurchaseCount)
	assert.Equal(t, 1, rep.SaleCount)

	require.Len(t, rep.ProductBreakdown, 1)
	row := rep.ProductBreakdown[0]
	assert.Equal(t, p, row.ProductID)
	assertDec(t, "4", row.SoldQuantity, "vendido")
	assertDec(t, "12", row.Profit, "utilidad por producto")
	assertDec(t, "10", row.PurchaseQuantity, "comprado")
	assertDec(t, "6", row.CurrentStock, "stock")
}

func TestProfitReport_GastosSoloSinFiltroDeProducto(t *testing.T) {
	e := newEnv(t)
	a := e.newProduct(t, "A")
	b := e.newProduct(t, "B")
	e.buy(t, at(1, 9), a, "10", "5", dto.OtherExpenseDTO{Name: "flete", Amount: d("3")})
	e.buy(t, at(1, 10), b, "10", "1")
	e.sell(t, at(2, 9), a, "2", "10", dto.OtherExpenseDTO{Name: "comisión", Amount: d("1")})
	e.sell(t, at(2, 10), b, "5", "2")

	all, err := e.profit.GetProfitReport(context.Background(), dto.ProfitReportRequest{})
	require.NoError(t, err)
	assertDec(t, "30", all.TotalSale, "20 + 10")
	assertDec(t, "15", all.TotalCostOfGoodsSold, "10 + 5")
	assertDec(t, "3", all.TotalPurchaseOtherExpenses, "gastos compra")
	assertDec(t, "1", all.TotalSaleOtherExpenses, "gastos venta")
	assertDec(t, "4", all.TotalOtherExpenses, "gastos")
	assertDec(t, "15", all.GrossProfit, "bruta")
	assertDec(t, "11", all.TotalProfit, "30 - (15 + 4)")
	require.Len(t, all.ProductBreakdown, 2)
	assert.Equal(t, a, all.ProductBreakdown[0].ProductID, "orden por ventas descendente")

	onlyA, err := e.profit.GetProfitReport(context.Background(), dto.ProfitReportRequest{ProductID: a})
	require.NoError(t, err)
	assertDec(t, "20", onlyA.TotalSale, "ventas A")
	assertDec(t, "10", onlyA.TotalCostOfGoodsSold, "costo A")
	assertDec(t, "0", onlyA.TotalOtherExpenses, "sin gastos con filtro")
	assertDec(t, "10", onlyA.TotalProfit, "solo bruta")
	assertDec(t, "50", onlyA.TotalPurchase, "compras A")
	require.Len(t, onlyA.ProductBreakdown, 1)
	assert.Equal(t, a, onlyA.ProductBreakdown[0].ProductID)
}

func TestProfitReport_RangoVacioDevuelveCeros(t *testing.T) {
	e := newEnv(t)
	p := e.newProduct(t, "P")
	e.buy(t, at(1, 9), p, "10", "5")
	e.newProduct(t, "Sin movimientos")

	rep, err := e.profit.GetProfitReport(context.Background(), dto.ProfitReportRequest{StartDate: "2023-01-01", EndDate: "2023-01-31"})
	require.NoError(t, err)
	assert.True(t, rep.TotalSale.IsZero())
	assert.True(t, rep.TotalProfit.IsZero())
	assert.Zero(t, rep.SaleCount)
	// Solo aparece el producto con stock; el que no tiene nada se omite.
	require.Len(t, rep.ProductBreakdown, 1)
	assert.Equal(t, p, rep.ProductBreakdown[0].ProductID)
	assert.True(t, rep.ProductBreakdown[0].SalesAmount.IsZero())
}

func TestProfitReport_LimitesDeFechaInclusivos(t *testing.T) {
	e := newEnv(t)
	p := e.newProduct(t, "P")
	e.buy(t, at(1, 0), p, "10", "1")
	e.sell(t, time.Date(2024, 6, 3, 23, 59, 59, 0, time.UTC), p, "1", "2")
	e.sell(t, at(4, 0), p, "1", "100")

	rep, err := e.profit.GetProfitReport(context.Background(), dto.ProfitReportRequest{StartDate: "2024-06-03", EndDate: "2024-06-03"})
	require.NoError(t, err)
	assertDec(t, "2", rep.TotalSale, "solo la venta del día 3")

	onlyStart, err := e.profit.GetProfitReport(context.Background(), dto.ProfitReportRequest{StartDate: "2024-06-04"})
	require.NoError(t, err)
	assertDec(t, "100", onlyStart.TotalSale, "límite inferior solo")
}

func TestProfitReport_FiltrosInvalidos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	cases := []dto.ProfitReportRequest{
		{ProductID: "abc"},
		{StartDate: "01/06/2024"},
		{StartDate: "2024-06-05", EndDate: "2024-06-01"},
	}
	for _, req := range cases {
		_, err := e.profit.GetProfitReport(ctx, req)
		require.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", req)
	}
}

func TestProfitReport_ProductoEliminadoUsaLaFoto(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.newProduct(t, "Descontinuado")
	e.buy(t, at(1, 9), p, "2", "5")
	e.sell(t, at(2, 9), p, "2", "9")
	require.NoError(t, e.store.Products().Delete(ctx, p))

	rep, err := e.profit.GetProfitReport(ctx, dto.ProfitReportRequest{})
	require.NoError(t, err)
	require.Len(t, rep.ProductBreakdown, 1)
	assert.Equal(t, "Descontinuado", rep.ProductBreakdown[0].ProductName)
	assertDec(t, "8", rep.ProductBreakdown[0].Profit, "18 - 10")
}

type fakeRenderer struct{ got *dto.ProfitReportDTO }

func (f *fakeRenderer) RenderProfitReport(_ context.Context, rep *dto.ProfitReportDTO, _ string) ([]byte, error) {
	f.got = rep
	return []byte("%PDF-"), nil
}

func TestExportProfitReportPDF(t *testing.T) {
	e := newEnv(t)
	r := &fakeRenderer{}
	uc := report.NewProfitReportUseCase(e.store.Products(), e.store.Purchases(), e.store.Sales(), r, time.UTC)

	b, name, err := uc.ExportProfitReportPDF(context.Background(), dto.ProfitReportRequest{StartDate: "2024-06-01"}, "Mi Tienda")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-"), b)
	assert.Equal(t, "utilidades_2024-06-01_hoy.pdf", name)
	require.NotNil(t, r.got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

type mapCache struct {
	items map[string]*dto.DashboardStatsDTO
	hits  int
}

func (c *mapCache) Key(_ context.Context, day string) (string, error) { return day, nil }

func (c *mapCache) Get(_ context.Context, key string) (*dto.DashboardStatsDTO, bool, error) {
	v, ok := c.items[key]
	if ok {
		c.hits++
	}
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, v *dto.DashboardStatsDTO) error {
	c.items[key] = v
	return nil
}

func TestDashboard_VentanasHoyYMes(t *testing.T) {
	e := newEnv(t)
	p := e.newProduct(t, "P")
	// Mes en curso.
	e.buy(t, at(1, 9), p, "10", "5")
	// Hoy, desde medianoche.
	e.buy(t, at(15, 0), p, "1", "3")
	e.sell(t, at(15, 18), p, "1", "20")
	// Ayer y mañana cuentan solo en el mes.
	e.sell(t, at(14, 23), p, "2", "10")
	e.sell(t, at(16, 0), p, "1", "7")
	// Mes anterior.
	e.sell(t, time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC), p, "1", "99")

	uc := report.NewDashboardUseCase(e.store.Purchases(), e.store.Sales(), nil, time.UTC, zerolog.Nop()).
		WithClock(func() time.Time { return at(15, 12) })

	stats, err := uc.GetDashboardStats(context.Background())
	require.NoError(t, err)

	assertDec(t, "20", stats.Today.Sales, "ventas hoy")
	assert.Equal(t, 1, stats.Today.SalesCount)
	assertDec(t, "3", stats.Today.Purchases, "compras hoy")
	assert.Equal(t, 1, stats.Today.PurchasesCount)

	assertDec(t, "47", stats.ThisMonth.Sales, "20 + 20 + 7")
	assert.Equal(t, 3, stats.ThisMonth.SalesCount)
	assertDec(t, "53", stats.ThisMonth.Purchases, "50 + 3")
	assert.Equal(t, 2, stats.ThisMonth.PurchasesCount)
	assert.Equal(t, "Junio 2024", stats.DateLabel)
}

func TestDashboard_UsaCache(t *testing.T) {
	e := newEnv(t)
	cache := &mapCache{items: map[string]*dto.DashboardStatsDTO{}}
	uc := report.NewDashboardUseCase(e.store.Purchases(), e.store.Sales(), cache, time.UTC, zerolog.Nop()).
		WithClock(func() time.Time { return at(15, 12) })

	first, err := uc.GetDashboardStats(context.Background())
	require.NoError(t, err)
	require.Contains(t, cache.items, "dashboard:2024-06-15")

	second, err := uc.GetDashboardStats(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.hits)
}

// salesWithCommit confirma una venta de hoy justo después de la primera consulta de ventas,
// mientras el dashboard todavía está calculando.
type salesWithCommit struct {
	repository.SaleRepository
	once   sync.Once
	commit func()
}

func (r *salesWithCommit) List(ctx context.Context, f repository.TransactionFilter) ([]*entity.SaleTransaction, error) {
	list, err := r.SaleRepository.List(ctx, f)
	r.once.Do(r.commit)
	return list, err
}

func TestDashboard_CommitDuranteElCalculoNoQuedaEnCache(t *testing.T) {
	store := memory.New()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	dashCache := infracache.NewRedisDashboardCache(client, time.Minute)

	deps := ledger.Deps{
		TxRunner:  store,
		Products:  store.Products(),
		Purchases: store.Purchases(),
		Sales:     store.Sales(),
		Cache:     dashCache,
		Location:  time.UTC,
		Logger:    zerolog.Nop(),
	}
	purchases := ledger.NewPurchaseUseCase(deps)
	sales := ledger.NewSaleUseCase(deps)

	id := uuid.New().String()
	require.NoError(t, store.Products().Create(context.Background(), entity.NewProduct(id, "P", "pcs", time.Now())))
	_, err := purchases.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		PurchaseDate: at(1, 9),
		Lines:        []dto.PurchaseLineRequest{{ProductID: id, Quantity: d("10"), PurchasePrice: d("5")}},
	})
	require.NoError(t, err)

	wrapped := &salesWithCommit{SaleRepository: store.Sales(), commit: func() {
		_, err := sales.CreateSale(context.Background(), dto.CreateSaleRequest{
			SaleDate: at(15, 10),
			Lines:    []dto.SaleLineRequest{{ProductID: id, Quantity: d("1"), SalePrice: d("20")}},
		})
		assert.NoError(t, err)
	}}
	uc := report.NewDashboardUseCase(store.Purchases(), wrapped, dashCache, time.UTC, zerolog.Nop()).
		WithClock(func() time.Time { return at(15, 12) })

	_, err = uc.GetDashboardStats(context.Background())
	require.NoError(t, err)

	fresh, err := uc.GetDashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Today.SalesCount, "la venta confirmada durante el cálculo se ve")
	assert.Equal(t, 1, fresh.ThisMonth.SalesCount)
	assertDec(t, "20", fresh.ThisMonth.Sales, "ventas del mes")
}
