package report

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// DashboardUseCase resume ventas y compras del día y del mes en curso.
type DashboardUseCase struct {
	purchases repository.PurchaseRepository
	sales     repository.SaleRepository
	cache     DashboardCache
	loc       *time.Location
	now       func() time.Time
	log       zerolog.Logger
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil.
func NewDashboardUseCase(
	purchases repository.PurchaseRepository,
	sales repository.SaleRepository,
	cache DashboardCache,
	loc *time.Location,
	log zerolog.Logger,
) *DashboardUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardUseCase{purchases: purchases, sales: sales, cache: cache, loc: loc, now: time.Now, log: log}
}

// WithClock fija el reloj (pruebas).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetDashboardStats calcula los totales de hoy y del mes.
//
// Cuatro consultas en paralelo:
//  1. ventas de hoy      2. compras de hoy
//  3. ventas del mes     4. compras del mes
func (uc *DashboardUseCase) GetDashboardStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	now := uc.now().In(uc.loc)

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	// Hoy: [00:00, 00:00 del día siguiente)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc)
	todayEnd := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, uc.loc).Add(-time.Nanosecond)
	// Mes: desde el día 1 a las 00:00, sin límite superior
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, uc.loc)

	// La clave se resuelve antes de consultar: lo calculado se guarda bajo la versión leída aquí.
	key := "dashboard:" + todayStart.Format(repository.DateLayout)
	cache := uc.cache
	if cache != nil {
		resolved, err := cache.Key(ctx, key)
		if err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("caché del dashboard no disponible")
			cache = nil
		} else {
			key = resolved
		}
	}
	if cache != nil {
		cached, ok, err := cache.Get(ctx, key)
		if err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("caché del dashboard no disponible")
		} else if ok {
			return cached, nil
		}
	}

	todayFilter := repository.TransactionFilter{From: &todayStart, To: &todayEnd}
	monthFilter := repository.TransactionFilter{From: &monthStart}

	var today, month dto.DashboardWindowDTO
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		amount, n, err := uc.salesTotal(gctx, todayFilter)
		if err != nil {
			return fmt.Errorf("dashboard: ventas de hoy: %w", err)
		}
		today.Sales, today.SalesCount = amount, n
		return nil
	})
	g.Go(func() error {
		amount, n, err := uc.purchasesTotal(gctx, todayFilter)
		if err != nil {
			return fmt.Errorf("dashboard: compras de hoy: %w", err)
		}
		today.Purchases, today.PurchasesCount = amount, n
		return nil
	})
	g.Go(func() error {
		amount, n, err := uc.salesTotal(gctx, monthFilter)
		if err != nil {
			return fmt.Errorf("dashboard: ventas del mes: %w", err)
		}
		month.Sales, month.SalesCount = amount, n
		return nil
	})
	g.Go(func() error {
		amount, n, err := uc.purchasesTotal(gctx, monthFilter)
		if err != nil {
			return fmt.Errorf("dashboard: compras del mes: %w", err)
		}
		month.Purchases, month.PurchasesCount = amount, n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &dto.DashboardStatsDTO{Today: today, ThisMonth: month, DateLabel: monthLabel(now)}
	if cache != nil {
		if err := cache.Set(ctx, key, stats); err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar el dashboard en caché")
		}
	}
	return stats, nil
}

func (uc *DashboardUseCase) salesTotal(ctx context.Context, f repository.TransactionFilter) (decimal.Decimal, int, error) {
	list, err := uc.sales.List(ctx, f)
	if err != nil {
		return decimal.Zero, 0, err
	}
	total := decimal.Zero
	for _, s := range list {
		total = total.Add(saleAmount(s))
	}
	return total.Round(2), len(list), nil
}

func (uc *DashboardUseCase) purchasesTotal(ctx context.Context, f repository.TransactionFilter) (decimal.Decimal, int, error) {
	list, err := uc.purchases.List(ctx, f)
	if err != nil {
		return decimal.Zero, 0, err
	}
	total := decimal.Zero
	for _, p := range list {
		total = total.Add(p.TotalPurchaseAmount)
	}
	return total.Round(2), len(list), nil
}

// saleAmount total de la venta; si el registro no trae total se recalcula desde las líneas.
func saleAmount(s *entity.SaleTransaction) decimal.Decimal {
	if !s.TotalSaleAmount.IsZero() || len(s.Lines) == 0 {
		return s.TotalSaleAmount
	}
	c := s.Clone()
	c.ComputeTotals()
	return c.TotalSaleAmount
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
