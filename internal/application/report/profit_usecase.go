package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ProfitReportUseCase reconstruye ingresos, costo de ventas, gastos y utilidad desde
// las transacciones registradas. Lecturas sin aislamiento: el reporte es analítico.
type ProfitReportUseCase struct {
	products  repository.ProductRepository
	purchases repository.PurchaseRepository
	sales     repository.SaleRepository
	renderer  ProfitReportRenderer
	loc       *time.Location
}

// NewProfitReportUseCase construye el caso de uso. renderer puede ser nil si no se exporta PDF.
func NewProfitReportUseCase(
	products repository.ProductRepository,
	purchases repository.PurchaseRepository,
	sales repository.SaleRepository,
	renderer ProfitReportRenderer,
	loc *time.Location,
) *ProfitReportUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &ProfitReportUseCase{products: products, purchases: purchases, sales: sales, renderer: renderer, loc: loc}
}

// GetProfitReport calcula el reporte. Un rango sin transacciones devuelve totales en cero.
//
// Con filtro de producto solo se suman sus líneas y los gastos adicionales quedan fuera:
// la utilidad reportada es bruta.
func (uc *ProfitReportUseCase) GetProfitReport(ctx context.Context, req dto.ProfitReportRequest) (*dto.ProfitReportDTO, error) {
	filter, err := repository.ParseTransactionFilter(req.StartDate, req.EndDate, req.ProductID, uc.loc)
	if err != nil {
		return nil, err
	}

	var (
		products  []*entity.Product
		purchases []*entity.PurchaseTransaction
		sales     []*entity.SaleTransaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if products, err = uc.products.List(gctx); err != nil {
			return fmt.Errorf("reporte: catálogo: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if purchases, err = uc.purchases.List(gctx, filter); err != nil {
			return fmt.Errorf("reporte: compras: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if sales, err = uc.sales.List(gctx, filter); err != nil {
			return fmt.Errorf("reporte: ventas: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := aggregate(filter.ProductID, products, purchases, sales)
	out.StartDate = req.StartDate
	out.EndDate = req.EndDate
	out.ProductID = filter.ProductID
	return out, nil
}

// ExportProfitReportPDF calcula el reporte y lo entrega como PDF.
func (uc *ProfitReportUseCase) ExportProfitReportPDF(ctx context.Context, req dto.ProfitReportRequest, businessName string) ([]byte, string, error) {
	if uc.renderer == nil {
		return nil, "", fmt.Errorf("pdf: generador no configurado")
	}
	rep, err := uc.GetProfitReport(ctx, req)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.renderer.RenderProfitReport(ctx, rep, businessName)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, profitReportFilename(req), nil
}

func profitReportFilename(req dto.ProfitReportRequest) string {
	from, to := req.StartDate, req.EndDate
	if from == "" {
		from = "inicio"
	}
	if to == "" {
		to = "hoy"
	}
	return fmt.Sprintf("utilidades_%s_%s.pdf", from, to)
}

// aggregate recorre cada línea contra el filtro de producto; las transacciones ya
// vienen filtradas por fecha.
func aggregate(productID string, products []*entity.Product, purchases []*entity.PurchaseTransaction, sales []*entity.SaleTransaction) *dto.ProfitReportDTO {
	entries := make(map[string]*dto.ProductProfitDTO, len(products))
	for _, p := range products {
		entries[p.ID] = &dto.ProductProfitDTO{
			ProductID:    p.ID,
			ProductName:  p.Name,
			Unit:         p.Unit,
			CurrentStock: p.CurrentStock,
		}
	}
	// Productos eliminados: se muestran con la foto de la línea.
	entryFor := func(id, name, unit string) *dto.ProductProfitDTO {
		e, ok := entries[id]
		if !ok {
			e = &dto.ProductProfitDTO{ProductID: id, ProductName: name, Unit: unit}
			entries[id] = e
		}
		return e
	}
	matches := func(id string) bool { return productID == "" || id == productID }

	rep := &dto.ProfitReportDTO{
		PurchaseCount: len(purchases),
		SaleCount:     len(sales),
	}
	revenue, cogs, purchased := decimal.Zero, decimal.Zero, decimal.Zero
	purchaseExpenses, saleExpenses := decimal.Zero, decimal.Zero

	for _, s := range sales {
		for _, l := range s.Lines {
			if !matches(l.ProductID) {
				continue
			}
			amount := l.Quantity.Mul(l.SalePrice)
			cost := l.COGS()
			revenue = revenue.Add(amount)
			cogs = cogs.Add(cost)

			e := entryFor(l.ProductID, l.ProductName, l.Unit)
			e.SalesAmount = e.SalesAmount.Add(amount)
			e.CostOfGoodsSold = e.CostOfGoodsSold.Add(cost)
			e.SoldQuantity = e.SoldQuantity.Add(l.Quantity)
		}
		if productID == "" {
			saleExpenses = saleExpenses.Add(entity.SumExpenses(s.OtherExpenses))
		}
	}
	for _, p := range purchases {
		for _, l := range p.Lines {
			if !matches(l.ProductID) {
				continue
			}
			amount := l.Quantity.Mul(l.PurchasePrice)
			purchased = purchased.Add(amount)

			e := entryFor(l.ProductID, l.ProductName, l.Unit)
			e.PurchaseQuantity = e.PurchaseQuantity.Add(l.Quantity)
			e.PurchaseAmount = e.PurchaseAmount.Add(amount)
		}
		if productID == "" {
			purchaseExpenses = purchaseExpenses.Add(entity.SumExpenses(p.OtherExpenses))
		}
	}

	otherExpenses := purchaseExpenses.Add(saleExpenses)
	rep.TotalSale = money(revenue)
	rep.TotalPurchase = money(purchased)
	rep.TotalCostOfGoodsSold = money(cogs)
	rep.TotalPurchaseOtherExpenses = money(purchaseExpenses)
	rep.TotalSaleOtherExpenses = money(saleExpenses)
	rep.TotalOtherExpenses = money(otherExpenses)
	rep.GrossProfit = money(revenue.Sub(cogs))
	rep.TotalProfit = money(revenue.Sub(cogs.Add(otherExpenses)))
	rep.ProductBreakdown = breakdown(productID, entries)
	return rep
}

func breakdown(productID string, entries map[string]*dto.ProductProfitDTO) []dto.ProductProfitDTO {
	out := make([]dto.ProductProfitDTO, 0)
	for id, e := range entries {
		if productID != "" {
			if id != productID {
				continue
			}
		} else if e.SoldQuantity.IsZero() && e.PurchaseQuantity.IsZero() && e.CurrentStock.IsZero() {
			continue
		}
		row := *e
		row.Profit = money(row.SalesAmount.Sub(row.CostOfGoodsSold))
		row.SalesAmount = money(row.SalesAmount)
		row.CostOfGoodsSold = money(row.CostOfGoodsSold)
		row.PurchaseAmount = money(row.PurchaseAmount)
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SalesAmount.Equal(out[j].SalesAmount) {
			return out[i].SalesAmount.GreaterThan(out[j].SalesAmount)
		}
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}

// money redondea importes a 2 decimales para presentación.
func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
