package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// SaleUseCase registra y revierte ventas con las mismas garantías que PurchaseUseCase.
type SaleUseCase struct {
	d Deps
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(d Deps) *SaleUseCase {
	return &SaleUseCase{d: d.withDefaults()}
}

// CreateSale descuenta stock, congela el costo promedio vigente en cada línea y
// actualiza el precio promedio de venta. Nunca confirma una sobreventa.
func (uc *SaleUseCase) CreateSale(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.SaleDate.IsZero() {
		return nil, domain.NewValidationError("sale_date", "requerida")
	}
	lines := make([]entity.SaleLine, 0, len(in.Lines))
	ids := make([]string, 0, len(in.Lines))
	for i, l := range in.Lines {
		if err := validateLine(i, l.ProductID, l.Quantity, l.SalePrice, "sale_price"); err != nil {
			return nil, err
		}
		id := strings.TrimSpace(l.ProductID)
		ids = append(ids, id)
		lines = append(lines, entity.SaleLine{ProductID: id, Quantity: l.Quantity, SalePrice: l.SalePrice})
	}
	expenses, err := toExpenses(in.OtherExpenses)
	if err != nil {
		return nil, err
	}

	now := uc.d.Now()
	sale := &entity.SaleTransaction{
		ID:            uuid.New().String(),
		SaleDate:      in.SaleDate,
		Lines:         lines,
		OtherExpenses: expenses,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var touched map[string]*entity.Product
	err = uc.d.TxRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.PurchaseRepository,
		saleRepo repository.SaleRepository,
	) error {
		products, err := lockProducts(ctx, productRepo, ids, true)
		if err != nil {
			return err
		}
		for i := range sale.Lines {
			line := &sale.Lines[i]
			p := products[line.ProductID]
			if p.CurrentStock.LessThan(line.Quantity) {
				return &domain.StockError{
					Err:         domain.ErrInsufficientStock,
					ProductID:   p.ID,
					ProductName: p.Name,
					Available:   p.CurrentStock,
					Requested:   line.Quantity,
				}
			}
			line.PurchasePriceAtSale = p.AveragePurchaseCost
			line.ProductName = p.Name
			line.Unit = p.Unit
			p.Sell(line.Quantity, line.SalePrice)
			p.UpdatedAt = now
		}
		sale.ComputeTotals()
		if err := persistProducts(ctx, productRepo, products); err != nil {
			return err
		}
		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		touched = products
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("registrar venta: %w", err)
	}

	uc.afterCommit(ctx, "venta registrada", sale.ID, len(sale.Lines), sale.TotalSaleAmount)
	return toSaleResponse(sale, touched), nil
}

// DeleteSale devuelve el stock vendido, corrige total vendido y precio promedio de venta,
// y elimina la venta. Devolver stock siempre es válido.
func (uc *SaleUseCase) DeleteSale(ctx context.Context, id string) error {
	if err := validateID("id", id); err != nil {
		return err
	}
	id = strings.TrimSpace(id)

	var sale *entity.SaleTransaction
	err := uc.d.TxRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
		saleRepo repository.SaleRepository,
	) error {
		var err error
		sale, err = saleRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return &domain.NotFoundError{Resource: "sale", ID: id}
		}
		ids := make([]string, 0, len(sale.Lines))
		for _, l := range sale.Lines {
			ids = append(ids, l.ProductID)
		}
		products, err := lockProducts(ctx, productRepo, ids, false)
		if err != nil {
			return err
		}

		scope := ReversalScope{Purchases: purchaseRepo, Sales: saleRepo}
		now := uc.d.Now()
		for _, line := range sale.Lines {
			p, ok := products[line.ProductID]
			if !ok {
				uc.d.Logger.Warn().Str("sale_id", id).Str("product_id", line.ProductID).
					Msg("reversión: producto inexistente, se omite la línea")
				continue
			}
			if err := uc.d.Reverser.RevertSale(ctx, scope, p, sale, line); err != nil {
				return err
			}
			p.UpdatedAt = now
		}
		if err := persistProducts(ctx, productRepo, products); err != nil {
			return err
		}
		return saleRepo.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("eliminar venta: %w", err)
	}

	uc.afterCommit(ctx, "venta revertida", id, len(sale.Lines), sale.TotalSaleAmount)
	return nil
}

// GetSale obtiene una venta con sus productos resueltos.
func (uc *SaleUseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	sale, err := uc.d.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener venta: %w", err)
	}
	if sale == nil {
		return nil, &domain.NotFoundError{Resource: "sale", ID: id}
	}
	products, err := catalog(ctx, uc.d.Products)
	if err != nil {
		return nil, fmt.Errorf("obtener venta: %w", err)
	}
	return toSaleResponse(sale, products), nil
}

// ListSales lista ventas por fecha descendente.
func (uc *SaleUseCase) ListSales(ctx context.Context, q dto.TransactionListQuery) ([]dto.SaleResponse, error) {
	filter, err := repository.ParseTransactionFilter(q.StartDate, q.EndDate, q.ProductID, uc.d.Location)
	if err != nil {
		return nil, err
	}
	list, err := uc.d.Sales.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar ventas: %w", err)
	}
	products, err := catalog(ctx, uc.d.Products)
	if err != nil {
		return nil, fmt.Errorf("listar ventas: %w", err)
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSaleResponse(s, products))
	}
	return out, nil
}

func (uc *SaleUseCase) afterCommit(ctx context.Context, msg, id string, lines int, total decimal.Decimal) {
	if err := uc.d.Cache.Invalidate(ctx); err != nil {
		uc.d.Logger.Warn().Err(err).Msg("no se pudo invalidar la caché del dashboard")
	}
	uc.d.Logger.Info().Str("sale_id", id).Int("lines", lines).
		Str("total", total.String()).Str("strategy", uc.d.Reverser.Name()).Msg(msg)
}

func toSaleResponse(s *entity.SaleTransaction, products map[string]*entity.Product) *dto.SaleResponse {
	lines := make([]dto.SaleLineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, dto.SaleLineResponse{
			ProductID:           l.ProductID,
			ProductName:         l.ProductName,
			Unit:                l.Unit,
			Quantity:            l.Quantity,
			SalePrice:           l.SalePrice,
			PurchasePriceAtSale: l.PurchasePriceAtSale,
			LineTotal:           l.LineTotal,
			Product:             productRef(products, l.ProductID),
		})
	}
	return &dto.SaleResponse{
		ID:                 s.ID,
		SaleDate:           s.SaleDate,
		Lines:              lines,
		OtherExpenses:      toExpenseDTOs(s.OtherExpenses),
		TotalProductAmount: s.TotalProductAmount,
		TotalOtherExpenses: s.TotalOtherExpenses,
		TotalSaleAmount:    s.TotalSaleAmount,
		CreatedAt:          s.CreatedAt,
	}
}
