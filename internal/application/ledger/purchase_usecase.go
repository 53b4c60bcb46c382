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

// PurchaseUseCase registra y revierte compras. Cada operación corre en una sola
// transacción: productos bloqueados (SELECT FOR UPDATE), promedios recalculados y Commit o Rollback.
type PurchaseUseCase struct {
	d Deps
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(d Deps) *PurchaseUseCase {
	return &PurchaseUseCase{d: d.withDefaults()}
}

// CreatePurchase suma stock y recalcula el costo promedio ponderado de cada producto.
// Si algún producto no existe no se aplica nada.
func (uc *PurchaseUseCase) CreatePurchase(ctx context.Context, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.PurchaseDate.IsZero() {
		return nil, domain.NewValidationError("purchase_date", "requerida")
	}
	lines := make([]entity.PurchaseLine, 0, len(in.Lines))
	ids := make([]string, 0, len(in.Lines))
	for i, l := range in.Lines {
		if err := validateLine(i, l.ProductID, l.Quantity, l.PurchasePrice, "purchase_price"); err != nil {
			return nil, err
		}
		id := strings.TrimSpace(l.ProductID)
		ids = append(ids, id)
		lines = append(lines, entity.PurchaseLine{ProductID: id, Quantity: l.Quantity, PurchasePrice: l.PurchasePrice})
	}
	expenses, err := toExpenses(in.OtherExpenses)
	if err != nil {
		return nil, err
	}

	now := uc.d.Now()
	purchase := &entity.PurchaseTransaction{
		ID:            uuid.New().String(),
		PurchaseDate:  in.PurchaseDate,
		Lines:         lines,
		OtherExpenses: expenses,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var touched map[string]*entity.Product
	err = uc.d.TxRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
		_ repository.SaleRepository,
	) error {
		products, err := lockProducts(ctx, productRepo, ids, true)
		if err != nil {
			return err
		}
		for i := range purchase.Lines {
			line := &purchase.Lines[i]
			p := products[line.ProductID]
			p.ReceivePurchase(line.Quantity, line.PurchasePrice)
			p.UpdatedAt = now
			line.ProductName = p.Name
			line.Unit = p.Unit
		}
		purchase.ComputeTotals()
		if err := persistProducts(ctx, productRepo, products); err != nil {
			return err
		}
		if err := purchaseRepo.Create(ctx, purchase); err != nil {
			return err
		}
		touched = products
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("registrar compra: %w", err)
	}

	uc.afterCommit(ctx, "compra registrada", purchase.ID, len(purchase.Lines), purchase.TotalPurchaseAmount)
	return toPurchaseResponse(purchase, touched), nil
}

// DeletePurchase revierte la compra en todos sus productos y la elimina.
// Falla con ErrNegativeStock si parte de lo comprado ya se vendió.
func (uc *PurchaseUseCase) DeletePurchase(ctx context.Context, id string) error {
	if err := validateID("id", id); err != nil {
		return err
	}
	id = strings.TrimSpace(id)

	var purchase *entity.PurchaseTransaction
	err := uc.d.TxRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
		saleRepo repository.SaleRepository,
	) error {
		var err error
		purchase, err = purchaseRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return &domain.NotFoundError{Resource: "purchase", ID: id}
		}
		ids := make([]string, 0, len(purchase.Lines))
		for _, l := range purchase.Lines {
			ids = append(ids, l.ProductID)
		}
		products, err := lockProducts(ctx, productRepo, ids, false)
		if err != nil {
			return err
		}

		scope := ReversalScope{Purchases: purchaseRepo, Sales: saleRepo}
		now := uc.d.Now()
		for _, line := range purchase.Lines {
			p, ok := products[line.ProductID]
			if !ok {
				uc.d.Logger.Warn().Str("purchase_id", id).Str("product_id", line.ProductID).
					Msg("reversión: producto inexistente, se omite la línea")
				continue
			}
			if p.CurrentStock.LessThan(line.Quantity) {
				return &domain.StockError{
					Err:         domain.ErrNegativeStock,
					ProductID:   p.ID,
					ProductName: p.Name,
					Available:   p.CurrentStock,
					Requested:   line.Quantity,
				}
			}
			if err := uc.d.Reverser.RevertPurchase(ctx, scope, p, purchase, line); err != nil {
				return err
			}
			p.UpdatedAt = now
		}
		if err := persistProducts(ctx, productRepo, products); err != nil {
			return err
		}
		return purchaseRepo.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("eliminar compra: %w", err)
	}

	uc.afterCommit(ctx, "compra revertida", id, len(purchase.Lines), purchase.TotalPurchaseAmount)
	return nil
}

// GetPurchase obtiene una compra con sus productos resueltos.
func (uc *PurchaseUseCase) GetPurchase(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	purchase, err := uc.d.Purchases.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener compra: %w", err)
	}
	if purchase == nil {
		return nil, &domain.NotFoundError{Resource: "purchase", ID: id}
	}
	products, err := catalog(ctx, uc.d.Products)
	if err != nil {
		return nil, fmt.Errorf("obtener compra: %w", err)
	}
	return toPurchaseResponse(purchase, products), nil
}

// ListPurchases lista compras por fecha descendente.
func (uc *PurchaseUseCase) ListPurchases(ctx context.Context, q dto.TransactionListQuery) ([]dto.PurchaseResponse, error) {
	filter, err := repository.ParseTransactionFilter(q.StartDate, q.EndDate, q.ProductID, uc.d.Location)
	if err != nil {
		return nil, err
	}
	list, err := uc.d.Purchases.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar compras: %w", err)
	}
	products, err := catalog(ctx, uc.d.Products)
	if err != nil {
		return nil, fmt.Errorf("listar compras: %w", err)
	}
	out := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPurchaseResponse(p, products))
	}
	return out, nil
}

func (uc *PurchaseUseCase) afterCommit(ctx context.Context, msg, id string, lines int, total decimal.Decimal) {
	if err := uc.d.Cache.Invalidate(ctx); err != nil {
		uc.d.Logger.Warn().Err(err).Msg("no se pudo invalidar la caché del dashboard")
	}
	uc.d.Logger.Info().Str("purchase_id", id).Int("lines", lines).
		Str("total", total.String()).Str("strategy", uc.d.Reverser.Name()).Msg(msg)
}

func toPurchaseResponse(p *entity.PurchaseTransaction, products map[string]*entity.Product) *dto.PurchaseResponse {
	lines := make([]dto.PurchaseLineResponse, 0, len(p.Lines))
	for _, l := range p.Lines {
		lines = append(lines, dto.PurchaseLineResponse{
			ProductID:     l.ProductID,
			ProductName:   l.ProductName,
			Unit:          l.Unit,
			Quantity:      l.Quantity,
			PurchasePrice: l.PurchasePrice,
			LineTotal:     l.LineTotal,
			Product:       productRef(products, l.ProductID),
		})
	}
	return &dto.PurchaseResponse{
		ID:                  p.ID,
		PurchaseDate:        p.PurchaseDate,
		Lines:               lines,
		OtherExpenses:       toExpenseDTOs(p.OtherExpenses),
		TotalProductCost:    p.TotalProductCost,
		TotalOtherExpenses:  p.TotalOtherExpenses,
		TotalPurchaseAmount: p.TotalPurchaseAmount,
		CreatedAt:           p.CreatedAt,
	}
}
