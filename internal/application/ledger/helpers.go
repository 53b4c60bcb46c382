package ledger

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Deps dependencias compartidas por los casos de uso de compras y ventas.
type Deps struct {
	TxRunner  TxRunner
	Products  repository.ProductRepository
	Purchases repository.PurchaseRepository
	Sales     repository.SaleRepository
	Reverser  CostReverser     // nil = backcompute
	Cache     CacheInvalidator // nil = sin caché
	Location  *time.Location   // zona para filtros de fecha; nil = time.Local
	Logger    zerolog.Logger
	Now       func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Reverser == nil {
		d.Reverser = BackComputeReverser{}
	}
	if d.Cache == nil {
		d.Cache = noopInvalidator{}
	}
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

func validateID(field, id string) error {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return domain.NewValidationError(field, "identificador inválido")
	}
	return nil
}

func validateLine(idx int, productID string, qty, price decimal.Decimal, priceField string) error {
	prefix := "lines[" + strconv.Itoa(idx) + "]."
	if err := validateID(prefix+"product_id", productID); err != nil {
		return err
	}
	if !qty.IsPositive() {
		return domain.NewValidationError(prefix+"quantity", "debe ser mayor que cero")
	}
	if price.IsNegative() {
		return domain.NewValidationError(prefix+priceField, "no puede ser negativo")
	}
	return nil
}

func toExpenses(in []dto.OtherExpenseDTO) ([]entity.OtherExpense, error) {
	out := make([]entity.OtherExpense, 0, len(in))
	for i, e := range in {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, domain.NewValidationError("other_expenses["+strconv.Itoa(i)+"].name", "requerido")
		}
		if e.Amount.IsNegative() {
			return nil, domain.NewValidationError("other_expenses["+strconv.Itoa(i)+"].amount", "no puede ser negativo")
		}
		out = append(out, entity.OtherExpense{Name: name, Amount: e.Amount})
	}
	return out, nil
}

func toExpenseDTOs(in []entity.OtherExpense) []dto.OtherExpenseDTO {
	out := make([]dto.OtherExpenseDTO, 0, len(in))
	for _, e := range in {
		out = append(out, dto.OtherExpenseDTO{Name: e.Name, Amount: e.Amount})
	}
	return out
}

// uniqueSorted ids únicos en orden ascendente: todas las tx bloquean en el mismo orden.
func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// lockProducts bloquea (SELECT FOR UPDATE) los productos referenciados. Con required,
// el primero que falte aborta con NotFoundError; sin required, los ausentes se omiten del mapa.
func lockProducts(ctx context.Context, repo repository.ProductRepository, ids []string, required bool) (map[string]*entity.Product, error) {
	locked := make(map[string]*entity.Product, len(ids))
	for _, id := range uniqueSorted(ids) {
		p, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			if required {
				return nil, &domain.NotFoundError{Resource: "product", ID: id}
			}
			continue
		}
		locked[id] = p
	}
	return locked, nil
}

// persistProducts guarda los productos tocados, en el mismo orden del bloqueo.
func persistProducts(ctx context.Context, repo repository.ProductRepository, touched map[string]*entity.Product) error {
	ids := make([]string, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := repo.UpdateLedger(ctx, touched[id]); err != nil {
			return err
		}
	}
	return nil
}

// catalog devuelve el catálogo indexado por id para resolver referencias en respuestas.
func catalog(ctx context.Context, repo repository.ProductRepository) (map[string]*entity.Product, error) {
	list, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*entity.Product, len(list))
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

func productRef(products map[string]*entity.Product, id string) *dto.ProductRef {
	p, ok := products[id]
	if !ok {
		return nil
	}
	return &dto.ProductRef{ID: p.ID, Name: p.Name, Unit: p.Unit}
}
