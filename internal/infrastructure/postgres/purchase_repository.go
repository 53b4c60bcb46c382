package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `p.id, p.purchase_date, p.total_product_cost, p.total_other_expenses, p.total_purchase_amount, p.created_at, p.updated_at`

// PurchaseRepo compras sobre PostgreSQL: cabecera en purchases, líneas en
// purchase_items y gastos en purchase_expenses (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste cabecera, líneas y gastos. Llamar dentro de una tx.
func (r *PurchaseRepo) Create(ctx context.Context, purchase *entity.PurchaseTransaction) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchases (id, purchase_date, total_product_cost, total_other_expenses, total_purchase_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		purchase.ID, purchase.PurchaseDate, purchase.TotalProductCost, purchase.TotalOtherExpenses,
		purchase.TotalPurchaseAmount, purchase.CreatedAt, purchase.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	for i, l := range purchase.Lines {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO purchase_items (purchase_id, line_no, product_id, product_name, unit, quantity, purchase_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			purchase.ID, i, l.ProductID, l.ProductName, l.Unit, l.Quantity, l.PurchasePrice, l.LineTotal,
		); err != nil {
			return fmt.Errorf("insert purchase item: %w", err)
		}
	}
	for i, e := range purchase.OtherExpenses {
		if _, err := r.q.Exec(ctx,
			`INSERT INTO purchase_expenses (purchase_id, line_no, name, amount) VALUES ($1, $2, $3, $4)`,
			purchase.ID, i, e.Name, e.Amount,
		); err != nil {
			return fmt.Errorf("insert purchase expense: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una compra completa por ID.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseTransaction, error) {
	return r.get(ctx, `SELECT `+purchaseColumns+` FROM purchases p WHERE p.id = $1`, id)
}

// GetForUpdate obtiene la compra y bloquea la cabecera hasta el fin de la tx.
func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseTransaction, error) {
	return r.get(ctx, `SELECT `+purchaseColumns+` FROM purchases p WHERE p.id = $1 FOR UPDATE`, id)
}

func (r *PurchaseRepo) get(ctx context.Context, query, id string) (*entity.PurchaseTransaction, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	if err := r.loadChildren(ctx, []*entity.PurchaseTransaction{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// List compras que cumplen el filtro, por fecha descendente.
func (r *PurchaseRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.PurchaseTransaction, error) {
	where, args := transactionWhere("p", "purchase_date", "purchase_items", "purchase_id", filter)
	query := `SELECT ` + purchaseColumns + ` FROM purchases p` + where +
		` ORDER BY p.purchase_date DESC, p.created_at DESC, p.id DESC`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	var list []*entity.PurchaseTransaction
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	if err := r.loadChildren(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Delete elimina la compra; líneas y gastos caen por ON DELETE CASCADE.
func (r *PurchaseRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("delete purchase %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// loadChildren carga líneas y gastos de todas las compras con dos consultas.
func (r *PurchaseRepo) loadChildren(ctx context.Context, list []*entity.PurchaseTransaction) error {
	if len(list) == 0 {
		return nil
	}
	byID := make(map[string]*entity.PurchaseTransaction, len(list))
	ids := make([]string, 0, len(list))
	for _, p := range list {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	rows, err := r.q.Query(ctx, `
		SELECT purchase_id, product_id, product_name, unit, quantity, purchase_price, line_total
		FROM purchase_items WHERE purchase_id = ANY($1) ORDER BY purchase_id, line_no`, ids)
	if err != nil {
		return fmt.Errorf("list purchase items: %w", err)
	}
	for rows.Next() {
		var (
			purchaseID string
			l          entity.PurchaseLine
		)
		if err := rows.Scan(&purchaseID, &l.ProductID, &l.ProductName, &l.Unit, &l.Quantity, &l.PurchasePrice, &l.LineTotal); err != nil {
			rows.Close()
			return fmt.Errorf("scan purchase item: %w", err)
		}
		byID[purchaseID].Lines = append(byID[purchaseID].Lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list purchase items: %w", err)
	}

	rows, err = r.q.Query(ctx, `
		SELECT purchase_id, name, amount
		FROM purchase_expenses WHERE purchase_id = ANY($1) ORDER BY purchase_id, line_no`, ids)
	if err != nil {
		return fmt.Errorf("list purchase expenses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			purchaseID string
			e          entity.OtherExpense
		)
		if err := rows.Scan(&purchaseID, &e.Name, &e.Amount); err != nil {
			return fmt.Errorf("scan purchase expense: %w", err)
		}
		byID[purchaseID].OtherExpenses = append(byID[purchaseID].OtherExpenses, e)
	}
	return rows.Err()
}

func scanPurchase(row pgx.Row) (*entity.PurchaseTransaction, error) {
	var p entity.PurchaseTransaction
	if err := row.Scan(
		&p.ID, &p.PurchaseDate, &p.TotalProductCost, &p.TotalOtherExpenses,
		&p.TotalPurchaseAmount, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
