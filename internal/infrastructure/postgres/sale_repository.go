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

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `s.id, s.sale_date, s.total_product_amount, s.total_other_expenses, s.total_sale_amount, s.created_at, s.updated_at`

// SaleRepo ventas sobre PostgreSQL: cabecera en sales, líneas en
// sale_items y gastos en sale_expenses (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste cabecera, líneas y gastos. Llamar dentro de una tx.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.SaleTransaction) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, sale_date, total_product_amount, total_other_expenses, total_sale_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sale.ID, sale.SaleDate, sale.TotalProductAmount, sale.TotalOtherExpenses,
		sale.TotalSaleAmount, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	for i, l := range sale.Lines {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (sale_id, line_no, product_id, product_name, unit, quantity, sale_price, purchase_price_at_sale, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			sale.ID, i, l.ProductID, l.ProductName, l.Unit, l.Quantity, l.SalePrice, l.PurchasePriceAtSale, l.LineTotal,
		); err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	for i, e := range sale.OtherExpenses {
		if _, err := r.q.Exec(ctx,
			`INSERT INTO sale_expenses (sale_id, line_no, name, amount) VALUES ($1, $2, $3, $4)`,
			sale.ID, i, e.Name, e.Amount,
		); err != nil {
			return fmt.Errorf("insert sale expense: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una venta completa por ID.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.SaleTransaction, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales s WHERE s.id = $1`, id)
}

// GetForUpdate obtiene la venta y bloquea la cabecera hasta el fin de la tx.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.SaleTransaction, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales s WHERE s.id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) get(ctx context.Context, query, id string) (*entity.SaleTransaction, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadChildren(ctx, []*entity.SaleTransaction{s}); err != nil {
		return nil, err
	}
	return s, nil
}

// List ventas que cumplen el filtro, por fecha descendente.
func (r *SaleRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.SaleTransaction, error) {
	where, args := transactionWhere("s", "sale_date", "sale_items", "sale_id", filter)
	query := `SELECT ` + saleColumns + ` FROM sales s` + where +
		` ORDER BY s.sale_date DESC, s.created_at DESC, s.id DESC`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	var list []*entity.SaleTransaction
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if err := r.loadChildren(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Delete elimina la venta; líneas y gastos caen por ON DELETE CASCADE.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("delete sale %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// loadChildren carga líneas y gastos de todas las ventas con dos consultas.
func (r *SaleRepo) loadChildren(ctx context.Context, list []*entity.SaleTransaction) error {
	if len(list) == 0 {
		return nil
	}
	byID := make(map[string]*entity.SaleTransaction, len(list))
	ids := make([]string, 0, len(list))
	for _, s := range list {
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}

	rows, err := r.q.Query(ctx, `
		SELECT sale_id, product_id, product_name, unit, quantity, sale_price, purchase_price_at_sale, line_total
		FROM sale_items WHERE sale_id = ANY($1) ORDER BY sale_id, line_no`, ids)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}
	for rows.Next() {
		var (
			saleID string
			l          entity.SaleLine
		)
		if err := rows.Scan(&saleID, &l.ProductID, &l.ProductName, &l.Unit, &l.Quantity, &l.SalePrice, &l.PurchasePriceAtSale, &l.LineTotal); err != nil {
			rows.Close()
			return fmt.Errorf("scan sale item: %w", err)
		}
		byID[saleID].Lines = append(byID[saleID].Lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}

	rows, err = r.q.Query(ctx, `
		SELECT sale_id, name, amount
		FROM sale_expenses WHERE sale_id = ANY($1) ORDER BY sale_id, line_no`, ids)
	if err != nil {
		return fmt.Errorf("list sale expenses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			saleID string
			e          entity.OtherExpense
		)
		if err := rows.Scan(&saleID, &e.Name, &e.Amount); err != nil {
			return fmt.Errorf("scan sale expense: %w", err)
		}
		byID[saleID].OtherExpenses = append(byID[saleID].OtherExpenses, e)
	}
	return rows.Err()
}

func scanSale(row pgx.Row) (*entity.SaleTransaction, error) {
	var s entity.SaleTransaction
	if err := row.Scan(
		&s.ID, &s.SaleDate, &s.TotalProductAmount, &s.TotalOtherExpenses,
		&s.TotalSaleAmount, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
