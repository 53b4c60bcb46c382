package postgres

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isCheckViolation 23514: p. ej. current_stock >= 0.
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}

// transactionWhere arma el WHERE de listados de compras/ventas.
//
//	alias     alias de la cabecera (p, s)
//	dateCol   columna de fecha de la transacción
//	itemsTbl  tabla de líneas; fkCol su columna hacia la cabecera
func transactionWhere(alias, dateCol, itemsTbl, fkCol string, f repository.TransactionFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if f.From != nil {
		conds = append(conds, alias+"."+dateCol+" >= "+next(*f.From))
	}
	if f.To != nil {
		conds = append(conds, alias+"."+dateCol+" <= "+next(*f.To))
	}
	if f.ExcludeID != "" {
		conds = append(conds, alias+".id <> "+next(f.ExcludeID))
	}
	if f.ProductID != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM "+itemsTbl+" i WHERE i."+fkCol+" = "+alias+".id AND i.product_id = "+next(f.ProductID)+")")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
