package repository

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// DateLayout formato de fechas en filtros (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseTransactionFilter arma el filtro desde parámetros de consulta. start se fija a
// 00:00:00.000 y end a 23:59:59.999 en loc; ambos son opcionales e independientes.
func ParseTransactionFilter(start, end, productID string, loc *time.Location) (TransactionFilter, error) {
	if loc == nil {
		loc = time.Local
	}
	var f TransactionFilter
	if s := strings.TrimSpace(start); s != "" {
		t, err := time.ParseInLocation(DateLayout, s, loc)
		if err != nil {
			return f, domain.NewValidationError("start_date", "formato esperado YYYY-MM-DD")
		}
		f.From = &t
	}
	if s := strings.TrimSpace(end); s != "" {
		t, err := time.ParseInLocation(DateLayout, s, loc)
		if err != nil {
			return f, domain.NewValidationError("end_date", "formato esperado YYYY-MM-DD")
		}
		t = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
		f.To = &t
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return f, domain.NewValidationError("start_date", "posterior a end_date")
	}
	if id := strings.TrimSpace(productID); id != "" {
		if _, err := uuid.Parse(id); err != nil {
			return f, domain.NewValidationError("product_id", "identificador inválido")
		}
		f.ProductID = id
	}
	return f, nil
}
