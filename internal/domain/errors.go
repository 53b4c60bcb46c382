package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio. Los errores tipados de abajo envuelven a estos centinelas,
// así que la capa HTTP siempre decide con errors.Is.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrNegativeStock      = errors.New("la reversión dejaría stock negativo")
	ErrProductHasStock    = errors.New("no se puede eliminar un producto con stock")
)

// ValidationError describe un campo de entrada rechazado.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError atajo para los casos de uso.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError identifica el recurso ausente (product, purchase, sale, user).
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Resource, e.ID, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// StockError se devuelve cuando una venta pide más de lo disponible (ErrInsufficientStock)
// o cuando revertir una compra dejaría el stock por debajo de cero (ErrNegativeStock).
type StockError struct {
	Err         error
	ProductID   string
	ProductName string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%s: producto %q (%s) disponible %s, solicitado %s",
		e.Err, e.ProductName, e.ProductID, e.Available.String(), e.Requested.String())
}

func (e *StockError) Unwrap() error { return e.Err }
