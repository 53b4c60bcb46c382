// Package memory implementa los puertos de persistencia en proceso, para desarrollo
// (STORAGE_DRIVER=memory) y pruebas. Las transacciones trabajan sobre una copia del
// estado que solo reemplaza al vigente si fn termina sin error.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ ledger.TxRunner = (*Store)(nil)

type state struct {
	products  map[string]*entity.Product
	purchases map[string]*entity.PurchaseTransaction
	sales     map[string]*entity.SaleTransaction
	users     map[string]*entity.User
}

func newState() *state {
	return &state{
		products:  map[string]*entity.Product{},
		purchases: map[string]*entity.PurchaseTransaction{},
		sales:     map[string]*entity.SaleTransaction{},
		users:     map[string]*entity.User{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, p := range s.products {
		c.products[id] = p.Clone()
	}
	for id, p := range s.purchases {
		c.purchases[id] = p.Clone()
	}
	for id, v := range s.sales {
		c.sales[id] = v.Clone()
	}
	for id, u := range s.users {
		cp := *u
		c.users[id] = &cp
	}
	return c
}

// Store contenedor del estado. Un único mutex serializa las transacciones.
type Store struct {
	mu    sync.RWMutex
	state *state
}

// New crea un store vacío.
func New() *Store {
	return &Store{state: newState()}
}

// Products repositorio fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{access{store: s}} }

// Purchases repositorio fuera de transacción.
func (s *Store) Purchases() *PurchaseRepo { return &PurchaseRepo{access{store: s}} }

// Sales repositorio fuera de transacción.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{access{store: s}} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{access{store: s}} }

// Run ejecuta fn sobre una copia del estado con el store bloqueado. Si fn devuelve
// error (o hace panic) la copia se descarta y el estado vigente queda intacto.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
	saleRepo repository.SaleRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	a := access{tx: work}
	if err := fn(&ProductRepo{a}, &PurchaseRepo{a}, &SaleRepo{a}); err != nil {
		return err
	}
	s.state = work
	return nil
}

// access resuelve el estado sobre el que opera un repositorio: la copia de la tx
// (ya protegida por Run) o el estado vigente bajo el mutex del store.
type access struct {
	store *Store
	tx    *state
}

func (a access) read(fn func(st *state)) {
	if a.tx != nil {
		fn(a.tx)
		return
	}
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()
	fn(a.store.state)
}

func (a access) write(fn func(st *state) error) error {
	if a.tx != nil {
		return fn(a.tx)
	}
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return fn(a.store.state)
}
