// Package memory implementa los repositorios en memoria (STORE_DRIVER=memory y tests).
// Las transacciones toman el lock del store y trabajan sobre una copia que se publica al confirmar.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-dashboard/internal/domain/entity"
	"github.com/jhoicas/stock-dashboard/internal/domain/repository"
)

type data struct {
	products   map[string]entity.Product
	categories map[string]entity.Category
	movements  []entity.StockMovement
}

func newData() *data {
	return &data{
		products:   make(map[string]entity.Product),
		categories: make(map[string]entity.Category),
	}
}

func (d *data) clone() *data {
	c := &data{
		products:   make(map[string]entity.Product, len(d.products)),
		categories: make(map[string]entity.Category, len(d.categories)),
		movements:  make([]entity.StockMovement, len(d.movements)),
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.categories {
		c.categories[k] = v
	}
	copy(c.movements, d.movements)
	return c
}

// Store contenedor de las tres colecciones.
type Store struct {
	mu sync.Mutex
	d  *data
}

// New crea un store vacío.
func New() *Store {
	return &Store{d: newData()}
}

// view liga los repositorios al store (tx == nil) o a la copia de una transacción en curso.
type view struct {
	s  *Store
	tx *data
}

func (v view) read(ctx context.Context, fn func(d *data) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if v.tx != nil {
		return fn(v.tx)
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.d)
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() repository.ProductRepository { return &ProductRepository{v: view{s: s}} }

// Categories repositorio de categorías.
func (s *Store) Categories() repository.CategoryRepository {
	return &CategoryRepository{v: view{s: s}}
}

// Movements repositorio del historial fuera de transacción.
func (s *Store) Movements() repository.StockMovementRepository {
	return &StockMovementRepository{v: view{s: s}}
}

// Run ejecuta fn con el store bloqueado. Solo si fn devuelve nil los cambios quedan visibles.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.d.clone()
	v := view{s: s, tx: work}
	if err := fn(&ProductRepository{v: v}, &StockMovementRepository{v: v}); err != nil {
		return err
	}
	s.d = work
	return nil
}
