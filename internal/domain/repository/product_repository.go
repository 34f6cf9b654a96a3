package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-dashboard/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// Update escribe nombre, categoría, imagen, detalle y updated_at (no decreciente).
	// No toca quantity ni la línea base.
	Update(ctx context.Context, product *entity.Product) error
	// ResetQuantity fija quantity y reinicia la línea base del historial en (quantity, at).
	ResetQuantity(ctx context.Context, id string, quantity int, at time.Time) error
	// UpdateQuantity cambia solo quantity y updated_at. Devuelve domain.ErrNotFound si no existe.
	UpdateQuantity(ctx context.Context, id string, quantity int, updatedAt time.Time) error
	List(ctx context.Context) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
