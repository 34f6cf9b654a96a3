package repository

import (
	"context"

	"github.com/jhoicas/stock-dashboard/internal/domain/entity"
)

// StockMovementRepository define el puerto del historial de movimientos (solo inserción y lectura).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListRecent devuelve los movimientos del más reciente al más antiguo. limit <= 0 = sin límite.
	ListRecent(ctx context.Context, limit, offset int) ([]*entity.StockMovement, error)
	// ListByProduct devuelve los movimientos de un producto en orden cronológico.
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockMovement, error)
}
