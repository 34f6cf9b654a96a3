package repository

import "context"

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y ninguna escritura queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo ProductRepository,
		movementRepo StockMovementRepository,
	) error) error
}
