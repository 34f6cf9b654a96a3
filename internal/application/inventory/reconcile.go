package inventory

import (
	"context"

	"github.com/jhoicas/stock-dashboard/internal/domain"
	"github.com/jhoicas/stock-dashboard/internal/domain/entity"
	"github.com/jhoicas/stock-dashboard/internal/domain/inventory"
	"github.com/jhoicas/stock-dashboard/internal/domain/repository"
	"github.com/jhoicas/stock-dashboard/pkg/logger"
)

// ReconcileUseCase compara la cantidad de un producto con la reconstruida desde el historial.
type ReconcileUseCase struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	log          *logger.Logger
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(productRepo repository.ProductRepository, movementRepo repository.StockMovementRepository, log *logger.Logger) *ReconcileUseCase {
	return &ReconcileUseCase{productRepo: productRepo, movementRepo: movementRepo, log: log.Component("reconcile")}
}

// Reconcile devuelve el resultado para productID. Una diferencia no es un error de la operación:
// se devuelve con Consistent=false y se registra como advertencia.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context, productID string) (*entity.Product, inventory.Reconciliation, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, inventory.Reconciliation{}, err
	}
	if product == nil {
		return nil, inventory.Reconciliation{}, domain.ErrNotFound
	}
	movements, err := uc.movementRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, inventory.Reconciliation{}, err
	}
	r := inventory.Reconcile(product, movements)
	if err := r.Err(); err != nil {
		uc.log.Warn().Err(err).Int("expected", r.Expected).Int("actual", r.Actual).Msg("cantidad no coincide con el historial")
	}
	return product, r, nil
}
