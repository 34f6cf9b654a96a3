package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-dashboard/internal/application/feed"
	"github.com/jhoicas/stock-dashboard/internal/application/ports"
	"github.com/jhoicas/stock-dashboard/internal/domain"
	"github.com/jhoicas/stock-dashboard/internal/domain/entity"
	"github.com/jhoicas/stock-dashboard/internal/domain/inventory"
	"github.com/jhoicas/stock-dashboard/internal/domain/repository"
	"github.com/jhoicas/stock-dashboard/pkg/logger"
)

// Resultados reportados a AdjustmentRecorder.
const (
	ResultOK                = "ok"
	ResultInvalidAmount     = "invalid_amount"
	ResultInsufficientStock = "insufficient_stock"
	ResultNotFound          = "not_found"
	ResultError             = "error"
)

// AdjustInput entrada de un ajuste de stock.
type AdjustInput struct {
	ProductID string
	Direction inventory.Direction
	Amount    int
}

// AdjustResult estado confirmado tras el ajuste.
type AdjustResult struct {
	Product  *entity.Product
	Movement *entity.StockMovement
}

// AdjustStockUseCase aplica entradas y salidas de stock: actualiza la cantidad del producto y
// agrega la fila de historial en la misma transacción, con la fila del producto bloqueada
// (SELECT FOR UPDATE) para que la validación vea la cantidad vigente.
type AdjustStockUseCase struct {
	txRunner  repository.TxRunner
	notifier  ports.ChangeNotifier
	publisher MovementPublisher
	recorder  AdjustmentRecorder
	log       *logger.Logger
	now       func() time.Time
}

// Option configura dependencias opcionales del caso de uso.
type Option func(*AdjustStockUseCase)

// WithPublisher publica cada movimiento confirmado.
func WithPublisher(p MovementPublisher) Option {
	return func(uc *AdjustStockUseCase) { uc.publisher = p }
}

// WithRecorder registra métricas de cada intento.
func WithRecorder(r AdjustmentRecorder) Option {
	return func(uc *AdjustStockUseCase) { uc.recorder = r }
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(uc *AdjustStockUseCase) { uc.now = now }
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(txRunner repository.TxRunner, notifier ports.ChangeNotifier, log *logger.Logger, opts ...Option) *AdjustStockUseCase {
	uc := &AdjustStockUseCase{
		txRunner: txRunner,
		notifier: notifier,
		log:      log.Component("inventory"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Adjust valida y aplica el ajuste. Errores: domain.ErrInvalidInput, domain.ErrInvalidAmount,
// *domain.InsufficientStockError (matchea domain.ErrInsufficientStock) y domain.ErrNotFound.
// Ante cualquier error no queda ninguna escritura.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, in AdjustInput) (*AdjustResult, error) {
	if in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	// Sentido y cantidad se validan sin abrir transacción (quantity = amount nunca falla por stock);
	// el stock se valida con la fila bloqueada.
	if err := inventory.Validate(in.Amount, in.Direction, in.Amount); err != nil {
		uc.observe(in.Direction, err)
		return nil, err
	}

	var result AdjustResult
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movementRepo repository.StockMovementRepository) error {
		product, err := productRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		newQty, err := inventory.Apply(product.Quantity, in.Direction, in.Amount)
		if err != nil {
			return err
		}

		now := uc.now()
		if now.Before(product.UpdatedAt) {
			now = product.UpdatedAt
		}
		// 1. Producto: cantidad y updatedAt
		if err := productRepo.UpdateQuantity(ctx, product.ID, newQty, now); err != nil {
			return err
		}
		// 2. Historial, con el nombre tomado de la fila bloqueada
		movement := &entity.StockMovement{
			ID:          uuid.New().String(),
			ProductID:   product.ID,
			ProductName: product.Name,
			Action:      in.Direction.Action(),
			Amount:      in.Amount,
			Timestamp:   now,
		}
		if err := movementRepo.Create(ctx, movement); err != nil {
			return err
		}

		product.Quantity = newQty
		product.UpdatedAt = now
		result = AdjustResult{Product: product, Movement: movement}
		return nil
	})
	uc.observe(in.Direction, err)
	if err != nil {
		return nil, err
	}

	uc.afterCommit(context.WithoutCancel(ctx), result.Movement)
	return &result, nil
}

// afterCommit ejecuta efectos posteriores al commit; sus fallos solo se registran.
func (uc *AdjustStockUseCase) afterCommit(ctx context.Context, movement *entity.StockMovement) {
	for _, topic := range []string{feed.TopicProducts, feed.TopicHistory} {
		if err := uc.notifier.Publish(ctx, topic); err != nil {
			uc.log.Warn().Err(err).Str("topic", topic).Msg("no se pudo notificar el cambio")
		}
	}
	if uc.publisher != nil {
		if err := uc.publisher.PublishMovement(ctx, movement); err != nil {
			uc.log.Warn().Err(err).Str("movement_id", movement.ID).Msg("no se pudo publicar el movimiento")
		}
	}
	uc.log.Info().
		Str("product_id", movement.ProductID).
		Str("action", movement.Action).
		Int("amount", movement.Amount).
		Msg("ajuste de stock registrado")
}

func (uc *AdjustStockUseCase) observe(direction inventory.Direction, err error) {
	if uc.recorder == nil {
		return
	}
	uc.recorder.ObserveAdjustment(direction.Action(), resultLabel(err))
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, domain.ErrInvalidAmount):
		return ResultInvalidAmount
	case errors.Is(err, domain.ErrInsufficientStock):
		return ResultInsufficientStock
	case errors.Is(err, domain.ErrNotFound):
		return ResultNotFound
	}
	return ResultError
}
