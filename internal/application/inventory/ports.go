package inventory

import (
	"context"

	"github.com/jhoicas/stock-dashboard/internal/domain/entity"
)

// MovementPublisher publica movimientos confirmados hacia sistemas externos (Kafka).
type MovementPublisher interface {
	PublishMovement(ctx context.Context, movement *entity.StockMovement) error
}

// AdjustmentRecorder registra métricas de ajustes por acción y resultado.
type AdjustmentRecorder interface {
	ObserveAdjustment(action, result string)
}
