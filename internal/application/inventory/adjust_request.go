package inventory

import (
	"context"

	"github.com/jhoicas/stock-dashboard/internal/application/dto"
	"github.com/jhoicas/stock-dashboard/internal/domain/inventory"
)

// AdjustFromRequest adapta el request HTTP a Adjust. direction acepta increase|decrease (o add|remove);
// un body sin amount equivale al ajuste rápido de una unidad.
func (uc *AdjustStockUseCase) AdjustFromRequest(ctx context.Context, productID, direction string, in dto.AdjustStockRequest) (*AdjustResult, error) {
	dir, err := inventory.ParseDirection(direction)
	if err != nil {
		return nil, err
	}
	amount := 1
	if in.Amount != nil {
		amount = *in.Amount
	}
	return uc.Adjust(ctx, AdjustInput{ProductID: productID, Direction: dir, Amount: amount})
}
