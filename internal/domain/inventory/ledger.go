package inventory

import (
	"fmt"
	"sort"

	"github.com/jhoicas/stock-dashboard/internal/domain"
	"github.com/jhoicas/stock-dashboard/internal/domain/entity"
)

// Direction sentido de un ajuste de stock.
type Direction string

const (
	Increase Direction = "increase"
	Decrease Direction = "decrease"
)

// ParseDirection acepta el sentido del ajuste o la acción persistida (add/remove).
func ParseDirection(s string) (Direction, error) {
	switch s {
	case string(Increase), entity.MovementActionAdd:
		return Increase, nil
	case string(Decrease), entity.MovementActionRemove:
		return Decrease, nil
	}
	return "", domain.ErrInvalidInput
}

// Action devuelve la acción con la que se persiste el movimiento.
func (d Direction) Action() string {
	if d == Decrease {
		return entity.MovementActionRemove
	}
	return entity.MovementActionAdd
}

// Validate comprueba las precondiciones de un ajuste antes de cualquier escritura.
// amount <= 0 -> ErrInvalidAmount; salida mayor que quantity -> *InsufficientStockError.
func Validate(quantity int, direction Direction, amount int) error {
	if direction != Increase && direction != Decrease {
		return domain.ErrInvalidInput
	}
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	if direction == Decrease && amount > quantity {
		return &domain.InsufficientStockError{Available: quantity}
	}
	return nil
}

// Apply valida el ajuste y devuelve la nueva cantidad (nunca negativa).
func Apply(quantity int, direction Direction, amount int) (int, error) {
	if err := Validate(quantity, direction, amount); err != nil {
		return quantity, err
	}
	if direction == Decrease {
		return quantity - amount, nil
	}
	return quantity + amount, nil
}

// Replay reconstruye la cantidad sumando entradas y restando salidas sobre baseline.
func Replay(baseline int, movements []*entity.StockMovement) int {
	q := baseline
	for _, m := range movements {
		q += m.Signed()
	}
	return q
}

// Reconciliation resultado de comparar la cantidad actual con la reconstruida desde el historial.
type Reconciliation struct {
	ProductID  string
	Baseline   int
	Movements  int
	Expected   int
	Actual     int
	Consistent bool
}

// Reconcile reconstruye la cantidad de product desde su línea base con los movimientos
// escritos a partir de BaselineAt, en orden cronológico.
func Reconcile(product *entity.Product, movements []*entity.StockMovement) Reconciliation {
	relevant := make([]*entity.StockMovement, 0, len(movements))
	for _, m := range movements {
		if m.ProductID != product.ID || m.Timestamp.Before(product.BaselineAt) {
			continue
		}
		relevant = append(relevant, m)
	}
	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Timestamp.Before(relevant[j].Timestamp)
	})
	expected := Replay(product.BaselineQuantity, relevant)
	return Reconciliation{
		ProductID:  product.ID,
		Baseline:   product.BaselineQuantity,
		Movements:  len(relevant),
		Expected:   expected,
		Actual:     product.Quantity,
		Consistent: expected == product.Quantity,
	}
}

// Err devuelve nil si la cantidad coincide con el historial. Una diferencia indica una escritura
// parcial (producto actualizado sin su fila de historial, o al revés) y se reporta como ErrPartialWrite.
func (r Reconciliation) Err() error {
	if r.Consistent {
		return nil
	}
	return fmt.Errorf("%w: producto %s esperado %d, actual %d", domain.ErrPartialWrite, r.ProductID, r.Expected, r.Actual)
}
