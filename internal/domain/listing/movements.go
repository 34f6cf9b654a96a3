package listing

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/stock-dashboard/internal/domain"
	"github.com/jhoicas/stock-dashboard/internal/domain/entity"
)

// ActionAll valor del filtro de acción que no filtra.
const ActionAll = "all"

// ParseActionFilter normaliza el filtro de acción del historial: all|add|remove
// (también increase|decrease). Vacío equivale a all.
func ParseActionFilter(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", ActionAll:
		return ActionAll, nil
	case entity.MovementActionAdd, "increase":
		return entity.MovementActionAdd, nil
	case entity.MovementActionRemove, "decrease":
		return entity.MovementActionRemove, nil
	}
	return "", domain.ErrInvalidInput
}

// NewestFirst ordena los movimientos por timestamp descendente (orden base del historial).
func NewestFirst(movements []*entity.StockMovement) []*entity.StockMovement {
	out := make([]*entity.StockMovement, len(movements))
	copy(out, movements)
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Timestamp.Before(out[i].Timestamp)
	})
	return out
}

// FilterMovements filtra por acción y por el nombre del producto guardado al escribir el movimiento.
// action debe venir normalizado por ParseActionFilter. Conserva el orden de entrada.
func FilterMovements(movements []*entity.StockMovement, action, search string) []*entity.StockMovement {
	fold := cases.Fold()
	term := fold.String(search)
	out := make([]*entity.StockMovement, 0, len(movements))
	for _, m := range movements {
		if action != "" && action != ActionAll && m.Action != action {
			continue
		}
		if term != "" && !strings.Contains(fold.String(m.ProductName), term) {
			continue
		}
		out = append(out, m)
	}
	return out
}
