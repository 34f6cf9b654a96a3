package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-dashboard/internal/domain/entity"
)

// StockMovementRepository historial en memoria (solo inserción).
type StockMovementRepository struct {
	v view
}

func (r *StockMovementRepository) Create(ctx context.Context, m *entity.StockMovement) error {
	return r.v.read(ctx, func(d *data) error {
		d.movements = append(d.movements, *m)
		return nil
	})
}

// ListRecent del más reciente al más antiguo; con igual timestamp, el último insertado primero.
func (r *StockMovementRepository) ListRecent(ctx context.Context, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.v.read(ctx, func(d *data) error {
		out = make([]*entity.StockMovement, 0, len(d.movements))
		for i := len(d.movements) - 1; i >= 0; i-- {
			m := d.movements[i]
			out = append(out, &m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[j].Timestamp.Before(out[i].Timestamp) })
	return page(out, limit, offset), nil
}

// ListByProduct en orden cronológico.
func (r *StockMovementRepository) ListByProduct(ctx context.Context, productID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.v.read(ctx, func(d *data) error {
		for _, m := range d.movements {
			if m.ProductID == productID {
				m := m
				out = append(out, &m)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, err
}

func page(ms []*entity.StockMovement, limit, offset int) []*entity.StockMovement {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(ms) {
		return []*entity.StockMovement{}
	}
	ms = ms[offset:]
	if limit > 0 && limit < len(ms) {
		ms = ms[:limit]
	}
	return ms
}
