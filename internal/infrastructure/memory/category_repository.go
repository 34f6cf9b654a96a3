package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/stock-dashboard/internal/domain"
	"github.com/jhoicas/stock-dashboard/internal/domain/entity"
)

// CategoryRepository implementación en memoria de repository.CategoryRepository.
type CategoryRepository struct {
	v view
}

func (r *CategoryRepository) Create(ctx context.Context, c *entity.Category) error {
	return r.v.read(ctx, func(d *data) error {
		if _, ok := d.categories[c.ID]; ok {
			return fmt.Errorf("memory: categoría %s duplicada", c.ID)
		}
		d.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.v.read(ctx, func(d *data) error {
		if c, ok := d.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepository) Update(ctx context.Context, c *entity.Category) error {
	return r.v.read(ctx, func(d *data) error {
		if _, ok := d.categories[c.ID]; !ok {
			return domain.ErrNotFound
		}
		d.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.v.read(ctx, func(d *data) error {
		out = make([]*entity.Category, 0, len(d.categories))
		for _, c := range d.categories {
			c := c
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	return r.v.read(ctx, func(d *data) error {
		if _, ok := d.categories[id]; !ok {
			return domain.ErrNotFound
		}
		delete(d.categories, id)
		return nil
	})
}

func (r *CategoryRepository) CountByName(ctx context.Context, name, excludeID string) (int, error) {
	n := 0
	err := r.v.read(ctx, func(d *data) error {
		for id, c := range d.categories {
			if id != excludeID && strings.EqualFold(c.Name, name) {
				n++
			}
		}
		return nil
	})
	return n, err
}
