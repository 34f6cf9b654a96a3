package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/stock-dashboard/internal/domain"
	"github.com/jhoicas/stock-dashboard/internal/domain/entity"
)

// ProductRepository implementación en memoria de repository.ProductRepository.
type ProductRepository struct {
	v view
}

// Create inserta un producto. El ID es obligatorio y único.
func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	return r.v.read(ctx, func(d *data) error {
		if _, ok := d.products[p.ID]; ok {
			return fmt.Errorf("memory: producto %s duplicado", p.ID)
		}
		d.products[p.ID] = *p
		return nil
	})
}

// GetByID devuelve una copia del producto o (nil, nil).
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.read(ctx, func(d *data) error {
		if p, ok := d.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// GetForUpdate igual que GetByID; dentro de Run el store ya está bloqueado.
func (r *ProductRepository) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// Update reemplaza los campos editables; quantity y la línea base se conservan.
func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	return r.v.read(ctx, func(d *data) error {
		cur, ok := d.products[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Name = p.Name
		cur.CategoryID = p.CategoryID
		cur.Image = p.Image
		cur.Detail = p.Detail
		if p.UpdatedAt.After(cur.UpdatedAt) {
			cur.UpdatedAt = p.UpdatedAt
		}
		d.products[p.ID] = cur
		return nil
	})
}

// ResetQuantity fija quantity y reinicia la línea base.
func (r *ProductRepository) ResetQuantity(ctx context.Context, id string, quantity int, at time.Time) error {
	return r.v.read(ctx, func(d *data) error {
		p, ok := d.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.Quantity = quantity
		p.BaselineQuantity = quantity
		p.BaselineAt = at
		if at.After(p.UpdatedAt) {
			p.UpdatedAt = at
		}
		d.products[id] = p
		return nil
	})
}

// UpdateQuantity cambia solo quantity y updatedAt.
func (r *ProductRepository) UpdateQuantity(ctx context.Context, id string, quantity int, updatedAt time.Time) error {
	return r.v.read(ctx, func(d *data) error {
		p, ok := d.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.Quantity = quantity
		p.UpdatedAt = updatedAt
		d.products[id] = p
		return nil
	})
}

// List devuelve todos los productos por fecha de creación.
func (r *ProductRepository) List(ctx context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v.read(ctx, func(d *data) error {
		out = make([]*entity.Product, 0, len(d.products))
		for _, p := range d.products {
			p := p
			out = append(out, &p)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, err
}

// Delete elimina el producto. El historial no se toca.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return r.v.read(ctx, func(d *data) error {
		if _, ok := d.products[id]; !ok {
			return domain.ErrNotFound
		}
		delete(d.products, id)
		return nil
	})
}
