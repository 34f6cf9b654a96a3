package repository

import (
	"context"

	"github.com/jhoicas/stock-dashboard/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	List(ctx context.Context) ([]*entity.Category, error)
	Delete(ctx context.Context, id string) error
	// CountByName cuenta categorías con el mismo nombre (sin distinguir mayúsculas), excluyendo excludeID.
	CountByName(ctx context.Context, name, excludeID string) (int, error)
}
