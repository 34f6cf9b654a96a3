package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-dashboard/internal/application/dto"
	"github.com/jhoicas/stock-dashboard/internal/application/feed"
	"github.com/jhoicas/stock-dashboard/internal/application/ports"
	"github.com/jhoicas/stock-dashboard/internal/domain"
	"github.com/jhoicas/stock-dashboard/internal/domain/entity"
	"github.com/jhoicas/stock-dashboard/internal/domain/listing"
	"github.com/jhoicas/stock-dashboard/internal/domain/repository"
	"github.com/jhoicas/stock-dashboard/pkg/logger"
)

// CategoryUseCase casos de uso de categorías. Eliminar una categoría no toca los productos:
// sus referencias pasan a mostrarse con el texto de respaldo.
type CategoryUseCase struct {
	repo     repository.CategoryRepository
	notifier ports.ChangeNotifier
	settings CatalogSettings
	log      *logger.Logger
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, notifier ports.ChangeNotifier, settings CatalogSettings, log *logger.Logger) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, notifier: notifier, settings: settings, log: log.Component("categories")}
}

// Create crea una categoría. Un nombre repetido se permite y se registra como advertencia.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	uc.warnDuplicate(ctx, name, "")
	c := &entity.Category{ID: uuid.New().String(), Name: name}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.changed(ctx)
	return toCategoryResponse(c), nil
}

// Update renombra una categoría.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	uc.warnDuplicate(ctx, name, id)
	c.Name = name
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	uc.changed(ctx)
	return toCategoryResponse(c), nil
}

// Delete elimina la categoría sin cascada.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.changed(ctx)
	return nil
}

// List categorías ordenadas por nombre (sin distinguir mayúsculas ni acentos).
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	cats, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sorted := listing.SortCategories(cats, uc.settings.Locale)
	out := make([]dto.CategoryResponse, 0, len(sorted))
	for _, c := range sorted {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

func (uc *CategoryUseCase) warnDuplicate(ctx context.Context, name, excludeID string) {
	n, err := uc.repo.CountByName(ctx, name, excludeID)
	if err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo verificar nombre duplicado")
		return
	}
	if n > 0 {
		uc.log.Warn().Str("name", name).Int("existing", n).Msg("categoría con nombre duplicado")
	}
}

// Un cambio de categoría también cambia los nombres mostrados en la lista de productos.
func (uc *CategoryUseCase) changed(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for _, topic := range []string{feed.TopicCategories, feed.TopicProducts} {
		if err := uc.notifier.Publish(ctx, topic); err != nil {
			uc.log.Warn().Err(err).Str("topic", topic).Msg("no se pudo notificar el cambio")
		}
	}
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name}
}
