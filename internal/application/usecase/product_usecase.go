package usecase

import (
	"context"
	"strings"
	"time"

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

// ProductUseCase casos de uso CRUD para productos. Los ajustes de stock van por inventory.AdjustStockUseCase;
// aquí la cantidad solo se fija al crear o se sobrescribe con una edición directa (sin historial).
type ProductUseCase struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	txRunner   repository.TxRunner
	notifier   ports.ChangeNotifier
	settings   CatalogSettings
	log        *logger.Logger
	now        func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	categories repository.CategoryRepository,
	txRunner repository.TxRunner,
	notifier ports.ChangeNotifier,
	settings CatalogSettings,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		repo:       repo,
		categories: categories,
		txRunner:   txRunner,
		notifier:   notifier,
		settings:   settings,
		log:        log.Component("products"),
		now:        time.Now,
	}
}

// Create crea un producto. Quantity omitido = 0; la línea base del historial es la cantidad inicial.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	qty := 0
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	if qty < 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	now := uc.now()
	product := &entity.Product{
		ID:               uuid.New().String(),
		Name:             name,
		Quantity:         qty,
		CategoryID:       in.CategoryID,
		Image:            strings.TrimSpace(in.Image),
		Detail:           in.Detail,
		CreatedAt:        now,
		UpdatedAt:        now,
		BaselineQuantity: qty,
		BaselineAt:       now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.changed(ctx)
	return uc.Present(ctx, product)
}

// GetByID obtiene un producto por ID. domain.ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return uc.Present(ctx, product)
}

// Update edición parcial dentro de una transacción con la fila bloqueada, para no pisar
// ajustes concurrentes. Si trae quantity, la cantidad se sobrescribe y la línea base del
// historial se reinicia en ese valor; no se escribe ninguna fila de historial.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var name string
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.CategoryID != nil {
		if err := uc.checkCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, _ repository.StockMovementRepository) error {
		p, err := productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}

		now := uc.now()
		if now.Before(p.UpdatedAt) {
			now = p.UpdatedAt
		}
		if in.Quantity != nil {
			now = baselineAfter(now, p.UpdatedAt)
		}
		if in.Name != nil {
			p.Name = name
		}
		if in.CategoryID != nil {
			p.CategoryID = *in.CategoryID
		}
		if in.Image != nil {
			p.Image = strings.TrimSpace(*in.Image)
		}
		if in.Detail != nil {
			p.Detail = *in.Detail
		}
		p.UpdatedAt = now
		if err := productRepo.Update(ctx, p); err != nil {
			return err
		}
		if in.Quantity != nil {
			if err := productRepo.ResetQuantity(ctx, p.ID, *in.Quantity, now); err != nil {
				return err
			}
			p.Quantity = *in.Quantity
			p.BaselineQuantity = *in.Quantity
			p.BaselineAt = now
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.changed(ctx)
	return uc.Present(ctx, product)
}

// baselineAfter devuelve now truncado a microsegundos (precisión de PostgreSQL) y estrictamente
// posterior a last, el updatedAt previo. Todo movimiento anterior a la edición queda antes de la
// nueva línea base.
func baselineAfter(now, last time.Time) time.Time {
	at := now.Truncate(time.Microsecond)
	if !at.After(last) {
		at = last.Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return at
}

// Delete elimina un producto. Sus filas de historial se conservan con el nombre guardado.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.changed(ctx)
	return nil
}

// List aplica búsqueda, filtro de categoría y orden sobre la instantánea completa.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	sortState, err := listing.ParseSort(q.Sort, q.Order)
	if err != nil {
		return nil, err
	}
	products, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	lookup, err := uc.lookup(ctx)
	if err != nil {
		return nil, err
	}

	filtered := listing.FilterProducts(products, q.Search, q.CategoryID)
	sorted := listing.SortProducts(filtered, sortState, lookup, uc.settings.Locale)

	items := make([]dto.ProductResponse, 0, len(sorted))
	for _, p := range sorted {
		items = append(items, toProductResponse(p, lookup))
	}
	return &dto.ProductListResponse{
		Items: items,
		Sort:  string(sortState.Key),
		Order: string(sortState.Order),
		Total: len(items),
	}, nil
}

// Stats totales del tablero: productos, unidades, stock bajo (<= umbral) y agotados.
func (uc *ProductUseCase) Stats(ctx context.Context) (*dto.ProductStatsResponse, error) {
	products, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductStatsResponse{
		TotalProducts:     len(products),
		LowStockThreshold: uc.settings.LowStockThreshold,
	}
	for _, p := range products {
		out.TotalQuantity += p.Quantity
		if p.Quantity <= uc.settings.LowStockThreshold {
			out.LowStock++
		}
		if p.Quantity == 0 {
			out.OutOfStock++
		}
	}
	return out, nil
}

// Present convierte el producto a su DTO resolviendo el nombre de la categoría.
func (uc *ProductUseCase) Present(ctx context.Context, p *entity.Product) (*dto.ProductResponse, error) {
	lookup, err := uc.lookup(ctx)
	if err != nil {
		return nil, err
	}
	resp := toProductResponse(p, lookup)
	return &resp, nil
}

func (uc *ProductUseCase) lookup(ctx context.Context) (listing.CategoryLookup, error) {
	cats, err := uc.categories.List(ctx)
	if err != nil {
		return listing.CategoryLookup{}, err
	}
	return listing.NewCategoryLookup(cats, uc.settings.UncategorizedLabel), nil
}

// checkCategory: vacío = sin categoría; un ID debe existir al momento de asignarlo.
func (uc *ProductUseCase) checkCategory(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	return nil
}

func (uc *ProductUseCase) changed(ctx context.Context) {
	if err := uc.notifier.Publish(context.WithoutCancel(ctx), feed.TopicProducts); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo notificar el cambio de productos")
	}
}

func toProductResponse(p *entity.Product, lookup listing.CategoryLookup) dto.ProductResponse {
	return dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Quantity:     p.Quantity,
		CategoryID:   p.CategoryID,
		CategoryName: lookup.Name(p.CategoryID),
		Image:        p.Image,
		Detail:       p.Detail,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
