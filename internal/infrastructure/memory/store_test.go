package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-dashboard/internal/domain"
	"github.com/jhoicas/stock-dashboard/internal/domain/entity"
	"github.com/jhoicas/stock-dashboard/internal/domain/repository"
)

var ctx = context.Background()

func TestProductRepository_CRUD(t *testing.T) {
	s := New()
	repo := s.Products()
	p := &entity.Product{ID: "p1", Name: "Pen", Quantity: 10, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, p))
	assert.Error(t, repo.Create(ctx, p), "ID duplicado")

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	got.Name = "modificado fuera del store"
	again, _ := repo.GetByID(ctx, "p1")
	assert.Equal(t, "Pen", again.Name, "el store guarda copias")

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	now := time.Now()
	require.NoError(t, repo.UpdateQuantity(ctx, "p1", 4, now))
	again, _ = repo.GetByID(ctx, "p1")
	assert.Equal(t, 4, again.Quantity)
	assert.True(t, again.UpdatedAt.Equal(now))
	assert.ErrorIs(t, repo.UpdateQuantity(ctx, "nope", 1, now), domain.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "p1"))
	assert.ErrorIs(t, repo.Delete(ctx, "p1"), domain.ErrNotFound)
}

func TestProductRepository_UpdateConservaCantidad(t *testing.T) {
	s := New()
	repo := s.Products()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &entity.Product{ID: "p1", Name: "Pen", Quantity: 10, UpdatedAt: t0, BaselineQuantity: 10, BaselineAt: t0}
	require.NoError(t, repo.Create(ctx, p))
	require.NoError(t, repo.UpdateQuantity(ctx, "p1", 7, t0.Add(time.Minute)))

	stale := *p
	stale.Name = "Pen azul"
	require.NoError(t, repo.Update(ctx, &stale))
	got, _ := repo.GetByID(ctx, "p1")
	assert.Equal(t, "Pen azul", got.Name)
	assert.Equal(t, 7, got.Quantity)
	assert.True(t, got.UpdatedAt.Equal(t0.Add(time.Minute)))

	at := t0.Add(time.Hour)
	require.NoError(t, repo.ResetQuantity(ctx, "p1", 40, at))
	got, _ = repo.GetByID(ctx, "p1")
	assert.Equal(t, 40, got.Quantity)
	assert.Equal(t, 40, got.BaselineQuantity)
	assert.True(t, got.BaselineAt.Equal(at))
	assert.True(t, got.UpdatedAt.Equal(at))
	assert.ErrorIs(t, repo.Update(ctx, &entity.Product{ID: "nope"}), domain.ErrNotFound)
	assert.ErrorIs(t, repo.ResetQuantity(ctx, "nope", 1, at), domain.ErrNotFound)
}

func TestProductRepository_ListPorCreacion(t *testing.T) {
	s := New()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "b", Name: "B", CreatedAt: t0.Add(time.Minute)}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "a", Name: "A", CreatedAt: t0}))
	list, err := s.Products().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
}

func TestRun_RollbackSiFalla(t *testing.T) {
	s := New()
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p1", Name: "Pen", Quantity: 10}))

	boom := errors.New("boom")
	err := s.Run(ctx, func(products repository.ProductRepository, movements repository.StockMovementRepository) error {
		require.NoError(t, products.UpdateQuantity(ctx, "p1", 7, time.Now()))
		require.NoError(t, movements.Create(ctx, &entity.StockMovement{ID: "m1", ProductID: "p1", Action: "remove", Amount: 3}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, _ := s.Products().GetByID(ctx, "p1")
	assert.Equal(t, 10, p.Quantity)
	hist, _ := s.Movements().ListRecent(ctx, 0, 0)
	assert.Empty(t, hist)
}

func TestRun_CommitVisible(t *testing.T) {
	s := New()
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p1", Name: "Pen", Quantity: 10}))
	err := s.Run(ctx, func(products repository.ProductRepository, movements repository.StockMovementRepository) error {
		if err := products.UpdateQuantity(ctx, "p1", 7, time.Now()); err != nil {
			return err
		}
		return movements.Create(ctx, &entity.StockMovement{ID: "m1", ProductID: "p1", Action: "remove", Amount: 3})
	})
	require.NoError(t, err)
	p, _ := s.Products().GetByID(ctx, "p1")
	assert.Equal(t, 7, p.Quantity)
	hist, _ := s.Movements().ListByProduct(ctx, "p1")
	assert.Len(t, hist, 1)
}

func TestRun_ContextoCancelado(t *testing.T) {
	s := New()
	c, cancel := context.WithCancel(ctx)
	cancel()
	called := false
	err := s.Run(c, func(repository.ProductRepository, repository.StockMovementRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStockMovementRepository_OrdenYPaginacion(t *testing.T) {
	s := New()
	repo := s.Movements()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"m1", "m2", "m3"} {
		require.NoError(t, repo.Create(ctx, &entity.StockMovement{ID: id, ProductID: "p1", Action: "add", Amount: 1, Timestamp: t0.Add(time.Duration(i) * time.Minute)}))
	}
	require.NoError(t, repo.Create(ctx, &entity.StockMovement{ID: "x", ProductID: "p2", Action: "add", Amount: 1, Timestamp: t0.Add(-time.Minute)}))

	recent, err := repo.ListRecent(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"m3", "m2", "m1", "x"}, idsOf(recent))

	pg, _ := repo.ListRecent(ctx, 2, 1)
	assert.Equal(t, []string{"m2", "m1"}, idsOf(pg))
	empty, _ := repo.ListRecent(ctx, 2, 10)
	assert.Empty(t, empty)

	byProduct, _ := repo.ListByProduct(ctx, "p1")
	assert.Equal(t, []string{"m1", "m2", "m3"}, idsOf(byProduct))
}

func TestCategoryRepository_CountByName(t *testing.T) {
	s := New()
	repo := s.Categories()
	require.NoError(t, repo.Create(ctx, &entity.Category{ID: "c1", Name: "Stationery"}))
	require.NoError(t, repo.Create(ctx, &entity.Category{ID: "c2", Name: "Toys"}))

	n, err := repo.CountByName(ctx, "stationery", "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, _ = repo.CountByName(ctx, "stationery", "c1")
	assert.Equal(t, 0, n)

	require.NoError(t, repo.Update(ctx, &entity.Category{ID: "c2", Name: "Juguetes"}))
	got, _ := repo.GetByID(ctx, "c2")
	assert.Equal(t, "Juguetes", got.Name)
	assert.ErrorIs(t, repo.Update(ctx, &entity.Category{ID: "zz", Name: "x"}), domain.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "c1"))
	list, _ := repo.List(ctx)
	assert.Len(t, list, 1)
}

func idsOf(ms []*entity.StockMovement) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}
