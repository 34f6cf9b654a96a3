package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cucumber/godog"

	appinv "github.com/jhoicas/stock-dashboard/internal/application/inventory"
	"github.com/jhoicas/stock-dashboard/internal/application/feed"
	"github.com/jhoicas/stock-dashboard/internal/domain"
	"github.com/jhoicas/stock-dashboard/internal/domain/entity"
	"github.com/jhoicas/stock-dashboard/internal/domain/inventory"
	"github.com/jhoicas/stock-dashboard/internal/infrastructure/memory"
	"github.com/jhoicas/stock-dashboard/pkg/logger"
)

type adjustScenario struct {
	store *memory.Store
	uc    *appinv.AdjustStockUseCase
	ids   map[string]string
	err   error
	tick  int
}

func (s *adjustScenario) reset() {
	s.store = memory.New()
	s.ids = map[string]string{}
	s.err = nil
	s.tick = 0
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { s.tick++; return base.Add(time.Duration(s.tick) * time.Second) }
	s.uc = appinv.NewAdjustStockUseCase(s.store, feed.NewMemoryBroker(), logger.Nop(), appinv.WithClock(clock))
}

func (s *adjustScenario) aProductWithQuantity(name string, qty int) error {
	id := fmt.Sprintf("p-%d", len(s.ids)+1)
	s.ids[name] = id
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return s.store.Products().Create(context.Background(), &entity.Product{
		ID: id, Name: name, Quantity: qty, CreatedAt: created, UpdatedAt: created,
		BaselineQuantity: qty, BaselineAt: created,
	})
}

func (s *adjustScenario) adjust(direction inventory.Direction) func(string, int) error {
	return func(name string, amount int) error {
		_, s.err = s.uc.Adjust(context.Background(), appinv.AdjustInput{
			ProductID: s.ids[name], Direction: direction, Amount: amount,
		})
		return nil
	}
}

func (s *adjustScenario) theQuantityIs(name string, want int) error {
	p, err := s.store.Products().GetByID(context.Background(), s.ids[name])
	if err != nil {
		return err
	}
	if p.Quantity != want {
		return fmt.Errorf("cantidad %d, se esperaba %d", p.Quantity, want)
	}
	return nil
}

func (s *adjustScenario) theHistoryHasEntries(name string, want int) error {
	hist, err := s.store.Movements().ListByProduct(context.Background(), s.ids[name])
	if err != nil {
		return err
	}
	if len(hist) != want {
		return fmt.Errorf("historial con %d filas, se esperaban %d", len(hist), want)
	}
	return nil
}

func (s *adjustScenario) theLatestEntryIs(name, action string, amount int) error {
	hist, err := s.store.Movements().ListRecent(context.Background(), 1, 0)
	if err != nil {
		return err
	}
	if len(hist) == 0 {
		return errors.New("historial vacío")
	}
	m := hist[0]
	if m.ProductName != name || m.Action != action || m.Amount != amount {
		return fmt.Errorf("última fila %s %s %d", m.ProductName, m.Action, m.Amount)
	}
	return nil
}

func (s *adjustScenario) failsWithInsufficientStock(available int) error {
	var insufficient *domain.InsufficientStockError
	if !errors.As(s.err, &insufficient) {
		return fmt.Errorf("se esperaba stock insuficiente, error: %v", s.err)
	}
	if insufficient.Available != available {
		return fmt.Errorf("available %d, se esperaba %d", insufficient.Available, available)
	}
	return nil
}

func (s *adjustScenario) failsWithInvalidAmount() error {
	if !errors.Is(s.err, domain.ErrInvalidAmount) {
		return fmt.Errorf("se esperaba cantidad inválida, error: %v", s.err)
	}
	return nil
}

func (s *adjustScenario) replayReproduces(name string) error {
	ctx := context.Background()
	p, err := s.store.Products().GetByID(ctx, s.ids[name])
	if err != nil {
		return err
	}
	hist, err := s.store.Movements().ListByProduct(ctx, p.ID)
	if err != nil {
		return err
	}
	return inventory.Reconcile(p, hist).Err()
}

func initializeAdjustScenario(ctx *godog.ScenarioContext) {
	s := &adjustScenario{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		s.reset()
		return ctx, nil
	})

	ctx.Step(`^a product "([^"]*)" with quantity (\d+)$`, s.aProductWithQuantity)
	ctx.Step(`^I decrease "([^"]*)" by (-?\d+)$`, s.adjust(inventory.Decrease))
	ctx.Step(`^I increase "([^"]*)" by (-?\d+)$`, s.adjust(inventory.Increase))
	ctx.Step(`^the quantity of "([^"]*)" is (\d+)$`, s.theQuantityIs)
	ctx.Step(`^the history of "([^"]*)" has (\d+) entries$`, s.theHistoryHasEntries)
	ctx.Step(`^the latest entry of "([^"]*)" is "([^"]*)" (\d+)$`, s.theLatestEntryIs)
	ctx.Step(`^the adjustment fails with insufficient stock and available (\d+)$`, s.failsWithInsufficientStock)
	ctx.Step(`^the adjustment fails with invalid amount$`, s.failsWithInvalidAmount)
	ctx.Step(`^replaying the history of "([^"]*)" reproduces its quantity$`, s.replayReproduces)
}

func TestAdjustStockFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeAdjustScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/adjust_stock.feature"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
