package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/stock-dashboard/internal/application/dto"
	"github.com/jhoicas/stock-dashboard/internal/application/ports"
	"github.com/jhoicas/stock-dashboard/internal/domain/entity"
	"github.com/jhoicas/stock-dashboard/internal/domain/listing"
	"github.com/jhoicas/stock-dashboard/internal/domain/repository"
)

// HistoryUseCase consultas sobre el historial de movimientos (solo lectura).
type HistoryUseCase struct {
	repo     repository.StockMovementRepository
	reporter ports.HistoryReportGenerator
	now      func() time.Time
}

// NewHistoryUseCase construye el caso de uso. reporter puede ser nil si no se expone el PDF.
func NewHistoryUseCase(repo repository.StockMovementRepository, reporter ports.HistoryReportGenerator) *HistoryUseCase {
	return &HistoryUseCase{repo: repo, reporter: reporter, now: time.Now}
}

// List filtra por acción y nombre guardado, del más reciente al más antiguo. Limit 0 = todo.
func (uc *HistoryUseCase) List(ctx context.Context, q dto.HistoryQuery) (*dto.HistoryListResponse, error) {
	filtered, err := uc.filtered(ctx, q)
	if err != nil {
		return nil, err
	}
	q.Normalize()
	total := len(filtered)
	start := q.Offset
	if start > total {
		start = total
	}
	end := total
	if q.Limit > 0 && start+q.Limit < total {
		end = start + q.Limit
	}
	return &dto.HistoryListResponse{
		Items: toMovementResponses(filtered[start:end]),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// ListByProduct movimientos de un producto en orden cronológico (también si el producto ya no existe).
func (uc *HistoryUseCase) ListByProduct(ctx context.Context, productID string) ([]dto.MovementResponse, error) {
	ms, err := uc.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(ms), nil
}

// Report genera el PDF del historial filtrado.
func (uc *HistoryUseCase) Report(ctx context.Context, q dto.HistoryQuery) ([]byte, error) {
	if uc.reporter == nil {
		return nil, fmt.Errorf("history: reporte PDF no configurado")
	}
	filtered, err := uc.filtered(ctx, q)
	if err != nil {
		return nil, err
	}
	report := ports.HistoryReport{
		Title:       "Historial de movimientos",
		GeneratedAt: uc.now(),
		Filter:      describeFilter(q),
		Movements:   filtered,
	}
	for _, m := range filtered {
		if m.Action == entity.MovementActionRemove {
			report.TotalRemoved += m.Amount
		} else {
			report.TotalAdded += m.Amount
		}
	}
	return uc.reporter.GenerateHistoryPDF(ctx, report)
}

func (uc *HistoryUseCase) filtered(ctx context.Context, q dto.HistoryQuery) ([]*entity.StockMovement, error) {
	action, err := listing.ParseActionFilter(q.Action)
	if err != nil {
		return nil, err
	}
	all, err := uc.repo.ListRecent(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	return listing.FilterMovements(listing.NewestFirst(all), action, q.Search), nil
}

func describeFilter(q dto.HistoryQuery) string {
	action, _ := listing.ParseActionFilter(q.Action)
	parts := []string{"acción: " + action}
	if s := strings.TrimSpace(q.Search); s != "" {
		parts = append(parts, fmt.Sprintf("búsqueda: %q", s))
	}
	return strings.Join(parts, " | ")
}

func toMovementResponses(ms []*entity.StockMovement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToMovementResponse(m))
	}
	return out
}

// ToMovementResponse convierte una fila del historial a su DTO.
func ToMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Action:      m.Action,
		Amount:      m.Amount,
		Timestamp:   m.Timestamp,
	}
}
