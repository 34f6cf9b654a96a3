package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-dashboard/internal/application/ports"
	"github.com/jhoicas/stock-dashboard/internal/domain/entity"
)

func TestGenerateHistoryPDF(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	report := ports.HistoryReport{
		Title:       "Historial de stock",
		GeneratedAt: now,
		Filter:      "acción: salida",
		Movements: []*entity.StockMovement{
			{ID: "m2", ProductName: "Pen", Action: entity.MovementActionRemove, Amount: 3, Timestamp: now},
			{ID: "m1", ProductName: "Pen", Action: entity.MovementActionAdd, Amount: 10, Timestamp: now.Add(-time.Hour)},
		},
		TotalAdded:   10,
		TotalRemoved: 3,
	}

	out, err := NewMarotoHistoryReport("stock-dashboard").GenerateHistoryPDF(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateHistoryPDF_SinMovimientos(t *testing.T) {
	out, err := NewMarotoHistoryReport("").GenerateHistoryPDF(context.Background(), ports.HistoryReport{
		Title: "Historial de stock", GeneratedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "0", formatThousands(0))
	assert.Equal(t, "999", formatThousands(999))
	assert.Equal(t, "25.000", formatThousands(25000))
	assert.Equal(t, "1.000.000", formatThousands(1000000))
	assert.Equal(t, "-1.500", signed(-1500))
	assert.Equal(t, "+7", signed(7))
}
