// Package ports define los puertos de salida de la capa de aplicación.
// Los adaptadores (Redis, Cloudinary, Maroto) implementan estas interfaces en infrastructure.
package ports

import (
	"context"
	"io"
	"time"

	"github.com/jhoicas/stock-dashboard/internal/domain/entity"
)

// ChangeNotifier emite una señal de cambio por tópico (feed.Broker lo implementa).
type ChangeNotifier interface {
	Publish(ctx context.Context, topic string) error
}

// ImageUploader sube una imagen al servidor de imágenes y devuelve su URL pública.
// Un rechazo del servidor devuelve *domain.UploadError. No hay reintentos.
type ImageUploader interface {
	Upload(ctx context.Context, filename string, contentType string, r io.Reader) (string, error)
}

// HistoryReport datos del reporte PDF del historial.
type HistoryReport struct {
	Title        string
	GeneratedAt  time.Time
	Filter       string // descripción legible de los filtros aplicados
	Movements    []*entity.StockMovement
	TotalAdded   int
	TotalRemoved int
}

// HistoryReportGenerator genera la representación PDF del historial.
type HistoryReportGenerator interface {
	GenerateHistoryPDF(ctx context.Context, report HistoryReport) ([]byte, error)
}
