// Package pdf genera el reporte PDF del historial de movimientos de stock.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + filtros     │  Fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Producto | Acción | Cantidad                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Entradas / Salidas / Neto                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stock-dashboard/internal/application/ports"
	"github.com/jhoicas/stock-dashboard/internal/domain/entity"
)

var _ ports.HistoryReportGenerator = (*MarotoHistoryReport)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAdd     = &props.Color{Red: 22, Green: 128, Blue: 61}
	colorRemove  = &props.Color{Red: 185, Green: 28, Blue: 28}
)

const timestampLayout = "02/01/2006 15:04"

// MarotoHistoryReport implementa ports.HistoryReportGenerator usando Maroto v2.
type MarotoHistoryReport struct {
	author string
}

// NewMarotoHistoryReport construye el generador. author va en los metadatos del PDF.
func NewMarotoHistoryReport(author string) *MarotoHistoryReport {
	return &MarotoHistoryReport{author: author}
}

// GenerateHistoryPDF genera el PDF y devuelve sus bytes.
func (g *MarotoHistoryReport) GenerateHistoryPDF(_ context.Context, report ports.HistoryReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(report.Title, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(report.Movements) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin movimientos para los filtros seleccionados.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	for _, r := range movementRows(report.Movements) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título y filtros (izq), fecha de generación (der).
func headerRow(report ports.HistoryReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(report.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Filtros: "+nonEmpty(report.Filter, "ninguno"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(report.GeneratedAt.Format(timestampLayout), props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 3, align.Left),
		h("Producto", 5, align.Left),
		h("Acción", 2, align.Center),
		h("Cantidad", 2, align.Right),
	)
}

// movementRows: una fila por movimiento, en el orden recibido.
func movementRows(movements []*entity.StockMovement) []core.Row {
	result := make([]core.Row, 0, len(movements))
	for _, m := range movements {
		label, color := actionLabel(m.Action)
		result = append(result, row.New(6).Add(
			col.New(3).Add(text.New(m.Timestamp.Format(timestampLayout), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(m.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(label, props.Text{Size: 8, Align: align.Center, Top: 1, Color: color})),
			col.New(2).Add(text.New(signedAmount(m), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalsRow(report ports.HistoryReport) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	net := report.TotalAdded - report.TotalRemoved
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Movimientos:"),
			label("Entradas:"),
			label("Salidas:"),
			label("Neto:"),
		),
		col.New(3).Add(
			value(formatThousands(len(report.Movements))),
			value("+"+formatThousands(report.TotalAdded)),
			value("-"+formatThousands(report.TotalRemoved)),
			value(signed(net)),
		),
	)
}

func actionLabel(action string) (string, *props.Color) {
	if action == entity.MovementActionRemove {
		return "Salida", colorRemove
	}
	return "Entrada", colorAdd
}

func signedAmount(m *entity.StockMovement) string {
	return signed(m.Signed())
}

func signed(n int) string {
	if n < 0 {
		return "-" + formatThousands(-n)
	}
	return "+" + formatThousands(n)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatThousands inserta puntos de miles. Ej: 25000 → "25.000".
func formatThousands(n int) string {
	s := strconv.Itoa(n)
	l := len(s)
	if l <= 3 {
		return s
	}
	buf := make([]byte, 0, l+l/3)
	for i, c := range []byte(s) {
		if i > 0 && (l-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
