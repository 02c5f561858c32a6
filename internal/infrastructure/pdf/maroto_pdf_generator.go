// Package pdf genera los documentos PDF del almacén con maroto v2.
//
// Reporte de movimientos (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                       │
//	│  FILTROS: acción / rango / búsqueda                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Código | Artículo | Acción | Cant. | Usuario │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Entradas / Salidas / Neto                          │
//	└─────────────────────────────────────────────────────────────┘
//
// Etiqueta de artículo (100x60 mm): nombre, código de barras Code128 y QR.
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/warehouse-api/internal/application/report"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite    = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorAdd      = &props.Color{Red: 0, Green: 110, Blue: 60}
	colorWithdraw = &props.Color{Red: 170, Green: 30, Blue: 30}
	colorHeaderBg = &props.Cell{BackgroundColor: colorPrimary}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ report.PDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa report.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	appName string
}

// NewMarotoPDFGenerator construye el generador; appName va como autor del documento.
func NewMarotoPDFGenerator(appName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{appName: appName}
}

// LedgerReportPDF genera el reporte de movimientos y devuelve sus bytes.
func (g *MarotoPDFGenerator) LedgerReportPDF(_ context.Context, data report.LedgerReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de movimientos", true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(reportHeaderRow(data))
	m.AddRows(filterRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(data.Transactions)...)
	if len(data.Transactions) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos para los filtros indicados.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(data))
	if data.Truncated {
		m.AddRows(row.New(6).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Se muestran los %d movimientos más recientes de %d; los totales incluyen todos.",
				len(data.Transactions), data.TotalCount), props.Text{
				Size: 7, Color: colorGray, Top: 1,
			}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

// ItemLabelPDF genera una etiqueta 100x60 mm con código de barras y QR del código del artículo.
func (g *MarotoPDFGenerator) ItemLabelPDF(_ context.Context, item *entity.Item) ([]byte, error) {
	cfg := config.NewBuilder().
		WithDimensions(100, 60).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(2).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Etiqueta "+item.Code, true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	category := ""
	if item.Category != nil {
		category = item.Category.Name
	}
	m.AddRows(row.New(12).Add(
		col.New(12).Add(
			text.New(item.Name, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary}),
			text.New(nonEmpty(category, "-")+"   |   "+nonEmpty(item.Unit, "und"), props.Text{
				Size: 7, Top: 6, Color: colorGray,
			}),
		),
	))
	m.AddRows(row.New(26).Add(
		col.New(8).Add(
			code.NewBar(item.Code, props.Barcode{Percent: 95, Center: true}),
		),
		col.New(4).Add(
			code.NewQr(item.Code, props.Rect{Percent: 95, Center: true}),
		),
	))
	m.AddRows(row.New(6).Add(
		col.New(8).Add(text.New(item.Code, props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(4).Add(text.New(nonEmpty(item.SecondaryBarcode, ""), props.Text{
			Size: 6, Align: align.Center, Top: 1, Color: colorGray,
		})),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar etiqueta: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// reportHeaderRow: título (izq) y fecha de generación (der).
func reportHeaderRow(data report.LedgerReport) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("REPORTE DE MOVIMIENTOS DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+data.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

// filterRow: resumen de los filtros aplicados.
func filterRow(data report.LedgerReport) core.Row {
	f := data.Filter
	var parts []string
	if f.Action != "" {
		parts = append(parts, "Acción: "+actionLabel(f.Action))
	}
	if f.From != nil {
		parts = append(parts, "Desde: "+f.From.Format("02/01/2006"))
	}
	if f.To != nil {
		parts = append(parts, "Hasta: "+f.To.Format("02/01/2006"))
	}
	if f.Search != "" {
		parts = append(parts, "Búsqueda: "+f.Search)
	}
	summary := "Todos los movimientos"
	if len(parts) > 0 {
		summary = strings.Join(parts, "   |   ")
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(summary, props.Text{Size: 8, Top: 1, Color: colorGray}),
	))
}

// tableHeaderRow: cabecera de la tabla con fondo azul.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Código", 2, align.Left),
		h("Artículo", 4, align.Left),
		h("Acción", 1, align.Center),
		h("Cant.", 1, align.Right),
		h("Usuario", 2, align.Left),
	).WithStyle(colorHeaderBg)
}

// tableDetailRows: una fila por movimiento.
func tableDetailRows(list []*entity.Transaction) []core.Row {
	result := make([]core.Row, 0, len(list))
	for _, t := range list {
		qtyColor := colorAdd
		if t.QuantityChange < 0 {
			qtyColor = colorWithdraw
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(t.Timestamp.Format("02/01/06 15:04"), props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(2).Add(text.New(t.ItemCode, props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(4).Add(text.New(t.ItemName, props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(1).Add(text.New(actionLabel(t.Action), props.Text{Size: 7, Top: 1, Align: align.Center})),
			col.New(1).Add(text.New(formatQty(t.QuantityChange), props.Text{
				Size: 7, Top: 1, Align: align.Right, Right: 1, Color: qtyColor,
			})),
			col.New(2).Add(text.New(t.Username, props.Text{Size: 7, Top: 1, Left: 1})),
		))
	}
	return result
}

// totalsRow: entradas, salidas y neto alineados a la derecha.
func totalsRow(data report.LedgerReport) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Entradas:"),
			text.New("Salidas:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 5}),
			text.New("NETO:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Top: 10, Color: colorPrimary,
			}),
		),
		col.New(3).Add(
			value(formatQty(data.TotalAdded), 0),
			value(formatQty(-data.TotalWithdrawn), 5),
			text.New(formatQty(data.Net), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1, Top: 10, Color: colorPrimary,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func actionLabel(action string) string {
	switch action {
	case entity.ActionAdd:
		return "Entrada"
	case entity.ActionWithdraw:
		return "Salida"
	}
	return action
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQty inserta puntos de miles y conserva el signo.
// Ej: 25000 → "25.000", -1500 → "-1.500".
func formatQty(n int) string {
	s := strconv.Itoa(n)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
