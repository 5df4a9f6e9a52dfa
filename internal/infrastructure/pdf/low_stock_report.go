// Package pdf implementa la representación gráfica del reporte de stock bajo
// mínimo: una tabla A4 con los productos en o por debajo de su nivel de
// reposición, para imprimir y revisar en bodega.
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/gp-0001/n-surgicals/internal/application/inventory"
	"github.com/gp-0001/n-surgicals/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var _ inventory.ReportGenerator = (*LowStockReportGenerator)(nil)

// LowStockReportGenerator implementa inventory.ReportGenerator usando Maroto v2.
type LowStockReportGenerator struct{}

// NewLowStockReportGenerator construye el generador.
func NewLowStockReportGenerator() *LowStockReportGenerator { return &LowStockReportGenerator{} }

// LowStockReport genera el PDF y devuelve sus bytes.
func (g *LowStockReportGenerator) LowStockReport(generatedAt time.Time, products []*entity.Product) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de stock bajo mínimo", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(generatedAt, len(products)))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, p := range products {
		m.AddRows(productRow(p))
	}
	if len(products) == 0 {
		m.AddRows(row.New(8).Add(
			text.NewCol(12, "Sin productos bajo mínimo.", props.Text{
				Align: align.Center, Color: colorGray, Style: fontstyle.Italic,
			}),
		))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render PDF: %w", err)
	}
	return documentBytes(doc), nil
}

func headerRow(generatedAt time.Time, total int) core.Row {
	return row.New(14).Add(
		text.NewCol(8, "Stock bajo mínimo", props.Text{
			Size: 14, Style: fontstyle.Bold, Color: colorPrimary, Align: align.Left,
		}),
		text.NewCol(4,
			fmt.Sprintf("%s · %d producto(s)", generatedAt.Format("2006-01-02 15:04"), total),
			props.Text{Size: 8, Color: colorGray, Align: align.Right, Top: 3},
		),
	)
}

func tableHeaderRow() core.Row {
	header := props.Text{Size: 9, Style: fontstyle.Bold, Color: colorPrimary}
	return row.New(7).Add(
		text.NewCol(5, "Producto", header),
		text.NewCol(3, "Categoría", header),
		text.NewCol(2, "Stock", mergeAlign(header, align.Right)),
		text.NewCol(2, "Mínimo", mergeAlign(header, align.Right)),
	)
}

func productRow(p *entity.Product) core.Row {
	stockProps := props.Text{Size: 9, Align: align.Right}
	if p.CurrentStock == 0 {
		stockProps.Color = colorAlert
		stockProps.Style = fontstyle.Bold
	}
	return row.New(6).Add(
		text.NewCol(5, p.Name, props.Text{Size: 9}),
		text.NewCol(3, p.Category, props.Text{Size: 9, Color: colorGray}),
		text.NewCol(2, fmt.Sprintf("%d", p.CurrentStock), stockProps),
		text.NewCol(2, fmt.Sprintf("%d", p.MinStockLevel), props.Text{Size: 9, Align: align.Right, Color: colorGray}),
	)
}

func mergeAlign(t props.Text, a align.Type) props.Text {
	t.Align = a
	return t
}

func documentBytes(doc core.Document) []byte {
	return doc.GetBytes()
}
