// Package pdf genera la versión imprimible del reporte de utilidades.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Negocio                 │  Período + Producto      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Ventas / Costo de ventas / Gastos / Utilidad      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Vendido | Ventas | Costo | Utilidad | …  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: transacciones incluidas + fecha de generación      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

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
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLoss    = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ProfitReportPDF implementa report.ProfitReportRenderer usando Maroto v2.
type ProfitReportPDF struct {
	printer *message.Printer
	now     func() time.Time
}

// NewProfitReportPDF construye el generador. Los importes se formatean en español.
func NewProfitReportPDF() *ProfitReportPDF {
	return &ProfitReportPDF{printer: message.NewPrinter(language.Spanish), now: time.Now}
}

// RenderProfitReport genera el PDF y devuelve sus bytes.
func (g *ProfitReportPDF) RenderProfitReport(_ context.Context, rep *dto.ProfitReportDTO, businessName string) ([]byte, error) {
	if rep == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de utilidades", true).
		WithAuthor(nonEmpty(businessName, "Inventario"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(rep, businessName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.summaryRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.tableRows(rep.ProductBreakdown)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(g.footerRow(rep))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *ProfitReportPDF) headerRow(rep *dto.ProfitReportDTO, businessName string) core.Row {
	product := "Todos los productos"
	if rep.ProductID != "" {
		product = "Producto: " + rep.ProductID
		if len(rep.ProductBreakdown) == 1 {
			product = "Producto: " + rep.ProductBreakdown[0].ProductName
		}
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(businessName, "Inventario"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("REPORTE DE UTILIDADES", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(period(rep.StartDate, rep.EndDate), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
			}),
			text.New(product, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// summaryRow: bloque de totales. Con filtro de producto no hay gastos.
func (g *ProfitReportPDF) summaryRow(rep *dto.ProfitReportDTO) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(d decimal.Decimal) core.Component {
		return text.New(g.money(d), props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	profitColor := colorPrimary
	if rep.TotalProfit.IsNegative() {
		profitColor = colorLoss
	}

	return row.New(32).Add(
		col.New(3).Add(
			label("Compras:"),
		),
		col.New(3).Add(
			value(rep.TotalPurchase),
		),
		col.New(3).Add(
			label("Ventas:"),
			label("Costo de ventas:"),
			label("Utilidad bruta:"),
			label("Gastos adicionales:"),
			text.New("UTILIDAD:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: profitColor, Right: 2,
			}),
		),
		col.New(3).Add(
			value(rep.TotalSale),
			value(rep.TotalCostOfGoodsSold),
			value(rep.GrossProfit),
			value(rep.TotalOtherExpenses),
			text.New(g.money(rep.TotalProfit), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: profitColor, Right: 1,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 3, align.Left),
		h("Vendido", 1, align.Right),
		h("Ventas", 2, align.Right),
		h("Costo", 2, align.Right),
		h("Utilidad", 2, align.Right),
		h("Stock", 2, align.Right),
	)
}

// tableRows: una fila por producto del desglose.
func (g *ProfitReportPDF) tableRows(items []dto.ProductProfitDTO) []core.Row {
	if len(items) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos en el período.", props.Text{
				Size: 8, Align: align.Center, Top: 2, Color: colorGray,
			}),
		))}
	}
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		cell := func(s string, size int) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}))
		}
		out = append(out, row.New(7).Add(
			col.New(3).Add(text.New(it.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			cell(g.quantity(it.SoldQuantity, it.Unit), 1),
			cell(g.money(it.SalesAmount), 2),
			cell(g.money(it.CostOfGoodsSold), 2),
			cell(g.money(it.Profit), 2),
			cell(g.quantity(it.CurrentStock, it.Unit), 2),
		))
	}
	return out
}

func (g *ProfitReportPDF) footerRow(rep *dto.ProfitReportDTO) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(g.printer.Sprintf("%d compras y %d ventas incluidas. Generado el %s.",
			rep.PurchaseCount, rep.SaleCount, g.now().Format("02/01/2006 15:04")),
			props.Text{Size: 7, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea con separador de miles según el idioma, ej: "$1.234.567,50".
func (g *ProfitReportPDF) money(d decimal.Decimal) string {
	return g.printer.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}

func (g *ProfitReportPDF) quantity(d decimal.Decimal, unit string) string {
	s := d.String()
	if d.IsInteger() {
		s = g.printer.Sprintf("%d", d.IntPart())
	}
	if unit == "" {
		return s
	}
	return s + " " + unit
}

func period(from, to string) string {
	switch {
	case from == "" && to == "":
		return "Todo el historial"
	case from == "":
		return "Hasta " + to
	case to == "":
		return "Desde " + from
	default:
		return from + " a " + to
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
