// Package pdf genera documentos PDF con Maroto v2: el estado de cuenta de deuda de un
// cliente y la exportación tabular genérica de reportes.
//
// Layout del estado de cuenta (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda               │  ESTADO DE CUENTA + Fecha   │
//	│  CLIENTE: Nombre / Tel / Dirección                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  LÍNEAS: Fecha | Estado | Total | Pagado | Pendiente        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PAGOS: Fecha | Código | Método | Monto                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SALDO PENDIENTE                                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kasir-api/internal/application/report"
	"github.com/jhoicas/kasir-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ report.StatementRenderer = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa report.StatementRenderer usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// RenderStatement genera el estado de cuenta y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderStatement(_ context.Context, s report.Statement) ([]byte, error) {
	if s.Customer == nil {
		return nil, fmt.Errorf("pdf: estado de cuenta sin cliente")
	}
	m := newDocument("Estado de cuenta", s.StoreName)

	m.AddRows(headerRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(s.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("LÍNEAS DE DEUDA"))
	m.AddRows(itemsHeaderRow())
	for _, r := range itemRows(s.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle("PAGOS REGISTRADOS"))
	m.AddRows(paymentsHeaderRow())
	for _, r := range paymentRows(s.Payments) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(balanceRow(s.Customer))
	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(30).Add(
		col.New(3).Add(code.NewQr("customer:"+s.Customer.ID, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(text.New(
			"Documento informativo. El saldo puede variar con pagos o ventas a crédito posteriores a la fecha de emisión.",
			props.Text{Size: 7, Top: 4, Left: 3, Color: colorGray},
		)),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func newDocument(title, author string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(nonEmpty(author, "kasir"), true).
		Build()
	return maroto.New(cfg)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la tienda (izq) y título + fecha de emisión (der).
func headerRow(s report.Statement) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(s.StoreName, "-"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("ESTADO DE CUENTA", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido: "+s.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func customerRow(c *entity.Customer) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(c.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("Tel: %s   |   Dirección: %s",
				nonEmpty(c.Phone, "-"),
				nonEmpty(c.Address, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

type column struct {
	label string
	size  int
	align align.Type
}

var itemColumns = []column{
	{"Fecha", 3, align.Left},
	{"Estado", 2, align.Center},
	{"Total", 2, align.Right},
	{"Pagado", 2, align.Right},
	{"Pendiente", 3, align.Right},
}

var paymentColumns = []column{
	{"Fecha", 3, align.Left},
	{"Código", 4, align.Left},
	{"Método", 2, align.Center},
	{"Monto", 3, align.Right},
}

func headerCells(cols []column) core.Row {
	cells := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		cells = append(cells, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(7).Add(cells...)
}

func bodyCells(cols []column, values []string) core.Row {
	cells := make([]core.Col, 0, len(cols))
	for i, c := range cols {
		cells = append(cells, col.New(c.size).Add(text.New(values[i], props.Text{
			Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(6).Add(cells...)
}

func itemsHeaderRow() core.Row    { return headerCells(itemColumns) }
func paymentsHeaderRow() core.Row { return headerCells(paymentColumns) }

func itemRows(items []*entity.DebtItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, bodyCells(itemColumns, []string{
			it.CreatedAt.Format("02/01/2006"),
			it.Status,
			formatMoney(it.TotalAmount),
			formatMoney(it.PaidAmount),
			formatMoney(it.RemainingAmount),
		}))
	}
	return result
}

func paymentRows(payments []*entity.DebtPayment) []core.Row {
	result := make([]core.Row, 0, len(payments))
	for _, p := range payments {
		result = append(result, bodyCells(paymentColumns, []string{
			p.PaidAt.Format("02/01/2006"),
			p.PaymentCode,
			p.PaymentMethod,
			formatMoney(p.Amount),
		}))
	}
	return result
}

// balanceRow: saldo pendiente del cliente alineado a la derecha.
func balanceRow(c *entity.Customer) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("SALDO PENDIENTE:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(formatMoney(c.TotalDebt), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con separador de miles y dos decimales.
// Ej: 25000 → "25.000,00", -1234.5 → "-1.234,50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(c)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}
