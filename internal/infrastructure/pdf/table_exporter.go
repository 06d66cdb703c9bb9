package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/kasir-api/internal/application/report"
)

var _ report.TableExporter = (*TableExporter)(nil)

// gridColumns ancho total de la grilla de Maroto.
const gridColumns = 12

// TableExporter exporta reportes tabulares a PDF. Las columnas se reparten la grilla de 12;
// con más de 12 columnas el resto se omite.
type TableExporter struct {
	now func() time.Time
}

// NewTableExporter construye el exportador PDF.
func NewTableExporter() *TableExporter {
	return &TableExporter{now: time.Now}
}

func (e *TableExporter) ContentType() string { return "application/pdf" }
func (e *TableExporter) Extension() string   { return "pdf" }

// Export escribe el PDF con título, fecha de emisión y la tabla.
func (e *TableExporter) Export(w io.Writer, title string, headers []string, rows [][]string) error {
	if len(headers) == 0 {
		return fmt.Errorf("pdf: exportación sin columnas")
	}
	sizes := columnSizes(len(headers))
	m := newDocument(title, "")

	m.AddRows(row.New(14).Add(
		col.New(8).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 2,
		})),
		col.New(4).Add(text.New("Emitido: "+e.now().Format("02/01/2006 15:04"), props.Text{
			Size: 8, Align: align.Right, Top: 4, Color: colorGray,
		})),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.4}))
	m.AddRows(tableRow(sizes, headers, true))
	for _, r := range rows {
		m.AddRows(tableRow(sizes, r, false))
	}

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("pdf: generar documento: %w", err)
	}
	if _, err := w.Write(doc.GetBytes()); err != nil {
		return fmt.Errorf("pdf: escribir documento: %w", err)
	}
	return nil
}

// columnSizes reparte las 12 columnas de la grilla; las primeras reciben el sobrante.
func columnSizes(n int) []int {
	if n > gridColumns {
		n = gridColumns
	}
	sizes := make([]int, n)
	base, extra := gridColumns/n, gridColumns%n
	for i := range sizes {
		sizes[i] = base
		if i < extra {
			sizes[i]++
		}
	}
	return sizes
}

func tableRow(sizes []int, values []string, header bool) core.Row {
	style := fontstyle.Normal
	height := 6.0
	if header {
		style = fontstyle.Bold
		height = 7
	}
	cells := make([]core.Col, 0, len(sizes))
	for i, size := range sizes {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		cells = append(cells, col.New(size).Add(text.New(v, props.Text{
			Style: style, Size: 7, Top: 1, Left: 0.5, Right: 0.5,
		})))
	}
	return row.New(height).Add(cells...)
}
