// Package export implementa exportadores tabulares que no requieren maquetación.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jhoicas/kasir-api/internal/application/report"
)

var _ report.TableExporter = (*CSVExporter)(nil)

// CSVExporter escribe encabezados y filas en CSV (RFC 4180). El título no se escribe.
type CSVExporter struct{}

// NewCSVExporter construye el exportador.
func NewCSVExporter() *CSVExporter { return &CSVExporter{} }

func (CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }
func (CSVExporter) Extension() string   { return "csv" }

func (CSVExporter) Export(w io.Writer, _ string, headers []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("csv: encabezados: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("csv: filas: %w", err)
	}
	return nil
}
