package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporter_EscribeEncabezadosYFilas(t *testing.T) {
	var buf bytes.Buffer
	err := NewCSVExporter().Export(&buf, "Ventas", []string{"Código", "Total"}, [][]string{
		{"TRX-1", "10.00"},
		{"TRX-2", "20.50"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Código,Total\nTRX-1,10.00\nTRX-2,20.50\n", buf.String())
}

func TestCSVExporter_EscapaComasYComillas(t *testing.T) {
	var buf bytes.Buffer
	err := NewCSVExporter().Export(&buf, "", []string{"Cliente"}, [][]string{{`Pérez, "Don" Juan`}})
	require.NoError(t, err)
	assert.Equal(t, "Cliente\n\"Pérez, \"\"Don\"\" Juan\"\n", buf.String())
}

func TestCSVExporter_Metadatos(t *testing.T) {
	e := NewCSVExporter()
	assert.Equal(t, "csv", e.Extension())
	assert.Contains(t, e.ContentType(), "text/csv")
}
