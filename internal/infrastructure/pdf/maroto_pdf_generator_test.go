package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kasir-api/internal/application/report"
	"github.com/jhoicas/kasir-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0,00"},
		{"999.5", "999,50"},
		{"25000", "25.000,00"},
		{"1000000.456", "1.000.000,46"},
		{"-1234.5", "-1.234,50"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMoney(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestColumnSizes_SumaDoce(t *testing.T) {
	for n := 1; n <= 15; n++ {
		sizes := columnSizes(n)
		sum := 0
		for _, s := range sizes {
			sum += s
		}
		assert.Equal(t, gridColumns, sum, "n=%d", n)
	}
	assert.Equal(t, []int{3, 3, 3, 3}, columnSizes(4))
	assert.Equal(t, []int{3, 3, 2, 2, 2}, columnSizes(5))
}

func TestRenderStatement_GeneraPDF(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	customer := &entity.Customer{ID: "c1", Name: "Budi", TotalDebt: decimal.NewFromInt(70)}
	data, err := NewMarotoPDFGenerator().RenderStatement(context.Background(), report.Statement{
		StoreName: "Toko Maju",
		Customer:  customer,
		Items: []*entity.DebtItem{
			entity.NewDebtItem("d1", "s1", "c1", decimal.NewFromInt(100), now),
		},
		Payments: []*entity.DebtPayment{
			{PaymentCode: "PAY-1", Amount: decimal.NewFromInt(30), PaymentMethod: "cash", PaidAt: now},
		},
		GeneratedAt: now,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRenderStatement_SinCliente(t *testing.T) {
	_, err := NewMarotoPDFGenerator().RenderStatement(context.Background(), report.Statement{})
	assert.Error(t, err)
}

func TestTableExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	err := NewTableExporter().Export(&buf, "Ventas", []string{"Código", "Total"}, [][]string{{"TRX-1", "10.00"}})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	assert.Error(t, NewTableExporter().Export(&buf, "Vacío", nil, nil))
}
