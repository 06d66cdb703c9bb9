package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/inventory"
)

func TestStatusFor_Fronteras(t *testing.T) {
	cases := []struct {
		name        string
		qty         int
		initialized bool
		want        string
	}{
		{"diez en stock", 10, true, entity.StockStatusInStock},
		{"nueve limitado", 9, true, entity.StockStatusLimitStock},
		{"uno limitado", 1, false, entity.StockStatusLimitStock},
		{"cero agotado", 0, true, entity.StockStatusOutOfStock},
		{"cero sin inicializar", 0, false, entity.StockStatusNotSet},
		{"negativo agotado", -3, true, entity.StockStatusOutOfStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, inventory.StatusFor(tc.qty, tc.initialized))
		})
	}
}

func TestMovementType(t *testing.T) {
	assert.Equal(t, entity.MovementTypeIn, inventory.MovementType(5))
	assert.Equal(t, entity.MovementTypeOut, inventory.MovementType(-5))
}

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// 10 u a 1000 + 30 u a 2000 = 70000 / 40 = 1750
	got := inventory.CostCalculator(decimal.NewFromInt(10), decimal.NewFromInt(1000), decimal.NewFromInt(30), decimal.NewFromInt(2000))
	assert.True(t, got.Equal(decimal.NewFromInt(1750)), "got %s", got)
}

func TestCostCalculator_StockNegativoNoPondera(t *testing.T) {
	got := inventory.CostCalculator(decimal.NewFromInt(-4), decimal.NewFromInt(900), decimal.NewFromInt(6), decimal.NewFromInt(1200))
	assert.True(t, got.Equal(decimal.NewFromInt(1200)), "got %s", got)
}
