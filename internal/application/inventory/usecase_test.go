package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kasir-api/internal/application/inventory"
	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
	"github.com/jhoicas/kasir-api/internal/testutil"
)

func newUseCase(f *testutil.Fixture, allowNegative bool) *inventory.AdjustStockUseCase {
	return inventory.NewAdjustStockUseCase(f.Tx, f.Repos.Variants, f.Repos.Stock, f.Repos.Movements, inventory.Options{
		AllowNegative: allowNegative,
		Clock:         f.Clock(),
	})
}

func TestAdjust_FronterasDeTierYUnMovimientoPorAjuste(t *testing.T) {
	f := testutil.New(t, 0)
	v := f.Variant(t, "Beras 5kg", 70000, 60000, 12)
	uc := newUseCase(f, false)
	ctx := context.Background()

	steps := []struct {
		delta  int
		qty    int
		status string
	}{
		{-2, 10, entity.StockStatusInStock},
		{-1, 9, entity.StockStatusLimitStock},
		{-9, 0, entity.StockStatusOutOfStock},
		{+1, 1, entity.StockStatusLimitStock},
	}
	for _, s := range steps {
		rec, err := uc.Adjust(ctx, f.Admin, inventory.AdjustInput{VariantID: v.ID, Delta: s.delta})
		require.NoError(t, err)
		assert.Equal(t, s.qty, rec.Quantity)
		assert.Equal(t, s.status, rec.Status)
	}

	movs, total, err := uc.ListMovements(ctx, f.Admin, v.ID, repository.ListParams{SortDir: "asc"})
	require.NoError(t, err)
	assert.Equal(t, len(steps), total)
	for i, s := range steps {
		assert.Equal(t, s.delta, movs[i].Quantity)
		assert.Equal(t, "ajuste manual", movs[i].Reference)
		assert.Equal(t, f.Admin.OperatorID, movs[i].CreatedBy)
	}
	assert.Equal(t, entity.MovementTypeOut, movs[0].Type)
	assert.Equal(t, entity.MovementTypeIn, movs[3].Type)
}

func TestAdjust_StockNegativoRechazado(t *testing.T) {
	f := testutil.New(t, 0)
	v := f.Variant(t, "Gula 1kg", 15000, 12000, 1)
	uc := newUseCase(f, false)

	_, err := uc.Adjust(context.Background(), f.Admin, inventory.AdjustInput{VariantID: v.ID, Delta: -2})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, f.Stock(t, v.ID))

	_, total, err := uc.ListMovements(context.Background(), f.Admin, v.ID, repository.ListParams{})
	require.NoError(t, err)
	assert.Zero(t, total, "un ajuste rechazado no deja movimiento")
}

func TestAdjust_StockNegativoPermitido(t *testing.T) {
	f := testutil.New(t, 0)
	v := f.Variant(t, "Gula 1kg", 15000, 12000, 1)
	uc := newUseCase(f, true)

	rec, err := uc.Adjust(context.Background(), f.Admin, inventory.AdjustInput{VariantID: v.ID, Delta: -3})
	require.NoError(t, err)
	assert.Equal(t, -2, rec.Quantity)
	assert.Equal(t, entity.StockStatusOutOfStock, rec.Status)
}

func TestAdjust_Validaciones(t *testing.T) {
	f := testutil.New(t, 0)
	v := f.Variant(t, "Teh", 5000, 3000, 5)
	other := testutil.New(t, 0)
	uc := newUseCase(f, false)
	ctx := context.Background()

	_, err := uc.Adjust(ctx, f.Admin, inventory.AdjustInput{VariantID: v.ID, Delta: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.Adjust(ctx, f.Admin, inventory.AdjustInput{VariantID: "no-existe", Delta: 1})
	assert.ErrorIs(t, err, domain.ErrVariantNotFound)

	_, err = uc.Adjust(ctx, f.Cashier, inventory.AdjustInput{VariantID: v.ID, Delta: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Otra tienda no ve la variante.
	otherAdmin := other.Admin
	_, err = uc.GetStock(ctx, otherAdmin, v.ID)
	assert.ErrorIs(t, err, domain.ErrVariantNotFound)
}

func TestRestock_SumaStockYPromediaCosto(t *testing.T) {
	f := testutil.New(t, 0)
	v := f.Variant(t, "Minyak 2L", 40000, 30000, 10)
	uc := newUseCase(f, false)
	ctx := context.Background()

	rec, err := uc.Restock(ctx, f.Admin, inventory.RestockInput{
		VariantID: v.ID,
		Quantity:  10,
		UnitCost:  decimal.NewFromInt(34000),
		Supplier:  "PT Sumber",
	})
	require.NoError(t, err)
	assert.Equal(t, 20, rec.Quantity)
	assert.Equal(t, entity.StockStatusInStock, rec.Status)

	updated, err := f.Repos.Variants.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, testutil.Dec("32000").Equal(updated.Cost), "costo promedio: %s", updated.Cost)

	latest, err := f.Repos.Restocks.LatestByVariant(ctx, v.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, testutil.Dec("340000").Equal(latest.TotalCost))
}

func TestRestock_CantidadInvalida(t *testing.T) {
	f := testutil.New(t, 0)
	v := f.Variant(t, "Kopi", 2000, 1000, 0)
	uc := newUseCase(f, false)

	_, err := uc.Restock(context.Background(), f.Admin, inventory.RestockInput{VariantID: v.ID, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.Restock(context.Background(), f.Admin, inventory.RestockInput{
		VariantID: v.ID, Quantity: 1, UnitCost: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestGetStock_VarianteSinRegistro(t *testing.T) {
	f := testutil.New(t, 0)
	v := f.Variant(t, "Sabun", 3000, 2000, 0)
	uc := newUseCase(f, false)

	rec, err := uc.GetStock(context.Background(), f.Cashier, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Quantity)

	_, err = uc.GetStock(context.Background(), f.Cashier, "sabun-1")
	assert.ErrorIs(t, err, domain.ErrVariantNotFound)
	_, _, err = uc.ListMovements(context.Background(), f.Cashier, "sabun-1", repository.ListParams{})
	assert.ErrorIs(t, err, domain.ErrVariantNotFound)
}
