package cart_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kasir-api/internal/application/cart"
	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/internal/testutil"
)

const code = "TRX-001"

func newUseCase(f *testutil.Fixture) *cart.CartUseCase {
	return cart.NewCartUseCase(f.Tx, f.Repos.Carts, f.Clock())
}

func TestAddItem_DosVecesSumaCantidad(t *testing.T) {
	f := testutil.New(t, 0)
	v := f.Variant(t, "Indomie", 3500, 2500, 50)
	uc := newUseCase(f)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, f.Cashier, cart.AddItemInput{TransactionCode: code, VariantID: v.ID})
	require.NoError(t, err)
	c, err := uc.AddItem(ctx, f.Cashier, cart.AddItemInput{TransactionCode: code, VariantID: v.ID})
	require.NoError(t, err)

	require.Len(t, c.Items, 1, "la misma variante no genera una segunda línea")
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.True(t, testutil.Dec("7000").Equal(c.Items[0].TotalPrice))
	assert.True(t, testutil.Dec("7000").Equal(c.TotalPrice))
}

func TestAddItem_PrecioManualYVariantesDistintas(t *testing.T) {
	f := testutil.New(t, 0)
	a := f.Variant(t, "Kopi", 2000, 1000, 10)
	b := f.Variant(t, "Teh", 1500, 800, 10)
	uc := newUseCase(f)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, f.Cashier, cart.AddItemInput{TransactionCode: code, VariantID: a.ID, UnitPrice: decimal.NewFromInt(1800)})
	require.NoError(t, err)
	c, err := uc.AddItem(ctx, f.Cashier, cart.AddItemInput{TransactionCode: code, VariantID: b.ID})
	require.NoError(t, err)

	require.Len(t, c.Items, 2)
	assert.True(t, testutil.Dec("3300").Equal(c.TotalPrice), "total: %s", c.TotalPrice)
}

func TestAddItem_Validaciones(t *testing.T) {
	f := testutil.New(t, 0)
	v := f.Variant(t, "Kopi", 2000, 1000, 10)
	uc := newUseCase(f)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, f.Cashier, cart.AddItemInput{TransactionCode: code, VariantID: "nope"})
	assert.ErrorIs(t, err, domain.ErrVariantNotFound)

	_, err = uc.AddItem(ctx, f.Cashier, cart.AddItemInput{TransactionCode: code, VariantID: v.ID, ProductID: "otro"})
	assert.ErrorIs(t, err, domain.ErrVariantNotFound)

	_, err = uc.AddItem(ctx, f.Cashier, cart.AddItemInput{TransactionCode: code, VariantID: v.ID, UnitPrice: decimal.NewFromInt(-5)})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	// NUMERIC(18,2): un precio con tres decimales no se guardaría tal cual.
	_, err = uc.AddItem(ctx, f.Cashier, cart.AddItemInput{TransactionCode: code, VariantID: v.ID, UnitPrice: testutil.Dec("1500.005")})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = uc.Get(ctx, f.Cashier, code)
	assert.ErrorIs(t, err, domain.ErrCartNotFound, "un importe rechazado no crea el carrito")

	_, err = uc.AddItem(ctx, f.Cashier, cart.AddItemInput{VariantID: v.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Un error no deja un carrito vacío a medio crear.
	_, err = uc.Get(ctx, f.Cashier, code)
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestChangeVariant_FusionaConLineaExistente(t *testing.T) {
	f := testutil.New(t, 0)
	a := f.Variant(t, "Aqua 600ml", 4000, 3000, 20)
	b := f.Variant(t, "Aqua 1.5L", 7000, 5000, 20)
	uc := newUseCase(f)
	ctx := context.Background()

	c, err := uc.AddItem(ctx, f.Cashier, cart.AddItemInput{TransactionCode: code, VariantID: a.ID})
	require.NoError(t, err)
	itemA := c.Items[0]
	_, err = uc.SetQuantity(ctx, f.Cashier, itemA.ID, 2)
	require.NoError(t, err)

	c, err = uc.AddItem(ctx, f.Cashier, cart.AddItemInput{TransactionCode: code, VariantID: b.ID})
	require.NoError(t, err)
	var itemB string
	for _, it := range c.Items {
		if it.VariantID == b.ID {
			itemB = it.ID
		}
	}
	_, err = uc.SetQuantity(ctx, f.Cashier, itemB, 3)
	require.NoError(t, err)

	items, err := uc.ChangeVariant(ctx, f.Cashier, itemA.ID, b.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].VariantID)
	assert.Equal(t, 5, items[0].Quantity)
	assert.True(t, testutil.Dec("35000").Equal(items[0].TotalPrice))

	got, err := uc.Get(ctx, f.Cashier, code)
	require.NoError(t, err)
	assert.True(t, testutil.Dec("35000").Equal(got.TotalPrice))
}

func TestChangeVariant_SinColisionTomaPrecioNuevo(t *testing.T) {
	f := testutil.New(t, 0)
	a := f.Variant(t, "Roti", 10000, 7000, 5)
	b := f.Variant(t, "Roti Keju", 12000, 8000, 5)
	uc := newUseCase(f)
	ctx := context.Background()

	c, err := uc.AddItem(ctx, f.Cashier, cart.AddItemInput{TransactionCode: code, VariantID: a.ID})
	require.NoError(t, err)

	items, err := uc.ChangeVariant(ctx, f.Cashier, c.Items[0].ID, b.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, c.Items[0].ID, items[0].ID)
	assert.Equal(t, b.ProductID, items[0].ProductID)
	assert.True(t, testutil.Dec("12000").Equal(items[0].Price))
}

func TestSetQuantity_Invalida(t *testing.T) {
	f := testutil.New(t, 0)
	v := f.Variant(t, "Kopi", 2000, 1000, 10)
	uc := newUseCase(f)
	ctx := context.Background()

	c, err := uc.AddItem(ctx, f.Cashier, cart.AddItemInput{TransactionCode: code, VariantID: v.ID})
	require.NoError(t, err)

	_, err = uc.SetQuantity(ctx, f.Cashier, c.Items[0].ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = uc.SetQuantity(ctx, f.Cashier, "no-existe", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveItem_RecalculaTotal(t *testing.T) {
	f := testutil.New(t, 0)
	a := f.Variant(t, "Kopi", 2000, 1000, 10)
	b := f.Variant(t, "Teh", 1500, 800, 10)
	uc := newUseCase(f)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, f.Cashier, cart.AddItemInput{TransactionCode: code, VariantID: a.ID})
	require.NoError(t, err)
	c, err := uc.AddItem(ctx, f.Cashier, cart.AddItemInput{TransactionCode: code, VariantID: b.ID})
	require.NoError(t, err)

	var itemA string
	for _, it := range c.Items {
		if it.VariantID == a.ID {
			itemA = it.ID
		}
	}
	c, err = uc.RemoveItem(ctx, f.Cashier, itemA)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.True(t, testutil.Dec("1500").Equal(c.TotalPrice))
}

func TestCarrito_AisladoPorOperador(t *testing.T) {
	f := testutil.New(t, 0)
	v := f.Variant(t, "Kopi", 2000, 1000, 10)
	uc := newUseCase(f)
	ctx := context.Background()

	c, err := uc.AddItem(ctx, f.Cashier, cart.AddItemInput{TransactionCode: code, VariantID: v.ID})
	require.NoError(t, err)

	_, err = uc.Get(ctx, f.Admin, code)
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
	_, err = uc.SetQuantity(ctx, f.Admin, c.Items[0].ID, 4)
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestRevoke_BorraCarrito(t *testing.T) {
	f := testutil.New(t, 0)
	v := f.Variant(t, "Kopi", 2000, 1000, 10)
	uc := newUseCase(f)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, f.Cashier, cart.AddItemInput{TransactionCode: code, VariantID: v.ID})
	require.NoError(t, err)
	require.NoError(t, uc.Revoke(ctx, f.Cashier, code))

	_, err = uc.Get(ctx, f.Cashier, code)
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
	assert.ErrorIs(t, uc.Revoke(ctx, f.Cashier, code), domain.ErrCartNotFound)
}
