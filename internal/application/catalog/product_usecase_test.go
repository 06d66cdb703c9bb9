package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kasir-api/internal/application/catalog"
	"github.com/jhoicas/kasir-api/internal/application/dto"
	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
	"github.com/jhoicas/kasir-api/internal/testutil"
)

func newProductUseCase(f *testutil.Fixture) *catalog.ProductUseCase {
	return catalog.NewProductUseCase(f.Tx, f.Repos.Products, f.Repos.Variants, f.Repos.Stock, f.Repos.Discounts)
}

func productRequest(sku string) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		SKU:  sku,
		Name: "Kopi Susu",
		Variants: []dto.CreateVariantRequest{
			{Name: "Sachet", Price: decimal.NewFromInt(2500), Cost: decimal.NewFromInt(1800)},
			{Name: "Box", Unit: "box", Price: decimal.NewFromInt(24000)},
		},
	}
}

func TestProductCreate_VariantesConStockSinDefinir(t *testing.T) {
	f := testutil.New(t, 0)
	uc := newProductUseCase(f)
	ctx := context.Background()

	out, err := uc.Create(ctx, f.Admin, productRequest("KS-01"))
	require.NoError(t, err)
	require.Len(t, out.Variants, 2)
	assert.Equal(t, "pcs", out.Variants[0].Unit)
	assert.Equal(t, "box", out.Variants[1].Unit)

	got, err := uc.GetByID(ctx, f.Cashier, out.ID)
	require.NoError(t, err)
	require.Len(t, got.Variants, 2)
	for _, v := range got.Variants {
		assert.Equal(t, 0, v.Stock)
		assert.Equal(t, entity.StockStatusNotSet, v.StockStatus)
	}

	_, err = uc.Create(ctx, f.Admin, productRequest("KS-01"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductCreate_Validaciones(t *testing.T) {
	f := testutil.New(t, 0)
	uc := newProductUseCase(f)

	tests := []struct {
		name string
		edit func(*dto.CreateProductRequest)
	}{
		{"sin sku", func(r *dto.CreateProductRequest) { r.SKU = "" }},
		{"sin variantes", func(r *dto.CreateProductRequest) { r.Variants = nil }},
		{"precio negativo", func(r *dto.CreateProductRequest) { r.Variants[0].Price = decimal.NewFromInt(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := productRequest("KS-02")
			tt.edit(&req)
			_, err := uc.Create(context.Background(), f.Admin, req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestProductGetByID_OtraTienda(t *testing.T) {
	f := testutil.New(t, 0)
	uc := newProductUseCase(f)
	out, err := uc.Create(context.Background(), f.Admin, productRequest("KS-03"))
	require.NoError(t, err)

	_, err = uc.GetByID(context.Background(), testutil.New(t, 0).Admin, out.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductList_Busqueda(t *testing.T) {
	f := testutil.New(t, 0)
	uc := newProductUseCase(f)
	f.Variant(t, "Teh Botol", 4000, 3000, 5)
	f.Variant(t, "Kopi Hitam", 3000, 2000, 5)

	out, err := uc.List(context.Background(), f.Cashier, repository.ListParams{Search: "teh"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Teh Botol", out.Items[0].Name)
	assert.Equal(t, 1, out.Page.Total)
	assert.Equal(t, 20, out.Page.Limit)
}

func TestUpdateVariantPrice(t *testing.T) {
	f := testutil.New(t, 0)
	uc := newProductUseCase(f)
	v := f.Variant(t, "Gula 1kg", 15000, 12000, 8)
	ctx := context.Background()

	_, err := uc.UpdateVariantPrice(ctx, f.Cashier, v.ID, decimal.NewFromInt(16000))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.UpdateVariantPrice(ctx, f.Admin, v.ID, decimal.NewFromInt(-5))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = uc.UpdateVariantPrice(ctx, f.Admin, v.ID, testutil.Dec("15999.999"))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = uc.UpdateVariantPrice(ctx, f.Admin, "no-existe", decimal.NewFromInt(16000))
	assert.ErrorIs(t, err, domain.ErrVariantNotFound)

	out, err := uc.UpdateVariantPrice(ctx, f.Admin, v.ID, decimal.NewFromInt(16000))
	require.NoError(t, err)
	assert.True(t, testutil.Dec("16000").Equal(out.Price))
	assert.Equal(t, 8, out.Stock)

	stored, err := f.Repos.Variants.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, testutil.Dec("16000").Equal(stored.Price))
	assert.True(t, testutil.Dec("12000").Equal(stored.Cost), "el costo no cambia con el precio")
}

func TestCreateDiscount(t *testing.T) {
	f := testutil.New(t, 0)
	uc := newProductUseCase(f)
	v := f.Variant(t, "Minyak 1L", 18000, 15000, 10)
	ctx := context.Background()
	start := f.Now
	before := f.Now.Add(-time.Hour)

	tests := []struct {
		name    string
		rc      domain.RequestContext
		in      dto.CreateDiscountRequest
		wantErr error
	}{
		{"cajero", f.Cashier, dto.CreateDiscountRequest{VariantID: v.ID, Type: "fixed", Value: decimal.NewFromInt(500)}, domain.ErrForbidden},
		{"valor cero", f.Admin, dto.CreateDiscountRequest{VariantID: v.ID, Type: "fixed", Value: decimal.Zero}, domain.ErrInvalidAmount},
		{"tres decimales", f.Admin, dto.CreateDiscountRequest{VariantID: v.ID, Type: "fixed", Value: testutil.Dec("0.125")}, domain.ErrInvalidAmount},
		{"porcentaje mayor a 100", f.Admin, dto.CreateDiscountRequest{VariantID: v.ID, Type: "percentage", Value: decimal.NewFromInt(101)}, domain.ErrInvalidAmount},
		{"tipo desconocido", f.Admin, dto.CreateDiscountRequest{VariantID: v.ID, Type: "bogo", Value: decimal.NewFromInt(1)}, domain.ErrInvalidInput},
		{"vigencia invertida", f.Admin, dto.CreateDiscountRequest{VariantID: v.ID, Type: "fixed", Value: decimal.NewFromInt(1), StartsAt: &start, EndsAt: &before}, domain.ErrInvalidInput},
		{"variante inexistente", f.Admin, dto.CreateDiscountRequest{VariantID: "x", Type: "fixed", Value: decimal.NewFromInt(1)}, domain.ErrVariantNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.CreateDiscount(ctx, tt.rc, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	out, err := uc.CreateDiscount(ctx, f.Admin, dto.CreateDiscountRequest{VariantID: v.ID, Type: "percentage", Value: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.True(t, out.IsActive)

	active, err := f.Repos.Discounts.ActiveForVariant(ctx, f.Store.ID, v.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, out.ID, active.ID)
}
