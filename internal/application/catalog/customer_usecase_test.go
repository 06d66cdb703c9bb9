package catalog_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
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

func TestCustomerCreate_DeudaCero(t *testing.T) {
	f := testutil.New(t, 0)
	uc := catalog.NewCustomerUseCase(f.Repos.Customers)
	ctx := context.Background()

	out, err := uc.Create(ctx, f.Cashier, dto.CreateCustomerRequest{Name: "  Bu Sri ", Phone: "0812"})
	require.NoError(t, err)
	assert.Equal(t, "Bu Sri", out.Name)
	assert.True(t, out.TotalDebt.IsZero())
	assert.Equal(t, f.Store.ID, out.StoreID)

	_, err = uc.Create(ctx, f.Cashier, dto.CreateCustomerRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCustomerGetByID_AislamientoPorTienda(t *testing.T) {
	f := testutil.New(t, 0)
	uc := catalog.NewCustomerUseCase(f.Repos.Customers)
	c := f.Customer(t, "Pak Budi")
	f.Debt(t, c, 7500)

	got, err := uc.GetByID(context.Background(), f.Cashier, c.ID)
	require.NoError(t, err)
	assert.True(t, testutil.Dec("7500").Equal(got.TotalDebt))

	_, err = uc.GetByID(context.Background(), testutil.New(t, 0).Cashier, c.ID)
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestCustomerList_Busqueda(t *testing.T) {
	f := testutil.New(t, 0)
	uc := catalog.NewCustomerUseCase(f.Repos.Customers)
	f.Customer(t, "Ani")
	f.Customer(t, "Bayu")
	f.Customer(t, "Anton")

	out, err := uc.List(context.Background(), f.Cashier, repository.ListParams{Search: "an", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, 2, out.Page.Total)
}

func TestStoreUseCase(t *testing.T) {
	f := testutil.New(t, 0)
	uc := catalog.NewStoreUseCase(f.Repos.Stores)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateStoreRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.CreateStoreRequest{Name: "Warung", TaxRate: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := uc.Create(ctx, dto.CreateStoreRequest{Name: "Warung Bu Tini", TaxRate: decimal.NewFromInt(11)})
	require.NoError(t, err)
	assert.Equal(t, catalog.StoreActive, out.Status)

	got, err := uc.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.True(t, testutil.Dec("11").Equal(got.TaxRate))

	_, err = uc.GetByID(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	active, err := uc.IsActive(ctx, out.ID)
	require.NoError(t, err)
	assert.True(t, active)

	suspended := &entity.Store{ID: uuid.NewString(), Name: "Cerrada", Status: catalog.StoreSuspended, TaxRate: decimal.Zero}
	require.NoError(t, f.Repos.Stores.Create(ctx, suspended))
	active, err = uc.IsActive(ctx, suspended.ID)
	require.NoError(t, err)
	assert.False(t, active)

	active, err = uc.IsActive(ctx, "no-existe")
	require.NoError(t, err)
	assert.False(t, active)
}
