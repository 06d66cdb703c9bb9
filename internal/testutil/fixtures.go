// Package testutil arma tiendas, variantes y clientes sobre el store en memoria para los
// tests de casos de uso y de HTTP.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/inventory"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
	"github.com/jhoicas/kasir-api/internal/infrastructure/memory"
)

// Fixture una tienda recién creada con su base en memoria.
type Fixture struct {
	DB      *memory.DB
	Repos   repository.TxRepos
	Tx      *memory.TxRunner
	Store   *entity.Store
	Admin   domain.RequestContext
	Cashier domain.RequestContext
	Now     time.Time
}

// New crea una tienda activa con tasa de impuesto taxRate (porcentaje).
func New(t *testing.T, taxRate int64) *Fixture {
	t.Helper()
	db := memory.New()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := &entity.Store{
		ID:        uuid.New().String(),
		Name:      "Toko Maju",
		TaxRate:   decimal.NewFromInt(taxRate),
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	repos := db.Repos()
	require.NoError(t, repos.Stores.Create(context.Background(), store))
	return &Fixture{
		DB:      db,
		Repos:   repos,
		Tx:      memory.NewTxRunner(db),
		Store:   store,
		Admin:   domain.RequestContext{OperatorID: "admin-1", StoreID: store.ID, Role: domain.RoleAdmin},
		Cashier: domain.RequestContext{OperatorID: "cashier-1", StoreID: store.ID, Role: domain.RoleCashier},
		Now:     now,
	}
}

// Clock devuelve un reloj fijo en f.Now.
func (f *Fixture) Clock() func() time.Time {
	return func() time.Time { return f.Now }
}

// Variant crea un producto con una variante de precio, costo y stock dados.
func (f *Fixture) Variant(t *testing.T, name string, price, cost int64, stock int) *entity.Variant {
	t.Helper()
	ctx := context.Background()
	product := &entity.Product{
		ID:        uuid.New().String(),
		StoreID:   f.Store.ID,
		SKU:       "SKU-" + uuid.New().String()[:8],
		Name:      name,
		CreatedAt: f.Now,
		UpdatedAt: f.Now,
	}
	require.NoError(t, f.Repos.Products.Create(ctx, product))
	variant := &entity.Variant{
		ID:        uuid.New().String(),
		StoreID:   f.Store.ID,
		ProductID: product.ID,
		Name:      name,
		Unit:      "pcs",
		Price:     decimal.NewFromInt(price),
		Cost:      decimal.NewFromInt(cost),
		CreatedAt: f.Now,
		UpdatedAt: f.Now,
	}
	require.NoError(t, f.Repos.Variants.Create(ctx, variant))
	require.NoError(t, f.Repos.Stock.Upsert(ctx, &entity.StockRecord{
		StoreID:   f.Store.ID,
		VariantID: variant.ID,
		Quantity:  stock,
		Status:    inventory.StatusFor(stock, true),
		UpdatedAt: f.Now,
	}))
	return variant
}

// Customer crea un cliente sin deuda.
func (f *Fixture) Customer(t *testing.T, name string) *entity.Customer {
	t.Helper()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		StoreID:   f.Store.ID,
		Name:      name,
		TotalDebt: decimal.Zero,
		CreatedAt: f.Now,
		UpdatedAt: f.Now,
	}
	require.NoError(t, f.Repos.Customers.Create(context.Background(), customer))
	return customer
}

// Debt registra una línea de deuda abierta y la suma al total del cliente.
// Cada llamada avanza un segundo para que el orden FIFO sea el de creación.
func (f *Fixture) Debt(t *testing.T, customer *entity.Customer, amount int64) *entity.DebtItem {
	t.Helper()
	ctx := context.Background()
	f.Now = f.Now.Add(time.Second)
	item := entity.NewDebtItem(uuid.New().String(), f.Store.ID, customer.ID, decimal.NewFromInt(amount), f.Now)
	require.NoError(t, f.Repos.Debts.CreateItem(ctx, item))
	_, err := f.Repos.Customers.AddDebt(ctx, customer.ID, item.TotalAmount)
	require.NoError(t, err)
	return item
}

// Stock cantidad actual de la variante.
func (f *Fixture) Stock(t *testing.T, variantID string) int {
	t.Helper()
	rec, err := f.Repos.Stock.Get(context.Background(), variantID)
	require.NoError(t, err)
	return rec.Quantity
}

// Dec atajo para decimales en aserciones.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
