package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kasir-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByStoreAndSKU(ctx context.Context, storeID, sku string) (*entity.Product, error)
	List(ctx context.Context, storeID string, p ListParams) ([]*entity.Product, int, error)
}

// VariantRepository define el puerto de persistencia para Variant.
// GetByID devuelve (nil, nil) si no existe o está borrada.
type VariantRepository interface {
	Create(ctx context.Context, variant *entity.Variant) error
	GetByID(ctx context.Context, id string) (*entity.Variant, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.Variant, error)
	UpdatePrice(ctx context.Context, id string, price decimal.Decimal) error
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error
}

// DiscountRepository define el puerto para descuentos por variante.
type DiscountRepository interface {
	Create(ctx context.Context, discount *entity.Discount) error
	// ActiveForVariant devuelve el descuento activo más reciente o nil.
	ActiveForVariant(ctx context.Context, storeID, variantID string) (*entity.Discount, error)
}
