package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kasir-api/internal/domain/entity"
)

// CartRepository define el puerto de persistencia para carritos e ítems.
type CartRepository interface {
	// GetOrCreate obtiene el carrito del usuario para el código o lo crea vacío.
	GetOrCreate(ctx context.Context, cart *entity.Cart) (*entity.Cart, error)
	// GetByCode devuelve (nil, nil) si no existe.
	GetByCode(ctx context.Context, storeID, userID, code string) (*entity.Cart, error)
	GetByID(ctx context.Context, id string) (*entity.Cart, error)
	// Lock bloquea la fila del carrito (SELECT FOR UPDATE) y la devuelve; nil si no existe.
	Lock(ctx context.Context, id string) (*entity.Cart, error)
	Delete(ctx context.Context, id string) error

	// IncrementItem inserta la variante con cantidad 1 o suma 1 a la existente de forma atómica
	// (quantity = quantity + 1) y recalcula su total con price.
	IncrementItem(ctx context.Context, item *entity.CartItem) (*entity.CartItem, error)
	GetItem(ctx context.Context, id string) (*entity.CartItem, error)
	GetItemByVariant(ctx context.Context, cartID, variantID string) (*entity.CartItem, error)
	UpdateItem(ctx context.Context, item *entity.CartItem) error
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context, cartID string) ([]*entity.CartItem, error)
	// RecalculateTotal fija carts.total_price = Σ cart_items.total_price y lo devuelve.
	RecalculateTotal(ctx context.Context, cartID string) (decimal.Decimal, error)
}
