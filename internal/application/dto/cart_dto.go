package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddCartItemRequest body para POST /api/carts/:code/items.
// UnitPrice vacío o cero toma el precio vigente de la variante.
type AddCartItemRequest struct {
	ProductID string          `json:"product_id" validate:"omitempty,uuid"`
	VariantID string          `json:"variant_id" validate:"required,uuid"`
	UnitPrice decimal.Decimal `json:"unit_price" swaggertype:"string"`
}

// SetCartItemQuantityRequest body para PATCH /api/carts/items/:id.
type SetCartItemQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// ChangeCartItemVariantRequest body para PATCH /api/carts/items/:id/variant.
type ChangeCartItemVariantRequest struct {
	VariantID string `json:"variant_id" validate:"required,uuid"`
}

// CartItemResponse línea del carrito.
type CartItemResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	VariantID  string          `json:"variant_id"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// CartResponse carrito con sus líneas.
type CartResponse struct {
	ID              string             `json:"id"`
	TransactionCode string             `json:"transaction_code"`
	TotalPrice      decimal.Decimal    `json:"total_price"`
	Items           []CartItemResponse `json:"items"`
	UpdatedAt       time.Time          `json:"updated_at"`
}
