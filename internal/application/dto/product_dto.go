package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateVariantRequest variante incluida al crear un producto.
type CreateVariantRequest struct {
	Name    string          `json:"name" validate:"required,min=1,max=200"`
	Unit    string          `json:"unit" validate:"omitempty,max=20"`
	Barcode string          `json:"barcode" validate:"omitempty,max=100"`
	Price   decimal.Decimal `json:"price" swaggertype:"string"`
	Cost    decimal.Decimal `json:"cost" swaggertype:"string"`
}

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU         string                 `json:"sku" validate:"required,min=1,max=100"`
	Name        string                 `json:"name" validate:"required,min=1,max=200"`
	Description string                 `json:"description"`
	Variants    []CreateVariantRequest `json:"variants" validate:"required,min=1,dive"`
}

// UpdateVariantPriceRequest body para PUT /api/variants/:id/price.
type UpdateVariantPriceRequest struct {
	Price decimal.Decimal `json:"price" swaggertype:"string"`
}

// VariantResponse salida de una variante con su stock actual.
type VariantResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name"`
	Unit        string          `json:"unit"`
	Barcode     string          `json:"barcode,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Stock       int             `json:"stock"`
	StockStatus string          `json:"stock_status"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string            `json:"id"`
	StoreID     string            `json:"store_id"`
	SKU         string            `json:"sku"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Variants    []VariantResponse `json:"variants,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateDiscountRequest body para POST /api/discounts.
type CreateDiscountRequest struct {
	VariantID string          `json:"variant_id" validate:"required,uuid"`
	Type      string          `json:"type" validate:"required,oneof=percentage fixed"`
	Value     decimal.Decimal `json:"value" swaggertype:"string"`
	StartsAt  *time.Time      `json:"starts_at,omitempty"`
	EndsAt    *time.Time      `json:"ends_at,omitempty"`
}

// DiscountResponse descuento creado.
type DiscountResponse struct {
	ID        string          `json:"id"`
	VariantID string          `json:"variant_id"`
	Type      string          `json:"type"`
	Value     decimal.Decimal `json:"value"`
	StartsAt  *time.Time      `json:"starts_at,omitempty"`
	EndsAt    *time.Time      `json:"ends_at,omitempty"`
	IsActive  bool            `json:"is_active"`
}
