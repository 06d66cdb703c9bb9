package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/inventory/adjustments.
// Delta positivo suma y negativo resta.
type AdjustStockRequest struct {
	VariantID string `json:"variant_id" validate:"required,uuid"`
	Delta     int    `json:"delta" validate:"required"`
	Reason    string `json:"reason" validate:"omitempty,max=200"`
}

// RestockRequest body para POST /api/inventory/restocks.
type RestockRequest struct {
	VariantID string          `json:"variant_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost" swaggertype:"string"`
	Supplier  string          `json:"supplier" validate:"omitempty,max=200"`
}

// StockResponse stock actual de una variante.
type StockResponse struct {
	VariantID string    `json:"variant_id"`
	Quantity  int       `json:"quantity"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StockMovementResponse una entrada de la bitácora de stock.
type StockMovementResponse struct {
	ID        string    `json:"id"`
	VariantID string    `json:"variant_id"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	Reference string    `json:"reference"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// StockMovementListResponse bitácora paginada.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
