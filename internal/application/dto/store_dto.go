package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStoreRequest entrada para dar de alta una tienda.
type CreateStoreRequest struct {
	Name    string          `json:"name" validate:"required,min=1,max=200"`
	Address string          `json:"address"`
	Phone   string          `json:"phone"`
	TaxRate decimal.Decimal `json:"tax_rate" swaggertype:"string"` // porcentaje, ej: 11
}

// StoreResponse salida de una tienda.
type StoreResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Address   string          `json:"address"`
	Phone     string          `json:"phone"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
