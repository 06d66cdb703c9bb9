package repository

import (
	"context"

	"github.com/jhoicas/kasir-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar el stock por variante.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve un registro en cero (not-set) si no existe.
	Get(ctx context.Context, variantID string) (*entity.StockRecord, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, variantID string) (*entity.StockRecord, error)
	Upsert(ctx context.Context, stock *entity.StockRecord) error
}

// StockMovementRepository define el puerto de la bitácora append-only de stock.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByVariant(ctx context.Context, variantID string, p ListParams) ([]*entity.StockMovement, int, error)
}

// RestockRepository define el puerto para lotes de reabastecimiento.
type RestockRepository interface {
	Create(ctx context.Context, restock *entity.Restock) error
	// LatestByVariant devuelve el último lote de la variante o nil.
	LatestByVariant(ctx context.Context, variantID string) (*entity.Restock, error)
}
