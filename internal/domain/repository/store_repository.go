package repository

import (
	"context"

	"github.com/jhoicas/kasir-api/internal/domain/entity"
)

// StoreRepository define el puerto de persistencia para Store (tenant).
type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	GetByID(ctx context.Context, id string) (*entity.Store, error)
}
