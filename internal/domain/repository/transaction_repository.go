package repository

import (
	"context"
	"time"

	"github.com/jhoicas/kasir-api/internal/domain/entity"
)

// TransactionRepository define el puerto de persistencia para ventas confirmadas.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	CreateItem(ctx context.Context, item *entity.TransactionItem) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	GetByCode(ctx context.Context, storeID, code string) (*entity.Transaction, error)
	ListItems(ctx context.Context, transactionID string) ([]*entity.TransactionItem, error)
	ListByRange(ctx context.Context, storeID string, from, to time.Time) ([]*entity.Transaction, error)
}
