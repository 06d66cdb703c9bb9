package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kasir-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// GetForUpdate bloquea la fila del cliente (serializa pagos concurrentes).
	GetForUpdate(ctx context.Context, id string) (*entity.Customer, error)
	List(ctx context.Context, storeID string, p ListParams) ([]*entity.Customer, int, error)
	// AddDebt suma delta a total_debt de forma atómica y devuelve el nuevo saldo.
	AddDebt(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error)
}
