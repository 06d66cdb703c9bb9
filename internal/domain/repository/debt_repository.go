package repository

import (
	"context"

	"github.com/jhoicas/kasir-api/internal/domain/entity"
)

// DebtRepository define el puerto de persistencia para deudas y pagos.
type DebtRepository interface {
	CreateItem(ctx context.Context, item *entity.DebtItem) error
	UpdateItem(ctx context.Context, item *entity.DebtItem) error
	// ListOpenForUpdate devuelve las líneas no pagadas ni borradas del cliente,
	// bloqueadas y ordenadas de la más antigua a la más nueva (created_at, seq).
	ListOpenForUpdate(ctx context.Context, customerID string) ([]*entity.DebtItem, error)
	ListItems(ctx context.Context, customerID string, p ListParams) ([]*entity.DebtItem, int, error)
	ListOpenByStore(ctx context.Context, storeID string) ([]*entity.DebtItem, error)

	CreatePayment(ctx context.Context, payment *entity.DebtPayment) error
	CreatePaymentItem(ctx context.Context, item *entity.DebtPaymentItem) error
	GetPayment(ctx context.Context, id string) (*entity.DebtPayment, error)
	ListPayments(ctx context.Context, customerID string, p ListParams) ([]*entity.DebtPayment, int, error)
	ListPaymentItems(ctx context.Context, paymentID string) ([]*entity.DebtPaymentItem, error)
}
