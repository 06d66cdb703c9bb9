// Package debt contiene los casos de uso de cuentas por cobrar: abonos de clientes contra
// sus líneas de deuda abiertas y las consultas del libro de deudas.
package debt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kasir-api/internal/application/ports"
	"github.com/jhoicas/kasir-api/internal/domain"
	domaindebt "github.com/jhoicas/kasir-api/internal/domain/debt"
	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
	"github.com/jhoicas/kasir-api/pkg/logger"
)

// PaymentUseCase aplica pagos de clientes en orden FIFO sobre sus DebtItems abiertas.
type PaymentUseCase struct {
	txRunner     ports.TxRunner
	customerRepo repository.CustomerRepository
	debtRepo     repository.DebtRepository
	metrics      ports.MetricsRecorder
	log          *logger.Logger
	now          func() time.Time
}

// NewPaymentUseCase construye el caso de uso. metrics, log y clock pueden ser nil.
func NewPaymentUseCase(
	txRunner ports.TxRunner,
	customerRepo repository.CustomerRepository,
	debtRepo repository.DebtRepository,
	metrics ports.MetricsRecorder,
	log *logger.Logger,
	clock func() time.Time,
) *PaymentUseCase {
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if clock == nil {
		clock = time.Now
	}
	return &PaymentUseCase{
		txRunner:     txRunner,
		customerRepo: customerRepo,
		debtRepo:     debtRepo,
		metrics:      metrics,
		log:          log,
		now:          clock,
	}
}

// PaymentInput entrada de un abono.
type PaymentInput struct {
	CustomerID    string
	PaymentCode   string // vacío ⇒ se genera; repetido ⇒ ErrDuplicate
	Amount        decimal.Decimal
	PaymentMethod string // cash, qris, transfer; vacío ⇒ cash
	Note          string
}

// PaymentResult pago registrado, su desglose por línea y el saldo resultante del cliente.
type PaymentResult struct {
	Payment       *entity.DebtPayment
	Items         []*entity.DebtPaymentItem
	RemainingDebt decimal.Decimal
}

// ApplyPayment registra un abono y lo reparte sobre las líneas abiertas del cliente, de la
// más antigua a la más nueva, llenando parcialmente la última tocada.
//
// Retorna:
//   - domain.ErrInvalidAmount        si amount ≤ 0 o tiene más de dos decimales.
//   - domain.ErrInvalidInput         si el payment_code usa el prefijo reservado DP-.
//   - domain.ErrInvalidPaymentMethod si el método no es cash, qris o transfer.
//   - domain.ErrCustomerNotFound     si el cliente no existe en la tienda.
//   - domain.ErrOverpayment          si amount supera la deuda abierta.
//   - domain.ErrDuplicate            si el payment_code ya existe en la tienda.
func (uc *PaymentUseCase) ApplyPayment(ctx context.Context, rc domain.RequestContext, in PaymentInput) (*PaymentResult, error) {
	if !in.Amount.IsPositive() || !domain.IsMoney(in.Amount) {
		return nil, domain.ErrInvalidAmount
	}
	method := in.PaymentMethod
	if method == "" {
		method = entity.DebtPaymentMethodCash
	}
	if !entity.ValidDebtPaymentMethod(method) {
		return nil, domain.ErrInvalidPaymentMethod
	}
	if !domain.IsID(in.CustomerID) {
		return nil, domain.ErrCustomerNotFound
	}
	now := uc.now()
	code := strings.TrimSpace(in.PaymentCode)
	if entity.IsReservedPaymentCode(code) {
		return nil, domain.ErrInvalidInput
	}
	if code == "" {
		code = GeneratePaymentCode(now)
	}

	var result *PaymentResult
	err := uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		// Bloquear el cliente serializa pagos concurrentes del mismo cliente
		customer, err := tx.Customers.GetForUpdate(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil || customer.StoreID != rc.StoreID {
			return domain.ErrCustomerNotFound
		}
		open, err := tx.Debts.ListOpenForUpdate(ctx, customer.ID)
		if err != nil {
			return err
		}
		domaindebt.SortFIFO(open)
		if in.Amount.GreaterThan(domaindebt.Outstanding(open)) {
			return domain.ErrOverpayment
		}

		payment := &entity.DebtPayment{
			ID:            uuid.New().String(),
			StoreID:       rc.StoreID,
			PaymentCode:   code,
			CustomerID:    customer.ID,
			Amount:        in.Amount,
			PaymentMethod: method,
			Note:          in.Note,
			OperatorID:    rc.OperatorID,
			PaidAt:        now,
		}
		if err := tx.Debts.CreatePayment(ctx, payment); err != nil {
			return err
		}

		allocations, _ := domaindebt.Allocate(open, in.Amount, now)
		items := make([]*entity.DebtPaymentItem, 0, len(allocations))
		for _, a := range allocations {
			if err := tx.Debts.UpdateItem(ctx, a.Item); err != nil {
				return err
			}
			pi := &entity.DebtPaymentItem{
				ID:            uuid.New().String(),
				DebtPaymentID: payment.ID,
				DebtItemID:    a.Item.ID,
				Amount:        a.Applied,
				RemainingDebt: a.Item.RemainingAmount,
				CreatedAt:     now,
			}
			if err := tx.Debts.CreatePaymentItem(ctx, pi); err != nil {
				return err
			}
			items = append(items, pi)
		}

		remaining, err := tx.Customers.AddDebt(ctx, customer.ID, in.Amount.Neg())
		if err != nil {
			return err
		}
		result = &PaymentResult{Payment: payment, Items: items, RemainingDebt: remaining}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.DebtPaymentApplied(method, in.Amount, len(result.Items))
	uc.log.Info().
		Str("store_id", rc.StoreID).
		Str("customer_id", in.CustomerID).
		Str("payment_code", code).
		Str("amount", in.Amount.String()).
		Int("items", len(result.Items)).
		Msg("abono aplicado")
	return result, nil
}

// ListDebtItems lista las líneas de deuda de un cliente.
func (uc *PaymentUseCase) ListDebtItems(ctx context.Context, rc domain.RequestContext, customerID string, p repository.ListParams) ([]*entity.DebtItem, int, error) {
	if err := uc.ensureCustomer(ctx, rc, customerID); err != nil {
		return nil, 0, err
	}
	return uc.debtRepo.ListItems(ctx, customerID, p.Normalize())
}

// ListPayments lista los abonos de un cliente.
func (uc *PaymentUseCase) ListPayments(ctx context.Context, rc domain.RequestContext, customerID string, p repository.ListParams) ([]*entity.DebtPayment, int, error) {
	if err := uc.ensureCustomer(ctx, rc, customerID); err != nil {
		return nil, 0, err
	}
	return uc.debtRepo.ListPayments(ctx, customerID, p.Normalize())
}

// GetPayment devuelve un abono con su desglose por línea.
func (uc *PaymentUseCase) GetPayment(ctx context.Context, rc domain.RequestContext, paymentID string) (*entity.DebtPayment, []*entity.DebtPaymentItem, error) {
	if !domain.IsID(paymentID) {
		return nil, nil, domain.ErrNotFound
	}
	payment, err := uc.debtRepo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}
	if payment == nil || payment.StoreID != rc.StoreID {
		return nil, nil, domain.ErrNotFound
	}
	items, err := uc.debtRepo.ListPaymentItems(ctx, payment.ID)
	if err != nil {
		return nil, nil, err
	}
	return payment, items, nil
}

func (uc *PaymentUseCase) ensureCustomer(ctx context.Context, rc domain.RequestContext, customerID string) error {
	if !domain.IsID(customerID) {
		return domain.ErrCustomerNotFound
	}
	customer, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return err
	}
	if customer == nil || customer.StoreID != rc.StoreID {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// GeneratePaymentCode genera un código legible, ej: PAY-20260301-1a2b3c4d.
func GeneratePaymentCode(now time.Time) string {
	return fmt.Sprintf("PAY-%s-%s", now.Format("20060102"), uuid.New().String()[:8])
}
