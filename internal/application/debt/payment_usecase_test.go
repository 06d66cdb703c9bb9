package debt_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kasir-api/internal/application/debt"
	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
	"github.com/jhoicas/kasir-api/internal/testutil"
)

func newUseCase(f *testutil.Fixture) *debt.PaymentUseCase {
	return debt.NewPaymentUseCase(f.Tx, f.Repos.Customers, f.Repos.Debts, nil, nil, f.Clock())
}

// assertAggregate verifica que total_debt del cliente sea la suma de remaining de sus líneas
// y que cada línea conserve paid + remaining = total.
func assertAggregate(t *testing.T, f *testutil.Fixture, customerID string) decimal.Decimal {
	t.Helper()
	ctx := context.Background()
	items, _, err := f.Repos.Debts.ListItems(ctx, customerID, repository.ListParams{Limit: 100})
	require.NoError(t, err)
	sum := decimal.Zero
	for _, d := range items {
		assert.True(t, d.PaidAmount.Add(d.RemainingAmount).Equal(d.TotalAmount), "línea %s", d.ID)
		sum = sum.Add(d.RemainingAmount)
	}
	c, err := f.Repos.Customers.GetByID(ctx, customerID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(c.TotalDebt), "total_debt %s, suma %s", c.TotalDebt, sum)
	return c.TotalDebt
}

func TestApplyPayment_OrdenFIFO(t *testing.T) {
	f := testutil.New(t, 0)
	customer := f.Customer(t, "Siti")
	a := f.Debt(t, customer, 1000)
	b := f.Debt(t, customer, 500)
	uc := newUseCase(f)

	res, err := uc.ApplyPayment(context.Background(), f.Cashier, debt.PaymentInput{
		CustomerID: customer.ID, Amount: decimal.NewFromInt(1200), PaymentCode: "PAY-1",
	})
	require.NoError(t, err)

	require.Len(t, res.Items, 2)
	assert.Equal(t, a.ID, res.Items[0].DebtItemID)
	assert.True(t, testutil.Dec("1000").Equal(res.Items[0].Amount))
	assert.True(t, res.Items[0].RemainingDebt.IsZero())
	assert.Equal(t, b.ID, res.Items[1].DebtItemID)
	assert.True(t, testutil.Dec("200").Equal(res.Items[1].Amount))
	assert.True(t, testutil.Dec("300").Equal(res.Items[1].RemainingDebt))
	assert.True(t, testutil.Dec("300").Equal(res.RemainingDebt))
	assert.Equal(t, entity.DebtPaymentMethodCash, res.Payment.PaymentMethod)

	items, _, err := uc.ListDebtItems(context.Background(), f.Cashier, customer.ID, repository.ListParams{SortDir: "asc"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, entity.DebtStatusPaid, items[0].Status)
	assert.NotNil(t, items[0].SettledAt)
	assert.Equal(t, entity.DebtStatusPartial, items[1].Status)
	assert.Nil(t, items[1].SettledAt)

	assert.True(t, testutil.Dec("300").Equal(assertAggregate(t, f, customer.ID)))
}

func TestApplyPayment_LlenadoExacto(t *testing.T) {
	f := testutil.New(t, 0)
	customer := f.Customer(t, "Andi")
	f.Debt(t, customer, 1000)
	f.Debt(t, customer, 500)
	uc := newUseCase(f)

	res, err := uc.ApplyPayment(context.Background(), f.Cashier, debt.PaymentInput{
		CustomerID: customer.ID, Amount: decimal.NewFromInt(1500), PaymentMethod: entity.DebtPaymentMethodTransfer,
	})
	require.NoError(t, err)
	assert.True(t, res.RemainingDebt.IsZero())
	assert.True(t, strings.HasPrefix(res.Payment.PaymentCode, "PAY-"), "código generado: %s", res.Payment.PaymentCode)

	paid, total, err := uc.ListDebtItems(context.Background(), f.Cashier, customer.ID, repository.ListParams{Search: entity.DebtStatusPaid})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, paid, 2)
	assert.True(t, assertAggregate(t, f, customer.ID).IsZero())
}

func TestApplyPayment_SobrepagoRechazado(t *testing.T) {
	f := testutil.New(t, 0)
	customer := f.Customer(t, "Rina")
	f.Debt(t, customer, 1000)
	uc := newUseCase(f)

	_, err := uc.ApplyPayment(context.Background(), f.Cashier, debt.PaymentInput{
		CustomerID: customer.ID, Amount: decimal.NewFromInt(1001),
	})
	assert.ErrorIs(t, err, domain.ErrOverpayment)
	assert.True(t, testutil.Dec("1000").Equal(assertAggregate(t, f, customer.ID)))

	_, total, err := uc.ListPayments(context.Background(), f.Cashier, customer.ID, repository.ListParams{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestApplyPayment_CodigoDuplicado(t *testing.T) {
	f := testutil.New(t, 0)
	customer := f.Customer(t, "Dewi")
	f.Debt(t, customer, 1000)
	uc := newUseCase(f)
	ctx := context.Background()

	_, err := uc.ApplyPayment(ctx, f.Cashier, debt.PaymentInput{CustomerID: customer.ID, Amount: decimal.NewFromInt(100), PaymentCode: "PAY-X"})
	require.NoError(t, err)
	_, err = uc.ApplyPayment(ctx, f.Cashier, debt.PaymentInput{CustomerID: customer.ID, Amount: decimal.NewFromInt(100), PaymentCode: "PAY-X"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	assert.True(t, testutil.Dec("900").Equal(assertAggregate(t, f, customer.ID)), "el reintento no descuenta dos veces")
}

func TestApplyPayment_Validaciones(t *testing.T) {
	f := testutil.New(t, 0)
	customer := f.Customer(t, "Eko")
	f.Debt(t, customer, 1000)
	other := testutil.New(t, 0)
	uc := newUseCase(f)
	ctx := context.Background()

	_, err := uc.ApplyPayment(ctx, f.Cashier, debt.PaymentInput{CustomerID: customer.ID, Amount: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = uc.ApplyPayment(ctx, f.Cashier, debt.PaymentInput{CustomerID: customer.ID, Amount: decimal.NewFromInt(10), PaymentMethod: "debt"})
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentMethod)

	_, err = uc.ApplyPayment(ctx, other.Cashier, debt.PaymentInput{CustomerID: customer.ID, Amount: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound, "un cliente de otra tienda no existe")

	_, err = uc.ApplyPayment(ctx, f.Cashier, debt.PaymentInput{CustomerID: "walk-in", Amount: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)

	for _, code := range []string{"DP-TRX-1", "dp-trx-1"} {
		_, err = uc.ApplyPayment(ctx, f.Cashier, debt.PaymentInput{CustomerID: customer.ID, Amount: decimal.NewFromInt(10), PaymentCode: code})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "el prefijo DP- es de los anticipos del checkout")
	}
	assert.True(t, testutil.Dec("1000").Equal(assertAggregate(t, f, customer.ID)))
}

func TestApplyPayment_ImporteConMasDeDosDecimales(t *testing.T) {
	f := testutil.New(t, 0)
	customer := f.Customer(t, "Tono")
	item := f.Debt(t, customer, 100)
	uc := newUseCase(f)
	ctx := context.Background()

	_, err := uc.ApplyPayment(ctx, f.Cashier, debt.PaymentInput{CustomerID: customer.ID, Amount: testutil.Dec("0.005")})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	assert.True(t, testutil.Dec("100").Equal(assertAggregate(t, f, customer.ID)), "el rechazo no toca el saldo")

	res, err := uc.ApplyPayment(ctx, f.Cashier, debt.PaymentInput{CustomerID: customer.ID, Amount: testutil.Dec("0.01")})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, item.ID, res.Items[0].DebtItemID)
	assert.True(t, testutil.Dec("99.99").Equal(res.Items[0].RemainingDebt))
	assert.True(t, testutil.Dec("99.99").Equal(assertAggregate(t, f, customer.ID)))
}

func TestApplyPayment_Concurrentes(t *testing.T) {
	f := testutil.New(t, 0)
	customer := f.Customer(t, "Joko")
	for i := 0; i < 4; i++ {
		f.Debt(t, customer, 250)
	}
	uc := newUseCase(f)

	const workers = 10
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.ApplyPayment(context.Background(), f.Cashier, debt.PaymentInput{
				CustomerID:  customer.ID,
				Amount:      decimal.NewFromInt(100),
				PaymentCode: fmt.Sprintf("PAY-%d", i),
			})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.True(t, assertAggregate(t, f, customer.ID).IsZero())

	_, err := uc.ApplyPayment(context.Background(), f.Cashier, debt.PaymentInput{CustomerID: customer.ID, Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrOverpayment)
}

func TestGetPayment_ConDesglose(t *testing.T) {
	f := testutil.New(t, 0)
	customer := f.Customer(t, "Tono")
	f.Debt(t, customer, 300)
	f.Debt(t, customer, 300)
	uc := newUseCase(f)
	ctx := context.Background()

	res, err := uc.ApplyPayment(ctx, f.Cashier, debt.PaymentInput{CustomerID: customer.ID, Amount: decimal.NewFromInt(450), Note: "abono semanal"})
	require.NoError(t, err)

	p, items, err := uc.GetPayment(ctx, f.Cashier, res.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, "abono semanal", p.Note)
	require.Len(t, items, 2)
	assert.True(t, testutil.Dec("300").Equal(items[0].Amount))
	assert.True(t, testutil.Dec("150").Equal(items[1].Amount))

	_, _, err = uc.GetPayment(ctx, testutil.New(t, 0).Cashier, res.Payment.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = uc.GetPayment(ctx, f.Cashier, "PAY-1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "un código no es un ID")
}

func TestGeneratePaymentCode_Formato(t *testing.T) {
	got := debt.GeneratePaymentCode(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, strings.HasPrefix(got, "PAY-20260301-"))
	assert.Len(t, got, len("PAY-20260301-")+8)
}
