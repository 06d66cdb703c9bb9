// Package checkout convierte un carrito en una venta confirmada (Transaction) de forma atómica.
package checkout

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kasir-api/internal/application/ports"
	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/internal/domain/debt"
	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
	"github.com/jhoicas/kasir-api/pkg/logger"
)

var hundred = decimal.NewFromInt(100)

// CheckoutUseCase confirma el carrito: crea la venta y sus líneas, descuenta stock por línea y,
// en ventas a crédito, abre las líneas de deuda del cliente. Todo en una sola transacción.
type CheckoutUseCase struct {
	txRunner  ports.TxRunner
	inventory StockAdjuster
	metrics   ports.MetricsRecorder
	log       *logger.Logger
	now       func() time.Time
}

// NewCheckoutUseCase construye el caso de uso. metrics y log pueden ser nil.
func NewCheckoutUseCase(
	txRunner ports.TxRunner,
	inventory StockAdjuster,
	metrics ports.MetricsRecorder,
	log *logger.Logger,
	clock func() time.Time,
) *CheckoutUseCase {
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if clock == nil {
		clock = time.Now
	}
	return &CheckoutUseCase{
		txRunner:  txRunner,
		inventory: inventory,
		metrics:   metrics,
		log:       log,
		now:       clock,
	}
}

// CommitInput entrada del checkout.
type CommitInput struct {
	TransactionCode string
	TotalPayment    decimal.Decimal
	PaymentMethod   string
	CustomerID      string // obligatorio si PaymentMethod es debt
}

// Receipt resultado de una venta confirmada.
type Receipt struct {
	Transaction *entity.Transaction
	Items       []*entity.TransactionItem
	DebtItems   []*entity.DebtItem
	DownPayment *entity.DebtPayment // anticipo de una venta a crédito; nil si no hubo
}

// line precálculo de una línea de venta antes de persistir.
type line struct {
	cart     *entity.CartItem
	discount decimal.Decimal // por unidad
	unitCost decimal.Decimal
	restock  *string
}

// Commit confirma el carrito identificado por TransactionCode.
//
// Retorna:
//   - domain.ErrEmptyCart            si el carrito no existe o no tiene ítems.
//   - domain.ErrInvalidPaymentMethod si el método no es cash, qris o debt.
//   - domain.ErrCustomerRequired     si es debt sin cliente.
//   - domain.ErrCustomerNotFound     si el cliente no existe en la tienda.
//   - domain.ErrInvalidAmount        si el pago es negativo o tiene más de dos decimales.
//   - domain.ErrInsufficientPayment  si cash/qris no cubre el grand_total.
//   - domain.ErrCheckoutFailed       si falla el almacenamiento (envuelve la causa).
func (uc *CheckoutUseCase) Commit(ctx context.Context, rc domain.RequestContext, in CommitInput) (*Receipt, error) {
	if !entity.ValidSalePaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidPaymentMethod
	}
	if in.TotalPayment.IsNegative() || !domain.IsMoney(in.TotalPayment) {
		return nil, domain.ErrInvalidAmount
	}
	isDebt := in.PaymentMethod == entity.PaymentMethodDebt
	if isDebt && in.CustomerID == "" {
		return nil, domain.ErrCustomerRequired
	}
	if in.CustomerID != "" && !domain.IsID(in.CustomerID) {
		return nil, domain.ErrCustomerNotFound
	}
	if in.TransactionCode == "" {
		return nil, domain.ErrEmptyCart
	}

	now := uc.now()
	var receipt *Receipt
	err := uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		var err error
		receipt, err = uc.commitInTx(ctx, tx, rc, in, now)
		return err
	})
	if err != nil {
		if domain.IsBusinessError(err) {
			uc.metrics.CheckoutFailed(reasonOf(err))
			return nil, err
		}
		uc.metrics.CheckoutFailed("storage")
		uc.log.Error().Err(err).
			Str("store_id", rc.StoreID).
			Str("transaction_code", in.TransactionCode).
			Msg("checkout revertido")
		return nil, fmt.Errorf("%w: %w", domain.ErrCheckoutFailed, err)
	}

	uc.metrics.CheckoutCommitted(receipt.Transaction.PaymentMethod, receipt.Transaction.GrandTotal)
	uc.log.Info().
		Str("store_id", rc.StoreID).
		Str("transaction_code", receipt.Transaction.TransactionCode).
		Str("payment_method", receipt.Transaction.PaymentMethod).
		Str("grand_total", receipt.Transaction.GrandTotal.String()).
		Int("items", len(receipt.Items)).
		Msg("venta confirmada")
	return receipt, nil
}

func (uc *CheckoutUseCase) commitInTx(
	ctx context.Context,
	tx repository.TxRepos,
	rc domain.RequestContext,
	in CommitInput,
	now time.Time,
) (*Receipt, error) {
	// 1) Carrito bloqueado: un segundo checkout concurrente espera aquí y luego lo ve vacío.
	cart, err := tx.Carts.GetByCode(ctx, rc.StoreID, rc.OperatorID, in.TransactionCode)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, domain.ErrEmptyCart
	}
	if cart, err = tx.Carts.Lock(ctx, cart.ID); err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, domain.ErrEmptyCart
	}
	items, err := tx.Carts.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	var customerID *string
	if in.CustomerID != "" {
		customer, err := tx.Customers.GetForUpdate(ctx, in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil || customer.StoreID != rc.StoreID {
			return nil, domain.ErrCustomerNotFound
		}
		customerID = &customer.ID
	}

	store, err := tx.Stores.GetByID(ctx, rc.StoreID)
	if err != nil {
		return nil, err
	}
	taxRate := decimal.Zero
	if store != nil {
		taxRate = store.TaxRate
	}

	// 2) Snapshot de descuento y costo por variante
	lines := make([]line, 0, len(items))
	for _, item := range items {
		variant, err := tx.Variants.GetByID(ctx, item.VariantID)
		if err != nil {
			return nil, err
		}
		if variant == nil || variant.StoreID != rc.StoreID {
			return nil, domain.ErrVariantNotFound
		}
		disc, err := tx.Discounts.ActiveForVariant(ctx, rc.StoreID, variant.ID)
		if err != nil {
			return nil, err
		}
		l := line{cart: item, unitCost: variant.Cost}
		if disc.ActiveAt(now) {
			l.discount = disc.UnitDiscount(item.Price)
		}
		restock, err := tx.Restocks.LatestByVariant(ctx, variant.ID)
		if err != nil {
			return nil, err
		}
		if restock != nil {
			l.restock = &restock.ID
			if l.unitCost.IsZero() {
				l.unitCost = restock.UnitCost
			}
		}
		lines = append(lines, l)
	}

	// 3) Totales
	totalPrice := decimal.Zero
	totalDiscount := decimal.Zero
	for _, l := range lines {
		qty := decimal.NewFromInt(int64(l.cart.Quantity))
		totalPrice = totalPrice.Add(l.cart.TotalPrice)
		totalDiscount = totalDiscount.Add(l.discount.Mul(qty))
	}
	net := totalPrice.Sub(totalDiscount)
	tax := net.Mul(taxRate).Div(hundred).Round(2)
	grandTotal := net.Add(tax)

	isDebt := in.PaymentMethod == entity.PaymentMethodDebt
	if !isDebt && in.TotalPayment.LessThan(grandTotal) {
		return nil, domain.ErrInsufficientPayment
	}

	sale := &entity.Transaction{
		ID:              uuid.New().String(),
		StoreID:         rc.StoreID,
		TransactionCode: in.TransactionCode,
		CustomerID:      customerID,
		TotalPrice:      totalPrice,
		Discount:        totalDiscount,
		Tax:             tax,
		GrandTotal:      grandTotal,
		TotalPayment:    in.TotalPayment,
		TotalChange:     in.TotalPayment.Sub(grandTotal),
		TotalProfit:     decimal.Zero,
		PaymentMethod:   in.PaymentMethod,
		CashierID:       rc.OperatorID,
		CreatedAt:       now,
	}
	saleItems := make([]*entity.TransactionItem, 0, len(lines))
	for _, l := range lines {
		qty := decimal.NewFromInt(int64(l.cart.Quantity))
		discounted := l.cart.Price.Sub(l.discount)
		item := &entity.TransactionItem{
			ID:                   uuid.New().String(),
			TransactionID:        sale.ID,
			ProductID:            l.cart.ProductID,
			VariantID:            l.cart.VariantID,
			RestockID:            l.restock,
			Quantity:             l.cart.Quantity,
			Price:                l.cart.Price,
			Discount:             l.discount,
			DiscountedPrice:      discounted,
			TotalPrice:           l.cart.TotalPrice,
			DiscountedTotalPrice: discounted.Mul(qty),
			UnitCost:             l.unitCost,
			Profit:               discounted.Sub(l.unitCost).Mul(qty),
			CreatedAt:            now,
		}
		sale.TotalProfit = sale.TotalProfit.Add(item.Profit)
		saleItems = append(saleItems, item)
	}

	// 4) Persistencia: cabecera y líneas
	if err := tx.Transactions.Create(ctx, sale); err != nil {
		return nil, err
	}
	for _, item := range saleItems {
		if err := tx.Transactions.CreateItem(ctx, item); err != nil {
			return nil, err
		}
	}

	// Salida de stock por línea. Los registros se bloquean en orden de variante para que dos
	// ventas con las mismas variantes no se esperen mutuamente.
	reference := "venta " + sale.TransactionCode
	byVariant := slices.Clone(saleItems)
	slices.SortStableFunc(byVariant, func(a, b *entity.TransactionItem) int {
		return cmp.Compare(a.VariantID, b.VariantID)
	})
	for _, item := range byVariant {
		if _, err := uc.inventory.AdjustInTx(ctx, tx, rc, item.VariantID, -item.Quantity, reference, now); err != nil {
			return nil, err
		}
	}

	receipt := &Receipt{Transaction: sale, Items: saleItems}

	// 5) Venta a crédito: una línea de deuda por ítem más la del impuesto
	if isDebt {
		debtItems, payment, err := uc.openDebt(ctx, tx, rc, sale, saleItems, now)
		if err != nil {
			return nil, err
		}
		receipt.DebtItems = debtItems
		receipt.DownPayment = payment
	}

	// 6) El carrito se consume
	if err := tx.Carts.Delete(ctx, cart.ID); err != nil {
		return nil, err
	}
	return receipt, nil
}

// openDebt crea las DebtItems de una venta a crédito y aplica el anticipo (TotalPayment) sobre
// ellas en orden FIFO. El saldo del cliente sube en lo que queda pendiente.
func (uc *CheckoutUseCase) openDebt(
	ctx context.Context,
	tx repository.TxRepos,
	rc domain.RequestContext,
	sale *entity.Transaction,
	saleItems []*entity.TransactionItem,
	now time.Time,
) ([]*entity.DebtItem, *entity.DebtPayment, error) {
	customerID := *sale.CustomerID
	saleID := sale.ID
	debtItems := make([]*entity.DebtItem, 0, len(saleItems)+1)
	for _, item := range saleItems {
		d := entity.NewDebtItem(uuid.New().String(), rc.StoreID, customerID, item.DiscountedTotalPrice, now)
		d.TransactionID = &saleID
		itemID := item.ID
		d.TransactionItemID = &itemID
		debtItems = append(debtItems, d)
	}
	if sale.Tax.IsPositive() {
		d := entity.NewDebtItem(uuid.New().String(), rc.StoreID, customerID, sale.Tax, now)
		d.TransactionID = &saleID
		debtItems = append(debtItems, d)
	}

	downPayment := decimal.Min(sale.TotalPayment, sale.GrandTotal)
	var allocations []debt.Allocation
	if downPayment.IsPositive() {
		allocations, _ = debt.Allocate(debtItems, downPayment, now)
	}

	for _, d := range debtItems {
		if err := tx.Debts.CreateItem(ctx, d); err != nil {
			return nil, nil, err
		}
	}

	var payment *entity.DebtPayment
	if len(allocations) > 0 {
		payment = &entity.DebtPayment{
			ID:            uuid.New().String(),
			StoreID:       rc.StoreID,
			PaymentCode:   entity.DownPaymentCode(sale.TransactionCode),
			CustomerID:    customerID,
			Amount:        downPayment,
			PaymentMethod: entity.DebtPaymentMethodCash,
			Note:          "anticipo venta " + sale.TransactionCode,
			OperatorID:    rc.OperatorID,
			PaidAt:        now,
		}
		if err := tx.Debts.CreatePayment(ctx, payment); err != nil {
			return nil, nil, err
		}
		for _, a := range allocations {
			if err := tx.Debts.CreatePaymentItem(ctx, &entity.DebtPaymentItem{
				ID:            uuid.New().String(),
				DebtPaymentID: payment.ID,
				DebtItemID:    a.Item.ID,
				Amount:        a.Applied,
				RemainingDebt: a.Item.RemainingAmount,
				CreatedAt:     now,
			}); err != nil {
				return nil, nil, err
			}
		}
	}

	pending := debt.Outstanding(debtItems)
	if pending.IsPositive() {
		if _, err := tx.Customers.AddDebt(ctx, customerID, pending); err != nil {
			return nil, nil, err
		}
	}
	return debtItems, payment, nil
}

// reasonOf etiqueta corta para la métrica de fallos.
func reasonOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInsufficientPayment):
		return "insufficient_payment"
	case errors.Is(err, domain.ErrCustomerNotFound):
		return "customer_not_found"
	case errors.Is(err, domain.ErrVariantNotFound):
		return "variant_not_found"
	case errors.Is(err, domain.ErrDuplicate):
		return "duplicate"
	default:
		return "validation"
	}
}
