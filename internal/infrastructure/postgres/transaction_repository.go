package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

const transactionColumns = `id, store_id, transaction_code, customer_id, total_price, discount, tax, grand_total,
	total_payment, total_change, total_profit, payment_method, cashier_id, created_at`

const transactionItemColumns = `id, transaction_id, product_id, variant_id, restock_id, quantity, price, discount,
	discounted_price, total_price, discounted_total_price, unit_cost, profit, created_at`

// TransactionRepo ventas confirmadas (append-only).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste la cabecera. (store_id, transaction_code) es único.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.StoreID, t.TransactionCode, t.CustomerID, t.TotalPrice, t.Discount, t.Tax, t.GrandTotal,
		t.TotalPayment, t.TotalChange, t.TotalProfit, t.PaymentMethod, t.CashierID, t.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// CreateItem persiste una línea vendida.
func (r *TransactionRepo) CreateItem(ctx context.Context, it *entity.TransactionItem) error {
	query := `
		INSERT INTO transaction_items (` + transactionItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.TransactionID, it.ProductID, it.VariantID, it.RestockID, it.Quantity, it.Price, it.Discount,
		it.DiscountedPrice, it.TotalPrice, it.DiscountedTotalPrice, it.UnitCost, it.Profit, it.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction item: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	t, err := scanTransaction(r.q.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// GetByCode obtiene una venta por tienda y código.
func (r *TransactionRepo) GetByCode(ctx context.Context, storeID, code string) (*entity.Transaction, error) {
	t, err := scanTransaction(r.q.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE store_id = $1 AND transaction_code = $2`,
		storeID, code,
	))
	if err != nil {
		return nil, fmt.Errorf("get transaction by code: %w", err)
	}
	return t, nil
}

// ListItems lista las líneas de una venta.
func (r *TransactionRepo) ListItems(ctx context.Context, transactionID string) ([]*entity.TransactionItem, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+transactionItemColumns+` FROM transaction_items WHERE transaction_id = $1 ORDER BY created_at, id`,
		transactionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transaction items: %w", err)
	}
	defer rows.Close()
	var list []*entity.TransactionItem
	for rows.Next() {
		var it entity.TransactionItem
		if err := rows.Scan(&it.ID, &it.TransactionID, &it.ProductID, &it.VariantID, &it.RestockID, &it.Quantity,
			&it.Price, &it.Discount, &it.DiscountedPrice, &it.TotalPrice, &it.DiscountedTotalPrice,
			&it.UnitCost, &it.Profit, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// ListByRange lista las ventas de la tienda con created_at entre from y to (inclusive).
func (r *TransactionRepo) ListByRange(ctx context.Context, storeID string, from, to time.Time) ([]*entity.Transaction, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE store_id = $1 AND created_at BETWEEN $2 AND $3
		ORDER BY created_at, transaction_code`,
		storeID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var t entity.Transaction
	err := row.Scan(&t.ID, &t.StoreID, &t.TransactionCode, &t.CustomerID, &t.TotalPrice, &t.Discount, &t.Tax,
		&t.GrandTotal, &t.TotalPayment, &t.TotalChange, &t.TotalProfit, &t.PaymentMethod, &t.CashierID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
