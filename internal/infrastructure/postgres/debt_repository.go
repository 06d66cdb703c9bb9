package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
)

var _ repository.DebtRepository = (*DebtRepo)(nil)

const debtItemColumns = `id, store_id, customer_id, transaction_id, transaction_item_id, total_amount, paid_amount,
	remaining_amount, status, last_payment_at, settled_at, seq, created_at, updated_at, deleted_at`

const debtPaymentColumns = `id, store_id, payment_code, customer_id, amount, payment_method, note, operator_id, paid_at`

var debtPaymentSortColumns = map[string]string{
	"amount":  "amount",
	"paid_at": "paid_at",
}

// DebtRepo líneas de deuda, pagos y su asignación sobre PostgreSQL.
type DebtRepo struct {
	q Querier
}

// NewDebtRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDebtRepository(q Querier) *DebtRepo {
	return &DebtRepo{q: q}
}

// CreateItem persiste la línea; seq lo asigna la secuencia de la tabla.
func (r *DebtRepo) CreateItem(ctx context.Context, d *entity.DebtItem) error {
	query := `
		INSERT INTO debt_items (id, store_id, customer_id, transaction_id, transaction_item_id, total_amount,
			paid_amount, remaining_amount, status, last_payment_at, settled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		d.ID, d.StoreID, d.CustomerID, d.TransactionID, d.TransactionItemID, d.TotalAmount,
		d.PaidAmount, d.RemainingAmount, d.Status, d.LastPaymentAt, d.SettledAt, d.CreatedAt, d.UpdatedAt,
	).Scan(&d.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert debt item: %w", err)
	}
	return nil
}

// UpdateItem guarda montos y estado tras aplicar un abono.
func (r *DebtRepo) UpdateItem(ctx context.Context, d *entity.DebtItem) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE debt_items
		SET paid_amount = $2, remaining_amount = $3, status = $4, last_payment_at = $5, settled_at = $6, updated_at = $7
		WHERE id = $1`,
		d.ID, d.PaidAmount, d.RemainingAmount, d.Status, d.LastPaymentAt, d.SettledAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update debt item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListOpenForUpdate lista en orden FIFO las líneas abiertas del cliente y las bloquea.
func (r *DebtRepo) ListOpenForUpdate(ctx context.Context, customerID string) ([]*entity.DebtItem, error) {
	return r.queryItems(ctx, `
		SELECT `+debtItemColumns+` FROM debt_items
		WHERE customer_id = $1 AND status <> 'paid' AND deleted_at IS NULL
		ORDER BY created_at, seq
		FOR UPDATE`, customerID)
}

// ListOpenByStore lista en orden FIFO las líneas abiertas de toda la tienda.
func (r *DebtRepo) ListOpenByStore(ctx context.Context, storeID string) ([]*entity.DebtItem, error) {
	return r.queryItems(ctx, `
		SELECT `+debtItemColumns+` FROM debt_items
		WHERE store_id = $1 AND status <> 'paid' AND deleted_at IS NULL
		ORDER BY created_at, seq`, storeID)
}

// ListItems pagina las líneas del cliente; Search filtra por estado exacto.
func (r *DebtRepo) ListItems(ctx context.Context, customerID string, p repository.ListParams) ([]*entity.DebtItem, int, error) {
	where := `WHERE customer_id = $1 AND deleted_at IS NULL AND ($2 = '' OR status = $2)`
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM debt_items `+where, customerID, p.Search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count debt items: %w", err)
	}
	dir := "DESC"
	if p.SortDir == "asc" {
		dir = "ASC"
	}
	list, err := r.queryItems(ctx, `
		SELECT `+debtItemColumns+` FROM debt_items `+where+`
		ORDER BY created_at `+dir+`, seq `+dir+`
		LIMIT $3 OFFSET $4`, customerID, p.Search, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *DebtRepo) queryItems(ctx context.Context, query string, args ...any) ([]*entity.DebtItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list debt items: %w", err)
	}
	defer rows.Close()
	var list []*entity.DebtItem
	for rows.Next() {
		var d entity.DebtItem
		if err := rows.Scan(&d.ID, &d.StoreID, &d.CustomerID, &d.TransactionID, &d.TransactionItemID,
			&d.TotalAmount, &d.PaidAmount, &d.RemainingAmount, &d.Status, &d.LastPaymentAt, &d.SettledAt,
			&d.Seq, &d.CreatedAt, &d.UpdatedAt, &d.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan debt item: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// CreatePayment persiste el evento de pago. (store_id, payment_code) es único.
func (r *DebtRepo) CreatePayment(ctx context.Context, p *entity.DebtPayment) error {
	query := `
		INSERT INTO debt_payments (` + debtPaymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.StoreID, p.PaymentCode, p.CustomerID, p.Amount, p.PaymentMethod, p.Note, p.OperatorID, p.PaidAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert debt payment: %w", err)
	}
	return nil
}

// CreatePaymentItem registra la porción del pago aplicada a una línea.
func (r *DebtRepo) CreatePaymentItem(ctx context.Context, it *entity.DebtPaymentItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO debt_payment_items (id, debt_payment_id, debt_item_id, amount, remaining_debt, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		it.ID, it.DebtPaymentID, it.DebtItemID, it.Amount, it.RemainingDebt, it.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert debt payment item: %w", err)
	}
	return nil
}

// GetPayment obtiene un pago por ID.
func (r *DebtRepo) GetPayment(ctx context.Context, id string) (*entity.DebtPayment, error) {
	var p entity.DebtPayment
	err := r.q.QueryRow(ctx, `SELECT `+debtPaymentColumns+` FROM debt_payments WHERE id = $1`, id).Scan(
		&p.ID, &p.StoreID, &p.PaymentCode, &p.CustomerID, &p.Amount, &p.PaymentMethod, &p.Note, &p.OperatorID, &p.PaidAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get debt payment: %w", err)
	}
	return &p, nil
}

// ListPayments pagina los pagos del cliente con búsqueda por código o nota.
func (r *DebtRepo) ListPayments(ctx context.Context, customerID string, p repository.ListParams) ([]*entity.DebtPayment, int, error) {
	where := `WHERE customer_id = $1 AND ($2 = '' OR payment_code ILIKE $3 OR note ILIKE $3)`
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM debt_payments `+where,
		customerID, p.Search, likePattern(p.Search),
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count debt payments: %w", err)
	}
	query := `SELECT ` + debtPaymentColumns + ` FROM debt_payments ` + where + ` ` +
		orderBy(p, debtPaymentSortColumns, "paid_at") + `, payment_code LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, customerID, p.Search, likePattern(p.Search), p.Limit, p.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list debt payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.DebtPayment
	for rows.Next() {
		var dp entity.DebtPayment
		if err := rows.Scan(&dp.ID, &dp.StoreID, &dp.PaymentCode, &dp.CustomerID, &dp.Amount,
			&dp.PaymentMethod, &dp.Note, &dp.OperatorID, &dp.PaidAt); err != nil {
			return nil, 0, fmt.Errorf("scan debt payment: %w", err)
		}
		list = append(list, &dp)
	}
	return list, total, rows.Err()
}

// ListPaymentItems lista cómo se repartió un pago entre las líneas, en el orden FIFO de aplicación.
func (r *DebtRepo) ListPaymentItems(ctx context.Context, paymentID string) ([]*entity.DebtPaymentItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT pi.id, pi.debt_payment_id, pi.debt_item_id, pi.amount, pi.remaining_debt, pi.created_at
		FROM debt_payment_items pi
		JOIN debt_items di ON di.id = pi.debt_item_id
		WHERE pi.debt_payment_id = $1
		ORDER BY di.created_at, di.seq`, paymentID)
	if err != nil {
		return nil, fmt.Errorf("list debt payment items: %w", err)
	}
	defer rows.Close()
	var list []*entity.DebtPaymentItem
	for rows.Next() {
		var it entity.DebtPaymentItem
		if err := rows.Scan(&it.ID, &it.DebtPaymentID, &it.DebtItemID, &it.Amount, &it.RemainingDebt, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan debt payment item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
