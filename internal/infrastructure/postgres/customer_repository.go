package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

var customerSortColumns = map[string]string{
	"name":       "name",
	"total_debt": "total_debt",
	"created_at": "created_at",
}

const customerColumns = `id, store_id, name, phone, address, total_debt, created_at, updated_at`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		customer.ID, customer.StoreID, customer.Name, customer.Phone, customer.Address,
		customer.TotalDebt, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// GetForUpdate obtiene el cliente y bloquea su fila; serializa pagos y ventas a crédito del mismo cliente.
func (r *CustomerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("get customer for update: %w", err)
	}
	return c, nil
}

// List lista clientes de la tienda con búsqueda por nombre/teléfono.
func (r *CustomerRepo) List(ctx context.Context, storeID string, p repository.ListParams) ([]*entity.Customer, int, error) {
	where := `WHERE store_id = $1 AND ($2 = '' OR name ILIKE $3 OR phone ILIKE $3)`
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM customers `+where,
		storeID, p.Search, likePattern(p.Search),
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}
	query := `SELECT ` + customerColumns + ` FROM customers ` + where + ` ` +
		orderBy(p, customerSortColumns, "created_at") + `, id LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, storeID, p.Search, likePattern(p.Search), p.Limit, p.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(&c.ID, &c.StoreID, &c.Name, &c.Phone, &c.Address, &c.TotalDebt, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, &c)
	}
	return list, total, rows.Err()
}

// AddDebt suma delta (positivo o negativo) a total_debt y devuelve el saldo resultante.
func (r *CustomerRepo) AddDebt(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`UPDATE customers SET total_debt = total_debt + $2, updated_at = now() WHERE id = $1 RETURNING total_debt`,
		id, delta,
	).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrCustomerNotFound
		}
		return decimal.Zero, fmt.Errorf("update customer debt: %w", err)
	}
	return total, nil
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(&c.ID, &c.StoreID, &c.Name, &c.Phone, &c.Address, &c.TotalDebt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
