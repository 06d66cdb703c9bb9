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

var _ repository.CartRepository = (*CartRepo)(nil)

const (
	cartColumns     = `id, store_id, user_id, transaction_code, total_price, created_at, updated_at`
	cartItemColumns = `id, cart_id, product_id, variant_id, quantity, price, total_price, created_at, updated_at`
)

// CartRepo carritos e ítems sobre PostgreSQL. (cart_id, variant_id) tiene índice único.
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// GetOrCreate inserta el carrito si no existe para (tienda, usuario, código) y devuelve el vigente.
func (r *CartRepo) GetOrCreate(ctx context.Context, cart *entity.Cart) (*entity.Cart, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO carts (`+cartColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (store_id, user_id, transaction_code) DO NOTHING`,
		cart.ID, cart.StoreID, cart.UserID, cart.TransactionCode, cart.TotalPrice, cart.CreatedAt, cart.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert cart: %w", err)
	}
	out, err := r.GetByCode(ctx, cart.StoreID, cart.UserID, cart.TransactionCode)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, domain.ErrCartNotFound
	}
	return out, nil
}

// GetByCode obtiene el carrito de un usuario para un código de transacción.
func (r *CartRepo) GetByCode(ctx context.Context, storeID, userID, code string) (*entity.Cart, error) {
	c, err := scanCart(r.q.QueryRow(ctx,
		`SELECT `+cartColumns+` FROM carts WHERE store_id = $1 AND user_id = $2 AND transaction_code = $3`,
		storeID, userID, code,
	))
	if err != nil {
		return nil, fmt.Errorf("get cart by code: %w", err)
	}
	return c, nil
}

// GetByID obtiene un carrito por ID.
func (r *CartRepo) GetByID(ctx context.Context, id string) (*entity.Cart, error) {
	c, err := scanCart(r.q.QueryRow(ctx, `SELECT `+cartColumns+` FROM carts WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return c, nil
}

// Lock bloquea la fila del carrito (SELECT FOR UPDATE) hasta el fin de la transacción.
func (r *CartRepo) Lock(ctx context.Context, id string) (*entity.Cart, error) {
	c, err := scanCart(r.q.QueryRow(ctx, `SELECT `+cartColumns+` FROM carts WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("lock cart: %w", err)
	}
	return c, nil
}

// Delete elimina el carrito; los ítems caen por ON DELETE CASCADE.
func (r *CartRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM carts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

// IncrementItem suma una unidad a la línea de la variante (o la crea) en una sola sentencia.
func (r *CartRepo) IncrementItem(ctx context.Context, item *entity.CartItem) (*entity.CartItem, error) {
	query := `
		INSERT INTO cart_items (` + cartItemColumns + `)
		VALUES ($1, $2, $3, $4, 1, $5, $5, $6, $6)
		ON CONFLICT (cart_id, variant_id) DO UPDATE SET
			quantity = cart_items.quantity + 1,
			price = EXCLUDED.price,
			total_price = EXCLUDED.price * (cart_items.quantity + 1),
			updated_at = EXCLUDED.updated_at
		RETURNING ` + cartItemColumns
	out, err := scanCartItem(r.q.QueryRow(ctx, query,
		item.ID, item.CartID, item.ProductID, item.VariantID, item.Price, item.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("increment cart item: %w", err)
	}
	if out == nil {
		return nil, domain.ErrCartNotFound
	}
	return out, nil
}

// GetItem obtiene una línea por ID.
func (r *CartRepo) GetItem(ctx context.Context, id string) (*entity.CartItem, error) {
	it, err := scanCartItem(r.q.QueryRow(ctx, `SELECT `+cartItemColumns+` FROM cart_items WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	return it, nil
}

// GetItemByVariant obtiene la línea de una variante dentro del carrito.
func (r *CartRepo) GetItemByVariant(ctx context.Context, cartID, variantID string) (*entity.CartItem, error) {
	it, err := scanCartItem(r.q.QueryRow(ctx,
		`SELECT `+cartItemColumns+` FROM cart_items WHERE cart_id = $1 AND variant_id = $2`,
		cartID, variantID,
	))
	if err != nil {
		return nil, fmt.Errorf("get cart item by variant: %w", err)
	}
	return it, nil
}

// UpdateItem reemplaza variante, cantidad y precios de la línea.
func (r *CartRepo) UpdateItem(ctx context.Context, item *entity.CartItem) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE cart_items
		SET product_id = $2, variant_id = $3, quantity = $4, price = $5, total_price = $6, updated_at = $7
		WHERE id = $1`,
		item.ID, item.ProductID, item.VariantID, item.Quantity, item.Price, item.TotalPrice, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update cart item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteItem elimina una línea.
func (r *CartRepo) DeleteItem(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return nil
}

// ListItems lista las líneas del carrito en orden de inserción.
func (r *CartRepo) ListItems(ctx context.Context, cartID string) ([]*entity.CartItem, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+cartItemColumns+` FROM cart_items WHERE cart_id = $1 ORDER BY created_at, id`, cartID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()
	var list []*entity.CartItem
	for rows.Next() {
		var it entity.CartItem
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductID, &it.VariantID, &it.Quantity,
			&it.Price, &it.TotalPrice, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// RecalculateTotal fija carts.total_price a la suma de sus líneas y la devuelve.
func (r *CartRepo) RecalculateTotal(ctx context.Context, cartID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		UPDATE carts SET
			total_price = COALESCE((SELECT SUM(total_price) FROM cart_items WHERE cart_id = $1), 0),
			updated_at = now()
		WHERE id = $1
		RETURNING total_price`, cartID,
	).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrCartNotFound
		}
		return decimal.Zero, fmt.Errorf("recalculate cart total: %w", err)
	}
	return total, nil
}

func scanCart(row pgx.Row) (*entity.Cart, error) {
	var c entity.Cart
	err := row.Scan(&c.ID, &c.StoreID, &c.UserID, &c.TransactionCode, &c.TotalPrice, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func scanCartItem(row pgx.Row) (*entity.CartItem, error) {
	var it entity.CartItem
	err := row.Scan(&it.ID, &it.CartID, &it.ProductID, &it.VariantID, &it.Quantity,
		&it.Price, &it.TotalPrice, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}
