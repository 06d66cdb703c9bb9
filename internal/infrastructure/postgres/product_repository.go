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

var (
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.VariantRepository  = (*VariantRepo)(nil)
	_ repository.DiscountRepository = (*DiscountRepo)(nil)
)

// productSortColumns lista blanca de columnas ordenables para productos.
var productSortColumns = map[string]string{
	"name":       "name",
	"sku":        "sku",
	"created_at": "created_at",
}

const productColumns = `id, store_id, sku, name, description, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. (store_id, sku) es único.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.StoreID, p.SKU, p.Name, p.Description, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByStoreAndSKU obtiene un producto por tienda y SKU.
func (r *ProductRepo) GetByStoreAndSKU(ctx context.Context, storeID, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE store_id = $1 AND sku = $2`
	p, err := scanProduct(r.q.QueryRow(ctx, query, storeID, sku))
	if err != nil {
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// List lista productos de la tienda con búsqueda por nombre/SKU, orden y paginación.
func (r *ProductRepo) List(ctx context.Context, storeID string, p repository.ListParams) ([]*entity.Product, int, error) {
	where := `WHERE store_id = $1 AND ($2 = '' OR name ILIKE $3 OR sku ILIKE $3)`
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products `+where,
		storeID, p.Search, likePattern(p.Search),
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products ` + where + ` ` +
		orderBy(p, productSortColumns, "created_at") + ` LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, storeID, p.Search, likePattern(p.Search), p.Limit, p.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var pr entity.Product
		if err := rows.Scan(&pr.ID, &pr.StoreID, &pr.SKU, &pr.Name, &pr.Description, &pr.CreatedAt, &pr.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &pr)
	}
	return list, total, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.StoreID, &p.SKU, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

const variantColumns = `id, store_id, product_id, name, unit, barcode, price, cost, created_at, updated_at, deleted_at`

// VariantRepo implementación de VariantRepository sobre PostgreSQL.
type VariantRepo struct {
	q Querier
}

// NewVariantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

// Create persiste una nueva variante.
func (r *VariantRepo) Create(ctx context.Context, v *entity.Variant) error {
	query := `
		INSERT INTO variants (` + variantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.StoreID, v.ProductID, v.Name, v.Unit, v.Barcode, v.Price, v.Cost,
		v.CreatedAt, v.UpdatedAt, v.DeletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

// GetByID obtiene una variante no borrada por ID.
func (r *VariantRepo) GetByID(ctx context.Context, id string) (*entity.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM variants WHERE id = $1 AND deleted_at IS NULL`
	var v entity.Variant
	err := r.q.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.StoreID, &v.ProductID, &v.Name, &v.Unit, &v.Barcode, &v.Price, &v.Cost,
		&v.CreatedAt, &v.UpdatedAt, &v.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return &v, nil
}

// ListByProduct lista las variantes vigentes de un producto.
func (r *VariantRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM variants
		WHERE product_id = $1 AND deleted_at IS NULL ORDER BY created_at, name`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()
	var list []*entity.Variant
	for rows.Next() {
		var v entity.Variant
		if err := rows.Scan(&v.ID, &v.StoreID, &v.ProductID, &v.Name, &v.Unit, &v.Barcode, &v.Price, &v.Cost,
			&v.CreatedAt, &v.UpdatedAt, &v.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// UpdatePrice actualiza el precio de venta.
func (r *VariantRepo) UpdatePrice(ctx context.Context, id string, price decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE variants SET price = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL`,
		id, price,
	)
	if err != nil {
		return fmt.Errorf("update variant price: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCost actualiza solo el costo promedio (usado por el reabastecimiento).
func (r *VariantRepo) UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error {
	_, err := r.q.Exec(ctx,
		`UPDATE variants SET cost = $2, updated_at = now() WHERE id = $1`,
		id, cost,
	)
	if err != nil {
		return fmt.Errorf("update variant cost: %w", err)
	}
	return nil
}

// DiscountRepo implementación de DiscountRepository sobre PostgreSQL.
type DiscountRepo struct {
	q Querier
}

// NewDiscountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDiscountRepository(q Querier) *DiscountRepo {
	return &DiscountRepo{q: q}
}

// Create persiste un descuento.
func (r *DiscountRepo) Create(ctx context.Context, d *entity.Discount) error {
	query := `
		INSERT INTO discounts (id, store_id, variant_id, type, value, starts_at, ends_at, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.StoreID, d.VariantID, d.Type, d.Value, d.StartsAt, d.EndsAt, d.IsActive, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert discount: %w", err)
	}
	return nil
}

// ActiveForVariant devuelve el descuento activo más reciente de la variante. La vigencia
// (starts_at/ends_at) la evalúa el llamador con su propio reloj.
func (r *DiscountRepo) ActiveForVariant(ctx context.Context, storeID, variantID string) (*entity.Discount, error) {
	query := `
		SELECT id, store_id, variant_id, type, value, starts_at, ends_at, is_active, created_at
		FROM discounts
		WHERE store_id = $1 AND variant_id = $2 AND is_active
		ORDER BY created_at DESC LIMIT 1`
	var d entity.Discount
	err := r.q.QueryRow(ctx, query, storeID, variantID).Scan(
		&d.ID, &d.StoreID, &d.VariantID, &d.Type, &d.Value, &d.StartsAt, &d.EndsAt, &d.IsActive, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active discount: %w", err)
	}
	return &d, nil
}
