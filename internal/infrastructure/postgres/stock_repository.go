package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
)

var (
	_ repository.StockRepository         = (*StockRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
	_ repository.RestockRepository       = (*RestockRepo)(nil)
)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de una variante; registro en cero (not-set) si no existe.
func (r *StockRepo) Get(ctx context.Context, variantID string) (*entity.StockRecord, error) {
	query := `
		SELECT store_id, variant_id, quantity, status, updated_at
		FROM stock WHERE variant_id = $1`
	return r.scan(ctx, query, variantID, "get stock")
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, variantID string) (*entity.StockRecord, error) {
	query := `
		SELECT store_id, variant_id, quantity, status, updated_at
		FROM stock WHERE variant_id = $1
		FOR UPDATE`
	return r.scan(ctx, query, variantID, "get stock for update")
}

func (r *StockRepo) scan(ctx context.Context, query, variantID, op string) (*entity.StockRecord, error) {
	var s entity.StockRecord
	err := r.q.QueryRow(ctx, query, variantID).Scan(
		&s.StoreID, &s.VariantID, &s.Quantity, &s.Status, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockRecord{VariantID: variantID, Status: entity.StockStatusNotSet}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}

// Upsert inserta o actualiza cantidad y tier de la variante.
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.StockRecord) error {
	query := `
		INSERT INTO stock (store_id, variant_id, quantity, status, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (variant_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, stock.StoreID, stock.VariantID, stock.Quantity, stock.Status, stock.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// StockMovementRepo bitácora append-only de movimientos de stock.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create agrega un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, store_id, variant_id, type, quantity, reference, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.StoreID, m.VariantID, m.Type, m.Quantity, m.Reference, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByVariant lista movimientos de la variante por fecha (search filtra referencia).
func (r *StockMovementRepo) ListByVariant(ctx context.Context, variantID string, p repository.ListParams) ([]*entity.StockMovement, int, error) {
	where := `WHERE variant_id = $1 AND ($2 = '' OR reference ILIKE $3)`
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements `+where,
		variantID, p.Search, likePattern(p.Search),
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock movements: %w", err)
	}
	query := `
		SELECT id, store_id, variant_id, type, quantity, reference, created_by, created_at
		FROM stock_movements ` + where + ` ` +
		orderBy(p, map[string]string{"created_at": "created_at"}, "created_at") + `, id
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, variantID, p.Search, likePattern(p.Search), p.Limit, p.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.StoreID, &m.VariantID, &m.Type, &m.Quantity, &m.Reference, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, total, rows.Err()
}

// RestockRepo lotes de reabastecimiento.
type RestockRepo struct {
	q Querier
}

// NewRestockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRestockRepository(q Querier) *RestockRepo {
	return &RestockRepo{q: q}
}

// Create persiste un lote.
func (r *RestockRepo) Create(ctx context.Context, rs *entity.Restock) error {
	query := `
		INSERT INTO restocks (id, store_id, variant_id, supplier, quantity, unit_cost, total_cost, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		rs.ID, rs.StoreID, rs.VariantID, rs.Supplier, rs.Quantity, rs.UnitCost, rs.TotalCost, rs.CreatedBy, rs.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert restock: %w", err)
	}
	return nil
}

// LatestByVariant devuelve el último lote de la variante o nil.
func (r *RestockRepo) LatestByVariant(ctx context.Context, variantID string) (*entity.Restock, error) {
	query := `
		SELECT id, store_id, variant_id, supplier, quantity, unit_cost, total_cost, created_by, created_at
		FROM restocks WHERE variant_id = $1
		ORDER BY created_at DESC LIMIT 1`
	var rs entity.Restock
	err := r.q.QueryRow(ctx, query, variantID).Scan(
		&rs.ID, &rs.StoreID, &rs.VariantID, &rs.Supplier, &rs.Quantity, &rs.UnitCost, &rs.TotalCost, &rs.CreatedBy, &rs.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest restock: %w", err)
	}
	return &rs, nil
}
