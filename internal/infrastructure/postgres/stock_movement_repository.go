package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jcamachor/distribuidora-api/internal/domain/entity"
	"github.com/jcamachor/distribuidora-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del diario de movimientos sobre PostgreSQL.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento del diario. Los movimientos son inmutables:
// no hay Update ni Delete.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements
			(id, reference_id, product_id, warehouse_id, type, quantity, date, created_at, created_by)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, NULLIF($9, ''))`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ReferenceID, m.ProductID, m.WarehouseID, m.Type,
		m.Quantity, m.Date, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct lista movimientos de un producto, con rango de fechas opcional.
func (r *StockMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, COALESCE(reference_id, ''), product_id, warehouse_id, type,
		       quantity, date, created_at, COALESCE(created_by, '')
		FROM stock_movements
		WHERE product_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date DESC LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, productID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByWarehouse lista movimientos de una bodega, con rango de fechas opcional.
func (r *StockMovementRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, COALESCE(reference_id, ''), product_id, warehouse_id, type,
		       quantity, date, created_at, COALESCE(created_by, '')
		FROM stock_movements
		WHERE warehouse_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date DESC LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, warehouseID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by warehouse: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByReference lista los movimientos originados por un pedido o contenedor.
func (r *StockMovementRepo) ListByReference(referenceID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, COALESCE(reference_id, ''), product_id, warehouse_id, type,
		       quantity, date, created_at, COALESCE(created_by, '')
		FROM stock_movements
		WHERE reference_id = $1
		ORDER BY date`
	rows, err := r.q.Query(context.Background(), query, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list movements by reference: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

func scanMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.ReferenceID, &m.ProductID, &m.WarehouseID, &m.Type,
			&m.Quantity, &m.Date, &m.CreatedAt, &m.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
