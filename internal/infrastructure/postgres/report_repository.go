package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jcamachor/distribuidora-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas agregadas de solo lectura sobre stock y pedidos.
// Siempre va contra el pool: los reportes no participan en transacciones.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// GetStockByWarehouse stock actual de una bodega, una fila por producto.
func (r *ReportRepo) GetStockByWarehouse(ctx context.Context, warehouseID string) ([]repository.WarehouseStockResult, error) {
	const query = `
	SELECT s.product_id, p.sku, p.name, s.quantity
	FROM stock s
	JOIN products p ON p.id = s.product_id
	WHERE s.warehouse_id = $1
	ORDER BY p.name`

	rows, err := r.pool.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("reports.GetStockByWarehouse: %w", err)
	}
	defer rows.Close()

	var results []repository.WarehouseStockResult
	for rows.Next() {
		var row repository.WarehouseStockResult
		if err := rows.Scan(&row.ProductID, &row.SKU, &row.ProductName, &row.Quantity); err != nil {
			return nil, fmt.Errorf("reports.GetStockByWarehouse scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetStockByProduct stock de un producto desglosado por bodega.
func (r *ReportRepo) GetStockByProduct(ctx context.Context, productID string) ([]repository.ProductStockResult, error) {
	const query = `
	SELECT s.warehouse_id, w.name, s.quantity
	FROM stock s
	JOIN warehouses w ON w.id = s.warehouse_id
	WHERE s.product_id = $1
	ORDER BY w.name`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("reports.GetStockByProduct: %w", err)
	}
	defer rows.Close()

	var results []repository.ProductStockResult
	for rows.Next() {
		var row repository.ProductStockResult
		if err := rows.Scan(&row.WarehouseID, &row.WarehouseName, &row.Quantity); err != nil {
			return nil, fmt.Errorf("reports.GetStockByProduct scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetInventoryValuation valor de inventario por producto, sumando todas las
// bodegas y valorando a precio de lista.
func (r *ReportRepo) GetInventoryValuation(ctx context.Context) ([]repository.ValuationResult, error) {
	const query = `
	SELECT
	    p.id,
	    p.sku,
	    p.name,
	    COALESCE(SUM(s.quantity), 0)           AS quantity,
	    p.price                                AS unit_price,
	    COALESCE(SUM(s.quantity), 0) * p.price AS total_value
	FROM products p
	LEFT JOIN stock s ON s.product_id = p.id
	GROUP BY p.id, p.sku, p.name, p.price
	ORDER BY total_value DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("reports.GetInventoryValuation: %w", err)
	}
	defer rows.Close()

	var results []repository.ValuationResult
	for rows.Next() {
		var row repository.ValuationResult
		if err := rows.Scan(
			&row.ProductID, &row.SKU, &row.ProductName,
			&row.Quantity, &row.UnitPrice, &row.TotalValue,
		); err != nil {
			return nil, fmt.Errorf("reports.GetInventoryValuation scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetSalesTotals totales del período sobre pedidos no cancelados.
// COALESCE devuelve cero en períodos sin ventas.
func (r *ReportRepo) GetSalesTotals(ctx context.Context, from, to time.Time) (repository.SalesTotalsResult, error) {
	const query = `
	SELECT
	    COUNT(DISTINCT o.id)            AS order_count,
	    COALESCE(SUM(l.quantity), 0)    AS units_sold,
	    COALESCE(SUM(l.subtotal), 0)    AS total_amount
	FROM orders o
	JOIN order_lines l ON l.order_id = o.id
	WHERE o.date BETWEEN $1 AND $2
	  AND o.status <> 'CANCELLED'`

	var result repository.SalesTotalsResult
	err := r.pool.QueryRow(ctx, query, from, to).Scan(
		&result.OrderCount, &result.UnitsSold, &result.TotalAmount,
	)
	if err != nil {
		return repository.SalesTotalsResult{}, fmt.Errorf("reports.GetSalesTotals: %w", err)
	}
	return result, nil
}

// GetTopProducts productos con mayor ingreso del período (pedidos no cancelados).
func (r *ReportRepo) GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]repository.TopProductResult, error) {
	const query = `
	SELECT
	    p.id,
	    p.sku,
	    p.name,
	    SUM(l.quantity) AS quantity_sold,
	    SUM(l.subtotal) AS total_revenue
	FROM order_lines l
	JOIN orders o   ON o.id = l.order_id
	JOIN products p ON p.id = l.product_id
	WHERE o.date BETWEEN $1 AND $2
	  AND o.status <> 'CANCELLED'
	GROUP BY p.id, p.sku, p.name
	ORDER BY total_revenue DESC
	LIMIT $3`

	rows, err := r.pool.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("reports.GetTopProducts: %w", err)
	}
	defer rows.Close()

	var results []repository.TopProductResult
	for rows.Next() {
		var row repository.TopProductResult
		if err := rows.Scan(
			&row.ProductID, &row.SKU, &row.ProductName,
			&row.QuantitySold, &row.TotalRevenue,
		); err != nil {
			return nil, fmt.Errorf("reports.GetTopProducts scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetLowStock pares producto+bodega con cantidad por debajo del umbral.
func (r *ReportRepo) GetLowStock(ctx context.Context, threshold int64) ([]repository.LowStockResult, error) {
	const query = `
	SELECT s.product_id, p.sku, p.name, s.warehouse_id, s.quantity
	FROM stock s
	JOIN products p ON p.id = s.product_id
	WHERE s.quantity < $1
	ORDER BY s.quantity, p.name`

	rows, err := r.pool.Query(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("reports.GetLowStock: %w", err)
	}
	defer rows.Close()

	var results []repository.LowStockResult
	for rows.Next() {
		var row repository.LowStockResult
		if err := rows.Scan(
			&row.ProductID, &row.SKU, &row.ProductName,
			&row.WarehouseID, &row.Quantity,
		); err != nil {
			return nil, fmt.Errorf("reports.GetLowStock scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
