package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jcamachor/distribuidora-api/internal/domain/entity"
	"github.com/jcamachor/distribuidora-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL.
// Pasar pool o tx (Querier); las mutaciones de pedidos siempre corren en tx
// junto con el ledger.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, customer_id, status, total_amount, COALESCE(notes, ''), date, created_at, updated_at`

// Create persiste un nuevo pedido.
func (r *OrderRepo) Create(order *entity.Order) error {
	query := `
		INSERT INTO orders (id, customer_id, status, total_amount, notes, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.CustomerID, order.Status, order.TotalAmount,
		order.Notes, order.Date, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de pedido.
func (r *OrderRepo) CreateLine(line *entity.OrderLine) error {
	query := `
		INSERT INTO order_lines (id, order_id, product_id, warehouse_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.OrderID, line.ProductID, line.WarehouseID,
		line.Quantity, line.UnitPrice, line.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert order line: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido por ID.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	var o entity.Order
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.CustomerID, &o.Status, &o.TotalAmount, &o.Notes,
		&o.Date, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// GetForUpdate obtiene un pedido bloqueando su fila (SELECT FOR UPDATE).
// Las transiciones de estado lo usan para que dos transiciones concurrentes
// sobre el mismo pedido se serialicen: la segunda ve el estado ya confirmado.
func (r *OrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	var o entity.Order
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.CustomerID, &o.Status, &o.TotalAmount, &o.Notes,
		&o.Date, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order for update: %w", err)
	}
	return &o, nil
}

// GetLines obtiene las líneas de un pedido.
func (r *OrderRepo) GetLines(orderID string) ([]*entity.OrderLine, error) {
	query := `
		SELECT id, order_id, product_id, warehouse_id, quantity, unit_price, subtotal
		FROM order_lines WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderLine
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(
			&l.ID, &l.OrderID, &l.ProductID, &l.WarehouseID,
			&l.Quantity, &l.UnitPrice, &l.Subtotal,
		); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado de un pedido. El total no se toca: queda
// congelado desde la creación.
func (r *OrderRepo) UpdateStatus(orderID, status string) error {
	query := `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, orderID, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// AddStatusChange agrega una entrada al historial de estados (append-only).
func (r *OrderRepo) AddStatusChange(change *entity.OrderStatusChange) error {
	query := `
		INSERT INTO order_status_history (id, order_id, from_status, to_status, changed_at, changed_by)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''))`
	_, err := r.q.Exec(context.Background(), query,
		change.ID, change.OrderID, change.FromStatus, change.ToStatus,
		change.ChangedAt, change.ChangedBy,
	)
	if err != nil {
		return fmt.Errorf("insert status change: %w", err)
	}
	return nil
}

// GetStatusHistory obtiene el historial de estados de un pedido en orden cronológico.
func (r *OrderRepo) GetStatusHistory(orderID string) ([]*entity.OrderStatusChange, error) {
	query := `
		SELECT id, order_id, COALESCE(from_status, ''), to_status, changed_at, COALESCE(changed_by, '')
		FROM order_status_history WHERE order_id = $1 ORDER BY changed_at`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderStatusChange
	for rows.Next() {
		var c entity.OrderStatusChange
		if err := rows.Scan(
			&c.ID, &c.OrderID, &c.FromStatus, &c.ToStatus, &c.ChangedAt, &c.ChangedBy,
		); err != nil {
			return nil, fmt.Errorf("scan status change: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// List lista pedidos, opcionalmente filtrados por estado.
func (r *OrderRepo) List(status string, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + ` FROM orders
		WHERE ($1 = '' OR status = $1)
		ORDER BY date DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

// ListByCustomer lista los pedidos de un cliente.
func (r *OrderRepo) ListByCustomer(customerID string, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + ` FROM orders
		WHERE customer_id = $1
		ORDER BY date DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders by customer: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

func scanOrders(rows pgx.Rows) ([]*entity.Order, error) {
	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(
			&o.ID, &o.CustomerID, &o.Status, &o.TotalAmount, &o.Notes,
			&o.Date, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}
