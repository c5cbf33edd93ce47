package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusPreparing = "PREPARING"
	OrderStatusInTransit = "IN_TRANSIT"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// Order representa un pedido de un cliente.
// TotalAmount es la suma de los subtotales de las líneas, congelada en la creación.
// Las transiciones de estado se registran append-only en OrderStatusChange.
type Order struct {
	ID          string
	CustomerID  string
	Status      string
	TotalAmount decimal.Decimal
	Notes       string
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderStatusChange registra una transición de estado de un pedido (historial append-only).
type OrderStatusChange struct {
	ID         string
	OrderID    string
	FromStatus string
	ToStatus   string
	ChangedAt  time.Time
	ChangedBy  string
}

// ValidOrderStatus indica si s es uno de los estados conocidos.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusInTransit,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo valida la máquina de estados del pedido:
//
//	PENDING → PREPARING → IN_TRANSIT → DELIVERED
//	PENDING | PREPARING → CANCELLED
//	CANCELLED → PENDING (reactivación; la reserva de stock se re-ejecuta completa)
//
// DELIVERED es terminal.
func (o *Order) CanTransitionTo(next string) bool {
	switch o.Status {
	case OrderStatusPending:
		return next == OrderStatusPreparing || next == OrderStatusCancelled
	case OrderStatusPreparing:
		return next == OrderStatusInTransit || next == OrderStatusCancelled
	case OrderStatusInTransit:
		return next == OrderStatusDelivered
	case OrderStatusCancelled:
		return next == OrderStatusPending
	default:
		return false
	}
}
