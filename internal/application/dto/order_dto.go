package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea de un pedido: producto, bodega de despacho y cantidad.
// UnitPrice en cero toma el precio de lista del producto.
type OrderLineRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	WarehouseID string          `json:"warehouse_id" validate:"required"`
	Quantity    int64           `json:"quantity" validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest entrada para crear un pedido con reserva de stock.
type CreateOrderRequest struct {
	CustomerID string             `json:"customer_id" validate:"required"`
	Notes      string             `json:"notes,omitempty"`
	Lines      []OrderLineRequest `json:"lines" validate:"required,min=1"`
}

// ChangeOrderStatusRequest transición de estado de un pedido.
type ChangeOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderLineResponse salida de una línea de pedido.
type OrderLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderStatusChangeResponse una entrada del historial de estados.
type OrderStatusChangeResponse struct {
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	ChangedAt  time.Time `json:"changed_at"`
	ChangedBy  string    `json:"changed_by,omitempty"`
}

// OrderResponse salida de un pedido con líneas e historial.
type OrderResponse struct {
	ID           string                      `json:"id"`
	CustomerID   string                      `json:"customer_id"`
	CustomerName string                      `json:"customer_name,omitempty"`
	Status       string                      `json:"status"`
	TotalAmount  decimal.Decimal             `json:"total_amount"`
	Notes        string                      `json:"notes,omitempty"`
	Date         string                      `json:"date"`
	Lines        []OrderLineResponse         `json:"lines,omitempty"`
	History      []OrderStatusChangeResponse `json:"history,omitempty"`
}
