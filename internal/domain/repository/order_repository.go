package repository

import "github.com/jcamachor/distribuidora-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia para pedidos, líneas e historial.
// Create/CreateLine/UpdateStatus/AddStatusChange se usan dentro de transacciones
// junto con el StockRepository para mantener la atomicidad pedido↔stock.
type OrderRepository interface {
	Create(order *entity.Order) error
	CreateLine(line *entity.OrderLine) error
	GetByID(id string) (*entity.Order, error)
	GetForUpdate(id string) (*entity.Order, error)
	GetLines(orderID string) ([]*entity.OrderLine, error)
	UpdateStatus(orderID, status string) error
	AddStatusChange(change *entity.OrderStatusChange) error
	GetStatusHistory(orderID string) ([]*entity.OrderStatusChange, error)
	List(status string, limit, offset int) ([]*entity.Order, error)
	ListByCustomer(customerID string, limit, offset int) ([]*entity.Order, error)
}
