package orders

import (
	"context"

	"github.com/jcamachor/distribuidora-api/internal/domain/entity"
	"github.com/jcamachor/distribuidora-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de pedidos y stock atados a esa tx, para que la creación o
// cancelación de un pedido y su efecto sobre el stock se confirmen o
// reviertan juntos.
type TxRunner interface {
	RunOrders(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// OrderLineForPDF línea de pedido enriquecida para el documento de despacho.
type OrderLineForPDF struct {
	Line          *entity.OrderLine
	ProductName   string
	SKU           string
	WarehouseName string
}

// OrderPDFGenerator genera el documento de despacho (remisión) de un pedido.
type OrderPDFGenerator interface {
	GenerateOrderPDF(ctx context.Context, order *entity.Order, customer *entity.Customer, lines []OrderLineForPDF) ([]byte, error)
}
