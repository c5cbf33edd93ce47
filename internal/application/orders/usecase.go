package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jcamachor/distribuidora-api/internal/application/dto"
	"github.com/jcamachor/distribuidora-api/internal/application/ledger"
	"github.com/jcamachor/distribuidora-api/internal/domain"
	"github.com/jcamachor/distribuidora-api/internal/domain/entity"
	"github.com/jcamachor/distribuidora-api/internal/domain/repository"
)

// maxAttempts reintentos de la transacción completa ante
// domain.ErrConcurrencyConflict, igual que en el ledger.
const maxAttempts = 3

// OrderUseCase crea pedidos con reserva atómica de stock y gestiona su ciclo
// de vida. El pedido y sus líneas referencian StockEntry solo por clave
// (producto, bodega): el ledger es el único que muta stock.
type OrderUseCase struct {
	txRunner     TxRunner
	ledger       *ledger.Ledger
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	notifRepo    repository.NotificationRepository
}

// NewOrderUseCase construye el caso de uso de pedidos.
func NewOrderUseCase(
	txRunner TxRunner,
	ldg *ledger.Ledger,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	notifRepo repository.NotificationRepository,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:     txRunner,
		ledger:       ldg,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		notifRepo:    notifRepo,
	}
}

// runOrders ejecuta fn en una transacción pedido+stock, reintentando la
// operación completa cuando la BD reporta un conflicto de serialización.
func (uc *OrderUseCase) runOrders(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = uc.txRunner.RunOrders(ctx, fn)
		if err == nil || !errors.Is(err, domain.ErrConcurrencyConflict) {
			return err
		}
		log.Warn().Int("attempt", attempt).Msg("conflicto de serialización en pedidos, reintentando")
	}
	return err
}

// CreateOrder crea un pedido en estado PENDING reservando el stock de todas
// las líneas en una sola transacción: si alguna línea no alcanza, no se crea
// nada. UnitPrice en cero toma el precio de lista; el total queda congelado.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, actorID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if in.CustomerID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}

	// Validar productos y capturar precios (solo lectura, fuera de la tx)
	productsByID := make(map[string]*entity.Product)
	for i := range in.Lines {
		item := &in.Lines[i]
		if item.ProductID == "" || item.WarehouseID == "" {
			return nil, domain.ErrInvalidInput
		}
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil || product == nil {
			return nil, domain.ErrNotFound
		}
		productsByID[item.ProductID] = product
		if item.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if item.UnitPrice.IsZero() {
			item.UnitPrice = product.Price
		}
	}

	reserveLines := make([]ledger.Line, len(in.Lines))
	for i, item := range in.Lines {
		reserveLines[i] = ledger.Line{ProductID: item.ProductID, WarehouseID: item.WarehouseID, Quantity: item.Quantity}
	}
	normalized, err := ledger.NormalizeLines(reserveLines)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	orderID := uuid.New().String()

	var total decimal.Decimal
	lines := make([]*entity.OrderLine, 0, len(in.Lines))
	for _, item := range in.Lines {
		subtotal := decimal.NewFromInt(item.Quantity).Mul(item.UnitPrice)
		total = total.Add(subtotal)
		lines = append(lines, &entity.OrderLine{
			ID:          uuid.New().String(),
			OrderID:     orderID,
			ProductID:   item.ProductID,
			WarehouseID: item.WarehouseID,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    subtotal,
		})
	}

	order := &entity.Order{
		ID:          orderID,
		CustomerID:  in.CustomerID,
		Status:      entity.OrderStatusPending,
		TotalAmount: total,
		Notes:       in.Notes,
		Date:        now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = uc.runOrders(ctx, func(
		orderRepo repository.OrderRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		// Reserva en dos fases; una insuficiencia aborta el pedido completo
		if err := uc.ledger.ReserveInTx(stockRepo, movRepo, normalized, orderID, actorID, now); err != nil {
			return err
		}
		if err := orderRepo.Create(order); err != nil {
			return err
		}
		for _, line := range lines {
			if err := orderRepo.CreateLine(line); err != nil {
				return err
			}
		}
		return orderRepo.AddStatusChange(&entity.OrderStatusChange{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			ToStatus:  entity.OrderStatusPending,
			ChangedAt: now,
			ChangedBy: actorID,
		})
	})
	if err != nil {
		return nil, err
	}

	return uc.toResponse(order, customer.Name, lines, nil), nil
}

// ChangeStatus aplica una transición de estado válida sobre el pedido.
// Cancelar libera el stock de las líneas en la misma transacción del cambio;
// reactivar (CANCELLED → PENDING) re-ejecuta la reserva completa en dos
// fases: no se asume que el stock siga disponible.
// El pedido se relee CON BLOQUEO dentro de la transacción y la transición se
// valida ahí: dos transiciones concurrentes sobre el mismo pedido se
// serializan y la segunda ve el estado ya confirmado (una doble cancelación
// no libera el stock dos veces).
func (uc *OrderUseCase) ChangeStatus(ctx context.Context, orderID, nextStatus, actorID string) (*dto.OrderResponse, error) {
	if !entity.ValidOrderStatus(nextStatus) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var order *entity.Order
	var lines []*entity.OrderLine
	var prevStatus string

	err := uc.runOrders(ctx, func(
		orderRepo repository.OrderRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		var err error
		order, err = orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.CanTransitionTo(nextStatus) {
			return domain.ErrInvalidTransition
		}
		prevStatus = order.Status

		lines, err = orderRepo.GetLines(orderID)
		if err != nil {
			return err
		}
		ledgerLines := make([]ledger.Line, len(lines))
		for i, ln := range lines {
			ledgerLines[i] = ledger.Line{ProductID: ln.ProductID, WarehouseID: ln.WarehouseID, Quantity: ln.Quantity}
		}

		switch {
		case nextStatus == entity.OrderStatusCancelled:
			normalized, err := ledger.NormalizeLines(ledgerLines)
			if err != nil {
				return err
			}
			if err := uc.ledger.ReleaseInTx(stockRepo, movRepo, normalized, orderID, actorID, now); err != nil {
				return err
			}
		case prevStatus == entity.OrderStatusCancelled && nextStatus == entity.OrderStatusPending:
			normalized, err := ledger.NormalizeLines(ledgerLines)
			if err != nil {
				return err
			}
			if err := uc.ledger.ReserveInTx(stockRepo, movRepo, normalized, orderID, actorID, now); err != nil {
				return err
			}
		}
		if err := orderRepo.UpdateStatus(orderID, nextStatus); err != nil {
			return err
		}
		return orderRepo.AddStatusChange(&entity.OrderStatusChange{
			ID:         uuid.New().String(),
			OrderID:    orderID,
			FromStatus: prevStatus,
			ToStatus:   nextStatus,
			ChangedAt:  now,
			ChangedBy:  actorID,
		})
	})
	if err != nil {
		return nil, err
	}
	order.Status = nextStatus
	order.UpdatedAt = now

	uc.notifyStatusChange(order, prevStatus)

	return uc.toResponse(order, "", lines, nil), nil
}

// notifyStatusChange deja una notificación interna del cambio de estado.
// Best effort fuera de la transacción: un fallo aquí no revierte el pedido.
func (uc *OrderUseCase) notifyStatusChange(order *entity.Order, prevStatus string) {
	if uc.notifRepo == nil {
		return
	}
	err := uc.notifRepo.Create(&entity.Notification{
		ID:        uuid.New().String(),
		Type:      entity.NotificationOrderStatus,
		Title:     fmt.Sprintf("Pedido %s", order.ID),
		Message:   fmt.Sprintf("El pedido pasó de %s a %s", prevStatus, order.Status),
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Warn().Err(err).Str("order_id", order.ID).Msg("no se pudo crear la notificación del pedido")
	}
}

// GetOrder devuelve un pedido con líneas, historial y nombre del cliente.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil || order == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.orderRepo.GetLines(id)
	if err != nil {
		return nil, err
	}
	history, err := uc.orderRepo.GetStatusHistory(id)
	if err != nil {
		return nil, err
	}
	customerName := ""
	if customer, _ := uc.customerRepo.GetByID(order.CustomerID); customer != nil {
		customerName = customer.Name
	}
	return uc.toResponse(order, customerName, lines, history), nil
}

// List lista pedidos, opcionalmente filtrados por estado.
func (uc *OrderUseCase) List(ctx context.Context, status string, limit, offset int) ([]*dto.OrderResponse, error) {
	if status != "" && !entity.ValidOrderStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.orderRepo.List(status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, uc.toResponse(o, "", nil, nil))
	}
	return out, nil
}

func (uc *OrderUseCase) toResponse(order *entity.Order, customerName string, lines []*entity.OrderLine, history []*entity.OrderStatusChange) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:           order.ID,
		CustomerID:   order.CustomerID,
		CustomerName: customerName,
		Status:       order.Status,
		TotalAmount:  order.TotalAmount,
		Notes:        order.Notes,
		Date:         order.Date.Format("2006-01-02"),
	}
	for _, ln := range lines {
		resp.Lines = append(resp.Lines, dto.OrderLineResponse{
			ID:          ln.ID,
			ProductID:   ln.ProductID,
			WarehouseID: ln.WarehouseID,
			Quantity:    ln.Quantity,
			UnitPrice:   ln.UnitPrice,
			Subtotal:    ln.Subtotal,
		})
	}
	for _, h := range history {
		resp.History = append(resp.History, dto.OrderStatusChangeResponse{
			FromStatus: h.FromStatus,
			ToStatus:   h.ToStatus,
			ChangedAt:  h.ChangedAt,
			ChangedBy:  h.ChangedBy,
		})
	}
	return resp
}
