package orders

import (
	"context"

	"github.com/jcamachor/distribuidora-api/internal/domain"
	"github.com/jcamachor/distribuidora-api/internal/domain/repository"
)

// OrderPDFUseCase genera el documento de despacho (remisión) de un pedido.
type OrderPDFUseCase struct {
	orderRepo     repository.OrderRepository
	customerRepo  repository.CustomerRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	generator     OrderPDFGenerator
}

// NewOrderPDFUseCase construye el caso de uso.
func NewOrderPDFUseCase(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	generator OrderPDFGenerator,
) *OrderPDFUseCase {
	return &OrderPDFUseCase{
		orderRepo:     orderRepo,
		customerRepo:  customerRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		generator:     generator,
	}
}

// GenerateOrderPDF arma el contexto del documento (pedido, cliente, líneas
// enriquecidas con producto y bodega) y delega el render al generador.
func (uc *OrderPDFUseCase) GenerateOrderPDF(ctx context.Context, orderID string) ([]byte, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil || order == nil {
		return nil, domain.ErrNotFound
	}
	customer, err := uc.customerRepo.GetByID(order.CustomerID)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.orderRepo.GetLines(orderID)
	if err != nil {
		return nil, err
	}

	pdfLines := make([]OrderLineForPDF, 0, len(lines))
	for _, ln := range lines {
		enriched := OrderLineForPDF{Line: ln}
		if product, _ := uc.productRepo.GetByID(ln.ProductID); product != nil {
			enriched.ProductName = product.Name
			enriched.SKU = product.SKU
		}
		if wh, _ := uc.warehouseRepo.GetByID(ln.WarehouseID); wh != nil {
			enriched.WarehouseName = wh.Name
		}
		pdfLines = append(pdfLines, enriched)
	}

	return uc.generator.GenerateOrderPDF(ctx, order, customer, pdfLines)
}
