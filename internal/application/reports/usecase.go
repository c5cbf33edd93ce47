package reports

import (
	"context"
	"strconv"
	"time"

	"github.com/jcamachor/distribuidora-api/internal/application/dto"
	"github.com/jcamachor/distribuidora-api/internal/domain/entity"
	"github.com/jcamachor/distribuidora-api/internal/domain/repository"
)

// defaultLowStockThreshold umbral si no hay setting configurado.
const defaultLowStockThreshold = 5

// ReportsUseCase consultas de solo lectura sobre stock y pedidos.
// No muta StockEntry jamás; sin requisitos de consistencia más allá del
// snapshot read-committed de cada consulta.
type ReportsUseCase struct {
	reportRepo  repository.ReportRepository
	settingRepo repository.SettingRepository
}

// NewReportsUseCase construye el caso de uso de reportes.
func NewReportsUseCase(reportRepo repository.ReportRepository, settingRepo repository.SettingRepository) *ReportsUseCase {
	return &ReportsUseCase{reportRepo: reportRepo, settingRepo: settingRepo}
}

// StockByWarehouse stock actual de una bodega, una fila por producto.
func (uc *ReportsUseCase) StockByWarehouse(ctx context.Context, warehouseID string) ([]dto.WarehouseStockDTO, error) {
	rows, err := uc.reportRepo.GetStockByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WarehouseStockDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.WarehouseStockDTO{
			ProductID: r.ProductID, SKU: r.SKU, ProductName: r.ProductName, Quantity: r.Quantity,
		})
	}
	return out, nil
}

// StockByProduct stock de un producto desglosado por bodega.
func (uc *ReportsUseCase) StockByProduct(ctx context.Context, productID string) ([]dto.ProductStockDTO, error) {
	rows, err := uc.reportRepo.GetStockByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductStockDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ProductStockDTO{
			WarehouseID: r.WarehouseID, WarehouseName: r.WarehouseName, Quantity: r.Quantity,
		})
	}
	return out, nil
}

// InventoryValuation valor de inventario por producto (cantidad × precio de lista).
func (uc *ReportsUseCase) InventoryValuation(ctx context.Context) ([]dto.ValuationDTO, error) {
	rows, err := uc.reportRepo.GetInventoryValuation(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ValuationDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ValuationDTO{
			ProductID: r.ProductID, SKU: r.SKU, ProductName: r.ProductName,
			Quantity: r.Quantity, UnitPrice: r.UnitPrice, TotalValue: r.TotalValue,
		})
	}
	return out, nil
}

// SalesTotals totales de ventas del período (pedidos no cancelados).
func (uc *ReportsUseCase) SalesTotals(ctx context.Context, from, to time.Time) (*dto.SalesTotalsDTO, error) {
	r, err := uc.reportRepo.GetSalesTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &dto.SalesTotalsDTO{
		OrderCount: r.OrderCount, UnitsSold: r.UnitsSold, TotalAmount: r.TotalAmount,
	}, nil
}

// TopProducts productos con mayor ingreso en el período.
func (uc *ReportsUseCase) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]dto.TopProductDTO, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := uc.reportRepo.GetTopProducts(ctx, from, to, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TopProductDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TopProductDTO{
			ProductID: r.ProductID, SKU: r.SKU, ProductName: r.ProductName,
			QuantitySold: r.QuantitySold, TotalRevenue: r.TotalRevenue,
		})
	}
	return out, nil
}

// LowStock pares producto+bodega por debajo del umbral configurado
// (setting low_stock_threshold; valor por defecto si no existe o es inválido).
func (uc *ReportsUseCase) LowStock(ctx context.Context) ([]dto.LowStockDTO, error) {
	threshold := int64(defaultLowStockThreshold)
	if uc.settingRepo != nil {
		if s, err := uc.settingRepo.Get(entity.SettingLowStockThreshold); err == nil && s != nil {
			if parsed, err := strconv.ParseInt(s.Value, 10, 64); err == nil && parsed >= 0 {
				threshold = parsed
			}
		}
	}
	rows, err := uc.reportRepo.GetLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.LowStockDTO{
			ProductID: r.ProductID, SKU: r.SKU, ProductName: r.ProductName,
			WarehouseID: r.WarehouseID, Quantity: r.Quantity,
		})
	}
	return out, nil
}
