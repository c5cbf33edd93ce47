package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// WarehouseStockResult stock agregado de una bodega (una fila por producto).
type WarehouseStockResult struct {
	ProductID   string
	SKU         string
	ProductName string
	Quantity    int64
}

// ProductStockResult stock de un producto desglosado por bodega.
type ProductStockResult struct {
	WarehouseID   string
	WarehouseName string
	Quantity      int64
}

// ValuationResult valor de inventario por producto (cantidad × precio de lista).
type ValuationResult struct {
	ProductID   string
	SKU         string
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	TotalValue  decimal.Decimal
}

// SalesTotalsResult totales de ventas de un período (pedidos no cancelados).
type SalesTotalsResult struct {
	OrderCount  int64
	UnitsSold   int64
	TotalAmount decimal.Decimal
}

// TopProductResult producto ordenado por ingresos del período.
type TopProductResult struct {
	ProductID    string
	SKU          string
	ProductName  string
	QuantitySold int64
	TotalRevenue decimal.Decimal
}

// LowStockResult producto+bodega por debajo del umbral configurado.
type LowStockResult struct {
	ProductID   string
	SKU         string
	ProductName string
	WarehouseID string
	Quantity    int64
}

// ReportRepository consultas de solo lectura sobre stock y pedidos.
// Sin requisitos de consistencia más allá de snapshot read-committed.
type ReportRepository interface {
	GetStockByWarehouse(ctx context.Context, warehouseID string) ([]WarehouseStockResult, error)
	GetStockByProduct(ctx context.Context, productID string) ([]ProductStockResult, error)
	GetInventoryValuation(ctx context.Context) ([]ValuationResult, error)
	GetSalesTotals(ctx context.Context, from, to time.Time) (SalesTotalsResult, error)
	GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProductResult, error)
	GetLowStock(ctx context.Context, threshold int64) ([]LowStockResult, error)
}
