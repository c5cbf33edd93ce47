package dto

import "github.com/shopspring/decimal"

// WarehouseStockDTO stock actual de una bodega, una fila por producto.
type WarehouseStockDTO struct {
	ProductID   string `json:"product_id"`
	SKU         string `json:"sku"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
}

// ProductStockDTO stock de un producto desglosado por bodega.
type ProductStockDTO struct {
	WarehouseID   string `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
	Quantity      int64  `json:"quantity"`
}

// ValuationDTO valor de inventario por producto (cantidad × precio de lista).
type ValuationDTO struct {
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// SalesTotalsDTO totales de ventas de un período.
type SalesTotalsDTO struct {
	OrderCount  int64           `json:"order_count"`
	UnitsSold   int64           `json:"units_sold"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// TopProductDTO producto ordenado por ingresos del período.
type TopProductDTO struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	QuantitySold int64           `json:"quantity_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// LowStockDTO producto+bodega por debajo del umbral configurado.
type LowStockDTO struct {
	ProductID   string `json:"product_id"`
	SKU         string `json:"sku"`
	ProductName string `json:"product_name"`
	WarehouseID string `json:"warehouse_id"`
	Quantity    int64  `json:"quantity"`
}
