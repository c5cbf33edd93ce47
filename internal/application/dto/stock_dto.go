package dto

import "time"

// AdjustStockRequest body para POST /api/stock/adjust.
type AdjustStockRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
	Quantity    int64  `json:"quantity"`
	Operation   string `json:"operation" validate:"required,oneof=add subtract set"`
}

// TransferStockRequest body para POST /api/stock/transfer.
type TransferStockRequest struct {
	ProductID       string `json:"product_id" validate:"required"`
	FromWarehouseID string `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   string `json:"to_warehouse_id" validate:"required"`
	Quantity        int64  `json:"quantity" validate:"required,gt=0"`
}

// StockEntryResponse salida de una fila de stock.
type StockEntryResponse struct {
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Quantity    int64     `json:"quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StockMovementResponse salida de un movimiento del diario.
type StockMovementResponse struct {
	ID          string    `json:"id"`
	ReferenceID string    `json:"reference_id,omitempty"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Type        string    `json:"type"`
	Quantity    int64     `json:"quantity"`
	Date        time.Time `json:"date"`
	CreatedBy   string    `json:"created_by,omitempty"`
}
