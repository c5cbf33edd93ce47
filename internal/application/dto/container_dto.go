package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContainerLineRequest línea de un contenedor: producto y cantidad ordenada.
type ContainerLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"required,gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreateContainerRequest entrada para registrar un contenedor ordenado a un proveedor.
type CreateContainerRequest struct {
	SupplierID string                 `json:"supplier_id" validate:"required"`
	Code       string                 `json:"code" validate:"required,max=50"`
	ETA        *time.Time             `json:"eta,omitempty"`
	Lines      []ContainerLineRequest `json:"lines" validate:"required,min=1"`
}

// UpdateContainerStatusRequest transición de estado de un contenedor (sin recepción).
type UpdateContainerStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ReceiveContainerRequest recepción de un contenedor: bodega destino del stock.
type ReceiveContainerRequest struct {
	WarehouseID string `json:"warehouse_id" validate:"required"`
}

// ContainerLineResponse salida de una línea de contenedor.
type ContainerLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// ContainerResponse salida de un contenedor con sus líneas.
type ContainerResponse struct {
	ID         string                  `json:"id"`
	SupplierID string                  `json:"supplier_id"`
	Code       string                  `json:"code"`
	Status     string                  `json:"status"`
	ETA        *time.Time              `json:"eta,omitempty"`
	ReceivedAt *time.Time              `json:"received_at,omitempty"`
	Lines      []ContainerLineResponse `json:"lines,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
}
