package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un contenedor (importación).
const (
	ContainerStatusOrdered   = "ORDERED"    // ordenado al proveedor
	ContainerStatusInTransit = "IN_TRANSIT" // embarcado
	ContainerStatusArrived   = "ARRIVED"    // en puerto/aduana
	ContainerStatusReceived  = "RECEIVED"   // descargado en bodega, stock ingresado
)

// Container representa un contenedor/embarque ordenado a un proveedor.
// Al recibirse, cada línea ingresa al stock de la bodega destino vía el ledger.
type Container struct {
	ID         string
	SupplierID string
	Code       string // código del contenedor o BL
	Status     string
	ETA        *time.Time
	ReceivedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ContainerLine representa la cantidad de un producto dentro de un contenedor.
type ContainerLine struct {
	ID          string
	ContainerID string
	ProductID   string
	Quantity    int64
	UnitCost    decimal.Decimal
}

// CanTransitionTo valida las transiciones permitidas de estado de contenedor:
// ORDERED → IN_TRANSIT → ARRIVED → RECEIVED (sin saltos ni reversas).
func (c *Container) CanTransitionTo(next string) bool {
	switch c.Status {
	case ContainerStatusOrdered:
		return next == ContainerStatusInTransit
	case ContainerStatusInTransit:
		return next == ContainerStatusArrived
	case ContainerStatusArrived:
		return next == ContainerStatusReceived
	default:
		return false
	}
}
