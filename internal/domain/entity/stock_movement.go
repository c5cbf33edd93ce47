package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeADJUSTMENT = "ADJUSTMENT" // corrección manual (add/subtract/set)
	MovementTypeTRANSFER   = "TRANSFER"   // traslado entre bodegas
	MovementTypeRESERVE    = "RESERVE"    // descuento por pedido
	MovementTypeRELEASE    = "RELEASE"    // reverso por cancelación de pedido
)

// StockMovement es el registro de auditoría de cada mutación del ledger.
// Quantity es positiva para entradas y negativa para salidas; ReferenceID
// apunta al pedido o contenedor que originó el movimiento (vacío en ajustes manuales).
type StockMovement struct {
	ID          string
	ReferenceID string
	ProductID   string
	WarehouseID string
	Type        string
	Quantity    int64
	Date        time.Time
	CreatedAt   time.Time
	CreatedBy   string
}
