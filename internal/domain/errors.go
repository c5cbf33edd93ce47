package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidQuantity    = errors.New("cantidad inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidTransition  = errors.New("transición de estado inválida")
	// ErrConcurrencyConflict: la transacción no pudo serializarse contra otro
	// mutador concurrente (deadlock o serialization failure en la BD).
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia")
)

// InsufficientStockError identifica qué par (producto, bodega) quedó corto de stock,
// con el disponible y lo solicitado, para mensajes precisos al usuario final.
// Envuelve ErrInsufficientStock: errors.Is(err, domain.ErrInsufficientStock) == true.
type InsufficientStockError struct {
	ProductID   string
	WarehouseID string
	Available   int64
	Requested   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s en bodega %s: disponible %d, solicitado %d",
		e.ProductID, e.WarehouseID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
