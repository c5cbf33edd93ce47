package repository

import (
	"time"

	"github.com/jcamachor/distribuidora-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el diario de movimientos.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByReference(referenceID string) ([]*entity.StockMovement, error)
}
