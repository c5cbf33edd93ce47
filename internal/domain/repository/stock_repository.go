package repository

import "github.com/jcamachor/distribuidora-api/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar stock por producto+bodega.
// Las mutaciones del ledger lo usan siempre dentro de una transacción.
type StockRepository interface {
	// Get devuelve la fila actual; si no existe, una entidad con Quantity 0.
	Get(productID, warehouseID string) (*entity.StockEntry, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) antes de devolverla,
	// para serializar mutadores concurrentes sobre el mismo par.
	GetForUpdate(productID, warehouseID string) (*entity.StockEntry, error)
	Upsert(entry *entity.StockEntry) error
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockEntry, error)
	ListByProduct(productID string) ([]*entity.StockEntry, error)
}
