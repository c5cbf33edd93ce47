package entity

import "time"

// StockEntry representa la cantidad actual de un producto en una bodega.
// Existe a lo sumo una fila por par (producto, bodega); Quantity nunca es negativa.
// Se crea de forma perezosa en la primera entrada de stock y no se elimina
// (puede quedar en cero).
type StockEntry struct {
	ProductID   string
	WarehouseID string
	Quantity    int64
	UpdatedAt   time.Time
}
