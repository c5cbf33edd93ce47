package entity

import "github.com/shopspring/decimal"

// OrderLine representa la cantidad pedida de un producto desde una bodega.
// Inmutable después de crearse: la cancelación no borra líneas, revierte su
// efecto sobre StockEntry. UnitPrice se captura al momento del pedido.
type OrderLine struct {
	ID          string
	OrderID     string
	ProductID   string
	WarehouseID string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}
