package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo (multi-bodega).
// El stock por bodega vive en StockEntry, nunca aquí.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	SupplierID  string
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // costo de importación unitario
	UnitMeasure string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
