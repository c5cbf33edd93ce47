package entity

import "time"

// Claves de configuración conocidas.
const (
	SettingLowStockThreshold = "low_stock_threshold"
	SettingCompanyName       = "company_name"
	SettingCurrency          = "currency"
)

// Setting es un par clave/valor de configuración del sistema editable desde la UI.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
