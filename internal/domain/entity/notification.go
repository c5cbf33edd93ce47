package entity

import "time"

// Tipos de notificación interna.
const (
	NotificationOrderStatus = "ORDER_STATUS"
	NotificationLowStock    = "LOW_STOCK"
	NotificationContainer   = "CONTAINER"
)

// Notification es una notificación interna de la aplicación (campana del frontend).
// El envío por canales externos (email/SMS) queda fuera de este dominio.
type Notification struct {
	ID        string
	Type      string
	Title     string
	Message   string
	Read      bool
	CreatedAt time.Time
}
