package repository

import "github.com/jcamachor/distribuidora-api/internal/domain/entity"

// NotificationRepository define el puerto de persistencia para notificaciones internas.
type NotificationRepository interface {
	Create(notification *entity.Notification) error
	List(onlyUnread bool, limit, offset int) ([]*entity.Notification, error)
	MarkRead(id string) error
	MarkAllRead() error
}
