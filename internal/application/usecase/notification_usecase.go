package usecase

import (
	"github.com/jcamachor/distribuidora-api/internal/application/dto"
	"github.com/jcamachor/distribuidora-api/internal/domain/repository"
)

// NotificationUseCase consulta y marcado de notificaciones internas.
type NotificationUseCase struct {
	notifRepo repository.NotificationRepository
}

// NewNotificationUseCase construye el caso de uso de notificaciones.
func NewNotificationUseCase(notifRepo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{notifRepo: notifRepo}
}

// List lista notificaciones, con filtro opcional de no leídas.
func (uc *NotificationUseCase) List(onlyUnread bool, page dto.PageRequest) ([]*dto.NotificationResponse, error) {
	page.DefaultPage()
	list, err := uc.notifRepo.List(onlyUnread, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, &dto.NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return out, nil
}

// MarkRead marca una notificación como leída.
func (uc *NotificationUseCase) MarkRead(id string) error {
	return uc.notifRepo.MarkRead(id)
}

// MarkAllRead marca todas las notificaciones como leídas.
func (uc *NotificationUseCase) MarkAllRead() error {
	return uc.notifRepo.MarkAllRead()
}
