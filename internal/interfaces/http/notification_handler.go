package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jcamachor/distribuidora-api/internal/application/usecase"
)

// NotificationHandler maneja las peticiones HTTP de notificaciones internas (protegido).
type NotificationHandler struct {
	uc *usecase.NotificationUseCase
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// List godoc
// @Summary      Listar notificaciones
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        unread  query  bool  false  "Solo no leídas"
// @Success      200  {array}  dto.NotificationResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.QueryBool("unread"), parsePage(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// MarkRead godoc
// @Summary      Marcar una notificación como leída
// @Tags         notifications
// @Security     Bearer
// @Param        id  path  string  true  "UUID de la notificación"
// @Success      204
// @Router       /api/notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllRead godoc
// @Summary      Marcar todas las notificaciones como leídas
// @Tags         notifications
// @Security     Bearer
// @Success      204
// @Router       /api/notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.uc.MarkAllRead(); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
