package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jcamachor/distribuidora-api/internal/application/dto"
	"github.com/jcamachor/distribuidora-api/internal/application/usecase"
)

// SettingHandler maneja la configuración clave/valor (protegido, solo admin).
type SettingHandler struct {
	uc *usecase.SettingsUseCase
}

// NewSettingHandler construye el handler.
func NewSettingHandler(uc *usecase.SettingsUseCase) *SettingHandler {
	return &SettingHandler{uc: uc}
}

// List godoc
// @Summary      Listar configuración
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SettingResponse
// @Router       /api/settings [get]
func (h *SettingHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List()
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// Get godoc
// @Summary      Obtener una clave de configuración
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Param        key  path  string  true  "clave"
// @Success      200  {object}  dto.SettingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/settings/{key} [get]
func (h *SettingHandler) Get(c *fiber.Ctx) error {
	setting, err := h.uc.Get(c.Params("key"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(setting)
}

// Set godoc
// @Summary      Guardar una clave de configuración
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        key   path  string                 true  "clave"
// @Param        body  body  dto.SetSettingRequest  true  "value"
// @Success      200   {object}  dto.SettingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settings/{key} [put]
func (h *SettingHandler) Set(c *fiber.Ctx) error {
	var in dto.SetSettingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	setting, err := h.uc.Set(c.Params("key"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(setting)
}
