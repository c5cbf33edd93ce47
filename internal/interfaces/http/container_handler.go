package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jcamachor/distribuidora-api/internal/application/dto"
	"github.com/jcamachor/distribuidora-api/internal/application/usecase"
)

// ContainerHandler maneja las peticiones HTTP de contenedores (protegido).
type ContainerHandler struct {
	uc *usecase.ContainerUseCase
}

// NewContainerHandler construye el handler.
func NewContainerHandler(uc *usecase.ContainerUseCase) *ContainerHandler {
	return &ContainerHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar contenedor ordenado a un proveedor
// @Tags         containers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateContainerRequest  true  "supplier_id, code, eta, lines"
// @Success      201   {object}  dto.ContainerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/containers [post]
func (h *ContainerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateContainerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	container, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(container)
}

// UpdateStatus godoc
// @Summary      Avanzar estado de seguimiento de un contenedor
// @Description  ORDERED → IN_TRANSIT → ARRIVED. La recepción usa /receive.
// @Tags         containers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "UUID del contenedor"
// @Param        body  body  dto.UpdateContainerStatusRequest  true  "status"
// @Success      200   {object}  dto.ContainerResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/containers/{id}/status [put]
func (h *ContainerHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateContainerStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	container, err := h.uc.UpdateStatus(c.Context(), c.Params("id"), in.Status)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(container)
}

// Receive godoc
// @Summary      Recibir contenedor en bodega
// @Description  Ingresa el stock de todas las líneas en la bodega destino y
//
//	marca el contenedor como RECEIVED, atómicamente.
//
// @Tags         containers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "UUID del contenedor"
// @Param        body  body  dto.ReceiveContainerRequest  true  "warehouse_id"
// @Success      200   {object}  dto.ContainerResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/containers/{id}/receive [post]
func (h *ContainerHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveContainerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	container, err := h.uc.Receive(c.Context(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(container)
}

// GetByID godoc
// @Summary      Detalle de un contenedor con líneas
// @Tags         containers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del contenedor"
// @Success      200  {object}  dto.ContainerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/containers/{id} [get]
func (h *ContainerHandler) GetByID(c *fiber.Ctx) error {
	container, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(container)
}

// List godoc
// @Summary      Listar contenedores
// @Tags         containers
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Success      200  {array}  dto.ContainerResponse
// @Router       /api/containers [get]
func (h *ContainerHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), c.Query("status"), parsePage(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}
