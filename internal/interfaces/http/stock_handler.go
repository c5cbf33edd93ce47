package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jcamachor/distribuidora-api/internal/application/dto"
	"github.com/jcamachor/distribuidora-api/internal/application/usecase"
)

// StockHandler maneja las peticiones HTTP del ledger de stock (protegido).
type StockHandler struct {
	uc *usecase.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Description  Aplica add, subtract o set sobre un par (producto, bodega).
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, warehouse_id, quantity, operation"
// @Success      200   {object}  dto.StockEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.uc.Adjust(c.Context(), in, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(entry)
}

// Transfer godoc
// @Summary      Traslado de stock entre bodegas
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "product_id, from_warehouse_id, to_warehouse_id, quantity"
// @Success      200   {object}  map[string]dto.StockEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfer [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	origin, dest, err := h.uc.Transfer(c.Context(), in, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"origin": origin, "destination": dest})
}

// GetEntry godoc
// @Summary      Stock de un producto en una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "UUID del producto"
// @Param        warehouse_id  query  string  true  "UUID de la bodega"
// @Success      200  {object}  dto.StockEntryResponse
// @Router       /api/stock/entry [get]
func (h *StockHandler) GetEntry(c *fiber.Ctx) error {
	entry, err := h.uc.GetEntry(c.Context(), c.Query("product_id"), c.Query("warehouse_id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(entry)
}

// ListByWarehouse godoc
// @Summary      Stock de una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID de la bodega"
// @Success      200  {array}  dto.StockEntryResponse
// @Router       /api/stock/warehouse/{id} [get]
func (h *StockHandler) ListByWarehouse(c *fiber.Ctx) error {
	page := parsePage(c)
	entries, err := h.uc.ListByWarehouse(c.Context(), c.Params("id"), page)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(entries)
}

// ListByProduct godoc
// @Summary      Stock de un producto en todas las bodegas
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del producto"
// @Success      200  {array}  dto.StockEntryResponse
// @Router       /api/stock/product/{id} [get]
func (h *StockHandler) ListByProduct(c *fiber.Ctx) error {
	entries, err := h.uc.ListByProduct(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(entries)
}

// MovementsByProduct godoc
// @Summary      Diario de movimientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "UUID del producto"
// @Param        from  query  string  false  "Fecha inicial (RFC3339)"
// @Param        to    query  string  false  "Fecha final (RFC3339)"
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/stock/product/{id}/movements [get]
func (h *StockHandler) MovementsByProduct(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fechas inválidas, usar RFC3339"})
	}
	movements, err := h.uc.MovementsByProduct(c.Context(), c.Params("id"), from, to, parsePage(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(movements)
}

// MovementsByWarehouse godoc
// @Summary      Diario de movimientos de una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "UUID de la bodega"
// @Param        from  query  string  false  "Fecha inicial (RFC3339)"
// @Param        to    query  string  false  "Fecha final (RFC3339)"
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/stock/warehouse/{id}/movements [get]
func (h *StockHandler) MovementsByWarehouse(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fechas inválidas, usar RFC3339"})
	}
	movements, err := h.uc.MovementsByWarehouse(c.Context(), c.Params("id"), from, to, parsePage(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(movements)
}

// MovementsByReference godoc
// @Summary      Movimientos originados por un pedido o contenedor
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del pedido o contenedor"
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/stock/reference/{id}/movements [get]
func (h *StockHandler) MovementsByReference(c *fiber.Ctx) error {
	movements, err := h.uc.MovementsByReference(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(movements)
}

// parsePage lee limit/offset del query string.
func parsePage(c *fiber.Ctx) dto.PageRequest {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}
	page.DefaultPage()
	return page
}

// parseDateRange lee from/to opcionales (RFC3339) del query string.
func parseDateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}
	return from, to, nil
}
