package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jcamachor/distribuidora-api/internal/application/dto"
	"github.com/jcamachor/distribuidora-api/internal/application/reports"
)

// ReportHandler maneja las peticiones HTTP de reportes (protegido, solo lectura).
type ReportHandler struct {
	uc *reports.ReportsUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.ReportsUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// StockByWarehouse godoc
// @Summary      Stock actual de una bodega
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID de la bodega"
// @Success      200  {array}  dto.WarehouseStockDTO
// @Router       /api/reports/stock/warehouse/{id} [get]
func (h *ReportHandler) StockByWarehouse(c *fiber.Ctx) error {
	rows, err := h.uc.StockByWarehouse(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(rows)
}

// StockByProduct godoc
// @Summary      Stock de un producto por bodega
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del producto"
// @Success      200  {array}  dto.ProductStockDTO
// @Router       /api/reports/stock/product/{id} [get]
func (h *ReportHandler) StockByProduct(c *fiber.Ctx) error {
	rows, err := h.uc.StockByProduct(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(rows)
}

// Valuation godoc
// @Summary      Valoración de inventario a precio de lista
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ValuationDTO
// @Router       /api/reports/valuation [get]
func (h *ReportHandler) Valuation(c *fiber.Ctx) error {
	rows, err := h.uc.InventoryValuation(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(rows)
}

// SalesTotals godoc
// @Summary      Totales de ventas del período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "Fecha inicial (YYYY-MM-DD)"
// @Param        to    query  string  true  "Fecha final (YYYY-MM-DD)"
// @Success      200  {object}  dto.SalesTotalsDTO
// @Router       /api/reports/sales [get]
func (h *ReportHandler) SalesTotals(c *fiber.Ctx) error {
	from, to, err := parseReportPeriod(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fechas inválidas, usar YYYY-MM-DD"})
	}
	totals, err := h.uc.SalesTotals(c.Context(), from, to)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(totals)
}

// TopProducts godoc
// @Summary      Productos con mayor ingreso del período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from   query  string  true   "Fecha inicial (YYYY-MM-DD)"
// @Param        to     query  string  true   "Fecha final (YYYY-MM-DD)"
// @Param        limit  query  int     false  "Máximo de filas (default 10)"
// @Success      200  {array}  dto.TopProductDTO
// @Router       /api/reports/top-products [get]
func (h *ReportHandler) TopProducts(c *fiber.Ctx) error {
	from, to, err := parseReportPeriod(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fechas inválidas, usar YYYY-MM-DD"})
	}
	rows, err := h.uc.TopProducts(c.Context(), from, to, c.QueryInt("limit"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(rows)
}

// LowStock godoc
// @Summary      Productos por debajo del umbral de stock
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockDTO
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	rows, err := h.uc.LowStock(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(rows)
}

// parseReportPeriod lee from/to (YYYY-MM-DD). El rango es inclusivo: to se
// extiende hasta el final del día.
func parseReportPeriod(c *fiber.Ctx) (from, to time.Time, err error) {
	from, err = time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err = time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to = to.Add(24*time.Hour - time.Nanosecond)
	return from, to, nil
}
