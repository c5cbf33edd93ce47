package http

import (
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jcamachor/distribuidora-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respondWith(t *testing.T, err error) (int, string) {
	t.Helper()
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return respondDomainError(c, err)
	})
	resp, reqErr := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, reqErr)
	defer resp.Body.Close()
	body, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)
	return resp.StatusCode, string(body)
}

// El conflicto de concurrencia llega aquí solo cuando los reintentos de la
// capa de aplicación ya se agotaron: la respuesta correcta es 503, no 409.
func TestRespondDomainError_ConflictoDeConcurrenciaEs503(t *testing.T) {
	status, body := respondWith(t, fmt.Errorf("tx: %w", domain.ErrConcurrencyConflict))
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Contains(t, body, "CONCURRENCY_CONFLICT")
}

func TestRespondDomainError_StockInsuficienteConDetalle(t *testing.T) {
	err := &domain.InsufficientStockError{
		ProductID: "p1", WarehouseID: "w1", Available: 2, Requested: 5,
	}
	status, body := respondWith(t, fmt.Errorf("reservar: %w", err))
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, body, "disponible 2")
	assert.Contains(t, body, "solicitado 5")
}

func TestRespondDomainError_TransicionInvalidaEs409(t *testing.T) {
	status, body := respondWith(t, domain.ErrInvalidTransition)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, body, "INVALID_TRANSITION")
}
