package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jcamachor/distribuidora-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isSerializationFailure verifica si el error es un conflicto transaccional
// reportado por PostgreSQL: serialization_failure (40001) o deadlock_detected
// (40P01). Ambos se resuelven reintentando la transacción completa.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// mapTxError traduce conflictos transaccionales a domain.ErrConcurrencyConflict
// para que la capa de aplicación pueda reintentar. Otros errores pasan intactos.
func mapTxError(err error) error {
	if err == nil {
		return nil
	}
	if isSerializationFailure(err) {
		return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, err)
	}
	return err
}
