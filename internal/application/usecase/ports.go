package usecase

import (
	"context"

	"github.com/jcamachor/distribuidora-api/internal/domain/repository"
)

// ContainerTxRunner ejecuta una función dentro de una transacción de BD con
// los repositorios de contenedor y de stock atados a esa tx. La recepción de
// un contenedor (ingreso de stock + cambio de estado) debe ser atómica.
type ContainerTxRunner interface {
	RunContainers(ctx context.Context, fn func(
		containerRepo repository.ContainerRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
