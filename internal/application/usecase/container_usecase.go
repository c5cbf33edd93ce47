package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jcamachor/distribuidora-api/internal/application/dto"
	"github.com/jcamachor/distribuidora-api/internal/application/ledger"
	"github.com/jcamachor/distribuidora-api/internal/domain"
	"github.com/jcamachor/distribuidora-api/internal/domain/entity"
	"github.com/jcamachor/distribuidora-api/internal/domain/repository"
)

// ContainerUseCase gestiona contenedores de importación: registro, seguimiento
// de estado y recepción. La recepción ingresa el stock de todas las líneas en
// la bodega destino dentro de una sola transacción junto con el cambio a
// RECEIVED: un contenedor nunca queda recibido a medias.
type ContainerUseCase struct {
	txRunner      ContainerTxRunner
	ledger        *ledger.Ledger
	containerRepo repository.ContainerRepository
	supplierRepo  repository.SupplierRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	notifRepo     repository.NotificationRepository
}

// NewContainerUseCase construye el caso de uso de contenedores.
func NewContainerUseCase(
	txRunner ContainerTxRunner,
	ldg *ledger.Ledger,
	containerRepo repository.ContainerRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	notifRepo repository.NotificationRepository,
) *ContainerUseCase {
	return &ContainerUseCase{
		txRunner:      txRunner,
		ledger:        ldg,
		containerRepo: containerRepo,
		supplierRepo:  supplierRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		notifRepo:     notifRepo,
	}
}

// Create registra un contenedor ordenado a un proveedor, en estado ORDERED.
func (uc *ContainerUseCase) Create(ctx context.Context, in dto.CreateContainerRequest) (*dto.ContainerResponse, error) {
	if in.SupplierID == "" || in.Code == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil || supplier == nil {
		return nil, domain.ErrNotFound
	}
	for _, ln := range in.Lines {
		if ln.ProductID == "" {
			return nil, domain.ErrInvalidInput
		}
		if ln.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		if ln.UnitCost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if p, err := uc.productRepo.GetByID(ln.ProductID); err != nil || p == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	container := &entity.Container{
		ID:         uuid.New().String(),
		SupplierID: in.SupplierID,
		Code:       in.Code,
		Status:     entity.ContainerStatusOrdered,
		ETA:        in.ETA,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	lines := make([]*entity.ContainerLine, 0, len(in.Lines))
	for _, ln := range in.Lines {
		lines = append(lines, &entity.ContainerLine{
			ID:          uuid.New().String(),
			ContainerID: container.ID,
			ProductID:   ln.ProductID,
			Quantity:    ln.Quantity,
			UnitCost:    ln.UnitCost,
		})
	}

	err = uc.txRunner.RunContainers(ctx, func(
		containerRepo repository.ContainerRepository,
		_ repository.StockRepository,
		_ repository.StockMovementRepository,
	) error {
		if err := containerRepo.Create(container); err != nil {
			return err
		}
		for _, line := range lines {
			if err := containerRepo.CreateLine(line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toContainerResponse(container, lines), nil
}

// UpdateStatus aplica una transición de seguimiento (ORDERED → IN_TRANSIT →
// ARRIVED). La transición a RECEIVED no pasa por aquí: requiere Receive.
func (uc *ContainerUseCase) UpdateStatus(ctx context.Context, id, nextStatus string) (*dto.ContainerResponse, error) {
	if nextStatus == entity.ContainerStatusReceived {
		return nil, domain.ErrInvalidInput
	}
	container, err := uc.containerRepo.GetByID(id)
	if err != nil || container == nil {
		return nil, domain.ErrNotFound
	}
	if !container.CanTransitionTo(nextStatus) {
		return nil, domain.ErrInvalidTransition
	}
	container.Status = nextStatus
	container.UpdatedAt = time.Now()
	if err := uc.containerRepo.Update(container); err != nil {
		return nil, err
	}
	return toContainerResponse(container, nil), nil
}

// Receive descarga un contenedor ARRIVED en una bodega: por cada línea ingresa
// la cantidad al stock (con movimiento referenciando al contenedor) y marca el
// contenedor como RECEIVED, todo en la misma transacción.
func (uc *ContainerUseCase) Receive(ctx context.Context, id string, in dto.ReceiveContainerRequest, actorID string) (*dto.ContainerResponse, error) {
	if in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	warehouse, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil || warehouse == nil {
		return nil, domain.ErrNotFound
	}
	container, err := uc.containerRepo.GetByID(id)
	if err != nil || container == nil {
		return nil, domain.ErrNotFound
	}
	if !container.CanTransitionTo(entity.ContainerStatusReceived) {
		return nil, domain.ErrInvalidTransition
	}
	lines, err := uc.containerRepo.GetLines(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = uc.txRunner.RunContainers(ctx, func(
		containerRepo repository.ContainerRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		for _, line := range lines {
			if err := uc.ledger.AddInTx(stockRepo, movRepo,
				line.ProductID, in.WarehouseID, line.Quantity,
				container.ID, actorID, now); err != nil {
				return err
			}
		}
		container.Status = entity.ContainerStatusReceived
		container.ReceivedAt = &now
		container.UpdatedAt = now
		return containerRepo.Update(container)
	})
	if err != nil {
		return nil, err
	}

	uc.notifyReceived(container, warehouse.Name)
	return toContainerResponse(container, lines), nil
}

// notifyReceived notificación interna best effort, fuera de la transacción.
func (uc *ContainerUseCase) notifyReceived(container *entity.Container, warehouseName string) {
	if uc.notifRepo == nil {
		return
	}
	err := uc.notifRepo.Create(&entity.Notification{
		ID:        uuid.New().String(),
		Type:      entity.NotificationContainer,
		Title:     fmt.Sprintf("Contenedor %s recibido", container.Code),
		Message:   fmt.Sprintf("El contenedor %s fue descargado en %s", container.Code, warehouseName),
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Warn().Err(err).Str("container_id", container.ID).Msg("no se pudo crear la notificación del contenedor")
	}
}

// GetByID devuelve un contenedor con sus líneas.
func (uc *ContainerUseCase) GetByID(ctx context.Context, id string) (*dto.ContainerResponse, error) {
	container, err := uc.containerRepo.GetByID(id)
	if err != nil || container == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.containerRepo.GetLines(id)
	if err != nil {
		return nil, err
	}
	return toContainerResponse(container, lines), nil
}

// List lista contenedores, opcionalmente filtrados por estado.
func (uc *ContainerUseCase) List(ctx context.Context, status string, page dto.PageRequest) ([]*dto.ContainerResponse, error) {
	page.DefaultPage()
	list, err := uc.containerRepo.List(status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ContainerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toContainerResponse(c, nil))
	}
	return out, nil
}

func toContainerResponse(c *entity.Container, lines []*entity.ContainerLine) *dto.ContainerResponse {
	resp := &dto.ContainerResponse{
		ID:         c.ID,
		SupplierID: c.SupplierID,
		Code:       c.Code,
		Status:     c.Status,
		ETA:        c.ETA,
		ReceivedAt: c.ReceivedAt,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	for _, ln := range lines {
		resp.Lines = append(resp.Lines, dto.ContainerLineResponse{
			ID:        ln.ID,
			ProductID: ln.ProductID,
			Quantity:  ln.Quantity,
			UnitCost:  ln.UnitCost,
		})
	}
	return resp
}
