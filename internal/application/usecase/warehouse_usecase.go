package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jcamachor/distribuidora-api/internal/application/dto"
	"github.com/jcamachor/distribuidora-api/internal/domain"
	"github.com/jcamachor/distribuidora-api/internal/domain/entity"
	"github.com/jcamachor/distribuidora-api/internal/domain/repository"
)

// WarehouseUseCase CRUD de bodegas.
type WarehouseUseCase struct {
	warehouseRepo repository.WarehouseRepository
	stockRepo     repository.StockRepository
}

// NewWarehouseUseCase construye el caso de uso de bodegas.
func NewWarehouseUseCase(warehouseRepo repository.WarehouseRepository, stockRepo repository.StockRepository) *WarehouseUseCase {
	return &WarehouseUseCase{warehouseRepo: warehouseRepo, stockRepo: stockRepo}
}

// Create crea una bodega.
func (uc *WarehouseUseCase) Create(in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.warehouseRepo.Create(warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// Update actualiza nombre y dirección de una bodega.
func (uc *WarehouseUseCase) Update(id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.warehouseRepo.GetByID(id)
	if err != nil || warehouse == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		warehouse.Name = *in.Name
	}
	if in.Address != nil {
		warehouse.Address = *in.Address
	}
	warehouse.UpdatedAt = time.Now()
	if err := uc.warehouseRepo.Update(warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID devuelve una bodega por su id.
func (uc *WarehouseUseCase) GetByID(id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.warehouseRepo.GetByID(id)
	if err != nil || warehouse == nil {
		return nil, domain.ErrNotFound
	}
	return toWarehouseResponse(warehouse), nil
}

// List lista bodegas paginadas.
func (uc *WarehouseUseCase) List(page dto.PageRequest) ([]*dto.WarehouseResponse, error) {
	page.DefaultPage()
	list, err := uc.warehouseRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		out = append(out, toWarehouseResponse(w))
	}
	return out, nil
}

// Delete elimina una bodega. Rechaza la eliminación si conserva stock
// distinto de cero: primero hay que trasladar o ajustar el inventario.
func (uc *WarehouseUseCase) Delete(id string) error {
	warehouse, err := uc.warehouseRepo.GetByID(id)
	if err != nil || warehouse == nil {
		return domain.ErrNotFound
	}
	entries, err := uc.stockRepo.ListByWarehouse(id, 1000, 0)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Quantity != 0 {
			return domain.ErrConflict
		}
	}
	return uc.warehouseRepo.Delete(id)
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Address:   w.Address,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
