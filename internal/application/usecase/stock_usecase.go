package usecase

import (
	"context"
	"time"

	"github.com/jcamachor/distribuidora-api/internal/application/dto"
	"github.com/jcamachor/distribuidora-api/internal/application/ledger"
	"github.com/jcamachor/distribuidora-api/internal/domain"
	"github.com/jcamachor/distribuidora-api/internal/domain/entity"
	"github.com/jcamachor/distribuidora-api/internal/domain/repository"
)

// StockUseCase expone el ledger hacia la capa HTTP: ajustes y traslados
// manuales, más las consultas de stock y del diario de movimientos.
type StockUseCase struct {
	ledger    *ledger.Ledger
	stockRepo repository.StockRepository
	movRepo   repository.StockMovementRepository
}

// NewStockUseCase construye el caso de uso de stock.
func NewStockUseCase(ldg *ledger.Ledger, stockRepo repository.StockRepository, movRepo repository.StockMovementRepository) *StockUseCase {
	return &StockUseCase{ledger: ldg, stockRepo: stockRepo, movRepo: movRepo}
}

// Adjust aplica una corrección manual (add/subtract/set) vía el ledger.
func (uc *StockUseCase) Adjust(ctx context.Context, in dto.AdjustStockRequest, actorID string) (*dto.StockEntryResponse, error) {
	entry, err := uc.ledger.Adjust(ctx, ledger.AdjustInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Operation:   in.Operation,
	}, actorID)
	if err != nil {
		return nil, err
	}
	return toStockEntryResponse(entry), nil
}

// Transfer traslada stock entre bodegas vía el ledger. Devuelve las filas
// de origen y destino resultantes.
func (uc *StockUseCase) Transfer(ctx context.Context, in dto.TransferStockRequest, actorID string) (origin, dest *dto.StockEntryResponse, err error) {
	o, d, err := uc.ledger.Transfer(ctx, ledger.TransferInput{
		ProductID:       in.ProductID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
	}, actorID)
	if err != nil {
		return nil, nil, err
	}
	return toStockEntryResponse(o), toStockEntryResponse(d), nil
}

// GetEntry devuelve la fila de stock de un par (producto, bodega); cantidad
// cero si nunca ha tenido stock.
func (uc *StockUseCase) GetEntry(ctx context.Context, productID, warehouseID string) (*dto.StockEntryResponse, error) {
	if productID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	entry, err := uc.stockRepo.Get(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	return toStockEntryResponse(entry), nil
}

// ListByWarehouse lista el stock de una bodega.
func (uc *StockUseCase) ListByWarehouse(ctx context.Context, warehouseID string, page dto.PageRequest) ([]*dto.StockEntryResponse, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	entries, err := uc.stockRepo.ListByWarehouse(warehouseID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.StockEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toStockEntryResponse(e))
	}
	return out, nil
}

// ListByProduct lista el stock de un producto en todas las bodegas.
func (uc *StockUseCase) ListByProduct(ctx context.Context, productID string) ([]*dto.StockEntryResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	entries, err := uc.stockRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.StockEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toStockEntryResponse(e))
	}
	return out, nil
}

// MovementsByProduct lista el diario de un producto, con rango de fechas opcional.
func (uc *StockUseCase) MovementsByProduct(ctx context.Context, productID string, from, to *time.Time, page dto.PageRequest) ([]*dto.StockMovementResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	movements, err := uc.movRepo.ListByProduct(productID, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(movements), nil
}

// MovementsByWarehouse lista el diario de una bodega, con rango de fechas opcional.
func (uc *StockUseCase) MovementsByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, page dto.PageRequest) ([]*dto.StockMovementResponse, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	movements, err := uc.movRepo.ListByWarehouse(warehouseID, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(movements), nil
}

// MovementsByReference lista los movimientos originados por un pedido o contenedor.
func (uc *StockUseCase) MovementsByReference(ctx context.Context, referenceID string) ([]*dto.StockMovementResponse, error) {
	if referenceID == "" {
		return nil, domain.ErrInvalidInput
	}
	movements, err := uc.movRepo.ListByReference(referenceID)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(movements), nil
}

func toStockEntryResponse(e *entity.StockEntry) *dto.StockEntryResponse {
	return &dto.StockEntryResponse{
		ProductID:   e.ProductID,
		WarehouseID: e.WarehouseID,
		Quantity:    e.Quantity,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toMovementResponses(movements []*entity.StockMovement) []*dto.StockMovementResponse {
	out := make([]*dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, &dto.StockMovementResponse{
			ID:          m.ID,
			ReferenceID: m.ReferenceID,
			ProductID:   m.ProductID,
			WarehouseID: m.WarehouseID,
			Type:        m.Type,
			Quantity:    m.Quantity,
			Date:        m.Date,
			CreatedBy:   m.CreatedBy,
		})
	}
	return out
}
