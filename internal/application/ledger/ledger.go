package ledger

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jcamachor/distribuidora-api/internal/domain"
	"github.com/jcamachor/distribuidora-api/internal/domain/entity"
	"github.com/jcamachor/distribuidora-api/internal/domain/repository"
)

// Operaciones de ajuste manual de stock.
const (
	OpAdd      = "add"
	OpSubtract = "subtract"
	OpSet      = "set"
)

// maxAttempts reintentos ante ErrConcurrencyConflict (serialization failure o
// deadlock reportado por la BD) antes de devolver el error al caller.
const maxAttempts = 3

// Ledger es el componente dueño de StockEntry: toda mutación de stock pasa por
// aquí, dentro de una transacción con bloqueo de fila (SELECT FOR UPDATE).
// Cada mutación deja además un registro en el diario de movimientos.
type Ledger struct {
	txRunner TxRunner
}

// New construye el ledger con su runner transaccional.
func New(txRunner TxRunner) *Ledger {
	return &Ledger{txRunner: txRunner}
}

// Line es una cantidad solicitada de un producto en una bodega, usada por
// ReserveForOrder y ReleaseFromOrder.
type Line struct {
	ProductID   string
	WarehouseID string
	Quantity    int64
}

// AdjustInput entrada para una corrección manual de stock.
type AdjustInput struct {
	ProductID   string
	WarehouseID string
	Quantity    int64
	Operation   string // add | subtract | set
}

// TransferInput entrada para un traslado entre bodegas.
type TransferInput struct {
	ProductID       string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        int64
}

// run ejecuta fn en una transacción, reintentando la operación completa hasta
// maxAttempts veces cuando la BD reporta un conflicto de serialización.
func (l *Ledger) run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = l.txRunner.Run(ctx, fn)
		if err == nil || !errors.Is(err, domain.ErrConcurrencyConflict) {
			return err
		}
		log.Warn().Int("attempt", attempt).Msg("conflicto de serialización en el ledger, reintentando")
	}
	return err
}

// Adjust aplica una corrección manual sobre un par (producto, bodega):
//
//	add:      crea la fila si no existe (desde 0) y suma Quantity.
//	subtract: falla con InsufficientStockError si no hay fila o no alcanza.
//	set:      reemplaza la cantidad (valor previo tratado como 0 si no existe).
//
// Devuelve la fila actualizada.
func (l *Ledger) Adjust(ctx context.Context, in AdjustInput, actorID string) (*entity.StockEntry, error) {
	if in.ProductID == "" || in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	switch in.Operation {
	case OpAdd, OpSubtract:
		if in.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
	case OpSet:
		if in.Quantity < 0 {
			return nil, domain.ErrInvalidQuantity
		}
	default:
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var result *entity.StockEntry
	err := l.run(ctx, func(stockRepo repository.StockRepository, movRepo repository.StockMovementRepository) error {
		// Bloquea la fila para serializar mutadores concurrentes sobre el mismo par
		entry, err := stockRepo.GetForUpdate(in.ProductID, in.WarehouseID)
		if err != nil {
			return err
		}
		var delta int64
		switch in.Operation {
		case OpAdd:
			delta = in.Quantity
		case OpSubtract:
			if entry.Quantity < in.Quantity {
				return &domain.InsufficientStockError{
					ProductID:   in.ProductID,
					WarehouseID: in.WarehouseID,
					Available:   entry.Quantity,
					Requested:   in.Quantity,
				}
			}
			delta = -in.Quantity
		case OpSet:
			delta = in.Quantity - entry.Quantity
		}
		entry.Quantity += delta
		entry.UpdatedAt = now
		if err := stockRepo.Upsert(entry); err != nil {
			return err
		}
		if delta != 0 {
			if err := movRepo.Create(newMovement("", in.ProductID, in.WarehouseID,
				entity.MovementTypeADJUSTMENT, delta, now, actorID)); err != nil {
				return err
			}
		}
		result = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Transfer traslada Quantity de un producto entre dos bodegas como unidad
// todo-o-nada: si el origen no alcanza, ninguna de las dos filas cambia.
// La cantidad total del producto se conserva en todo traslado, exitoso o no.
func (l *Ledger) Transfer(ctx context.Context, in TransferInput, actorID string) (origin, dest *entity.StockEntry, err error) {
	if in.ProductID == "" || in.FromWarehouseID == "" || in.ToWarehouseID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, nil, domain.ErrInvalidInput
	}
	if in.Quantity <= 0 {
		return nil, nil, domain.ErrInvalidQuantity
	}

	now := time.Now()
	txID := uuid.New().String()
	err = l.run(ctx, func(stockRepo repository.StockRepository, movRepo repository.StockMovementRepository) error {
		// Bloquear ambas filas en orden fijo (por ID de bodega) para que dos
		// traslados opuestos concurrentes no se bloqueen mutuamente (deadlock).
		first, second := in.FromWarehouseID, in.ToWarehouseID
		if second < first {
			first, second = second, first
		}
		entries := make(map[string]*entity.StockEntry, 2)
		for _, wh := range []string{first, second} {
			e, err := stockRepo.GetForUpdate(in.ProductID, wh)
			if err != nil {
				return err
			}
			entries[wh] = e
		}
		src, dst := entries[in.FromWarehouseID], entries[in.ToWarehouseID]
		if src.Quantity < in.Quantity {
			return &domain.InsufficientStockError{
				ProductID:   in.ProductID,
				WarehouseID: in.FromWarehouseID,
				Available:   src.Quantity,
				Requested:   in.Quantity,
			}
		}
		src.Quantity -= in.Quantity
		dst.Quantity += in.Quantity
		src.UpdatedAt = now
		dst.UpdatedAt = now
		if err := stockRepo.Upsert(src); err != nil {
			return err
		}
		if err := stockRepo.Upsert(dst); err != nil {
			return err
		}
		// Dos registros en el diario: salida del origen y entrada al destino
		if err := movRepo.Create(newMovement(txID, in.ProductID, in.FromWarehouseID,
			entity.MovementTypeTRANSFER, -in.Quantity, now, actorID)); err != nil {
			return err
		}
		if err := movRepo.Create(newMovement(txID, in.ProductID, in.ToWarehouseID,
			entity.MovementTypeTRANSFER, in.Quantity, now, actorID)); err != nil {
			return err
		}
		origin, dest = src, dst
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return origin, dest, nil
}

// ReserveForOrder descuenta stock para todas las líneas de un pedido en una
// sola transacción. Verificación en dos fases: primero bloquea y comprueba
// TODAS las líneas; solo si todas alcanzan procede a descontar. Una sola
// insuficiencia aborta el conjunto completo sin mutar ninguna fila.
func (l *Ledger) ReserveForOrder(ctx context.Context, lines []Line, referenceID, actorID string) error {
	normalized, err := normalizeLines(lines)
	if err != nil {
		return err
	}
	now := time.Now()
	return l.run(ctx, func(stockRepo repository.StockRepository, movRepo repository.StockMovementRepository) error {
		return l.ReserveInTx(stockRepo, movRepo, normalized, referenceID, actorID, now)
	})
}

// ReleaseFromOrder devuelve al stock las cantidades de las líneas (espejo de
// ReserveForOrder, usado al cancelar un pedido). Nunca falla por cantidad:
// solo incrementa, creando la fila si no existiera.
func (l *Ledger) ReleaseFromOrder(ctx context.Context, lines []Line, referenceID, actorID string) error {
	normalized, err := normalizeLines(lines)
	if err != nil {
		return err
	}
	now := time.Now()
	return l.run(ctx, func(stockRepo repository.StockRepository, movRepo repository.StockMovementRepository) error {
		return l.ReleaseInTx(stockRepo, movRepo, normalized, referenceID, actorID, now)
	})
}

// ReserveInTx ejecuta la reserva usando repositorios de una transacción del
// caller (el workflow de pedidos la invoca dentro de su propia tx para que
// pedido y stock se confirmen o reviertan juntos).
// Las líneas deben venir de normalizeLines: ordenadas y sin pares duplicados,
// de modo que reservas concurrentes adquieran los bloqueos en el mismo orden.
func (l *Ledger) ReserveInTx(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	lines []Line,
	referenceID, actorID string,
	now time.Time,
) error {
	// Fase 1: bloquear cada fila en orden y verificar disponibilidad
	entries := make([]*entity.StockEntry, len(lines))
	for i, ln := range lines {
		entry, err := stockRepo.GetForUpdate(ln.ProductID, ln.WarehouseID)
		if err != nil {
			return err
		}
		if entry.Quantity < ln.Quantity {
			return &domain.InsufficientStockError{
				ProductID:   ln.ProductID,
				WarehouseID: ln.WarehouseID,
				Available:   entry.Quantity,
				Requested:   ln.Quantity,
			}
		}
		entries[i] = entry
	}
	// Fase 2: todas alcanzan; descontar y registrar movimientos
	for i, ln := range lines {
		entry := entries[i]
		entry.Quantity -= ln.Quantity
		entry.UpdatedAt = now
		if err := stockRepo.Upsert(entry); err != nil {
			return err
		}
		if err := movRepo.Create(newMovement(referenceID, ln.ProductID, ln.WarehouseID,
			entity.MovementTypeRESERVE, -ln.Quantity, now, actorID)); err != nil {
			return err
		}
	}
	return nil
}

// ReleaseInTx incrementa cada fila por la cantidad de su línea, dentro de la
// transacción del caller. Crea la fila si no existiera (defensivo: la reserva
// previa debió haberla creado).
func (l *Ledger) ReleaseInTx(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	lines []Line,
	referenceID, actorID string,
	now time.Time,
) error {
	for _, ln := range lines {
		entry, err := stockRepo.GetForUpdate(ln.ProductID, ln.WarehouseID)
		if err != nil {
			return err
		}
		entry.Quantity += ln.Quantity
		entry.UpdatedAt = now
		if err := stockRepo.Upsert(entry); err != nil {
			return err
		}
		if err := movRepo.Create(newMovement(referenceID, ln.ProductID, ln.WarehouseID,
			entity.MovementTypeRELEASE, ln.Quantity, now, actorID)); err != nil {
			return err
		}
	}
	return nil
}

// AddInTx ingresa stock de un producto en una bodega dentro de la transacción
// del caller (recepción de contenedores), registrando el movimiento con la
// referencia dada.
func (l *Ledger) AddInTx(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	productID, warehouseID string,
	quantity int64,
	referenceID, actorID string,
	now time.Time,
) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	entry, err := stockRepo.GetForUpdate(productID, warehouseID)
	if err != nil {
		return err
	}
	entry.Quantity += quantity
	entry.UpdatedAt = now
	if err := stockRepo.Upsert(entry); err != nil {
		return err
	}
	return movRepo.Create(newMovement(referenceID, productID, warehouseID,
		entity.MovementTypeADJUSTMENT, quantity, now, actorID))
}

// NormalizeLines valida y normaliza líneas para reserva/liberación: cantidades
// positivas, IDs presentes, pares (producto, bodega) duplicados fusionados y
// orden fijo por producto y bodega (orden de adquisición de bloqueos).
func NormalizeLines(lines []Line) ([]Line, error) {
	return normalizeLines(lines)
}

func normalizeLines(lines []Line) ([]Line, error) {
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	type key struct{ product, warehouse string }
	merged := make(map[key]int64, len(lines))
	for _, ln := range lines {
		if ln.ProductID == "" || ln.WarehouseID == "" {
			return nil, domain.ErrInvalidInput
		}
		if ln.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		merged[key{ln.ProductID, ln.WarehouseID}] += ln.Quantity
	}
	out := make([]Line, 0, len(merged))
	for k, q := range merged {
		out = append(out, Line{ProductID: k.product, WarehouseID: k.warehouse, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].WarehouseID < out[j].WarehouseID
	})
	return out, nil
}

func newMovement(referenceID, productID, warehouseID, movType string, quantity int64, now time.Time, actorID string) *entity.StockMovement {
	return &entity.StockMovement{
		ID:          uuid.New().String(),
		ReferenceID: referenceID,
		ProductID:   productID,
		WarehouseID: warehouseID,
		Type:        movType,
		Quantity:    quantity,
		Date:        now,
		CreatedAt:   now,
		CreatedBy:   actorID,
	}
}
