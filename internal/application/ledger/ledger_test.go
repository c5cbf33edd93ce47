package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcamachor/distribuidora-api/internal/application/ledger"
	"github.com/jcamachor/distribuidora-api/internal/domain"
	"github.com/jcamachor/distribuidora-api/internal/domain/entity"
	"github.com/jcamachor/distribuidora-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con semántica transaccional (snapshot + rollback)
// ──────────────────────────────────────────────────────────────────────────────

type stockKey struct{ productID, warehouseID string }

// fakeStockRepo guarda StockEntry en un mapa y registra el orden de los
// GetForUpdate para poder verificar el orden de adquisición de bloqueos.
type fakeStockRepo struct {
	entries   map[stockKey]entity.StockEntry
	lockOrder []stockKey
}

var _ repository.StockRepository = (*fakeStockRepo)(nil)

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{entries: make(map[stockKey]entity.StockEntry)}
}

func (r *fakeStockRepo) seed(productID, warehouseID string, qty int64) {
	r.entries[stockKey{productID, warehouseID}] = entity.StockEntry{
		ProductID: productID, WarehouseID: warehouseID, Quantity: qty,
	}
}

func (r *fakeStockRepo) quantity(productID, warehouseID string) int64 {
	return r.entries[stockKey{productID, warehouseID}].Quantity
}

func (r *fakeStockRepo) Get(productID, warehouseID string) (*entity.StockEntry, error) {
	if e, ok := r.entries[stockKey{productID, warehouseID}]; ok {
		copied := e
		return &copied, nil
	}
	return &entity.StockEntry{ProductID: productID, WarehouseID: warehouseID}, nil
}

func (r *fakeStockRepo) GetForUpdate(productID, warehouseID string) (*entity.StockEntry, error) {
	r.lockOrder = append(r.lockOrder, stockKey{productID, warehouseID})
	return r.Get(productID, warehouseID)
}

func (r *fakeStockRepo) Upsert(entry *entity.StockEntry) error {
	r.entries[stockKey{entry.ProductID, entry.WarehouseID}] = *entry
	return nil
}

func (r *fakeStockRepo) ListByWarehouse(string, int, int) ([]*entity.StockEntry, error) {
	return nil, nil
}

func (r *fakeStockRepo) ListByProduct(string) ([]*entity.StockEntry, error) {
	return nil, nil
}

func (r *fakeStockRepo) clone() map[stockKey]entity.StockEntry {
	out := make(map[stockKey]entity.StockEntry, len(r.entries))
	for k, v := range r.entries {
		out[k] = v
	}
	return out
}

type fakeMovementRepo struct {
	items []entity.StockMovement
}

var _ repository.StockMovementRepository = (*fakeMovementRepo)(nil)

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	r.items = append(r.items, *m)
	return nil
}

func (r *fakeMovementRepo) ListByProduct(string, *time.Time, *time.Time, int, int) ([]*entity.StockMovement, error) {
	return nil, nil
}

func (r *fakeMovementRepo) ListByWarehouse(string, *time.Time, *time.Time, int, int) ([]*entity.StockMovement, error) {
	return nil, nil
}

func (r *fakeMovementRepo) ListByReference(string) ([]*entity.StockMovement, error) {
	return nil, nil
}

// fakeTxRunner emula la transacción: snapshot antes de fn y rollback si falla.
// conflictsLeft fuerza ErrConcurrencyConflict en los primeros N intentos para
// probar la política de reintentos.
type fakeTxRunner struct {
	stock         *fakeStockRepo
	movs          *fakeMovementRepo
	conflictsLeft int
	runs          int
}

func newFakeTxRunner() *fakeTxRunner {
	return &fakeTxRunner{stock: newFakeStockRepo(), movs: &fakeMovementRepo{}}
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	r.runs++
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return domain.ErrConcurrencyConflict
	}
	snapshot := r.stock.clone()
	movCount := len(r.movs.items)
	if err := fn(r.stock, r.movs); err != nil {
		r.stock.entries = snapshot
		r.movs.items = r.movs.items[:movCount]
		return err
	}
	return nil
}

func newLedger() (*ledger.Ledger, *fakeTxRunner) {
	runner := newFakeTxRunner()
	return ledger.New(runner), runner
}

// ──────────────────────────────────────────────────────────────────────────────
// Adjust
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_Add_CreaLaEntradaDesdeCero(t *testing.T) {
	l, runner := newLedger()

	entry, err := l.Adjust(context.Background(), ledger.AdjustInput{
		ProductID: "p1", WarehouseID: "w1", Quantity: 8, Operation: ledger.OpAdd,
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(8), entry.Quantity)
	assert.Equal(t, int64(8), runner.stock.quantity("p1", "w1"))

	require.Len(t, runner.movs.items, 1, "cada ajuste deja un movimiento en el diario")
	assert.Equal(t, entity.MovementTypeADJUSTMENT, runner.movs.items[0].Type)
	assert.Equal(t, int64(8), runner.movs.items[0].Quantity)
}

func TestAdjust_Subtract_DescuentaYFallaSiNoAlcanza(t *testing.T) {
	// Escenario: stock(p1,w1)=10; subtract 3 → 7; subtract 10 → InsufficientStock y queda 7.
	l, runner := newLedger()
	runner.stock.seed("p1", "w1", 10)

	entry, err := l.Adjust(context.Background(), ledger.AdjustInput{
		ProductID: "p1", WarehouseID: "w1", Quantity: 3, Operation: ledger.OpSubtract,
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), entry.Quantity)

	_, err = l.Adjust(context.Background(), ledger.AdjustInput{
		ProductID: "p1", WarehouseID: "w1", Quantity: 10, Operation: ledger.OpSubtract,
	}, "user-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficientErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr, "el error debe identificar el par que falló")
	assert.Equal(t, "p1", insufficientErr.ProductID)
	assert.Equal(t, "w1", insufficientErr.WarehouseID)
	assert.Equal(t, int64(7), insufficientErr.Available)
	assert.Equal(t, int64(10), insufficientErr.Requested)

	assert.Equal(t, int64(7), runner.stock.quantity("p1", "w1"), "el fallo no debe mutar la fila")
}

func TestAdjust_Subtract_SinEntradaFalla(t *testing.T) {
	l, _ := newLedger()

	_, err := l.Adjust(context.Background(), ledger.AdjustInput{
		ProductID: "p1", WarehouseID: "w1", Quantity: 1, Operation: ledger.OpSubtract,
	}, "user-1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestAdjust_Set_EsIdempotente(t *testing.T) {
	l, runner := newLedger()
	runner.stock.seed("p1", "w1", 42)

	for i := 0; i < 3; i++ {
		entry, err := l.Adjust(context.Background(), ledger.AdjustInput{
			ProductID: "p1", WarehouseID: "w1", Quantity: 15, Operation: ledger.OpSet,
		}, "user-1")
		require.NoError(t, err)
		assert.Equal(t, int64(15), entry.Quantity)
	}
	assert.Equal(t, int64(15), runner.stock.quantity("p1", "w1"))
}

func TestAdjust_Set_CreaLaEntradaSiNoExiste(t *testing.T) {
	l, runner := newLedger()

	entry, err := l.Adjust(context.Background(), ledger.AdjustInput{
		ProductID: "p9", WarehouseID: "w9", Quantity: 5, Operation: ledger.OpSet,
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), entry.Quantity)
	assert.Equal(t, int64(5), runner.stock.quantity("p9", "w9"))
}

func TestAdjust_EntradasInvalidas(t *testing.T) {
	l, _ := newLedger()
	ctx := context.Background()

	cases := []struct {
		name string
		in   ledger.AdjustInput
		want error
	}{
		{"operación desconocida", ledger.AdjustInput{ProductID: "p1", WarehouseID: "w1", Quantity: 1, Operation: "increment"}, domain.ErrInvalidInput},
		{"add con cantidad cero", ledger.AdjustInput{ProductID: "p1", WarehouseID: "w1", Quantity: 0, Operation: ledger.OpAdd}, domain.ErrInvalidQuantity},
		{"subtract con cantidad negativa", ledger.AdjustInput{ProductID: "p1", WarehouseID: "w1", Quantity: -2, Operation: ledger.OpSubtract}, domain.ErrInvalidQuantity},
		{"set con cantidad negativa", ledger.AdjustInput{ProductID: "p1", WarehouseID: "w1", Quantity: -1, Operation: ledger.OpSet}, domain.ErrInvalidQuantity},
		{"sin producto", ledger.AdjustInput{WarehouseID: "w1", Quantity: 1, Operation: ledger.OpAdd}, domain.ErrInvalidInput},
		{"sin bodega", ledger.AdjustInput{ProductID: "p1", Quantity: 1, Operation: ledger.OpAdd}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.Adjust(ctx, tc.in, "user-1")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Transfer
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_MueveTodoYConservaElTotal(t *testing.T) {
	// Escenario: stock(p1,w1)=5, stock(p1,w2)=0; Transfer 5 → (0,5); Transfer 1 más falla y queda (0,5).
	l, runner := newLedger()
	runner.stock.seed("p1", "w1", 5)
	runner.stock.seed("p1", "w2", 0)

	before := runner.stock.quantity("p1", "w1") + runner.stock.quantity("p1", "w2")

	origin, dest, err := l.Transfer(context.Background(), ledger.TransferInput{
		ProductID: "p1", FromWarehouseID: "w1", ToWarehouseID: "w2", Quantity: 5,
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), origin.Quantity)
	assert.Equal(t, int64(5), dest.Quantity)

	after := runner.stock.quantity("p1", "w1") + runner.stock.quantity("p1", "w2")
	assert.Equal(t, before, after, "el total del producto se conserva en un traslado exitoso")

	_, _, err = l.Transfer(context.Background(), ledger.TransferInput{
		ProductID: "p1", FromWarehouseID: "w1", ToWarehouseID: "w2", Quantity: 1,
	}, "user-1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(0), runner.stock.quantity("p1", "w1"))
	assert.Equal(t, int64(5), runner.stock.quantity("p1", "w2"))
}

func TestTransfer_CreaElDestinoSiNoExiste(t *testing.T) {
	l, runner := newLedger()
	runner.stock.seed("p1", "w1", 10)

	_, dest, err := l.Transfer(context.Background(), ledger.TransferInput{
		ProductID: "p1", FromWarehouseID: "w1", ToWarehouseID: "w2", Quantity: 4,
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), dest.Quantity)
	assert.Equal(t, int64(6), runner.stock.quantity("p1", "w1"))
}

func TestTransfer_RegistraDosMovimientosConMismaReferencia(t *testing.T) {
	l, runner := newLedger()
	runner.stock.seed("p1", "w1", 10)

	_, _, err := l.Transfer(context.Background(), ledger.TransferInput{
		ProductID: "p1", FromWarehouseID: "w1", ToWarehouseID: "w2", Quantity: 3,
	}, "user-1")
	require.NoError(t, err)

	require.Len(t, runner.movs.items, 2)
	out, in := runner.movs.items[0], runner.movs.items[1]
	assert.Equal(t, entity.MovementTypeTRANSFER, out.Type)
	assert.Equal(t, int64(-3), out.Quantity)
	assert.Equal(t, "w1", out.WarehouseID)
	assert.Equal(t, int64(3), in.Quantity)
	assert.Equal(t, "w2", in.WarehouseID)
	assert.Equal(t, out.ReferenceID, in.ReferenceID, "ambos asientos comparten la referencia del traslado")
	assert.NotEmpty(t, out.ReferenceID)
}

func TestTransfer_EntradasInvalidas(t *testing.T) {
	l, _ := newLedger()
	ctx := context.Background()

	_, _, err := l.Transfer(ctx, ledger.TransferInput{
		ProductID: "p1", FromWarehouseID: "w1", ToWarehouseID: "w1", Quantity: 1,
	}, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "origen y destino no pueden ser la misma bodega")

	_, _, err = l.Transfer(ctx, ledger.TransferInput{
		ProductID: "p1", FromWarehouseID: "w1", ToWarehouseID: "w2", Quantity: 0,
	}, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestTransfer_BloqueaLasBodegasEnOrdenFijo(t *testing.T) {
	// Dos traslados opuestos deben adquirir los bloqueos en el mismo orden de bodega.
	l, runner := newLedger()
	runner.stock.seed("p1", "w1", 10)
	runner.stock.seed("p1", "w2", 10)

	_, _, err := l.Transfer(context.Background(), ledger.TransferInput{
		ProductID: "p1", FromWarehouseID: "w2", ToWarehouseID: "w1", Quantity: 1,
	}, "user-1")
	require.NoError(t, err)

	require.Len(t, runner.stock.lockOrder, 2)
	assert.Equal(t, stockKey{"p1", "w1"}, runner.stock.lockOrder[0])
	assert.Equal(t, stockKey{"p1", "w2"}, runner.stock.lockOrder[1])
}

// ──────────────────────────────────────────────────────────────────────────────
// ReserveForOrder / ReleaseFromOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestReserve_DescuentaTodasLasLineas(t *testing.T) {
	l, runner := newLedger()
	runner.stock.seed("p1", "w1", 10)
	runner.stock.seed("p2", "w1", 20)

	err := l.ReserveForOrder(context.Background(), []ledger.Line{
		{ProductID: "p1", WarehouseID: "w1", Quantity: 3},
		{ProductID: "p2", WarehouseID: "w1", Quantity: 5},
	}, "order-1", "user-1")
	require.NoError(t, err)

	assert.Equal(t, int64(7), runner.stock.quantity("p1", "w1"))
	assert.Equal(t, int64(15), runner.stock.quantity("p2", "w1"))

	require.Len(t, runner.movs.items, 2)
	for _, m := range runner.movs.items {
		assert.Equal(t, entity.MovementTypeRESERVE, m.Type)
		assert.Equal(t, "order-1", m.ReferenceID)
		assert.Negative(t, m.Quantity)
	}
}

func TestReserve_UnaLineaInsuficienteNoMutaNada(t *testing.T) {
	// Escenario: líneas [(p1,w1,2), (p2,w1,100)] con p2=10 en stock →
	// la reserva falla completa y el stock de p1 queda intacto.
	l, runner := newLedger()
	runner.stock.seed("p1", "w1", 10)
	runner.stock.seed("p2", "w1", 10)

	err := l.ReserveForOrder(context.Background(), []ledger.Line{
		{ProductID: "p1", WarehouseID: "w1", Quantity: 2},
		{ProductID: "p2", WarehouseID: "w1", Quantity: 100},
	}, "order-1", "user-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficientErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, "p2", insufficientErr.ProductID, "el error debe nombrar la línea que falló")
	assert.Equal(t, int64(10), insufficientErr.Available)
	assert.Equal(t, int64(100), insufficientErr.Requested)

	assert.Equal(t, int64(10), runner.stock.quantity("p1", "w1"), "ninguna fila debe cambiar")
	assert.Equal(t, int64(10), runner.stock.quantity("p2", "w1"))
	assert.Empty(t, runner.movs.items, "una reserva fallida no deja movimientos")
}

func TestReserve_Release_RestauraElStock(t *testing.T) {
	// Escenario: reservar [(p1,w1,3)] con stock 10 → 7; liberar → vuelve a 10.
	l, runner := newLedger()
	runner.stock.seed("p1", "w1", 10)

	lines := []ledger.Line{{ProductID: "p1", WarehouseID: "w1", Quantity: 3}}

	require.NoError(t, l.ReserveForOrder(context.Background(), lines, "order-1", "user-1"))
	assert.Equal(t, int64(7), runner.stock.quantity("p1", "w1"))

	require.NoError(t, l.ReleaseFromOrder(context.Background(), lines, "order-1", "user-1"))
	assert.Equal(t, int64(10), runner.stock.quantity("p1", "w1"))
}

func TestRelease_CreaLaEntradaSiNoExiste(t *testing.T) {
	l, runner := newLedger()

	err := l.ReleaseFromOrder(context.Background(), []ledger.Line{
		{ProductID: "p1", WarehouseID: "w1", Quantity: 4},
	}, "order-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), runner.stock.quantity("p1", "w1"))
}

func TestReserve_BloqueaLasLineasEnOrdenFijo(t *testing.T) {
	// Las líneas llegan desordenadas; los bloqueos deben adquirirse ordenados
	// por (producto, bodega) para evitar deadlocks entre reservas concurrentes.
	l, runner := newLedger()
	runner.stock.seed("p1", "w1", 10)
	runner.stock.seed("p1", "w2", 10)
	runner.stock.seed("p2", "w1", 10)

	err := l.ReserveForOrder(context.Background(), []ledger.Line{
		{ProductID: "p2", WarehouseID: "w1", Quantity: 1},
		{ProductID: "p1", WarehouseID: "w2", Quantity: 1},
		{ProductID: "p1", WarehouseID: "w1", Quantity: 1},
	}, "order-1", "user-1")
	require.NoError(t, err)

	require.Len(t, runner.stock.lockOrder, 3)
	assert.Equal(t, stockKey{"p1", "w1"}, runner.stock.lockOrder[0])
	assert.Equal(t, stockKey{"p1", "w2"}, runner.stock.lockOrder[1])
	assert.Equal(t, stockKey{"p2", "w1"}, runner.stock.lockOrder[2])
}

func TestReserve_LineasDuplicadasSeFusionan(t *testing.T) {
	// Dos líneas del mismo par deben evaluarse como su suma: 6+6=12 contra 10 falla.
	l, runner := newLedger()
	runner.stock.seed("p1", "w1", 10)

	err := l.ReserveForOrder(context.Background(), []ledger.Line{
		{ProductID: "p1", WarehouseID: "w1", Quantity: 6},
		{ProductID: "p1", WarehouseID: "w1", Quantity: 6},
	}, "order-1", "user-1")
	require.Error(t, err)

	var insufficientErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, int64(12), insufficientErr.Requested)
	assert.Equal(t, int64(10), runner.stock.quantity("p1", "w1"))
}

func TestReserve_LineasInvalidas(t *testing.T) {
	l, _ := newLedger()
	ctx := context.Background()

	err := l.ReserveForOrder(ctx, nil, "order-1", "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = l.ReserveForOrder(ctx, []ledger.Line{
		{ProductID: "p1", WarehouseID: "w1", Quantity: 0},
	}, "order-1", "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reintentos ante conflictos de concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestRun_ReintentaAnteConflictoYTermina(t *testing.T) {
	l, runner := newLedger()
	runner.stock.seed("p1", "w1", 10)
	runner.conflictsLeft = 2 // los dos primeros intentos fallan por serialización

	entry, err := l.Adjust(context.Background(), ledger.AdjustInput{
		ProductID: "p1", WarehouseID: "w1", Quantity: 1, Operation: ledger.OpSubtract,
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(9), entry.Quantity)
	assert.Equal(t, 3, runner.runs, "debe haber reintentado dos veces antes de lograrlo")
}

func TestRun_AgotaReintentosYDevuelveElConflicto(t *testing.T) {
	l, runner := newLedger()
	runner.stock.seed("p1", "w1", 10)
	runner.conflictsLeft = 5 // nunca se resuelve dentro del presupuesto

	_, err := l.Adjust(context.Background(), ledger.AdjustInput{
		ProductID: "p1", WarehouseID: "w1", Quantity: 1, Operation: ledger.OpSubtract,
	}, "user-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConcurrencyConflict))
	assert.Equal(t, 3, runner.runs, "el número de intentos está acotado")
	assert.Equal(t, int64(10), runner.stock.quantity("p1", "w1"))
}
