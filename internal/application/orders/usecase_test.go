package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcamachor/distribuidora-api/internal/application/dto"
	"github.com/jcamachor/distribuidora-api/internal/application/ledger"
	"github.com/jcamachor/distribuidora-api/internal/application/orders"
	"github.com/jcamachor/distribuidora-api/internal/domain"
	"github.com/jcamachor/distribuidora-api/internal/domain/entity"
	"github.com/jcamachor/distribuidora-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con semántica transaccional
// ──────────────────────────────────────────────────────────────────────────────

type stockKey struct{ productID, warehouseID string }

type fakeStockRepo struct {
	entries map[stockKey]entity.StockEntry
}

var _ repository.StockRepository = (*fakeStockRepo)(nil)

func (r *fakeStockRepo) Get(productID, warehouseID string) (*entity.StockEntry, error) {
	if e, ok := r.entries[stockKey{productID, warehouseID}]; ok {
		copied := e
		return &copied, nil
	}
	return &entity.StockEntry{ProductID: productID, WarehouseID: warehouseID}, nil
}

func (r *fakeStockRepo) GetForUpdate(productID, warehouseID string) (*entity.StockEntry, error) {
	return r.Get(productID, warehouseID)
}

func (r *fakeStockRepo) Upsert(entry *entity.StockEntry) error {
	r.entries[stockKey{entry.ProductID, entry.WarehouseID}] = *entry
	return nil
}

func (r *fakeStockRepo) ListByWarehouse(string, int, int) ([]*entity.StockEntry, error) {
	return nil, nil
}
func (r *fakeStockRepo) ListByProduct(string) ([]*entity.StockEntry, error) { return nil, nil }

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
func (r *fakeMovementRepo) ListByReference(referenceID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := range r.items {
		if r.items[i].ReferenceID == referenceID {
			out = append(out, &r.items[i])
		}
	}
	return out, nil
}

type fakeOrderRepo struct {
	orders  map[string]entity.Order
	lines   []entity.OrderLine
	history []entity.OrderStatusChange
}

var _ repository.OrderRepository = (*fakeOrderRepo)(nil)

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]entity.Order)}
}

func (r *fakeOrderRepo) Create(order *entity.Order) error {
	r.orders[order.ID] = *order
	return nil
}

func (r *fakeOrderRepo) CreateLine(line *entity.OrderLine) error {
	r.lines = append(r.lines, *line)
	return nil
}

func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	if o, ok := r.orders[id]; ok {
		copied := o
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeOrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	return r.GetByID(id)
}

func (r *fakeOrderRepo) GetLines(orderID string) ([]*entity.OrderLine, error) {
	var out []*entity.OrderLine
	for i := range r.lines {
		if r.lines[i].OrderID == orderID {
			copied := r.lines[i]
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(orderID, status string) error {
	o := r.orders[orderID]
	o.Status = status
	r.orders[orderID] = o
	return nil
}

func (r *fakeOrderRepo) AddStatusChange(change *entity.OrderStatusChange) error {
	r.history = append(r.history, *change)
	return nil
}

func (r *fakeOrderRepo) GetStatusHistory(orderID string) ([]*entity.OrderStatusChange, error) {
	var out []*entity.OrderStatusChange
	for i := range r.history {
		if r.history[i].OrderID == orderID {
			copied := r.history[i]
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) List(string, int, int) ([]*entity.Order, error)           { return nil, nil }
func (r *fakeOrderRepo) ListByCustomer(string, int, int) ([]*entity.Order, error) { return nil, nil }

type fakeCustomerRepo struct {
	customers map[string]entity.Customer
}

var _ repository.CustomerRepository = (*fakeCustomerRepo)(nil)

func (r *fakeCustomerRepo) Create(*entity.Customer) error { return nil }
func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	if c, ok := r.customers[id]; ok {
		copied := c
		return &copied, nil
	}
	return nil, nil
}
func (r *fakeCustomerRepo) Update(*entity.Customer) error                  { return nil }
func (r *fakeCustomerRepo) List(int, int) ([]*entity.Customer, error)      { return nil, nil }
func (r *fakeCustomerRepo) Delete(string) error                            { return nil }

type fakeProductRepo struct {
	products map[string]entity.Product
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

func (r *fakeProductRepo) Create(*entity.Product) error { return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	if p, ok := r.products[id]; ok {
		copied := p
		return &copied, nil
	}
	return nil, nil
}
func (r *fakeProductRepo) GetBySKU(string) (*entity.Product, error)  { return nil, nil }
func (r *fakeProductRepo) Update(*entity.Product) error              { return nil }
func (r *fakeProductRepo) List(int, int) ([]*entity.Product, error)  { return nil, nil }
func (r *fakeProductRepo) Delete(string) error                       { return nil }

// fakeTxRunner emula la transacción pedido+stock: snapshot de los tres repos
// antes de fn y rollback completo si falla.
// beforeTx se ejecuta antes de abrir la "transacción": emula otra transacción
// que confirma primero, mientras esta espera el bloqueo del pedido.
// conflicts inyecta esa cantidad de domain.ErrConcurrencyConflict antes de
// dejar pasar la transacción.
type fakeTxRunner struct {
	orders    *fakeOrderRepo
	stock     *fakeStockRepo
	movs      *fakeMovementRepo
	beforeTx  func()
	conflicts int
	attempts  int
}

var _ orders.TxRunner = (*fakeTxRunner)(nil)

func (r *fakeTxRunner) RunOrders(_ context.Context, fn func(
	orderRepo repository.OrderRepository,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	r.attempts++
	if r.beforeTx != nil {
		hook := r.beforeTx
		r.beforeTx = nil
		hook()
	}
	if r.conflicts > 0 {
		r.conflicts--
		return domain.ErrConcurrencyConflict
	}
	ordersSnap := make(map[string]entity.Order, len(r.orders.orders))
	for k, v := range r.orders.orders {
		ordersSnap[k] = v
	}
	linesSnap := len(r.orders.lines)
	historySnap := len(r.orders.history)
	stockSnap := make(map[stockKey]entity.StockEntry, len(r.stock.entries))
	for k, v := range r.stock.entries {
		stockSnap[k] = v
	}
	movsSnap := len(r.movs.items)

	if err := fn(r.orders, r.stock, r.movs); err != nil {
		r.orders.orders = ordersSnap
		r.orders.lines = r.orders.lines[:linesSnap]
		r.orders.history = r.orders.history[:historySnap]
		r.stock.entries = stockSnap
		r.movs.items = r.movs.items[:movsSnap]
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc     *orders.OrderUseCase
	runner *fakeTxRunner
}

func newFixture() *fixture {
	runner := &fakeTxRunner{
		orders: newFakeOrderRepo(),
		stock:  &fakeStockRepo{entries: make(map[stockKey]entity.StockEntry)},
		movs:   &fakeMovementRepo{},
	}
	customers := &fakeCustomerRepo{customers: map[string]entity.Customer{
		"c1": {ID: "c1", Name: "Ferretería El Martillo"},
	}}
	products := &fakeProductRepo{products: map[string]entity.Product{
		"p1": {ID: "p1", SKU: "SKU-1", Name: "Taladro", Price: decimal.NewFromInt(100)},
		"p2": {ID: "p2", SKU: "SKU-2", Name: "Lijadora", Price: decimal.NewFromInt(50)},
	}}
	ldg := ledger.New(nil) // los tests usan solo los métodos InTx, sin runner propio
	uc := orders.NewOrderUseCase(runner, ldg, runner.orders, customers, products, nil)
	return &fixture{uc: uc, runner: runner}
}

func (f *fixture) seedStock(productID, warehouseID string, qty int64) {
	f.runner.stock.entries[stockKey{productID, warehouseID}] = entity.StockEntry{
		ProductID: productID, WarehouseID: warehouseID, Quantity: qty,
	}
}

func (f *fixture) stockQty(productID, warehouseID string) int64 {
	return f.runner.stock.entries[stockKey{productID, warehouseID}].Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrder_ReservaStockYCongelaElTotal(t *testing.T) {
	f := newFixture()
	f.seedStock("p1", "w1", 10)
	f.seedStock("p2", "w1", 20)

	resp, err := f.uc.CreateOrder(context.Background(), "user-1", dto.CreateOrderRequest{
		CustomerID: "c1",
		Lines: []dto.OrderLineRequest{
			{ProductID: "p1", WarehouseID: "w1", Quantity: 2, UnitPrice: decimal.NewFromInt(120)},
			{ProductID: "p2", WarehouseID: "w1", Quantity: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, resp.Status)
	// total = 2×120 + 3×50 (precio de lista para la línea sin precio)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(390)),
		"total esperado 390, obtenido %s", resp.TotalAmount)

	assert.Equal(t, int64(8), f.stockQty("p1", "w1"))
	assert.Equal(t, int64(17), f.stockQty("p2", "w1"))

	history, err := f.runner.orders.GetStatusHistory(resp.ID)
	require.NoError(t, err)
	require.Len(t, history, 1, "la creación deja la primera entrada del historial")
	assert.Equal(t, entity.OrderStatusPending, history[0].ToStatus)

	movs, _ := f.runner.movs.ListByReference(resp.ID)
	assert.Len(t, movs, 2, "cada línea reservada deja su movimiento con el pedido como referencia")
}

func TestCreateOrder_LineaInsuficienteNoCreaNada(t *testing.T) {
	// Escenario: [(p1,w1,2), (p2,w1,100)] con p2=10 → falla completo, p1 intacto, sin pedido.
	f := newFixture()
	f.seedStock("p1", "w1", 10)
	f.seedStock("p2", "w1", 10)

	_, err := f.uc.CreateOrder(context.Background(), "user-1", dto.CreateOrderRequest{
		CustomerID: "c1",
		Lines: []dto.OrderLineRequest{
			{ProductID: "p1", WarehouseID: "w1", Quantity: 2},
			{ProductID: "p2", WarehouseID: "w1", Quantity: 100},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficientErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, "p2", insufficientErr.ProductID)

	assert.Equal(t, int64(10), f.stockQty("p1", "w1"), "el stock de la línea sana queda intacto")
	assert.Empty(t, f.runner.orders.orders, "no debe quedar ningún pedido")
	assert.Empty(t, f.runner.orders.lines)
	assert.Empty(t, f.runner.movs.items)
}

func TestCreateOrder_ValidaEntradas(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.CreateOrder(ctx, "user-1", dto.CreateOrderRequest{CustomerID: "c1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "pedido sin líneas")

	_, err = f.uc.CreateOrder(ctx, "user-1", dto.CreateOrderRequest{
		CustomerID: "desconocido",
		Lines:      []dto.OrderLineRequest{{ProductID: "p1", WarehouseID: "w1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "cliente inexistente")

	_, err = f.uc.CreateOrder(ctx, "user-1", dto.CreateOrderRequest{
		CustomerID: "c1",
		Lines:      []dto.OrderLineRequest{{ProductID: "p1", WarehouseID: "w1", Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "cantidad no positiva")
}

// ──────────────────────────────────────────────────────────────────────────────
// ChangeStatus
// ──────────────────────────────────────────────────────────────────────────────

func createOrder(t *testing.T, f *fixture, lines ...dto.OrderLineRequest) *dto.OrderResponse {
	t.Helper()
	resp, err := f.uc.CreateOrder(context.Background(), "user-1", dto.CreateOrderRequest{
		CustomerID: "c1",
		Lines:      lines,
	})
	require.NoError(t, err)
	return resp
}

func TestChangeStatus_CancelarDevuelveElStock(t *testing.T) {
	// Escenario: reservar [(p1,w1,3)] con stock 10 → 7; cancelar → vuelve a 10.
	f := newFixture()
	f.seedStock("p1", "w1", 10)

	order := createOrder(t, f, dto.OrderLineRequest{ProductID: "p1", WarehouseID: "w1", Quantity: 3})
	require.Equal(t, int64(7), f.stockQty("p1", "w1"))

	resp, err := f.uc.ChangeStatus(context.Background(), order.ID, entity.OrderStatusCancelled, "user-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, resp.Status)
	assert.Equal(t, int64(10), f.stockQty("p1", "w1"), "la cancelación restaura el stock reservado")
}

func TestChangeStatus_ReactivarReEjecutaLaReserva(t *testing.T) {
	f := newFixture()
	f.seedStock("p1", "w1", 10)

	order := createOrder(t, f, dto.OrderLineRequest{ProductID: "p1", WarehouseID: "w1", Quantity: 8})
	_, err := f.uc.ChangeStatus(context.Background(), order.ID, entity.OrderStatusCancelled, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(10), f.stockQty("p1", "w1"))

	// Otro consumidor se lleva stock mientras el pedido está cancelado
	f.seedStock("p1", "w1", 5)

	_, err = f.uc.ChangeStatus(context.Background(), order.ID, entity.OrderStatusPending, "user-1")
	require.Error(t, err, "no se asume que el stock siga disponible al reactivar")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(5), f.stockQty("p1", "w1"), "la reactivación fallida no muta stock")

	current, _ := f.runner.orders.GetByID(order.ID)
	assert.Equal(t, entity.OrderStatusCancelled, current.Status, "el pedido sigue cancelado")
}

func TestChangeStatus_ReactivarConStockDisponible(t *testing.T) {
	f := newFixture()
	f.seedStock("p1", "w1", 10)

	order := createOrder(t, f, dto.OrderLineRequest{ProductID: "p1", WarehouseID: "w1", Quantity: 4})
	_, err := f.uc.ChangeStatus(context.Background(), order.ID, entity.OrderStatusCancelled, "user-1")
	require.NoError(t, err)

	resp, err := f.uc.ChangeStatus(context.Background(), order.ID, entity.OrderStatusPending, "user-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, resp.Status)
	assert.Equal(t, int64(6), f.stockQty("p1", "w1"), "la reactivación vuelve a descontar")
}

func TestChangeStatus_TransicionesInvalidas(t *testing.T) {
	f := newFixture()
	f.seedStock("p1", "w1", 10)
	order := createOrder(t, f, dto.OrderLineRequest{ProductID: "p1", WarehouseID: "w1", Quantity: 1})
	ctx := context.Background()

	_, err := f.uc.ChangeStatus(ctx, order.ID, entity.OrderStatusDelivered, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "PENDING no puede saltar a DELIVERED")

	_, err = f.uc.ChangeStatus(ctx, order.ID, "INVENTADO", "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Entregar y verificar que DELIVERED es terminal
	for _, next := range []string{entity.OrderStatusPreparing, entity.OrderStatusInTransit, entity.OrderStatusDelivered} {
		_, err = f.uc.ChangeStatus(ctx, order.ID, next, "user-1")
		require.NoError(t, err)
	}
	_, err = f.uc.ChangeStatus(ctx, order.ID, entity.OrderStatusCancelled, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "un pedido entregado no se cancela")
}

func TestChangeStatus_CancelacionConcurrenteNoLiberaDosVeces(t *testing.T) {
	// Dos cancelaciones del mismo pedido en carrera: la primera confirma
	// mientras la segunda espera el bloqueo de la fila del pedido. Al releer
	// dentro de la transacción, la segunda ve CANCELLED y falla: el stock se
	// libera exactamente una vez.
	f := newFixture()
	f.seedStock("p1", "w1", 5)
	order := createOrder(t, f, dto.OrderLineRequest{ProductID: "p1", WarehouseID: "w1", Quantity: 3})
	require.Equal(t, int64(2), f.stockQty("p1", "w1"))

	f.runner.beforeTx = func() {
		_, err := f.uc.ChangeStatus(context.Background(), order.ID, entity.OrderStatusCancelled, "user-2")
		require.NoError(t, err)
	}

	_, err := f.uc.ChangeStatus(context.Background(), order.ID, entity.OrderStatusCancelled, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "la segunda cancelación ve el pedido ya cancelado")

	assert.Equal(t, int64(5), f.stockQty("p1", "w1"), "el stock se libera exactamente una vez")

	releases := 0
	movs, _ := f.runner.movs.ListByReference(order.ID)
	for _, m := range movs {
		if m.Type == entity.MovementTypeRELEASE {
			releases++
		}
	}
	assert.Equal(t, 1, releases, "un solo movimiento RELEASE en el diario")

	history, _ := f.runner.orders.GetStatusHistory(order.ID)
	require.Len(t, history, 2, "creación + una sola cancelación en el historial")
	assert.Equal(t, entity.OrderStatusCancelled, history[1].ToStatus)
}

func TestChangeStatus_PedidoInexistente(t *testing.T) {
	f := newFixture()
	_, err := f.uc.ChangeStatus(context.Background(), "no-existe", entity.OrderStatusCancelled, "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateOrder_ReintentaAnteConflictoDeSerializacion(t *testing.T) {
	// Dos conflictos transitorios y luego éxito: el pedido se crea y el
	// stock queda descontado una sola vez.
	f := newFixture()
	f.seedStock("p1", "w1", 10)
	f.runner.conflicts = 2

	resp, err := f.uc.CreateOrder(context.Background(), "user-1", dto.CreateOrderRequest{
		CustomerID: "c1",
		Lines:      []dto.OrderLineRequest{{ProductID: "p1", WarehouseID: "w1", Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, f.runner.attempts)
	assert.Equal(t, int64(7), f.stockQty("p1", "w1"))
	assert.Equal(t, entity.OrderStatusPending, resp.Status)
}

func TestCreateOrder_ConflictoPersistenteSeRinde(t *testing.T) {
	f := newFixture()
	f.seedStock("p1", "w1", 10)
	f.runner.conflicts = 10

	_, err := f.uc.CreateOrder(context.Background(), "user-1", dto.CreateOrderRequest{
		CustomerID: "c1",
		Lines:      []dto.OrderLineRequest{{ProductID: "p1", WarehouseID: "w1", Quantity: 3}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Equal(t, 3, f.runner.attempts, "tres intentos y se devuelve el conflicto")
	assert.Equal(t, int64(10), f.stockQty("p1", "w1"))
}

func TestChangeStatus_HistorialAppendOnly(t *testing.T) {
	f := newFixture()
	f.seedStock("p1", "w1", 10)
	order := createOrder(t, f, dto.OrderLineRequest{ProductID: "p1", WarehouseID: "w1", Quantity: 1})
	ctx := context.Background()

	_, err := f.uc.ChangeStatus(ctx, order.ID, entity.OrderStatusPreparing, "user-1")
	require.NoError(t, err)
	_, err = f.uc.ChangeStatus(ctx, order.ID, entity.OrderStatusInTransit, "user-2")
	require.NoError(t, err)

	history, err := f.runner.orders.GetStatusHistory(order.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, entity.OrderStatusPending, history[0].ToStatus)
	assert.Equal(t, entity.OrderStatusPreparing, history[1].ToStatus)
	assert.Equal(t, entity.OrderStatusPending, history[1].FromStatus)
	assert.Equal(t, entity.OrderStatusInTransit, history[2].ToStatus)
}
