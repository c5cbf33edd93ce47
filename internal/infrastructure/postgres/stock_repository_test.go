package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow respuesta guionada para QueryRow: o un error o los valores a
// escanear, en el orden de las columnas.
type fakeRow struct {
	err    error
	values []any
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i := range dest {
		switch d := dest[i].(type) {
		case *string:
			*d = r.values[i].(string)
		case *int64:
			*d = r.values[i].(int64)
		case *time.Time:
			*d = r.values[i].(time.Time)
		}
	}
	return nil
}

// fakeQuerier guioniza las respuestas de QueryRow y registra el SQL ejecutado.
type fakeQuerier struct {
	rows     []fakeRow
	queries  []string
	execSQLs []string
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.queries = append(q.queries, sql)
	row := q.rows[0]
	q.rows = q.rows[1:]
	return row
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	q.execSQLs = append(q.execSQLs, sql)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (q *fakeQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, nil
}

// Sin fila no hay nada que bloquear: GetForUpdate debe materializar la fila
// en cero (INSERT idempotente) y volver a seleccionar con bloqueo, para que
// dos mutadores concurrentes sobre un par nuevo se serialicen sobre la misma
// fila en vez de partir ambos de cero.
func TestStockGetForUpdate_FilaAusenteSeCreaYSeBloquea(t *testing.T) {
	now := time.Now()
	q := &fakeQuerier{rows: []fakeRow{
		{err: pgx.ErrNoRows},
		{values: []any{"p1", "w1", int64(0), now}},
	}}
	repo := NewStockRepository(q)

	entry, err := repo.GetForUpdate("p1", "w1")
	require.NoError(t, err)
	assert.Equal(t, "p1", entry.ProductID)
	assert.Equal(t, "w1", entry.WarehouseID)
	assert.Equal(t, int64(0), entry.Quantity)

	require.Len(t, q.queries, 2, "select con bloqueo, insert, y select con bloqueo de nuevo")
	assert.Contains(t, q.queries[0], "FOR UPDATE")
	assert.Contains(t, q.queries[1], "FOR UPDATE")
	require.Len(t, q.execSQLs, 1)
	assert.Contains(t, q.execSQLs[0], "ON CONFLICT (product_id, warehouse_id) DO NOTHING",
		"la inserción debe ser idempotente ante una creación concurrente")
}

func TestStockGetForUpdate_FilaExistenteNoInserta(t *testing.T) {
	now := time.Now()
	q := &fakeQuerier{rows: []fakeRow{
		{values: []any{"p1", "w1", int64(42), now}},
	}}
	repo := NewStockRepository(q)

	entry, err := repo.GetForUpdate("p1", "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), entry.Quantity)
	assert.Len(t, q.queries, 1)
	assert.Empty(t, q.execSQLs, "con fila existente no se inserta nada")
}
