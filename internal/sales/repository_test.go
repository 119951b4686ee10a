package sales

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type fakeDB struct {
	queryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	queryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	pingFn     func(ctx context.Context) error

	lastQuery      string
	lastArgs       []any
	queryRowCalled bool
	queryCalled    bool
	pingCalled     bool
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	db.queryRowCalled = true
	db.lastQuery = sql
	db.lastArgs = args
	if db.queryRowFn == nil {
		return &fakeRow{err: errors.New("unexpected QueryRow call")}
	}
	return db.queryRowFn(ctx, sql, args...)
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	db.queryCalled = true
	db.lastQuery = sql
	db.lastArgs = args
	if db.queryFn == nil {
		return nil, errors.New("unexpected Query call")
	}
	return db.queryFn(ctx, sql, args...)
}

func (db *fakeDB) Ping(ctx context.Context) error {
	db.pingCalled = true
	if db.pingFn != nil {
		return db.pingFn(ctx)
	}
	return nil
}

type fakeRow struct {
	values []any
	err    error
}

func (row *fakeRow) Scan(dest ...any) error {
	if row.err != nil {
		return row.err
	}
	return assign(dest, row.values)
}

type fakeRows struct {
	rows    [][]any
	index   int
	rowsErr error
	closed  bool
}

func (rows *fakeRows) Close()                                       { rows.closed = true }
func (rows *fakeRows) Err() error                                   { return rows.rowsErr }
func (rows *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (rows *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (rows *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (rows *fakeRows) RawValues() [][]byte                          { return nil }
func (rows *fakeRows) Conn() *pgx.Conn                              { return nil }

func (rows *fakeRows) Next() bool {
	if rows.index >= len(rows.rows) {
		return false
	}
	rows.index++
	return true
}

func (rows *fakeRows) Scan(dest ...any) error {
	return assign(dest, rows.rows[rows.index-1])
}

func assign(dest []any, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("expected %d dest, got %d", len(values), len(dest))
	}
	for i, value := range values {
		switch target := dest[i].(type) {
		case *string:
			*target = value.(string)
		case *int:
			*target = value.(int)
		case *float64:
			*target = value.(float64)
		case *time.Time:
			*target = value.(time.Time)
		default:
			return fmt.Errorf("unsupported dest type %T", dest[i])
		}
	}
	return nil
}

func saleRow(sale Sale) []any {
	return []any{sale.ID, sale.Customer, sale.Product, sale.Qty, sale.Amount, sale.Date}
}

func TestRepository_Insert(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		database := &fakeDB{}
		repository := NewRepository(database)

		expected := Sale{ID: "id-1", Customer: "Alice", Product: "Pen", Qty: 3, Amount: 30, Date: date}
		database.queryRowFn = func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &fakeRow{values: saleRow(expected)}
		}

		sale, err := repository.Insert(context.Background(), InsertSale{
			Customer: "Alice", Product: "Pen", Qty: 3, Amount: 30, Date: date, IdempotencyKey: "k1",
		})

		require.NoError(t, err)
		require.Equal(t, expected, sale)
		require.True(t, database.queryRowCalled)
		require.Contains(t, database.lastQuery, "INSERT INTO sales")
		require.Contains(t, database.lastQuery, "RETURNING")
		require.Equal(t, []any{"Alice", "Pen", 3, 30.0, any(date), "k1"}, database.lastArgs)
	})

	t.Run("zero date delegates default to the collection", func(t *testing.T) {
		database := &fakeDB{}
		repository := NewRepository(database)

		database.queryRowFn = func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &fakeRow{values: saleRow(Sale{ID: "id-2", Product: "Pen", Qty: 1, Amount: 10, Date: time.Now()})}
		}

		_, err := repository.Insert(context.Background(), InsertSale{Product: "Pen", Qty: 1, Amount: 10})

		require.NoError(t, err)
		require.Nil(t, database.lastArgs[4], "expected nil date so the DB applies now()")
	})

	t.Run("unique violation maps to duplicate key", func(t *testing.T) {
		database := &fakeDB{}
		repository := NewRepository(database)

		database.queryRowFn = func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &fakeRow{err: &pgconn.PgError{Code: "23505"}}
		}

		_, err := repository.Insert(context.Background(), InsertSale{Product: "Pen", Qty: 1, Amount: 10, IdempotencyKey: "k1"})

		require.ErrorIs(t, err, ErrDuplicateKey)
	})

	t.Run("unknown db error is returned", func(t *testing.T) {
		database := &fakeDB{}
		repository := NewRepository(database)

		errDB := errors.New("db down")
		database.queryRowFn = func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &fakeRow{err: errDB}
		}

		_, err := repository.Insert(context.Background(), InsertSale{Product: "Pen", Qty: 1, Amount: 10})

		require.ErrorIs(t, err, errDB)
	})
}

func TestRepository_List(t *testing.T) {
	t.Run("success keeps db order", func(t *testing.T) {
		database := &fakeDB{}
		repository := NewRepository(database)

		newer := Sale{ID: "id-2", Customer: "Bob", Product: "Pencil", Qty: 1, Amount: 5,
			Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}
		older := Sale{ID: "id-1", Customer: "Alice", Product: "Pen", Qty: 3, Amount: 30,
			Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

		rows := &fakeRows{rows: [][]any{saleRow(newer), saleRow(older)}}
		database.queryFn = func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return rows, nil
		}

		results, err := repository.List(context.Background())

		require.NoError(t, err)
		require.Equal(t, []Sale{newer, older}, results)
		require.Contains(t, database.lastQuery, "ORDER BY date DESC")
		require.True(t, rows.closed)
	})

	t.Run("empty result is an empty slice", func(t *testing.T) {
		database := &fakeDB{}
		repository := NewRepository(database)

		database.queryFn = func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return &fakeRows{}, nil
		}

		results, err := repository.List(context.Background())

		require.NoError(t, err)
		require.NotNil(t, results)
		require.Empty(t, results)
	})

	t.Run("query error", func(t *testing.T) {
		database := &fakeDB{}
		repository := NewRepository(database)

		errDB := errors.New("connection refused")
		database.queryFn = func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return nil, errDB
		}

		results, err := repository.List(context.Background())

		require.ErrorIs(t, err, errDB)
		require.Nil(t, results)
	})

	t.Run("rows error after iteration", func(t *testing.T) {
		database := &fakeDB{}
		repository := NewRepository(database)

		errRows := errors.New("stream broken")
		database.queryFn = func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return &fakeRows{rowsErr: errRows}, nil
		}

		results, err := repository.List(context.Background())

		require.ErrorIs(t, err, errRows)
		require.Nil(t, results)
	})
}

func TestRepository_GetByIdempotencyKey(t *testing.T) {
	since := time.Now().Add(-time.Hour)

	t.Run("found", func(t *testing.T) {
		database := &fakeDB{}
		repository := NewRepository(database)

		expected := Sale{ID: "id-1", Customer: "Alice", Product: "Pen", Qty: 3, Amount: 30,
			Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		database.queryRowFn = func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &fakeRow{values: saleRow(expected)}
		}

		sale, err := repository.GetByIdempotencyKey(context.Background(), "k1", since)

		require.NoError(t, err)
		require.Equal(t, expected, sale)
		require.Equal(t, []any{"k1", any(since)}, database.lastArgs)
	})

	t.Run("no rows maps to not found", func(t *testing.T) {
		database := &fakeDB{}
		repository := NewRepository(database)

		database.queryRowFn = func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &fakeRow{err: pgx.ErrNoRows}
		}

		_, err := repository.GetByIdempotencyKey(context.Background(), "k1", since)

		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRepository_Ping(t *testing.T) {
	database := &fakeDB{pingFn: func(ctx context.Context) error {
		return errors.New("no pong")
	}}
	repository := NewRepository(database)

	err := repository.Ping(context.Background())

	require.Error(t, err)
	require.True(t, database.pingCalled)
}
