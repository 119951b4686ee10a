package sales

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Esquema esperado:
//
//	CREATE TABLE sales (
//	    id              uuid PRIMARY KEY DEFAULT gen_random_uuid(),
//	    customer        text,
//	    product         text NOT NULL,
//	    qty             integer NOT NULL,
//	    amount          numeric(12,2) NOT NULL,
//	    date            timestamptz NOT NULL DEFAULT now(),
//	    inserted_at     timestamptz NOT NULL DEFAULT now(),
//	    idempotency_key text UNIQUE
//	);
//	CREATE INDEX ix_sales_date ON sales (date DESC);

// DB es lo que el repositorio necesita del pool. Permite testear con fakes
// sin levantar PostgreSQL.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

// Repository accede a la tabla sales.
// Contiene SQL y mapeo DB → modelo.
type Repository struct {
	database DB
}

// NewRepository crea un repositorio de ventas.
func NewRepository(database DB) *Repository {
	return &Repository{database: database}
}

const saleColumns = `id, COALESCE(customer, ''), product, qty, amount::float8, date`

// Insert persiste una venta y devuelve el registro completo.
// Usamos RETURNING para obtener el id y la fecha generados por DB;
// el registro recién es visible cuando la DB confirmó el insert.
func (repository *Repository) Insert(ctx context.Context, record InsertSale) (Sale, error) {
	const query = `
		INSERT INTO sales (customer, product, qty, amount, date, idempotency_key)
		VALUES (NULLIF($1, ''), $2, $3, $4, COALESCE($5, now()), NULLIF($6, ''))
		RETURNING ` + saleColumns + `;
	`

	// Fecha en cero = que la asigne la colección (COALESCE → now()).
	var date any
	if !record.Date.IsZero() {
		date = record.Date
	}

	var sale Sale
	err := repository.database.QueryRow(ctx, query,
		record.Customer, record.Product, record.Qty, record.Amount, date, record.IdempotencyKey).
		Scan(&sale.ID, &sale.Customer, &sale.Product, &sale.Qty, &sale.Amount, &sale.Date)
	if err != nil {
		// Postgres: unique_violation = 23505 (índice unique de idempotency_key).
		var pgError *pgconn.PgError
		if errors.As(err, &pgError) && pgError.Code == "23505" {
			return Sale{}, ErrDuplicateKey
		}
		return Sale{}, err
	}

	return sale, nil
}

// List devuelve todas las ventas, más reciente primero.
// Sin filtros ni paginación: el filtrado es del lado del dashboard.
func (repository *Repository) List(ctx context.Context) ([]Sale, error) {
	const query = `SELECT ` + saleColumns + ` FROM sales ORDER BY date DESC;`

	rows, err := repository.database.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]Sale, 0)
	for rows.Next() {
		var sale Sale
		if err := rows.Scan(&sale.ID, &sale.Customer, &sale.Product, &sale.Qty, &sale.Amount, &sale.Date); err != nil {
			return nil, err
		}
		results = append(results, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// GetByIdempotencyKey busca la venta insertada con esa key desde `since`.
func (repository *Repository) GetByIdempotencyKey(ctx context.Context, key string, since time.Time) (Sale, error) {
	const query = `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE idempotency_key = $1 AND inserted_at >= $2;
	`

	var sale Sale
	err := repository.database.QueryRow(ctx, query, key, since).
		Scan(&sale.ID, &sale.Customer, &sale.Product, &sale.Qty, &sale.Amount, &sale.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Sale{}, ErrNotFound
		}
		return Sale{}, err
	}

	return sale, nil
}

// Ping verifica conectividad con la DB.
func (repository *Repository) Ping(ctx context.Context) error {
	return repository.database.Ping(ctx)
}
