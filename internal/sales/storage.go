package sales

import (
	"context"
	"errors"
	"time"
)

// Errores de dominio (no HTTP). El handler los traduce a status codes.
var (
	// ErrMissingFields: falta (o es falsy) alguno de los cinco campos del contrato.
	ErrMissingFields = errors.New("all fields are required")
	// ErrStorageUnavailable: el backend de datos falló; el detalle queda en logs.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrNotFound: no existe registro para la clave consultada.
	ErrNotFound = errors.New("sale not found")
	// ErrDuplicateKey: ya existe un registro con esa idempotency key.
	ErrDuplicateKey = errors.New("duplicate idempotency key")
)

// InsertSale es el registro a persistir, sin los campos generados.
// Si Date viene en cero, el storage asigna "ahora" (default de la colección).
// IdempotencyKey es opcional; si viene, se guarda junto al registro.
type InsertSale struct {
	Customer       string
	Product        string
	Qty            int
	Amount         float64
	Date           time.Time
	IdempotencyKey string
}

// Store es la colección durable de ventas. Dos implementaciones: Repository
// (PostgreSQL) y MemoryStore (tests y modo dev). La instancia es un recurso
// inyectado con vida acotada al proceso, nunca un global de paquete.
type Store interface {
	// Insert asigna id (y fecha si falta), persiste y devuelve el registro
	// completo. Un insert fallido no deja registro parcial visible.
	Insert(ctx context.Context, record InsertSale) (Sale, error)
	// List devuelve todos los registros ordenados por fecha descendente.
	List(ctx context.Context) ([]Sale, error)
	// GetByIdempotencyKey busca un registro insertado con esa key desde
	// el instante `since`. Devuelve ErrNotFound si no hay match.
	GetByIdempotencyKey(ctx context.Context, key string, since time.Time) (Sale, error)
	// Ping verifica conectividad con el backend.
	Ping(ctx context.Context) error
}
