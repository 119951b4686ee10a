package sales

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore es la implementación en memoria de Store.
// Se usa en tests (una instancia aislada por test) y en modo dev sin DB.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Sale
	// byKey indexa idempotency key → posición + instante de inserción.
	byKey map[string]memoryKeyEntry
}

type memoryKeyEntry struct {
	id         string
	insertedAt time.Time
}

// NewMemoryStore instancia un MemoryStore vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make([]Sale, 0),
		byKey:   make(map[string]memoryKeyEntry),
	}
}

// Insert asigna id y fecha (si falta) y guarda el registro.
func (store *MemoryStore) Insert(ctx context.Context, record InsertSale) (Sale, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if record.IdempotencyKey != "" {
		if _, exists := store.byKey[record.IdempotencyKey]; exists {
			return Sale{}, ErrDuplicateKey
		}
	}

	date := record.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	sale := Sale{
		ID:       uuid.NewString(),
		Customer: record.Customer,
		Product:  record.Product,
		Qty:      record.Qty,
		Amount:   record.Amount,
		Date:     date,
	}
	store.records = append(store.records, sale)

	if record.IdempotencyKey != "" {
		store.byKey[record.IdempotencyKey] = memoryKeyEntry{
			id:         sale.ID,
			insertedAt: time.Now().UTC(),
		}
	}

	return sale, nil
}

// List devuelve una copia de todos los registros, más reciente primero.
// Ante fechas iguales preserva el orden de inserción (sort estable).
func (store *MemoryStore) List(ctx context.Context) ([]Sale, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	results := make([]Sale, len(store.records))
	copy(results, store.records)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Date.After(results[j].Date)
	})

	return results, nil
}

// GetByIdempotencyKey busca la venta insertada con esa key desde `since`.
func (store *MemoryStore) GetByIdempotencyKey(ctx context.Context, key string, since time.Time) (Sale, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	entry, ok := store.byKey[key]
	if !ok || entry.insertedAt.Before(since) {
		return Sale{}, ErrNotFound
	}

	for _, sale := range store.records {
		if sale.ID == entry.id {
			return sale, nil
		}
	}
	return Sale{}, ErrNotFound
}

// Ping no tiene backend que verificar.
func (store *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
