package health

import (
	"context"
	"net/http"
	"time"

	"github.com/salesdash/sales-api-golang/internal/httpx"
)

// Pinger es lo que el handler necesita del storage para el ready check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler encapsula endpoints de health.
type Handler struct {
	store Pinger
}

// New crea un handler de health.
func New(store Pinger) *Handler {
	return &Handler{store: store}
}

// Root responde el check de raíz en texto plano.
// El cuerpo exacto es contrato con el dashboard (lo usa para verificar backend).
func (handler *Handler) Root(w http.ResponseWriter, r *http.Request) {
	httpx.Text(w, http.StatusOK, "Backend is working!")
}

// Health indica si el proceso está vivo.
// NO chequea el storage. Eso va en /ready.
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready indica si el proceso puede atender tráfico (storage accesible).
func (handler *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if handler.store == nil {
		httpx.Fail(w, http.StatusServiceUnavailable, "storage not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := handler.store.Ping(ctx); err != nil {
		httpx.Fail(w, http.StatusServiceUnavailable, "storage not reachable")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"status": "ready"})
}
