package sales

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/salesdash/sales-api-golang/internal/httpx"
)

// ServiceAPI define lo que el handler necesita.
// Permite testear handlers con stubs sin tocar storage.
type ServiceAPI interface {
	Create(ctx context.Context, input CreateSaleInput, idempotencyKey string) (Sale, error)
	List(ctx context.Context) ([]Sale, error)
}

// Handler HTTP para ventas.
// Solo traduce HTTP <-> dominio (service); los cuerpos de respuesta son
// contrato con el dashboard y no se tocan.
type Handler struct {
	service ServiceAPI
	logger  *zap.Logger
}

// NewHandler crea un handler de ventas.
func NewHandler(service ServiceAPI, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// Create maneja POST /sales.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	var input CreateSaleInput
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		httpx.Fail(writer, http.StatusBadRequest, "Invalid request body")
		return
	}

	idempotencyKey := request.Header.Get("Idempotency-Key")

	sale, err := handler.service.Create(request.Context(), input, idempotencyKey)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			httpx.Fail(writer, http.StatusBadRequest, "All fields are required")
		default:
			// No filtramos detalles internos; el log ya tiene el error real.
			handler.logger.Error("create sale failed",
				zap.String("request_id", httpx.RequestIDFrom(request)),
				zap.Error(err))
			httpx.Fail(writer, http.StatusInternalServerError, "Failed to add sale")
		}
		return
	}

	httpx.JSON(writer, http.StatusCreated, sale)
}

// List maneja GET /sales. Devuelve el array pelado, fecha descendente.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	results, err := handler.service.List(request.Context())
	if err != nil {
		handler.logger.Error("list sales failed",
			zap.String("request_id", httpx.RequestIDFrom(request)),
			zap.Error(err))
		httpx.Fail(writer, http.StatusInternalServerError, "Failed to fetch sales")
		return
	}

	httpx.JSON(writer, http.StatusOK, results)
}
