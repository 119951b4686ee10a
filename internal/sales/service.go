package sales

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// idempotencyWindow es la ventana dentro de la cual un reintento con la misma
// Idempotency-Key devuelve el registro original en vez de duplicar.
const idempotencyWindow = 24 * time.Hour

// Service contiene las reglas de negocio de ventas: es el único lugar donde
// vive el contrato de creación. No reintenta nada; un intento por operación.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService crea un service de ventas.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Create valida el input y persiste la venta.
// idempotencyKey es opcional ("" = cada submit inserta, como siempre).
// Errores: ErrMissingFields si falta algún campo, ErrStorageUnavailable si
// la colección falló. Nunca queda un registro parcial.
func (service *Service) Create(ctx context.Context, input CreateSaleInput, idempotencyKey string) (Sale, error) {
	// Normalización mínima. El dashboard también trimmea, pero acá no se
	// confía en el cliente.
	input.Customer = strings.TrimSpace(input.Customer)
	input.Product = strings.TrimSpace(input.Product)
	input.Date = strings.TrimSpace(input.Date)

	if err := input.Validate(); err != nil {
		return Sale{}, err
	}

	// Una fecha que no parsea cuenta como campo inválido; misma respuesta
	// que un campo faltante para mantener el contrato de un solo mensaje.
	date, err := ParseDate(input.Date)
	if err != nil {
		service.logger.Warn("unparseable sale date", zap.String("date", input.Date))
		return Sale{}, ErrMissingFields
	}

	// Reintento con la misma key dentro de la ventana: devolvemos el
	// registro original sin insertar de nuevo.
	if idempotencyKey != "" {
		existing, err := service.store.GetByIdempotencyKey(ctx, idempotencyKey, time.Now().Add(-idempotencyWindow))
		switch {
		case err == nil:
			service.logger.Info("duplicate submission suppressed",
				zap.String("idempotency_key", idempotencyKey),
				zap.String("sale_id", existing.ID))
			return existing, nil
		case !errors.Is(err, ErrNotFound):
			service.logger.Error("idempotency lookup failed", zap.Error(err))
			return Sale{}, ErrStorageUnavailable
		}
	}

	sale, err := service.store.Insert(ctx, InsertSale{
		Customer:       input.Customer,
		Product:        input.Product,
		Qty:            input.Qty,
		Amount:         input.Amount,
		Date:           date,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		// Carrera entre dos reintentos con la misma key: el índice unique
		// corta al segundo; devolvemos lo que insertó el primero.
		if errors.Is(err, ErrDuplicateKey) && idempotencyKey != "" {
			existing, lookupErr := service.store.GetByIdempotencyKey(ctx, idempotencyKey, time.Now().Add(-idempotencyWindow))
			if lookupErr == nil {
				return existing, nil
			}
			err = lookupErr
		}
		service.logger.Error("failed to save sale", zap.Error(err),
			zap.String("product", input.Product))
		return Sale{}, ErrStorageUnavailable
	}

	service.logger.Info("sale created",
		zap.String("sale_id", sale.ID),
		zap.String("product", sale.Product),
		zap.Float64("amount", sale.Amount))
	return sale, nil
}

// List devuelve todas las ventas ordenadas por fecha descendente.
// El orden lo garantiza la colección; acá no se filtra nada.
func (service *Service) List(ctx context.Context) ([]Sale, error) {
	results, err := service.store.List(ctx)
	if err != nil {
		service.logger.Error("failed to list sales", zap.Error(err))
		return nil, ErrStorageUnavailable
	}
	return results, nil
}
