package sales

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Sale representa una venta persistida.
// Customer es opcional a nivel storage (registros viejos pueden no tenerlo);
// el contrato de creación sí lo exige. Ver CreateSaleInput.
type Sale struct {
	ID       string    `json:"id"`
	Customer string    `json:"customer,omitempty"`
	Product  string    `json:"product"`
	Qty      int       `json:"qty"`
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"date"`
}

// CreateSaleInput representa el payload para registrar una venta.
// Date viaja como string ("2006-01-02" o RFC 3339) y se parsea en el service.
type CreateSaleInput struct {
	Customer string  `json:"customer" validate:"required"`
	Product  string  `json:"product" validate:"required"`
	Qty      int     `json:"qty" validate:"required"`
	Date     string  `json:"date" validate:"required"`
	Amount   float64 `json:"amount" validate:"required"`
}

// validate es la única instancia del validador; es thread-safe y cachea
// la metadata de los structs.
var validate = validator.New()

// Validate es el predicado compartido de la regla "todos los campos son
// obligatorios". Lo invoca el service (autoritativo) y también el dashboard
// (chequeo previo, para cortar submits incompletos antes del request).
// "required" en validator = valor no-cero, que es exactamente la semántica
// laxa del contrato: string vacío, qty 0 y amount 0 se rechazan.
func (input CreateSaleInput) Validate() error {
	if err := validate.Struct(input); err != nil {
		return ErrMissingFields
	}
	return nil
}

// dateLayouts son los formatos aceptados para Date: el del input type="date"
// del dashboard y RFC 3339 para clientes programáticos.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// ParseDate parsea el campo Date del input.
func ParseDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
