package dashboard

import (
	"context"
	"fmt"

	"resty.dev/v3"

	"github.com/salesdash/sales-api-golang/internal/sales"
)

// apiError mapea el cuerpo de error plano del backend.
type apiError struct {
	Error string `json:"error"`
}

// Client es el cliente HTTP del API de ventas que consume el dashboard.
// Solo conoce las dos operaciones del contrato.
type Client struct {
	http *resty.Client
}

// NewClient crea un cliente apuntando a baseURL (ej: "http://localhost:8080").
func NewClient(baseURL string) *Client {
	return &Client{
		http: resty.New().SetBaseURL(baseURL),
	}
}

// Close libera los recursos del transporte.
func (client *Client) Close() error {
	return client.http.Close()
}

// ListSales trae la lista completa, ya ordenada por fecha descendente.
func (client *Client) ListSales(ctx context.Context) ([]sales.Sale, error) {
	var results []sales.Sale
	var failure apiError

	res, err := client.http.R().
		SetContext(ctx).
		SetResult(&results).
		SetError(&failure).
		Get("/sales")
	if err != nil {
		return nil, fmt.Errorf("fetch sales: %w", err)
	}
	if res.IsError() {
		if failure.Error != "" {
			return nil, fmt.Errorf("fetch sales: %s", failure.Error)
		}
		return nil, fmt.Errorf("fetch sales: unexpected status %d", res.StatusCode())
	}

	return results, nil
}

// CreateSale registra una venta y devuelve el registro persistido (con id).
// idempotencyKey opcional; "" no manda el header.
func (client *Client) CreateSale(ctx context.Context, input sales.CreateSaleInput, idempotencyKey string) (sales.Sale, error) {
	var created sales.Sale
	var failure apiError

	req := client.http.R().
		SetContext(ctx).
		SetBody(input).
		SetResult(&created).
		SetError(&failure)
	if idempotencyKey != "" {
		req.SetHeader("Idempotency-Key", idempotencyKey)
	}

	res, err := req.Post("/sales")
	if err != nil {
		return sales.Sale{}, fmt.Errorf("add sale: %w", err)
	}
	if res.IsError() {
		if failure.Error != "" {
			return sales.Sale{}, fmt.Errorf("add sale: %s", failure.Error)
		}
		return sales.Sale{}, fmt.Errorf("add sale: unexpected status %d", res.StatusCode())
	}

	return created, nil
}
