package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// Chi guarda el request id en el contexto y lo propaga en "X-Request-Id".
// Este helper lo lee desde el request para incluirlo en los logs.
func RequestIDFrom(request *http.Request) string {
	if request == nil {
		return ""
	}
	if id := middleware.GetReqID(request.Context()); id != "" {
		return id
	}
	return request.Header.Get("X-Request-Id")
}
