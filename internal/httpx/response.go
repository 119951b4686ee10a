package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorBody es el cuerpo de error de la API: un objeto plano {"error": "..."}.
// El shape lo fija el contrato con el dashboard; no exponer detalles internos
// (SQL, stacktrace, etc.) en el mensaje.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON escribe una respuesta JSON con headers correctos.
// Nota: en caso de error de encodeo, responde 500 de forma segura.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)

	if err := enc.Encode(payload); err != nil {
		// Último recurso: no se pudo serializar JSON.
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
	}
}

// Fail devuelve un error con el shape plano del contrato.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Error: message})
}

// Text escribe una respuesta de texto plano (se usa en el root check).
func Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
