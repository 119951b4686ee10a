package sales

import "github.com/go-chi/chi/v5"

// RegisterRoutes registra las rutas de ventas en el router.
// Mantener esto separado hace que main.go no crezca sin control.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Route("/sales", func(route chi.Router) {
		route.Post("/", handler.Create)
		route.Get("/", handler.List)
	})
}
