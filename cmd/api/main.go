package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/salesdash/sales-api-golang/internal/config"
	"github.com/salesdash/sales-api-golang/internal/db"
	"github.com/salesdash/sales-api-golang/internal/docs"
	"github.com/salesdash/sales-api-golang/internal/health"
	"github.com/salesdash/sales-api-golang/internal/httpx"
	"github.com/salesdash/sales-api-golang/internal/sales"
)

// appPool es lo que run necesita de un pool: el acceso que usa el repositorio
// más el cierre al apagar.
type appPool interface {
	sales.DB
	Close()
}

// appDeps parametriza run para poder testearlo sin red ni DB.
type appDeps struct {
	loadConfig     func() (config.Config, error)
	newPool        func(ctx context.Context, databaseURL string) (appPool, error)
	listenAndServe func(addr string, handler http.Handler) error
	logger         *zap.Logger
}

func defaultNewPool(ctx context.Context, databaseURL string) (appPool, error) {
	return db.NewPool(ctx, databaseURL)
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	deps := appDeps{
		loadConfig:     config.Load,
		newPool:        defaultNewPool,
		listenAndServe: http.ListenAndServe,
		logger:         logger,
	}

	if err := run(context.Background(), deps); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, deps appDeps) error {
	cfg, err := deps.loadConfig()
	if err != nil {
		return err
	}

	logger := deps.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// El storage es un recurso del proceso: se abre acá y se cierra acá.
	var store sales.Store
	if cfg.MemoryStore {
		logger.Warn("running with in-memory store, data will not survive restarts")
		store = sales.NewMemoryStore()
	} else {
		pool, err := deps.newPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store = sales.NewRepository(pool)
	}

	router := buildRouter(store, logger)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr))
	return deps.listenAndServe(addr, router)
}

func buildRouter(store sales.Store, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middlewares base para trazabilidad y estabilidad.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	// Errores de routing se manejan a nivel router.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusNotFound, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	healthHandler := health.New(store)
	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	salesService := sales.NewService(store, logger)
	salesHandler := sales.NewHandler(salesService, logger)
	sales.RegisterRoutes(r, salesHandler)

	docs.RegisterRoutes(r)

	return r
}
