package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config agrupa la configuración necesaria para correr la aplicación.
type Config struct {
	Port        string
	DatabaseURL string
	MemoryStore bool
}

// Load lee variables de entorno y valida lo mínimo indispensable.
// Si hay un .env en el working directory lo carga primero (best effort;
// las variables ya exportadas tienen prioridad).
func Load() (Config, error) {
	_ = godotenv.Load()

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}
	// Normalizamos por si alguien manda ":8080"
	port = strings.TrimPrefix(port, ":")

	// MEMORY_STORE=1 arranca sin base de datos (modo dev/demo).
	memoryStore := os.Getenv("MEMORY_STORE") == "1"

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" && !memoryStore {
		return Config{}, fmt.Errorf("missing required env var: DATABASE_URL")
	}

	return Config{
		Port:        port,
		DatabaseURL: databaseURL,
		MemoryStore: memoryStore,
	}, nil
}
