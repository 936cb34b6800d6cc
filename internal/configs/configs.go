/*
Package configs is responsible for loading and parsing the application's
configuration settings.

Configuration comes from environment variables, with a local .env file loaded
first when present. Every value has a development default.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultPort is the port the server listens on when PORT is unset.
const DefaultPort = 5000

// AppConfig contains all configuration parameters required for the application to run.
type AppConfig struct {
	// Environment is "development" or "production".
	Environment string

	// Port is the TCP port the HTTP server listens on.
	Port int

	// AllowedOrigins restricts WebSocket upgrades and CORS. Empty means any
	// origin is accepted.
	AllowedOrigins []string

	// HistoryCapacity bounds the recent-message buffer replayed to new clients.
	HistoryCapacity int

	// StaticDir optionally points at the built client bundle to serve.
	StaticDir string
}

// LoadConfig reads and parses the application configuration from environment
// variables, applying defaults and validation. A .env file in the working
// directory is loaded first if one exists.
func LoadConfig() (*AppConfig, error) {
	// missing .env is the normal case outside local development
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = strconv.Itoa(DefaultPort)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	historyStr := os.Getenv("HISTORY_CAPACITY")
	if historyStr == "" {
		historyStr = "50"
	}
	capacity, err := strconv.Atoi(historyStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HISTORY_CAPACITY environment variable: %w", err)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("HISTORY_CAPACITY must be positive, got %d", capacity)
	}
	cfg.HistoryCapacity = capacity

	cfg.StaticDir = os.Getenv("STATIC_DIR")

	return cfg, nil
}
