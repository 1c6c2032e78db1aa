// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config holds server settings.
type Config struct {
	// ListenAddr is the address the HTTP server binds (LISTEN_ADDR).
	ListenAddr string

	// Store selects the storage backend, "memory" or "sqlite" (STORE).
	Store string

	// DBPath is the SQLite database file, used when Store is "sqlite" (DB_PATH).
	DBPath string

	// LogLevel is one of debug, info, warn, error (LOG_LEVEL).
	LogLevel string
}

// Load reads the configuration from environment variables, applying defaults.
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if value := getenv(key); value != "" {
			return value
		}
		return fallback
	}

	cfg := &Config{
		ListenAddr: get("LISTEN_ADDR", ":8080"),
		Store:      strings.ToLower(get("STORE", StoreMemory)),
		DBPath:     get("DB_PATH", "./data/ledger.db"),
		LogLevel:   get("LOG_LEVEL", "info"),
	}

	switch cfg.Store {
	case StoreMemory, StoreSQLite:
	default:
		return nil, fmt.Errorf("unknown STORE %q (want %q or %q)", cfg.Store, StoreMemory, StoreSQLite)
	}

	return cfg, nil
}
