// Package cli holds the startup plumbing shared by the kakeibo commands:
// logging, .env loading, config validation and store selection.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"kakeibo/internal/auth"
	"kakeibo/internal/config"
	"kakeibo/internal/ledger"
	"kakeibo/internal/log"
	"kakeibo/internal/memory"
	"kakeibo/internal/storage"
)

// DefaultPasscode seeds the memory backend so a fresh dev run can log in
// without provisioning.
const DefaultPasscode = "1234"

// SetupLogger initializes the component-tagged logger and installs it as
// the slog default.
func SetupLogger(component string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Component = component
	logger := log.New(cfg).WithComponent(component)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads .env for local development. Missing files are fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration, exiting on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore selects the entry store from the configured backend. The
// returned close function is a no-op for the memory backend.
func OpenStore(logger *log.Logger, cfg *config.Config) (ledger.EntryStore, func() error) {
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open SQLite store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
		return repo, repo.Close
	default:
		store := memory.NewStore()
		store.SeedUser(auth.HashPasscode(DefaultPasscode))
		logger.Info("Initialized memory backend", "seeded_passcode", DefaultPasscode)
		return store, func() error { return nil }
	}
}
