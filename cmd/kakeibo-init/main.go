// kakeibo-init provisions the single household user. Run it once against a
// fresh database, or again to rotate the passcode.
package main

import (
	"context"
	"flag"
	"os"
	"regexp"

	"kakeibo/internal/auth"
	"kakeibo/internal/cli"
	"kakeibo/internal/storage"
)

var passcodeRE = regexp.MustCompile(`^\d{4}$`)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("init")
	cfg := cli.LoadAndValidateConfig(logger)

	passcode := flag.String("passcode", "", "4-digit passcode for the household user")
	flag.Parse()

	if *passcode == "" {
		*passcode = os.Getenv("KAKEIBO_PASSCODE")
	}
	if !passcodeRE.MatchString(*passcode) {
		logger.Error("Passcode must be exactly 4 digits, pass -passcode or set KAKEIBO_PASSCODE")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open SQLite store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	user, err := repo.UpsertUser(context.Background(), auth.HashPasscode(*passcode))
	if err != nil {
		logger.Error("Failed to provision user", "error", err)
		os.Exit(1)
	}

	logger.Info("User provisioned", "user_id", user.ID, "db", cfg.SQLiteDBPath)
}
