package main

import (
	"context"
	"log/slog"
	"os"

	"go-bookkeeping-ws/internal/config"
	"go-bookkeeping-ws/internal/seed"
	"go-bookkeeping-ws/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, relying on system env")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}
	log := cfg.NewLogger()

	// 2. Setup Database
	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		log.Error("auto migrate failed", "error", err)
		os.Exit(1)
	}

	// 3. Seed master data
	if err := seed.Run(context.Background(), db, log); err != nil {
		log.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	log.Info("seeding finished")
}
