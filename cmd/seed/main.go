package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prakasa-labs/products-api/internal/config"
	"github.com/prakasa-labs/products-api/internal/log"
	"github.com/prakasa-labs/products-api/internal/seed"
	"github.com/prakasa-labs/products-api/internal/storage/db"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running seed application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	inserted, err := seed.Run(ctx, db.NewClient(pgxPool))
	if err != nil {
		return fmt.Errorf("error seeding products: %w", err)
	}

	logger.InfoContext(ctx, "seeding completed",
		slog.Int("catalog_size", len(seed.Catalog)),
		slog.Int64("inserted", inserted))

	return nil
}
