package main

import (
	"os"

	"github.com/OrtegaGeovanny/tiendex/internal/config"
	"github.com/OrtegaGeovanny/tiendex/migrations"
	"github.com/OrtegaGeovanny/tiendex/pkg/logger"
	"github.com/OrtegaGeovanny/tiendex/pkg/pg"
)

func main() {
	cfg, err := config.Load(config.EnvPathFromArgs(os.Args))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	write := cfg.PostgresWrite()
	logger.Info("migration: applying", "host", write.Host, "database", write.Database)
	if err = pg.Migrate(write, migrations.FS); err != nil {
		logger.Error("migration: error running migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("migration: done")
}
