package main

import (
	"context"
	"log"

	"vacancyradar/internal/config"
	"vacancyradar/internal/database/schema"
	"vacancyradar/internal/database/schema/migrations"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", zap.Error(err))
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.ClickHouseDSN},
		Auth: clickhouse.Auth{
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
		},
	})
	if err != nil {
		logger.Fatal("Failed to connect to ClickHouse", zap.Error(err))
	}
	defer conn.Close()

	ctx := context.Background()

	migrator := schema.NewMigrator(conn, logger)

	if err := migrator.CreateMigrationsTable(ctx); err != nil {
		logger.Fatal("Failed to create migrations table", zap.Error(err))
	}

	applied, err := migrator.GetAppliedMigrations(ctx)
	if err != nil {
		logger.Fatal("Failed to get applied migrations", zap.Error(err))
	}

	pending := []schema.Migration{
		migrations.CreateVacanciesTable,
	}

	for _, migration := range pending {
		if _, ok := applied[migration.Version]; !ok {
			logger.Info("Applying migration",
				zap.Int("version", migration.Version),
				zap.String("description", migration.Description),
			)

			if err := migrator.ApplyMigration(ctx, migration); err != nil {
				logger.Fatal("Failed to apply migration",
					zap.Int("version", migration.Version),
					zap.Error(err),
				)
			}

			logger.Info("Successfully applied migration",
				zap.Int("version", migration.Version),
			)
		} else {
			logger.Info("Migration already applied",
				zap.Int("version", migration.Version),
				zap.String("description", migration.Description),
			)
		}
	}

	logger.Info("All migrations completed successfully")
}
