package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"vacancyradar/internal/config"
	"vacancyradar/internal/database"
	"vacancyradar/internal/events"
	"vacancyradar/internal/pipeline"
	"vacancyradar/internal/store"
	"vacancyradar/internal/telemetry"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

func newNATSConnection(cfg *config.Config) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Timeout(cfg.NATSConnTimeout),
		nats.Name("processing-service"),
		nats.RetryOnFailedConnect(true),
	}
	return nats.Connect(cfg.NATSURL, opts...)
}

func newClickHouseConnection(cfg *config.Config, logger *zap.Logger) (clickhouse.Conn, error) {
	db, err := database.New(context.Background(), database.Options{
		DSN:             cfg.ClickHouseDSN,
		MaxOpenConns:    cfg.ClickHouseMaxOpenConns,
		MaxIdleConns:    cfg.ClickHouseMaxIdleConns,
		ConnMaxLifetime: cfg.ClickHouseConnMaxLife,
		Username:        cfg.ClickHouseUsername,
		Password:        cfg.ClickHousePassword,
		Database:        cfg.ClickHouseDatabase,
	}, logger)
	if err != nil {
		return nil, err
	}
	return db.Conn(), nil
}

func newStore(conn clickhouse.Conn, logger *zap.Logger) pipeline.Store {
	return store.New(conn, logger)
}

func newTracer() trace.Tracer {
	return telemetry.GetTracer("vacancyradar/processing")
}

func initTracing(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) error {
	if cfg.OTLPEndpoint == "" {
		logger.Info("tracing export disabled, no collector configured")
		return nil
	}

	shutdown, err := telemetry.InitTracer(context.Background(), "vacancyradar-processing", cfg.OTLPEndpoint)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return shutdown(ctx)
		},
	})
	return nil
}

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded environment from .env")
	}

	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			newLogger,
			newNATSConnection,
			newClickHouseConnection,
			newStore,
			pipeline.NewProcessor,
			events.NewHandler,
			newTracer,
		),
		fx.Invoke(
			initTracing,
			func(handler *events.Handler, lc fx.Lifecycle) error {
				return handler.RegisterSubscriptions(lc)
			},
		),
	)

	startCtx := context.Background()
	if err := app.Start(startCtx); err != nil {
		log.Fatal(err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	stopCtx := context.Background()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatal(err)
	}
}
