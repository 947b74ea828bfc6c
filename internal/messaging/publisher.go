package messaging

import (
	"context"
	"encoding/json"
	"time"

	"vacancyradar/internal/config"
	"vacancyradar/internal/errors"
	"vacancyradar/internal/models"
	"vacancyradar/internal/telemetry"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("vacancyradar/messaging")

// BatchSubject carries one fetched search batch per message, keeping the
// pipeline's batch semantics intact across the transport.
const BatchSubject = "vacancies.batch.fetched"

// BatchEvent is the payload published per searched area.
type BatchEvent struct {
	Keywords  []string         `json:"keywords"`
	Area      string           `json:"area"`
	FetchedAt time.Time        `json:"fetched_at"`
	Vacancies []models.Vacancy `json:"vacancies"`
}

type Publisher interface {
	PublishBatch(ctx context.Context, event *BatchEvent) error
	Close()
}

type natsPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewPublisher(logger *zap.Logger, cfg *config.Config) (Publisher, error) {
	opts := []nats.Option{
		nats.Timeout(cfg.NATSConnTimeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}

	conn, err := nats.Connect(cfg.NATSURL, opts...)
	if err != nil {
		return nil, errors.Internal("connecting to NATS", err)
	}

	return &natsPublisher{
		conn:   conn,
		logger: logger,
	}, nil
}

func (p *natsPublisher) PublishBatch(ctx context.Context, event *BatchEvent) error {
	_, span := tracer.Start(ctx, "PublishBatch")
	defer span.End()

	data, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		return errors.Internal("marshaling batch event", err)
	}

	span.SetAttributes(
		telemetry.String("nats.subject", BatchSubject),
		telemetry.Int("batch.size", len(event.Vacancies)),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.conn.Publish(BatchSubject, data); err != nil {
		span.RecordError(err)
		p.logger.Error("failed to publish vacancy batch",
			zap.String("area", event.Area),
			zap.Int("size", len(event.Vacancies)),
			zap.Error(err))
		return errors.Internal("publishing to NATS", err)
	}

	p.logger.Debug("published vacancy batch",
		zap.String("area", event.Area),
		zap.Int("size", len(event.Vacancies)),
		zap.String("subject", BatchSubject))
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
