package events

import (
	"context"
	"encoding/json"
	"fmt"

	"vacancyradar/internal/messaging"
	"vacancyradar/internal/pipeline"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Handler struct {
	logger    *zap.Logger
	nc        *nats.Conn
	tracer    trace.Tracer
	processor *pipeline.Processor
	sub       *nats.Subscription
}

func NewHandler(logger *zap.Logger, nc *nats.Conn, tracer trace.Tracer, processor *pipeline.Processor) *Handler {
	return &Handler{
		logger:    logger,
		nc:        nc,
		tracer:    tracer,
		processor: processor,
	}
}

func (h *Handler) RegisterSubscriptions(lc fx.Lifecycle) error {
	sub, err := h.nc.QueueSubscribe(messaging.BatchSubject, "processing-service", h.handleBatch)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", messaging.BatchSubject, err)
	}

	h.sub = sub
	h.logger.Info("Registered NATS subscriptions")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return h.sub.Unsubscribe()
		},
	})

	return nil
}

// handleBatch runs the pipeline over one fetched batch. Failed batches are
// logged and dropped: there is no redelivery contract on this subject.
func (h *Handler) handleBatch(msg *nats.Msg) {
	ctx, span := h.tracer.Start(context.Background(), "handleBatch")
	defer span.End()

	var event messaging.BatchEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		span.RecordError(err)
		h.logger.Error("Failed to decode batch event",
			zap.Error(err),
			zap.String("subject", msg.Subject))
		return
	}

	stats, err := h.processor.ProcessBatch(ctx, event.Vacancies)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("Failed to process vacancy batch",
			zap.Error(err),
			zap.String("area", event.Area),
			zap.String("subject", msg.Subject))
		return
	}

	h.logger.Info("Successfully processed vacancy batch",
		zap.String("area", event.Area),
		zap.Int("fetched", stats.Fetched),
		zap.Int("stored", stats.Stored))
}
