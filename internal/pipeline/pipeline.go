package pipeline

import (
	"context"
	"fmt"
	"time"

	"vacancyradar/internal/config"
	"vacancyradar/internal/models"
	"vacancyradar/internal/telemetry"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Store is the persistence sink the pipeline delegates to. The pipeline
// reads the known-record set through it and hands back the accepted batch;
// it never mutates stored records.
type Store interface {
	Known(ctx context.Context) (map[string]struct{}, map[string]models.PartialRecord, error)
	Append(ctx context.Context, postings []models.Posting) (int, error)
}

// Stats counts one batch's fate through the pipeline stages.
type Stats struct {
	Fetched int
	Recent  int
	Unique  int
	Stored  int
}

// Processor sequences the batch transform: convert and normalize, classify,
// normalize currency, filter by recency, deduplicate against the store's
// known records, append survivors.
type Processor struct {
	logger      *zap.Logger
	store       Store
	tracer      trace.Tracer
	classifier  *Classifier
	recency     *RecencyFilter
	dedup       *Deduplicator
	horizonDays int
	now         func() time.Time
}

func NewProcessor(logger *zap.Logger, store Store, cfg *config.Config) *Processor {
	return &Processor{
		logger: logger,
		store:  store,
		tracer: telemetry.GetTracer("vacancyradar/pipeline"),
		classifier: NewClassifier(Keywords{
			Junior: cfg.JuniorKeywords,
			Middle: cfg.MiddleKeywords,
			Senior: cfg.SeniorKeywords,
		}),
		recency:     NewRecencyFilter(),
		dedup:       NewDeduplicator(cfg.DedupCompanyExceptions),
		horizonDays: cfg.HorizonDays,
		now:         time.Now,
	}
}

// ProcessBatch runs one fetched batch to completion and returns its stats.
func (p *Processor) ProcessBatch(ctx context.Context, batch []models.Vacancy) (Stats, error) {
	ctx, span := p.tracer.Start(ctx, "ProcessBatch")
	defer span.End()
	span.SetAttributes(telemetry.Int("batch.fetched", len(batch)))

	now := p.now()
	postings := make([]models.Posting, 0, len(batch))
	for i := range batch {
		posting := batch[i].ToPosting(now)
		posting.Description = Normalize(posting.Description)
		posting.ExperienceLevel = p.classifier.Classify(posting.Description)
		posting.SalaryCurrency = models.NormalizeCurrency(posting.SalaryCurrency)
		postings = append(postings, posting)
	}

	recent := p.recency.FilterRecent(postings, p.horizonDays)

	knownIDs, knownContent, err := p.store.Known(ctx)
	if err != nil {
		span.RecordError(err)
		return Stats{}, fmt.Errorf("load known records: %w", err)
	}

	unique := p.dedup.DeduplicateAgainst(recent, knownIDs, knownContent)

	stored := 0
	if len(unique) > 0 {
		stored, err = p.store.Append(ctx, unique)
		if err != nil {
			span.RecordError(err)
			return Stats{}, fmt.Errorf("append postings: %w", err)
		}
	}

	stats := Stats{
		Fetched: len(batch),
		Recent:  len(recent),
		Unique:  len(unique),
		Stored:  stored,
	}
	span.SetAttributes(
		telemetry.Int("batch.recent", stats.Recent),
		telemetry.Int("batch.unique", stats.Unique),
		telemetry.Int("batch.stored", stats.Stored),
	)
	p.logger.Info("processed vacancy batch",
		zap.Int("fetched", stats.Fetched),
		zap.Int("recent", stats.Recent),
		zap.Int("unique", stats.Unique),
		zap.Int("stored", stats.Stored))

	return stats, nil
}
