package scheduler

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"vacancyradar/internal/config"
	"vacancyradar/internal/hh"
	"vacancyradar/internal/messaging"
	"vacancyradar/internal/models"
	"vacancyradar/internal/telemetry"

	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("vacancyradar/scheduler")

// maxKeywordsPerRun caps the sampled search text; longer queries trip the
// API's request-length limits.
const maxKeywordsPerRun = 2

// Runner drives periodic vacancy fetches: sample keywords, search each
// configured area, fan detail fetches across a worker pool, publish one
// batch per area. RunOnce is also the entry point for on-demand triggers.
type Runner struct {
	hhClient  hh.Client
	publisher messaging.Publisher
	logger    *zap.Logger
	config    *config.Config
	mutex     sync.Mutex
	isActive  bool
}

func NewRunner(hhClient hh.Client, publisher messaging.Publisher, logger *zap.Logger, cfg *config.Config) *Runner {
	return &Runner{
		hhClient:  hhClient,
		publisher: publisher,
		logger:    logger,
		config:    cfg,
	}
}

// RunStats counts one run's outcome across all areas.
type RunStats struct {
	AreasSearched      int32
	VacanciesFetched   int32
	VacanciesPublished int32
}

func (r *Runner) Start(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Runner.Start")
	defer span.End()

	r.mutex.Lock()
	if r.isActive {
		r.mutex.Unlock()
		return nil
	}
	r.isActive = true
	r.mutex.Unlock()

	ticker := time.NewTicker(r.config.PollingInterval)
	defer ticker.Stop()

	if _, err := r.RunOnce(ctx); err != nil {
		r.logger.Error("initial run failed", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				r.logger.Error("periodic run failed", zap.Error(err))
			}
		}
	}
}

func (r *Runner) Stop() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.isActive = false
}

// RunOnce performs one full fetch-and-publish cycle. Per-area failures are
// logged and skipped; the run continues with the remaining areas.
func (r *Runner) RunOnce(ctx context.Context) (*RunStats, error) {
	ctx, span := tracer.Start(ctx, "Runner.RunOnce")
	defer span.End()

	keywords := sampleKeywords(r.config.SearchKeywords, maxKeywordsPerRun)
	r.logger.Info("starting vacancy search run", zap.Strings("keywords", keywords))

	stats := &RunStats{}
	for _, area := range r.config.SearchAreas {
		items, err := r.searchArea(ctx, keywords, area)
		if err != nil {
			r.logger.Error("area search failed", zap.String("area", area), zap.Error(err))
			continue
		}
		atomic.AddInt32(&stats.AreasSearched, 1)
		if len(items) == 0 {
			r.logger.Info("no vacancies found", zap.String("area", area))
			continue
		}

		details := r.fetchDetails(ctx, items, stats)
		if len(details) == 0 {
			continue
		}

		event := &messaging.BatchEvent{
			Keywords:  keywords,
			Area:      area,
			FetchedAt: time.Now().UTC(),
			Vacancies: details,
		}
		if err := r.publisher.PublishBatch(ctx, event); err != nil {
			r.logger.Error("failed to publish batch", zap.String("area", area), zap.Error(err))
			continue
		}
		atomic.AddInt32(&stats.VacanciesPublished, int32(len(details)))
	}

	span.SetAttributes(
		telemetry.Int("run.areas_searched", int(stats.AreasSearched)),
		telemetry.Int("run.vacancies_fetched", int(stats.VacanciesFetched)),
		telemetry.Int("run.vacancies_published", int(stats.VacanciesPublished)),
	)
	r.logger.Info("completed vacancy search run",
		zap.Int32("areas_searched", stats.AreasSearched),
		zap.Int32("vacancies_fetched", stats.VacanciesFetched),
		zap.Int32("vacancies_published", stats.VacanciesPublished))
	return stats, nil
}

// searchArea searches one area, retrying with a single keyword when the
// full keyword set returns nothing.
func (r *Runner) searchArea(ctx context.Context, keywords []string, area string) ([]models.Vacancy, error) {
	items, err := r.hhClient.Search(ctx, keywords, area, r.config.SearchLimit)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 && len(keywords) > 1 {
		r.logger.Info("retrying with a single keyword", zap.String("area", area))
		return r.hhClient.Search(ctx, keywords[:1], area, r.config.SearchLimit)
	}
	return items, nil
}

func sampleKeywords(pool []string, n int) []string {
	sampled := append([]string(nil), pool...)
	if len(sampled) <= n {
		return sampled
	}
	rand.Shuffle(len(sampled), func(i, j int) {
		sampled[i], sampled[j] = sampled[j], sampled[i]
	})
	return sampled[:n]
}
