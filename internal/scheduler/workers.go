package scheduler

import (
	"context"
	"sync"
	"sync/atomic"

	"vacancyradar/internal/models"

	"go.uber.org/zap"
)

const detailWorkers = 10

// fetchDetails resolves search items to full vacancy records through a
// bounded worker pool. Items whose detail fetch fails are dropped from the
// batch, not retried here.
func (r *Runner) fetchDetails(ctx context.Context, items []models.Vacancy, stats *RunStats) []models.Vacancy {
	idChan := make(chan string)
	resultChan := make(chan models.Vacancy)

	var wg sync.WaitGroup
	for i := 0; i < detailWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range idChan {
				vacancy, err := r.hhClient.Get(ctx, id)
				if err != nil {
					r.logger.Error("failed to fetch vacancy details",
						zap.String("id", id),
						zap.Error(err))
					continue
				}
				atomic.AddInt32(&stats.VacanciesFetched, 1)
				resultChan <- *vacancy
			}
		}()
	}

	go func() {
		for _, item := range items {
			idChan <- item.ID
		}
		close(idChan)
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	details := make([]models.Vacancy, 0, len(items))
	for vacancy := range resultChan {
		details = append(details, vacancy)
	}
	return details
}
