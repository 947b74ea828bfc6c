package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"vacancyradar/internal/config"
	"vacancyradar/internal/messaging"
	"vacancyradar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeHHClient struct {
	mu        sync.Mutex
	searches  [][]string
	byArea    map[string][]models.Vacancy
	searchErr map[string]error
	getErr    map[string]error
}

func (f *fakeHHClient) Search(ctx context.Context, keywords []string, area string, limit int) ([]models.Vacancy, error) {
	f.mu.Lock()
	f.searches = append(f.searches, append([]string(nil), keywords...))
	f.mu.Unlock()
	if err := f.searchErr[area]; err != nil {
		return nil, err
	}
	return f.byArea[area], nil
}

func (f *fakeHHClient) Get(ctx context.Context, id string) (*models.Vacancy, error) {
	if err := f.getErr[id]; err != nil {
		return nil, err
	}
	return &models.Vacancy{ID: id, Name: "Vacancy " + id, Description: "details"}, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*messaging.BatchEvent
	err    error
}

func (f *fakePublisher) PublishBatch(ctx context.Context, event *messaging.BatchEvent) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.events = append(f.events, event)
	f.mu.Unlock()
	return nil
}

func (f *fakePublisher) Close() {}

func testRunner(client *fakeHHClient, publisher *fakePublisher) *Runner {
	cfg := &config.Config{
		SearchKeywords: []string{"golang"},
		SearchAreas:    []string{"Москва", "Санкт-Петербург"},
		SearchLimit:    25,
	}
	return NewRunner(client, publisher, zap.NewNop(), cfg)
}

func TestRunOnceFetchesAndPublishesPerArea(t *testing.T) {
	client := &fakeHHClient{
		byArea: map[string][]models.Vacancy{
			"Москва":          {{ID: "1"}, {ID: "2"}},
			"Санкт-Петербург": {{ID: "3"}},
		},
	}
	publisher := &fakePublisher{}
	runner := testRunner(client, publisher)

	stats, err := runner.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(2), stats.AreasSearched)
	assert.Equal(t, int32(3), stats.VacanciesFetched)
	assert.Equal(t, int32(3), stats.VacanciesPublished)

	require.Len(t, publisher.events, 2)
	assert.Equal(t, "Москва", publisher.events[0].Area)
	assert.Len(t, publisher.events[0].Vacancies, 2)
	assert.Equal(t, "Vacancy 3", publisher.events[1].Vacancies[0].Name)
}

func TestRunOnceContinuesPastAreaFailure(t *testing.T) {
	client := &fakeHHClient{
		byArea: map[string][]models.Vacancy{
			"Санкт-Петербург": {{ID: "3"}},
		},
		searchErr: map[string]error{"Москва": errors.New("api down")},
	}
	publisher := &fakePublisher{}
	runner := testRunner(client, publisher)

	stats, err := runner.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), stats.AreasSearched)
	assert.Equal(t, int32(1), stats.VacanciesPublished)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, "Санкт-Петербург", publisher.events[0].Area)
}

func TestRunOnceDropsFailedDetailFetches(t *testing.T) {
	client := &fakeHHClient{
		byArea: map[string][]models.Vacancy{
			"Москва": {{ID: "1"}, {ID: "2"}},
		},
		getErr: map[string]error{"2": errors.New("not found")},
	}
	publisher := &fakePublisher{}
	runner := testRunner(client, publisher)
	runner.config.SearchAreas = []string{"Москва"}

	stats, err := runner.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), stats.VacanciesFetched)
	require.Len(t, publisher.events, 1)
	require.Len(t, publisher.events[0].Vacancies, 1)
	assert.Equal(t, "1", publisher.events[0].Vacancies[0].ID)
}

func TestSearchAreaRetriesWithSingleKeyword(t *testing.T) {
	client := &fakeHHClient{byArea: map[string][]models.Vacancy{}}
	publisher := &fakePublisher{}
	runner := testRunner(client, publisher)

	_, err := runner.searchArea(context.Background(), []string{"golang", "backend"}, "Москва")
	require.NoError(t, err)

	require.Len(t, client.searches, 2)
	assert.Equal(t, []string{"golang", "backend"}, client.searches[0])
	assert.Equal(t, []string{"golang"}, client.searches[1])
}

func TestSampleKeywords(t *testing.T) {
	pool := []string{"a", "b", "c", "d", "e"}

	sampled := sampleKeywords(pool, 2)
	assert.Len(t, sampled, 2)
	for _, kw := range sampled {
		assert.Contains(t, pool, kw)
	}

	small := sampleKeywords([]string{"a"}, 2)
	assert.Equal(t, []string{"a"}, small)

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, pool, "pool must not be mutated")
}
