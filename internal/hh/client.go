package hh

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"vacancyradar/internal/cache"
	"vacancyradar/internal/cache/redis"
	"vacancyradar/internal/config"
	"vacancyradar/internal/errors"
	"vacancyradar/internal/models"
	"vacancyradar/internal/telemetry"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("vacancyradar/hh")

// Randomizing the sort order varies which vacancies a capped search returns.
var orderOptions = []string{"publication_time", "salary_desc", "relevance"}

const maxSearchTextLength = 100

// Client consumes the HH.ru vacancy API.
type Client interface {
	Search(ctx context.Context, keywords []string, area string, limit int) ([]models.Vacancy, error)
	Get(ctx context.Context, id string) (*models.Vacancy, error)
}

type client struct {
	http   *http.Client
	logger *zap.Logger
	config *config.Config
	cache  cache.Cache
}

func NewClient(logger *zap.Logger, cfg *config.Config) Client {
	cacheOpts := cache.Options{
		RedisURL:      cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		DefaultTTL:    cfg.CacheTTL,
	}

	return &client{
		http: &http.Client{
			Timeout: cfg.HHTimeout,
		},
		logger: logger,
		config: cfg,
		cache:  redis.New(cacheOpts),
	}
}

// Search queries vacancies for the keyword set in one area. The remote-work
// pseudo-area has no HH identifier and is searched by remote keywords
// instead. Exhausted retries yield an empty batch, not an error: one failed
// area must not abort the surrounding run.
func (c *client) Search(ctx context.Context, keywords []string, area string, limit int) ([]models.Vacancy, error) {
	ctx, span := tracer.Start(ctx, "Search")
	defer span.End()
	span.SetAttributes(
		telemetry.String("hh.area", area),
		telemetry.Int("hh.limit", limit),
	)

	searchText := strings.Join(keywords, " ")
	var areaID string
	if area == c.config.RemoteArea {
		remote := c.config.RemoteKeywords
		if len(remote) > 2 {
			remote = remote[:2]
		}
		searchText = strings.Join(append(append([]string{}, keywords...), remote...), " ")
	} else {
		areaID = config.AreaIDs[area]
	}

	if runes := []rune(searchText); len(runes) > maxSearchTextLength {
		searchText = string(runes[:maxSearchTextLength])
	}

	params := url.Values{}
	params.Set("text", searchText)
	params.Set("per_page", strconv.Itoa(limit))
	params.Set("only_with_salary", "true")
	params.Set("order_by", orderOptions[rand.Intn(len(orderOptions))])
	params.Set("period", "7")
	if areaID != "" {
		params.Set("area", areaID)
	}

	var result struct {
		Items []models.Vacancy `json:"items"`
		Found int              `json:"found"`
	}
	if err := c.getJSON(ctx, c.config.HHBaseURL+"/vacancies", params, &result); err != nil {
		span.RecordError(err)
		c.logger.Error("vacancy search failed, returning empty batch",
			zap.String("area", area),
			zap.Strings("keywords", keywords),
			zap.Error(err))
		return nil, nil
	}

	span.SetAttributes(telemetry.Int("hh.found", result.Found))
	c.logger.Info("vacancy search completed",
		zap.String("area", area),
		zap.Int("count", len(result.Items)))
	return result.Items, nil
}

// Get fetches one vacancy's full record, serving repeats from the cache.
func (c *client) Get(ctx context.Context, id string) (*models.Vacancy, error) {
	ctx, span := tracer.Start(ctx, "Get")
	defer span.End()
	span.SetAttributes(telemetry.String("hh.vacancy.id", id))

	cacheKey := "hh:vacancy:" + id
	var cached models.Vacancy
	err := c.cache.Get(ctx, cacheKey, &cached)
	if err == nil {
		span.SetAttributes(telemetry.String("cache.result", "hit"))
		c.logger.Debug("cache hit", zap.String("id", id))
		return &cached, nil
	} else if err != cache.ErrNotFound {
		span.SetAttributes(telemetry.String("cache.result", "error"))
		span.RecordError(err)
		c.logger.Warn("cache error", zap.Error(err))
	} else {
		span.SetAttributes(telemetry.String("cache.result", "miss"))
	}

	var vacancy models.Vacancy
	if err := c.getJSON(ctx, c.config.HHBaseURL+"/vacancies/"+id, nil, &vacancy); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := c.cache.Set(ctx, cacheKey, vacancy, c.config.CacheTTL); err != nil {
		c.logger.Warn("failed to cache vacancy", zap.String("id", id), zap.Error(err))
	}

	return &vacancy, nil
}

// getJSON performs a GET with exponential backoff. Rate limiting retries as
// is; a 400 degrades the query parameters before the next attempt, the way
// the API tolerates (shorter text, no date filters).
func (c *client) getJSON(ctx context.Context, rawURL string, params url.Values, out interface{}) error {
	operation := func() error {
		requestURL := rawURL
		if len(params) > 0 {
			requestURL += "?" + params.Encode()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return backoff.Permanent(errors.Internal("creating request", err))
		}
		req.Header.Set("User-Agent", c.config.HHUserAgent)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return errors.Unavailable("executing request", err)
		}
		defer func() {
			if cerr := resp.Body.Close(); cerr != nil {
				c.logger.Warn("failed to close response body", zap.Error(cerr))
			}
		}()

		switch {
		case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
			c.logger.Warn("rate limited", zap.String("url", rawURL))
			return errors.RateLimit("rate limit exceeded", nil)
		case resp.StatusCode == http.StatusBadRequest:
			c.logger.Warn("bad request, degrading query parameters", zap.String("url", rawURL))
			degradeParams(params)
			return errors.InvalidInput("bad request", nil)
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(errors.NotFound("vacancy not found", nil))
		case resp.StatusCode != http.StatusOK:
			return errors.Internal(fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(errors.Internal("decoding response", err))
		}
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.config.HHRetryDelay
	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(expo, uint64(c.config.HHMaxRetries)), ctx))
}

func degradeParams(params url.Values) {
	if params == nil {
		return
	}
	if text := params.Get("text"); len([]rune(text)) > 50 {
		if fields := strings.Fields(text); len(fields) > 0 {
			params.Set("text", fields[0])
		}
	}
	params.Del("period")
	params.Del("date_from")
}
