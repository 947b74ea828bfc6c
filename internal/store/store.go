package store

import (
	"context"
	"fmt"
	"strings"

	"vacancyradar/internal/models"
	"vacancyradar/internal/telemetry"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var rowNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// Store is the tabular sink for accepted postings. It owns the only writes
// to the vacancies table and the validation that guards them.
type Store struct {
	conn   clickhouse.Conn
	logger *zap.Logger
}

func New(conn clickhouse.Conn, logger *zap.Logger) *Store {
	return &Store{
		conn:   conn,
		logger: logger,
	}
}

var tracer = telemetry.GetTracer("vacancyradar/store")

// KnownIDs returns the set of source vacancy ids already stored.
func (s *Store) KnownIDs(ctx context.Context) (map[string]struct{}, error) {
	ctx, span := tracer.Start(ctx, "Store.KnownIDs")
	defer span.End()

	rows, err := s.conn.Query(ctx, "SELECT id FROM vacancies")
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query known ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("scan known id: %w", err)
		}
		ids[id] = struct{}{}
	}

	span.SetAttributes(telemetry.Int("known.ids", len(ids)))
	return ids, nil
}

// Known returns the known-id set together with a partial record per stored
// posting for content-similarity matching. Title, company and location come
// back lowercased and trimmed.
func (s *Store) Known(ctx context.Context) (map[string]struct{}, map[string]models.PartialRecord, error) {
	ctx, span := tracer.Start(ctx, "Store.Known")
	defer span.End()

	rows, err := s.conn.Query(ctx, `
		SELECT id, title, company, location, description,
		       salary_from, salary_to, salary_currency
		FROM vacancies
	`)
	if err != nil {
		span.RecordError(err)
		return nil, nil, fmt.Errorf("query known records: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	records := make(map[string]models.PartialRecord)
	for rows.Next() {
		var (
			id, title, company, location, description, currency string
			salaryFrom, salaryTo                                *float64
		)
		if err := rows.Scan(&id, &title, &company, &location, &description, &salaryFrom, &salaryTo, &currency); err != nil {
			span.RecordError(err)
			return nil, nil, fmt.Errorf("scan known record: %w", err)
		}
		ids[id] = struct{}{}
		records[id] = models.PartialRecord{
			Title:          strings.ToLower(strings.TrimSpace(title)),
			Company:        strings.ToLower(strings.TrimSpace(company)),
			Location:       strings.ToLower(strings.TrimSpace(location)),
			Description:    description,
			SalaryFrom:     salaryFrom,
			SalaryTo:       salaryTo,
			SalaryCurrency: currency,
		}
	}

	span.SetAttributes(telemetry.Int("known.records", len(records)))
	return ids, records, nil
}

// Append inserts the given postings, dropping any that fail required-field
// validation or whose id is already stored, and returns how many rows were
// written.
func (s *Store) Append(ctx context.Context, postings []models.Posting) (int, error) {
	ctx, span := tracer.Start(ctx, "Store.Append")
	defer span.End()
	span.SetAttributes(telemetry.Int("append.offered", len(postings)))

	if len(postings) == 0 {
		return 0, nil
	}

	knownIDs, err := s.KnownIDs(ctx)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	stored := 0
	for i := range postings {
		posting := &postings[i]
		if !posting.Valid() {
			s.logger.Warn("dropping posting with missing required fields",
				zap.String("id", posting.ID),
				zap.String("title", posting.Title))
			continue
		}
		if _, dup := knownIDs[posting.ID]; dup {
			continue
		}

		if err := s.insert(ctx, posting); err != nil {
			span.RecordError(err)
			return stored, err
		}
		knownIDs[posting.ID] = struct{}{}
		stored++
	}

	span.SetAttributes(telemetry.Int("append.stored", stored))
	s.logger.Info("appended postings",
		zap.Int("offered", len(postings)),
		zap.Int("stored", stored))
	return stored, nil
}

func (s *Store) insert(ctx context.Context, posting *models.Posting) error {
	query := `
		INSERT INTO vacancies (
			row_id, id, title, company, location, description,
			experience_level, salary_from, salary_to, salary_currency,
			apply_url, posted_at, processed_at
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		)
	`

	rowID := uuid.NewSHA1(rowNamespace, []byte(posting.ID))
	if err := s.conn.Exec(ctx, query,
		rowID.String(),
		posting.ID,
		posting.Title,
		posting.Company,
		posting.Location,
		posting.Description,
		string(posting.ExperienceLevel),
		posting.SalaryFrom,
		posting.SalaryTo,
		posting.SalaryCurrency,
		posting.ApplyURL,
		posting.PostedAt,
		posting.ProcessedAt,
	); err != nil {
		return fmt.Errorf("insert posting %s: %w", posting.ID, err)
	}

	return nil
}
