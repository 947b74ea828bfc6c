package migrations

import "vacancyradar/internal/database/schema"

// The row key is a deterministic UUID derived from the source vacancy id.
var CreateVacanciesTable = schema.Migration{
	Version:     1,
	Description: "Create vacancies table",
	Up: `
		CREATE TABLE IF NOT EXISTS vacancies (
			row_id UUID,
			id String,
			title String,
			company String,
			location String,
			description String,
			experience_level String,
			salary_from Nullable(Float64),
			salary_to Nullable(Float64),
			salary_currency String,
			apply_url String,
			posted_at String,
			processed_at DateTime,
			PRIMARY KEY (row_id)
		) ENGINE = ReplacingMergeTree(processed_at)
		PARTITION BY toYYYYMM(processed_at)
		ORDER BY (row_id, processed_at)
		SETTINGS index_granularity = 8192
	`,
	Down: `DROP TABLE IF EXISTS vacancies`,
}
