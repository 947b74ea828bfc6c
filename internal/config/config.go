package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HHBaseURL    string
	HHUserAgent  string
	HHTimeout    time.Duration
	HHMaxRetries int
	HHRetryDelay time.Duration

	SearchKeywords []string
	SearchAreas    []string
	SearchLimit    int
	RemoteArea     string
	RemoteKeywords []string
	HorizonDays    int

	// Keyword sets the classifier scores against, per level.
	JuniorKeywords []string
	MiddleKeywords []string
	SeniorKeywords []string

	// Companies whose reposts are collapsed on description similarity
	// alone, without requiring a salary match.
	DedupCompanyExceptions []string

	NATSURL         string
	NATSConnTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	ClickHouseDSN          string
	ClickHouseMaxOpenConns int
	ClickHouseMaxIdleConns int
	ClickHouseConnMaxLife  time.Duration
	ClickHouseUsername     string
	ClickHousePassword     string
	ClickHouseDatabase     string

	TelegramBotToken string
	PollingInterval  time.Duration

	OTLPEndpoint string
}

// AreaIDs maps the searchable location names to HH.ru area identifiers.
// The remote-work pseudo-area has no identifier: it is searched by keyword.
var AreaIDs = map[string]string{
	"Москва":          "1",
	"Санкт-Петербург": "2",
}

var defaultSearchKeywords = []string{
	"Python разработчик",
	"Python developer",
	"Python программист",
	"Backend Python",
	"Python backend",
	"Django developer",
	"Flask developer",
	"Python инженер",
	"ML engineer Python",
	"Data engineer Python",
}

var defaultJuniorKeywords = []string{
	"junior", "младший", "начинающий", "стажер", "без опыта", "intern",
	"entry level", "entry-level", "0-1 year", "0-1 года", "student", "студент",
}

var defaultMiddleKeywords = []string{
	"middle", "миддл", "опыт от 2", "опыт от 3", "2+ years", "3+ years",
	"2-3 года", "3-5 лет", "опытный", "experienced",
}

var defaultSeniorKeywords = []string{
	"senior", "старший", "ведущий", "lead", "опыт от 5", "опыт от 6",
	"5+ years", "6+ years", "5-7 лет", "архитектор", "team lead",
	"тимлид", "tech lead", "principal", "эксперт",
}

func LoadConfig() (*Config, error) {
	config := &Config{
		HHBaseURL:    getEnvString("HH_API_BASE_URL", "https://api.hh.ru"),
		HHUserAgent:  getEnvString("HH_USER_AGENT", "Job Search Automation App"),
		HHTimeout:    getEnvDuration("HH_API_TIMEOUT", 10*time.Second),
		HHMaxRetries: getEnvInt("HH_MAX_RETRIES", 3),
		HHRetryDelay: getEnvDuration("HH_RETRY_DELAY", 2*time.Second),

		SearchKeywords: getEnvStrings("SEARCH_KEYWORDS", defaultSearchKeywords),
		SearchAreas:    getEnvStrings("SEARCH_AREAS", []string{"Москва", "Санкт-Петербург", "Удаленная работа"}),
		SearchLimit:    getEnvInt("SEARCH_LIMIT", 25),
		RemoteArea:     getEnvString("REMOTE_AREA", "Удаленная работа"),
		RemoteKeywords: getEnvStrings("REMOTE_KEYWORDS", []string{"удаленная работа", "удаленно", "remote", "удаленка"}),
		HorizonDays:    getEnvInt("HORIZON_DAYS", 3),

		JuniorKeywords: getEnvStrings("JUNIOR_KEYWORDS", defaultJuniorKeywords),
		MiddleKeywords: getEnvStrings("MIDDLE_KEYWORDS", defaultMiddleKeywords),
		SeniorKeywords: getEnvStrings("SENIOR_KEYWORDS", defaultSeniorKeywords),

		DedupCompanyExceptions: getEnvStrings("DEDUP_COMPANY_EXCEPTIONS", []string{"skypro"}),

		NATSURL:         getEnvString("NATS_URL", "nats://localhost:4222"),
		NATSConnTimeout: getEnvDuration("NATS_CONN_TIMEOUT", 10*time.Second),

		RedisAddr:     getEnvString("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnvString("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", 24*time.Hour),

		ClickHouseDSN:          getEnvString("CLICKHOUSE_DSN", "localhost:9000"),
		ClickHouseMaxOpenConns: getEnvInt("CLICKHOUSE_MAX_OPEN_CONNS", 10),
		ClickHouseMaxIdleConns: getEnvInt("CLICKHOUSE_MAX_IDLE_CONNS", 5),
		ClickHouseConnMaxLife:  getEnvDuration("CLICKHOUSE_CONN_MAX_LIFE", time.Hour),
		ClickHouseUsername:     getEnvString("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword:     getEnvString("CLICKHOUSE_PASSWORD", ""),
		ClickHouseDatabase:     getEnvString("CLICKHOUSE_DATABASE", "vacancyradar"),

		TelegramBotToken: getEnvString("TELEGRAM_BOT_TOKEN", ""),
		PollingInterval:  getEnvDuration("POLLING_INTERVAL", 6*time.Hour),

		OTLPEndpoint: getEnvString("OTLP_ENDPOINT", ""),
	}

	return config, nil
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStrings(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
