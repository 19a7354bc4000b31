package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/markbakos/advanced-ufc-analyzer/internal/constants"
	appLogger "github.com/markbakos/advanced-ufc-analyzer/internal/logger"
	"github.com/rs/zerolog"
)

type Config struct {
	BaseURL      string
	DBPath       string
	UserAgent    string
	LogLevel     string
	Concurrency  int
	BatchDelay   time.Duration
	FetchTimeout time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		BaseURL:      getEnv("STATS_BASE_URL", "http://ufcstats.com"),
		DBPath:       getEnv("DB_PATH", "ufc.db"),
		UserAgent:    getEnv("USER_AGENT", constants.DefaultUserAgent),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Concurrency:  getEnvInt("CRAWL_CONCURRENCY", constants.ConcurrencyCeiling),
		BatchDelay:   getEnvDuration("CRAWL_BATCH_DELAY", constants.BatchPacingDelay),
		FetchTimeout: getEnvDuration("FETCH_TIMEOUT", constants.FetchTimeout),
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("STATS_BASE_URL is required")
	}
	if cfg.Concurrency < 1 {
		return nil, fmt.Errorf("CRAWL_CONCURRENCY must be at least 1, got %d", cfg.Concurrency)
	}

	if err := appLogger.SetLevel(cfg.LogLevel); err != nil {
		logger.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, keeping default")
	}

	logger.Info().
		Str("base_url", cfg.BaseURL).
		Str("db_path", cfg.DBPath).
		Str("log_level", cfg.LogLevel).
		Int("concurrency", cfg.Concurrency).
		Dur("batch_delay", cfg.BatchDelay).
		Dur("fetch_timeout", cfg.FetchTimeout).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
