package config

import (
	"testing"
	"time"

	"github.com/markbakos/advanced-ufc-analyzer/internal/constants"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	require.Equal(t, "http://ufcstats.com", cfg.BaseURL)
	require.Equal(t, "ufc.db", cfg.DBPath)
	require.Equal(t, constants.ConcurrencyCeiling, cfg.Concurrency)
	require.Equal(t, constants.BatchPacingDelay, cfg.BatchDelay)
	require.Equal(t, constants.FetchTimeout, cfg.FetchTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STATS_BASE_URL", "http://stats.test")
	t.Setenv("CRAWL_CONCURRENCY", "3")
	t.Setenv("CRAWL_BATCH_DELAY", "250ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	require.Equal(t, "http://stats.test", cfg.BaseURL)
	require.Equal(t, 3, cfg.Concurrency)
	require.Equal(t, 250*time.Millisecond, cfg.BatchDelay)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsInvalidConcurrency(t *testing.T) {
	t.Setenv("CRAWL_CONCURRENCY", "0")

	_, err := Load(zerolog.Nop())
	require.Error(t, err)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("CRAWL_CONCURRENCY", "not-a-number")
	t.Setenv("CRAWL_BATCH_DELAY", "soon")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, constants.ConcurrencyCeiling, cfg.Concurrency)
	require.Equal(t, constants.BatchPacingDelay, cfg.BatchDelay)
}
