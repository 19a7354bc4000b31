package constants

import "time"

const (
	// Crawl scheduling. ConcurrencyCeiling bounds harvest units in flight;
	// each unit fans out into three page fetches.
	ConcurrencyCeiling = 5
	BatchPacingDelay   = 1 * time.Second
)

const (
	FetchTimeout    = 10 * time.Second
	UnitTimeout     = 30 * time.Second
	DatabaseTimeout = 5 * time.Second
	RunTimeout      = 12 * time.Hour
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	// Fights are scored over at most five rounds.
	MaxRounds = 5
)

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)
