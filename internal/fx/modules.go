package fx

import (
	"database/sql"

	"github.com/markbakos/advanced-ufc-analyzer/internal/config"
	"github.com/markbakos/advanced-ufc-analyzer/internal/database"
	"github.com/markbakos/advanced-ufc-analyzer/internal/logger"
	"github.com/markbakos/advanced-ufc-analyzer/internal/repository"
	"github.com/markbakos/advanced-ufc-analyzer/internal/scrape"
	"github.com/markbakos/advanced-ufc-analyzer/internal/scrape/ufcstats"
	"github.com/markbakos/advanced-ufc-analyzer/internal/service"
	"github.com/rs/zerolog"

	"go.uber.org/fx"
)

// ProvideCrawler binds the ufcstats adapter to every extraction-boundary
// interface the crawler depends on.
func ProvideCrawler(
	client *scrape.StatsClient,
	adapter *ufcstats.Adapter,
	ledger *repository.LedgerRepository,
	cfg *config.Config,
	log zerolog.Logger,
) *scrape.Crawler {
	return scrape.NewCrawler(client, adapter, adapter, adapter, adapter, ledger, cfg, log)
}

func ProvideDB(cfg *config.Config, log zerolog.Logger) (*sql.DB, error) {
	return database.New(cfg, log)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(ProvideDB),
	// repos
	fx.Provide(repository.NewLedgerRepository),
	fx.Provide(repository.NewFeatureRepository),
	// scraping
	fx.Provide(scrape.NewStatsClient),
	fx.Provide(ufcstats.New),
	fx.Provide(ProvideCrawler),
	// svc
	fx.Provide(service.NewCrawlService),
	fx.Provide(service.NewAggregationService),
)
