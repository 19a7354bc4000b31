package main

import (
	"context"
	"database/sql"

	"github.com/markbakos/advanced-ufc-analyzer/internal/constants"
	fxmodules "github.com/markbakos/advanced-ufc-analyzer/internal/fx"
	"github.com/markbakos/advanced-ufc-analyzer/internal/scrape"
	"github.com/markbakos/advanced-ufc-analyzer/internal/service"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runHarvest),
	).Run()
}

func runHarvest(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	crawlSvc *service.CrawlService,
	aggSvc *service.AggregationService,
	client *scrape.StatsClient,
	db *sql.DB,
	logger zerolog.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				runCtx, cancel := context.WithTimeout(context.Background(), constants.RunTimeout)
				defer cancel()

				if err := crawlSvc.Run(runCtx); err != nil {
					logger.Error().Err(err).Msg("crawl run failed")
					_ = shutdowner.Shutdown(fx.ExitCode(1))
					return
				}
				if err := aggSvc.Run(runCtx); err != nil {
					logger.Error().Err(err).Msg("aggregation run failed")
					_ = shutdowner.Shutdown(fx.ExitCode(1))
					return
				}

				logger.Info().Int64("pages_fetched", client.PagesFetched()).Msg("harvest completed")
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing ledger database")
			}
			logger.Info().Msg("harvester stopped")
			return nil
		},
	})
}
