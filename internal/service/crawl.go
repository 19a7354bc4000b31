package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/markbakos/advanced-ufc-analyzer/internal/repository"
	"github.com/markbakos/advanced-ufc-analyzer/internal/scrape"
	"github.com/rs/zerolog"
)

// CrawlService drives one harvesting run: discover fight pages, harvest
// them as composite units, then sweep the fighter listing for profiles the
// dependent fetches missed.
type CrawlService struct {
	crawler *scrape.Crawler
	ledger  *repository.LedgerRepository
	logger  zerolog.Logger
}

func NewCrawlService(crawler *scrape.Crawler, ledger *repository.LedgerRepository, logger zerolog.Logger) *CrawlService {
	return &CrawlService{crawler: crawler, ledger: ledger, logger: logger}
}

func (s *CrawlService) Run(ctx context.Context) error {
	runID := uuid.New().String()
	log := s.logger.With().Str("run_id", runID).Logger()

	log.Info().Msg("crawl run starting")

	fightURLs, err := s.crawler.DiscoverFights(ctx)
	if err != nil {
		log.Error().Err(err).Msg("fight discovery failed")
		return fmt.Errorf("fight discovery failed: %w", err)
	}
	log.Info().Int("fights", len(fightURLs)).Msg("fight pages discovered")

	if err := s.crawler.HarvestFights(ctx, fightURLs); err != nil {
		log.Error().Err(err).Msg("fight harvest failed")
		return fmt.Errorf("fight harvest failed: %w", err)
	}

	count, err := s.ledger.FightCount(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to count ledger rows")
	} else {
		log.Info().Int64("ledger_rows", count).Msg("fight harvest complete")
	}

	fighterURLs, err := s.crawler.DiscoverFighters(ctx)
	if err != nil {
		log.Error().Err(err).Msg("fighter discovery failed")
		return fmt.Errorf("fighter discovery failed: %w", err)
	}
	log.Info().Int("fighters", len(fighterURLs)).Msg("fighter pages discovered")

	if err := s.crawler.HarvestFighters(ctx, fighterURLs); err != nil {
		log.Error().Err(err).Msg("fighter harvest failed")
		return fmt.Errorf("fighter harvest failed: %w", err)
	}

	log.Info().Msg("crawl run finished")
	return nil
}
