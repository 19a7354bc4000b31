package service

import (
	"context"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/markbakos/advanced-ufc-analyzer/internal/domain"
	"github.com/markbakos/advanced-ufc-analyzer/internal/repository"
	"github.com/markbakos/advanced-ufc-analyzer/internal/stats"
	"github.com/rs/zerolog"
)

// AggregationService rebuilds the feature table from the full ledger: one
// index pass, then for every fight both corners are reduced to snapshots
// with the fight's own date as the exclusive cutoff. It runs single-threaded
// over an already-written ledger; only a failed write is fatal.
type AggregationService struct {
	ledger   *repository.LedgerRepository
	features *repository.FeatureRepository
	logger   zerolog.Logger
}

func NewAggregationService(ledger *repository.LedgerRepository, features *repository.FeatureRepository, logger zerolog.Logger) *AggregationService {
	return &AggregationService{ledger: ledger, features: features, logger: logger}
}

func (s *AggregationService) Run(ctx context.Context) error {
	fights, err := s.ledger.AllFights(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load ledger")
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	if len(fights) == 0 {
		s.logger.Warn().Msg("ledger is empty, nothing to aggregate")
		return nil
	}

	s.logger.Info().Int("fights", len(fights)).Msg("building history index")
	index := stats.BuildIndex(fights)
	aggregator := stats.NewAggregator(index, s.logger)

	if err := s.features.Reset(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to reset feature table")
		return err
	}

	now := time.Now().UTC()
	written := 0
	skipped := 0
	for i := range fights {
		fight := &fights[i]
		if fight.EventDate.IsZero() {
			skipped++
			s.logger.Debug().Str("fight_id", fight.FightID).Msg("fight has no event date, skipping feature row")
			continue
		}

		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("generate feature row id: %w", err)
		}

		row := &domain.FightFeatureRow{
			ID:        id,
			FightID:   fight.FightID,
			EventDate: fight.EventDate,
			Outcome:   fight.Outcome,
			Red:       aggregator.Snapshot(fight.RedFighterID, fight.EventDate),
			Blue:      aggregator.Snapshot(fight.BlueFighterID, fight.EventDate),
			CreatedAt: now,
		}

		if err := s.features.Insert(ctx, row); err != nil {
			s.logger.Error().Err(err).Str("fight_id", fight.FightID).Msg("feature sink unwritable")
			return err
		}
		written++
	}

	s.logger.Info().
		Int("rows", written).
		Int("skipped", skipped).
		Msg("feature table rebuilt")
	return nil
}
