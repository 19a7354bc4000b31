package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/markbakos/advanced-ufc-analyzer/internal/config"
	"github.com/markbakos/advanced-ufc-analyzer/internal/constants"
	"github.com/markbakos/advanced-ufc-analyzer/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Ledger is the crawler's append sink. Implemented by
// repository.LedgerRepository; tests substitute a recording fake.
type Ledger interface {
	AppendFight(ctx context.Context, fight *domain.Fight) error
	UpsertFighter(ctx context.Context, fighter *domain.FighterProfile) error
}

// Crawler discovers detail pages from listing pages and harvests them in
// batches bounded by the configured concurrency ceiling. A fight harvest
// unit is composite: the fight page first, then both fighters' profile
// pages concurrently; the unit persists exactly one fight row once all
// three resolve, degraded to partial fields on any failure.
type Crawler struct {
	fetcher  Fetcher
	source   Source
	listing  ListingExtractor
	fights   FightExtractor
	fighters FighterExtractor
	ledger   Ledger
	cfg      *config.Config
	logger   zerolog.Logger
	inFlight atomic.Int64
}

func NewCrawler(
	fetcher Fetcher,
	source Source,
	listing ListingExtractor,
	fights FightExtractor,
	fighters FighterExtractor,
	ledger Ledger,
	cfg *config.Config,
	logger zerolog.Logger,
) *Crawler {
	return &Crawler{
		fetcher:  fetcher,
		source:   source,
		listing:  listing,
		fights:   fights,
		fighters: fighters,
		ledger:   ledger,
		cfg:      cfg,
		logger:   logger,
	}
}

// InFlight reports how many harvest units are currently executing.
func (c *Crawler) InFlight() int64 {
	return c.inFlight.Load()
}

// DiscoverFights walks the fight listing pages and returns the deduplicated
// set of newly discovered fight detail URLs.
func (c *Crawler) DiscoverFights(ctx context.Context) ([]string, error) {
	return c.discover(ctx, c.source.FightListingURLs())
}

// DiscoverFighters walks the fighter listing pages (one per letter) and
// returns the deduplicated set of fighter profile URLs.
func (c *Crawler) DiscoverFighters(ctx context.Context) ([]string, error) {
	return c.discover(ctx, c.source.FighterListingURLs())
}

func (c *Crawler) discover(ctx context.Context, listingURLs []string) ([]string, error) {
	frontier := NewFrontier()

	for _, url := range listingURLs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c.logger.Info().Str("url", url).Msg("fetching listing page")

		doc, err := c.fetchDocument(ctx, url)
		if err != nil {
			c.logger.Warn().Err(err).Str("url", url).Msg("listing page failed, skipping")
			continue
		}

		links := c.listing.ExtractLinks(doc)
		accepted := 0
		for _, link := range links {
			if frontier.Add(link) {
				accepted++
			}
		}

		c.logger.Info().
			Str("url", url).
			Int("links", len(links)).
			Int("new", accepted).
			Msg("listing page processed")
	}

	urls := frontier.Drain()
	c.logger.Info().Int("discovered", len(urls)).Msg("discovery complete")
	return urls, nil
}

// HarvestFights schedules one composite harvest unit per fight URL. Fetch
// and extraction failures degrade a unit to a partial row; the only error
// that aborts the run is an unwritable ledger.
func (c *Crawler) HarvestFights(ctx context.Context, urls []string) error {
	return c.runBatches(ctx, urls, c.harvestFightUnit)
}

// HarvestFighters schedules one single-fetch unit per fighter profile URL.
func (c *Crawler) HarvestFighters(ctx context.Context, urls []string) error {
	return c.runBatches(ctx, urls, c.harvestFighterUnit)
}

// runBatches admits units in fixed-size batches of at most Concurrency,
// waiting for each batch to drain before admitting the next, with an
// optional pacing delay between batches.
func (c *Crawler) runBatches(ctx context.Context, urls []string, unit func(context.Context, string) error) error {
	total := len(urls)
	for start := 0; start < total; start += c.cfg.Concurrency {
		end := start + c.cfg.Concurrency
		if end > total {
			end = total
		}

		g, gCtx := errgroup.WithContext(ctx)
		for _, url := range urls[start:end] {
			url := url
			g.Go(func() error {
				c.inFlight.Add(1)
				defer c.inFlight.Add(-1)
				return unit(gCtx, url)
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("harvest batch aborted: %w", err)
		}

		c.logger.Info().
			Int("completed", end).
			Int("total", total).
			Msg("harvest batch finished")

		if end < total && c.cfg.BatchDelay > 0 {
			select {
			case <-time.After(c.cfg.BatchDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

// harvestFightUnit runs one unit through Discovered → Fetching →
// {Extracted | Failed} → Persisted. Both terminal extraction states persist
// a row; Failed persists a degraded one.
func (c *Crawler) harvestFightUnit(ctx context.Context, url string) error {
	unitCtx, cancel := context.WithTimeout(ctx, constants.UnitTimeout)
	defer cancel()

	fightID := EntityID(url)
	log := c.logger.With().Str("fight_id", fightID).Logger()
	log.Debug().Str("state", "fetching").Int64("in_flight", c.InFlight()).Msg("harvest unit started")

	fight, red, blue := c.fetchFightUnit(unitCtx, url, fightID, log)

	persistCtx, persistCancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer persistCancel()

	if red != nil {
		if err := c.ledger.UpsertFighter(persistCtx, red); err != nil {
			return fmt.Errorf("persist fighter %s: %w", red.FighterID, err)
		}
	}
	if blue != nil {
		if err := c.ledger.UpsertFighter(persistCtx, blue); err != nil {
			return fmt.Errorf("persist fighter %s: %w", blue.FighterID, err)
		}
	}

	if err := c.ledger.AppendFight(persistCtx, fight); err != nil {
		log.Error().Err(err).Msg("ledger append failed")
		return fmt.Errorf("persist fight %s: %w", fightID, err)
	}

	log.Debug().Str("state", "persisted").Bool("degraded", fight.Degraded).Msg("harvest unit finished")
	return nil
}

// fetchFightUnit performs the three concurrent fetches of a composite unit
// and never fails: any error degrades the returned record instead.
func (c *Crawler) fetchFightUnit(ctx context.Context, url, fightID string, log zerolog.Logger) (*domain.Fight, *domain.FighterProfile, *domain.FighterProfile) {
	now := time.Now().UTC()

	var red, blue *domain.FighterProfile

	doc, err := c.fetchDocument(ctx, url)
	if err != nil {
		log.Warn().Err(err).Str("state", "failed").Msg("fight page fetch failed, degrading unit")
		return &domain.Fight{FightID: fightID, Outcome: domain.OutcomeUnknown, Degraded: true, CreatedAt: now}, nil, nil
	}
	fight, err := c.fights.ExtractFight(doc)
	if err != nil {
		tagExtractionURL(err, url)
		log.Warn().Err(err).Str("state", "failed").Msg("fight extraction failed, degrading unit")
		return &domain.Fight{FightID: fightID, Outcome: domain.OutcomeUnknown, Degraded: true, CreatedAt: now}, nil, nil
	}

	fight.FightID = fightID
	fight.CreatedAt = now
	log.Debug().Str("state", "extracted").Msg("fight page extracted")

	// Dependent fetches: both corner profiles, concurrently. The unit joins
	// both before it may persist.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		red = c.fetchFighterProfile(gCtx, fight.RedFighterID, log)
		return nil
	})
	g.Go(func() error {
		blue = c.fetchFighterProfile(gCtx, fight.BlueFighterID, log)
		return nil
	})
	_ = g.Wait()

	if (red != nil && red.Partial) || (blue != nil && blue.Partial) {
		fight.Degraded = true
	}
	return fight, red, blue
}

// fetchFighterProfile resolves one dependent profile fetch. A failure yields
// a partial shell profile rather than an error.
func (c *Crawler) fetchFighterProfile(ctx context.Context, fighterID string, log zerolog.Logger) *domain.FighterProfile {
	if fighterID == "" {
		return nil
	}

	now := time.Now().UTC()
	url := c.source.FighterURL(fighterID)

	doc, err := c.fetchDocument(ctx, url)
	if err != nil {
		log.Warn().Err(err).Str("fighter_id", fighterID).Msg("fighter profile fetch failed")
		return &domain.FighterProfile{FighterID: fighterID, Partial: true, FetchedAt: now}
	}

	profile, err := c.fighters.ExtractFighter(doc)
	if err != nil {
		tagExtractionURL(err, url)
		log.Warn().Err(err).Str("fighter_id", fighterID).Msg("fighter profile extraction failed")
		return &domain.FighterProfile{FighterID: fighterID, Partial: true, FetchedAt: now}
	}

	profile.FighterID = fighterID
	profile.FetchedAt = now
	return profile
}

// harvestFighterUnit is the single-fetch unit for the standalone fighter
// sweep. It reuses the dependent-fetch path of composite units.
func (c *Crawler) harvestFighterUnit(ctx context.Context, url string) error {
	unitCtx, cancel := context.WithTimeout(ctx, constants.UnitTimeout)
	defer cancel()

	fighterID := EntityID(url)
	profile := c.fetchFighterProfile(unitCtx, fighterID, c.logger)
	if profile == nil {
		return nil
	}

	persistCtx, persistCancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer persistCancel()

	if err := c.ledger.UpsertFighter(persistCtx, profile); err != nil {
		c.logger.Error().Err(err).Str("fighter_id", fighterID).Msg("ledger upsert failed")
		return fmt.Errorf("persist fighter %s: %w", fighterID, err)
	}
	return nil
}

// tagExtractionURL fills in the page URL on extraction errors raised below
// the crawler, where the URL is not in scope.
func tagExtractionURL(err error, url string) {
	var extErr *ExtractionError
	if errors.As(err, &extErr) && extErr.URL == "" {
		extErr.URL = url
	}
}

func (c *Crawler) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	defer cancel()

	html, err := c.fetcher.FetchPage(fetchCtx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ExtractionError{URL: url, Reason: fmt.Sprintf("parse html: %v", err)}
	}
	return doc, nil
}
