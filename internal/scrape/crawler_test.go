package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/markbakos/advanced-ufc-analyzer/internal/config"
	"github.com/markbakos/advanced-ufc-analyzer/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// stubFetcher serves canned HTML and tracks peak concurrency.
type stubFetcher struct {
	mu          sync.Mutex
	inFlight    int
	maxInFlight int
	delay       time.Duration
	failURLs    map[string]bool
}

func (f *stubFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	fail := f.failURLs[url]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", &FetchError{URL: url, Err: ctx.Err()}
		}
	}
	if fail {
		return "", &FetchError{URL: url, Err: errors.New("connection timed out")}
	}
	return "<html><body>fight page</body></html>", nil
}

type stubSource struct{ base string }

func (s stubSource) FightListingURLs() []string   { return []string{s.base + "/events"} }
func (s stubSource) FighterListingURLs() []string { return []string{s.base + "/fighters"} }
func (s stubSource) FightURL(id string) string    { return s.base + "/fight-details/" + id }
func (s stubSource) FighterURL(id string) string  { return s.base + "/fighter-details/" + id }

// stubExtractors ignores page content and fabricates records keyed off of
// nothing; fightErr forces extraction failures.
type stubExtractors struct {
	links    []string
	fightErr error
	redID    string
	blueID   string
}

func (s stubExtractors) ExtractLinks(doc *goquery.Document) []string { return s.links }

func (s stubExtractors) ExtractFight(doc *goquery.Document) (*domain.Fight, error) {
	if s.fightErr != nil {
		return nil, s.fightErr
	}
	return &domain.Fight{
		RedFighterID:  s.redID,
		BlueFighterID: s.blueID,
		EventDate:     time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		Outcome:       domain.OutcomeRed,
	}, nil
}

func (s stubExtractors) ExtractFighter(doc *goquery.Document) (*domain.FighterProfile, error) {
	return &domain.FighterProfile{Name: "Stub Fighter"}, nil
}

// recordingLedger is a thread-safe append sink.
type recordingLedger struct {
	mu       sync.Mutex
	fights   []*domain.Fight
	fighters []*domain.FighterProfile
	failAll  bool
}

func (l *recordingLedger) AppendFight(ctx context.Context, fight *domain.Fight) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failAll {
		return errors.New("disk full")
	}
	l.fights = append(l.fights, fight)
	return nil
}

func (l *recordingLedger) UpsertFighter(ctx context.Context, fighter *domain.FighterProfile) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failAll {
		return errors.New("disk full")
	}
	l.fighters = append(l.fighters, fighter)
	return nil
}

func testConfig(concurrency int) *config.Config {
	return &config.Config{
		BaseURL:      "http://stats.test",
		Concurrency:  concurrency,
		BatchDelay:   0,
		FetchTimeout: time.Second,
	}
}

func newTestCrawler(fetcher Fetcher, ext stubExtractors, ledger Ledger, concurrency int) *Crawler {
	return NewCrawler(fetcher, stubSource{base: "http://stats.test"}, ext, ext, ext, ledger, testConfig(concurrency), zerolog.Nop())
}

func fightURLs(n int) []string {
	urls := make([]string, n)
	for i := range urls {
		urls[i] = fmt.Sprintf("http://stats.test/fight-details/fight%02d", i)
	}
	return urls
}

func TestHarvestBoundedConcurrency(t *testing.T) {
	fetcher := &stubFetcher{delay: 20 * time.Millisecond}
	ledger := &recordingLedger{}
	// No fighter ids, so each unit makes exactly one fetch and fetch
	// concurrency equals unit concurrency.
	crawler := newTestCrawler(fetcher, stubExtractors{}, ledger, 5)

	err := crawler.HarvestFights(context.Background(), fightURLs(12))
	require.NoError(t, err)

	require.LessOrEqual(t, fetcher.maxInFlight, 5)
	require.Zero(t, crawler.InFlight())
	require.Len(t, ledger.fights, 12)

	seen := make(map[string]bool)
	for _, f := range ledger.fights {
		require.False(t, seen[f.FightID], "fight %s persisted twice", f.FightID)
		seen[f.FightID] = true
	}
}

func TestHarvestFailureIsolation(t *testing.T) {
	urls := fightURLs(10)
	fetcher := &stubFetcher{
		delay:    5 * time.Millisecond,
		failURLs: map[string]bool{urls[2]: true},
	}
	ledger := &recordingLedger{}
	crawler := newTestCrawler(fetcher, stubExtractors{}, ledger, 5)

	err := crawler.HarvestFights(context.Background(), urls)
	require.NoError(t, err)

	// One timed-out sibling degrades, the batch and the following batch
	// both complete.
	require.Len(t, ledger.fights, 10)

	degraded := 0
	for _, f := range ledger.fights {
		if f.Degraded {
			degraded++
			require.Equal(t, domain.OutcomeUnknown, f.Outcome)
			require.Equal(t, "fight02", f.FightID)
		}
	}
	require.Equal(t, 1, degraded)
}

func TestHarvestExtractionFailureDegrades(t *testing.T) {
	fetcher := &stubFetcher{}
	ledger := &recordingLedger{}
	ext := stubExtractors{fightErr: &ExtractionError{Reason: "fighter blocks not found"}}
	crawler := newTestCrawler(fetcher, ext, ledger, 2)

	err := crawler.HarvestFights(context.Background(), fightURLs(3))
	require.NoError(t, err)

	require.Len(t, ledger.fights, 3)
	for _, f := range ledger.fights {
		require.True(t, f.Degraded)
	}
}

func TestHarvestUnitFetchesBothProfiles(t *testing.T) {
	fetcher := &stubFetcher{}
	ledger := &recordingLedger{}
	ext := stubExtractors{redID: "red1", blueID: "blue1"}
	crawler := newTestCrawler(fetcher, ext, ledger, 1)

	err := crawler.HarvestFights(context.Background(), fightURLs(1))
	require.NoError(t, err)

	require.Len(t, ledger.fights, 1)
	require.False(t, ledger.fights[0].Degraded)
	require.Len(t, ledger.fighters, 2)

	ids := map[string]bool{}
	for _, p := range ledger.fighters {
		ids[p.FighterID] = true
		require.False(t, p.Partial)
	}
	require.True(t, ids["red1"])
	require.True(t, ids["blue1"])
}

func TestHarvestProfileFailureDegradesUnit(t *testing.T) {
	fetcher := &stubFetcher{failURLs: map[string]bool{
		"http://stats.test/fighter-details/red1": true,
	}}
	ledger := &recordingLedger{}
	ext := stubExtractors{redID: "red1", blueID: "blue1"}
	crawler := newTestCrawler(fetcher, ext, ledger, 1)

	err := crawler.HarvestFights(context.Background(), fightURLs(1))
	require.NoError(t, err)

	require.Len(t, ledger.fights, 1)
	require.True(t, ledger.fights[0].Degraded)
	require.Len(t, ledger.fighters, 2)

	for _, p := range ledger.fighters {
		if p.FighterID == "red1" {
			require.True(t, p.Partial)
		} else {
			require.False(t, p.Partial)
		}
	}
}

func TestHarvestUnwritableLedgerAborts(t *testing.T) {
	fetcher := &stubFetcher{}
	ledger := &recordingLedger{failAll: true}
	crawler := newTestCrawler(fetcher, stubExtractors{}, ledger, 2)

	err := crawler.HarvestFights(context.Background(), fightURLs(4))
	require.Error(t, err)
}

func TestDiscoverDeduplicatesLinks(t *testing.T) {
	fetcher := &stubFetcher{}
	ledger := &recordingLedger{}
	ext := stubExtractors{links: []string{
		"http://stats.test/fight-details/a",
		"http://stats.test/fight-details/b",
		"http://stats.test/fight-details/a",
	}}
	crawler := newTestCrawler(fetcher, ext, ledger, 2)

	urls, err := crawler.DiscoverFights(context.Background())
	require.NoError(t, err)
	require.Len(t, urls, 2)
}

func TestEntityID(t *testing.T) {
	require.Equal(t, "abc123", EntityID("http://stats.test/fight-details/abc123"))
	require.Equal(t, "abc123", EntityID("http://stats.test/fight-details/abc123/"))
	require.Equal(t, "plain", EntityID("plain"))
}

func TestExtractionErrorTaggedWithPageURL(t *testing.T) {
	err := &ExtractionError{Reason: "fighter blocks not found"}
	tagExtractionURL(err, "http://stats.test/fight-details/x1")
	require.Equal(t, "http://stats.test/fight-details/x1", err.URL)
	require.Contains(t, err.Error(), "http://stats.test/fight-details/x1")

	// An error that already names a URL keeps it.
	tagged := &ExtractionError{URL: "http://stats.test/fight-details/a", Reason: "r"}
	tagExtractionURL(tagged, "http://stats.test/fight-details/b")
	require.Equal(t, "http://stats.test/fight-details/a", tagged.URL)

	// Non-extraction errors pass through untouched.
	tagExtractionURL(errors.New("plain"), "http://stats.test/x")
}

func TestFetchErrorWrapping(t *testing.T) {
	inner := errors.New("connection refused")
	err := &FetchError{URL: "http://stats.test/x", Err: inner}
	require.ErrorIs(t, err, inner)
	require.True(t, strings.Contains(err.Error(), "http://stats.test/x"))
}
