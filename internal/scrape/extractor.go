package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/markbakos/advanced-ufc-analyzer/internal/domain"
)

// ListingExtractor pulls detail-page links out of a paginated listing page.
type ListingExtractor interface {
	ExtractLinks(doc *goquery.Document) []string
}

// FightExtractor turns a fetched fight page into a partial fight record.
// Fields it cannot find stay at their zero value; it only errors when the
// page lacks the structure of a fight page entirely.
type FightExtractor interface {
	ExtractFight(doc *goquery.Document) (*domain.Fight, error)
}

// FighterExtractor turns a fetched fighter profile page into a profile.
type FighterExtractor interface {
	ExtractFighter(doc *goquery.Document) (*domain.FighterProfile, error)
}

// Source describes where a stats site keeps its listing and detail pages.
// Swapping the scraped site means swapping the Source and extractor
// implementations, nothing in the crawler itself.
type Source interface {
	FightListingURLs() []string
	FighterListingURLs() []string
	FightURL(id string) string
	FighterURL(id string) string
}

// EntityID extracts the opaque entity id from a detail-page URL, the last
// path segment.
func EntityID(url string) string {
	trimmed := strings.TrimRight(url, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return trimmed
	}
	return trimmed[idx+1:]
}
