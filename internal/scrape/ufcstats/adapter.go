// Package ufcstats is the extraction adapter for ufcstats.com-shaped pages.
// It is the only package that knows the site's URL layout and markup; the
// crawler sees it through the scrape.Source and extractor interfaces.
package ufcstats

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/markbakos/advanced-ufc-analyzer/internal/config"
)

type Adapter struct {
	baseURL string
}

func New(cfg *config.Config) *Adapter {
	return &Adapter{baseURL: strings.TrimRight(cfg.BaseURL, "/")}
}

func (a *Adapter) FightListingURLs() []string {
	return []string{a.baseURL + "/statistics/events/completed?page=all"}
}

// FighterListingURLs returns one listing page per last-name initial.
func (a *Adapter) FighterListingURLs() []string {
	urls := make([]string, 0, 26)
	for ch := 'a'; ch <= 'z'; ch++ {
		urls = append(urls, fmt.Sprintf("%s/statistics/fighters?char=%c&page=all", a.baseURL, ch))
	}
	return urls
}

func (a *Adapter) FightURL(id string) string {
	return a.baseURL + "/fight-details/" + id
}

func (a *Adapter) FighterURL(id string) string {
	return a.baseURL + "/fighter-details/" + id
}

// ExtractLinks pulls detail links from the rows of a statistics listing
// table. The selectors cover both the events listing and the per-letter
// fighter listing.
func (a *Adapter) ExtractLinks(doc *goquery.Document) []string {
	rows := doc.Find("table.b-statistics__table-events tbody tr")
	if rows.Length() == 0 {
		rows = doc.Find("table.b-statistics__table-col tbody tr")
	}
	if rows.Length() == 0 {
		rows = doc.Find("table.b-statistics__table tbody tr")
	}

	var links []string
	rows.Each(func(_ int, row *goquery.Selection) {
		href, ok := row.Find("td a").First().Attr("href")
		if ok && href != "" {
			links = append(links, href)
		}
	})
	return links
}
