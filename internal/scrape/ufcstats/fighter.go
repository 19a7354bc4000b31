package ufcstats

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/markbakos/advanced-ufc-analyzer/internal/domain"
	"github.com/markbakos/advanced-ufc-analyzer/internal/scrape"
)

// ExtractFighter parses a fighter profile page into a profile record.
// Placeholder "--" values stay nil.
func (a *Adapter) ExtractFighter(doc *goquery.Document) (*domain.FighterProfile, error) {
	name := strings.TrimSpace(doc.Find("span.b-content__title-highlight").First().Text())
	if name == "" {
		return nil, &scrape.ExtractionError{Reason: "fighter name not found"}
	}

	profile := &domain.FighterProfile{
		Name:     name,
		Nickname: cleanString(doc.Find("p.b-content__Nickname").First().Text()),
	}

	doc.Find(".b-list__info-box.b-list__info-box_style_small-width li").Each(func(_ int, item *goquery.Selection) {
		text := strings.TrimSpace(item.Text())
		switch {
		case strings.Contains(text, "Height:"):
			profile.HeightCm = heightToCm(afterLabel(text, "Height:"))
		case strings.Contains(text, "Weight:"):
			profile.WeightKg = weightToKg(afterLabel(text, "Weight:"))
		case strings.Contains(text, "Reach:"):
			profile.ReachCm = reachToCm(afterLabel(text, "Reach:"))
		case strings.Contains(text, "STANCE:"):
			profile.Stance = cleanString(afterLabel(text, "STANCE:"))
		case strings.Contains(text, "DOB:"):
			profile.DateOfBirth = parseSiteDate(afterLabel(text, "DOB:"))
		}
	})

	wins, losses, draws := parseRecord(doc.Find("span.b-content__title-record").First().Text())
	profile.RecordWins = wins
	profile.RecordLosses = losses
	profile.RecordDraws = draws

	return profile, nil
}

func afterLabel(text, label string) string {
	idx := strings.Index(text, label)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(text[idx+len(label):])
}

// parseRecord parses the title record line, e.g. "Record: 22-3-0" (a trailing
// "(1 NC)" is ignored).
func parseRecord(text string) (wins, losses, draws int) {
	record := afterLabel(strings.TrimSpace(text), "Record:")
	record = strings.SplitN(record, " ", 2)[0]

	parts := strings.Split(record, "-")
	if len(parts) < 3 {
		return 0, 0, 0
	}

	wins, _ = strconv.Atoi(parts[0])
	losses, _ = strconv.Atoi(parts[1])
	draws, _ = strconv.Atoi(parts[2])
	return wins, losses, draws
}
