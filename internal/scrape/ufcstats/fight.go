package ufcstats

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/markbakos/advanced-ufc-analyzer/internal/constants"
	"github.com/markbakos/advanced-ufc-analyzer/internal/domain"
	"github.com/markbakos/advanced-ufc-analyzer/internal/scrape"
)

// ExtractFight parses a fight detail page. Missing sections leave their
// fields at zero values; only a page without the two fighter blocks is an
// extraction error.
func (a *Adapter) ExtractFight(doc *goquery.Document) (*domain.Fight, error) {
	persons := doc.Find("div.b-fight-details__persons div.b-fight-details__person")
	if persons.Length() < 2 {
		return nil, &scrape.ExtractionError{Reason: "fighter blocks not found"}
	}

	fight := &domain.Fight{Outcome: domain.OutcomeUnknown}

	redStatus := extractPerson(persons.Eq(0), &fight.RedFighterID, &fight.RedFighterName)
	blueStatus := extractPerson(persons.Eq(1), &fight.BlueFighterID, &fight.BlueFighterName)
	fight.Outcome = outcomeFromStatuses(redStatus, blueStatus)

	fight.EventName = strings.TrimSpace(doc.Find("h2.b-content__title a").First().Text())

	doc.Find("p.b-fight-details__event-meta i").Each(func(_ int, item *goquery.Selection) {
		text := strings.TrimSpace(item.Text())
		switch {
		case strings.HasPrefix(text, "Date:"):
			if d := parseSiteDate(strings.TrimPrefix(text, "Date:")); d != nil {
				fight.EventDate = *d
			}
		case strings.HasPrefix(text, "Location:"):
			fight.Location = cleanString(strings.TrimPrefix(text, "Location:"))
		}
	})

	doc.Find("p.b-fight-details__text i.b-fight-details__text-item_first, p.b-fight-details__text i.b-fight-details__text-item").Each(func(_ int, item *goquery.Selection) {
		text := strings.TrimSpace(item.Text())
		switch {
		case strings.HasPrefix(text, "Method:"):
			fight.Method = cleanString(strings.TrimPrefix(text, "Method:"))
		case strings.HasPrefix(text, "Round:"):
			fight.EndRound = safeInt(strings.TrimPrefix(text, "Round:"))
		case strings.HasPrefix(text, "Time format:"):
			format := strings.TrimSpace(strings.TrimPrefix(text, "Time format:"))
			fight.ScheduledRounds = safeInt(strings.SplitN(format, " ", 2)[0])
		case strings.HasPrefix(text, "Time:"):
			fight.EndTime = cleanString(strings.TrimPrefix(text, "Time:"))
		case strings.HasPrefix(text, "Referee:"):
			fight.Referee = cleanString(strings.TrimPrefix(text, "Referee:"))
		}
	})

	// Stats tables appear in a fixed order: totals, totals per round,
	// significant strikes, significant strikes per round.
	bodies := doc.Find("tbody.b-fight-details__table-body")

	if bodies.Length() > 0 {
		parseTotalsCells(bodies.Eq(0).Find("tr").First(), &fight.Red, &fight.Blue)
	}
	if bodies.Length() > 2 {
		parseSigStrikeCells(bodies.Eq(2).Find("tr").First(), &fight.Red, &fight.Blue)
	}

	if bodies.Length() > 1 {
		bodies.Eq(1).Find("tr").Each(func(i int, row *goquery.Selection) {
			red := domain.RoundStats{Round: i + 1}
			blue := domain.RoundStats{Round: i + 1}
			parseTotalsCells(row, &red.CornerStats, &blue.CornerStats)
			fight.RedRounds = append(fight.RedRounds, red)
			fight.BlueRounds = append(fight.BlueRounds, blue)
		})
	}
	if bodies.Length() > 3 {
		bodies.Eq(3).Find("tr").Each(func(i int, row *goquery.Selection) {
			if i >= len(fight.RedRounds) {
				return
			}
			parseSigStrikeCells(row, &fight.RedRounds[i].CornerStats, &fight.BlueRounds[i].CornerStats)
		})
	}

	// Rounds past the stoppage never happened; their entries are dropped,
	// not zero-filled.
	if fight.EndRound > 0 {
		fight.RedRounds = truncateRounds(fight.RedRounds, fight.EndRound)
		fight.BlueRounds = truncateRounds(fight.BlueRounds, fight.EndRound)
	}

	return fight, nil
}

func extractPerson(person *goquery.Selection, id, name *string) string {
	link := person.Find("a.b-fight-details__person-link").First()
	*name = strings.TrimSpace(link.Text())
	if href, ok := link.Attr("href"); ok {
		*id = scrape.EntityID(href)
	}
	return strings.TrimSpace(person.Find("i.b-fight-details__person-status").First().Text())
}

func outcomeFromStatuses(red, blue string) domain.Outcome {
	switch {
	case red == "W" && blue == "L":
		return domain.OutcomeRed
	case red == "L" && blue == "W":
		return domain.OutcomeBlue
	case red == "D" && blue == "D":
		return domain.OutcomeDraw
	default:
		return domain.OutcomeUnknown
	}
}

// cellPair returns the red and blue values of one table cell; every cell in
// the fight tables stacks the red corner's value above the blue corner's.
func cellPair(cols *goquery.Selection, idx int) (string, string) {
	texts := cols.Eq(idx).Find("p.b-fight-details__table-text")
	return strings.TrimSpace(texts.Eq(0).Text()), strings.TrimSpace(texts.Eq(1).Text())
}

// Totals table columns: fighter, KD, sig str, sig str %, total str, TD,
// TD %, sub att, rev, ctrl.
func parseTotalsCells(row *goquery.Selection, red, blue *domain.CornerStats) {
	cols := row.Find("td")
	if cols.Length() < 10 {
		return
	}

	redKD, blueKD := cellPair(cols, 1)
	red.Knockdowns, blue.Knockdowns = safeInt(redKD), safeInt(blueKD)

	redSig, blueSig := cellPair(cols, 2)
	red.SigStrikesLanded, red.SigStrikesAttempted = parseOf(redSig)
	blue.SigStrikesLanded, blue.SigStrikesAttempted = parseOf(blueSig)

	redTotal, blueTotal := cellPair(cols, 4)
	red.TotalStrikesLanded, red.TotalStrikesAttempted = parseOf(redTotal)
	blue.TotalStrikesLanded, blue.TotalStrikesAttempted = parseOf(blueTotal)

	redTD, blueTD := cellPair(cols, 5)
	red.TakedownsLanded, red.TakedownsAttempted = parseOf(redTD)
	blue.TakedownsLanded, blue.TakedownsAttempted = parseOf(blueTD)

	redSub, blueSub := cellPair(cols, 7)
	red.SubAttempts, blue.SubAttempts = safeInt(redSub), safeInt(blueSub)

	redRev, blueRev := cellPair(cols, 8)
	red.Reversals, blue.Reversals = safeInt(redRev), safeInt(blueRev)

	redCtrl, blueCtrl := cellPair(cols, 9)
	red.ControlTimeSeconds, blue.ControlTimeSeconds = parseClock(redCtrl), parseClock(blueCtrl)
}

// Significant-strikes table columns: fighter, sig str, sig str %, head,
// body, leg, distance, clinch, ground.
func parseSigStrikeCells(row *goquery.Selection, red, blue *domain.CornerStats) {
	cols := row.Find("td")
	if cols.Length() < 9 {
		return
	}

	assign := func(idx int, redLanded, redAtt, blueLanded, blueAtt *int) {
		redCell, blueCell := cellPair(cols, idx)
		*redLanded, *redAtt = parseOf(redCell)
		*blueLanded, *blueAtt = parseOf(blueCell)
	}

	assign(3, &red.HeadStrikesLanded, &red.HeadStrikesAttempted, &blue.HeadStrikesLanded, &blue.HeadStrikesAttempted)
	assign(4, &red.BodyStrikesLanded, &red.BodyStrikesAttempted, &blue.BodyStrikesLanded, &blue.BodyStrikesAttempted)
	assign(5, &red.LegStrikesLanded, &red.LegStrikesAttempted, &blue.LegStrikesLanded, &blue.LegStrikesAttempted)
	assign(6, &red.DistanceStrikesLanded, &red.DistanceStrikesAttempted, &blue.DistanceStrikesLanded, &blue.DistanceStrikesAttempted)
	assign(7, &red.ClinchStrikesLanded, &red.ClinchStrikesAttempted, &blue.ClinchStrikesLanded, &blue.ClinchStrikesAttempted)
	assign(8, &red.GroundStrikesLanded, &red.GroundStrikesAttempted, &blue.GroundStrikesLanded, &blue.GroundStrikesAttempted)
}

func truncateRounds(rounds []domain.RoundStats, fought int) []domain.RoundStats {
	if fought > constants.MaxRounds {
		fought = constants.MaxRounds
	}
	if len(rounds) <= fought {
		return rounds
	}
	return rounds[:fought]
}
