package stats

import (
	"time"

	"github.com/markbakos/advanced-ufc-analyzer/internal/domain"
	"github.com/rs/zerolog"
)

// Aggregator folds a fighter's prior fights into a point-in-time snapshot.
// It is a pure function of the index contents and the cutoff: repeated calls
// over an unchanged ledger are identical.
type Aggregator struct {
	index  *HistoryIndex
	logger zerolog.Logger
}

func NewAggregator(index *HistoryIndex, logger zerolog.Logger) *Aggregator {
	return &Aggregator{index: index, logger: logger}
}

// Snapshot computes the fighter's cumulative totals from fights strictly
// before the cutoff. A debut fighter gets an all-zero snapshot. A history
// entry whose fight is missing from the ledger map contributes zero and is
// logged; incomplete source data degrades completeness, never correctness.
func (a *Aggregator) Snapshot(fighterID string, before time.Time) domain.FighterSnapshot {
	snap := domain.FighterSnapshot{FighterID: fighterID, Cutoff: before}

	for _, entry := range a.index.Before(fighterID, before) {
		fight, ok := a.index.Fight(entry.FightID)
		if !ok {
			a.logger.Warn().
				Str("fighter_id", fighterID).
				Str("fight_id", entry.FightID).
				Msg("history references a fight absent from the ledger, contributing zero")
			continue
		}

		foldFight(&snap, fight, entry.Corner)
	}

	deriveRates(&snap)
	return snap
}

func foldFight(snap *domain.FighterSnapshot, fight *domain.Fight, corner domain.Corner) {
	own := fight.Stats(corner)
	opp := fight.OpponentStats(corner)

	snap.TotalFights++

	snap.KnockdownsLanded += own.Knockdowns
	snap.KnockdownsAbsorbed += opp.Knockdowns
	snap.SigStrikesLanded += own.SigStrikesLanded
	snap.SigStrikesAttempted += own.SigStrikesAttempted
	snap.SigStrikesAbsorbed += opp.SigStrikesLanded
	snap.TotalStrikesLanded += own.TotalStrikesLanded
	snap.TotalStrikesAbsorbed += opp.TotalStrikesLanded
	snap.TakedownsLanded += own.TakedownsLanded
	snap.TakedownsAttempted += own.TakedownsAttempted
	snap.TakedownsAbsorbed += opp.TakedownsLanded
	snap.SubAttemptsLanded += own.SubAttempts
	snap.SubAttemptsAbsorbed += opp.SubAttempts
	snap.Reversals += own.Reversals
	snap.ControlTimeSeconds += own.ControlTimeSeconds

	snap.TotalRounds += fight.EndRound
	snap.TotalFightMinutes += fight.FightMinutes()

	method := domain.ClassifyMethod(fight.Method)
	switch {
	case fight.Won(corner):
		snap.Wins++
		switch method {
		case domain.MethodKO:
			snap.WinsByKO++
		case domain.MethodSub:
			snap.WinsBySub++
		case domain.MethodDecision:
			snap.WinsByDec++
		}
	case fight.Outcome == domain.OutcomeDraw:
		snap.Draws++
	case fight.Outcome == domain.OutcomeRed || fight.Outcome == domain.OutcomeBlue:
		snap.Losses++
		switch method {
		case domain.MethodKO:
			snap.LossesByKO++
		case domain.MethodSub:
			snap.LossesBySub++
		case domain.MethodDecision:
			snap.LossesByDec++
		}
	}

	// Histories are folded oldest first, so the latest dates win.
	date := fight.EventDate
	snap.LastFightDate = &date
	if fight.Won(corner) {
		snap.LastWinDate = &date
	}
}

func deriveRates(snap *domain.FighterSnapshot) {
	snap.SigStrikeAccuracy = SafeRate(float64(snap.SigStrikesLanded), float64(snap.SigStrikesAttempted))
	snap.TakedownAccuracy = SafeRate(float64(snap.TakedownsLanded), float64(snap.TakedownsAttempted))

	fights := float64(snap.TotalFights)
	snap.AvgStrikesLanded = SafeRate(float64(snap.SigStrikesLanded), fights)
	snap.AvgStrikesAbsorbed = SafeRate(float64(snap.SigStrikesAbsorbed), fights)
	snap.AvgTakedownsLanded = SafeRate(float64(snap.TakedownsLanded), fights)
	snap.AvgKnockdowns = SafeRate(float64(snap.KnockdownsLanded), fights)
	snap.AvgSubAttempts = SafeRate(float64(snap.SubAttemptsLanded), fights)
	snap.AvgFightMinutes = SafeRate(snap.TotalFightMinutes, fights)
}

// SafeRate substitutes a denominator of 1 when the true denominator is zero,
// so a rate with no attempts is 0 rather than NaN.
func SafeRate(numerator, denominator float64) float64 {
	if denominator == 0 {
		denominator = 1
	}
	return numerator / denominator
}
