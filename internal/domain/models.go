package domain

import (
	"strconv"
	"strings"
	"time"
)

type Corner string

const (
	CornerRed  Corner = "red"
	CornerBlue Corner = "blue"
)

// Outcome is the fight result from the red/blue corner perspective.
type Outcome string

const (
	OutcomeRed     Outcome = "red"
	OutcomeBlue    Outcome = "blue"
	OutcomeDraw    Outcome = "draw"
	OutcomeUnknown Outcome = "unknown"
)

// MethodClass buckets win methods for the per-method win/loss counters.
type MethodClass string

const (
	MethodKO       MethodClass = "ko"
	MethodSub      MethodClass = "sub"
	MethodDecision MethodClass = "dec"
	MethodOther    MethodClass = "other"
)

func ClassifyMethod(method string) MethodClass {
	m := strings.ToLower(method)
	switch {
	case strings.Contains(m, "ko"): // covers "KO/TKO"
		return MethodKO
	case strings.Contains(m, "submission"):
		return MethodSub
	case strings.Contains(m, "decision"):
		return MethodDecision
	default:
		return MethodOther
	}
}

// CornerStats holds one corner's counters for a whole fight or one round.
type CornerStats struct {
	Knockdowns               int
	SigStrikesLanded         int
	SigStrikesAttempted      int
	TotalStrikesLanded       int
	TotalStrikesAttempted    int
	HeadStrikesLanded        int
	HeadStrikesAttempted     int
	BodyStrikesLanded        int
	BodyStrikesAttempted     int
	LegStrikesLanded         int
	LegStrikesAttempted      int
	DistanceStrikesLanded    int
	DistanceStrikesAttempted int
	ClinchStrikesLanded      int
	ClinchStrikesAttempted   int
	GroundStrikesLanded      int
	GroundStrikesAttempted   int
	TakedownsLanded          int
	TakedownsAttempted       int
	SubAttempts              int
	Reversals                int
	ControlTimeSeconds       int
}

// RoundStats is one corner's counters for a single round. Fights carry one
// entry per round actually fought; rounds that never happened have no entry.
type RoundStats struct {
	Round int
	CornerStats
}

// Fight is one immutable ledger row. Corrections replace the whole row after
// a re-fetch, they never edit it in place.
type Fight struct {
	FightID         string
	EventName       string
	EventDate       time.Time
	Location        string
	RedFighterID    string
	BlueFighterID   string
	RedFighterName  string
	BlueFighterName string
	Outcome         Outcome
	Method          string
	EndRound        int
	EndTime         string
	ScheduledRounds int
	Referee         string
	Red             CornerStats
	Blue            CornerStats
	RedRounds       []RoundStats
	BlueRounds      []RoundStats
	Degraded        bool
	CreatedAt       time.Time
}

// Stats returns the counters for the requested corner.
func (f *Fight) Stats(c Corner) CornerStats {
	if c == CornerRed {
		return f.Red
	}
	return f.Blue
}

// OpponentStats returns the counters for the opposite corner.
func (f *Fight) OpponentStats(c Corner) CornerStats {
	if c == CornerRed {
		return f.Blue
	}
	return f.Red
}

// Won reports whether the given corner won the fight.
func (f *Fight) Won(c Corner) bool {
	return (c == CornerRed && f.Outcome == OutcomeRed) ||
		(c == CornerBlue && f.Outcome == OutcomeBlue)
}

// FightMinutes is the total time fought, derived from completed rounds plus
// the final round's end-time clock.
func (f *Fight) FightMinutes() float64 {
	if f.EndRound <= 0 {
		return 0
	}
	full := float64(f.EndRound-1) * 5
	parts := strings.SplitN(f.EndTime, ":", 2)
	if len(parts) != 2 {
		return full
	}
	m, errM := strconv.Atoi(strings.TrimSpace(parts[0]))
	s, errS := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errM != nil || errS != nil {
		return full
	}
	return full + float64(m) + float64(s)/60
}

// FighterProfile holds a fighter's physical attributes as scraped from the
// profile page. Missing site values ("--") stay nil rather than zero.
type FighterProfile struct {
	FighterID    string
	Name         string
	Nickname     string
	HeightCm     *float64
	WeightKg     *float64
	ReachCm      *float64
	Stance       string
	DateOfBirth  *time.Time
	RecordWins   int
	RecordLosses int
	RecordDraws  int
	Partial      bool
	FetchedAt    time.Time
}

// FighterSnapshot is a fighter's cumulative career totals as of Cutoff.
// Cutoff is exclusive: no fight on or after it contributes anything.
// Absorbed counters accumulate the opposite corner's landed totals.
type FighterSnapshot struct {
	FighterID string
	Cutoff    time.Time

	TotalFights int
	Wins        int
	Losses      int
	Draws       int

	WinsByKO    int
	WinsBySub   int
	WinsByDec   int
	LossesByKO  int
	LossesBySub int
	LossesByDec int

	KnockdownsLanded     int
	KnockdownsAbsorbed   int
	SigStrikesLanded     int
	SigStrikesAttempted  int
	SigStrikesAbsorbed   int
	TotalStrikesLanded   int
	TotalStrikesAbsorbed int
	TakedownsLanded      int
	TakedownsAttempted   int
	TakedownsAbsorbed    int
	SubAttemptsLanded    int
	SubAttemptsAbsorbed  int
	Reversals            int
	ControlTimeSeconds   int

	TotalRounds       int
	TotalFightMinutes float64

	LastFightDate *time.Time
	LastWinDate   *time.Time

	SigStrikeAccuracy  float64
	TakedownAccuracy   float64
	AvgStrikesLanded   float64
	AvgStrikesAbsorbed float64
	AvgTakedownsLanded float64
	AvgKnockdowns      float64
	AvgSubAttempts     float64
	AvgFightMinutes    float64
}

// FightFeatureRow is one training-table row: both corners' as-of-fight
// snapshots plus the outcome label. The snapshots' cutoff is the fight's
// own event date, so neither contains anything from the fight itself.
type FightFeatureRow struct {
	ID        string
	FightID   string
	EventDate time.Time
	Outcome   Outcome
	Red       FighterSnapshot
	Blue      FighterSnapshot
	CreatedAt time.Time
}
