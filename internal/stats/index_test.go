package stats

import (
	"testing"
	"time"

	"github.com/markbakos/advanced-ufc-analyzer/internal/domain"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func fightBetween(id string, day string, red, blue string) domain.Fight {
	return domain.Fight{
		FightID:       id,
		EventDate:     date(day),
		RedFighterID:  red,
		BlueFighterID: blue,
		Outcome:       domain.OutcomeRed,
		Method:        "Decision - Unanimous",
	}
}

func TestBuildIndexChronologicalOrder(t *testing.T) {
	fights := []domain.Fight{
		fightBetween("f3", "2022-05-01", "alpha", "delta"),
		fightBetween("f1", "2020-01-01", "alpha", "bravo"),
		fightBetween("f2", "2021-03-01", "charlie", "alpha"),
	}

	idx := BuildIndex(fights)

	history := idx.Before("alpha", date("2030-01-01"))
	require.Len(t, history, 3)
	require.Equal(t, "f1", history[0].FightID)
	require.Equal(t, "f2", history[1].FightID)
	require.Equal(t, "f3", history[2].FightID)
	require.Equal(t, domain.CornerRed, history[0].Corner)
	require.Equal(t, domain.CornerBlue, history[1].Corner)
}

func TestBeforeIsStrictlyExclusive(t *testing.T) {
	fights := []domain.Fight{
		fightBetween("f1", "2021-01-01", "alpha", "bravo"),
		fightBetween("f2", "2021-06-01", "alpha", "charlie"),
	}

	idx := BuildIndex(fights)

	// A fight dated exactly on the cutoff must not be returned.
	history := idx.Before("alpha", date("2021-06-01"))
	require.Len(t, history, 1)
	require.Equal(t, "f1", history[0].FightID)

	require.Empty(t, idx.Before("alpha", date("2021-01-01")))
	require.Len(t, idx.Before("alpha", date("2021-06-02")), 2)
}

func TestBeforeUnknownFighterIsEmpty(t *testing.T) {
	idx := BuildIndex([]domain.Fight{
		fightBetween("f1", "2021-01-01", "alpha", "bravo"),
	})

	require.Empty(t, idx.Before("nobody", date("2030-01-01")))
}

func TestBuildIndexSkipsMissingFighterIDs(t *testing.T) {
	degraded := domain.Fight{FightID: "f1", EventDate: date("2021-01-01"), Outcome: domain.OutcomeUnknown, Degraded: true}
	idx := BuildIndex([]domain.Fight{degraded})

	require.Empty(t, idx.Before("", date("2030-01-01")))
	_, ok := idx.Fight("f1")
	require.True(t, ok)
}

func TestBuildIndexExcludesUndatedFights(t *testing.T) {
	// Persons parsed but the date meta was missing: fighter ids present,
	// EventDate zero. Such a row must not join either history, or it
	// would sort before every cutoff.
	undated := domain.Fight{
		FightID:       "f0",
		RedFighterID:  "alpha",
		BlueFighterID: "bravo",
		Outcome:       domain.OutcomeUnknown,
	}
	fights := []domain.Fight{
		undated,
		fightBetween("f1", "2021-01-01", "alpha", "bravo"),
	}

	idx := BuildIndex(fights)

	require.Empty(t, idx.Before("alpha", date("2020-01-01")))
	require.Len(t, idx.Before("alpha", date("2030-01-01")), 1)
	require.Len(t, idx.Before("bravo", date("2030-01-01")), 1)

	// Still resolvable by id for a later correction.
	_, ok := idx.Fight("f0")
	require.True(t, ok)
}

func TestSameDayFightsOrderedByID(t *testing.T) {
	fights := []domain.Fight{
		fightBetween("f2", "2021-01-01", "alpha", "charlie"),
		fightBetween("f1", "2021-01-01", "alpha", "bravo"),
	}

	idx := BuildIndex(fights)

	history := idx.Before("alpha", date("2021-01-02"))
	require.Len(t, history, 2)
	require.Equal(t, "f1", history[0].FightID)
	require.Equal(t, "f2", history[1].FightID)
}
