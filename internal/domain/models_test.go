package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClassifyMethod(t *testing.T) {
	require.Equal(t, MethodKO, ClassifyMethod("KO/TKO"))
	require.Equal(t, MethodKO, ClassifyMethod("TKO - Doctor's Stoppage"))
	require.Equal(t, MethodSub, ClassifyMethod("Submission"))
	require.Equal(t, MethodDecision, ClassifyMethod("Decision - Unanimous"))
	require.Equal(t, MethodDecision, ClassifyMethod("Decision - Split"))
	require.Equal(t, MethodOther, ClassifyMethod("Overturned"))
	require.Equal(t, MethodOther, ClassifyMethod(""))
}

func TestFightMinutes(t *testing.T) {
	f := &Fight{EndRound: 3, EndTime: "5:00"}
	require.InDelta(t, 15.0, f.FightMinutes(), 0.001)

	f = &Fight{EndRound: 1, EndTime: "0:30"}
	require.InDelta(t, 0.5, f.FightMinutes(), 0.001)

	f = &Fight{EndRound: 2, EndTime: "2:15"}
	require.InDelta(t, 7.25, f.FightMinutes(), 0.001)

	// Unparseable clock falls back to the completed rounds.
	f = &Fight{EndRound: 3, EndTime: "--"}
	require.InDelta(t, 10.0, f.FightMinutes(), 0.001)

	f = &Fight{}
	require.Zero(t, f.FightMinutes())
}

func TestFightCornerAccessors(t *testing.T) {
	f := &Fight{
		Outcome: OutcomeRed,
		Red:     CornerStats{SigStrikesLanded: 40},
		Blue:    CornerStats{SigStrikesLanded: 25},
	}

	require.Equal(t, 40, f.Stats(CornerRed).SigStrikesLanded)
	require.Equal(t, 25, f.Stats(CornerBlue).SigStrikesLanded)
	require.Equal(t, 25, f.OpponentStats(CornerRed).SigStrikesLanded)
	require.Equal(t, 40, f.OpponentStats(CornerBlue).SigStrikesLanded)

	require.True(t, f.Won(CornerRed))
	require.False(t, f.Won(CornerBlue))

	f.Outcome = OutcomeDraw
	require.False(t, f.Won(CornerRed))
	require.False(t, f.Won(CornerBlue))
}

func TestWonUnknownOutcome(t *testing.T) {
	f := &Fight{Outcome: OutcomeUnknown, EventDate: time.Now()}
	require.False(t, f.Won(CornerRed))
	require.False(t, f.Won(CornerBlue))
}
