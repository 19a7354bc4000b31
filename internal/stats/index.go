package stats

import (
	"sort"
	"time"

	"github.com/markbakos/advanced-ufc-analyzer/internal/domain"
)

// HistoryEntry is one fight reference in a fighter's chronological history.
type HistoryEntry struct {
	FightID string
	Corner  domain.Corner
	Date    time.Time
}

// HistoryIndex maps fighter id to chronologically ordered fight references
// and keys the full ledger by fight id. It is built once per aggregation
// run from an already-written ledger and is read-only afterwards.
type HistoryIndex struct {
	histories map[string][]HistoryEntry
	fights    map[string]*domain.Fight
}

// BuildIndex makes one linear pass over the ledger; each fight contributes
// one entry to each of its two fighters' histories.
func BuildIndex(fights []domain.Fight) *HistoryIndex {
	idx := &HistoryIndex{
		histories: make(map[string][]HistoryEntry),
		fights:    make(map[string]*domain.Fight, len(fights)),
	}

	for i := range fights {
		fight := &fights[i]
		idx.fights[fight.FightID] = fight

		// An undated row cannot be placed on any timeline. It stays
		// resolvable by id for corrections, but a zero date would sort
		// before every cutoff and bleed into every snapshot.
		if fight.EventDate.IsZero() {
			continue
		}

		if fight.RedFighterID != "" {
			idx.histories[fight.RedFighterID] = append(idx.histories[fight.RedFighterID], HistoryEntry{
				FightID: fight.FightID,
				Corner:  domain.CornerRed,
				Date:    fight.EventDate,
			})
		}
		if fight.BlueFighterID != "" {
			idx.histories[fight.BlueFighterID] = append(idx.histories[fight.BlueFighterID], HistoryEntry{
				FightID: fight.FightID,
				Corner:  domain.CornerBlue,
				Date:    fight.EventDate,
			})
		}
	}

	for id := range idx.histories {
		history := idx.histories[id]
		sort.Slice(history, func(a, b int) bool {
			if !history[a].Date.Equal(history[b].Date) {
				return history[a].Date.Before(history[b].Date)
			}
			return history[a].FightID < history[b].FightID
		})
	}

	return idx
}

// Before returns the fighter's fights strictly before the cutoff, oldest
// first. A fight on the cutoff date itself is excluded, which is what keeps
// a snapshot keyed to a fight's own date leakage-free. Unknown fighters get
// an empty history, not an error.
func (idx *HistoryIndex) Before(fighterID string, cutoff time.Time) []HistoryEntry {
	history := idx.histories[fighterID]
	n := sort.Search(len(history), func(i int) bool {
		return !history[i].Date.Before(cutoff)
	})
	return history[:n]
}

// Fight resolves a fight id against the id-keyed ledger map.
func (idx *HistoryIndex) Fight(id string) (*domain.Fight, bool) {
	fight, ok := idx.fights[id]
	return fight, ok
}

// Fighters returns every fighter id present in the index.
func (idx *HistoryIndex) Fighters() []string {
	ids := make([]string, 0, len(idx.histories))
	for id := range idx.histories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
