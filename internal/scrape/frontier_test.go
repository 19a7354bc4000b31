package scrape

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrontierDeduplicatesByEntityID(t *testing.T) {
	f := NewFrontier()

	require.True(t, f.Add("http://stats.test/fight-details/a1"))
	require.False(t, f.Add("http://stats.test/fight-details/a1"))
	// Same id under a different host is still the same entity.
	require.False(t, f.Add("http://mirror.test/fight-details/a1"))
	require.True(t, f.Add("http://stats.test/fight-details/a2"))

	require.Equal(t, 2, f.PendingCount())
	require.True(t, f.Seen("a1"))
	require.False(t, f.Seen("zz"))
}

func TestFrontierDrain(t *testing.T) {
	f := NewFrontier()
	f.Add("http://stats.test/fight-details/a1")
	f.Add("http://stats.test/fight-details/a2")

	urls := f.Drain()
	require.Len(t, urls, 2)
	require.Zero(t, f.PendingCount())

	// Drained ids stay visited.
	require.False(t, f.Add("http://stats.test/fight-details/a1"))
}

func TestFrontierRejectsEmptyID(t *testing.T) {
	f := NewFrontier()
	require.False(t, f.Add(""))
	require.Zero(t, f.PendingCount())
}

func TestFrontierConcurrentAdds(t *testing.T) {
	f := NewFrontier()

	var wg sync.WaitGroup
	accepted := make([]int, 8)
	for w := 0; w < 8; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if f.Add(fmt.Sprintf("http://stats.test/fight-details/f%03d", i)) {
					accepted[w]++
				}
			}
		}()
	}
	wg.Wait()

	total := 0
	for _, n := range accepted {
		total += n
	}
	require.Equal(t, 100, total)
	require.Equal(t, 100, f.PendingCount())
}
