package scrape

import "sync"

// Frontier is the run-scoped set of discovered-but-unfetched detail URLs,
// deduplicated by entity id. It does not outlive one crawl.
type Frontier struct {
	mu      sync.Mutex
	visited map[string]struct{}
	pending []string
}

func NewFrontier() *Frontier {
	return &Frontier{visited: make(map[string]struct{})}
}

// Add queues a detail URL unless its entity id has been seen already.
// It reports whether the URL was accepted.
func (f *Frontier) Add(url string) bool {
	id := EntityID(url)
	if id == "" {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, seen := f.visited[id]; seen {
		return false
	}
	f.visited[id] = struct{}{}
	f.pending = append(f.pending, url)
	return true
}

// Drain removes and returns every pending URL.
func (f *Frontier) Drain() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	urls := f.pending
	f.pending = nil
	return urls
}

// Seen reports whether an entity id has been discovered this run.
func (f *Frontier) Seen(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.visited[id]
	return ok
}

func (f *Frontier) PendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}
