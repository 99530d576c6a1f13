package crawl

// Entry is a discovered URL awaiting fetch, held at the depth it was
// discovered.
type Entry struct {
	URL   string
	Depth int
}

// Frontier holds discovered-but-not-yet-fetched URLs organized by depth,
// together with the exact visited set used for deduplication. URLs are
// marked visited when enqueued, not when dequeued, so two pages at the
// same level discovering the same URL cannot enqueue it twice.
//
// The frontier is not safe for concurrent use: it is owned by the single
// crawl coordinator, which serializes all mutations between fetch batches.
type Frontier struct {
	visited  map[string]struct{}
	levels   map[int][]Entry
	minDepth int
	queued   int
}

// NewFrontier creates an empty frontier.
func NewFrontier() *Frontier {
	return &Frontier{
		visited: make(map[string]struct{}),
		levels:  make(map[int][]Entry),
	}
}

// Push enqueues a canonical URL at the given depth and marks it visited.
// Returns false if the URL has already been seen; duplicate enqueue
// attempts are silently dropped, first discovery wins.
func (f *Frontier) Push(url string, depth int) bool {
	if _, ok := f.visited[url]; ok {
		return false
	}
	f.visited[url] = struct{}{}
	f.levels[depth] = append(f.levels[depth], Entry{URL: url, Depth: depth})
	f.queued++
	if len(f.levels) == 1 || depth < f.minDepth {
		f.minDepth = depth
	}
	return true
}

// PopLevel dequeues the entire minimum-depth level in insertion order.
// Returns ok=false when the frontier is empty.
func (f *Frontier) PopLevel() (entries []Entry, ok bool) {
	if f.queued == 0 {
		return nil, false
	}
	for len(f.levels[f.minDepth]) == 0 {
		delete(f.levels, f.minDepth)
		f.minDepth++
	}
	entries = f.levels[f.minDepth]
	delete(f.levels, f.minDepth)
	f.minDepth++
	f.queued -= len(entries)
	return entries, true
}

// Seen reports whether the URL was ever enqueued.
func (f *Frontier) Seen(url string) bool {
	_, ok := f.visited[url]
	return ok
}

// Len returns the number of queued (not yet dequeued) entries.
func (f *Frontier) Len() int { return f.queued }

// VisitedCount returns the size of the visited set.
func (f *Frontier) VisitedCount() int { return len(f.visited) }
