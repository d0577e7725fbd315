// internal/media/collector.go
package media

// Collector merges candidates from multiple extractors into an ordered,
// duplicate-free sequence of normalized items. Equality is defined solely on
// the canonical URL: when the same URL arrives twice, the first-seen kind and
// filename win regardless of how later candidates classify it.
type Collector struct {
	baseURL string
	seen    map[string]struct{}
	items   []Item
}

// NewCollector creates a collector. baseURL is used to resolve relative
// candidate URLs and may be empty when all candidates are absolute.
func NewCollector(baseURL string) *Collector {
	return &Collector{
		baseURL: baseURL,
		seen:    make(map[string]struct{}),
	}
}

// Add normalizes a candidate and retains it unless its canonical URL has been
// seen before. Candidates whose URL cannot be normalized are dropped silently.
// A candidate without a suggested name but with a source title gets a
// title-derived filename. It reports whether the candidate was retained.
func (c *Collector) Add(candidate Candidate) bool {
	canonical, err := Normalize(candidate.URL, c.baseURL)
	if err != nil {
		return false
	}
	if _, dup := c.seen[canonical]; dup {
		return false
	}
	filename := candidate.SuggestedName
	if filename == "" && candidate.SourceTitle != "" {
		filename = TitleFilename(candidate.SourceTitle, canonical)
	}
	c.seen[canonical] = struct{}{}
	c.items = append(c.items, Item{
		Kind:         candidate.Kind,
		CanonicalURL: canonical,
		Filename:     filename,
	})
	return true
}

// AddAll adds candidates in order and returns the number retained.
func (c *Collector) AddAll(candidates []Candidate) int {
	retained := 0
	for _, candidate := range candidates {
		if c.Add(candidate) {
			retained++
		}
	}
	return retained
}

// Items returns the collected items in first-seen order.
func (c *Collector) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of unique items collected so far.
func (c *Collector) Len() int {
	return len(c.items)
}
