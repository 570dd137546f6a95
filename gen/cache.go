package gen

// Cache is an insertion-ordered, size-bounded set of previously yielded
// input strings, scoped to one grammar version (spec.md §4.2, §5). Once
// Limit entries are held, the oldest entry is evicted to make room for a
// new one — the same dual map+slice "known set plus insertion order"
// idiom the teacher uses for its symbol table
// (nihei9-vartan/grammar/symbol.go), generalized here from "never evicts"
// to "bounded, oldest-evicted" per spec.md's cache contract.
type Cache struct {
	limit int
	order []string
	set   map[string]struct{}
}

// NewCache creates a cache holding at most limit strings. limit <= 0
// means unbounded.
func NewCache(limit int) *Cache {
	return &Cache{limit: limit, set: make(map[string]struct{})}
}

// Has reports whether s has already been yielded.
func (c *Cache) Has(s string) bool {
	_, ok := c.set[s]
	return ok
}

// Add inserts s, evicting the oldest entry if the cache is at capacity.
// Inserting an already-present string is a no-op.
func (c *Cache) Add(s string) {
	if _, ok := c.set[s]; ok {
		return
	}
	c.order = append(c.order, s)
	c.set[s] = struct{}{}
	if c.limit > 0 && len(c.order) > c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.set, oldest)
	}
}

// Len reports the number of strings currently retained.
func (c *Cache) Len() int { return len(c.order) }
