package lookup

// CategoryCache memoizes category lookups for one run. It distinguishes a
// confirmed "no mapping" (cached nil) from a category that was never looked
// up. It is not safe for concurrent use.
type CategoryCache struct {
	entries map[string]*string
	hits    int
}

// NewCategoryCache creates an empty cache
func NewCategoryCache() *CategoryCache {
	return &CategoryCache{entries: make(map[string]*string)}
}

// Get returns the cached id and whether the category has been looked up
func (c *CategoryCache) Get(rawCategory string) (*string, bool) {
	id, ok := c.entries[rawCategory]
	if ok {
		c.hits++
	}
	return id, ok
}

// Put records the result of a lookup; nil means no mapping exists
func (c *CategoryCache) Put(rawCategory string, id *string) {
	c.entries[rawCategory] = id
}

// Len returns the number of distinct categories cached
func (c *CategoryCache) Len() int {
	return len(c.entries)
}

// Hits returns how many Get calls were answered from the cache
func (c *CategoryCache) Hits() int {
	return c.hits
}
