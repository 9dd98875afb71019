package index

import "slices"

// counter accumulates weights per key and remembers first-seen order so that
// ranking ties resolve deterministically.
type counter[V int | float64] struct {
	keys   []string
	values map[string]V
}

func newCounter[V int | float64]() *counter[V] {
	return &counter[V]{values: make(map[string]V)}
}

func (c *counter[V]) add(key string, v V) {
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] += v
}

type entry[V int | float64] struct {
	key   string
	value V
}

// mostCommon returns up to n entries by descending value, ties in first-seen
// order. n < 0 returns every entry.
func (c *counter[V]) mostCommon(n int) []entry[V] {
	entries := make([]entry[V], len(c.keys))
	for i, k := range c.keys {
		entries[i] = entry[V]{key: k, value: c.values[k]}
	}
	slices.SortStableFunc(entries, func(a, b entry[V]) int {
		switch {
		case a.value > b.value:
			return -1
		case a.value < b.value:
			return 1
		}
		return 0
	})
	if n >= 0 && n < len(entries) {
		entries = entries[:n]
	}
	return entries
}
