package samples

import (
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Summary describes a stored set without its values.
type Summary struct {
	Name      string `json:"name"`
	Source    string `json:"source,omitempty"`
	Samples   int    `json:"samples"`
	Total     int    `json:"total"`
	Truncated bool   `json:"truncated,omitempty"`
	Paths     int    `json:"paths"`
	CreatedAt string `json:"created_at"` // RFC 3339
}

// Store provides thread-safe LRU storage for sample sets.
// The least recently used set is evicted once maxSets is reached.
type Store struct {
	cache     *lru.Cache[string, *Set]
	maxPerSet int
}

// NewStore creates a store holding at most maxSets sets of at most
// maxPerSet samples each.
func NewStore(maxSets, maxPerSet int) (*Store, error) {
	c, err := lru.New[string, *Set](maxSets)
	if err != nil {
		return nil, err
	}
	return &Store{cache: c, maxPerSet: maxPerSet}, nil
}

// Put indexes values as a set named name, replacing any previous set of that name.
func (s *Store) Put(name, source string, values []any, origins []string) *Set {
	set := NewSet(name, source, values, origins, s.maxPerSet)
	s.cache.Add(name, set)
	return set
}

// Get retrieves a set by name.
func (s *Store) Get(name string) (*Set, bool) {
	return s.cache.Get(name)
}

// Delete removes a set. It reports whether the set existed.
func (s *Store) Delete(name string) bool {
	return s.cache.Remove(name)
}

// List summarizes the stored sets, sorted by name.
func (s *Store) List() []Summary {
	var out []Summary
	for _, name := range s.cache.Keys() {
		set, ok := s.cache.Peek(name)
		if !ok {
			continue
		}
		out = append(out, set.Summary())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Len returns the current number of sets in the store.
func (s *Store) Len() int {
	return s.cache.Len()
}

// Summary describes the set.
func (s *Set) Summary() Summary {
	return Summary{
		Name:      s.Name,
		Source:    s.Source,
		Samples:   len(s.Values),
		Total:     s.Total,
		Truncated: s.Truncated,
		Paths:     len(s.paths),
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
	}
}
