// Package samples keeps named sets of decoded sample values in memory and
// indexes which JSON paths each sample contains.
package samples

import (
	"sort"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
)

// Set is an immutable, indexed collection of samples.
type Set struct {
	Name      string
	Source    string
	Values    []any
	Origins   []string // "path:line" per value when loaded from files
	Total     int      // samples offered before truncation
	Truncated bool
	CreatedAt time.Time

	all   *roaring.Bitmap
	paths map[string]*roaring.Bitmap
}

// Sample is one value of a set together with its position.
type Sample struct {
	Index  int    `json:"index"`
	Origin string `json:"origin,omitempty"`
	Value  any    `json:"value"`
}

// NewSet builds a set from values, keeping at most maxSamples of them
// (zero or less keeps all). origins may be nil.
func NewSet(name, source string, values []any, origins []string, maxSamples int) *Set {
	s := &Set{
		Name:      name,
		Source:    source,
		Total:     len(values),
		CreatedAt: time.Now(),
		all:       roaring.New(),
		paths:     make(map[string]*roaring.Bitmap),
	}

	if maxSamples > 0 && len(values) > maxSamples {
		values = values[:maxSamples]
		s.Truncated = true
	}
	s.Values = values
	if len(origins) >= len(values) {
		s.Origins = origins[:len(values)]
	}

	for i, v := range values {
		id := uint32(i)
		s.all.Add(id)
		seen := make(map[string]bool)
		collectPaths(v, "", seen)
		for p := range seen {
			s.addToBitmap(p, id)
		}
	}

	return s
}

func (s *Set) addToBitmap(path string, id uint32) {
	bm, exists := s.paths[path]
	if !exists {
		bm = roaring.New()
		s.paths[path] = bm
	}
	bm.Add(id)
}

// collectPaths records every object key path reachable from v.
// Array elements extend the prefix with "[]", so a root array of objects
// yields "[].id" and a nested one "items[].id".
func collectPaths(v any, prefix string, seen map[string]bool) {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			path := k
			if prefix != "" {
				path = prefix + "." + k
			}
			seen[path] = true
			collectPaths(item, path, seen)
		}
	case []any:
		for _, item := range val {
			collectPaths(item, prefix+"[]", seen)
		}
	}
}

// Len returns the number of samples kept in the set.
func (s *Set) Len() int {
	return len(s.Values)
}

// Paths returns every indexed path, sorted.
func (s *Set) Paths() []string {
	paths := make([]string, 0, len(s.paths))
	for p := range s.paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// WithPath returns the indices of samples that contain path.
func (s *Set) WithPath(path string) *roaring.Bitmap {
	if bm, ok := s.paths[path]; ok {
		return bm.Clone()
	}
	return roaring.New()
}

// WithoutPath returns the indices of samples that do not contain path.
func (s *Set) WithoutPath(path string) *roaring.Bitmap {
	bm := s.all.Clone()
	if with, ok := s.paths[path]; ok {
		bm.AndNot(with)
	}
	return bm
}

// Presence returns the fraction of samples that contain path.
func (s *Set) Presence(path string) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	bm, ok := s.paths[path]
	if !ok {
		return 0
	}
	return float64(bm.GetCardinality()) / float64(len(s.Values))
}

// Samples returns up to limit samples selected by ids, in index order.
// A limit of zero or less returns all of them.
func (s *Set) Samples(ids *roaring.Bitmap, limit int) []Sample {
	var out []Sample
	it := ids.Iterator()
	for it.HasNext() {
		if limit > 0 && len(out) >= limit {
			break
		}
		i := int(it.Next())
		if i >= len(s.Values) {
			break
		}
		sample := Sample{Index: i, Value: s.Values[i]}
		if s.Origins != nil {
			sample.Origin = s.Origins[i]
		}
		out = append(out, sample)
	}
	return out
}
