// Package jsoncompact shortens decoded JSON samples for display by trimming
// long arrays, wide objects and long strings.
package jsoncompact

import (
	"fmt"
	"sort"
)

// Options controls compaction. A zero limit means no limit.
type Options struct {
	MaxArrayItems int // Keep the first N array items
	MaxObjectKeys int // Keep the first N object keys in sorted order
	MaxStringLen  int // Truncate strings longer than N bytes
	MaxDepth      int // Replace containers nested deeper than N
}

// Default values for compaction options.
const (
	DefaultMaxArrayItems = 3
	DefaultMaxObjectKeys = 50
	DefaultMaxStringLen  = 200
)

// MoreKey holds the count of keys dropped from a trimmed object.
const MoreKey = "..."

// DefaultOptions returns the default compaction settings.
func DefaultOptions() *Options {
	return &Options{
		MaxArrayItems: DefaultMaxArrayItems,
		MaxObjectKeys: DefaultMaxObjectKeys,
		MaxStringLen:  DefaultMaxStringLen,
	}
}

// Value returns a compacted copy of v and whether anything was cut.
// v is never modified. If opts is nil, DefaultOptions() is used.
func Value(v any, opts *Options) (any, bool) {
	if opts == nil {
		opts = DefaultOptions()
	}
	c := compactor{opts: opts}
	out := c.value(v, 0)
	return out, c.trimmed
}

type compactor struct {
	opts    *Options
	trimmed bool
}

func (c *compactor) value(v any, depth int) any {
	switch val := v.(type) {
	case []any:
		if c.tooDeep(depth) && len(val) > 0 {
			c.trimmed = true
			return fmt.Sprintf("[%d items]", len(val))
		}
		return c.array(val, depth)
	case map[string]any:
		if c.tooDeep(depth) && len(val) > 0 {
			c.trimmed = true
			return fmt.Sprintf("{%d keys}", len(val))
		}
		return c.object(val, depth)
	case string:
		return c.str(val)
	default:
		return v
	}
}

func (c *compactor) tooDeep(depth int) bool {
	return c.opts.MaxDepth > 0 && depth >= c.opts.MaxDepth
}

func (c *compactor) str(s string) string {
	if c.opts.MaxStringLen <= 0 || len(s) <= c.opts.MaxStringLen {
		return s
	}
	c.trimmed = true
	return s[:c.opts.MaxStringLen] + fmt.Sprintf("... (%d more bytes)", len(s)-c.opts.MaxStringLen)
}

func (c *compactor) array(arr []any, depth int) []any {
	if arr == nil {
		return nil
	}

	keep := len(arr)
	if c.opts.MaxArrayItems > 0 && keep > c.opts.MaxArrayItems {
		keep = c.opts.MaxArrayItems
	}

	result := make([]any, 0, keep+1)
	for _, item := range arr[:keep] {
		result = append(result, c.value(item, depth+1))
	}
	if keep < len(arr) {
		c.trimmed = true
		result = append(result, fmt.Sprintf("... (%d more items)", len(arr)-keep))
	}
	return result
}

func (c *compactor) object(obj map[string]any, depth int) map[string]any {
	if obj == nil {
		return nil
	}

	if c.opts.MaxObjectKeys <= 0 || len(obj) <= c.opts.MaxObjectKeys {
		result := make(map[string]any, len(obj))
		for k, v := range obj {
			result[k] = c.value(v, depth+1)
		}
		return result
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	c.trimmed = true
	result := make(map[string]any, c.opts.MaxObjectKeys+1)
	for _, k := range keys[:c.opts.MaxObjectKeys] {
		result[k] = c.value(obj[k], depth+1)
	}
	result[MoreKey] = fmt.Sprintf("(%d more keys)", len(keys)-c.opts.MaxObjectKeys)
	return result
}
