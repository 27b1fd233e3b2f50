package jsonl

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/usestring/jsonshape-mcp/pkg/contenttype"
)

// ErrUnsupported is returned for content that is not JSON, NDJSON or YAML.
var ErrUnsupported = errors.New("unsupported content")

// File holds the samples read from one file.
type File struct {
	Path     string
	Category contenttype.Category
	Records  []Record
	Skipped  int
}

// ExpandPatterns resolves doublestar glob patterns (e.g. "logs/**/*.jsonl")
// relative to root and returns the matching regular files, sorted and unique.
// Absolute patterns are matched against the file system directly.
func ExpandPatterns(root string, patterns []string) ([]string, error) {
	if root == "" {
		root = "."
	}

	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range patterns {
		var matches []string
		var err error

		if filepath.IsAbs(pattern) {
			matches, err = doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		} else {
			pattern = filepath.ToSlash(pattern)
			if !doublestar.ValidatePattern(pattern) {
				return nil, fmt.Errorf("invalid pattern %q", pattern)
			}
			matches, err = doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
			for i, m := range matches {
				matches[i] = filepath.Join(root, filepath.FromSlash(m))
			}
		}
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", pattern, err)
		}

		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// ReadFile reads the samples of one file. The format comes from the extension;
// unknown extensions are sniffed from the content.
func ReadFile(path string, maxLineBytes int) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	category := contenttype.FromPath(path)
	if category == contenttype.Binary || category == contenttype.Text {
		category = contenttype.Sniff(data)
	}

	file := &File{Path: path, Category: category}
	file.Records, file.Skipped, err = Decode(data, category, maxLineBytes)
	if errors.Is(err, ErrUnsupported) {
		return nil, fmt.Errorf("%s (%s): %w", path, category, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return file, nil
}

// Decode splits data of the given category into samples. NDJSON lines that
// fail to parse are counted in skipped; a malformed JSON or YAML document is an error.
func Decode(data []byte, category contenttype.Category, maxLineBytes int) (records []Record, skipped int, err error) {
	switch category {
	case contenttype.NDJSON:
		return DecodeLines(bytes.NewReader(data), maxLineBytes)
	case contenttype.JSON:
		v, err := decodeLine(bytes.TrimSpace(data))
		if err != nil {
			return nil, 0, err
		}
		return []Record{{Line: 1, Value: v}}, 0, nil
	case contenttype.YAML:
		records, err = DecodeYAML(data)
		return records, 0, err
	default:
		return nil, 0, ErrUnsupported
	}
}
