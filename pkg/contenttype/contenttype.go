// Package contenttype classifies sample bodies and files into the formats the
// shape engine understands.
package contenttype

import (
	"bytes"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Category represents a broad content-type classification.
type Category string

const (
	JSON   Category = "json"
	NDJSON Category = "ndjson"
	YAML   Category = "yaml"
	Text   Category = "text"
	Binary Category = "binary"
)

// Classify returns the broad content category for a content-type header value.
// Uses mime.ParseMediaType to strip parameters (charset, boundary, etc.)
// before matching. Falls back to strings.ToLower for malformed values.
// Returns Binary for empty content-type strings.
func Classify(contentType string) Category {
	if contentType == "" {
		return Binary
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	switch {
	// Line-delimited JSON has to be matched before plain JSON.
	case strings.Contains(mediaType, "ndjson"),
		strings.Contains(mediaType, "jsonl"),
		strings.Contains(mediaType, "json-seq"),
		strings.Contains(mediaType, "jsonlines"):
		return NDJSON
	case strings.Contains(mediaType, "json"):
		return JSON
	case strings.Contains(mediaType, "yaml"):
		return YAML
	case strings.HasPrefix(mediaType, "text/"):
		return Text
	default:
		return Binary
	}
}

// FromPath classifies a sample file by its extension.
func FromPath(path string) Category {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON
	case ".jsonl", ".ndjson":
		return NDJSON
	case ".yaml", ".yml":
		return YAML
	case ".txt", ".log":
		return Text
	default:
		return Binary
	}
}

// Sniff guesses a category from the body itself, for samples that arrive
// without a content type.
func Sniff(data []byte) Category {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Text
	}
	if !utf8.Valid(trimmed) {
		return Binary
	}

	switch trimmed[0] {
	case '{', '[':
		// Several top-level lines each starting a document means NDJSON.
		lines := bytes.Split(trimmed, []byte("\n"))
		if len(lines) > 1 {
			last := bytes.TrimSpace(lines[len(lines)-1])
			first := bytes.TrimSpace(lines[0])
			if len(last) > 0 && (last[0] == '{' || last[0] == '[') &&
				len(first) > 1 && (first[len(first)-1] == '}' || first[len(first)-1] == ']') {
				return NDJSON
			}
		}
		return JSON
	case '"', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return JSON
	}

	if bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("true")) || bytes.Equal(trimmed, []byte("false")) {
		return JSON
	}
	if bytes.HasPrefix(trimmed, []byte("---")) || bytes.Contains(trimmed, []byte(": ")) {
		return YAML
	}
	return Text
}

// IsBinary returns true if the content type indicates binary content.
// Falls back to UTF-8 validation when contentType is empty or unrecognized
// and data is provided.
func IsBinary(contentType string, data []byte) bool {
	switch Classify(contentType) {
	case JSON, NDJSON, YAML, Text:
		return false
	}

	ct := strings.ToLower(contentType)
	if strings.HasPrefix(ct, "image/") ||
		strings.HasPrefix(ct, "audio/") ||
		strings.HasPrefix(ct, "video/") ||
		strings.Contains(ct, "octet-stream") ||
		strings.Contains(ct, "gzip") ||
		strings.Contains(ct, "zip") ||
		strings.Contains(ct, "pdf") {
		return true
	}

	return !utf8.Valid(data)
}
