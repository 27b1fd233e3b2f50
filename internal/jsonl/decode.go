// Package jsonl reads sample values from line-delimited JSON logs, JSON and
// YAML documents, on disk or in memory.
package jsonl

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// DefaultMaxLineBytes bounds a single JSONL line.
const DefaultMaxLineBytes = 4 << 20

// Record is one decoded sample and the 1-based line (or document index) it came from.
type Record struct {
	Line  int
	Value any
}

// DecodeLines decodes every non-blank line of r as a JSON value.
// Lines that fail to parse or are longer than maxLineBytes are counted in
// skipped rather than failing the read.
func DecodeLines(r io.Reader, maxLineBytes int) (records []Record, skipped int, err error) {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}

	br := bufio.NewReaderSize(r, 64*1024)
	line := 0
	for {
		raw, tooLong, err := readLine(br, maxLineBytes)
		if err != nil && !errors.Is(err, io.EOF) {
			return records, skipped, err
		}
		eof := err != nil
		if eof && len(raw) == 0 && !tooLong {
			return records, skipped, nil
		}
		line++

		text := bytes.TrimSpace(raw)
		switch {
		case tooLong:
			slog.Debug("skipping over-long line", slog.Int("line", line), slog.Int("max_bytes", maxLineBytes))
			skipped++
		case len(text) == 0:
		default:
			if v, err := decodeLine(text); err != nil {
				skipped++
			} else {
				records = append(records, Record{Line: line, Value: v})
			}
		}

		if eof {
			return records, skipped, nil
		}
	}
}

// readLine reads up to and including the next newline. A line longer than
// maxLineBytes is read to its end and discarded, and reported as tooLong.
func readLine(br *bufio.Reader, maxLineBytes int) (line []byte, tooLong bool, err error) {
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			n := len(line) + len(chunk)
			if n > 0 && chunk[len(chunk)-1] == '\n' {
				n--
			}
			if n > maxLineBytes {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return line, tooLong, err
	}
}

// decodeLine parses exactly one JSON value; anything after it but whitespace
// is an error.
func decodeLine(line []byte) (any, error) {
	dec := gojson.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return v, nil
}

// DecodeYAML decodes every document of a (possibly multi-document) YAML stream
// into JSON-compatible values.
func DecodeYAML(data []byte) ([]Record, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var records []Record
	for doc := 1; ; doc++ {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("yaml document %d: %w", doc, err)
		}
		records = append(records, Record{Line: doc, Value: FromYAML(v)})
	}
	return records, nil
}

// FromYAML converts values produced by yaml.v3 into the shapes encoding/json
// produces: string-keyed maps and RFC 3339 strings for timestamps.
func FromYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, item := range val {
			result[k] = FromYAML(item)
		}
		return result
	case map[any]any:
		result := make(map[string]any, len(val))
		for k, item := range val {
			result[fmt.Sprintf("%v", k)] = FromYAML(item)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = FromYAML(item)
		}
		return result
	case time.Time:
		return val.Format(time.RFC3339Nano)
	default:
		return v
	}
}
