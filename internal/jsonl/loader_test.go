package jsonl

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/jsonshape-mcp/pkg/contenttype"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestExpandPatterns(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.jsonl":          "{}\n",
		"logs/b.jsonl":     "{}\n",
		"logs/deep/c.json": "{}",
		"logs/readme.md":   "# hi",
	})

	paths, err := ExpandPatterns(root, []string{"**/*.jsonl", "logs/**/*.json", "a.jsonl"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "a.jsonl"),
		filepath.Join(root, "logs", "b.jsonl"),
		filepath.Join(root, "logs", "deep", "c.json"),
	}, paths)
}

func TestExpandPatterns_Absolute(t *testing.T) {
	root := writeFiles(t, map[string]string{"x/one.jsonl": "{}\n"})

	paths, err := ExpandPatterns("", []string{filepath.Join(root, "**", "*.jsonl")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "x", "one.jsonl")}, paths)
}

func TestExpandPatterns_Invalid(t *testing.T) {
	_, err := ExpandPatterns(t.TempDir(), []string{"[unclosed"})
	assert.Error(t, err)
}

func TestReadFile_Formats(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"s.jsonl": "{\"a\":1}\n{\"a\":2}\nbad\n",
		"d.json":  "{\n  \"a\": [1, 2]\n}\n",
		"y.yaml":  "a: 1\n---\na: 2\n",
		"l.log":   "{\"a\":1}\n{\"a\":2}\n",
	})

	f, err := ReadFile(filepath.Join(root, "s.jsonl"), 0)
	require.NoError(t, err)
	assert.Len(t, f.Records, 2)
	assert.Equal(t, 1, f.Skipped)

	f, err = ReadFile(filepath.Join(root, "d.json"), 0)
	require.NoError(t, err)
	require.Len(t, f.Records, 1)
	assert.Contains(t, f.Records[0].Value, "a")

	f, err = ReadFile(filepath.Join(root, "y.yaml"), 0)
	require.NoError(t, err)
	assert.Len(t, f.Records, 2)

	f, err = ReadFile(filepath.Join(root, "l.log"), 0)
	require.NoError(t, err)
	assert.Len(t, f.Records, 2)
}

func TestReadFile_MalformedJSON(t *testing.T) {
	root := writeFiles(t, map[string]string{"d.json": "{\"a\": "})

	_, err := ReadFile(filepath.Join(root, "d.json"), 0)
	assert.Error(t, err)
}

func TestLoader_Load(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.jsonl":   "{\"id\":1}\n{\"id\":2}\n",
		"b.jsonl":   "{\"id\":3}\noops\n",
		"notes.bin": "\x00\x01\x02",
	})

	loader := NewLoader(LoaderConfig{Workers: 2})
	result, err := loader.Load(context.Background(), root, []string{"*"})
	require.NoError(t, err)

	assert.Len(t, result.Files, 3)
	assert.Len(t, result.Values, 3)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, []string{filepath.Join(root, "notes.bin")}, result.Unsupported)
	assert.Equal(t, filepath.Join(root, "a.jsonl")+":1", result.Origins[0])
	assert.Equal(t, filepath.Join(root, "b.jsonl")+":1", result.Origins[2])
}

func TestLoader_NoFiles(t *testing.T) {
	loader := NewLoader(LoaderConfig{})
	_, err := loader.Load(context.Background(), t.TempDir(), []string{"*.jsonl"})
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestLoader_Cancelled(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.jsonl": "{}\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := NewLoader(LoaderConfig{})
	_, err := loader.Load(ctx, root, []string{"*.jsonl"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoader_ConcurrentLoads(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.jsonl": "{\"id\":1}\n"})
	loader := NewLoader(LoaderConfig{})

	var wg sync.WaitGroup
	results := make([]*LoadResult, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := loader.Load(context.Background(), root, []string{"*.jsonl"})
			assert.NoError(t, err)
			results[i] = r
		}()
	}
	wg.Wait()

	for _, r := range results {
		require.NotNil(t, r)
		assert.Len(t, r.Values, 1)
	}
}

func TestLoader_CallerCancelLeavesSharedLoadRunning(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.jsonl": "{\"id\":1}\n"})
	loader := NewLoader(LoaderConfig{})

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	loader.readFile = func(path string, maxLineBytes int) (*File, error) {
		once.Do(func() { close(started) })
		<-release
		return ReadFile(path, maxLineBytes)
	}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := loader.Load(firstCtx, root, []string{"*.jsonl"})
		firstErr <- err
	}()
	<-started

	type outcome struct {
		result *LoadResult
		err    error
	}
	second := make(chan outcome, 1)
	go func() {
		r, err := loader.Load(context.Background(), root, []string{"*.jsonl"})
		second <- outcome{r, err}
	}()

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	got := <-second
	require.NoError(t, got.err)
	assert.Len(t, got.result.Values, 1)
}

func TestLoader_Timeout(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.jsonl": "{}\n", "b.jsonl": "{}\n"})
	loader := NewLoader(LoaderConfig{Workers: 1, Timeout: time.Millisecond})
	loader.readFile = func(path string, maxLineBytes int) (*File, error) {
		time.Sleep(20 * time.Millisecond)
		return ReadFile(path, maxLineBytes)
	}

	_, err := loader.Load(context.Background(), root, []string{"*.jsonl"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDecode_Categories(t *testing.T) {
	records, skipped, err := Decode([]byte("{\"a\":1}\nnope\n"), contenttype.NDJSON, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, skipped)

	records, _, err = Decode([]byte(" [1, 2] \n"), contenttype.JSON, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Len(t, records[0].Value, 2)

	records, _, err = Decode([]byte("a: 1\n---\na: 2\n"), contenttype.YAML, 0)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, _, err = Decode([]byte("{"), contenttype.JSON, 0)
	assert.Error(t, err)

	_, _, err = Decode([]byte("hello"), contenttype.Text, 0)
	assert.ErrorIs(t, err, ErrUnsupported)
}
