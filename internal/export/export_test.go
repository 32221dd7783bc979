package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/hanzoai/design-registry/internal/domain/registry"
	"github.com/hanzoai/design-registry/internal/tracing"
)

// memSink records every put.
type memSink struct {
	mu    sync.Mutex
	files map[string][]byte
	fail  string
}

func newMemSink() *memSink { return &memSink{files: make(map[string][]byte)} }

func (m *memSink) Name() string { return "mem" }

func (m *memSink) Put(_ context.Context, name string, data []byte) error {
	if name == m.fail {
		return errors.New("boom")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = data
	return nil
}

func (m *memSink) names() []string {
	out := make([]string, 0, len(m.files))
	for n := range m.files {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func testIndex(t *testing.T) *registry.Index {
	t.Helper()
	idx, err := registry.NewIndexBuilder([]string{"hanzo"}).
		AddProvider(registry.Registry{Name: "radix", Base: "radix", Items: []registry.Item{
			{Name: "utils", Type: registry.TypeLib},
			{Name: "button", Type: registry.TypeUI, RegistryDependencies: []string{"utils"}},
			{Name: "broken", Type: registry.TypeUI, RegistryDependencies: []string{"missing"}},
		}}).
		AddExtension(registry.Registry{Name: "ai", Items: []registry.Item{
			{Name: "ai-chat", Type: registry.TypeAI, RegistryDependencies: []string{"button"}},
		}}).
		Build()
	require.NoError(t, err)
	return idx
}

func TestPublish_Layout(t *testing.T) {
	idx := testIndex(t)
	sink := newMemSink()

	res, err := Publish(t.Context(), idx, sink)
	require.NoError(t, err)
	require.Equal(t, []string{
		"styles/index.json",
		"styles/radix-hanzo/ai-chat.json",
		"styles/radix-hanzo/broken.json",
		"styles/radix-hanzo/button.json",
		"styles/radix-hanzo/index.json",
		"styles/radix-hanzo/utils.json",
	}, sink.names())
	require.Equal(t, Result{IndexID: idx.ID(), Styles: 1, Files: 6, Bytes: res.Bytes}, res)

	var infos []registry.StyleInfo
	require.NoError(t, json.Unmarshal(sink.files["styles/index.json"], &infos))
	require.Equal(t, []registry.StyleInfo{{Name: "radix-hanzo", Base: "radix", Style: "hanzo", Items: 4}}, infos)

	var button registry.Item
	require.NoError(t, json.Unmarshal(sink.files["styles/radix-hanzo/button.json"], &button))
	require.Equal(t, []string{"utils"}, button.RegistryDependencies)
}

func TestPublish_BucketListingIsNotAnItem(t *testing.T) {
	sink := newMemSink()
	_, err := Publish(t.Context(), testIndex(t), sink)
	require.NoError(t, err)

	var items []registry.Item
	require.NoError(t, json.Unmarshal(sink.files["styles/radix-hanzo/index.json"], &items))
	require.Len(t, items, 4)

	// An item whose document would replace the listing never reaches an index.
	_, err = registry.NewIndexBuilder([]string{"hanzo"}).
		AddProvider(registry.Registry{Name: "radix", Base: "radix", Items: []registry.Item{
			{Name: "button", Type: registry.TypeUI},
			{Name: "index", Type: registry.TypePage},
		}}).
		Build()
	require.ErrorIs(t, err, registry.ErrInvalidItem)
}

func TestPublish_Trees(t *testing.T) {
	sink := newMemSink()

	res, err := Publish(t.Context(), testIndex(t), sink, WithTrees())
	require.NoError(t, err)
	require.Contains(t, sink.files, "styles/radix-hanzo/tree/ai-chat.json")
	require.NotContains(t, sink.files, "styles/radix-hanzo/tree/broken.json", "dangling trees are skipped")
	require.Equal(t, 9, res.Files)

	var tree registry.Tree
	require.NoError(t, json.Unmarshal(sink.files["styles/radix-hanzo/tree/ai-chat.json"], &tree))
	require.Len(t, tree.Items, 3)
}

func TestPublish_SinkError(t *testing.T) {
	sink := newMemSink()
	sink.fail = "styles/radix-hanzo/button.json"

	_, err := Publish(t.Context(), testIndex(t), sink)
	require.ErrorContains(t, err, "mem: put styles/radix-hanzo/button.json: boom")
}

func TestPublish_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := Publish(ctx, testIndex(t), newMemSink())
	require.ErrorIs(t, err, context.Canceled)
}

func TestPublish_Span(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	_, err := Publish(t.Context(), testIndex(t), newMemSink(), WithTracer(tp.Tracer("test")))
	require.NoError(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, tracing.SpanPublish, spans[0].Name())
	var files int64
	for _, kv := range spans[0].Attributes() {
		if string(kv.Key) == tracing.AttrExportFiles {
			files = kv.Value.AsInt64()
		}
	}
	require.Equal(t, int64(6), files)
}

func TestDirSink(t *testing.T) {
	dir := t.TempDir()
	sink := NewDirSink(dir)

	_, err := Publish(t.Context(), testIndex(t), sink)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "styles", "radix-hanzo", "utils.json"))
	require.NoError(t, err)
	require.Contains(t, string(data), `"name": "utils"`)

	leftovers, err := filepath.Glob(filepath.Join(dir, "styles", "radix-hanzo", "*.tmp"))
	require.NoError(t, err)
	require.Empty(t, leftovers)

	for _, bad := range []string{"../x.json", "/etc/x.json", ".."} {
		require.Error(t, sink.Put(t.Context(), bad, nil), bad)
	}
}
