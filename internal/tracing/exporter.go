package tracing

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var errExporterClosed = errors.New("trace file exporter is shut down")

// FileExporter appends finished spans to a JSONL file. Registry attributes
// are lifted to top-level fields so the file can be filtered with jq, e.g.
//
//	jq 'select(.style == "radix-hanzo" and .error != null)' traces.jsonl
type FileExporter struct {
	mu   sync.Mutex
	file *os.File
}

var _ sdktrace.SpanExporter = (*FileExporter)(nil)

// NewFileExporter opens path for appending, creating parent directories.
func NewFileExporter(path string) (*FileExporter, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create trace directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) // #nosec G304 -- configured trace path
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	return &FileExporter{file: file}, nil
}

// ExportSpans writes one line per span. A batch is written with a single
// write so concurrent exporters never interleave lines.
func (e *FileExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	if len(spans) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return errExporterClosed
	}

	w := bufio.NewWriter(e.file)
	enc := json.NewEncoder(w)
	for _, span := range spans {
		if err := enc.Encode(newSpanRecord(span)); err != nil {
			return fmt.Errorf("encode span %s: %w", span.Name(), err)
		}
	}
	return w.Flush()
}

// Shutdown closes the file. Later calls are no-ops.
func (e *FileExporter) Shutdown(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return nil
	}
	err := e.file.Close()
	e.file = nil
	return err
}

// SpanRecord is one line of the trace file.
type SpanRecord struct {
	Trace      string    `json:"trace"`
	Span       string    `json:"span"`
	Parent     string    `json:"parent,omitempty"`
	Name       string    `json:"name"`
	Kind       string    `json:"kind"`
	Start      time.Time `json:"start"`
	DurationMs float64   `json:"duration_ms"`
	Error      *string   `json:"error,omitempty"`

	Index    string `json:"index,omitempty"`
	Style    string `json:"style,omitempty"`
	Item     string `json:"item,omitempty"`
	ItemType string `json:"item_type,omitempty"`
	Design   string `json:"design,omitempty"`
	Tool     string `json:"tool,omitempty"`
	Route    string `json:"route,omitempty"`
	Status   int64  `json:"status,omitempty"`
	CacheHit *bool  `json:"cache_hit,omitempty"`

	Attributes map[string]any `json:"attrs,omitempty"`
	Events     []EventRecord  `json:"events,omitempty"`
}

// EventRecord is a span event, timed relative to the span start.
type EventRecord struct {
	Name     string         `json:"name"`
	OffsetMs float64        `json:"offset_ms"`
	Attrs    map[string]any `json:"attrs,omitempty"`
}

// lifted maps attribute keys to the top-level field they fill.
var lifted = map[attribute.Key]func(*SpanRecord, attribute.Value){
	AttrIndexID:     func(r *SpanRecord, v attribute.Value) { r.Index = v.AsString() },
	AttrStyle:       func(r *SpanRecord, v attribute.Value) { r.Style = v.AsString() },
	AttrDesignStyle: func(r *SpanRecord, v attribute.Value) { r.Style = v.AsString() },
	AttrItemName:    func(r *SpanRecord, v attribute.Value) { r.Item = v.AsString() },
	AttrItemType:    func(r *SpanRecord, v attribute.Value) { r.ItemType = v.AsString() },
	AttrDesignKey:   func(r *SpanRecord, v attribute.Value) { r.Design = v.AsString() },
	AttrMCPToolName: func(r *SpanRecord, v attribute.Value) { r.Tool = v.AsString() },
	AttrHTTPRoute:   func(r *SpanRecord, v attribute.Value) { r.Route = v.AsString() },
	AttrHTTPStatus:  func(r *SpanRecord, v attribute.Value) { r.Status = v.AsInt64() },
	AttrCacheHit: func(r *SpanRecord, v attribute.Value) {
		hit := v.AsBool()
		r.CacheHit = &hit
	},
}

func newSpanRecord(span sdktrace.ReadOnlySpan) SpanRecord {
	rec := SpanRecord{
		Trace:      span.SpanContext().TraceID().String(),
		Span:       span.SpanContext().SpanID().String(),
		Name:       span.Name(),
		Kind:       span.SpanKind().String(),
		Start:      span.StartTime(),
		DurationMs: millis(span.EndTime().Sub(span.StartTime())),
	}
	if p := span.Parent(); p.IsValid() {
		rec.Parent = p.SpanID().String()
	}
	if st := span.Status(); st.Code == codes.Error {
		msg := st.Description
		rec.Error = &msg
	}

	for _, kv := range span.Attributes() {
		if set, ok := lifted[kv.Key]; ok {
			set(&rec, kv.Value)
			continue
		}
		if rec.Attributes == nil {
			rec.Attributes = make(map[string]any)
		}
		rec.Attributes[string(kv.Key)] = kv.Value.AsInterface()
	}

	for _, ev := range span.Events() {
		er := EventRecord{Name: ev.Name, OffsetMs: millis(ev.Time.Sub(span.StartTime()))}
		if len(ev.Attributes) > 0 {
			er.Attrs = make(map[string]any, len(ev.Attributes))
			for _, kv := range ev.Attributes {
				er.Attrs[string(kv.Key)] = kv.Value.AsInterface()
			}
		}
		rec.Events = append(rec.Events, er)
	}
	return rec
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
