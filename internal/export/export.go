// Package export publishes a registry index as static JSON files laid out
// like the HTTP API, so the output can be served from any file host.
package export

import (
	"context"
	"fmt"
	"path"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/hanzoai/design-registry/internal/domain/registry"
	"github.com/hanzoai/design-registry/internal/log"
	"github.com/hanzoai/design-registry/internal/tracing"
)

// IndexFile is the name of every index document in the output.
const IndexFile = "index.json"

// Sink receives published files. Paths are slash-separated and relative.
type Sink interface {
	Name() string
	Put(ctx context.Context, path string, data []byte) error
}

// Result summarizes a publish.
type Result struct {
	IndexID string
	Styles  int
	Files   int
	Bytes   int64
}

// Option configures Publish.
type Option func(*publisher)

// WithTracer records the publish as a span.
func WithTracer(t trace.Tracer) Option {
	return func(p *publisher) {
		if t != nil {
			p.tracer = t
		}
	}
}

// WithTrees also writes styles/<style>/tree/<name>.json for every item.
// Items whose tree does not resolve are skipped with a warning.
func WithTrees() Option {
	return func(p *publisher) {
		p.trees = true
	}
}

type publisher struct {
	sink   Sink
	tracer trace.Tracer
	trees  bool
	result Result
}

// Publish writes styles/index.json, styles/<style>/index.json and
// styles/<style>/<name>.json for every style and item of idx.
func Publish(ctx context.Context, idx registry.IndexProvider, sink Sink, opts ...Option) (res Result, err error) {
	p := &publisher{
		sink:   sink,
		tracer: noop.NewTracerProvider().Tracer("noop"),
		result: Result{IndexID: idx.ID()},
	}
	for _, opt := range opts {
		opt(p)
	}

	ctx, span := p.tracer.Start(ctx, tracing.SpanPublish, trace.WithAttributes(
		attribute.String(tracing.AttrIndexID, idx.ID()),
		attribute.String(tracing.AttrExportSink, sink.Name()),
	))
	defer func() {
		span.SetAttributes(attribute.Int(tracing.AttrExportFiles, p.result.Files))
		tracing.End(span, err)
	}()

	if err := p.put(ctx, path.Join("styles", IndexFile), idx.StyleInfos()); err != nil {
		return p.result, err
	}
	for _, style := range idx.Styles() {
		if err := ctx.Err(); err != nil {
			return p.result, err
		}
		if err := p.publishStyle(ctx, idx, style); err != nil {
			return p.result, err
		}
		p.result.Styles++
	}

	log.Info(log.CatExport, "Published registry",
		"sink", sink.Name(),
		"index", idx.ID(),
		"styles", p.result.Styles,
		"files", p.result.Files,
		"bytes", p.result.Bytes)
	return p.result, nil
}

func (p *publisher) publishStyle(ctx context.Context, idx registry.IndexProvider, style string) error {
	dir := path.Join("styles", style)
	items := idx.Items(style)
	if err := p.put(ctx, path.Join(dir, IndexFile), items); err != nil {
		return err
	}
	for _, it := range items {
		if err := p.put(ctx, path.Join(dir, it.Name+".json"), it); err != nil {
			return err
		}
		if !p.trees {
			continue
		}
		tree, err := idx.ResolveTree(it.Name, style)
		if err != nil {
			log.Warn(log.CatExport, "Skipping unresolvable tree", "style", style, "item", it.Name, "error", err)
			continue
		}
		if err := p.put(ctx, path.Join(dir, "tree", it.Name+".json"), tree); err != nil {
			return err
		}
	}
	return nil
}

func (p *publisher) put(ctx context.Context, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	data = append(data, '\n')
	if err := p.sink.Put(ctx, name, data); err != nil {
		return fmt.Errorf("%s: put %s: %w", p.sink.Name(), name, err)
	}
	p.result.Files++
	p.result.Bytes += int64(len(data))
	return nil
}
