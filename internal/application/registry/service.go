package registry

import (
	"context"
	"fmt"
	"io/fs"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/hanzoai/design-registry/internal/cachemanager"
	"github.com/hanzoai/design-registry/internal/domain/design"
	"github.com/hanzoai/design-registry/internal/domain/registry"
	"github.com/hanzoai/design-registry/internal/log"
	"github.com/hanzoai/design-registry/internal/tracing"
)

// snapshot is one immutable generation of the registry. Readers load it
// once per request so a concurrent reload never mixes generations.
type snapshot struct {
	catalog  *Catalog
	index    *registry.Index
	resolver *design.Resolver
}

type resolveInput struct {
	snap *snapshot
	cfg  design.Config
}

// Option configures a RegistryService.
type Option func(*RegistryService)

// WithCollisionPolicy selects how index build collisions are resolved.
func WithCollisionPolicy(p registry.CollisionPolicy) Option {
	return func(s *RegistryService) {
		s.policy = p
	}
}

// WithTracer sets the tracer used for build and resolve spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *RegistryService) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithCache enables memoisation of resolved configs for ttl. A zero ttl or
// enabled=false turns the cache off.
func WithCache(enabled bool, ttl time.Duration) Option {
	return func(s *RegistryService) {
		s.cacheEnabled = enabled && ttl > 0
		s.cacheTTL = ttl
	}
}

// RegistryService serves the current index and resolver and rebuilds both
// from its catalog source on Reload.
type RegistryService struct {
	fsys         fs.FS
	policy       registry.CollisionPolicy
	tracer       trace.Tracer
	cacheEnabled bool
	cacheTTL     time.Duration

	current  atomic.Pointer[snapshot]
	reloadMu sync.Mutex

	cache    *cachemanager.InMemoryCacheManager[string, design.Resolution]
	resolved *cachemanager.ReadThroughCache[string, design.Resolution, resolveInput]
}

// NewRegistryService loads the catalog in fsys and builds the first index.
func NewRegistryService(fsys fs.FS, opts ...Option) (*RegistryService, error) {
	s := &RegistryService{
		fsys:         fsys,
		policy:       registry.PolicyExtensionsWin,
		tracer:       noop.NewTracerProvider().Tracer("noop"),
		cacheEnabled: true,
		cacheTTL:     cachemanager.DefaultExpiration,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.cache = cachemanager.NewInMemoryCacheManager[string, design.Resolution](
		"design-resolve", s.cacheTTL, cachemanager.DefaultCleanupInterval)
	s.resolved = cachemanager.NewReadThroughCache(
		cachemanager.CacheManager[string, design.Resolution](s.cache),
		func(in resolveInput) string { return in.snap.index.ID() + "|" + in.cfg.Key() },
		func(ctx context.Context, in resolveInput) (design.Resolution, error) {
			return in.snap.resolver.Resolve(in.cfg)
		},
		s.cacheTTL,
		!s.cacheEnabled,
	)

	if err := s.Reload(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload rebuilds the catalog, index and resolver. The new generation is
// published only when every step succeeds; on failure the previous one
// keeps serving and the error is returned.
func (s *RegistryService) Reload(ctx context.Context) (err error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	ctx, span := s.tracer.Start(ctx, tracing.SpanReload)
	defer func() { tracing.End(span, err) }()

	snap, err := s.build(ctx)
	if err != nil {
		if s.current.Load() != nil {
			log.ErrorErr(log.CatRegistry, "Reload failed, keeping previous index", err)
			span.AddEvent(tracing.EventReloadFailed)
		}
		return err
	}

	prev := s.current.Swap(snap)
	if prev != nil {
		// Entries are keyed by index id, so this only releases memory.
		_ = s.resolved.Flush(ctx)
	}
	log.Info(log.CatRegistry, "Index ready",
		"id", snap.index.ID(),
		"styles", len(snap.index.Styles()),
		"collisions", len(snap.index.Collisions()))
	return nil
}

func (s *RegistryService) build(ctx context.Context) (*snapshot, error) {
	_, loadSpan := s.tracer.Start(ctx, tracing.SpanCatalogLoad)
	cat, err := LoadCatalog(s.fsys)
	tracing.End(loadSpan, err)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	_, buildSpan := s.tracer.Start(ctx, tracing.SpanIndexBuild,
		trace.WithAttributes(attribute.String(tracing.AttrPolicy, string(s.policy))))

	b := registry.NewIndexBuilder(cat.Styles(),
		registry.WithCollisionPolicy(s.policy),
		registry.WithCollisionHandler(func(c registry.Collision) {
			buildSpan.AddEvent(tracing.EventCollision, trace.WithAttributes(
				attribute.String(tracing.AttrItemName, c.Name),
				attribute.String(tracing.AttrStyle, c.Style),
			))
			log.Warn(log.CatIndex, "Registry item collision",
				"kind", c.Kind,
				"name", c.Name,
				"style", c.Style,
				"existing", c.ExistingSource,
				"incoming", c.IncomingSource,
				"policy", s.policy)
		}),
	)
	for _, reg := range cat.Providers {
		b.AddProvider(reg)
	}
	for _, reg := range cat.Extensions {
		b.AddExtension(reg)
	}

	idx, err := b.Build()
	if err == nil {
		buildSpan.SetAttributes(
			attribute.String(tracing.AttrIndexID, idx.ID()),
			attribute.Int(tracing.AttrStyleCount, len(idx.Styles())),
			attribute.Int(tracing.AttrCollisions, len(idx.Collisions())),
		)
	}
	tracing.End(buildSpan, err)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	return &snapshot{
		catalog:  cat,
		index:    idx,
		resolver: design.NewResolver(cat.Vocabulary),
	}, nil
}

func (s *RegistryService) load() *snapshot {
	return s.current.Load()
}

// Index returns the current index.
func (s *RegistryService) Index() *registry.Index {
	return s.load().index
}

// Catalog returns the catalog the current index was built from.
func (s *RegistryService) Catalog() *Catalog {
	return s.load().catalog
}

// Vocabulary returns the current design vocabulary.
func (s *RegistryService) Vocabulary() *design.Vocabulary {
	return s.load().catalog.Vocabulary
}

// Validate checks cfg against the current vocabulary.
func (s *RegistryService) Validate(_ context.Context, cfg design.Config) error {
	return s.load().resolver.Validate(cfg)
}

// Resolve validates cfg and builds its theme and base. Results are shared
// between callers and must be treated as read-only.
func (s *RegistryService) Resolve(ctx context.Context, cfg design.Config) (res design.Resolution, err error) {
	snap := s.load()

	ctx, span := s.tracer.Start(ctx, tracing.SpanResolve, trace.WithAttributes(
		attribute.String(tracing.AttrIndexID, snap.index.ID()),
		attribute.String(tracing.AttrDesignKey, cfg.Key()),
		attribute.String(tracing.AttrDesignStyle, cfg.StyleName()),
	))
	defer func() { tracing.End(span, err) }()

	res, err = s.resolved.GetWithRefresh(ctx, resolveInput{snap: snap, cfg: cfg})
	if err != nil {
		log.Debug(log.CatDesign, "Config rejected", "style", cfg.StyleName(), "error", err)
		return design.Resolution{}, err
	}
	return res, nil
}

// ResolveTree flattens name and its registry dependencies within style.
func (s *RegistryService) ResolveTree(ctx context.Context, name, style string) (tree registry.Tree, err error) {
	idx := s.Index()

	_, span := s.tracer.Start(ctx, tracing.SpanResolveTree, trace.WithAttributes(
		attribute.String(tracing.AttrItemName, name),
		attribute.String(tracing.AttrStyle, style),
	))
	defer func() { tracing.End(span, err) }()

	tree, err = idx.ResolveTree(name, style)
	if err == nil {
		span.SetAttributes(attribute.Int(tracing.AttrItemCount, len(tree.Items)))
	}
	return tree, err
}

// CacheStats reports activity of the resolve cache.
func (s *RegistryService) CacheStats() cachemanager.Stats {
	return s.cache.Stats()
}
