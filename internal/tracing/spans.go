package tracing

// Span attribute keys.
const (
	AttrIndexID      = "registry.index.id"
	AttrStyle        = "registry.style"
	AttrItemName     = "registry.item.name"
	AttrItemType     = "registry.item.type"
	AttrItemCount    = "registry.item.count"
	AttrStyleCount   = "registry.style.count"
	AttrCollisions   = "registry.collisions"
	AttrPolicy       = "registry.collision_policy"
	AttrDesignKey    = "design.config.key"
	AttrDesignStyle  = "design.style_name"
	AttrCacheHit     = "cache.hit"
	AttrHTTPRoute    = "http.route"
	AttrHTTPMethod   = "http.request.method"
	AttrHTTPStatus   = "http.response.status_code"
	AttrMCPToolName  = "mcp.tool.name"
	AttrExportSink   = "export.sink"
	AttrExportFiles  = "export.files"
	AttrErrorMessage = "error.message"
)

// Span names.
const (
	SpanCatalogLoad = "catalog.load"
	SpanIndexBuild  = "index.build"
	SpanReload      = "registry.reload"
	SpanResolve     = "design.resolve"
	SpanResolveTree = "registry.resolve_tree"
	SpanPublish     = "export.publish"
	SpanSnapshot    = "export.snapshot"
	SpanPrefixHTTP  = "http."
	SpanPrefixMCP   = "mcp.tool."
)

// Event names.
const (
	EventCollision    = "index.collision"
	EventCacheHit     = "cache.hit"
	EventReloadFailed = "reload.failed"
)
