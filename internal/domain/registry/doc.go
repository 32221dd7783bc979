// Package registry implements the domain layer of the component registry.
//
// This package follows Domain-Driven Design (DDD) principles:
//   - Contains only pure Go code (no file I/O, YAML parsing or logging)
//   - Defines entity types (Item, Registry) and value objects (File, CSSVars)
//   - Implements domain logic (schema validation, index composition, dependency trees)
//
// # Schema
//
// ItemType is the closed set of item tags. ParseItem and ParseRegistry
// validate generic records and report every violated field at once in a
// SchemaValidationError.
//
// # Index
//
// IndexBuilder fans each provider registry out over the configured styles,
// one bucket per BuildStyleName(base, style), then overlays the pooled
// extension registries onto every bucket. Every insertion yields an
// InsertResult; collisions are handed to the collision handler and resolved
// by a CollisionPolicy instead of being silently overwritten.
//
// Index is the immutable result. Items, Item, ItemsByType and the named
// per-type wrappers never fail: unknown styles yield an empty slice and
// unknown names yield false. ResolveTree flattens an item's registry
// dependencies within one bucket.
//
// IndexProvider is the interface that Index implements, enabling dependency
// injection and hand-built indexes in tests.
package registry
