// Package registry is the application layer over the registry and design
// domains.
//
// LoadCatalog reads a catalog directory (the embedded one from
// internal/catalog, or any fs.FS with the same layout) and returns the
// parsed vocabulary and registries. RegistryService builds an index and a
// resolver from it and serves both until the next Reload.
//
// A reload builds a complete new generation off to the side and swaps it in
// atomically; readers holding the previous index keep a consistent view.
//
// This package has the same name as the domain registry package. Import the
// domain package under an alias when both are needed:
//
//	import (
//	    domainreg "github.com/hanzoai/design-registry/internal/domain/registry"
//	    appreg "github.com/hanzoai/design-registry/internal/application/registry"
//	)
package registry
