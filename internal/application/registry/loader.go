package registry

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	stdpath "path"

	"gopkg.in/yaml.v3"

	"github.com/hanzoai/design-registry/internal/catalog"
	"github.com/hanzoai/design-registry/internal/domain/design"
	"github.com/hanzoai/design-registry/internal/domain/registry"
	"github.com/hanzoai/design-registry/internal/log"
)

// ErrInvalidCatalog reports a catalog whose files are individually valid
// but inconsistent with each other, or a malformed manifest.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Manifest is the root structure of catalog.yaml.
type Manifest struct {
	Vocabulary string   `yaml:"vocabulary"` // Vocabulary file, relative to the manifest
	Providers  []string `yaml:"providers"`  // Provider registries in insertion order
	Extensions []string `yaml:"extensions"` // Extension registries in pool order
}

// Catalog is everything an index and a resolver are built from.
type Catalog struct {
	Vocabulary *design.Vocabulary
	Providers  []registry.Registry
	Extensions []registry.Registry
}

// Styles returns the style names of the vocabulary in declaration order.
func (c *Catalog) Styles() []string {
	return c.Vocabulary.StyleNames()
}

// LoadCatalog reads the manifest at the root of fsys and every file it
// names. Registry files are schema-checked item by item, so malformed data
// fails here with the complete issue list rather than at build time.
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	var manifest Manifest
	if err := decodeStrict(fsys, catalog.ManifestFile, &manifest); err != nil {
		return nil, err
	}
	if manifest.Vocabulary == "" {
		return nil, fmt.Errorf("%w: %s: vocabulary is required", ErrInvalidCatalog, catalog.ManifestFile)
	}
	if len(manifest.Providers) == 0 {
		return nil, fmt.Errorf("%w: %s: at least one provider is required", ErrInvalidCatalog, catalog.ManifestFile)
	}

	var vocab design.Vocabulary
	if err := decodeStrict(fsys, manifest.Vocabulary, &vocab); err != nil {
		return nil, err
	}
	if err := vocab.Check(); err != nil {
		return nil, fmt.Errorf("%s: %w", manifest.Vocabulary, err)
	}

	cat := &Catalog{Vocabulary: &vocab}
	for _, path := range manifest.Providers {
		reg, err := loadRegistry(fsys, path)
		if err != nil {
			return nil, err
		}
		cat.Providers = append(cat.Providers, reg)
	}
	for _, path := range manifest.Extensions {
		reg, err := loadRegistry(fsys, path)
		if err != nil {
			return nil, err
		}
		if reg.Base != "" {
			return nil, fmt.Errorf("%w: %s: extension registry %q must not declare a base", ErrInvalidCatalog, path, reg.Name)
		}
		cat.Extensions = append(cat.Extensions, reg)
	}

	if err := checkProviders(cat); err != nil {
		return nil, err
	}

	log.Debug(log.CatCatalog, "Loaded catalog",
		"providers", len(cat.Providers),
		"extensions", len(cat.Extensions),
		"styles", len(vocab.Styles),
		"themes", len(vocab.Themes))
	return cat, nil
}

// checkProviders verifies every provider names a known base and every base
// has exactly one provider.
func checkProviders(cat *Catalog) error {
	var errs []error
	provided := make(map[string]string)
	for _, reg := range cat.Providers {
		switch {
		case reg.Base == "":
			errs = append(errs, fmt.Errorf("provider registry %q declares no base", reg.Name))
		case !hasBase(cat.Vocabulary, reg.Base):
			errs = append(errs, fmt.Errorf("provider registry %q declares unknown base %q", reg.Name, reg.Base))
		}
		if other, dup := provided[reg.Base]; dup && reg.Base != "" {
			errs = append(errs, fmt.Errorf("base %q is provided by both %q and %q", reg.Base, other, reg.Name))
		}
		provided[reg.Base] = reg.Name
	}
	for _, name := range cat.Vocabulary.BaseNames() {
		if _, ok := provided[name]; !ok {
			errs = append(errs, fmt.Errorf("base %q has no provider registry", name))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
	}
	return nil
}

func hasBase(v *design.Vocabulary, name string) bool {
	_, ok := v.Base(name)
	return ok
}

// loadRegistry decodes a registry file generically and runs the schema parse.
func loadRegistry(fsys fs.FS, path string) (registry.Registry, error) {
	content, err := fs.ReadFile(fsys, stdpath.Clean(path))
	if err != nil {
		return registry.Registry{}, fmt.Errorf("read %s: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return registry.Registry{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if raw == nil {
		return registry.Registry{}, fmt.Errorf("%w: %s is empty", ErrInvalidCatalog, path)
	}

	reg, err := registry.ParseRegistry(raw)
	if err != nil {
		return registry.Registry{}, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug(log.CatCatalog, "Loaded registry", "path", path, "name", reg.Name, "items", len(reg.Items))
	return reg, nil
}

// decodeStrict decodes a YAML file, rejecting unknown fields.
func decodeStrict(fsys fs.FS, path string, out any) error {
	content, err := fs.ReadFile(fsys, stdpath.Clean(path))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
