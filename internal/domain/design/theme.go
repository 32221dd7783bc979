package design

import (
	"fmt"

	"github.com/hanzoai/design-registry/internal/domain/registry"
)

// RegistryTheme is the merged CSS variable bundle for one config.
type RegistryTheme struct {
	Name    string            `json:"name"`
	Type    registry.ItemType `json:"type"`
	Title   string            `json:"title"`
	CSSVars registry.CSSVars  `json:"cssVars"`
}

// Item returns the theme as a registry:theme item.
func (t RegistryTheme) Item() registry.Item {
	vars := t.CSSVars.Clone()
	return registry.Item{
		Name:    t.Name,
		Type:    registry.TypeTheme,
		Title:   t.Title,
		CSSVars: &vars,
	}
}

// boldAccentKeys maps source variables to the accent variables they replace
// when the bold menu accent is selected.
var boldAccentKeys = [][2]string{
	{"primary", "accent"},
	{"primary-foreground", "accent-foreground"},
	{"sidebar-primary", "sidebar-accent"},
	{"sidebar-primary-foreground", "sidebar-accent-foreground"},
}

// BuildRegistryTheme merges the base color and theme variables (theme wins),
// then applies the bold accent copy and the radius override in that order.
// The vocabulary is never modified.
func (r *Resolver) BuildRegistryTheme(cfg Config) (RegistryTheme, error) {
	bc, ok := r.vocab.BaseColor(cfg.BaseColor)
	if !ok {
		return RegistryTheme{}, &NotFoundError{Kind: "base color", Name: cfg.BaseColor}
	}
	th, ok := r.vocab.Theme(cfg.Theme)
	if !ok {
		return RegistryTheme{}, &NotFoundError{Kind: "theme", Name: cfg.Theme}
	}

	vars := registry.CSSVars{
		Theme: merge(bc.CSSVars.Theme, th.CSSVars.Theme),
		Light: merge(bc.CSSVars.Light, th.CSSVars.Light),
		Dark:  merge(bc.CSSVars.Dark, th.CSSVars.Dark),
	}

	if cfg.MenuAccent == MenuAccentBold {
		for _, m := range []map[string]string{vars.Light, vars.Dark} {
			for _, kv := range boldAccentKeys {
				if v, ok := m[kv[0]]; ok {
					m[kv[1]] = v
				}
			}
		}
	}

	if cfg.Radius != "" && cfg.Radius != RadiusDefault {
		rad, ok := r.vocab.Radius(cfg.Radius)
		if !ok {
			return RegistryTheme{}, &NotFoundError{Kind: "radius", Name: cfg.Radius}
		}
		vars.Light["radius"] = rad.Value
	}

	return RegistryTheme{
		Name:    fmt.Sprintf("%s-%s", bc.Name, th.Name),
		Type:    registry.TypeTheme,
		Title:   fmt.Sprintf("%s / %s", titleOr(bc.Option), titleOr(th.Option)),
		CSSVars: vars,
	}, nil
}

// merge returns a new map holding base overlaid with over. The result is
// never nil.
func merge(base, over map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

func titleOr(o Option) string {
	if o.Title != "" {
		return o.Title
	}
	return o.Name
}
