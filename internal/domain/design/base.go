package design

import (
	"fmt"

	"github.com/hanzoai/design-registry/internal/domain/registry"
)

// Dependencies every generated base carries ahead of its own.
var globalDependencies = []string{"class-variance-authority", "tw-animate-css"}

// utilsDependency is the registry item every base depends on.
const utilsDependency = "utils"

// TailwindConfig is the Tailwind section of a generated project config.
type TailwindConfig struct {
	BaseColor    string `json:"baseColor"`
	CSSVariables bool   `json:"cssVariables"`
	CSS          string `json:"css"`
	Prefix       string `json:"prefix"`
}

// RegistryBase is the dependency and config bundle for one config.
type RegistryBase struct {
	Name                 string              `json:"name"`
	Type                 registry.ItemType   `json:"type"`
	Title                string              `json:"title"`
	Dependencies         []string            `json:"dependencies"`
	RegistryDependencies []string            `json:"registryDependencies"`
	Config               registry.ItemConfig `json:"config"`
	CSSVars              registry.CSSVars    `json:"cssVars"`
	CSS                  map[string]any      `json:"css"`
	Tailwind             TailwindConfig      `json:"tailwind"`
	Theme                RegistryTheme       `json:"theme"`
}

// Item returns the base as a registry:base item.
func (b RegistryBase) Item() registry.Item {
	vars := b.CSSVars.Clone()
	cfg := b.Config
	return registry.Item{
		Name:                 b.Name,
		Type:                 registry.TypeBase,
		Title:                b.Title,
		Dependencies:         append([]string(nil), b.Dependencies...),
		RegistryDependencies: append([]string(nil), b.RegistryDependencies...),
		CSSVars:              &vars,
		CSS:                  b.CSS,
		Config:               &cfg,
	}
}

// BuildRegistryBase assembles the install bundle: the global dependencies,
// the base's dependencies and the icon packages in that order without
// repeats, the utils and font registry dependencies, and the theme built by
// BuildRegistryTheme.
func (r *Resolver) BuildRegistryBase(cfg Config) (RegistryBase, error) {
	base, ok := r.vocab.Base(cfg.Base)
	if !ok {
		return RegistryBase{}, &NotFoundError{Kind: "base", Name: cfg.Base}
	}
	style, ok := r.vocab.Style(cfg.Style)
	if !ok {
		return RegistryBase{}, &NotFoundError{Kind: "style", Name: cfg.Style}
	}
	icons, ok := r.vocab.IconLibrary(cfg.IconLibrary)
	if !ok {
		return RegistryBase{}, &NotFoundError{Kind: "icon library", Name: cfg.IconLibrary}
	}

	var font *Font
	if cfg.Font != "" {
		f, ok := r.vocab.Font(cfg.Font)
		if !ok {
			return RegistryBase{}, &NotFoundError{Kind: "font", Name: cfg.Font}
		}
		font = &f
	}

	theme, err := r.BuildRegistryTheme(cfg)
	if err != nil {
		return RegistryBase{}, err
	}

	deps := dedupe(globalDependencies, base.Dependencies, icons.Packages)
	registryDeps := []string{utilsDependency}
	vars := theme.CSSVars.Clone()
	if font != nil {
		registryDeps = append(registryDeps, "font-"+font.Name)
		if vars.Theme == nil {
			vars.Theme = make(map[string]string)
		}
		vars.Theme["font-sans"] = font.Family
	}

	styleName := cfg.StyleName()
	return RegistryBase{
		Name:                 styleName,
		Type:                 registry.TypeBase,
		Title:                fmt.Sprintf("%s %s", titleOr(base.Option), titleOr(style.Option)),
		Dependencies:         deps,
		RegistryDependencies: registryDeps,
		Config: registry.ItemConfig{
			Style:       styleName,
			IconLibrary: icons.Name,
			BaseColor:   cfg.BaseColor,
			Theme:       cfg.Theme,
			Font:        cfg.Font,
			Radius:      cfg.Radius,
			MenuAccent:  cfg.MenuAccent,
			MenuColor:   cfg.MenuColor,
			Template:    cfg.Template,
		},
		CSSVars: vars,
		CSS: map[string]any{
			`@import "tw-animate-css"`: map[string]any{},
			"@layer base": map[string]any{
				"*":    map[string]any{"@apply border-border outline-ring/50": map[string]any{}},
				"body": map[string]any{"@apply bg-background text-foreground": map[string]any{}},
			},
		},
		Tailwind: TailwindConfig{
			BaseColor:    cfg.BaseColor,
			CSSVariables: true,
			CSS:          "app/globals.css",
		},
		Theme: theme,
	}, nil
}

// dedupe concatenates lists keeping the first occurrence of each value.
func dedupe(lists ...[]string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, v := range list {
			if seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
