package design

import (
	"fmt"
	"strings"

	"github.com/hanzoai/design-registry/internal/domain/registry"
)

// Well-known option values with behavior attached.
const (
	RadiusDefault    = "default"
	MenuAccentSubtle = "subtle"
	MenuAccentBold   = "bold"
)

// Config is the selection tuple every derived artifact is built from.
// It is a plain value; changing a field means re-deriving everything.
type Config struct {
	Base        string `json:"base" yaml:"base" mapstructure:"base"`
	Style       string `json:"style" yaml:"style" mapstructure:"style"`
	IconLibrary string `json:"iconLibrary" yaml:"icon_library" mapstructure:"icon_library"`
	BaseColor   string `json:"baseColor" yaml:"base_color" mapstructure:"base_color"`
	Theme       string `json:"theme" yaml:"theme" mapstructure:"theme"`
	Font        string `json:"font,omitempty" yaml:"font" mapstructure:"font"`
	MenuAccent  string `json:"menuAccent,omitempty" yaml:"menu_accent" mapstructure:"menu_accent"`
	MenuColor   string `json:"menuColor,omitempty" yaml:"menu_color" mapstructure:"menu_color"`
	Radius      string `json:"radius,omitempty" yaml:"radius" mapstructure:"radius"`
	Template    string `json:"template,omitempty" yaml:"template" mapstructure:"template"`
}

// DefaultConfig returns the stock Hanzo selection.
func DefaultConfig() Config {
	return Config{
		Base:        "radix",
		Style:       "hanzo",
		IconLibrary: "lucide",
		BaseColor:   "neutral",
		Theme:       "hanzo",
		Font:        "inter",
		MenuAccent:  MenuAccentSubtle,
		MenuColor:   "default",
		Radius:      RadiusDefault,
		Template:    "next",
	}
}

// StyleName returns the index key the config selects.
func (c Config) StyleName() string {
	return registry.BuildStyleName(c.Base, c.Style)
}

// WithDefaults fills empty fields from def.
func (c Config) WithDefaults(def Config) Config {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&c.Base, def.Base)
	fill(&c.Style, def.Style)
	fill(&c.IconLibrary, def.IconLibrary)
	fill(&c.BaseColor, def.BaseColor)
	fill(&c.Theme, def.Theme)
	fill(&c.Font, def.Font)
	fill(&c.MenuAccent, def.MenuAccent)
	fill(&c.MenuColor, def.MenuColor)
	fill(&c.Radius, def.Radius)
	fill(&c.Template, def.Template)
	return c
}

// Key returns a canonical string identifying the selection, suitable as a
// cache key. Equal configs always produce equal keys.
func (c Config) Key() string {
	return strings.Join([]string{
		c.Base, c.Style, c.IconLibrary, c.BaseColor, c.Theme,
		c.Font, c.MenuAccent, c.MenuColor, c.Radius, c.Template,
	}, "|")
}

// FieldNames returns the JSON name of every Config field in declaration
// order.
func FieldNames() []string {
	return []string{
		"base", "style", "iconLibrary", "baseColor", "theme",
		"font", "menuAccent", "menuColor", "radius", "template",
	}
}

var fieldSeparators = strings.NewReplacer("_", "", "-", "")

// field resolves a JSON, YAML or flag field name, e.g. "baseColor",
// "base_color" or "base-color", to its storage.
func (c *Config) field(name string) (*string, error) {
	switch fieldSeparators.Replace(strings.ToLower(name)) {
	case "base":
		return &c.Base, nil
	case "style":
		return &c.Style, nil
	case "iconlibrary":
		return &c.IconLibrary, nil
	case "basecolor":
		return &c.BaseColor, nil
	case "theme":
		return &c.Theme, nil
	case "font":
		return &c.Font, nil
	case "menuaccent":
		return &c.MenuAccent, nil
	case "menucolor":
		return &c.MenuColor, nil
	case "radius":
		return &c.Radius, nil
	case "template":
		return &c.Template, nil
	}
	return nil, fmt.Errorf("unknown design field %q", name)
}

// Set assigns a field by any of its names.
func (c *Config) Set(field, value string) error {
	p, err := c.field(field)
	if err != nil {
		return err
	}
	*p = value
	return nil
}

// Get returns a field by any of its names.
func (c Config) Get(field string) (string, error) {
	p, err := c.field(field)
	if err != nil {
		return "", err
	}
	return *p, nil
}
