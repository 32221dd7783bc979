package design

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hanzoai/design-registry/internal/domain/registry"
)

// Option is the record shared by every vocabulary table.
type Option struct {
	Name         string           `json:"name" yaml:"name"`
	Title        string           `json:"title" yaml:"title"`
	Description  string           `json:"description,omitempty" yaml:"description,omitempty"`
	Dependencies []string         `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	CSSVars      registry.CSSVars `json:"cssVars" yaml:"cssVars,omitempty"`
}

// OptionName returns the table key of the record.
func (o Option) OptionName() string {
	return o.Name
}

// Base is a headless primitive provider such as Radix UI.
type Base struct {
	Option `yaml:",inline"`
}

// Style is a visual style preset layered on a base.
type Style struct {
	Option `yaml:",inline"`
}

// Theme is a set of color variables. A theme named after a base color only
// pairs with that base color; any other theme is universal.
type Theme struct {
	Option `yaml:",inline"`
}

// BaseColor is a neutral palette.
type BaseColor struct {
	Option `yaml:",inline"`
}

// Font is a selectable typeface. Selecting a font adds the font-<name>
// registry dependency.
type Font struct {
	Option `yaml:",inline"`
	Family string `json:"family" yaml:"family"`
}

// IconLibrary is an icon set and the packages that ship it.
type IconLibrary struct {
	Option   `yaml:",inline"`
	Packages []string `json:"packages" yaml:"packages"`
}

// Radius maps a named corner radius to its CSS value. The default radius
// leaves the theme untouched.
type Radius struct {
	Option `yaml:",inline"`
	Value  string `json:"value" yaml:"value"`
}

type MenuAccent struct {
	Option `yaml:",inline"`
}

type MenuColor struct {
	Option `yaml:",inline"`
}

type Template struct {
	Option `yaml:",inline"`
}

// Vocabulary holds the ordered option tables a Config selects from.
type Vocabulary struct {
	Bases         []Base        `json:"bases" yaml:"bases"`
	Styles        []Style       `json:"styles" yaml:"styles"`
	Themes        []Theme       `json:"themes" yaml:"themes"`
	BaseColors    []BaseColor   `json:"baseColors" yaml:"base_colors"`
	Fonts         []Font        `json:"fonts" yaml:"fonts"`
	IconLibraries []IconLibrary `json:"iconLibraries" yaml:"icon_libraries"`
	Radii         []Radius      `json:"radii" yaml:"radii"`
	MenuAccents   []MenuAccent  `json:"menuAccents" yaml:"menu_accents"`
	MenuColors    []MenuColor   `json:"menuColors" yaml:"menu_colors"`
	Templates     []Template    `json:"templates" yaml:"templates"`
}

type named interface {
	OptionName() string
}

func find[T named](list []T, name string) (T, bool) {
	for _, o := range list {
		if o.OptionName() == name {
			return o, true
		}
	}
	var zero T
	return zero, false
}

func names[T named](list []T) []string {
	out := make([]string, 0, len(list))
	for _, o := range list {
		out = append(out, o.OptionName())
	}
	return out
}

func (v *Vocabulary) Base(name string) (Base, bool)               { return find(v.Bases, name) }
func (v *Vocabulary) Style(name string) (Style, bool)             { return find(v.Styles, name) }
func (v *Vocabulary) Theme(name string) (Theme, bool)             { return find(v.Themes, name) }
func (v *Vocabulary) BaseColor(name string) (BaseColor, bool)     { return find(v.BaseColors, name) }
func (v *Vocabulary) Font(name string) (Font, bool)               { return find(v.Fonts, name) }
func (v *Vocabulary) IconLibrary(name string) (IconLibrary, bool) { return find(v.IconLibraries, name) }
func (v *Vocabulary) Radius(name string) (Radius, bool)           { return find(v.Radii, name) }
func (v *Vocabulary) MenuAccent(name string) (MenuAccent, bool)   { return find(v.MenuAccents, name) }
func (v *Vocabulary) MenuColor(name string) (MenuColor, bool)     { return find(v.MenuColors, name) }
func (v *Vocabulary) Template(name string) (Template, bool)       { return find(v.Templates, name) }

// BaseNames returns the base keys in table order.
func (v *Vocabulary) BaseNames() []string { return names(v.Bases) }

// StyleNames returns the visual style keys in table order.
func (v *Vocabulary) StyleNames() []string { return names(v.Styles) }

// ThemesForBaseColor returns the themes that may be paired with baseColor:
// the theme of the same name, and every theme whose name is not a base color.
func (v *Vocabulary) ThemesForBaseColor(baseColor string) []Theme {
	themes := []Theme{}
	for _, t := range v.Themes {
		if t.Name == baseColor || !v.isBaseColor(t.Name) {
			themes = append(themes, t)
		}
	}
	return themes
}

func (v *Vocabulary) isBaseColor(name string) bool {
	_, ok := v.BaseColor(name)
	return ok
}

// Check reports structural problems in the tables: empty required tables,
// unnamed or duplicate records, and base names that would make style names
// ambiguous.
func (v *Vocabulary) Check() error {
	var errs []error
	for _, t := range []struct {
		table string
		n     int
	}{
		{"bases", len(v.Bases)},
		{"styles", len(v.Styles)},
		{"themes", len(v.Themes)},
		{"base_colors", len(v.BaseColors)},
		{"icon_libraries", len(v.IconLibraries)},
	} {
		if t.n == 0 {
			errs = append(errs, fmt.Errorf("%w: %s is empty", ErrInvalidVocabulary, t.table))
		}
	}

	errs = append(errs, checkNames("bases", names(v.Bases))...)
	errs = append(errs, checkNames("styles", names(v.Styles))...)
	errs = append(errs, checkNames("themes", names(v.Themes))...)
	errs = append(errs, checkNames("base_colors", names(v.BaseColors))...)
	errs = append(errs, checkNames("fonts", names(v.Fonts))...)
	errs = append(errs, checkNames("icon_libraries", names(v.IconLibraries))...)
	errs = append(errs, checkNames("radii", names(v.Radii))...)
	errs = append(errs, checkNames("menu_accents", names(v.MenuAccents))...)
	errs = append(errs, checkNames("menu_colors", names(v.MenuColors))...)
	errs = append(errs, checkNames("templates", names(v.Templates))...)

	for _, b := range v.Bases {
		if strings.Contains(b.Name, "-") {
			errs = append(errs, fmt.Errorf("%w: base %q must not contain '-'", ErrInvalidVocabulary, b.Name))
		}
	}
	return errors.Join(errs...)
}

func checkNames(table string, list []string) []error {
	var errs []error
	seen := make(map[string]bool, len(list))
	for i, n := range list {
		if n == "" {
			errs = append(errs, fmt.Errorf("%w: %s[%d] has no name", ErrInvalidVocabulary, table, i))
			continue
		}
		if seen[n] {
			errs = append(errs, fmt.Errorf("%w: duplicate %s entry %q", ErrInvalidVocabulary, table, n))
		}
		seen[n] = true
	}
	return errs
}
