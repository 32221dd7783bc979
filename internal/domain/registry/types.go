package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownItemType is returned by ParseItemType for a tag outside the set.
var ErrUnknownItemType = errors.New("unknown item type")

const typePrefix = "registry:"

// ItemType is the closed set of registry item tags.
type ItemType string

const (
	TypeUI        ItemType = "registry:ui"
	TypeBlock     ItemType = "registry:block"
	TypeExample   ItemType = "registry:example"
	TypeHook      ItemType = "registry:hook"
	TypeLib       ItemType = "registry:lib"
	TypeComponent ItemType = "registry:component"
	TypeTheme     ItemType = "registry:theme"
	TypeStyle     ItemType = "registry:style"
	TypePage      ItemType = "registry:page"
	TypeFile      ItemType = "registry:file"
	TypeFont      ItemType = "registry:font"
	TypeItem      ItemType = "registry:item"
	TypeBase      ItemType = "registry:base"
	TypeAI        ItemType = "registry:ai"
	TypeFinance   ItemType = "registry:finance"
	Type3D        ItemType = "registry:3d"
	TypeAnimation ItemType = "registry:animation"
	TypeCode      ItemType = "registry:code"
)

// itemTypes lists every valid ItemType in declaration order.
var itemTypes = []ItemType{
	TypeUI, TypeBlock, TypeExample, TypeHook, TypeLib, TypeComponent,
	TypeTheme, TypeStyle, TypePage, TypeFile, TypeFont, TypeItem, TypeBase,
	TypeAI, TypeFinance, Type3D, TypeAnimation, TypeCode,
}

// ItemTypes returns every valid item type.
func ItemTypes() []ItemType {
	return slices.Clone(itemTypes)
}

// Valid reports whether t belongs to the closed type set.
func (t ItemType) Valid() bool {
	return slices.Contains(itemTypes, t)
}

// ParseItemType accepts a full tag such as "registry:ui" or its short
// form "ui".
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(s)
	if !strings.HasPrefix(s, typePrefix) {
		t = ItemType(typePrefix + s)
	}
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownItemType, s)
	}
	return t, nil
}

// String returns the tag as written in registry files.
func (t ItemType) String() string {
	return string(t)
}

// File is one file shipped with an item. Registry files may declare a file
// as a bare path string; it decodes to a File with only Path set.
type File struct {
	Path    string   `json:"path" yaml:"path"`
	Content string   `json:"content,omitempty" yaml:"content,omitempty"`
	Type    ItemType `json:"type,omitempty" yaml:"type,omitempty"`
	Target  string   `json:"target,omitempty" yaml:"target,omitempty"`
}

// CSSVars holds CSS custom properties grouped by scope.
type CSSVars struct {
	Theme map[string]string `json:"theme,omitempty" yaml:"theme,omitempty"`
	Light map[string]string `json:"light,omitempty" yaml:"light,omitempty"`
	Dark  map[string]string `json:"dark,omitempty" yaml:"dark,omitempty"`
}

// Empty reports whether no scope carries a variable.
func (c CSSVars) Empty() bool {
	return len(c.Theme) == 0 && len(c.Light) == 0 && len(c.Dark) == 0
}

// Clone returns a deep copy of the variable maps.
func (c CSSVars) Clone() CSSVars {
	return CSSVars{
		Theme: cloneVars(c.Theme),
		Light: cloneVars(c.Light),
		Dark:  cloneVars(c.Dark),
	}
}

func cloneVars(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ItemConfig carries the resolved design settings of a registry:base item.
type ItemConfig struct {
	Style       string `json:"style" yaml:"style"`
	IconLibrary string `json:"iconLibrary" yaml:"iconLibrary"`
	BaseColor   string `json:"baseColor,omitempty" yaml:"baseColor,omitempty"`
	Theme       string `json:"theme,omitempty" yaml:"theme,omitempty"`
	Font        string `json:"font,omitempty" yaml:"font,omitempty"`
	Radius      string `json:"radius,omitempty" yaml:"radius,omitempty"`
	MenuAccent  string `json:"menuAccent,omitempty" yaml:"menuAccent,omitempty"`
	MenuColor   string `json:"menuColor,omitempty" yaml:"menuColor,omitempty"`
	Template    string `json:"template,omitempty" yaml:"template,omitempty"`
}

// Item is the atomic unit of distributable registry content.
// Items are built once when a catalog loads and are never modified after an
// index is built from them; the index shares them by pointer across buckets.
type Item struct {
	Name                 string         `json:"name" yaml:"name"`
	Type                 ItemType       `json:"type" yaml:"type"`
	Title                string         `json:"title,omitempty" yaml:"title,omitempty"`
	Description          string         `json:"description,omitempty" yaml:"description,omitempty"`
	Category             string         `json:"category,omitempty" yaml:"category,omitempty"`
	Subcategory          string         `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
	Dependencies         []string       `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	DevDependencies      []string       `json:"devDependencies,omitempty" yaml:"devDependencies,omitempty"`
	RegistryDependencies []string       `json:"registryDependencies,omitempty" yaml:"registryDependencies,omitempty"`
	Files                []File         `json:"files,omitempty" yaml:"files,omitempty"`
	CSSVars              *CSSVars       `json:"cssVars,omitempty" yaml:"cssVars,omitempty"`
	CSS                  map[string]any `json:"css,omitempty" yaml:"css,omitempty"`
	Config               *ItemConfig    `json:"config,omitempty" yaml:"config,omitempty"`
	Meta                 map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Registry is a named collection of items. Provider registries set Base to
// the primitive provider they are built on; extension registries leave it
// empty.
type Registry struct {
	Name     string `json:"name" yaml:"name"`
	Homepage string `json:"homepage,omitempty" yaml:"homepage,omitempty"`
	Base     string `json:"base,omitempty" yaml:"base,omitempty"`
	Items    []Item `json:"items" yaml:"items"`
}
