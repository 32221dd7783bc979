package registry

import (
	"slices"
	"time"
)

// Index is the flat style-name to item-name lookup table produced by
// IndexBuilder. It is never modified after Build returns and is safe for
// concurrent readers.
type Index struct {
	id         string
	builtAt    time.Time
	bases      []string
	styles     []string // bucket keys in creation order
	buckets    map[string]*bucket
	collisions []Collision
}

// ID returns the unique identifier assigned to this build.
func (x *Index) ID() string {
	return x.id
}

// BuiltAt returns when the index was built.
func (x *Index) BuiltAt() time.Time {
	return x.builtAt
}

// Bases returns the provider bases in insertion order.
func (x *Index) Bases() []string {
	return slices.Clone(x.bases)
}

// Styles returns every style name in the index, grouped by base in provider
// order and by visual style within a base.
func (x *Index) Styles() []string {
	return slices.Clone(x.styles)
}

// StyleInfo summarizes one key of the index.
type StyleInfo struct {
	Name  string `json:"name"`
	Base  string `json:"base"`
	Style string `json:"style"`
	Items int    `json:"items"`
}

// StyleInfos summarizes every style in Styles order.
func (x *Index) StyleInfos() []StyleInfo {
	infos := make([]StyleInfo, 0, len(x.styles))
	for _, name := range x.styles {
		base, style, _ := ParseStyleName(name)
		infos = append(infos, StyleInfo{
			Name:  name,
			Base:  base,
			Style: style,
			Items: len(x.buckets[name].order),
		})
	}
	return infos
}

// HasStyle reports whether style is a key of the index.
func (x *Index) HasStyle(style string) bool {
	_, ok := x.buckets[style]
	return ok
}

// Items returns every item in the style bucket in insertion order, or an
// empty slice if the style is unknown.
func (x *Index) Items(style string) []Item {
	bk, ok := x.buckets[style]
	if !ok {
		return []Item{}
	}
	items := make([]Item, 0, len(bk.order))
	for _, name := range bk.order {
		items = append(items, *bk.items[name].item)
	}
	return items
}

// Item returns the named item in the style bucket. The second result is
// false when either the style or the item is unknown.
func (x *Index) Item(name, style string) (Item, bool) {
	it := x.lookup(name, style)
	if it == nil {
		return Item{}, false
	}
	return *it, true
}

// Source returns the name of the registry that supplied the item.
func (x *Index) Source(name, style string) (string, bool) {
	bk, ok := x.buckets[style]
	if !ok {
		return "", false
	}
	s, ok := bk.items[name]
	if !ok {
		return "", false
	}
	return s.source, true
}

// ItemsByType returns the items of one type in the style bucket.
func (x *Index) ItemsByType(t ItemType, style string) []Item {
	items := []Item{}
	for _, it := range x.Items(style) {
		if it.Type == t {
			items = append(items, it)
		}
	}
	return items
}

// Collisions returns every collision recorded while building the index.
func (x *Index) Collisions() []Collision {
	return slices.Clone(x.collisions)
}

func (x *Index) lookup(name, style string) *Item {
	bk, ok := x.buckets[style]
	if !ok {
		return nil
	}
	s, ok := bk.items[name]
	if !ok {
		return nil
	}
	return s.item
}

func (x *Index) UIComponents(style string) []Item      { return x.ItemsByType(TypeUI, style) }
func (x *Index) Blocks(style string) []Item            { return x.ItemsByType(TypeBlock, style) }
func (x *Index) Examples(style string) []Item          { return x.ItemsByType(TypeExample, style) }
func (x *Index) Hooks(style string) []Item             { return x.ItemsByType(TypeHook, style) }
func (x *Index) AIComponents(style string) []Item      { return x.ItemsByType(TypeAI, style) }
func (x *Index) FinanceComponents(style string) []Item { return x.ItemsByType(TypeFinance, style) }
func (x *Index) ThreeDComponents(style string) []Item  { return x.ItemsByType(Type3D, style) }
func (x *Index) Animations(style string) []Item        { return x.ItemsByType(TypeAnimation, style) }
func (x *Index) CodeComponents(style string) []Item    { return x.ItemsByType(TypeCode, style) }
