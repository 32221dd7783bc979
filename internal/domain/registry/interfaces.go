package registry

// IndexProvider defines read-only access to a built index.
// Static publish depends on this interface rather than on *Index.
type IndexProvider interface {
	// ID returns the identifier of the build that produced the index.
	ID() string

	// Styles returns every style name in the index.
	Styles() []string

	// StyleInfos describes every style with its base and item count.
	StyleInfos() []StyleInfo

	// HasStyle reports whether the style name is a key of the index.
	HasStyle(style string) bool

	// Items returns the items of a style bucket, empty for an unknown style.
	Items(style string) []Item

	// Item returns a single item; false if the style or name is unknown.
	Item(name, style string) (Item, bool)

	// ItemsByType filters a style bucket by item type.
	ItemsByType(t ItemType, style string) []Item

	// ResolveTree returns the item and its transitive registry dependencies.
	ResolveTree(name, style string) (Tree, error)
}

// Compile-time check that Index implements IndexProvider.
var _ IndexProvider = (*Index)(nil)
