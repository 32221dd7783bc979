package registry

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Builder errors
var (
	ErrNoStyles       = errors.New("index requires at least one style")
	ErrDuplicateStyle = errors.New("duplicate style")
	ErrMissingBase    = errors.New("provider registry must declare a base")
	ErrDuplicateBase  = errors.New("base already has a provider registry")
	ErrDuplicateItem  = errors.New("duplicate item name in registry")
	ErrCollision      = errors.New("item name collision")
)

// CollisionPolicy decides what the builder does when two registries place
// an item with the same name into one bucket.
type CollisionPolicy string

const (
	// PolicyExtensionsWin lets an extension item replace a provider item and
	// rejects collisions between two extension registries.
	PolicyExtensionsWin CollisionPolicy = "extensions-win"
	// PolicyStrict rejects every collision.
	PolicyStrict CollisionPolicy = "strict"
	// PolicyLastWins replaces the earlier item on every collision.
	PolicyLastWins CollisionPolicy = "last-wins"
)

// CollisionPolicies lists the accepted policies.
func CollisionPolicies() []CollisionPolicy {
	return []CollisionPolicy{PolicyExtensionsWin, PolicyStrict, PolicyLastWins}
}

// ParseCollisionPolicy converts a config value into a CollisionPolicy.
// An empty string selects PolicyExtensionsWin.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	if s == "" {
		return PolicyExtensionsWin, nil
	}
	for _, p := range CollisionPolicies() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown collision policy %q", s)
}

// CollisionKind classifies the two registries involved in a collision.
type CollisionKind string

const (
	ProviderExtension  CollisionKind = "provider-extension"
	ExtensionExtension CollisionKind = "extension-extension"
)

// Collision describes an incoming item whose name is already taken.
// Style is empty for collisions found while pooling extension registries.
type Collision struct {
	Kind           CollisionKind `json:"kind"`
	Style          string        `json:"style,omitempty"`
	Name           string        `json:"name"`
	ExistingSource string        `json:"existingSource"`
	IncomingSource string        `json:"incomingSource"`
	Existing       *Item         `json:"-"`
	Incoming       *Item         `json:"-"`
}

func (c Collision) String() string {
	where := "extension pool"
	if c.Style != "" {
		where = c.Style
	}
	return fmt.Sprintf("%s: %q from %s collides with %s", where, c.Name, c.IncomingSource, c.ExistingSource)
}

// CollisionError is returned by Build when the policy rejects a collision.
type CollisionError struct {
	Policy    CollisionPolicy
	Collision Collision
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s (policy %s): %s", ErrCollision, e.Policy, e.Collision)
}

func (e *CollisionError) Unwrap() error {
	return ErrCollision
}

// InsertOutcome tags the result of placing an item into a bucket.
type InsertOutcome int

const (
	Inserted InsertOutcome = iota
	Collided
)

// InsertResult is returned for every insertion. Collision is set only when
// Outcome is Collided.
type InsertResult struct {
	Outcome   InsertOutcome
	Collision *Collision
}

// slot is one item in a bucket together with the registry it came from.
type slot struct {
	item      *Item
	source    string
	extension bool
}

// bucket keeps items keyed by name in insertion order. Replacing an item
// keeps its original position.
type bucket struct {
	order []string
	items map[string]slot
}

func newBucket() *bucket {
	return &bucket{items: make(map[string]slot)}
}

func (b *bucket) insert(style string, s slot) InsertResult {
	existing, ok := b.items[s.item.Name]
	if !ok {
		b.order = append(b.order, s.item.Name)
		b.items[s.item.Name] = s
		return InsertResult{Outcome: Inserted}
	}
	kind := ProviderExtension
	if existing.extension && s.extension {
		kind = ExtensionExtension
	}
	return InsertResult{Outcome: Collided, Collision: &Collision{
		Kind:           kind,
		Style:          style,
		Name:           s.item.Name,
		ExistingSource: existing.source,
		IncomingSource: s.source,
		Existing:       existing.item,
		Incoming:       s.item,
	}}
}

func (b *bucket) replace(s slot) {
	b.items[s.item.Name] = s
}

// BuilderOption configures an IndexBuilder.
type BuilderOption func(*IndexBuilder)

// WithCollisionPolicy sets how collisions are resolved.
func WithCollisionPolicy(p CollisionPolicy) BuilderOption {
	return func(b *IndexBuilder) {
		b.policy = p
	}
}

// WithCollisionHandler registers fn to be called once for every collision
// the builder encounters, including the one that fails the build.
func WithCollisionHandler(fn func(Collision)) BuilderOption {
	return func(b *IndexBuilder) {
		b.onCollision = fn
	}
}

// IndexBuilder composes provider and extension registries into an Index.
type IndexBuilder struct {
	styles      []string
	policy      CollisionPolicy
	onCollision func(Collision)
	providers   []Registry
	extensions  []Registry
}

// NewIndexBuilder creates a builder that fans every provider out over styles.
func NewIndexBuilder(styles []string, opts ...BuilderOption) *IndexBuilder {
	b := &IndexBuilder{
		styles: styles,
		policy: PolicyExtensionsWin,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddProvider appends a per-base component registry. Providers are inserted
// in the order they are added.
func (b *IndexBuilder) AddProvider(reg Registry) *IndexBuilder {
	b.providers = append(b.providers, reg)
	return b
}

// AddExtension appends an extension registry. Extensions are pooled in the
// order they are added.
func (b *IndexBuilder) AddExtension(reg Registry) *IndexBuilder {
	b.extensions = append(b.extensions, reg)
	return b
}

// Build validates every item and returns the finished index.
//
// Each provider item is placed into one bucket per style, keyed
// BuildStyleName(base, style). Extension items are then pooled and overlaid
// onto every bucket. Collisions are reported to the collision handler and
// resolved by the policy.
func (b *IndexBuilder) Build() (*Index, error) {
	if len(b.styles) == 0 {
		return nil, ErrNoStyles
	}
	seenStyles := make(map[string]bool, len(b.styles))
	for _, s := range b.styles {
		if seenStyles[s] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStyle, s)
		}
		seenStyles[s] = true
	}

	idx := &Index{
		id:      uuid.NewString(),
		builtAt: time.Now(),
		buckets: make(map[string]*bucket),
	}

	providedBases := make(map[string]string)
	for _, reg := range b.providers {
		if reg.Base == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingBase, reg.Name)
		}
		if other, dup := providedBases[reg.Base]; dup {
			return nil, fmt.Errorf("%w: %s (registries %s and %s)", ErrDuplicateBase, reg.Base, other, reg.Name)
		}
		providedBases[reg.Base] = reg.Name

		items, err := validItems(reg)
		if err != nil {
			return nil, err
		}

		idx.bases = append(idx.bases, reg.Base)
		for _, style := range b.styles {
			key := BuildStyleName(reg.Base, style)
			bk := newBucket()
			idx.buckets[key] = bk
			idx.styles = append(idx.styles, key)
			for _, it := range items {
				// Names are unique within a provider, so this never collides.
				bk.insert(key, slot{item: it, source: reg.Name})
			}
		}
	}

	pool, err := b.poolExtensions(idx)
	if err != nil {
		return nil, err
	}

	for _, key := range idx.styles {
		bk := idx.buckets[key]
		for _, s := range pool.slots() {
			res := bk.insert(key, s)
			if res.Outcome == Inserted {
				continue
			}
			if err := b.handle(idx, *res.Collision); err != nil {
				return nil, err
			}
			bk.replace(s)
		}
	}

	return idx, nil
}

// poolExtensions flattens the extension registries into one ordered pool.
func (b *IndexBuilder) poolExtensions(idx *Index) (*bucket, error) {
	pool := newBucket()
	for _, reg := range b.extensions {
		items, err := validItems(reg)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			s := slot{item: it, source: reg.Name, extension: true}
			res := pool.insert("", s)
			if res.Outcome == Inserted {
				continue
			}
			if err := b.handle(idx, *res.Collision); err != nil {
				return nil, err
			}
			pool.replace(s)
		}
	}
	return pool, nil
}

// handle records a collision and returns an error if the policy rejects it.
func (b *IndexBuilder) handle(idx *Index, c Collision) error {
	idx.collisions = append(idx.collisions, c)
	if b.onCollision != nil {
		b.onCollision(c)
	}

	reject := false
	switch b.policy {
	case PolicyStrict:
		reject = true
	case PolicyExtensionsWin:
		reject = c.Kind == ExtensionExtension
	}
	if reject {
		return &CollisionError{Policy: b.policy, Collision: c}
	}
	return nil
}

// validItems validates every item of reg and returns stable pointers to
// copies of them.
func validItems(reg Registry) ([]*Item, error) {
	items := make([]*Item, 0, len(reg.Items))
	seen := make(map[string]bool, len(reg.Items))
	for i := range reg.Items {
		it := reg.Items[i]
		if err := it.Validate(); err != nil {
			var sve *SchemaValidationError
			if errors.As(err, &sve) {
				sve.Registry = reg.Name
			}
			return nil, err
		}
		if seen[it.Name] {
			return nil, fmt.Errorf("%w: %s in %s", ErrDuplicateItem, it.Name, reg.Name)
		}
		seen[it.Name] = true
		items = append(items, &it)
	}
	return items, nil
}

func (b *bucket) slots() []slot {
	out := make([]slot, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.items[name])
	}
	return out
}
