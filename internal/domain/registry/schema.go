package registry

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidItem is wrapped by every SchemaValidationError.
var ErrInvalidItem = errors.New("invalid registry item")

// Issue codes reported in a SchemaValidationError.
const (
	CodeRequired     = "required"
	CodeInvalidType  = "invalid_type"
	CodeInvalidEnum  = "invalid_enum"
	CodeNotAllowed   = "not_allowed"
	CodeInvalidValue = "invalid_value"
)

var itemNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// ReservedItemName is the document name of a bucket listing, so no item may
// use it.
const ReservedItemName = "index"

// Keys accepted on each record kind. "$schema" is allowed and ignored.
var (
	itemKeys = []string{
		"$schema", "name", "type", "title", "description", "category", "subcategory",
		"dependencies", "devDependencies", "registryDependencies",
		"files", "cssVars", "css", "config", "meta",
	}
	fileKeys     = []string{"path", "content", "type", "target"}
	configKeys   = []string{"style", "iconLibrary", "baseColor", "theme", "font", "radius", "menuAccent", "menuColor", "template"}
	registryKeys = []string{"$schema", "name", "homepage", "base", "items"}
)

// Issue is a single field that violated the item schema.
type Issue struct {
	Path    string `json:"path"` // JSON pointer, e.g. /items/2/files/0/path
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SchemaValidationError lists every schema violation found in one item or
// registry record.
type SchemaValidationError struct {
	Registry string  `json:"registry,omitempty"`
	Item     string  `json:"item,omitempty"`
	Issues   []Issue `json:"issues"`
}

func (e *SchemaValidationError) Error() string {
	var b strings.Builder
	switch {
	case e.Registry != "" && e.Item != "":
		fmt.Fprintf(&b, "registry %q item %q", e.Registry, e.Item)
	case e.Registry != "":
		fmt.Fprintf(&b, "registry %q", e.Registry)
	case e.Item != "":
		fmt.Fprintf(&b, "item %q", e.Item)
	default:
		b.WriteString("registry record")
	}
	b.WriteString(": ")

	const maxShown = 3
	for i, is := range e.Issues {
		if i == maxShown {
			fmt.Fprintf(&b, "; ... (total %d)", len(e.Issues))
			break
		}
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s at %s", is.Code, is.Path)
	}
	return b.String()
}

func (e *SchemaValidationError) Unwrap() error {
	return ErrInvalidItem
}

// parser accumulates issues while decoding a generic record. Only the first
// issue per path is kept so structural and semantic checks don't repeat.
type parser struct {
	issues []Issue
	seen   map[string]bool
}

func newParser() *parser {
	return &parser{seen: make(map[string]bool)}
}

func (p *parser) add(path, code, format string, args ...any) {
	if p.seen[path] {
		return
	}
	p.seen[path] = true
	p.issues = append(p.issues, Issue{Path: path, Code: code, Message: fmt.Sprintf(format, args...)})
}

func kindOf(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// known reports every key of raw outside allowed.
func (p *parser) known(raw map[string]any, base string, allowed []string) {
	for _, k := range sortedKeys(raw) {
		if !slices.Contains(allowed, k) {
			p.add(base+"/"+k, CodeNotAllowed, "unknown field %q", k)
		}
	}
}

func (p *parser) str(raw map[string]any, base, key string, required bool) string {
	path := base + "/" + key
	v, ok := raw[key]
	if !ok || v == nil {
		if required {
			p.add(path, CodeRequired, "%s is required", key)
		}
		return ""
	}
	s, ok := v.(string)
	if !ok {
		p.add(path, CodeInvalidType, "expected string, got %s", kindOf(v))
		return ""
	}
	return s
}

func (p *parser) strs(raw map[string]any, base, key string) []string {
	path := base + "/" + key
	v, ok := raw[key]
	if !ok || v == nil {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		p.add(path, CodeInvalidType, "expected array, got %s", kindOf(v))
		return nil
	}
	out := make([]string, 0, len(list))
	for i, e := range list {
		s, ok := e.(string)
		if !ok {
			p.add(fmt.Sprintf("%s/%d", path, i), CodeInvalidType, "expected string, got %s", kindOf(e))
			continue
		}
		out = append(out, s)
	}
	return out
}

func (p *parser) object(raw map[string]any, base, key string) (map[string]any, bool) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		p.add(base+"/"+key, CodeInvalidType, "expected object, got %s", kindOf(v))
		return nil, false
	}
	return m, true
}

func (p *parser) files(raw map[string]any, base string) []File {
	path := base + "/files"
	v, ok := raw["files"]
	if !ok || v == nil {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		p.add(path, CodeInvalidType, "expected array, got %s", kindOf(v))
		return nil
	}
	files := make([]File, 0, len(list))
	for i, e := range list {
		fp := fmt.Sprintf("%s/%d", path, i)
		switch f := e.(type) {
		case string:
			files = append(files, File{Path: f})
		case map[string]any:
			p.known(f, fp, fileKeys)
			files = append(files, File{
				Path:    p.str(f, fp, "path", true),
				Content: p.str(f, fp, "content", false),
				Type:    ItemType(p.str(f, fp, "type", false)),
				Target:  p.str(f, fp, "target", false),
			})
		default:
			p.add(fp, CodeInvalidType, "expected string or object, got %s", kindOf(e))
		}
	}
	return files
}

func (p *parser) vars(raw map[string]any, base, key string) map[string]string {
	m, ok := p.object(raw, base, key)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for _, k := range sortedKeys(m) {
		s, ok := m[k].(string)
		if !ok {
			p.add(base+"/"+key+"/"+k, CodeInvalidType, "expected string, got %s", kindOf(m[k]))
			continue
		}
		out[k] = s
	}
	return out
}

func (p *parser) cssVars(raw map[string]any, base string) *CSSVars {
	m, ok := p.object(raw, base, "cssVars")
	if !ok {
		return nil
	}
	path := base + "/cssVars"
	for _, k := range sortedKeys(m) {
		switch k {
		case "theme", "light", "dark":
		default:
			p.add(path+"/"+k, CodeNotAllowed, "unknown css variable scope %q", k)
		}
	}
	return &CSSVars{
		Theme: p.vars(m, path, "theme"),
		Light: p.vars(m, path, "light"),
		Dark:  p.vars(m, path, "dark"),
	}
}

func (p *parser) config(raw map[string]any, base string) *ItemConfig {
	m, ok := p.object(raw, base, "config")
	if !ok {
		return nil
	}
	path := base + "/config"
	p.known(m, path, configKeys)
	return &ItemConfig{
		Style:       p.str(m, path, "style", false),
		IconLibrary: p.str(m, path, "iconLibrary", false),
		BaseColor:   p.str(m, path, "baseColor", false),
		Theme:       p.str(m, path, "theme", false),
		Font:        p.str(m, path, "font", false),
		Radius:      p.str(m, path, "radius", false),
		MenuAccent:  p.str(m, path, "menuAccent", false),
		MenuColor:   p.str(m, path, "menuColor", false),
		Template:    p.str(m, path, "template", false),
	}
}

func (p *parser) item(raw map[string]any, base string) Item {
	p.known(raw, base, itemKeys)
	it := Item{
		Name:                 p.str(raw, base, "name", true),
		Type:                 ItemType(p.str(raw, base, "type", true)),
		Title:                p.str(raw, base, "title", false),
		Description:          p.str(raw, base, "description", false),
		Category:             p.str(raw, base, "category", false),
		Subcategory:          p.str(raw, base, "subcategory", false),
		Dependencies:         p.strs(raw, base, "dependencies"),
		DevDependencies:      p.strs(raw, base, "devDependencies"),
		RegistryDependencies: p.strs(raw, base, "registryDependencies"),
		Files:                p.files(raw, base),
		CSSVars:              p.cssVars(raw, base),
		Config:               p.config(raw, base),
	}
	if css, ok := p.object(raw, base, "css"); ok {
		it.CSS = css
	}
	if meta, ok := p.object(raw, base, "meta"); ok {
		it.Meta = meta
	}
	p.check(it, base)
	return it
}

// check applies the value rules shared by ParseItem and Item.Validate.
func (p *parser) check(it Item, base string) {
	switch {
	case it.Name == "":
		p.add(base+"/name", CodeRequired, "name is required")
	case !itemNamePattern.MatchString(it.Name):
		p.add(base+"/name", CodeInvalidValue, "name %q must be lower-case letters, digits, '.', '_' or '-'", it.Name)
	case it.Name == ReservedItemName:
		p.add(base+"/name", CodeInvalidValue, "name %q is reserved", it.Name)
	}

	switch {
	case it.Type == "":
		p.add(base+"/type", CodeRequired, "type is required")
	case !it.Type.Valid():
		p.add(base+"/type", CodeInvalidEnum, "unknown item type %q", it.Type)
	}

	if it.Config != nil && it.Type != TypeBase {
		p.add(base+"/config", CodeNotAllowed, "config is only allowed on %s items", TypeBase)
	}

	for key, list := range map[string][]string{
		"dependencies":         it.Dependencies,
		"devDependencies":      it.DevDependencies,
		"registryDependencies": it.RegistryDependencies,
	} {
		for i, dep := range list {
			if strings.TrimSpace(dep) == "" {
				p.add(fmt.Sprintf("%s/%s/%d", base, key, i), CodeInvalidValue, "%s entries must not be empty", key)
			}
		}
	}

	for i, f := range it.Files {
		fp := fmt.Sprintf("%s/files/%d", base, i)
		if f.Path == "" {
			p.add(fp+"/path", CodeRequired, "path is required")
		}
		if f.Type != "" && !f.Type.Valid() {
			p.add(fp+"/type", CodeInvalidEnum, "unknown file type %q", f.Type)
		}
	}
}

func (p *parser) sortIssues() {
	sort.SliceStable(p.issues, func(i, j int) bool {
		return comparePaths(p.issues[i].Path, p.issues[j].Path) < 0
	})
}

// comparePaths orders JSON pointers segment by segment, comparing array
// indexes numerically so /items/2 sorts before /items/10.
func comparePaths(a, b string) int {
	as, bs := strings.Split(a, "/"), strings.Split(b, "/")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] == bs[i] {
			continue
		}
		an, aErr := strconv.Atoi(as[i])
		bn, bErr := strconv.Atoi(bs[i])
		if aErr == nil && bErr == nil {
			return cmp.Compare(an, bn)
		}
		return strings.Compare(as[i], bs[i])
	}
	return cmp.Compare(len(as), len(bs))
}

// ParseItem validates an arbitrary record against the item schema.
// On failure the returned error is a *SchemaValidationError listing every
// offending field.
func ParseItem(raw map[string]any) (Item, error) {
	p := newParser()
	it := p.item(raw, "")
	if len(p.issues) > 0 {
		p.sortIssues()
		return Item{}, &SchemaValidationError{Item: it.Name, Issues: p.issues}
	}
	return it, nil
}

// ParseRegistry validates a registry record and every item inside it.
// Duplicate item names within one registry are schema violations.
func ParseRegistry(raw map[string]any) (Registry, error) {
	p := newParser()
	p.known(raw, "", registryKeys)
	reg := Registry{
		Name:     p.str(raw, "", "name", true),
		Homepage: p.str(raw, "", "homepage", false),
		Base:     p.str(raw, "", "base", false),
	}

	v, ok := raw["items"]
	switch list, isList := v.([]any); {
	case !ok || v == nil:
		p.add("/items", CodeRequired, "items is required")
	case !isList:
		p.add("/items", CodeInvalidType, "expected array, got %s", kindOf(v))
	default:
		firstSeen := make(map[string]int, len(list))
		for i, e := range list {
			base := fmt.Sprintf("/items/%d", i)
			m, ok := e.(map[string]any)
			if !ok {
				p.add(base, CodeInvalidType, "expected object, got %s", kindOf(e))
				continue
			}
			it := p.item(m, base)
			if it.Name != "" {
				if first, dup := firstSeen[it.Name]; dup {
					p.add(base+"/name", CodeInvalidValue, "duplicate item name %q (first declared at /items/%d)", it.Name, first)
				} else {
					firstSeen[it.Name] = i
				}
			}
			reg.Items = append(reg.Items, it)
		}
	}

	if len(p.issues) > 0 {
		p.sortIssues()
		return Registry{}, &SchemaValidationError{Registry: reg.Name, Issues: p.issues}
	}
	return reg, nil
}

// Validate checks a typed item against the same rules ParseItem applies.
func (it Item) Validate() error {
	p := newParser()
	p.check(it, "")
	if len(p.issues) > 0 {
		p.sortIssues()
		return &SchemaValidationError{Item: it.Name, Issues: p.issues}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
