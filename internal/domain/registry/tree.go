package registry

import (
	"errors"
	"fmt"
	"strings"
)

// Tree resolution errors
var (
	ErrUnknownStyle       = errors.New("unknown style")
	ErrItemNotFound       = errors.New("registry item not found")
	ErrDanglingDependency = errors.New("registry dependency not found")
	ErrCycleDetected      = errors.New("cycle detected in registry dependencies")
)

// Tree is an item together with everything it needs, flattened.
// Items are ordered dependencies first and contain each item once; the root
// is always last.
type Tree struct {
	Root            string   `json:"root"`
	Style           string   `json:"style"`
	Items           []Item   `json:"items"`
	Dependencies    []string `json:"dependencies"`
	DevDependencies []string `json:"devDependencies"`
	External        []string `json:"external"`
	CSSVars         CSSVars  `json:"cssVars"`
}

// IsExternalRef reports whether a registry dependency points outside the
// index: a scoped name, a URL or a path.
func IsExternalRef(dep string) bool {
	return strings.HasPrefix(dep, "@") || strings.Contains(dep, "/") || strings.Contains(dep, ":")
}

const (
	unvisited = iota
	visiting
	visited
)

// ResolveTree walks the registry dependencies of an item depth-first within
// one style bucket. External references are collected, not followed.
func (x *Index) ResolveTree(name, style string) (Tree, error) {
	if !x.HasStyle(style) {
		return Tree{}, fmt.Errorf("%w: %s", ErrUnknownStyle, style)
	}
	if x.lookup(name, style) == nil {
		return Tree{}, fmt.Errorf("%w: %s in %s", ErrItemNotFound, name, style)
	}

	tree := Tree{
		Root:            name,
		Style:           style,
		Items:           []Item{},
		Dependencies:    []string{},
		DevDependencies: []string{},
		External:        []string{},
	}
	state := make(map[string]int)
	seenExternal := make(map[string]bool)
	var path []string

	var visit func(n string) error
	visit = func(n string) error {
		switch state[n] {
		case visited:
			return nil
		case visiting:
			return fmt.Errorf("%w: %s", ErrCycleDetected, strings.Join(append(path, n), " -> "))
		}
		it := x.lookup(n, style)
		if it == nil {
			return fmt.Errorf("%w: %s (required by %s)", ErrDanglingDependency, n, path[len(path)-1])
		}

		state[n] = visiting
		path = append(path, n)
		for _, dep := range it.RegistryDependencies {
			if IsExternalRef(dep) {
				if !seenExternal[dep] {
					seenExternal[dep] = true
					tree.External = append(tree.External, dep)
				}
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[n] = visited
		tree.Items = append(tree.Items, *it)
		return nil
	}

	if err := visit(name); err != nil {
		return Tree{}, err
	}

	seenDeps := make(map[string]bool)
	seenDevDeps := make(map[string]bool)
	for _, it := range tree.Items {
		tree.Dependencies = appendUnique(tree.Dependencies, seenDeps, it.Dependencies...)
		tree.DevDependencies = appendUnique(tree.DevDependencies, seenDevDeps, it.DevDependencies...)
		if it.CSSVars != nil {
			tree.CSSVars.Theme = mergeVars(tree.CSSVars.Theme, it.CSSVars.Theme)
			tree.CSSVars.Light = mergeVars(tree.CSSVars.Light, it.CSSVars.Light)
			tree.CSSVars.Dark = mergeVars(tree.CSSVars.Dark, it.CSSVars.Dark)
		}
	}
	return tree, nil
}

func appendUnique(dst []string, seen map[string]bool, values ...string) []string {
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		dst = append(dst, v)
	}
	return dst
}

// mergeVars copies src over dst, allocating dst on first use.
func mergeVars(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
