package presentation

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/hanzoai/design-registry/internal/domain/design"
	"github.com/hanzoai/design-registry/internal/domain/registry"
)

// StylesView lists index keys.
type StylesView []registry.StyleInfo

func (v StylesView) Data() any         { return []registry.StyleInfo(v) }
func (v StylesView) Headers() []string { return []string{"STYLE", "BASE", "VISUAL", "ITEMS"} }

func (v StylesView) Rows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, s := range v {
		rows = append(rows, []string{s.Name, s.Base, s.Style, strconv.Itoa(s.Items)})
	}
	return rows
}

// ItemsView lists items of one style.
type ItemsView []registry.Item

func (v ItemsView) Data() any         { return []registry.Item(v) }
func (v ItemsView) Headers() []string { return []string{"NAME", "TYPE", "TITLE", "REGISTRY DEPS"} }

func (v ItemsView) Rows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, it := range v {
		rows = append(rows, []string{it.Name, shortType(it.Type), it.Title, strings.Join(it.RegistryDependencies, ", ")})
	}
	return rows
}

// ItemView shows one item field by field.
type ItemView registry.Item

func (v ItemView) Data() any         { return registry.Item(v) }
func (v ItemView) Headers() []string { return []string{"FIELD", "VALUE"} }

func (v ItemView) Rows() [][]string {
	files := make([]string, 0, len(v.Files))
	for _, f := range v.Files {
		files = append(files, f.Path)
	}
	return compact([][]string{
		{"name", v.Name},
		{"type", string(v.Type)},
		{"title", v.Title},
		{"description", v.Description},
		{"dependencies", strings.Join(v.Dependencies, ", ")},
		{"devDependencies", strings.Join(v.DevDependencies, ", ")},
		{"registryDependencies", strings.Join(v.RegistryDependencies, ", ")},
		{"files", strings.Join(files, ", ")},
	})
}

// TreeView shows a resolved tree in install order.
type TreeView registry.Tree

func (v TreeView) Data() any         { return registry.Tree(v) }
func (v TreeView) Headers() []string { return []string{"#", "NAME", "TYPE", "DEPENDENCIES"} }

func (v TreeView) Rows() [][]string {
	rows := make([][]string, 0, len(v.Items)+1)
	for i, it := range v.Items {
		rows = append(rows, []string{strconv.Itoa(i + 1), it.Name, shortType(it.Type), strings.Join(it.Dependencies, ", ")})
	}
	if len(v.External) > 0 {
		rows = append(rows, []string{"", "(external)", "", strings.Join(v.External, ", ")})
	}
	return rows
}

// ConfigView shows a design config.
type ConfigView design.Config

func (v ConfigView) Data() any         { return design.Config(v) }
func (v ConfigView) Headers() []string { return []string{"FIELD", "VALUE"} }

func (v ConfigView) Rows() [][]string {
	cfg := design.Config(v)
	rows := make([][]string, 0, len(design.FieldNames())+1)
	for _, name := range design.FieldNames() {
		value, _ := cfg.Get(name)
		rows = append(rows, []string{name, value})
	}
	return append(rows, []string{"styleName", cfg.StyleName()})
}

// ThemeView lists the CSS variables of a theme by scope.
type ThemeView design.RegistryTheme

func (v ThemeView) Data() any         { return design.RegistryTheme(v) }
func (v ThemeView) Headers() []string { return []string{"SCOPE", "VARIABLE", "VALUE"} }

func (v ThemeView) Rows() [][]string {
	return cssVarRows(v.CSSVars)
}

// BaseView summarizes a generated base.
type BaseView design.RegistryBase

func (v BaseView) Data() any         { return design.RegistryBase(v) }
func (v BaseView) Headers() []string { return []string{"FIELD", "VALUE"} }

func (v BaseView) Rows() [][]string {
	return compact([][]string{
		{"name", v.Name},
		{"style", v.Config.Style},
		{"iconLibrary", v.Config.IconLibrary},
		{"theme", v.Theme.Name},
		{"font", v.Config.Font},
		{"dependencies", strings.Join(v.Dependencies, ", ")},
		{"registryDependencies", strings.Join(v.RegistryDependencies, ", ")},
		{"tailwind.baseColor", v.Tailwind.BaseColor},
		{"tailwind.css", v.Tailwind.CSS},
	})
}

// FieldErrorsView lists validation failures.
type FieldErrorsView []design.FieldError

func (v FieldErrorsView) Data() any         { return []design.FieldError(v) }
func (v FieldErrorsView) Headers() []string { return []string{"FIELD", "VALUE", "CODE", "MESSAGE"} }

func (v FieldErrorsView) Rows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, f := range v {
		rows = append(rows, []string{f.Field, f.Value, f.Code, f.Message})
	}
	return rows
}

// KeyValues is an ordered list of labelled values.
type KeyValues [][2]string

func (v KeyValues) Headers() []string { return []string{"KEY", "VALUE"} }

func (v KeyValues) Data() any {
	out := make(map[string]string, len(v))
	for _, kv := range v {
		out[kv[0]] = kv[1]
	}
	return out
}

func (v KeyValues) Rows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, kv := range v {
		rows = append(rows, []string{kv[0], kv[1]})
	}
	return rows
}

func cssVarRows(vars registry.CSSVars) [][]string {
	var rows [][]string
	for _, scope := range []struct {
		name string
		vars map[string]string
	}{{"theme", vars.Theme}, {"light", vars.Light}, {"dark", vars.Dark}} {
		for _, k := range slices.Sorted(maps.Keys(scope.vars)) {
			rows = append(rows, []string{scope.name, k, scope.vars[k]})
		}
	}
	return rows
}

// compact drops rows whose value is empty.
func compact(rows [][]string) [][]string {
	return slices.DeleteFunc(rows, func(r []string) bool { return r[1] == "" })
}

func shortType(t registry.ItemType) string {
	return strings.TrimPrefix(string(t), "registry:")
}
