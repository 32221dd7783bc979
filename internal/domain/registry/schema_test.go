package registry

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func issueCodes(t *testing.T, err error) map[string]string {
	t.Helper()
	var sve *SchemaValidationError
	require.True(t, errors.As(err, &sve), "expected SchemaValidationError, got %v", err)
	codes := make(map[string]string, len(sve.Issues))
	for _, is := range sve.Issues {
		codes[is.Path] = is.Code
	}
	return codes
}

func TestParseItem_Valid(t *testing.T) {
	raw := map[string]any{
		"name":                 "button",
		"type":                 "registry:ui",
		"title":                "Button",
		"dependencies":         []any{"radix-ui"},
		"registryDependencies": []any{"utils"},
		"files": []any{
			"ui/button.tsx",
			map[string]any{"path": "ui/button-group.tsx", "type": "registry:ui", "target": "components/ui/button-group.tsx"},
		},
		"cssVars": map[string]any{
			"light": map[string]any{"radius": "0.5rem"},
		},
		"meta": map[string]any{"docs": "https://example.test"},
	}

	it, err := ParseItem(raw)
	require.NoError(t, err)
	require.Equal(t, "button", it.Name)
	require.Equal(t, TypeUI, it.Type)
	require.Equal(t, []string{"radix-ui"}, it.Dependencies)
	require.Equal(t, []string{"utils"}, it.RegistryDependencies)
	require.Len(t, it.Files, 2)
	require.Equal(t, File{Path: "ui/button.tsx"}, it.Files[0])
	require.Equal(t, "components/ui/button-group.tsx", it.Files[1].Target)
	require.Equal(t, "0.5rem", it.CSSVars.Light["radius"])
	require.Equal(t, "https://example.test", it.Meta["docs"])
}

func TestParseItem_ReportsEveryIssue(t *testing.T) {
	raw := map[string]any{
		"type":         "registry:widget",
		"title":        42,
		"dependencies": []any{"ok", 7},
		"files":        []any{map[string]any{"content": "x"}, true},
		"config":       map[string]any{"style": "radix-nova"},
	}

	_, err := ParseItem(raw)
	require.ErrorIs(t, err, ErrInvalidItem)

	codes := issueCodes(t, err)
	require.Equal(t, map[string]string{
		"/name":           CodeRequired,
		"/type":           CodeInvalidEnum,
		"/title":          CodeInvalidType,
		"/dependencies/1": CodeInvalidType,
		"/files/0/path":   CodeRequired,
		"/files/1":        CodeInvalidType,
		"/config":         CodeNotAllowed,
	}, codes)
}

func TestParseItem_Table(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		path string
		code string
	}{
		{
			name: "missing type",
			raw:  map[string]any{"name": "x"},
			path: "/type",
			code: CodeRequired,
		},
		{
			name: "type is not a string",
			raw:  map[string]any{"name": "x", "type": 3},
			path: "/type",
			code: CodeInvalidType,
		},
		{
			name: "upper case name",
			raw:  map[string]any{"name": "Button", "type": "registry:ui"},
			path: "/name",
			code: CodeInvalidValue,
		},
		{
			name: "files not an array",
			raw:  map[string]any{"name": "x", "type": "registry:ui", "files": "a.tsx"},
			path: "/files",
			code: CodeInvalidType,
		},
		{
			name: "unknown css scope",
			raw:  map[string]any{"name": "x", "type": "registry:theme", "cssVars": map[string]any{"print": map[string]any{}}},
			path: "/cssVars/print",
			code: CodeNotAllowed,
		},
		{
			name: "numeric css value",
			raw:  map[string]any{"name": "x", "type": "registry:theme", "cssVars": map[string]any{"dark": map[string]any{"radius": 1}}},
			path: "/cssVars/dark/radius",
			code: CodeInvalidType,
		},
		{
			name: "empty dependency",
			raw:  map[string]any{"name": "x", "type": "registry:ui", "dependencies": []any{" "}},
			path: "/dependencies/0",
			code: CodeInvalidValue,
		},
		{
			name: "reserved name",
			raw:  map[string]any{"name": "index", "type": "registry:page"},
			path: "/name",
			code: CodeInvalidValue,
		},
		{
			name: "misspelled field",
			raw:  map[string]any{"name": "login-01", "type": "registry:block", "registryDependancies": []any{"button"}},
			path: "/registryDependancies",
			code: CodeNotAllowed,
		},
		{
			name: "unknown file field",
			raw:  map[string]any{"name": "x", "type": "registry:ui", "files": []any{map[string]any{"path": "a", "targt": "b"}}},
			path: "/files/0/targt",
			code: CodeNotAllowed,
		},
		{
			name: "unknown config field",
			raw:  map[string]any{"name": "x", "type": "registry:base", "config": map[string]any{"style": "radix-vega", "colour": "red"}},
			path: "/config/colour",
			code: CodeNotAllowed,
		},
		{
			name: "unknown file type",
			raw:  map[string]any{"name": "x", "type": "registry:ui", "files": []any{map[string]any{"path": "a", "type": "registry:nope"}}},
			path: "/files/0/type",
			code: CodeInvalidEnum,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseItem(tt.raw)
			require.Error(t, err)
			codes := issueCodes(t, err)
			require.Equal(t, tt.code, codes[tt.path], "issues: %v", codes)
		})
	}
}

func TestParseItem_ConfigOnBase(t *testing.T) {
	it, err := ParseItem(map[string]any{
		"name":   "radix-hanzo",
		"type":   "registry:base",
		"config": map[string]any{"style": "radix-hanzo", "iconLibrary": "lucide"},
	})
	require.NoError(t, err)
	require.NotNil(t, it.Config)
	require.Equal(t, "lucide", it.Config.IconLibrary)
}

func TestParseRegistry(t *testing.T) {
	raw := map[string]any{
		"name": "radix",
		"base": "radix",
		"items": []any{
			map[string]any{"name": "button", "type": "registry:ui"},
			map[string]any{"name": "card", "type": "registry:ui"},
		},
	}
	reg, err := ParseRegistry(raw)
	require.NoError(t, err)
	require.Equal(t, "radix", reg.Base)
	require.Len(t, reg.Items, 2)
}

func TestParseRegistry_Issues(t *testing.T) {
	raw := map[string]any{
		"name": "ai",
		"items": []any{
			map[string]any{"name": "chat", "type": "registry:ai"},
			"not-an-item",
			map[string]any{"name": "chat", "type": "registry:ai"},
			map[string]any{"name": "agent"},
		},
	}
	_, err := ParseRegistry(raw)
	require.ErrorIs(t, err, ErrInvalidItem)

	var sve *SchemaValidationError
	require.ErrorAs(t, err, &sve)
	require.Equal(t, "ai", sve.Registry)

	codes := issueCodes(t, err)
	require.Equal(t, CodeInvalidType, codes["/items/1"])
	require.Equal(t, CodeInvalidValue, codes["/items/2/name"])
	require.Equal(t, CodeRequired, codes["/items/3/type"])
}

func TestParseRegistry_UnknownField(t *testing.T) {
	reg, err := ParseRegistry(map[string]any{"$schema": "https://example.test/registry.json", "name": "code", "items": []any{}})
	require.NoError(t, err)
	require.Equal(t, "code", reg.Name)

	_, err = ParseRegistry(map[string]any{"name": "code", "extends": "radix", "items": []any{}})
	require.Equal(t, map[string]string{"/extends": CodeNotAllowed}, issueCodes(t, err))
}

func TestParseRegistry_IssuesInItemOrder(t *testing.T) {
	items := make([]any, 0, 12)
	for i := 0; i < 12; i++ {
		items = append(items, map[string]any{"name": fmt.Sprintf("item-%d", i)})
	}
	_, err := ParseRegistry(map[string]any{"name": "ai", "items": items})

	var sve *SchemaValidationError
	require.ErrorAs(t, err, &sve)
	require.Len(t, sve.Issues, 12)
	for i, is := range sve.Issues {
		require.Equal(t, fmt.Sprintf("/items/%d/type", i), is.Path)
	}
}

func TestComparePaths(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"/items/2/name", "/items/10/name", -1},
		{"/items/10", "/items/9", 1},
		{"/files/0/path", "/files/0/type", -1},
		{"/name", "/name", 0},
		{"/items/1", "/items/1/name", -1},
		{"/config", "/items/0", -1},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, comparePaths(tt.a, tt.b), "%s vs %s", tt.a, tt.b)
	}
}

func TestParseRegistry_MissingItems(t *testing.T) {
	_, err := ParseRegistry(map[string]any{"name": "code"})
	require.Equal(t, map[string]string{"/items": CodeRequired}, issueCodes(t, err))
}

func TestItemValidate(t *testing.T) {
	require.NoError(t, Item{Name: "utils", Type: TypeLib}.Validate())

	err := Item{Name: "chart", Type: TypeUI, Config: &ItemConfig{}}.Validate()
	require.Equal(t, map[string]string{"/config": CodeNotAllowed}, issueCodes(t, err))
}

func TestSchemaValidationError_Message(t *testing.T) {
	err := &SchemaValidationError{
		Item: "x",
		Issues: []Issue{
			{Path: "/a", Code: CodeRequired},
			{Path: "/b", Code: CodeRequired},
			{Path: "/c", Code: CodeRequired},
			{Path: "/d", Code: CodeRequired},
		},
	}
	require.Equal(t, `item "x": required at /a; required at /b; required at /c; ... (total 4)`, err.Error())
}
