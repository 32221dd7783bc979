package presentation

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hanzoai/design-registry/internal/domain/design"
	"github.com/hanzoai/design-registry/internal/domain/registry"
)

func testStyles() StylesView {
	return StylesView{
		{Name: "radix-hanzo", Base: "radix", Style: "hanzo", Items: 40},
		{Name: "base-vega", Base: "base", Style: "vega", Items: 38},
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(strings.ToUpper(string(f)))
		require.NoError(t, err)
		require.Equal(t, f, got)
	}
	_, err := ParseFormat("xml")
	require.ErrorContains(t, err, `unknown output format "xml"`)
}

func TestFormatter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf, FormatJSON).Write(ConfigView(design.DefaultConfig())))

	out := buf.String()
	require.Contains(t, out, `"iconLibrary": "lucide"`)
	require.NotContains(t, out, "styleName", "views only change the table form")
}

func TestFormatter_YAMLUsesJSONNames(t *testing.T) {
	var buf bytes.Buffer
	theme := design.RegistryTheme{
		Name:    "neutral-hanzo",
		Type:    registry.TypeTheme,
		CSSVars: registry.CSSVars{Light: map[string]string{"primary": "red"}},
	}
	require.NoError(t, NewFormatter(&buf, FormatYAML).Write(ThemeView(theme)))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, "neutral-hanzo", got["name"])
	require.Equal(t, map[string]any{"light": map[string]any{"primary": "red"}}, got["cssVars"])
}

func TestFormatter_TOML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf, FormatTOML).Write(testStyles()))

	var got map[string][]map[string]any
	require.NoError(t, toml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got["items"], 2)
	require.Equal(t, "radix-hanzo", got["items"][0]["name"])
	require.Equal(t, int64(40), got["items"][0]["items"])
}

func TestFormatter_TOMLDropsNulls(t *testing.T) {
	var buf bytes.Buffer
	base := design.RegistryBase{Name: "radix-hanzo", Dependencies: []string{"radix-ui"}}
	require.NoError(t, NewFormatter(&buf, FormatTOML).Write(BaseView(base)))

	var got map[string]any
	require.NoError(t, toml.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, "radix-hanzo", got["name"])
	require.NotContains(t, got, "css")
}

func TestFormatter_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf, FormatTable).Write(testStyles()))

	out := buf.String()
	for _, want := range []string{"STYLE", "ITEMS", "radix-hanzo", "base-vega", "38"} {
		require.Contains(t, out, want)
	}

	err := NewFormatter(&buf, FormatTable).Write(map[string]string{})
	require.ErrorContains(t, err, "cannot be shown as a table")
}

func TestViews(t *testing.T) {
	tests := []struct {
		name string
		view Tabular
		want [][]string
	}{
		{
			name: "items",
			view: ItemsView{{Name: "button", Type: registry.TypeUI, Title: "Button", RegistryDependencies: []string{"utils"}}},
			want: [][]string{{"button", "ui", "Button", "utils"}},
		},
		{
			name: "item drops empty fields",
			view: ItemView{Name: "utils", Type: registry.TypeLib, Files: []registry.File{{Path: "lib/utils.ts"}}},
			want: [][]string{{"name", "utils"}, {"type", "registry:lib"}, {"files", "lib/utils.ts"}},
		},
		{
			name: "tree with external refs",
			view: TreeView{Items: []registry.Item{{Name: "utils", Type: registry.TypeLib}}, External: []string{"@acme/x"}},
			want: [][]string{{"1", "utils", "lib", ""}, {"", "(external)", "", "@acme/x"}},
		},
		{
			name: "theme sorted by scope then name",
			view: ThemeView{CSSVars: registry.CSSVars{
				Light: map[string]string{"ring": "a", "primary": "b"},
				Dark:  map[string]string{"primary": "c"},
			}},
			want: [][]string{{"light", "primary", "b"}, {"light", "ring", "a"}, {"dark", "primary", "c"}},
		},
		{
			name: "field errors",
			view: FieldErrorsView{{Field: "theme", Value: "x", Code: "unknown", Message: "unknown theme"}},
			want: [][]string{{"theme", "x", "unknown", "unknown theme"}},
		},
		{
			name: "key values",
			view: KeyValues{{"files", "3"}},
			want: [][]string{{"files", "3"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.view.Rows())
			require.NotEmpty(t, tt.view.Headers())
		})
	}
}

func TestConfigView(t *testing.T) {
	rows := ConfigView(design.DefaultConfig()).Rows()
	require.Len(t, rows, len(design.FieldNames())+1)
	require.Equal(t, []string{"base", "radix"}, rows[0])
	require.Equal(t, []string{"styleName", "radix-hanzo"}, rows[len(rows)-1])
}
