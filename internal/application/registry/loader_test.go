package registry

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/hanzoai/design-registry/internal/catalog"
	"github.com/hanzoai/design-registry/internal/domain/design"
	"github.com/hanzoai/design-registry/internal/domain/registry"
)

const testVocabularyYAML = `bases:
  - name: radix
    title: Radix UI
    dependencies: [radix-ui]
styles:
  - name: vega
    title: Vega
  - name: hanzo
    title: Hanzo
themes:
  - name: neutral
    title: Neutral
  - name: violet
    title: Violet
    cssVars:
      light:
        primary: oklch(0.541 0.281 293.009)
base_colors:
  - name: neutral
    title: Neutral
    cssVars:
      light:
        background: oklch(1 0 0)
        primary: oklch(0.205 0 0)
      dark:
        background: oklch(0.145 0 0)
icon_libraries:
  - name: lucide
    title: Lucide
    packages: [lucide-react]
fonts:
  - name: inter
    title: Inter
    family: Inter, sans-serif
`

const testProviderYAML = `name: radix
base: radix
items:
  - name: utils
    type: registry:lib
    files:
      - lib/utils.ts
  - name: button
    type: registry:ui
    dependencies: ["@radix-ui/react-slot"]
    registryDependencies: [utils]
    files:
      - path: ui/button.tsx
        type: registry:ui
  - name: font-inter
    type: registry:font
`

const testExtensionYAML = `name: ai
items:
  - name: ai-chat
    type: registry:ai
    registryDependencies: [button]
`

func testCatalogFS() fstest.MapFS {
	return fstest.MapFS{
		"catalog.yaml": {Data: []byte(`vocabulary: vocabulary.yaml
providers: [registries/radix.yaml]
extensions: [registries/ai.yaml]
`)},
		"vocabulary.yaml":       {Data: []byte(testVocabularyYAML)},
		"registries/radix.yaml": {Data: []byte(testProviderYAML)},
		"registries/ai.yaml":    {Data: []byte(testExtensionYAML)},
	}
}

func TestLoadCatalog(t *testing.T) {
	cat, err := LoadCatalog(testCatalogFS())
	require.NoError(t, err)

	require.Equal(t, []string{"vega", "hanzo"}, cat.Styles())
	require.Len(t, cat.Providers, 1)
	require.Equal(t, "radix", cat.Providers[0].Base)
	require.Len(t, cat.Providers[0].Items, 3)
	require.Equal(t, []registry.File{{Path: "lib/utils.ts"}}, cat.Providers[0].Items[0].Files)
	require.Len(t, cat.Extensions, 1)
	require.Equal(t, "ai-chat", cat.Extensions[0].Items[0].Name)

	font, ok := cat.Vocabulary.Font("inter")
	require.True(t, ok)
	require.Equal(t, "Inter, sans-serif", font.Family)
}

func TestLoadCatalog_Embedded(t *testing.T) {
	cat, err := LoadCatalog(catalog.FS())
	require.NoError(t, err)

	require.Equal(t, []string{"radix", "base"}, cat.Vocabulary.BaseNames())
	require.Len(t, cat.Providers, 2)

	names := make([]string, 0, len(cat.Extensions))
	for _, reg := range cat.Extensions {
		names = append(names, reg.Name)
	}
	require.Equal(t, []string{"ai", "finance", "3d", "animation", "code"}, names)

	_, err = design.NewResolver(cat.Vocabulary).Resolve(design.DefaultConfig())
	require.NoError(t, err, "shipped defaults must resolve against the shipped vocabulary")
}

func TestLoadCatalog_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(fstest.MapFS)
		wantErr string
		is      error
	}{
		{
			name:    "missing manifest",
			mutate:  func(fs fstest.MapFS) { delete(fs, "catalog.yaml") },
			wantErr: "read catalog.yaml",
		},
		{
			name:    "unknown manifest field",
			mutate:  func(fs fstest.MapFS) { fs["catalog.yaml"] = &fstest.MapFile{Data: []byte("vocabulary: v.yaml\nproviders: [a]\nplugins: [x]\n")} },
			wantErr: "field plugins not found",
		},
		{
			name:    "no providers",
			mutate:  func(fs fstest.MapFS) { fs["catalog.yaml"] = &fstest.MapFile{Data: []byte("vocabulary: vocabulary.yaml\n")} },
			wantErr: "at least one provider",
			is:      ErrInvalidCatalog,
		},
		{
			name:    "unknown vocabulary field",
			mutate:  func(fs fstest.MapFS) { fs["vocabulary.yaml"] = &fstest.MapFile{Data: []byte(testVocabularyYAML + "colours: []\n")} },
			wantErr: "field colours not found",
		},
		{
			name: "empty vocabulary table",
			mutate: func(fs fstest.MapFS) {
				fs["vocabulary.yaml"] = &fstest.MapFile{Data: []byte("bases: [{name: radix}]\nstyles: []\n")}
			},
			is: design.ErrInvalidVocabulary,
		},
		{
			name: "schema violation in item",
			mutate: func(fs fstest.MapFS) {
				fs["registries/ai.yaml"] = &fstest.MapFile{Data: []byte("name: ai\nitems:\n  - name: Bad Name\n    type: registry:widget\n")}
			},
			wantErr: "registries/ai.yaml",
			is:      registry.ErrInvalidItem,
		},
		{
			name: "misspelled item field",
			mutate: func(fs fstest.MapFS) {
				fs["registries/ai.yaml"] = &fstest.MapFile{Data: []byte("name: ai\nitems:\n  - name: ai-chat\n    type: registry:ai\n    registryDependancies: [button]\n")}
			},
			wantErr: "not_allowed at /items/0/registryDependancies",
			is:      registry.ErrInvalidItem,
		},
		{
			name: "item named index",
			mutate: func(fs fstest.MapFS) {
				fs["registries/ai.yaml"] = &fstest.MapFile{Data: []byte("name: ai\nitems:\n  - name: index\n    type: registry:page\n")}
			},
			wantErr: "invalid_value at /items/0/name",
			is:      registry.ErrInvalidItem,
		},
		{
			name: "extension declares base",
			mutate: func(fs fstest.MapFS) {
				fs["registries/ai.yaml"] = &fstest.MapFile{Data: []byte("name: ai\nbase: radix\nitems: []\n")}
			},
			wantErr: "must not declare a base",
			is:      ErrInvalidCatalog,
		},
		{
			name: "provider with unknown base",
			mutate: func(fs fstest.MapFS) {
				fs["registries/radix.yaml"] = &fstest.MapFile{Data: []byte("name: radix\nbase: ark\nitems: []\n")}
			},
			wantErr: `unknown base "ark"`,
			is:      ErrInvalidCatalog,
		},
		{
			name: "base without provider",
			mutate: func(fs fstest.MapFS) {
				vocab := strings.Replace(testVocabularyYAML, "styles:", "  - name: base\n    title: Base UI\nstyles:", 1)
				fs["vocabulary.yaml"] = &fstest.MapFile{Data: []byte(vocab)}
			},
			wantErr: `base "base" has no provider registry`,
			is:      ErrInvalidCatalog,
		},
		{
			name:    "missing registry file",
			mutate:  func(fs fstest.MapFS) { delete(fs, "registries/ai.yaml") },
			wantErr: "read registries/ai.yaml",
		},
		{
			name:    "empty registry file",
			mutate:  func(fs fstest.MapFS) { fs["registries/ai.yaml"] = &fstest.MapFile{Data: []byte("# nothing\n")} },
			wantErr: "is empty",
			is:      ErrInvalidCatalog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := testCatalogFS()
			tt.mutate(fsys)

			_, err := LoadCatalog(fsys)
			require.Error(t, err)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
			}
			if tt.is != nil {
				require.True(t, errors.Is(err, tt.is), "expected %v in chain, got %v", tt.is, err)
			}
		})
	}
}

func TestLoadCatalog_SchemaIssuesListed(t *testing.T) {
	fsys := testCatalogFS()
	fsys["registries/ai.yaml"] = &fstest.MapFile{Data: []byte(`name: ai
items:
  - name: ai-chat
    type: registry:ai
  - name: ai-chat
    type: registry:nope
`)}

	_, err := LoadCatalog(fsys)
	var sve *registry.SchemaValidationError
	require.ErrorAs(t, err, &sve)
	require.Equal(t, "ai", sve.Registry)
	require.Len(t, sve.Issues, 2)
	require.Equal(t, "/items/1/name", sve.Issues[0].Path)
	require.Equal(t, "/items/1/type", sve.Issues[1].Path)
}
