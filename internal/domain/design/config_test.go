package design

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigKey(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()
	require.Equal(t, a.Key(), b.Key())

	b.Radius = "large"
	require.NotEqual(t, a.Key(), b.Key())
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{Base: "base", Theme: "violet"}.WithDefaults(DefaultConfig())

	require.Equal(t, "base", cfg.Base)
	require.Equal(t, "violet", cfg.Theme)
	require.Equal(t, "hanzo", cfg.Style)
	require.Equal(t, "lucide", cfg.IconLibrary)
	require.Equal(t, "base-hanzo", cfg.StyleName())
}

func TestConfigSet(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Set("baseColor", "rose"))
	require.NoError(t, cfg.Set("icon_library", "hugeicons"))
	require.NoError(t, cfg.Set("MENU_ACCENT", "bold"))
	require.NoError(t, cfg.Set("menu-color", "inverted"))
	require.Equal(t, "rose", cfg.BaseColor)
	require.Equal(t, "hugeicons", cfg.IconLibrary)
	require.Equal(t, "bold", cfg.MenuAccent)
	require.Equal(t, "inverted", cfg.MenuColor)

	require.Error(t, cfg.Set("colour", "red"))
}

func TestConfigGetCoversEveryField(t *testing.T) {
	cfg := DefaultConfig()
	var values []string
	for _, name := range FieldNames() {
		v, err := cfg.Get(name)
		require.NoError(t, err, name)
		values = append(values, v)
	}
	require.Equal(t, cfg.Key(), strings.Join(values, "|"))

	_, err := cfg.Get("colour")
	require.Error(t, err)
}

func TestVocabularyCheck(t *testing.T) {
	require.NoError(t, testVocabulary().Check())

	v := testVocabulary()
	v.Styles = nil
	v.Themes = append(v.Themes, Theme{opt("hanzo")})
	v.Bases = append(v.Bases, Base{opt("base-ui")})
	v.Fonts = append(v.Fonts, Font{})

	err := v.Check()
	require.ErrorIs(t, err, ErrInvalidVocabulary)
	require.Contains(t, err.Error(), "styles is empty")
	require.Contains(t, err.Error(), `duplicate themes entry "hanzo"`)
	require.Contains(t, err.Error(), `base "base-ui" must not contain '-'`)
	require.Contains(t, err.Error(), "fonts[2] has no name")
}

func TestVocabularyLookups(t *testing.T) {
	v := testVocabulary()

	require.Equal(t, []string{"radix", "base"}, v.BaseNames())
	require.Equal(t, []string{"vega", "nova", "maia", "lyra", "mira", "hanzo"}, v.StyleNames())

	icons, ok := v.IconLibrary("hugeicons")
	require.True(t, ok)
	require.Equal(t, []string{"hugeicons-react", "@hugeicons/core-free-icons"}, icons.Packages)

	_, ok = v.Font("papyrus")
	require.False(t, ok)
}
