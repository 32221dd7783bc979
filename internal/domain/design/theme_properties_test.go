package design

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var (
	varKeyGen   = rapid.SampledFrom([]string{"background", "foreground", "primary", "primary-foreground", "accent", "accent-foreground", "sidebar-primary", "sidebar-accent", "ring", "radius"})
	varValueGen = rapid.StringMatching(`oklch\(0\.[0-9]{1,3} 0\.[0-9]{1,3} [0-9]{1,3}\)`)
	varsGen     = rapid.MapOfN(varKeyGen, varValueGen, 0, 8)
)

// drawPaletteVocabulary replaces every base color and theme palette of the
// fixture with random variables.
func drawPaletteVocabulary(t *rapid.T) *Vocabulary {
	v := testVocabulary()
	for i := range v.BaseColors {
		v.BaseColors[i].CSSVars.Light = varsGen.Draw(t, "bc-light")
		v.BaseColors[i].CSSVars.Dark = varsGen.Draw(t, "bc-dark")
	}
	for i := range v.Themes {
		v.Themes[i].CSSVars.Light = varsGen.Draw(t, "theme-light")
		v.Themes[i].CSSVars.Dark = varsGen.Draw(t, "theme-dark")
	}
	return v
}

func drawCompatibleConfig(t *rapid.T, v *Vocabulary) Config {
	cfg := DefaultConfig()
	cfg.BaseColor = rapid.SampledFrom(v.BaseColors).Draw(t, "baseColor").Name
	cfg.Theme = rapid.SampledFrom(v.ThemesForBaseColor(cfg.BaseColor)).Draw(t, "theme").Name
	return cfg
}

// Theme light values win, base color light values fill the rest.
func TestThemeProperty_MergePrecedence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := drawPaletteVocabulary(t)
		cfg := drawCompatibleConfig(t, v)
		r := NewResolver(v)

		theme, err := r.BuildRegistryTheme(cfg)
		require.NoError(t, err)

		bc, _ := v.BaseColor(cfg.BaseColor)
		th, _ := v.Theme(cfg.Theme)
		keys := make(map[string]bool)
		for k := range bc.CSSVars.Light {
			keys[k] = true
		}
		for k := range th.CSSVars.Light {
			keys[k] = true
		}
		require.Len(t, theme.CSSVars.Light, len(keys))
		for k := range keys {
			want, ok := th.CSSVars.Light[k]
			if !ok {
				want = bc.CSSVars.Light[k]
			}
			if theme.CSSVars.Light[k] != want {
				t.Fatalf("light[%s] = %q, want %q", k, theme.CSSVars.Light[k], want)
			}
		}
	})
}

// Building twice with the bold accent yields identical output.
func TestThemeProperty_BoldAccentIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := drawPaletteVocabulary(t)
		cfg := drawCompatibleConfig(t, v)
		cfg.MenuAccent = MenuAccentBold
		cfg.Radius = rapid.SampledFrom([]string{"", RadiusDefault, "none", "large"}).Draw(t, "radius")
		r := NewResolver(v)

		first, err := r.BuildRegistryTheme(cfg)
		require.NoError(t, err)
		second, err := r.BuildRegistryTheme(cfg)
		require.NoError(t, err)
		require.Equal(t, first, second)
	})
}

// A theme named after the selected base color always validates; a theme
// named after another base color never does.
func TestThemeProperty_ValidationSymmetry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := testVocabulary()
		r := NewResolver(v)
		bc := rapid.SampledFrom(v.BaseColors).Draw(t, "baseColor").Name
		other := rapid.SampledFrom(v.BaseColors).Draw(t, "other").Name

		cfg := DefaultConfig()
		cfg.BaseColor = bc
		cfg.Theme = bc
		require.NoError(t, r.Validate(cfg))

		cfg.Theme = other
		err := r.Validate(cfg)
		if other == bc {
			require.NoError(t, err)
			return
		}
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}
