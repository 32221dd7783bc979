package design

import "github.com/hanzoai/design-registry/internal/domain/registry"

func opt(name string, deps ...string) Option {
	return Option{Name: name, Title: name, Dependencies: deps}
}

func palette(name string, light, dark map[string]string) Option {
	return Option{Name: name, Title: name, CSSVars: registry.CSSVars{Light: light, Dark: dark}}
}

// testVocabulary returns a small vocabulary shaped like the shipped catalog.
func testVocabulary() *Vocabulary {
	neutral := map[string]string{
		"background":         "oklch(1 0 0)",
		"foreground":         "oklch(0.145 0 0)",
		"primary":            "oklch(0.205 0 0)",
		"primary-foreground": "oklch(0.985 0 0)",
		"accent":             "oklch(0.97 0 0)",
		"accent-foreground":  "oklch(0.205 0 0)",
		"radius":             "0.625rem",
	}
	neutralDark := map[string]string{
		"background":         "oklch(0.145 0 0)",
		"foreground":         "oklch(0.985 0 0)",
		"primary":            "oklch(0.922 0 0)",
		"primary-foreground": "oklch(0.205 0 0)",
		"accent":             "oklch(0.269 0 0)",
		"accent-foreground":  "oklch(0.985 0 0)",
	}

	return &Vocabulary{
		Bases: []Base{
			{opt("radix", "radix-ui")},
			{opt("base", "@base-ui-components/react")},
		},
		Styles: []Style{
			{opt("vega")}, {opt("nova")}, {opt("maia")}, {opt("lyra")}, {opt("mira")}, {opt("hanzo")},
		},
		BaseColors: []BaseColor{
			{palette("neutral", neutral, neutralDark)},
			{palette("stone", map[string]string{"background": "oklch(1 0 0)", "primary": "oklch(0.216 0.006 56.043)"}, nil)},
			{palette("zinc", map[string]string{"background": "oklch(1 0 0)", "primary": "oklch(0.21 0.006 285.885)"}, nil)},
			{palette("rose", map[string]string{"background": "oklch(1 0 0)", "primary": "oklch(0.645 0.246 16.439)"}, nil)},
		},
		Themes: []Theme{
			{palette("neutral", map[string]string{"primary": "oklch(0.205 0 0)"}, nil)},
			{palette("stone", map[string]string{"primary": "oklch(0.216 0.006 56.043)"}, nil)},
			{palette("zinc", nil, nil)},
			{palette("rose", nil, nil)},
			{palette("hanzo",
				map[string]string{"primary": "oklch(0.145 0 0)", "sidebar-primary": "oklch(0.145 0 0)", "sidebar-primary-foreground": "oklch(0.985 0 0)"},
				map[string]string{"primary": "oklch(0.985 0 0)", "primary-foreground": "oklch(0.145 0 0)"},
			)},
			{palette("violet", map[string]string{"primary": "oklch(0.541 0.281 293.009)"}, map[string]string{"primary": "oklch(0.606 0.25 292.717)"})},
			{palette("blue", map[string]string{"primary": "oklch(0.488 0.243 264.376)"}, nil)},
		},
		Fonts: []Font{
			{Option: opt("inter"), Family: "Inter, sans-serif"},
			{Option: opt("geist"), Family: "Geist, sans-serif"},
		},
		IconLibraries: []IconLibrary{
			{Option: opt("lucide"), Packages: []string{"lucide-react"}},
			{Option: opt("hugeicons"), Packages: []string{"hugeicons-react", "@hugeicons/core-free-icons"}},
		},
		Radii: []Radius{
			{Option: opt("default"), Value: ""},
			{Option: opt("none"), Value: "0"},
			{Option: opt("large"), Value: "0.875rem"},
		},
		MenuAccents: []MenuAccent{{opt("subtle")}, {opt("bold")}},
		MenuColors:  []MenuColor{{opt("default")}, {opt("inverted")}},
		Templates:   []Template{{opt("next")}, {opt("vite")}},
	}
}
