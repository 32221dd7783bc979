package design

import "fmt"

// Resolver validates configs and builds their artifacts against one
// vocabulary. It holds no other state; every method is a pure function of
// its arguments and the vocabulary.
type Resolver struct {
	vocab *Vocabulary
}

// NewResolver returns a resolver over vocab. The vocabulary must not be
// modified afterwards.
func NewResolver(vocab *Vocabulary) *Resolver {
	return &Resolver{vocab: vocab}
}

// Vocabulary returns the tables the resolver checks against.
func (r *Resolver) Vocabulary() *Vocabulary {
	return r.vocab
}

// Validate checks every field of cfg and returns a *ConfigValidationError
// listing all violations, or nil. Font, menu accent, menu color, radius and
// template may be empty; an empty value means "not selected" or "default".
func (r *Resolver) Validate(cfg Config) error {
	v := r.vocab
	var fields []FieldError

	check := func(field, value string, required bool, known func(string) bool) {
		switch {
		case value == "":
			if required {
				fields = append(fields, FieldError{Field: field, Code: CodeRequired, Message: "is required"})
			}
		case !known(value):
			fields = append(fields, FieldError{
				Field:   field,
				Value:   value,
				Code:    CodeUnknownValue,
				Message: fmt.Sprintf("unknown value %q", value),
			})
		}
	}

	check("base", cfg.Base, true, func(s string) bool { _, ok := v.Base(s); return ok })
	check("style", cfg.Style, true, func(s string) bool { _, ok := v.Style(s); return ok })
	check("iconLibrary", cfg.IconLibrary, true, func(s string) bool { _, ok := v.IconLibrary(s); return ok })
	check("baseColor", cfg.BaseColor, true, func(s string) bool { _, ok := v.BaseColor(s); return ok })
	check("theme", cfg.Theme, true, func(s string) bool { _, ok := v.Theme(s); return ok })
	check("font", cfg.Font, false, func(s string) bool { _, ok := v.Font(s); return ok })
	check("menuAccent", cfg.MenuAccent, false, func(s string) bool { _, ok := v.MenuAccent(s); return ok })
	check("menuColor", cfg.MenuColor, false, func(s string) bool { _, ok := v.MenuColor(s); return ok })
	check("radius", cfg.Radius, false, func(s string) bool { _, ok := v.Radius(s); return ok })
	check("template", cfg.Template, false, func(s string) bool { _, ok := v.Template(s); return ok })

	_, themeOK := v.Theme(cfg.Theme)
	_, colorOK := v.BaseColor(cfg.BaseColor)
	if themeOK && colorOK {
		fields = append(fields, CheckThemeCompatibility(v, cfg.Theme, cfg.BaseColor)...)
	}

	if len(fields) > 0 {
		return &ConfigValidationError{Fields: fields}
	}
	return nil
}

// CheckThemeCompatibility applies the theme/base-color pairing rule on its
// own: theme must be one of v.ThemesForBaseColor(baseColor).
func CheckThemeCompatibility(v *Vocabulary, theme, baseColor string) []FieldError {
	for _, t := range v.ThemesForBaseColor(baseColor) {
		if t.Name == theme {
			return nil
		}
	}
	return []FieldError{{
		Field:   "theme",
		Value:   theme,
		Code:    CodeIncompatible,
		Message: fmt.Sprintf("theme %q is reserved for base color %q and cannot be used with %q", theme, theme, baseColor),
	}}
}

// Resolution is everything derived from one config.
type Resolution struct {
	Config    Config        `json:"config"`
	StyleName string        `json:"styleName"`
	Theme     RegistryTheme `json:"theme"`
	Base      RegistryBase  `json:"base"`
}

// Resolve validates cfg and builds both artifacts.
func (r *Resolver) Resolve(cfg Config) (Resolution, error) {
	if err := r.Validate(cfg); err != nil {
		return Resolution{}, err
	}
	base, err := r.BuildRegistryBase(cfg)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{
		Config:    cfg,
		StyleName: cfg.StyleName(),
		Theme:     base.Theme,
		Base:      base,
	}, nil
}
