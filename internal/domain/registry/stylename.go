package registry

import (
	"errors"
	"strings"
)

// ErrInvalidStyleName is returned when a style name is not of the form base-style.
var ErrInvalidStyleName = errors.New("invalid style name")

const styleNameSeparator = "-"

// BuildStyleName returns the index key for a base and visual style,
// e.g. BuildStyleName("radix", "hanzo") == "radix-hanzo".
// Every index key is produced by this function.
func BuildStyleName(base, style string) string {
	return base + styleNameSeparator + style
}

// ParseStyleName splits a style name at its first separator. Base names
// never contain the separator, so the remainder is the visual style.
func ParseStyleName(name string) (base, style string, err error) {
	base, style, ok := strings.Cut(name, styleNameSeparator)
	if !ok || base == "" || style == "" {
		return "", "", ErrInvalidStyleName
	}
	return base, style, nil
}
