// Package presentation renders command output as JSON, YAML, TOML or a
// terminal table.
package presentation

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format selects an output encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTOML  Format = "toml"
	FormatTable Format = "table"
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTOML, FormatTable}
}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want json, yaml, toml or table)", s)
}

// Tabular is implemented by values that can render as a table.
type Tabular interface {
	Headers() []string
	Rows() [][]string
}

// listKey wraps top-level lists for TOML, which requires a table at the root.
const listKey = "items"

// Formatter writes values to w in one format.
type Formatter struct {
	writer io.Writer
	format Format
}

// NewFormatter creates a formatter for format.
func NewFormatter(writer io.Writer, format Format) *Formatter {
	return &Formatter{writer: writer, format: format}
}

// Format returns the output format.
func (f *Formatter) Format() Format {
	return f.format
}

// Write encodes v. Structured formats use the JSON field names of v; table
// output needs a Tabular value.
func (f *Formatter) Write(v any) error {
	switch f.format {
	case FormatTable:
		t, ok := v.(Tabular)
		if !ok {
			return fmt.Errorf("%T cannot be shown as a table", v)
		}
		_, err := fmt.Fprintln(f.writer, RenderTable(t))
		return err
	case FormatJSON:
		enc := json.NewEncoder(f.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(Data(v))
	}

	tree, err := normalize(v)
	if err != nil {
		return err
	}
	switch f.format {
	case FormatYAML:
		enc := yaml.NewEncoder(f.writer)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		if _, isMap := tree.(map[string]any); !isMap {
			tree = map[string]any{listKey: tree}
		}
		return toml.NewEncoder(f.writer).Encode(tree)
	}
	return fmt.Errorf("unknown output format %q", f.format)
}

// Data returns the underlying value of a view for structured output.
func Data(v any) any {
	if d, ok := v.(interface{ Data() any }); ok {
		return d.Data()
	}
	return v
}

// normalize converts v to plain maps and slices keyed by its JSON names.
// Nulls are dropped and whole numbers become integers so TOML can encode
// the result.
func normalize(v any) (any, error) {
	data, err := json.Marshal(Data(v))
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return clean(tree), nil
}

func clean(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if val == nil {
				delete(t, k)
				continue
			}
			t[k] = clean(val)
		}
		return t
	case []any:
		out := t[:0]
		for _, val := range t {
			if val != nil {
				out = append(out, clean(val))
			}
		}
		return out
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return int64(t)
		}
	}
	return v
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// RenderTable draws t with a rounded border.
func RenderTable(t Tabular) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(t.Headers()...).
		Rows(t.Rows()...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Render()
}
