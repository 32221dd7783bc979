package presentation

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffOp marks a line of a LineDiff.
type DiffOp int

const (
	DiffEqual DiffOp = iota
	DiffInsert
	DiffDelete
)

// DiffLine is one line of a line diff, without its trailing newline.
type DiffLine struct {
	Op   DiffOp
	Text string
}

// LineDiff compares two texts line by line.
func LineDiff(oldText, newText string) []DiffLine {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []DiffLine
	for _, d := range diffs {
		op := DiffEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = DiffInsert
		case diffmatchpatch.DiffDelete:
			op = DiffDelete
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out = append(out, DiffLine{Op: op, Text: strings.TrimSuffix(line, "\n")})
		}
	}
	return out
}

// Changed reports whether any line differs.
func Changed(diff []DiffLine) bool {
	for _, l := range diff {
		if l.Op != DiffEqual {
			return true
		}
	}
	return false
}

var (
	insertStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	deleteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// WriteDiff prints diff in unified style. With context >= 0 only changed
// lines and that many surrounding lines are shown.
func WriteDiff(w io.Writer, diff []DiffLine, context int) error {
	show := make([]bool, len(diff))
	for i, l := range diff {
		if l.Op == DiffEqual && context >= 0 {
			continue
		}
		for j := max(0, i-max(context, 0)); j <= min(len(diff)-1, i+max(context, 0)); j++ {
			show[j] = true
		}
	}

	skipped := false
	for i, l := range diff {
		if !show[i] {
			skipped = true
			continue
		}
		if skipped {
			if _, err := fmt.Fprintln(w, "  ..."); err != nil {
				return err
			}
			skipped = false
		}
		var line string
		switch l.Op {
		case DiffInsert:
			line = insertStyle.Render("+ " + l.Text)
		case DiffDelete:
			line = deleteStyle.Render("- " + l.Text)
		default:
			line = "  " + l.Text
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
