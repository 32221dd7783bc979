package presentation

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineDiff(t *testing.T) {
	oldText := "a\nb\nc\n"
	newText := "a\nB\nc\nd\n"

	diff := LineDiff(oldText, newText)
	require.Equal(t, []DiffLine{
		{Op: DiffEqual, Text: "a"},
		{Op: DiffDelete, Text: "b"},
		{Op: DiffInsert, Text: "B"},
		{Op: DiffEqual, Text: "c"},
		{Op: DiffInsert, Text: "d"},
	}, diff)
	require.True(t, Changed(diff))
	require.False(t, Changed(LineDiff(oldText, oldText)))
}

func TestWriteDiff(t *testing.T) {
	diff := LineDiff("1\n2\n3\n4\n5\n6\n", "1\n2\n3\n4\n5\nsix\n")

	var full bytes.Buffer
	require.NoError(t, WriteDiff(&full, diff, -1))
	require.Contains(t, full.String(), "  1\n")
	require.Contains(t, full.String(), "- 6")
	require.Contains(t, full.String(), "+ six")

	var ctx bytes.Buffer
	require.NoError(t, WriteDiff(&ctx, diff, 1))
	require.NotContains(t, ctx.String(), "  1\n")
	require.Contains(t, ctx.String(), "  ...\n  5\n")
}
