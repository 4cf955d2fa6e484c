package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable_AlignsNumericColumnsRight(t *testing.T) {
	out := RenderTable([]Column{Col("NAME"), NumCol("NODES")}, [][]string{
		{"a", "5"},
		{"bb", "120"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Contains(t, lines[0], "NODES")
	assert.Contains(t, lines[1], "─────")
	assert.Equal(t, "a         5", lines[2])
	assert.Equal(t, "bb      120", lines[3])
}

func TestRenderTable_ShortRowsAndTrailingColumn(t *testing.T) {
	out := RenderTable([]Column{Col("ID"), Col("TITLE")}, [][]string{
		{"x1"},
		{"x2", "Login", "extra"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "x1  ", lines[2])
	assert.Equal(t, "x2  Login", lines[3])
	assert.NotContains(t, out, "extra")
}

func TestRenderTable_NoColumns(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"a"}}))
}
