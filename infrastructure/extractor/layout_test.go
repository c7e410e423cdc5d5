package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seg builds a segment with a 10pt line height at the given baseline.
func seg(text string, left, right, top float64) segment {
	return segment{text: text, left: left, right: right, top: top, bottom: top - 10}
}

func TestGroupRows_ClustersByBaseline(t *testing.T) {
	segments := []segment{
		seg("world", 60, 100, 700),
		seg("hello", 10, 50, 701), // 1pt jitter, same row
		seg("below", 10, 50, 650),
	}

	rows := groupRows(segments)
	require.Len(t, rows, 2)

	// Top row first, segments left to right
	require.Len(t, rows[0].segments, 2)
	assert.Equal(t, "hello", rows[0].segments[0].text)
	assert.Equal(t, "world", rows[0].segments[1].text)

	require.Len(t, rows[1].segments, 1)
	assert.Equal(t, "below", rows[1].segments[0].text)
}

func TestGroupRows_Empty(t *testing.T) {
	assert.Nil(t, groupRows(nil))
}

func TestCells_MergesWordSpacing(t *testing.T) {
	// 4pt gaps are word spacing, one cell
	row := visualRow{segments: []segment{
		seg("Hello", 10, 40, 700),
		seg("world,", 44, 80, 700),
		seg("again", 84, 120, 700),
	}}

	assert.Equal(t, []string{"Hello world, again"}, row.cells())
}

func TestCells_SplitsAtColumnGaps(t *testing.T) {
	// 60pt gaps are column boundaries
	row := visualRow{segments: []segment{
		seg("North", 10, 50, 700),
		seg("1200", 110, 150, 700),
		seg("8%", 210, 230, 700),
	}}

	assert.Equal(t, []string{"North", "1200", "8%"}, row.cells())
}

func TestCells_MixedGaps(t *testing.T) {
	row := visualRow{segments: []segment{
		seg("Net", 10, 30, 700),
		seg("revenue", 34, 80, 700), // word gap
		seg("1200", 140, 180, 700),  // column gap
	}}

	assert.Equal(t, []string{"Net revenue", "1200"}, row.cells())
}

func TestLooksLikeTableRow(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"tab separated", "North\t1200\t8%", true},
		{"double space separated", "North  1200  8%", true},
		{"wide space separated", "North    1200    8%", true},
		{"two fields only", "North\t1200", false},
		{"plain sentence", "Revenue grew strongly in the north region.", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, looksLikeTableRow(tt.line))
		})
	}
}

func TestPageLines_ReadingOrder(t *testing.T) {
	// A sentence above a 2-cell table row: both survive, in top-down order
	segments := []segment{
		seg("X", 10, 20, 650),
		seg("Y", 120, 130, 650),
		seg("Hello world, this is a test line.", 10, 200, 700),
	}

	candidates := pageLines(segments, 1)
	require.Len(t, candidates, 2)

	assert.Equal(t, "Hello world, this is a test line.", candidates[0].content)
	assert.False(t, candidates[0].table)

	assert.Equal(t, "[TABLE] X | Y", candidates[1].content)
	assert.True(t, candidates[1].table)
}

func TestPageLines_SuppressesDuplicateTableText(t *testing.T) {
	// The same table row rendered once as positioned cells and once as a
	// single tab-separated run: the raw rendering is suppressed.
	segments := []segment{
		seg("North", 10, 50, 700),
		seg("1200", 110, 150, 700),
		seg("8%", 210, 230, 700),
		seg("North\t1200\t8%", 10, 230, 650),
	}

	candidates := pageLines(segments, 1)
	require.Len(t, candidates, 1)
	assert.Equal(t, "[TABLE] North | 1200 | 8%", candidates[0].content)
	assert.True(t, candidates[0].table)
}

func TestPageLines_NoTablesKeepsPlainRows(t *testing.T) {
	// Without any table on the page the heuristic never fires
	segments := []segment{
		seg("North\t1200\t8%", 10, 230, 700),
	}

	candidates := pageLines(segments, 1)
	require.Len(t, candidates, 1)
	assert.False(t, candidates[0].table)
}

// End-to-end through assemble: a sentence followed by a one-row,
// two-column table on a single page.
func TestLayout_SentenceAndTableScenario(t *testing.T) {
	segments := []segment{
		seg("Hello world, this is a test line.", 10, 200, 700),
		seg("X", 10, 20, 650),
		seg("Y", 120, 130, 650),
	}

	result, err := assemble(pageLines(segments, 1), ModeLayout)
	require.NoError(t, err)

	lines := result.Lines()
	require.Len(t, lines, 2)

	assert.Equal(t, 1, lines[0].LineNumber())
	assert.Equal(t, "Hello world, this is a test line.", lines[0].Content())
	assert.False(t, lines[0].IsTable())

	assert.Equal(t, 2, lines[1].LineNumber())
	assert.Equal(t, "[TABLE] X | Y", lines[1].Content())
	assert.True(t, lines[1].IsTable())
}
