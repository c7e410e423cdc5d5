package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble_FiltersShortLinesBeforeNumbering(t *testing.T) {
	candidates := []candidate{
		{content: "This is a long enough line.", page: 1},
		{content: "short", page: 1},
		{content: "   ", page: 1},
		{content: "Another line that easily qualifies.", page: 2},
		{content: "exactly10!", page: 2}, // 10 runes, still dropped
	}

	result, err := assemble(candidates, ModeLayout)
	require.NoError(t, err)

	lines := result.Lines()
	require.Len(t, lines, 2)

	// Numbering is gapless even though candidates were dropped
	assert.Equal(t, 1, lines[0].LineNumber())
	assert.Equal(t, "This is a long enough line.", lines[0].Content())
	assert.Equal(t, 1, lines[0].PageNumber())

	assert.Equal(t, 2, lines[1].LineNumber())
	assert.Equal(t, "Another line that easily qualifies.", lines[1].Content())
	assert.Equal(t, 2, lines[1].PageNumber())
}

func TestAssemble_TrimsBeforeMeasuring(t *testing.T) {
	// 9 visible runes padded with whitespace: trimmed length decides
	candidates := []candidate{
		{content: "   nine char     ", page: 1},
	}

	_, err := assemble(candidates, ModeText)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestAssemble_CountsRunesNotBytes(t *testing.T) {
	// 11 runes but more bytes; must be kept
	candidates := []candidate{
		{content: "héllo wörld", page: 1},
	}

	result, err := assemble(candidates, ModeText)
	require.NoError(t, err)
	require.Len(t, result.Lines(), 1)
}

func TestAssemble_Empty(t *testing.T) {
	_, err := assemble(nil, ModeLayout)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestAssemble_PreservesTableFlag(t *testing.T) {
	candidates := []candidate{
		{content: "A plain sentence of prose text.", page: 1},
		{content: tableContent([]string{"Region", "Revenue", "Margin"}), page: 1, table: true},
	}

	result, err := assemble(candidates, ModeLayout)
	require.NoError(t, err)

	lines := result.Lines()
	require.Len(t, lines, 2)
	assert.False(t, lines[0].IsTable())
	assert.True(t, lines[1].IsTable())
	assert.Equal(t, "[TABLE] Region | Revenue | Margin", lines[1].Content())
}

// fakeExtractor returns a canned result or error.
type fakeExtractor struct {
	result Result
	err    error
	calls  int
}

func (f *fakeExtractor) Extract(_ context.Context, _ []byte) (Result, error) {
	f.calls++
	return f.result, f.err
}

func okResult(mode Mode) Result {
	return NewResult([]Line{NewLine("A perfectly good text line.", 1, 1, false)}, mode)
}

func TestPipeline_PrimarySucceeds(t *testing.T) {
	primary := &fakeExtractor{result: okResult(ModeLayout)}
	fallback := &fakeExtractor{result: okResult(ModeText)}
	p := NewPipeline(primary, fallback, nil)

	result, err := p.Extract(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, ModeLayout, result.Mode())
	assert.Equal(t, 0, fallback.calls)
}

func TestPipeline_FallsBackOnError(t *testing.T) {
	primary := &fakeExtractor{err: errors.New("corrupt xref")}
	fallback := &fakeExtractor{result: okResult(ModeText)}
	p := NewPipeline(primary, fallback, nil)

	result, err := p.Extract(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, ModeText, result.Mode())
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestPipeline_FallsBackOnEmpty(t *testing.T) {
	primary := &fakeExtractor{err: ErrEmptyDocument}
	fallback := &fakeExtractor{result: okResult(ModeText)}
	p := NewPipeline(primary, fallback, nil)

	result, err := p.Extract(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, ModeText, result.Mode())
}

func TestPipeline_BothEmpty(t *testing.T) {
	primary := &fakeExtractor{err: ErrEmptyDocument}
	fallback := &fakeExtractor{err: ErrEmptyDocument}
	p := NewPipeline(primary, fallback, nil)

	_, err := p.Extract(context.Background(), []byte("%PDF"))
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestPipeline_BothFail(t *testing.T) {
	primary := &fakeExtractor{err: errors.New("primary broke")}
	fallback := &fakeExtractor{err: errors.New("fallback broke")}
	p := NewPipeline(primary, fallback, nil)

	_, err := p.Extract(context.Background(), []byte("%PDF"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtraction)
	assert.Contains(t, err.Error(), "primary broke")
	assert.Contains(t, err.Error(), "fallback broke")
}

func TestPipeline_NoFallback(t *testing.T) {
	primaryErr := errors.New("primary broke")
	p := NewPipeline(&fakeExtractor{err: primaryErr}, nil, nil)

	_, err := p.Extract(context.Background(), []byte("%PDF"))
	assert.ErrorIs(t, err, primaryErr)
}
