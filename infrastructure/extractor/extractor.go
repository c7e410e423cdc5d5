// Package extractor turns PDF bytes into ordered, table-aware text lines.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tadinve/p3-search/domain/document"
	"github.com/tadinve/p3-search/internal/log"
)

// MinContentLength is the trimmed rune count a line must exceed to be kept.
// Shorter lines carry too little meaning to embed.
const MinContentLength = 10

// Mode identifies which extraction strategy produced a result.
type Mode string

// Extraction modes.
const (
	// ModeLayout is the pdfium path with table detection.
	ModeLayout Mode = "layout"

	// ModeText is the plain-text fallback path without table detection.
	ModeText Mode = "text"
)

var (
	// ErrEmptyDocument indicates the PDF contained no storable text lines.
	ErrEmptyDocument = errors.New("no extractable text in document")

	// ErrExtraction indicates all extraction strategies failed.
	ErrExtraction = errors.New("text extraction failed")
)

// Line is one extracted line before embedding.
type Line struct {
	content    string
	pageNumber int
	lineNumber int
	isTable    bool
}

// NewLine creates an extracted line.
func NewLine(content string, pageNumber, lineNumber int, isTable bool) Line {
	return Line{
		content:    content,
		pageNumber: pageNumber,
		lineNumber: lineNumber,
		isTable:    isTable,
	}
}

// Content returns the trimmed line text, including the table marker for
// table rows.
func (l Line) Content() string { return l.content }

// PageNumber returns the 1-based page the line came from.
func (l Line) PageNumber() int { return l.pageNumber }

// LineNumber returns the 1-based document-global position.
func (l Line) LineNumber() int { return l.lineNumber }

// IsTable reports whether the line is a merged table row.
func (l Line) IsTable() bool { return l.isTable }

// Result is an ordered sequence of extracted lines.
type Result struct {
	lines []Line
	mode  Mode
}

// NewResult creates an extraction result.
func NewResult(lines []Line, mode Mode) Result {
	ls := make([]Line, len(lines))
	copy(ls, lines)
	return Result{lines: ls, mode: mode}
}

// Lines returns the extracted lines in reading order with gapless
// ascending line numbers.
func (r Result) Lines() []Line {
	ls := make([]Line, len(r.lines))
	copy(ls, r.lines)
	return ls
}

// Mode returns the extraction strategy that produced the result.
func (r Result) Mode() Mode { return r.mode }

// Extractor extracts text lines from PDF bytes.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (Result, error)
}

// candidate is a raw line prior to filtering and numbering.
type candidate struct {
	content string
	page    int
	table   bool
}

// assemble filters candidates and assigns line numbers. Blank lines and
// lines at or below MinContentLength are dropped before numbering, so the
// stored sequence is always 1..n without gaps.
func assemble(candidates []candidate, mode Mode) (Result, error) {
	lines := make([]Line, 0, len(candidates))
	for _, c := range candidates {
		content := strings.TrimSpace(c.content)
		if utf8.RuneCountInString(content) <= MinContentLength {
			continue
		}
		lines = append(lines, NewLine(content, c.page, len(lines)+1, c.table))
	}
	if len(lines) == 0 {
		return Result{}, ErrEmptyDocument
	}
	return NewResult(lines, mode), nil
}

// Pipeline runs a primary extractor and falls back to a second one when
// the primary fails. Both failing is an extraction error.
type Pipeline struct {
	primary  Extractor
	fallback Extractor
	logger   *log.Logger
}

// NewPipeline creates a two-stage extraction pipeline.
func NewPipeline(primary, fallback Extractor, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{primary: primary, fallback: fallback, logger: logger}
}

// Extract runs the primary extractor and, if it fails, the fallback.
func (p *Pipeline) Extract(ctx context.Context, data []byte) (Result, error) {
	result, primaryErr := p.primary.Extract(ctx, data)
	if primaryErr == nil {
		return result, nil
	}
	if errors.Is(primaryErr, ErrEmptyDocument) {
		// The primary parsed the PDF but found nothing worth keeping.
		// A different parser may still recover text.
		p.logger.DebugContext(ctx, "primary extractor found no text, trying fallback")
	} else {
		p.logger.WarnContext(ctx, "primary extractor failed, trying fallback", "error", primaryErr)
	}

	if p.fallback == nil {
		return Result{}, primaryErr
	}

	result, fallbackErr := p.fallback.Extract(ctx, data)
	if fallbackErr != nil {
		if errors.Is(primaryErr, ErrEmptyDocument) && errors.Is(fallbackErr, ErrEmptyDocument) {
			return Result{}, ErrEmptyDocument
		}
		return Result{}, fmt.Errorf("%w: %s", ErrExtraction, errors.Join(primaryErr, fallbackErr))
	}
	return result, nil
}

var (
	_ Extractor = (*Pipeline)(nil)
	_ Extractor = (*Pdfium)(nil)
	_ Extractor = (*PlainText)(nil)
)

// tableContent builds the stored content of a merged table row.
func tableContent(cells []string) string {
	return document.TableMarker + strings.Join(cells, document.CellSeparator)
}
