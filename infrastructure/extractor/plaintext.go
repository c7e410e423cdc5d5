package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/tadinve/p3-search/internal/log"
)

// PlainText is the fallback extractor. It recovers raw text page by page
// without layout analysis, so no table rows are detected.
type PlainText struct {
	logger *log.Logger
}

// NewPlainText creates the fallback extractor.
func NewPlainText(logger *log.Logger) *PlainText {
	if logger == nil {
		logger = log.Default()
	}
	return &PlainText{logger: logger}
}

// Extract parses the PDF and emits every non-blank text line.
func (p *PlainText) Extract(ctx context.Context, data []byte) (result Result, err error) {
	// The pdf package panics on some malformed files instead of
	// returning an error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("parse pdf: %w", err)
	}

	var candidates []candidate
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			p.logger.DebugContext(ctx, "skipping unreadable page", "page", i, "error", err)
			continue
		}

		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			candidates = append(candidates, candidate{content: line, page: i})
		}
	}

	return assemble(candidates, ModeText)
}
