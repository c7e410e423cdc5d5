package extractor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"

	"github.com/tadinve/p3-search/internal/log"
)

// pdfiumPoolTimeout bounds how long Extract waits for a worker instance.
const pdfiumPoolTimeout = 30 * time.Second

// pdfiumSingleton holds the process-wide pdfium WebAssembly pool. Spinning
// up the wazero runtime is expensive, so all Pdfium instances share it.
var pdfiumSingleton struct {
	pool  pdfium.Pool
	mu    sync.Mutex
	ready bool
}

func pdfiumPool() (pdfium.Pool, error) {
	pdfiumSingleton.mu.Lock()
	defer pdfiumSingleton.mu.Unlock()

	if pdfiumSingleton.ready {
		return pdfiumSingleton.pool, nil
	}

	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize pdfium runtime: %w", err)
	}

	pdfiumSingleton.pool = pool
	pdfiumSingleton.ready = true
	return pool, nil
}

// Pdfium extracts text with layout information via the pdfium library,
// detecting table rows from the position of text runs on each page.
type Pdfium struct {
	logger *log.Logger
}

// NewPdfium creates the layout-aware extractor.
func NewPdfium(logger *log.Logger) *Pdfium {
	if logger == nil {
		logger = log.Default()
	}
	return &Pdfium{logger: logger}
}

// Extract parses the PDF and emits lines in reading order, merging
// detected table rows.
func (p *Pdfium) Extract(ctx context.Context, data []byte) (Result, error) {
	pool, err := pdfiumPool()
	if err != nil {
		return Result{}, err
	}

	instance, err := pool.GetInstance(pdfiumPoolTimeout)
	if err != nil {
		return Result{}, fmt.Errorf("acquire pdfium instance: %w", err)
	}
	defer func() { _ = instance.Close() }()

	doc, err := instance.OpenDocument(&requests.OpenDocument{
		File: &data,
	})
	if err != nil {
		return Result{}, fmt.Errorf("open document: %w", err)
	}
	defer func() {
		_, _ = instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
			Document: doc.Document,
		})
	}()

	pageCount, err := instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		return Result{}, fmt.Errorf("get page count: %w", err)
	}

	var candidates []candidate
	for i := 0; i < pageCount.PageCount; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		structured, err := instance.GetPageTextStructured(&requests.GetPageTextStructured{
			Page: requests.Page{
				ByIndex: &requests.PageByIndex{
					Document: doc.Document,
					Index:    i,
				},
			},
			Mode: requests.GetPageTextStructuredModeRects,
		})
		if err != nil {
			return Result{}, fmt.Errorf("read page %d: %w", i+1, err)
		}

		segments := make([]segment, 0, len(structured.Rects))
		for _, rect := range structured.Rects {
			if rect == nil || rect.Text == "" {
				continue
			}
			segments = append(segments, segment{
				text:   rect.Text,
				left:   rect.PointPosition.Left,
				top:    rect.PointPosition.Top,
				right:  rect.PointPosition.Right,
				bottom: rect.PointPosition.Bottom,
			})
		}

		pageCandidates := pageLines(segments, i+1)
		p.logger.DebugContext(ctx, "page extracted",
			"page", i+1,
			"segments", len(segments),
			"lines", len(pageCandidates),
		)
		candidates = append(candidates, pageCandidates...)
	}

	return assemble(candidates, ModeLayout)
}
