package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tadinve/p3-search/domain/document"
	"github.com/tadinve/p3-search/infrastructure/extractor"
	"github.com/tadinve/p3-search/infrastructure/provider"
	"github.com/tadinve/p3-search/internal/log"
)

// Receipt reports the outcome of one ingestion.
type Receipt struct {
	documentID     string
	filename       string
	linesProcessed int
	mode           extractor.Mode
}

// DocumentID returns the id assigned to the new document.
func (r Receipt) DocumentID() string { return r.documentID }

// Filename returns the uploaded filename.
func (r Receipt) Filename() string { return r.filename }

// LinesProcessed returns how many lines were embedded and stored.
func (r Receipt) LinesProcessed() int { return r.linesProcessed }

// Mode returns which extraction strategy produced the lines.
func (r Receipt) Mode() extractor.Mode { return r.mode }

// IngestOption configures the Ingest service.
type IngestOption func(*Ingest)

// WithEmbeddingParallelism sets how many embedding batches are dispatched
// concurrently. Defaults to 1. Values <= 0 are ignored.
func WithEmbeddingParallelism(n int) IngestOption {
	return func(s *Ingest) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// Ingest turns uploaded PDFs into embedded, stored line records.
type Ingest struct {
	extractor   extractor.Extractor
	embedder    provider.Embedder
	lines       document.LineStore
	logger      *log.Logger
	parallelism int
}

// NewIngest creates the ingestion service.
func NewIngest(ex extractor.Extractor, embedder provider.Embedder, lines document.LineStore, logger *log.Logger, opts ...IngestOption) *Ingest {
	if logger == nil {
		logger = log.Default()
	}
	s := &Ingest{
		extractor:   ex,
		embedder:    embedder,
		lines:       lines,
		logger:      logger,
		parallelism: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest extracts, embeds, and stores the given PDF. The whole document
// is stored in one transaction: a failure anywhere leaves no partial
// state behind.
func (s *Ingest) Ingest(ctx context.Context, filename string, data []byte) (Receipt, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return Receipt{}, fmt.Errorf("%w: %s", ErrNotPDF, filename)
	}

	started := time.Now()

	result, err := s.extractor.Extract(ctx, data)
	if err != nil {
		return Receipt{}, fmt.Errorf("extract %s: %w", filename, err)
	}

	extracted := result.Lines()
	texts := make([]string, len(extracted))
	for i, line := range extracted {
		texts[i] = line.Content()
	}

	vectors, err := s.embedAll(ctx, texts)
	if err != nil {
		return Receipt{}, fmt.Errorf("embed %s: %w", filename, err)
	}

	documentID := uuid.NewString()
	uploadDate := time.Now().UTC()

	lines := make([]document.Line, len(extracted))
	for i, line := range extracted {
		lines[i] = document.NewLine(
			uuid.NewString(),
			documentID,
			line.Content(),
			line.PageNumber(),
			line.LineNumber(),
			line.IsTable(),
			filename,
			uploadDate,
			vectors[i],
		)
	}

	if err := s.lines.InsertBatch(ctx, lines); err != nil {
		return Receipt{}, fmt.Errorf("store %s: %w", filename, err)
	}

	s.logger.InfoContext(ctx, "document ingested",
		"document_id", documentID,
		"filename", filename,
		"lines", len(lines),
		"mode", string(result.Mode()),
		"duration_ms", time.Since(started).Milliseconds(),
	)

	return Receipt{
		documentID:     documentID,
		filename:       filename,
		linesProcessed: len(lines),
		mode:           result.Mode(),
	}, nil
}

// embedAll embeds texts in provider-capacity batches, dispatching up to
// s.parallelism batches concurrently. The returned vectors are in input
// order.
func (s *Ingest) embedAll(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	batchSize := s.embedder.Capacity()
	if batchSize <= 0 {
		batchSize = len(texts)
	}

	vectors := make([][]float64, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)

	for offset := 0; offset < len(texts); offset += batchSize {
		end := min(offset+batchSize, len(texts))
		batch := texts[offset:end]

		g.Go(func() error {
			resp, err := s.embedder.Embed(gctx, provider.NewEmbeddingRequest(batch))
			if err != nil {
				return err
			}
			embeddings := resp.Embeddings()
			if len(embeddings) != len(batch) {
				return fmt.Errorf("embedder returned %d vectors for %d texts", len(embeddings), len(batch))
			}
			copy(vectors[offset:end], embeddings)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
