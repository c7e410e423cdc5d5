package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tadinve/p3-search/domain/document"
	"github.com/tadinve/p3-search/infrastructure/extractor"
	"github.com/tadinve/p3-search/infrastructure/persistence"
	"github.com/tadinve/p3-search/infrastructure/provider"
	"github.com/tadinve/p3-search/internal/testdb"
)

// fakeEmbedder returns canned vectors per text. Unknown texts get a
// deterministic fallback vector so ingestion tests need no fixture for
// every line.
type fakeEmbedder struct {
	mu       sync.Mutex
	capacity int
	vectors  map[string][]float64
	batches  [][]string
	err      error

	// short is the vector count to return regardless of batch size,
	// when set, to provoke count-mismatch handling.
	short int
}

func (f *fakeEmbedder) Embed(_ context.Context, req provider.EmbeddingRequest) (provider.EmbeddingResponse, error) {
	if f.err != nil {
		return provider.EmbeddingResponse{}, f.err
	}
	texts := req.Texts()

	f.mu.Lock()
	f.batches = append(f.batches, texts)
	f.mu.Unlock()

	n := len(texts)
	if f.short > 0 {
		n = f.short
	}
	embeddings := make([][]float64, 0, n)
	for i := 0; i < n; i++ {
		if v, ok := f.vectors[texts[i]]; ok {
			embeddings = append(embeddings, v)
			continue
		}
		embeddings = append(embeddings, []float64{float64(len(texts[i])), 1})
	}
	return provider.NewEmbeddingResponse(embeddings, provider.Usage{}), nil
}

func (f *fakeEmbedder) Capacity() int { return f.capacity }
func (f *fakeEmbedder) Close() error  { return nil }

// fixedExtractor returns a canned extraction result.
type fixedExtractor struct {
	result extractor.Result
	err    error
}

func (f *fixedExtractor) Extract(_ context.Context, _ []byte) (extractor.Result, error) {
	return f.result, f.err
}

func extractedLines(contents ...string) extractor.Result {
	lines := make([]extractor.Line, len(contents))
	for i, c := range contents {
		lines[i] = extractor.NewLine(c, 1, i+1, false)
	}
	return extractor.NewResult(lines, extractor.ModeLayout)
}

func newLineStore(t *testing.T) document.LineStore {
	t.Helper()
	return persistence.NewLineStore(testdb.New(t), nil)
}

func TestIngest_RejectsNonPDF(t *testing.T) {
	svc := NewIngest(&fixedExtractor{}, &fakeEmbedder{}, newLineStore(t), nil)

	_, err := svc.Ingest(context.Background(), "notes.txt", []byte("hello"))
	require.ErrorIs(t, err, ErrNotPDF)
	assert.Contains(t, err.Error(), "notes.txt")
}

func TestIngest_AcceptsUppercaseExtension(t *testing.T) {
	svc := NewIngest(
		&fixedExtractor{result: extractedLines("A line of report text to keep.")},
		&fakeEmbedder{},
		newLineStore(t),
		nil,
	)

	receipt, err := svc.Ingest(context.Background(), "REPORT.PDF", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "REPORT.PDF", receipt.Filename())
}

func TestIngest_StoresExtractedLines(t *testing.T) {
	ctx := context.Background()
	store := newLineStore(t)
	svc := NewIngest(
		&fixedExtractor{result: extractedLines(
			"The first line of the document.",
			"The second line of the document.",
		)},
		&fakeEmbedder{},
		store,
		nil,
	)

	receipt, err := svc.Ingest(ctx, "report.pdf", []byte("%PDF"))
	require.NoError(t, err)

	assert.NotEmpty(t, receipt.DocumentID())
	assert.Equal(t, "report.pdf", receipt.Filename())
	assert.Equal(t, 2, receipt.LinesProcessed())
	assert.Equal(t, extractor.ModeLayout, receipt.Mode())

	stored, err := store.Find(ctx,
		document.WithDocumentID(receipt.DocumentID()),
		document.ByLineNumber(),
	)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	assert.Equal(t, "The first line of the document.", stored[0].Content())
	assert.Equal(t, 1, stored[0].LineNumber())
	assert.Equal(t, "report.pdf", stored[0].Filename())
	assert.NotEmpty(t, stored[0].Vector())
	assert.NotEqual(t, stored[0].ID(), stored[1].ID())
}

func TestIngest_BatchesAtEmbedderCapacity(t *testing.T) {
	embedder := &fakeEmbedder{capacity: 2}
	svc := NewIngest(
		&fixedExtractor{result: extractedLines(
			"Line number one of the upload.",
			"Line number two of the upload.",
			"Line number three of the upload.",
			"Line number four of the upload.",
			"Line number five of the upload.",
		)},
		embedder,
		newLineStore(t),
		nil,
	)

	receipt, err := svc.Ingest(context.Background(), "report.pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, 5, receipt.LinesProcessed())

	require.Len(t, embedder.batches, 3)
	assert.Len(t, embedder.batches[0], 2)
	assert.Len(t, embedder.batches[1], 2)
	assert.Len(t, embedder.batches[2], 1)
}

func TestIngest_ParallelEmbeddingPreservesOrder(t *testing.T) {
	ctx := context.Background()
	store := newLineStore(t)

	contents := make([]string, 20)
	vectors := map[string][]float64{}
	for i := range contents {
		contents[i] = fmt.Sprintf("Line %02d of a larger document.", i+1)
		vectors[contents[i]] = []float64{float64(i + 1)}
	}

	svc := NewIngest(
		&fixedExtractor{result: extractedLines(contents...)},
		&fakeEmbedder{capacity: 3, vectors: vectors},
		store,
		nil,
		WithEmbeddingParallelism(4),
	)

	receipt, err := svc.Ingest(ctx, "report.pdf", []byte("%PDF"))
	require.NoError(t, err)

	stored, err := store.Find(ctx,
		document.WithDocumentID(receipt.DocumentID()),
		document.ByLineNumber(),
	)
	require.NoError(t, err)
	require.Len(t, stored, 20)

	// Each line carries the vector of its own content, whatever order the
	// batches finished in.
	for i, line := range stored {
		assert.Equal(t, []float64{float64(i + 1)}, line.Vector(), "line %d", i+1)
	}
}

func TestIngest_ExtractionFailure(t *testing.T) {
	extractErr := errors.New("damaged xref table")
	svc := NewIngest(&fixedExtractor{err: extractErr}, &fakeEmbedder{}, newLineStore(t), nil)

	_, err := svc.Ingest(context.Background(), "report.pdf", []byte("%PDF"))
	require.ErrorIs(t, err, extractErr)
}

func TestIngest_EmbedderFailureStoresNothing(t *testing.T) {
	ctx := context.Background()
	store := newLineStore(t)
	embedErr := errors.New("endpoint unavailable")
	svc := NewIngest(
		&fixedExtractor{result: extractedLines("A line of report text to keep.")},
		&fakeEmbedder{err: embedErr},
		store,
		nil,
	)

	_, err := svc.Ingest(ctx, "report.pdf", []byte("%PDF"))
	require.ErrorIs(t, err, embedErr)

	infos, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestIngest_EmbedderCountMismatch(t *testing.T) {
	svc := NewIngest(
		&fixedExtractor{result: extractedLines(
			"The first line of the document.",
			"The second line of the document.",
		)},
		&fakeEmbedder{short: 1},
		newLineStore(t),
		nil,
	)

	_, err := svc.Ingest(context.Background(), "report.pdf", []byte("%PDF"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 vectors for 2 texts")
}
