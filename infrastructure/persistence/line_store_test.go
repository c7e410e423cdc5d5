package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tadinve/p3-search/domain/document"
	"github.com/tadinve/p3-search/internal/database"
)

// newTestDB creates a migrated in-memory SQLite database.
// Cannot use testdb package here due to import cycle (testdb imports persistence).
func newTestDB(t *testing.T) database.Database {
	t.Helper()
	ctx := context.Background()
	db, err := database.NewDatabase(ctx, "sqlite:///:memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestStore(t *testing.T) *LineStore {
	t.Helper()
	return NewLineStore(newTestDB(t), nil)
}

func docLines(documentID, filename string, uploadDate time.Time, vectors ...[]float64) []document.Line {
	lines := make([]document.Line, len(vectors))
	for i, v := range vectors {
		lines[i] = document.NewLine(
			documentID+"-line-"+string(rune('a'+i)),
			documentID,
			"content of a sufficiently long line",
			1,
			i+1,
			false,
			filename,
			uploadDate,
			v,
		)
	}
	return lines
}

func TestLineStore_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	uploaded := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	lines := docLines("doc-1", "a.pdf", uploaded, []float64{1, 0}, []float64{0, 1})
	require.NoError(t, store.InsertBatch(ctx, lines))

	found, err := store.Find(ctx, document.WithDocumentID("doc-1"), document.ByLineNumber())
	require.NoError(t, err)
	require.Len(t, found, 2)

	assert.Equal(t, "doc-1", found[0].DocumentID())
	assert.Equal(t, 1, found[0].LineNumber())
	assert.Equal(t, 2, found[1].LineNumber())
	assert.Equal(t, "a.pdf", found[0].Filename())
	assert.Equal(t, []float64{1, 0}, found[0].Vector())
	assert.True(t, uploaded.Equal(found[0].UploadDate()))
}

func TestLineStore_InsertBatch_EmptyIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.InsertBatch(ctx, nil))

	infos, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestLineStore_InsertBatch_RejectsMixedDimensions(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	lines := docLines("doc-1", "a.pdf", time.Now(), []float64{1, 0}, []float64{1, 0, 0})
	err := store.InsertBatch(ctx, lines)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension mismatch")
}

func TestLineStore_InsertBatch_RejectsDimensionChange(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.InsertBatch(ctx, docLines("doc-1", "a.pdf", time.Now(), []float64{1, 0})))

	err := store.InsertBatch(ctx, docLines("doc-2", "b.pdf", time.Now(), []float64{1, 0, 0}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension mismatch")
}

func TestLineStore_Nearest(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	lines := docLines("doc-1", "a.pdf", time.Now(),
		[]float64{0, 1},  // distance 2 from query {1, 0}
		[]float64{1, 0},  // distance 0
		[]float64{-1, 0}, // distance 4
	)
	require.NoError(t, store.InsertBatch(ctx, lines))

	neighbors, err := store.Nearest(ctx, []float64{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, neighbors, 2)

	assert.Equal(t, 0.0, neighbors[0].Distance())
	assert.Equal(t, 2, neighbors[0].Line().LineNumber())
	assert.Equal(t, 2.0, neighbors[1].Distance())
}

func TestLineStore_Nearest_EmptyStore(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	neighbors, err := store.Nearest(ctx, []float64{1, 0}, 10)
	require.NoError(t, err)
	assert.Empty(t, neighbors)
}

func TestLineStore_ListDocuments(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	older := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.InsertBatch(ctx, docLines("doc-old", "old.pdf", older, []float64{1}, []float64{2})))
	require.NoError(t, store.InsertBatch(ctx, docLines("doc-new", "new.pdf", newer, []float64{3})))

	infos, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	// Most recent upload first
	assert.Equal(t, "doc-new", infos[0].DocumentID())
	assert.Equal(t, "new.pdf", infos[0].Filename())
	assert.Equal(t, 1, infos[0].LineCount())

	assert.Equal(t, "doc-old", infos[1].DocumentID())
	assert.Equal(t, 2, infos[1].LineCount())
}

func TestLineStore_ListDocuments_Empty(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	infos, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestLineStore_FindDocument(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	uploaded := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	lines := []document.Line{
		document.NewLine("l1", "doc-1", "first line of the document text", 1, 1, false, "a.pdf", uploaded, []float64{1}),
		document.NewLine("l2", "doc-1", "second line on a later page here", 3, 2, false, "a.pdf", uploaded, []float64{2}),
	}
	require.NoError(t, store.InsertBatch(ctx, lines))

	info, err := store.FindDocument(ctx, "doc-1")
	require.NoError(t, err)

	assert.Equal(t, "doc-1", info.DocumentID())
	assert.Equal(t, "a.pdf", info.Filename())
	assert.Equal(t, 2, info.LineCount())
	assert.Equal(t, 1, info.FirstPage())
	assert.Equal(t, 3, info.LastPage())
}

func TestLineStore_FindDocument_NotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.FindDocument(ctx, "missing")
	assert.ErrorIs(t, err, document.ErrNotFound)
}

func TestLineStore_DeleteDocument(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.InsertBatch(ctx, docLines("doc-1", "a.pdf", time.Now(), []float64{1}, []float64{2})))
	require.NoError(t, store.InsertBatch(ctx, docLines("doc-2", "b.pdf", time.Now(), []float64{3})))

	count, err := store.DeleteDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Other documents untouched
	infos, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "doc-2", infos[0].DocumentID())

	_, err = store.FindDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, document.ErrNotFound)
}

func TestLineStore_DeleteDocument_NotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.DeleteDocument(ctx, "missing")
	assert.ErrorIs(t, err, document.ErrNotFound)
}

func TestLineStore_DeleteAll(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.InsertBatch(ctx, docLines("doc-1", "a.pdf", time.Now(), []float64{1}, []float64{2})))
	require.NoError(t, store.InsertBatch(ctx, docLines("doc-2", "b.pdf", time.Now(), []float64{3})))

	docs, lines, err := store.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), docs)
	assert.Equal(t, int64(3), lines)

	// Second call reports zero counts and does not error
	docs, lines, err = store.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), docs)
	assert.Equal(t, int64(0), lines)
}
