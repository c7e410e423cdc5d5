package document

import (
	"context"
	"errors"

	"github.com/tadinve/p3-search/domain/store"
)

// ErrNotFound is returned when a document id has no stored lines.
var ErrNotFound = errors.New("document not found")

// Neighbor is a stored line together with its distance to a query vector.
// Smaller distance means closer.
type Neighbor struct {
	line     Line
	distance float64
}

// NewNeighbor creates a neighbor result.
func NewNeighbor(line Line, distance float64) Neighbor {
	return Neighbor{line: line, distance: distance}
}

// Line returns the stored line.
func (n Neighbor) Line() Line { return n.line }

// Distance returns the squared Euclidean distance to the query vector.
func (n Neighbor) Distance() float64 { return n.distance }

// LineStore persists line records and answers nearest-neighbor queries.
//
// Mutating operations are serialized by the implementation; reads may run
// concurrently. All operations work on an empty store without error.
type LineStore interface {
	// InsertBatch stores all lines in one transaction. Either every line
	// is stored or none are.
	InsertBatch(ctx context.Context, lines []Line) error

	// Find returns lines matching the given options.
	Find(ctx context.Context, options ...store.Option) ([]Line, error)

	// Nearest returns up to limit stored lines ordered by ascending
	// distance to the query vector.
	Nearest(ctx context.Context, vector []float64, limit int) ([]Neighbor, error)

	// ListDocuments summarises every stored document.
	ListDocuments(ctx context.Context) ([]Info, error)

	// FindDocument summarises a single document or returns ErrNotFound.
	FindDocument(ctx context.Context, documentID string) (Info, error)

	// DeleteDocument removes all lines of a document and returns how many
	// were removed. Returns ErrNotFound when the document does not exist.
	DeleteDocument(ctx context.Context, documentID string) (int64, error)

	// DeleteAll removes every stored line and returns the number of
	// documents and lines removed. Deleting an empty store succeeds with
	// zero counts.
	DeleteAll(ctx context.Context) (documents int64, lines int64, err error)
}
