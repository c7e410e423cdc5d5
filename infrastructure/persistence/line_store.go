package persistence

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tadinve/p3-search/domain/document"
	"github.com/tadinve/p3-search/domain/store"
	"github.com/tadinve/p3-search/internal/database"
	"github.com/tadinve/p3-search/internal/log"
	"gorm.io/gorm"
)

// insertBatchSize bounds the number of rows per INSERT statement.
const insertBatchSize = 500

// LineStore is the GORM-backed implementation of document.LineStore.
//
// A store-level mutex serializes mutations so writes never interleave;
// reads run concurrently against the database.
type LineStore struct {
	repo   database.Repository[document.Line, LineModel]
	db     database.Database
	logger *log.Logger
	mu     sync.Mutex
}

// NewLineStore creates a line store.
func NewLineStore(db database.Database, logger *log.Logger) *LineStore {
	if logger == nil {
		logger = log.Default()
	}
	return &LineStore{
		repo:   database.NewRepository(db, lineMapper{}, "line"),
		db:     db,
		logger: logger,
	}
}

// InsertBatch stores all lines in one transaction. Vectors must share one
// dimension, both within the batch and with the rows already stored.
func (s *LineStore) InsertBatch(ctx context.Context, lines []document.Line) error {
	if len(lines) == 0 {
		return nil
	}

	dim := len(lines[0].Vector())
	for _, line := range lines {
		if len(line.Vector()) != dim {
			return fmt.Errorf("insert lines: vector dimension mismatch in batch: %d != %d", len(line.Vector()), dim)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if stored, err := s.storedDimension(ctx); err != nil {
		return err
	} else if stored > 0 && stored != dim {
		return fmt.Errorf("insert lines: vector dimension mismatch: got %d, store has %d", dim, stored)
	}

	models := make([]LineModel, len(lines))
	for i, line := range lines {
		models[i] = s.repo.Mapper().ToModel(line)
	}

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		return tx.CreateInBatches(models, insertBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	s.logger.DebugContext(ctx, "lines inserted",
		"document_id", lines[0].DocumentID(),
		"count", len(lines),
	)
	return nil
}

// storedDimension returns the vector dimension of the stored rows, or 0
// when the store is empty.
func (s *LineStore) storedDimension(ctx context.Context) (int, error) {
	var model LineModel
	result := s.db.Session(ctx).Order("upload_date").Limit(1).Find(&model)
	if result.Error != nil {
		return 0, fmt.Errorf("read stored dimension: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, nil
	}
	return len(model.Vector), nil
}

// Find returns lines matching the given options.
func (s *LineStore) Find(ctx context.Context, options ...store.Option) ([]document.Line, error) {
	return s.repo.Find(ctx, options...)
}

// Nearest returns up to limit stored lines ordered by ascending squared
// Euclidean distance to the query vector. An empty store returns an
// empty slice.
func (s *LineStore) Nearest(ctx context.Context, vector []float64, limit int) ([]document.Neighbor, error) {
	lines, err := s.repo.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("load vectors: %w", err)
	}
	return topNearest(vector, lines, limit), nil
}

// documentSummary receives the GROUP BY aggregation row.
type documentSummary struct {
	DocumentID string    `gorm:"column:document_id"`
	Filename   string    `gorm:"column:filename"`
	UploadDate time.Time `gorm:"column:upload_date"`
	LineCount  int       `gorm:"column:line_count"`
	FirstPage  int       `gorm:"column:first_page"`
	LastPage   int       `gorm:"column:last_page"`
}

func (d documentSummary) toInfo() document.Info {
	return document.NewInfo(d.DocumentID, d.Filename, d.UploadDate, d.LineCount, d.FirstPage, d.LastPage)
}

const summaryColumns = "document_id, filename, MIN(upload_date) AS upload_date, " +
	"COUNT(*) AS line_count, MIN(page_number) AS first_page, MAX(page_number) AS last_page"

// ListDocuments summarises every stored document, newest upload first.
func (s *LineStore) ListDocuments(ctx context.Context) ([]document.Info, error) {
	var summaries []documentSummary
	err := s.db.Session(ctx).
		Model(&LineModel{}).
		Select(summaryColumns).
		Group("document_id, filename").
		Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	// Sort in Go rather than by the aggregate alias: alias ordering is
	// dialect-sensitive.
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].UploadDate.After(summaries[j].UploadDate)
	})

	infos := make([]document.Info, len(summaries))
	for i, summary := range summaries {
		infos[i] = summary.toInfo()
	}
	return infos, nil
}

// FindDocument summarises a single document or returns document.ErrNotFound.
func (s *LineStore) FindDocument(ctx context.Context, documentID string) (document.Info, error) {
	var summaries []documentSummary
	err := s.db.Session(ctx).
		Model(&LineModel{}).
		Select(summaryColumns).
		Where("document_id = ?", documentID).
		Group("document_id, filename").
		Scan(&summaries).Error
	if err != nil {
		return document.Info{}, fmt.Errorf("find document: %w", err)
	}
	if len(summaries) == 0 {
		return document.Info{}, document.ErrNotFound
	}
	return summaries[0].toInfo(), nil
}

// DeleteDocument removes all lines of a document and returns how many
// rows were removed.
func (s *LineStore) DeleteDocument(ctx context.Context, documentID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.repo.DeleteBy(ctx, document.WithDocumentID(documentID))
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, document.ErrNotFound
	}

	s.logger.DebugContext(ctx, "document deleted", "document_id", documentID, "lines", count)
	return count, nil
}

// DeleteAll removes every stored line and returns the number of
// documents and lines removed. An empty store succeeds with zero counts.
func (s *LineStore) DeleteAll(ctx context.Context) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type counts struct {
		documents int64
		lines     int64
	}

	result, err := database.WithTransactionResult(ctx, s.db, func(tx *gorm.DB) (counts, error) {
		var c counts
		if err := tx.Model(&LineModel{}).Distinct("document_id").Count(&c.documents).Error; err != nil {
			return c, err
		}
		if err := tx.Model(&LineModel{}).Count(&c.lines).Error; err != nil {
			return c, err
		}
		if c.lines == 0 {
			return c, nil
		}
		if err := tx.Where("1 = 1").Delete(&LineModel{}).Error; err != nil {
			return c, err
		}
		return c, nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("delete all documents: %w", err)
	}

	s.logger.DebugContext(ctx, "store cleared", "documents", result.documents, "lines", result.lines)
	return result.documents, result.lines, nil
}

var _ document.LineStore = (*LineStore)(nil)
