package service

import (
	"context"
	"fmt"

	"github.com/tadinve/p3-search/domain/document"
	"github.com/tadinve/p3-search/internal/log"
)

// DeleteReceipt reports the outcome of a single-document deletion.
type DeleteReceipt struct {
	documentID   string
	filename     string
	linesDeleted int64
}

// DocumentID returns the id of the deleted document.
func (r DeleteReceipt) DocumentID() string { return r.documentID }

// Filename returns the filename of the deleted document.
func (r DeleteReceipt) Filename() string { return r.filename }

// LinesDeleted returns how many line records were removed.
func (r DeleteReceipt) LinesDeleted() int64 { return r.linesDeleted }

// PurgeReceipt reports the outcome of a delete-all operation.
type PurgeReceipt struct {
	documentsDeleted int64
	linesDeleted     int64
}

// DocumentsDeleted returns how many documents were removed.
func (r PurgeReceipt) DocumentsDeleted() int64 { return r.documentsDeleted }

// LinesDeleted returns how many line records were removed.
func (r PurgeReceipt) LinesDeleted() int64 { return r.linesDeleted }

// Documents manages the lifecycle of stored documents.
type Documents struct {
	lines  document.LineStore
	logger *log.Logger
}

// NewDocuments creates the document lifecycle service.
func NewDocuments(lines document.LineStore, logger *log.Logger) *Documents {
	if logger == nil {
		logger = log.Default()
	}
	return &Documents{lines: lines, logger: logger}
}

// List summarises every stored document, newest upload first.
func (s *Documents) List(ctx context.Context) ([]document.Info, error) {
	return s.lines.ListDocuments(ctx)
}

// Get returns a document summary together with its lines in line-number
// order. Returns document.ErrNotFound when the id is unknown.
func (s *Documents) Get(ctx context.Context, documentID string) (document.Document, error) {
	info, err := s.lines.FindDocument(ctx, documentID)
	if err != nil {
		return document.Document{}, err
	}

	lines, err := s.lines.Find(ctx,
		document.WithDocumentID(documentID),
		document.ByLineNumber(),
	)
	if err != nil {
		return document.Document{}, fmt.Errorf("load document lines: %w", err)
	}

	return document.NewDocument(info, lines), nil
}

// Delete removes a document and all of its lines. Returns
// document.ErrNotFound when the id is unknown.
func (s *Documents) Delete(ctx context.Context, documentID string) (DeleteReceipt, error) {
	info, err := s.lines.FindDocument(ctx, documentID)
	if err != nil {
		return DeleteReceipt{}, err
	}

	count, err := s.lines.DeleteDocument(ctx, documentID)
	if err != nil {
		return DeleteReceipt{}, err
	}

	s.logger.InfoContext(ctx, "document deleted",
		"document_id", documentID,
		"filename", info.Filename(),
		"lines", count,
	)

	return DeleteReceipt{
		documentID:   documentID,
		filename:     info.Filename(),
		linesDeleted: count,
	}, nil
}

// DeleteAll removes every stored document. Deleting from an empty store
// succeeds with zero counts.
func (s *Documents) DeleteAll(ctx context.Context) (PurgeReceipt, error) {
	docs, lines, err := s.lines.DeleteAll(ctx)
	if err != nil {
		return PurgeReceipt{}, err
	}

	s.logger.InfoContext(ctx, "all documents deleted", "documents", docs, "lines", lines)

	return PurgeReceipt{documentsDeleted: docs, linesDeleted: lines}, nil
}
