// Package dto defines the JSON request and response bodies of the v1 API.
package dto

import "time"

// UploadResponse is the body returned after a successful ingestion.
type UploadResponse struct {
	DocumentID     string `json:"document_id"`
	Filename       string `json:"filename"`
	LinesProcessed int    `json:"lines_processed"`
	ExtractionMode string `json:"extraction_mode"`
}

// DocumentSummary describes one stored document in listings.
type DocumentSummary struct {
	DocumentID string    `json:"document_id"`
	Filename   string    `json:"filename"`
	UploadDate time.Time `json:"upload_date"`
	LinesCount int       `json:"lines_count"`
	FirstPage  int       `json:"first_page"`
	LastPage   int       `json:"last_page"`
}

// DocumentListResponse is the body of the document listing endpoint.
type DocumentListResponse struct {
	Documents  []DocumentSummary `json:"documents"`
	TotalCount int               `json:"total_count"`
}

// DocumentLine is one line of a document in the detail response.
type DocumentLine struct {
	PageNumber int    `json:"page_number"`
	LineNumber int    `json:"line_number"`
	Content    string `json:"content"`
	IsTable    bool   `json:"is_table"`
}

// DocumentDetailResponse is the body of the single-document endpoint.
type DocumentDetailResponse struct {
	DocumentID string         `json:"document_id"`
	Filename   string         `json:"filename"`
	UploadDate time.Time      `json:"upload_date"`
	LinesCount int            `json:"lines_count"`
	Lines      []DocumentLine `json:"lines"`
}

// DeleteResponse is the body returned after deleting one document.
type DeleteResponse struct {
	DocumentID   string `json:"document_id"`
	Filename     string `json:"filename"`
	DeletedLines int64  `json:"deleted_lines"`
}

// PurgeResponse is the body returned after deleting all documents.
type PurgeResponse struct {
	DeletedDocuments int64 `json:"deleted_documents"`
	DeletedLines     int64 `json:"deleted_lines"`
}
