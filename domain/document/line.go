// Package document holds the core line-record model for indexed PDFs.
package document

import "time"

// TableMarker prefixes the content of every merged table row.
const TableMarker = "[TABLE] "

// CellSeparator joins table cells into a single line of content.
const CellSeparator = " | "

// Line is one indexed line of a PDF document together with its embedding.
// A line is either a plain text line or a merged table row.
type Line struct {
	id         string
	documentID string
	content    string
	pageNumber int
	lineNumber int
	isTable    bool
	filename   string
	uploadDate time.Time
	vector     []float64
}

// NewLine creates a line record. The upload date is normalised to UTC.
func NewLine(id, documentID, content string, pageNumber, lineNumber int, isTable bool, filename string, uploadDate time.Time, vector []float64) Line {
	v := make([]float64, len(vector))
	copy(v, vector)
	return Line{
		id:         id,
		documentID: documentID,
		content:    content,
		pageNumber: pageNumber,
		lineNumber: lineNumber,
		isTable:    isTable,
		filename:   filename,
		uploadDate: uploadDate.UTC(),
		vector:     v,
	}
}

// ID returns the line's unique identifier.
func (l Line) ID() string { return l.id }

// DocumentID returns the identifier of the owning document.
func (l Line) DocumentID() string { return l.documentID }

// Content returns the line text, including the table marker for table rows.
func (l Line) Content() string { return l.content }

// PageNumber returns the 1-based page the line came from.
func (l Line) PageNumber() int { return l.pageNumber }

// LineNumber returns the 1-based position within the document.
func (l Line) LineNumber() int { return l.lineNumber }

// IsTable reports whether the line is a merged table row.
func (l Line) IsTable() bool { return l.isTable }

// Filename returns the original upload filename.
func (l Line) Filename() string { return l.filename }

// UploadDate returns when the owning document was ingested (UTC).
func (l Line) UploadDate() time.Time { return l.uploadDate }

// Vector returns a copy of the line's embedding.
func (l Line) Vector() []float64 {
	v := make([]float64, len(l.vector))
	copy(v, l.vector)
	return v
}
