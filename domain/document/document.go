package document

import "time"

// Info is the per-document summary derived from the stored lines.
type Info struct {
	documentID string
	filename   string
	uploadDate time.Time
	lineCount  int
	firstPage  int
	lastPage   int
}

// NewInfo creates a document summary.
func NewInfo(documentID, filename string, uploadDate time.Time, lineCount, firstPage, lastPage int) Info {
	return Info{
		documentID: documentID,
		filename:   filename,
		uploadDate: uploadDate.UTC(),
		lineCount:  lineCount,
		firstPage:  firstPage,
		lastPage:   lastPage,
	}
}

// DocumentID returns the document identifier.
func (i Info) DocumentID() string { return i.documentID }

// Filename returns the original upload filename.
func (i Info) Filename() string { return i.filename }

// UploadDate returns when the document was ingested (UTC).
func (i Info) UploadDate() time.Time { return i.uploadDate }

// LineCount returns the number of stored lines.
func (i Info) LineCount() int { return i.lineCount }

// FirstPage returns the lowest page number with stored content.
func (i Info) FirstPage() int { return i.firstPage }

// LastPage returns the highest page number with stored content.
func (i Info) LastPage() int { return i.lastPage }

// Document is a document summary together with its full line content.
type Document struct {
	info  Info
	lines []Line
}

// NewDocument creates a document from its summary and lines.
func NewDocument(info Info, lines []Line) Document {
	ls := make([]Line, len(lines))
	copy(ls, lines)
	return Document{info: info, lines: ls}
}

// Info returns the document summary.
func (d Document) Info() Info { return d.info }

// Lines returns the document lines in ascending line-number order.
func (d Document) Lines() []Line {
	ls := make([]Line, len(d.lines))
	copy(ls, d.lines)
	return ls
}
