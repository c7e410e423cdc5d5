package document

import "github.com/tadinve/p3-search/domain/store"

// WithDocumentID filters by the "document_id" column.
func WithDocumentID(id string) Option {
	return store.WithCondition("document_id", id)
}

// WithFilename filters by the "filename" column.
func WithFilename(name string) Option {
	return store.WithCondition("filename", name)
}

// ByLineNumber orders ascending by the "line_number" column.
func ByLineNumber() Option {
	return store.WithOrderAsc("line_number")
}

// Option is re-exported so callers of LineStore do not need to import
// the store package for the common cases.
type Option = store.Option
