// Package search holds the semantic search request and result model.
package search

import (
	"errors"
	"strings"
)

const (
	// DefaultLimit is the number of results returned when the caller does
	// not specify one.
	DefaultLimit = 10

	// DefaultMinSimilarity is the similarity threshold applied when the
	// caller does not specify one.
	DefaultMinSimilarity = 0.5
)

var (
	// ErrEmptyQuery is returned when the query text is blank.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrInvalidLimit is returned when the result limit is not positive.
	ErrInvalidLimit = errors.New("limit must be greater than zero")

	// ErrInvalidMinSimilarity is returned when the similarity threshold is
	// outside [0, 1].
	ErrInvalidMinSimilarity = errors.New("min similarity must be between 0 and 1")
)

// Request is a validated semantic search query.
type Request struct {
	query         string
	limit         int
	minSimilarity float64
}

// NewRequest validates and creates a search request. A zero limit falls
// back to DefaultLimit. Callers that distinguish "unset" from an explicit
// threshold of zero apply DefaultMinSimilarity themselves.
func NewRequest(query string, limit int, minSimilarity float64) (Request, error) {
	if strings.TrimSpace(query) == "" {
		return Request{}, ErrEmptyQuery
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 0 {
		return Request{}, ErrInvalidLimit
	}
	if minSimilarity < 0 || minSimilarity > 1 {
		return Request{}, ErrInvalidMinSimilarity
	}
	return Request{query: query, limit: limit, minSimilarity: minSimilarity}, nil
}

// Query returns the query text.
func (r Request) Query() string { return r.query }

// Limit returns the maximum number of results.
func (r Request) Limit() int { return r.limit }

// MinSimilarity returns the similarity threshold in [0, 1].
func (r Request) MinSimilarity() float64 { return r.minSimilarity }
