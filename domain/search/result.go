package search

import "github.com/tadinve/p3-search/domain/document"

// Match is one search hit: a stored line and its similarity to the query.
type Match struct {
	line       document.Line
	similarity float64
}

// NewMatch creates a search hit.
func NewMatch(line document.Line, similarity float64) Match {
	return Match{line: line, similarity: similarity}
}

// Line returns the matched line record.
func (m Match) Line() document.Line { return m.line }

// Similarity returns the similarity score in (0, 1].
func (m Match) Similarity() float64 { return m.similarity }

// Similarity converts a squared Euclidean distance into a similarity
// score. Identical vectors score 1.0 and the score decays monotonically
// as distance grows.
func Similarity(distance float64) float64 {
	return 1.0 / (1.0 + distance)
}
