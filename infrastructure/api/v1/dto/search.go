package dto

// SearchRequest is the body of the search endpoint.
//
// Limit and MinSimilarity are pointers so "absent" can be told apart
// from an explicit zero: an absent limit defaults to 10, an absent
// threshold defaults to 0.5, while an explicit 0.0 threshold disables
// filtering.
type SearchRequest struct {
	Query         string   `json:"query"`
	Limit         *int     `json:"limit,omitempty"`
	MinSimilarity *float64 `json:"min_similarity,omitempty"`
}

// SearchResult is one ranked line in the search response.
type SearchResult struct {
	DocumentID      string  `json:"document_id"`
	Filename        string  `json:"filename"`
	PageNumber      int     `json:"page_number"`
	LineNumber      int     `json:"line_number"`
	Content         string  `json:"content"`
	IsTable         bool    `json:"is_table"`
	SimilarityScore float64 `json:"similarity_score"`
}

// SearchResponse is the body of the search endpoint response.
type SearchResponse struct {
	Query           string         `json:"query"`
	ResponseTimeMs  float64        `json:"response_time_ms"`
	NumberOfResults int            `json:"number_of_results"`
	Results         []SearchResult `json:"results"`
}
