package v1

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	p3search "github.com/tadinve/p3-search"
	"github.com/tadinve/p3-search/domain/search"
	"github.com/tadinve/p3-search/infrastructure/api/middleware"
	"github.com/tadinve/p3-search/infrastructure/api/v1/dto"
	"github.com/tadinve/p3-search/internal/log"
)

// SearchRouter handles the search endpoint.
type SearchRouter struct {
	client *p3search.Client
	logger *log.Logger
}

// NewSearchRouter creates a new SearchRouter.
func NewSearchRouter(client *p3search.Client) *SearchRouter {
	return &SearchRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for the search endpoint.
func (r *SearchRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.Search)

	return router
}

// Search handles POST /api/v1/search.
func (r *SearchRouter) Search(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	started := time.Now()

	var body dto.SearchRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "decode request body", err), r.logger)
		return
	}

	searchReq, err := buildSearchRequest(body, r.client.DefaultSearchLimit(), r.client.DefaultMinSimilarity())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	matches, err := r.client.Search.Search(ctx, searchReq)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, buildSearchResponse(searchReq.Query(), matches, time.Since(started)))
}

// buildSearchRequest applies the configured defaults for absent fields
// and validates.
func buildSearchRequest(body dto.SearchRequest, defaultLimit int, defaultMinSimilarity float64) (search.Request, error) {
	limit := defaultLimit
	if body.Limit != nil {
		limit = *body.Limit
	}

	minSimilarity := defaultMinSimilarity
	if body.MinSimilarity != nil {
		minSimilarity = *body.MinSimilarity
	}

	return search.NewRequest(body.Query, limit, minSimilarity)
}

func buildSearchResponse(query string, matches []search.Match, took time.Duration) dto.SearchResponse {
	results := make([]dto.SearchResult, len(matches))
	for i, match := range matches {
		line := match.Line()
		results[i] = dto.SearchResult{
			DocumentID:      line.DocumentID(),
			Filename:        line.Filename(),
			PageNumber:      line.PageNumber(),
			LineNumber:      line.LineNumber(),
			Content:         line.Content(),
			IsTable:         line.IsTable(),
			SimilarityScore: roundScore(match.Similarity()),
		}
	}
	return dto.SearchResponse{
		Query:           query,
		ResponseTimeMs:  float64(took.Microseconds()) / 1000,
		NumberOfResults: len(results),
		Results:         results,
	}
}

// roundScore rounds a similarity score to four decimal places for the
// wire representation.
func roundScore(s float64) float64 {
	return math.Round(s*10000) / 10000
}
