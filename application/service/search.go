package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tadinve/p3-search/domain/document"
	"github.com/tadinve/p3-search/domain/search"
	"github.com/tadinve/p3-search/infrastructure/provider"
	"github.com/tadinve/p3-search/internal/log"
)

// Search answers semantic queries against the stored lines.
type Search struct {
	embedder provider.Embedder
	lines    document.LineStore
	logger   *log.Logger
}

// NewSearch creates the search service.
func NewSearch(embedder provider.Embedder, lines document.LineStore, logger *log.Logger) *Search {
	if logger == nil {
		logger = log.Default()
	}
	return &Search{embedder: embedder, lines: lines, logger: logger}
}

// Search embeds the query, finds the nearest stored lines, and returns
// matches at or above the request threshold in descending similarity.
// Fewer than Limit results are returned when the store is small or the
// threshold cuts candidates away.
func (s *Search) Search(ctx context.Context, req search.Request) ([]search.Match, error) {
	started := time.Now()

	resp, err := s.embedder.Embed(ctx, provider.NewEmbeddingRequest([]string{req.Query()}))
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	embeddings := resp.Embeddings()
	if len(embeddings) != 1 {
		return nil, fmt.Errorf("embed query: expected 1 vector, got %d", len(embeddings))
	}

	neighbors, err := s.lines.Nearest(ctx, embeddings[0], req.Limit())
	if err != nil {
		return nil, fmt.Errorf("nearest lines: %w", err)
	}

	// Neighbors arrive in ascending distance order, which is descending
	// similarity order already.
	matches := make([]search.Match, 0, len(neighbors))
	for _, neighbor := range neighbors {
		similarity := search.Similarity(neighbor.Distance())
		if similarity < req.MinSimilarity() {
			continue
		}
		matches = append(matches, search.NewMatch(neighbor.Line(), similarity))
	}

	s.logger.DebugContext(ctx, "search completed",
		"query_len", len(req.Query()),
		"candidates", len(neighbors),
		"matches", len(matches),
		"duration_ms", time.Since(started).Milliseconds(),
	)

	return matches, nil
}
