// Package mcp provides Model Context Protocol server functionality.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tadinve/p3-search/domain/document"
	"github.com/tadinve/p3-search/domain/search"
	"github.com/tadinve/p3-search/internal/log"
)

// Searcher provides semantic search for MCP tools.
type Searcher interface {
	Search(ctx context.Context, request search.Request) ([]search.Match, error)
}

// DocumentLookup provides document retrieval by id for MCP tools.
type DocumentLookup interface {
	Get(ctx context.Context, documentID string) (document.Document, error)
}

// Server wraps the MCP server with p3-search tools.
type Server struct {
	mcpServer     *server.MCPServer
	searchService Searcher
	documents     DocumentLookup
	logger        *log.Logger
	defaultLimit  int
	defaultMinSim float64
}

// ServerOption configures the MCP server.
type ServerOption func(*Server)

// WithSearchDefaults sets the limit and similarity threshold applied when
// a search tool call omits them. A non-positive limit or a threshold
// outside [0, 1] is ignored.
func WithSearchDefaults(limit int, minSimilarity float64) ServerOption {
	return func(s *Server) {
		if limit > 0 {
			s.defaultLimit = limit
		}
		if minSimilarity >= 0 && minSimilarity <= 1 {
			s.defaultMinSim = minSimilarity
		}
	}
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(searchService Searcher, documents DocumentLookup, logger *log.Logger, opts ...ServerOption) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		searchService: searchService,
		documents:     documents,
		logger:        logger,
		defaultLimit:  search.DefaultLimit,
		defaultMinSim: search.DefaultMinSimilarity,
	}

	for _, opt := range opts {
		opt(s)
	}

	mcpServer := server.NewMCPServer(
		"p3-search",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s
}

// registerTools registers all p3-search tools with the MCP server.
func (s *Server) registerTools(mcpServer *server.MCPServer) {
	searchTool := mcp.NewTool("search",
		mcp.WithDescription("Search ingested PDF documents by semantic similarity"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search query"),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Number of results to return (default: %d)", s.defaultLimit)),
		),
		mcp.WithNumber("min_similarity",
			mcp.Description(fmt.Sprintf("Minimum similarity in [0, 1] (default: %g)", s.defaultMinSim)),
		),
	)

	mcpServer.AddTool(searchTool, s.handleSearch)

	getDocumentTool := mcp.NewTool("get_document",
		mcp.WithDescription("Get an ingested document with all of its lines"),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("The id of the document"),
		),
	)

	mcpServer.AddTool(getDocumentTool, s.handleGetDocument)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required"), nil
	}

	limit := request.GetInt("limit", s.defaultLimit)
	minSimilarity := request.GetFloat("min_similarity", s.defaultMinSim)

	req, err := search.NewRequest(query, limit, minSimilarity)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	matches, err := s.searchService.Search(ctx, req)
	if err != nil {
		s.logger.ErrorContext(ctx, "search failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	type searchResult struct {
		DocumentID string  `json:"document_id"`
		Filename   string  `json:"filename"`
		PageNumber int     `json:"page_number"`
		LineNumber int     `json:"line_number"`
		Content    string  `json:"content"`
		IsTable    bool    `json:"is_table"`
		Similarity float64 `json:"similarity_score"`
	}

	results := make([]searchResult, len(matches))
	for i, match := range matches {
		line := match.Line()
		results[i] = searchResult{
			DocumentID: line.DocumentID(),
			Filename:   line.Filename(),
			PageNumber: line.PageNumber(),
			LineNumber: line.LineNumber(),
			Content:    line.Content(),
			IsTable:    line.IsTable(),
			Similarity: match.Similarity(),
		}
	}

	jsonBytes, err := json.Marshal(results)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// handleGetDocument handles the get_document tool invocation.
func (s *Server) handleGetDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	documentID, err := request.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError("document_id is required"), nil
	}

	if s.documents == nil {
		return mcp.NewToolResultError("document lookup not configured"), nil
	}

	doc, err := s.documents.Get(ctx, documentID)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("document not found: %s", documentID)), nil
		}
		s.logger.ErrorContext(ctx, "failed to get document", "document_id", documentID, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to get document: %v", err)), nil
	}

	type documentLine struct {
		PageNumber int    `json:"page_number"`
		LineNumber int    `json:"line_number"`
		Content    string `json:"content"`
		IsTable    bool   `json:"is_table"`
	}

	type documentResult struct {
		DocumentID string         `json:"document_id"`
		Filename   string         `json:"filename"`
		UploadDate string         `json:"upload_date"`
		LineCount  int            `json:"lines_count"`
		Lines      []documentLine `json:"lines"`
	}

	info := doc.Info()
	lines := doc.Lines()

	result := documentResult{
		DocumentID: info.DocumentID(),
		Filename:   info.Filename(),
		UploadDate: info.UploadDate().Format(time.RFC3339),
		LineCount:  info.LineCount(),
		Lines:      make([]documentLine, len(lines)),
	}
	for i, line := range lines {
		result.Lines[i] = documentLine{
			PageNumber: line.PageNumber(),
			LineNumber: line.LineNumber(),
			Content:    line.Content(),
			IsTable:    line.IsTable(),
		}
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// MCPServer returns the underlying MCP server for stdio serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
