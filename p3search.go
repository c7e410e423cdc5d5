// Package p3search provides a library for table-aware PDF ingestion and
// line-level semantic search.
//
// Documents are split into per-line records during ingestion, each line
// is embedded, and search ranks stored lines by vector similarity to the
// query.
//
// Basic usage:
//
//	client, err := p3search.New(
//	    p3search.WithSQLite(".p3search/data.db"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Ingest a PDF
//	receipt, err := client.Ingest.Ingest(ctx, "report.pdf", data)
//
//	// Search
//	req, _ := search.NewRequest("quarterly revenue", 10, 0.5)
//	matches, err := client.Search.Search(ctx, req)
//
//	for _, match := range matches {
//	    fmt.Println(match.Similarity(), match.Line().Content())
//	}
package p3search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/tadinve/p3-search/application/service"
	"github.com/tadinve/p3-search/infrastructure/extractor"
	"github.com/tadinve/p3-search/infrastructure/persistence"
	"github.com/tadinve/p3-search/infrastructure/provider"
	"github.com/tadinve/p3-search/internal/config"
	"github.com/tadinve/p3-search/internal/database"
	"github.com/tadinve/p3-search/internal/log"
)

// ErrNoDatabase is returned by New when no database option was given.
var ErrNoDatabase = errors.New("no database configured: use WithSQLite or WithDatabaseURL")

// ErrClientClosed is returned when the client is used after Close.
var ErrClientClosed = service.ErrClientClosed

// Client is the main entry point for the p3search library.
//
// Access resources via struct fields:
//
//	client.Ingest.Ingest(ctx, filename, data)
//	client.Documents.List(ctx)
//	client.Search.Search(ctx, req)
type Client struct {
	// Public resource fields (direct service access)
	Ingest    *service.Ingest
	Documents *service.Documents
	Search    *service.Search

	db        database.Database
	lineStore *persistence.LineStore

	hugotEmbedding *provider.HugotEmbedding
	closers        []io.Closer

	logger        *log.Logger
	dataDir       string
	searchLimit   int
	minSimilarity float64
	closed        atomic.Bool
	mu            sync.Mutex
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.database == databaseUnset {
		return nil, ErrNoDatabase
	}

	logger := cfg.logger
	if logger == nil {
		logger = log.Default()
	}

	dataDir, err := config.PrepareDataDir(cfg.dataDir)
	if err != nil {
		return nil, err
	}

	// Create built-in embedding provider if no external provider is configured
	var hugotEmbedding *provider.HugotEmbedding
	if cfg.embeddingProvider == nil {
		modelDir := cfg.modelDir
		if modelDir == "" {
			modelDir = filepath.Join(dataDir, "models")
		}
		hugotEmbedding = provider.NewHugotEmbedding(modelDir)
		if !hugotEmbedding.Available() {
			return nil, fmt.Errorf("no embedding model found in %s: run 'make download-model' or configure an external embedding provider", modelDir)
		}
		cfg.embeddingProvider = hugotEmbedding
		logger.Info("built-in embedding provider enabled", "model_dir", modelDir)
	}

	ctx := context.Background()
	dbURL, err := buildDatabaseURL(cfg)
	if err != nil {
		return nil, fmt.Errorf("build database url: %w", err)
	}

	db, err := database.NewDatabase(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := persistence.AutoMigrate(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose)
	}

	if err := persistence.ValidateSchema(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("validate schema: %w", err), errClose)
	}

	lineStore := persistence.NewLineStore(db, logger)

	// Built-in extractor: pdfium layout extraction with a plain-text fallback
	ex := cfg.extractor
	if ex == nil {
		ex = extractor.NewPipeline(
			extractor.NewPdfium(logger),
			extractor.NewPlainText(logger),
			logger,
		)
	}

	client := &Client{
		db:             db,
		lineStore:      lineStore,
		hugotEmbedding: hugotEmbedding,
		closers:        cfg.closers,
		logger:         logger,
		dataDir:        dataDir,
		searchLimit:    cfg.searchLimit,
		minSimilarity:  cfg.minSimilarity,
	}

	client.Ingest = service.NewIngest(ex, cfg.embeddingProvider, lineStore, logger,
		service.WithEmbeddingParallelism(cfg.embeddingParallelism))
	client.Documents = service.NewDocuments(lineStore, logger)
	client.Search = service.NewSearch(cfg.embeddingProvider, lineStore, logger)

	return client, nil
}

// Close releases all resources. Closing twice returns ErrClientClosed.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hugotEmbedding != nil {
		if err := c.hugotEmbedding.Close(); err != nil {
			c.logger.Error("failed to close hugot embedding", "error", err)
		}
	}

	// Close registered resources (e.g. caching transports)
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			c.logger.Error("failed to close resource", "error", err)
		}
	}

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	c.logger.Info("p3search client closed")
	return nil
}

// Closed reports whether the client has been closed.
func (c *Client) Closed() bool {
	return c.closed.Load()
}

// Logger returns the client's logger.
func (c *Client) Logger() *log.Logger {
	return c.logger
}

// DataDir returns the prepared data directory.
func (c *Client) DataDir() string {
	return c.dataDir
}

// DefaultSearchLimit returns the result limit applied when a search
// request does not specify one.
func (c *Client) DefaultSearchLimit() int {
	return c.searchLimit
}

// DefaultMinSimilarity returns the similarity threshold applied when a
// search request does not specify one.
func (c *Client) DefaultMinSimilarity() float64 {
	return c.minSimilarity
}

// buildDatabaseURL resolves the configured database into a connection URL.
func buildDatabaseURL(cfg *clientConfig) (string, error) {
	switch cfg.database {
	case databaseSQLite:
		if cfg.dbPath == "" {
			return "", errors.New("sqlite path must not be empty")
		}
		return "sqlite:///" + cfg.dbPath, nil
	case databaseURL:
		if cfg.dbURL == "" {
			return "", errors.New("database url must not be empty")
		}
		return cfg.dbURL, nil
	default:
		return "", ErrNoDatabase
	}
}
