package p3search

import (
	"io"

	"github.com/tadinve/p3-search/domain/search"
	"github.com/tadinve/p3-search/infrastructure/extractor"
	"github.com/tadinve/p3-search/infrastructure/provider"
	"github.com/tadinve/p3-search/internal/config"
	"github.com/tadinve/p3-search/internal/log"
)

// databaseType identifies the database.
type databaseType int

const (
	databaseUnset databaseType = iota
	databaseSQLite
	databaseURL
)

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	database             databaseType
	dbPath               string
	dbURL                string
	dataDir              string
	modelDir             string
	embeddingProvider    provider.Embedder
	extractor            extractor.Extractor
	logger               *log.Logger
	embeddingParallelism int
	searchLimit          int
	minSimilarity        float64
	closers              []io.Closer
}

// newClientConfig creates a clientConfig with defaults from internal/config.
func newClientConfig() *clientConfig {
	return &clientConfig{
		dataDir:              config.DefaultDataDir(),
		embeddingParallelism: 1,
		searchLimit:          search.DefaultLimit,
		minSimilarity:        search.DefaultMinSimilarity,
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite configures SQLite as the database, storing data at the
// given file path.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.database = databaseSQLite
		c.dbPath = path
	}
}

// WithDatabaseURL configures the database from a connection URL.
// Supported schemes are sqlite:// and postgres://.
func WithDatabaseURL(url string) Option {
	return func(c *clientConfig) {
		c.database = databaseURL
		c.dbURL = url
	}
}

// WithDataDir sets the data directory for database and model storage.
func WithDataDir(dir string) Option {
	return func(c *clientConfig) {
		c.dataDir = dir
	}
}

// WithModelDir sets the directory where built-in model files are stored.
// Defaults to {dataDir}/models if not specified.
func WithModelDir(dir string) Option {
	return func(c *clientConfig) {
		c.modelDir = dir
	}
}

// WithOpenAI sets an OpenAI-compatible API as the embedding provider
// instead of the built-in local model.
func WithOpenAI(apiKey string, opts ...provider.OpenAIOption) Option {
	return func(c *clientConfig) {
		c.embeddingProvider = provider.NewOpenAIProvider(apiKey, opts...)
	}
}

// WithOpenAIConfig sets an OpenAI-compatible embedding provider with
// custom configuration.
func WithOpenAIConfig(cfg provider.OpenAIConfig) Option {
	return func(c *clientConfig) {
		c.embeddingProvider = provider.NewOpenAIProviderFromConfig(cfg)
	}
}

// WithEmbeddingProvider sets a custom embedding provider.
func WithEmbeddingProvider(p provider.Embedder) Option {
	return func(c *clientConfig) {
		c.embeddingProvider = p
	}
}

// WithExtractor sets a custom PDF extractor, replacing the built-in
// layout extractor and its plain-text fallback.
func WithExtractor(e extractor.Extractor) Option {
	return func(c *clientConfig) {
		c.extractor = e
	}
}

// WithEmbeddingParallelism sets how many embedding batches are dispatched
// concurrently during ingestion. Defaults to 1. Values <= 0 are ignored.
func WithEmbeddingParallelism(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.embeddingParallelism = n
		}
	}
}

// WithSearchDefaults sets the search limit and similarity threshold used
// when a caller does not specify them, replacing the built-in defaults of
// 10 and 0.5. A non-positive limit or a threshold outside [0, 1] is
// ignored.
func WithSearchDefaults(limit int, minSimilarity float64) Option {
	return func(c *clientConfig) {
		if limit > 0 {
			c.searchLimit = limit
		}
		if minSimilarity >= 0 && minSimilarity <= 1 {
			c.minSimilarity = minSimilarity
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *log.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithCloser registers a resource to be closed when the Client shuts down.
func WithCloser(c io.Closer) Option {
	return func(cfg *clientConfig) {
		cfg.closers = append(cfg.closers, c)
	}
}
