package main

import (
	p3search "github.com/tadinve/p3-search"
	"github.com/tadinve/p3-search/infrastructure/provider"
	"github.com/tadinve/p3-search/internal/config"
)

// clientOptions returns the p3search.Option slice derived from the shared
// parts of AppConfig: database storage, model directory, search defaults,
// and embedding provider. Callers append entrypoint-specific options
// before passing the full slice to p3search.New.
func clientOptions(cfg config.AppConfig) []p3search.Option {
	opts := []p3search.Option{
		p3search.WithDataDir(cfg.DataDir()),
		p3search.WithModelDir(cfg.ModelDir()),
		p3search.WithSearchDefaults(cfg.SearchLimit(), cfg.MinSimilarity()),
	}

	opts = append(opts, storageOptions(cfg)...)
	opts = append(opts, embeddingOptions(cfg)...)

	return opts
}

// storageOptions returns the p3search.Option for the configured database.
func storageOptions(cfg config.AppConfig) []p3search.Option {
	if dbURL := cfg.DBURL(); dbURL != "" {
		return []p3search.Option{p3search.WithDatabaseURL(dbURL)}
	}
	return []p3search.Option{p3search.WithSQLite(cfg.DataDir() + "/" + config.DefaultDatabaseFile)}
}

// embeddingOptions returns a p3search.Option for the remote embedding
// provider when the embedding endpoint is configured, or an empty slice
// so the built-in local model is used.
func embeddingOptions(cfg config.AppConfig) []p3search.Option {
	endpoint := cfg.EmbeddingEndpoint()
	if endpoint == nil || !endpoint.IsConfigured() {
		return nil
	}

	openaiCfg := provider.OpenAIConfig{
		APIKey:        endpoint.APIKey(),
		BaseURL:       endpoint.BaseURL(),
		Model:         endpoint.Model(),
		Timeout:       endpoint.Timeout(),
		MaxRetries:    endpoint.MaxRetries(),
		InitialDelay:  endpoint.InitialDelay(),
		BackoffFactor: endpoint.BackoffFactor(),
		BatchSize:     endpoint.BatchSize(),
	}
	if cacheDir := cfg.HTTPCacheDir(); cacheDir != "" {
		openaiCfg.Transport = provider.NewCachingTransport(cacheDir, nil)
	}

	return []p3search.Option{p3search.WithOpenAIConfig(openaiCfg)}
}
