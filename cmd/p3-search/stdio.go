package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	p3search "github.com/tadinve/p3-search"
	"github.com/tadinve/p3-search/internal/log"
	"github.com/tadinve/p3-search/internal/mcp"
)

func stdioCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "stdio",
		Short: "Start MCP server on stdio",
		Long: `Start the MCP (Model Context Protocol) server on stdio.

This allows AI assistants to search ingested PDF documents.
Configuration is loaded from environment variables and .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")

	return cmd
}

func runStdio(envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	// Logger writes to stderr; stdout carries the MCP protocol.
	logger := log.NewLoggerWithWriter(os.Stderr, cfg.LogFormat(), cfg.LogLevel())

	logger.Info("starting MCP server",
		"version", version,
		"data_dir", cfg.DataDir(),
	)

	opts := append(clientOptions(cfg), p3search.WithLogger(logger))

	client, err := p3search.New(opts...)
	if err != nil {
		return fmt.Errorf("create p3search client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close p3search client", "error", err)
		}
	}()

	mcpServer := mcp.NewServer(client.Search, client.Documents, logger,
		mcp.WithSearchDefaults(client.DefaultSearchLimit(), client.DefaultMinSimilarity()))

	return mcpServer.ServeStdio()
}
