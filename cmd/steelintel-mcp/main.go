// Command steelintel-mcp serves the knowledge base as tools over the Model
// Context Protocol stdio transport, for use by MCP-capable clients.
package main

import (
	"context"
	"log"
	"os"

	"steelintel/internal/config"
	"steelintel/internal/mcp"
	"steelintel/internal/server"
)

func main() {
	// Logs must stay off stdout: stdout carries the JSON-RPC stream.
	logger := log.New(os.Stderr, "[MCP] ", log.LstdFlags)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	provider, err := server.BuildProvider(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to build provider: %v", err)
	}

	logger.Printf("Serving tools on stdio (%s mode)", cfg.Mode)

	srv := mcp.NewServer(provider, logger, os.Stdin, os.Stdout)
	if err := srv.Run(context.Background()); err != nil {
		logger.Fatalf("Tool server stopped: %v", err)
	}
}
