// The agent binary serves the analysis toolset over MCP stdio, for use from
// agent hosts and editors.
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/kirillkom/contract-risk-analyzer/internal/adapters/mcpserver"
	"github.com/kirillkom/contract-risk-analyzer/internal/bootstrap"
	"github.com/kirillkom/contract-risk-analyzer/internal/config"
	"github.com/kirillkom/contract-risk-analyzer/internal/observability/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.NewJSONLogger("agent", cfg.LogLevel)

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	srv := mcpserver.New(
		app.Extractor,
		app.Scanner,
		app.Simplifier,
		app.Assessor,
		app.Translator,
		app.Searcher,
		app.AgentMetrics,
		logger,
	)

	logger.Info("agent serving MCP over stdio")
	if err := srv.ServeStdio(); err != nil {
		log.Fatalf("agent server error: %v", err)
	}
}
