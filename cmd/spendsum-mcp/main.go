// Command spendsum-mcp exposes the spend aggregation core as a stdio MCP
// server so agent hosts can query provider usage directly.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/mark3labs/mcp-go/server"

	_ "github.com/spendsum/spendsum/internal/adapter/anthropic"
	_ "github.com/spendsum/spendsum/internal/adapter/mistral"
	_ "github.com/spendsum/spendsum/internal/adapter/openai"
	_ "github.com/spendsum/spendsum/internal/adapter/placeholder"
	_ "github.com/spendsum/spendsum/internal/adapter/replicate"
	_ "github.com/spendsum/spendsum/internal/adapter/together"

	"github.com/spendsum/spendsum/cmd/spendsum-mcp/tools"
	"github.com/spendsum/spendsum/internal/config"
	"github.com/spendsum/spendsum/internal/port/provider"
	"github.com/spendsum/spendsum/internal/pricing"
	"github.com/spendsum/spendsum/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Stdout carries the MCP protocol; logs must go to stderr.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	deps := provider.Deps{
		HTTPClient: &http.Client{Timeout: cfg.HTTPClient.Timeout},
		Catalog:    pricing.NewCatalog(),
		BaseURLs:   cfg.Providers.BaseURLs,
	}
	agg := service.NewAggregator(deps,
		service.WithConcurrency(cfg.Aggregator.MaxConcurrent))

	s := server.NewMCPServer(
		"spendsum-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	tools.Register(s, agg)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
