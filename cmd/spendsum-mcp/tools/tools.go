// Package tools registers the spendsum MCP tools.
package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/spendsum/spendsum/internal/domain/usage"
	"github.com/spendsum/spendsum/internal/service"
)

// Register adds all spendsum tools to the MCP server.
func Register(s *server.MCPServer, agg *service.Aggregator) {
	aggregateTool := mcp.NewTool("aggregate_usage",
		mcp.WithDescription("Fetch trailing-30-day AI API spend for every provider a key is supplied for, normalized into one per-model, per-day cost report. Keys are used for this call only and never stored."),
		mcp.WithString("anthropic_key", mcp.Description("Anthropic admin API key")),
		mcp.WithString("openai_key", mcp.Description("OpenAI API key with org access")),
		mcp.WithString("google_key", mcp.Description("Google AI API key")),
		mcp.WithString("minimax_key", mcp.Description("Minimax API key")),
		mcp.WithString("mistral_key", mcp.Description("Mistral API key")),
		mcp.WithString("groq_key", mcp.Description("Groq API key")),
		mcp.WithString("together_key", mcp.Description("Together AI API key")),
		mcp.WithString("replicate_key", mcp.Description("Replicate API token")),
	)
	s.AddTool(aggregateTool, makeAggregateHandler(agg))

	s.AddTool(
		mcp.NewTool("list_providers",
			mcp.WithDescription("List the provider ids spendsum can aggregate usage for, in dispatch order"),
		),
		makeListProvidersHandler(agg),
	)

	s.AddTool(
		mcp.NewTool("list_subscription_plans",
			mcp.WithDescription("List the built-in flat-fee subscription plan catalog with monthly prices"),
		),
		makeListPlansHandler(),
	)
}

func makeAggregateHandler(agg *service.Aggregator) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		credentials := make(map[string]string)
		for _, id := range usage.ProviderOrder {
			if key, ok := args[id+"_key"].(string); ok && key != "" {
				credentials[id] = key
			}
		}
		if len(credentials) == 0 {
			return mcp.NewToolResultError("at least one provider key is required"), nil
		}

		results := agg.Aggregate(ctx, credentials)
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return mcp.NewToolResultErrorFromErr("failed to marshal usage results", err), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func makeListProvidersHandler(agg *service.Aggregator) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := json.MarshalIndent(agg.Providers(), "", "  ")
		if err != nil {
			return mcp.NewToolResultErrorFromErr("failed to marshal providers", err), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func makeListPlansHandler() server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := json.MarshalIndent(service.DefaultPlans(), "", "  ")
		if err != nil {
			return mcp.NewToolResultErrorFromErr("failed to marshal plans", err), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}
