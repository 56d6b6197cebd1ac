package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/spendsum/spendsum/internal/domain/usage"
	"github.com/spendsum/spendsum/internal/port/provider"
	"github.com/spendsum/spendsum/internal/service"
)

type fakeFetcher struct{}

func (fakeFetcher) FetchUsage(_ context.Context, _ string) usage.Result {
	b := usage.NewBuilder("anthropic")
	b.AddModel("claude-3-haiku", 0.75, 3000)
	b.AddDay("2026-08-15", 0.75)
	return b.Result()
}

func init() {
	provider.Register("anthropic", func(_ provider.Deps) provider.Fetcher {
		return fakeFetcher{}
	})
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result content")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Content[0])
	}
	return tc.Text
}

func TestAggregateUsageTool(t *testing.T) {
	agg := service.NewAggregator(provider.Deps{})
	handler := makeAggregateHandler(agg)

	res, err := handler(context.Background(), callRequest(map[string]any{
		"anthropic_key": "sk-ant-test",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}

	var results []usage.Result
	if err := json.Unmarshal([]byte(resultText(t, res)), &results); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if len(results) != 1 || results[0].Provider != "anthropic" {
		t.Fatalf("unexpected results: %+v", results)
	}
	if results[0].TotalCost != 0.75 {
		t.Fatalf("unexpected total: %v", results[0].TotalCost)
	}
}

func TestAggregateUsageToolRequiresAKey(t *testing.T) {
	agg := service.NewAggregator(provider.Deps{})
	handler := makeAggregateHandler(agg)

	res, err := handler(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected tool error without any key")
	}
}

func TestListProvidersTool(t *testing.T) {
	agg := service.NewAggregator(provider.Deps{})
	handler := makeListProvidersHandler(agg)

	res, err := handler(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(resultText(t, res), "anthropic") {
		t.Fatalf("provider list missing anthropic: %s", resultText(t, res))
	}
}

func TestListSubscriptionPlansTool(t *testing.T) {
	handler := makeListPlansHandler()

	res, err := handler(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var plans []service.Plan
	if err := json.Unmarshal([]byte(resultText(t, res)), &plans); err != nil {
		t.Fatalf("plans are not JSON: %v", err)
	}
	if len(plans) != 7 {
		t.Fatalf("expected 7 plans, got %d", len(plans))
	}
}
