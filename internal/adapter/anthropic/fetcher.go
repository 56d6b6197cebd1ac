// Package anthropic fetches spend from the Anthropic admin usage API, which
// reports a full per-model, per-day breakdown.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/spendsum/spendsum/internal/domain/usage"
	"github.com/spendsum/spendsum/internal/port/provider"
	"github.com/spendsum/spendsum/internal/pricing"
	"github.com/spendsum/spendsum/internal/resilience"
)

const (
	providerID     = "anthropic"
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"

	permissionMsg = "API key needs admin permissions. Check console.anthropic.com → Settings → API Keys."
	networkMsg    = "Network error fetching Anthropic usage."
)

func init() {
	provider.Register(providerID, func(deps provider.Deps) provider.Fetcher {
		return New(deps.BaseURL(providerID, defaultBaseURL), deps)
	})
}

// Fetcher talks to the Anthropic admin usage endpoint.
type Fetcher struct {
	baseURL string
	deps    provider.Deps
	breaker *resilience.Breaker
}

// New creates a Fetcher against the given base URL.
func New(baseURL string, deps provider.Deps) *Fetcher {
	return &Fetcher{baseURL: baseURL, deps: deps}
}

// SetBreaker attaches a circuit breaker to outgoing HTTP calls.
func (f *Fetcher) SetBreaker(b *resilience.Breaker) {
	f.breaker = b
}

type usageItem struct {
	Model        string `json:"model"`
	InputTokens  int64  `json:"input_tokens"`
	OutputTokens int64  `json:"output_tokens"`
	Date         string `json:"date"`
}

type usageResponse struct {
	Data []usageItem `json:"data"`
}

// FetchUsage queries the trailing 30-day window. The admin endpoint rejects
// non-admin keys, so a non-2xx status maps to an actionable permission
// message rather than a generic failure.
func (f *Fetcher) FetchUsage(ctx context.Context, credential string) usage.Result {
	w := f.deps.Window30d()
	url := fmt.Sprintf("%s/v1/admin/usage?start_date=%s&end_date=%s",
		f.baseURL, w.StartDate(), w.EndDate())

	var body []byte
	var status int
	call := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("x-api-key", credential)
		req.Header.Set("anthropic-version", apiVersion)

		resp, err := f.deps.HTTPClient.Do(req)
		if err != nil {
			return fmt.Errorf("http request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		status = resp.StatusCode
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		return nil
	}

	if err := f.execute(call); err != nil {
		slog.Error("anthropic usage fetch failed", "error", err)
		return usage.Failure(providerID, networkMsg)
	}
	if status < 200 || status >= 300 {
		slog.Info("anthropic usage endpoint rejected key", "status", status)
		return usage.Failure(providerID, permissionMsg)
	}

	var data usageResponse
	if err := json.Unmarshal(body, &data); err != nil {
		slog.Error("anthropic usage response malformed", "error", err)
		return usage.Failure(providerID, networkMsg)
	}

	b := usage.NewBuilder(providerID)
	for _, item := range data.Data {
		model := item.Model
		if model == "" {
			model = "unknown"
		}
		price := f.deps.Catalog.Lookup(providerID, model)
		cost := pricing.Cost(item.InputTokens, item.OutputTokens, price)

		b.AddModel(model, cost, item.InputTokens+item.OutputTokens)
		b.AddDay(item.Date, cost)
	}
	return b.Result()
}

func (f *Fetcher) execute(call func() error) error {
	if f.breaker != nil {
		return f.breaker.Execute(call)
	}
	return call()
}
