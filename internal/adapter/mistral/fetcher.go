// Package mistral fetches spend from the Mistral usage API. The endpoint
// reports only an aggregate total for the window.
package mistral

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/spendsum/spendsum/internal/domain/usage"
	"github.com/spendsum/spendsum/internal/port/provider"
	"github.com/spendsum/spendsum/internal/resilience"
)

const (
	providerID     = "mistral"
	defaultBaseURL = "https://api.mistral.ai"

	keyMsg     = "Could not fetch Mistral usage. Check your API key."
	networkMsg = "Network error fetching Mistral usage."
)

func init() {
	provider.Register(providerID, func(deps provider.Deps) provider.Fetcher {
		return New(deps.BaseURL(providerID, defaultBaseURL), deps)
	})
}

// Fetcher talks to the Mistral usage endpoint.
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

type usageResponse struct {
	TotalCost float64 `json:"total_cost"`
}

// FetchUsage records the aggregate total reported by the usage endpoint.
// Mistral does not expose a per-model breakdown or accept window parameters.
func (f *Fetcher) FetchUsage(ctx context.Context, credential string) usage.Result {
	url := f.baseURL + "/v1/usage"

	var body []byte
	var status int
	call := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+credential)

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
		slog.Error("mistral usage fetch failed", "error", err)
		return usage.Failure(providerID, networkMsg)
	}
	if status < 200 || status >= 300 {
		slog.Info("mistral usage endpoint rejected key", "status", status)
		return usage.Failure(providerID, keyMsg)
	}

	var data usageResponse
	if err := json.Unmarshal(body, &data); err != nil {
		slog.Error("mistral usage response malformed", "error", err)
		return usage.Failure(providerID, networkMsg)
	}

	b := usage.NewBuilder(providerID)
	b.SetTotal(data.TotalCost)
	return b.Result()
}

func (f *Fetcher) execute(call func() error) error {
	if f.breaker != nil {
		return f.breaker.Execute(call)
	}
	return call()
}
