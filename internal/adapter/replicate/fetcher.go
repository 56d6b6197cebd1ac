// Package replicate fetches spend from the Replicate account billing API.
package replicate

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
	providerID     = "replicate"
	defaultBaseURL = "https://api.replicate.com"

	tokenMsg   = "Could not fetch Replicate usage. Check your API token."
	networkMsg = "Network error fetching Replicate usage."
)

func init() {
	provider.Register(providerID, func(deps provider.Deps) provider.Fetcher {
		return New(deps.BaseURL(providerID, defaultBaseURL), deps)
	})
}

// Fetcher talks to the Replicate billing endpoint.
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

type billingResponse struct {
	Spend float64 `json:"spend"`
	Total float64 `json:"total"`
}

// FetchUsage reads the current billing period spend. The field name has
// changed across API revisions, so the older "total" is used when "spend"
// is absent.
func (f *Fetcher) FetchUsage(ctx context.Context, credential string) usage.Result {
	url := f.baseURL + "/v1/account/billing"

	var body []byte
	var status int
	call := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Token "+credential)

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
		slog.Error("replicate billing fetch failed", "error", err)
		return usage.Failure(providerID, networkMsg)
	}
	if status < 200 || status >= 300 {
		slog.Info("replicate billing endpoint rejected token", "status", status)
		return usage.Failure(providerID, tokenMsg)
	}

	var data billingResponse
	if err := json.Unmarshal(body, &data); err != nil {
		slog.Error("replicate billing response malformed", "error", err)
		return usage.Failure(providerID, networkMsg)
	}

	spend := data.Spend
	if spend == 0 {
		spend = data.Total
	}

	b := usage.NewBuilder(providerID)
	b.SetTotal(spend)
	return b.Result()
}

func (f *Fetcher) execute(call func() error) error {
	if f.breaker != nil {
		return f.breaker.Execute(call)
	}
	return call()
}
