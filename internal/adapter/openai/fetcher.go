// Package openai fetches spend from the OpenAI organization usage API, with
// a fallback to the legacy dashboard billing endpoint for keys that cannot
// read the modern one.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spendsum/spendsum/internal/domain/usage"
	"github.com/spendsum/spendsum/internal/port/provider"
	"github.com/spendsum/spendsum/internal/pricing"
	"github.com/spendsum/spendsum/internal/resilience"
)

const (
	providerID     = "openai"
	defaultBaseURL = "https://api.openai.com"

	permissionMsg = "API key needs org admin permissions. Check platform.openai.com → Settings → API Keys."
	networkMsg    = "Network error fetching OpenAI usage."
)

func init() {
	provider.Register(providerID, func(deps provider.Deps) provider.Fetcher {
		return New(deps.BaseURL(providerID, defaultBaseURL), deps)
	})
}

// Fetcher talks to the OpenAI usage endpoints.
type Fetcher struct {
	baseURL string
	deps    provider.Deps
	breaker *resilience.Breaker
}

// New creates a Fetcher against the given base URL. Both the modern and the
// legacy endpoint live under the same base.
func New(baseURL string, deps provider.Deps) *Fetcher {
	return &Fetcher{baseURL: baseURL, deps: deps}
}

// SetBreaker attaches a circuit breaker to outgoing HTTP calls.
func (f *Fetcher) SetBreaker(b *resilience.Breaker) {
	f.breaker = b
}

type bucketResult struct {
	Model        string `json:"model_id"`
	InputTokens  int64  `json:"input_tokens"`
	OutputTokens int64  `json:"output_tokens"`
}

type bucket struct {
	StartTime int64          `json:"start_time"`
	Results   []bucketResult `json:"results"`
}

type completionsResponse struct {
	Data []bucket `json:"data"`
}

type legacyResponse struct {
	// TotalUsage is reported in cents. If OpenAI ever changes the unit this
	// silently misstates cost; accepted as an estimation risk.
	TotalUsage float64 `json:"total_usage"`
}

// FetchUsage tries the organization completions usage endpoint first. When
// it rejects the key, the legacy dashboard endpoint still yields an
// aggregate total for most keys; only when both fail is the permission
// error surfaced.
func (f *Fetcher) FetchUsage(ctx context.Context, credential string) usage.Result {
	w := f.deps.Window30d()

	modernURL := fmt.Sprintf("%s/v1/organization/usage/completions?start_time=%d&bucket_width=1d",
		f.baseURL, w.Start.Unix())

	body, status, err := f.get(ctx, modernURL, credential)
	if err != nil {
		slog.Error("openai usage fetch failed", "error", err)
		return usage.Failure(providerID, networkMsg)
	}

	if status < 200 || status >= 300 {
		return f.fetchLegacy(ctx, credential, w)
	}

	var data completionsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		slog.Error("openai usage response malformed", "error", err)
		return usage.Failure(providerID, networkMsg)
	}

	b := usage.NewBuilder(providerID)
	for _, bk := range data.Data {
		date := time.Unix(bk.StartTime, 0).UTC().Format("2006-01-02")
		var dayCost float64

		for _, r := range bk.Results {
			model := r.Model
			if model == "" {
				model = "unknown"
			}
			price := f.deps.Catalog.Lookup(providerID, model)
			cost := pricing.Cost(r.InputTokens, r.OutputTokens, price)

			b.AddModel(model, cost, r.InputTokens+r.OutputTokens)
			dayCost += cost
		}

		// Empty buckets are normal for idle days; only spend is recorded.
		if dayCost > 0 {
			b.AddDay(date, dayCost)
		}
	}
	return b.Result()
}

// fetchLegacy queries the dashboard billing endpoint, which reports only an
// aggregate total in minor currency units.
func (f *Fetcher) fetchLegacy(ctx context.Context, credential string, w provider.Window) usage.Result {
	url := fmt.Sprintf("%s/dashboard/billing/usage?start_date=%s&end_date=%s",
		f.baseURL, w.StartDate(), w.EndDate())

	body, status, err := f.get(ctx, url, credential)
	if err != nil {
		slog.Error("openai legacy billing fetch failed", "error", err)
		return usage.Failure(providerID, networkMsg)
	}
	if status < 200 || status >= 300 {
		return usage.Failure(providerID, permissionMsg)
	}

	var data legacyResponse
	if err := json.Unmarshal(body, &data); err != nil {
		slog.Error("openai legacy billing response malformed", "error", err)
		return usage.Failure(providerID, networkMsg)
	}

	b := usage.NewBuilder(providerID)
	b.SetTotal(data.TotalUsage / 100)
	return b.Result()
}

func (f *Fetcher) get(ctx context.Context, url, credential string) (body []byte, status int, err error) {
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

	if f.breaker != nil {
		err = f.breaker.Execute(call)
	} else {
		err = call()
	}
	return body, status, err
}
