// Package provider defines the port every AI provider usage adapter
// implements, plus the registry used to dispatch on provider id.
package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/spendsum/spendsum/internal/domain/usage"
	"github.com/spendsum/spendsum/internal/pricing"
)

// Fetcher retrieves the trailing-30-day spend report for one provider.
//
// FetchUsage never fails past its own boundary: network errors, non-2xx
// statuses, and malformed payloads are converted into a usage.Result with
// Error set and empty buckets. One provider's outage must never abort an
// aggregation call. Callers guarantee credential is non-empty.
type Fetcher interface {
	FetchUsage(ctx context.Context, credential string) usage.Result
}

// Deps carries the shared collaborators handed to every adapter factory.
type Deps struct {
	// HTTPClient is used for all outbound calls. A transport-level timeout
	// on this client is the only cancellation the core imposes.
	HTTPClient *http.Client
	// Catalog resolves (provider, model) to a price entry.
	Catalog *pricing.Catalog
	// Now supplies wall-clock time; the trailing window is computed from it
	// at call start. Nil means time.Now.
	Now func() time.Time
	// BaseURLs optionally overrides an adapter's endpoint base URL, keyed by
	// provider id. Used for self-hosted gateways and tests.
	BaseURLs map[string]string
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// BaseURL returns the configured override for a provider, or def.
func (d Deps) BaseURL(provider, def string) string {
	if u, ok := d.BaseURLs[provider]; ok && u != "" {
		return u
	}
	return def
}

// Window is the trailing report period, inclusive of both endpoints.
type Window struct {
	Start time.Time
	End   time.Time
}

// Window30d returns the trailing 30-day window ending now.
func (d Deps) Window30d() Window {
	end := d.now().UTC()
	return Window{Start: end.AddDate(0, 0, -30), End: end}
}

// StartDate and EndDate format the window endpoints as ISO dates, the form
// most billing APIs take as query parameters.
func (w Window) StartDate() string { return w.Start.Format("2006-01-02") }

// EndDate returns the window end as an ISO date.
func (w Window) EndDate() string { return w.End.Format("2006-01-02") }
