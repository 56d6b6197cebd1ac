package together_test

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spendsum/spendsum/internal/adapter/together"
	"github.com/spendsum/spendsum/internal/port/provider"
	"github.com/spendsum/spendsum/internal/pricing"
)

func testDeps(client *http.Client) provider.Deps {
	return provider.Deps{
		HTTPClient: client,
		Catalog:    pricing.NewCatalog(),
		Now:        func() time.Time { return time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC) },
	}
}

func TestFetchUsageAggregateTotal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/usage" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tk-test" {
			t.Fatalf("unexpected auth: %q", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte(`{"total_cost": 3.5}`))
	}))
	defer srv.Close()

	f := together.New(srv.URL, testDeps(srv.Client()))
	res := f.FetchUsage(context.Background(), "tk-test")

	if res.Error != "" {
		t.Fatalf("unexpected error: %q", res.Error)
	}
	if math.Abs(res.TotalCost-3.5) > 1e-9 {
		t.Fatalf("expected total 3.5, got %v", res.TotalCost)
	}
}

func TestFetchUsageRejectedKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := together.New(srv.URL, testDeps(srv.Client()))
	res := f.FetchUsage(context.Background(), "bad-key")

	if res.Error != "Could not fetch Together AI usage. Check your API key." {
		t.Fatalf("unexpected error: %q", res.Error)
	}
}

func TestFetchUsageNetworkErrorContained(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	srv.Close()

	f := together.New(srv.URL, testDeps(&http.Client{Timeout: time.Second}))
	res := f.FetchUsage(context.Background(), "tk-test")

	if res.Error != "Network error fetching Together AI usage." {
		t.Fatalf("unexpected error: %q", res.Error)
	}
}
