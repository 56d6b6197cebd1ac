package provider_test

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/spendsum/spendsum/internal/domain/usage"
	"github.com/spendsum/spendsum/internal/port/provider"
)

type fakeFetcher struct{ id string }

func (f *fakeFetcher) FetchUsage(_ context.Context, _ string) usage.Result {
	return usage.Failure(f.id, "fake")
}

func TestRegisterAndNew(t *testing.T) {
	provider.Register("test-fake", func(_ provider.Deps) provider.Fetcher {
		return &fakeFetcher{id: "test-fake"}
	})

	f, err := provider.New("test-fake", provider.Deps{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	res := f.FetchUsage(context.Background(), "key")
	if res.Provider != "test-fake" {
		t.Fatalf("unexpected provider: %q", res.Provider)
	}

	if !slices.Contains(provider.Available(), "test-fake") {
		t.Fatal("registered provider missing from Available()")
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := provider.New("nope", provider.Deps{}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	provider.Register("test-dup", func(_ provider.Deps) provider.Fetcher { return nil })
	provider.Register("test-dup", func(_ provider.Deps) provider.Fetcher { return nil })
}

func TestWindow30d(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	deps := provider.Deps{Now: func() time.Time { return now }}

	w := deps.Window30d()
	if w.EndDate() != "2026-08-31" {
		t.Fatalf("unexpected end date %q", w.EndDate())
	}
	if w.StartDate() != "2026-08-01" {
		t.Fatalf("unexpected start date %q", w.StartDate())
	}
}

func TestBaseURLOverride(t *testing.T) {
	deps := provider.Deps{BaseURLs: map[string]string{"mistral": "http://localhost:9999"}}
	if got := deps.BaseURL("mistral", "https://api.mistral.ai"); got != "http://localhost:9999" {
		t.Fatalf("override ignored: %q", got)
	}
	if got := deps.BaseURL("openai", "https://api.openai.com"); got != "https://api.openai.com" {
		t.Fatalf("default not returned: %q", got)
	}
}
