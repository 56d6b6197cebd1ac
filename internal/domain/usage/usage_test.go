package usage_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/spendsum/spendsum/internal/domain/usage"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuilderMergesByModel(t *testing.T) {
	b := usage.NewBuilder("anthropic")
	b.AddModel("claude-3-haiku", 0.00175, 3000)
	b.AddModel("claude-3-haiku", 0.000875, 1500)

	res := b.Result()
	if len(res.ByModel) != 1 {
		t.Fatalf("expected 1 model bucket, got %d", len(res.ByModel))
	}
	m := res.ByModel[0]
	if m.Model != "claude-3-haiku" {
		t.Fatalf("unexpected model %q", m.Model)
	}
	if !almostEqual(m.Cost, 0.002625) {
		t.Fatalf("expected cost 0.002625, got %v", m.Cost)
	}
	if m.Tokens != 4500 {
		t.Fatalf("expected 4500 tokens, got %d", m.Tokens)
	}
	if !almostEqual(res.TotalCost, 0.002625) {
		t.Fatalf("expected total 0.002625, got %v", res.TotalCost)
	}
}

func TestBuilderPreservesFirstSeenOrder(t *testing.T) {
	b := usage.NewBuilder("openai")
	b.AddModel("gpt-4o", 0.1, 100)
	b.AddModel("gpt-4", 0.2, 200)
	b.AddModel("gpt-4o", 0.3, 300)
	b.AddDay("2026-08-02", 0.1)
	b.AddDay("2026-08-01", 0.2)
	b.AddDay("2026-08-02", 0.3)

	res := b.Result()
	if res.ByModel[0].Model != "gpt-4o" || res.ByModel[1].Model != "gpt-4" {
		t.Fatalf("model order not first-seen: %+v", res.ByModel)
	}
	if res.ByDay[0].Date != "2026-08-02" || res.ByDay[1].Date != "2026-08-01" {
		t.Fatalf("day order not first-seen: %+v", res.ByDay)
	}
	if !almostEqual(res.ByDay[0].Cost, 0.4) {
		t.Fatalf("expected merged day cost 0.4, got %v", res.ByDay[0].Cost)
	}
}

func TestBuilderAccumulationIsAssociative(t *testing.T) {
	// Feeding the same payload twice must double the totals of feeding it once.
	once := usage.NewBuilder("anthropic")
	twice := usage.NewBuilder("anthropic")

	entries := []struct {
		model  string
		cost   float64
		tokens int64
		date   string
	}{
		{"claude-3-haiku", 0.002, 1000, "2026-08-01"},
		{"claude-3-opus", 0.09, 2000, "2026-08-02"},
	}
	for _, e := range entries {
		once.AddModel(e.model, e.cost, e.tokens)
		once.AddDay(e.date, e.cost)
	}
	for range 2 {
		for _, e := range entries {
			twice.AddModel(e.model, e.cost, e.tokens)
			twice.AddDay(e.date, e.cost)
		}
	}

	r1, r2 := once.Result(), twice.Result()
	if !almostEqual(r2.TotalCost, 2*r1.TotalCost) {
		t.Fatalf("total not doubled: %v vs %v", r2.TotalCost, r1.TotalCost)
	}
	for i := range r1.ByModel {
		if r1.ByModel[i].Model != r2.ByModel[i].Model {
			t.Fatalf("model order changed: %+v vs %+v", r1.ByModel, r2.ByModel)
		}
		if !almostEqual(r2.ByModel[i].Cost, 2*r1.ByModel[i].Cost) {
			t.Fatalf("model cost not doubled at %d", i)
		}
	}
	for i := range r1.ByDay {
		if !almostEqual(r2.ByDay[i].Cost, 2*r1.ByDay[i].Cost) {
			t.Fatalf("day cost not doubled at %d", i)
		}
	}
}

func TestBuilderIgnoresEmptyDate(t *testing.T) {
	b := usage.NewBuilder("anthropic")
	b.AddModel("claude-3-haiku", 0.01, 100)
	b.AddDay("", 0.01)
	if got := len(b.Result().ByDay); got != 0 {
		t.Fatalf("expected no day buckets, got %d", got)
	}
}

func TestFailureShape(t *testing.T) {
	res := usage.Failure("groq", "Groq usage API not available. Track manually via console.groq.com.")
	if res.Error == "" || res.TotalCost != 0 {
		t.Fatalf("unexpected failure result: %+v", res)
	}
	if res.ByModel == nil || res.ByDay == nil {
		t.Fatal("failure buckets must be non-nil")
	}

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"byModel":[]`) {
		t.Fatalf("empty buckets must encode as []: %s", data)
	}
}

func TestResultOmitsEmptyError(t *testing.T) {
	data, err := json.Marshal(usage.NewBuilder("mistral").Result())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "error") {
		t.Fatalf("empty error must be omitted: %s", data)
	}
}
