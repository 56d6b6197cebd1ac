package service

import (
	"context"

	"github.com/spendsum/spendsum/internal/domain/usage"
)

// Plan is a flat-fee monthly subscription a user may be paying for
// alongside metered API usage.
type Plan struct {
	Name    string  `json:"name"`
	Cost    float64 `json:"cost"`
	Enabled bool    `json:"enabled"`
}

// DefaultPlans returns the built-in subscription catalog, all disabled.
func DefaultPlans() []Plan {
	return []Plan{
		{Name: "Anthropic Max", Cost: 100},
		{Name: "Anthropic Pro", Cost: 20},
		{Name: "OpenAI Pro", Cost: 200},
		{Name: "OpenAI Plus", Cost: 20},
		{Name: "Claude Pro (via Claude.ai)", Cost: 20},
		{Name: "Cursor Pro", Cost: 20},
		{Name: "GitHub Copilot", Cost: 10},
	}
}

// SummaryRequest carries everything a summary call needs: credentials to
// aggregate, manual spend figures for providers without a working usage
// API, and the subscription plans the caller pays for.
type SummaryRequest struct {
	Keys        map[string]string  `json:"keys"`
	ManualSpend map[string]float64 `json:"manualSpend"`
	Plans       []Plan             `json:"plans"`
}

// Summary is the grand-total view: metered API cost plus manual entries,
// monthly subscription cost, and the per-provider usage breakdown behind
// the numbers.
type Summary struct {
	APICost          float64        `json:"apiCost"`
	SubscriptionCost float64        `json:"subscriptionCost"`
	TotalCost        float64        `json:"totalCost"`
	Usage            []usage.Result `json:"usage"`
}

// Summarize aggregates usage for the supplied credentials and folds in
// manual spend and enabled subscriptions. Failed provider slots contribute
// zero to the totals but stay visible in the usage breakdown.
func (a *Aggregator) Summarize(ctx context.Context, req SummaryRequest) Summary {
	results := a.Aggregate(ctx, req.Keys)
	if results == nil {
		results = []usage.Result{}
	}

	var apiCost float64
	for _, r := range results {
		apiCost += r.TotalCost
	}
	for _, v := range req.ManualSpend {
		if v > 0 {
			apiCost += v
		}
	}

	var subCost float64
	for _, p := range req.Plans {
		if p.Enabled {
			subCost += p.Cost
		}
	}

	return Summary{
		APICost:          apiCost,
		SubscriptionCost: subCost,
		TotalCost:        apiCost + subCost,
		Usage:            results,
	}
}
