// Package usage defines the normalized per-provider spend report and the
// merge policy used to build it from raw billing data.
package usage

// ProviderOrder is the canonical dispatch order for supported providers.
// Aggregation results are always returned in this order.
var ProviderOrder = []string{
	"anthropic",
	"openai",
	"google",
	"minimax",
	"mistral",
	"groq",
	"together",
	"replicate",
}

// ModelUsage accumulates cost and combined input+output tokens for one model.
type ModelUsage struct {
	Model  string  `json:"model"`
	Cost   float64 `json:"cost"`
	Tokens int64   `json:"tokens"`
}

// DayUsage accumulates cost for one calendar day (ISO date string).
type DayUsage struct {
	Date string `json:"date"`
	Cost float64 `json:"cost"`
}

// Result is the uniform per-provider report produced by every adapter.
// When Error is set, TotalCost is zero and both breakdowns are empty;
// partial data from a failed fetch is never surfaced.
type Result struct {
	Provider  string       `json:"provider"`
	TotalCost float64      `json:"totalCost"`
	ByModel   []ModelUsage `json:"byModel"`
	ByDay     []DayUsage   `json:"byDay"`
	Error     string       `json:"error,omitempty"`
}

// Failure returns the error-result shape for a provider: zero cost, empty
// (non-nil, so they encode as []) breakdowns, and the given message.
func Failure(provider, msg string) Result {
	return Result{
		Provider: provider,
		ByModel:  []ModelUsage{},
		ByDay:    []DayUsage{},
		Error:    msg,
	}
}

// Builder accumulates raw usage entries into a Result. Keyed buckets keep
// first-seen insertion order; repeat keys add to the existing record's
// numeric fields in place.
type Builder struct {
	provider string
	total    float64
	models   []ModelUsage
	modelIdx map[string]int
	days     []DayUsage
	dayIdx   map[string]int
}

// NewBuilder creates a Builder for the given provider id.
func NewBuilder(provider string) *Builder {
	return &Builder{
		provider: provider,
		models:   []ModelUsage{},
		modelIdx: make(map[string]int),
		days:     []DayUsage{},
		dayIdx:   make(map[string]int),
	}
}

// AddModel merges one raw usage entry into the per-model bucket and
// accumulates the running total.
func (b *Builder) AddModel(model string, cost float64, tokens int64) {
	if i, ok := b.modelIdx[model]; ok {
		b.models[i].Cost += cost
		b.models[i].Tokens += tokens
	} else {
		b.modelIdx[model] = len(b.models)
		b.models = append(b.models, ModelUsage{Model: model, Cost: cost, Tokens: tokens})
	}
	b.total += cost
}

// AddDay merges cost into the per-day bucket. It does not touch the total;
// the same cost has already been counted by AddModel.
func (b *Builder) AddDay(date string, cost float64) {
	if date == "" {
		return
	}
	if i, ok := b.dayIdx[date]; ok {
		b.days[i].Cost += cost
	} else {
		b.dayIdx[date] = len(b.days)
		b.days = append(b.days, DayUsage{Date: date, Cost: cost})
	}
}

// SetTotal overrides the running total. Used by providers that only report
// an aggregate spend figure with no breakdown.
func (b *Builder) SetTotal(v float64) {
	b.total = v
}

// Result finalizes the accumulated report.
func (b *Builder) Result() Result {
	return Result{
		Provider:  b.provider,
		TotalCost: b.total,
		ByModel:   b.models,
		ByDay:     b.days,
	}
}
