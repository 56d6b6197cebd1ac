// Package pricing holds the static per-model price tables and the token
// cost calculator used to turn raw usage counts into USD.
package pricing

// Entry is the price of one model in USD per 1,000 tokens.
type Entry struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
}

// Catalog maps provider -> model -> Entry. It is populated once at startup
// and never mutated afterwards; lookups are total and never fail.
type Catalog struct {
	tables   map[string]map[string]Entry
	defaults map[string]Entry
	fallback Entry
}

// NewCatalog returns the built-in price catalog. Prices track the public
// list prices of each provider; a stale table is an accepted estimation
// limitation, not an error condition.
func NewCatalog() *Catalog {
	return &Catalog{
		tables: map[string]map[string]Entry{
			"anthropic": {
				"claude-3-opus":     {Input: 0.015, Output: 0.075},
				"claude-3-sonnet":   {Input: 0.003, Output: 0.015},
				"claude-3-haiku":    {Input: 0.00025, Output: 0.00125},
				"claude-3-5-sonnet": {Input: 0.003, Output: 0.015},
				"claude-sonnet-4-5": {Input: 0.003, Output: 0.015},
				"claude-opus-4-5":   {Input: 0.015, Output: 0.075},
				"claude-haiku-4-5":  {Input: 0.0008, Output: 0.004},
			},
			"openai": {
				"gpt-4":         {Input: 0.03, Output: 0.06},
				"gpt-4-turbo":   {Input: 0.01, Output: 0.03},
				"gpt-4o":        {Input: 0.0025, Output: 0.01},
				"gpt-4o-mini":   {Input: 0.00015, Output: 0.0006},
				"gpt-3.5-turbo": {Input: 0.0005, Output: 0.0015},
				"o1":            {Input: 0.015, Output: 0.06},
				"o1-mini":       {Input: 0.003, Output: 0.012},
			},
			"google": {
				"gemini-1.5-pro":   {Input: 0.00125, Output: 0.005},
				"gemini-1.5-flash": {Input: 0.000075, Output: 0.0003},
				"gemini-2.0-flash": {Input: 0.0001, Output: 0.0004},
			},
			"mistral": {
				"mistral-large": {Input: 0.002, Output: 0.006},
				"mistral-small": {Input: 0.0002, Output: 0.0006},
				"codestral":     {Input: 0.0003, Output: 0.0009},
			},
			"groq": {
				"llama-3.1-70b": {Input: 0.00059, Output: 0.00079},
				"llama-3.1-8b":  {Input: 0.00005, Output: 0.00008},
				"mixtral-8x7b":  {Input: 0.00024, Output: 0.00024},
			},
		},
		// Conservative mid/high estimate per provider for models that are
		// missing from the table above.
		defaults: map[string]Entry{
			"anthropic": {Input: 0.003, Output: 0.015},
			"openai":    {Input: 0.01, Output: 0.03},
			"google":    {Input: 0.00125, Output: 0.005},
			"mistral":   {Input: 0.002, Output: 0.006},
			"groq":      {Input: 0.00059, Output: 0.00079},
		},
		fallback: Entry{Input: 0.003, Output: 0.015},
	}
}

// Lookup returns the price entry for (provider, model). Unknown models under
// a known provider return that provider's default entry; unknown providers
// return the global fallback. There is no error path.
func (c *Catalog) Lookup(provider, model string) Entry {
	if table, ok := c.tables[provider]; ok {
		if e, ok := table[model]; ok {
			return e
		}
		if d, ok := c.defaults[provider]; ok {
			return d
		}
	}
	return c.fallback
}

// Tables returns the full catalog for read-only exposure over the API.
func (c *Catalog) Tables() map[string]map[string]Entry {
	return c.tables
}
