// Package placeholder registers providers whose usage APIs are not yet
// integrated. They return a fixed explanatory message immediately so that
// aggregate responses keep a slot for every configured provider.
package placeholder

import (
	"context"

	"github.com/spendsum/spendsum/internal/domain/usage"
	"github.com/spendsum/spendsum/internal/port/provider"
)

var messages = map[string]string{
	"google":  "Google Vertex AI usage requires Cloud Console access. Coming soon.",
	"minimax": "Minimax usage API integration coming soon.",
	"groq":    "Groq usage API not available. Track manually via console.groq.com.",
}

func init() {
	for id, msg := range messages {
		provider.Register(id, func(_ provider.Deps) provider.Fetcher {
			return &Fetcher{provider: id, message: msg}
		})
	}
}

// Fetcher answers every request with its fixed message, without touching
// the network or the supplied credential.
type Fetcher struct {
	provider string
	message  string
}

// FetchUsage returns the placeholder message as a contained failure.
func (f *Fetcher) FetchUsage(_ context.Context, _ string) usage.Result {
	return usage.Failure(f.provider, f.message)
}
