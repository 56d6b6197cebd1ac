package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/semaphore"

	otelx "github.com/spendsum/spendsum/internal/adapter/otel"
	"github.com/spendsum/spendsum/internal/domain/usage"
	"github.com/spendsum/spendsum/internal/port/cache"
	"github.com/spendsum/spendsum/internal/port/provider"
	"github.com/spendsum/spendsum/internal/resilience"
)

const defaultConcurrency = 8

// cancelledMsg fills slots whose fetch never dispatched because the request
// context ended first. It follows the adapters' network-error shape.
const cancelledMsg = "Network error fetching usage."

// Aggregator fans an aggregation call out to every provider the caller
// supplied a credential for, and joins the results in canonical provider
// order. Provider failures are contained inside their result slot; the
// aggregate itself never fails.
type Aggregator struct {
	fetchers    map[string]provider.Fetcher
	cache       cache.Cache
	cacheTTL    time.Duration
	metrics     *otelx.Metrics
	concurrency int64
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithCache enables result caching with the given TTL. Only successful
// results are cached; contained errors are always refetched.
func WithCache(c cache.Cache, ttl time.Duration) AggregatorOption {
	return func(a *Aggregator) {
		a.cache = c
		a.cacheTTL = ttl
	}
}

// WithMetrics enables fetch and cache instrumentation.
func WithMetrics(m *otelx.Metrics) AggregatorOption {
	return func(a *Aggregator) {
		a.metrics = m
	}
}

// WithConcurrency bounds the number of provider fetches in flight at once.
func WithConcurrency(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = int64(n)
		}
	}
}

// WithBreakers attaches one circuit breaker per provider to fetchers that
// support it.
func WithBreakers(set *resilience.Set) AggregatorOption {
	return func(a *Aggregator) {
		for id, f := range a.fetchers {
			if bf, ok := f.(interface{ SetBreaker(*resilience.Breaker) }); ok {
				bf.SetBreaker(set.For(id))
			}
		}
	}
}

// NewAggregator builds fetchers for every registered provider in the
// canonical order. Providers missing from the registry are skipped with a
// warning so a trimmed build still serves the rest.
func NewAggregator(deps provider.Deps, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		fetchers:    make(map[string]provider.Fetcher),
		concurrency: defaultConcurrency,
	}
	for _, id := range usage.ProviderOrder {
		f, err := provider.New(id, deps)
		if err != nil {
			slog.Warn("provider not registered, skipping", "provider", id)
			continue
		}
		a.fetchers[id] = f
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Providers returns the provider ids this aggregator can dispatch to, in
// canonical order.
func (a *Aggregator) Providers() []string {
	out := make([]string, 0, len(a.fetchers))
	for _, id := range usage.ProviderOrder {
		if _, ok := a.fetchers[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Aggregate fetches usage for every provider with a non-empty credential.
// Results come back in canonical provider order regardless of which fetch
// finishes first. Credentials are used for this call only and never logged.
func (a *Aggregator) Aggregate(ctx context.Context, credentials map[string]string) []usage.Result {
	callID := uuid.NewString()

	type slot struct {
		id   string
		cred string
	}
	var slots []slot
	for _, id := range usage.ProviderOrder {
		cred := credentials[id]
		if cred == "" {
			continue
		}
		if _, ok := a.fetchers[id]; !ok {
			slog.Warn("credential for unavailable provider ignored", "provider", id)
			continue
		}
		slots = append(slots, slot{id: id, cred: cred})
	}

	ctx, span := otelx.StartAggregateSpan(ctx, callID, len(slots))
	defer span.End()

	slog.Info("aggregation started", "call_id", callID, "providers", len(slots))

	results := make([]usage.Result, len(slots))
	sem := semaphore.NewWeighted(a.concurrency)
	var wg sync.WaitGroup

	for i, s := range slots {
		if err := sem.Acquire(ctx, 1); err != nil {
			slog.Warn("fetch not dispatched, context done", "call_id", callID, "provider", s.id)
			results[i] = usage.Failure(s.id, cancelledMsg)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = a.fetchOne(ctx, callID, s.id, s.cred)
		}()
	}
	wg.Wait()

	if a.metrics != nil {
		var total float64
		for _, r := range results {
			total += r.TotalCost
		}
		a.metrics.AggregateCost.Record(ctx, total)
	}

	slog.Info("aggregation finished", "call_id", callID, "providers", len(slots))
	return results
}

func (a *Aggregator) fetchOne(ctx context.Context, callID, id, credential string) usage.Result {
	ctx, span := otelx.StartFetchSpan(ctx, callID, id)
	defer span.End()

	attrs := metric.WithAttributes(attribute.String("provider", id))

	if cached, ok := a.cachedResult(ctx, id, credential); ok {
		if a.metrics != nil {
			a.metrics.CacheHits.Add(ctx, 1, attrs)
		}
		return cached
	}
	if a.metrics != nil && a.cache != nil {
		a.metrics.CacheMisses.Add(ctx, 1, attrs)
	}

	if a.metrics != nil {
		a.metrics.FetchesStarted.Add(ctx, 1, attrs)
	}
	start := time.Now()
	res := a.fetchers[id].FetchUsage(ctx, credential)
	elapsed := time.Since(start)

	if a.metrics != nil {
		a.metrics.FetchDuration.Record(ctx, elapsed.Seconds(), attrs)
		if res.Error != "" {
			a.metrics.FetchesFailed.Add(ctx, 1, attrs)
		} else {
			a.metrics.FetchesCompleted.Add(ctx, 1, attrs)
		}
	}

	if res.Error == "" {
		a.storeResult(ctx, id, credential, res)
	}
	return res
}

// cacheKey hashes the credential so the raw key never reaches cache storage.
func cacheKey(id, credential string) string {
	sum := blake2b.Sum256([]byte(credential))
	return fmt.Sprintf("usage:%s:%x", id, sum)
}

func (a *Aggregator) cachedResult(ctx context.Context, id, credential string) (usage.Result, bool) {
	if a.cache == nil {
		return usage.Result{}, false
	}
	data, found, err := a.cache.Get(ctx, cacheKey(id, credential))
	if err != nil || !found {
		return usage.Result{}, false
	}
	var res usage.Result
	if err := json.Unmarshal(data, &res); err != nil {
		slog.Warn("cached usage result malformed, refetching", "provider", id)
		return usage.Result{}, false
	}
	return res, true
}

func (a *Aggregator) storeResult(ctx context.Context, id, credential string, res usage.Result) {
	if a.cache == nil {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, cacheKey(id, credential), data, a.cacheTTL); err != nil {
		slog.Warn("caching usage result failed", "provider", id, "error", err)
	}
}
