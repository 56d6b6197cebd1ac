package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "spendsum"

// Metrics holds all spendsum metric instruments.
type Metrics struct {
	FetchesStarted   metric.Int64Counter
	FetchesCompleted metric.Int64Counter
	FetchesFailed    metric.Int64Counter
	CacheHits        metric.Int64Counter
	CacheMisses      metric.Int64Counter
	FetchDuration    metric.Float64Histogram
	AggregateCost    metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.FetchesStarted, err = meter.Int64Counter("spendsum.fetches.started",
		metric.WithDescription("Number of provider usage fetches started"))
	if err != nil {
		return nil, err
	}

	m.FetchesCompleted, err = meter.Int64Counter("spendsum.fetches.completed",
		metric.WithDescription("Number of provider usage fetches completed"))
	if err != nil {
		return nil, err
	}

	m.FetchesFailed, err = meter.Int64Counter("spendsum.fetches.failed",
		metric.WithDescription("Number of provider usage fetches that returned a contained error"))
	if err != nil {
		return nil, err
	}

	m.CacheHits, err = meter.Int64Counter("spendsum.cache.hits",
		metric.WithDescription("Number of usage results served from cache"))
	if err != nil {
		return nil, err
	}

	m.CacheMisses, err = meter.Int64Counter("spendsum.cache.misses",
		metric.WithDescription("Number of usage fetches that missed the cache"))
	if err != nil {
		return nil, err
	}

	m.FetchDuration, err = meter.Float64Histogram("spendsum.fetch.duration_seconds",
		metric.WithDescription("Provider usage fetch duration in seconds"))
	if err != nil {
		return nil, err
	}

	m.AggregateCost, err = meter.Float64Histogram("spendsum.aggregate.cost_usd",
		metric.WithDescription("Total API cost per aggregation call in USD"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
