package otel

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HTTPMiddleware returns a chi-compatible middleware that creates spans for HTTP requests.
func HTTPMiddleware(serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, serviceName)
	}
}

// OutboundTransport wraps a RoundTripper so calls to provider billing APIs
// produce client spans. A nil base uses http.DefaultTransport.
func OutboundTransport(base http.RoundTripper) http.RoundTripper {
	return otelhttp.NewTransport(base)
}
