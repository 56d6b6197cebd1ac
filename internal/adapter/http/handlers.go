package http

import (
	"net/http"

	"github.com/spendsum/spendsum/internal/domain/usage"
	"github.com/spendsum/spendsum/internal/pricing"
	"github.com/spendsum/spendsum/internal/service"
)

// maxBodyBytes bounds request bodies. Credential sets are small; anything
// bigger is not a legitimate request.
const maxBodyBytes = 64 << 10

// Handlers bundles the HTTP handlers and their service dependencies.
type Handlers struct {
	agg     *service.Aggregator
	catalog *pricing.Catalog
}

// NewHandlers creates the handler set.
func NewHandlers(agg *service.Aggregator, catalog *pricing.Catalog) *Handlers {
	return &Handlers{agg: agg, catalog: catalog}
}

type usageRequest struct {
	Keys map[string]string `json:"keys"`
}

type usageResponse struct {
	Usage []usage.Result `json:"usage"`
}

// AggregateUsage handles POST /api/v1/usage. Per-provider failures come
// back inside their result slot; only a malformed body is a request error.
func (h *Handlers) AggregateUsage(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[usageRequest](w, r, maxBodyBytes)
	if !ok {
		return
	}

	results := h.agg.Aggregate(r.Context(), req.Keys)
	if results == nil {
		results = []usage.Result{}
	}
	writeJSON(w, http.StatusOK, usageResponse{Usage: results})
}

// Summarize handles POST /api/v1/summary.
func (h *Handlers) Summarize(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[service.SummaryRequest](w, r, maxBodyBytes)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, h.agg.Summarize(r.Context(), req))
}

// ListProviders handles GET /api/v1/providers.
func (h *Handlers) ListProviders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"providers": h.agg.Providers()})
}

// ListSubscriptions handles GET /api/v1/subscriptions.
func (h *Handlers) ListSubscriptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]service.Plan{"plans": service.DefaultPlans()})
}

// ListPricing handles GET /api/v1/pricing.
func (h *Handlers) ListPricing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Tables())
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
