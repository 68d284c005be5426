// Package gateway implements the inference HTTP gateway: a dispatcher over
// three JSON routes backed by a bounded inference history.
//
// Routes (exact method and request-target match, query string included):
//   - OPTIONS <any>      - CORS preflight, 204 with an empty body
//   - GET /api/health    - liveness with uptime measured on the monotonic clock
//   - GET /api/history   - the most recent inferences, newest first
//   - POST /api/infer    - run one prediction and record it
//
// Every response, including 404s and preflights, carries the JSON content
// type and the CORS headers.
package gateway

import (
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/HatiCode/edgegate/pkg/events"
	"github.com/HatiCode/edgegate/pkg/history"
	"github.com/HatiCode/edgegate/pkg/httpx"
	"github.com/HatiCode/edgegate/pkg/predict"
)

const (
	PathHealth  = "/api/health"
	PathHistory = "/api/history"
	PathInfer   = "/api/infer"

	// DefaultSample labels an inference whose request named no sample.
	DefaultSample = "demo-frame"

	// maxBodyBytes caps the infer body regardless of the declared Content-Length.
	maxBodyBytes = 1 << 20
)

// Route labels reported to the Observer.
const (
	RoutePreflight = "preflight"
	RouteHealth    = "health"
	RouteHistory   = "history"
	RouteInfer     = "infer"
	RouteNotFound  = "not_found"
)

// Options configures a Gateway. History and Predictor are required.
type Options struct {
	History       history.Store
	Predictor     predict.Predictor
	Publisher     events.Publisher
	Observer      Observer
	Logger        *slog.Logger
	DefaultSample string
	// Now returns the wall-clock time used for ids and timestamps.
	Now func() time.Time
}

// Gateway owns all state shared between requests: the history log and the
// process start anchor.
type Gateway struct {
	history       history.Store
	predictor     predict.Predictor
	publisher     events.Publisher
	observer      Observer
	logger        *slog.Logger
	defaultSample string
	now           func() time.Time
	start         time.Time
}

// New creates a Gateway and anchors its uptime at the moment of the call.
func New(opts Options) *Gateway {
	g := &Gateway{
		history:       opts.History,
		predictor:     opts.Predictor,
		publisher:     opts.Publisher,
		observer:      opts.Observer,
		logger:        opts.Logger,
		defaultSample: opts.DefaultSample,
		now:           opts.Now,
	}
	if g.publisher == nil {
		g.publisher = events.NopPublisher{}
	}
	if g.observer == nil {
		g.observer = NopObserver{}
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	if g.defaultSample == "" {
		g.defaultSample = DefaultSample
	}
	if g.now == nil {
		g.now = time.Now
	}
	g.start = time.Now()

	return g
}

// Uptime returns the time elapsed since New, read from the monotonic clock.
func (g *Gateway) Uptime() time.Duration {
	return time.Since(g.start)
}

// ServeHTTP dispatches the request to exactly one handler.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setHeaders(w.Header())

	route, status := g.dispatch(w, r)
	g.observer.ObserveRequest(route, status)
}

func (g *Gateway) dispatch(w http.ResponseWriter, r *http.Request) (string, int) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return RoutePreflight, http.StatusNoContent
	}

	// The query string is part of the match: /api/health?x=1 is not a route.
	target := r.URL.RequestURI()
	switch {
	case r.Method == http.MethodGet && target == PathHealth:
		return RouteHealth, g.handleHealth(w)
	case r.Method == http.MethodGet && target == PathHistory:
		return RouteHistory, g.handleHistory(w)
	case r.Method == http.MethodPost && target == PathInfer:
		return RouteInfer, g.handleInfer(w, r)
	}

	httpx.WriteErrorMessage(w, http.StatusNotFound, "Not found")
	return RouteNotFound, http.StatusNotFound
}

func setHeaders(h http.Header) {
	h.Set("Content-Type", "application/json")
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
