package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/HatiCode/edgegate/pkg/history"
	"github.com/HatiCode/edgegate/pkg/httpx"
	"github.com/HatiCode/edgegate/pkg/predict"
)

// HealthStatus is computed on every health request and never stored.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	UptimeS   float64   `json:"uptime_s"`
}

// HistoryResponse wraps the history log.
type HistoryResponse struct {
	History []history.Record `json:"history"`
}

// InferRequest is the only recognized infer body field.
type InferRequest struct {
	Sample *string `json:"sample"`
}

func (g *Gateway) handleHealth(w http.ResponseWriter) int {
	resp := HealthStatus{
		Status:    "ok",
		Timestamp: g.now().UTC(),
		UptimeS:   round2(g.Uptime().Seconds()),
	}
	if err := httpx.WriteJSON(w, http.StatusOK, resp); err != nil {
		g.logger.Debug("failed to write health response", "error", err)
	}
	return http.StatusOK
}

func (g *Gateway) handleHistory(w http.ResponseWriter) int {
	resp := HistoryResponse{History: g.history.Snapshot()}
	if err := httpx.WriteJSON(w, http.StatusOK, resp); err != nil {
		g.logger.Debug("failed to write history response", "error", err)
	}
	return http.StatusOK
}

func (g *Gateway) handleInfer(w http.ResponseWriter, r *http.Request) int {
	sample := g.resolveSample(w, r)

	start := time.Now()
	pred, err := g.predictor.Predict(r.Context(), sample)
	latency := time.Since(start)

	if err != nil {
		if !errors.Is(err, predict.ErrInference) {
			err = &predict.InferenceError{Predictor: g.predictor.Name(), Err: err}
		}
		g.logger.Error("prediction failed",
			"predictor", g.predictor.Name(),
			"sample", sample,
			"request_id", httpx.RequestIDFromContext(r.Context()),
			"error", err,
		)
		g.observer.ObservePredictError(g.predictor.Name())
		httpx.WriteErrorMessage(w, http.StatusInternalServerError, "internal server error")
		return http.StatusInternalServerError
	}

	now := g.now()
	rec := history.Record{
		ID:         now.UnixMilli(),
		Sample:     sample,
		Prediction: pred,
		LatencyMs:  round2(float64(latency.Nanoseconds()) / 1e6),
		Timestamp:  now.UTC(),
	}

	evicted := g.history.Push(rec)
	g.observer.ObservePrediction(g.predictor.Name(), pred.Label, latency)
	g.observer.ObserveHistory(g.history.Len(), evicted)

	if err := g.publisher.Publish(r.Context(), rec); err != nil {
		g.logger.Warn("failed to publish inference", "id", rec.ID, "error", err)
		g.observer.ObservePublishError()
	}

	g.logger.Debug("inference recorded",
		"id", rec.ID,
		"sample", rec.Sample,
		"label", pred.Label,
		"score", pred.Score,
		"latency_ms", rec.LatencyMs,
	)

	if err := httpx.WriteJSON(w, http.StatusOK, rec); err != nil {
		g.logger.Debug("failed to write infer response", "error", err)
	}
	return http.StatusOK
}

// resolveSample reads the optional {"sample": "..."} body. Absent bodies,
// unreadable bodies, malformed JSON and non-string samples all fall back to
// the default sample instead of failing the request.
func (g *Gateway) resolveSample(w http.ResponseWriter, r *http.Request) string {
	if r.ContentLength <= 0 {
		return g.defaultSample
	}

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	raw, err := io.ReadAll(io.LimitReader(body, r.ContentLength))
	if err != nil {
		g.logger.Debug("ignoring unreadable infer body", "error", err)
		return g.defaultSample
	}

	var req InferRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		g.logger.Debug("ignoring malformed infer body", "error", err)
		return g.defaultSample
	}
	if req.Sample == nil {
		return g.defaultSample
	}
	return *req.Sample
}
