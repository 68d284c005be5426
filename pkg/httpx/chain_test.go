package httpx_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/HatiCode/edgegate/pkg/gateway"
	"github.com/HatiCode/edgegate/pkg/history"
	"github.com/HatiCode/edgegate/pkg/httpx"
	"github.com/HatiCode/edgegate/pkg/predict"
)

type panickingPredictor struct{}

func (panickingPredictor) Name() string { return "panicking" }

func (panickingPredictor) Predict(context.Context, string) (predict.Prediction, error) {
	panic("tensor shape mismatch")
}

// newAPI builds the handler the gateway binary serves.
func newAPI(t *testing.T, p predict.Predictor, logs io.Writer) (http.Handler, history.Store) {
	t.Helper()
	store, err := history.New(history.DefaultCapacity)
	if err != nil {
		t.Fatalf("history.New() error = %v", err)
	}
	logger := slog.New(slog.NewTextHandler(logs, nil))
	gw := gateway.New(gateway.Options{
		History:   store,
		Predictor: p,
		Logger:    logger,
	})
	return httpx.Chain(gw,
		httpx.RequestIDMiddleware(),
		httpx.LoggingMiddleware(logger),
		httpx.RecoveryMiddleware(logger),
	), store
}

func TestAPIChain_PanickingPredictor(t *testing.T) {
	var logs bytes.Buffer
	api, store := newAPI(t, panickingPredictor{}, &logs)

	req := httptest.NewRequest(http.MethodPost, gateway.PathInfer, strings.NewReader(`{"sample":"frame-1"}`))
	req.Header.Set(httpx.RequestIDHeader, "req-panic")
	w := httptest.NewRecorder()
	api.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status code = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"error":"internal server error"}` {
		t.Errorf("body = %q, want generic error envelope", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := w.Header().Get(httpx.RequestIDHeader); got != "req-panic" {
		t.Errorf("%s = %q, want req-panic", httpx.RequestIDHeader, got)
	}
	if store.Len() != 0 {
		t.Errorf("history length = %d, want 0 after a panic", store.Len())
	}

	out := logs.String()
	for _, want := range []string{"panic recovered", "tensor shape mismatch", "status=500", "request_id=req-panic"} {
		if !strings.Contains(out, want) {
			t.Errorf("logs missing %q:\n%s", want, out)
		}
	}
}

func TestAPIChain_LogsEveryRoute(t *testing.T) {
	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{http.MethodOptions, "/anything", http.StatusNoContent},
		{http.MethodGet, gateway.PathHealth, http.StatusOK},
		{http.MethodGet, gateway.PathHistory, http.StatusOK},
		{http.MethodPost, gateway.PathInfer, http.StatusOK},
		{http.MethodGet, "/missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var logs bytes.Buffer
			api, _ := newAPI(t, predict.NewRandomPredictor(nil), &logs)

			w := httptest.NewRecorder()
			api.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status code = %d, want %d", w.Code, tt.wantStatus)
			}
			id := w.Header().Get(httpx.RequestIDHeader)
			if id == "" {
				t.Fatal("response missing generated request id")
			}

			out := logs.String()
			for _, want := range []string{
				"path=" + tt.path,
				"status=" + strconv.Itoa(tt.wantStatus),
				"request_id=" + id,
			} {
				if !strings.Contains(out, want) {
					t.Errorf("logs missing %q:\n%s", want, out)
				}
			}
		})
	}
}
