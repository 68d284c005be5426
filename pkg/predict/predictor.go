// Package predict defines the seam between the gateway and the model that
// classifies a sample. A Predictor returns a class index from a fixed label
// set together with a confidence score.
package predict

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// Prediction is the classifier output for one sample.
type Prediction struct {
	Label int     `json:"label"`
	Score float64 `json:"score"`
}

// Predictor classifies a sample. Implementations must be safe for concurrent use.
type Predictor interface {
	Predict(ctx context.Context, sample string) (Prediction, error)
	// Name returns a short identifier, e.g. "random", "firmware", "onnx".
	Name() string
}

// ErrInference matches every *InferenceError under errors.Is.
var ErrInference = errors.New("inference failed")

// InferenceError reports a failed prediction.
type InferenceError struct {
	Predictor string
	Err       error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed (%s): %v", e.Predictor, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

func (e *InferenceError) Is(target error) bool {
	return target == ErrInference
}

// timeoutPredictor bounds the latency of another Predictor.
type timeoutPredictor struct {
	next    Predictor
	timeout time.Duration
}

// WithTimeout wraps p so a call exceeding d fails with an *InferenceError
// wrapping context.DeadlineExceeded. A non-positive d returns p unchanged.
func WithTimeout(p Predictor, d time.Duration) Predictor {
	if d <= 0 {
		return p
	}
	return &timeoutPredictor{next: p, timeout: d}
}

func (t *timeoutPredictor) Name() string {
	return t.next.Name()
}

func (t *timeoutPredictor) Predict(ctx context.Context, sample string) (Prediction, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	type result struct {
		pred Prediction
		err  error
	}
	done := make(chan result, 1)
	go func() {
		p, err := t.next.Predict(ctx, sample)
		done <- result{p, err}
	}()

	select {
	case r := <-done:
		return r.pred, r.err
	case <-ctx.Done():
		return Prediction{}, &InferenceError{Predictor: t.next.Name(), Err: ctx.Err()}
	}
}

// roundScore rounds to 3 decimals while keeping the score strictly below 1.
func roundScore(v float64) float64 {
	r := math.Round(v*1000) / 1000
	if r >= 1 {
		return 0.999
	}
	if r < 0 {
		return 0
	}
	return r
}
