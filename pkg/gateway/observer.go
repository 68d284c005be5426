package gateway

import "time"

// Observer receives instrumentation callbacks from the gateway.
type Observer interface {
	ObserveRequest(route string, status int)
	ObservePrediction(predictor string, label int, latency time.Duration)
	ObservePredictError(predictor string)
	ObserveHistory(size, evicted int)
	ObservePublishError()
}

// NopObserver ignores every callback.
type NopObserver struct{}

func (NopObserver) ObserveRequest(string, int) {}
func (NopObserver) ObservePrediction(string, int, time.Duration) {}
func (NopObserver) ObservePredictError(string) {}
func (NopObserver) ObserveHistory(int, int) {}
func (NopObserver) ObservePublishError() {}
