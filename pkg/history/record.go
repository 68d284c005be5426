// Package history holds completed inference records in a bounded,
// most-recent-first log.
package history

import (
	"time"

	"github.com/HatiCode/edgegate/pkg/predict"
)

// Record is one completed inference. Records are values; once pushed they are
// only ever copied out, never modified.
type Record struct {
	ID         int64              `json:"id"`
	Sample     string             `json:"sample"`
	Prediction predict.Prediction `json:"prediction"`
	LatencyMs  float64            `json:"latency_ms"`
	Timestamp  time.Time          `json:"timestamp"`
}

// Store is the interface the gateway uses to log records.
type Store interface {
	// Push inserts rec at the head, returning how many records were evicted from the tail.
	Push(rec Record) int
	// Snapshot returns a consistent copy of the log, newest first.
	Snapshot() []Record
	Len() int
	Cap() int
}
