// Package events fans completed inference records out to other systems.
// Publishing is best effort: a failed publish is reported to the caller but
// never affects the request that produced the record.
package events

import (
	"context"

	"github.com/HatiCode/edgegate/pkg/history"
)

// Envelope is the wire format of a published record.
type Envelope struct {
	InstanceID string         `json:"instance_id"`
	Record     history.Record `json:"record"`
}

// Publisher delivers records to a downstream sink.
type Publisher interface {
	Publish(ctx context.Context, rec history.Record) error
	Close() error
}

// NopPublisher discards every record.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, history.Record) error { return nil }

func (NopPublisher) Close() error { return nil }
