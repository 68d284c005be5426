package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/HatiCode/edgegate/pkg/history"
)

// DefaultSubject is the subject records are published on when none is configured.
const DefaultSubject = "edgegate.inferences"

// NATSPublisher publishes each record as a JSON Envelope on a NATS subject.
type NATSPublisher struct {
	conn       *nats.Conn
	subject    string
	instanceID string
}

// NewNATSPublisher connects to the NATS server at url.
// The connection reconnects indefinitely; publishes during an outage are
// buffered by the client.
func NewNATSPublisher(url, subject, instanceID string, logger *slog.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if subject == "" {
		subject = DefaultSubject
	}

	conn, err := nats.Connect(url,
		nats.Name("edgegate-"+instanceID),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return newNATSPublisher(conn, subject, instanceID), nil
}

func newNATSPublisher(conn *nats.Conn, subject, instanceID string) *NATSPublisher {
	return &NATSPublisher{
		conn:       conn,
		subject:    subject,
		instanceID: instanceID,
	}
}

// Subject returns the subject records are published on.
func (p *NATSPublisher) Subject() string {
	return p.subject
}

func (p *NATSPublisher) Publish(ctx context.Context, rec history.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(Envelope{InstanceID: p.instanceID, Record: rec})
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish record %d: %w", rec.ID, err)
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
