// Package publisher builds the gateway's inference event publisher.
//
// With no NATS URL configured, records are not published anywhere. With a URL,
// every recorded inference is published on cfg.NatsSubject. Connection
// failures at startup are returned to the caller.
package publisher

import (
	"log/slog"

	"github.com/HatiCode/edgegate/cmd/gateway/config"
	"github.com/HatiCode/edgegate/pkg/events"
)

// New creates the configured publisher.
func New(cfg *config.Config, instanceID string, logger *slog.Logger) (events.Publisher, error) {
	if cfg.NatsURL == "" {
		logger.Info("inference events disabled")
		return events.NopPublisher{}, nil
	}

	logger.Info("initializing nats publisher",
		"url", cfg.NatsURL,
		"subject", cfg.NatsSubject,
	)
	p, err := events.NewNATSPublisher(cfg.NatsURL, cfg.NatsSubject, instanceID, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("nats publisher connected")

	return p, nil
}
