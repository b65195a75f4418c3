package app

import (
	"fmt"

	"roadside/internal/config"
	"roadside/internal/events"
)

// NewEventPublisher dials RabbitMQ and declares the status exchange.
// Returns nil with no error when publishing is disabled.
func NewEventPublisher(cfg config.RabbitMQConfig) (*events.Publisher, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	publisher, err := events.Dial(cfg.URL, cfg.Exchange)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	return publisher, nil
}
