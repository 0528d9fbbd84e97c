// Package events publishes order lifecycle events to the configured broker.
package events

import (
	"context"

	"github.com/devmazaharul/fcommerce/models"
)

// EventOrderPlaced is the event type emitted after a successful checkout.
const EventOrderPlaced = "order.placed"

// Publisher delivers order events. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event models.OrderPlacedEvent) error
	Close() error
}

// NoopPublisher drops events. Used when EVENTS_BACKEND=none.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPlaced(context.Context, models.OrderPlacedEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
