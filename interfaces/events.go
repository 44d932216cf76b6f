package interfaces

import "context"

// EventPublisher fans application events out to the message broker. All
// implementations must be safe to call when the broker is not configured.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
	Close() error
}
