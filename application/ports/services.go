package ports

import (
	"context"

	"canvas-backend/domain/events"
)

// EventPublisher publishes domain events to the event bus
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}

// AssetStore abstracts the blob storage backing image objects. Cleanup is
// best-effort: failures are logged and never block a deletion.
type AssetStore interface {
	Delete(ctx context.Context, assetKey string) error
}
