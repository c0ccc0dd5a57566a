package ports

import (
	"context"

	"canvas-backend/domain/core/entities"
)

// Snapshot is an authoritative, z-ordered view of a project's objects as
// broadcast by the remote store
type Snapshot struct {
	ProjectID string
	Objects   []*entities.CanvasObject
}

// SnapshotHandler consumes remote snapshots
type SnapshotHandler func(Snapshot)

// Unsubscribe tears down a snapshot subscription
type Unsubscribe func()

// RemoteStore is the contract the core requires from the shared persistence
// layer. Calls may fail independently; callers must never assume atomicity
// across multiple ids. Consistency across clients is last-write-wins at this
// layer, reconciled through Subscribe snapshots.
type RemoteStore interface {
	// Put writes a full object at the given z-position
	Put(ctx context.Context, projectID string, obj *entities.CanvasObject, zIndex int) error

	// Patch merges a partial update into one object
	Patch(ctx context.Context, projectID, objectID string, patch entities.Patch) error

	// BatchPatch merges partial updates into several objects. Not atomic: a
	// failure can leave the remote partially updated, recovered by the next
	// snapshot.
	BatchPatch(ctx context.Context, projectID string, patches map[string]entities.Patch) error

	// Delete removes one object
	Delete(ctx context.Context, projectID, objectID string) error

	// Reorder rewrites the z-positions of the given ids to match their slice
	// order
	Reorder(ctx context.Context, projectID string, orderedIDs []string) error

	// Subscribe streams authoritative snapshots until unsubscribed
	Subscribe(ctx context.Context, projectID string, onSnapshot SnapshotHandler) (Unsubscribe, error)
}
