package services

import (
	"context"
	"sync"
	"time"

	"canvas-backend/application/ports"
	"canvas-backend/domain/config"
	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
	domainservices "canvas-backend/domain/services"
	"canvas-backend/pkg/observability"

	"go.uber.org/zap"
)

// CanvasEditor coordinates one project's scene: optimistic local mutation,
// scheduled remote commits through the dispatcher, and reconciliation of
// authoritative snapshots. All mutations follow the same policy: apply
// locally first, commit remotely best-effort, never roll back; the next
// snapshot is the recovery mechanism for any partial remote failure.
type CanvasEditor struct {
	projectID  string
	scene      *aggregates.Scene
	clipboard  *domainservices.Clipboard
	dispatcher *Dispatcher
	remote     ports.RemoteStore
	assets     ports.AssetStore
	publisher  ports.EventPublisher
	cfg        *config.DomainConfig
	metrics    *observability.Collector
	logger     *zap.Logger

	mu sync.Mutex

	// Paste anchor inputs
	pointer        *valueobjects.Point
	viewportCenter valueobjects.Point

	unsubscribe ports.Unsubscribe
	commitWG    sync.WaitGroup
}

// NewCanvasEditor creates an editor for a project
func NewCanvasEditor(
	projectID string,
	remote ports.RemoteStore,
	assets ports.AssetStore,
	publisher ports.EventPublisher,
	cfg *config.DomainConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *CanvasEditor {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &CanvasEditor{
		projectID:      projectID,
		scene:          aggregates.NewScene(projectID, cfg),
		clipboard:      domainservices.NewClipboard(),
		dispatcher:     NewDispatcher(remote, cfg.ThrottleInterval, cfg.DebounceSettle, metrics, logger),
		remote:         remote,
		assets:         assets,
		publisher:      publisher,
		cfg:            cfg,
		metrics:        metrics,
		logger:         logger.With(zap.String("projectId", projectID)),
		viewportCenter: valueobjects.NewPoint(640, 360),
	}
}

// Start subscribes to remote snapshots. Until the first snapshot arrives the
// scene is empty.
func (e *CanvasEditor) Start(ctx context.Context) error {
	unsub, err := e.remote.Subscribe(ctx, e.projectID, e.onSnapshot)
	if err != nil {
		return err
	}
	e.unsubscribe = unsub
	return nil
}

// Close flushes in-flight commits and tears the editor down. The final edit
// must not be lost on unmount.
func (e *CanvasEditor) Close() {
	if e.unsubscribe != nil {
		e.unsubscribe()
	}
	e.dispatcher.Close()
	e.commitWG.Wait()
}

// onSnapshot reconciles an authoritative remote snapshot into local state
func (e *CanvasEditor) onSnapshot(snap ports.Snapshot) {
	e.mu.Lock()
	changed := e.scene.ReplaceAll(snap.Objects)
	e.mu.Unlock()

	if changed {
		e.metrics.SnapshotsApplied.Inc()
		e.drainEvents()
	} else {
		e.metrics.SnapshotsSkipped.Inc()
	}
}

// Reading

// Objects returns the ordered object list
func (e *CanvasEditor) Objects() []*entities.CanvasObject {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scene.Objects()
}

// Object looks up one object
func (e *CanvasEditor) Object(id string) (*entities.CanvasObject, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scene.Object(id)
}

// SelectedIDs returns the current selection
func (e *CanvasEditor) SelectedIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scene.SelectedIDs()
}

// Children returns the direct children of a group, in z-order
func (e *CanvasEditor) Children(id string) []*entities.CanvasObject {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*entities.CanvasObject
	for _, o := range e.scene.Objects() {
		if o.ParentID == id {
			out = append(out, o)
		}
	}
	return out
}

// Object mutation

// AddObject inserts an object at the top of the z-order and commits it
// remotely fire-and-forget
func (e *CanvasEditor) AddObject(obj *entities.CanvasObject) bool {
	e.mu.Lock()
	if !e.scene.AddObject(obj) {
		e.mu.Unlock()
		return false
	}
	zIndex := e.scene.Len() - 1
	e.mu.Unlock()

	e.metrics.ObjectsMutated.WithLabelValues("add").Inc()
	e.asyncPut(obj.Clone(), zIndex)
	e.drainEvents()
	return true
}

// UpdateObject merges a partial update locally and schedules the remote
// commit under the given rate-limiting class
func (e *CanvasEditor) UpdateObject(id string, patch entities.Patch, class CommitClass) bool {
	e.mu.Lock()
	ok := e.scene.UpdateObject(id, patch)
	e.mu.Unlock()
	if !ok {
		return false
	}

	e.metrics.ObjectsMutated.WithLabelValues("update").Inc()
	e.dispatcher.Enqueue(e.projectID, id, patch, class)
	e.drainEvents()
	return true
}

// BatchUpdate applies several updates as one local transition and one remote
// batch call
func (e *CanvasEditor) BatchUpdate(patches []aggregates.ObjectPatch) []string {
	e.mu.Lock()
	applied := e.scene.BatchUpdate(patches)
	e.mu.Unlock()
	if len(applied) == 0 {
		return applied
	}

	e.metrics.ObjectsMutated.WithLabelValues("batch_update").Inc()
	appliedSet := make(map[string]struct{}, len(applied))
	for _, id := range applied {
		appliedSet[id] = struct{}{}
	}
	remote := make(map[string]entities.Patch, len(applied))
	for _, p := range patches {
		if _, ok := appliedSet[p.ID]; !ok {
			continue
		}
		if existing, dup := remote[p.ID]; dup {
			remote[p.ID] = existing.Merge(p.Patch)
		} else {
			remote[p.ID] = p.Patch
		}
	}
	e.asyncBatchPatch(remote)
	e.drainEvents()
	return applied
}

// RemoveObject deletes an object with its descendants, prunes emptied
// ancestor groups, and releases backing assets best-effort
func (e *CanvasEditor) RemoveObject(id string) bool {
	e.mu.Lock()
	removed := e.scene.RemoveObject(id)
	e.mu.Unlock()
	if len(removed) == 0 {
		return false
	}

	e.metrics.ObjectsMutated.WithLabelValues("remove").Inc()
	e.commitRemovals(removed)
	e.drainEvents()
	return true
}

// commitRemovals mirrors deletions remotely and cleans up externally-owned
// resources. Each call is independent and best-effort.
func (e *CanvasEditor) commitRemovals(removed []*entities.CanvasObject) {
	for _, obj := range removed {
		objectID, assetKey := obj.ID, obj.AssetKey
		e.commitWG.Add(1)
		go func() {
			defer e.commitWG.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := e.remote.Delete(ctx, e.projectID, objectID); err != nil {
				e.logger.Warn("Remote delete failed, awaiting snapshot reconciliation",
					zap.String("objectId", objectID), zap.Error(err))
			}
			if assetKey != "" {
				if err := e.assets.Delete(ctx, assetKey); err != nil {
					e.logger.Warn("Asset cleanup failed",
						zap.String("assetKey", assetKey), zap.Error(err))
				}
			}
		}()
	}
}

// Selection

// SelectObjects replaces the selection
func (e *CanvasEditor) SelectObjects(ids []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scene.SelectObjects(ids)
}

// ToggleSelection toggles one id
func (e *CanvasEditor) ToggleSelection(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scene.ToggleSelection(id)
}

// AddToSelection appends one id
func (e *CanvasEditor) AddToSelection(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scene.AddToSelection(id)
}

// RemoveFromSelection drops one id
func (e *CanvasEditor) RemoveFromSelection(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scene.RemoveFromSelection(id)
}

// ClearSelection empties the selection
func (e *CanvasEditor) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scene.ClearSelection()
}

// Pointer state for paste anchoring

// SetPointer records the last known pointer position over the canvas
func (e *CanvasEditor) SetPointer(x, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := valueobjects.NewPoint(x, y)
	e.pointer = &p
}

// ClearPointer forgets the pointer (left the canvas)
func (e *CanvasEditor) ClearPointer() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pointer = nil
}

// SetViewportCenter records the viewport center used as the paste fallback
// anchor
func (e *CanvasEditor) SetViewportCenter(x, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewportCenter = valueobjects.NewPoint(x, y)
}

// Internal helpers

func (e *CanvasEditor) asyncPut(obj *entities.CanvasObject, zIndex int) {
	e.commitWG.Add(1)
	go func() {
		defer e.commitWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.remote.Put(ctx, e.projectID, obj, zIndex); err != nil {
			e.logger.Warn("Remote put failed, awaiting snapshot reconciliation",
				zap.String("objectId", obj.ID), zap.Error(err))
		}
	}()
}

func (e *CanvasEditor) asyncBatchPatch(patches map[string]entities.Patch) {
	if len(patches) == 0 {
		return
	}
	e.commitWG.Add(1)
	go func() {
		defer e.commitWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.remote.BatchPatch(ctx, e.projectID, patches); err != nil {
			e.logger.Warn("Remote batch patch failed, awaiting snapshot reconciliation",
				zap.Int("count", len(patches)), zap.Error(err))
		}
	}()
}

func (e *CanvasEditor) asyncReorder(orderedIDs []string) {
	e.commitWG.Add(1)
	go func() {
		defer e.commitWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.remote.Reorder(ctx, e.projectID, orderedIDs); err != nil {
			e.logger.Warn("Remote reorder failed, awaiting snapshot reconciliation", zap.Error(err))
		}
	}()
}

// drainEvents forwards accumulated domain events to the publisher
// best-effort
func (e *CanvasEditor) drainEvents() {
	e.mu.Lock()
	evts := e.scene.GetUncommittedEvents()
	if len(evts) == 0 {
		e.mu.Unlock()
		return
	}
	e.scene.MarkEventsAsCommitted()
	e.mu.Unlock()

	e.commitWG.Add(1)
	go func() {
		defer e.commitWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, evt := range evts {
			if err := e.publisher.Publish(ctx, evt); err != nil {
				e.logger.Debug("Event publish failed",
					zap.String("eventType", evt.GetEventType()), zap.Error(err))
			}
		}
	}()
}
