package services

import (
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
	domainservices "canvas-backend/domain/services"
)

// Hierarchy operations. Validation failures (missing target, non-group
// target, cycles, too-small selections) are silent no-ops per the store
// contract; callers pre-validate through the same predicates when they need
// feedback.

// SetParent reparents an object, then commits the move and any empty-group
// pruning remotely
func (e *CanvasEditor) SetParent(objectID, newParentID string) bool {
	e.mu.Lock()
	res := e.scene.SetParent(objectID, newParentID)
	e.mu.Unlock()
	if !res.Applied {
		return false
	}

	e.metrics.ObjectsMutated.WithLabelValues("reparent").Inc()
	e.dispatcher.Enqueue(e.projectID, objectID, entities.Patch{ParentID: entities.String(newParentID)}, ClassDiscrete)
	e.commitRemovals(res.Pruned)
	e.drainEvents()
	return true
}

// GroupObjects wraps the current selection in a new group. No-op with fewer
// than two selected objects.
func (e *CanvasEditor) GroupObjects(createdBy string) *entities.CanvasObject {
	e.mu.Lock()
	res := e.scene.GroupSelected(createdBy)
	var zIndex int
	if res != nil {
		zIndex = e.scene.Len() - 1
	}
	e.mu.Unlock()
	if res == nil {
		return nil
	}

	e.metrics.ObjectsMutated.WithLabelValues("group").Inc()
	e.asyncPut(res.Group.Clone(), zIndex)
	patches := make(map[string]entities.Patch, len(res.MemberIDs))
	for _, id := range res.MemberIDs {
		patches[id] = entities.Patch{ParentID: entities.String(res.Group.ID)}
	}
	e.asyncBatchPatch(patches)
	e.drainEvents()
	return res.Group
}

// UngroupObjects dissolves every selected group, reparenting each child to
// that group's own parent
func (e *CanvasEditor) UngroupObjects() []string {
	e.mu.Lock()
	res := e.scene.UngroupSelected()
	e.mu.Unlock()
	if res == nil {
		return nil
	}

	e.metrics.ObjectsMutated.WithLabelValues("ungroup").Inc()
	patches := make(map[string]entities.Patch, len(res.Reparented))
	for childID, parentID := range res.Reparented {
		patches[childID] = entities.Patch{ParentID: entities.String(parentID)}
	}
	e.asyncBatchPatch(patches)
	e.commitRemovals(res.Removed)
	e.drainEvents()
	return res.NewSelection
}

// ToggleLock flips locked on an object and exactly its descendant set, one
// local transition and one remote batch
func (e *CanvasEditor) ToggleLock(id string) bool {
	e.mu.Lock()
	res := e.scene.ToggleLock(id)
	e.mu.Unlock()
	if res == nil {
		return false
	}

	e.metrics.ObjectsMutated.WithLabelValues("lock").Inc()
	patches := make(map[string]entities.Patch, len(res.IDs))
	for _, objectID := range res.IDs {
		patches[objectID] = entities.Patch{Locked: entities.Bool(res.Locked)}
	}
	e.asyncBatchPatch(patches)
	e.drainEvents()
	return true
}

// ToggleVisibility flips the visible flag on one object
func (e *CanvasEditor) ToggleVisibility(id string) bool {
	e.mu.Lock()
	visible, ok := e.scene.ToggleVisibility(id)
	e.mu.Unlock()
	if !ok {
		return false
	}

	e.dispatcher.Enqueue(e.projectID, id, entities.Patch{Visible: entities.Bool(visible)}, ClassDiscrete)
	e.drainEvents()
	return true
}

// ToggleCollapse flips the layers-list collapse flag on a group
func (e *CanvasEditor) ToggleCollapse(id string) bool {
	e.mu.Lock()
	collapsed, ok := e.scene.ToggleCollapse(id)
	e.mu.Unlock()
	if !ok {
		return false
	}

	e.dispatcher.Enqueue(e.projectID, id, entities.Patch{IsCollapsed: entities.Bool(collapsed)}, ClassDiscrete)
	e.drainEvents()
	return true
}

// Z-order

// BringToFront moves an object to the top of the z-order
func (e *CanvasEditor) BringToFront(id string) bool { return e.reorder(e.scene.BringToFront, id) }

// SendToBack moves an object to the bottom of the z-order
func (e *CanvasEditor) SendToBack(id string) bool { return e.reorder(e.scene.SendToBack, id) }

// MoveForward moves an object one step up
func (e *CanvasEditor) MoveForward(id string) bool { return e.reorder(e.scene.MoveForward, id) }

// MoveBackward moves an object one step down
func (e *CanvasEditor) MoveBackward(id string) bool { return e.reorder(e.scene.MoveBackward, id) }

func (e *CanvasEditor) reorder(op func(string) bool, id string) bool {
	e.mu.Lock()
	ok := op(id)
	var order []string
	if ok {
		order = e.scene.OrderedIDs()
	}
	e.mu.Unlock()
	if !ok {
		return false
	}

	e.metrics.ObjectsMutated.WithLabelValues("reorder").Inc()
	e.asyncReorder(order)
	e.drainEvents()
	return true
}

// Clipboard

// CopyObjects snapshots the selection plus descendants into the clipboard.
// No-op when nothing is selected.
func (e *CanvasEditor) CopyObjects() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clipboard.Copy(e.scene)
}

// PasteObjects materializes the clipboard at the paste anchor: the last
// known pointer position, or the viewport center. New objects land at the
// top of the z-order, become the selection, and are committed remotely one
// by one best-effort.
func (e *CanvasEditor) PasteObjects() []string {
	e.mu.Lock()
	if e.clipboard.IsEmpty() {
		e.mu.Unlock()
		return nil
	}

	anchor := e.viewportCenter
	if e.pointer != nil {
		anchor = *e.pointer
	}
	targetParent := domainservices.PasteTargetParent(e.scene)
	pasted := e.clipboard.Materialize(anchor, targetParent, false)

	return e.insertPastedLocked(pasted)
}

// DuplicateObjects clones the selection in place with a fixed offset, same
// id-remap rules as paste
func (e *CanvasEditor) DuplicateObjects() []string {
	e.mu.Lock()
	scratch := domainservices.NewClipboard()
	if !scratch.Copy(e.scene) {
		e.mu.Unlock()
		return nil
	}

	// Anchor is the current centroid shifted by the duplicate offset,
	// keeping every clone's original parent
	contents := scratch.Contents()
	var cx, cy float64
	for _, o := range contents {
		cx += o.X
		cy += o.Y
	}
	n := float64(len(contents))
	anchor := valueobjects.NewPoint(cx/n+e.cfg.DuplicateOffset, cy/n+e.cfg.DuplicateOffset)
	pasted := scratch.Materialize(anchor, "", true)

	return e.insertPastedLocked(pasted)
}

// insertPastedLocked appends materialized objects, selects them, and commits
// each independently. Partial remote failure is tolerated; the next snapshot
// is the source of truth. Releases e.mu.
func (e *CanvasEditor) insertPastedLocked(pasted []*entities.CanvasObject) []string {
	ids := make([]string, 0, len(pasted))
	type putJob struct {
		obj    *entities.CanvasObject
		zIndex int
	}
	jobs := make([]putJob, 0, len(pasted))
	for _, obj := range pasted {
		if e.scene.AddObject(obj) {
			ids = append(ids, obj.ID)
			jobs = append(jobs, putJob{obj: obj.Clone(), zIndex: e.scene.Len() - 1})
		}
	}
	e.scene.SelectObjects(ids)
	e.scene.RecordPaste(ids)
	e.mu.Unlock()

	if len(ids) == 0 {
		return nil
	}
	e.metrics.ObjectsMutated.WithLabelValues("paste").Inc()
	for _, job := range jobs {
		e.asyncPut(job.obj, job.zIndex)
	}
	e.drainEvents()
	return ids
}
