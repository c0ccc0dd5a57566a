package aggregates

import (
	"time"

	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
	"canvas-backend/domain/events"
)

// childrenIndex builds an id -> direct-child-ids map once per operation so
// cascades cost proportional to subtree size, not repeated linear scans.
func (s *Scene) childrenIndex() map[string][]string {
	idx := make(map[string][]string)
	for _, o := range s.objects {
		if o.ParentID != "" {
			idx[o.ParentID] = append(idx[o.ParentID], o.ID)
		}
	}
	return idx
}

func collectDescendants(id string, children map[string][]string, out map[string]struct{}) {
	for _, childID := range children[id] {
		if _, seen := out[childID]; seen {
			continue
		}
		out[childID] = struct{}{}
		collectDescendants(childID, children, out)
	}
}

// DescendantIDs returns the full descendant-id set of an object, excluding
// the object itself
func (s *Scene) DescendantIDs(id string) map[string]struct{} {
	out := make(map[string]struct{})
	collectDescendants(id, s.childrenIndex(), out)
	return out
}

// isLogicallyEmpty reports whether a group has zero children or only
// empty-group children, computed recursively
func (s *Scene) isLogicallyEmpty(id string, children map[string][]string) bool {
	obj, ok := s.byID[id]
	if !ok || !obj.IsGroup() {
		return false
	}
	for _, childID := range children[id] {
		child, ok := s.byID[childID]
		if !ok {
			continue
		}
		if !child.IsGroup() || !s.isLogicallyEmpty(childID, children) {
			return false
		}
	}
	return true
}

// pruneEmptyAncestors walks up from the given parent id deleting every
// logically empty group on the way, including the empty-group subtrees
// underneath them. Returns the removed objects.
func (s *Scene) pruneEmptyAncestors(parentID string) []*entities.CanvasObject {
	var removed []*entities.CanvasObject
	cur := parentID
	for cur != "" {
		obj, ok := s.byID[cur]
		if !ok || !obj.IsGroup() {
			break
		}
		children := s.childrenIndex()
		if !s.isLogicallyEmpty(cur, children) {
			break
		}
		next := obj.ParentID
		doomed := map[string]struct{}{cur: {}}
		collectDescendants(cur, children, doomed)
		removed = append(removed, s.removeSet(doomed)...)
		cur = next
	}
	return removed
}

// ReparentResult reports what a SetParent call did
type ReparentResult struct {
	Applied     bool
	OldParentID string
	// Groups deleted because the move left them logically empty
	Pruned []*entities.CanvasObject
}

// SetParent moves an object under a new parent, or to root when newParentID
// is empty. Invalid requests are rejected silently with no mutation: a
// non-empty target must exist and be a group, and must not be the object
// itself or one of its descendants. After a successful move, ancestors of
// the old parent that became logically empty are deleted.
func (s *Scene) SetParent(objectID, newParentID string) ReparentResult {
	obj, ok := s.byID[objectID]
	if !ok {
		return ReparentResult{}
	}
	if newParentID != "" {
		target, ok := s.byID[newParentID]
		if !ok || !target.IsGroup() {
			return ReparentResult{}
		}
		if newParentID == objectID {
			return ReparentResult{}
		}
		// Cycle guard: compute the descendant set of the object first
		if _, cyclic := s.DescendantIDs(objectID)[newParentID]; cyclic {
			return ReparentResult{}
		}
	}

	oldParentID := obj.ParentID
	if oldParentID == newParentID {
		return ReparentResult{Applied: true, OldParentID: oldParentID}
	}

	obj.ParentID = newParentID
	obj.UpdatedAt = time.Now()
	s.addEvent(events.NewObjectReparented(objectID, oldParentID, newParentID, obj.UpdatedAt))

	pruned := s.pruneEmptyAncestors(oldParentID)
	return ReparentResult{Applied: true, OldParentID: oldParentID, Pruned: pruned}
}

// subtreeBounds computes the bounding box of an object expanded through its
// descendants. Empty groups produce a zero box which is skipped by callers.
func (s *Scene) subtreeBounds(id string, children map[string][]string) (valueobjects.Bounds, bool) {
	obj, ok := s.byID[id]
	if !ok {
		return valueobjects.Bounds{}, false
	}
	if !obj.IsGroup() {
		return obj.Bounds(), true
	}
	var acc valueobjects.Bounds
	have := false
	for _, childID := range children[id] {
		b, ok := s.subtreeBounds(childID, children)
		if !ok {
			continue
		}
		if !have {
			acc = b
			have = true
		} else {
			acc = acc.Union(b)
		}
	}
	return acc, have
}

// GroupResult reports a grouping operation
type GroupResult struct {
	Group     *entities.CanvasObject
	MemberIDs []string
}

// GroupSelected wraps the current selection in a new group. A no-op when
// fewer than two objects are selected. The group's position is the center of
// the selection's bounding box, expanded recursively through selected groups.
// When every member shares the same parent the group nests inside it,
// otherwise the group is root-level. The group is appended at the top of the
// z-order and becomes the new selection.
func (s *Scene) GroupSelected(createdBy string) *GroupResult {
	if len(s.selected) < s.cfg.MinGroupSize {
		return nil
	}

	children := s.childrenIndex()
	var bbox valueobjects.Bounds
	have := false
	for _, id := range s.selected {
		b, ok := s.subtreeBounds(id, children)
		if !ok {
			continue
		}
		if !have {
			bbox = b
			have = true
		} else {
			bbox = bbox.Union(b)
		}
	}

	sharedParent := ""
	for i, id := range s.selected {
		obj, ok := s.byID[id]
		if !ok {
			return nil
		}
		if i == 0 {
			sharedParent = obj.ParentID
		} else if obj.ParentID != sharedParent {
			sharedParent = ""
			break
		}
	}

	center := bbox.Center()
	group := entities.NewGroup(createdBy, center.X, center.Y)
	group.ParentID = sharedParent

	members := make([]string, len(s.selected))
	copy(members, s.selected)

	s.objects = append(s.objects, group)
	s.byID[group.ID] = group

	now := time.Now()
	for _, id := range members {
		obj := s.byID[id]
		obj.ParentID = group.ID
		obj.UpdatedAt = now
	}

	s.selected = []string{group.ID}
	s.addEvent(events.NewObjectsGrouped(group.ID, members, now))
	return &GroupResult{Group: group, MemberIDs: members}
}

// UngroupResult reports an ungrouping operation
type UngroupResult struct {
	// The dissolved group objects, plus any ancestors pruned as a result
	Removed []*entities.CanvasObject
	// Child id -> the parent it was moved to
	Reparented map[string]string
	// The orphaned former children, now selected
	NewSelection []string
}

// UngroupSelected dissolves every selected group. Each direct child is
// reparented to that specific group's own parent, preserving nesting when an
// inner group is ungrouped. The former children become the new selection.
// Selected non-groups are ignored.
func (s *Scene) UngroupSelected() *UngroupResult {
	children := s.childrenIndex()
	res := &UngroupResult{Reparented: make(map[string]string)}
	now := time.Now()

	for _, id := range s.SelectedIDs() {
		group, ok := s.byID[id]
		if !ok || !group.IsGroup() {
			continue
		}
		childIDs := children[id]
		for _, childID := range childIDs {
			child, ok := s.byID[childID]
			if !ok {
				continue
			}
			child.ParentID = group.ParentID
			child.UpdatedAt = now
			res.Reparented[childID] = group.ParentID
			res.NewSelection = append(res.NewSelection, childID)
		}
		parentID := group.ParentID
		res.Removed = append(res.Removed, s.removeSet(map[string]struct{}{id: {}})...)
		s.addEvent(events.NewGroupDissolved(id, childIDs, now))

		// Dissolving an empty group can leave its parent empty
		res.Removed = append(res.Removed, s.pruneEmptyAncestors(parentID)...)
		children = s.childrenIndex()
	}

	if len(res.Removed) == 0 && len(res.Reparented) == 0 {
		return nil
	}
	s.SelectObjects(res.NewSelection)
	return res
}

// LockResult reports a lock cascade
type LockResult struct {
	// Every affected id: the object and exactly its descendant set
	IDs    []string
	Locked bool
}

// ToggleLock flips the locked flag for an object and its full descendant set
// as a single state transition
func (s *Scene) ToggleLock(id string) *LockResult {
	obj, ok := s.byID[id]
	if !ok {
		return nil
	}
	locked := !obj.Locked

	affected := map[string]struct{}{id: {}}
	collectDescendants(id, s.childrenIndex(), affected)

	now := time.Now()
	ids := make([]string, 0, len(affected))
	for _, o := range s.objects {
		if _, hit := affected[o.ID]; hit {
			o.Locked = locked
			o.UpdatedAt = now
			ids = append(ids, o.ID)
		}
	}

	s.addEvent(events.NewLockToggled(id, locked, ids, now))
	return &LockResult{IDs: ids, Locked: locked}
}

// ToggleVisibility flips the visible flag on a single object. Returns the
// new value and whether anything changed.
func (s *Scene) ToggleVisibility(id string) (bool, bool) {
	obj, ok := s.byID[id]
	if !ok {
		return false, false
	}
	obj.Visible = !obj.Visible
	obj.UpdatedAt = time.Now()
	s.addEvent(events.NewObjectUpdated(id, obj.UpdatedAt))
	return obj.Visible, true
}

// ToggleCollapse flips the layers-list collapse flag on a group. No-op for
// non-groups; collapse never affects rendering.
func (s *Scene) ToggleCollapse(id string) (bool, bool) {
	obj, ok := s.byID[id]
	if !ok || !obj.IsGroup() {
		return false, false
	}
	obj.IsCollapsed = !obj.IsCollapsed
	obj.UpdatedAt = time.Now()
	s.addEvent(events.NewObjectUpdated(id, obj.UpdatedAt))
	return obj.IsCollapsed, true
}
