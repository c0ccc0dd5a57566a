package aggregates

import (
	"time"

	"canvas-backend/domain/config"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/events"
)

// Scene is the aggregate root for a project's canvas. It owns the ordered
// object sequence (slice position is z-order, later is on top), the
// parent/child relationships expressed through ParentID, and the selection.
//
// All mutations are synchronous and run to completion; callers serialize
// access. Remote commits are scheduled by the application layer after the
// local mutation succeeds.
type Scene struct {
	id       string
	objects  []*entities.CanvasObject
	byID     map[string]*entities.CanvasObject
	selected []string
	cfg      *config.DomainConfig

	// Domain events raised since the last drain
	events []events.DomainEvent
}

// NewScene creates an empty scene for a project
func NewScene(id string, cfg *config.DomainConfig) *Scene {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &Scene{
		id:       id,
		objects:  []*entities.CanvasObject{},
		byID:     make(map[string]*entities.CanvasObject),
		selected: []string{},
		cfg:      cfg,
	}
}

// ID returns the scene's project id
func (s *Scene) ID() string {
	return s.id
}

// Len returns the number of objects in the scene
func (s *Scene) Len() int {
	return len(s.objects)
}

// Objects returns the ordered object sequence. The slice is a copy; the
// objects are the live instances and must not be mutated by callers.
func (s *Scene) Objects() []*entities.CanvasObject {
	out := make([]*entities.CanvasObject, len(s.objects))
	copy(out, s.objects)
	return out
}

// Object looks up an object by id
func (s *Scene) Object(id string) (*entities.CanvasObject, bool) {
	o, ok := s.byID[id]
	return o, ok
}

// IndexOf returns the z-position of an object, -1 if absent
func (s *Scene) IndexOf(id string) int {
	for i, o := range s.objects {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// AddObject appends an object at the top of the z-order. Validation is id
// uniqueness and the scene capacity; text objects get the configured font
// defaults when unset.
func (s *Scene) AddObject(obj *entities.CanvasObject) bool {
	if obj == nil || obj.ID == "" {
		return false
	}
	if _, exists := s.byID[obj.ID]; exists {
		return false
	}
	if s.cfg.MaxObjectsPerScene > 0 && len(s.objects) >= s.cfg.MaxObjectsPerScene {
		return false
	}
	if obj.Type == entities.TypeText {
		if obj.FontSize == 0 {
			obj.FontSize = s.cfg.DefaultFontSize
		}
		if obj.FontFamily == "" {
			obj.FontFamily = s.cfg.DefaultFontFamily
		}
	}
	s.objects = append(s.objects, obj)
	s.byID[obj.ID] = obj
	s.addEvent(events.NewObjectAdded(obj.ID, string(obj.Type), obj.CreatedBy, time.Now()))
	return true
}

// UpdateObject merges a partial update into an object and stamps UpdatedAt.
// No-op if the id is absent.
func (s *Scene) UpdateObject(id string, patch entities.Patch) bool {
	obj, ok := s.byID[id]
	if !ok {
		return false
	}
	patch.Apply(obj)
	s.addEvent(events.NewObjectUpdated(id, obj.UpdatedAt))
	return true
}

// ObjectPatch pairs an object id with its partial update
type ObjectPatch struct {
	ID    string
	Patch entities.Patch
}

// BatchUpdate applies several updates as one state transition and raises a
// single event. Required for smooth multi-object drags: N objects moving must
// not fan out into N notifications.
func (s *Scene) BatchUpdate(patches []ObjectPatch) []string {
	applied := make([]string, 0, len(patches))
	for _, p := range patches {
		obj, ok := s.byID[p.ID]
		if !ok {
			continue
		}
		p.Patch.Apply(obj)
		applied = append(applied, p.ID)
	}
	if len(applied) > 0 {
		s.addEvent(events.NewObjectsBatchUpdated(applied, time.Now()))
	}
	return applied
}

// RemoveObject deletes an object together with its descendants, drops the
// removed ids from the selection, and recursively deletes ancestor groups
// left logically empty. Returns every object actually removed, in z-order,
// so the caller can mirror the deletions remotely and release backing
// assets.
func (s *Scene) RemoveObject(id string) []*entities.CanvasObject {
	obj, ok := s.byID[id]
	if !ok {
		return nil
	}

	children := s.childrenIndex()
	doomed := map[string]struct{}{id: {}}
	collectDescendants(id, children, doomed)

	oldParent := obj.ParentID
	removed := s.removeSet(doomed)

	// An ancestor chain may have become empty
	removed = append(removed, s.pruneEmptyAncestors(oldParent)...)
	return removed
}

// removeSet removes every object whose id is in the set, preserving order of
// the survivors, pruning the selection, and raising one event per removal.
func (s *Scene) removeSet(ids map[string]struct{}) []*entities.CanvasObject {
	if len(ids) == 0 {
		return nil
	}
	removed := make([]*entities.CanvasObject, 0, len(ids))
	kept := s.objects[:0]
	for _, o := range s.objects {
		if _, gone := ids[o.ID]; gone {
			removed = append(removed, o)
			delete(s.byID, o.ID)
			s.addEvent(events.NewObjectRemoved(o.ID, o.AssetKey, time.Now()))
		} else {
			kept = append(kept, o)
		}
	}
	s.objects = kept

	sel := s.selected[:0]
	for _, id := range s.selected {
		if _, gone := ids[id]; !gone {
			sel = append(sel, id)
		}
	}
	s.selected = sel
	return removed
}

// ReplaceAll installs an authoritative remote snapshot. Records are
// normalized first, then shallow-compared against the current sequence: on
// equality the transition is skipped entirely. On replacement, selection ids
// no longer present are pruned; the selection slice is only touched when
// something was actually pruned. Returns whether state changed.
func (s *Scene) ReplaceAll(snapshot []*entities.CanvasObject) bool {
	for _, o := range snapshot {
		o.Normalize()
	}
	if entities.ObjectListsEqual(s.objects, snapshot) {
		return false
	}

	s.objects = snapshot
	s.byID = make(map[string]*entities.CanvasObject, len(snapshot))
	for _, o := range snapshot {
		s.byID[o.ID] = o
	}

	pruned := 0
	sel := make([]string, 0, len(s.selected))
	for _, id := range s.selected {
		if _, ok := s.byID[id]; ok {
			sel = append(sel, id)
		} else {
			pruned++
		}
	}
	if pruned > 0 {
		s.selected = sel
	}

	s.addEvent(events.NewSceneReconciled(s.id, len(snapshot), pruned, time.Now()))
	return true
}

// Selection operations

// SelectObjects replaces the selection with the given ids, keeping only ids
// that exist
func (s *Scene) SelectObjects(ids []string) {
	sel := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := s.byID[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		sel = append(sel, id)
	}
	s.selected = sel
}

// ToggleSelection adds the id if absent, removes it if present
func (s *Scene) ToggleSelection(id string) {
	for i, sid := range s.selected {
		if sid == id {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return
		}
	}
	s.AddToSelection(id)
}

// AddToSelection appends an existing, not-yet-selected id
func (s *Scene) AddToSelection(id string) {
	if _, ok := s.byID[id]; !ok {
		return
	}
	for _, sid := range s.selected {
		if sid == id {
			return
		}
	}
	s.selected = append(s.selected, id)
}

// RemoveFromSelection drops an id from the selection
func (s *Scene) RemoveFromSelection(id string) {
	for i, sid := range s.selected {
		if sid == id {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return
		}
	}
}

// ClearSelection empties the selection
func (s *Scene) ClearSelection() {
	s.selected = []string{}
}

// SelectedIDs returns a copy of the ordered selection
func (s *Scene) SelectedIDs() []string {
	out := make([]string, len(s.selected))
	copy(out, s.selected)
	return out
}

// RecordPaste raises a single aggregate event covering a clipboard insert.
// The per-object added events are raised by AddObject; this one carries the
// full batch for consumers that care about the paste as a unit.
func (s *Scene) RecordPaste(ids []string) {
	if len(ids) == 0 {
		return
	}
	s.addEvent(events.NewObjectsPasted(ids, time.Now()))
}

// Events

// GetUncommittedEvents returns all events raised since the last drain
func (s *Scene) GetUncommittedEvents() []events.DomainEvent {
	return s.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (s *Scene) MarkEventsAsCommitted() {
	s.events = []events.DomainEvent{}
}

func (s *Scene) addEvent(event events.DomainEvent) {
	s.events = append(s.events, event)
}
