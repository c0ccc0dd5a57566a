package services

import (
	"time"

	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
)

// Clipboard holds detached value snapshots of canvas objects. Contents are
// never referenced by id from the live scene; copying clones, pasting clones
// again with fresh ids.
type Clipboard struct {
	objects []*entities.CanvasObject
}

// NewClipboard creates an empty clipboard
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

// IsEmpty reports whether the clipboard holds nothing
func (c *Clipboard) IsEmpty() bool {
	return len(c.objects) == 0
}

// Contents returns clones of the held objects, in z-order
func (c *Clipboard) Contents() []*entities.CanvasObject {
	out := make([]*entities.CanvasObject, len(c.objects))
	for i, o := range c.objects {
		out[i] = o.Clone()
	}
	return out
}

// Copy snapshots the scene's selection, expanded to include all descendants,
// into the clipboard. A no-op when the selection is empty: previous contents
// survive.
func (c *Clipboard) Copy(scene *aggregates.Scene) bool {
	selected := scene.SelectedIDs()
	if len(selected) == 0 {
		return false
	}

	take := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		take[id] = struct{}{}
		for descID := range scene.DescendantIDs(id) {
			take[descID] = struct{}{}
		}
	}

	snapshot := make([]*entities.CanvasObject, 0, len(take))
	for _, obj := range scene.Objects() {
		if _, ok := take[obj.ID]; ok {
			snapshot = append(snapshot, obj.Clone())
		}
	}

	c.objects = snapshot
	return true
}

// PasteTargetParent resolves where pasted objects should land, from the
// current selection: inside a single selected group, as a sibling of a
// single selected non-group, inside the common parent of a multi-selection,
// or at root.
func PasteTargetParent(scene *aggregates.Scene) string {
	selected := scene.SelectedIDs()
	if len(selected) == 0 {
		return ""
	}
	if len(selected) == 1 {
		obj, ok := scene.Object(selected[0])
		if !ok {
			return ""
		}
		if obj.IsGroup() {
			return obj.ID
		}
		return obj.ParentID
	}
	shared := ""
	for i, id := range selected {
		obj, ok := scene.Object(id)
		if !ok {
			return ""
		}
		if i == 0 {
			shared = obj.ParentID
		} else if obj.ParentID != shared {
			return ""
		}
	}
	return shared
}

// Materialize produces fresh objects ready for insertion. Every object gets
// a new id; ParentID references into the clipboard are remapped to the new
// ids so internal hierarchy is preserved exactly. Top-level objects (parent
// external or absent) get targetParent, unless keepExternalParent is set, in
// which case they keep their original parent (used by duplicate).
//
// All objects are translated by one uniform vector moving the centroid of
// the clipboard positions to the anchor, preserving relative layout.
func (c *Clipboard) Materialize(anchor valueobjects.Point, targetParent string, keepExternalParent bool) []*entities.CanvasObject {
	if len(c.objects) == 0 {
		return nil
	}

	var cx, cy float64
	for _, o := range c.objects {
		cx += o.X
		cy += o.Y
	}
	cx /= float64(len(c.objects))
	cy /= float64(len(c.objects))
	dx, dy := anchor.X-cx, anchor.Y-cy

	idMap := make(map[string]string, len(c.objects))
	for _, o := range c.objects {
		idMap[o.ID] = entities.NewObjectID()
	}

	now := time.Now()
	out := make([]*entities.CanvasObject, 0, len(c.objects))
	for _, o := range c.objects {
		clone := o.Clone()
		clone.ID = idMap[o.ID]
		clone.X += dx
		clone.Y += dy
		clone.CreatedAt = now
		clone.UpdatedAt = now

		if newParent, internal := idMap[o.ParentID]; internal {
			clone.ParentID = newParent
		} else if !keepExternalParent {
			clone.ParentID = targetParent
		}
		out = append(out, clone)
	}
	return out
}
