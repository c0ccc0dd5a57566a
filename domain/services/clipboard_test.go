package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
)

func clipboardScene(t *testing.T) *aggregates.Scene {
	t.Helper()
	return aggregates.NewScene("project-1", nil)
}

func TestClipboard_Copy(t *testing.T) {
	s := clipboardScene(t)
	c := NewClipboard()

	t.Run("empty selection is a no-op", func(t *testing.T) {
		assert.False(t, c.Copy(s))
		assert.True(t, c.IsEmpty())
	})

	rect := entities.NewRectangle("u", 10, 10, 20, 20, "#fff")
	require.True(t, s.AddObject(rect))
	s.SelectObjects([]string{rect.ID})
	require.True(t, c.Copy(s))

	t.Run("contents are value snapshots", func(t *testing.T) {
		// Mutating the live object after copying must not touch the clipboard
		s.UpdateObject(rect.ID, entities.Patch{X: entities.Float(999)})
		contents := c.Contents()
		require.Len(t, contents, 1)
		assert.Equal(t, 10.0, contents[0].X)
	})

	t.Run("empty selection preserves previous contents", func(t *testing.T) {
		s.ClearSelection()
		assert.False(t, c.Copy(s))
		assert.Len(t, c.Contents(), 1)
	})
}

func TestClipboard_Copy_ExpandsDescendants(t *testing.T) {
	s := clipboardScene(t)
	group := entities.NewGroup("u", 0, 0)
	child := entities.NewRectangle("u", 5, 5, 10, 10, "#fff")
	grand := entities.NewCircle("u", 8, 8, 2, "#000")
	inner := entities.NewGroup("u", 0, 0)
	child.ParentID = group.ID
	inner.ParentID = group.ID
	grand.ParentID = inner.ID
	require.True(t, s.AddObject(group))
	require.True(t, s.AddObject(child))
	require.True(t, s.AddObject(inner))
	require.True(t, s.AddObject(grand))

	c := NewClipboard()
	s.SelectObjects([]string{group.ID})
	require.True(t, c.Copy(s))

	assert.Len(t, c.Contents(), 4)
}

func TestClipboard_Materialize(t *testing.T) {
	s := clipboardScene(t)
	a := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	b := entities.NewRectangle("u", 40, 20, 10, 10, "#fff")
	require.True(t, s.AddObject(a))
	require.True(t, s.AddObject(b))
	s.SelectObjects([]string{a.ID, b.ID})

	c := NewClipboard()
	require.True(t, c.Copy(s))

	anchor := valueobjects.NewPoint(120, 110)
	out := c.Materialize(anchor, "", false)
	require.Len(t, out, 2)

	t.Run("ids are fresh", func(t *testing.T) {
		for _, o := range out {
			assert.NotEqual(t, a.ID, o.ID)
			assert.NotEqual(t, b.ID, o.ID)
		}
		assert.NotEqual(t, out[0].ID, out[1].ID)
	})

	t.Run("uniform translation preserves relative layout", func(t *testing.T) {
		// Centroid (20,10) moves to the anchor, both move by the same vector
		assert.Equal(t, 100.0, out[0].X)
		assert.Equal(t, 100.0, out[0].Y)
		assert.Equal(t, 140.0, out[1].X)
		assert.Equal(t, 120.0, out[1].Y)
		assert.Equal(t, out[1].X-out[0].X, b.X-a.X)
		assert.Equal(t, out[1].Y-out[0].Y, b.Y-a.Y)
	})

	t.Run("materializing twice yields disjoint ids", func(t *testing.T) {
		again := c.Materialize(anchor, "", false)
		require.Len(t, again, 2)
		for i := range again {
			assert.NotEqual(t, out[i].ID, again[i].ID)
		}
	})

	t.Run("empty clipboard yields nothing", func(t *testing.T) {
		assert.Nil(t, NewClipboard().Materialize(anchor, "", false))
	})
}

func TestClipboard_Materialize_RemapsInternalHierarchy(t *testing.T) {
	s := clipboardScene(t)
	group := entities.NewGroup("u", 0, 0)
	child := entities.NewRectangle("u", 5, 5, 10, 10, "#fff")
	child.ParentID = group.ID
	require.True(t, s.AddObject(group))
	require.True(t, s.AddObject(child))
	s.SelectObjects([]string{group.ID})

	c := NewClipboard()
	require.True(t, c.Copy(s))

	out := c.Materialize(valueobjects.NewPoint(50, 50), "target-group", false)
	require.Len(t, out, 2)

	var newGroup, newChild *entities.CanvasObject
	for _, o := range out {
		if o.IsGroup() {
			newGroup = o
		} else {
			newChild = o
		}
	}
	require.NotNil(t, newGroup)
	require.NotNil(t, newChild)

	// The child follows its copied group; only the top-level object retargets
	assert.Equal(t, newGroup.ID, newChild.ParentID)
	assert.Equal(t, "target-group", newGroup.ParentID)
}

func TestClipboard_Materialize_KeepExternalParent(t *testing.T) {
	s := clipboardScene(t)
	group := entities.NewGroup("u", 0, 0)
	child := entities.NewRectangle("u", 5, 5, 10, 10, "#fff")
	child.ParentID = group.ID
	require.True(t, s.AddObject(group))
	require.True(t, s.AddObject(child))

	// Duplicate semantics: only the child is copied, its parent stays
	s.SelectObjects([]string{child.ID})
	c := NewClipboard()
	require.True(t, c.Copy(s))

	out := c.Materialize(valueobjects.NewPoint(25, 25), "", true)
	require.Len(t, out, 1)
	assert.Equal(t, group.ID, out[0].ParentID)
}

func TestPasteTargetParent(t *testing.T) {
	s := clipboardScene(t)
	group := entities.NewGroup("u", 0, 0)
	inGroupA := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	inGroupB := entities.NewRectangle("u", 20, 0, 10, 10, "#fff")
	rootRect := entities.NewRectangle("u", 50, 0, 10, 10, "#fff")
	inGroupA.ParentID = group.ID
	inGroupB.ParentID = group.ID
	require.True(t, s.AddObject(group))
	require.True(t, s.AddObject(inGroupA))
	require.True(t, s.AddObject(inGroupB))
	require.True(t, s.AddObject(rootRect))

	t.Run("no selection pastes at root", func(t *testing.T) {
		s.ClearSelection()
		assert.Equal(t, "", PasteTargetParent(s))
	})

	t.Run("selected group receives the paste", func(t *testing.T) {
		s.SelectObjects([]string{group.ID})
		assert.Equal(t, group.ID, PasteTargetParent(s))
	})

	t.Run("selected non-group pastes as its sibling", func(t *testing.T) {
		s.SelectObjects([]string{inGroupA.ID})
		assert.Equal(t, group.ID, PasteTargetParent(s))
	})

	t.Run("multi-selection with shared parent", func(t *testing.T) {
		s.SelectObjects([]string{inGroupA.ID, inGroupB.ID})
		assert.Equal(t, group.ID, PasteTargetParent(s))
	})

	t.Run("multi-selection with mixed parents pastes at root", func(t *testing.T) {
		s.SelectObjects([]string{inGroupA.ID, rootRect.ID})
		assert.Equal(t, "", PasteTargetParent(s))
	})
}
