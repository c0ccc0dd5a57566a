package aggregates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvas-backend/domain/config"
	"canvas-backend/domain/core/entities"
)

func newTestScene() *Scene {
	return NewScene("project-1", nil)
}

func TestScene_AddObject(t *testing.T) {
	s := newTestScene()

	rect := entities.NewRectangle("user-1", 10, 20, 100, 50, "#ff0000")
	assert.True(t, s.AddObject(rect))
	assert.Equal(t, 1, s.Len())

	t.Run("duplicate id is rejected", func(t *testing.T) {
		dup := rect.Clone()
		assert.False(t, s.AddObject(dup))
		assert.Equal(t, 1, s.Len())
	})

	t.Run("nil and empty id are rejected", func(t *testing.T) {
		assert.False(t, s.AddObject(nil))
		assert.False(t, s.AddObject(&entities.CanvasObject{}))
	})

	t.Run("new objects land on top", func(t *testing.T) {
		circle := entities.NewCircle("user-1", 0, 0, 5, "#00ff00")
		require.True(t, s.AddObject(circle))
		objs := s.Objects()
		assert.Equal(t, circle.ID, objs[len(objs)-1].ID)
	})
}

func TestScene_AddObject_CapacityLimit(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.MaxObjectsPerScene = 2
	s := NewScene("project-1", cfg)

	require.True(t, s.AddObject(entities.NewRectangle("u", 0, 0, 10, 10, "#fff")))
	require.True(t, s.AddObject(entities.NewRectangle("u", 10, 0, 10, 10, "#fff")))
	assert.False(t, s.AddObject(entities.NewRectangle("u", 20, 0, 10, 10, "#fff")))
	assert.Equal(t, 2, s.Len())
}

func TestScene_AddObject_TextDefaults(t *testing.T) {
	s := newTestScene()

	txt := entities.NewText("u", 0, 0, "hello", 0, "")
	require.True(t, s.AddObject(txt))
	assert.Equal(t, 16.0, txt.FontSize)
	assert.Equal(t, "Inter", txt.FontFamily)

	t.Run("explicit values are kept", func(t *testing.T) {
		styled := entities.NewText("u", 0, 0, "hi", 24, "Menlo")
		require.True(t, s.AddObject(styled))
		assert.Equal(t, 24.0, styled.FontSize)
		assert.Equal(t, "Menlo", styled.FontFamily)
	})
}

func TestScene_UpdateObject(t *testing.T) {
	s := newTestScene()
	rect := entities.NewRectangle("user-1", 10, 20, 100, 50, "#ff0000")
	require.True(t, s.AddObject(rect))

	ok := s.UpdateObject(rect.ID, entities.Patch{X: entities.Float(42)})
	assert.True(t, ok)

	got, found := s.Object(rect.ID)
	require.True(t, found)
	assert.Equal(t, 42.0, got.X)
	assert.Equal(t, 20.0, got.Y)

	assert.False(t, s.UpdateObject("missing", entities.Patch{X: entities.Float(1)}))
}

func TestScene_BatchUpdate(t *testing.T) {
	s := newTestScene()
	a := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	b := entities.NewRectangle("u", 5, 5, 10, 10, "#fff")
	require.True(t, s.AddObject(a))
	require.True(t, s.AddObject(b))
	s.MarkEventsAsCommitted()

	applied := s.BatchUpdate([]ObjectPatch{
		{ID: a.ID, Patch: entities.Patch{X: entities.Float(100)}},
		{ID: b.ID, Patch: entities.Patch{X: entities.Float(200)}},
		{ID: "missing", Patch: entities.Patch{X: entities.Float(300)}},
	})

	assert.ElementsMatch(t, []string{a.ID, b.ID}, applied)
	gotA, _ := s.Object(a.ID)
	gotB, _ := s.Object(b.ID)
	assert.Equal(t, 100.0, gotA.X)
	assert.Equal(t, 200.0, gotB.X)

	// One transition, one event
	assert.Len(t, s.GetUncommittedEvents(), 1)
}

func TestScene_RemoveObject_CascadesToDescendants(t *testing.T) {
	s := newTestScene()
	group := entities.NewGroup("u", 0, 0)
	inner := entities.NewGroup("u", 0, 0)
	leaf := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	sibling := entities.NewCircle("u", 50, 50, 5, "#fff")

	inner.ParentID = group.ID
	leaf.ParentID = inner.ID
	require.True(t, s.AddObject(group))
	require.True(t, s.AddObject(inner))
	require.True(t, s.AddObject(leaf))
	require.True(t, s.AddObject(sibling))

	removed := s.RemoveObject(group.ID)

	removedIDs := make([]string, len(removed))
	for i, o := range removed {
		removedIDs[i] = o.ID
	}
	assert.ElementsMatch(t, []string{group.ID, inner.ID, leaf.ID}, removedIDs)
	assert.Equal(t, 1, s.Len())
	_, ok := s.Object(sibling.ID)
	assert.True(t, ok)
}

func TestScene_RemoveObject_PrunesEmptiedAncestors(t *testing.T) {
	s := newTestScene()
	outer := entities.NewGroup("u", 0, 0)
	inner := entities.NewGroup("u", 0, 0)
	leaf := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")

	inner.ParentID = outer.ID
	leaf.ParentID = inner.ID
	require.True(t, s.AddObject(outer))
	require.True(t, s.AddObject(inner))
	require.True(t, s.AddObject(leaf))

	// Deleting the only leaf leaves inner empty, which leaves outer empty
	removed := s.RemoveObject(leaf.ID)

	removedIDs := make([]string, len(removed))
	for i, o := range removed {
		removedIDs[i] = o.ID
	}
	assert.ElementsMatch(t, []string{leaf.ID, inner.ID, outer.ID}, removedIDs)
	assert.Equal(t, 0, s.Len())
}

func TestScene_RemoveObject_KeepsNonEmptyAncestors(t *testing.T) {
	s := newTestScene()
	group := entities.NewGroup("u", 0, 0)
	a := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	b := entities.NewRectangle("u", 20, 0, 10, 10, "#fff")
	a.ParentID = group.ID
	b.ParentID = group.ID
	require.True(t, s.AddObject(group))
	require.True(t, s.AddObject(a))
	require.True(t, s.AddObject(b))

	removed := s.RemoveObject(a.ID)

	assert.Len(t, removed, 1)
	_, ok := s.Object(group.ID)
	assert.True(t, ok)
	_, ok = s.Object(b.ID)
	assert.True(t, ok)
}

func TestScene_RemoveObject_PrunesSelection(t *testing.T) {
	s := newTestScene()
	a := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	b := entities.NewRectangle("u", 20, 0, 10, 10, "#fff")
	require.True(t, s.AddObject(a))
	require.True(t, s.AddObject(b))
	s.SelectObjects([]string{a.ID, b.ID})

	s.RemoveObject(a.ID)

	assert.Equal(t, []string{b.ID}, s.SelectedIDs())
}

func TestScene_RemoveObject_Missing(t *testing.T) {
	s := newTestScene()
	assert.Nil(t, s.RemoveObject("missing"))
}

func TestScene_ReplaceAll(t *testing.T) {
	s := newTestScene()
	a := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	require.True(t, s.AddObject(a))
	s.SelectObjects([]string{a.ID})
	s.MarkEventsAsCommitted()

	t.Run("identical snapshot is skipped", func(t *testing.T) {
		snap := []*entities.CanvasObject{a.Clone()}
		assert.False(t, s.ReplaceAll(snap))
		assert.Empty(t, s.GetUncommittedEvents())
	})

	t.Run("changed snapshot replaces state and prunes selection", func(t *testing.T) {
		b := entities.NewCircle("u", 5, 5, 3, "#000")
		snap := []*entities.CanvasObject{b}
		assert.True(t, s.ReplaceAll(snap))

		assert.Equal(t, 1, s.Len())
		_, ok := s.Object(a.ID)
		assert.False(t, ok)
		assert.Empty(t, s.SelectedIDs())
	})

	t.Run("legacy records are normalized", func(t *testing.T) {
		legacy := &entities.CanvasObject{
			ID:   "legacy-1",
			Type: entities.ObjectType("rect"),
			X:    1, Y: 2, Width: 10, Height: 10,
		}
		assert.True(t, s.ReplaceAll([]*entities.CanvasObject{legacy}))

		got, ok := s.Object("legacy-1")
		require.True(t, ok)
		assert.Equal(t, entities.TypeRectangle, got.Type)
		assert.Equal(t, 1.0, got.ScaleX)
		assert.Equal(t, 1.0, got.Opacity)
		assert.True(t, got.Visible)
	})
}

func TestScene_Selection(t *testing.T) {
	s := newTestScene()
	a := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	b := entities.NewRectangle("u", 20, 0, 10, 10, "#fff")
	require.True(t, s.AddObject(a))
	require.True(t, s.AddObject(b))

	t.Run("select filters unknown and duplicate ids", func(t *testing.T) {
		s.SelectObjects([]string{a.ID, "missing", a.ID, b.ID})
		assert.Equal(t, []string{a.ID, b.ID}, s.SelectedIDs())
	})

	t.Run("toggle removes then re-adds", func(t *testing.T) {
		s.ToggleSelection(a.ID)
		assert.Equal(t, []string{b.ID}, s.SelectedIDs())
		s.ToggleSelection(a.ID)
		assert.Equal(t, []string{b.ID, a.ID}, s.SelectedIDs())
	})

	t.Run("add ignores unknown ids", func(t *testing.T) {
		s.ClearSelection()
		s.AddToSelection("missing")
		assert.Empty(t, s.SelectedIDs())
	})

	t.Run("returned selection is a copy", func(t *testing.T) {
		s.SelectObjects([]string{a.ID})
		sel := s.SelectedIDs()
		sel[0] = "clobbered"
		assert.Equal(t, []string{a.ID}, s.SelectedIDs())
	})
}

func TestScene_Events(t *testing.T) {
	s := newTestScene()
	a := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	require.True(t, s.AddObject(a))

	evts := s.GetUncommittedEvents()
	require.Len(t, evts, 1)
	assert.Equal(t, "object.added", evts[0].GetEventType())
	assert.WithinDuration(t, time.Now(), evts[0].GetTimestamp(), time.Second)

	s.MarkEventsAsCommitted()
	assert.Empty(t, s.GetUncommittedEvents())
}
