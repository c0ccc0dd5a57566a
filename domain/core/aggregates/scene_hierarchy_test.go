package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvas-backend/domain/core/entities"
)

func TestScene_SetParent(t *testing.T) {
	s := newTestScene()
	group := entities.NewGroup("u", 0, 0)
	rect := entities.NewRectangle("u", 10, 10, 20, 20, "#fff")
	require.True(t, s.AddObject(group))
	require.True(t, s.AddObject(rect))

	t.Run("move into group", func(t *testing.T) {
		res := s.SetParent(rect.ID, group.ID)
		assert.True(t, res.Applied)
		assert.Equal(t, "", res.OldParentID)

		got, _ := s.Object(rect.ID)
		assert.Equal(t, group.ID, got.ParentID)
	})

	t.Run("move to root", func(t *testing.T) {
		res := s.SetParent(rect.ID, "")
		assert.True(t, res.Applied)

		got, _ := s.Object(rect.ID)
		assert.Equal(t, "", got.ParentID)
	})

	t.Run("non-group target rejected silently", func(t *testing.T) {
		other := entities.NewCircle("u", 0, 0, 5, "#fff")
		require.True(t, s.AddObject(other))

		res := s.SetParent(other.ID, rect.ID)
		assert.False(t, res.Applied)
		got, _ := s.Object(other.ID)
		assert.Equal(t, "", got.ParentID)
	})

	t.Run("missing target rejected silently", func(t *testing.T) {
		res := s.SetParent(rect.ID, "missing")
		assert.False(t, res.Applied)
	})

	t.Run("self parent rejected", func(t *testing.T) {
		res := s.SetParent(group.ID, group.ID)
		assert.False(t, res.Applied)
	})
}

func TestScene_SetParent_CycleGuard(t *testing.T) {
	s := newTestScene()
	outer := entities.NewGroup("u", 0, 0)
	inner := entities.NewGroup("u", 0, 0)
	inner.ParentID = outer.ID
	require.True(t, s.AddObject(outer))
	require.True(t, s.AddObject(inner))

	// Moving outer under its own descendant would orphan the subtree
	res := s.SetParent(outer.ID, inner.ID)
	assert.False(t, res.Applied)

	got, _ := s.Object(outer.ID)
	assert.Equal(t, "", got.ParentID)
}

func TestScene_SetParent_PrunesEmptiedOldParent(t *testing.T) {
	s := newTestScene()
	group := entities.NewGroup("u", 0, 0)
	rect := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	rect.ParentID = group.ID
	require.True(t, s.AddObject(group))
	require.True(t, s.AddObject(rect))

	res := s.SetParent(rect.ID, "")

	assert.True(t, res.Applied)
	require.Len(t, res.Pruned, 1)
	assert.Equal(t, group.ID, res.Pruned[0].ID)
	_, ok := s.Object(group.ID)
	assert.False(t, ok)
}

func TestScene_SetParent_SameParentNoop(t *testing.T) {
	s := newTestScene()
	rect := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	require.True(t, s.AddObject(rect))
	s.MarkEventsAsCommitted()

	res := s.SetParent(rect.ID, "")
	assert.True(t, res.Applied)
	assert.Empty(t, res.Pruned)
	assert.Empty(t, s.GetUncommittedEvents())
}

func TestScene_GroupSelected(t *testing.T) {
	s := newTestScene()
	a := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	b := entities.NewRectangle("u", 30, 0, 10, 10, "#fff")
	require.True(t, s.AddObject(a))
	require.True(t, s.AddObject(b))

	t.Run("single selection is a no-op", func(t *testing.T) {
		s.SelectObjects([]string{a.ID})
		assert.Nil(t, s.GroupSelected("u"))
	})

	t.Run("groups the selection", func(t *testing.T) {
		s.SelectObjects([]string{a.ID, b.ID})
		res := s.GroupSelected("u")
		require.NotNil(t, res)

		assert.ElementsMatch(t, []string{a.ID, b.ID}, res.MemberIDs)
		gotA, _ := s.Object(a.ID)
		gotB, _ := s.Object(b.ID)
		assert.Equal(t, res.Group.ID, gotA.ParentID)
		assert.Equal(t, res.Group.ID, gotB.ParentID)

		// Center of the union bbox (0,0)-(40,10)
		assert.Equal(t, 20.0, res.Group.X)
		assert.Equal(t, 5.0, res.Group.Y)

		// New group is topmost and becomes the selection
		objs := s.Objects()
		assert.Equal(t, res.Group.ID, objs[len(objs)-1].ID)
		assert.Equal(t, []string{res.Group.ID}, s.SelectedIDs())
	})
}

func TestScene_GroupSelected_SharedParentNesting(t *testing.T) {
	s := newTestScene()
	parent := entities.NewGroup("u", 0, 0)
	a := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	b := entities.NewRectangle("u", 20, 0, 10, 10, "#fff")
	a.ParentID = parent.ID
	b.ParentID = parent.ID
	require.True(t, s.AddObject(parent))
	require.True(t, s.AddObject(a))
	require.True(t, s.AddObject(b))

	s.SelectObjects([]string{a.ID, b.ID})
	res := s.GroupSelected("u")
	require.NotNil(t, res)

	// Members shared a parent, so the new group nests inside it
	assert.Equal(t, parent.ID, res.Group.ParentID)
}

func TestScene_GroupSelected_MixedParentsGoRoot(t *testing.T) {
	s := newTestScene()
	parent := entities.NewGroup("u", 0, 0)
	a := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	b := entities.NewRectangle("u", 20, 0, 10, 10, "#fff")
	a.ParentID = parent.ID
	require.True(t, s.AddObject(parent))
	require.True(t, s.AddObject(a))
	require.True(t, s.AddObject(b))

	s.SelectObjects([]string{a.ID, b.ID})
	res := s.GroupSelected("u")
	require.NotNil(t, res)

	assert.Equal(t, "", res.Group.ParentID)
}

func TestScene_UngroupSelected(t *testing.T) {
	s := newTestScene()
	outer := entities.NewGroup("u", 0, 0)
	inner := entities.NewGroup("u", 0, 0)
	leaf := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	other := entities.NewRectangle("u", 50, 0, 10, 10, "#fff")
	inner.ParentID = outer.ID
	leaf.ParentID = inner.ID
	other.ParentID = outer.ID
	require.True(t, s.AddObject(outer))
	require.True(t, s.AddObject(inner))
	require.True(t, s.AddObject(leaf))
	require.True(t, s.AddObject(other))

	// Dissolving the inner group moves leaf under outer, not to root
	s.SelectObjects([]string{inner.ID})
	res := s.UngroupSelected()
	require.NotNil(t, res)

	assert.Equal(t, outer.ID, res.Reparented[leaf.ID])
	got, _ := s.Object(leaf.ID)
	assert.Equal(t, outer.ID, got.ParentID)
	_, ok := s.Object(inner.ID)
	assert.False(t, ok)

	// Former children become the selection
	assert.Equal(t, []string{leaf.ID}, s.SelectedIDs())
}

func TestScene_UngroupSelected_NonGroupsIgnored(t *testing.T) {
	s := newTestScene()
	rect := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	require.True(t, s.AddObject(rect))

	s.SelectObjects([]string{rect.ID})
	assert.Nil(t, s.UngroupSelected())
	_, ok := s.Object(rect.ID)
	assert.True(t, ok)
}

func TestScene_ToggleLock_Cascades(t *testing.T) {
	s := newTestScene()
	group := entities.NewGroup("u", 0, 0)
	child := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	grandchild := entities.NewCircle("u", 0, 0, 5, "#fff")
	inner := entities.NewGroup("u", 0, 0)
	outside := entities.NewRectangle("u", 50, 0, 10, 10, "#fff")
	child.ParentID = group.ID
	inner.ParentID = group.ID
	grandchild.ParentID = inner.ID
	require.True(t, s.AddObject(group))
	require.True(t, s.AddObject(child))
	require.True(t, s.AddObject(inner))
	require.True(t, s.AddObject(grandchild))
	require.True(t, s.AddObject(outside))

	res := s.ToggleLock(group.ID)
	require.NotNil(t, res)
	assert.True(t, res.Locked)
	assert.ElementsMatch(t, []string{group.ID, child.ID, inner.ID, grandchild.ID}, res.IDs)

	for _, id := range res.IDs {
		got, _ := s.Object(id)
		assert.True(t, got.Locked, id)
	}
	got, _ := s.Object(outside.ID)
	assert.False(t, got.Locked)

	// Toggling again unlocks the same set
	res = s.ToggleLock(group.ID)
	require.NotNil(t, res)
	assert.False(t, res.Locked)
	got, _ = s.Object(grandchild.ID)
	assert.False(t, got.Locked)
}

func TestScene_ToggleVisibility(t *testing.T) {
	s := newTestScene()
	rect := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	require.True(t, s.AddObject(rect))

	visible, ok := s.ToggleVisibility(rect.ID)
	assert.True(t, ok)
	assert.False(t, visible)

	visible, ok = s.ToggleVisibility(rect.ID)
	assert.True(t, ok)
	assert.True(t, visible)

	_, ok = s.ToggleVisibility("missing")
	assert.False(t, ok)
}

func TestScene_ToggleCollapse(t *testing.T) {
	s := newTestScene()
	group := entities.NewGroup("u", 0, 0)
	rect := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	require.True(t, s.AddObject(group))
	require.True(t, s.AddObject(rect))

	collapsed, ok := s.ToggleCollapse(group.ID)
	assert.True(t, ok)
	assert.True(t, collapsed)

	// Collapse is meaningless for non-groups
	_, ok = s.ToggleCollapse(rect.ID)
	assert.False(t, ok)
}

func TestScene_DescendantIDs(t *testing.T) {
	s := newTestScene()
	group := entities.NewGroup("u", 0, 0)
	inner := entities.NewGroup("u", 0, 0)
	leaf := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	inner.ParentID = group.ID
	leaf.ParentID = inner.ID
	require.True(t, s.AddObject(group))
	require.True(t, s.AddObject(inner))
	require.True(t, s.AddObject(leaf))

	desc := s.DescendantIDs(group.ID)
	assert.Len(t, desc, 2)
	assert.Contains(t, desc, inner.ID)
	assert.Contains(t, desc, leaf.ID)
	assert.NotContains(t, desc, group.ID)
}
