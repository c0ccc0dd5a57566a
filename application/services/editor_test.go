package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/config"
	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/entities"
	"canvas-backend/pkg/observability"
)

type editorFixture struct {
	editor    *CanvasEditor
	remote    *fakeRemoteStore
	assets    *fakeAssetStore
	publisher *fakePublisher
}

func newEditorFixture(t *testing.T) *editorFixture {
	t.Helper()
	remote := newFakeRemoteStore()
	assets := &fakeAssetStore{}
	publisher := &fakePublisher{}

	cfg := config.DefaultDomainConfig()
	cfg.ThrottleInterval = 5 * time.Millisecond
	cfg.DebounceSettle = 10 * time.Millisecond

	editor := NewCanvasEditor("project-1", remote, assets, publisher, cfg,
		observability.NewCollector("canvas"), zap.NewNop())
	require.NoError(t, editor.Start(context.Background()))
	t.Cleanup(editor.Close)

	return &editorFixture{editor: editor, remote: remote, assets: assets, publisher: publisher}
}

func TestCanvasEditor_AddObject(t *testing.T) {
	f := newEditorFixture(t)
	rect := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")

	require.True(t, f.editor.AddObject(rect))

	// Local state is visible immediately, remote commit is fire-and-forget
	got, ok := f.editor.Object(rect.ID)
	require.True(t, ok)
	assert.Equal(t, rect.ID, got.ID)

	assert.Eventually(t, func() bool {
		return len(f.remote.putIDs()) == 1
	}, time.Second, 5*time.Millisecond)

	assert.False(t, f.editor.AddObject(rect))
}

func TestCanvasEditor_UpdateObject_NeverRollsBack(t *testing.T) {
	f := newEditorFixture(t)
	f.remote.failAll = true
	f.remote.err = context.DeadlineExceeded

	rect := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	require.True(t, f.editor.AddObject(rect))

	require.True(t, f.editor.UpdateObject(rect.ID, entities.Patch{X: entities.Float(42)}, ClassContinuous))

	// The failed remote commit leaves local state untouched
	got, _ := f.editor.Object(rect.ID)
	assert.Equal(t, 42.0, got.X)
}

func TestCanvasEditor_BatchUpdate(t *testing.T) {
	f := newEditorFixture(t)
	a := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	b := entities.NewRectangle("u", 20, 0, 10, 10, "#fff")
	require.True(t, f.editor.AddObject(a))
	require.True(t, f.editor.AddObject(b))

	applied := f.editor.BatchUpdate([]aggregates.ObjectPatch{
		{ID: a.ID, Patch: entities.Patch{X: entities.Float(1)}},
		{ID: b.ID, Patch: entities.Patch{X: entities.Float(2)}},
		{ID: "missing", Patch: entities.Patch{X: entities.Float(3)}},
	})

	assert.ElementsMatch(t, []string{a.ID, b.ID}, applied)
	assert.Eventually(t, func() bool {
		f.remote.mu.Lock()
		defer f.remote.mu.Unlock()
		return len(f.remote.batches) == 1 && len(f.remote.batches[0]) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestCanvasEditor_RemoveObject_CleansUpAssets(t *testing.T) {
	f := newEditorFixture(t)
	img := entities.NewImage("u", 0, 0, 100, 100, "https://cdn/img.png", "assets/img-1")
	require.True(t, f.editor.AddObject(img))

	require.True(t, f.editor.RemoveObject(img.ID))

	_, ok := f.editor.Object(img.ID)
	assert.False(t, ok)
	assert.Eventually(t, func() bool {
		return len(f.remote.deletedIDs()) == 1 && len(f.assets.deletedKeys()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"assets/img-1"}, f.assets.deletedKeys())

	assert.False(t, f.editor.RemoveObject(img.ID))
}

func TestCanvasEditor_RemoveObject_DeletesPrunedGroupsRemotely(t *testing.T) {
	f := newEditorFixture(t)
	group := entities.NewGroup("u", 0, 0)
	leaf := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	leaf.ParentID = group.ID
	require.True(t, f.editor.AddObject(group))
	require.True(t, f.editor.AddObject(leaf))

	require.True(t, f.editor.RemoveObject(leaf.ID))

	// The emptied group is deleted locally and remotely
	_, ok := f.editor.Object(group.ID)
	assert.False(t, ok)
	assert.Eventually(t, func() bool {
		return len(f.remote.deletedIDs()) == 2
	}, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []string{leaf.ID, group.ID}, f.remote.deletedIDs())
}

func TestCanvasEditor_GroupAndUngroup(t *testing.T) {
	f := newEditorFixture(t)
	a := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	b := entities.NewRectangle("u", 30, 0, 10, 10, "#fff")
	require.True(t, f.editor.AddObject(a))
	require.True(t, f.editor.AddObject(b))

	f.editor.SelectObjects([]string{a.ID, b.ID})
	group := f.editor.GroupObjects("u")
	require.NotNil(t, group)

	assert.Equal(t, []string{group.ID}, f.editor.SelectedIDs())
	children := f.editor.Children(group.ID)
	assert.Len(t, children, 2)

	// Group write plus member reparent patches go out
	assert.Eventually(t, func() bool {
		f.remote.mu.Lock()
		defer f.remote.mu.Unlock()
		return len(f.remote.puts) == 3 && len(f.remote.batches) == 1
	}, time.Second, 5*time.Millisecond)

	selection := f.editor.UngroupObjects()
	assert.ElementsMatch(t, []string{a.ID, b.ID}, selection)
	_, ok := f.editor.Object(group.ID)
	assert.False(t, ok)

	assert.Eventually(t, func() bool {
		return len(f.remote.deletedIDs()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestCanvasEditor_GroupObjects_RequiresTwo(t *testing.T) {
	f := newEditorFixture(t)
	a := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	require.True(t, f.editor.AddObject(a))

	f.editor.SelectObjects([]string{a.ID})
	assert.Nil(t, f.editor.GroupObjects("u"))
}

func TestCanvasEditor_SetParent(t *testing.T) {
	f := newEditorFixture(t)
	group := entities.NewGroup("u", 0, 0)
	rect := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	require.True(t, f.editor.AddObject(group))
	require.True(t, f.editor.AddObject(rect))

	assert.True(t, f.editor.SetParent(rect.ID, group.ID))
	got, _ := f.editor.Object(rect.ID)
	assert.Equal(t, group.ID, got.ParentID)

	t.Run("cycle is rejected", func(t *testing.T) {
		assert.False(t, f.editor.SetParent(group.ID, group.ID))
	})
}

func TestCanvasEditor_ToggleLock_CommitsCascade(t *testing.T) {
	f := newEditorFixture(t)
	group := entities.NewGroup("u", 0, 0)
	child := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	child.ParentID = group.ID
	require.True(t, f.editor.AddObject(group))
	require.True(t, f.editor.AddObject(child))

	require.True(t, f.editor.ToggleLock(group.ID))

	got, _ := f.editor.Object(child.ID)
	assert.True(t, got.Locked)
	assert.Eventually(t, func() bool {
		f.remote.mu.Lock()
		defer f.remote.mu.Unlock()
		return len(f.remote.batches) == 1 && len(f.remote.batches[0]) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestCanvasEditor_Reorder(t *testing.T) {
	f := newEditorFixture(t)
	a := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	b := entities.NewRectangle("u", 10, 0, 10, 10, "#fff")
	require.True(t, f.editor.AddObject(a))
	require.True(t, f.editor.AddObject(b))

	require.True(t, f.editor.BringToFront(a.ID))

	assert.Eventually(t, func() bool {
		f.remote.mu.Lock()
		defer f.remote.mu.Unlock()
		return len(f.remote.reorders) == 1
	}, time.Second, 5*time.Millisecond)
	f.remote.mu.Lock()
	order := f.remote.reorders[0]
	f.remote.mu.Unlock()
	assert.Equal(t, []string{b.ID, a.ID}, order)

	t.Run("no-op at the extreme commits nothing", func(t *testing.T) {
		assert.False(t, f.editor.BringToFront(a.ID))
	})
}

func TestCanvasEditor_CopyPaste(t *testing.T) {
	f := newEditorFixture(t)
	rect := entities.NewRectangle("u", 10, 10, 20, 20, "#fff")
	require.True(t, f.editor.AddObject(rect))

	t.Run("paste with empty clipboard is a no-op", func(t *testing.T) {
		assert.Nil(t, f.editor.PasteObjects())
	})

	f.editor.SelectObjects([]string{rect.ID})
	require.True(t, f.editor.CopyObjects())

	f.editor.SetPointer(200, 150)
	pasted := f.editor.PasteObjects()
	require.Len(t, pasted, 1)

	// Fresh id anchored at the pointer, selected, committed remotely
	assert.NotEqual(t, rect.ID, pasted[0])
	got, ok := f.editor.Object(pasted[0])
	require.True(t, ok)
	assert.Equal(t, 200.0, got.X)
	assert.Equal(t, 150.0, got.Y)
	assert.Equal(t, pasted, f.editor.SelectedIDs())

	assert.Eventually(t, func() bool {
		return len(f.remote.putIDs()) == 2
	}, time.Second, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		for _, typ := range f.publisher.eventTypes() {
			if typ == "objects.pasted" {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
}

func TestCanvasEditor_Paste_FallsBackToViewportCenter(t *testing.T) {
	f := newEditorFixture(t)
	rect := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	require.True(t, f.editor.AddObject(rect))

	f.editor.SelectObjects([]string{rect.ID})
	require.True(t, f.editor.CopyObjects())
	f.editor.SetViewportCenter(500, 400)
	f.editor.ClearPointer()

	f.editor.ClearSelection()
	pasted := f.editor.PasteObjects()
	require.Len(t, pasted, 1)

	got, _ := f.editor.Object(pasted[0])
	assert.Equal(t, 500.0, got.X)
	assert.Equal(t, 400.0, got.Y)
}

func TestCanvasEditor_Duplicate(t *testing.T) {
	f := newEditorFixture(t)
	group := entities.NewGroup("u", 0, 0)
	child := entities.NewRectangle("u", 10, 10, 20, 20, "#fff")
	child.ParentID = group.ID
	require.True(t, f.editor.AddObject(group))
	require.True(t, f.editor.AddObject(child))

	// Duplicating only the child keeps it inside its group
	f.editor.SelectObjects([]string{child.ID})
	dup := f.editor.DuplicateObjects()
	require.Len(t, dup, 1)

	got, ok := f.editor.Object(dup[0])
	require.True(t, ok)
	assert.Equal(t, group.ID, got.ParentID)
	assert.Equal(t, 30.0, got.X)
	assert.Equal(t, 30.0, got.Y)

	t.Run("duplicate leaves the clipboard alone", func(t *testing.T) {
		assert.Nil(t, f.editor.PasteObjects())
	})

	t.Run("empty selection is a no-op", func(t *testing.T) {
		f.editor.ClearSelection()
		assert.Nil(t, f.editor.DuplicateObjects())
	})
}

func TestCanvasEditor_SnapshotReconciliation(t *testing.T) {
	f := newEditorFixture(t)
	local := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	require.True(t, f.editor.AddObject(local))
	f.editor.SelectObjects([]string{local.ID})

	// An authoritative snapshot without the local object wins outright
	remote := entities.NewCircle("peer", 50, 50, 10, "#000")
	f.remote.emitSnapshot(ports.Snapshot{
		ProjectID: "project-1",
		Objects:   []*entities.CanvasObject{remote},
	})

	_, ok := f.editor.Object(local.ID)
	assert.False(t, ok)
	_, ok = f.editor.Object(remote.ID)
	assert.True(t, ok)
	assert.Empty(t, f.editor.SelectedIDs())
}

func TestCanvasEditor_PublishesDomainEvents(t *testing.T) {
	f := newEditorFixture(t)
	rect := entities.NewRectangle("u", 0, 0, 10, 10, "#fff")
	require.True(t, f.editor.AddObject(rect))

	assert.Eventually(t, func() bool {
		for _, typ := range f.publisher.eventTypes() {
			if typ == "object.added" {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
}
