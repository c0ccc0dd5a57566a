package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"canvas-backend/pkg/observability"
)

func newTestManager(t *testing.T) (*EditorManager, *fakeRemoteStore) {
	t.Helper()
	remote := newFakeRemoteStore()
	m := NewEditorManager(remote, &fakeAssetStore{}, &fakePublisher{}, nil,
		observability.NewCollector("canvas"), zap.NewNop())
	t.Cleanup(m.Close)
	return m, remote
}

func TestEditorManager_Editor(t *testing.T) {
	m, remote := newTestManager(t)
	ctx := context.Background()

	ed, err := m.Editor(ctx, "project-1")
	require.NoError(t, err)
	require.NotNil(t, ed)
	assert.True(t, remote.subscribed)

	t.Run("same project returns the same editor", func(t *testing.T) {
		again, err := m.Editor(ctx, "project-1")
		require.NoError(t, err)
		assert.Same(t, ed, again)
	})

	t.Run("different projects get distinct editors", func(t *testing.T) {
		other, err := m.Editor(ctx, "project-2")
		require.NoError(t, err)
		assert.NotSame(t, ed, other)
	})
}

func TestEditorManager_Peek(t *testing.T) {
	m, _ := newTestManager(t)

	_, ok := m.Peek("project-1")
	assert.False(t, ok)

	ed, err := m.Editor(context.Background(), "project-1")
	require.NoError(t, err)

	peeked, ok := m.Peek("project-1")
	assert.True(t, ok)
	assert.Same(t, ed, peeked)
}

func TestEditorManager_CloseProject(t *testing.T) {
	m, remote := newTestManager(t)
	_, err := m.Editor(context.Background(), "project-1")
	require.NoError(t, err)

	m.CloseProject("project-1")

	_, ok := m.Peek("project-1")
	assert.False(t, ok)
	assert.False(t, remote.subscribed)

	// Closing a project that is not open is harmless
	m.CloseProject("project-1")
}

func TestEditorManager_Close(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.Editor(context.Background(), "project-1")
	require.NoError(t, err)

	m.Close()

	_, err = m.Editor(context.Background(), "project-2")
	assert.ErrorIs(t, err, ErrManagerClosed)
}
