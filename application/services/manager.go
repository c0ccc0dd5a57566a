package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/config"
	"canvas-backend/pkg/observability"
)

// ErrManagerClosed is returned when editors are requested after shutdown
var ErrManagerClosed = errors.New("editor manager closed")

// EditorManager owns one CanvasEditor per open project. Editors are created
// lazily on first access and start their snapshot subscription immediately.
type EditorManager struct {
	remote    ports.RemoteStore
	assets    ports.AssetStore
	publisher ports.EventPublisher
	cfg       *config.DomainConfig
	metrics   *observability.Collector
	logger    *zap.Logger

	mu      sync.Mutex
	editors map[string]*CanvasEditor
	closed  bool
}

// NewEditorManager creates an empty manager
func NewEditorManager(
	remote ports.RemoteStore,
	assets ports.AssetStore,
	publisher ports.EventPublisher,
	cfg *config.DomainConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *EditorManager {
	return &EditorManager{
		remote:    remote,
		assets:    assets,
		publisher: publisher,
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger,
		editors:   make(map[string]*CanvasEditor),
	}
}

// Editor returns the editor for a project, creating and starting it on first
// use
func (m *EditorManager) Editor(ctx context.Context, projectID string) (*CanvasEditor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrManagerClosed
	}
	if ed, ok := m.editors[projectID]; ok {
		return ed, nil
	}

	ed := NewCanvasEditor(projectID, m.remote, m.assets, m.publisher, m.cfg, m.metrics, m.logger)
	if err := ed.Start(ctx); err != nil {
		return nil, err
	}
	m.editors[projectID] = ed
	m.logger.Info("editor opened", zap.String("project_id", projectID))
	return ed, nil
}

// Peek returns the editor for a project if one is already open
func (m *EditorManager) Peek(projectID string) (*CanvasEditor, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ed, ok := m.editors[projectID]
	return ed, ok
}

// CloseProject flushes and releases a single project's editor
func (m *EditorManager) CloseProject(projectID string) {
	m.mu.Lock()
	ed, ok := m.editors[projectID]
	delete(m.editors, projectID)
	m.mu.Unlock()
	if ok {
		ed.Close()
		m.logger.Info("editor closed", zap.String("project_id", projectID))
	}
}

// SetIntervals propagates throttle and debounce changes to every open editor
func (m *EditorManager) SetIntervals(throttle, debounce time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ed := range m.editors {
		ed.dispatcher.SetIntervals(throttle, debounce)
	}
}

// Close flushes and releases every editor. The manager rejects further use.
func (m *EditorManager) Close() {
	m.mu.Lock()
	m.closed = true
	editors := m.editors
	m.editors = make(map[string]*CanvasEditor)
	m.mu.Unlock()

	for _, ed := range editors {
		ed.Close()
	}
}
