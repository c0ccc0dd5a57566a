package services

import (
	"context"
	"sync"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/events"
)

// fakeRemoteStore records every call and optionally fails them, standing in
// for the DynamoDB-backed store
type fakeRemoteStore struct {
	mu sync.Mutex

	puts       []putCall
	patches    []patchCall
	batches    []map[string]entities.Patch
	deletes    []string
	reorders   [][]string
	subscribed bool

	failAll bool
	err     error

	onSnapshot ports.SnapshotHandler
}

type putCall struct {
	projectID string
	obj       *entities.CanvasObject
	zIndex    int
}

type patchCall struct {
	objectID string
	patch    entities.Patch
}

func newFakeRemoteStore() *fakeRemoteStore {
	return &fakeRemoteStore{}
}

func (f *fakeRemoteStore) failure() error {
	if f.failAll {
		return f.err
	}
	return nil
}

func (f *fakeRemoteStore) Put(_ context.Context, projectID string, obj *entities.CanvasObject, zIndex int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(); err != nil {
		return err
	}
	f.puts = append(f.puts, putCall{projectID: projectID, obj: obj, zIndex: zIndex})
	return nil
}

func (f *fakeRemoteStore) Patch(_ context.Context, _, objectID string, patch entities.Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(); err != nil {
		return err
	}
	f.patches = append(f.patches, patchCall{objectID: objectID, patch: patch})
	return nil
}

func (f *fakeRemoteStore) BatchPatch(_ context.Context, _ string, patches map[string]entities.Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(); err != nil {
		return err
	}
	cp := make(map[string]entities.Patch, len(patches))
	for id, p := range patches {
		cp[id] = p
	}
	f.batches = append(f.batches, cp)
	return nil
}

func (f *fakeRemoteStore) Delete(_ context.Context, _, objectID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(); err != nil {
		return err
	}
	f.deletes = append(f.deletes, objectID)
	return nil
}

func (f *fakeRemoteStore) Reorder(_ context.Context, _ string, orderedIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(); err != nil {
		return err
	}
	cp := make([]string, len(orderedIDs))
	copy(cp, orderedIDs)
	f.reorders = append(f.reorders, cp)
	return nil
}

func (f *fakeRemoteStore) Subscribe(_ context.Context, _ string, onSnapshot ports.SnapshotHandler) (ports.Unsubscribe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribed = true
	f.onSnapshot = onSnapshot
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.subscribed = false
	}, nil
}

func (f *fakeRemoteStore) emitSnapshot(snap ports.Snapshot) {
	f.mu.Lock()
	handler := f.onSnapshot
	f.mu.Unlock()
	if handler != nil {
		handler(snap)
	}
}

func (f *fakeRemoteStore) patchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.patches)
}

func (f *fakeRemoteStore) lastPatch() (patchCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.patches) == 0 {
		return patchCall{}, false
	}
	return f.patches[len(f.patches)-1], true
}

func (f *fakeRemoteStore) deletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.deletes))
	copy(out, f.deletes)
	return out
}

func (f *fakeRemoteStore) putIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.puts))
	for _, p := range f.puts {
		out = append(out, p.obj.ID)
	}
	return out
}

var _ ports.RemoteStore = (*fakeRemoteStore)(nil)

// fakeAssetStore records asset deletions
type fakeAssetStore struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeAssetStore) Delete(_ context.Context, assetKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, assetKey)
	return nil
}

func (f *fakeAssetStore) deletedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.deleted))
	copy(out, f.deleted)
	return out
}

var _ ports.AssetStore = (*fakeAssetStore)(nil)

// fakePublisher collects published domain events
type fakePublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (f *fakePublisher) Publish(_ context.Context, event events.DomainEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) eventTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.GetEventType()
	}
	return out
}

var _ ports.EventPublisher = (*fakePublisher)(nil)
