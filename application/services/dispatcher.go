package services

import (
	"context"
	"sync"
	"time"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/entities"
	"canvas-backend/pkg/observability"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// CommitClass selects the rate-limiting policy for a property commit
type CommitClass int

const (
	// ClassContinuous throttles: at most one commit per interval with a
	// guaranteed trailing-edge flush. Used for drags, resizes, sliders.
	ClassContinuous CommitClass = iota

	// ClassDiscrete debounces: commit only after input settles. Used for
	// text and numeric entry.
	ClassDiscrete
)

// pendingCommit is the coalesced outbound patch for one object
type pendingCommit struct {
	projectID string
	objectID  string
	patch     entities.Patch
	timer     *time.Timer
}

// Dispatcher schedules remote commits for optimistic local mutations. Local
// state is applied synchronously by the caller before enqueueing; the
// dispatcher only owns the outbound side. Commit failures are logged and
// swallowed: local state is never rolled back, the next authoritative
// snapshot reconciles any divergence.
//
// Patches for the same object are coalesced while waiting, so a burst of
// drag updates flushes as one commit carrying the latest values.
type Dispatcher struct {
	remote  ports.RemoteStore
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
	metrics *observability.Collector

	mu       sync.Mutex
	pending  map[string]*pendingCommit // projectID + "/" + objectID
	lastSent map[string]time.Time
	throttle time.Duration
	debounce time.Duration
	timeout  time.Duration
	closed   bool

	wg sync.WaitGroup
}

// NewDispatcher creates a dispatcher committing through the given remote
// store
func NewDispatcher(remote ports.RemoteStore, throttle, debounce time.Duration, metrics *observability.Collector, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		remote:   remote,
		logger:   logger,
		metrics:  metrics,
		pending:  make(map[string]*pendingCommit),
		lastSent: make(map[string]time.Time),
		throttle: throttle,
		debounce: debounce,
		timeout:  10 * time.Second,
	}
	d.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "remote-commit",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.8
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Commit circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return d
}

// SetIntervals updates the scheduling knobs at runtime
func (d *Dispatcher) SetIntervals(throttle, debounce time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if throttle > 0 {
		d.throttle = throttle
	}
	if debounce > 0 {
		d.debounce = debounce
	}
}

// Enqueue schedules a remote commit of the patch for one object. The caller
// has already applied the patch locally.
func (d *Dispatcher) Enqueue(projectID, objectID string, patch entities.Patch, class CommitClass) {
	key := projectID + "/" + objectID

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.commit(projectID, objectID, patch)
		return
	}

	entry, waiting := d.pending[key]
	if waiting {
		entry.patch = entry.patch.Merge(patch)
	} else {
		entry = &pendingCommit{projectID: projectID, objectID: objectID, patch: patch}
		d.pending[key] = entry
	}

	switch class {
	case ClassContinuous:
		elapsed := time.Since(d.lastSent[key])
		if elapsed >= d.throttle {
			// Leading edge: commit immediately
			d.flushLocked(key)
			d.mu.Unlock()
			return
		}
		if !waiting {
			// Trailing edge: guarantee the final value lands even if the
			// interaction stops mid-window
			d.scheduleLocked(key, d.throttle-elapsed)
		}
	case ClassDiscrete:
		// Each keystroke pushes the commit out until input settles
		if entry.timer != nil {
			entry.timer.Stop()
		}
		d.scheduleLocked(key, d.debounce)
	}
	d.mu.Unlock()
}

// scheduleLocked arms the flush timer for a pending entry. Caller holds mu.
func (d *Dispatcher) scheduleLocked(key string, delay time.Duration) {
	entry := d.pending[key]
	if entry == nil {
		return
	}
	entry.timer = time.AfterFunc(delay, func() {
		d.mu.Lock()
		d.flushLocked(key)
		d.mu.Unlock()
	})
}

// flushLocked pops a pending entry and commits it asynchronously. Caller
// holds mu.
func (d *Dispatcher) flushLocked(key string) {
	entry, ok := d.pending[key]
	if !ok {
		return
	}
	delete(d.pending, key)
	if entry.timer != nil {
		entry.timer.Stop()
	}
	d.lastSent[key] = time.Now()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.commit(entry.projectID, entry.objectID, entry.patch)
	}()
}

// commit sends one patch through the circuit breaker
func (d *Dispatcher) commit(projectID, objectID string, patch entities.Patch) {
	if patch.IsEmpty() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	_, err := d.breaker.Execute(func() (interface{}, error) {
		return nil, d.remote.Patch(ctx, projectID, objectID, patch)
	})
	switch {
	case err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests:
		d.metrics.CommitsSuppressed.Inc()
		d.logger.Debug("Commit suppressed, breaker open",
			zap.String("projectId", projectID),
			zap.String("objectId", objectID),
		)
	case err != nil:
		d.metrics.CommitsFailed.Inc()
		d.logger.Warn("Remote commit failed, awaiting snapshot reconciliation",
			zap.String("projectId", projectID),
			zap.String("objectId", objectID),
			zap.Error(err),
		)
	default:
		d.metrics.CommitsFlushed.Inc()
	}
}

// Flush commits every pending patch immediately and waits for the sends to
// finish
func (d *Dispatcher) Flush() {
	d.mu.Lock()
	keys := make([]string, 0, len(d.pending))
	for key := range d.pending {
		keys = append(keys, key)
	}
	for _, key := range keys {
		d.flushLocked(key)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// Close flushes pending commits and rejects further scheduling. Teardown
// must not lose the last edit.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.Flush()
}
