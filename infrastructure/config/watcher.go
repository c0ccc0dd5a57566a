package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Overrides are the knobs that may change while the server runs
type Overrides struct {
	ThrottleIntervalMs  int `json:"throttle_interval_ms"`
	DebounceSettleMs    int `json:"debounce_settle_ms"`
	PresenceStalenessMs int `json:"presence_staleness_ms"`
}

// Durations returns the overrides as durations, falling back to the given
// defaults for unset fields
func (o Overrides) Durations(base *Config) (throttle, debounce, staleness time.Duration) {
	throttle = base.ThrottleInterval
	debounce = base.DebounceSettle
	staleness = base.PresenceStaleness
	if o.ThrottleIntervalMs > 0 {
		throttle = time.Duration(o.ThrottleIntervalMs) * time.Millisecond
	}
	if o.DebounceSettleMs > 0 {
		debounce = time.Duration(o.DebounceSettleMs) * time.Millisecond
	}
	if o.PresenceStalenessMs > 0 {
		staleness = time.Duration(o.PresenceStalenessMs) * time.Millisecond
	}
	return
}

// Watcher reloads the overrides file when it changes on disk
type Watcher struct {
	path    string
	base    *Config
	onApply func(Overrides)
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	done    chan struct{}
}

// NewWatcher starts watching path. onApply runs once with the current file
// contents (when the file exists) and again after every change.
func NewWatcher(path string, base *Config, onApply func(Overrides), logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:    path,
		base:    base,
		onApply: onApply,
		watcher: fw,
		logger:  logger,
		done:    make(chan struct{}),
	}

	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, err
	}

	w.reload()
	go w.loop()
	return w, nil
}

// Close stops the watcher
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Warn("config overrides unreadable", zap.String("path", w.path), zap.Error(err))
		return
	}

	var o Overrides
	if err := json.Unmarshal(data, &o); err != nil {
		w.logger.Warn("config overrides malformed", zap.String("path", w.path), zap.Error(err))
		return
	}

	w.logger.Info("config overrides applied",
		zap.Int("throttle_ms", o.ThrottleIntervalMs),
		zap.Int("debounce_ms", o.DebounceSettleMs),
		zap.Int("presence_staleness_ms", o.PresenceStalenessMs))
	w.onApply(o)
}
