package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the YAML file when it changes on disk and hands the new
// configuration to subscribers. It only watches in development; elsewhere it
// holds the initial configuration and never fires.
type Watcher struct {
	logger *zap.Logger

	mu        sync.RWMutex
	current   *Config
	callbacks []func(*Config)

	fs     *fsnotify.Watcher
	stopCh chan struct{}
	done   chan struct{}
}

func NewWatcher(initial *Config, logger *zap.Logger) (*Watcher, error) {
	w := &Watcher{logger: logger, current: initial}

	if !initial.IsDevelopment() || initial.Path() == "" {
		logger.Debug("config hot reload disabled", zap.String("environment", string(initial.Environment)))
		return w, nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	// Editors replace files on save, so watch the directory rather than the file.
	if err := fsw.Add(filepath.Dir(initial.Path())); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", initial.Path(), err)
	}
	w.fs = fsw
	w.stopCh = make(chan struct{})
	w.done = make(chan struct{})
	go w.loop()

	logger.Info("config hot reload enabled", zap.String("path", initial.Path()))
	return w, nil
}

// Current returns the latest configuration.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers fn to run after every successful reload.
func (w *Watcher) OnChange(fn func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Stop ends watching. It is safe to call on a watcher that never started.
func (w *Watcher) Stop() {
	if w.fs == nil {
		return
	}
	select {
	case <-w.stopCh:
		return
	default:
		close(w.stopCh)
	}
	<-w.done
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer w.fs.Close()

	target := filepath.Clean(w.current.Path())
	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			w.reload(target)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload(path string) {
	cfg, err := Load(path)
	if err != nil {
		w.logger.Error("config reload failed, keeping previous", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = cfg
	callbacks := append(([]func(*Config))(nil), w.callbacks...)
	w.mu.Unlock()

	w.logger.Info("config reloaded", zap.String("path", path))
	for _, fn := range callbacks {
		fn(cfg)
	}
}
