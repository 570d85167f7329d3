package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// socketWatcher watches the socket's containing directory and rebinds the
// listener when the socket file disappears out from under it (a stale
// client removing it, a crashed sibling process cleaning up, a directory
// getting recreated) per spec.md's Reconnection behavior for long-running
// workers. The debounce-then-act shape — a ticker sweeping a
// last-seen-event map rather than acting on every raw fsnotify event — is
// grounded on internal/core.MangleWatcher's run/processDebouncedEvents loop,
// adapted from watching .mg file content changes to watching one socket
// path's existence.
type socketWatcher struct {
	socketPath string
	watcher    *fsnotify.Watcher
	log        *zap.Logger

	debounceDur time.Duration
	lastEvent   time.Time

	retries    int
	maxRetries int
	stopCh     chan struct{}
	doneCh     chan struct{}
}

func newSocketWatcher(socketPath string, log *zap.Logger) (*socketWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &socketWatcher{
		socketPath:  socketPath,
		watcher:     w,
		log:         log,
		debounceDur: 500 * time.Millisecond,
		maxRetries:  10,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching the socket's parent directory and invokes rebind
// whenever the socket file is removed or renamed (i.e. something removed it
// without this process's knowledge). Directory may not exist yet on first
// start; that's tolerated the same way MangleWatcher.Start tolerates a
// not-yet-created mangle dir, but only with a logged warning: the watch is
// added once here and not retried, so no rebind fires for that directory.
func (w *socketWatcher) Start(ctx context.Context, rebind func(context.Context) error) {
	dir := filepath.Dir(w.socketPath)
	if err := w.watcher.Add(dir); err != nil {
		w.log.Warn("socket directory not watchable yet", zap.String("dir", dir), zap.Error(err))
	}
	go w.run(ctx, rebind)
}

func (w *socketWatcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
	w.watcher.Close()
}

func (w *socketWatcher) run(ctx context.Context, rebind func(context.Context) error) {
	defer close(w.doneCh)
	ticker := time.NewTicker(w.debounceDur)
	defer ticker.Stop()

	pending := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.socketPath) {
				continue
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				pending = true
				w.lastEvent = time.Now()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("socket watcher error", zap.Error(err))
		case <-ticker.C:
			if !pending || time.Since(w.lastEvent) < w.debounceDur {
				continue
			}
			pending = false
			w.reconnect(ctx, rebind)
		}
	}
}

// reconnect retries rebind with bounded attempts and exponential backoff,
// surfacing each attempt's outcome through the worker's logger as the
// visible status channel spec.md's Reconnection section calls for.
func (w *socketWatcher) reconnect(ctx context.Context, rebind func(context.Context) error) {
	backoff := 100 * time.Millisecond
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return
		}
		if _, err := os.Stat(w.socketPath); err == nil {
			w.log.Info("socket reappeared on its own", zap.String("socket", w.socketPath))
			return
		}
		if err := rebind(ctx); err != nil {
			w.log.Warn("rebind attempt failed", zap.Int("attempt", attempt), zap.Error(err))
			w.retries++
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff < 5*time.Second {
				backoff *= 2
			}
			continue
		}
		w.log.Info("socket rebound", zap.Int("attempt", attempt))
		w.retries = 0
		return
	}
	w.log.Error("socket rebind exhausted retries", zap.Int("max_retries", w.maxRetries))
}
