package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"
)

// EventType describes the nature of a persistence change notification.
type EventType int

const (
	// EventHistoryChanged indicates a history record was written or removed.
	// ID is set when the record could be identified.
	EventHistoryChanged EventType = iota

	// EventTemplateChanged signals the template file changed.
	EventTemplateChanged

	// EventStateChanged signals the form cache or carried plans changed.
	EventStateChanged
)

func (t EventType) String() string {
	switch t {
	case EventHistoryChanged:
		return "history"
	case EventTemplateChanged:
		return "template"
	case EventStateChanged:
		return "state"
	default:
		return "unknown"
	}
}

// Event is emitted by Persistence.Watch when underlying storage changes.
type Event struct {
	Type EventType
	ID   string
}

// Watch streams change events until ctx is cancelled. Callers should drain the
// returned channel; events are dropped rather than blocking the watcher. The
// channel is closed once ctx is done or the watcher fails.
func (p *persistence) Watch(ctx context.Context) (<-chan Event, error) {
	if p.basePath == "" {
		return nil, errors.New("store: persistence base path unknown")
	}

	history := filepath.Join(p.basePath, historyDir)
	if err := os.MkdirAll(history, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure history path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				p.logger.Warn("watcher close", zap.Error(err))
			}
		})
	}

	for _, dir := range []string{p.basePath, history} {
		if err := watcher.Add(dir); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	events := make(chan Event, 64)

	go func() {
		defer close(events)
		defer closeWatcher()

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
			}
		}

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.logger.Debug("watcher error", zap.Error(err))
				throttle.Enqueue(Event{Type: EventHistoryChanged}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev, ok := p.classify(evt.Name); ok {
					throttle.Enqueue(ev, send)
				}
			}
		}
	}()

	return events, nil
}

// classify maps a changed path to an Event.
func (p *persistence) classify(path string) (Event, bool) {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil || rel == "." {
		return Event{}, false
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if len(parts) == 2 && parts[0] == historyDir {
		id := pathToKeyTransform(&diskv.PathKey{Path: []string{}, FileName: parts[1]})
		return Event{Type: EventHistoryChanged, ID: id}, true
	}
	if len(parts) != 1 {
		return Event{}, false
	}
	name := strings.TrimSuffix(parts[0], ".tmp")
	switch name {
	case templateFile:
		return Event{Type: EventTemplateChanged}, true
	case stateFile:
		return Event{Type: EventStateChanged}, true
	case historyDir:
		return Event{Type: EventHistoryChanged}, true
	}
	return Event{}, false
}

// eventThrottle coalesces rapid change notifications so the UI can redraw once
// per burst of filesystem activity instead of on every single write.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[EventType]map[string]struct{}
	delay   time.Duration
	stopped bool
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[EventType]map[string]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	if t.pending[ev.Type] == nil {
		t.pending[ev.Type] = make(map[string]struct{})
	}
	t.pending[ev.Type][ev.ID] = struct{}{}

	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
}

// flush sends under the lock so a concurrent Stop either waits for it or
// makes it a no-op; send must not block.
func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	pending := t.pending
	t.pending = make(map[EventType]map[string]struct{})
	t.timer = nil
	if t.stopped {
		return
	}

	for eventType, ids := range pending {
		for id := range ids {
			send(Event{Type: eventType, ID: id})
		}
	}
}

// Stop cancels any pending flush. Once it returns send is never called again.
func (t *eventThrottle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
