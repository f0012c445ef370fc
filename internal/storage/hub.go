package storage

import (
	"context"
	"sync"

	"github.com/bean-boutique/internal/metrics"
)

// hub 进程内变更分发，按来源维护订阅者
type hub struct {
	driver   string
	mu       sync.Mutex
	watchers map[string]map[*watcher]struct{}
	closed   bool
}

func newHub(driver string) *hub {
	return &hub{driver: driver, watchers: make(map[string]map[*watcher]struct{})}
}

func (h *hub) watch(ctx context.Context, origin string) (<-chan Change, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrClosed
	}
	w := newWatcher(ctx)
	set, ok := h.watchers[origin]
	if !ok {
		set = make(map[*watcher]struct{})
		h.watchers[origin] = set
	}
	set[w] = struct{}{}
	h.mu.Unlock()

	go func() {
		w.run()
		h.remove(origin, w)
	}()
	return w.out, nil
}

func (h *hub) publish(change Change) {
	h.mu.Lock()
	targets := make([]*watcher, 0, len(h.watchers[change.Origin]))
	for w := range h.watchers[change.Origin] {
		targets = append(targets, w)
	}
	h.mu.Unlock()

	metrics.StorageChanges.WithLabelValues(h.driver).Inc()
	for _, w := range targets {
		w.push(change)
	}
}

func (h *hub) remove(origin string, w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.watchers[origin]
	delete(set, w)
	if len(set) == 0 {
		delete(h.watchers, origin)
	}
}

func (h *hub) close() {
	h.mu.Lock()
	h.closed = true
	targets := make([]*watcher, 0)
	for _, set := range h.watchers {
		for w := range set {
			targets = append(targets, w)
		}
	}
	h.mu.Unlock()
	for _, w := range targets {
		w.stop()
	}
}

// watcher 单个订阅者：无界队列 + 转发协程，写入方不会被慢订阅者阻塞
type watcher struct {
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	queue  []Change
	notify chan struct{}
	out    chan Change
}

func newWatcher(parent context.Context) *watcher {
	ctx, cancel := context.WithCancel(parent)
	return &watcher{
		ctx:    ctx,
		cancel: cancel,
		notify: make(chan struct{}, 1),
		out:    make(chan Change),
	}
}

func (w *watcher) push(change Change) {
	w.mu.Lock()
	w.queue = append(w.queue, change)
	w.mu.Unlock()
	select {
	case w.notify <- struct{}{}:
	default:
	}
}

func (w *watcher) stop() {
	w.cancel()
}

func (w *watcher) next() (Change, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.queue) == 0 {
		return Change{}, false
	}
	change := w.queue[0]
	w.queue = w.queue[1:]
	return change, true
}

func (w *watcher) run() {
	defer close(w.out)
	defer w.cancel()
	for {
		change, ok := w.next()
		if !ok {
			select {
			case <-w.ctx.Done():
				return
			case <-w.notify:
				continue
			}
		}
		select {
		case w.out <- change:
		case <-w.ctx.Done():
			return
		}
	}
}
