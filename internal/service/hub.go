package service

import (
	"sync"

	"apiprobe/internal/logger"
)

// Observer is one realtime subscriber.
// Deliver must not block; it reports whether the line was accepted.
type Observer interface {
	Deliver(line []byte) bool
	Close()
}

// Hub fans new record lines out to the currently registered observers.
// There is no replay, retry or backlog: an observer that is not ready misses the line.
type Hub struct {
	mu        sync.RWMutex
	observers map[Observer]struct{}
	closed    bool
	log       *logger.Logger
}

// Ensure Hub satisfies both sides it is wired to.
var (
	_ Notifier = (*Hub)(nil)
	_ Fanout   = (*Hub)(nil)
)

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{observers: make(map[Observer]struct{}), log: log}
}

// Register adds o. Registering on a closed hub closes o right away.
func (h *Hub) Register(o Observer) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		o.Close()
		return
	}
	h.observers[o] = struct{}{}
	n := len(h.observers)
	h.mu.Unlock()

	h.log.Debugw("observer_registered", "observers", n)
}

// Unregister removes o; unknown observers are ignored.
func (h *Hub) Unregister(o Observer) {
	h.mu.Lock()
	_, ok := h.observers[o]
	delete(h.observers, o)
	n := len(h.observers)
	h.mu.Unlock()

	if ok {
		h.log.Debugw("observer_unregistered", "observers", n)
	}
}

// Count returns the number of registered observers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.observers)
}

// Notify offers line to every registered observer without holding the lock during delivery.
func (h *Hub) Notify(line []byte) {
	targets := h.snapshot()
	missed := 0
	for _, o := range targets {
		if !o.Deliver(line) {
			missed++
		}
	}
	if missed > 0 {
		h.log.Debugw("fanout_missed", "observers", len(targets), "missed", missed)
	}
}

// Close closes every observer; later Notify calls are no-ops.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	targets := make([]Observer, 0, len(h.observers))
	for o := range h.observers {
		targets = append(targets, o)
	}
	h.observers = make(map[Observer]struct{})
	h.mu.Unlock()

	for _, o := range targets {
		o.Close()
	}
}

func (h *Hub) snapshot() []Observer {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Observer, 0, len(h.observers))
	for o := range h.observers {
		out = append(out, o)
	}
	return out
}
