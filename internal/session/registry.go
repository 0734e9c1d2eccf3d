package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/couchcryptid/neo-scale-service/internal/observability"
	"github.com/couchcryptid/neo-scale-service/internal/page"
)

// Registry holds the live entries of one page keyed by record ID. It is safe
// for concurrent use by render loops and request handlers.
type Registry struct {
	page     *page.Page
	animator *Animator
	metrics  *observability.Metrics
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	entries map[string]*Entry
	order   []string
}

// NewRegistry creates an empty registry for p. Entries registered later are
// animated by animator; pass nil to leave them static.
func NewRegistry(p *page.Page, animator *Animator, metrics *observability.Metrics, logger *slog.Logger) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		page:     p,
		animator: animator,
		metrics:  metrics,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		entries:  make(map[string]*Entry),
	}
}

// Page returns the page this registry animates.
func (r *Registry) Page() *page.Page {
	return r.page
}

// Register adds e under id, renders its first frame, and starts its render
// loop. An entry already registered under id is disposed first.
func (r *Registry) Register(id string, e *Entry) {
	r.Dispose(id)

	if e.drawable() {
		e.advance(false)
	}

	ctx, cancel := context.WithCancel(r.ctx)
	e.cancel = cancel
	e.done = make(chan struct{})

	r.mu.Lock()
	r.entries[id] = e
	r.order = append(r.order, id)
	r.mu.Unlock()

	r.metrics.ActiveScenes.Inc()

	go func() {
		defer close(e.done)
		if r.animator == nil || !e.drawable() {
			<-ctx.Done()
			return
		}
		r.animator.Run(ctx, e)
	}()
}

// Get returns the entry for id.
func (r *Registry) Get(id string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

// IDs returns the registered IDs in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Resize recomputes slot sizes for vp and updates the renderer size, pixel
// ratio, and camera projection of every entry that still has a slot. It
// returns the number of entries updated. Scenes, cameras, and renderers keep
// their identity.
func (r *Registry) Resize(vp page.Viewport) int {
	r.page.Resize(vp)
	r.metrics.ResizeEvents.Inc()

	r.mu.RLock()
	defer r.mu.RUnlock()

	updated := 0
	for _, id := range r.order {
		e := r.entries[id]
		slot, ok := r.page.Slot(id)
		if !ok || !e.drawable() {
			continue
		}
		e.resize(slot.Width, slot.Height, vp.PixelRatio)
		updated++
	}
	r.logger.Debug("viewport resized", "width", vp.Width, "height", vp.Height,
		"pixel_ratio", vp.PixelRatio, "scenes", updated)
	return updated
}

// Dispose stops the render loop for id, waits for it to exit, and removes the
// entry. It reports whether an entry was registered.
func (r *Registry) Dispose(id string) bool {
	r.mu.Lock()
	e, ok := r.entries[id]
	if ok {
		delete(r.entries, id)
		r.order = removeID(r.order, id)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	stop(e)
	r.metrics.ActiveScenes.Dec()
	return true
}

// Close disposes every entry. The registry must not be used afterwards.
func (r *Registry) Close() {
	r.cancel()

	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*Entry)
	r.order = nil
	r.mu.Unlock()

	for _, e := range entries {
		stop(e)
	}
	r.metrics.ActiveScenes.Sub(float64(len(entries)))
}

func stop(e *Entry) {
	e.cancel()
	<-e.done
	e.closeSubscribers()
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
