// Package session tracks the live scenes of one loaded page: their cameras,
// renderers, latest frames, and the goroutines that animate them.
package session

import (
	"context"
	"image"
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/neo-scale-service/internal/domain"
	"github.com/couchcryptid/neo-scale-service/internal/render"
	"github.com/couchcryptid/neo-scale-service/internal/scene"
)

// subscriberBuffer is the number of frames a subscriber may fall behind
// before frames are dropped for it.
const subscriberBuffer = 1

// Entry is one record's scene with the camera and renderer that draw it.
// Scene, Camera, and Renderer keep their identity for the entry's lifetime;
// their mutable state is guarded by the entry lock.
type Entry struct {
	NeoID    string
	Record   domain.NeoRecord
	Scene    *scene.Scene
	Camera   *scene.Camera
	Renderer *render.Renderer

	mu    sync.Mutex
	frame atomic.Pointer[image.RGBA]

	subMu  sync.Mutex
	subs   map[chan *image.RGBA]struct{}
	closed bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewEntry bundles a built scene with its camera and renderer.
func NewEntry(rec domain.NeoRecord, s *scene.Scene, cam *scene.Camera, r *render.Renderer) *Entry {
	return &Entry{
		NeoID:    rec.ID,
		Record:   rec,
		Scene:    s,
		Camera:   cam,
		Renderer: r,
		subs:     make(map[chan *image.RGBA]struct{}),
	}
}

func (e *Entry) drawable() bool {
	return e.Scene != nil && e.Camera != nil && e.Renderer != nil
}

// Frame returns the most recently rendered frame, or nil before the first
// render. Frames are never mutated after publication.
func (e *Entry) Frame() *image.RGBA {
	return e.frame.Load()
}

// Descriptor snapshots the scene and camera.
func (e *Entry) Descriptor() scene.Descriptor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return scene.Describe(e.Scene, e.Camera)
}

// Subscribe registers for new frames. The returned channel is closed when the
// entry is disposed or cancel is called.
func (e *Entry) Subscribe() (frames <-chan *image.RGBA, cancel func()) {
	ch := make(chan *image.RGBA, subscriberBuffer)

	e.subMu.Lock()
	defer e.subMu.Unlock()
	if e.closed {
		close(ch)
		return ch, func() {}
	}
	e.subs[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			e.subMu.Lock()
			defer e.subMu.Unlock()
			if _, ok := e.subs[ch]; ok {
				delete(e.subs, ch)
				close(ch)
			}
		})
	}
}

// advance steps the animation by one frame when step is set, renders, and
// publishes the result.
func (e *Entry) advance(step bool) *image.RGBA {
	e.mu.Lock()
	if step {
		e.Scene.Step()
	}
	img := e.Renderer.Render(e.Scene, e.Camera)
	e.mu.Unlock()

	e.frame.Store(img)
	e.publish(img)
	return img
}

func (e *Entry) publish(img *image.RGBA) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for ch := range e.subs {
		select {
		case ch <- img:
		default:
		}
	}
}

// resize applies a slot size and pixel ratio to the renderer and camera.
func (e *Entry) resize(width, height int, pixelRatio float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Renderer.SetPixelRatio(pixelRatio)
	e.Renderer.SetSize(width, height)
	e.Camera.Aspect = float64(width) / float64(height)
	e.Camera.UpdateProjection()
}

func (e *Entry) closeSubscribers() {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	e.closed = true
	for ch := range e.subs {
		delete(e.subs, ch)
		close(ch)
	}
}
