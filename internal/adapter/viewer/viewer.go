// Package viewer shows the live scenes in a desktop window. Window resizes
// drive the same resize handling as the web page.
package viewer

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/couchcryptid/neo-scale-service/internal/page"
	"github.com/couchcryptid/neo-scale-service/internal/pipeline"
)

// Backend is the live page state the window draws.
type Backend interface {
	Current() *pipeline.Session
	Resize(vp page.Viewport) int
}

// Host implements ebiten.Game over a Backend.
type Host struct {
	ctx     context.Context
	backend Backend
	logger  *slog.Logger

	viewport page.Viewport
	images   map[string]*ebiten.Image
	session  *pipeline.Session
}

// New creates a Host. The window closes when ctx is cancelled.
func New(ctx context.Context, backend Backend, logger *slog.Logger) *Host {
	return &Host{
		ctx:     ctx,
		backend: backend,
		logger:  logger,
		images:  make(map[string]*ebiten.Image),
	}
}

// Run opens the window and blocks until it is closed.
func (h *Host) Run(width, height int) error {
	ebiten.SetWindowTitle("Near-Earth Objects")
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(30)
	return ebiten.RunGame(h)
}

func (h *Host) Update() error {
	if h.ctx.Err() != nil {
		return ebiten.Termination
	}
	cur := h.backend.Current()
	if cur != h.session {
		for id, img := range h.images {
			img.Deallocate()
			delete(h.images, id)
		}
		h.session = cur
	}
	return nil
}

func (h *Host) Draw(screen *ebiten.Image) {
	cur := h.session
	if cur == nil {
		ebitenutil.DebugPrint(screen, "loading NEO data...")
		return
	}

	ratio := h.viewport.PixelRatio
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Fetch date: %s  %s", cur.Page.FetchDate(), cur.Page.CountLabel()), 4, 4)

	for _, pl := range cur.Page.Placements() {
		e, ok := cur.Registry.Get(pl.NeoID)
		if !ok {
			continue
		}
		ebitenutil.DebugPrintAt(screen, e.Record.Name, int(float64(pl.PanelX)*ratio)+4, int(float64(pl.PanelY)*ratio)+20)

		frame := e.Frame()
		if frame == nil {
			continue
		}
		img := h.imageFor(pl.NeoID, frame.Bounds())
		img.WritePixels(frame.Pix)

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(pl.X)*ratio, float64(pl.Y)*ratio)
		screen.DrawImage(img, op)
	}
}

// imageFor returns a GPU image sized to b, reallocating after a resize.
func (h *Host) imageFor(id string, b image.Rectangle) *ebiten.Image {
	img, ok := h.images[id]
	if ok && img.Bounds().Dx() == b.Dx() && img.Bounds().Dy() == b.Dy() {
		return img
	}
	if ok {
		img.Deallocate()
	}
	img = ebiten.NewImage(b.Dx(), b.Dy())
	h.images[id] = img
	return img
}

// Layout reports the window size in device pixels and forwards size changes
// to the backend.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	ratio := ebiten.Monitor().DeviceScaleFactor()
	vp := page.Viewport{Width: outsideWidth, Height: outsideHeight, PixelRatio: ratio}
	if vp != h.viewport {
		h.viewport = vp
		n := h.backend.Resize(vp)
		h.logger.Debug("window resized", "width", outsideWidth, "height", outsideHeight,
			"pixel_ratio", ratio, "scenes", n)
	}
	return int(math.Ceil(float64(outsideWidth) * ratio)), int(math.Ceil(float64(outsideHeight) * ratio))
}
