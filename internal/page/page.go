// Package page holds the server-side model of the NEO page: the header
// fields, one summary panel per record, and the visual slot each scene renders
// into.
package page

import (
	"fmt"
	"sync"
)

// Slot and entry sizing.
const (
	wideSlotHeight   = 300
	narrowSlotHeight = 250
)

// Viewport is the client viewport in CSS pixels.
type Viewport struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	PixelRatio float64 `json:"pixel_ratio"`
}

// SlotSize returns the size of a visual slot for this viewport. Viewports
// narrower than breakpoint stack the visual under the panel at full width.
func (v Viewport) SlotSize(breakpoint int) (width, height int) {
	if v.Width < breakpoint {
		return max(v.Width, 1), narrowSlotHeight
	}
	return max(v.Width/2, 1), wideSlotHeight
}

// Slot is the visual area reserved for one record's scene.
type Slot struct {
	ID     string
	Width  int
	Height int
}

// Aspect returns width/height.
func (s Slot) Aspect() float64 {
	return float64(s.Width) / float64(s.Height)
}

// Entry is one record on the page.
type Entry struct {
	NeoID  string
	SlotID string
	Panel  Panel
}

// SlotID returns the visual slot identifier for a record.
func SlotID(neoID string) string {
	return "visual-" + neoID
}

// Page is safe for concurrent use.
type Page struct {
	mu         sync.RWMutex
	fetchDate  string
	count      int
	entries    []Entry
	slots      map[string]*Slot
	viewport   Viewport
	breakpoint int
}

// New creates an empty page for the given viewport.
func New(vp Viewport, breakpoint int) *Page {
	return &Page{
		slots:      make(map[string]*Slot),
		viewport:   vp,
		breakpoint: breakpoint,
	}
}

// SetHeader publishes the fetch date and record count.
func (p *Page) SetHeader(fetchDate string, count int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetchDate = fetchDate
	p.count = count
}

// FetchDate returns the published fetch date.
func (p *Page) FetchDate() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fetchDate
}

// CountLabel returns the record count as displayed, e.g. "Count: 12".
func (p *Page) CountLabel() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return fmt.Sprintf("Count: %d", p.count)
}

// Append adds an entry with its panel and creates its visual slot sized for
// the current viewport.
func (p *Page) Append(panel Panel) Entry {
	p.mu.Lock()
	defer p.mu.Unlock()

	e := Entry{NeoID: panel.NeoID, SlotID: SlotID(panel.NeoID), Panel: panel}
	p.entries = append(p.entries, e)

	w, h := p.viewport.SlotSize(p.breakpoint)
	p.slots[e.SlotID] = &Slot{ID: e.SlotID, Width: w, Height: h}
	return e
}

// Slot returns the visual slot for a record, if one exists.
func (p *Page) Slot(neoID string) (Slot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.slots[SlotID(neoID)]
	if !ok {
		return Slot{}, false
	}
	return *s, true
}

// RemoveSlot detaches a record's visual slot. The panel stays.
func (p *Page) RemoveSlot(neoID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.slots, SlotID(neoID))
}

// Entries returns a copy of the entries in page order.
func (p *Page) Entries() []Entry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Len returns the number of entries.
func (p *Page) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}

// Viewport returns the current viewport.
func (p *Page) Viewport() Viewport {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.viewport
}

// Resize records a new viewport and recomputes every slot's size.
func (p *Page) Resize(vp Viewport) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.viewport = vp
	w, h := vp.SlotSize(p.breakpoint)
	for _, s := range p.slots {
		s.Width, s.Height = w, h
	}
}
