package page

// Placement locates an entry's panel and visual on a flat canvas in CSS
// pixels. Wide viewports put the visual to the right of the panel; narrow
// ones stack it below.
type Placement struct {
	NeoID  string
	PanelX int
	PanelY int
	Visual Slot
	X, Y   int
}

// Placements lays out every entry that still has a visual slot, top to
// bottom in page order.
func (p *Page) Placements() []Placement {
	p.mu.RLock()
	defer p.mu.RUnlock()

	narrow := p.viewport.Width < p.breakpoint
	out := make([]Placement, 0, len(p.entries))
	y := 0
	for _, e := range p.entries {
		s, ok := p.slots[e.SlotID]
		if !ok {
			continue
		}
		pl := Placement{NeoID: e.NeoID, PanelY: y, Visual: *s}
		if narrow {
			pl.Y = y + s.Height
			y += 2 * s.Height
		} else {
			pl.X = s.Width
			pl.Y = y
			y += s.Height
		}
		out = append(out, pl)
	}
	return out
}
