package ui2d

// DefaultClickSlop is how far in pixels the pointer may travel between press
// and release and still count as a click.
const DefaultClickSlop = 4

// Pointer separates clicks from drags for the primary button.
type Pointer struct {
	X, Y float32
	Down bool

	// Slop overrides DefaultClickSlop when positive.
	Slop float32

	downX, downY float32
	dragged      bool
}

// Press starts a gesture at (x, y).
func (p *Pointer) Press(x, y float32) {
	p.X, p.Y = x, y
	p.Down = true
	p.downX, p.downY = x, y
	p.dragged = false
}

// Move updates the position and returns the delta since the last event.
func (p *Pointer) Move(x, y float32) (dx, dy float32) {
	dx, dy = x-p.X, y-p.Y
	p.X, p.Y = x, y
	if p.Down && !p.dragged {
		ox, oy := x-p.downX, y-p.downY
		slop := p.Slop
		if slop <= 0 {
			slop = DefaultClickSlop
		}
		if ox*ox+oy*oy > slop*slop {
			p.dragged = true
		}
	}
	return dx, dy
}

// Release ends the gesture and reports whether it was a click.
func (p *Pointer) Release(x, y float32) bool {
	if !p.Down {
		return false
	}
	p.Move(x, y)
	p.Down = false
	return !p.dragged
}

// Dragging reports whether the current gesture has left the click slop.
func (p *Pointer) Dragging() bool {
	return p.Down && p.dragged
}
