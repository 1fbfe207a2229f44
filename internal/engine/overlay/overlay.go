// Package overlay keeps host-owned hotspot elements glued to their 3D anchors:
// each frame every hotspot is occlusion-tested, projected to the overlay
// surface, and shown or hidden.
package overlay

import (
	"github.com/Faultbox/walkthrough/internal/engine/collision"
	"github.com/Faultbox/walkthrough/pkg/math"
	"github.com/Faultbox/walkthrough/pkg/space"
)

// DefaultEpsilon is how much closer than the hotspot a hit must be to occlude it.
const DefaultEpsilon = 0.05

// Element is one interactive overlay element supplied by the host UI.
type Element interface {
	SetPosition(x, y float32)
	SetVisible(visible bool)
	OnActivate(fn func())
	Remove()
}

// Surface creates elements and reports its pixel size.
type Surface interface {
	NewElement(h space.Hotspot) Element
	Size() (width, height int)
}

// Rect is the overlay area in pixels.
type Rect struct {
	X, Y, W, H float32
}

// Visibility explains a placement.
type Visibility uint8

const (
	Hidden    Visibility = iota // not yet projected
	Visible
	Occluded
	Behind
	Offscreen
)

func (v Visibility) String() string {
	switch v {
	case Visible:
		return "visible"
	case Occluded:
		return "occluded"
	case Behind:
		return "behind"
	case Offscreen:
		return "offscreen"
	}
	return "hidden"
}

// Placement is the last computed screen state of a hotspot.
type Placement struct {
	Visibility Visibility
	X, Y       float32
}

// Projector owns one element per hotspot, stored densely by hotspot index.
type Projector struct {
	world    *collision.World
	epsilon  float32
	rect     Rect
	hotspots []space.Hotspot
	elements []Element
	placed   []Placement
}

// NewProjector creates a projector testing occlusion against world.
func NewProjector(world *collision.World, epsilon float32) *Projector {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	return &Projector{world: world, epsilon: epsilon}
}

// Attach creates an element per hotspot on surface. activate is called with
// the hotspot index when its element is activated. Elements start hidden.
func (p *Projector) Attach(surface Surface, hotspots []space.Hotspot, activate func(index int)) {
	p.Detach()
	p.hotspots = hotspots
	p.elements = make([]Element, len(hotspots))
	p.placed = make([]Placement, len(hotspots))
	for i, h := range hotspots {
		el := surface.NewElement(h)
		idx := i
		el.OnActivate(func() { activate(idx) })
		el.SetVisible(false)
		p.elements[i] = el
	}
	w, h := surface.Size()
	p.SetRect(Rect{W: float32(w), H: float32(h)})
}

// Detach removes every element. Safe to call repeatedly.
func (p *Projector) Detach() {
	for _, el := range p.elements {
		el.Remove()
	}
	p.elements = nil
	p.placed = nil
	p.hotspots = nil
}

// SetRect caches the overlay surface rectangle.
func (p *Projector) SetRect(r Rect) {
	p.rect = r
}

// Rect returns the cached overlay rectangle.
func (p *Projector) Rect() Rect {
	return p.rect
}

// Len returns the number of attached hotspots.
func (p *Projector) Len() int {
	return len(p.elements)
}

// Hotspot returns the hotspot at index i.
func (p *Projector) Hotspot(i int) space.Hotspot {
	return p.hotspots[i]
}

// Placement returns the last placement of hotspot i.
func (p *Projector) Placement(i int) Placement {
	return p.placed[i]
}

// Update places every element for a camera at eye with the given
// projection * view matrix.
func (p *Projector) Update(eye math.Vec3, viewProj math.Mat4) {
	for i := range p.hotspots {
		next := p.place(p.hotspots[i].Position, eye, viewProj)
		prev := p.placed[i]
		el := p.elements[i]

		if next.Visibility == Visible {
			el.SetPosition(next.X, next.Y)
		}
		if (next.Visibility == Visible) != (prev.Visibility == Visible) || prev.Visibility == Hidden {
			el.SetVisible(next.Visibility == Visible)
		}
		p.placed[i] = next
	}
}

func (p *Projector) place(anchor, eye math.Vec3, viewProj math.Mat4) Placement {
	ray, dist := collision.RayTowards(eye, anchor)
	if dist > 0 {
		if hit, ok := p.world.Raycast(ray, dist); ok && hit < dist-p.epsilon {
			return Placement{Visibility: Occluded}
		}
	}

	clip := viewProj.MulVec4(math.Vec4{anchor.X, anchor.Y, anchor.Z, 1})
	if clip[3] <= 0 {
		return Placement{Visibility: Behind}
	}
	ndcX, ndcY, ndcZ := clip[0]/clip[3], clip[1]/clip[3], clip[2]/clip[3]
	if ndcZ > 1 {
		return Placement{Visibility: Behind}
	}
	if ndcX < -1 || ndcX > 1 || ndcY < -1 || ndcY > 1 {
		return Placement{Visibility: Offscreen}
	}

	return Placement{
		Visibility: Visible,
		X:          p.rect.X + (ndcX+1)/2*p.rect.W,
		Y:          p.rect.Y + (1-ndcY)/2*p.rect.H,
	}
}
