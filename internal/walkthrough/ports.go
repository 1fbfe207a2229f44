package walkthrough

import (
	"context"
	"time"

	"github.com/Faultbox/walkthrough/internal/engine/environment"
	"github.com/Faultbox/walkthrough/internal/engine/loader"
	"github.com/Faultbox/walkthrough/internal/engine/overlay"
	"github.com/Faultbox/walkthrough/internal/engine/scheduler"
	"github.com/Faultbox/walkthrough/pkg/math"
	"github.com/Faultbox/walkthrough/pkg/space"
)

// OverlayElement is a host UI element pinned to a hotspot.
type OverlayElement = overlay.Element

// OverlaySurface creates overlay elements.
type OverlaySurface = overlay.Surface

// TickHandle identifies a requested tick.
type TickHandle = scheduler.Handle

// Scheduler delivers one callback per display frame. *scheduler.Queue
// implements it.
type Scheduler interface {
	RequestTick(fn func(now time.Time)) TickHandle
	CancelTick(h TickHandle)
}

// Renderer owns GPU resources and draws frames.
type Renderer interface {
	InstallEnvironment(env *environment.Map) error
	LoadScene(sc *loader.Scene) error
	Resize(width, height int)
	Draw(f Frame)
	Release()
}

// AssetLoader fetches a space's assets. *loader.Loader implements it.
type AssetLoader interface {
	Load(ctx context.Context, sp *space.Space) (*loader.Result, error)
}

// Clock supplies the time for commands issued between ticks.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// ClipState is the playhead of one looping animation clip.
type ClipState struct {
	Name     string
	Playhead time.Duration
	Duration time.Duration
}

// Frame is everything the renderer needs for one draw.
type Frame struct {
	Time       time.Time
	Delta      time.Duration
	Eye        math.Vec3
	View       math.Mat4
	Projection math.Mat4
	Ambient    math.Vec3
	Clips      []ClipState
}
