package fogrid

import (
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// zoomAnchor pins a world point under a screen point while zoom eases.
// The world point is stored as a cell plus the fractional position inside
// it, so it stays valid at any zoom.
type zoomAnchor struct {
	cell  CellKey
	frac  Vec2
	local Vec2
}

// dragState tracks an in-progress pan gesture. Moves that share a
// timestamp form one sample: batch is their summed delta, batchAt their
// time and prevAt the time of the sample before them.
type dragState struct {
	active  bool
	last    Vec2
	batch   Vec2
	batchAt time.Duration
	prevAt  time.Duration
}

// inertiaState carries the post-drag glide. velocity is in px/ms.
type inertiaState struct {
	velocity Vec2
	active   bool
}

// flyAnim holds an animated origin transition. The tween eases the
// progress from 0 to 1; origins stay in float64.
type flyAnim struct {
	active   bool
	tween    *gween.Tween
	elapsed  float64
	duration float64
	start    Vec2
	target   Vec2
}

// Camera owns the view into the grid: origin, zoom, and every timed motion
// (zoom easing, drag inertia, fly). It advances once per tick via Update.
type Camera struct {
	cfg Config

	origin     Vec2
	zoom       float64
	zoomTarget float64
	anchor     *zoomAnchor

	drag    dragState
	inertia inertiaState
	fly     flyAnim

	// viewport is the size of the area the camera renders into.
	viewport Vec2
	dirty    bool
}

// NewCamera creates a camera at zoom 1 with the origin at (0,0).
func NewCamera(cfg Config, viewportW, viewportH float64) *Camera {
	c := &Camera{
		cfg:      cfg,
		viewport: Vec2{X: viewportW, Y: viewportH},
		dirty:    true,
	}
	c.zoom = c.clampZoom(1)
	c.zoomTarget = c.zoom
	return c
}

// Origin returns the world-space top-left of the viewport, in zoomed pixels.
func (c *Camera) Origin() Vec2 { return c.origin }

// Zoom returns the current (eased) zoom.
func (c *Camera) Zoom() float64 { return c.zoom }

// ZoomTarget returns the zoom the camera is easing toward.
func (c *Camera) ZoomTarget() float64 { return c.zoomTarget }

// CellSize returns the current on-screen cell edge in pixels.
func (c *Camera) CellSize() float64 { return CellSize(c.cfg.BaseCellPx, c.zoom) }

// View returns the coordinate-system snapshot of the camera.
func (c *Camera) View() CameraView { return CameraView{Origin: c.origin, Zoom: c.zoom} }

// Viewport returns the viewport size.
func (c *Camera) Viewport() Vec2 { return c.viewport }

// Dragging reports whether a pan gesture is in progress.
func (c *Camera) Dragging() bool { return c.drag.active }

// InertiaActive reports whether the camera is gliding after a drag.
func (c *Camera) InertiaActive() bool { return c.inertia.active }

// Velocity returns the recorded pan velocity in px/ms.
func (c *Camera) Velocity() Vec2 { return c.inertia.velocity }

// Flying reports whether a fly animation is running.
func (c *Camera) Flying() bool { return c.fly.active }

// FlyProgress returns the linear fly progress in [0, 1].
func (c *Camera) FlyProgress() float64 {
	if c.fly.duration <= 0 {
		return 0
	}
	return math.Min(1, c.fly.elapsed/c.fly.duration)
}

// Anchored reports whether a zoom anchor is set.
func (c *Camera) Anchored() bool { return c.anchor != nil }

// Dirty reports whether origin or zoom changed since the last ClearDirty.
func (c *Camera) Dirty() bool { return c.dirty }

// ClearDirty resets the dirty flag after the consumer has redrawn.
func (c *Camera) ClearDirty() { c.dirty = false }

// SetViewport changes the viewport size.
func (c *Camera) SetViewport(w, h float64) {
	if c.viewport.X == w && c.viewport.Y == h {
		return
	}
	c.viewport = Vec2{X: w, Y: h}
	c.dirty = true
}

// SetOrigin moves the camera immediately. It does not cancel motions.
func (c *Camera) SetOrigin(o Vec2) {
	if o != c.origin {
		c.origin = o
		c.dirty = true
	}
}

// CenterOrigin returns the origin that puts the centre of cell at the
// centre of the viewport at the current zoom.
func (c *Camera) CenterOrigin(cell CellKey) Vec2 {
	size := c.CellSize()
	return Vec2{
		X: (float64(cell.Col)+0.5)*size - c.viewport.X/2,
		Y: (float64(cell.Row)+0.5)*size - c.viewport.Y/2,
	}
}

// CenterOn snaps the camera so cell sits at the viewport centre.
func (c *Camera) CenterOn(cell CellKey) {
	c.SetOrigin(c.CenterOrigin(cell))
}

// BeginDrag starts a pan gesture at pointer p. It cancels any fly, glide,
// or zoom anchor; the camera stays where it is.
func (c *Camera) BeginDrag(p Vec2, at time.Duration) {
	c.drag = dragState{active: true, last: p, batchAt: at, prevAt: at}
	c.inertia = inertiaState{}
	c.fly.active = false
	c.anchor = nil
}

// UpdateDrag moves the origin by the negative pointer delta and records the
// velocity for the inertia hand-off. Moves reported at the same time are
// summed and measured against the previous sample, so hosts that deliver
// several events per tick get the true speed. No velocity is recorded
// until time has passed since the press.
func (c *Camera) UpdateDrag(p Vec2, at time.Duration) {
	if !c.drag.active {
		return
	}
	delta := p.Sub(c.drag.last)
	c.drag.last = p
	if delta != (Vec2{}) {
		c.origin = c.origin.Sub(delta)
		c.dirty = true
	}

	d := &c.drag
	if at > d.batchAt {
		d.prevAt, d.batchAt = d.batchAt, at
		d.batch = delta
	} else {
		d.batch = d.batch.Add(delta)
	}
	elapsed := float64(d.batchAt-d.prevAt) / float64(time.Millisecond)
	if elapsed <= 0 {
		return
	}
	c.inertia.velocity = c.clampSpeed(d.batch.Scale(1 / elapsed))
}

// EndDrag releases the gesture and hands the last velocity to inertia.
func (c *Camera) EndDrag() {
	if !c.drag.active {
		return
	}
	c.drag.active = false
	c.inertia.active = true
}

// RequestZoom multiplies the target zoom by factor and anchors the world
// point under local so it stays fixed while the zoom eases.
func (c *Camera) RequestZoom(local Vec2, factor float64) {
	c.fly.active = false

	size := c.CellSize()
	g := ScreenToGrid(local, c.View(), size)
	col := math.Floor(g.X)
	row := math.Floor(g.Y)
	c.anchor = &zoomAnchor{
		cell:  CellKey{Row: int(row), Col: int(col)},
		frac:  Vec2{X: g.X - col, Y: g.Y - row},
		local: local,
	}
	c.zoomTarget = c.clampZoom(c.zoomTarget * factor)
}

// FlyTo animates the origin to target, cancelling drag and inertia.
func (c *Camera) FlyTo(target Vec2) {
	c.drag.active = false
	c.inertia = inertiaState{}
	d := 1 / c.cfg.FlySpeed
	c.fly = flyAnim{
		active:   true,
		tween:    gween.New(0, 1, float32(d), ease.OutCubic),
		duration: d,
		start:    c.origin,
		target:   target,
	}
}

// CancelMotion stops every timed motion where it stands: zoom anchor,
// inertia and fly. Used when the pan modifier is pressed.
func (c *Camera) CancelMotion() {
	c.anchor = nil
	c.inertia = inertiaState{}
	c.fly.active = false
}

// FollowTarget returns the origin that brings cell back inside the follow
// margin on every edge, moving only as far as needed. ok is false when the
// cell is already inside the margin.
func (c *Camera) FollowTarget(cell CellKey) (target Vec2, ok bool) {
	size := c.CellSize()
	r := CellToScreenRect(cell, c.View(), size)
	pad := c.cfg.FollowMarginPx
	target = c.origin

	if r.X < pad {
		target.X -= pad - r.X
	} else if r.X+size > c.viewport.X-pad {
		target.X += r.X + size - (c.viewport.X - pad)
	}
	if r.Y < pad {
		target.Y -= pad - r.Y
	} else if r.Y+size > c.viewport.Y-pad {
		target.Y += r.Y + size - (c.viewport.Y - pad)
	}
	return target, target != c.origin
}

// Update advances zoom easing, inertia and fly, in that order, by dtMs
// milliseconds. It reports whether origin or zoom changed.
func (c *Camera) Update(dtMs float64) bool {
	prevOrigin, prevZoom := c.origin, c.zoom

	c.zoom = c.clampZoom(c.zoom)
	c.zoomTarget = c.clampZoom(c.zoomTarget)

	// Zoom easing and anchor.
	if diff := c.zoomTarget - c.zoom; diff != 0 && dtMs > 0 {
		if math.Abs(diff) < c.cfg.ZoomEpsilon {
			c.zoom = c.zoomTarget
		} else {
			c.zoom += diff * easeFactor(c.cfg.ZoomEase, dtMs)
		}
		c.applyAnchor()
	}
	if c.anchor != nil && math.Abs(c.zoomTarget-c.zoom) < c.cfg.ZoomEpsilon {
		c.anchor = nil
	}

	// Inertia.
	if c.inertia.active && !c.drag.active {
		c.origin = c.origin.Sub(c.inertia.velocity.Scale(dtMs))
		decay := math.Exp(-c.cfg.InertiaFriction * dtMs)
		c.inertia.velocity = c.inertia.velocity.Scale(decay)
		if math.Hypot(c.inertia.velocity.X, c.inertia.velocity.Y) < c.cfg.InertiaMinSpeed {
			c.inertia = inertiaState{}
		}
	}

	// Fly.
	if c.fly.active && dtMs > 0 {
		c.fly.elapsed += dtMs
		v, done := c.fly.tween.Update(float32(dtMs))
		k := float64(v)
		if done {
			k = 1
			c.fly.active = false
		}
		c.origin = c.fly.start.Add(c.fly.target.Sub(c.fly.start).Scale(k))
	}

	changed := c.origin != prevOrigin || c.zoom != prevZoom
	if changed {
		c.dirty = true
	}
	return changed
}

// applyAnchor recomputes the origin so the anchored world point sits
// exactly under its screen point at the current zoom.
func (c *Camera) applyAnchor() {
	if c.anchor == nil {
		return
	}
	a := c.anchor
	size := c.CellSize()
	c.origin = Vec2{
		X: (float64(a.cell.Col)+a.frac.X)*size - a.local.X,
		Y: (float64(a.cell.Row)+a.frac.Y)*size - a.local.Y,
	}
}

func (c *Camera) clampZoom(z float64) float64 {
	return math.Max(c.cfg.ZoomMin, math.Min(z, c.cfg.ZoomMax))
}

// clampSpeed limits v to InertiaMaxSpeed, keeping its direction.
func (c *Camera) clampSpeed(v Vec2) Vec2 {
	sp := math.Hypot(v.X, v.Y)
	if sp > c.cfg.InertiaMaxSpeed {
		return v.Scale(c.cfg.InertiaMaxSpeed / sp)
	}
	return v
}
