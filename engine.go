package fogrid

import (
	"math"
	"math/rand/v2"
	"time"
)

// Engine is the single owner of all interactive grid state: camera, hover,
// visibility and fog. Hosts feed it input through the handler methods and
// call Tick once per frame; the engine registers no event listeners.
//
// Within one Tick the stages run in a fixed order: camera, pointer hover,
// hover easing, visibility, fog repaint, fog scroll, notifications. Each
// stage only reads state already updated earlier in the same tick.
//
// Engine is not safe for concurrent use. The ContentStore it reads may be
// written from other goroutines if the store itself allows it.
type Engine struct {
	cfg   Config
	store ContentStore

	cam   *Camera
	hover *HoverTracker
	vis   *VisibilityEngine
	fog   *FogMask
	noise *NoiseTexture

	visible  CellSet
	ring     CellSet
	fogDirty bool
	scroll   Vec2

	clock time.Duration

	panHeld        bool
	pointer        Vec2
	pointerPending bool

	lastHover    CellKey
	lastHasHover bool

	viewing    CellKey
	hasViewing bool

	injectQueue []syntheticEvent

	handlers handlerRegistry
	feedback Feedback
	sink     EventSink

	debug bool
}

// NewEngine creates an engine for a width×height viewport reading cell
// contents from store. A nil store starts with an empty MemoryStore.
// Cell (0,0) starts centred and hovered.
func NewEngine(cfg Config, store ContentStore, width, height int) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		store = NewMemoryStore()
	}
	w, h := max(1, width), max(1, height)

	seed := cfg.NoiseSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	e := &Engine{
		cfg:      cfg,
		store:    store,
		cam:      NewCamera(cfg, float64(w), float64(h)),
		hover:    NewHoverTracker(cfg),
		vis:      NewVisibilityEngine(cfg.VisibilityRadius),
		fog:      NewFogMask(cfg, w, h),
		noise:    NewNoiseTexture(cfg.NoiseTileSize, rng),
		visible:  CellSet{},
		ring:     CellSet{},
		fogDirty: true,
	}
	e.cam.CenterOn(CellKey{})
	e.hover.set(CellKey{})
	return e, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// Store returns the content store the engine reads.
func (e *Engine) Store() ContentStore { return e.store }

// Camera returns the camera. Mutating it directly bypasses the engine's
// cancellation rules; prefer the handler methods.
func (e *Engine) Camera() *Camera { return e.cam }

// Hover returns the hover tracker.
func (e *Engine) Hover() *HoverTracker { return e.hover }

// Clock returns the total time passed to Tick.
func (e *Engine) Clock() time.Duration { return e.clock }

// PanHeld reports whether the pan modifier is down.
func (e *Engine) PanHeld() bool { return e.panHeld }

// --- Input handlers ---

// PointerMove reports the pointer at viewport-local p. While dragging it
// pans immediately. Otherwise hover resolution is deferred to the next
// Tick, after the camera has advanced.
func (e *Engine) PointerMove(p Vec2) {
	e.pointer = p
	if e.cam.Dragging() {
		e.cam.UpdateDrag(p, e.clock)
		return
	}
	if e.hover.Locked() {
		e.hover.SetFromPointer(p, e.cam)
		e.pointerPending = false
		return
	}
	if e.panHeld {
		e.hover.Clear()
		e.pointerPending = false
		return
	}
	e.pointerPending = true
}

// PointerDown starts a drag when the pan modifier is held. Otherwise a
// press on an occupied cell opens it in the viewer.
func (e *Engine) PointerDown(p Vec2) {
	e.pointer = p
	if e.panHeld {
		e.cam.BeginDrag(p, e.clock)
		return
	}
	key := e.CellAt(p)
	if _, ok := e.store.Get(key); ok {
		e.viewing = key
		e.hasViewing = true
	}
}

// PointerUp ends a drag and hands its velocity to inertia.
func (e *Engine) PointerUp(p Vec2) {
	e.pointer = p
	e.cam.EndDrag()
}

// PointerLeave clears the hover and any pending lock.
func (e *Engine) PointerLeave() {
	e.hover.Clear()
	e.pointerPending = false
}

// Wheel zooms around p. Positive deltaY zooms out.
func (e *Engine) Wheel(p Vec2, deltaY float64) {
	factor := math.Exp(-deltaY * e.cfg.ZoomSensitivity)
	e.cam.RequestZoom(p, factor)
}

// KeyDown handles a key press. Repeats are allowed.
func (e *Engine) KeyDown(k Key) {
	switch k {
	case KeyPan:
		e.panHeld = true
		e.cam.CancelMotion()
	case KeyUp:
		e.navigateKey(-1, 0)
	case KeyDown:
		e.navigateKey(1, 0)
	case KeyLeft:
		e.navigateKey(0, -1)
	case KeyRight:
		e.navigateKey(0, 1)
	case KeyHome:
		e.RequestRecenter()
	case KeyEscape:
		e.CloseViewer()
	}
}

// KeyUp handles a key release.
func (e *Engine) KeyUp(k Key) {
	if k == KeyPan {
		e.panHeld = false
	}
}

func (e *Engine) navigateKey(dRow, dCol int) {
	if e.panHeld {
		return
	}
	e.RequestNavigate(dRow, dCol)
}

// Resize changes the viewport size. The fog buffers are reallocated before
// the next repaint and cell (0,0) is centred again.
func (e *Engine) Resize(width, height int) {
	w, h := max(1, width), max(1, height)
	vp := e.cam.Viewport()
	if vp.X == float64(w) && vp.Y == float64(h) {
		return
	}
	e.cam.SetViewport(float64(w), float64(h))
	e.fog.Resize(w, h)
	e.cam.CenterOn(CellKey{})
	e.fogDirty = true
}

// --- External camera actions ---

// RequestRecenter hovers (0,0) and flies the camera to centre it.
func (e *Engine) RequestRecenter() {
	e.pointerPending = false
	e.hover.SetFromKey(CellKey{}, e.cam)
	e.cam.FlyTo(e.cam.CenterOrigin(CellKey{}))
	e.emit(GridEvent{Type: EventRecenter, Key: CellKey{}, HasKey: true, Occupied: e.occupied(CellKey{})})
}

// RequestNavigate moves the hover by (dRow, dCol) from the current cell, or
// from (0,0) when nothing is hovered, and pans just enough to keep it in
// view. A pointer move still waiting for the next Tick is dropped so it
// cannot spend the lock.
func (e *Engine) RequestNavigate(dRow, dCol int) {
	e.pointerPending = false
	e.hover.ReleaseLock()
	from, ok := e.hover.Current()
	if !ok {
		from = CellKey{}
	}
	to := from.Offset(dRow, dCol)
	e.hover.SetFromKey(to, e.cam)
	e.emit(GridEvent{Type: EventNavigate, Key: to, HasKey: true, Occupied: e.occupied(to), DRow: dRow, DCol: dCol})
}

// --- Tick ---

// Tick advances the engine by dt and reports whether anything visible
// changed.
func (e *Engine) Tick(dt time.Duration) bool {
	if dt < 0 {
		dt = 0
	}
	e.clock += dt
	dtMs := float64(dt) / float64(time.Millisecond)
	e.drainInjected()

	var stats tickStats
	mark := e.stageTimer()

	moved := e.cam.Update(dtMs) || e.cam.Dirty()
	stats.camera = mark()

	if e.pointerPending {
		e.pointerPending = false
		if !e.panHeld && !e.cam.Dragging() {
			e.hover.SetFromPointer(e.pointer, e.cam)
		}
	}
	eased := e.hover.Update(dtMs)
	stats.hover = mark()

	visible := e.vis.Recompute(e.store.Occupancy())
	visChanged := !visible.Equal(e.visible)
	if visChanged {
		e.visible = visible
		e.ring = Ring(visible)
	}
	stats.visibility = mark()

	repainted := false
	if visChanged || moved || e.fogDirty {
		e.fog.Repaint(e.visible, e.ring, e.cam.View(), e.cam.CellSize())
		e.cam.ClearDirty()
		e.fogDirty = false
		repainted = true
	}
	stats.fog = mark()

	scrolled := e.advanceScroll(dtMs)
	hoverChanged := e.notifyHover()

	stats.visible = e.visible.Len()
	stats.ring = e.ring.Len()
	stats.ops = e.fog.OpCount()
	stats.repainted = repainted
	e.debugLog(stats)

	return moved || eased || repainted || scrolled || hoverChanged
}

// advanceScroll drifts the fog fill, wrapping at the tile size.
func (e *Engine) advanceScroll(dtMs float64) bool {
	v := e.cfg.FogScrollVelocity
	if v == (Vec2{}) || dtMs == 0 {
		return false
	}
	n := float64(e.cfg.NoiseTileSize)
	e.scroll = Vec2{
		X: wrap(e.scroll.X+v.X*dtMs, n),
		Y: wrap(e.scroll.Y+v.Y*dtMs, n),
	}
	return true
}

func wrap(v, n float64) float64 {
	v = math.Mod(v, n)
	if v < 0 {
		v += n
	}
	return v
}

// notifyHover fires change callbacks when the hover differs from the last
// tick.
func (e *Engine) notifyHover() bool {
	key, ok := e.hover.Current()
	if ok == e.lastHasHover && (!ok || key == e.lastHover) {
		return false
	}
	e.lastHover, e.lastHasHover = key, ok

	e.handlers.fireHover(key, ok)
	if !ok {
		e.emit(GridEvent{Type: EventHoverCleared})
		return true
	}
	occ := e.occupied(key)
	if e.feedback != nil {
		e.feedback.HoverEntered(key, occ)
	}
	e.emit(GridEvent{Type: EventHoverChanged, Key: key, HasKey: true, Occupied: occ})
	return true
}

func (e *Engine) emit(ev GridEvent) {
	if e.sink != nil {
		e.sink.EmitEvent(ev)
	}
}

func (e *Engine) occupied(key CellKey) bool {
	_, ok := e.store.Get(key)
	return ok
}

// --- Consumer accessors ---

// CurrentHover returns the hovered cell, if any.
func (e *Engine) CurrentHover() (CellKey, bool) { return e.hover.Current() }

// HoverCoord returns the hovered cell in display convention: x is the
// column and y grows upward.
func (e *Engine) HoverCoord() (x, y int, ok bool) {
	k, ok := e.hover.Current()
	if !ok {
		return 0, 0, false
	}
	return k.Col, -k.Row, true
}

// OnHoverChange registers fn to run whenever the hover differs from the
// previous tick. ok is false when the hover was cleared.
func (e *Engine) OnHoverChange(fn func(key CellKey, ok bool)) CallbackHandle {
	return e.handlers.addHover(fn)
}

// SetFeedback installs the hover feedback (audio). Nil disables it.
func (e *Engine) SetFeedback(f Feedback) { e.feedback = f }

// SetEventSink forwards grid events to sink. Nil disables forwarding.
func (e *Engine) SetEventSink(sink EventSink) { e.sink = sink }

// VisibleSet returns the revealed cells as of the last Tick. It MUST NOT be
// mutated.
func (e *Engine) VisibleSet() CellSet { return e.visible }

// RingSet returns the fog frontier cells as of the last Tick.
func (e *Engine) RingSet() CellSet { return e.ring }

// FogMask returns the fog mask buffer.
func (e *Engine) FogMask() *FogMask { return e.fog }

// Noise returns the fog fill texture.
func (e *Engine) Noise() *NoiseTexture { return e.noise }

// FogScrollOffset returns the current sample offset of the fog fill.
func (e *Engine) FogScrollOffset() Vec2 { return e.scroll }

// CameraTransform returns the camera origin and zoom.
func (e *Engine) CameraTransform() (origin Vec2, zoom float64) {
	return e.cam.Origin(), e.cam.Zoom()
}

// CellAt returns the cell under viewport-local p.
func (e *Engine) CellAt(p Vec2) CellKey {
	return ScreenToCell(p, e.cam.View(), e.cam.CellSize())
}

// Cursor returns the cursor that matches the interaction state.
func (e *Engine) Cursor() CursorHint {
	switch {
	case e.cam.Dragging():
		return CursorGrabbing
	case e.panHeld:
		return CursorGrab
	}
	if k, ok := e.hover.Current(); ok && e.occupied(k) {
		return CursorPointer
	}
	return CursorDefault
}

// Viewing returns the cell open in the full-size viewer, if any.
func (e *Engine) Viewing() (CellKey, bool) { return e.viewing, e.hasViewing }

// CloseViewer closes the full-size viewer.
func (e *Engine) CloseViewer() { e.hasViewing = false }
