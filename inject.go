package fogrid

// syntheticKind selects which handler a queued event is replayed through.
type syntheticKind uint8

const (
	synthMove syntheticKind = iota
	synthPress
	synthRelease
	synthWheel
	synthKeyDown
	synthKeyUp
	synthLeave
)

// syntheticEvent represents a single injected input event. Positions are
// viewport-local, exactly like real pointer input.
type syntheticEvent struct {
	kind   syntheticKind
	pos    Vec2
	deltaY float64
	key    Key
}

func (e *Engine) inject(ev syntheticEvent) {
	e.injectQueue = append(e.injectQueue, ev)
}

// InjectMove queues a pointer move. The event is consumed at the start of
// the next Tick.
func (e *Engine) InjectMove(x, y float64) {
	e.inject(syntheticEvent{kind: synthMove, pos: Vec2{X: x, Y: y}})
}

// InjectPress queues a pointer press at (x, y).
func (e *Engine) InjectPress(x, y float64) {
	e.inject(syntheticEvent{kind: synthPress, pos: Vec2{X: x, Y: y}})
}

// InjectRelease queues a pointer release at (x, y).
func (e *Engine) InjectRelease(x, y float64) {
	e.inject(syntheticEvent{kind: synthRelease, pos: Vec2{X: x, Y: y}})
}

// InjectClick is a convenience that queues a press followed by a release
// at the same position. Consumes two ticks.
func (e *Engine) InjectClick(x, y float64) {
	e.InjectPress(x, y)
	e.InjectRelease(x, y)
}

// InjectWheel queues a wheel event at (x, y).
func (e *Engine) InjectWheel(x, y, deltaY float64) {
	e.inject(syntheticEvent{kind: synthWheel, pos: Vec2{X: x, Y: y}, deltaY: deltaY})
}

// InjectKey queues a key press followed by its release. Consumes two ticks.
func (e *Engine) InjectKey(k Key) {
	e.inject(syntheticEvent{kind: synthKeyDown, key: k})
	e.inject(syntheticEvent{kind: synthKeyUp, key: k})
}

// InjectKeyDown queues a key press without a release, for holding the pan
// modifier across other events.
func (e *Engine) InjectKeyDown(k Key) {
	e.inject(syntheticEvent{kind: synthKeyDown, key: k})
}

// InjectKeyUp queues a key release.
func (e *Engine) InjectKeyUp(k Key) {
	e.inject(syntheticEvent{kind: synthKeyUp, key: k})
}

// InjectLeave queues the pointer leaving the viewport.
func (e *Engine) InjectLeave() {
	e.inject(syntheticEvent{kind: synthLeave})
}

// InjectDrag queues a full pan gesture: pan modifier down, press at
// (fromX, fromY), linearly interpolated moves over frames-2 intermediate
// ticks, release at (toX, toY), modifier up. Minimum frames is 2.
func (e *Engine) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	e.InjectKeyDown(KeyPan)
	e.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		e.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	e.InjectMove(toX, toY)
	e.InjectRelease(toX, toY)
	e.InjectKeyUp(KeyPan)
}

// PendingInjected returns the number of queued synthetic events.
func (e *Engine) PendingInjected() int { return len(e.injectQueue) }

// drainInjected pops one event from the inject queue and feeds it through
// the regular handlers. Returns true if an event was consumed.
func (e *Engine) drainInjected() bool {
	if len(e.injectQueue) == 0 {
		return false
	}
	ev := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]

	switch ev.kind {
	case synthMove:
		e.PointerMove(ev.pos)
	case synthPress:
		e.PointerDown(ev.pos)
	case synthRelease:
		e.PointerUp(ev.pos)
	case synthWheel:
		e.Wheel(ev.pos, ev.deltaY)
	case synthKeyDown:
		e.KeyDown(ev.key)
	case synthKeyUp:
		e.KeyUp(ev.key)
	case synthLeave:
		e.PointerLeave()
	}
	return true
}
