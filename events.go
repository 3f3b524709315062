package fogrid

// EventType identifies a kind of grid event.
type EventType uint8

const (
	EventHoverChanged EventType = iota // the hovered cell changed
	EventHoverCleared                  // nothing is hovered any more
	EventRecenter                      // a recenter on (0,0) was requested
	EventNavigate                      // a keyboard step moved the hover
)

var eventTypeNames = [...]string{
	EventHoverChanged: "hover-changed",
	EventHoverCleared: "hover-cleared",
	EventRecenter:     "recenter",
	EventNavigate:     "navigate",
}

// String returns a short lowercase name.
func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// GridEvent carries one engine notification to an EventSink.
type GridEvent struct {
	Type EventType
	// Key is the hovered cell after the event. HasKey is false when
	// nothing is hovered.
	Key    CellKey
	HasKey bool
	// Occupied reports whether Key holds content.
	Occupied bool
	// DRow and DCol hold the step for EventNavigate.
	DRow, DCol int
}

// EventSink receives grid events. The ECS bridge implements it.
type EventSink interface {
	EmitEvent(event GridEvent)
}

// Feedback is notified when the hover moves onto a new cell. The sfx
// package provides an audio implementation.
type Feedback interface {
	HoverEntered(key CellKey, occupied bool)
}

// hoverHandler is a registered OnHoverChange callback.
type hoverHandler struct {
	id uint32
	fn func(key CellKey, ok bool)
}

type handlerRegistry struct {
	hover  []hoverHandler
	nextID uint32
}

// CallbackHandle allows removing a registered engine callback.
type CallbackHandle struct {
	id  uint32
	reg *handlerRegistry
}

// Remove unregisters this callback so it no longer fires. It is safe to
// call from inside the callback.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	h.reg.hover = removeHoverHandler(h.reg.hover, h.id)
}

// removeHoverHandler returns a new slice without id. The old backing array
// is left intact for any fireHover loop still ranging over it.
func removeHoverHandler(s []hoverHandler, id uint32) []hoverHandler {
	for i, h := range s {
		if h.id == id {
			out := make([]hoverHandler, 0, len(s)-1)
			out = append(out, s[:i]...)
			return append(out, s[i+1:]...)
		}
	}
	return s
}

func (r *handlerRegistry) addHover(fn func(CellKey, bool)) CallbackHandle {
	r.nextID++
	r.hover = append(r.hover, hoverHandler{id: r.nextID, fn: fn})
	return CallbackHandle{id: r.nextID, reg: r}
}

// fireHover calls every handler registered when the call began.
func (r *handlerRegistry) fireHover(key CellKey, ok bool) {
	handlers := r.hover
	for _, h := range handlers {
		h.fn(key, ok)
	}
}
