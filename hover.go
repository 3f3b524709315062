package fogrid

// HoverTracker resolves pointer and keyboard positions into the hovered
// cell and eases the glow/grow highlight toward it.
//
// After a programmatic jump (SetFromKey) the tracker holds a one-shot lock:
// the next pointer-derived update is swallowed so a stray mouse move does not
// immediately undo the jump.
type HoverTracker struct {
	cfg Config

	current    CellKey
	hasCurrent bool
	lock       CellKey
	locked     bool

	glowT float64
	growT float64
}

// NewHoverTracker creates a tracker with nothing hovered.
func NewHoverTracker(cfg Config) *HoverTracker {
	return &HoverTracker{cfg: cfg}
}

// Current returns the hovered cell, if any.
func (h *HoverTracker) Current() (CellKey, bool) {
	return h.current, h.hasCurrent
}

// Locked reports whether the next pointer update will be ignored.
func (h *HoverTracker) Locked() bool { return h.locked }

// LockKey returns the cell that armed the pending lock.
func (h *HoverTracker) LockKey() (CellKey, bool) { return h.lock, h.locked }

// GlowT returns the fast highlight parameter in [0, 1].
func (h *HoverTracker) GlowT() float64 { return h.glowT }

// GrowT returns the slow highlight parameter in [0, 1].
func (h *HoverTracker) GrowT() float64 { return h.growT }

// SetFromPointer hovers the cell under local. It reports whether the
// hovered cell changed. A pending lock is consumed instead.
func (h *HoverTracker) SetFromPointer(local Vec2, cam *Camera) bool {
	if h.locked {
		h.locked = false
		return false
	}
	key := ScreenToCell(local, cam.View(), cam.CellSize())
	return h.set(key)
}

// SetFromKey hovers key directly, arms the one-shot lock, and pans the
// camera just enough to keep the cell inside the follow margin.
func (h *HoverTracker) SetFromKey(key CellKey, cam *Camera) bool {
	changed := h.set(key)
	h.lock = key
	h.locked = true
	if target, ok := cam.FollowTarget(key); ok {
		cam.FlyTo(target)
	}
	return changed
}

// ReleaseLock drops a pending lock without touching the hover.
func (h *HoverTracker) ReleaseLock() { h.locked = false }

// Clear drops the hover (and any pending lock). The highlight eases out
// over the following ticks rather than snapping.
func (h *HoverTracker) Clear() bool {
	h.locked = false
	if !h.hasCurrent {
		return false
	}
	h.hasCurrent = false
	return true
}

// Update eases glow and grow toward 1 while something is hovered and
// toward 0 otherwise. It reports whether either value moved noticeably.
func (h *HoverTracker) Update(dtMs float64) bool {
	target := 0.0
	if h.hasCurrent {
		target = 1
	}
	prevGlow, prevGrow := h.glowT, h.growT
	h.glowT += (target - h.glowT) * easeFactor(h.cfg.GlowEase, dtMs)
	h.growT += (target - h.growT) * easeFactor(h.cfg.GrowEase, dtMs)
	return abs(h.glowT-prevGlow) > 0.001 || abs(h.growT-prevGrow) > 0.001
}

func (h *HoverTracker) set(key CellKey) bool {
	if h.hasCurrent && h.current == key {
		return false
	}
	h.current = key
	h.hasCurrent = true
	h.growT = 0
	h.glowT = 1
	return true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
