package fogrid

import "testing"

func TestHoverStartsEmpty(t *testing.T) {
	h := NewHoverTracker(DefaultConfig())
	if _, ok := h.Current(); ok {
		t.Error("new tracker should hover nothing")
	}
	if h.Locked() {
		t.Error("new tracker should not be locked")
	}
}

func TestHoverFromPointer(t *testing.T) {
	h := NewHoverTracker(DefaultConfig())
	cam := NewCamera(DefaultConfig(), 800, 600)

	if !h.SetFromPointer(Vec2{X: 200, Y: 10}, cam) {
		t.Error("first pointer hover should report a change")
	}
	if k, _ := h.Current(); k != (CellKey{Col: 1}) {
		t.Errorf("hover = %v, want 0:1", k)
	}
	if h.SetFromPointer(Vec2{X: 210, Y: 20}, cam) {
		t.Error("moving within the same cell should not report a change")
	}
}

func TestHoverLockIsOneShot(t *testing.T) {
	h := NewHoverTracker(DefaultConfig())
	cam := NewCamera(DefaultConfig(), 800, 600)

	h.SetFromKey(CellKey{Row: 2, Col: 2}, cam)
	if lk, ok := h.LockKey(); !ok || lk != (CellKey{Row: 2, Col: 2}) {
		t.Fatalf("LockKey = %v, %v", lk, ok)
	}

	// The first pointer update is swallowed.
	if h.SetFromPointer(Vec2{X: 10, Y: 10}, cam) {
		t.Error("locked pointer update reported a change")
	}
	if k, _ := h.Current(); k != (CellKey{Row: 2, Col: 2}) {
		t.Errorf("hover = %v after locked update, want 2:2", k)
	}
	if h.Locked() {
		t.Error("lock should be consumed")
	}

	// The second one goes through.
	h.SetFromPointer(Vec2{X: 10, Y: 10}, cam)
	if k, _ := h.Current(); k != (CellKey{}) {
		t.Errorf("hover = %v, want 0:0", k)
	}
}

func TestHoverClearDropsLock(t *testing.T) {
	h := NewHoverTracker(DefaultConfig())
	cam := NewCamera(DefaultConfig(), 800, 600)
	h.SetFromKey(CellKey{Row: 1, Col: 1}, cam)

	if !h.Clear() {
		t.Error("Clear should report a change")
	}
	if h.Locked() {
		t.Error("Clear should drop the lock")
	}
	if _, ok := h.Current(); ok {
		t.Error("hover should be empty after Clear")
	}
	if h.Clear() {
		t.Error("second Clear should report no change")
	}
}

func TestHoverReleaseLockKeepsHover(t *testing.T) {
	h := NewHoverTracker(DefaultConfig())
	cam := NewCamera(DefaultConfig(), 800, 600)
	h.SetFromKey(CellKey{Row: 1, Col: 1}, cam)
	h.ReleaseLock()
	if h.Locked() {
		t.Error("lock still armed")
	}
	if k, ok := h.Current(); !ok || k != (CellKey{Row: 1, Col: 1}) {
		t.Errorf("hover = %v, %v; want 1:1", k, ok)
	}
}

func TestHoverFromKeyFollows(t *testing.T) {
	h := NewHoverTracker(DefaultConfig())
	cam := NewCamera(DefaultConfig(), 800, 600)

	h.SetFromKey(CellKey{Row: 2, Col: 2}, cam)
	if cam.Flying() {
		t.Error("cell inside the margin should not move the camera")
	}
	h.SetFromKey(CellKey{Row: 0, Col: 10}, cam)
	if !cam.Flying() {
		t.Error("cell outside the viewport should start a fly")
	}
}

func TestHoverEasing(t *testing.T) {
	cfg := DefaultConfig()
	h := NewHoverTracker(cfg)
	h.set(CellKey{})
	if h.GlowT() != 1 || h.GrowT() != 0 {
		t.Fatalf("after set: glow %v grow %v, want 1 and 0", h.GlowT(), h.GrowT())
	}

	h.Update(refFrameMs)
	if !approxEqual(h.GrowT(), cfg.GrowEase, 1e-9) {
		t.Errorf("grow after one frame = %v, want %v", h.GrowT(), cfg.GrowEase)
	}

	h.Clear()
	for i := 0; i < 200; i++ {
		h.Update(refFrameMs)
	}
	if h.GlowT() > 0.001 || h.GrowT() > 0.001 {
		t.Errorf("highlight did not fade: glow %v grow %v", h.GlowT(), h.GrowT())
	}
	if h.Update(refFrameMs) {
		t.Error("settled highlight still reports movement")
	}
}
