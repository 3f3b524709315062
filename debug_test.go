package fogrid

import "testing"

func TestDebugModeToggle(t *testing.T) {
	e := newTestEngine(t, nil)
	if e.DebugMode() {
		t.Error("debug should be off by default")
	}
	e.SetDebugMode(true)
	if !e.DebugMode() {
		t.Error("SetDebugMode(true) did not enable debug")
	}
	// A debug tick still runs every stage.
	e.Tick(tick)
	if e.VisibleSet().Len() != 9 {
		t.Errorf("visible = %d, want 9", e.VisibleSet().Len())
	}
}

func TestStageTimerReleaseMode(t *testing.T) {
	e := newTestEngine(t, nil)
	mark := e.stageTimer()
	for i := 0; i < 3; i++ {
		if d := mark(); d != 0 {
			t.Errorf("release stage timer = %v, want 0", d)
		}
	}
}

func TestStageTimerDebugMode(t *testing.T) {
	e := newTestEngine(t, nil)
	e.SetDebugMode(true)
	mark := e.stageTimer()
	if d := mark(); d < 0 {
		t.Errorf("stage duration = %v, want >= 0", d)
	}
}
