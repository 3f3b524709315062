package fogrid

import (
	"encoding/json"
	"fmt"
	"strings"
)

// scriptStep represents a single action in a script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	DeltaY float64 `json:"deltaY,omitempty"`
	Key    string  `json:"key,omitempty"`
	Row    int     `json:"row,omitempty"`
	Col    int     `json:"col,omitempty"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// script is the top-level JSON structure for a script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

var scriptKeys = map[string]Key{
	"space":  KeyPan,
	"up":     KeyUp,
	"w":      KeyUp,
	"down":   KeyDown,
	"s":      KeyDown,
	"left":   KeyLeft,
	"a":      KeyLeft,
	"right":  KeyRight,
	"d":      KeyRight,
	"home":   KeyHome,
	"h":      KeyHome,
	"escape": KeyEscape,
}

// ScriptRunner replays scripted input against an Engine, one step per
// tick, for demos and automated checks. Call Step before each Engine.Tick.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	failures  []string

	// OnScreenshot is called for "screenshot" steps. Hosts queue a capture
	// of the next drawn frame.
	OnScreenshot func(label string)
}

// LoadScript parses a JSON script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var sc script
	if err := json.Unmarshal(jsonData, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range sc.Steps {
		if err := validateStep(st); err != nil {
			return nil, fmt.Errorf("parse script: step %d: %w", i, err)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

func validateStep(st scriptStep) error {
	switch st.Action {
	case "pointer", "down", "up", "click", "drag", "wheel", "navigate",
		"recenter", "leave", "wait", "screenshot", "expectHover", "expectNoHover":
		return nil
	case "key", "keyDown", "keyUp":
		if _, ok := scriptKeys[strings.ToLower(st.Key)]; !ok {
			return fmt.Errorf("unknown key %q", st.Key)
		}
		return nil
	case "resize":
		if st.Width <= 0 || st.Height <= 0 {
			return fmt.Errorf("resize needs positive width and height, got %dx%d", st.Width, st.Height)
		}
		return nil
	}
	return fmt.Errorf("unknown action %q", st.Action)
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Failures returns the messages of failed expect steps.
func (r *ScriptRunner) Failures() []string {
	return r.failures
}

// Step advances the runner by one tick.
func (r *ScriptRunner) Step(e *Engine) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if e.PendingInjected() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "pointer":
		e.InjectMove(st.X, st.Y)
	case "down":
		e.InjectPress(st.X, st.Y)
	case "up":
		e.InjectRelease(st.X, st.Y)
	case "click":
		e.InjectClick(st.X, st.Y)
	case "drag":
		e.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wheel":
		e.InjectWheel(st.X, st.Y, st.DeltaY)
	case "key":
		e.InjectKey(scriptKeys[strings.ToLower(st.Key)])
	case "keyDown":
		e.InjectKeyDown(scriptKeys[strings.ToLower(st.Key)])
	case "keyUp":
		e.InjectKeyUp(scriptKeys[strings.ToLower(st.Key)])
	case "leave":
		e.InjectLeave()
	case "navigate":
		e.RequestNavigate(st.Row, st.Col)
	case "recenter":
		e.RequestRecenter()
	case "resize":
		e.Resize(st.Width, st.Height)
	case "screenshot":
		if r.OnScreenshot != nil {
			r.OnScreenshot(st.Label)
		}
	case "expectHover":
		want := CellKey{Row: st.Row, Col: st.Col}
		if got, ok := e.CurrentHover(); !ok || got != want {
			r.fail(st, fmt.Sprintf("hover = %v (ok=%v), want %v", got, ok, want))
		}
	case "expectNoHover":
		if got, ok := e.CurrentHover(); ok {
			r.fail(st, fmt.Sprintf("hover = %v, want none", got))
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && e.PendingInjected() == 0 {
		r.done = true
	}
}

func (r *ScriptRunner) fail(st scriptStep, msg string) {
	label := st.Label
	if label == "" {
		label = fmt.Sprintf("step %d", r.cursor-1)
	}
	r.failures = append(r.failures, label+": "+msg)
}
