package fogrid

import (
	"fmt"
	"os"
	"time"
)

// tickStats holds per-tick stage timings and fog counts.
// Only populated when Engine.debug is true.
type tickStats struct {
	camera     time.Duration
	hover      time.Duration
	visibility time.Duration
	fog        time.Duration
	visible    int
	ring       int
	ops        int
	repainted  bool
}

// SetDebugMode enables per-tick timing output on stderr.
func (e *Engine) SetDebugMode(enabled bool) { e.debug = enabled }

// DebugMode reports whether debug output is on.
func (e *Engine) DebugMode() bool { return e.debug }

// stageTimer returns a function reporting the time since its previous
// call. In release mode it returns zero without reading the clock.
func (e *Engine) stageTimer() func() time.Duration {
	if !e.debug {
		return func() time.Duration { return 0 }
	}
	last := time.Now()
	return func() time.Duration {
		now := time.Now()
		d := now.Sub(last)
		last = now
		return d
	}
}

// debugLog prints stage timings and fog counts to stderr.
func (e *Engine) debugLog(stats tickStats) {
	if !e.debug {
		return
	}
	total := stats.camera + stats.hover + stats.visibility + stats.fog
	_, _ = fmt.Fprintf(os.Stderr,
		"[fogrid] camera: %v | hover: %v | visibility: %v | fog: %v | total: %v\n",
		stats.camera, stats.hover, stats.visibility, stats.fog, total)
	if stats.repainted {
		_, _ = fmt.Fprintf(os.Stderr,
			"[fogrid] visible: %d | ring: %d | mask ops: %d\n",
			stats.visible, stats.ring, stats.ops)
	}
	debugCheckMaskOps(stats.ops)
}

// debugMaxMaskOps is the op count above which a repaint is flagged as
// likely to drop frames.
const debugMaxMaskOps = 4096

func debugCheckMaskOps(ops int) {
	if ops > debugMaxMaskOps {
		_, _ = fmt.Fprintf(os.Stderr, "[fogrid] warning: %d mask ops exceed %d (zoomed far out?)\n",
			ops, debugMaxMaskOps)
	}
}
