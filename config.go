package fogrid

import (
	"fmt"
	"math"
	"time"
)

// refFrameMs is the frame length the per-frame easing constants were tuned
// against (60 Hz).
const refFrameMs = 1000.0 / 60.0

// Config holds every tunable of the engine. Start from DefaultConfig and
// override fields as needed.
type Config struct {
	// BaseCellPx is the cell edge length in pixels at zoom 1.
	BaseCellPx float64

	// ZoomMin and ZoomMax bound both the current and target zoom.
	// ZoomMin must be strictly positive.
	ZoomMin, ZoomMax float64
	// ZoomSensitivity converts wheel deltas into a zoom factor:
	// factor = exp(-deltaY * ZoomSensitivity).
	ZoomSensitivity float64
	// ZoomEase is the fraction of the remaining zoom distance covered per
	// reference frame.
	ZoomEase float64
	// ZoomEpsilon is the distance below which the zoom snaps to its target
	// and the anchor is released.
	ZoomEpsilon float64

	// InertiaFriction is the exponential decay rate of pan velocity, per ms.
	InertiaFriction float64
	// InertiaMinSpeed is the speed (px/ms) under which inertia stops.
	InertiaMinSpeed float64
	// InertiaMaxSpeed caps the recorded drag velocity (px/ms).
	InertiaMaxSpeed float64

	// FlySpeed is the fly progress added per ms (t advances dt*FlySpeed).
	FlySpeed float64
	// FollowMarginPx keeps keyboard-selected cells this far from the edges.
	FollowMarginPx float64

	// GlowEase and GrowEase are the hover easing fractions per reference frame.
	GlowEase, GrowEase float64
	// HoverGrow is the extra sprite scale at full grow.
	HoverGrow float64

	// VisibilityRadius is the Moore neighborhood radius revealed around
	// every occupied cell.
	VisibilityRadius int

	// FogAlpha is the opacity of the fog fill when composed.
	FogAlpha float64
	// FogFeatherPx is the blur radius applied to hole edges.
	FogFeatherPx float64
	// FogHoleInset is the fraction of the cell size each hole is inset by.
	FogHoleInset float64
	// FogCreepMin and FogCreepMax bound the creep strip depth, as a
	// fraction of the cell size.
	FogCreepMin, FogCreepMax float64
	// FogCreepAlpha is the opacity of creep strips and blobs.
	FogCreepAlpha float64
	// FogCreepSegments is the number of strips per creeping edge.
	FogCreepSegments int
	// FogCreepBlobs is the number of soft round bites per creeping edge.
	FogCreepBlobs int
	// FogCreepBlobRMin and FogCreepBlobRMax bound the bite radius, as a
	// fraction of the cell size.
	FogCreepBlobRMin, FogCreepBlobRMax float64

	// NoiseTileSize is the edge length of the tileable fog fill texture.
	NoiseTileSize int
	// FogScrollVelocity is the fill texture drift in px/ms.
	FogScrollVelocity Vec2
	// NoiseSeed seeds the fill texture generator. Zero picks a fresh seed
	// at startup.
	NoiseSeed uint64

	// HoverSfxInterval is the minimum gap between two hover sounds.
	HoverSfxInterval time.Duration
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		BaseCellPx: 128,

		ZoomMin:         0.5,
		ZoomMax:         4,
		ZoomSensitivity: 0.0015,
		ZoomEase:        0.18,
		ZoomEpsilon:     1e-4,

		InertiaFriction: 0.0015,
		InertiaMinSpeed: 0.008,
		InertiaMaxSpeed: 2.5,

		FlySpeed:       0.004,
		FollowMarginPx: 72,

		GlowEase:  0.22,
		GrowEase:  0.08,
		HoverGrow: 0.5,

		VisibilityRadius: 1,

		FogAlpha:         0.82,
		FogFeatherPx:     6,
		FogHoleInset:     0.04,
		FogCreepMin:      0.12,
		FogCreepMax:      0.32,
		FogCreepAlpha:    0.55,
		FogCreepSegments: 6,
		FogCreepBlobs:    2,
		FogCreepBlobRMin: 0.06,
		FogCreepBlobRMax: 0.18,

		NoiseTileSize:     256,
		FogScrollVelocity: Vec2{X: 0.006, Y: 0.0035},

		HoverSfxInterval: 100 * time.Millisecond,
	}
}

// Validate reports the first field that would break an engine invariant.
func (c Config) Validate() error {
	switch {
	case c.BaseCellPx <= 0:
		return fmt.Errorf("fogrid: config: BaseCellPx must be > 0, got %v", c.BaseCellPx)
	case c.ZoomMin <= 0:
		return fmt.Errorf("fogrid: config: ZoomMin must be > 0, got %v", c.ZoomMin)
	case c.ZoomMax < c.ZoomMin:
		return fmt.Errorf("fogrid: config: ZoomMax %v below ZoomMin %v", c.ZoomMax, c.ZoomMin)
	case c.ZoomEase <= 0 || c.ZoomEase > 1:
		return fmt.Errorf("fogrid: config: ZoomEase must be in (0,1], got %v", c.ZoomEase)
	case c.GlowEase <= 0 || c.GlowEase > 1:
		return fmt.Errorf("fogrid: config: GlowEase must be in (0,1], got %v", c.GlowEase)
	case c.GrowEase <= 0 || c.GrowEase > 1:
		return fmt.Errorf("fogrid: config: GrowEase must be in (0,1], got %v", c.GrowEase)
	case c.InertiaFriction <= 0:
		return fmt.Errorf("fogrid: config: InertiaFriction must be > 0, got %v", c.InertiaFriction)
	case c.InertiaMinSpeed <= 0 || c.InertiaMaxSpeed < c.InertiaMinSpeed:
		return fmt.Errorf("fogrid: config: inertia speeds out of order (min %v, max %v)",
			c.InertiaMinSpeed, c.InertiaMaxSpeed)
	case c.FlySpeed <= 0:
		return fmt.Errorf("fogrid: config: FlySpeed must be > 0, got %v", c.FlySpeed)
	case c.VisibilityRadius < 0:
		return fmt.Errorf("fogrid: config: VisibilityRadius must be >= 0, got %d", c.VisibilityRadius)
	case c.FogCreepMin < 0 || c.FogCreepMax < c.FogCreepMin:
		return fmt.Errorf("fogrid: config: creep range [%v,%v] invalid", c.FogCreepMin, c.FogCreepMax)
	case c.FogCreepSegments < 1:
		return fmt.Errorf("fogrid: config: FogCreepSegments must be >= 1, got %d", c.FogCreepSegments)
	case c.NoiseTileSize < 1:
		return fmt.Errorf("fogrid: config: NoiseTileSize must be >= 1, got %d", c.NoiseTileSize)
	}
	return nil
}

// easeFactor converts a per-reference-frame easing fraction into the
// fraction for an elapsed time of dtMs, so convergence does not depend on
// the tick rate.
func easeFactor(perFrame, dtMs float64) float64 {
	if dtMs <= 0 {
		return 0
	}
	return 1 - math.Pow(1-perFrame, dtMs/refFrameMs)
}
