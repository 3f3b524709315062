package fogrid

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorBlack is the fog tint. Fog is black in both light and dark themes.
var ColorBlack = Color{0, 0, 0, 1}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Vec2 is a 2D vector used for positions, offsets, sizes, and velocities.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * k.
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Inset shrinks the rectangle by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
}

// CellKey addresses one grid cell. Rows grow downward, columns to the right.
type CellKey struct {
	Row, Col int
}

// String returns the canonical "row:col" form used at interface boundaries.
func (k CellKey) String() string {
	return strconv.Itoa(k.Row) + ":" + strconv.Itoa(k.Col)
}

// Offset returns the key shifted by (dRow, dCol).
func (k CellKey) Offset(dRow, dCol int) CellKey {
	return CellKey{Row: k.Row + dRow, Col: k.Col + dCol}
}

// ParseCellKey parses the canonical "row:col" form.
func ParseCellKey(s string) (CellKey, error) {
	rs, cs, ok := strings.Cut(s, ":")
	if !ok {
		return CellKey{}, fmt.Errorf("fogrid: parse cell key %q: missing ':'", s)
	}
	r, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return CellKey{}, fmt.Errorf("fogrid: parse cell key %q: row: %w", s, err)
	}
	c, err := strconv.Atoi(strings.TrimSpace(cs))
	if err != nil {
		return CellKey{}, fmt.Errorf("fogrid: parse cell key %q: col: %w", s, err)
	}
	return CellKey{Row: r, Col: c}, nil
}

// CellSet is an unordered set of cell keys.
type CellSet map[CellKey]struct{}

// Has reports whether k is in the set.
func (s CellSet) Has(k CellKey) bool {
	_, ok := s[k]
	return ok
}

// Add inserts k.
func (s CellSet) Add(k CellKey) {
	s[k] = struct{}{}
}

// Len returns the number of keys.
func (s CellSet) Len() int {
	return len(s)
}

// Equal reports whether both sets hold exactly the same keys.
func (s CellSet) Equal(other CellSet) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if _, ok := other[k]; !ok {
			return false
		}
	}
	return true
}

// Keys returns the keys sorted row-major.
func (s CellSet) Keys() []CellKey {
	keys := make([]CellKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Row != keys[j].Row {
			return keys[i].Row < keys[j].Row
		}
		return keys[i].Col < keys[j].Col
	})
	return keys
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendMask                    // clip destination to source alpha
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendMask:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorZero,
			BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
			BlendFactorDestinationRGB:   ebiten.BlendFactorSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	default:
		return ebiten.BlendSourceOver
	}
}

// CursorHint tells the host which native cursor matches the current
// interaction state.
type CursorHint uint8

const (
	CursorDefault  CursorHint = iota // nothing under the pointer
	CursorPointer                    // hovering a cell with content
	CursorGrab                       // pan modifier held, not dragging
	CursorGrabbing                   // dragging the view
)

// Key identifies the keyboard keys the engine reacts to. Hosts map their
// native key codes onto these.
type Key uint8

const (
	KeyUnknown Key = iota
	KeyPan         // pan modifier (Space)
	KeyUp          // W / ArrowUp
	KeyDown        // S / ArrowDown
	KeyLeft        // A / ArrowLeft
	KeyRight       // D / ArrowRight
	KeyHome        // recenter on (0,0)
	KeyEscape      // close the viewer
)
