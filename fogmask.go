package fogrid

import (
	"image"
	"math"
)

// maskOpKind identifies one step of a fog repaint.
type maskOpKind uint8

const (
	opFill  maskOpKind = iota // set every pixel to alpha
	opHole                    // subtract a feathered rectangle over a visible cell
	opCreep                   // subtract a partial-opacity strip into a ring cell
	opBlob                    // subtract a soft round bite into a ring cell
)

// maskOp is a single fill or subtract step. Subtracting composes as
// destination-out: dst *= 1 - alpha*coverage.
type maskOp struct {
	kind   maskOpKind
	rect   Rect
	center Vec2
	radius float64
	sigma  float64
	alpha  float64
}

// Side indices for creeping edges, matching edgeOffsets.
const (
	sideTop = iota
	sideRight
	sideBottom
	sideLeft
)

// FogMask is the offscreen alpha mask of the fog: 1 where the grid is
// hidden, 0 over revealed cells, with feathered organic edges in between.
// It is a CPU buffer; Image uploads it to the GPU on demand.
//
// Every Repaint is a full redraw from the inputs. The mask keeps no state
// between repaints beyond its buffers.
type FogMask struct {
	cfg   Config
	w, h  int
	alpha []float32
	ops   []maskOp

	rowBuf []float32
	colBuf []float32

	rt    *RenderTexture
	pix   []byte
	stale bool
}

// NewFogMask creates a fully opaque mask of the given size.
func NewFogMask(cfg Config, w, h int) *FogMask {
	m := &FogMask{cfg: cfg}
	m.Resize(w, h)
	return m
}

// Width returns the mask width in pixels.
func (m *FogMask) Width() int { return m.w }

// Height returns the mask height in pixels.
func (m *FogMask) Height() int { return m.h }

// Resize reallocates the buffers for a new viewport size. The contents are
// reset to fully opaque until the next Repaint.
func (m *FogMask) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if w == m.w && h == m.h && m.alpha != nil {
		return
	}
	m.w, m.h = w, h
	m.alpha = make([]float32, w*h)
	for i := range m.alpha {
		m.alpha[i] = 1
	}
	m.pix = nil
	if m.rt != nil {
		m.rt.Resize(w, h)
	}
	m.stale = true
}

// Alpha returns the mask value at pixel (x, y) in [0, 1]. Out-of-range
// pixels report fully fogged.
func (m *FogMask) Alpha(x, y int) float64 {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return 1
	}
	return float64(m.alpha[y*m.w+x])
}

// OpCount returns how many operations the last repaint applied.
func (m *FogMask) OpCount() int { return len(m.ops) }

// Repaint rebuilds the mask: fill, then one hole per visible cell, then the
// creep strips and bites along every ring edge that touches a visible cell.
// Only cells that can affect the viewport produce operations.
func (m *FogMask) Repaint(visible, ring CellSet, view CameraView, cellSize float64) {
	m.ops = m.ops[:0]
	m.ops = append(m.ops, maskOp{kind: opFill, alpha: 1})

	sigma := m.cfg.FogFeatherPx / 2
	inset := m.cfg.FogHoleInset * cellSize
	reach := 3*sigma + cellSize*m.cfg.FogCreepMax
	vp := Rect{X: -reach, Y: -reach, Width: float64(m.w) + 2*reach, Height: float64(m.h) + 2*reach}

	for _, k := range visible.Keys() {
		r := CellToScreenRect(k, view, cellSize)
		if !r.Intersects(vp) {
			continue
		}
		m.ops = append(m.ops, maskOp{kind: opHole, rect: r.Inset(inset), sigma: sigma, alpha: 1})
	}

	for _, k := range ring.Keys() {
		r := CellToScreenRect(k, view, cellSize)
		if !r.Intersects(vp) {
			continue
		}
		for side, d := range edgeOffsets {
			if !visible.Has(k.Offset(d.Row, d.Col)) {
				continue
			}
			m.appendCreep(k, side, r, cellSize, inset, sigma/2)
		}
	}

	m.apply()
	m.stale = true
}

// appendCreep adds the jittered strips and bites for one edge of ring cell
// k that borders a visible cell. Strips start inset pixels inside the
// visible neighbour so they meet its hole.
func (m *FogMask) appendCreep(k CellKey, side int, r Rect, size, inset, sigma float64) {
	n := m.cfg.FogCreepSegments
	seg := size / float64(n)
	span := m.cfg.FogCreepMax - m.cfg.FogCreepMin

	for i := 0; i < n; i++ {
		salt := uint32(side*64 + i)
		depth := (m.cfg.FogCreepMin + span*Rand01(k.Row, k.Col, salt)) * size
		along := float64(i) * seg
		m.ops = append(m.ops, maskOp{
			kind:  opCreep,
			rect:  edgeStrip(r, side, along, seg, depth, inset),
			sigma: sigma,
			alpha: m.cfg.FogCreepAlpha,
		})
	}

	blobs := m.cfg.FogCreepBlobs
	rSpan := m.cfg.FogCreepBlobRMax - m.cfg.FogCreepBlobRMin
	for j := 0; j < blobs; j++ {
		base := uint32(0x1000 + side*64 + j*4)
		t := (float64(j) + 0.1 + 0.8*Rand01(k.Row, k.Col, base)) / float64(blobs)
		depth := m.cfg.FogCreepMax * Rand01(k.Row, k.Col, base|1) * size
		radius := (m.cfg.FogCreepBlobRMin + rSpan*Rand01(k.Row, k.Col, base|2)) * size
		m.ops = append(m.ops, maskOp{
			kind:   opBlob,
			center: edgePoint(r, side, t*size, depth),
			radius: radius,
			alpha:  m.cfg.FogCreepAlpha,
		})
	}
}

// edgeStrip returns the rectangle of a creep segment: it runs along the
// given side of r from along to along+length, and reaches depth pixels into
// r plus inset pixels outward.
func edgeStrip(r Rect, side int, along, length, depth, inset float64) Rect {
	switch side {
	case sideTop:
		return Rect{X: r.X + along, Y: r.Y - inset, Width: length, Height: depth + inset}
	case sideBottom:
		return Rect{X: r.X + along, Y: r.Y + r.Height - depth, Width: length, Height: depth + inset}
	case sideLeft:
		return Rect{X: r.X - inset, Y: r.Y + along, Width: depth + inset, Height: length}
	default:
		return Rect{X: r.X + r.Width - depth, Y: r.Y + along, Width: depth + inset, Height: length}
	}
}

// edgePoint returns the point along pixels down the given side of r and
// depth pixels inward.
func edgePoint(r Rect, side int, along, depth float64) Vec2 {
	switch side {
	case sideTop:
		return Vec2{X: r.X + along, Y: r.Y + depth}
	case sideBottom:
		return Vec2{X: r.X + along, Y: r.Y + r.Height - depth}
	case sideLeft:
		return Vec2{X: r.X + depth, Y: r.Y + along}
	default:
		return Vec2{X: r.X + r.Width - depth, Y: r.Y + along}
	}
}

// apply runs the op list in order against the alpha buffer.
func (m *FogMask) apply() {
	for i := range m.ops {
		op := &m.ops[i]
		switch op.kind {
		case opFill:
			a := float32(op.alpha)
			for j := range m.alpha {
				m.alpha[j] = a
			}
		case opHole, opCreep:
			m.subtractBox(op.rect, op.sigma, op.alpha)
		case opBlob:
			m.subtractDisc(op.center, op.radius, op.alpha)
		}
	}
}

// subtractBox removes a Gaussian-blurred rectangle. A blurred box is
// separable, so coverage is the product of two 1D erf profiles.
func (m *FogMask) subtractBox(r Rect, sigma, alpha float64) {
	if r.Width <= 0 || r.Height <= 0 || alpha <= 0 {
		return
	}
	pad := 3 * sigma
	x0 := max(0, int(math.Floor(r.X-pad)))
	x1 := min(m.w, int(math.Ceil(r.X+r.Width+pad)))
	y0 := max(0, int(math.Floor(r.Y-pad)))
	y1 := min(m.h, int(math.Ceil(r.Y+r.Height+pad)))
	if x0 >= x1 || y0 >= y1 {
		return
	}

	m.colBuf = boxProfile(m.colBuf[:0], x0, x1, r.X, r.X+r.Width, sigma)
	m.rowBuf = boxProfile(m.rowBuf[:0], y0, y1, r.Y, r.Y+r.Height, sigma)

	a := float32(alpha)
	for y := y0; y < y1; y++ {
		cy := m.rowBuf[y-y0]
		if cy == 0 {
			continue
		}
		row := m.alpha[y*m.w : (y+1)*m.w]
		for x := x0; x < x1; x++ {
			cov := m.colBuf[x-x0] * cy
			row[x] *= 1 - a*cov
		}
	}
}

// boxProfile appends the 1D coverage of the interval [lo, hi] blurred by
// sigma, sampled at pixel centres from start to end.
func boxProfile(buf []float32, start, end int, lo, hi, sigma float64) []float32 {
	if sigma <= 0 {
		for p := start; p < end; p++ {
			c := float64(p) + 0.5
			if c >= lo && c < hi {
				buf = append(buf, 1)
			} else {
				buf = append(buf, 0)
			}
		}
		return buf
	}
	k := 1 / (sigma * math.Sqrt2)
	for p := start; p < end; p++ {
		c := float64(p) + 0.5
		v := 0.5 * (math.Erf((c-lo)*k) - math.Erf((c-hi)*k))
		buf = append(buf, float32(clamp01(v)))
	}
	return buf
}

// subtractDisc removes a soft disc with smoothstep falloff from the centre
// to the rim.
func (m *FogMask) subtractDisc(c Vec2, radius, alpha float64) {
	if radius <= 0 || alpha <= 0 {
		return
	}
	x0 := max(0, int(math.Floor(c.X-radius)))
	x1 := min(m.w, int(math.Ceil(c.X+radius)))
	y0 := max(0, int(math.Floor(c.Y-radius)))
	y1 := min(m.h, int(math.Ceil(c.Y+radius)))
	for y := y0; y < y1; y++ {
		dy := float64(y) + 0.5 - c.Y
		for x := x0; x < x1; x++ {
			dx := float64(x) + 0.5 - c.X
			dist := math.Sqrt(dx*dx+dy*dy) / radius
			if dist >= 1 {
				continue
			}
			t := 1 - dist
			cov := t * t * (3 - 2*t)
			m.alpha[y*m.w+x] *= float32(1 - alpha*cov)
		}
	}
}

// AlphaImage returns a copy of the mask as an 8-bit alpha image.
func (m *FogMask) AlphaImage() *image.Alpha {
	img := image.NewAlpha(image.Rect(0, 0, m.w, m.h))
	for i, a := range m.alpha {
		img.Pix[i] = uint8(clamp01(float64(a))*255 + 0.5)
	}
	return img
}

// pixels converts the mask to premultiplied white RGBA for upload.
func (m *FogMask) pixels() []byte {
	if len(m.pix) != m.w*m.h*4 {
		m.pix = make([]byte, m.w*m.h*4)
	}
	for i, a := range m.alpha {
		v := uint8(clamp01(float64(a))*255 + 0.5)
		off := i * 4
		m.pix[off+0] = v
		m.pix[off+1] = v
		m.pix[off+2] = v
		m.pix[off+3] = v
	}
	return m.pix
}

// Image returns the mask as a GPU texture, uploading it if it changed
// since the last call.
func (m *FogMask) Image() *RenderTexture {
	if m.rt == nil {
		m.rt = NewRenderTexture(m.w, m.h)
		m.stale = true
	}
	if m.stale {
		m.rt.WritePixels(m.pixels())
		m.stale = false
	}
	return m.rt
}

// Dispose releases the GPU texture. The CPU buffer stays usable.
func (m *FogMask) Dispose() {
	if m.rt != nil {
		m.rt.Dispose()
		m.rt = nil
	}
}
