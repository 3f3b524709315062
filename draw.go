package fogrid

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

// Hover glow geometry, in pixels.
const (
	glowStrokeBase  = 2
	glowStrokeGrow  = 2
	glowEmptyStroke = 2
	glowBlurBase    = 6
	glowBlurGrow    = 10
	glowBlurEmpty   = 4
	glowHaloRings   = 5
	glowImageAlpha  = 0.9
	overlayFontSize = 13
)

// Renderer composes a frame from engine state: background, grid lines,
// cell images, fog, hover glow, the coordinate overlay and the viewer. It
// only reads the engine.
type Renderer struct {
	Theme Theme
	// ShowCoords draws the hovered cell coordinates in the top-left corner.
	ShowCoords bool

	face     *text.GoTextFace
	fogLayer *RenderTexture
	sprites  map[*Content]*ebiten.Image
}

// NewRenderer creates a renderer using theme.
func NewRenderer(theme Theme) (*Renderer, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("fogrid: load overlay font: %w", err)
	}
	return &Renderer{
		Theme:      theme,
		ShowCoords: true,
		face:       &text.GoTextFace{Source: src, Size: overlayFontSize},
		sprites:    make(map[*Content]*ebiten.Image),
	}, nil
}

// Draw renders the whole board onto screen.
func (r *Renderer) Draw(screen *ebiten.Image, e *Engine) {
	r.drawBackground(screen, e)
	r.drawSprites(screen, e)
	r.drawFog(screen, e)
	r.drawGlow(screen, e)
	if r.ShowCoords {
		r.drawCoords(screen, e)
	}
	r.drawViewer(screen, e)
}

func (r *Renderer) drawBackground(screen *ebiten.Image, e *Engine) {
	vp := e.Camera().Viewport()
	w, h := float32(vp.X), float32(vp.Y)
	vector.FillRect(screen, 0, 0, w, h, nrgba(r.Theme.Background, r.Theme.BackgroundAlpha), false)

	origin, _ := e.CameraTransform()
	size := e.Camera().CellSize()
	grid := nrgba(r.Theme.Grid, r.Theme.GridAlpha)
	for x := -wrap(origin.X, size); x <= vp.X; x += size {
		vector.StrokeLine(screen, float32(x), 0, float32(x), h, 1, grid, false)
	}
	for y := -wrap(origin.Y, size); y <= vp.Y; y += size {
		vector.StrokeLine(screen, 0, float32(y), w, float32(y), 1, grid, false)
	}
}

// spriteRect returns where content c sits in cell rect cell: fit inside
// the cell without upscaling, centred, and grown around its centre by grown.
func spriteRect(c *Content, cell Rect, grown float64) Rect {
	cw, ch := float64(c.Width()), float64(c.Height())
	base := math.Min(1, math.Min(cell.Width/cw, cell.Height/ch))
	bw, bh := cw*base, ch*base
	return Rect{
		X:      cell.X + (cell.Width-bw)/2 - bw*(grown-1)/2,
		Y:      cell.Y + (cell.Height-bh)/2 - bh*(grown-1)/2,
		Width:  bw * grown,
		Height: bh * grown,
	}
}

// visibleCells calls fn for every cell overlapping the viewport.
func visibleCells(e *Engine, fn func(key CellKey, rect Rect)) {
	cam := e.Camera()
	view, size, vp := cam.View(), cam.CellSize(), cam.Viewport()
	first := ScreenToCell(Vec2{}, view, size)
	last := ScreenToCell(vp, view, size)
	for row := first.Row; row <= last.Row; row++ {
		for col := first.Col; col <= last.Col; col++ {
			k := CellKey{Row: row, Col: col}
			fn(k, CellToScreenRect(k, view, size))
		}
	}
}

func (r *Renderer) drawSprites(screen *ebiten.Image, e *Engine) {
	hovered, hasHover := e.CurrentHover()
	store := e.Store()
	var top *Content
	var topRect Rect

	visibleCells(e, func(k CellKey, cell Rect) {
		c, ok := store.Get(k)
		if !ok {
			return
		}
		if hasHover && k == hovered {
			// Drawn last so the grown sprite overlaps its neighbours.
			top = c
			topRect = spriteRect(c, cell, 1+e.Config().HoverGrow*e.Hover().GrowT())
			return
		}
		r.drawContent(screen, c, spriteRect(c, cell, 1))
	})
	if top != nil {
		r.drawContent(screen, top, topRect)
	}
}

func (r *Renderer) drawContent(screen *ebiten.Image, c *Content, dst Rect) {
	drawImage(screen, r.contentImage(c), contentDrawOpts(c, dst))
}

// contentDrawOpts scales c's native pixels onto dst without smoothing.
func contentDrawOpts(c *Content, dst Rect) DrawOpts {
	return DrawOpts{
		X:      dst.X,
		Y:      dst.Y,
		ScaleX: dst.Width / float64(c.Width()),
		ScaleY: dst.Height / float64(c.Height()),
		Filter: ebiten.FilterNearest,
	}
}

// contentImage uploads c once and caches the GPU image.
func (r *Renderer) contentImage(c *Content) *ebiten.Image {
	if img, ok := r.sprites[c]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(c.Image)
	r.sprites[c] = img
	return img
}

// drawFog fills an offscreen layer with the scrolled noise over a flat
// fog colour, clips it to the mask, and composites it onto screen.
func (r *Renderer) drawFog(screen *ebiten.Image, e *Engine) {
	mask := e.FogMask()
	if r.fogLayer == nil {
		r.fogLayer = NewRenderTexture(mask.Width(), mask.Height())
	}
	r.fogLayer.Resize(mask.Width(), mask.Height())

	layer := r.fogLayer
	layer.Fill(ColorBlack.WithAlpha(e.Config().FogAlpha))
	noise := e.Noise().Image().Image()
	n := float64(e.Noise().Size())
	off := e.FogScrollOffset()
	for y := -off.Y; y < float64(layer.Height()); y += n {
		for x := -off.X; x < float64(layer.Width()); x += n {
			layer.DrawImage(noise, DrawOpts{X: x, Y: y})
		}
	}
	layer.DrawImage(mask.Image().Image(), DrawOpts{BlendMode: BlendMask})
	drawImage(screen, layer.Image(), DrawOpts{})
}

func (r *Renderer) drawGlow(screen *ebiten.Image, e *Engine) {
	key, ok := e.CurrentHover()
	glowT := e.Hover().GlowT()
	if !ok || glowT < 0.001 {
		return
	}
	cam := e.Camera()
	size := cam.CellSize()
	cell := CellToScreenRect(key, cam.View(), size)

	var rect Rect
	var stroke, blur, alpha float64
	if c, has := e.Store().Get(key); has {
		grown := 1 + e.Config().HoverGrow*e.Hover().GrowT()
		rect = spriteRect(c, cell, grown)
		stroke = glowStrokeBase + (grown-1)*glowStrokeGrow
		blur = glowBlurBase + (grown-1)*glowBlurGrow
		alpha = glowImageAlpha
	} else {
		rect = cell
		stroke = glowEmptyStroke
		blur = glowBlurEmpty
		alpha = r.Theme.EmptyGlowAlpha
	}
	pad := stroke / 2
	rect = Rect{X: rect.X - pad, Y: rect.Y - pad, Width: rect.Width + 2*pad, Height: rect.Height + 2*pad}

	// Soft halo: widening rings that fade toward the background colour.
	spread := blur * glowT
	for i := glowHaloRings; i >= 1; i-- {
		k := float64(i) / glowHaloRings
		w := stroke + spread*k
		c := r.Theme.GlowBlend(k * 0.6)
		strokeRect(screen, rect, w, nrgba(c, alpha*glowT*(1-k)*0.5))
	}
	strokeRect(screen, rect, stroke, nrgba(r.Theme.Glow, alpha*glowT))
	strokeRect(screen, rect, 1, nrgba(r.Theme.Glow, r.Theme.FrameAlpha*glowT))
}

func strokeRect(dst *ebiten.Image, rc Rect, width float64, c color.Color) {
	vector.StrokeRect(dst, float32(rc.X), float32(rc.Y), float32(rc.Width), float32(rc.Height), float32(width), c, true)
}

// coordLabel formats the hover coordinates for the overlay.
func coordLabel(e *Engine) string {
	x, y, ok := e.HoverCoord()
	if !ok {
		return "Zona (-, -)"
	}
	return fmt.Sprintf("Zona (%d, %d)", x, y)
}

func (r *Renderer) drawCoords(screen *ebiten.Image, e *Engine) {
	label := coordLabel(e)
	tw, th := text.Measure(label, r.face, r.face.Size*1.1)
	const pad = 6
	vector.FillRect(screen, 8, 8, float32(tw)+2*pad, float32(th)+2*pad, color.NRGBA{0, 0, 0, 153}, true)

	op := &text.DrawOptions{}
	op.GeoM.Translate(8+pad, 8+pad)
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, label, r.face, op)
}

// drawViewer shows the selected cell's image at full size over a dimmed
// board, limited to 90% of the viewport.
func (r *Renderer) drawViewer(screen *ebiten.Image, e *Engine) {
	key, ok := e.Viewing()
	if !ok {
		return
	}
	c, ok := e.Store().Get(key)
	if !ok {
		return
	}
	vp := e.Camera().Viewport()
	vector.FillRect(screen, 0, 0, float32(vp.X), float32(vp.Y), color.NRGBA{0, 0, 0, 204}, false)

	cw, ch := float64(c.Width()), float64(c.Height())
	scale := math.Min(1, math.Min(vp.X*0.9/cw, vp.Y*0.9/ch))
	r.drawContent(screen, c, Rect{
		X:      (vp.X - cw*scale) / 2,
		Y:      (vp.Y - ch*scale) / 2,
		Width:  cw * scale,
		Height: ch * scale,
	})
}

// Dispose releases the renderer's GPU images.
func (r *Renderer) Dispose() {
	for c, img := range r.sprites {
		img.Deallocate()
		delete(r.sprites, c)
	}
	if r.fogLayer != nil {
		r.fogLayer.Dispose()
		r.fogLayer = nil
	}
}

// Forget drops the cached GPU image for c, after it was replaced or
// removed from the store.
func (r *Renderer) Forget(c *Content) {
	if img, ok := r.sprites[c]; ok {
		img.Deallocate()
		delete(r.sprites, c)
	}
}

// nrgba converts c with alpha a to a non-premultiplied color.Color.
func nrgba(c Color, a float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: uint8(clamp01(c.A*a)*255 + 0.5),
	}
}
