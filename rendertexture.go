package fogrid

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RenderTexture is a persistent offscreen canvas. The fog mask, the noise
// fill and the composed fog layer each own one and redraw it only when
// their inputs change.
type RenderTexture struct {
	image *ebiten.Image
	w, h  int
}

// NewRenderTexture creates an offscreen canvas of the given size.
func NewRenderTexture(w, h int) *RenderTexture {
	return &RenderTexture{
		image: ebiten.NewImage(w, h),
		w:     w,
		h:     h,
	}
}

// Image returns the underlying *ebiten.Image for direct manipulation.
func (rt *RenderTexture) Image() *ebiten.Image {
	return rt.image
}

// Width returns the texture width in pixels.
func (rt *RenderTexture) Width() int {
	return rt.w
}

// Height returns the texture height in pixels.
func (rt *RenderTexture) Height() int {
	return rt.h
}

// Fill fills the entire texture with the given color.
func (rt *RenderTexture) Fill(c Color) {
	rt.image.Fill(c.toRGBA())
}

// WritePixels replaces the contents with premultiplied RGBA bytes. len(pix)
// must be 4*Width*Height.
func (rt *RenderTexture) WritePixels(pix []byte) {
	rt.image.WritePixels(pix)
}

// DrawOpts places an image on a RenderTexture or the screen.
type DrawOpts struct {
	// X and Y are the top-left position in pixels.
	X, Y float64
	// ScaleX and ScaleY are scale factors. Zero defaults to 1.0.
	ScaleX, ScaleY float64
	// Filter selects texture sampling. Cell images use FilterNearest to
	// keep their pixelated look.
	Filter ebiten.Filter
	// BlendMode selects the compositing operation.
	BlendMode BlendMode
}

// DrawImage draws img onto the texture using opts.
func (rt *RenderTexture) DrawImage(img *ebiten.Image, opts DrawOpts) {
	drawImage(rt.image, img, opts)
}

// drawImage draws img onto dst using opts.
func drawImage(dst, img *ebiten.Image, opts DrawOpts) {
	var op ebiten.DrawImageOptions
	applyDrawOpts(&op, opts)
	dst.DrawImage(img, &op)
}

// applyDrawOpts configures an ebiten.DrawImageOptions from DrawOpts.
func applyDrawOpts(op *ebiten.DrawImageOptions, opts DrawOpts) {
	sx, sy := opts.ScaleX, opts.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	op.GeoM.Scale(sx, sy)
	op.GeoM.Translate(opts.X, opts.Y)
	op.Filter = opts.Filter
	op.Blend = opts.BlendMode.EbitenBlend()
}

// Resize deallocates the old image and creates a new one at the given dimensions.
func (rt *RenderTexture) Resize(width, height int) {
	if rt.image != nil && rt.w == width && rt.h == height {
		return
	}
	if rt.image != nil {
		rt.image.Deallocate()
	}
	rt.image = ebiten.NewImage(width, height)
	rt.w = width
	rt.h = height
}

// Dispose deallocates the underlying image. The RenderTexture should not be
// used after calling Dispose.
func (rt *RenderTexture) Dispose() {
	if rt.image != nil {
		rt.image.Deallocate()
		rt.image = nil
	}
}

// toRGBA converts a Color to a premultiplied color.RGBA-compatible value.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface for image.Fill.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
