package fogrid

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoding
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding
	"io"
	"math"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"  // register BMP decoding
	_ "golang.org/x/image/webp" // register WebP decoding
)

// PaletteMode selects an optional colour reduction applied after scaling.
type PaletteMode uint8

const (
	PaletteNone   PaletteMode = iota // keep source colours
	PaletteDB16                      // nearest DawnBringer 16 colour
	PaletteRGB332                    // 3-3-2 bits per channel
)

// DefaultMaxWidth is the widest image kept in a cell before downscaling.
const DefaultMaxWidth = 1024

// PixelateOptions controls Pixelate.
type PixelateOptions struct {
	// MaxWidth caps the output width. Zero means DefaultMaxWidth.
	MaxWidth int
	// AllowUpscale lets images narrower than MaxWidth grow to it.
	AllowUpscale bool
	// Palette reduces colours after scaling.
	Palette PaletteMode
}

// db16 is the DawnBringer 16 palette.
var db16 = color.Palette{
	color.RGBA{20, 12, 28, 255}, color.RGBA{68, 36, 52, 255}, color.RGBA{48, 52, 109, 255}, color.RGBA{78, 74, 78, 255},
	color.RGBA{133, 76, 48, 255}, color.RGBA{52, 101, 36, 255}, color.RGBA{208, 70, 72, 255}, color.RGBA{117, 113, 97, 255},
	color.RGBA{89, 125, 206, 255}, color.RGBA{210, 125, 44, 255}, color.RGBA{133, 149, 161, 255}, color.RGBA{109, 170, 44, 255},
	color.RGBA{210, 170, 153, 255}, color.RGBA{109, 194, 202, 255}, color.RGBA{218, 212, 94, 255}, color.RGBA{222, 238, 214, 255},
}

// Pixelate returns img limited to MaxWidth using nearest-neighbour
// sampling, so pixel art keeps hard edges. The aspect ratio is preserved.
// Images already within the limit are copied 1:1 unless AllowUpscale is
// set.
func Pixelate(img image.Image, opts PixelateOptions) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("pixelate: nil image")
	}
	b := img.Bounds()
	iw, ih := b.Dx(), b.Dy()
	if iw <= 0 || ih <= 0 {
		return nil, fmt.Errorf("pixelate: empty image %dx%d", iw, ih)
	}
	maxW := opts.MaxWidth
	if maxW <= 0 {
		maxW = DefaultMaxWidth
	}

	tw, th := iw, ih
	if iw > maxW || opts.AllowUpscale {
		tw = maxW
		th = max(1, int(math.Round(float64(ih)*float64(tw)/float64(iw))))
	}

	out := image.NewNRGBA(image.Rect(0, 0, tw, th))
	if tw == iw && th == ih {
		draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.NearestNeighbor.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	}
	applyPalette(out, opts.Palette)
	return out, nil
}

// applyPalette maps every pixel of img in place. Alpha is kept.
func applyPalette(img *image.NRGBA, mode PaletteMode) {
	if mode == PaletteNone {
		return
	}
	for i := 0; i+3 < len(img.Pix); i += 4 {
		r, g, b := img.Pix[i], img.Pix[i+1], img.Pix[i+2]
		switch mode {
		case PaletteDB16:
			r, g, b = nearestDB16(r, g, b)
		case PaletteRGB332:
			r, g, b = toRGB332(r, g, b)
		}
		img.Pix[i], img.Pix[i+1], img.Pix[i+2] = r, g, b
	}
}

// nearestDB16 returns the palette entry with the smallest squared RGB
// distance. Ties go to the earlier entry.
func nearestDB16(r, g, b uint8) (uint8, uint8, uint8) {
	best := 0
	bestD := math.MaxInt
	for i, p := range db16 {
		c := p.(color.RGBA)
		dr := int(r) - int(c.R)
		dg := int(g) - int(c.G)
		db := int(b) - int(c.B)
		if d := dr*dr + dg*dg + db*db; d < bestD {
			best, bestD = i, d
		}
	}
	c := db16[best].(color.RGBA)
	return c.R, c.G, c.B
}

// toRGB332 quantizes to 3 bits red, 3 bits green and 2 bits blue, then
// expands back to 8 bits per channel.
func toRGB332(r, g, b uint8) (uint8, uint8, uint8) {
	q := func(v uint8, levels float64) uint8 {
		n := math.Round(float64(v) / 255 * levels)
		return uint8(math.Round(n * 255 / levels))
	}
	return q(r, 7), q(g, 7), q(b, 3)
}

// DecodeContent decodes a PNG, JPEG, GIF, BMP or WebP image from r and
// pixelates it.
func DecodeContent(r io.Reader, name string, opts PixelateOptions) (*Content, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode content %q: %w", name, err)
	}
	out, err := Pixelate(img, opts)
	if err != nil {
		return nil, fmt.Errorf("decode content %q (%s): %w", name, format, err)
	}
	return &Content{Image: out, Name: name}, nil
}
