package fogrid

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func TestPixelateDownscalesWide(t *testing.T) {
	out, err := Pixelate(image.NewNRGBA(image.Rect(0, 0, 2048, 100)), PixelateOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if b := out.Bounds(); b.Dx() != 1024 || b.Dy() != 50 {
		t.Errorf("size = %dx%d, want 1024x50", b.Dx(), b.Dy())
	}
}

func TestPixelateKeepsSmallImages(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 10, 110, 60))
	src.SetNRGBA(10, 10, color.NRGBA{255, 0, 0, 255})
	out, err := Pixelate(src, PixelateOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if b := out.Bounds(); b.Min != (image.Point{}) || b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("bounds = %v, want 100x50 at the origin", b)
	}
	if got := out.NRGBAAt(0, 0); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("first pixel = %v, want red", got)
	}
}

func TestPixelateUpscale(t *testing.T) {
	out, err := Pixelate(image.NewNRGBA(image.Rect(0, 0, 100, 50)), PixelateOptions{MaxWidth: 200, AllowUpscale: true})
	if err != nil {
		t.Fatal(err)
	}
	if b := out.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("size = %dx%d, want 200x100", b.Dx(), b.Dy())
	}
}

func TestPixelateNearestNeighbour(t *testing.T) {
	red := color.NRGBA{255, 0, 0, 255}
	blue := color.NRGBA{0, 0, 255, 255}
	src := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	src.SetNRGBA(0, 0, red)
	src.SetNRGBA(1, 0, red)
	src.SetNRGBA(2, 0, blue)
	src.SetNRGBA(3, 0, blue)

	out, err := Pixelate(src, PixelateOptions{MaxWidth: 2})
	if err != nil {
		t.Fatal(err)
	}
	if out.NRGBAAt(0, 0) != red || out.NRGBAAt(1, 0) != blue {
		t.Errorf("pixels = %v %v, want hard red/blue", out.NRGBAAt(0, 0), out.NRGBAAt(1, 0))
	}
}

func TestPixelateRejectsEmpty(t *testing.T) {
	if _, err := Pixelate(nil, PixelateOptions{}); err == nil {
		t.Error("expected error for nil image")
	}
	if _, err := Pixelate(image.NewNRGBA(image.Rect(0, 0, 0, 5)), PixelateOptions{}); err == nil {
		t.Error("expected error for empty image")
	}
}

func TestPalettes(t *testing.T) {
	if r, g, b := nearestDB16(0, 0, 0); r != 20 || g != 12 || b != 28 {
		t.Errorf("nearestDB16(black) = %d,%d,%d, want 20,12,28", r, g, b)
	}
	if r, g, b := nearestDB16(222, 238, 214); r != 222 || g != 238 || b != 214 {
		t.Errorf("palette colour moved: %d,%d,%d", r, g, b)
	}
	if r, g, b := toRGB332(255, 255, 255); r != 255 || g != 255 || b != 255 {
		t.Errorf("toRGB332(white) = %d,%d,%d", r, g, b)
	}
	if _, _, b := toRGB332(0, 0, 128); b != 170 {
		t.Errorf("toRGB332 blue 128 = %d, want 170", b)
	}

	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{1, 2, 3, 77})
	applyPalette(img, PaletteDB16)
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{20, 12, 28, 77}) {
		t.Errorf("applyPalette = %v, want DB16 black with alpha kept", got)
	}
}

func TestDecodeContent(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	c, err := DecodeContent(&buf, "tile.png", PixelateOptions{})
	if err != nil {
		t.Fatalf("DecodeContent: %v", err)
	}
	if c.Name != "tile.png" || c.Width() != 3 || c.Height() != 2 {
		t.Errorf("content = %q %dx%d", c.Name, c.Width(), c.Height())
	}

	_, err = DecodeContent(strings.NewReader("not an image"), "junk.bin", PixelateOptions{})
	if err == nil || !strings.Contains(err.Error(), "junk.bin") {
		t.Errorf("err = %v, want a decode error naming the file", err)
	}
}
