package fogrid

import (
	"image"
	"math"
	"math/rand/v2"
)

// noisePass describes one layer of blobs stamped into the fog texture.
// Radii are fractions of the tile size.
type noisePass struct {
	blobs      int
	rMin, rMax float64
	alpha      float64
}

// noisePasses go from large soft shapes to fine detail.
var noisePasses = [...]noisePass{
	{blobs: 12, rMin: 0.22, rMax: 0.42, alpha: 0.08},
	{blobs: 18, rMin: 0.12, rMax: 0.26, alpha: 0.06},
	{blobs: 26, rMin: 0.06, rMax: 0.14, alpha: 0.045},
}

// noiseInnerRadius is where the blob gradient starts fading, as a fraction
// of the blob radius.
const noiseInnerRadius = 0.12

// noiseJitter is the maximum per-pixel alpha grain, in 8-bit units.
const noiseJitter = 3

// NoiseTexture is a seamlessly tileable alpha texture that gives the fog
// fill a cloudy look. It is generated once and then only scrolled.
type NoiseTexture struct {
	size  int
	alpha []uint8
	rt    *RenderTexture
}

// NewNoiseTexture builds a size×size tile from rng. The same rng state
// always yields the same tile.
func NewNoiseTexture(size int, rng *rand.Rand) *NoiseTexture {
	if size < 1 {
		size = 1
	}
	acc := make([]float64, size*size)
	fs := float64(size)
	for _, p := range noisePasses {
		for i := 0; i < p.blobs; i++ {
			x := rng.Float64() * fs
			y := rng.Float64() * fs
			r := fs * (p.rMin + rng.Float64()*(p.rMax-p.rMin))
			for _, dx := range [3]float64{-fs, 0, fs} {
				for _, dy := range [3]float64{-fs, 0, fs} {
					stampBlob(acc, size, x+dx, y+dy, r, p.alpha)
				}
			}
		}
	}

	n := &NoiseTexture{size: size, alpha: make([]uint8, size*size)}
	for i, a := range acc {
		v := a*255 + (rng.Float64()-0.5)*2*noiseJitter
		n.alpha[i] = uint8(math.Round(math.Max(0, math.Min(255, v))))
	}
	return n
}

// stampBlob composites a radial gradient disc over acc (source-over). The
// disc is opaque at alpha inside noiseInnerRadius*r and fades to 0 at r.
func stampBlob(acc []float64, size int, cx, cy, r, alpha float64) {
	x0 := max(0, int(math.Floor(cx-r)))
	x1 := min(size, int(math.Ceil(cx+r)))
	y0 := max(0, int(math.Floor(cy-r)))
	y1 := min(size, int(math.Ceil(cy+r)))
	inner := r * noiseInnerRadius
	for y := y0; y < y1; y++ {
		dy := float64(y) + 0.5 - cy
		for x := x0; x < x1; x++ {
			dx := float64(x) + 0.5 - cx
			d := math.Sqrt(dx*dx + dy*dy)
			if d >= r {
				continue
			}
			a := alpha
			if d > inner {
				a *= 1 - (d-inner)/(r-inner)
			}
			i := y*size + x
			acc[i] = a + acc[i]*(1-a)
		}
	}
}

// Size returns the tile edge length.
func (n *NoiseTexture) Size() int { return n.size }

// AlphaAt returns the 8-bit alpha at (x, y), wrapping both axes.
func (n *NoiseTexture) AlphaAt(x, y int) uint8 {
	x = ((x % n.size) + n.size) % n.size
	y = ((y % n.size) + n.size) % n.size
	return n.alpha[y*n.size+x]
}

// AlphaImage returns a copy of the tile as an 8-bit alpha image.
func (n *NoiseTexture) AlphaImage() *image.Alpha {
	img := image.NewAlpha(image.Rect(0, 0, n.size, n.size))
	copy(img.Pix, n.alpha)
	return img
}

// Image returns the tile as black premultiplied RGBA on the GPU,
// uploading it on first use.
func (n *NoiseTexture) Image() *RenderTexture {
	if n.rt != nil {
		return n.rt
	}
	pix := make([]byte, n.size*n.size*4)
	for i, a := range n.alpha {
		pix[i*4+3] = a
	}
	n.rt = NewRenderTexture(n.size, n.size)
	n.rt.WritePixels(pix)
	return n.rt
}

// Dispose releases the GPU texture.
func (n *NoiseTexture) Dispose() {
	if n.rt != nil {
		n.rt.Dispose()
		n.rt = nil
	}
}
