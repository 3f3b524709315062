package fogrid

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsRefresh is how often the FPS readout is redrawn.
const fpsRefresh = 500 * time.Millisecond

// fpsWidget displays the current FPS and TPS. The text is redrawn into a
// small cached image every fpsRefresh instead of every frame.
type fpsWidget struct {
	img   *ebiten.Image
	since time.Duration
}

func newFPSWidget() *fpsWidget {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	return &fpsWidget{img: ebiten.NewImage(100, 32), since: fpsRefresh}
}

func (w *fpsWidget) update(dt time.Duration) {
	w.since += dt
	if w.since < fpsRefresh {
		return
	}
	w.since = 0

	w.img.Clear()
	// Semi-transparent background for readability
	w.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(w.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

// draw places the readout in the bottom-left corner of screen.
func (w *fpsWidget) draw(screen *ebiten.Image) {
	drawImage(screen, w.img, DrawOpts{X: 4, Y: float64(screen.Bounds().Dy() - w.img.Bounds().Dy() - 4)})
}
