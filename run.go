package fogrid

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// wheelLinePx converts Ebitengine wheel notches to pixel-style deltas.
const wheelLinePx = 100

// maxTickStep caps the elapsed time fed to one Tick, so a stalled frame
// does not fling the camera.
const maxTickStep = 100 * time.Millisecond

// Key repeat timing for keyboard navigation, in ticks.
const (
	keyRepeatDelay    = 24
	keyRepeatInterval = 6
)

// RunConfig configures the window and host behaviour for Run.
type RunConfig struct {
	// Title is the window title.
	Title string
	// Width and Height are the initial window size in pixels.
	Width, Height int
	// ShowFPS draws an FPS/TPS readout in the bottom-left corner.
	ShowFPS bool
	// Theme selects the board colours. Zero value uses ThemeLight.
	Theme Theme
	// ScreenshotDir is where P exports and script screenshots go.
	// Empty means "screenshots".
	ScreenshotDir string
	// Script, when set, is replayed one step per tick.
	Script *ScriptRunner
	// Pixelate controls how dropped images are reduced.
	Pixelate PixelateOptions
}

// ContentWriter is a ContentStore that also accepts new content. Dropped
// files are only accepted when the engine's store implements it.
type ContentWriter interface {
	ContentStore
	Set(key CellKey, c *Content)
}

// dropResult is a decoded dropped file waiting to be stored.
type dropResult struct {
	key     CellKey
	content *Content
	err     error
}

// Game adapts an Engine to ebiten.Game: it maps native input onto engine
// handlers, ticks with real elapsed time and draws through a Renderer.
type Game struct {
	engine   *Engine
	renderer *Renderer
	cfg      RunConfig

	shots  screenshotter
	last   time.Time
	width  int
	height int

	cursorIn bool
	lastPos  Vec2

	drops chan dropResult
	fps   *fpsWidget
}

// NewGame creates the ebiten.Game for e.
func NewGame(e *Engine, cfg RunConfig) (*Game, error) {
	if cfg.Theme == (Theme{}) {
		cfg.Theme = ThemeLight
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	r, err := NewRenderer(cfg.Theme)
	if err != nil {
		return nil, err
	}
	vp := e.Camera().Viewport()
	g := &Game{
		engine:   e,
		renderer: r,
		cfg:      cfg,
		shots:    screenshotter{dir: cfg.ScreenshotDir},
		width:    int(vp.X),
		height:   int(vp.Y),
		drops:    make(chan dropResult, 8),
	}
	if cfg.ShowFPS {
		g.fps = newFPSWidget()
	}
	if cfg.Script != nil {
		cfg.Script.OnScreenshot = g.shots.Queue
	}
	return g, nil
}

// Run opens a window and drives e until the window closes.
func Run(e *Engine, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		vp := e.Camera().Viewport()
		cfg.Width, cfg.Height = int(vp.X), int(vp.Y)
	}
	e.Resize(cfg.Width, cfg.Height)
	g, err := NewGame(e, cfg)
	if err != nil {
		return err
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("fogrid: run: %w", err)
	}
	return nil
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	now := time.Now()
	dt := time.Duration(0)
	if !g.last.IsZero() {
		dt = min(now.Sub(g.last), maxTickStep)
	}
	g.last = now

	e := g.engine
	e.Resize(g.width, g.height)
	g.receiveDrops()

	if g.cfg.Script != nil && !g.cfg.Script.Done() {
		g.cfg.Script.Step(e)
	} else {
		g.handleInput()
	}

	e.Tick(dt)
	if g.fps != nil {
		g.fps.update(dt)
	}
	ebiten.SetCursorShape(cursorShape(e.Cursor()))
	return nil
}

func (g *Game) handleInput() {
	e := g.engine

	// Pan modifier first so a press in the same frame starts a drag.
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		e.KeyDown(KeyPan)
	}
	if inpututil.IsKeyJustReleased(ebiten.KeySpace) {
		e.KeyUp(KeyPan)
	}

	cx, cy := ebiten.CursorPosition()
	pos := Vec2{X: float64(cx), Y: float64(cy)}
	in := cx >= 0 && cy >= 0 && cx < g.width && cy < g.height
	switch {
	case in && (!g.cursorIn || pos != g.lastPos):
		e.PointerMove(pos)
	case !in && g.cursorIn && !e.Camera().Dragging():
		e.PointerLeave()
	case !in && e.Camera().Dragging() && pos != g.lastPos:
		e.PointerMove(pos)
	}
	g.cursorIn, g.lastPos = in, pos

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if _, viewing := e.Viewing(); viewing {
			e.CloseViewer()
		} else {
			e.PointerDown(pos)
		}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		e.PointerUp(pos)
	}

	if _, wy := ebiten.Wheel(); wy != 0 && in {
		e.Wheel(pos, -wy*wheelLinePx)
	}

	navKeys := [...]struct {
		keys [2]ebiten.Key
		key  Key
	}{
		{[2]ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp}, KeyUp},
		{[2]ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown}, KeyDown},
		{[2]ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft}, KeyLeft},
		{[2]ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight}, KeyRight},
	}
	for _, nk := range navKeys {
		if repeatingKeyPressed(nk.keys[0]) || repeatingKeyPressed(nk.keys[1]) {
			e.KeyDown(nk.key)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) || inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		e.KeyDown(KeyHome)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		e.KeyDown(KeyEscape)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyHover()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.shots.Queue("board")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.exportMask()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		if g.renderer.Theme.Name == ThemeDark.Name {
			g.renderer.Theme = ThemeLight
		} else {
			g.renderer.Theme = ThemeDark
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		e.SetDebugMode(!e.DebugMode())
	}

	g.acceptDrops(pos)
}

// repeatingKeyPressed reports a press on the first tick and then at the
// repeat interval while held.
func repeatingKeyPressed(k ebiten.Key) bool {
	d := inpututil.KeyPressDuration(k)
	if d == 1 {
		return true
	}
	return d >= keyRepeatDelay && (d-keyRepeatDelay)%keyRepeatInterval == 0
}

// copyHover puts the hovered cell key on the system clipboard.
func (g *Game) copyHover() {
	key, ok := g.engine.CurrentHover()
	if !ok {
		return
	}
	if err := clipboard.WriteAll(key.String()); err != nil {
		log.Printf("fogrid: copy %s: %v", key, err)
	}
}

// exportMask writes the current fog mask next to the screenshots.
func (g *Game) exportMask() {
	if err := os.MkdirAll(g.cfg.ScreenshotDir, 0o755); err != nil {
		log.Printf("fogrid: export mask: %v", err)
		return
	}
	path := filepath.Join(g.cfg.ScreenshotDir,
		fmt.Sprintf("%s_fogmask.png", time.Now().Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		log.Printf("fogrid: export mask: %v", err)
		return
	}
	defer f.Close()
	if err := WriteMaskPNG(f, g.engine.FogMask()); err != nil {
		log.Printf("fogrid: export mask: %v", err)
	}
}

// acceptDrops decodes files dropped onto the window in the background and
// places the first image at the cell under the cursor.
func (g *Game) acceptDrops(pos Vec2) {
	files := ebiten.DroppedFiles()
	if files == nil {
		return
	}
	if _, ok := g.engine.Store().(ContentWriter); !ok {
		log.Printf("fogrid: drop ignored: store is read-only")
		return
	}
	entries, err := fs.ReadDir(files, ".")
	if err != nil || len(entries) == 0 {
		return
	}
	name := entries[0].Name()
	key := g.engine.CellAt(pos)
	opts := g.cfg.Pixelate
	go func() {
		f, err := files.Open(name)
		if err != nil {
			g.drops <- dropResult{key: key, err: err}
			return
		}
		defer f.Close()
		c, err := DecodeContent(f, name, opts)
		g.drops <- dropResult{key: key, content: c, err: err}
	}()
}

// receiveDrops stores decoded drops without blocking.
func (g *Game) receiveDrops() {
	for {
		select {
		case d := <-g.drops:
			if d.err != nil {
				log.Printf("fogrid: drop at %s: %v", d.key, d.err)
				continue
			}
			w := g.engine.Store().(ContentWriter)
			if old, ok := w.Get(d.key); ok {
				g.renderer.Forget(old)
			}
			w.Set(d.key, d.content)
		default:
			return
		}
	}
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.engine)
	if g.fps != nil {
		g.fps.draw(screen)
	}
	g.shots.flush(screen)
	for _, p := range g.shots.written {
		log.Printf("fogrid: wrote %s", p)
	}
}

// Layout implements ebiten.Game. The board always fills the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = max(1, outsideWidth), max(1, outsideHeight)
	return g.width, g.height
}

// cursorShape maps a CursorHint to the native cursor.
func cursorShape(h CursorHint) ebiten.CursorShapeType {
	switch h {
	case CursorPointer:
		return ebiten.CursorShapePointer
	case CursorGrab, CursorGrabbing:
		return ebiten.CursorShapeMove
	default:
		return ebiten.CursorShapeDefault
	}
}
