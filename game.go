package lattice

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Game runs a MapView inside ebiten's loop: it polls (or replays) pointer
// input, feeds the Dispatcher, ticks the view and draws its tiles.
type Game struct {
	View       *MapView
	Dispatcher *Dispatcher
	Renderer   *Renderer

	// Now is the frame clock. Defaults to time.Now.
	Now func() time.Time
	// Background fills the screen before tiles are drawn.
	Background color.Color
	// ScreenshotDir is where test-script screenshots are written.
	ScreenshotDir string

	heldKeys    KeySet
	injectQueue []syntheticInput
	pointerDown bool
	lastX       float64
	lastY       float64

	testRunner      *TestRunner
	screenshotQueue []string

	debug     bool
	stats     debugStats
	showStats bool
}

// NewGame wires a Dispatcher, a DragPan and a Renderer around view. Layers
// already added to view become pickable.
func NewGame(view *MapView, image ImageFunc) *Game {
	g := &Game{
		View:          view,
		Renderer:      NewRenderer(view.Config().TileSize, image),
		Now:           time.Now,
		Background:    color.Black,
		ScreenshotDir: "screenshots",
		heldKeys:      KeySet{},
	}
	g.Dispatcher = NewDispatcher(view, AnyKeys{EbitenKeys{}, g.heldKeys})
	g.Dispatcher.DragPan = NewDragPan(view)
	for _, l := range view.Layers() {
		g.Dispatcher.AddLayer(l)
	}
	return g
}

// AddLayer registers a collidable layer with both the view and the
// dispatcher.
func (g *Game) AddLayer(l *CollidableLayer) {
	g.View.AddLayer(l)
	g.Dispatcher.AddLayer(l)
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	start := time.Now()
	now := g.Now()

	if g.testRunner != nil {
		g.testRunner.step(g)
	}
	if !g.processInjectedInput(now) {
		g.processInput(now)
	}
	g.View.Update(now)

	if g.debug {
		g.stats.updateTime = time.Since(start)
	}
	return nil
}

// processInput polls ebiten for pointer and wheel state.
func (g *Game) processInput(now time.Time) {
	cx, cy := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	g.pointer(float64(cx), float64(cy), pressed, MouseButtonLeft, now)

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.wheel(float64(cx), float64(cy), wy, now)
	}
	ebiten.SetCursorShape(ebitenCursor(g.Dispatcher.Cursor()))
}

// pointer turns absolute button state into down/move/up transitions.
func (g *Game) pointer(sx, sy float64, pressed bool, button MouseButton, now time.Time) {
	switch {
	case pressed && !g.pointerDown:
		g.pointerDown = true
		g.Dispatcher.PointerDown(sx, sy, button, now)
	case !pressed && g.pointerDown:
		g.pointerDown = false
		g.Dispatcher.PointerUp(sx, sy, button, now)
	case sx != g.lastX || sy != g.lastY:
		g.Dispatcher.PointerMove(sx, sy, now)
	}
	g.lastX, g.lastY = sx, sy
}

// wheel zooms around the cursor by one ZoomDelta step per notch direction.
func (g *Game) wheel(sx, sy, notches float64, now time.Time) {
	if notches == 0 {
		return
	}
	delta := math.Copysign(g.View.Config().ZoomDelta, notches)
	vp := g.View.Viewport()
	g.View.ZoomTo(delta, Vec2{sx, vp.Height - sy}, now)
}

func ebitenCursor(c CursorShape) ebiten.CursorShapeType {
	switch c {
	case CursorPointer:
		return ebiten.CursorShapePointer
	case CursorMove:
		return ebiten.CursorShapeMove
	default:
		return ebiten.CursorShapeDefault
	}
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	if g.Background != nil {
		screen.Fill(g.Background)
	}
	g.Renderer.Render(screen, g.View)

	if g.debug {
		g.stats.drawTime = time.Since(start)
		g.stats.render = g.Renderer.Stats()
		g.debugLog()
	}
	if g.showStats {
		g.drawStats(screen)
	}
	g.flushScreenshots(screen)
}

// Layout implements ebiten.Game. The viewport follows the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.View.Resize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// Run opens a window and runs g until it is closed.
func Run(title string, g *Game) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}
