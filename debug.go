package lattice

import (
	"fmt"
	"image/color"
	"io"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"
)

// debugStats holds per-frame timings and draw counters. Only populated in
// debug mode.
type debugStats struct {
	updateTime time.Duration
	drawTime   time.Duration
	render     RenderStats
	frame      uint64
}

// debugLogEvery throttles the per-frame debug line.
const debugLogEvery = 60

// dumpConfig renders Renderables compactly: no pointer addresses, sorted
// map keys, and no String methods so Tile payloads are shown raw.
var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
	SortKeys:                true,
	MaxDepth:                4,
}

// SetDebugMode enables per-frame timing logs. At logrus Trace level the
// draw list is dumped as well.
func (g *Game) SetDebugMode(on bool) {
	g.debug = on
}

// SetShowStats toggles the on-screen stats overlay.
func (g *Game) SetShowStats(on bool) {
	g.showStats = on
}

// debugLog logs frame stats every debugLogEvery frames.
func (g *Game) debugLog() {
	g.stats.frame++
	if g.stats.frame%debugLogEvery != 0 {
		return
	}
	log := logFor("debug")
	log.WithFields(logrus.Fields{
		"update":  g.stats.updateTime,
		"draw":    g.stats.drawTime,
		"tiles":   g.stats.render.Tiles,
		"skipped": g.stats.render.Skipped,
		"batches": g.stats.render.Batches,
		"zoom":    g.View.Zoom(),
	}).Debug("frame")
	if logger.IsLevelEnabled(logrus.TraceLevel) {
		log.Trace(dumpConfig.Sdump(g.View.Renderables()))
	}
}

// DumpRenderables writes a readable dump of list to w.
func DumpRenderables(w io.Writer, list []Renderable) {
	dumpConfig.Fdump(w, list)
}

// statsOverlayBG keeps the overlay text readable on light tiles.
var statsOverlayBG = color.RGBA{0, 0, 0, 128}

// drawStats prints FPS, zoom and tile counters in the top-left corner.
func (g *Game) drawStats(screen *ebiten.Image) {
	rs := g.Renderer.Stats()
	c := g.View.WorldCenter()
	msg := fmt.Sprintf("FPS: %.1f  TPS: %.1f\nzoom: %.2f (level %d)\ncenter: %.6f, %.6f\ntiles: %d  batches: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		g.View.Zoom(), g.View.TileZoom(),
		c.X, c.Y,
		rs.Tiles, rs.Batches)
	vector.DrawFilledRect(screen, 0, 0, 220, 64, statsOverlayBG, false)
	ebitenutil.DebugPrint(screen, msg)
}
