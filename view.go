package lattice

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// evictionSource is implemented by tile sources that report evicted tiles,
// such as Pyramid.
type evictionSource interface {
	DrainEvicted() []Coord
}

// ViewState is the persistable part of a MapView: the zoom level and the
// normalized world position at the viewport centre.
type ViewState struct {
	Zoom    float64 `yaml:"zoom"`
	CenterX float64 `yaml:"centerX"`
	CenterY float64 `yaml:"centerY"`
}

// MapView owns the viewport, the zoom level, the floating-origin Cell and
// the live pan and zoom animations. All methods must be called from the
// frame loop goroutine.
type MapView struct {
	cfg    Config
	source TileSource

	viewport Viewport
	zoom     float64
	cell     *Cell

	pan      *PanAnimation
	zoomAnim *ZoomAnimation

	layers   []*CollidableLayer
	handlers handlerRegistry
	sink     ViewEventSink
}

// NewMapView returns a view at cfg.MinZoom centred on the world. Call
// Resize before the first frame to give the viewport a size.
func NewMapView(cfg Config, source TileSource) *MapView {
	if err := cfg.Validate(); err != nil {
		panic("lattice: invalid config: " + err.Error())
	}
	m := &MapView{cfg: cfg, source: source, zoom: cfg.MinZoom}
	c := Vec2{0.5, 0.5}.Scale(m.extent())
	m.viewport = Viewport{X: c.X, Y: c.Y}
	return m
}

// Config returns the view's configuration.
func (m *MapView) Config() Config { return m.cfg }

// Source returns the tile source.
func (m *MapView) Source() TileSource { return m.source }

// Viewport returns the current viewport in plot pixels.
func (m *MapView) Viewport() Viewport { return m.viewport }

// Zoom returns the continuous zoom level.
func (m *MapView) Zoom() float64 { return m.zoom }

// TileZoom returns the integer level whose tiles are drawn at the current zoom.
func (m *MapView) TileZoom() int {
	return max(0, int(math.Round(m.zoom)))
}

func (m *MapView) extent() float64 {
	return extentAt(m.cfg.TileSize, m.zoom)
}

// Cell returns the floating origin, rebuilding it if the viewport has left
// its window.
func (m *MapView) Cell() *Cell {
	m.ensureCell()
	return m.cell
}

// Panning reports whether a pan animation is live.
func (m *MapView) Panning() bool { return m.pan != nil }

// Zooming reports whether a zoom animation is live.
func (m *MapView) Zooming() bool { return m.zoomAnim != nil }

// SetViewport replaces the viewport. Live animations are cancelled.
func (m *MapView) SetViewport(vp Viewport) {
	m.CancelAnimations()
	m.viewport = vp
	m.wrap()
}

// Resize changes the viewport size, keeping its centre.
func (m *MapView) Resize(width, height float64) {
	if width == m.viewport.Width && height == m.viewport.Height {
		return
	}
	m.viewport = m.viewport.Resize(width, height)
}

// SetZoom jumps to zoom, keeping the viewport centre fixed. Live animations
// are cancelled.
func (m *MapView) SetZoom(zoom float64) {
	m.CancelAnimations()
	zoom = m.cfg.clampZoom(zoom)
	m.viewport = m.viewport.ZoomToPos(m.cfg.TileSize, m.zoom, zoom, m.viewport.Center())
	m.zoom = zoom
}

// CenterOn moves the viewport centre to the world position p.
func (m *MapView) CenterOn(p Vec2) {
	m.CancelAnimations()
	c := p.Scale(m.extent())
	m.viewport = m.viewport.ZoomToPos(m.cfg.TileSize, m.zoom, m.zoom, c)
	m.wrap()
}

// WorldCenter returns the world position at the viewport centre.
func (m *MapView) WorldCenter() Vec2 {
	return m.viewport.WorldCenter(m.cfg.TileSize, m.zoom)
}

// State returns the persistable view state.
func (m *MapView) State() ViewState {
	c := m.WorldCenter()
	if m.cfg.Wraparound {
		c = Vec2{c.X - math.Floor(c.X), c.Y - math.Floor(c.Y)}
	}
	return ViewState{Zoom: m.zoom, CenterX: c.X, CenterY: c.Y}
}

// Restore applies a previously saved state.
func (m *MapView) Restore(s ViewState) {
	m.CancelAnimations()
	m.zoom = m.cfg.clampZoom(s.Zoom)
	m.CenterOn(Vec2{s.CenterX, s.CenterY})
}

// ScreenToPlot converts a screen position (origin top-left, y down) to plot
// pixels at the current zoom.
func (m *MapView) ScreenToPlot(sx, sy float64) Vec2 {
	x, y := transformPoint(invertAffine(ProjectionMatrix(m.viewport.Height)), sx, sy)
	return Vec2{m.viewport.X + x, m.viewport.Y + y}
}

// PlotToScreen is the inverse of ScreenToPlot.
func (m *MapView) PlotToScreen(p Vec2) (sx, sy float64) {
	return transformPoint(ProjectionMatrix(m.viewport.Height), p.X-m.viewport.X, p.Y-m.viewport.Y)
}

// ScreenToWorld converts a screen position to a world position.
func (m *MapView) ScreenToWorld(sx, sy float64) Vec2 {
	return m.ScreenToPlot(sx, sy).Scale(1 / m.extent())
}

// PanTo starts an animated pan that moves the viewport by delta plot pixels.
// A live pan is cancelled in place, emitting PanEnd. PanTo is refused while
// a zoom animation is live.
func (m *MapView) PanTo(delta Vec2, now time.Time) bool {
	if m.zoomAnim != nil {
		return false
	}
	m.cancelPan()
	m.pan = NewPanAnimation(m.viewport.Position(), delta, m.cfg.PanDuration(), m.cfg.PanEasing, now)
	logFor("view").WithField("delta", delta).Debug("pan started")
	return true
}

// StartPan installs a prepared pan animation, as PanTo does.
func (m *MapView) StartPan(a *PanAnimation) bool {
	if m.zoomAnim != nil {
		return false
	}
	m.cancelPan()
	m.pan = a
	return true
}

// PanBy moves the viewport immediately by (dx, dy) plot pixels, cancelling
// any live pan. It is refused while a zoom animation is live.
func (m *MapView) PanBy(dx, dy float64) bool {
	if m.zoomAnim != nil {
		return false
	}
	m.cancelPan()
	m.viewport = m.viewport.Translate(dx, dy)
	m.emit(EventPan)
	return true
}

// ZoomTo starts, or extends, an animated zoom by delta levels around
// targetPx, a viewport-relative pixel (origin bottom-left). A live pan is
// cleared. Re-triggering while a zoom is live adds delta to the current
// target level.
func (m *MapView) ZoomTo(delta float64, targetPx Vec2, now time.Time) {
	m.cancelPan()
	if m.zoomAnim != nil {
		to := m.cfg.clampZoom(m.zoomAnim.ToZoom + delta)
		m.zoomAnim.Retarget(to, targetPx, now)
		logFor("view").WithFields(logrus.Fields{"to": to}).Debug("zoom retargeted")
		return
	}
	to := m.cfg.clampZoom(m.zoom + delta)
	if to == m.zoom {
		return
	}
	m.zoomAnim = NewZoomAnimation(m.zoom, to, targetPx, m.cfg.ZoomDuration(), now)
	logFor("view").WithFields(logrus.Fields{"from": m.zoom, "to": to}).Debug("zoom started")
}

// CancelAnimations stops live animations where they are.
func (m *MapView) CancelAnimations() {
	m.cancelPan()
	if m.zoomAnim != nil {
		m.zoomAnim.Cancel()
		m.zoomAnim = nil
		m.emit(EventZoomEnd)
	}
}

// FinishAnimations snaps live animations to their end values.
func (m *MapView) FinishAnimations() {
	if m.pan != nil {
		p := m.pan.Finish()
		m.viewport.X, m.viewport.Y = p.X, p.Y
		m.pan = nil
		m.emit(EventPan)
		m.emit(EventPanEnd)
	}
	if m.zoomAnim != nil {
		m.applyZoom(m.zoomAnim.Finish(), m.zoomAnim.TargetPx)
		m.zoomAnim = nil
		m.emit(EventZoom)
		m.emit(EventZoomEnd)
	}
}

func (m *MapView) cancelPan() {
	if m.pan == nil {
		return
	}
	p := m.pan.Cancel()
	m.viewport.X, m.viewport.Y = p.X, p.Y
	m.pan = nil
	m.emit(EventPanEnd)
}

// applyZoom moves to zoom from the previous viewport, holding targetPx fixed.
func (m *MapView) applyZoom(zoom float64, targetPx Vec2) {
	prev := m.viewport
	m.viewport = prev.ZoomFromPlotPx(m.cfg.TileSize, m.zoom, zoom, prev.Position().Add(targetPx))
	m.zoom = zoom
}

// Update advances live animations to now, keeps the Cell valid and routes
// pyramid evictions to the collidable layers. Call it once per frame.
func (m *MapView) Update(now time.Time) {
	if m.pan != nil {
		p, done := m.pan.Update(now)
		m.viewport.X, m.viewport.Y = p.X, p.Y
		m.emit(EventPan)
		if done {
			m.pan = nil
			m.emit(EventPanEnd)
		}
	}
	if m.zoomAnim != nil {
		z, done := m.zoomAnim.Update(now)
		m.applyZoom(z, m.zoomAnim.TargetPx)
		m.emit(EventZoom)
		if done {
			m.zoomAnim = nil
			m.emit(EventZoomEnd)
		}
	}
	if m.pan == nil && m.zoomAnim == nil {
		m.wrap()
	}
	m.ensureCell()

	if es, ok := m.source.(evictionSource); ok {
		for _, c := range es.DrainEvicted() {
			for _, l := range m.layers {
				l.EvictTile(c)
			}
		}
	}
}

// wrap shifts the viewport by whole world extents so its centre lies in
// the primary copy of the world. It only applies with wraparound.
func (m *MapView) wrap() {
	if !m.cfg.Wraparound {
		return
	}
	ext := m.extent()
	c := m.viewport.Center()
	dx := math.Floor(c.X/ext) * ext
	dy := math.Floor(c.Y/ext) * ext
	if dx != 0 || dy != 0 {
		m.viewport = m.viewport.Translate(-dx, -dy)
	}
}

func (m *MapView) ensureCell() {
	world := m.viewport.WorldBounds(m.cfg.TileSize, m.zoom)
	if m.cell != nil && !m.cell.Stale(m.zoom, world) {
		return
	}
	m.cell = NewCell(m.zoom, world.Center(), m.cfg.TileSize)
	logFor("view").WithFields(logrus.Fields{"zoom": m.zoom, "center": world.Center()}).Debug("cell rebuilt")
	m.emit(EventCellRebuild)
}

func (m *MapView) emit(t EventType) {
	ev := ViewEvent{Type: t, Viewport: m.viewport, Zoom: m.zoom, Cell: m.cell}
	m.handlers.emitView(ev)
	if m.sink != nil {
		m.sink.EmitViewEvent(ev)
	}
}

// SetEventSink forwards every view event to sink as well. Nil detaches.
func (m *MapView) SetEventSink(sink ViewEventSink) {
	m.sink = sink
}

// AddLayer registers a collidable layer to receive tile evictions.
func (m *MapView) AddLayer(l *CollidableLayer) {
	m.layers = append(m.layers, l)
}

// Layers returns the registered collidable layers.
func (m *MapView) Layers() []*CollidableLayer { return m.layers }

// VisibleCoords returns the tile coordinates covering the viewport.
func (m *MapView) VisibleCoords() []Coord {
	return m.viewport.VisibleCoords(m.cfg.TileSize, m.zoom, m.TileZoom(), m.cfg.Wraparound)
}

// Frame returns the projection for the current frame.
func (m *MapView) Frame() RenderFrame {
	return NewRenderFrame(m.cfg.TileSize, m.zoom, m.Cell(), m.viewport)
}

// Renderables returns the draw list for the current frame.
func (m *MapView) Renderables() []Renderable {
	return BuildRenderables(m.Frame(), m.source, m.VisibleCoords())
}

// OnPan registers a callback fired whenever the viewport moves by a pan.
func (m *MapView) OnPan(fn func(ViewEvent)) CallbackHandle {
	return m.handlers.addView(EventPan, fn)
}

// OnPanEnd registers a callback fired when a pan animation ends.
func (m *MapView) OnPanEnd(fn func(ViewEvent)) CallbackHandle {
	return m.handlers.addView(EventPanEnd, fn)
}

// OnZoom registers a callback fired on every zoom animation tick.
func (m *MapView) OnZoom(fn func(ViewEvent)) CallbackHandle {
	return m.handlers.addView(EventZoom, fn)
}

// OnZoomEnd registers a callback fired when a zoom animation ends.
func (m *MapView) OnZoomEnd(fn func(ViewEvent)) CallbackHandle {
	return m.handlers.addView(EventZoomEnd, fn)
}

// OnCellRebuild registers a callback fired when the floating origin moves.
func (m *MapView) OnCellRebuild(fn func(ViewEvent)) CallbackHandle {
	return m.handlers.addView(EventCellRebuild, fn)
}
