package lattice

import (
	"slices"
	"testing"
	"time"
)

func newTestGame(t *testing.T) (*Game, *Collidable) {
	t.Helper()
	g := NewGame(newTestView(t, nil), nil)
	layer := NewCollidableLayer("test", 0)
	a := NewRectCollidable(100, 156, 100, 156, Coord{}, "a")
	layer.IndexTile(NewCoord(0, 0, 0), []*Collidable{a})
	g.AddLayer(layer)
	return g, a
}

// drain feeds every queued event, one per frame, 10ms apart.
func drain(g *Game, now time.Time) time.Time {
	for g.processInjectedInput(now) {
		now = now.Add(10 * time.Millisecond)
	}
	return now
}

func TestNewGameWiresLayers(t *testing.T) {
	view := newTestView(t, nil)
	layer := NewCollidableLayer("pre", 0)
	layer.IndexTile(NewCoord(0, 0, 0), []*Collidable{NewRectCollidable(100, 156, 100, 156, Coord{}, nil)})
	view.AddLayer(layer)

	g := NewGame(view, nil)
	if _, ok := g.Dispatcher.Pick(aX, aY); !ok {
		t.Error("layer added before NewGame should be pickable")
	}
	if g.Dispatcher.DragPan == nil || g.Renderer == nil {
		t.Error("NewGame should wire a DragPan and a Renderer")
	}
}

func TestInjectClick(t *testing.T) {
	g, a := newTestGame(t)
	g.InjectClick(aX, aY)
	if g.Pending() != 2 {
		t.Fatalf("Pending = %d, want 2", g.Pending())
	}

	if !g.processInjectedInput(t0) {
		t.Fatal("press not consumed")
	}
	if len(g.Dispatcher.Selected()) != 0 {
		t.Error("selection changed on press")
	}
	g.processInjectedInput(t0)
	if got := g.Dispatcher.Selected(); !slices.Equal(got, []*Collidable{a}) {
		t.Errorf("Selected = %v", got)
	}
	if g.processInjectedInput(t0) {
		t.Error("empty queue reported an event")
	}
}

func TestInjectHover(t *testing.T) {
	g, a := newTestGame(t)
	g.InjectHover(aX, aY)
	drain(g, t0)
	if got, ok := g.Dispatcher.Hovered(); !ok || got != a {
		t.Errorf("Hovered = %v, %v", got, ok)
	}
}

func TestInjectDrag(t *testing.T) {
	g, _ := newTestGame(t)
	start := g.View.Viewport().Position()

	g.InjectDrag(100, 100, 200, 120, 5)
	if g.Pending() != 5 {
		t.Fatalf("Pending = %d, want 5", g.Pending())
	}
	var dragEnds int
	g.Dispatcher.OnDragEnd(func(InteractionEvent) { dragEnds++ })
	drain(g, t0)

	assertVec(t, "viewport", g.View.Viewport().Position(), start.Add(Vec2{-100, 20}))
	if dragEnds != 1 {
		t.Errorf("DragEnd fired %d times", dragEnds)
	}
	if g.Dispatcher.Dragging() {
		t.Error("drag still live")
	}
}

func TestInjectDragMinimumFrames(t *testing.T) {
	g, _ := newTestGame(t)
	g.InjectDrag(0, 0, 50, 50, 0)
	if g.Pending() != 2 {
		t.Errorf("Pending = %d, want 2", g.Pending())
	}
}

func TestInjectWheel(t *testing.T) {
	g, _ := newTestGame(t)

	g.InjectWheel(400, 300, -1)
	drain(g, t0)
	if g.View.Zooming() {
		t.Error("zooming out at MinZoom should do nothing")
	}

	g.InjectWheel(400, 300, 3)
	drain(g, t0)
	if !g.View.Zooming() {
		t.Fatal("wheel should start a zoom")
	}
	g.View.Update(t0.Add(time.Second))
	if g.View.Zoom() != g.View.Config().ZoomDelta {
		t.Errorf("zoom = %v, want one step per event", g.View.Zoom())
	}
	assertVec(t, "centre", g.View.WorldCenter(), Vec2{0.5, 0.5})
}

func TestInjectKeys(t *testing.T) {
	g, a := newTestGame(t)
	g.InjectKeyDown("Shift")
	drain(g, t0)
	if !g.heldKeys.Poll("shift") {
		t.Fatal("shift not held after InjectKeyDown")
	}

	g.InjectClick(aX, aY)
	g.InjectClick(aX, aY)
	drain(g, t0)
	if g.Dispatcher.IsSelected(a) {
		t.Error("second modified click should toggle the selection off")
	}

	g.InjectKeyUp("shift")
	drain(g, t0)
	if g.heldKeys.Poll("shift") {
		t.Error("shift still held after InjectKeyUp")
	}
}
