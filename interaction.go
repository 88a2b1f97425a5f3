package lattice

import (
	"math"
	"slices"
	"time"
)

// pointerState tracks one press from down to up.
type pointerState struct {
	down     bool
	button   MouseButton
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	pressHit *Collidable
	dragging bool
}

// Dispatcher turns raw pointer events into hover, click, selection and drag
// events by picking the registered layers top to bottom.
type Dispatcher struct {
	view *MapView
	keys KeyState

	// PickRadius is the hit tolerance in screen pixels.
	PickRadius float64
	// DragPan, when set, pans the view while the pointer is dragged.
	DragPan *DragPan

	layers   []Pickable
	handlers handlerRegistry
	sink     EventSink

	pointer  pointerState
	hover    Collision
	hovering bool
	selected []*Collidable
}

// NewDispatcher returns a dispatcher for view. keys gates multi-select; nil
// means no modifier is ever held.
func NewDispatcher(view *MapView, keys KeyState) *Dispatcher {
	if keys == nil {
		keys = KeySet(nil)
	}
	return &Dispatcher{view: view, keys: keys}
}

// AddLayer registers a pickable layer.
func (d *Dispatcher) AddLayer(p Pickable) {
	d.layers = append(d.layers, p)
}

// RemoveLayer unregisters p. If p held the hover, an out event fires on the
// next pointer event.
func (d *Dispatcher) RemoveLayer(p Pickable) {
	d.layers = slices.DeleteFunc(d.layers, func(q Pickable) bool { return q == p })
}

// SetKeys replaces the modifier poller.
func (d *Dispatcher) SetKeys(keys KeyState) { d.keys = keys }

// Pick returns the first collision under the screen position, scanning
// visible layers from the highest ZIndex down. Layers with equal ZIndex keep
// registration order.
func (d *Dispatcher) Pick(sx, sy float64) (Collision, bool) {
	cfg := d.view.Config()
	ctx := PickContext{
		Plot:       d.view.ScreenToPlot(sx, sy),
		Zoom:       d.view.Zoom(),
		TileZoom:   d.view.TileZoom(),
		TileSize:   cfg.TileSize,
		Wraparound: cfg.Wraparound,
		Radius:     d.PickRadius,
	}
	order := slices.Clone(d.layers)
	slices.SortStableFunc(order, func(a, b Pickable) int { return b.ZIndex() - a.ZIndex() })
	for _, l := range order {
		if !l.Visible() {
			continue
		}
		if c, ok := l.Pick(ctx); ok {
			return c, true
		}
	}
	return Collision{}, false
}

// Hovered returns the collidable under the pointer.
func (d *Dispatcher) Hovered() (*Collidable, bool) {
	if !d.hovering {
		return nil, false
	}
	return d.hover.Target, true
}

// Selected returns the selection in selection order.
func (d *Dispatcher) Selected() []*Collidable {
	return slices.Clone(d.selected)
}

// IsSelected reports whether c is selected.
func (d *Dispatcher) IsSelected(c *Collidable) bool {
	return slices.Contains(d.selected, c)
}

// ClearSelection unselects everything, firing one unselect event.
func (d *Dispatcher) ClearSelection() {
	if len(d.selected) == 0 {
		return
	}
	removed := d.selected
	d.selected = nil
	d.fire(InteractionEvent{Type: EventUnselect, Target: removed[0]}, removed)
}

// Cursor returns the cursor the host should show.
func (d *Dispatcher) Cursor() CursorShape {
	switch {
	case d.pointer.dragging:
		return CursorMove
	case d.hovering:
		return CursorPointer
	default:
		return CursorDefault
	}
}

// Dragging reports whether a drag is in progress.
func (d *Dispatcher) Dragging() bool { return d.pointer.dragging }

func (d *Dispatcher) event(t EventType, target *Collidable, sx, sy float64) InteractionEvent {
	ev := InteractionEvent{
		Type:    t,
		Target:  target,
		ScreenX: sx,
		ScreenY: sy,
		Plot:    d.view.ScreenToPlot(sx, sy),
		Button:  d.pointer.button,
		StartX:  d.pointer.startX,
		StartY:  d.pointer.startY,
	}
	if d.hovering && d.hover.Target == target {
		ev.Layer = d.hover.Layer
	}
	return ev
}

func (d *Dispatcher) fire(ev InteractionEvent, selection []*Collidable) {
	ev.Selection = selection
	d.handlers.emitInteraction(ev)
	if d.sink != nil {
		d.sink.EmitEvent(ev)
	}
}

// SetEventSink forwards every event to sink as well. Nil detaches.
func (d *Dispatcher) SetEventSink(sink EventSink) {
	d.sink = sink
}

// updateHover picks at (sx, sy) and fires out/over when the target changed.
func (d *Dispatcher) updateHover(sx, sy float64) {
	c, hit := d.Pick(sx, sy)
	switch {
	case hit && d.hovering && c.Target == d.hover.Target:
		d.hover = c
	case hit:
		if d.hovering {
			d.fire(d.event(EventPointerOut, d.hover.Target, sx, sy), nil)
		}
		d.hover, d.hovering = c, true
		d.fire(d.event(EventPointerOver, c.Target, sx, sy), nil)
	case d.hovering:
		ev := d.event(EventPointerOut, d.hover.Target, sx, sy)
		d.hover, d.hovering = Collision{}, false
		d.fire(ev, nil)
	}
}

// PointerMove handles pointer motion at screen position (sx, sy).
func (d *Dispatcher) PointerMove(sx, sy float64, now time.Time) {
	ps := &d.pointer
	if !ps.down {
		if sx != ps.lastX || sy != ps.lastY {
			d.updateHover(sx, sy)
		}
		ps.lastX, ps.lastY = sx, sy
		return
	}
	if sx == ps.lastX && sy == ps.lastY {
		return
	}
	if !ps.dragging {
		dx, dy := sx-ps.startX, sy-ps.startY
		if math.Hypot(dx, dy) > d.view.Config().DragDeadZone {
			ps.dragging = true
			ev := d.event(EventDragStart, ps.pressHit, sx, sy)
			ev.DeltaX, ev.DeltaY = dx, dy
			d.fire(ev, nil)
			if d.DragPan != nil {
				d.DragPan.Begin(now)
				d.DragPan.Move(dx, dy, now)
			}
			ps.lastX, ps.lastY = sx, sy
			return
		}
	}
	if ps.dragging {
		ev := d.event(EventDrag, ps.pressHit, sx, sy)
		ev.DeltaX, ev.DeltaY = sx-ps.lastX, sy-ps.lastY
		d.fire(ev, nil)
		if d.DragPan != nil {
			d.DragPan.Move(ev.DeltaX, ev.DeltaY, now)
		}
	} else {
		d.updateHover(sx, sy)
	}
	ps.lastX, ps.lastY = sx, sy
}

// PointerDown handles a button press at (sx, sy).
func (d *Dispatcher) PointerDown(sx, sy float64, button MouseButton, now time.Time) {
	d.updateHover(sx, sy)
	d.pointer = pointerState{
		down:   true,
		button: button,
		startX: sx,
		startY: sy,
		lastX:  sx,
		lastY:  sy,
	}
	if d.hovering {
		d.pointer.pressHit = d.hover.Target
	}
}

// PointerUp handles a button release at (sx, sy).
func (d *Dispatcher) PointerUp(sx, sy float64, button MouseButton, now time.Time) {
	ps := &d.pointer
	if !ps.down {
		return
	}
	if ps.dragging {
		ev := d.event(EventDragEnd, ps.pressHit, sx, sy)
		ev.DeltaX, ev.DeltaY = sx-ps.lastX, sy-ps.lastY
		d.fire(ev, nil)
		if d.DragPan != nil {
			if ev.DeltaX != 0 || ev.DeltaY != 0 {
				d.DragPan.Move(ev.DeltaX, ev.DeltaY, now)
			}
			d.DragPan.Release(now)
		}
		d.pointer = pointerState{lastX: sx, lastY: sy}
		d.updateHover(sx, sy)
		return
	}

	d.updateHover(sx, sy)
	var target *Collidable
	if d.hovering {
		target = d.hover.Target
	}
	if target != nil && target == ps.pressHit {
		d.fire(d.event(EventClick, target, sx, sy), nil)
	}
	d.applySelection(target, target != nil && target == ps.pressHit)
	d.pointer = pointerState{lastX: sx, lastY: sy}
}

// applySelection updates the selection after a click. With the multi-select
// modifier held a hit toggles the target and a miss keeps the selection;
// otherwise a hit selects only the target and a miss clears everything.
func (d *Dispatcher) applySelection(target *Collidable, hit bool) {
	multi := d.view.Config().MultiSelectKey
	additive := multi != "" && d.keys.Poll(multi)

	if !hit {
		if !additive {
			d.ClearSelection()
		}
		return
	}
	if additive {
		if i := slices.Index(d.selected, target); i >= 0 {
			d.selected = slices.Delete(d.selected, i, i+1)
			d.fire(InteractionEvent{Type: EventUnselect, Target: target}, []*Collidable{target})
			return
		}
		d.selected = append(d.selected, target)
		d.fire(InteractionEvent{Type: EventSelect, Target: target}, []*Collidable{target})
		return
	}

	var removed []*Collidable
	for _, c := range d.selected {
		if c != target {
			removed = append(removed, c)
		}
	}
	wasSelected := d.IsSelected(target)
	d.selected = []*Collidable{target}
	if len(removed) > 0 {
		d.fire(InteractionEvent{Type: EventUnselect, Target: removed[0]}, removed)
	}
	if !wasSelected {
		d.fire(InteractionEvent{Type: EventSelect, Target: target}, []*Collidable{target})
	}
}

// OnPointerOver registers a callback for the pointer entering a collidable.
func (d *Dispatcher) OnPointerOver(fn func(InteractionEvent)) CallbackHandle {
	return d.handlers.addInteraction(EventPointerOver, fn)
}

// OnPointerOut registers a callback for the pointer leaving a collidable.
func (d *Dispatcher) OnPointerOut(fn func(InteractionEvent)) CallbackHandle {
	return d.handlers.addInteraction(EventPointerOut, fn)
}

// OnClick registers a click callback.
func (d *Dispatcher) OnClick(fn func(InteractionEvent)) CallbackHandle {
	return d.handlers.addInteraction(EventClick, fn)
}

// OnSelect registers a callback for collidables joining the selection.
func (d *Dispatcher) OnSelect(fn func(InteractionEvent)) CallbackHandle {
	return d.handlers.addInteraction(EventSelect, fn)
}

// OnUnselect registers a callback for collidables leaving the selection.
func (d *Dispatcher) OnUnselect(fn func(InteractionEvent)) CallbackHandle {
	return d.handlers.addInteraction(EventUnselect, fn)
}

// OnDragStart registers a drag start callback.
func (d *Dispatcher) OnDragStart(fn func(InteractionEvent)) CallbackHandle {
	return d.handlers.addInteraction(EventDragStart, fn)
}

// OnDrag registers a drag callback.
func (d *Dispatcher) OnDrag(fn func(InteractionEvent)) CallbackHandle {
	return d.handlers.addInteraction(EventDrag, fn)
}

// OnDragEnd registers a drag end callback.
func (d *Dispatcher) OnDragEnd(fn func(InteractionEvent)) CallbackHandle {
	return d.handlers.addInteraction(EventDragEnd, fn)
}

// velocityWindow is how far back drag samples count toward release speed.
const velocityWindow = 100 * time.Millisecond

// minInertiaSpeed is the release speed, in pixels per second, below which
// no inertial pan starts.
const minInertiaSpeed = 20

type dragSample struct {
	at     time.Time
	dx, dy float64
}

// DragPan moves a MapView with the pointer and, on release, hands the
// remaining motion to an inertial PanAnimation.
type DragPan struct {
	view    *MapView
	samples []dragSample
}

// NewDragPan returns a drag-pan controller for view.
func NewDragPan(view *MapView) *DragPan {
	return &DragPan{view: view}
}

// Begin resets the velocity samples and stops any live pan.
func (p *DragPan) Begin(now time.Time) {
	p.samples = p.samples[:0]
	p.view.cancelPan()
}

// Move drags the map by a screen-space delta. Screen y grows downward.
func (p *DragPan) Move(dx, dy float64, now time.Time) {
	if !p.view.PanBy(-dx, dy) {
		return
	}
	p.samples = append(p.samples, dragSample{at: now, dx: -dx, dy: dy})
	cut := 0
	for cut < len(p.samples) && now.Sub(p.samples[cut].at) > velocityWindow {
		cut++
	}
	p.samples = p.samples[cut:]
}

// Velocity returns the recent drag speed in plot pixels per second.
func (p *DragPan) Velocity(now time.Time) Vec2 {
	var sum Vec2
	var first time.Time
	for _, s := range p.samples {
		if now.Sub(s.at) > velocityWindow {
			continue
		}
		if first.IsZero() {
			first = s.at
		}
		sum = sum.Add(Vec2{s.dx, s.dy})
	}
	span := now.Sub(first)
	if first.IsZero() || span <= 0 {
		return Vec2{}
	}
	return sum.Scale(1 / span.Seconds())
}

// Release ends the drag. If inertia is enabled and the pointer was moving
// fast enough, it starts a pan and reports true.
func (p *DragPan) Release(now time.Time) bool {
	cfg := p.view.Config()
	v := p.Velocity(now)
	p.samples = p.samples[:0]
	if !cfg.Inertia || v.Len() < minInertiaSpeed || cfg.InertiaDurationMs == 0 {
		return false
	}
	// The eased curve starts at 1/easing times the mean speed, so scaling by
	// easing makes the pan leave at the release velocity.
	delta := v.Scale(cfg.InertiaDuration().Seconds() * cfg.PanEasing)
	a := NewPanAnimation(p.view.Viewport().Position(), delta, cfg.InertiaDuration(), cfg.PanEasing, now)
	return p.view.StartPan(a)
}
