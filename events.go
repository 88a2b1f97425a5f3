package lattice

import "slices"

// numEventTypes sizes the per-event handler tables.
const numEventTypes = int(EventCellRebuild) + 1

// ViewEvent is delivered to pan, zoom and cell-rebuild callbacks.
type ViewEvent struct {
	Type     EventType
	Viewport Viewport
	Zoom     float64
	Cell     *Cell
}

// InteractionEvent is delivered to pointer callbacks.
type InteractionEvent struct {
	Type EventType
	// Target is the collidable under the pointer, or nil for drags and
	// clicks on empty space.
	Target *Collidable
	// Layer is the layer Target was picked from.
	Layer Pickable
	// ScreenX and ScreenY are the pointer position in screen pixels (y down).
	ScreenX, ScreenY float64
	// Plot is the pointer in plot pixels at the current zoom.
	Plot   Vec2
	Button MouseButton
	// DeltaX and DeltaY are the movement since the previous drag event.
	DeltaX, DeltaY float64
	// StartX and StartY are the screen position where the drag began.
	StartX, StartY float64
	// Selection lists the collidables a select or unselect event applies to.
	Selection []*Collidable
}

// EventSink receives every synthesized interaction event, after the
// registered callbacks. The ecs package bridges it into an ECS world.
type EventSink interface {
	EmitEvent(InteractionEvent)
}

// ViewEventSink receives every pan, zoom and cell-rebuild event.
type ViewEventSink interface {
	EmitViewEvent(ViewEvent)
}

type viewHandler struct {
	id uint32
	fn func(ViewEvent)
}

type interactionHandler struct {
	id uint32
	fn func(InteractionEvent)
}

// handlerRegistry stores callbacks keyed by event type. Ids are unique
// across both tables.
type handlerRegistry struct {
	view        [numEventTypes][]viewHandler
	interaction [numEventTypes][]interactionHandler
	nextID      uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters the callback. Calling Remove more than once is a no-op.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	h.reg.view[h.event] = removeViewHandler(h.reg.view[h.event], h.id)
	h.reg.interaction[h.event] = removeInteractionHandler(h.reg.interaction[h.event], h.id)
}

func removeViewHandler(s []viewHandler, id uint32) []viewHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = viewHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

func removeInteractionHandler(s []interactionHandler, id uint32) []interactionHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = interactionHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

func (r *handlerRegistry) addView(event EventType, fn func(ViewEvent)) CallbackHandle {
	r.nextID++
	r.view[event] = append(r.view[event], viewHandler{id: r.nextID, fn: fn})
	return CallbackHandle{id: r.nextID, reg: r, event: event}
}

func (r *handlerRegistry) addInteraction(event EventType, fn func(InteractionEvent)) CallbackHandle {
	r.nextID++
	r.interaction[event] = append(r.interaction[event], interactionHandler{id: r.nextID, fn: fn})
	return CallbackHandle{id: r.nextID, reg: r, event: event}
}

// emitView calls a snapshot of the handlers, so callbacks may add or
// remove handlers while running.
func (r *handlerRegistry) emitView(ev ViewEvent) {
	for _, h := range slices.Clone(r.view[ev.Type]) {
		h.fn(ev)
	}
}

func (r *handlerRegistry) emitInteraction(ev InteractionEvent) {
	for _, h := range slices.Clone(r.interaction[ev.Type]) {
		h.fn(ev)
	}
}
