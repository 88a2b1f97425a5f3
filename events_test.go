package lattice

import (
	"slices"
	"testing"
)

func TestCallbackHandleRemove(t *testing.T) {
	var reg handlerRegistry
	var first, second int
	h1 := reg.addView(EventPan, func(ViewEvent) { first++ })
	reg.addView(EventPan, func(ViewEvent) { second++ })

	reg.emitView(ViewEvent{Type: EventPan})
	h1.Remove()
	h1.Remove()
	reg.emitView(ViewEvent{Type: EventPan})

	if first != 1 || second != 2 {
		t.Errorf("calls = %d, %d; want 1, 2", first, second)
	}
}

func TestCallbackHandleZeroValue(t *testing.T) {
	var h CallbackHandle
	h.Remove()
}

func TestHandlerIDsAreShared(t *testing.T) {
	var reg handlerRegistry
	hv := reg.addView(EventClick, func(ViewEvent) {})
	var clicks int
	reg.addInteraction(EventClick, func(InteractionEvent) { clicks++ })

	// Removing the view handler must not touch the interaction handler
	// registered under the same event type.
	hv.Remove()
	reg.emitInteraction(InteractionEvent{Type: EventClick})
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
}

func TestEmitOnlyMatchingType(t *testing.T) {
	var reg handlerRegistry
	var got []EventType
	for _, et := range []EventType{EventPointerOver, EventPointerOut, EventSelect} {
		reg.addInteraction(et, func(ev InteractionEvent) { got = append(got, ev.Type) })
	}
	reg.emitInteraction(InteractionEvent{Type: EventSelect})
	if len(got) != 1 || got[0] != EventSelect {
		t.Errorf("handlers called for %v", got)
	}
}

func TestHandlerRemovesItselfDuringEmit(t *testing.T) {
	var reg handlerRegistry
	var once, always int
	var h CallbackHandle
	h = reg.addView(EventPan, func(ViewEvent) {
		once++
		h.Remove()
	})
	reg.addView(EventPan, func(ViewEvent) { always++ })

	reg.emitView(ViewEvent{Type: EventPan})
	reg.emitView(ViewEvent{Type: EventPan})
	if once != 1 || always != 2 {
		t.Errorf("calls = %d, %d; want 1, 2", once, always)
	}
}

func TestInteractionHandlerRemovesItselfDuringEmit(t *testing.T) {
	var reg handlerRegistry
	var calls []string
	var h CallbackHandle
	h = reg.addInteraction(EventClick, func(InteractionEvent) {
		calls = append(calls, "first")
		h.Remove()
	})
	reg.addInteraction(EventClick, func(InteractionEvent) { calls = append(calls, "second") })
	reg.addInteraction(EventClick, func(InteractionEvent) { calls = append(calls, "third") })

	reg.emitInteraction(InteractionEvent{Type: EventClick})
	reg.emitInteraction(InteractionEvent{Type: EventClick})
	want := []string{"first", "second", "third", "second", "third"}
	if !slices.Equal(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestMapViewOnZoomEndOnce(t *testing.T) {
	v := newTestView(t, nil)
	var ends int
	var h CallbackHandle
	h = v.OnZoomEnd(func(ViewEvent) {
		ends++
		h.Remove()
	})
	v.OnZoomEnd(func(ViewEvent) {})

	v.ZoomTo(1, Vec2{400, 300}, t0)
	v.FinishAnimations()
	v.ZoomTo(1, Vec2{400, 300}, t0)
	v.FinishAnimations()
	if ends != 1 {
		t.Errorf("ZoomEnd handler ran %d times, want 1", ends)
	}
}
