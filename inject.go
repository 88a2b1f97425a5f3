package lattice

import (
	"strings"
	"time"
)

type inputKind uint8

const (
	inputPointer inputKind = iota
	inputWheel
	inputKeyDown
	inputKeyUp
)

// syntheticInput is one queued input event. Screen coordinates are used,
// identical to real mouse input.
type syntheticInput struct {
	kind             inputKind
	screenX, screenY float64
	pressed          bool
	button           MouseButton
	wheel            float64
	key              string
}

// InjectPress queues a left-button press at the given screen coordinates.
// Queued events are consumed one per frame, in place of real input.
func (g *Game) InjectPress(x, y float64) {
	g.injectQueue = append(g.injectQueue, syntheticInput{
		kind: inputPointer, screenX: x, screenY: y, pressed: true, button: MouseButtonLeft,
	})
}

// InjectMove queues a pointer move with the button held. Use it between
// InjectPress and InjectRelease to simulate a drag.
func (g *Game) InjectMove(x, y float64) {
	g.injectQueue = append(g.injectQueue, syntheticInput{
		kind: inputPointer, screenX: x, screenY: y, pressed: true, button: MouseButtonLeft,
	})
}

// InjectHover queues a pointer move with no button held.
func (g *Game) InjectHover(x, y float64) {
	g.injectQueue = append(g.injectQueue, syntheticInput{
		kind: inputPointer, screenX: x, screenY: y, button: MouseButtonLeft,
	})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (g *Game) InjectRelease(x, y float64) {
	g.injectQueue = append(g.injectQueue, syntheticInput{
		kind: inputPointer, screenX: x, screenY: y, button: MouseButtonLeft,
	})
}

// InjectClick queues a press followed by a release. Consumes two frames.
func (g *Game) InjectClick(x, y float64) {
	g.InjectPress(x, y)
	g.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 interpolated moves
// and a release at (toX, toY). Minimum frames is 2.
func (g *Game) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	g.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		g.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	g.InjectRelease(toX, toY)
}

// InjectWheel queues a wheel movement at (x, y). Positive notches zoom in.
func (g *Game) InjectWheel(x, y, notches float64) {
	g.injectQueue = append(g.injectQueue, syntheticInput{
		kind: inputWheel, screenX: x, screenY: y, wheel: notches,
	})
}

// InjectKeyDown queues holding a modifier ("shift", "ctrl", "alt", "meta").
func (g *Game) InjectKeyDown(name string) {
	g.injectQueue = append(g.injectQueue, syntheticInput{kind: inputKeyDown, key: strings.ToLower(name)})
}

// InjectKeyUp queues releasing a modifier.
func (g *Game) InjectKeyUp(name string) {
	g.injectQueue = append(g.injectQueue, syntheticInput{kind: inputKeyUp, key: strings.ToLower(name)})
}

// Pending returns the number of queued synthetic events.
func (g *Game) Pending() int { return len(g.injectQueue) }

// processInjectedInput pops one queued event and feeds it through the same
// path as real input. It reports whether an event was consumed.
func (g *Game) processInjectedInput(now time.Time) bool {
	if len(g.injectQueue) == 0 {
		return false
	}
	evt := g.injectQueue[0]
	copy(g.injectQueue, g.injectQueue[1:])
	g.injectQueue = g.injectQueue[:len(g.injectQueue)-1]

	switch evt.kind {
	case inputPointer:
		g.pointer(evt.screenX, evt.screenY, evt.pressed, evt.button, now)
	case inputWheel:
		g.wheel(evt.screenX, evt.screenY, evt.wheel, now)
	case inputKeyDown:
		g.heldKeys[evt.key] = true
	case inputKeyUp:
		delete(g.heldKeys, evt.key)
	}
	return true
}
