package lattice

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// KeyState answers whether a named modifier key is held. Names are
// "shift", "ctrl", "alt" and "meta"; unknown names report false.
type KeyState interface {
	Poll(name string) bool
}

// EbitenKeys polls the live keyboard through ebiten.
type EbitenKeys struct{}

var modifierKeys = map[string][3]ebiten.Key{
	"shift": {ebiten.KeyShift, ebiten.KeyShiftLeft, ebiten.KeyShiftRight},
	"ctrl":  {ebiten.KeyControl, ebiten.KeyControlLeft, ebiten.KeyControlRight},
	"alt":   {ebiten.KeyAlt, ebiten.KeyAltLeft, ebiten.KeyAltRight},
	"meta":  {ebiten.KeyMeta, ebiten.KeyMetaLeft, ebiten.KeyMetaRight},
}

// Poll reports whether any key mapped to name is pressed.
func (EbitenKeys) Poll(name string) bool {
	keys, ok := modifierKeys[strings.ToLower(name)]
	if !ok {
		return false
	}
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

// KeySet is a fixed set of held modifiers, used for injected input and
// tests.
type KeySet map[string]bool

// NewKeySet returns a KeySet holding names.
func NewKeySet(names ...string) KeySet {
	s := make(KeySet, len(names))
	for _, n := range names {
		s[strings.ToLower(n)] = true
	}
	return s
}

// Poll reports whether name is in the set.
func (s KeySet) Poll(name string) bool {
	return s[strings.ToLower(name)]
}

// AnyKeys reports a modifier as held when any of its members does.
type AnyKeys []KeyState

// Poll reports whether any member holds name.
func (a AnyKeys) Poll(name string) bool {
	for _, k := range a {
		if k != nil && k.Poll(name) {
			return true
		}
	}
	return false
}
