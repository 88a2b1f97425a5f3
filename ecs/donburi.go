package ecs

import (
	"github.com/phanxgames/lattice"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for lattice interaction
// events.
var InteractionEventType = events.NewEventType[lattice.InteractionEvent]()

// ViewEventType is the Donburi event type for lattice view events.
var ViewEventType = events.NewEventType[lattice.ViewEvent]()

// DonburiStore publishes lattice events into a Donburi world.
type DonburiStore struct {
	world donburi.World
}

var (
	_ lattice.EventSink     = (*DonburiStore)(nil)
	_ lattice.ViewEventSink = (*DonburiStore)(nil)
)

// NewDonburiStore returns a sink backed by world. Events are queued until
// ProcessEvents runs on the matching event type.
func NewDonburiStore(world donburi.World) *DonburiStore {
	return &DonburiStore{world: world}
}

// EmitEvent publishes an interaction event.
func (s *DonburiStore) EmitEvent(event lattice.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// EmitViewEvent publishes a view event.
func (s *DonburiStore) EmitViewEvent(event lattice.ViewEvent) {
	ViewEventType.Publish(s.world, event)
}
