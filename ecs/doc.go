// Package ecs bridges lattice events into a [Donburi] world.
//
// [NewDonburiStore] publishes pointer, selection and drag events to
// [InteractionEventType] and pan, zoom and cell-rebuild events to
// [ViewEventType]. Subscribe to them in your ECS systems and drain them with
// ProcessEvents once per frame.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	game.Dispatcher.SetEventSink(store)
//	game.View.SetEventSink(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
