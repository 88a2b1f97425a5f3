// Package lattice is a slippy-map engine for [Ebitengine].
//
// It maps the unit world square onto a finite viewport through an infinite
// quadtree of power-of-two tiles. A [MapView] owns the viewport, the
// continuous zoom level, the floating-origin [Cell] and the pan and zoom
// animations. A [TileSource], usually a [Pyramid], supplies resident tiles
// and substitutes ancestors or descendants when the exact tile is missing.
//
// # Quick start
//
//	cfg := lattice.DefaultConfig()
//	pyr, err := lattice.NewPyramid(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	view := lattice.NewMapView(cfg, pyr)
//	game := lattice.NewGame(view, nil)
//	if err := lattice.Run("map", game); err != nil {
//		log.Fatal(err)
//	}
//
// Tiles whose Data is an [*ebiten.Image] are drawn directly. Pass an
// [ImageFunc] to NewGame to resolve other payloads.
//
// # Coordinates
//
// [Coord] uses TMS ordering: row 0 is the bottom row. World space is the unit
// square with y pointing up. Plot pixels are world units scaled by
// 2^zoom * tileSize; the [Viewport] is measured in plot pixels. Plot pixels
// at deep zooms exceed float precision, so rendering projects through a
// [Cell] whose origin is re-centred whenever the view leaves it.
//
// # Interaction
//
// A [CollidableLayer] indexes point and ring markers per zoom level in an
// R-tree. The [Dispatcher] turns raw pointer input into hover, click,
// selection and drag events:
//
//	layer := lattice.NewCollidableLayer("markers", 0)
//	layer.IndexTile(coord, markers)
//	game.AddLayer(layer)
//	game.Dispatcher.OnSelect(func(ev lattice.InteractionEvent) {
//		fmt.Println("selected", ev.Target.Data)
//	})
//
// Holding the multi-select key (shift by default) toggles items in and out
// of the selection instead of replacing it.
//
// # Events
//
// View callbacks (OnPan, OnZoom, OnCellRebuild and their end events) and
// interaction callbacks return a [CallbackHandle]; call Remove to detach.
// An [EventSink] receives every event as well, which is how the ecs
// submodule forwards them into a Donburi world.
//
// # Logging
//
// The package logs through logrus. Replace the logger with [SetLogger];
// cell rebuilds and evictions are logged at Debug level.
//
// [Ebitengine]: https://ebitengine.org
package lattice
