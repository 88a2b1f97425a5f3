package lattice

import (
	"fmt"
	"math"
)

// SubstituteKind tells how a supplied tile relates to the requested one.
type SubstituteKind uint8

const (
	SubstituteExact      SubstituteKind = iota // the requested tile itself
	SubstituteAncestor                         // a coarser tile covering the request
	SubstituteDescendant                       // a finer tile covering part of the request
)

// SubstituteSelection names the tile that stands in for Target. For an
// ancestor, Relative is the missing cell the ancestor covers (Target itself
// or one of its descendants); it is nil otherwise. Selections are built per
// frame and never kept.
type SubstituteSelection struct {
	Kind     SubstituteKind
	Target   Coord
	Tile     *Tile
	Relative *Coord
}

// RenderRule identifies how a Renderable was derived.
type RenderRule uint8

const (
	RuleExact             RenderRule = iota // tile drawn at its own footprint
	RuleAncestor                            // sub-region of an ancestor stretched over the request
	RuleDescendant                          // finer tile placed inside the requested footprint
	RuleAncestorPartial                     // ancestor covering one missing descendant of the request
	RuleDescendantPartial                   // descendant sourced from a SubstituteSelection
)

// fullUV samples the whole tile.
var fullUV = [4]float64{0, 0, 1, 1}

// Renderable is the draw instruction for one tile in one frame.
type Renderable struct {
	Tile *Tile
	Rule RenderRule
	// Scale multiplies the tile size to give the quad side in pixels.
	Scale float64
	// Offset is the quad's bottom-left corner relative to the viewport's
	// bottom-left corner, in pixels.
	Offset Vec2
	// UV is (u, v, width, height) in tile texture space, v increasing upward.
	UV [4]float64
}

// Size returns the quad side in pixels for the given tile size.
func (r Renderable) Size(tileSize float64) float64 {
	return tileSize * r.Scale
}

// RenderFrame is the per-frame projection shared by every Renderable.
type RenderFrame struct {
	TileSize float64
	Zoom     float64
	// Cell is the floating origin. When nil, projection uses absolute plot
	// pixels.
	Cell *Cell
	// Origin is the viewport's bottom-left corner in the same pixel space
	// the Cell projects into.
	Origin Vec2
}

// NewRenderFrame builds the frame for a viewport at zoom.
func NewRenderFrame(tileSize, zoom float64, cell *Cell, vp Viewport) RenderFrame {
	f := RenderFrame{TileSize: tileSize, Zoom: zoom, Cell: cell}
	f.Origin = f.projectAbs(vp.Position().Scale(1 / extentAt(tileSize, zoom)))
	return f
}

func (f RenderFrame) projectAbs(world Vec2) Vec2 {
	if f.Cell != nil {
		return f.Cell.ProjectAt(world, f.Zoom)
	}
	return world.Scale(extentAt(f.TileSize, f.Zoom))
}

// project maps a world position to pixels relative to the viewport.
func (f RenderFrame) project(world Vec2) Vec2 {
	return f.projectAbs(world).Sub(f.Origin)
}

// scaleFor returns the quad scale of a tile at level zoom.
func (f RenderFrame) scaleFor(zoom int) float64 {
	return math.Exp2(f.Zoom - float64(zoom))
}

// UVOffset returns the (u, v, width, height) rectangle that descendant
// occupies inside ancestor's texture. It panics unless ancestor equals or
// is an ancestor of descendant.
func UVOffset(ancestor, descendant Coord) [4]float64 {
	if ancestor != descendant && !ancestor.IsAncestorOf(descendant) {
		panic(fmt.Sprintf("lattice: %s is not an ancestor of %s", ancestor, descendant))
	}
	dz := descendant.Zoom - ancestor.Zoom
	scale := math.Ldexp(1, -dz)
	return [4]float64{
		math.Ldexp(float64(descendant.Col), -dz) - float64(ancestor.Col),
		math.Ldexp(float64(descendant.Row), -dz) - float64(ancestor.Row),
		scale,
		scale,
	}
}

// wrapShift returns the world offset between a possibly un-normalized
// coordinate and its normalized twin.
func wrapShift(c Coord) Vec2 {
	return c.Position().Sub(c.Normalize().Position())
}

// NewExactRenderable draws tile over requested, which may be un-normalized.
func NewExactRenderable(f RenderFrame, tile *Tile, requested Coord) Renderable {
	if tile.Coord != requested.Normalize() {
		panic(fmt.Sprintf("lattice: tile %s does not match %s", tile.Coord, requested))
	}
	return Renderable{
		Tile:   tile,
		Rule:   RuleExact,
		Scale:  f.scaleFor(requested.Zoom),
		Offset: f.project(requested.Position()),
		UV:     fullUV,
	}
}

// NewAncestorRenderable draws the part of ancestor tile covering reference,
// the missing cell at or below requested. When reference is requested
// itself the quad spans requested's footprint; otherwise it spans
// reference's footprint, scaled by the zoom ratio between the two.
func NewAncestorRenderable(f RenderFrame, tile *Tile, requested, reference Coord) Renderable {
	r := ancestorRenderable(f, tile, requested, reference)
	r.Rule = RuleAncestor
	return r
}

func ancestorRenderable(f RenderFrame, tile *Tile, requested, reference Coord) Renderable {
	wanted := requested.Normalize()
	reference = reference.Normalize()
	if reference != wanted && !reference.IsDescendantOf(wanted) {
		panic(fmt.Sprintf("lattice: reference %s is outside %s", reference, requested))
	}

	r := Renderable{
		Tile: tile,
		UV:   UVOffset(tile.Coord, reference),
	}
	if reference == wanted {
		r.Scale = f.scaleFor(requested.Zoom)
		r.Offset = f.project(requested.Position())
		return r
	}
	r.Scale = f.scaleFor(reference.Zoom)
	r.Offset = f.project(reference.Position().Add(wrapShift(requested)))
	return r
}

// NewDescendantRenderable places the finer tile inside requested's footprint.
func NewDescendantRenderable(f RenderFrame, tile *Tile, requested Coord) Renderable {
	r := descendantRenderable(f, tile, requested)
	r.Rule = RuleDescendant
	return r
}

func descendantRenderable(f RenderFrame, tile *Tile, requested Coord) Renderable {
	wanted := requested.Normalize()
	if !tile.Coord.IsDescendantOf(wanted) {
		panic(fmt.Sprintf("lattice: tile %s is not a descendant of %s", tile.Coord, requested))
	}
	dz := tile.Coord.Zoom - wanted.Zoom
	// Position of the tile inside the wanted cell, in wanted-tile units.
	local := Vec2{
		math.Ldexp(float64(tile.Coord.Col), -dz) - float64(wanted.Col),
		math.Ldexp(float64(tile.Coord.Row), -dz) - float64(wanted.Row),
	}
	world := requested.Position().Add(local.Scale(math.Ldexp(1, -requested.Zoom)))
	return Renderable{
		Tile:   tile,
		Scale:  f.scaleFor(tile.Coord.Zoom),
		Offset: f.project(world),
		UV:     fullUV,
	}
}

// NewPartialRenderable draws a SubstituteSelection for requested, which must
// normalize to sel.Target.
func NewPartialRenderable(f RenderFrame, sel SubstituteSelection, requested Coord) Renderable {
	if requested.Normalize() != sel.Target.Normalize() {
		panic(fmt.Sprintf("lattice: selection for %s used for %s", sel.Target, requested))
	}
	switch sel.Kind {
	case SubstituteExact:
		return NewExactRenderable(f, sel.Tile, requested)
	case SubstituteAncestor:
		reference := sel.Target
		if sel.Relative != nil {
			reference = *sel.Relative
		}
		if reference.Normalize() == requested.Normalize() {
			return NewAncestorRenderable(f, sel.Tile, requested, reference)
		}
		r := ancestorRenderable(f, sel.Tile, requested, reference)
		r.Rule = RuleAncestorPartial
		return r
	case SubstituteDescendant:
		r := descendantRenderable(f, sel.Tile, requested)
		r.Rule = RuleDescendantPartial
		return r
	default:
		panic(fmt.Sprintf("lattice: unknown substitute kind %d", sel.Kind))
	}
}

// BuildRenderables returns the draw list for coords: the exact tile where
// resident, otherwise whatever the source offers as substitutes. Coords with
// nothing usable are skipped.
func BuildRenderables(f RenderFrame, src TileSource, coords []Coord) []Renderable {
	out := make([]Renderable, 0, len(coords))
	for _, c := range coords {
		if t, ok := src.Get(c.Normalize()); ok {
			out = append(out, NewExactRenderable(f, t, c))
			continue
		}
		for _, sel := range src.AvailableLOD(c.Normalize()) {
			out = append(out, NewPartialRenderable(f, sel, c))
		}
	}
	return out
}
