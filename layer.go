package lattice

import (
	"math"
	"sort"
)

// PickContext describes the pointer for one picking pass.
type PickContext struct {
	// Plot is the pointer in plot pixels at Zoom.
	Plot     Vec2
	Zoom     float64
	TileZoom int
	TileSize float64
	// Wraparound folds the pointer back into the primary copy of the world.
	Wraparound bool
	// Radius is the pick tolerance in screen pixels. Zero tests the exact
	// point.
	Radius float64
}

// levelPoint returns the pointer and radius in plot pixels of TileZoom.
func (ctx PickContext) levelPoint() (Vec2, float64) {
	s := math.Exp2(float64(ctx.TileZoom) - ctx.Zoom)
	p := ctx.Plot.Scale(s)
	if ctx.Wraparound {
		ext := extentAt(ctx.TileSize, float64(ctx.TileZoom))
		p = Vec2{p.X - math.Floor(p.X/ext)*ext, p.Y - math.Floor(p.Y/ext)*ext}
	}
	return p, ctx.Radius * s
}

// Collision is a successful pick.
type Collision struct {
	Target *Collidable
	Layer  Pickable
	// Point is the pointer in plot pixels of the target's tile level.
	Point Vec2
}

// Pickable is anything the Dispatcher can hit-test. Layers are consulted
// from the highest ZIndex down; the first hit wins.
type Pickable interface {
	Visible() bool
	ZIndex() int
	Pick(ctx PickContext) (Collision, bool)
}

// CollidableLayer keeps one SpatialIndex per tile level. Collidables are
// added tile by tile as tiles load and dropped when the tile is evicted.
type CollidableLayer struct {
	Name string

	zIndex  int
	hidden  bool
	indexes map[int]*SpatialIndex
}

// NewCollidableLayer returns an empty, visible layer.
func NewCollidableLayer(name string, zIndex int) *CollidableLayer {
	return &CollidableLayer{Name: name, zIndex: zIndex, indexes: make(map[int]*SpatialIndex)}
}

// Visible reports whether the layer takes part in picking.
func (l *CollidableLayer) Visible() bool { return !l.hidden }

// SetVisible shows or hides the layer.
func (l *CollidableLayer) SetVisible(v bool) { l.hidden = !v }

// ZIndex returns the picking priority.
func (l *CollidableLayer) ZIndex() int { return l.zIndex }

// SetZIndex changes the picking priority.
func (l *CollidableLayer) SetZIndex(z int) { l.zIndex = z }

// Index returns the index for level zoom, creating it if needed.
func (l *CollidableLayer) Index(zoom int) *SpatialIndex {
	idx, ok := l.indexes[zoom]
	if !ok {
		idx = NewSpatialIndex()
		l.indexes[zoom] = idx
	}
	return idx
}

// IndexTile replaces the collidables of tile. Each item is tagged with the
// normalized tile so eviction can find it.
func (l *CollidableLayer) IndexTile(tile Coord, items []*Collidable) {
	tile = tile.Normalize()
	idx := l.Index(tile.Zoom)
	idx.RemoveTile(tile)
	for _, it := range items {
		it.Tile = tile
	}
	idx.Insert(items...)
}

// EvictTile drops the collidables of tile and returns how many were removed.
func (l *CollidableLayer) EvictTile(tile Coord) int {
	tile = tile.Normalize()
	idx, ok := l.indexes[tile.Zoom]
	if !ok {
		return 0
	}
	n := idx.RemoveTile(tile)
	if idx.Len() == 0 {
		delete(l.indexes, tile.Zoom)
	}
	if n > 0 {
		logFor("layer").WithField("coord", tile).WithField("removed", n).Debug("collidables evicted")
	}
	return n
}

// Clear drops every index.
func (l *CollidableLayer) Clear() {
	clear(l.indexes)
}

// Len returns the number of collidables across all levels.
func (l *CollidableLayer) Len() int {
	n := 0
	for _, idx := range l.indexes {
		n += idx.Len()
	}
	return n
}

// Levels returns the tile levels that currently hold collidables, ascending.
func (l *CollidableLayer) Levels() []int {
	out := make([]int, 0, len(l.indexes))
	for z := range l.indexes {
		out = append(out, z)
	}
	sort.Ints(out)
	return out
}

// Pick hit-tests the index of ctx.TileZoom.
func (l *CollidableLayer) Pick(ctx PickContext) (Collision, bool) {
	idx, ok := l.indexes[ctx.TileZoom]
	if !ok {
		return Collision{}, false
	}
	p, r := ctx.levelPoint()
	c, ok := idx.Search(p.X, p.Y, r)
	if !ok {
		return Collision{}, false
	}
	return Collision{Target: c, Layer: l, Point: p}, true
}
