package lattice

import (
	"math"
	"sort"

	"github.com/peterstace/simplefeatures/rtree"
)

// SpatialIndex is a bulk-loaded R-tree over the collidables of one zoom
// level. Mutations mark the tree stale; the next query bulk-loads it again.
//
// A SpatialIndex is owned by a single layer and is not safe for concurrent
// use.
type SpatialIndex struct {
	items []*Collidable
	tree  *rtree.RTree
	dirty bool

	candidates []int
}

// NewSpatialIndex returns an empty index.
func NewSpatialIndex() *SpatialIndex {
	return &SpatialIndex{}
}

// Load replaces the contents of the index with items.
func (s *SpatialIndex) Load(items []*Collidable) {
	s.items = append(s.items[:0], items...)
	s.dirty = true
}

// Insert adds items to the index.
func (s *SpatialIndex) Insert(items ...*Collidable) {
	if len(items) == 0 {
		return
	}
	s.items = append(s.items, items...)
	s.dirty = true
}

// RemoveTile removes every collidable owned by tile and returns how many
// were removed.
func (s *SpatialIndex) RemoveTile(tile Coord) int {
	kept := s.items[:0]
	for _, it := range s.items {
		if it.Tile != tile {
			kept = append(kept, it)
		}
	}
	removed := len(s.items) - len(kept)
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = nil
	}
	s.items = kept
	if removed > 0 {
		s.dirty = true
	}
	return removed
}

// Clear removes everything.
func (s *SpatialIndex) Clear() {
	for i := range s.items {
		s.items[i] = nil
	}
	s.items = s.items[:0]
	s.tree = nil
	s.dirty = false
}

// Len returns the number of indexed collidables.
func (s *SpatialIndex) Len() int {
	return len(s.items)
}

// rebuild bulk-loads the R-tree from items if it is stale.
func (s *SpatialIndex) rebuild() {
	if !s.dirty && s.tree != nil {
		return
	}
	bulk := make([]rtree.BulkItem, len(s.items))
	for i, it := range s.items {
		bulk[i] = rtree.BulkItem{
			Box:      rtree.Box{MinX: it.MinX, MinY: it.MinY, MaxX: it.MaxX, MaxY: it.MaxY},
			RecordID: i,
		}
	}
	s.tree = rtree.BulkLoad(bulk)
	s.dirty = false
}

// query collects the record IDs whose boxes overlap the query box, sorted
// into insertion order. The box is widened by one ulp so the tree never
// drops edge contacts; the exact overlap test below restores inclusivity.
func (s *SpatialIndex) query(minX, maxX, minY, maxY float64) []int {
	s.rebuild()
	s.candidates = s.candidates[:0]
	if len(s.items) == 0 {
		return s.candidates
	}
	box := rtree.Box{
		MinX: math.Nextafter(minX, math.Inf(-1)),
		MinY: math.Nextafter(minY, math.Inf(-1)),
		MaxX: math.Nextafter(maxX, math.Inf(1)),
		MaxY: math.Nextafter(maxY, math.Inf(1)),
	}
	_ = s.tree.RangeSearch(box, func(id int) error {
		if s.items[id].overlapsBox(minX, maxX, minY, maxY) {
			s.candidates = append(s.candidates, id)
		}
		return nil
	})
	sort.Ints(s.candidates)
	return s.candidates
}

// Search returns the first collidable, in insertion order, whose exact shape
// is hit by the point (x, y) when radius is 0, or by the square of half-size
// radius around it otherwise.
func (s *SpatialIndex) Search(x, y, radius float64) (*Collidable, bool) {
	minX, maxX, minY, maxY := x-radius, x+radius, y-radius, y+radius
	for _, id := range s.query(minX, maxX, minY, maxY) {
		if s.hit(s.items[id], x, y, radius) {
			return s.items[id], true
		}
	}
	return nil, false
}

// SearchAll returns every collidable hit by the query, in insertion order.
func (s *SpatialIndex) SearchAll(x, y, radius float64) []*Collidable {
	var out []*Collidable
	minX, maxX, minY, maxY := x-radius, x+radius, y-radius, y+radius
	for _, id := range s.query(minX, maxX, minY, maxY) {
		if s.hit(s.items[id], x, y, radius) {
			out = append(out, s.items[id])
		}
	}
	return out
}

func (s *SpatialIndex) hit(c *Collidable, x, y, radius float64) bool {
	if radius == 0 {
		return c.TestPoint(x, y)
	}
	return c.TestRectangle(x-radius, x+radius, y-radius, y+radius)
}
