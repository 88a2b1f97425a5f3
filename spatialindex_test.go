package lattice

import (
	"fmt"
	"testing"
)

func TestSpatialIndexRingSearch(t *testing.T) {
	idx := NewSpatialIndex()
	ring := NewRingCollidable(0, 0, 10, 0, NewCoord(0, 0, 0), "ring")
	idx.Insert(ring)

	got, ok := idx.Search(10, 0, 0)
	if !ok || got != ring {
		t.Errorf("Search(10,0,0) = %v, %v; want ring", got, ok)
	}
	if got, ok := idx.Search(11, 0, 0); ok {
		t.Errorf("Search(11,0,0) = %v; want none", got)
	}
	if _, ok := idx.Search(0, 0, 0); ok {
		t.Error("centre of a thin ring should miss")
	}
}

func TestSpatialIndexEmpty(t *testing.T) {
	idx := NewSpatialIndex()
	if _, ok := idx.Search(0, 0, 5); ok {
		t.Error("empty index should report none")
	}
}

func TestSpatialIndexInsertionOrder(t *testing.T) {
	idx := NewSpatialIndex()
	tile := NewCoord(0, 0, 0)
	first := NewRectCollidable(0, 10, 0, 10, tile, "first")
	second := NewRectCollidable(5, 15, 5, 15, tile, "second")
	idx.Load([]*Collidable{first, second})

	got, ok := idx.Search(7, 7, 0)
	if !ok || got != first {
		t.Errorf("Search in overlap = %v, want first", got)
	}
	all := idx.SearchAll(7, 7, 0)
	if len(all) != 2 || all[0] != first || all[1] != second {
		t.Errorf("SearchAll = %v", all)
	}
}

func TestSpatialIndexEdgeInclusive(t *testing.T) {
	idx := NewSpatialIndex()
	idx.Insert(NewRectCollidable(0, 10, 0, 10, NewCoord(0, 0, 0), nil))
	if _, ok := idx.Search(10, 10, 0); !ok {
		t.Error("corner point should hit")
	}
	if _, ok := idx.Search(12, 5, 2); !ok {
		t.Error("query box touching the edge should hit")
	}
	if _, ok := idx.Search(12.5, 5, 2); ok {
		t.Error("query box short of the edge should miss")
	}
}

func TestSpatialIndexRadiusSearch(t *testing.T) {
	idx := NewSpatialIndex()
	ring := NewRingCollidable(0, 0, 10, 0, NewCoord(0, 0, 0), nil)
	idx.Insert(ring)
	if _, ok := idx.Search(11, 0, 0); ok {
		t.Fatal("point search just outside should miss")
	}
	if got, ok := idx.Search(11, 0, 1.5); !ok || got != ring {
		t.Error("radius search should reach the ring")
	}
}

func TestSpatialIndexRemoveTile(t *testing.T) {
	idx := NewSpatialIndex()
	a := NewCoord(1, 0, 0)
	b := NewCoord(1, 1, 0)
	idx.Insert(
		NewRectCollidable(0, 1, 0, 1, a, nil),
		NewRectCollidable(2, 3, 0, 1, b, nil),
		NewRectCollidable(4, 5, 0, 1, a, nil),
	)
	// Build the tree, then mutate.
	idx.Search(0.5, 0.5, 0)

	if n := idx.RemoveTile(a); n != 2 {
		t.Errorf("RemoveTile = %d, want 2", n)
	}
	if idx.Len() != 1 {
		t.Errorf("Len = %d, want 1", idx.Len())
	}
	if _, ok := idx.Search(0.5, 0.5, 0); ok {
		t.Error("removed collidable still found")
	}
	if _, ok := idx.Search(2.5, 0.5, 0); !ok {
		t.Error("remaining collidable not found")
	}
	if n := idx.RemoveTile(a); n != 0 {
		t.Errorf("second RemoveTile = %d, want 0", n)
	}

	idx.Clear()
	if idx.Len() != 0 {
		t.Error("Clear should empty the index")
	}
}

func BenchmarkSpatialIndexSearch(b *testing.B) {
	idx := NewSpatialIndex()
	tile := NewCoord(0, 0, 0)
	items := make([]*Collidable, 0, 10000)
	for i := 0; i < 10000; i++ {
		x := float64(i%100) * 30
		y := float64(i/100) * 30
		items = append(items, NewRingCollidable(x, y, 10, 2, tile, fmt.Sprint(i)))
	}
	idx.Load(items)
	idx.Search(0, 0, 0) // build

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		idx.Search(float64(i%3000), 1510, 2)
	}
}
