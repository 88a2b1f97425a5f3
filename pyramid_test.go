package lattice

import (
	"testing"
)

func newTestPyramid(t *testing.T, coords ...Coord) *Pyramid {
	t.Helper()
	p, err := NewPyramid(DefaultConfig())
	if err != nil {
		t.Fatalf("NewPyramid: %v", err)
	}
	t.Cleanup(p.Close)
	for _, c := range coords {
		p.Add(&Tile{Coord: c, Data: c.Hash()})
	}
	return p
}

func TestPyramidAddGet(t *testing.T) {
	p := newTestPyramid(t, NewCoord(2, 1, 1))
	tile, ok := p.Get(NewCoord(2, 1, 1))
	if !ok || tile.Data != "2:1:1" {
		t.Fatalf("Get = %v, %v", tile, ok)
	}
	// Un-normalized lookups resolve to the same tile.
	if !p.Has(Coord{2, 5, -3}) {
		t.Error("Has should normalize the coordinate")
	}
	if p.Has(NewCoord(2, 0, 0)) {
		t.Error("unexpected resident tile")
	}
}

func TestPyramidAddNormalizes(t *testing.T) {
	p := newTestPyramid(t)
	tile := &Tile{Coord: Coord{1, -1, 2}}
	p.Add(tile)
	if tile.Coord != (Coord{1, 1, 0}) {
		t.Errorf("tile coord = %v, want normalized", tile.Coord)
	}
}

func TestPyramidRemoveQueuesEviction(t *testing.T) {
	c := NewCoord(3, 2, 1)
	p := newTestPyramid(t, c)
	p.Remove(c)
	if p.Has(c) {
		t.Fatal("tile still resident after Remove")
	}
	got := p.DrainEvicted()
	if len(got) != 1 || got[0] != c {
		t.Errorf("DrainEvicted = %v, want [%v]", got, c)
	}
	if again := p.DrainEvicted(); len(again) != 0 {
		t.Errorf("second DrainEvicted = %v, want empty", again)
	}
	// Removing an absent tile queues nothing.
	p.Remove(c)
	if got := p.DrainEvicted(); len(got) != 0 {
		t.Errorf("DrainEvicted after no-op Remove = %v", got)
	}
}

func TestPyramidClosestAncestor(t *testing.T) {
	p := newTestPyramid(t, NewCoord(0, 0, 0), NewCoord(2, 1, 1))
	tile, ok := p.ClosestAncestor(NewCoord(4, 5, 6))
	if !ok || tile.Coord != NewCoord(2, 1, 1) {
		t.Errorf("ClosestAncestor = %v, %v; want 2:1:1", tile, ok)
	}
	// Depth limit: 0:0:0 is 5 levels above, beyond MaxAncestorDepth.
	if _, ok := p.ClosestAncestor(NewCoord(5, 0, 31)); ok {
		t.Error("ancestor beyond depth limit should not be found")
	}
}

func TestPyramidAvailableLOD(t *testing.T) {
	t.Run("exact", func(t *testing.T) {
		p := newTestPyramid(t, NewCoord(2, 1, 1))
		sels := p.AvailableLOD(NewCoord(2, 1, 1))
		if len(sels) != 1 || sels[0].Kind != SubstituteExact || sels[0].Relative != nil {
			t.Fatalf("selections = %+v", sels)
		}
	})

	t.Run("ancestor only", func(t *testing.T) {
		p := newTestPyramid(t, NewCoord(0, 0, 0))
		sels := p.AvailableLOD(NewCoord(2, 1, 1))
		if len(sels) != 1 {
			t.Fatalf("selections = %+v", sels)
		}
		s := sels[0]
		if s.Kind != SubstituteAncestor || s.Tile.Coord != NewCoord(0, 0, 0) {
			t.Errorf("selection = %+v", s)
		}
		if s.Relative == nil || *s.Relative != NewCoord(2, 1, 1) {
			t.Errorf("Relative = %v, want the request itself", s.Relative)
		}
	})

	t.Run("descendant with ancestor fill", func(t *testing.T) {
		p := newTestPyramid(t, NewCoord(0, 0, 0), NewCoord(2, 0, 0))
		sels := p.AvailableLOD(NewCoord(1, 0, 0))
		if len(sels) != 4 {
			t.Fatalf("selections = %d, want 4", len(sels))
		}
		if sels[0].Kind != SubstituteDescendant || sels[0].Tile.Coord != NewCoord(2, 0, 0) || sels[0].Relative != nil {
			t.Errorf("first selection = %+v", sels[0])
		}
		wantRel := []Coord{{2, 0, 1}, {2, 1, 0}, {2, 1, 1}}
		for i, want := range wantRel {
			s := sels[i+1]
			if s.Kind != SubstituteAncestor || s.Relative == nil || *s.Relative != want {
				t.Errorf("selection %d = %+v, want ancestor covering %v", i+1, s, want)
			}
			if s.Target != NewCoord(1, 0, 0) {
				t.Errorf("selection %d target = %v", i+1, s.Target)
			}
		}
	})

	t.Run("descendants without ancestor", func(t *testing.T) {
		p := newTestPyramid(t, NewCoord(2, 0, 0))
		sels := p.AvailableLOD(NewCoord(1, 0, 0))
		if len(sels) != 1 || sels[0].Kind != SubstituteDescendant {
			t.Errorf("selections = %+v", sels)
		}
	})

	t.Run("nothing resident", func(t *testing.T) {
		p := newTestPyramid(t)
		if sels := p.AvailableLOD(NewCoord(3, 1, 1)); sels != nil {
			t.Errorf("selections = %+v, want nil", sels)
		}
	})

	t.Run("wrapped request", func(t *testing.T) {
		p := newTestPyramid(t, NewCoord(1, 1, 0))
		sels := p.AvailableLOD(Coord{1, -1, 0})
		if len(sels) != 1 || sels[0].Kind != SubstituteExact || sels[0].Target != NewCoord(1, 1, 0) {
			t.Errorf("selections = %+v", sels)
		}
	})
}

func BenchmarkPyramidAvailableLOD(b *testing.B) {
	p, err := NewPyramid(DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	defer p.Close()
	p.Add(&Tile{Coord: NewCoord(0, 0, 0)})
	p.Add(&Tile{Coord: NewCoord(4, 3, 3)})
	c := NewCoord(3, 1, 1)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.AvailableLOD(c)
	}
}
