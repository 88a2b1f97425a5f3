package lattice

import (
	"math"
	"testing"
)

func TestRingCollidableBounds(t *testing.T) {
	c := NewRingCollidable(5, -5, 10, 4, NewCoord(0, 0, 0), nil)
	want := Bounds{Left: -7, Right: 17, Bottom: -17, Top: 7}
	if c.Bounds() != want {
		t.Errorf("Bounds = %+v, want %+v", c.Bounds(), want)
	}
	assertVec(t, "Center", c.Center(), Vec2{5, -5})
	if c.InnerRadius() != 8 || c.OuterRadius() != 12 {
		t.Errorf("radii = %v/%v, want 8/12", c.InnerRadius(), c.OuterRadius())
	}
}

func TestRingInnerRadiusNeverNegative(t *testing.T) {
	c := NewRingCollidable(0, 0, 1, 10, NewCoord(0, 0, 0), nil)
	if c.InnerRadius() != 0 {
		t.Errorf("InnerRadius = %v, want 0", c.InnerRadius())
	}
	if !c.TestPoint(0, 0) {
		t.Error("centre of a filled ring should hit")
	}
}

func TestRingTestPoint(t *testing.T) {
	thin := NewRingCollidable(0, 0, 10, 0, NewCoord(0, 0, 0), nil)
	thick := NewRingCollidable(0, 0, 10, 2, NewCoord(0, 0, 0), nil)
	tests := []struct {
		name string
		c    *Collidable
		x, y float64
		want bool
	}{
		{"thin on radius", thin, 10, 0, true},
		{"thin on radius diagonal", thin, 6, 8, true},
		{"thin just outside", thin, 10.0001, 0, false},
		{"thin inside hole", thin, 5, 0, false},
		{"thick inner edge", thick, 9, 0, true},
		{"thick outer edge", thick, 0, -11, true},
		{"thick beyond buffer", thick, 11.01, 0, false},
		{"thick in hole", thick, 8.9, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.TestPoint(tt.x, tt.y); got != tt.want {
				t.Errorf("TestPoint(%v,%v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRingTestRectangle(t *testing.T) {
	ring := NewRingCollidable(0, 0, 10, 2, NewCoord(0, 0, 0), nil)
	tests := []struct {
		name                   string
		minX, maxX, minY, maxY float64
		want                   bool
	}{
		{"inside hole", -2, 2, -2, 2, false},
		{"straddles ring", 8, 12, -1, 1, true},
		{"outside ring", 20, 30, 20, 30, false},
		{"covers everything", -20, 20, -20, 20, true},
		{"corner region miss", 8, 9, 8, 9, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ring.TestRectangle(tt.minX, tt.maxX, tt.minY, tt.maxY); got != tt.want {
				t.Errorf("TestRectangle = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectCollidableAlwaysHits(t *testing.T) {
	c := NewRectCollidable(0, 10, 0, 10, NewCoord(1, 0, 0), "r")
	if !c.TestPoint(3, 3) || !c.TestRectangle(1, 2, 1, 2) {
		t.Error("rectangle exact tests should always pass")
	}
}

func TestUnknownShapePanics(t *testing.T) {
	c := &Collidable{Kind: ShapeKind(9)}
	defer func() {
		if recover() == nil {
			t.Error("unknown shape kind should panic")
		}
	}()
	c.TestPoint(0, 0)
}

func TestRingFarCornerInHole(t *testing.T) {
	// Farthest corner of a 1x1 box at the centre is sqrt(0.5) away, well
	// inside an inner radius of 5.
	ring := NewRingCollidable(0, 0, 6, 2, NewCoord(0, 0, 0), nil)
	if ring.TestRectangle(-0.5, 0.5, -0.5, 0.5) {
		t.Error("box in the hole should not hit")
	}
	if math.Sqrt(0.5) >= ring.InnerRadius() {
		t.Fatal("fixture assumption broken")
	}
}
