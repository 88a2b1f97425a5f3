package lattice

import (
	"fmt"
	"math"
)

// ShapeKind selects the exact hit test applied after the AABB test.
type ShapeKind uint8

const (
	ShapeRect ShapeKind = iota // the shape is its bounding box
	ShapeRing                  // annulus of Radius +/- Width/2 around the box centre
)

// Collidable is an indexed hit-test record. Coordinates are plot pixels at
// the zoom level of the owning tile. A Collidable belongs to the layer that
// indexed it and is dropped when Tile is evicted.
type Collidable struct {
	MinX, MaxX, MinY, MaxY float64

	Kind ShapeKind
	// Radius and Width describe the ring (ShapeRing only).
	Radius, Width float64

	// Tile is the coordinate of the tile that owns this record.
	Tile Coord
	// Data is arbitrary user data returned with a pick.
	Data any
}

// NewRectCollidable returns a rectangle collidable covering the given box.
func NewRectCollidable(minX, maxX, minY, maxY float64, tile Coord, data any) *Collidable {
	return &Collidable{
		MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY,
		Kind: ShapeRect,
		Tile: tile,
		Data: data,
	}
}

// NewRingCollidable returns a ring collidable centred on (cx, cy). The ring
// is hit between Radius-Width/2 and Radius+Width/2.
func NewRingCollidable(cx, cy, radius, width float64, tile Coord, data any) *Collidable {
	outer := radius + width/2
	return &Collidable{
		MinX: cx - outer, MaxX: cx + outer,
		MinY: cy - outer, MaxY: cy + outer,
		Kind:   ShapeRing,
		Radius: radius,
		Width:  width,
		Tile:   tile,
		Data:   data,
	}
}

// Center returns the centre of the bounding box.
func (c *Collidable) Center() Vec2 {
	return Vec2{(c.MinX + c.MaxX) / 2, (c.MinY + c.MaxY) / 2}
}

// Bounds returns the bounding box.
func (c *Collidable) Bounds() Bounds {
	return Bounds{Left: c.MinX, Right: c.MaxX, Bottom: c.MinY, Top: c.MaxY}
}

// InnerRadius returns the inner ring radius, never negative.
func (c *Collidable) InnerRadius() float64 {
	return math.Max(0, c.Radius-c.Width/2)
}

// OuterRadius returns the outer ring radius.
func (c *Collidable) OuterRadius() float64 {
	return c.Radius + c.Width/2
}

// TestPoint reports whether (x, y) hits the exact shape. The caller has
// already established that the point lies in the bounding box.
func (c *Collidable) TestPoint(x, y float64) bool {
	switch c.Kind {
	case ShapeRect:
		return true
	case ShapeRing:
		center := c.Center()
		dx := x - center.X
		dy := y - center.Y
		d2 := dx*dx + dy*dy
		inner := c.InnerRadius()
		outer := c.OuterRadius()
		return d2 >= inner*inner && d2 <= outer*outer
	default:
		panic(fmt.Sprintf("lattice: unknown shape kind %d", c.Kind))
	}
}

// TestRectangle reports whether the box hits the exact shape. The caller has
// already established that the box overlaps the bounding box.
func (c *Collidable) TestRectangle(minX, maxX, minY, maxY float64) bool {
	switch c.Kind {
	case ShapeRect:
		return true
	case ShapeRing:
		center := c.Center()
		inner := c.InnerRadius()
		outer := c.OuterRadius()

		// Box entirely inside the hole.
		fx := math.Max(math.Abs(minX-center.X), math.Abs(maxX-center.X))
		fy := math.Max(math.Abs(minY-center.Y), math.Abs(maxY-center.Y))
		if fx*fx+fy*fy < inner*inner {
			return false
		}

		// Closest point of the box to the centre.
		nx := clamp(center.X, minX, maxX) - center.X
		ny := clamp(center.Y, minY, maxY) - center.Y
		return nx*nx+ny*ny <= outer*outer
	default:
		panic(fmt.Sprintf("lattice: unknown shape kind %d", c.Kind))
	}
}

// overlapsBox reports whether the bounding box overlaps the query box,
// edges included.
func (c *Collidable) overlapsBox(minX, maxX, minY, maxY float64) bool {
	return c.MinX <= maxX && c.MaxX >= minX && c.MinY <= maxY && c.MaxY >= minY
}
