package lattice

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coord addresses one cell of the 2^Zoom x 2^Zoom grid laid over the unit
// world square. Row 0 is the bottom row (TMS ordering).
//
// Coords produced by visible-tile queries may lie outside the grid when the
// world wraps around; Normalize maps them back.
type Coord struct {
	Zoom, Col, Row int
}

// NewCoord returns the coordinate (zoom, col, row). It panics if zoom is negative.
func NewCoord(zoom, col, row int) Coord {
	if zoom < 0 {
		panic(fmt.Sprintf("lattice: negative zoom %d", zoom))
	}
	return Coord{Zoom: zoom, Col: col, Row: row}
}

// ParseCoord parses the "zoom:col:row" form produced by Hash.
func ParseCoord(s string) (Coord, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Coord{}, fmt.Errorf("lattice: malformed coord %q", s)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Coord{}, fmt.Errorf("lattice: malformed coord %q: %w", s, err)
		}
		v[i] = n
	}
	if v[0] < 0 {
		return Coord{}, fmt.Errorf("lattice: malformed coord %q: negative zoom", s)
	}
	return Coord{Zoom: v[0], Col: v[1], Row: v[2]}, nil
}

// Hash returns the identity key "zoom:col:row".
func (c Coord) Hash() string {
	return strconv.Itoa(c.Zoom) + ":" + strconv.Itoa(c.Col) + ":" + strconv.Itoa(c.Row)
}

func (c Coord) String() string {
	return c.Hash()
}

// TMS returns "z/col/row" with row 0 at the bottom.
func (c Coord) TMS() string {
	return fmt.Sprintf("%d/%d/%d", c.Zoom, c.Col, c.Row)
}

// XYZ returns "z/col/row" with the row flipped so row 0 is at the top.
func (c Coord) XYZ() string {
	return fmt.Sprintf("%d/%d/%d", c.Zoom, c.Col, c.xyzRow())
}

func (c Coord) xyzRow() int {
	return gridSize(c.Zoom) - 1 - c.Row
}

// Quadkey returns the Bing-style quadkey of the tile in XYZ orientation.
// Zoom 0 yields the empty string.
func (c Coord) Quadkey() string {
	n := c.Normalize()
	row := n.xyzRow()
	var b strings.Builder
	b.Grow(n.Zoom)
	for i := n.Zoom; i > 0; i-- {
		digit := byte('0')
		mask := 1 << (i - 1)
		if n.Col&mask != 0 {
			digit++
		}
		if row&mask != 0 {
			digit += 2
		}
		b.WriteByte(digit)
	}
	return b.String()
}

// AncestorAt returns the ancestor k levels up. It panics if k < 1 or k
// exceeds the coordinate's zoom.
func (c Coord) AncestorAt(k int) Coord {
	if k < 1 || k > c.Zoom {
		panic(fmt.Sprintf("lattice: invalid ancestor offset %d for %s", k, c))
	}
	// Arithmetic shift floors negative col/row.
	return Coord{Zoom: c.Zoom - k, Col: c.Col >> k, Row: c.Row >> k}
}

// Parent returns the ancestor one level up.
func (c Coord) Parent() Coord {
	return c.AncestorAt(1)
}

// DescendantsAt returns all 4^k descendants k levels down, col outer and row
// inner. It panics if k < 1.
func (c Coord) DescendantsAt(k int) []Coord {
	if k < 1 {
		panic(fmt.Sprintf("lattice: invalid descendant offset %d for %s", k, c))
	}
	n := 1 << k
	out := make([]Coord, 0, n*n)
	baseCol := c.Col << k
	baseRow := c.Row << k
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out = append(out, Coord{Zoom: c.Zoom + k, Col: baseCol + i, Row: baseRow + j})
		}
	}
	return out
}

// Children returns the four descendants one level down.
func (c Coord) Children() []Coord {
	return c.DescendantsAt(1)
}

// IsAncestorOf reports whether c is a strict ancestor of o.
func (c Coord) IsAncestorOf(o Coord) bool {
	if c.Zoom >= o.Zoom {
		return false
	}
	d := o.Zoom - c.Zoom
	return o.Col>>d == c.Col && o.Row>>d == c.Row
}

// IsDescendantOf reports whether c is a strict descendant of o.
func (c Coord) IsDescendantOf(o Coord) bool {
	return o.IsAncestorOf(c)
}

// Normalize wraps col and row into [0, 2^zoom).
func (c Coord) Normalize() Coord {
	return Coord{Zoom: c.Zoom, Col: wrapIndex(c.Col, c.Zoom), Row: wrapIndex(c.Row, c.Zoom)}
}

// Position returns the bottom-left corner of the footprint in unit space.
func (c Coord) Position() Vec2 {
	return Vec2{math.Ldexp(float64(c.Col), -c.Zoom), math.Ldexp(float64(c.Row), -c.Zoom)}
}

// Center returns the centre of the footprint in unit space.
func (c Coord) Center() Vec2 {
	return Vec2{math.Ldexp(float64(c.Col)+0.5, -c.Zoom), math.Ldexp(float64(c.Row)+0.5, -c.Zoom)}
}

// Bounds returns the footprint in unit space.
func (c Coord) Bounds() Bounds {
	p := c.Position()
	size := math.Ldexp(1, -c.Zoom)
	return Bounds{Left: p.X, Right: p.X + size, Bottom: p.Y, Top: p.Y + size}
}

// maxGridZoom is the deepest level whose grid dimension still fits an int.
const maxGridZoom = 62

// gridSize returns 2^zoom, saturating at 2^maxGridZoom.
func gridSize(zoom int) int {
	if zoom > maxGridZoom {
		zoom = maxGridZoom
	}
	return 1 << zoom
}

// wrapIndex reduces v modulo 2^zoom into the non-negative range. Beyond
// maxGridZoom the grid exceeds int range and only the sign bit is masked.
func wrapIndex(v, zoom int) int {
	if zoom > maxGridZoom {
		return v & math.MaxInt
	}
	return v & (1<<zoom - 1)
}
