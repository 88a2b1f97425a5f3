package lattice

import (
	"fmt"
	"math"
)

// Bounds is an axis-aligned rectangle in a y-up space (world units or plot
// pixels). All containment and overlap tests are edge-inclusive.
type Bounds struct {
	Left, Right, Bottom, Top float64
}

// NewBounds returns the rectangle with the given edges.
func NewBounds(left, right, bottom, top float64) Bounds {
	return Bounds{Left: left, Right: right, Bottom: bottom, Top: top}
}

// EmptyBounds returns an inverted rectangle that any Extend call replaces
// with the extended argument.
func EmptyBounds() Bounds {
	return Bounds{
		Left:   math.Inf(1),
		Right:  math.Inf(-1),
		Bottom: math.Inf(1),
		Top:    math.Inf(-1),
	}
}

// IsEmpty reports whether b has never been extended.
func (b Bounds) IsEmpty() bool {
	return b.Left > b.Right || b.Bottom > b.Top
}

// ExtendPoint widens b in place to include p.
func (b *Bounds) ExtendPoint(p Vec2) {
	b.Left = math.Min(b.Left, p.X)
	b.Right = math.Max(b.Right, p.X)
	b.Bottom = math.Min(b.Bottom, p.Y)
	b.Top = math.Max(b.Top, p.Y)
}

// Extend widens b in place to include o. An empty o leaves b unchanged.
func (b *Bounds) Extend(o Bounds) {
	if o.IsEmpty() {
		return
	}
	b.Left = math.Min(b.Left, o.Left)
	b.Right = math.Max(b.Right, o.Right)
	b.Bottom = math.Min(b.Bottom, o.Bottom)
	b.Top = math.Max(b.Top, o.Top)
}

// ExtendAny widens b with a Vec2, *Vec2, Bounds or *Bounds. Any other
// argument type panics.
func (b *Bounds) ExtendAny(v any) {
	switch arg := v.(type) {
	case Vec2:
		b.ExtendPoint(arg)
	case *Vec2:
		b.ExtendPoint(*arg)
	case Bounds:
		b.Extend(arg)
	case *Bounds:
		b.Extend(*arg)
	default:
		panic(fmt.Sprintf("lattice: cannot extend bounds with %T", v))
	}
}

// Width returns Right - Left.
func (b Bounds) Width() float64 { return b.Right - b.Left }

// Height returns Top - Bottom.
func (b Bounds) Height() float64 { return b.Top - b.Bottom }

// Center returns the midpoint of b.
func (b Bounds) Center() Vec2 {
	return Vec2{b.Left + b.Width()/2, b.Bottom + b.Height()/2}
}

// Contains reports whether p lies inside b or on its edge.
func (b Bounds) Contains(p Vec2) bool {
	return p.X >= b.Left && p.X <= b.Right && p.Y >= b.Bottom && p.Y <= b.Top
}

// ContainsBounds reports whether o lies entirely inside b.
func (b Bounds) ContainsBounds(o Bounds) bool {
	return o.Left >= b.Left && o.Right <= b.Right && o.Bottom >= b.Bottom && o.Top <= b.Top
}

// Overlaps reports whether b and o share any point. Rectangles sharing only
// an edge overlap.
func (b Bounds) Overlaps(o Bounds) bool {
	return b.Left <= o.Right && b.Right >= o.Left &&
		b.Bottom <= o.Top && b.Top >= o.Bottom
}

// Intersection returns the shared rectangle of b and o. The second result is
// false when they are disjoint.
func (b Bounds) Intersection(o Bounds) (Bounds, bool) {
	if !b.Overlaps(o) {
		return Bounds{}, false
	}
	return Bounds{
		Left:   math.Max(b.Left, o.Left),
		Right:  math.Min(b.Right, o.Right),
		Bottom: math.Max(b.Bottom, o.Bottom),
		Top:    math.Min(b.Top, o.Top),
	}, true
}

// Translate returns b shifted by d.
func (b Bounds) Translate(d Vec2) Bounds {
	return Bounds{b.Left + d.X, b.Right + d.X, b.Bottom + d.Y, b.Top + d.Y}
}

// ScaleBy returns b with every edge multiplied by s.
func (b Bounds) ScaleBy(s float64) Bounds {
	return Bounds{b.Left * s, b.Right * s, b.Bottom * s, b.Top * s}
}

// Rect converts b into a top-left screen Rect inside a space of the given
// height (y flipped).
func (b Bounds) Rect(height float64) Rect {
	return Rect{X: b.Left, Y: height - b.Top, Width: b.Width(), Height: b.Height()}
}

// ClipPoints returns the points that lie inside b, edges included.
func (b Bounds) ClipPoints(points []Vec2) []Vec2 {
	var out []Vec2
	for _, p := range points {
		if b.Contains(p) {
			out = append(out, p)
		}
	}
	return out
}

// ClippedLine is the visible part of a segment after ClipLine. ClippedA and
// ClippedB report whether the respective endpoint was moved onto an edge.
type ClippedLine struct {
	A, B               Vec2
	ClippedA, ClippedB bool
}

// Cohen-Sutherland outcode bits.
const (
	outLeft   = 1 << iota // x < Left
	outRight              // x > Right
	outBottom             // y < Bottom
	outTop                // y > Top
)

// maxClipIterations hard-bounds the clipping loop on degenerate input.
const maxClipIterations = 8

func (b Bounds) outcode(p Vec2) int {
	code := 0
	if p.X < b.Left {
		code |= outLeft
	} else if p.X > b.Right {
		code |= outRight
	}
	if p.Y < b.Bottom {
		code |= outBottom
	} else if p.Y > b.Top {
		code |= outTop
	}
	return code
}

// ClipLine clips the segment a-b against b using Cohen-Sutherland. The second
// result is false when no part of the segment lies inside.
func (b Bounds) ClipLine(a, c Vec2) (ClippedLine, bool) {
	line := ClippedLine{A: a, B: c}
	codeA := b.outcode(a)
	codeB := b.outcode(c)

	for i := 0; i < maxClipIterations; i++ {
		if codeA|codeB == 0 {
			return line, true
		}
		if codeA&codeB != 0 {
			return ClippedLine{}, false
		}

		code := codeA
		if code == 0 {
			code = codeB
		}

		p0, p1 := line.A, line.B
		var p Vec2
		switch {
		case code&outTop != 0:
			p.X = p0.X + (p1.X-p0.X)*(b.Top-p0.Y)/(p1.Y-p0.Y)
			p.Y = b.Top
		case code&outBottom != 0:
			p.X = p0.X + (p1.X-p0.X)*(b.Bottom-p0.Y)/(p1.Y-p0.Y)
			p.Y = b.Bottom
		case code&outRight != 0:
			p.Y = p0.Y + (p1.Y-p0.Y)*(b.Right-p0.X)/(p1.X-p0.X)
			p.X = b.Right
		case code&outLeft != 0:
			p.Y = p0.Y + (p1.Y-p0.Y)*(b.Left-p0.X)/(p1.X-p0.X)
			p.X = b.Left
		}

		if code == codeA {
			line.A = p
			line.ClippedA = true
			codeA = b.outcode(p)
		} else {
			line.B = p
			line.ClippedB = true
			codeB = b.outcode(p)
		}
	}
	if codeA|codeB == 0 {
		return line, true
	}
	return ClippedLine{}, false
}
