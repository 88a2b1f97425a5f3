package lattice

import "math"

// CellSize is the side, in local pixels, of the window a Cell keeps valid
// around its centre.
const (
	CellSize     = 1 << 16
	CellHalfSize = CellSize / 2
)

// Cell is a floating origin. It projects normalized world positions into a
// local pixel space anchored near the viewport so that pixel magnitudes stay
// bounded regardless of zoom depth.
//
// A Cell is only valid while the viewport stays inside Bounds at the same
// integer zoom; MapView rebuilds it otherwise.
type Cell struct {
	zoom     float64
	center   Vec2
	extent   float64
	halfSize float64
	offset   Vec2
}

// NewCell returns a cell centred on the world position center at the given zoom.
func NewCell(zoom float64, center Vec2, tileSize float64) *Cell {
	extent := math.Exp2(zoom) * tileSize
	half := CellHalfSize / extent
	return &Cell{
		zoom:     zoom,
		center:   center,
		extent:   extent,
		halfSize: half,
		offset:   Vec2{center.X - half, center.Y - half},
	}
}

// Zoom returns the zoom the cell was built at.
func (c *Cell) Zoom() float64 { return c.zoom }

// Center returns the world position the cell was built around.
func (c *Cell) Center() Vec2 { return c.center }

// Extent returns the plot-pixel size of the whole world at the cell's zoom.
func (c *Cell) Extent() float64 { return c.extent }

// Offset returns the world position that maps to local pixel (0, 0).
func (c *Cell) Offset() Vec2 { return c.offset }

// HalfSize returns half of the cell side in world units.
func (c *Cell) HalfSize() float64 { return c.halfSize }

// Bounds returns the world-space window the cell covers.
func (c *Cell) Bounds() Bounds {
	return Bounds{
		Left:   c.offset.X,
		Right:  c.offset.X + 2*c.halfSize,
		Bottom: c.offset.Y,
		Top:    c.offset.Y + 2*c.halfSize,
	}
}

// Project maps a world position to local pixels at the cell's own zoom.
func (c *Cell) Project(pos Vec2) Vec2 {
	return c.ProjectAt(pos, c.zoom)
}

// ProjectAt maps a world position to local pixels at zoom.
func (c *Cell) ProjectAt(pos Vec2, zoom float64) Vec2 {
	scale := c.scale(zoom)
	return Vec2{(pos.X - c.offset.X) * scale, (pos.Y - c.offset.Y) * scale}
}

// Unproject maps local pixels at the cell's own zoom back to a world position.
func (c *Cell) Unproject(px Vec2) Vec2 {
	return c.UnprojectAt(px, c.zoom)
}

// UnprojectAt maps local pixels at zoom back to a world position.
func (c *Cell) UnprojectAt(px Vec2, zoom float64) Vec2 {
	scale := c.scale(zoom)
	return Vec2{px.X/scale + c.offset.X, px.Y/scale + c.offset.Y}
}

func (c *Cell) scale(zoom float64) float64 {
	return math.Exp2(zoom-c.zoom) * c.extent
}

// Stale reports whether a viewport covering world at zoom has left the
// cell's validity window.
func (c *Cell) Stale(zoom float64, world Bounds) bool {
	if math.Floor(zoom) != math.Floor(c.zoom) {
		return true
	}
	return !c.Contains(world)
}

// Contains reports whether world lies inside the cell's validity window.
func (c *Cell) Contains(world Bounds) bool {
	return c.Bounds().ContainsBounds(world)
}
