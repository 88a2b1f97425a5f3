package lattice

import "math"

// Viewport is the visible window in plot pixels at some zoom. A plot pixel
// is a world position multiplied by 2^zoom * tileSize; Y increases upward.
//
// Viewport is a value type: every zoom operation returns a new Viewport.
type Viewport struct {
	// X and Y are the bottom-left corner in plot pixels.
	X, Y float64
	// Width and Height are the on-screen size in pixels.
	Width, Height float64
}

// NewViewport returns a viewport of the given size with its bottom-left
// corner at (x, y).
func NewViewport(x, y, width, height float64) Viewport {
	return Viewport{X: x, Y: y, Width: width, Height: height}
}

// Position returns the bottom-left corner.
func (v Viewport) Position() Vec2 {
	return Vec2{v.X, v.Y}
}

// Center returns the centre in plot pixels.
func (v Viewport) Center() Vec2 {
	return Vec2{v.X + v.Width/2, v.Y + v.Height/2}
}

// Bounds returns the viewport rectangle in plot pixels.
func (v Viewport) Bounds() Bounds {
	return Bounds{Left: v.X, Right: v.X + v.Width, Bottom: v.Y, Top: v.Y + v.Height}
}

// WorldBounds returns the viewport rectangle in world units.
func (v Viewport) WorldBounds(tileSize, zoom float64) Bounds {
	return v.Bounds().ScaleBy(1 / extentAt(tileSize, zoom))
}

// WorldCenter returns the centre in world units.
func (v Viewport) WorldCenter(tileSize, zoom float64) Vec2 {
	return v.Center().Scale(1 / extentAt(tileSize, zoom))
}

// Translate returns the viewport moved by (dx, dy) pixels.
func (v Viewport) Translate(dx, dy float64) Viewport {
	v.X += dx
	v.Y += dy
	return v
}

// Resize returns the viewport resized around its centre.
func (v Viewport) Resize(width, height float64) Viewport {
	c := v.Center()
	return Viewport{X: c.X - width/2, Y: c.Y - height/2, Width: width, Height: height}
}

// ZoomToPos returns a viewport at toZoom centred on targetPos, given in plot
// pixels at fromZoom.
func (v Viewport) ZoomToPos(tileSize, fromZoom, toZoom float64, targetPos Vec2) Viewport {
	world := targetPos.Scale(1 / extentAt(tileSize, fromZoom))
	center := world.Scale(extentAt(tileSize, toZoom))
	return Viewport{
		X:      center.X - v.Width/2,
		Y:      center.Y - v.Height/2,
		Width:  v.Width,
		Height: v.Height,
	}
}

// ZoomFromPlotPx returns a viewport at toZoom in which targetPx, given in
// plot pixels at fromZoom, stays at the same viewport-relative position.
func (v Viewport) ZoomFromPlotPx(tileSize, fromZoom, toZoom float64, targetPx Vec2) Viewport {
	world := targetPx.Scale(1 / extentAt(tileSize, fromZoom))
	scaled := world.Scale(extentAt(tileSize, toZoom))
	rel := targetPx.Sub(v.Position())
	return Viewport{
		X:      scaled.X - rel.X,
		Y:      scaled.Y - rel.Y,
		Width:  v.Width,
		Height: v.Height,
	}
}

// VisibleCoords returns the tiles of level roundedZoom that intersect the
// viewport at zoom, col outer and row inner. Without wraparound the range
// is clamped to the grid; with it, coords may lie outside the grid and must
// be normalized before lookup.
func (v Viewport) VisibleCoords(tileSize, zoom float64, roundedZoom int, wraparound bool) []Coord {
	scale := math.Exp2(float64(roundedZoom) - zoom)
	b := v.Bounds().ScaleBy(scale / tileSize)

	minCol := int(math.Floor(b.Left))
	maxCol := int(math.Ceil(b.Right)) - 1
	minRow := int(math.Floor(b.Bottom))
	maxRow := int(math.Ceil(b.Top)) - 1
	if maxCol < minCol {
		maxCol = minCol
	}
	if maxRow < minRow {
		maxRow = minRow
	}

	if !wraparound {
		last := gridSize(roundedZoom) - 1
		minCol = max(minCol, 0)
		minRow = max(minRow, 0)
		maxCol = min(maxCol, last)
		maxRow = min(maxRow, last)
	}

	var out []Coord
	for col := minCol; col <= maxCol; col++ {
		for row := minRow; row <= maxRow; row++ {
			out = append(out, Coord{Zoom: roundedZoom, Col: col, Row: row})
		}
	}
	return out
}

// extentAt returns the plot-pixel size of the world at zoom.
func extentAt(tileSize, zoom float64) float64 {
	return math.Exp2(zoom) * tileSize
}
