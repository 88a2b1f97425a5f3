package lattice

import "math"

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Len returns the euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Rect is an axis-aligned screen rectangle. The coordinate system has its
// origin at the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// EventType identifies a kind of synthesized event.
type EventType uint8

const (
	EventPointerOver  EventType = iota // pointer moved onto a collidable
	EventPointerOut                    // pointer left the previously hovered collidable
	EventClick                         // press then release over the same collidable
	EventSelect                        // a collidable was added to the selection
	EventUnselect                      // a collidable was removed from the selection
	EventDragStart                     // movement exceeded the drag dead zone
	EventDrag                          // fires for each move while dragging
	EventDragEnd                       // pointer released after dragging
	EventPan                           // viewport moved by a pan animation or drag
	EventPanEnd                        // pan animation finished or was cancelled
	EventZoom                          // zoom level changed during a zoom animation
	EventZoomEnd                       // zoom animation finished or was cancelled
	EventCellRebuild                   // the floating origin was recentered
)

var eventNames = [...]string{
	EventPointerOver: "over",
	EventPointerOut:  "out",
	EventClick:       "click",
	EventSelect:      "select",
	EventUnselect:    "unselect",
	EventDragStart:   "dragstart",
	EventDrag:        "drag",
	EventDragEnd:     "dragend",
	EventPan:         "pan",
	EventPanEnd:      "panend",
	EventZoom:        "zoom",
	EventZoomEnd:     "zoomend",
	EventCellRebuild: "cellrebuild",
}

func (e EventType) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "unknown"
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// CursorShape is the cursor the host should display for the current hover state.
type CursorShape uint8

const (
	CursorDefault CursorShape = iota // nothing under the pointer
	CursorPointer                    // hovering a pickable collidable
	CursorMove                       // dragging the viewport
)

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
