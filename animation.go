package lattice

import (
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// AnimationState is the lifecycle of a pan or zoom animation.
type AnimationState uint8

const (
	AnimationIdle      AnimationState = iota // not started
	AnimationRunning                         // advancing on every Update
	AnimationFinished                        // reached its end value
	AnimationCancelled                       // stopped early by Cancel
)

func (s AnimationState) String() string {
	switch s {
	case AnimationIdle:
		return "idle"
	case AnimationRunning:
		return "running"
	case AnimationFinished:
		return "finished"
	case AnimationCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// PanEase returns the pan progress curve 1-(1-t)^(1/easing) as a gween
// easing function. Smaller easing values decelerate harder.
func PanEase(easing float64) ease.TweenFunc {
	if !(easing > 0) {
		panic("lattice: pan easing must be positive")
	}
	exp := 1 / easing
	return func(t, b, c, d float32) float32 {
		p := float64(t) / float64(d)
		return b + c*float32(1-math.Pow(1-p, exp))
	}
}

// progressTween drives a [0,1] progress value over a duration in
// milliseconds.
type progressTween struct {
	tween    *gween.Tween
	start    time.Time
	duration time.Duration
}

func newProgressTween(start time.Time, duration time.Duration, fn ease.TweenFunc) progressTween {
	return progressTween{
		tween:    gween.New(0, 1, float32(duration.Milliseconds()), fn),
		start:    start,
		duration: duration,
	}
}

// at returns progress at now and whether the end has been reached.
func (p progressTween) at(now time.Time) (float64, bool) {
	if p.duration <= 0 {
		return 1, true
	}
	elapsed := float32(now.Sub(p.start).Seconds() * 1000)
	v, done := p.tween.Set(elapsed)
	if done {
		return 1, true
	}
	return float64(v), false
}

// PanAnimation moves a position by Delta over Duration. It is owned by a
// single MapView and replaced, never merged, by the next gesture.
type PanAnimation struct {
	Start    time.Time
	From     Vec2
	Delta    Vec2
	Duration time.Duration
	Easing   float64

	state    AnimationState
	progress progressTween
	current  Vec2
}

// NewPanAnimation returns a running pan starting at now.
func NewPanAnimation(from, delta Vec2, duration time.Duration, easing float64, now time.Time) *PanAnimation {
	return &PanAnimation{
		Start:    now,
		From:     from,
		Delta:    delta,
		Duration: duration,
		Easing:   easing,
		state:    AnimationRunning,
		progress: newProgressTween(now, duration, PanEase(easing)),
		current:  from,
	}
}

// State returns the lifecycle state.
func (a *PanAnimation) State() AnimationState { return a.state }

// Position returns the most recently computed position.
func (a *PanAnimation) Position() Vec2 { return a.current }

// End returns From + Delta.
func (a *PanAnimation) End() Vec2 { return a.From.Add(a.Delta) }

// Update computes the position at now. done is true once the animation is
// no longer running, including on the tick that reaches the end.
func (a *PanAnimation) Update(now time.Time) (pos Vec2, done bool) {
	if a.state != AnimationRunning {
		return a.current, true
	}
	p, finished := a.progress.at(now)
	if finished {
		a.current = a.End()
		a.state = AnimationFinished
		return a.current, true
	}
	a.current = a.From.Add(a.Delta.Scale(p))
	return a.current, false
}

// Cancel stops the animation where it currently is.
func (a *PanAnimation) Cancel() Vec2 {
	if a.state == AnimationRunning {
		a.state = AnimationCancelled
	}
	return a.current
}

// Finish snaps to the end position.
func (a *PanAnimation) Finish() Vec2 {
	if a.state == AnimationRunning {
		a.current = a.End()
		a.state = AnimationFinished
	}
	return a.current
}

// ZoomAnimation interpolates the zoom level linearly from FromZoom to
// ToZoom. TargetPx is the viewport-relative pixel held fixed on screen.
type ZoomAnimation struct {
	Start    time.Time
	FromZoom float64
	ToZoom   float64
	Duration time.Duration
	TargetPx Vec2

	state    AnimationState
	progress progressTween
	current  float64
}

// NewZoomAnimation returns a running zoom starting at now.
func NewZoomAnimation(from, to float64, targetPx Vec2, duration time.Duration, now time.Time) *ZoomAnimation {
	return &ZoomAnimation{
		Start:    now,
		FromZoom: from,
		ToZoom:   to,
		Duration: duration,
		TargetPx: targetPx,
		state:    AnimationRunning,
		progress: newProgressTween(now, duration, ease.Linear),
		current:  from,
	}
}

// State returns the lifecycle state.
func (a *ZoomAnimation) State() AnimationState { return a.state }

// Zoom returns the most recently computed zoom level.
func (a *ZoomAnimation) Zoom() float64 { return a.current }

// Update computes the zoom at now.
func (a *ZoomAnimation) Update(now time.Time) (zoom float64, done bool) {
	if a.state != AnimationRunning {
		return a.current, true
	}
	p, finished := a.progress.at(now)
	if finished {
		a.current = a.ToZoom
		a.state = AnimationFinished
		return a.current, true
	}
	a.current = a.FromZoom + (a.ToZoom-a.FromZoom)*p
	return a.current, false
}

// Retarget restarts the animation at now from the current zoom toward
// toZoom, around targetPx.
func (a *ZoomAnimation) Retarget(toZoom float64, targetPx Vec2, now time.Time) {
	a.Start = now
	a.FromZoom = a.current
	a.ToZoom = toZoom
	a.TargetPx = targetPx
	a.state = AnimationRunning
	a.progress = newProgressTween(now, a.Duration, ease.Linear)
}

// Cancel stops the zoom at its current level.
func (a *ZoomAnimation) Cancel() float64 {
	if a.state == AnimationRunning {
		a.state = AnimationCancelled
	}
	return a.current
}

// Finish snaps to ToZoom.
func (a *ZoomAnimation) Finish() float64 {
	if a.state == AnimationRunning {
		a.current = a.ToZoom
		a.state = AnimationFinished
	}
	return a.current
}
