package gesture

import "math"

// Smoothing is the fraction of the remaining distance the cursor covers per frame.
// It is applied once per processed frame, so the effective speed depends on the
// camera frame rate.
const Smoothing = 0.3

// Vec2 is a position on the rendering surface, in pixels.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

// Dist returns the Euclidean distance between v and o.
func (v Vec2) Dist(o Vec2) float64 {
	d := v.Sub(o)
	return math.Hypot(d.X, d.Y)
}

// Size is the pixel size of the rendering surface.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Center returns the middle of the surface.
func (s Size) Center() Vec2 {
	return Vec2{X: s.Width / 2, Y: s.Height / 2}
}

// Cursor is a smoothed pointer chasing a target.
type Cursor struct {
	Position Vec2 `json:"position"`
	Target   Vec2 `json:"target"`
}

// Step moves Position a fixed fraction of the way toward Target.
func (c *Cursor) Step() {
	c.Position.X += (c.Target.X - c.Position.X) * Smoothing
	c.Position.Y += (c.Target.Y - c.Position.Y) * Smoothing
}

// Reset snaps both Position and Target to p.
func (c *Cursor) Reset(p Vec2) {
	c.Position = p
	c.Target = p
}
