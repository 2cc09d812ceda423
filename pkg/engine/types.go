package engine

import "github.com/chewxy/math32"

// Vec2 is a 2D point or offset in pixel space (y grows downward).
type Vec2 struct {
	X, Y float32
}

// V2 creates a Vec2 from its components.
func V2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns the component-wise sum of v and w.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns the component-wise difference of v and w.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{X: v.X - w.X, Y: v.Y - w.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Rotated returns v rotated about the origin by the given angle.
func (v Vec2) Rotated(a Angle) Vec2 {
	sin, cos := math32.Sincos(a.Radians())
	return Vec2{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}

// Approx reports whether v and w are equal within tolerance eps.
func (v Vec2) Approx(w Vec2, eps float32) bool {
	return math32.Abs(v.X-w.X) <= eps && math32.Abs(v.Y-w.Y) <= eps
}

// Angle is a rotation with an explicit unit: degrees.
type Angle float32

// Deg creates an Angle from degrees.
func Deg(degrees float32) Angle {
	return Angle(degrees)
}

// Radians converts the angle to radians.
func (a Angle) Radians() float32 {
	return float32(a) * (math32.Pi / 180)
}

// Color holds normalized red, green, blue and alpha channels, each in [0, 1].
// It is used both for render-pass clears and primitive fill.
type Color struct {
	R, G, B, A float32
}

// RGB creates an opaque color.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA creates a color with an explicit alpha channel.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// White is the default text color.
var White = RGB(1, 1, 1)
