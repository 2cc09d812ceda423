package engine

import "github.com/chewxy/math32"

// Geometry generation: pure functions that turn primitive descriptions into
// point lists in pixel space. No GPU handles, no state. Negative dimensions
// are clamped to zero rather than rejected, so degenerate input produces
// zero-area geometry instead of an error.

const (
	// minCircleSegments guards tiny radii from degenerating below a
	// recognizable polygon.
	minCircleSegments = 16

	// maxCircleSegments bounds the vertex count for very large circles.
	maxCircleSegments = 128
)

// TessellateRectangle returns the rectangle's four corners in order
// origin, origin+(w,0), origin+(w,h), origin+(0,h), each rotated about
// origin by rotation. The pivot is the origin corner as given, not the
// center; callers wanting center rotation pre-offset by half the extent.
func TessellateRectangle(origin Vec2, width, height float32, rotation Angle) [4]Vec2 {
	width = math32.Max(width, 0)
	height = math32.Max(height, 0)

	corners := [4]Vec2{
		{},
		{X: width},
		{X: width, Y: height},
		{Y: height},
	}

	for i, c := range corners {
		corners[i] = c.Rotated(rotation).Add(origin)
	}

	return corners
}

// circleSegments picks the polygon segment count for a circle of the given
// radius: ceil(6*sqrt(radius)), floored at minCircleSegments and capped at
// maxCircleSegments. The count is monotonically non-decreasing in radius.
func circleSegments(radius float32) int {
	if radius <= 0 {
		return minCircleSegments
	}
	segments := int(math32.Ceil(6 * math32.Sqrt(radius)))
	if segments < minCircleSegments {
		return minCircleSegments
	}
	if segments > maxCircleSegments {
		return maxCircleSegments
	}
	return segments
}

// TessellateCircle approximates the circle as a regular polygon and returns
// its perimeter points in counter-clockwise order. A non-positive radius
// yields a zero-area polygon at the center.
func TessellateCircle(center Vec2, radius float32) []Vec2 {
	radius = math32.Max(radius, 0)

	segments := circleSegments(radius)
	points := make([]Vec2, segments)
	step := 2 * math32.Pi / float32(segments)

	for i := range points {
		sin, cos := math32.Sincos(step * float32(i))
		points[i] = Vec2{X: center.X + radius*cos, Y: center.Y + radius*sin}
	}

	return points
}
