package util

import (
	"math/rand"

	"github.com/chewxy/math32"
)

// RandomFloat returns a random float32 between min and max
func RandomFloat(min, max float32) float32 {
	return min + rand.Float32()*(max-min)
}

// RandomBool returns a random boolean value
func RandomBool() bool {
	return rand.Intn(2) == 1
}

// Lerp performs linear interpolation between a and b with t in [0,1]
func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// Clamp restricts a value to be between min and max
func Clamp(value, min, max float32) float32 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Distance2D calculates the Euclidean distance between two 2D points
func Distance2D(x1, y1, x2, y2 float32) float32 {
	dx := x2 - x1
	dy := y2 - y1
	return math32.Sqrt(dx*dx + dy*dy)
}
