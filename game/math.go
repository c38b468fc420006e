package game

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl64"
)

// Round32 will round a float32 to a given precision.
func Round32(val float32, precision int) float32 {
	pwr := math32.Pow(10, float32(precision))
	return math32.Round(val*pwr) / pwr
}

// Round64 will round a float64 to a given precision.
func Round64(val float64, precision int) float64 {
	pwr := math.Pow(10, float64(precision))
	return math.Round(val*pwr) / pwr
}

// HzVec64 returns the given vector with its vertical component zeroed out.
func HzVec64(vec mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{vec.X(), 0, vec.Z()}
}

// Vec3HzDist returns the horizontal length of a vector.
func Vec3HzDist(vec mgl64.Vec3) float64 {
	return math.Hypot(vec.X(), vec.Z())
}

// WrapDegreesDelta normalizes an angular difference to the [0, 180] range.
func WrapDegreesDelta(delta float64) float64 {
	delta = math.Mod(math.Abs(delta), 360.0)
	if delta > 180 {
		delta = 360 - delta
	}
	return delta
}

// Clamp32 clamps a float32 between min and max.
func Clamp32(val, min, max float32) float32 {
	return math32.Max(min, math32.Min(val, max))
}
