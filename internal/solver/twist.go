package solver

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// TwistAngle extracts the rotation about basis axis `axis` from a unit
// quaternion via swing-twist decomposition. The result is in (-2pi, 2pi].
func TwistAngle(q mgl64.Quat, axis int) float64 {
	return 2 * math.Atan2(q.V[axis], q.W)
}

// NearestBranch remaps a raw twist angle, defined only modulo 2pi, into
// whichever of angle-2pi, angle, angle+2pi lies closest to center. Ties
// keep the candidate nearest the center in scan order. Exact only when the
// limited axis cannot rotate freely; near 180 degrees of relative rotation
// the chosen branch is an approximation.
func NearestBranch(angle, center float64) float64 {
	best := angle
	bestDist := math.Abs(angle - center)
	for _, cand := range [2]float64{angle - 2*math.Pi, angle + 2*math.Pi} {
		if d := math.Abs(cand - center); d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best
}

// LimitError is the signed distance of x outside [min, max]: zero inside
// the limits, positive above max, negative below min.
func LimitError(x, min, max float64) float64 {
	return math.Max(x-max, 0) + math.Min(x-min, 0)
}
