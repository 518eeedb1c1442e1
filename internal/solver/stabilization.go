package solver

import "math"

// Default stabilization coefficients, calibrated for stiff joints solved
// at interactive timesteps with a handful of iterations.
const (
	DefaultTau     = 0.6
	DefaultDamping = 0.99
)

// TauDamping converts a spring frequency (Hz) and damping ratio into
// per-iteration Baumgarte coefficients.
//
// One implicit Euler step of a damped spring scales position error by
// 1 - hw(2d+hw)/a and velocity error by factors with a = 1 + 2d*hw + hw^2,
// hw = timestep * 2*pi*frequency. Those per-step fractions are then spread
// over the iteration count so that n solver iterations compound to one
// implicit spring step.
func TauDamping(frequency, dampingRatio, timestep float64, iterations int) (tau, damping float64) {
	if frequency <= 0 || timestep <= 0 || iterations <= 0 {
		return 0, 0
	}
	hw := timestep * 2 * math.Pi * frequency
	a := 1 + 2*dampingRatio*hw + hw*hw
	stepTau := hw * hw / a
	stepDamping := hw * (2*dampingRatio + hw) / a

	n := float64(iterations)
	damping = 1 - math.Pow(1-stepDamping, 1/n)
	if stepDamping > 0 {
		tau = stepTau * damping / stepDamping
	}
	return tau, damping
}
