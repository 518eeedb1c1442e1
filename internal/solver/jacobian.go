package solver

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/solverlab/impulse/internal/motion"
)

// StepInput carries the per-step solve parameters. LastIteration gates
// impulse-event emission.
type StepInput struct {
	Timestep      float64
	InvTimestep   float64
	LastIteration bool
}

// Sign convention used by every record: the constrained quantity measures
// body B relative to body A, each velocity Jacobian is the partial
// derivative of its rate with respect to that body's velocity, and the
// scalar impulse is -effectiveMass * correction / timestep. Applying
// impulse * jacobian through each body's own inverse mass then moves the
// predicted error toward zero on both bodies at once.

// correction blends the predicted error against the build-time error.
// Damping absorbs error growth within the step, Tau removes a fraction of
// the standing error. The asymmetry on the damping term is load-bearing
// for joint behavior.
func correction(predicted, initial, tau, damping float64) float64 {
	return math.Max(predicted-initial, 0)*damping + math.Min(predicted, initial)*tau
}

// invert turns an inverse effective mass into an effective mass, treating
// a fully locked axis (zero inverse) as zero rather than dividing.
func invert(invEffMass float64) float64 {
	if invEffMass == 0 {
		return 0
	}
	return 1 / invEffMass
}

// angularMass projects a motion-space angular Jacobian onto a diagonal
// inverse inertia.
func angularMass(jac, invInertia mgl64.Vec3) float64 {
	return jac[0]*jac[0]*invInertia[0] + jac[1]*jac[1]*invInertia[1] + jac[2]*jac[2]*invInertia[2]
}

func axisVec(axis int) mgl64.Vec3 {
	var v mgl64.Vec3
	v[axis] = 1
	return v
}

// relRotation maps body B motion coordinates into body A motion
// coordinates.
func relRotation(motA, motB motion.Data) mgl64.Quat {
	return motA.WorldFromMotion.Rot.Inverse().Mul(motB.WorldFromMotion.Rot)
}

// predict advances a world transform by one timestep of the current
// velocities, mirroring the integrator so solve and integration agree.
func predict(t motion.Transform, v *motion.Velocity, dt float64) motion.Transform {
	return motion.Transform{
		Rot: motion.IntegrateOrientation(t.Rot, v.Angular, dt),
		Pos: t.Pos.Add(v.Linear.Mul(dt)),
	}
}

// worldAngular is a body's angular velocity in world space.
func worldAngular(rot mgl64.Quat, v *motion.Velocity) mgl64.Vec3 {
	return rot.Rotate(v.Angular)
}
