package motion

import "github.com/go-gl/mathgl/mgl64"

// AngularStep builds the unnormalized first-order rotation increment for a
// motion-space angular velocity integrated over dt. Callers normalize after
// composing.
func AngularStep(omega mgl64.Vec3, dt float64) mgl64.Quat {
	return mgl64.Quat{W: 1, V: omega.Mul(dt * 0.5)}
}

// IntegrateOrientation advances an orientation by a motion-space angular
// velocity over dt and renormalizes.
func IntegrateOrientation(q mgl64.Quat, omega mgl64.Vec3, dt float64) mgl64.Quat {
	return q.Mul(AngularStep(omega, dt)).Normalize()
}

// IntegrateRelative predicts the end-of-step relative orientation of body B
// in body A's motion space, given both angular velocities. rel maps B
// motion coordinates into A motion coordinates.
func IntegrateRelative(rel mgl64.Quat, omegaA, omegaB mgl64.Vec3, dt float64) mgl64.Quat {
	dqA := AngularStep(omegaA, dt)
	dqB := AngularStep(omegaB, dt)
	return dqA.Inverse().Mul(rel).Mul(dqB).Normalize()
}

// Integrate advances the motion frame one symplectic Euler step: position
// from linear velocity, orientation from angular velocity with
// renormalization.
func Integrate(d *Data, v Velocity, dt float64) {
	d.WorldFromMotion.Pos = d.WorldFromMotion.Pos.Add(v.Linear.Mul(dt))
	d.WorldFromMotion.Rot = IntegrateOrientation(d.WorldFromMotion.Rot, v.Angular, dt)
}
