package motion

import "github.com/go-gl/mathgl/mgl64"

// Velocity holds a body's motion-space velocities and inverse mass
// properties. Angular velocity and inverse inertia are expressed in the
// motion frame, where the inertia tensor is diagonal. A zero inverse mass
// or a zero inverse inertia component marks that axis as immovable;
// impulses never change velocity along such an axis.
type Velocity struct {
	Linear     mgl64.Vec3 // world space
	Angular    mgl64.Vec3 // motion space
	InvMass    float64
	InvInertia mgl64.Vec3
}

// Data is the authoritative placement of a body's motion frame. It is
// mutated only by integration.
type Data struct {
	WorldFromMotion Transform
	BodyFromMotion  Transform
}

// WorldFromBody recovers the body-frame world transform from the motion
// frame and the fixed body-to-motion offset.
func (d Data) WorldFromBody() Transform {
	return d.WorldFromMotion.Mul(d.BodyFromMotion.Inverse())
}

// ApplyLinearImpulse changes linear velocity by a world-space impulse,
// scaled by the body's inverse mass.
func (v *Velocity) ApplyLinearImpulse(impulse mgl64.Vec3) {
	v.Linear = v.Linear.Add(impulse.Mul(v.InvMass))
}

// ApplyAngularImpulse changes angular velocity by a motion-space impulse,
// scaled component-wise by the diagonal inverse inertia.
func (v *Velocity) ApplyAngularImpulse(impulse mgl64.Vec3) {
	v.Angular[0] += impulse[0] * v.InvInertia[0]
	v.Angular[1] += impulse[1] * v.InvInertia[1]
	v.Angular[2] += impulse[2] * v.InvInertia[2]
}

// ApplyGravity accumulates gravitational acceleration over one timestep.
// Bodies with infinite mass do not fall.
func (v *Velocity) ApplyGravity(gravity mgl64.Vec3, dt float64) {
	if v.InvMass > 0 {
		v.Linear = v.Linear.Add(gravity.Mul(dt))
	}
}
