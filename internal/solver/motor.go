package solver

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/solverlab/impulse/internal/joint"
	"github.com/solverlab/impulse/internal/motion"
)

// PositionMotorJacobian drives the anchor separation along one joint axis
// to a target distance.
type PositionMotorJacobian struct {
	Axis         mgl64.Vec3
	AxisIndex    int
	Target       float64
	MaxImpulse   float64
	EnableEvents bool
	Joint        uint64

	WorldFromA, WorldFromB motion.Transform
	PivotA, PivotB         mgl64.Vec3
	Tau, Damping           float64
	InitialError           float64
	Acc                    float64
}

func BuildPositionMotor(c joint.Constraint, jointID uint64, aFromJoint, bFromJoint motion.Transform, motA, motB motion.Data, tau, damping float64) PositionMotorJacobian {
	j := PositionMotorJacobian{
		Axis:         aFromJoint.Rot.Rotate(axisVec(c.Axis)),
		AxisIndex:    c.Axis,
		Target:       c.Target(),
		MaxImpulse:   c.MaxImpulse,
		EnableEvents: c.EnableEvents,
		Joint:        jointID,
		WorldFromA:   motA.WorldFromMotion,
		WorldFromB:   motB.WorldFromMotion,
		PivotA:       aFromJoint.Pos,
		PivotB:       bFromJoint.Pos,
		Tau:          tau,
		Damping:      damping,
	}
	j.InitialError = j.errorOf(j.WorldFromA, j.WorldFromB)
	return j
}

func (j *PositionMotorJacobian) errorOf(ta, tb motion.Transform) float64 {
	axisW := ta.Rot.Rotate(j.Axis)
	delta := tb.Apply(j.PivotB).Sub(ta.Apply(j.PivotA))
	return delta.Dot(axisW) - j.Target
}

func (j *PositionMotorJacobian) Solve(velA, velB *motion.Velocity, in StepInput, h Header, events *EventCollector) {
	ta := predict(j.WorldFromA, velA, in.Timestep)
	tb := predict(j.WorldFromB, velB, in.Timestep)
	futureError := j.errorOf(ta, tb)

	axisW, angA, angB := linearJacobians(j.Axis, j.PivotA, j.PivotB, ta, tb)
	effMass := invert(velA.InvMass + velB.InvMass +
		angularMass(angA, velA.InvInertia) + angularMass(angB, velB.InvInertia))

	impulse := -effMass * correction(futureError, j.InitialError, j.Tau, j.Damping) * in.InvTimestep
	applyLinear(velA, velB, axisW, angA, angB, impulse)
	j.Acc += impulse

	emitOverflow(events, RecordPositionMotor, j.Acc, j.MaxImpulse, j.EnableEvents, j.Joint, h, in)
}

// LinearVelocityMotorJacobian drives the relative anchor velocity along one
// joint axis to a target speed. Velocity motors measure their error in
// velocity units and apply impulses without the inverse-timestep factor.
type LinearVelocityMotorJacobian struct {
	Axis         mgl64.Vec3
	AxisIndex    int
	Target       float64
	MaxImpulse   float64
	EnableEvents bool
	Joint        uint64

	WorldFromA, WorldFromB motion.Transform
	PivotA, PivotB         mgl64.Vec3
	Tau, Damping           float64
	InitialError           float64
	Acc                    float64
}

func BuildLinearVelocityMotor(c joint.Constraint, jointID uint64, aFromJoint, bFromJoint motion.Transform, motA, motB motion.Data, velA, velB motion.Velocity, tau, damping float64) LinearVelocityMotorJacobian {
	j := LinearVelocityMotorJacobian{
		Axis:         aFromJoint.Rot.Rotate(axisVec(c.Axis)),
		AxisIndex:    c.Axis,
		Target:       c.Target(),
		MaxImpulse:   c.MaxImpulse,
		EnableEvents: c.EnableEvents,
		Joint:        jointID,
		WorldFromA:   motA.WorldFromMotion,
		WorldFromB:   motB.WorldFromMotion,
		PivotA:       aFromJoint.Pos,
		PivotB:       bFromJoint.Pos,
		Tau:          tau,
		Damping:      damping,
	}
	axisW, angA, angB := linearJacobians(j.Axis, j.PivotA, j.PivotB, j.WorldFromA, j.WorldFromB)
	j.InitialError = anchorRate(axisW, angA, angB, &velA, &velB) - j.Target
	return j
}

func (j *LinearVelocityMotorJacobian) Solve(velA, velB *motion.Velocity, in StepInput, h Header, events *EventCollector) {
	axisW, angA, angB := linearJacobians(j.Axis, j.PivotA, j.PivotB, j.WorldFromA, j.WorldFromB)
	futureError := anchorRate(axisW, angA, angB, velA, velB) - j.Target

	effMass := invert(velA.InvMass + velB.InvMass +
		angularMass(angA, velA.InvInertia) + angularMass(angB, velB.InvInertia))

	impulse := -effMass * correction(futureError, j.InitialError, j.Tau, j.Damping)
	applyLinear(velA, velB, axisW, angA, angB, impulse)
	j.Acc += impulse

	emitOverflow(events, RecordLinearVelocityMotor, j.Acc, j.MaxImpulse, j.EnableEvents, j.Joint, h, in)
}

// RotationMotorJacobian drives the twist angle about one joint axis to a
// target angle.
type RotationMotorJacobian struct {
	Axis         mgl64.Vec3
	AxisIndex    int
	Target       float64
	MaxImpulse   float64
	EnableEvents bool
	Joint        uint64

	Rel                    mgl64.Quat
	AFromJoint, BFromJoint mgl64.Quat
	Tau, Damping           float64
	InitialError           float64
	Acc                    float64
}

func BuildRotationMotor(c joint.Constraint, jointID uint64, aFromJoint, bFromJoint mgl64.Quat, motA, motB motion.Data, tau, damping float64) RotationMotorJacobian {
	j := RotationMotorJacobian{
		Axis:         aFromJoint.Rotate(axisVec(c.Axis)),
		AxisIndex:    c.Axis,
		Target:       c.Target(),
		MaxImpulse:   c.MaxImpulse,
		EnableEvents: c.EnableEvents,
		Joint:        jointID,
		Rel:          relRotation(motA, motB),
		AFromJoint:   aFromJoint,
		BFromJoint:   bFromJoint,
		Tau:          tau,
		Damping:      damping,
	}
	j.InitialError = j.errorOf(j.Rel)
	return j
}

func (j *RotationMotorJacobian) errorOf(rel mgl64.Quat) float64 {
	jointRel := j.AFromJoint.Inverse().Mul(rel).Mul(j.BFromJoint)
	angle := TwistAngle(jointRel, j.AxisIndex)
	return NearestBranch(angle, j.Target) - j.Target
}

func (j *RotationMotorJacobian) Solve(velA, velB *motion.Velocity, in StepInput, h Header, events *EventCollector) {
	future := motion.IntegrateRelative(j.Rel, velA.Angular, velB.Angular, in.Timestep)
	futureError := j.errorOf(future)

	jacA := j.Axis.Mul(-1)
	jacB := future.Inverse().Rotate(j.Axis)
	effMass := invert(angularMass(jacA, velA.InvInertia) + angularMass(jacB, velB.InvInertia))

	impulse := -effMass * correction(futureError, j.InitialError, j.Tau, j.Damping) * in.InvTimestep
	velA.ApplyAngularImpulse(jacA.Mul(impulse))
	velB.ApplyAngularImpulse(jacB.Mul(impulse))
	j.Acc += impulse

	emitOverflow(events, RecordRotationMotor, j.Acc, j.MaxImpulse, j.EnableEvents, j.Joint, h, in)
}

// AngularVelocityMotorJacobian drives the relative angular speed about one
// joint axis to a target rate.
type AngularVelocityMotorJacobian struct {
	Axis         mgl64.Vec3 // constrained axis, body A motion space
	AxisIndex    int
	Target       float64
	MaxImpulse   float64
	EnableEvents bool
	Joint        uint64

	Rel          mgl64.Quat
	Tau, Damping float64
	InitialError float64
	Acc          float64
}

func BuildAngularVelocityMotor(c joint.Constraint, jointID uint64, aFromJoint, bFromJoint mgl64.Quat, motA, motB motion.Data, velA, velB motion.Velocity, tau, damping float64) AngularVelocityMotorJacobian {
	j := AngularVelocityMotorJacobian{
		Axis:         aFromJoint.Rotate(axisVec(c.Axis)),
		AxisIndex:    c.Axis,
		Target:       c.Target(),
		MaxImpulse:   c.MaxImpulse,
		EnableEvents: c.EnableEvents,
		Joint:        jointID,
		Rel:          relRotation(motA, motB),
		Tau:          tau,
		Damping:      damping,
	}
	j.InitialError = j.rate(j.Rel, &velA, &velB) - j.Target
	return j
}

// rate is the twist rate of B relative to A about the constrained axis.
func (j *AngularVelocityMotorJacobian) rate(rel mgl64.Quat, velA, velB *motion.Velocity) float64 {
	axisB := rel.Inverse().Rotate(j.Axis)
	return velB.Angular.Dot(axisB) - velA.Angular.Dot(j.Axis)
}

func (j *AngularVelocityMotorJacobian) Solve(velA, velB *motion.Velocity, in StepInput, h Header, events *EventCollector) {
	future := motion.IntegrateRelative(j.Rel, velA.Angular, velB.Angular, in.Timestep)
	futureError := j.rate(future, velA, velB) - j.Target

	jacA := j.Axis.Mul(-1)
	jacB := future.Inverse().Rotate(j.Axis)
	effMass := invert(angularMass(jacA, velA.InvInertia) + angularMass(jacB, velB.InvInertia))

	impulse := -effMass * correction(futureError, j.InitialError, j.Tau, j.Damping)
	velA.ApplyAngularImpulse(jacA.Mul(impulse))
	velB.ApplyAngularImpulse(jacB.Mul(impulse))
	j.Acc += impulse

	emitOverflow(events, RecordAngularVelocityMotor, j.Acc, j.MaxImpulse, j.EnableEvents, j.Joint, h, in)
}
