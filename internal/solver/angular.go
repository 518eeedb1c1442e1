package solver

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/solverlab/impulse/internal/joint"
	"github.com/solverlab/impulse/internal/motion"
)

// AngularLimit1DJacobian limits the twist angle about one joint axis.
type AngularLimit1DJacobian struct {
	Axis         mgl64.Vec3 // constrained axis, body A motion space
	AxisIndex    int
	Min, Max     float64
	MaxImpulse   float64
	EnableEvents bool
	Joint        uint64

	Rel                    mgl64.Quat // B-from-A motion rotation at build time
	AFromJoint, BFromJoint mgl64.Quat
	Tau, Damping           float64
	InitialError           float64
	Acc                    float64 // accumulated impulse, valid within one step
}

// BuildAngularLimit1D constructs the record and computes the initial error
// with the same error function the solver reuses every iteration.
func BuildAngularLimit1D(c joint.Constraint, jointID uint64, aFromJoint, bFromJoint mgl64.Quat, motA, motB motion.Data, tau, damping float64) AngularLimit1DJacobian {
	j := AngularLimit1DJacobian{
		Axis:         aFromJoint.Rotate(axisVec(c.Axis)),
		AxisIndex:    c.Axis,
		Min:          c.Min,
		Max:          c.Max,
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

func (j *AngularLimit1DJacobian) errorOf(rel mgl64.Quat) float64 {
	jointRel := j.AFromJoint.Inverse().Mul(rel).Mul(j.BFromJoint)
	angle := TwistAngle(jointRel, j.AxisIndex)
	angle = NearestBranch(angle, (j.Min+j.Max)*0.5)
	return LimitError(angle, j.Min, j.Max)
}

func (j *AngularLimit1DJacobian) Solve(velA, velB *motion.Velocity, in StepInput, h Header, events *EventCollector) {
	future := motion.IntegrateRelative(j.Rel, velA.Angular, velB.Angular, in.Timestep)
	futureError := j.errorOf(future)

	jacA := j.Axis.Mul(-1)
	jacB := future.Inverse().Rotate(j.Axis)
	effMass := invert(angularMass(jacA, velA.InvInertia) + angularMass(jacB, velB.InvInertia))

	impulse := -effMass * correction(futureError, j.InitialError, j.Tau, j.Damping) * in.InvTimestep
	velA.ApplyAngularImpulse(jacA.Mul(impulse))
	velB.ApplyAngularImpulse(jacB.Mul(impulse))
	j.Acc += impulse

	emitOverflow(events, RecordAngularLimit1D, j.Acc, j.MaxImpulse, j.EnableEvents, j.Joint, h, in)
}

// AngularLimit2DJacobian limits the cone angle between the joint axis fixed
// in body A and the one fixed in body B.
type AngularLimit2DJacobian struct {
	AxisA        mgl64.Vec3 // joint axis, body A motion space
	AxisB        mgl64.Vec3 // joint axis, body B motion space
	Min, Max     float64
	MaxImpulse   float64
	EnableEvents bool
	Joint        uint64

	Rel          mgl64.Quat
	Tau, Damping float64
	InitialError float64
	Acc          float64
}

func BuildAngularLimit2D(c joint.Constraint, jointID uint64, aFromJoint, bFromJoint mgl64.Quat, motA, motB motion.Data, tau, damping float64) AngularLimit2DJacobian {
	j := AngularLimit2DJacobian{
		AxisA:        aFromJoint.Rotate(axisVec(c.Axis)),
		AxisB:        bFromJoint.Rotate(axisVec(c.Axis)),
		Min:          c.Min,
		Max:          c.Max,
		MaxImpulse:   c.MaxImpulse,
		EnableEvents: c.EnableEvents,
		Joint:        jointID,
		Rel:          relRotation(motA, motB),
		Tau:          tau,
		Damping:      damping,
	}
	j.InitialError = j.errorOf(j.Rel)
	return j
}

func (j *AngularLimit2DJacobian) errorOf(rel mgl64.Quat) float64 {
	axisBinA := rel.Rotate(j.AxisB)
	sin := axisBinA.Cross(j.AxisA).Len()
	cos := axisBinA.Dot(j.AxisA)
	return LimitError(math.Atan2(sin, cos), j.Min, j.Max)
}

func (j *AngularLimit2DJacobian) Solve(velA, velB *motion.Velocity, in StepInput, h Header, events *EventCollector) {
	future := motion.IntegrateRelative(j.Rel, velA.Angular, velB.Angular, in.Timestep)

	axisBinA := future.Rotate(j.AxisB)
	cr := axisBinA.Cross(j.AxisA)
	sin := cr.Len()
	futureError := LimitError(math.Atan2(sin, axisBinA.Dot(j.AxisA)), j.Min, j.Max)

	// The cone angle is stationary when the axes align; there is no
	// direction to push and the record solves to a zero impulse.
	var jacA, jacB mgl64.Vec3
	if sin > 1e-10 {
		jacA = cr.Mul(1 / sin)
		jacB = future.Inverse().Rotate(jacA).Mul(-1)
	}
	effMass := invert(angularMass(jacA, velA.InvInertia) + angularMass(jacB, velB.InvInertia))

	impulse := -effMass * correction(futureError, j.InitialError, j.Tau, j.Damping) * in.InvTimestep
	velA.ApplyAngularImpulse(jacA.Mul(impulse))
	velB.ApplyAngularImpulse(jacB.Mul(impulse))
	j.Acc += impulse

	emitOverflow(events, RecordAngularLimit2D, j.Acc, j.MaxImpulse, j.EnableEvents, j.Joint, h, in)
}

// AngularLimit3DJacobian limits the total relative rotation angle between
// the two joint frames, about whatever axis that rotation currently has.
type AngularLimit3DJacobian struct {
	Min, Max     float64
	MaxImpulse   float64
	EnableEvents bool
	Joint        uint64

	Rel                    mgl64.Quat
	AFromJoint, BFromJoint mgl64.Quat
	Tau, Damping           float64
	InitialError           float64
	Acc                    float64
}

func BuildAngularLimit3D(c joint.Constraint, jointID uint64, aFromJoint, bFromJoint mgl64.Quat, motA, motB motion.Data, tau, damping float64) AngularLimit3DJacobian {
	j := AngularLimit3DJacobian{
		Min:          c.Min,
		Max:          c.Max,
		MaxImpulse:   c.MaxImpulse,
		EnableEvents: c.EnableEvents,
		Joint:        jointID,
		Rel:          relRotation(motA, motB),
		AFromJoint:   aFromJoint,
		BFromJoint:   bFromJoint,
		Tau:          tau,
		Damping:      damping,
	}
	j.InitialError, _ = j.errorAndAxis(j.Rel)
	return j
}

// errorAndAxis returns the limit error of the total rotation angle and the
// rotation axis in joint space. The axis is identical in both joint frames
// since a rotation leaves its own axis fixed.
func (j *AngularLimit3DJacobian) errorAndAxis(rel mgl64.Quat) (float64, mgl64.Vec3) {
	q := j.AFromJoint.Inverse().Mul(rel).Mul(j.BFromJoint)
	if q.W < 0 {
		q = mgl64.Quat{W: -q.W, V: q.V.Mul(-1)}
	}
	sin := q.V.Len()
	angle := 2 * math.Atan2(sin, q.W)
	axis := axisVec(0)
	if sin > 1e-10 {
		axis = q.V.Mul(1 / sin)
	}
	return LimitError(angle, j.Min, j.Max), axis
}

func (j *AngularLimit3DJacobian) Solve(velA, velB *motion.Velocity, in StepInput, h Header, events *EventCollector) {
	future := motion.IntegrateRelative(j.Rel, velA.Angular, velB.Angular, in.Timestep)
	futureError, axis := j.errorAndAxis(future)

	jacA := j.AFromJoint.Rotate(axis).Mul(-1)
	jacB := j.BFromJoint.Rotate(axis)
	effMass := invert(angularMass(jacA, velA.InvInertia) + angularMass(jacB, velB.InvInertia))

	impulse := -effMass * correction(futureError, j.InitialError, j.Tau, j.Damping) * in.InvTimestep
	velA.ApplyAngularImpulse(jacA.Mul(impulse))
	velB.ApplyAngularImpulse(jacB.Mul(impulse))
	j.Acc += impulse

	emitOverflow(events, RecordAngularLimit3D, j.Acc, j.MaxImpulse, j.EnableEvents, j.Joint, h, in)
}
