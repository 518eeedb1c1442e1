package solver

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/solverlab/impulse/internal/joint"
	"github.com/solverlab/impulse/internal/motion"
)

// LinearLimitJacobian limits the separation of the two joint anchors
// measured along one joint axis fixed in body A.
type LinearLimitJacobian struct {
	Axis         mgl64.Vec3 // constrained axis, body A motion space
	AxisIndex    int
	Min, Max     float64
	MaxImpulse   float64
	EnableEvents bool
	Joint        uint64

	WorldFromA, WorldFromB motion.Transform // motion transforms at build time
	PivotA, PivotB         mgl64.Vec3       // anchors in each motion space
	Tau, Damping           float64
	InitialError           float64
	Acc                    float64
}

func BuildLinearLimit(c joint.Constraint, jointID uint64, aFromJoint, bFromJoint motion.Transform, motA, motB motion.Data, tau, damping float64) LinearLimitJacobian {
	j := LinearLimitJacobian{
		Axis:         aFromJoint.Rot.Rotate(axisVec(c.Axis)),
		AxisIndex:    c.Axis,
		Min:          c.Min,
		Max:          c.Max,
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

func (j *LinearLimitJacobian) errorOf(ta, tb motion.Transform) float64 {
	axisW := ta.Rot.Rotate(j.Axis)
	delta := tb.Apply(j.PivotB).Sub(ta.Apply(j.PivotA))
	return LimitError(delta.Dot(axisW), j.Min, j.Max)
}

func (j *LinearLimitJacobian) Solve(velA, velB *motion.Velocity, in StepInput, h Header, events *EventCollector) {
	ta := predict(j.WorldFromA, velA, in.Timestep)
	tb := predict(j.WorldFromB, velB, in.Timestep)
	futureError := j.errorOf(ta, tb)

	axisW, angA, angB := linearJacobians(j.Axis, j.PivotA, j.PivotB, ta, tb)
	effMass := invert(velA.InvMass + velB.InvMass +
		angularMass(angA, velA.InvInertia) + angularMass(angB, velB.InvInertia))

	impulse := -effMass * correction(futureError, j.InitialError, j.Tau, j.Damping) * in.InvTimestep
	applyLinear(velA, velB, axisW, angA, angB, impulse)
	j.Acc += impulse

	emitOverflow(events, RecordLinearLimit, j.Acc, j.MaxImpulse, j.EnableEvents, j.Joint, h, in)
}

// linearJacobians derives the world-space axis and the two motion-space
// angular Jacobians for an anchored axis constraint. The angular parts are
// the pivot-arm cross products rotated into each body's motion space,
// where the inverse inertia is diagonal.
func linearJacobians(axis, pivotA, pivotB mgl64.Vec3, ta, tb motion.Transform) (axisW, angA, angB mgl64.Vec3) {
	axisW = ta.Rot.Rotate(axis)
	armA := ta.Rot.Rotate(pivotA)
	armB := tb.Rot.Rotate(pivotB)
	angA = ta.Rot.Inverse().Rotate(armA.Cross(axisW)).Mul(-1)
	angB = tb.Rot.Inverse().Rotate(armB.Cross(axisW))
	return axisW, angA, angB
}

// applyLinear applies an anchored-axis impulse: equal and opposite linear
// impulses along the axis plus the matching angular impulses at the arms.
func applyLinear(velA, velB *motion.Velocity, axisW, angA, angB mgl64.Vec3, impulse float64) {
	velA.ApplyLinearImpulse(axisW.Mul(-impulse))
	velB.ApplyLinearImpulse(axisW.Mul(impulse))
	velA.ApplyAngularImpulse(angA.Mul(impulse))
	velB.ApplyAngularImpulse(angB.Mul(impulse))
}

// anchorRate is the relative anchor velocity along the axis, the time
// derivative of the quantity the linear limit measures.
func anchorRate(axisW, angA, angB mgl64.Vec3, velA, velB *motion.Velocity) float64 {
	rate := axisW.Dot(velB.Linear.Sub(velA.Linear))
	rate += angA[0]*velA.Angular[0] + angA[1]*velA.Angular[1] + angA[2]*velA.Angular[2]
	rate += angB[0]*velB.Angular[0] + angB[1]*velB.Angular[1] + angB[2]*velB.Angular[2]
	return rate
}
