package solver

import (
	"fmt"

	"github.com/solverlab/impulse/internal/joint"
	"github.com/solverlab/impulse/internal/motion"
)

// BuildJoint converts every constraint of a joint into a Jacobian record
// appended to the stream. The joint frames are moved from body space into
// motion space first, so the solver never touches body frames again.
func BuildJoint(st *Stream, j *joint.Joint, motA, motB motion.Data, velA, velB motion.Velocity, tau, damping float64) error {
	aFromJoint := motA.BodyFromMotion.Inverse().Mul(j.FrameA)
	bFromJoint := motB.BodyFromMotion.Inverse().Mul(j.FrameB)

	for _, c := range j.Constraints {
		switch c.Kind {
		case joint.LinearLimit:
			st.PushLinearLimit(j.BodyA, j.BodyB,
				BuildLinearLimit(c, j.ID, aFromJoint, bFromJoint, motA, motB, tau, damping))
		case joint.AngularLimit1D:
			st.PushAngularLimit1D(j.BodyA, j.BodyB,
				BuildAngularLimit1D(c, j.ID, aFromJoint.Rot, bFromJoint.Rot, motA, motB, tau, damping))
		case joint.AngularLimit2D:
			st.PushAngularLimit2D(j.BodyA, j.BodyB,
				BuildAngularLimit2D(c, j.ID, aFromJoint.Rot, bFromJoint.Rot, motA, motB, tau, damping))
		case joint.AngularLimit3D:
			st.PushAngularLimit3D(j.BodyA, j.BodyB,
				BuildAngularLimit3D(c, j.ID, aFromJoint.Rot, bFromJoint.Rot, motA, motB, tau, damping))
		case joint.PositionMotor:
			st.PushPositionMotor(j.BodyA, j.BodyB,
				BuildPositionMotor(c, j.ID, aFromJoint, bFromJoint, motA, motB, tau, damping))
		case joint.LinearVelocityMotor:
			st.PushLinearVelocityMotor(j.BodyA, j.BodyB,
				BuildLinearVelocityMotor(c, j.ID, aFromJoint, bFromJoint, motA, motB, velA, velB, tau, damping))
		case joint.RotationMotor:
			st.PushRotationMotor(j.BodyA, j.BodyB,
				BuildRotationMotor(c, j.ID, aFromJoint.Rot, bFromJoint.Rot, motA, motB, tau, damping))
		case joint.AngularVelocityMotor:
			st.PushAngularVelocityMotor(j.BodyA, j.BodyB,
				BuildAngularVelocityMotor(c, j.ID, aFromJoint.Rot, bFromJoint.Rot, motA, motB, velA, velB, tau, damping))
		default:
			return fmt.Errorf("%w: %v", ErrUnknownKind, c.Kind)
		}
	}
	return nil
}

// Solve runs the iterate phase over one stream: exactly iterations passes
// in write order, mutating the bodies' velocities in place. Events, if a
// collector is given, are gathered on the final iteration only.
func Solve(st *Stream, vels []motion.Velocity, timestep float64, iterations int, events *EventCollector) error {
	if timestep <= 0 {
		return fmt.Errorf("%w: got %g", ErrBadTimestep, timestep)
	}
	if iterations <= 0 {
		return fmt.Errorf("%w: got %d", ErrBadIterations, iterations)
	}

	in := StepInput{Timestep: timestep, InvTimestep: 1 / timestep}
	for it := 0; it < iterations; it++ {
		in.LastIteration = it == iterations-1
		iter := st.Iter()
		for iter.HasNext() {
			h := iter.Next()
			solveRecord(st, h, vels, in, events)
		}
	}
	return nil
}

func solveRecord(st *Stream, h *Header, vels []motion.Velocity, in StepInput, events *EventCollector) {
	velA, velB := &vels[h.BodyA], &vels[h.BodyB]
	switch h.Type {
	case RecordLinearLimit:
		st.linear[h.slot].Solve(velA, velB, in, *h, events)
	case RecordAngularLimit1D:
		st.ang1[h.slot].Solve(velA, velB, in, *h, events)
	case RecordAngularLimit2D:
		st.ang2[h.slot].Solve(velA, velB, in, *h, events)
	case RecordAngularLimit3D:
		st.ang3[h.slot].Solve(velA, velB, in, *h, events)
	case RecordPositionMotor:
		st.posMot[h.slot].Solve(velA, velB, in, *h, events)
	case RecordLinearVelocityMotor:
		st.linVMot[h.slot].Solve(velA, velB, in, *h, events)
	case RecordRotationMotor:
		st.rotMot[h.slot].Solve(velA, velB, in, *h, events)
	case RecordAngularVelocityMotor:
		st.angVMot[h.slot].Solve(velA, velB, in, *h, events)
	}
}

// MaxInitialError is the largest initial-error magnitude across all
// records in the stream, a per-step convergence diagnostic.
func MaxInitialError(st *Stream) float64 {
	max := 0.0
	iter := st.Iter()
	for iter.HasNext() {
		h := iter.Next()
		var e float64
		switch h.Type {
		case RecordLinearLimit:
			e = st.linear[h.slot].InitialError
		case RecordAngularLimit1D:
			e = st.ang1[h.slot].InitialError
		case RecordAngularLimit2D:
			e = st.ang2[h.slot].InitialError
		case RecordAngularLimit3D:
			e = st.ang3[h.slot].InitialError
		case RecordPositionMotor:
			e = st.posMot[h.slot].InitialError
		case RecordLinearVelocityMotor:
			e = st.linVMot[h.slot].InitialError
		case RecordRotationMotor:
			e = st.rotMot[h.slot].InitialError
		case RecordAngularVelocityMotor:
			e = st.angVMot[h.slot].InitialError
		}
		if e < 0 {
			e = -e
		}
		if e > max {
			max = e
		}
	}
	return max
}
