package joint

import (
	"math"

	"github.com/solverlab/impulse/internal/motion"
)

// Convenience constructors for common joint archetypes. Each returns a
// Joint whose constraint list the solver consumes directly; callers may
// append or edit constraints before handing the joint over.

// NewBallAndSocket pins the two anchors together: three locked linear axes.
func NewBallAndSocket(id uint64, bodyA, bodyB int, frameA, frameB motion.Transform) *Joint {
	return &Joint{
		ID: id, BodyA: bodyA, BodyB: bodyB,
		FrameA: frameA, FrameB: frameB,
		Constraints: []Constraint{
			{Kind: LinearLimit, Axis: 0, MaxImpulse: NoMaxImpulse},
			{Kind: LinearLimit, Axis: 1, MaxImpulse: NoMaxImpulse},
			{Kind: LinearLimit, Axis: 2, MaxImpulse: NoMaxImpulse},
		},
	}
}

// NewLimitedHinge is a ball-and-socket whose rotation is confined to the
// joint's twist axis (axis 0) within [minAngle, maxAngle]. The perpendicular
// axes are locked by a cone constraint of zero aperture.
func NewLimitedHinge(id uint64, bodyA, bodyB int, frameA, frameB motion.Transform, minAngle, maxAngle float64) *Joint {
	j := NewBallAndSocket(id, bodyA, bodyB, frameA, frameB)
	j.Constraints = append(j.Constraints,
		Constraint{Kind: AngularLimit2D, Axis: 0, MaxImpulse: NoMaxImpulse},
		Constraint{Kind: AngularLimit1D, Axis: 0, Min: minAngle, Max: maxAngle, MaxImpulse: NoMaxImpulse},
	)
	return j
}

// NewPrismatic allows translation along the joint axis within
// [minDistance, maxDistance] and locks all relative rotation.
func NewPrismatic(id uint64, bodyA, bodyB int, frameA, frameB motion.Transform, axis int, minDistance, maxDistance float64) *Joint {
	j := &Joint{
		ID: id, BodyA: bodyA, BodyB: bodyB,
		FrameA: frameA, FrameB: frameB,
		Constraints: []Constraint{
			{Kind: AngularLimit3D, MaxImpulse: NoMaxImpulse},
			{Kind: LinearLimit, Axis: axis, Min: minDistance, Max: maxDistance, MaxImpulse: NoMaxImpulse},
		},
	}
	for i := 0; i < 3; i++ {
		if i != axis {
			j.Constraints = append(j.Constraints, Constraint{Kind: LinearLimit, Axis: i, MaxImpulse: NoMaxImpulse})
		}
	}
	return j
}

// NewRotationMotor drives the twist angle about the joint axis to target.
func NewRotationMotor(id uint64, bodyA, bodyB int, frameA, frameB motion.Transform, axis int, target, maxImpulse float64) *Joint {
	return &Joint{
		ID: id, BodyA: bodyA, BodyB: bodyB,
		FrameA: frameA, FrameB: frameB,
		Constraints: []Constraint{
			{Kind: RotationMotor, Axis: axis, Min: target, Max: target, MaxImpulse: maxImpulse, EnableEvents: maxImpulse != NoMaxImpulse},
		},
	}
}

// NewAngularVelocityMotor drives the relative angular speed about the joint
// axis to target radians per second.
func NewAngularVelocityMotor(id uint64, bodyA, bodyB int, frameA, frameB motion.Transform, axis int, target, maxImpulse float64) *Joint {
	return &Joint{
		ID: id, BodyA: bodyA, BodyB: bodyB,
		FrameA: frameA, FrameB: frameB,
		Constraints: []Constraint{
			{Kind: AngularVelocityMotor, Axis: axis, Min: target, Max: target, MaxImpulse: maxImpulse, EnableEvents: maxImpulse != NoMaxImpulse},
		},
	}
}

// FullRange is the angular limit covering every reachable twist angle.
var FullRange = [2]float64{-math.Pi, math.Pi}
