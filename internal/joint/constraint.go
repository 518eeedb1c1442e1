// Package joint declares the constraint descriptors consumed by the solver.
//
// A Joint ties a pair of bodies together through one or more Constraints,
// each restricting a single degree of freedom between the two joint frames.
// Joints are pure data: all solve state lives in the Jacobian records built
// from them each step.
package joint

import (
	"errors"
	"fmt"
	"math"

	"github.com/solverlab/impulse/internal/motion"
)

// Kind selects the constraint behavior and the Jacobian record built for it.
type Kind uint8

const (
	LinearLimit Kind = iota
	AngularLimit1D
	AngularLimit2D
	AngularLimit3D
	PositionMotor
	LinearVelocityMotor
	RotationMotor
	AngularVelocityMotor
)

func (k Kind) String() string {
	switch k {
	case LinearLimit:
		return "linear-limit"
	case AngularLimit1D:
		return "angular-limit-1d"
	case AngularLimit2D:
		return "angular-limit-2d"
	case AngularLimit3D:
		return "angular-limit-3d"
	case PositionMotor:
		return "position-motor"
	case LinearVelocityMotor:
		return "linear-velocity-motor"
	case RotationMotor:
		return "rotation-motor"
	case AngularVelocityMotor:
		return "angular-velocity-motor"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

var (
	ErrBadAxis   = errors.New("joint: axis index must be 0, 1 or 2")
	ErrBadBounds = errors.New("joint: min bound exceeds max bound")
	ErrBadKind   = errors.New("joint: unknown constraint kind")
)

// Constraint restricts one degree of freedom between two joint frames.
// Motors store their target in Min and Max (Min == Max). A constraint is
// immutable once handed to the solver.
type Constraint struct {
	Kind         Kind
	Axis         int // constrained axis index in joint space
	Min, Max     float64
	MaxImpulse   float64
	EnableEvents bool
}

// Target is the drive target of a motor constraint, the midpoint of its
// bounds.
func (c Constraint) Target() float64 { return (c.Min + c.Max) * 0.5 }

func (c Constraint) Validate() error {
	if c.Kind > AngularVelocityMotor {
		return fmt.Errorf("%w: %s", ErrBadKind, c.Kind)
	}
	if c.Axis < 0 || c.Axis > 2 {
		return fmt.Errorf("%w: got %d", ErrBadAxis, c.Axis)
	}
	if c.Min > c.Max {
		return fmt.Errorf("%w: [%g, %g]", ErrBadBounds, c.Min, c.Max)
	}
	return nil
}

// Joint binds a constraint list to a body pair. Frames are given in each
// body's frame and locate the joint anchor and axes; builders convert them
// into motion space using each body's motion offset.
type Joint struct {
	ID             uint64
	BodyA, BodyB   int
	FrameA, FrameB motion.Transform
	Constraints    []Constraint
}

func (j *Joint) Validate() error {
	if j.BodyA == j.BodyB {
		return fmt.Errorf("joint %d: body pair (%d, %d) is not a pair", j.ID, j.BodyA, j.BodyB)
	}
	for i, c := range j.Constraints {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("joint %d constraint %d: %w", j.ID, i, err)
		}
	}
	return nil
}

// NoMaxImpulse disables impulse events regardless of accumulated impulse.
const NoMaxImpulse = math.MaxFloat64
