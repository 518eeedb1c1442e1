package graphics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/solverlab/impulse/internal/motion"
)

// Smoothing is the per-body state the physics step hands to the render
// side: the step's final velocity and a flag gating smoothing. A teleport
// clears Apply so the discontinuity is masked for exactly one frame; the
// smoothing pass re-arms it.
type Smoothing struct {
	Velocity motion.Velocity
	Apply    bool
}

// InterpolationBuffer stores the previous step's motion transform for
// bodies that smooth by interpolation rather than extrapolation.
type InterpolationBuffer struct {
	Previous motion.Transform
}

// Body is one rigid body as seen by the smoothing pass: its current
// authoritative transform plus derived display inputs. History is nil for
// bodies without an interpolation buffer; those extrapolate instead.
type Body struct {
	Current   motion.Transform
	Smoothing Smoothing
	History   *InterpolationBuffer

	// Scale is the body's render scale; the zero value means unit scale.
	// ScaleBaked marks scale already folded into the collision shape at
	// authoring time, which must not be applied a second time.
	Scale      mgl64.Vec3
	ScaleBaked bool
}

// DisplayTransform is the per-frame render output for one body. It is
// derived state and never feeds back into simulation.
type DisplayTransform struct {
	Transform motion.Transform
	Scale     mgl64.Vec3
}

// BlendFactor normalizes how far the render clock has run past the last
// fixed step into [0, 1]. ok is false when the render clock lags the
// physics clock (step rewind) or no step has been recorded; the frame
// skips smoothing for that world.
func BlendFactor(timeAhead, timeStep float64) (float64, bool) {
	if timeAhead < 0 || timeStep == 0 {
		return 0, false
	}
	return mgl64.Clamp(timeAhead/timeStep, 0, 1), true
}

// Interpolate blends two transforms: linear on position, shortest-arc
// spherical on rotation. The endpoints are returned exactly.
func Interpolate(prev, cur motion.Transform, t float64) motion.Transform {
	if t <= 0 {
		return prev
	}
	if t >= 1 {
		return cur
	}
	to := cur.Rot
	if prev.Rot.Dot(to) < 0 {
		to = mgl64.Quat{W: -to.W, V: to.V.Mul(-1)}
	}
	return motion.Transform{
		Rot: mgl64.QuatSlerp(prev.Rot, to, t),
		Pos: prev.Pos.Add(cur.Pos.Sub(prev.Pos).Mul(t)),
	}
}

// Extrapolate predicts a display transform timeAhead past the current one
// using the body's velocities. Rotation integrates the motion-space
// angular velocity, consistent with how the solver and integrator treat
// inertia.
func Extrapolate(cur motion.Transform, v motion.Velocity, timeAhead float64) motion.Transform {
	if timeAhead == 0 || (v.Linear == (mgl64.Vec3{}) && v.Angular == (mgl64.Vec3{})) {
		return cur
	}
	return motion.Transform{
		Rot: motion.IntegrateOrientation(cur.Rot, v.Angular, timeAhead),
		Pos: cur.Pos.Add(v.Linear.Mul(timeAhead)),
	}
}

// Smooth selects the display transform for one body and re-arms its
// smoothing flag:
//
//   - smoothing suppressed (teleport) or zero time-ahead: show the
//     previous step's transform when history exists, else the current one;
//   - history present: interpolate between previous and current;
//   - no history: extrapolate from the current transform and velocity.
func Smooth(b *Body, timeAhead, timeStep float64) motion.Transform {
	defer func() { b.Smoothing.Apply = true }()

	factor, ok := BlendFactor(timeAhead, timeStep)
	if !b.Smoothing.Apply || timeAhead == 0 || !ok {
		if b.History != nil {
			return b.History.Previous
		}
		return b.Current
	}
	if b.History != nil {
		return Interpolate(b.History.Previous, b.Current, factor)
	}
	return Extrapolate(b.Current, b.Smoothing.Velocity, timeAhead)
}

// Smoother produces display transforms for the bodies of registered
// worlds, one pass per render frame per world.
type Smoother struct {
	Store *TimeStore
}

// Frame computes display transforms for one world's bodies at the given
// render time, appending into out. It reports false, leaving out
// untouched and every Apply flag unchanged, when the world should be
// skipped this frame; the last computed display transforms then stand.
func (s *Smoother) Frame(world int, renderTime float64, bodies []Body, out []DisplayTransform) ([]DisplayTransform, bool) {
	if !s.Store.Registered(world) {
		return out, false
	}
	wt := s.Store.Time(world)
	timeAhead := renderTime - wt.Elapsed
	if _, ok := BlendFactor(timeAhead, wt.Delta); !ok {
		return out, false
	}

	for i := range bodies {
		b := &bodies[i]
		out = append(out, DisplayTransform{
			Transform: Smooth(b, timeAhead, wt.Delta),
			Scale:     displayScale(b),
		})
	}
	return out, true
}

func displayScale(b *Body) mgl64.Vec3 {
	if b.ScaleBaked || b.Scale == (mgl64.Vec3{}) {
		return mgl64.Vec3{1, 1, 1}
	}
	return b.Scale
}
