package world

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/solverlab/impulse/internal/graphics"
	"github.com/solverlab/impulse/internal/joint"
	"github.com/solverlab/impulse/internal/motion"
)

// SceneParams tune the built-in demo scenes.
type SceneParams struct {
	Links      int     // chain links / slider carriages
	LimitMin   float64 // angular or linear limit lower bound
	LimitMax   float64
	MotorRate  float64 // rad/s for the wheel scene
	MaxImpulse float64 // overflow threshold for motor events
}

func DefaultSceneParams() SceneParams {
	return SceneParams{
		Links:      5,
		LimitMin:   -math.Pi / 4,
		LimitMax:   math.Pi / 4,
		MotorRate:  4,
		MaxImpulse: joint.NoMaxImpulse,
	}
}

// SceneNames lists the built-in scenes in presentation order.
func SceneNames() []string { return []string{"chain", "wheel", "slider"} }

// BuildScene assembles a named demo scene into a fresh world.
func BuildScene(name string, cfg Config, p SceneParams, store *graphics.TimeStore, index int) (*World, error) {
	switch name {
	case "chain":
		return buildChain(cfg, p, store, index)
	case "wheel":
		return buildWheel(cfg, p, store, index)
	case "slider":
		return buildSlider(cfg, p, store, index)
	default:
		return nil, fmt.Errorf("world: unknown scene %q (have %v)", name, SceneNames())
	}
}

func unitBody(pos mgl64.Vec3, mass float64) (motion.Data, motion.Velocity) {
	d := motion.Data{
		WorldFromMotion: motion.Transform{Rot: mgl64.QuatIdent(), Pos: pos},
		BodyFromMotion:  motion.Identity(),
	}
	v := motion.Velocity{}
	if mass > 0 {
		// Unit-cube inertia about each principal axis.
		v.InvMass = 1 / mass
		inv := 6 / mass
		v.InvInertia = mgl64.Vec3{inv, inv, inv}
	}
	return d, v
}

// buildChain hangs a run of limited hinges from a static anchor. The
// z-axis hinges swing in the xy plane within the configured limits.
func buildChain(cfg Config, p SceneParams, store *graphics.TimeStore, index int) (*World, error) {
	w := New(cfg, store, index)

	anchorData, anchorVel := unitBody(mgl64.Vec3{0, 0, 0}, 0)
	prev := w.AddBody(anchorData, anchorVel, false)

	for i := 1; i <= p.Links; i++ {
		d, v := unitBody(mgl64.Vec3{0, -float64(i), 0}, 1)
		b := w.AddBody(d, v, true)

		hinge := joint.NewLimitedHinge(uint64(i), prev, b,
			motion.Transform{Rot: hingeFrame(), Pos: mgl64.Vec3{0, -0.5, 0}},
			motion.Transform{Rot: hingeFrame(), Pos: mgl64.Vec3{0, 0.5, 0}},
			p.LimitMin, p.LimitMax)
		if err := w.AddJoint(hinge); err != nil {
			return nil, err
		}
		prev = b
	}
	return w, nil
}

// buildWheel spins a free body against a static hub with an angular
// velocity motor.
func buildWheel(cfg Config, p SceneParams, store *graphics.TimeStore, index int) (*World, error) {
	w := New(cfg, store, index)

	hubData, hubVel := unitBody(mgl64.Vec3{0, 0, 0}, 0)
	hub := w.AddBody(hubData, hubVel, false)

	wheelData, wheelVel := unitBody(mgl64.Vec3{0, 0, 0}, 2)
	wheel := w.AddBody(wheelData, wheelVel, false)

	motor := joint.NewAngularVelocityMotor(1, hub, wheel,
		motion.Identity(), motion.Identity(), 2, p.MotorRate, p.MaxImpulse)
	if err := w.AddJoint(motor); err != nil {
		return nil, err
	}
	if err := w.AddJoint(joint.NewBallAndSocket(2, hub, wheel, motion.Identity(), motion.Identity())); err != nil {
		return nil, err
	}
	return w, nil
}

// buildSlider runs a carriage along a static rail between linear limits.
func buildSlider(cfg Config, p SceneParams, store *graphics.TimeStore, index int) (*World, error) {
	w := New(cfg, store, index)

	railData, railVel := unitBody(mgl64.Vec3{0, 0, 0}, 0)
	rail := w.AddBody(railData, railVel, false)

	min, max := p.LimitMin, p.LimitMax
	if min == max {
		min, max = -2, 2
	}
	carriageData, carriageVel := unitBody(mgl64.Vec3{1, 0, 0}, 1)
	carriage := w.AddBody(carriageData, carriageVel, true)

	slider := joint.NewPrismatic(1, rail, carriage, motion.Identity(), motion.Identity(), 0, min, max)
	if err := w.AddJoint(slider); err != nil {
		return nil, err
	}
	return w, nil
}

// hingeFrame orients the joint twist axis (axis 0) along world z so the
// chain swings in the xy plane.
func hingeFrame() mgl64.Quat {
	return mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})
}
