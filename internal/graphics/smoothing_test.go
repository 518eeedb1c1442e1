package graphics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/solverlab/impulse/internal/graphics"
	"github.com/solverlab/impulse/internal/motion"
)

var _ = Describe("BlendFactor", func() {
	It("normalizes time ahead into the step", func() {
		f, ok := graphics.BlendFactor(0.01, 0.02)
		Expect(ok).To(BeTrue())
		Expect(f).To(BeNumerically("~", 0.5, 1e-12))
	})

	It("clamps past a full step", func() {
		f, ok := graphics.BlendFactor(0.05, 0.02)
		Expect(ok).To(BeTrue())
		Expect(f).To(Equal(1.0))
	})

	It("rejects a render clock behind the physics clock", func() {
		_, ok := graphics.BlendFactor(-0.001, 0.02)
		Expect(ok).To(BeFalse())
	})

	It("rejects a world that has not stepped", func() {
		_, ok := graphics.BlendFactor(0.01, 0)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Interpolate", func() {
	prev := motion.Transform{
		Rot: mgl64.QuatRotate(0.2, mgl64.Vec3{0, 0, 1}),
		Pos: mgl64.Vec3{0, 0, 0},
	}
	cur := motion.Transform{
		Rot: mgl64.QuatRotate(0.6, mgl64.Vec3{0, 0, 1}),
		Pos: mgl64.Vec3{2, 0, 0},
	}

	It("returns the endpoints exactly", func() {
		Expect(graphics.Interpolate(prev, cur, 0)).To(Equal(prev))
		Expect(graphics.Interpolate(prev, cur, 1)).To(Equal(cur))
	})

	It("lerps position", func() {
		got := graphics.Interpolate(prev, cur, 0.25)
		Expect(got.Pos[0]).To(BeNumerically("~", 0.5, 1e-12))
	})

	It("slerps rotation through the midpoint angle", func() {
		got := graphics.Interpolate(prev, cur, 0.5)
		want := mgl64.QuatRotate(0.4, mgl64.Vec3{0, 0, 1})
		Expect(math.Abs(got.Rot.Dot(want))).To(BeNumerically("~", 1, 1e-9))
	})

	It("takes the shortest arc when the quaternions disagree in sign", func() {
		flipped := motion.Transform{
			Rot: mgl64.Quat{W: -cur.Rot.W, V: cur.Rot.V.Mul(-1)},
			Pos: cur.Pos,
		}
		got := graphics.Interpolate(prev, flipped, 0.5)
		want := mgl64.QuatRotate(0.4, mgl64.Vec3{0, 0, 1})
		Expect(math.Abs(got.Rot.Dot(want))).To(BeNumerically("~", 1, 1e-9))
	})
})

var _ = Describe("Extrapolate", func() {
	cur := motion.Transform{Rot: mgl64.QuatIdent(), Pos: mgl64.Vec3{1, 2, 3}}

	It("returns the current transform exactly for a body at rest", func() {
		Expect(graphics.Extrapolate(cur, motion.Velocity{}, 0.01)).To(Equal(cur))
	})

	It("returns the current transform exactly at zero time ahead", func() {
		v := motion.Velocity{Linear: mgl64.Vec3{5, 0, 0}}
		Expect(graphics.Extrapolate(cur, v, 0)).To(Equal(cur))
	})

	It("projects position along the linear velocity", func() {
		v := motion.Velocity{Linear: mgl64.Vec3{5, 0, 0}}
		got := graphics.Extrapolate(cur, v, 0.01)
		Expect(got.Pos[0]).To(BeNumerically("~", 1.05, 1e-12))
	})

	It("advances rotation by the angular velocity", func() {
		v := motion.Velocity{Angular: mgl64.Vec3{0, 0, 2}}
		got := graphics.Extrapolate(cur, v, 0.01)
		want := mgl64.QuatRotate(0.02, mgl64.Vec3{0, 0, 1})
		Expect(math.Abs(got.Rot.Dot(want))).To(BeNumerically("~", 1, 1e-9))
	})
})

var _ = Describe("Smooth", func() {
	var body graphics.Body

	BeforeEach(func() {
		body = graphics.Body{
			Current: motion.Transform{Rot: mgl64.QuatIdent(), Pos: mgl64.Vec3{1, 0, 0}},
			History: &graphics.InterpolationBuffer{
				Previous: motion.Transform{Rot: mgl64.QuatIdent(), Pos: mgl64.Vec3{0, 0, 0}},
			},
			Smoothing: graphics.Smoothing{Apply: true},
		}
	})

	It("interpolates a body with history", func() {
		got := graphics.Smooth(&body, 0.01, 0.02)
		Expect(got.Pos[0]).To(BeNumerically("~", 0.5, 1e-12))
	})

	It("extrapolates a body without history", func() {
		body.History = nil
		body.Smoothing.Velocity = motion.Velocity{Linear: mgl64.Vec3{10, 0, 0}}
		got := graphics.Smooth(&body, 0.01, 0.02)
		Expect(got.Pos[0]).To(BeNumerically("~", 1.1, 1e-12))
	})

	It("masks a teleport for exactly one call", func() {
		body.Smoothing.Apply = false

		got := graphics.Smooth(&body, 0.01, 0.02)
		Expect(got).To(Equal(body.History.Previous))

		// The flag re-arms, so the next frame smooths again.
		got = graphics.Smooth(&body, 0.01, 0.02)
		Expect(got.Pos[0]).To(BeNumerically("~", 0.5, 1e-12))
	})

	It("shows the previous transform at zero time ahead", func() {
		got := graphics.Smooth(&body, 0, 0.02)
		Expect(got).To(Equal(body.History.Previous))
	})
})

var _ = Describe("Smoother", func() {
	var (
		store    *graphics.TimeStore
		smoother graphics.Smoother
		bodies   []graphics.Body
	)

	BeforeEach(func() {
		store = &graphics.TimeStore{}
		store.Register(0)
		store.Record(0, 1.0, 0.02)
		smoother = graphics.Smoother{Store: store}
		bodies = []graphics.Body{
			{
				Current:   motion.Transform{Rot: mgl64.QuatIdent(), Pos: mgl64.Vec3{1, 0, 0}},
				Smoothing: graphics.Smoothing{Apply: true},
				History: &graphics.InterpolationBuffer{
					Previous: motion.Transform{Rot: mgl64.QuatIdent()},
				},
			},
		}
	})

	It("produces one display transform per body", func() {
		out, ok := smoother.Frame(0, 1.01, bodies, nil)
		Expect(ok).To(BeTrue())
		Expect(out).To(HaveLen(1))
		Expect(out[0].Transform.Pos[0]).To(BeNumerically("~", 0.5, 1e-12))
		Expect(out[0].Scale).To(Equal(mgl64.Vec3{1, 1, 1}))
	})

	It("skips an unregistered world without touching flags", func() {
		bodies[0].Smoothing.Apply = false
		out, ok := smoother.Frame(9, 1.01, bodies, nil)
		Expect(ok).To(BeFalse())
		Expect(out).To(BeEmpty())
		Expect(bodies[0].Smoothing.Apply).To(BeFalse())
	})

	It("skips a world the render clock has not reached", func() {
		bodies[0].Smoothing.Apply = false
		_, ok := smoother.Frame(0, 0.5, bodies, nil)
		Expect(ok).To(BeFalse())
		Expect(bodies[0].Smoothing.Apply).To(BeFalse())
	})

	It("passes the body scale through unless baked", func() {
		bodies[0].Scale = mgl64.Vec3{2, 2, 2}
		out, _ := smoother.Frame(0, 1.01, bodies, nil)
		Expect(out[0].Scale).To(Equal(mgl64.Vec3{2, 2, 2}))

		bodies[0].ScaleBaked = true
		out, _ = smoother.Frame(0, 1.01, bodies, nil)
		Expect(out[0].Scale).To(Equal(mgl64.Vec3{1, 1, 1}))
	})
})
