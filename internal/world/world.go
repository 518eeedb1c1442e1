// Package world owns the per-step orchestration: bodies, joints, stream
// partitioning, the gravity/build/solve/integrate pipeline, and the
// handoff to the render-smoothing layer.
package world

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/solverlab/impulse/internal/graphics"
	"github.com/solverlab/impulse/internal/joint"
	"github.com/solverlab/impulse/internal/motion"
	"github.com/solverlab/impulse/internal/sched"
	"github.com/solverlab/impulse/internal/solver"
)

var (
	ErrBadBody  = errors.New("world: joint references unknown body")
	ErrBadIndex = errors.New("world: body index out of range")
)

const minBodiesPerChunk = 64

// Config are the fixed solve parameters of a world.
type Config struct {
	Timestep   float64
	Iterations int
	Tau        float64
	Damping    float64
	Gravity    mgl64.Vec3
}

func DefaultConfig() Config {
	return Config{
		Timestep:   1.0 / 50,
		Iterations: 4,
		Tau:        solver.DefaultTau,
		Damping:    solver.DefaultDamping,
		Gravity:    mgl64.Vec3{0, -9.81, 0},
	}
}

// World is one simulated physics world. Body state is laid out as
// parallel slices indexed by body id; the solver mutates Velocities in
// place and integration mutates Motions. The Render slice is the only
// state the smoothing layer reads.
type World struct {
	Config Config
	Index  int // slot in the shared graphics time store

	Motions    []motion.Data
	Velocities []motion.Velocity
	Render     []graphics.Body

	Joints []*joint.Joint

	store      *graphics.TimeStore
	elapsed    float64
	partitions [][]int // joint indices per island, disjoint body sets
	streams    []solver.Stream
	collectors []*solver.EventCollector
	events     []solver.ImpulseEvent
	dirty      bool
}

// New creates a world and registers it with the shared time store.
func New(cfg Config, store *graphics.TimeStore, index int) *World {
	store.Register(index)
	return &World{Config: cfg, Index: index, store: store}
}

// AddBody appends a body and returns its index. Interpolated bodies get a
// previous-transform buffer and smooth by interpolation; others
// extrapolate.
func (w *World) AddBody(d motion.Data, v motion.Velocity, interpolated bool) int {
	w.Motions = append(w.Motions, d)
	w.Velocities = append(w.Velocities, v)
	rb := graphics.Body{
		Current:   d.WorldFromMotion,
		Smoothing: graphics.Smoothing{Velocity: v, Apply: true},
	}
	if interpolated {
		rb.History = &graphics.InterpolationBuffer{Previous: d.WorldFromMotion}
	}
	w.Render = append(w.Render, rb)
	return len(w.Motions) - 1
}

// AddJoint validates and appends a joint, invalidating the partitioning.
func (w *World) AddJoint(j *joint.Joint) error {
	if err := j.Validate(); err != nil {
		return err
	}
	if j.BodyA < 0 || j.BodyA >= len(w.Motions) || j.BodyB < 0 || j.BodyB >= len(w.Motions) {
		return fmt.Errorf("%w: joint %d pair (%d, %d)", ErrBadBody, j.ID, j.BodyA, j.BodyB)
	}
	w.Joints = append(w.Joints, j)
	w.dirty = true
	return nil
}

// Teleport moves a body without generating velocity and suppresses render
// smoothing for one frame so the jump is not blended over.
func (w *World) Teleport(body int, t motion.Transform) error {
	if body < 0 || body >= len(w.Motions) {
		return fmt.Errorf("%w: %d", ErrBadIndex, body)
	}
	w.Motions[body].WorldFromMotion = t
	w.Render[body].Smoothing.Apply = false
	return nil
}

// Elapsed is the total simulated time.
func (w *World) Elapsed() float64 { return w.elapsed }

// Step advances the world by one fixed timestep. Phases run as an
// explicit task graph; the build and solve phases fan out across island
// partitions whose body sets are disjoint, so partitions share no memory.
// The returned events are valid until the next Step.
func (w *World) Step(ctx context.Context) ([]solver.ImpulseEvent, error) {
	if w.dirty {
		w.partition()
	}

	dt := w.Config.Timestep
	w.events = w.events[:0]

	var g sched.Graph
	gravity := g.Add("gravity", func(context.Context) error {
		sched.ParallelFor(len(w.Velocities), minBodiesPerChunk, func(start, end int) {
			for i := start; i < end; i++ {
				w.Velocities[i].ApplyGravity(w.Config.Gravity, dt)
			}
		})
		return nil
	})

	// Error slots are per partition, so parallel chunks never write the
	// same element.
	build := g.Add("build", func(context.Context) error {
		errs := make([]error, len(w.partitions))
		sched.ParallelFor(len(w.partitions), 1, func(start, end int) {
			for p := start; p < end; p++ {
				w.streams[p].Reset()
				for _, ji := range w.partitions[p] {
					j := w.Joints[ji]
					err := solver.BuildJoint(&w.streams[p], j,
						w.Motions[j.BodyA], w.Motions[j.BodyB],
						w.Velocities[j.BodyA], w.Velocities[j.BodyB],
						w.Config.Tau, w.Config.Damping)
					if err != nil {
						errs[p] = err
					}
				}
			}
		})
		return firstError(errs)
	}, gravity)

	solve := g.Add("solve", func(context.Context) error {
		errs := make([]error, len(w.partitions))
		sched.ParallelFor(len(w.partitions), 1, func(start, end int) {
			for p := start; p < end; p++ {
				w.collectors[p].Reset()
				if err := solver.Solve(&w.streams[p], w.Velocities, dt, w.Config.Iterations, w.collectors[p]); err != nil {
					errs[p] = err
				}
			}
		})
		return firstError(errs)
	}, build)

	capture := g.Add("capture-history", func(context.Context) error {
		sched.ParallelFor(len(w.Render), minBodiesPerChunk, func(start, end int) {
			for i := start; i < end; i++ {
				if h := w.Render[i].History; h != nil {
					h.Previous = w.Motions[i].WorldFromMotion
				}
			}
		})
		return nil
	}, solve)

	integrate := g.Add("integrate", func(context.Context) error {
		sched.ParallelFor(len(w.Motions), minBodiesPerChunk, func(start, end int) {
			for i := start; i < end; i++ {
				motion.Integrate(&w.Motions[i], w.Velocities[i], dt)
			}
		})
		return nil
	}, capture)

	g.Add("publish-render", func(context.Context) error {
		sched.ParallelFor(len(w.Render), minBodiesPerChunk, func(start, end int) {
			for i := start; i < end; i++ {
				w.Render[i].Current = w.Motions[i].WorldFromMotion
				w.Render[i].Smoothing.Velocity = w.Velocities[i]
			}
		})
		return nil
	}, integrate)

	if err := g.Run(ctx); err != nil {
		return nil, err
	}

	w.events = solver.Merge(w.events, w.collectors...)
	w.elapsed += dt
	w.store.Record(w.Index, w.elapsed, dt)
	return w.events, nil
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// MaxError is the largest constraint initial error observed during the
// most recent step's build phase.
func (w *World) MaxError() float64 {
	max := 0.0
	for i := range w.streams {
		if e := solver.MaxInitialError(&w.streams[i]); e > max {
			max = e
		}
	}
	return max
}

// KineticEnergy sums the translational and rotational kinetic energy of
// all finite-mass bodies, a drift diagnostic.
func (w *World) KineticEnergy() float64 {
	total := 0.0
	for i := range w.Velocities {
		v := &w.Velocities[i]
		if v.InvMass > 0 {
			total += 0.5 * v.Linear.Dot(v.Linear) / v.InvMass
		}
		for k := 0; k < 3; k++ {
			if v.InvInertia[k] > 0 {
				total += 0.5 * v.Angular[k] * v.Angular[k] / v.InvInertia[k]
			}
		}
	}
	return total
}
