// Package graphics decouples rendering from the fixed physics tick: it
// tracks per-world step timing and produces per-frame display transforms
// by interpolating or extrapolating body motion, without ever touching the
// authoritative simulation state.
package graphics

import "sort"

// WorldTime records a physics world's clock: total elapsed simulation time
// and the delta of the most recent fixed step.
type WorldTime struct {
	Elapsed float64
	Delta   float64
}

// TimeStore keeps one WorldTime slot per registered physics world, indexed
// by a small stable integer. The slot table grows to fit the highest
// registered index and never shrinks; unregistered slots are simply
// excluded from iteration. Single-writer per frame.
type TimeStore struct {
	times   []WorldTime
	indices []int // registered world indices, sorted
}

// Register adds a world index to the iteration set. Registering an already
// registered index is a no-op; the set stays sorted either way.
func (s *TimeStore) Register(world int) {
	if world < 0 {
		return
	}
	i := sort.SearchInts(s.indices, world)
	if i < len(s.indices) && s.indices[i] == world {
		return
	}
	s.indices = append(s.indices, 0)
	copy(s.indices[i+1:], s.indices[i:])
	s.indices[i] = world

	if world >= len(s.times) {
		grown := make([]WorldTime, world+1)
		copy(grown, s.times)
		s.times = grown
	}
}

// Unregister removes a world index from the iteration set, preserving the
// order of the remaining entries. Its slot is kept; unregistering an
// unknown index is a no-op.
func (s *TimeStore) Unregister(world int) {
	i := sort.SearchInts(s.indices, world)
	if i >= len(s.indices) || s.indices[i] != world {
		return
	}
	s.indices = append(s.indices[:i], s.indices[i+1:]...)
}

// Worlds is the sorted set of registered world indices. Callers must not
// hold the slice across a Register or Unregister.
func (s *TimeStore) Worlds() []int { return s.indices }

func (s *TimeStore) Registered(world int) bool {
	i := sort.SearchInts(s.indices, world)
	return i < len(s.indices) && s.indices[i] == world
}

// Record stores a world's clock after a fixed step. Recording for an index
// that was never registered is dropped.
func (s *TimeStore) Record(world int, elapsed, delta float64) {
	if world < 0 || world >= len(s.times) {
		return
	}
	s.times[world] = WorldTime{Elapsed: elapsed, Delta: delta}
}

func (s *TimeStore) Time(world int) WorldTime {
	if world < 0 || world >= len(s.times) {
		return WorldTime{}
	}
	return s.times[world]
}
