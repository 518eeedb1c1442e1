package world

import "github.com/solverlab/impulse/internal/solver"

// partition groups joints into islands of connected bodies using
// union-find. Bodies in different islands never share a constraint, so
// each island's stream can build and solve in parallel with the others
// while keeping write order within itself.
func (w *World) partition() {
	parent := make([]int, len(w.Motions))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	for _, j := range w.Joints {
		ra, rb := find(j.BodyA), find(j.BodyB)
		if ra != rb {
			parent[rb] = ra
		}
	}

	// Islands are numbered by first appearance in joint order, which keeps
	// partitioning deterministic across runs.
	islandOf := make(map[int]int)
	w.partitions = w.partitions[:0]
	for ji, j := range w.Joints {
		root := find(j.BodyA)
		p, ok := islandOf[root]
		if !ok {
			p = len(w.partitions)
			islandOf[root] = p
			w.partitions = append(w.partitions, nil)
		}
		w.partitions[p] = append(w.partitions[p], ji)
	}

	w.streams = make([]solver.Stream, len(w.partitions))
	w.collectors = make([]*solver.EventCollector, len(w.partitions))
	for i := range w.collectors {
		w.collectors[i] = &solver.EventCollector{}
	}
	w.dirty = false
}
