package sched

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrGraphFailed wraps the first task error of a run.
var ErrGraphFailed = errors.New("sched: task graph failed")

// Task is one unit of work in a dependency graph. It starts only after
// every declared dependency has finished.
type Task struct {
	name string
	fn   func(context.Context) error
	deps []*Task
	done chan struct{}
	err  error
}

func (t *Task) Name() string { return t.name }

// Graph is an explicit dependency graph of CPU-bound tasks. Two tasks may
// touch the same memory only if an edge orders them. A graph is built
// once, run once.
type Graph struct {
	tasks []*Task
}

// Add registers a task that runs after all of deps complete.
func (g *Graph) Add(name string, fn func(context.Context) error, deps ...*Task) *Task {
	t := &Task{name: name, fn: fn, deps: deps, done: make(chan struct{})}
	g.tasks = append(g.tasks, t)
	return t
}

// Run executes every task, honoring dependency edges, and returns the
// first failure. A failed or canceled dependency aborts its dependents.
func (g *Graph) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(len(g.tasks))

	for _, t := range g.tasks {
		go func(t *Task) {
			defer wg.Done()
			defer close(t.done)

			for _, dep := range t.deps {
				select {
				case <-dep.done:
					if dep.err != nil {
						t.err = fmt.Errorf("%s: dependency %s: %w", t.name, dep.name, dep.err)
						return
					}
				case <-ctx.Done():
					t.err = ctx.Err()
					return
				}
			}

			if err := ctx.Err(); err != nil {
				t.err = err
				return
			}
			if err := t.fn(ctx); err != nil {
				t.err = fmt.Errorf("%s: %w", t.name, err)
			}
		}(t)
	}

	wg.Wait()

	for _, t := range g.tasks {
		if t.err != nil {
			return fmt.Errorf("%w: %v", ErrGraphFailed, t.err)
		}
	}
	return nil
}
