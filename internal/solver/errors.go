package solver

import "errors"

var (
	// ErrBadTimestep indicates a zero or negative solve timestep.
	ErrBadTimestep = errors.New("solver: timestep must be positive")

	// ErrBadIterations indicates a non-positive iteration count.
	ErrBadIterations = errors.New("solver: iteration count must be positive")

	// ErrUnknownKind indicates a constraint kind with no registered builder.
	ErrUnknownKind = errors.New("solver: unknown constraint kind")
)
