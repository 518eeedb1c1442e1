// Package solver implements the sequential-impulse constraint solver.
//
// Each physics step runs three phases:
//
//   - Build: every joint constraint is converted into a type-tagged
//     Jacobian record and appended to a [Stream]. Builders are pure: one
//     constraint plus the two bodies' motion state in, one record out.
//   - Iterate: the stream is walked in write order a fixed number of
//     times. Each record predicts the end-of-step configuration from the
//     current velocities, converts the blended position/velocity error
//     into an impulse through its effective mass, and applies it to both
//     bodies.
//   - Done: velocities carry the step's corrections and are handed to
//     integration. Accumulated impulses survive only for diagnostics.
//
// Streams are write-once append logs read strictly forward. One stream per
// scheduling partition may be built and solved in parallel; records within
// a stream must be solved in write order every iteration.
//
// Angular limits extract a twist angle by swing-twist decomposition of the
// relative joint rotation. Raw twist is only defined modulo 2pi, so it is
// remapped into the branch nearest the limit center. The remap is exact
// only when the limited axis cannot rotate freely (a hinge); near a
// relative rotation of 180 degrees the chosen branch is an approximation.
package solver
