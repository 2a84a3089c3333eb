// Package ap implements the Alternating Projection (AP) source scan.
//
// Given a whitened sensor-by-time data matrix and a whitened gain dictionary
// whose columns are candidate source topographies, the package estimates the
// subset of candidates that best explains the recorded data. The search is
// deterministic: a greedy initialization picks one source at a time by
// residual-energy scoring, then refinement sweeps revisit each active source
// and relocate it against the subspace spanned by the others.
//
// Two dictionary layouts are supported:
//
//   - Fixed orientation: one column per candidate (EstimateFixed).
//   - Free orientation: three orthogonal columns per candidate; the best
//     orientation per location is found by a small generalized eigenproblem
//     (EstimateFree).
//
// Amplitude time courses for the final active set are fitted separately with
// SolveAmplitudes. All entry points operate on gonum mat matrices and share
// the same Config.
package ap
