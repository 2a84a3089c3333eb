// Package forward bundles a precomputed gain dictionary with candidate
// source geometry.
//
// The package does not compute lead fields. It validates and carries a gain
// matrix produced elsewhere, together with one position (and, depending on
// the orientation mode, one reference orientation) per candidate, and
// converts between the fixed- and free-orientation dictionary layouts.
package forward
