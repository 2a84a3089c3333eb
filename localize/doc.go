// Package localize estimates point-source locations from sensor-array
// recordings using the Alternating Projection scan in localize/ap.
//
// Localize ties the pipeline together: it optionally band-pass filters the
// recording, whitens data and dictionary with a supplied whitener, branches
// on the forward model's orientation mode, fits per-source amplitude time
// courses, and packages explained and residual recordings together with a
// variance-explained figure.
package localize
