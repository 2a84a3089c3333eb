package localize

import "gonum.org/v1/gonum/mat"

// Dipole is one estimated point source.
type Dipole struct {
	// Candidate is the index of the selected dictionary candidate.
	Candidate int

	// Position is the candidate's location from the forward model.
	Position [3]float64

	// Orientation is the unit source orientation. For fixed-orientation
	// models it is the model's reference orientation; for free-orientation
	// models it is the estimated one, sign-aligned with the reference
	// orientation when the model carries one.
	Orientation [3]float64

	// Amplitude is the scalar magnitude time course from the least-squares
	// fit, one value per sample.
	Amplitude []float64

	// Waveform is the 3×times vector time course, Orientation scaled by
	// Amplitude at every sample.
	Waveform *mat.Dense
}

// Result bundles the outputs of one localization call.
type Result struct {
	// Dipoles holds one entry per estimated source, ordered like Indices.
	Dipoles []Dipole

	// Indices is the final active set of candidate indices.
	Indices []int

	// VarExplained is 1 − ‖residual‖²/‖data‖² in the whitened domain,
	// at most 1 and near 1 for a complete fit.
	VarExplained float64

	// Sweeps is the number of refinement sweeps the estimator completed.
	Sweeps int

	// Converged reports whether refinement stopped on an unchanged sweep
	// rather than on the iteration budget.
	Converged bool

	// Explained is the input recording with its data replaced by the part
	// the fitted sources account for, in the original (unwhitened) sensor
	// space.
	Explained *Recording

	// Residual is the input recording minus the explained data.
	Residual *Recording
}
