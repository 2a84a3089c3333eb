package ap

import "gonum.org/v1/gonum/mat"

// SolveAmplitudes fits source time courses by least squares, minimizing
// ‖data − dict·amp‖ in the Frobenius norm. dict holds one finalized
// (oriented) topography column per source; the result has one row of
// amplitudes per source.
//
// The fit goes through QR. When the dictionary is rank deficient the QR
// solve is abandoned for the SVD minimum-norm solution, so duplicate or
// collinear topographies still produce a finite fit.
func SolveAmplitudes(dict, data mat.Matrix) (*mat.Dense, error) {
	dsens, nsrc := dict.Dims()
	msens, ntimes := data.Dims()

	if dsens == 0 || nsrc == 0 || ntimes == 0 {
		return nil, ErrEmptyData
	}

	if dsens != msens {
		return nil, ErrDimensionMismatch
	}

	var amp mat.Dense
	if err := amp.Solve(dict, data); err == nil {
		return &amp, nil
	}

	var svd mat.SVD
	if !svd.Factorize(dict, mat.SVDThin) {
		return nil, ErrDecompositionFailed
	}

	vals := svd.Values(nil)

	cutoff := 0.0
	if len(vals) > 0 {
		cutoff = float64(dsens) * machEps * vals[0]
	}

	rank := 0
	for _, s := range vals {
		if s > cutoff {
			rank++
		}
	}

	if rank == 0 {
		return mat.NewDense(nsrc, ntimes, nil), nil
	}

	var out mat.Dense
	svd.SolveTo(&out, data, rank)

	return &out, nil
}
