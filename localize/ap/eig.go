package ap

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// eigImagTol bounds the imaginary magnitude accepted when extracting a
	// real eigenpair from the generalized eigenproblem solver, relative to
	// the real part.
	eigImagTol = 1e-6

	// eigRegScale is the trace fraction added to the diagonal of B before
	// solving the generalized eigenproblem (A, B).
	eigRegScale = 1e-3
)

// maxGeneralizedEig solves the 3×3 generalized eigenproblem A·v = λ·B·v and
// returns the largest real eigenvalue with its unit-norm eigenvector.
//
// B is regularized in place with eigRegScale·tr(B)·I so a near-singular
// orientation Gram matrix cannot break the solve. The problem is reduced to
// the standard eigenproblem of B⁻¹·A. Eigenpairs whose imaginary content
// exceeds eigImagTol relative to the real part are ineligible; if none
// qualifies the error is ErrEigenFailed.
func maxGeneralizedEig(a, b *mat.Dense) (float64, [3]float64, error) {
	var ori [3]float64

	tr := mat.Trace(b)
	for i := 0; i < 3; i++ {
		b.Set(i, i, b.At(i, i)+eigRegScale*tr)
	}

	var reduced mat.Dense
	if err := reduced.Solve(b, a); err != nil {
		return 0, ori, fmt.Errorf("%w: reducing to standard form: %v", ErrEigenFailed, err)
	}

	var eig mat.Eigen
	if !eig.Factorize(&reduced, mat.EigenRight) {
		return 0, ori, ErrEigenFailed
	}

	vals := eig.Values(nil)

	var vecs mat.CDense
	eig.VectorsTo(&vecs)

	best := -1
	bestVal := math.Inf(-1)

	for i, v := range vals {
		re, im := real(v), imag(v)
		if math.Abs(im) > eigImagTol*math.Max(1, math.Abs(re)) {
			continue
		}

		if re > bestVal {
			best = i
			bestVal = re
		}
	}

	if best < 0 {
		return 0, ori, ErrEigenFailed
	}

	norm := 0.0

	for r := 0; r < 3; r++ {
		c := vecs.At(r, best)
		if math.Abs(imag(c)) > eigImagTol*math.Max(1, math.Abs(real(c))) {
			return 0, ori, ErrEigenFailed
		}

		ori[r] = real(c)
		norm += ori[r] * ori[r]
	}

	norm = math.Sqrt(norm)
	if norm == 0 {
		return 0, ori, ErrEigenFailed
	}

	for r := range ori {
		ori[r] /= norm
	}

	return bestVal, ori, nil
}
