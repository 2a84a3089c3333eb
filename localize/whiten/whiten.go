package whiten

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

const defaultRTol = 1e-12

var (
	// ErrNilTransform reports a missing transform matrix.
	ErrNilTransform = errors.New("whiten: nil transform matrix")

	// ErrNotSquare reports a non-square transform matrix.
	ErrNotSquare = errors.New("whiten: transform matrix must be square")

	// ErrEigenFailed reports a noise covariance whose eigendecomposition did
	// not converge.
	ErrEigenFailed = errors.New("whiten: eigendecomposition of noise covariance failed")

	// ErrNotPSD reports a noise covariance with a significantly negative or
	// all-zero spectrum.
	ErrNotPSD = errors.New("whiten: noise covariance is not positive semi-definite")
)

// Whitener is an immutable sensors×sensors whitening transform.
type Whitener struct {
	w    *mat.Dense
	rank int
}

// Identity returns the trivial whitener for pre-whitened pipelines.
func Identity(n int) *Whitener {
	w := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		w.Set(i, i, 1)
	}

	return &Whitener{w: w, rank: n}
}

// New wraps a caller-supplied transform matrix. The matrix is assumed to be
// full rank; it is not copied and must not be mutated afterwards.
func New(w *mat.Dense) (*Whitener, error) {
	if w == nil {
		return nil, ErrNilTransform
	}

	r, c := w.Dims()
	if r != c {
		return nil, ErrNotSquare
	}

	return &Whitener{w: w, rank: r}, nil
}

// FromNoiseCov derives a whitener from a noise covariance estimate via
// symmetric eigendecomposition: W = Λ^{-1/2}·Vᵀ over the retained subspace.
//
// Eigenvalues at or below rtol·λmax are treated as rank deficiency; their
// rows of W are zero, so the corresponding noise directions are projected
// out rather than amplified. rtol ≤ 0 selects a conservative default.
func FromNoiseCov(cov *mat.SymDense, rtol float64) (*Whitener, error) {
	if cov == nil {
		return nil, ErrNilTransform
	}

	if rtol <= 0 {
		rtol = defaultRTol
	}

	var es mat.EigenSym
	if !es.Factorize(cov, true) {
		return nil, ErrEigenFailed
	}

	n := cov.SymmetricDim()
	vals := es.Values(nil) // ascending

	var vecs mat.Dense
	es.VectorsTo(&vecs)

	largest := vals[n-1]
	if largest <= 0 {
		return nil, ErrNotPSD
	}

	if vals[0] < -rtol*largest {
		return nil, ErrNotPSD
	}

	w := mat.NewDense(n, n, nil)
	rank := 0

	// Retained rows ordered by descending eigenvalue.
	for i := n - 1; i >= 0; i-- {
		v := vals[i]
		if v <= rtol*largest {
			break
		}

		scale := 1 / math.Sqrt(v)
		for j := 0; j < n; j++ {
			w.Set(rank, j, scale*vecs.At(j, i))
		}

		rank++
	}

	if rank == 0 {
		return nil, ErrNotPSD
	}

	return &Whitener{w: w, rank: rank}, nil
}

// Dim returns the sensor dimension of the transform.
func (wh *Whitener) Dim() int {
	n, _ := wh.w.Dims()
	return n
}

// Rank returns the retained rank of the transform.
func (wh *Whitener) Rank() int { return wh.rank }

// Matrix returns the transform matrix. Treat it as read-only.
func (wh *Whitener) Matrix() *mat.Dense { return wh.w }

// Apply returns W·x, whitening the columns of x. It works for both data
// matrices and gain dictionaries.
func (wh *Whitener) Apply(x mat.Matrix) *mat.Dense {
	n, _ := wh.w.Dims()
	_, c := x.Dims()

	out := mat.NewDense(n, c, nil)
	out.Mul(wh.w, x)

	return out
}
