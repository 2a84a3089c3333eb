package ap

import "gonum.org/v1/gonum/mat"

// Covariance builds the regularized data covariance C = X·Xᵀ + tr(X·Xᵀ)·I
// from a sensors×times sample matrix X.
//
// The trace-scaled identity keeps C invertible and well conditioned even for
// rank-deficient input such as a single time sample, at the cost of a small
// deterministic bias. The result is symmetric and sized sensors×sensors.
func Covariance(data mat.Matrix) *mat.Dense {
	n, _ := data.Dims()

	cov := mat.NewDense(n, n, nil)
	cov.Mul(data, data.T())

	tr := mat.Trace(cov)
	for i := 0; i < n; i++ {
		cov.Set(i, i, cov.At(i, i)+tr)
	}

	return cov
}
