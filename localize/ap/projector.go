package ap

import "gonum.org/v1/gonum/mat"

// machEps is the float64 machine epsilon, used for relative rank cutoffs.
const machEps = 2.220446049250313e-16

// projector returns the orthogonal projector onto the complement of the
// column span of active: P = I − A·(AᵀA)⁺·Aᵀ.
//
// The Gram matrix is inverted through an SVD pseudo-inverse, so duplicate or
// near-collinear columns degrade gracefully instead of failing. P is
// symmetric and idempotent. A nil active matrix yields the identity.
func projector(dim int, active *mat.Dense) (*mat.Dense, error) {
	p := identity(dim)
	if active == nil {
		return p, nil
	}

	var gram mat.Dense
	gram.Mul(active.T(), active)

	ginv, err := pseudoInverse(&gram)
	if err != nil {
		return nil, err
	}

	var tmp, span mat.Dense
	tmp.Mul(active, ginv)
	span.Mul(&tmp, active.T())

	p.Sub(p, &span)

	return p, nil
}

// pseudoInverse computes the Moore-Penrose inverse of a square matrix via
// SVD. Singular values below a relative cutoff are treated as zero.
func pseudoInverse(a *mat.Dense) (*mat.Dense, error) {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDFull) {
		return nil, ErrDecompositionFailed
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	vals := svd.Values(nil)
	n, _ := a.Dims()

	cutoff := 0.0
	if len(vals) > 0 {
		cutoff = float64(n) * machEps * vals[0]
	}

	inv := make([]float64, len(vals))
	for i, s := range vals {
		if s > cutoff {
			inv[i] = 1 / s
		}
	}

	var tmp, out mat.Dense
	tmp.Mul(&v, mat.NewDiagDense(len(inv), inv))
	out.Mul(&tmp, u.T())

	return &out, nil
}

func identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}

	return m
}

// sandwich returns P·C·P, the covariance restricted to the residual subspace.
func sandwich(p, cov *mat.Dense) *mat.Dense {
	n, _ := p.Dims()

	tmp := mat.NewDense(n, n, nil)
	tmp.Mul(p, cov)

	out := mat.NewDense(n, n, nil)
	out.Mul(tmp, p)

	return out
}
