package ap

import (
	"gonum.org/v1/gonum/mat"
)

// FreeResult is the outcome of a free-orientation estimation.
type FreeResult struct {
	// Indices is the ordered active set of candidate location indices.
	Indices []int

	// Orientations holds one unit orientation vector per active source,
	// positionally aligned with Indices.
	Orientations [][3]float64

	// OrientedGain has one column per active source: the candidate's triplet
	// columns collapsed onto its estimated orientation, in the whitened
	// sensor space. This is the dictionary to fit amplitudes against.
	OrientedGain *mat.Dense

	// Sweeps is the number of completed refinement sweeps.
	Sweeps int

	// Converged reports whether refinement stopped because a full sweep left
	// the active set unchanged. False when MaxIter was zero or exhausted.
	Converged bool
}

// EstimateFree runs the alternating-projection scan over free-orientation
// candidates. gain must hold three orthogonal direction columns per
// candidate location (sensors × 3·ncandidates); for every candidate the
// best orientation is the top eigenvector of a small generalized
// eigenproblem built from the projected covariance.
func EstimateFree(data, gain mat.Matrix, cfg Config) (*FreeResult, error) {
	cfg = normalizeConfig(cfg)

	nsens, ntimes := data.Dims()
	gsens, gcols := gain.Dims()

	if nsens == 0 || ntimes == 0 {
		return nil, ErrEmptyData
	}

	if gsens != nsens {
		return nil, ErrDimensionMismatch
	}

	if gcols%3 != 0 {
		return nil, ErrGainShape
	}

	ncand := gcols / 3
	if err := cfg.validate(ncand); err != nil {
		return nil, err
	}

	cov := Covariance(data)

	indices, oris, err := greedyFree(gain, cov, cfg)
	if err != nil {
		return nil, err
	}

	res := &FreeResult{Indices: indices, Orientations: oris}

	for sweep := 1; sweep <= cfg.MaxIter; sweep++ {
		prev := append([]int(nil), indices...)

		for src := range indices {
			held := orientedColumns(gain, indices, oris, src)

			p, err := projector(nsens, held)
			if err != nil {
				return nil, err
			}

			best, _, ori, err := argmaxFree(gain, cov, p, excludeSet(indices, src))
			if err != nil {
				return nil, err
			}

			indices[src] = best
			oris[src] = ori
		}

		res.Sweeps = sweep
		cfg.Trace.sweep(sweep, indices)

		if equalInts(prev, indices) {
			res.Converged = true
			break
		}
	}

	res.OrientedGain = orientedColumns(gain, indices, oris, -1)

	return res, nil
}

// greedyFree performs the initialization phase of the free-orientation scan.
// Each accepted source contributes its oriented column L·v to the matrix the
// next projector is built from.
func greedyFree(gain mat.Matrix, cov *mat.Dense, cfg Config) ([]int, [][3]float64, error) {
	nsens, _ := gain.Dims()

	indices := make([]int, 0, cfg.NSources)
	oris := make([][3]float64, 0, cfg.NSources)

	best, score, ori, err := argmaxFree(gain, cov, identity(nsens), nil)
	if err != nil {
		return nil, nil, err
	}

	cfg.Trace.greedy(0, best, score)
	indices = append(indices, best)
	oris = append(oris, ori)

	for len(indices) < cfg.NSources {
		p, err := projector(nsens, orientedColumns(gain, indices, oris, -1))
		if err != nil {
			return nil, nil, err
		}

		best, score, ori, err := argmaxFree(gain, cov, p, excludeSet(indices, -1))
		if err != nil {
			return nil, nil, err
		}

		cfg.Trace.greedy(len(indices), best, score)
		indices = append(indices, best)
		oris = append(oris, ori)
	}

	return indices, oris, nil
}

// argmaxFree scores every candidate location by solving its generalized
// eigenproblem against the projected covariance and returns the best
// location, score, and orientation. Candidates in exclude are skipped.
//
// For a candidate with triplet columns L and projector P the problem is
// (A, B) with A = Lᵀ·P·C·P·L and B = Lᵀ·P·P·L; the score is the largest
// eligible real eigenvalue. Solver failures propagate: a result built from
// a partially scored scan would be meaningless.
func argmaxFree(gain mat.Matrix, cov, p *mat.Dense, exclude map[int]struct{}) (int, float64, [3]float64, error) {
	nsens, gcols := gain.Dims()
	ncand := gcols / 3

	best := -1
	bestScore := 0.0

	var bestOri [3]float64

	var pl, cpl, a, b mat.Dense

	for j := 0; j < ncand; j++ {
		if _, skip := exclude[j]; skip {
			continue
		}

		l := triplet(gain, j, nsens)

		pl.Mul(p, l)
		cpl.Mul(cov, &pl)

		a.Mul(pl.T(), &cpl)
		b.Mul(pl.T(), &pl)

		score, ori, err := maxGeneralizedEig(&a, &b)
		if err != nil {
			return -1, 0, bestOri, err
		}

		if best < 0 || score > bestScore {
			best = j
			bestScore = score
			bestOri = ori
		}
	}

	if best < 0 {
		return -1, 0, bestOri, ErrDegenerateGain
	}

	return best, bestScore, bestOri, nil
}

// orientedColumns gathers the oriented topographies L·v of the active set
// into a sensors×k matrix, skipping position skipPos (-1 keeps all).
// Returns nil when no columns remain.
func orientedColumns(gain mat.Matrix, indices []int, oris [][3]float64, skipPos int) *mat.Dense {
	nsens, _ := gain.Dims()

	kept := 0
	for pos := range indices {
		if pos != skipPos {
			kept++
		}
	}

	if kept == 0 {
		return nil
	}

	out := mat.NewDense(nsens, kept, nil)

	var col mat.VecDense

	c := 0
	for pos, idx := range indices {
		if pos == skipPos {
			continue
		}

		ori := oris[pos]
		col.MulVec(triplet(gain, idx, nsens), mat.NewVecDense(3, ori[:]))
		out.SetCol(c, col.RawVector().Data)
		c++
	}

	return out
}

// triplet returns the sensors×3 direction-column block of candidate idx.
func triplet(gain mat.Matrix, idx, nsens int) *mat.Dense {
	out := mat.NewDense(nsens, 3, nil)
	buf := make([]float64, nsens)

	for d := 0; d < 3; d++ {
		mat.Col(buf, 3*idx+d, gain)
		out.SetCol(d, buf)
	}

	return out
}
