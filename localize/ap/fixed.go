package ap

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// denTol is the relative threshold below which a projected candidate column
// is considered to lie inside the active span and is skipped during scoring.
const denTol = 1e-12

// FixedResult is the outcome of a fixed-orientation estimation.
type FixedResult struct {
	// Indices is the ordered active set of candidate indices.
	Indices []int

	// Sweeps is the number of completed refinement sweeps.
	Sweeps int

	// Converged reports whether refinement stopped because a full sweep left
	// the active set unchanged. False when MaxIter was zero or exhausted.
	Converged bool
}

// EstimateFixed runs the alternating-projection scan over single-column
// candidate topographies. data is the whitened sensors×times matrix and gain
// the whitened sensors×ncandidates dictionary; both must share the sensor
// dimension.
func EstimateFixed(data, gain mat.Matrix, cfg Config) (*FixedResult, error) {
	cfg = normalizeConfig(cfg)

	nsens, ntimes := data.Dims()
	gsens, ncand := gain.Dims()

	if nsens == 0 || ntimes == 0 {
		return nil, ErrEmptyData
	}

	if gsens != nsens {
		return nil, ErrDimensionMismatch
	}

	if err := cfg.validate(ncand); err != nil {
		return nil, err
	}

	cov := Covariance(data)

	indices, err := greedyFixed(gain, cov, cfg)
	if err != nil {
		return nil, err
	}

	res := &FixedResult{Indices: indices}

	for sweep := 1; sweep <= cfg.MaxIter; sweep++ {
		prev := append([]int(nil), indices...)

		for src := range indices {
			held := activeColumns(gain, indices, src)

			p, err := projector(nsens, held)
			if err != nil {
				return nil, err
			}

			resid := sandwich(p, cov)

			best, _ := argmaxFixed(gain, resid, p, excludeSet(indices, src))
			if best < 0 {
				return nil, ErrDegenerateGain
			}

			indices[src] = best
		}

		res.Sweeps = sweep
		cfg.Trace.sweep(sweep, indices)

		if equalInts(prev, indices) {
			res.Converged = true
			break
		}
	}

	return res, nil
}

// greedyFixed performs the initialization phase: the first source is the
// best Rayleigh-quotient candidate against the raw covariance, then one
// source is appended at a time against the residual subspace.
func greedyFixed(gain mat.Matrix, cov *mat.Dense, cfg Config) ([]int, error) {
	nsens, _ := gain.Dims()

	indices := make([]int, 0, cfg.NSources)

	best, score := argmaxFixed(gain, cov, nil, nil)
	if best < 0 {
		return nil, ErrDegenerateGain
	}

	cfg.Trace.greedy(0, best, score)
	indices = append(indices, best)

	for len(indices) < cfg.NSources {
		p, err := projector(nsens, activeColumns(gain, indices, -1))
		if err != nil {
			return nil, err
		}

		resid := sandwich(p, cov)

		best, score := argmaxFixed(gain, resid, p, excludeSet(indices, -1))
		if best < 0 {
			return nil, ErrDegenerateGain
		}

		cfg.Trace.greedy(len(indices), best, score)
		indices = append(indices, best)
	}

	return indices, nil
}

// argmaxFixed scores every candidate column ℓ as ℓᵀ·num·ℓ / ℓᵀ·den·ℓ and
// returns the best index with its score. A nil den scores against ℓᵀℓ
// (the unprojected Rayleigh quotient). Candidates in exclude and candidates
// whose projected energy vanishes are skipped. Returns -1 when no candidate
// is scoreable.
func argmaxFixed(gain mat.Matrix, num, den *mat.Dense, exclude map[int]struct{}) (int, float64) {
	nsens, ncand := gain.Dims()

	best := -1
	bestScore := math.Inf(-1)

	buf := make([]float64, nsens)

	for j := 0; j < ncand; j++ {
		if _, skip := exclude[j]; skip {
			continue
		}

		mat.Col(buf, j, gain)
		col := mat.NewVecDense(nsens, buf)

		raw := mat.Dot(col, col)
		if raw <= 0 {
			continue
		}

		d := raw
		if den != nil {
			d = mat.Inner(col, den, col)
		}

		// A column inside the active span scores 0/0; skip it.
		if d <= denTol*raw {
			continue
		}

		s := mat.Inner(col, num, col) / d
		if s > bestScore {
			best = j
			bestScore = s
		}
	}

	return best, bestScore
}

// activeColumns gathers the topography columns of the active set into a
// sensors×k matrix, skipping position skipPos (-1 keeps all). Returns nil
// when no columns remain.
func activeColumns(gain mat.Matrix, indices []int, skipPos int) *mat.Dense {
	nsens, _ := gain.Dims()

	cols := make([]int, 0, len(indices))
	for pos, idx := range indices {
		if pos == skipPos {
			continue
		}

		cols = append(cols, idx)
	}

	if len(cols) == 0 {
		return nil
	}

	out := mat.NewDense(nsens, len(cols), nil)
	buf := make([]float64, nsens)

	for c, idx := range cols {
		mat.Col(buf, idx, gain)
		out.SetCol(c, buf)
	}

	return out
}

// excludeSet collects the active indices other than position skipPos, so a
// refinement rescan can never duplicate an index held elsewhere in the set.
func excludeSet(indices []int, skipPos int) map[int]struct{} {
	ex := make(map[int]struct{}, len(indices))
	for pos, idx := range indices {
		if pos == skipPos {
			continue
		}

		ex[idx] = struct{}{}
	}

	return ex
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
