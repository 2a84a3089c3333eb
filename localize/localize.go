package localize

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-localize/localize/ap"
	"github.com/cwbudde/algo-localize/localize/forward"
	"github.com/cwbudde/algo-localize/localize/whiten"
)

var (
	// ErrNoData reports a nil or empty recording.
	ErrNoData = errors.New("localize: recording has no data")

	// ErrNilModel reports a missing forward model.
	ErrNilModel = errors.New("localize: nil forward model")

	// ErrSensorMismatch reports differing sensor counts between recording,
	// model and whitener.
	ErrSensorMismatch = errors.New("localize: sensor counts of recording, model and whitener differ")
)

// Band is an inclusive pass band in hertz for the optional prefilter.
type Band struct {
	Low  float64
	High float64
}

// Config holds the orchestration parameters.
type Config struct {
	// NSources is the number of sources to estimate.
	NSources int

	// MaxIter caps the number of refinement sweeps; zero keeps the greedy
	// initialization result.
	MaxIter int

	// Band optionally band-pass filters the recording before whitening.
	// Requires Recording.SampleRate to be set.
	Band *Band

	// Trace receives the estimator's progress callbacks. May be nil.
	Trace *ap.Trace
}

// Localize estimates cfg.NSources point sources explaining the recording.
//
// The recording is optionally band-pass filtered, then data and dictionary
// are whitened with wh (nil selects the identity whitener) and handed to the
// estimator matching the model's orientation mode. Amplitudes are fitted by
// least squares against the finalized dictionary columns; explained and
// residual recordings are reported in the original sensor space.
func Localize(rec *Recording, model *forward.Model, wh *whiten.Whitener, cfg Config) (*Result, error) {
	if rec == nil || rec.Data == nil {
		return nil, ErrNoData
	}

	nsens, ntimes := rec.Data.Dims()
	if nsens == 0 || ntimes == 0 {
		return nil, ErrNoData
	}

	if model == nil {
		return nil, ErrNilModel
	}

	if wh == nil {
		wh = whiten.Identity(nsens)
	}

	if model.Sensors() != nsens || wh.Dim() != nsens {
		return nil, ErrSensorMismatch
	}

	data := rec.Data

	if cfg.Band != nil {
		filtered, err := bandpass(data, rec.SampleRate, *cfg.Band)
		if err != nil {
			return nil, err
		}

		data = filtered
	}

	whData := wh.Apply(data)
	whGain := wh.Apply(model.Gain())

	apCfg := ap.Config{NSources: cfg.NSources, MaxIter: cfg.MaxIter, Trace: cfg.Trace}

	var (
		indices   []int
		oris      [][3]float64
		whDict    *mat.Dense
		sweeps    int
		converged bool
	)

	switch model.Mode() {
	case forward.Free:
		res, err := ap.EstimateFree(whData, whGain, apCfg)
		if err != nil {
			return nil, fmt.Errorf("localize: %w", err)
		}

		indices = res.Indices
		oris = res.Orientations
		whDict = res.OrientedGain
		sweeps = res.Sweeps
		converged = res.Converged

	default:
		res, err := ap.EstimateFixed(whData, whGain, apCfg)
		if err != nil {
			return nil, fmt.Errorf("localize: %w", err)
		}

		indices = res.Indices
		sweeps = res.Sweeps
		converged = res.Converged

		oris = make([][3]float64, len(indices))
		for i, idx := range indices {
			if o, ok := model.Orientation(idx); ok {
				oris[i] = o
			}
		}

		whDict = selectColumns(whGain, indices)
	}

	amp, err := ap.SolveAmplitudes(whDict, whData)
	if err != nil {
		return nil, fmt.Errorf("localize: %w", err)
	}

	if model.Mode() == forward.Free {
		alignSigns(model, indices, oris, amp)
	}

	rawDict := rawOriented(model, indices, oris)

	var explained mat.Dense
	explained.Mul(rawDict, amp)

	varExp := varianceExplained(whData, wh.Apply(&explained))

	var residual mat.Dense
	residual.Sub(rec.Data, &explained)

	dipoles := make([]Dipole, len(indices))

	for i, idx := range indices {
		row := amp.RawRowView(i)

		wf := mat.NewDense(3, ntimes, nil)
		for d := 0; d < 3; d++ {
			vecmath.ScaleBlock(wf.RawRowView(d), row, oris[i][d])
		}

		dipoles[i] = Dipole{
			Candidate:   idx,
			Position:    model.Position(idx),
			Orientation: oris[i],
			Amplitude:   append([]float64(nil), row...),
			Waveform:    wf,
		}
	}

	return &Result{
		Dipoles:      dipoles,
		Indices:      indices,
		VarExplained: varExp,
		Sweeps:       sweeps,
		Converged:    converged,
		Explained:    rec.withData(&explained),
		Residual:     rec.withData(&residual),
	}, nil
}

// alignSigns flips each estimated orientation (and its amplitude row) to
// agree with the model's reference orientation. The oriented-column times
// amplitude product is invariant under the joint flip.
func alignSigns(model *forward.Model, indices []int, oris [][3]float64, amp *mat.Dense) {
	for i, idx := range indices {
		ref, ok := model.Orientation(idx)
		if !ok {
			continue
		}

		if dot3(oris[i], ref) >= 0 {
			continue
		}

		for d := range oris[i] {
			oris[i][d] = -oris[i][d]
		}

		row := amp.RawRowView(i)
		vecmath.ScaleBlock(row, row, -1)
	}
}

// rawOriented builds the unwhitened dictionary of the active set: one
// oriented topography column per source, in the original sensor space.
func rawOriented(model *forward.Model, indices []int, oris [][3]float64) *mat.Dense {
	nsens := model.Sensors()
	out := mat.NewDense(nsens, len(indices), nil)

	switch model.Mode() {
	case forward.Free:
		var col mat.VecDense

		for i, idx := range indices {
			ori := oris[i]
			col.MulVec(model.Triplet(idx), mat.NewVecDense(3, ori[:]))
			out.SetCol(i, col.RawVector().Data)
		}

	default:
		buf := make([]float64, nsens)

		for i, idx := range indices {
			mat.Col(buf, idx, model.Gain())
			out.SetCol(i, buf)
		}
	}

	return out
}

func selectColumns(gain *mat.Dense, indices []int) *mat.Dense {
	n, _ := gain.Dims()

	out := mat.NewDense(n, len(indices), nil)
	buf := make([]float64, n)

	for i, idx := range indices {
		mat.Col(buf, idx, gain)
		out.SetCol(i, buf)
	}

	return out
}

// varianceExplained is 1 − ‖data − estimate‖²_F / ‖data‖²_F.
func varianceExplained(data, estimate *mat.Dense) float64 {
	var diff mat.Dense
	diff.Sub(data, estimate)

	den := mat.Norm(data, 2)
	if den == 0 {
		return 0
	}

	num := mat.Norm(&diff, 2)

	return 1 - (num*num)/(den*den)
}

func dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}
