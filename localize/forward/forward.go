package forward

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNilGain reports a missing gain matrix.
	ErrNilGain = errors.New("forward: nil gain matrix")

	// ErrGainShape reports a free-orientation gain whose column count is not
	// a multiple of three.
	ErrGainShape = errors.New("forward: free-orientation gain must hold three columns per candidate")

	// ErrGeometryMismatch reports position or orientation slices whose length
	// does not match the candidate count.
	ErrGeometryMismatch = errors.New("forward: geometry length does not match candidate count")

	// ErrNotFree reports a fixed-orientation model where a free-orientation
	// one is required.
	ErrNotFree = errors.New("forward: model is not free-orientation")

	// ErrNoOrientations reports a conversion that needs reference
	// orientations the model does not carry.
	ErrNoOrientations = errors.New("forward: model carries no reference orientations")
)

// Mode selects the dictionary layout of a Model.
type Mode int

const (
	// Fixed marks one topography column per candidate, oriented along the
	// candidate's reference orientation.
	Fixed Mode = iota

	// Free marks three orthogonal direction columns per candidate.
	Free
)

// Model is an immutable gain dictionary with candidate geometry. Callers
// must not mutate the gain matrix or geometry slices after construction.
type Model struct {
	mode Mode
	gain *mat.Dense
	pos  [][3]float64
	ori  [][3]float64
}

// NewFixed builds a fixed-orientation model. gain is sensors×ncandidates,
// pos and ori hold one position and one unit orientation per candidate.
func NewFixed(gain *mat.Dense, pos, ori [][3]float64) (*Model, error) {
	if gain == nil {
		return nil, ErrNilGain
	}

	_, ncand := gain.Dims()
	if len(pos) != ncand || len(ori) != ncand {
		return nil, ErrGeometryMismatch
	}

	return &Model{mode: Fixed, gain: gain, pos: pos, ori: ori}, nil
}

// NewFree builds a free-orientation model. gain is sensors×3·ncandidates
// with three orthogonal direction columns per candidate. ori optionally
// supplies per-candidate reference orientations (surface normals) used for
// sign alignment and for collapsing to a fixed model; it may be nil.
func NewFree(gain *mat.Dense, pos, ori [][3]float64) (*Model, error) {
	if gain == nil {
		return nil, ErrNilGain
	}

	_, gcols := gain.Dims()
	if gcols%3 != 0 {
		return nil, ErrGainShape
	}

	ncand := gcols / 3
	if len(pos) != ncand {
		return nil, ErrGeometryMismatch
	}

	if ori != nil && len(ori) != ncand {
		return nil, ErrGeometryMismatch
	}

	return &Model{mode: Free, gain: gain, pos: pos, ori: ori}, nil
}

// Mode returns the dictionary layout.
func (m *Model) Mode() Mode { return m.mode }

// Sensors returns the sensor count (gain row count).
func (m *Model) Sensors() int {
	n, _ := m.gain.Dims()
	return n
}

// Candidates returns the number of candidate locations.
func (m *Model) Candidates() int {
	_, c := m.gain.Dims()
	if m.mode == Free {
		return c / 3
	}

	return c
}

// Gain returns the dictionary matrix. Treat it as read-only.
func (m *Model) Gain() *mat.Dense { return m.gain }

// Position returns the location of candidate i.
func (m *Model) Position(i int) [3]float64 { return m.pos[i] }

// Orientation returns the reference orientation of candidate i and whether
// the model carries one.
func (m *Model) Orientation(i int) ([3]float64, bool) {
	if m.ori == nil {
		return [3]float64{}, false
	}

	return m.ori[i], true
}

// Triplet returns the sensors×3 direction-column block of candidate i.
// Only valid for free-orientation models.
func (m *Model) Triplet(i int) mat.Matrix {
	n, _ := m.gain.Dims()
	return m.gain.Slice(0, n, 3*i, 3*i+3)
}

// Collapse converts a free-orientation model to a fixed-orientation one by
// projecting each candidate's triplet onto its reference orientation.
func (m *Model) Collapse() (*Model, error) {
	if m.mode != Free {
		return nil, ErrNotFree
	}

	if m.ori == nil {
		return nil, ErrNoOrientations
	}

	nsens := m.Sensors()
	ncand := m.Candidates()

	gain := mat.NewDense(nsens, ncand, nil)

	var col mat.VecDense

	for i := 0; i < ncand; i++ {
		ori := m.ori[i]
		col.MulVec(m.Triplet(i), mat.NewVecDense(3, ori[:]))
		gain.SetCol(i, col.RawVector().Data)
	}

	return &Model{mode: Fixed, gain: gain, pos: m.pos, ori: m.ori}, nil
}
