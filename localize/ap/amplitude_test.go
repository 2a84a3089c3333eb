package ap

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-localize/internal/testutil"
)

func TestSolveAmplitudesExactFit(t *testing.T) {
	dict := testutil.OrthoGain(4, 2)

	// data = 3·ℓ0 + (-2)·ℓ1, constant over three samples.
	data := mat.NewDense(4, 3, nil)
	data.SetRow(0, []float64{3, 3, 3})
	data.SetRow(1, []float64{-2, -2, -2})

	amp, err := SolveAmplitudes(dict, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, amp.RawRowView(0), []float64{3, 3, 3}, 1e-10)
	testutil.RequireSliceNearlyEqual(t, amp.RawRowView(1), []float64{-2, -2, -2}, 1e-10)
}

func TestSolveAmplitudesWithEstimatedActiveSet(t *testing.T) {
	// Two orthogonal candidates, data = 3·ℓ0: the fitted amplitude must be
	// ≈3 for the planted source and ≈0 for the other selected one.
	gain := testutil.OrthoGain(4, 2)

	data := mat.NewDense(4, 2, nil)
	data.SetRow(0, []float64{3, 3})

	res, err := EstimateFixed(data, gain, Config{NSources: 2, MaxIter: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Indices[0] != 0 {
		t.Fatalf("indices = %v, want candidate 0 first", res.Indices)
	}

	dict := activeColumns(gain, res.Indices, -1)

	amp, err := SolveAmplitudes(dict, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, amp.RawRowView(0), []float64{3, 3}, 1e-10)
	testutil.RequireSliceNearlyEqual(t, amp.RawRowView(1), []float64{0, 0}, 1e-10)
}

func TestSolveAmplitudesRankDeficientDictionary(t *testing.T) {
	// The same column twice: QR cannot invert, the SVD fallback must still
	// reproduce the data.
	dict := mat.NewDense(3, 2, []float64{
		1, 1,
		2, 2,
		0, 0,
	})

	data := mat.NewDense(3, 2, []float64{
		2, 4,
		4, 8,
		0, 0,
	})

	amp, err := SolveAmplitudes(dict, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.RequireFinite(t, amp.RawRowView(0))
	testutil.RequireFinite(t, amp.RawRowView(1))

	var rec mat.Dense
	rec.Mul(dict, amp)
	testutil.RequireMatNearlyEqual(t, &rec, data, 1e-9)
}

func TestSolveAmplitudesDimensionMismatch(t *testing.T) {
	dict := testutil.OrthoGain(4, 2)
	data := mat.NewDense(3, 2, nil)
	data.SetRow(0, []float64{1, 1})

	if _, err := SolveAmplitudes(dict, data); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("got error %v, want ErrDimensionMismatch", err)
	}
}
