package testutil

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMaxAbsDiff(t *testing.T) {
	d, err := MaxAbsDiff([]float64{1, 2, 3}, []float64{1, 2.5, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 1 {
		t.Fatalf("got %v, want 1", d)
	}
}

func TestMaxAbsDiffLengthMismatch(t *testing.T) {
	if _, err := MaxAbsDiff([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}

func TestRequireMatNearlyEqualPasses(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	b := mat.NewDense(2, 2, []float64{1, 2, 3, 4 + 1e-12})
	RequireMatNearlyEqual(t, a, b, 1e-9)
}

func TestRequireSymmetricPasses(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 0.5, 0.5, 2})
	RequireSymmetric(t, m, 0)
}

func TestOrthoGainColumnsOrthonormal(t *testing.T) {
	g := OrthoGain(6, 4)

	var gram mat.Dense
	gram.Mul(g.T(), g)

	want := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		want.Set(i, i, 1)
	}

	RequireMatNearlyEqual(t, &gram, want, 1e-15)
}
