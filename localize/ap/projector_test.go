package ap

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-localize/internal/testutil"
)

func TestProjectorIdentityWithoutActiveSet(t *testing.T) {
	p, err := projector(3, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.RequireMatNearlyEqual(t, p, identity(3), 0)
}

func TestProjectorAnnihilatesActiveColumns(t *testing.T) {
	active := mat.NewDense(4, 2, []float64{
		1, 1,
		0, 2,
		1, 0,
		0, -1,
	})

	p, err := projector(4, active)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.RequireSymmetric(t, p, 1e-12)

	// Idempotence: P·P = P.
	var pp mat.Dense
	pp.Mul(p, p)
	testutil.RequireMatNearlyEqual(t, &pp, p, 1e-10)

	// Every active column maps to zero.
	var out mat.Dense
	out.Mul(p, active)
	for i := 0; i < 4; i++ {
		for j := 0; j < 2; j++ {
			if math.Abs(out.At(i, j)) > 1e-10 {
				t.Fatalf("P·A element (%d,%d) = %v, want 0", i, j, out.At(i, j))
			}
		}
	}
}

func TestProjectorPreservesOrthogonalComplement(t *testing.T) {
	active := mat.NewDense(4, 1, []float64{1, 0, 0, 0})

	p, err := projector(4, active)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v := mat.NewVecDense(4, []float64{0, 1, -2, 3})

	var out mat.VecDense
	out.MulVec(p, v)

	testutil.RequireSliceNearlyEqual(t, out.RawVector().Data, v.RawVector().Data, 1e-12)
}

func TestProjectorToleratesDuplicateColumns(t *testing.T) {
	// Rank-deficient active set: the same column twice.
	active := mat.NewDense(3, 2, []float64{
		1, 1,
		2, 2,
		0, 0,
	})

	p, err := projector(3, active)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.RequireSymmetric(t, p, 1e-12)

	var out mat.Dense
	out.Mul(p, active)
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			if math.Abs(out.At(i, j)) > 1e-10 {
				t.Fatalf("P·A element (%d,%d) = %v, want 0", i, j, out.At(i, j))
			}
		}
	}
}

func TestPseudoInverseRecoversInverse(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{4, 0, 0, 2})

	inv, err := pseudoInverse(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := mat.NewDense(2, 2, []float64{0.25, 0, 0, 0.5})
	testutil.RequireMatNearlyEqual(t, inv, want, 1e-12)
}
