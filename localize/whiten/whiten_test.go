package whiten

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-localize/internal/testutil"
)

func TestIdentityPassesDataThrough(t *testing.T) {
	wh := Identity(3)

	if wh.Dim() != 3 || wh.Rank() != 3 {
		t.Fatalf("dim=%d rank=%d, want 3 and 3", wh.Dim(), wh.Rank())
	}

	x := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})

	testutil.RequireMatNearlyEqual(t, wh.Apply(x), x, 0)
}

func TestFromNoiseCovWhitensDiagonalCovariance(t *testing.T) {
	cov := mat.NewSymDense(3, []float64{
		4, 0, 0,
		0, 9, 0,
		0, 0, 1,
	})

	wh, err := FromNoiseCov(cov, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if wh.Rank() != 3 {
		t.Fatalf("rank = %d, want 3", wh.Rank())
	}

	// W·C·Wᵀ must be the identity on the retained subspace.
	var wc, out mat.Dense
	wc.Mul(wh.Matrix(), cov)
	out.Mul(&wc, wh.Matrix().T())

	testutil.RequireMatNearlyEqual(t, &out, identityDense(3), 1e-10)
}

func TestFromNoiseCovTruncatesRank(t *testing.T) {
	// Rank-2 covariance: the null direction must be projected out.
	cov := mat.NewSymDense(3, []float64{
		2, 0, 0,
		0, 5, 0,
		0, 0, 0,
	})

	wh, err := FromNoiseCov(cov, 1e-12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if wh.Rank() != 2 {
		t.Fatalf("rank = %d, want 2", wh.Rank())
	}

	// The last row of the transform is zero.
	for j := 0; j < 3; j++ {
		if math.Abs(wh.Matrix().At(2, j)) > 1e-12 {
			t.Fatalf("row beyond rank is not zero: %v", mat.Formatted(wh.Matrix()))
		}
	}

	var wc, out mat.Dense
	wc.Mul(wh.Matrix(), cov)
	out.Mul(&wc, wh.Matrix().T())

	for i := 0; i < 2; i++ {
		testutil.RequireNear(t, out.At(i, i), 1, 1e-10)
	}
}

func TestFromNoiseCovRejectsNegativeSpectrum(t *testing.T) {
	cov := mat.NewSymDense(2, []float64{
		1, 0,
		0, -1,
	})

	if _, err := FromNoiseCov(cov, 0); !errors.Is(err, ErrNotPSD) {
		t.Fatalf("got error %v, want ErrNotPSD", err)
	}
}

func TestNewRejectsNonSquare(t *testing.T) {
	if _, err := New(mat.NewDense(2, 3, nil)); !errors.Is(err, ErrNotSquare) {
		t.Fatalf("got error %v, want ErrNotSquare", err)
	}

	if _, err := New(nil); !errors.Is(err, ErrNilTransform) {
		t.Fatalf("got error %v, want ErrNilTransform", err)
	}
}

func identityDense(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}

	return m
}
