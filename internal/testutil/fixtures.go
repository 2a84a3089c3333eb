package testutil

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// OrthoGain returns a sensors×ncand dictionary whose columns are mutually
// orthonormal. Requires ncand ≤ sensors. Column j is the standard basis
// vector e_j, which keeps expected scores and amplitudes easy to derive by
// hand in tests.
func OrthoGain(sensors, ncand int) *mat.Dense {
	if ncand > sensors {
		panic("testutil: ncand exceeds sensors")
	}
	g := mat.NewDense(sensors, ncand, nil)
	for j := 0; j < ncand; j++ {
		g.Set(j, j, 1)
	}
	return g
}

// SineRow returns n samples of amplitude·sin(2π·freq·t/sampleRate).
func SineRow(n int, freq, amplitude, sampleRate float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	return out
}
