package ap

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// benchGain fills a deterministic dense dictionary with smoothly varying
// topographies so no column is degenerate.
func benchGain(sensors, cols int) *mat.Dense {
	g := mat.NewDense(sensors, cols, nil)
	for i := 0; i < sensors; i++ {
		for j := 0; j < cols; j++ {
			g.Set(i, j, math.Sin(float64(1+i*cols+j))+0.1)
		}
	}

	return g
}

func benchData(sensors, times int) *mat.Dense {
	d := mat.NewDense(sensors, times, nil)
	for i := 0; i < sensors; i++ {
		for j := 0; j < times; j++ {
			d.Set(i, j, math.Cos(float64(i+1)*float64(j+1)*0.1))
		}
	}

	return d
}

func BenchmarkEstimateFixed(b *testing.B) {
	sizes := []struct {
		name       string
		sensors    int
		candidates int
	}{
		{"16x64", 16, 64},
		{"32x256", 32, 256},
	}

	for _, testCase := range sizes {
		b.Run(testCase.name, func(b *testing.B) {
			gain := benchGain(testCase.sensors, testCase.candidates)
			data := benchData(testCase.sensors, 50)
			cfg := Config{NSources: 3, MaxIter: 3}

			b.ResetTimer()

			for range b.N {
				if _, err := EstimateFixed(data, gain, cfg); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkEstimateFree(b *testing.B) {
	sizes := []struct {
		name       string
		sensors    int
		candidates int
	}{
		{"16x32", 16, 32},
		{"32x64", 32, 64},
	}

	for _, testCase := range sizes {
		b.Run(testCase.name, func(b *testing.B) {
			gain := benchGain(testCase.sensors, 3*testCase.candidates)
			data := benchData(testCase.sensors, 50)
			cfg := Config{NSources: 2, MaxIter: 2}

			b.ResetTimer()

			for range b.N {
				if _, err := EstimateFree(data, gain, cfg); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
