package localize

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrSampleRate reports a band-pass request without a positive sample
	// rate on the recording.
	ErrSampleRate = errors.New("localize: band-pass requires a positive sample rate")

	// ErrBandRange reports a pass band with High ≤ Low or a negative edge.
	ErrBandRange = errors.New("localize: invalid band-pass range")
)

// bandpass applies a brick-wall FFT band-pass to every sensor row. Rows are
// zero-padded to a power of two, bins outside [band.Low, band.High] are
// zeroed symmetrically, and the first len samples of the inverse transform
// are kept.
func bandpass(data *mat.Dense, sampleRate float64, band Band) (*mat.Dense, error) {
	if sampleRate <= 0 {
		return nil, ErrSampleRate
	}

	if band.Low < 0 || band.High <= band.Low {
		return nil, ErrBandRange
	}

	nsens, ntimes := data.Dims()

	size := nextPowerOf2(ntimes)

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("localize: fft plan: %w", err)
	}

	out := mat.NewDense(nsens, ntimes, nil)
	buf := make([]complex128, size)

	binHz := sampleRate / float64(size)

	for i := 0; i < nsens; i++ {
		row := data.RawRowView(i)

		for j := range buf {
			buf[j] = 0
		}

		for j, v := range row {
			buf[j] = complex(v, 0)
		}

		if err := plan.Forward(buf, buf); err != nil {
			return nil, fmt.Errorf("localize: forward FFT failed: %w", err)
		}

		for j := 0; j <= size/2; j++ {
			f := float64(j) * binHz
			if f >= band.Low && f <= band.High {
				continue
			}

			buf[j] = 0
			if j > 0 && j < size/2 {
				buf[size-j] = 0
			}
		}

		if err := plan.Inverse(buf, buf); err != nil {
			return nil, fmt.Errorf("localize: inverse FFT failed: %w", err)
		}

		for j := 0; j < ntimes; j++ {
			out.Set(i, j, real(buf[j]))
		}
	}

	return out, nil
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
