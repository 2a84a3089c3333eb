package localize

import "gonum.org/v1/gonum/mat"

// Recording is a sensor-by-time sample matrix with minimal acquisition
// metadata. It is the unit the orchestrator consumes and produces.
type Recording struct {
	// Data is the sensors×times sample matrix.
	Data *mat.Dense

	// SampleRate is in samples per second. Required by the band-pass option;
	// otherwise informational.
	SampleRate float64

	// Channels optionally names the sensor rows.
	Channels []string
}

// withData returns a copy of the recording metadata around a new data
// matrix. Channel names are copied so the recordings stay independent.
func (r *Recording) withData(data *mat.Dense) *Recording {
	return &Recording{
		Data:       data,
		SampleRate: r.SampleRate,
		Channels:   append([]string(nil), r.Channels...),
	}
}
