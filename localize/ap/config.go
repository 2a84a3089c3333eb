package ap

// Config holds the estimation parameters shared by both estimators.
type Config struct {
	// NSources is the number of sources to estimate. Must be at least 1 and
	// no larger than the number of candidates in the dictionary.
	NSources int

	// MaxIter caps the number of refinement sweeps. Zero disables refinement
	// and returns the greedy initialization result unchanged. Negative values
	// are treated as zero.
	MaxIter int

	// Trace receives optional progress callbacks. Nil disables tracing.
	Trace *Trace
}

// Trace carries diagnostic callbacks invoked during estimation.
// Any hook may be nil; Trace itself may be nil.
type Trace struct {
	// OnGreedy fires after each greedy selection with the zero-based step,
	// the chosen candidate index and its score.
	OnGreedy func(step, candidate int, score float64)

	// OnSweep fires after each completed refinement sweep with the one-based
	// sweep number and a copy of the active set it produced.
	OnSweep func(sweep int, indices []int)
}

func (t *Trace) greedy(step, candidate int, score float64) {
	if t != nil && t.OnGreedy != nil {
		t.OnGreedy(step, candidate, score)
	}
}

func (t *Trace) sweep(sweep int, indices []int) {
	if t != nil && t.OnSweep != nil {
		t.OnSweep(sweep, append([]int(nil), indices...))
	}
}

func normalizeConfig(cfg Config) Config {
	if cfg.MaxIter < 0 {
		cfg.MaxIter = 0
	}

	return cfg
}

func (cfg Config) validate(ncandidates int) error {
	if cfg.NSources < 1 {
		return ErrTooFewSources
	}

	if cfg.NSources > ncandidates {
		return ErrTooManySources
	}

	return nil
}
