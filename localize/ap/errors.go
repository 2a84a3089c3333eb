package ap

import "errors"

var (
	// ErrTooFewSources reports a source count below one.
	ErrTooFewSources = errors.New("ap: nsources must be at least 1")

	// ErrTooManySources reports a source count exceeding the dictionary size.
	ErrTooManySources = errors.New("ap: nsources exceeds the number of candidates")

	// ErrEmptyData reports a data matrix with no sensors or no samples.
	ErrEmptyData = errors.New("ap: empty data matrix")

	// ErrDimensionMismatch reports differing sensor counts between the gain
	// dictionary and the data matrix.
	ErrDimensionMismatch = errors.New("ap: sensor count mismatch between gain and data")

	// ErrGainShape reports a free-orientation gain matrix whose column count
	// is not a multiple of three.
	ErrGainShape = errors.New("ap: free-orientation gain must hold three columns per candidate")

	// ErrDegenerateGain reports a dictionary with no usable candidate column.
	ErrDegenerateGain = errors.New("ap: gain matrix has no usable candidate columns")

	// ErrEigenFailed reports a generalized eigendecomposition that did not
	// produce an acceptable real eigenpair.
	ErrEigenFailed = errors.New("ap: generalized eigendecomposition failed")

	// ErrDecompositionFailed reports a matrix decomposition that did not
	// converge.
	ErrDecompositionFailed = errors.New("ap: matrix decomposition did not converge")
)
