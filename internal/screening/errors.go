package screening

import "errors"

var (
	// ErrInvalidInput rejects a batch before any processing.
	ErrInvalidInput = errors.New("invalid screening input")

	// ErrBatchFailed marks a batch that produced no verdicts. It wraps the cause.
	ErrBatchFailed = errors.New("screening batch failed")

	// ErrUnparseableResponse means the generator's text held no usable JSON.
	ErrUnparseableResponse = errors.New("unparseable synthesis response")

	// ErrVerdictCountMismatch means the generator returned a different number
	// of verdicts than bundles sent.
	ErrVerdictCountMismatch = errors.New("verdict count does not match bundle count")
)
