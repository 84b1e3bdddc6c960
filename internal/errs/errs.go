// Package errs defines the sentinel error kinds enumerated in spec.md §7.
// Every operation that can fail wraps one of these with context via
// fmt.Errorf("...: %w", ErrX, ...), so callers can branch with errors.Is.
package errs

import "errors"

var (
	// Parameter system.
	ErrInvalidParameter   = errors.New("invalid parameter")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrMissingParameter   = errors.New("missing parameter")
	ErrDefaultEnforced    = errors.New("default enforced")

	// Batch layer.
	ErrBadBatchName = errors.New("bad batch name")
	ErrBatchNotFound = errors.New("batch not found")
	ErrInvalidRange  = errors.New("invalid time range")
	ErrNoData        = errors.New("no data")

	// STFFT / capture validation.
	ErrUnsupportedWindow   = errors.New("unsupported window")
	ErrInvalidWindowSize   = errors.New("invalid window size")
	ErrInvalidHop          = errors.New("invalid hop")
	ErrInvalidShape        = errors.New("invalid output shape")
	ErrNyquistViolation    = errors.New("nyquist violation")
	ErrSweepGeometryInvalid = errors.New("invalid sweep geometry")

	// Spectrogram operations.
	ErrJoinIncompatible = errors.New("incompatible spectrograms")
	ErrEmptyChop        = errors.New("empty chop")

	// Post-processing.
	ErrProcessing = errors.New("processing error")

	// Worker / job supervisor.
	ErrWorkerDied         = errors.New("worker died")
	ErrRestartLimitExceeded = errors.New("restart limit exceeded")

	// Receiver registry.
	ErrModeNotFound     = errors.New("mode not found")
	ErrReceiverNotFound = errors.New("receiver not found")
)
