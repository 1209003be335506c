package sim

import (
	"errors"
	"fmt"
)

// Domain errors. Every failure returned by this package wraps one of these,
// so callers can classify with errors.Is.
var (
	// ErrConfig indicates a setup mistake: an empty feed schedule, a
	// non-positive fish count or mass, or a growth curve whose horizon does
	// not match the simulation timeline.
	ErrConfig = errors.New("feedsim: configuration error")

	// ErrBounds indicates a window that would advance the feeder cursor past
	// the last index of the precomputed growth curve.
	ErrBounds = errors.New("feedsim: growth curve bounds exceeded")
)

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConfig}, args...)...)
}

func boundsErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrBounds}, args...)...)
}

// StepError wraps a failure raised while stepping one global window.
type StepError struct {
	Step   int     // global step index
	Clock  float64 // hours since simulation start at window start
	Status Status  // status requested by the controller
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4g hr, status=%s): %v", e.Step, e.Clock, e.Status, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
