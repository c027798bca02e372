package dedupe

import "errors"

// Sentinel errors returned (wrapped) by the engine. Callers classify
// failures with errors.Is.
var (
	// ErrInvalidArgument reports a violated precondition. It is always
	// detected before any filesystem mutation.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrReadFailure reports an I/O error while stat-ing or hashing a file.
	ErrReadFailure = errors.New("read failure")

	// ErrUnsupportedAction reports an action kind the executor cannot apply.
	ErrUnsupportedAction = errors.New("unsupported action")

	// ErrDestinationConflict reports a planned destination that is already
	// taken, under the "fail" collision policy.
	ErrDestinationConflict = errors.New("destination conflict")
)
