package errors

import "errors"

// Sentinel errors for common error conditions
var (
	// Configuration errors
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrMissingRequired = errors.New("missing required field")
	ErrUnknownVariant  = errors.New("unknown variant")
	ErrInvalidPath     = errors.New("invalid path")

	// Location errors
	ErrLocationNotFound = errors.New("location not found")
	ErrNoLocations      = errors.New("no backup locations configured")

	// Action errors
	ErrSpawnFailed    = errors.New("failed to spawn command")
	ErrCommandFailed  = errors.New("command exited with failure")
	ErrCommandTimeout = errors.New("command timed out")

	// Daemon errors
	ErrDaemonNotRunning = errors.New("daemon not running")
	ErrSocketDisabled   = errors.New("control socket disabled")
	ErrHistoryDisabled  = errors.New("run history disabled")
)

// Is checks if the error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As checks if the error can be unwrapped to the target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
