package serror

import "fmt"

// SentinelError is an error that occurred within the validation engine itself,
// as opposed to a violation attributed to a player.
type SentinelError struct {
	Err string
}

// New creates a new SentinelError from the given format and arguments.
func New(format string, args ...any) *SentinelError {
	return &SentinelError{Err: fmt.Sprintf(format, args...)}
}

func (e *SentinelError) Error() string {
	return e.Err
}
