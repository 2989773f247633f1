package core

import "fmt"

// ValidationError is returned when user input is rejected. Notice is the
// text presenters show to the user; the store is never mutated when a
// ValidationError is returned.
type ValidationError struct {
	Field  string
	Notice string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Notice
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Notice)
}

// SnapshotError reports a persisted snapshot that could not be decoded.
type SnapshotError struct {
	Path   string
	Reason string
	Err    error
}

func (e *SnapshotError) Error() string {
	msg := "malformed task snapshot"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *SnapshotError) Unwrap() error {
	return e.Err
}
