package model

import "fmt"

// ValidationError rejects bad input (rating, item id, preset name, date)
// before any state is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StateCorruptionError marks a persisted state that could not be decoded.
// The affected item is rebuilt fresh; other items are unaffected.
type StateCorruptionError struct {
	Item string
	Err  error
}

func (e *StateCorruptionError) Error() string {
	if e.Item == "" {
		return fmt.Sprintf("corrupt schedule store: %v", e.Err)
	}
	return fmt.Sprintf("corrupt state for %q: %v", e.Item, e.Err)
}

func (e *StateCorruptionError) Unwrap() error { return e.Err }

// InsufficientDataError is the optimizer's non-fatal refusal when a
// data-sufficiency gate is not met.
type InsufficientDataError struct {
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return "insufficient data: " + e.Reason
}

// PersistenceError wraps a failed durable write. Writes are
// atomic-replace, so the prior on-disk state remains authoritative and
// the whole operation can be retried.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
