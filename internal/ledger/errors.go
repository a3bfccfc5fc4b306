package ledger

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below through errors.Is
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidEvent       = errors.New("invalid event")
	ErrInvariantViolation = errors.New("invariant violation")
)

// NotFoundError is returned when an undo or patch target does not exist
type NotFoundError struct {
	GameID  string
	EventID string
}

func (e *NotFoundError) Error() string {
	if e.EventID == "" {
		return fmt.Sprintf("game %s: no event to undo", e.GameID)
	}
	return fmt.Sprintf("game %s: event %s not found", e.GameID, e.EventID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvalidEventError rejects a malformed event or patch before it is stored
type InvalidEventError struct {
	EventType string
	Reason    string
}

func (e *InvalidEventError) Error() string {
	if e.EventType == "" {
		return "invalid event: " + e.Reason
	}
	return fmt.Sprintf("invalid %s event: %s", e.EventType, e.Reason)
}

func (e *InvalidEventError) Is(target error) bool { return target == ErrInvalidEvent }

// InvariantViolation rejects a change that would break the on-court rule
type InvariantViolation struct {
	TeamID string
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("team %s: %s", e.TeamID, e.Reason)
}

func (e *InvariantViolation) Is(target error) bool { return target == ErrInvariantViolation }

func invalid(t fmt.Stringer, format string, args ...interface{}) error {
	return &InvalidEventError{EventType: t.String(), Reason: fmt.Sprintf(format, args...)}
}
