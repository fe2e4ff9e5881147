package domain

import "errors"

var (
	// ErrInvalidTimeSpec marks unparseable or past time expressions.
	ErrInvalidTimeSpec = errors.New("invalid time spec")

	// ErrTaskNotFound is returned when an operation references an unknown task id.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidTransition is returned when a mutation targets a task that is
	// already in a terminal state.
	ErrInvalidTransition = errors.New("task is already in a terminal state")

	// ErrUnknownAlias is returned when a pod alias has no registered pod id.
	ErrUnknownAlias = errors.New("unknown host alias")

	// ErrUnsupportedPlatform is returned by the trigger installer on platforms
	// without an OS scheduler integration. Callers surface it as a warning and
	// keep the scheduled task; the user must run ticks via their own scheduler.
	ErrUnsupportedPlatform = errors.New("no scheduler integration for this platform")
)
