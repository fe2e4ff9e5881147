package domain

import "time"

type TaskState string

const (
	StatePending   TaskState = "pending"
	StateCompleted TaskState = "completed"
	StateFailed    TaskState = "failed"
	StateCancelled TaskState = "cancelled"
)

// Terminal reports whether no further transitions are allowed from s.
func (s TaskState) Terminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateCancelled:
		return true
	}
	return false
}

type Action string

const ActionStop Action = "stop"

// Task is a single scheduled future action against one pod.
// Instants are stored in UTC; DueAt is fixed at creation and never changes.
type Task struct {
	ID        string    `json:"-"`
	Target    string    `json:"target"`
	Action    Action    `json:"action"`
	DueAt     time.Time `json:"due_at"`
	State     TaskState `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	Result    string    `json:"result,omitempty"`
}

// Due reports whether the task should be picked up by a tick running at now.
func (t Task) Due(now time.Time) bool {
	return t.State == StatePending && !t.DueAt.After(now)
}
