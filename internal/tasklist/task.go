// Package tasklist holds the task-list state and the pure reducer that
// advances it. All state changes flow through Reduce; the Store serializes
// dispatch and owns the current value.
package tasklist

import "time"

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// List is an ordered task sequence, insertion order = display order.
// Values returned by Reduce must be treated as immutable; every transition
// that changes anything allocates a fresh backing array.
type List []Task
