package model

import "time"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
)

// Task is a to-do item owned by the conversation store.
type Task struct {
	ID          int64
	Text        string
	Status      TaskStatus
	DueDate     *time.Time
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Reminder is a scheduled notification owned by the conversation store.
// Time may be nil: the fallback resolver records reminders without parsing
// a timestamp out of the utterance.
type Reminder struct {
	ID        int64
	Text      string
	Time      *time.Time
	Triggered bool
	CreatedAt time.Time
}

// ActivityEntry is one line of the audit trail. Mutating capability
// handlers append their own entries; the store never synthesizes them.
type ActivityEntry struct {
	ID         int64
	ActionType string
	Details    map[string]any
	Timestamp  time.Time
}
