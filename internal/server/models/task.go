package models

import "time"

// TaskStatus is the lifecycle state of a task. Any status may be assigned
// from any other status.
type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "OPEN"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Status      TaskStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskFilter narrows ListTasks. Zero values mean "no filter".
type TaskFilter struct {
	Status TaskStatus
	Search string
}
