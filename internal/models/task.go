package models

import "time"

type Priority string

const (
	PriorityP0 Priority = "P0"
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
)

type Size string

const (
	SizeS  Size = "S"
	SizeM  Size = "M"
	SizeL  Size = "L"
	SizeXL Size = "XL"
)

// TaskStatus is the bucket a task lives in.
type TaskStatus string

const (
	TaskStatusPlate   TaskStatus = "plate"
	TaskStatusBacklog TaskStatus = "backlog"
	TaskStatusDone    TaskStatus = "done"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPlate, TaskStatusBacklog, TaskStatusDone:
		return true
	}
	return false
}

// Task is a unit of work the user can put on their plate and assign to
// focus blocks. Focus blocks only ever reference a task by title.
type Task struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Blocking    bool       `json:"blocking" yaml:"blocking"`
	Link        string     `json:"link,omitempty" yaml:"link,omitempty"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	Project     string     `json:"project" yaml:"project"`
	Size        Size       `json:"size" yaml:"size"`
	Status      TaskStatus `json:"status" yaml:"status"`
	SortOrder   int        `json:"sortOrder" yaml:"sort_order"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" yaml:"updated_at"`
}

// CreateTaskInput holds the fields accepted when creating a task. Zero
// values fall back to the defaults (P2, M, plate).
type CreateTaskInput struct {
	Title       string
	Description string
	Blocking    bool
	Link        string
	Priority    Priority
	Project     string
	Size        Size
	Status      TaskStatus
}

// UpdateTaskInput holds optional field updates; nil fields are left as is.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Blocking    *bool
	Link        *string
	Priority    *Priority
	Project     *string
	Size        *Size
	Status      *TaskStatus
	SortOrder   *int
}
