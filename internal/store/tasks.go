package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"workplate/internal/models"
)

// ErrInvalidTask is returned when a task fails validation.
var ErrInvalidTask = errors.New("invalid task")

// TaskStore persists tasks in a single YAML file.
type TaskStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

type taskData struct {
	Tasks []*models.Task `yaml:"tasks"`
}

// NewTaskStore creates a task store backed by the YAML file at path.
func NewTaskStore(path string) *TaskStore {
	return &TaskStore{path: path, now: time.Now}
}

// List returns the tasks with the given status ordered by sort order. An
// empty status lists every task.
func (s *TaskStore) List(_ context.Context, status models.TaskStatus) ([]*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	var out []*models.Task
	for _, t := range data.Tasks {
		if status == "" || t.Status == status {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b *models.Task) int { return a.SortOrder - b.SortOrder })
	return out, nil
}

// Get retrieves a task by its ID.
func (s *TaskStore) Get(_ context.Context, id string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	_, t, err := find(data, id)
	return t, err
}

// Create adds a task at the end of its status bucket.
func (s *TaskStore) Create(_ context.Context, in models.CreateTaskInput) (*models.Task, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	if in.Status == "" {
		in.Status = models.TaskStatusPlate
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTask, in.Status)
	}
	if in.Priority == "" {
		in.Priority = models.PriorityP2
	}
	if in.Size == "" {
		in.Size = models.SizeM
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	task := &models.Task{
		ID:          ulid.Make().String(),
		Title:       in.Title,
		Description: in.Description,
		Blocking:    in.Blocking,
		Link:        in.Link,
		Priority:    in.Priority,
		Project:     in.Project,
		Size:        in.Size,
		Status:      in.Status,
		SortOrder:   nextSortOrder(data, in.Status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	data.Tasks = append(data.Tasks, task)
	if err := s.save(data); err != nil {
		return nil, err
	}
	return task, nil
}

// Update applies the non-nil fields of in to the task.
func (s *TaskStore) Update(_ context.Context, id string, in models.UpdateTaskInput) (*models.Task, error) {
	if in.Status != nil && !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTask, *in.Status)
	}
	if in.Title != nil && *in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidTask)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	_, t, err := find(data, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Blocking != nil {
		t.Blocking = *in.Blocking
	}
	if in.Link != nil {
		t.Link = *in.Link
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.Project != nil {
		t.Project = *in.Project
	}
	if in.Size != nil {
		t.Size = *in.Size
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.SortOrder != nil {
		t.SortOrder = *in.SortOrder
	}
	t.UpdatedAt = s.now().UTC()

	if err := s.save(data); err != nil {
		return nil, err
	}
	return t, nil
}

// MoveToStatus moves a task to another bucket at the end of it.
func (s *TaskStore) MoveToStatus(_ context.Context, id string, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTask, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	_, t, err := find(data, id)
	if err != nil {
		return nil, err
	}
	if t.Status != status {
		t.SortOrder = nextSortOrder(data, status)
		t.Status = status
	}
	t.UpdatedAt = s.now().UTC()

	if err := s.save(data); err != nil {
		return nil, err
	}
	return t, nil
}

// Reorder moves a task to position within its bucket and renumbers the
// bucket from zero.
func (s *TaskStore) Reorder(_ context.Context, id string, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	_, t, err := find(data, id)
	if err != nil {
		return err
	}

	var bucket []*models.Task
	for _, other := range data.Tasks {
		if other.Status == t.Status && other.ID != id {
			bucket = append(bucket, other)
		}
	}
	slices.SortStableFunc(bucket, func(a, b *models.Task) int { return a.SortOrder - b.SortOrder })
	position = min(max(position, 0), len(bucket))
	bucket = slices.Insert(bucket, position, t)

	now := s.now().UTC()
	for i, other := range bucket {
		if other.SortOrder != i {
			other.SortOrder = i
			other.UpdatedAt = now
		}
	}
	t.UpdatedAt = now
	return s.save(data)
}

// Delete removes a task by its ID.
func (s *TaskStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	i, _, err := find(data, id)
	if err != nil {
		return err
	}
	data.Tasks = slices.Delete(data.Tasks, i, i+1)
	return s.save(data)
}

func find(data *taskData, id string) (int, *models.Task, error) {
	for i, t := range data.Tasks {
		if t.ID == id {
			return i, t, nil
		}
	}
	return -1, nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
}

func nextSortOrder(data *taskData, status models.TaskStatus) int {
	next := 0
	for _, t := range data.Tasks {
		if t.Status == status && t.SortOrder >= next {
			next = t.SortOrder + 1
		}
	}
	return next
}

func (s *TaskStore) load() (*taskData, error) {
	var data taskData
	if err := readYAML(s.path, &data); err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	return &data, nil
}

func (s *TaskStore) save(data *taskData) error {
	if err := writeYAML(s.path, data); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	return nil
}
