package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// TaskName identifies which generator produced a task and, through the
// sequence, which task follows it.
type TaskName string

// Task names in chain order.
const (
	TaskNameSum          TaskName = "simple_task"
	TaskNameSectorArea   TaskName = "sector_area"
	TaskNameFibonacci    TaskName = "fibonacci"
	TaskNameShortestWord TaskName = "last_task"
)

// sequence is the fixed order a client progresses through.
var sequence = [...]TaskName{
	TaskNameSum,
	TaskNameSectorArea,
	TaskNameFibonacci,
	TaskNameShortestWord,
}

// TaskIDLength is the number of random bytes behind a task ID (8 hex characters).
const TaskIDLength = 4

// Sequence returns a copy of the ordered task sequence.
func Sequence() []TaskName {
	out := make([]TaskName, len(sequence))
	copy(out, sequence[:])
	return out
}

// FirstTask returns the task every chain starts with.
func FirstTask() TaskName {
	return sequence[0]
}

// Position returns the zero-based index of the name in the sequence.
func (n TaskName) Position() (int, bool) {
	for i, name := range sequence {
		if name == n {
			return i, true
		}
	}
	return -1, false
}

// Next returns the successor of n. The boolean is false when n is the last
// task of the sequence or not part of it at all.
func (n TaskName) Next() (TaskName, bool) {
	pos, ok := n.Position()
	if !ok || pos+1 >= len(sequence) {
		return "", false
	}
	return sequence[pos+1], true
}

// Valid reports whether n is part of the sequence.
func (n TaskName) Valid() bool {
	_, ok := n.Position()
	return ok
}

// Task is a single quiz question instance with its canonical answer and expiry.
// Tasks are written once and never updated in place.
type Task struct {
	ID          string
	Name        TaskName
	Description string
	Parameters  Parameters
	Answer      string
	ExpiresAt   time.Time
}

// NewTask builds a task that expires ttl after now. The expiry is truncated
// to whole seconds, which is the resolution of the store.
func NewTask(
	id string,
	name TaskName,
	description string,
	params Parameters,
	answer string,
	now time.Time,
	ttl time.Duration,
) (*Task, error) {
	task := &Task{
		ID:          id,
		Name:        name,
		Description: description,
		Parameters:  params,
		Answer:      answer,
		ExpiresAt:   time.Unix(now.Unix(), 0).Add(ttl.Truncate(time.Second)).UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == "" {
		return ErrEmptyTaskID
	}

	if !t.Name.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTaskName, t.Name)
	}

	if t.Description == "" {
		return ErrEmptyTaskDescription
	}

	if t.Answer == "" {
		return ErrEmptyTaskAnswer
	}

	if t.ExpiresAt.IsZero() {
		return ErrMissingExpiry
	}

	return nil
}

// IsLive reports whether the task is still visible at now.
func (t *Task) IsLive(now time.Time) bool {
	return t.ExpiresAt.After(now)
}

// RemainingTTL returns the whole seconds left before the task expires.
func (t *Task) RemainingTTL(now time.Time) time.Duration {
	return time.Duration(t.ExpiresAt.Unix()-now.Unix()) * time.Second
}

// CheckAnswer compares a submission to the canonical answer using exact
// string equality.
func (t *Task) CheckAnswer(answer string) bool {
	return t.Answer == answer
}

// NewTaskID returns a fresh random 8 character hex identifier.
func NewTaskID() (string, error) {
	b := make([]byte, TaskIDLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate task ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}
