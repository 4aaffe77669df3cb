// Package core contains the business logic for lumina: the task store's
// pure collection operations and configuration loading.
package core

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/drapaimern/lumina/pkg/models"
)

// ErrEmptyTitle is returned when a create or edit would leave a task
// without a title.
var ErrEmptyTitle = errors.New("task title must not be empty")

// Patch describes a partial update to a task. Nil fields are left
// untouched. ID and CreatedAt are not patchable.
type Patch struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
}

// Every operation below is a pure transformation: the input slice is never
// mutated and callers receive a fresh collection. Operations addressing an
// absent ID return the collection unchanged.

// Create validates the title, assigns a fresh ID and creation timestamp,
// and prepends the new task to the collection. The returned task has
// status Pending and no tags.
func Create(tasks []models.Task, title, description string) ([]models.Task, models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return tasks, models.Task{}, ErrEmptyTitle
	}

	task := models.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Status:      models.StatusPending,
		CreatedAt:   time.Now().UnixMilli(),
		Tags:        []string{},
	}

	out := make([]models.Task, 0, len(tasks)+1)
	out = append(out, task)
	out = append(out, tasks...)
	return out, task, nil
}

// Update merges the non-nil fields of patch into the task with the given
// ID. A title patch that trims to empty is ignored so the non-empty-title
// invariant holds at this single choke point.
func Update(tasks []models.Task, id string, patch Patch) []models.Task {
	out := clone(tasks)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
			out[i].Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Description != nil {
			out[i].Description = *patch.Description
		}
		if patch.Status != nil {
			out[i].Status = *patch.Status
		}
		break
	}
	return out
}

// Edit replaces the title and description of the task with the given ID,
// as dispatched when the edit form closes. Returns ErrEmptyTitle when the
// trimmed title is empty; editing an absent ID succeeds as a no-op.
func Edit(tasks []models.Task, id, title, description string) ([]models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return tasks, ErrEmptyTitle
	}
	return Update(tasks, id, Patch{Title: &title, Description: &description}), nil
}

// Toggle flips the task's status between Pending and Completed.
func Toggle(tasks []models.Task, id string) []models.Task {
	out := clone(tasks)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		if out[i].Status == models.StatusCompleted {
			out[i].Status = models.StatusPending
		} else {
			out[i].Status = models.StatusCompleted
		}
		break
	}
	return out
}

// Delete removes the task with the given ID. There is no tombstone; the
// record is gone.
func Delete(tasks []models.Task, id string) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// Find returns the task with the given ID, or false when absent.
func Find(tasks []models.Task, id string) (models.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// Sorted returns the collection ordered by CreatedAt descending (newest
// first), independent of storage order. Ties preserve their relative
// order.
func Sorted(tasks []models.Task) []models.Task {
	out := clone(tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}

// Select applies the status filter, preserving order. It is meant to run
// after Sorted.
func Select(tasks []models.Task, filter models.Filter) []models.Task {
	if filter == models.FilterAll || filter == "" {
		return clone(tasks)
	}
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if models.Filter(t.Status) == filter {
			out = append(out, t)
		}
	}
	return out
}

// Tally counts tasks by status over the unfiltered collection.
func Tally(tasks []models.Task) models.Stats {
	s := models.Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed() {
			s.Completed++
		} else {
			s.Pending++
		}
	}
	return s
}

func clone(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	return out
}
