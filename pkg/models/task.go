package models

// TaskStatus represents the completion state of a task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "PENDING"
	StatusCompleted TaskStatus = "COMPLETED"
)

// Filter selects which tasks the board displays. It is view state only and
// is never persisted.
type Filter string

const (
	FilterAll       Filter = "ALL"
	FilterPending   Filter = "PENDING"
	FilterCompleted Filter = "COMPLETED"
)

// Task is the sole persisted entity: a single trackable to-do item.
// CreatedAt is epoch milliseconds and doubles as the display sort key
// (newest first). ID and CreatedAt never change after creation.
//
// Tags is reserved in the stored schema but no current operation reads or
// writes it.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   int64      `json:"createdAt"`
	Tags        []string   `json:"tags"`
}

// Completed reports whether the task has been marked done.
func (t Task) Completed() bool {
	return t.Status == StatusCompleted
}

// Stats holds the aggregate counts shown in the board header. They are
// tallied over the unfiltered collection on every render.
type Stats struct {
	Total     int
	Pending   int
	Completed int
}
