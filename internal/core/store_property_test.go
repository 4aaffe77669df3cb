package core

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/drapaimern/lumina/pkg/models"
)

func taskGenerator() *rapid.Generator[models.Task] {
	return rapid.Custom(func(t *rapid.T) models.Task {
		status := models.StatusPending
		if rapid.Bool().Draw(t, "completed") {
			status = models.StatusCompleted
		}
		return models.Task{
			ID:          rapid.StringMatching(`[a-f0-9]{8}`).Draw(t, "id"),
			Title:       rapid.StringMatching(`[A-Za-z][A-Za-z ]{0,20}`).Draw(t, "title"),
			Description: rapid.StringN(0, 40, 40).Draw(t, "description"),
			Status:      status,
			CreatedAt:   rapid.Int64Range(1, 1<<40).Draw(t, "createdAt"),
			Tags:        []string{},
		}
	})
}

func collectionGenerator() *rapid.Generator[[]models.Task] {
	return rapid.Custom(func(t *rapid.T) []models.Task {
		tasks := rapid.SliceOfN(taskGenerator(), 0, 12).Draw(t, "tasks")
		// Deduplicate IDs to honor the uniqueness invariant of live collections.
		seen := make(map[string]bool)
		out := tasks[:0]
		for _, task := range tasks {
			if !seen[task.ID] {
				seen[task.ID] = true
				out = append(out, task)
			}
		}
		return out
	})
}

// Applying Toggle twice to the same ID restores the original status.
func TestProperty_ToggleIsItsOwnInverse(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tasks := collectionGenerator().Draw(rt, "collection")
		if len(tasks) == 0 {
			return
		}
		idx := rapid.IntRange(0, len(tasks)-1).Draw(rt, "idx")
		id := tasks[idx].ID

		twice := Toggle(Toggle(tasks, id), id)
		for i := range tasks {
			if tasks[i].Status != twice[i].Status {
				rt.Fatalf("task %s: status %s became %s after double toggle",
					tasks[i].ID, tasks[i].Status, twice[i].Status)
			}
		}
	})
}

// Mutating operations addressed to an absent ID leave the collection unchanged.
func TestProperty_AbsentIDIsNoOp(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tasks := collectionGenerator().Draw(rt, "collection")
		id := rapid.StringMatching(`missing-[0-9]{4}`).Draw(rt, "id")

		desc := "patched"
		results := [][]models.Task{
			Update(tasks, id, Patch{Description: &desc}),
			Toggle(tasks, id),
			Delete(tasks, id),
		}
		edited, err := Edit(tasks, id, "Title", "desc")
		if err != nil {
			rt.Fatalf("Edit on absent ID must not error: %v", err)
		}
		results = append(results, edited)

		for _, got := range results {
			if len(got) != len(tasks) {
				rt.Fatalf("length changed: %d -> %d", len(tasks), len(got))
			}
			for i := range tasks {
				if tasks[i].ID != got[i].ID || tasks[i].Status != got[i].Status ||
					tasks[i].Title != got[i].Title || tasks[i].Description != got[i].Description {
					rt.Fatalf("task %d changed: %+v -> %+v", i, tasks[i], got[i])
				}
			}
		}
	})
}

// Select over a sorted collection partitions it: All returns everything,
// and Pending plus Completed cover each task exactly once, in order.
func TestProperty_SelectPartitionsSorted(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		sorted := Sorted(collectionGenerator().Draw(rt, "collection"))

		all := Select(sorted, models.FilterAll)
		if len(all) != len(sorted) {
			rt.Fatalf("FilterAll dropped tasks: %d -> %d", len(sorted), len(all))
		}

		pending := Select(sorted, models.FilterPending)
		completed := Select(sorted, models.FilterCompleted)
		if len(pending)+len(completed) != len(sorted) {
			rt.Fatalf("partition size mismatch: %d + %d != %d",
				len(pending), len(completed), len(sorted))
		}

		seen := make(map[string]int)
		for _, task := range pending {
			if task.Completed() {
				rt.Fatalf("completed task %s in pending selection", task.ID)
			}
			seen[task.ID]++
		}
		for _, task := range completed {
			if !task.Completed() {
				rt.Fatalf("pending task %s in completed selection", task.ID)
			}
			seen[task.ID]++
		}
		for _, task := range sorted {
			if seen[task.ID] != 1 {
				rt.Fatalf("task %s appeared %d times across the partition", task.ID, seen[task.ID])
			}
		}
	})
}

// Sorted yields a total order by CreatedAt descending and is idempotent.
func TestProperty_SortedOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tasks := collectionGenerator().Draw(rt, "collection")
		sorted := Sorted(tasks)

		if len(sorted) != len(tasks) {
			rt.Fatalf("sort changed length: %d -> %d", len(tasks), len(sorted))
		}
		for i := 1; i < len(sorted); i++ {
			if sorted[i-1].CreatedAt < sorted[i].CreatedAt {
				rt.Fatalf("out of order at %d: %d < %d", i, sorted[i-1].CreatedAt, sorted[i].CreatedAt)
			}
		}

		again := Sorted(sorted)
		for i := range sorted {
			if sorted[i].ID != again[i].ID {
				rt.Fatalf("sorting is not idempotent at %d", i)
			}
		}
	})
}

// Create yields exactly one new record with the given fields and an ID
// distinct from every pre-existing one.
func TestProperty_CreateAddsUniqueRecord(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tasks := collectionGenerator().Draw(rt, "collection")
		title := rapid.StringMatching(`[A-Za-z][A-Za-z ]{0,20}`).Draw(rt, "title")
		desc := rapid.StringN(0, 30, 30).Draw(rt, "desc")

		after, task, err := Create(tasks, title, desc)
		if err != nil {
			rt.Fatalf("Create failed: %v", err)
		}
		if len(after) != len(tasks)+1 {
			rt.Fatalf("expected %d tasks, got %d", len(tasks)+1, len(after))
		}
		for _, existing := range tasks {
			if existing.ID == task.ID {
				rt.Fatalf("new ID %s collides with existing task", task.ID)
			}
		}
		if task.Status != models.StatusPending {
			rt.Fatalf("new task must be pending, got %s", task.Status)
		}
		if task.Description != desc {
			rt.Fatalf("description mismatch: %q != %q", task.Description, desc)
		}
	})
}
