package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drapaimern/lumina/internal/core"
	"github.com/drapaimern/lumina/internal/observability"
	"github.com/drapaimern/lumina/pkg/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks from the command line (add, list, done, rm, edit, enhance)",
	Long: `Scriptable task management.

These commands operate on the same store the interactive board uses, so
changes show up on the board immediately.`,
}

var taskAddDescFlag string

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Repo == nil {
			return fmt.Errorf("app not initialized")
		}
		title := strings.Join(args, " ")

		tasks, task, err := core.Create(Repo.Load(), title, taskAddDescFlag)
		if err != nil {
			return fmt.Errorf("adding task: %w", err)
		}
		if err := Repo.Save(tasks); err != nil {
			return err
		}
		observability.Record(EventLog, observability.EventTaskCreated, "task created",
			map[string]any{"task_id": task.ID})

		fmt.Printf("Added task %s\n", shortID(task.ID))
		fmt.Printf("  Title: %s\n", task.Title)
		if task.Description != "" {
			fmt.Printf("  Description: %s\n", task.Description)
		}
		return nil
	},
}

var taskListFilterFlag string

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if Repo == nil {
			return fmt.Errorf("app not initialized")
		}
		filter, err := parseFilter(taskListFilterFlag)
		if err != nil {
			return err
		}

		tasks := core.Select(core.Sorted(Repo.Load()), filter)
		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		fmt.Printf("%-10s %-4s %-40s %s\n", "ID", "", "TITLE", "ADDED")
		for _, t := range tasks {
			mark := "[ ]"
			if t.Completed() {
				mark = "[x]"
			}
			fmt.Printf("%-10s %-4s %-40s %s\n", shortID(t.ID), mark, truncate(t.Title, 40), formatCreated(t.CreatedAt))
		}

		stats := core.Tally(Repo.Load())
		fmt.Printf("\n%d total, %d pending, %d done\n", stats.Total, stats.Pending, stats.Completed)
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle a task between pending and completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Repo == nil {
			return fmt.Errorf("app not initialized")
		}
		tasks := Repo.Load()
		id, err := resolveID(tasks, args[0])
		if err != nil {
			return err
		}

		tasks = core.Toggle(tasks, id)
		if err := Repo.Save(tasks); err != nil {
			return err
		}
		task, _ := core.Find(tasks, id)
		observability.Record(EventLog, observability.EventTaskStatusChanged, "task status changed",
			map[string]any{"task_id": id, "new_status": string(task.Status)})

		fmt.Printf("Task %s is now %s\n", shortID(id), strings.ToLower(string(task.Status)))
		return nil
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Repo == nil {
			return fmt.Errorf("app not initialized")
		}
		tasks := Repo.Load()
		id, err := resolveID(tasks, args[0])
		if err != nil {
			return err
		}

		if err := Repo.Save(core.Delete(tasks, id)); err != nil {
			return err
		}
		observability.Record(EventLog, observability.EventTaskDeleted, "task deleted",
			map[string]any{"task_id": id})

		fmt.Printf("Deleted task %s\n", shortID(id))
		return nil
	},
}

var (
	taskEditTitleFlag string
	taskEditDescFlag  string
)

var taskEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a task's title and description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Repo == nil {
			return fmt.Errorf("app not initialized")
		}
		tasks := Repo.Load()
		id, err := resolveID(tasks, args[0])
		if err != nil {
			return err
		}
		current, _ := core.Find(tasks, id)

		title := current.Title
		if cmd.Flags().Changed("title") {
			title = taskEditTitleFlag
		}
		desc := current.Description
		if cmd.Flags().Changed("desc") {
			desc = taskEditDescFlag
		}

		tasks, err = core.Edit(tasks, id, title, desc)
		if err != nil {
			return fmt.Errorf("editing task: %w", err)
		}
		if err := Repo.Save(tasks); err != nil {
			return err
		}
		observability.Record(EventLog, observability.EventTaskEdited, "task edited",
			map[string]any{"task_id": id})

		fmt.Printf("Updated task %s\n", shortID(id))
		return nil
	},
}

var taskEnhanceApplyFlag bool

var taskEnhanceCmd = &cobra.Command{
	Use:   "enhance <id>",
	Short: "Ask the AI assistant to rewrite a task's description",
	Long: `Ask the AI assistant to rewrite a task's description.

Prints the proposed description. With --apply the result is written to the
task directly; a failed request leaves the description unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Repo == nil || Assist == nil {
			return fmt.Errorf("app not initialized")
		}
		tasks := Repo.Load()
		id, err := resolveID(tasks, args[0])
		if err != nil {
			return err
		}
		task, _ := core.Find(tasks, id)

		enhanced := Assist.EnhanceDescription(context.Background(), task.Title, task.Description)
		fmt.Println(enhanced)

		if taskEnhanceApplyFlag && enhanced != task.Description {
			tasks = core.Update(tasks, id, core.Patch{Description: &enhanced})
			if err := Repo.Save(tasks); err != nil {
				return err
			}
			observability.Record(EventLog, observability.EventEnhanceApplied, "enhanced description applied",
				map[string]any{"task_id": id})
		}
		return nil
	},
}

var taskSubtasksCmd = &cobra.Command{
	Use:   "subtasks <id>",
	Short: "Ask the AI assistant to propose subtasks",
	Long: `Ask the AI assistant to propose subtasks for a task.

The suggestions are advisory only and are never written to the task.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Repo == nil || Assist == nil {
			return fmt.Errorf("app not initialized")
		}
		tasks := Repo.Load()
		id, err := resolveID(tasks, args[0])
		if err != nil {
			return err
		}
		task, _ := core.Find(tasks, id)

		items := Assist.SuggestSubtasks(context.Background(), task.Title)
		if len(items) == 0 {
			fmt.Println("No suggestions.")
			return nil
		}
		for _, item := range items {
			fmt.Printf("  • %s\n", item)
		}
		return nil
	},
}

func init() {
	taskAddCmd.Flags().StringVar(&taskAddDescFlag, "desc", "", "task description")
	taskListCmd.Flags().StringVar(&taskListFilterFlag, "filter", "all", "all, pending, or completed")
	taskEditCmd.Flags().StringVar(&taskEditTitleFlag, "title", "", "new title")
	taskEditCmd.Flags().StringVar(&taskEditDescFlag, "desc", "", "new description")
	taskEnhanceCmd.Flags().BoolVar(&taskEnhanceApplyFlag, "apply", false, "write the result to the task")

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskDoneCmd, taskRmCmd, taskEditCmd, taskEnhanceCmd, taskSubtasksCmd)
	rootCmd.AddCommand(taskCmd)
}

// resolveID matches a full ID or an unambiguous prefix against the
// collection.
func resolveID(tasks []models.Task, arg string) (string, error) {
	var matches []string
	for _, t := range tasks {
		if t.ID == arg {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no task matches %q", arg)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q is ambiguous (%d matches)", arg, len(matches))
	}
}

func parseFilter(s string) (models.Filter, error) {
	switch s {
	case "", "all":
		return models.FilterAll, nil
	case "pending":
		return models.FilterPending, nil
	case "completed":
		return models.FilterCompleted, nil
	default:
		return "", fmt.Errorf("unknown filter %q (use all, pending, or completed)", s)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
