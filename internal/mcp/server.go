// Package mcp provides an MCP (Model Context Protocol) server that exposes
// lumina's task operations as tools for AI coding assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/drapaimern/lumina/internal/core"
	"github.com/drapaimern/lumina/internal/observability"
	"github.com/drapaimern/lumina/internal/storage"
	"github.com/drapaimern/lumina/pkg/models"
)

// Server wraps the task repository and exposes it as MCP tools.
type Server struct {
	server      *gomcp.Server
	repo        storage.TaskRepository
	log         observability.EventLog
	metricsCalc observability.MetricsCalculator
}

// NewServer creates a new MCP server over the given repository. log and
// metricsCalc may be nil.
func NewServer(repo storage.TaskRepository, log observability.EventLog, metricsCalc observability.MetricsCalculator, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		repo:        repo,
		log:         log,
		metricsCalc: metricsCalc,
	}
	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "lumina", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio, blocking until the client
// disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type addTaskInput struct {
	Title       string `json:"title" jsonschema:"required,the task title"`
	Description string `json:"description,omitempty" jsonschema:"optional free-text description"`
}

type taskOutput struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	CreatedAt   string   `json:"created_at"`
	Tags        []string `json:"tags,omitempty"`
}

type listTasksInput struct {
	Filter string `json:"filter,omitempty" jsonschema:"filter tasks by status (all, pending, completed)"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type taskIDInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the unique task identifier"`
}

type messageOutput struct {
	Message string `json:"message"`
}

type getStatsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for activity metrics (e.g. 7d, 24h). Defaults to 7d."`
}

type statsOutput struct {
	Total             int `json:"total"`
	Pending           int `json:"pending"`
	Completed         int `json:"completed"`
	TasksCreated      int `json:"tasks_created"`
	TasksCompleted    int `json:"tasks_completed"`
	TasksDeleted      int `json:"tasks_deleted"`
	EnhancesApplied   int `json:"enhances_applied"`
	ProposalsAccepted int `json:"proposals_accepted"`
	AIFailures        int `json:"ai_failures"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_task",
		Description: "Add a new task with a title and optional description. The task starts pending.",
	}, s.handleAddTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks newest first, with an optional status filter (all, pending, completed).",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "toggle_task",
		Description: "Toggle a task between pending and completed.",
	}, s.handleToggleTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task permanently.",
	}, s.handleDeleteTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_stats",
		Description: "Get task counts plus usage metrics derived from the event log.",
	}, s.handleGetStats)
}

// --- Tool handlers ---

func (s *Server) handleAddTask(_ context.Context, _ *gomcp.CallToolRequest, input addTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	tasks, task, err := core.Create(s.repo.Load(), input.Title, input.Description)
	if err != nil {
		return errorResult(fmt.Sprintf("adding task: %s", err)), taskOutput{}, nil
	}
	if err := s.repo.Save(tasks); err != nil {
		return errorResult(fmt.Sprintf("saving tasks: %s", err)), taskOutput{}, nil
	}
	observability.Record(s.log, observability.EventTaskCreated, "task created",
		map[string]any{"task_id": task.ID, "via": "mcp"})
	return nil, taskToOutput(task), nil
}

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	filter, err := parseFilter(input.Filter)
	if err != nil {
		return errorResult(err.Error()), listTasksOutput{}, nil
	}

	tasks := core.Select(core.Sorted(s.repo.Load()), filter)
	out := listTasksOutput{
		Tasks: make([]taskOutput, len(tasks)),
		Count: len(tasks),
	}
	for i, t := range tasks {
		out.Tasks[i] = taskToOutput(t)
	}
	return nil, out, nil
}

func (s *Server) handleToggleTask(_ context.Context, _ *gomcp.CallToolRequest, input taskIDInput) (*gomcp.CallToolResult, taskOutput, error) {
	tasks := s.repo.Load()
	if _, ok := core.Find(tasks, input.TaskID); !ok {
		return errorResult(fmt.Sprintf("no task with id %s", input.TaskID)), taskOutput{}, nil
	}

	tasks = core.Toggle(tasks, input.TaskID)
	if err := s.repo.Save(tasks); err != nil {
		return errorResult(fmt.Sprintf("saving tasks: %s", err)), taskOutput{}, nil
	}
	task, _ := core.Find(tasks, input.TaskID)
	observability.Record(s.log, observability.EventTaskStatusChanged, "task status changed",
		map[string]any{"task_id": task.ID, "new_status": string(task.Status), "via": "mcp"})
	return nil, taskToOutput(task), nil
}

func (s *Server) handleDeleteTask(_ context.Context, _ *gomcp.CallToolRequest, input taskIDInput) (*gomcp.CallToolResult, messageOutput, error) {
	tasks := s.repo.Load()
	if _, ok := core.Find(tasks, input.TaskID); !ok {
		return errorResult(fmt.Sprintf("no task with id %s", input.TaskID)), messageOutput{}, nil
	}

	if err := s.repo.Save(core.Delete(tasks, input.TaskID)); err != nil {
		return errorResult(fmt.Sprintf("saving tasks: %s", err)), messageOutput{}, nil
	}
	observability.Record(s.log, observability.EventTaskDeleted, "task deleted",
		map[string]any{"task_id": input.TaskID, "via": "mcp"})
	return nil, messageOutput{Message: fmt.Sprintf("deleted task %s", input.TaskID)}, nil
}

func (s *Server) handleGetStats(_ context.Context, _ *gomcp.CallToolRequest, input getStatsInput) (*gomcp.CallToolResult, statsOutput, error) {
	stats := core.Tally(s.repo.Load())
	out := statsOutput{
		Total:     stats.Total,
		Pending:   stats.Pending,
		Completed: stats.Completed,
	}

	if s.metricsCalc != nil {
		sinceStr := input.Since
		if sinceStr == "" {
			sinceStr = "7d"
		}
		since, err := parseSince(sinceStr)
		if err != nil {
			return errorResult(err.Error()), statsOutput{}, nil
		}
		m, err := s.metricsCalc.Calculate(since)
		if err != nil {
			return errorResult(fmt.Sprintf("calculating metrics: %s", err)), statsOutput{}, nil
		}
		out.TasksCreated = m.TasksCreated
		out.TasksCompleted = m.TasksCompleted
		out.TasksDeleted = m.TasksDeleted
		out.EnhancesApplied = m.EnhancesApplied
		out.ProposalsAccepted = m.ProposalsAccepted
		out.AIFailures = m.AIFailures
	}
	return nil, out, nil
}

// --- Helpers ---

func taskToOutput(t models.Task) taskOutput {
	return taskOutput{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   time.UnixMilli(t.CreatedAt).UTC().Format(time.RFC3339),
		Tags:        t.Tags,
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

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// parseSince parses a duration string like "7d" or "24h" into the
// corresponding time in the past.
func parseSince(s string) (time.Time, error) {
	now := time.Now().UTC()
	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	var num int
	if _, err := fmt.Sscanf(s[:len(s)-1], "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
