// Package mcp exposes the task tracker as MCP (Model Context Protocol) tools
// so AI assistants can read and update the list.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/phrazzld/traffic-tasker/internal/domain"
	"github.com/phrazzld/traffic-tasker/internal/generation"
	"github.com/phrazzld/traffic-tasker/internal/tracker"
)

// TaskService is the subset of *tracker.Tracker the tools use.
type TaskService interface {
	CreateTask(ctx context.Context, title, description string) (tracker.CreateResult, error)
	Toggle(ctx context.Context, id uuid.UUID) (domain.Task, error)
	SetPriority(ctx context.Context, id uuid.UUID, p domain.Priority) (domain.Task, error)
	Delete(ctx context.Context, id uuid.UUID) bool
	Tasks() []domain.Task
	Resolve(ref string) (domain.Task, int, error)
	Advisory() (tracker.AdvisoryState, bool)
	RefreshAdvisory(ctx context.Context) (tracker.AdvisoryState, bool)
}

var _ TaskService = (*tracker.Tracker)(nil)

// Server wraps the tracker and serves it over MCP.
type Server struct {
	server *gomcp.Server
	tasks  TaskService
	logger *slog.Logger
}

// NewServer creates an MCP server with every tool registered.
func NewServer(tasks TaskService, version string, logger *slog.Logger) *Server {
	if version == "" {
		version = "dev"
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "mcp")),
	}
	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "traffic-tasker", Version: version},
		nil,
	)
	s.registerTools()

	return s
}

// Run serves on stdio until the client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying server, for custom transports.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

type taskView struct {
	Index       int    `json:"index"`
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority"`
	Light       string `json:"light"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"createdAt"`
}

func newTaskView(index int, t domain.Task) taskView {
	return taskView{
		Index:       index,
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Light:       string(t.Priority.Light()),
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339Nano),
	}
}

func newTaskViews(tasks []domain.Task) []taskView {
	views := make([]taskView, len(tasks))
	for i, t := range tasks {
		views[i] = newTaskView(i+1, t)
	}
	return views
}

type listTasksInput struct{}

type listTasksOutput struct {
	Tasks []taskView `json:"tasks"`
	Count int               `json:"count"`
}

type addTaskInput struct {
	Title       string `json:"title" jsonschema:"the task title"`
	Description string `json:"description,omitempty" jsonschema:"optional details used for classification"`
}

type addTaskOutput struct {
	Task           taskView           `json:"task"`
	Classification generation.Classification `json:"classification"`
}

type refInput struct {
	Ref string `json:"ref" jsonschema:"1-based list position or a task id prefix"`
}

type setPriorityInput struct {
	Ref      string `json:"ref" jsonschema:"1-based list position or a task id prefix"`
	Priority string `json:"priority" jsonschema:"high, standard or low (or red, yellow, green)"`
}

type taskOutput struct {
	Task taskView `json:"task"`
}

type deleteTaskOutput struct {
	Deleted bool   `json:"deleted"`
	Message string `json:"message"`
}

type getAdvisoryInput struct {
	Refresh bool `json:"refresh,omitempty" jsonschema:"request a new advisory instead of returning the latest one"`
}

type advisoryOutput struct {
	Available  bool               `json:"available"`
	Text       string             `json:"text,omitempty"`
	Outcome    generation.Outcome `json:"outcome,omitempty"`
	Generation uint64             `json:"generation,omitempty"`
}

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List all tasks in display order: active tasks first, newest first within each group.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_task",
		Description: "Add a task. Its priority (red, yellow or green light) is suggested automatically.",
	}, s.handleAddTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "toggle_task",
		Description: "Toggle a task between active and completed.",
	}, s.handleToggleTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "set_priority",
		Description: "Set a task's priority manually.",
	}, s.handleSetPriority)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task permanently.",
	}, s.handleDeleteTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_advisory",
		Description: "Get a one-sentence productivity tip for the current task list.",
	}, s.handleGetAdvisory)
}

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, _ listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	views := newTaskViews(s.tasks.Tasks())
	return nil, listTasksOutput{Tasks: views, Count: len(views)}, nil
}

func (s *Server) handleAddTask(ctx context.Context, _ *gomcp.CallToolRequest, input addTaskInput) (*gomcp.CallToolResult, addTaskOutput, error) {
	res, err := s.tasks.CreateTask(ctx, input.Title, input.Description)
	if err != nil {
		return s.errorResult(ctx, "adding task", err), addTaskOutput{}, nil
	}

	_, pos, _ := s.tasks.Resolve(res.Task.ID.String())
	return nil, addTaskOutput{
		Task:           newTaskView(pos, res.Task),
		Classification: res.Classification,
	}, nil
}

func (s *Server) handleToggleTask(ctx context.Context, _ *gomcp.CallToolRequest, input refInput) (*gomcp.CallToolResult, taskOutput, error) {
	task, pos, err := s.tasks.Resolve(input.Ref)
	if err != nil {
		return s.errorResult(ctx, "resolving task", err), taskOutput{}, nil
	}

	task, err = s.tasks.Toggle(ctx, task.ID)
	if err != nil {
		return s.errorResult(ctx, "toggling task", err), taskOutput{}, nil
	}
	return nil, taskOutput{Task: newTaskView(pos, task)}, nil
}

func (s *Server) handleSetPriority(ctx context.Context, _ *gomcp.CallToolRequest, input setPriorityInput) (*gomcp.CallToolResult, taskOutput, error) {
	priority, err := domain.ParsePriority(input.Priority)
	if err != nil {
		return s.errorResult(ctx, "parsing priority", err), taskOutput{}, nil
	}

	task, pos, err := s.tasks.Resolve(input.Ref)
	if err != nil {
		return s.errorResult(ctx, "resolving task", err), taskOutput{}, nil
	}

	task, err = s.tasks.SetPriority(ctx, task.ID, priority)
	if err != nil {
		return s.errorResult(ctx, "setting priority", err), taskOutput{}, nil
	}
	return nil, taskOutput{Task: newTaskView(pos, task)}, nil
}

func (s *Server) handleDeleteTask(ctx context.Context, _ *gomcp.CallToolRequest, input refInput) (*gomcp.CallToolResult, deleteTaskOutput, error) {
	task, _, err := s.tasks.Resolve(input.Ref)
	if err != nil {
		return s.errorResult(ctx, "resolving task", err), deleteTaskOutput{}, nil
	}

	deleted := s.tasks.Delete(ctx, task.ID)
	return nil, deleteTaskOutput{
		Deleted: deleted,
		Message: fmt.Sprintf("deleted %q", task.Title),
	}, nil
}

func (s *Server) handleGetAdvisory(ctx context.Context, _ *gomcp.CallToolRequest, input getAdvisoryInput) (*gomcp.CallToolResult, advisoryOutput, error) {
	state, ok := s.tasks.Advisory()
	if input.Refresh || !ok {
		state, ok = s.tasks.RefreshAdvisory(ctx)
	}
	if !ok {
		return nil, advisoryOutput{}, nil
	}
	return nil, advisoryOutput{
		Available:  true,
		Text:       state.Text,
		Outcome:    state.Outcome,
		Generation: state.Generation,
	}, nil
}

func (s *Server) errorResult(ctx context.Context, action string, err error) *gomcp.CallToolResult {
	level := slog.LevelWarn
	if errors.Is(err, tracker.ErrTaskNotFound) || errors.Is(err, domain.ErrInvalidPriority) {
		level = slog.LevelDebug
	}
	s.logger.Log(ctx, level, "tool call failed", "action", action, "error", err)

	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf("%s: %s", action, err)}},
		IsError: true,
	}
}
