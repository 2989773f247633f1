// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the to-do lists as tools for AI assistants over stdio.
package mcp

import (
	"context"
	"fmt"
	"sync"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/pocket-todo/internal/core"
	"github.com/valter-silva-au/pocket-todo/internal/observability"
	"github.com/valter-silva-au/pocket-todo/pkg/models"
)

// Server wraps the task stores and exposes them as MCP tools.
type Server struct {
	server         *gomcp.Server
	stores         map[models.Variant]core.TaskStore
	defaultVariant models.Variant
	statsCalc      observability.StatsCalculator
	now            func() time.Time

	// mu serializes tool calls; each one reloads the snapshot before acting.
	mu sync.Mutex
}

// NewServer creates a new MCP server over stores. statsCalc may be nil if
// the activity log is disabled.
func NewServer(stores map[models.Variant]core.TaskStore, defaultVariant models.Variant, statsCalc observability.StatsCalculator, version string) *Server {
	if version == "" {
		version = "dev"
	}
	if defaultVariant == "" {
		defaultVariant = models.VariantRich
	}

	s := &Server{
		stores:         stores,
		defaultVariant: defaultVariant,
		statsCalc:      statsCalc,
		now:            time.Now,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "pocket-todo", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type taskOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Subject   string `json:"subject,omitempty"`
	Deadline  string `json:"deadline,omitempty"`
	Priority  string `json:"priority,omitempty"`
}

type listTasksInput struct {
	Variant string `json:"variant,omitempty" jsonschema:"list to read: simple or rich. Defaults to the configured list."`
	Filter  string `json:"filter,omitempty" jsonschema:"all, completed or incomplete (rich list only). Defaults to all."`
}

type listTasksOutput struct {
	Variant string        `json:"variant"`
	Tasks   []taskOutput  `json:"tasks"`
	Count   int           `json:"count"`
	Summary summaryOutput `json:"summary" jsonschema:"counts of the whole list, ignoring the filter"`
}

type summaryOutput struct {
	Total      int            `json:"total"`
	Completed  int            `json:"completed"`
	Open       int            `json:"open"`
	ByPriority map[string]int `json:"by_priority,omitempty"`
}

type addTaskInput struct {
	Variant  string `json:"variant,omitempty" jsonschema:"list to change: simple or rich. Defaults to the configured list."`
	Title    string `json:"title" jsonschema:"the task title; at least 3 characters on the rich list"`
	Subject  string `json:"subject,omitempty" jsonschema:"subject or category, required on the rich list"`
	Deadline string `json:"deadline,omitempty" jsonschema:"free-text deadline such as 20 April 2025"`
	Priority string `json:"priority,omitempty" jsonschema:"low, medium or high. Defaults to medium."`
}

type taskRefInput struct {
	Variant string `json:"variant,omitempty" jsonschema:"list to change: simple or rich. Defaults to the configured list."`
	TaskID  string `json:"task_id" jsonschema:"the task identifier"`
	Confirm bool   `json:"confirm,omitempty" jsonschema:"must be true on the rich list, which asks before this change"`
}

type editTaskInput struct {
	Variant  string  `json:"variant,omitempty" jsonschema:"list to change: simple or rich. Defaults to the configured list."`
	TaskID   string  `json:"task_id" jsonschema:"the task identifier"`
	Title    *string `json:"title,omitempty" jsonschema:"new title; omitted fields keep their value"`
	Subject  *string `json:"subject,omitempty" jsonschema:"new subject (rich list)"`
	Deadline *string `json:"deadline,omitempty" jsonschema:"new deadline (rich list)"`
	Priority *string `json:"priority,omitempty" jsonschema:"new priority: low, medium or high (rich list)"`
	Confirm  bool    `json:"confirm,omitempty" jsonschema:"must be true on the rich list, which asks before saving edits"`
}

type mutationOutput struct {
	Message string      `json:"message"`
	Changed bool        `json:"changed"`
	Task    *taskOutput `json:"task,omitempty"`
}

type getStatsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window (e.g. 7d, 24h). Defaults to 7d."`
}

type statsOutput struct {
	TasksCreated   int            `json:"tasks_created"`
	TasksCompleted int            `json:"tasks_completed"`
	TasksReopened  int            `json:"tasks_reopened"`
	TasksUpdated   int            `json:"tasks_updated"`
	TasksDeleted   int            `json:"tasks_deleted"`
	CreatedBy      map[string]int `json:"created_by_variant"`
	EventCount     int            `json:"event_count"`
	OldestEvent    string         `json:"oldest_event,omitempty"`
	NewestEvent    string         `json:"newest_event,omitempty"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List the tasks of a to-do list in insertion order, optionally filtered by completion on the rich list. The summary counts the whole list.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_task",
		Description: "Append a task. The rich list requires a subject and a title of at least 3 characters.",
	}, s.handleAddTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "toggle_task",
		Description: "Flip a task between completed and open. The rich list requires confirm=true.",
	}, s.handleToggleTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "edit_task",
		Description: "Change a task's title, subject, deadline or priority. The rich list requires confirm=true.",
	}, s.handleEditTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "delete_task",
		Description: "Remove a task. The rich list requires confirm=true.",
	}, s.handleDeleteTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_stats",
		Description: "Summarize list activity from the activity log: tasks created, completed, reopened, edited and deleted.",
	}, s.handleGetStats)
}

// --- Tool handlers ---

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	variant, store, err := s.store(input.Variant)
	if err != nil {
		return errorResult(err.Error()), listTasksOutput{}, nil
	}
	filter, err := models.ParseFilter(input.Filter)
	if err != nil {
		return errorResult(err.Error()), listTasksOutput{}, nil
	}
	if filter != models.FilterAll && !store.Capabilities().Filtering {
		return errorResult("filter is only available on the rich list"), listTasksOutput{}, nil
	}

	tasks := store.Filter(filter)
	out := listTasksOutput{
		Variant: string(variant),
		Tasks:   make([]taskOutput, len(tasks)),
		Count:   len(tasks),
		Summary: summaryToOutput(store.Summary()),
	}
	for i, t := range tasks {
		out.Tasks[i] = taskToOutput(t)
	}
	return nil, out, nil
}

func (s *Server) handleAddTask(_ context.Context, _ *gomcp.CallToolRequest, input addTaskInput) (*gomcp.CallToolResult, mutationOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, store, err := s.store(input.Variant)
	if err != nil {
		return errorResult(err.Error()), mutationOutput{}, nil
	}

	task, err := store.Create(core.Draft{
		Title:    input.Title,
		Subject:  input.Subject,
		Deadline: input.Deadline,
		Priority: models.Priority(input.Priority),
	})
	if err != nil {
		return errorResult(err.Error()), mutationOutput{}, nil
	}

	out := taskToOutput(task)
	return nil, mutationOutput{
		Message: fmt.Sprintf("task %s added", task.ID),
		Changed: true,
		Task:    &out,
	}, nil
}

func (s *Server) handleToggleTask(_ context.Context, _ *gomcp.CallToolRequest, input taskRefInput) (*gomcp.CallToolResult, mutationOutput, error) {
	return s.mutate(input.Variant, input.Confirm, core.PendingAction{Kind: core.ActionToggle, TaskID: input.TaskID})
}

func (s *Server) handleDeleteTask(_ context.Context, _ *gomcp.CallToolRequest, input taskRefInput) (*gomcp.CallToolResult, mutationOutput, error) {
	return s.mutate(input.Variant, input.Confirm, core.PendingAction{Kind: core.ActionDelete, TaskID: input.TaskID})
}

func (s *Server) handleEditTask(_ context.Context, _ *gomcp.CallToolRequest, input editTaskInput) (*gomcp.CallToolResult, mutationOutput, error) {
	s.mu.Lock()
	_, store, err := s.store(input.Variant)
	if err != nil {
		s.mu.Unlock()
		return errorResult(err.Error()), mutationOutput{}, nil
	}
	task, ok := store.Get(input.TaskID)
	s.mu.Unlock()
	if !ok {
		return nil, notFoundOutput(input.TaskID), nil
	}

	draft := core.Draft{Title: task.Title, Subject: task.Subject, Deadline: task.Deadline, Priority: task.Priority}
	if input.Title != nil {
		draft.Title = *input.Title
	}
	if input.Subject != nil {
		draft.Subject = *input.Subject
	}
	if input.Deadline != nil {
		draft.Deadline = *input.Deadline
	}
	if input.Priority != nil {
		draft.Priority = models.Priority(*input.Priority)
	}

	return s.mutate(input.Variant, input.Confirm, core.PendingAction{Kind: core.ActionEdit, TaskID: input.TaskID, Draft: draft})
}

// mutate runs action through the store's confirmation rules. A confirmation
// the caller has not given is cancelled and reported as an error result.
func (s *Server) mutate(variantName string, confirmed bool, action core.PendingAction) (*gomcp.CallToolResult, mutationOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, store, err := s.store(variantName)
	if err != nil {
		return errorResult(err.Error()), mutationOutput{}, nil
	}
	if action.TaskID == "" {
		return errorResult("task_id is required"), mutationOutput{}, nil
	}

	confirmer := core.NewConfirmer(store)
	outcome, err := confirmer.Request(action)
	if err != nil {
		return errorResult(err.Error()), mutationOutput{}, nil
	}
	if outcome == core.OutcomePending {
		pending, _ := confirmer.Pending()
		if !confirmed {
			confirmer.Cancel()
			return errorResult(fmt.Sprintf("confirmation required: %s Call again with confirm=true.", pending.Prompt())), mutationOutput{}, nil
		}
		if outcome, err = confirmer.Confirm(); err != nil {
			return errorResult(err.Error()), mutationOutput{}, nil
		}
	}
	if outcome != core.OutcomeCommitted {
		return nil, notFoundOutput(action.TaskID), nil
	}

	out := mutationOutput{Changed: true}
	task, ok := store.Get(action.TaskID)
	if ok {
		t := taskToOutput(task)
		out.Task = &t
	}
	switch action.Kind {
	case core.ActionDelete:
		out.Message = fmt.Sprintf("task %s deleted", action.TaskID)
	case core.ActionEdit:
		out.Message = fmt.Sprintf("task %s updated", action.TaskID)
	case core.ActionToggle:
		out.Message = fmt.Sprintf("task %s reopened", action.TaskID)
		if task.Completed {
			out.Message = fmt.Sprintf("task %s completed", action.TaskID)
		}
	}
	return nil, out, nil
}

func (s *Server) handleGetStats(_ context.Context, _ *gomcp.CallToolRequest, input getStatsInput) (*gomcp.CallToolResult, statsOutput, error) {
	if s.statsCalc == nil {
		return errorResult("stats not available (the activity log is disabled)"), emptyStatsOutput(), nil
	}

	since, err := observability.ParseSince(input.Since, s.now().UTC())
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since: %s", err)), emptyStatsOutput(), nil
	}

	stats, err := s.statsCalc.Calculate(since)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating stats: %s", err)), emptyStatsOutput(), nil
	}

	out := statsOutput{
		TasksCreated:   stats.TasksCreated,
		TasksCompleted: stats.TasksCompleted,
		TasksReopened:  stats.TasksReopened,
		TasksUpdated:   stats.TasksUpdated,
		TasksDeleted:   stats.TasksDeleted,
		CreatedBy:      stats.CreatedBy,
		EventCount:     stats.EventCount,
	}
	if out.CreatedBy == nil {
		out.CreatedBy = make(map[string]int)
	}
	if stats.OldestEvent != nil {
		out.OldestEvent = stats.OldestEvent.Format(time.RFC3339)
	}
	if stats.NewestEvent != nil {
		out.NewestEvent = stats.NewestEvent.Format(time.RFC3339)
	}
	return nil, out, nil
}

// --- Helpers ---

// store resolves the list named by variantName and reloads it so changes
// made by other processes are visible. Callers hold s.mu.
func (s *Server) store(variantName string) (models.Variant, core.TaskStore, error) {
	variant := s.defaultVariant
	if variantName != "" {
		v, err := models.ParseVariant(variantName)
		if err != nil {
			return "", nil, err
		}
		variant = v
	}
	store, ok := s.stores[variant]
	if !ok || store == nil {
		return "", nil, fmt.Errorf("the %s list is not available", variant)
	}
	// A failed load leaves the list empty; the store logs the cause.
	_ = store.Load()
	return variant, store, nil
}

func taskToOutput(t models.Task) taskOutput {
	return taskOutput{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		Subject:   t.Subject,
		Deadline:  t.Deadline,
		Priority:  string(t.Priority),
	}
}

func summaryToOutput(sum core.Summary) summaryOutput {
	out := summaryOutput{Total: sum.Total, Completed: sum.Completed, Open: sum.Open}
	if sum.ByPriority != nil {
		out.ByPriority = make(map[string]int, len(sum.ByPriority))
		for p, n := range sum.ByPriority {
			out.ByPriority[string(p)] = n
		}
	}
	return out
}

func notFoundOutput(id string) mutationOutput {
	return mutationOutput{Message: fmt.Sprintf("no task %q; nothing changed", id)}
}

func emptyStatsOutput() statsOutput {
	return statsOutput{CreatedBy: make(map[string]int)}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
