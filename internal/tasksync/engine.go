// Package tasksync keeps a client-side mirror of the task list in sync
// with the server by polling, and applies write-through edits.
package tasksync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"todocli/internal/api"
)

// PollInterval is the fixed delay between poll ticks.
const PollInterval = 5 * time.Second

// ErrTaskNotFound is returned when an edit names a task id that is not in
// the current view.
var ErrTaskNotFound = errors.New("task not found")

// API is the subset of the api client the engine needs.
type API interface {
	FetchTasks(ctx context.Context, token string) ([]api.Task, int, error)
	UpdateTask(ctx context.Context, token, id string, rec api.TaskRecord) error
	DeleteTask(ctx context.Context, token, id string) error
}

// TokenSource yields the current session token at call time. The token is
// read fresh on every authenticated call, never cached.
type TokenSource interface {
	Get() (string, bool)
}

// ViewState is the closed set of task-list rendering states.
type ViewState int

const (
	// ViewLoading means no poll has completed yet.
	ViewLoading ViewState = iota

	// ViewUnauthenticated means there is no token, or the server
	// rejected the one we have.
	ViewUnauthenticated

	// ViewLoaded means Tasks reflects the most recent successful poll.
	ViewLoaded

	// ViewFailed means the last poll hit a non-auth failure; Code holds
	// the HTTP status, or 0 for a transport failure.
	ViewFailed
)

func (s ViewState) String() string {
	switch s {
	case ViewLoading:
		return "loading"
	case ViewUnauthenticated:
		return "unauthenticated"
	case ViewLoaded:
		return "loaded"
	case ViewFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// View is the derived rendering state of the task list. It is replaced
// atomically on every poll; never partially updated.
type View struct {
	State ViewState
	Tasks []api.Task

	// Code is the HTTP status behind ViewFailed, 0 for network failure.
	Code int
}

// FieldPatch carries the edited fields of a write-through edit. Nil
// fields are left at the task's current value.
type FieldPatch struct {
	Title       *string
	Description *string
	Status      *bool
}

// Engine maintains the task-list view.
type Engine struct {
	api    API
	tokens TokenSource
	logger *slog.Logger

	mu   sync.Mutex
	view View

	// OnChange, if set, is called with each new view after it is
	// installed. Called from the polling goroutine.
	OnChange func(View)
}

// NewEngine creates an engine in the Loading state.
func NewEngine(client API, tokens TokenSource) *Engine {
	return &Engine{
		api:    client,
		tokens: tokens,
		logger: slog.Default(),
		view:   View{State: ViewLoading},
	}
}

// View returns the current view. The task slice must not be mutated.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view
}

// Poll refreshes the view once. Without a token it resolves to
// Unauthenticated with no network call. The new view replaces the old one
// wholesale.
func (e *Engine) Poll(ctx context.Context) View {
	token, ok := e.tokens.Get()
	if !ok {
		return e.install(View{State: ViewUnauthenticated, Tasks: []api.Task{}})
	}

	tasks, status, err := e.api.FetchTasks(ctx, token)
	switch {
	case err != nil:
		e.logger.Debug("poll failed", "error", err)
		return e.install(View{State: ViewFailed, Tasks: []api.Task{}})
	case status == http.StatusOK:
		if tasks == nil {
			tasks = []api.Task{}
		}
		return e.install(View{State: ViewLoaded, Tasks: tasks})
	case status == http.StatusUnauthorized:
		return e.install(View{State: ViewUnauthenticated, Tasks: []api.Task{}})
	default:
		return e.install(View{State: ViewFailed, Tasks: []api.Task{}, Code: status})
	}
}

// Run polls once immediately and then on a fixed ticker until ctx is
// cancelled. The caller owns the context and cancels it on teardown; the
// ticker never outlives it.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	e.Poll(ctx)

	for {
		select {
		case <-ctx.Done():
			e.logger.Debug("poll loop stopped")
			return
		case <-ticker.C:
			e.Poll(ctx)
		}
	}
}

// UpdateField merges the patch into the task's full record and writes it
// through. Local state is not touched; the next poll reconciles the view.
// Failures are returned to the caller, never dropped.
func (e *Engine) UpdateField(ctx context.Context, id string, patch FieldPatch) error {
	task, ok := e.find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	rec := task.Record()
	if patch.Title != nil {
		rec.Title = *patch.Title
	}
	if patch.Description != nil {
		rec.Description = *patch.Description
	}
	if patch.Status != nil {
		rec.Status = *patch.Status
	}

	token, ok := e.tokens.Get()
	if !ok {
		return &api.StatusError{Op: "update task", Code: http.StatusUnauthorized}
	}
	return e.api.UpdateTask(ctx, token, id, rec)
}

// Delete removes the task server-side. Only a confirmed delete triggers
// the immediate refresh; otherwise the (possibly stale) view is left
// unchanged and the failure is returned.
func (e *Engine) Delete(ctx context.Context, id string) error {
	token, ok := e.tokens.Get()
	if !ok {
		return &api.StatusError{Op: "delete task", Code: http.StatusUnauthorized}
	}

	if err := e.api.DeleteTask(ctx, token, id); err != nil {
		return err
	}
	e.Poll(ctx)
	return nil
}

func (e *Engine) find(id string) (api.Task, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range e.view.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return api.Task{}, false
}

func (e *Engine) install(v View) View {
	e.mu.Lock()
	e.view = v
	onChange := e.OnChange
	e.mu.Unlock()

	if onChange != nil {
		onChange(v)
	}
	return v
}
