// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"todocli/internal/api"
)

// FakeAPI is an in-memory implementation of the API backend for testing.
// It mimics the remote service: form-grant login, registration chaining
// into login, profile lookup by bearer token, and task CRUD.
type FakeAPI struct {
	mu        sync.RWMutex
	passwords map[string]string // email -> password
	hashes    map[string]string // email -> hashed password
	tokens    map[string]string // token -> email
	tasks     []api.Task
	calls     map[string]int

	// LastUpdate records the most recent UpdateTask payload.
	LastUpdate struct {
		ID     string
		Record api.TaskRecord
	}

	// Error injection for testing
	LoginErr        error
	RegisterErr     error
	FetchProfileErr error
	FetchTasksErr   error
	UpdateTaskErr   error
	DeleteTaskErr   error

	// FetchTasksStatus forces a non-200 status from FetchTasks.
	FetchTasksStatus int
}

// NewFakeAPI creates an empty fake backend.
func NewFakeAPI() *FakeAPI {
	return &FakeAPI{
		passwords: make(map[string]string),
		hashes:    make(map[string]string),
		tokens:    make(map[string]string),
		calls:     make(map[string]int),
	}
}

// AddUser seeds an account. token is the access token the fake will issue
// on login; hash is the value /users/me reports as hashed_password.
func (f *FakeAPI) AddUser(email, password, hash, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passwords[email] = password
	f.hashes[email] = hash
	f.tokens[token] = email
}

// AddTask seeds a task. A missing ID is minted.
func (f *FakeAPI) AddTask(t api.Task) api.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Num == 0 {
		t.Num = len(f.tasks) + 1
	}
	f.tasks = append(f.tasks, t)
	return t
}

// Tasks returns a copy of the current task list.
func (f *FakeAPI) Tasks() []api.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]api.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Calls returns how many times the named method was invoked.
func (f *FakeAPI) Calls(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[method]
}

func (f *FakeAPI) record(method string) {
	f.mu.Lock()
	f.calls[method]++
	f.mu.Unlock()
}

// Login implements the backend.
func (f *FakeAPI) Login(ctx context.Context, email, password string) (api.User, error) {
	f.record("login")
	if f.LoginErr != nil {
		return api.User{}, f.LoginErr
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	if pw, ok := f.passwords[email]; !ok || pw != password {
		return api.User{}, api.ErrInvalidCredentials
	}
	for token, owner := range f.tokens {
		if owner == email {
			return api.User{Email: email, Token: token}, nil
		}
	}
	return api.User{}, api.ErrInvalidCredentials
}

// Register implements the backend. Mirrors the real client: weak-password
// precondition first, duplicate accounts rejected with a detail message,
// success chains into Login.
func (f *FakeAPI) Register(ctx context.Context, email, password string) (api.User, error) {
	f.record("register")
	if f.RegisterErr != nil {
		return api.User{}, f.RegisterErr
	}
	if len(password) < 6 {
		return api.User{}, api.ErrWeakPassword
	}

	f.mu.Lock()
	if _, exists := f.passwords[email]; exists {
		f.mu.Unlock()
		return api.User{}, &api.RegistrationRejectedError{Detail: "REGISTER_USER_ALREADY_EXISTS"}
	}
	f.passwords[email] = password
	f.hashes[email] = "hash-" + uuid.NewString()
	f.tokens[uuid.NewString()] = email
	f.mu.Unlock()

	return f.Login(ctx, email, password)
}

// FetchProfile implements the backend.
func (f *FakeAPI) FetchProfile(ctx context.Context, token string) (api.Profile, error) {
	f.record("fetchProfile")
	if f.FetchProfileErr != nil {
		return api.Profile{}, f.FetchProfileErr
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	email, ok := f.tokens[token]
	if !ok {
		return api.Profile{}, &api.ProfileUnavailableError{Detail: "Could not validate credentials"}
	}
	return api.Profile{Email: email, Token: f.hashes[email]}, nil
}

// FetchTasks implements the backend.
func (f *FakeAPI) FetchTasks(ctx context.Context, token string) ([]api.Task, int, error) {
	f.record("fetchTasks")
	if f.FetchTasksErr != nil {
		return nil, 0, f.FetchTasksErr
	}
	if f.FetchTasksStatus != 0 && f.FetchTasksStatus != http.StatusOK {
		return nil, f.FetchTasksStatus, nil
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	if _, ok := f.tokens[token]; !ok {
		return nil, http.StatusUnauthorized, nil
	}
	out := make([]api.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, http.StatusOK, nil
}

// UpdateTask implements the backend.
func (f *FakeAPI) UpdateTask(ctx context.Context, token, id string, rec api.TaskRecord) error {
	f.record("updateTask")
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tokens[token]; !ok {
		return &api.StatusError{Op: "update task", Code: http.StatusUnauthorized}
	}
	f.LastUpdate.ID = id
	f.LastUpdate.Record = rec

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i].Num = rec.Num
			f.tasks[i].Title = rec.Title
			f.tasks[i].Description = rec.Description
			f.tasks[i].Status = rec.Status
			return nil
		}
	}
	return &api.StatusError{Op: "update task", Code: http.StatusNotFound}
}

// DeleteTask implements the backend.
func (f *FakeAPI) DeleteTask(ctx context.Context, token, id string) error {
	f.record("deleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tokens[token]; !ok {
		return &api.StatusError{Op: "delete task", Code: http.StatusUnauthorized}
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return &api.StatusError{Op: "delete task", Code: http.StatusNotFound}
}
